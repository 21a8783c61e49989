package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orelIL123/gpt-chat-live/internal/model/client"
	"github.com/orelIL123/gpt-chat-live/internal/store"
)

type brokenReader struct{}

func (brokenReader) GetClient(context.Context, string) (client.Config, error) {
	return client.Config{}, errors.New("store down")
}

func seededStore() *store.Memory {
	return store.NewMemory(client.Config{
		ClientID:       "shira_tours",
		AllowedOrigins: []string{"https://shira-tours.example.com"},
	})
}

func applyGate(t *testing.T, gate *OriginGate, origin, clientID string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
	if origin != "" {
		r.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	return w, gate.Apply(w, r, clientID)
}

func TestApplyNoOriginPassesThrough(t *testing.T) {
	gate := NewOriginGate(seededStore(), false, nil)

	w, ok := applyGate(t, gate, "", "shira_tours")
	if !ok {
		t.Fatal("server-to-server calls without an Origin header must pass")
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("no CORS headers expected, got %q", got)
	}
}

func TestApplyAllowedOrigin(t *testing.T) {
	gate := NewOriginGate(seededStore(), false, nil)

	w, ok := applyGate(t, gate, "https://shira-tours.example.com", "shira_tours")
	if !ok {
		t.Fatal("configured origin must be allowed")
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://shira-tours.example.com" {
		t.Fatalf("Allow-Origin = %q", got)
	}
}

func TestApplyForbiddenOrigin(t *testing.T) {
	gate := NewOriginGate(seededStore(), false, nil)

	w, ok := applyGate(t, gate, "https://evil.example.com", "shira_tours")
	if ok {
		t.Fatal("unlisted origin must be rejected")
	}
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestApplyUnknownClientRejectsBrowserOrigins(t *testing.T) {
	gate := NewOriginGate(seededStore(), false, nil)

	w, ok := applyGate(t, gate, "https://shira-tours.example.com", "missing_client")
	if ok {
		t.Fatal("unknown client has no allow-list, origin must be rejected")
	}
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestApplyLocalhostInDevelopment(t *testing.T) {
	gate := NewOriginGate(seededStore(), true, nil)

	_, ok := applyGate(t, gate, "http://localhost:3000", "shira_tours")
	if !ok {
		t.Fatal("localhost must be allowed in development mode")
	}

	gate = NewOriginGate(seededStore(), false, nil)
	w, ok := applyGate(t, gate, "http://localhost:3000", "shira_tours")
	if ok {
		t.Fatal("localhost must be rejected in production mode")
	}
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestApplyMissingClientID(t *testing.T) {
	gate := NewOriginGate(seededStore(), false, nil)

	w, ok := applyGate(t, gate, "https://shira-tours.example.com", "")
	if ok {
		t.Fatal("cross-origin request without a client id must be rejected")
	}
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestApplyStoreFailure(t *testing.T) {
	gate := NewOriginGate(brokenReader{}, false, nil)

	w, ok := applyGate(t, gate, "https://shira-tours.example.com", "shira_tours")
	if ok {
		t.Fatal("store failure must not allow the origin")
	}
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}
