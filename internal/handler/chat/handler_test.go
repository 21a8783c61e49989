package chat

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/orelIL123/gpt-chat-live/internal/middleware"
	"github.com/orelIL123/gpt-chat-live/internal/model/client"
	"github.com/orelIL123/gpt-chat-live/internal/service/conversation"
	"github.com/orelIL123/gpt-chat-live/internal/store"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	mem := store.NewMemory(client.Config{
		ClientID:       "shira_tours",
		SystemPrompt:   "prompt",
		AllowedOrigins: []string{"https://shira-tours.example.com"},
	})
	svc := conversation.NewService(conversation.Dependencies{Store: mem}, conversation.Options{})
	gate := middleware.NewOriginGate(mem, true, nil)

	r := chi.NewRouter()
	New(svc, gate, nil).RegisterRoutes(r)
	return r
}

func postChat(t *testing.T, router http.Handler, body map[string]any, origin string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleChatHappyPath(t *testing.T) {
	router := newTestRouter(t)

	w := postChat(t, router, map[string]any{
		"message":   "אני רוצה לדבר עם נציג",
		"client_id": "shira_tours",
	}, "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Reply             string `json:"reply"`
		CaptureState      string `json:"capture_state"`
		Intent            string `json:"intent"`
		ShouldCaptureLead bool   `json:"should_capture_lead"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Intent != "human_assistance" || !resp.ShouldCaptureLead {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.CaptureState != "asking_name" {
		t.Fatalf("capture_state = %q, want asking_name", resp.CaptureState)
	}
	if resp.Reply == "" {
		t.Fatal("expected a reply")
	}
}

func TestHandleChatCaptureRoundTrip(t *testing.T) {
	router := newTestRouter(t)

	w := postChat(t, router, map[string]any{
		"message":         "Dana Cohen",
		"client_id":       "shira_tours",
		"capture_state":   "asking_name",
		"lead_intent":     "pricing",
		"lead_confidence": 80,
	}, "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		CaptureState string `json:"capture_state"`
		CapturedName string `json:"captured_name"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.CaptureState != "asking_contact" || resp.CapturedName != "Dana Cohen" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHandleChatValidation(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing message", map[string]any{"client_id": "shira_tours"}},
		{"missing client_id", map[string]any{"message": "שלום"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postChat(t, router, tt.body, ""); w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestHandleChatMalformedBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandleChatOriginGate(t *testing.T) {
	router := newTestRouter(t)

	w := postChat(t, router, map[string]any{
		"message":   "שלום",
		"client_id": "shira_tours",
	}, "https://evil.example.com")
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}

	w = postChat(t, router, map[string]any{
		"message":   "שלום",
		"client_id": "shira_tours",
	}, "https://shira-tours.example.com")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://shira-tours.example.com" {
		t.Fatalf("Allow-Origin = %q", got)
	}
}

func TestHandleChatPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/chat?client_id=shira_tours", nil)
	req.Header.Set("Origin", "https://shira-tours.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Fatal("expected CORS method headers on preflight")
	}
}
