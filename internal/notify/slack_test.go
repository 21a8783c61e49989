package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlackSendPostsTextAndBlocks(t *testing.T) {
	var captured []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		captured, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	slack := NewSlack(srv.URL, time.Second)
	lead := testLead()
	lead.LeadScore = 90

	require.NoError(t, slack.Send(context.Background(), lead))

	var payload struct {
		Text   string `json:"text"`
		Blocks []struct {
			Type string `json:"type"`
		} `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal(captured, &payload))
	assert.Contains(t, payload.Text, "ליד חדש")
	assert.Contains(t, payload.Text, "Dana Cohen")
	require.Len(t, payload.Blocks, 3)
	assert.Equal(t, "section", payload.Blocks[0].Type)
}

func TestSlackSendRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	slack := NewSlack(srv.URL, time.Second)
	err := slack.Send(context.Background(), testLead())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestSlackSendHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	slack := NewSlack(srv.URL, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := slack.Send(ctx, testLead())
	require.Error(t, err)
}
