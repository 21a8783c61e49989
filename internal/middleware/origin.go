// Package middleware holds the cross-origin gate. Unlike a static CORS
// middleware, the allow-list lives in the tenant brain, so the gate is
// applied inside handlers once the client id is known.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/orelIL123/gpt-chat-live/internal/model/client"
	"github.com/orelIL123/gpt-chat-live/internal/store"

	"github.com/orelIL123/gpt-chat-live/pkg/utils"
)

// ClientReader is the slice of the store the gate needs.
type ClientReader interface {
	GetClient(ctx context.Context, clientID string) (client.Config, error)
}

// OriginGate checks the request origin against the tenant's allowed list
// and sets the CORS response headers on allow.
type OriginGate struct {
	clients        ClientReader
	allowLocalhost bool
	logger         *zap.Logger
}

// NewOriginGate builds the gate. allowLocalhost opens http://localhost
// origins for development convenience.
func NewOriginGate(clients ClientReader, allowLocalhost bool, logger *zap.Logger) *OriginGate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OriginGate{clients: clients, allowLocalhost: allowLocalhost, logger: logger}
}

// Apply checks the origin and writes CORS headers or a denial response.
// Returns false when the handler must stop: the response has already been
// written. Requests without an Origin header pass through unharmed; they
// are server-to-server calls, not browsers.
func (g *OriginGate) Apply(w http.ResponseWriter, r *http.Request, clientID string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if clientID == "" {
		utils.RespondError(w, http.StatusBadRequest, "client_id is required")
		return false
	}

	if g.allowLocalhost && (origin == "http://localhost:3000" || origin == "http://127.0.0.1:3000") {
		setCORSHeaders(w, origin)
		return true
	}

	cfg, err := g.clients.GetClient(r.Context(), clientID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		g.logger.Error("origin check failed",
			zap.String("client_id", clientID), zap.String("origin", origin), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "internal server error")
		return false
	}

	for _, allowed := range cfg.AllowedOrigins {
		if allowed == origin {
			setCORSHeaders(w, origin)
			return true
		}
	}

	g.logger.Warn("origin not allowed",
		zap.String("client_id", clientID), zap.String("origin", origin))
	utils.RespondError(w, http.StatusForbidden, "origin not allowed")
	return false
}

// Preflight answers OPTIONS requests after a successful Apply.
func (g *OriginGate) Preflight(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}

func setCORSHeaders(w http.ResponseWriter, origin string) {
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}
