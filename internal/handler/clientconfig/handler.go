package clientconfig

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/orelIL123/gpt-chat-live/internal/middleware"
	"github.com/orelIL123/gpt-chat-live/internal/store"
	"github.com/orelIL123/gpt-chat-live/pkg/utils"
)

// Handler serves the public slice of a tenant brain to the widget.
type Handler struct {
	store  store.ConversationStore
	gate   *middleware.OriginGate
	logger *zap.Logger
}

// New creates the client-config handler.
func New(st store.ConversationStore, gate *middleware.OriginGate, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: st, gate: gate, logger: logger}
}

// RegisterRoutes mounts the config routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/client_config", h.handleGet)
	r.Options("/client_config", h.handlePreflight)
}

type configResponse struct {
	ClientID            string   `json:"client_id"`
	SystemPrompt        string   `json:"system_prompt"`
	WelcomeMessage      string   `json:"welcome_message"`
	OnboardingQuestions []string `json:"onboarding_questions"`
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")

	if !h.gate.Apply(w, r, clientID) {
		return
	}

	if clientID == "" {
		utils.RespondError(w, http.StatusBadRequest, "missing client_id")
		return
	}

	cfg, err := h.store.GetClient(r.Context(), clientID)
	if errors.Is(err, store.ErrNotFound) {
		// The widget falls back to built-in defaults on 404.
		utils.RespondJSON(w, http.StatusNotFound, map[string]string{
			"error":     "client not found",
			"client_id": clientID,
		})
		return
	}
	if err != nil {
		h.logger.Error("client config fetch failed",
			zap.String("client_id", clientID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	cfg = cfg.Normalize()
	questions := cfg.OnboardingQuestions
	if questions == nil {
		questions = []string{}
	}
	utils.RespondJSON(w, http.StatusOK, configResponse{
		ClientID:            clientID,
		SystemPrompt:        cfg.SystemPrompt,
		WelcomeMessage:      cfg.WelcomeMessage,
		OnboardingQuestions: questions,
	})
}

func (h *Handler) handlePreflight(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if !h.gate.Apply(w, r, clientID) {
		return
	}
	h.gate.Preflight(w)
}
