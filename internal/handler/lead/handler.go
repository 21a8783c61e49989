package lead

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/orelIL123/gpt-chat-live/internal/analysis/intent"
	"github.com/orelIL123/gpt-chat-live/internal/middleware"
	chatModel "github.com/orelIL123/gpt-chat-live/internal/model/chat"
	"github.com/orelIL123/gpt-chat-live/internal/service/capture"
	"github.com/orelIL123/gpt-chat-live/internal/store"
	"github.com/orelIL123/gpt-chat-live/pkg/utils"
)

// Notifier delivers the saved lead; failure is logged, not returned.
type Notifier interface {
	Send(ctx context.Context, lead *chatModel.LeadRecord) error
}

// Handler exposes direct lead submission, used by widgets that collect the
// details themselves instead of going through the chat flow.
type Handler struct {
	store         store.ConversationStore
	notifier      Notifier
	gate          *middleware.OriginGate
	notifyTimeout time.Duration
	logger        *zap.Logger
}

// New creates the lead handler.
func New(st store.ConversationStore, notifier Notifier, gate *middleware.OriginGate, notifyTimeout time.Duration, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifyTimeout <= 0 {
		notifyTimeout = 10 * time.Second
	}
	return &Handler{store: st, notifier: notifier, gate: gate, notifyTimeout: notifyTimeout, logger: logger}
}

// RegisterRoutes mounts the lead routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/capture_lead", h.handleCapture)
	r.Options("/capture_lead", h.handlePreflight)
}

type captureRequest struct {
	Name       string              `json:"name"`
	Contact    string              `json:"contact"`
	ClientID   string              `json:"client_id"`
	Intent     string              `json:"intent"`
	Confidence int                 `json:"confidence"`
	History    []chatModel.Message `json:"conversation_history"`
	LeadScore  int                 `json:"lead_score"`
}

type captureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	LeadID  string `json:"lead_id,omitempty"`
}

func (h *Handler) handleCapture(w http.ResponseWriter, r *http.Request) {
	var payload captureRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.gate.Apply(w, r, payload.ClientID) {
		return
	}

	if payload.Name == "" || payload.Contact == "" || payload.ClientID == "" {
		utils.RespondError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	category := intent.Category(payload.Intent)
	if category == "" {
		category = intent.GeneralInquiry
	}
	score := payload.LeadScore
	if score == 0 {
		score = intent.Score(category, payload.Confidence, len(payload.History))
	}

	record := &chatModel.LeadRecord{
		ClientID:   payload.ClientID,
		Name:       payload.Name,
		Contact:    payload.Contact,
		Intent:     string(category),
		Confidence: payload.Confidence,
		LeadScore:  score,
		History:    payload.History,
		Timestamp:  time.Now().UTC(),
	}
	if cfg, err := h.store.GetClient(r.Context(), payload.ClientID); err == nil {
		record.TargetEmail = cfg.LeadTargetEmail
	}

	if err := h.store.SaveLead(r.Context(), record); err != nil {
		h.logger.Error("lead persistence failed",
			zap.String("client_id", payload.ClientID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.notifier != nil {
		ctx, cancel := context.WithTimeout(r.Context(), h.notifyTimeout)
		defer cancel()
		if err := h.notifier.Send(ctx, record); err != nil {
			h.logger.Warn("lead notification failed",
				zap.String("lead_id", record.ID), zap.Error(err))
		}
	}

	utils.RespondJSON(w, http.StatusOK, captureResponse{
		Success: true,
		Message: capture.ConfirmationMessage(category),
		LeadID:  record.ID,
	})
}

func (h *Handler) handlePreflight(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if !h.gate.Apply(w, r, clientID) {
		return
	}
	h.gate.Preflight(w)
}
