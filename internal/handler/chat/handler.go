package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/orelIL123/gpt-chat-live/internal/analysis/intent"
	"github.com/orelIL123/gpt-chat-live/internal/middleware"
	chatModel "github.com/orelIL123/gpt-chat-live/internal/model/chat"
	"github.com/orelIL123/gpt-chat-live/internal/service/conversation"
	"github.com/orelIL123/gpt-chat-live/pkg/utils"
)

// Handler exposes the chat endpoint the widget talks to.
type Handler struct {
	svc    *conversation.Service
	gate   *middleware.OriginGate
	logger *zap.Logger
}

// New creates the chat handler.
func New(svc *conversation.Service, gate *middleware.OriginGate, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, gate: gate, logger: logger}
}

// RegisterRoutes mounts the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Options("/chat", h.handlePreflight)
}

type chatRequest struct {
	Message        string              `json:"message"`
	ClientID       string              `json:"client_id"`
	History        []chatModel.Message `json:"history"`
	CaptureState   string              `json:"capture_state"`
	CapturedName   string              `json:"captured_name"`
	LeadIntent     string              `json:"lead_intent"`
	LeadConfidence int                 `json:"lead_confidence"`
}

type chatResponse struct {
	Reply                string `json:"reply"`
	CaptureState         string `json:"capture_state"`
	Intent               string `json:"intent,omitempty"`
	Confidence           int    `json:"confidence"`
	ShouldCaptureLead    bool   `json:"should_capture_lead"`
	CapturedName         string `json:"captured_name,omitempty"`
	CapturedContact      string `json:"captured_contact,omitempty"`
	LeadCaptureCancelled bool   `json:"lead_capture_cancelled,omitempty"`
	LeadID               string `json:"lead_id,omitempty"`
	Warning              string `json:"warning,omitempty"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !h.gate.Apply(w, r, payload.ClientID) {
		return
	}

	if payload.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}
	if payload.ClientID == "" {
		utils.RespondError(w, http.StatusBadRequest, "client_id is required")
		return
	}

	result, err := h.svc.HandleTurn(r.Context(), conversation.TurnRequest{
		ClientID:       payload.ClientID,
		Message:        payload.Message,
		History:        payload.History,
		State:          chatModel.ParseCaptureState(payload.CaptureState),
		CapturedName:   payload.CapturedName,
		LeadIntent:     intent.Category(payload.LeadIntent),
		LeadConfidence: payload.LeadConfidence,
	})
	if errors.Is(err, conversation.ErrValidation) {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("chat turn failed",
			zap.String("client_id", payload.ClientID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	utils.RespondJSON(w, http.StatusOK, chatResponse{
		Reply:                result.Reply,
		CaptureState:         string(result.State),
		Intent:               string(result.Intent),
		Confidence:           result.Confidence,
		ShouldCaptureLead:    result.ShouldCapture,
		CapturedName:         result.CapturedName,
		CapturedContact:      result.CapturedContact,
		LeadCaptureCancelled: result.Cancelled,
		LeadID:               result.LeadID,
		Warning:              result.Warning,
	})
}

func (h *Handler) handlePreflight(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("client_id")
	if !h.gate.Apply(w, r, clientID) {
		return
	}
	h.gate.Preflight(w)
}
