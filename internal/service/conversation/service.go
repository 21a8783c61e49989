// Package conversation orchestrates a single chat turn: classify the
// message, decide whether to open the lead-capture flow, step the capture
// state machine when one is active, and otherwise proxy the message to the
// completion service.
package conversation

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/orelIL123/gpt-chat-live/internal/analysis/intent"
	"github.com/orelIL123/gpt-chat-live/internal/model/chat"
	"github.com/orelIL123/gpt-chat-live/internal/model/client"
	"github.com/orelIL123/gpt-chat-live/internal/service/capture"
	"github.com/orelIL123/gpt-chat-live/internal/store"
)

// ErrValidation marks a request missing its required fields. Handlers map
// it to a client error, everything else to a server error.
var ErrValidation = errors.New("message and client_id are required")

const (
	replyProviderDown = "מצטער, נתקלתי בתקלה רגעית. אפשר לנסות שוב בעוד רגע?"
	replyNoCompleter  = "מצטער, אני לא זמין כרגע לשיחה חופשית. אפשר להשאיר פרטים ונציג יחזור אליך 🙂"
)

// Completer is the black-box chat-completion service.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, history []chat.Message, message string) (string, error)
}

// Notifier delivers a captured lead. Failure is never fatal to the flow.
type Notifier interface {
	Send(ctx context.Context, lead *chat.LeadRecord) error
}

// Dependencies are the injected collaborators. Completer and Notifier may
// be nil; the service degrades gracefully without them.
type Dependencies struct {
	Completer Completer
	Store     store.ConversationStore
	Notifier  Notifier
	Logger    *zap.Logger
	Clock     func() time.Time
}

// Options tune the orchestrator's policy.
type Options struct {
	Policy            intent.TriggerPolicy
	CompletionTimeout time.Duration
	NotifyTimeout     time.Duration
}

// Service handles conversation turns. Stateless across requests: capture
// state and history arrive with each request and leave with each response.
type Service struct {
	completer         Completer
	store             store.ConversationStore
	notifier          Notifier
	policy            intent.TriggerPolicy
	completionTimeout time.Duration
	notifyTimeout     time.Duration
	logger            *zap.Logger
	now               func() time.Time
}

// NewService wires the orchestrator.
func NewService(deps Dependencies, opts Options) *Service {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if opts.CompletionTimeout <= 0 {
		opts.CompletionTimeout = 10 * time.Second
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = 10 * time.Second
	}
	if len(opts.Policy.Qualifying) == 0 {
		opts.Policy = intent.DefaultPolicy()
	}
	return &Service{
		completer:         deps.Completer,
		store:             deps.Store,
		notifier:          deps.Notifier,
		policy:            opts.Policy,
		completionTimeout: opts.CompletionTimeout,
		notifyTimeout:     opts.NotifyTimeout,
		logger:            deps.Logger,
		now:               deps.Clock,
	}
}

// TurnRequest is one inbound widget message plus the round-tripped state.
type TurnRequest struct {
	ClientID       string
	Message        string
	History        []chat.Message
	State          chat.CaptureState
	CapturedName   string
	LeadIntent     intent.Category
	LeadConfidence int
}

// TurnResult is everything the widget needs to render the turn and carry
// state into the next one.
type TurnResult struct {
	Reply           string
	State           chat.CaptureState
	Intent          intent.Category
	Confidence      int
	ShouldCapture   bool
	CapturedName    string
	CapturedContact string
	Cancelled       bool
	LeadID          string
	Warning         string
}

// HandleTurn processes one message end to end.
func (s *Service) HandleTurn(ctx context.Context, req TurnRequest) (TurnResult, error) {
	if strings.TrimSpace(req.Message) == "" || strings.TrimSpace(req.ClientID) == "" {
		return TurnResult{}, ErrValidation
	}

	cfg := s.clientConfig(ctx, req.ClientID)

	state := req.State
	if state.Terminal() {
		state = chat.CaptureIdle
	}

	if state.Active() {
		return s.captureTurn(ctx, cfg, req, state), nil
	}
	return s.chatTurn(ctx, cfg, req), nil
}

// clientConfig fetches the tenant brain, falling back to defaults for
// unknown clients or store failures. A broken store must not break chat.
func (s *Service) clientConfig(ctx context.Context, clientID string) client.Config {
	cfg, err := s.store.GetClient(ctx, clientID)
	if errors.Is(err, store.ErrNotFound) {
		return client.Default(clientID)
	}
	if err != nil {
		s.logger.Warn("client config fetch failed, using defaults",
			zap.String("client_id", clientID), zap.Error(err))
		return client.Default(clientID)
	}
	return cfg.Normalize()
}

// captureTurn advances the capture state machine and performs the submit
// side effects: persist the lead, then notify.
func (s *Service) captureTurn(ctx context.Context, cfg client.Config, req TurnRequest, state chat.CaptureState) TurnResult {
	category := req.LeadIntent
	if category == "" {
		category = intent.GeneralInquiry
	}

	outcome := capture.Step(capture.Context{
		ClientID:   req.ClientID,
		State:      state,
		Name:       req.CapturedName,
		Intent:     category,
		Confidence: req.LeadConfidence,
		History:    req.History,
	}, req.Message, s.now())

	res := TurnResult{
		Reply:           outcome.Reply,
		State:           outcome.State,
		Intent:          category,
		Confidence:      req.LeadConfidence,
		CapturedName:    outcome.Name,
		CapturedContact: outcome.Contact,
		Cancelled:       outcome.Cancelled,
	}
	if outcome.State.Terminal() {
		res.State = chat.CaptureIdle
	}

	if !outcome.Submitted {
		return res
	}

	lead := outcome.Lead
	lead.TargetEmail = cfg.LeadTargetEmail
	if err := s.store.SaveLead(ctx, lead); err != nil {
		// The lead is lost; tell the user instead of trapping them in a
		// retry loop, and leave no ambiguous in-between state.
		s.logger.Error("lead persistence failed",
			zap.String("client_id", req.ClientID), zap.Error(err))
		res.Reply = capture.SubmitFailedMessage()
		res.CapturedContact = ""
		return res
	}
	res.LeadID = lead.ID

	if warn := s.dispatchNotification(ctx, lead); warn != "" {
		res.Warning = warn
	}
	return res
}

// dispatchNotification sends the lead to the configured channels.
// Persistence and notification are independent failure domains: the lead
// counts as saved even when every channel fails.
func (s *Service) dispatchNotification(ctx context.Context, lead *chat.LeadRecord) string {
	if s.notifier == nil {
		return ""
	}

	nctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	if err := s.notifier.Send(nctx, lead); err != nil {
		s.logger.Warn("lead notification failed",
			zap.String("lead_id", lead.ID),
			zap.String("client_id", lead.ClientID),
			zap.Error(err))
		return "lead saved but notification delivery failed"
	}
	return ""
}

// chatTurn classifies the message, checks the capture trigger before and
// after the model reply, and proxies to the completion service in between.
func (s *Service) chatTurn(ctx context.Context, cfg client.Config, req TurnRequest) TurnResult {
	result := intent.Classify(req.Message)
	res := TurnResult{
		State:      chat.CaptureIdle,
		Intent:     result.Intent,
		Confidence: result.Confidence,
	}

	if s.policy.ShouldCapture(req.Message, result, req.History) {
		res.ShouldCapture = true
		res.State = chat.CaptureAskingName
		res.Reply = result.SuggestedResponse
		return res
	}

	if s.completer == nil {
		res.Reply = replyNoCompleter
		return res
	}

	cctx, cancel := context.WithTimeout(ctx, s.completionTimeout)
	defer cancel()

	reply, err := s.completer.Complete(cctx, cfg.SystemPrompt, req.History, req.Message)
	if err != nil {
		s.logger.Warn("completion service failed",
			zap.String("client_id", req.ClientID), zap.Error(err))
		res.Reply = replyProviderDown
		return res
	}
	res.Reply = reply

	if err := s.store.AppendHistory(ctx, req.ClientID,
		chat.UserMessage(req.Message), chat.AssistantMessage(reply)); err != nil {
		// History is client-carried; the server-side copy is an audit
		// trail, so a failed append does not fail the turn.
		s.logger.Warn("history append failed",
			zap.String("client_id", req.ClientID), zap.Error(err))
	}

	// Re-evaluate the trigger with the model's reply in view: its phrasing
	// may itself offer human help. Only the flag is raised here; the state
	// flips once the user answers the offer on the next turn.
	extended := make([]chat.Message, 0, len(req.History)+2)
	extended = append(extended, req.History...)
	extended = append(extended, chat.UserMessage(req.Message), chat.AssistantMessage(reply))
	if s.policy.ShouldCapture(req.Message, result, extended) || intent.OffersHumanHelp(reply) {
		res.ShouldCapture = true
	}

	return res
}
