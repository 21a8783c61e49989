package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	chatHandler "github.com/orelIL123/gpt-chat-live/internal/handler/chat"
	configHandler "github.com/orelIL123/gpt-chat-live/internal/handler/clientconfig"
	leadHandler "github.com/orelIL123/gpt-chat-live/internal/handler/lead"
	"github.com/orelIL123/gpt-chat-live/internal/middleware"
	"github.com/orelIL123/gpt-chat-live/internal/service/conversation"
	"github.com/orelIL123/gpt-chat-live/internal/store"
	"github.com/orelIL123/gpt-chat-live/pkg/utils"
)

// Deps carries everything the router needs to build its handlers.
type Deps struct {
	Conversation  *conversation.Service
	Store         store.ConversationStore
	Notifier      leadHandler.Notifier
	Gate          *middleware.OriginGate
	NotifyTimeout time.Duration
	Logger        *zap.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	chatH := chatHandler.New(deps.Conversation, deps.Gate, deps.Logger)
	leadH := leadHandler.New(deps.Store, deps.Notifier, deps.Gate, deps.NotifyTimeout, deps.Logger)
	configH := configHandler.New(deps.Store, deps.Gate, deps.Logger)

	r.Route("/api", func(api chi.Router) {
		chatH.RegisterRoutes(api)
		leadH.RegisterRoutes(api)
		configH.RegisterRoutes(api)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// The embeddable widget script is served from the same origin as the
	// API so a single <script> tag is enough to install it.
	fileServer := http.FileServer(http.Dir("public"))
	r.Handle("/widget.js", fileServer)

	return r
}
