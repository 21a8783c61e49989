package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/orelIL123/gpt-chat-live/internal/analysis/intent"
	"github.com/orelIL123/gpt-chat-live/internal/config"
	"github.com/orelIL123/gpt-chat-live/internal/handler"
	"github.com/orelIL123/gpt-chat-live/internal/logger"
	"github.com/orelIL123/gpt-chat-live/internal/middleware"
	"github.com/orelIL123/gpt-chat-live/internal/model/client"
	"github.com/orelIL123/gpt-chat-live/internal/notify"
	"github.com/orelIL123/gpt-chat-live/internal/service/ai"
	"github.com/orelIL123/gpt-chat-live/internal/service/conversation"
	"github.com/orelIL123/gpt-chat-live/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer log.Sync() //nolint:errcheck

	conversationStore := buildStore(ctx, cfg, log)

	var completer conversation.Completer
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI)
		if err != nil {
			log.Warn("failed to initialize completion service, continuing without it", zap.Error(err))
		} else {
			completer = aiService
			log.Info("completion service initialized", zap.String("model", cfg.AI.Model))
		}
	} else {
		log.Info("completion credentials not configured, free chat disabled")
	}

	notifier := buildNotifier(cfg, log)

	policy := intent.DefaultPolicy()
	policy.MinConfidence = cfg.Lead.MinConfidence

	conversationSvc := conversation.NewService(conversation.Dependencies{
		Completer: completer,
		Store:     conversationStore,
		Notifier:  notifier,
		Logger:    log,
	}, conversation.Options{
		Policy:            policy,
		CompletionTimeout: cfg.Lead.CompletionTimeout,
		NotifyTimeout:     cfg.Lead.NotifyTimeout,
	})

	gate := middleware.NewOriginGate(conversationStore, os.Getenv("APP_ENV") != "production", log)

	router := handler.NewRouter(handler.Deps{
		Conversation:  conversationSvc,
		Store:         conversationStore,
		Notifier:      notifier,
		Gate:          gate,
		NotifyTimeout: cfg.Lead.NotifyTimeout,
		Logger:        log,
	})

	startServer(ctx, cfg.Server, router, log)
}

// buildStore picks Redis when configured and reachable, otherwise the
// seeded in-memory store. A missing store must never prevent startup.
func buildStore(ctx context.Context, cfg *config.Config, log *zap.Logger) store.ConversationStore {
	if cfg.Redis.Addr == "" {
		log.Info("REDIS_ADDR not set, using in-memory store with seed tenants")
		return store.NewMemory(client.Seed()...)
	}

	redisStore := store.NewRedis(store.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := redisStore.Ping(pingCtx); err != nil {
		log.Warn("redis unreachable, falling back to in-memory store", zap.Error(err))
		return store.NewMemory(client.Seed()...)
	}

	log.Info("using redis conversation store", zap.String("addr", cfg.Redis.Addr))
	return redisStore
}

// buildNotifier assembles the configured channels, each wrapped with the
// retry policy. Returns nil when no channel is configured.
func buildNotifier(cfg *config.Config, log *zap.Logger) notify.Notifier {
	var channels notify.Fanout

	email := notify.NewEmail(notify.EmailConfig{
		Host:      cfg.Email.Host,
		Port:      cfg.Email.Port,
		Username:  cfg.Email.Username,
		Password:  cfg.Email.Password,
		FromName:  cfg.Email.FromName,
		UseTLS:    cfg.Email.UseTLS,
		DefaultTo: cfg.Email.DefaultTo,
	})
	if email.Configured() {
		channels = append(channels, notify.WithRetry(email, cfg.Lead.MaxRetryAttempts, cfg.Lead.RetryDelayBase, log))
		log.Info("email notification channel enabled", zap.String("host", cfg.Email.Host))
	}

	if cfg.Slack.WebhookURL != "" {
		slack := notify.NewSlack(cfg.Slack.WebhookURL, cfg.Lead.NotifyTimeout)
		channels = append(channels, notify.WithRetry(slack, cfg.Lead.MaxRetryAttempts, cfg.Lead.RetryDelayBase, log))
		log.Info("slack notification channel enabled")
	}

	if len(channels) == 0 {
		log.Warn("no notification channels configured, leads will only be persisted")
		return nil
	}
	return channels
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, log *zap.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info("chatbot backend listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
