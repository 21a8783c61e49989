// Package config loads all service configuration from the environment,
// with viper supplying defaults and godotenv loading a local .env file.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config aggregates every tunable of the service.
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Redis   RedisConfig
	Email   EmailConfig
	Slack   SlackConfig
	Lead    LeadConfig
	Logging LoggingConfig
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

// AIConfig describes the chat-completion backend.
type AIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Region      string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Enabled reports whether the required credentials are present.
func (c AIConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

// NewChatModel creates a model instance from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("completion credentials missing: set AI_API_KEY and AI_MODEL")
	}

	cfg := &ark.ChatModelConfig{
		BaseURL: c.BaseURL,
		Region:  c.Region,
		APIKey:  c.APIKey,
		Model:   c.Model,
	}
	if c.Temperature > 0 {
		temperature := float32(c.Temperature)
		cfg.Temperature = &temperature
	}
	if c.MaxTokens > 0 {
		maxTokens := c.MaxTokens
		cfg.MaxTokens = &maxTokens
	}

	return ark.NewChatModel(ctx, cfg)
}

// RedisConfig describes the conversation store backend. An empty Addr
// selects the seeded in-memory store instead.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// EmailConfig describes the SMTP notification channel.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
	UseTLS   bool
	// DefaultTo receives leads for tenants without their own target email.
	DefaultTo string
}

// SlackConfig describes the chat-ops notification channel.
type SlackConfig struct {
	WebhookURL string
}

// LeadConfig holds the lead-capture policy values.
type LeadConfig struct {
	// MinConfidence gates confidence-based capture triggering.
	MinConfidence int
	// MaxRetryAttempts caps notification delivery attempts.
	MaxRetryAttempts int
	// RetryDelayBase is the first backoff delay; it doubles per attempt.
	RetryDelayBase time.Duration
	// NotifyTimeout bounds each outbound notification call.
	NotifyTimeout time.Duration
	// CompletionTimeout bounds each completion-service call.
	CompletionTimeout time.Duration
}

// LoggingConfig selects log level and encoding.
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment. A .env file is honoured
// when present but never required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("ai_base_url", "https://ark.cn-beijing.volces.com/api/v3")
	v.SetDefault("ai_region", "cn-beijing")
	v.SetDefault("ai_timeout", "10s")
	v.SetDefault("redis_db", 0)
	v.SetDefault("smtp_host", "smtp.zoho.com")
	v.SetDefault("smtp_port", 587)
	v.SetDefault("smtp_use_tls", true)
	v.SetDefault("smtp_from_name", "Vegos Chatbot")
	v.SetDefault("lead_min_confidence", 50)
	v.SetDefault("max_retry_attempts", 3)
	v.SetDefault("retry_delay_base", "1s")
	v.SetDefault("notify_timeout", "10s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	server, err := serverConfig(v)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: server,
		AI: AIConfig{
			APIKey:      v.GetString("ai_api_key"),
			Model:       v.GetString("ai_model"),
			BaseURL:     v.GetString("ai_base_url"),
			Region:      v.GetString("ai_region"),
			Temperature: v.GetFloat64("ai_temperature"),
			MaxTokens:   v.GetInt("ai_max_tokens"),
			Timeout:     v.GetDuration("ai_timeout"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
		Email: EmailConfig{
			Host:      v.GetString("smtp_host"),
			Port:      v.GetInt("smtp_port"),
			Username:  v.GetString("smtp_username"),
			Password:  v.GetString("smtp_password"),
			FromName:  v.GetString("smtp_from_name"),
			UseTLS:    v.GetBool("smtp_use_tls"),
			DefaultTo: v.GetString("lead_target_email"),
		},
		Slack: SlackConfig{
			WebhookURL: v.GetString("slack_webhook_url"),
		},
		Lead: LeadConfig{
			MinConfidence:     v.GetInt("lead_min_confidence"),
			MaxRetryAttempts:  v.GetInt("max_retry_attempts"),
			RetryDelayBase:    v.GetDuration("retry_delay_base"),
			NotifyTimeout:     v.GetDuration("notify_timeout"),
			CompletionTimeout: v.GetDuration("ai_timeout"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
	}

	if cfg.Lead.MinConfidence < 0 || cfg.Lead.MinConfidence > 100 {
		return nil, fmt.Errorf("LEAD_MIN_CONFIDENCE must be in [0,100], got %d", cfg.Lead.MinConfidence)
	}
	if cfg.Lead.MaxRetryAttempts < 1 {
		return nil, fmt.Errorf("MAX_RETRY_ATTEMPTS must be at least 1, got %d", cfg.Lead.MaxRetryAttempts)
	}

	return cfg, nil
}

func serverConfig(v *viper.Viper) (ServerConfig, error) {
	port := strings.TrimSpace(v.GetString("port"))
	if strings.Contains(port, ":") {
		// Allow ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}
	if port == "" || strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}
	return ServerConfig{Addr: ":" + port}, nil
}
