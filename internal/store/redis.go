package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/orelIL123/gpt-chat-live/internal/model/chat"
	"github.com/orelIL123/gpt-chat-live/internal/model/client"
)

const (
	brainKeyPrefix   = "brains:"
	historyKeyPrefix = "history:"
	leadKeyPrefix    = "leads:"
	leadIndexPrefix  = "leads:index:"

	// historyMaxLen bounds the audit copy per client.
	historyMaxLen = 500
)

// Redis implements ConversationStore on top of a Redis instance. Brains
// and leads are stored as JSON documents; histories as lists.
type Redis struct {
	rdb *redis.Client
}

// RedisOptions configures the connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis builds the store. The connection is verified by Ping, not here.
func NewRedis(opts RedisOptions) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return &Redis{rdb: rdb}
}

// NewRedisFromClient wraps an existing client (used by tests with miniredis).
func NewRedisFromClient(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

// Ping verifies the connection.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.rdb.Close()
}

// GetClient fetches a brain document.
func (r *Redis) GetClient(ctx context.Context, clientID string) (client.Config, error) {
	raw, err := r.rdb.Get(ctx, brainKeyPrefix+clientID).Result()
	if errors.Is(err, redis.Nil) {
		return client.Config{}, ErrNotFound
	}
	if err != nil {
		return client.Config{}, fmt.Errorf("get brain %s: %w", clientID, err)
	}

	var cfg client.Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return client.Config{}, fmt.Errorf("decode brain %s: %w", clientID, err)
	}
	cfg.ClientID = clientID
	return cfg, nil
}

// PutClient stores or replaces a brain document.
func (r *Redis) PutClient(ctx context.Context, cfg client.Config) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode brain %s: %w", cfg.ClientID, err)
	}
	if err := r.rdb.Set(ctx, brainKeyPrefix+cfg.ClientID, raw, 0).Err(); err != nil {
		return fmt.Errorf("put brain %s: %w", cfg.ClientID, err)
	}
	return nil
}

// MergeClient applies a partial update with get-then-merge, last-write-wins
// semantics. No optimistic concurrency control: concurrent merges race.
func (r *Redis) MergeClient(ctx context.Context, clientID string, patch map[string]any) error {
	existing, err := r.GetClient(ctx, clientID)
	if errors.Is(err, ErrNotFound) {
		existing = client.Config{ClientID: clientID}
	} else if err != nil {
		return err
	}

	merged, err := mergeConfig(existing, patch)
	if err != nil {
		return fmt.Errorf("merge brain %s: %w", clientID, err)
	}
	return r.PutClient(ctx, merged)
}

// AppendHistory pushes turns onto the client's history list, trimmed to
// the most recent entries.
func (r *Redis) AppendHistory(ctx context.Context, clientID string, msgs ...chat.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(msgs))
	for _, msg := range msgs {
		raw, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("encode history message: %w", err)
		}
		values = append(values, raw)
	}

	key := historyKeyPrefix + clientID
	pipe := r.rdb.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, -historyMaxLen, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append history %s: %w", clientID, err)
	}
	return nil
}

// History reads back the stored conversation for a client.
func (r *Redis) History(ctx context.Context, clientID string) ([]chat.Message, error) {
	raw, err := r.rdb.LRange(ctx, historyKeyPrefix+clientID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history %s: %w", clientID, err)
	}
	msgs := make([]chat.Message, 0, len(raw))
	for _, item := range raw {
		var msg chat.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("decode history message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// SaveLead stores a lead document and indexes it under its client id.
func (r *Redis) SaveLead(ctx context.Context, lead *chat.LeadRecord) error {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.Timestamp.IsZero() {
		lead.Timestamp = time.Now().UTC()
	}

	raw, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("encode lead: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, leadKeyPrefix+lead.ID, raw, 0)
	pipe.RPush(ctx, leadIndexPrefix+lead.ClientID, lead.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save lead %s: %w", lead.ID, err)
	}
	return nil
}
