// Package store persists tenant brains, conversation history and captured
// leads. Two implementations exist: an in-memory store for development and
// tests, and a Redis-backed store for deployments.
package store

import (
	"context"
	"errors"

	"github.com/orelIL123/gpt-chat-live/internal/model/chat"
	"github.com/orelIL123/gpt-chat-live/internal/model/client"
)

// ErrNotFound is returned when a client id has no stored brain.
var ErrNotFound = errors.New("client not found")

// ConversationStore is the document-store surface the core depends on.
// Writes use get-then-merge, last-write-wins semantics; concurrent turns
// from the same end user racing each other is an accepted hazard.
type ConversationStore interface {
	GetClient(ctx context.Context, clientID string) (client.Config, error)
	PutClient(ctx context.Context, cfg client.Config) error
	MergeClient(ctx context.Context, clientID string, patch map[string]any) error
	AppendHistory(ctx context.Context, clientID string, msgs ...chat.Message) error
	SaveLead(ctx context.Context, lead *chat.LeadRecord) error
}
