package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/orelIL123/gpt-chat-live/internal/model/chat"
	"github.com/orelIL123/gpt-chat-live/internal/model/client"
)

// Memory implements ConversationStore with mutex-guarded maps, suitable
// for development and tests.
type Memory struct {
	mu      sync.RWMutex
	clients map[string]client.Config
	history map[string][]chat.Message
	leads   []chat.LeadRecord
}

// NewMemory returns a Memory store preloaded with the supplied brains.
func NewMemory(seed ...client.Config) *Memory {
	clients := make(map[string]client.Config, len(seed))
	for _, cfg := range seed {
		clients[cfg.ClientID] = cfg
	}
	return &Memory{
		clients: clients,
		history: make(map[string][]chat.Message),
	}
}

// GetClient looks up a brain by client id.
func (m *Memory) GetClient(_ context.Context, clientID string) (client.Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg, ok := m.clients[clientID]
	if !ok {
		return client.Config{}, ErrNotFound
	}
	return cfg, nil
}

// PutClient stores or replaces a brain.
func (m *Memory) PutClient(_ context.Context, cfg client.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[cfg.ClientID] = cfg
	return nil
}

// MergeClient applies a partial update to a brain, last write wins.
func (m *Memory) MergeClient(_ context.Context, clientID string, patch map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.clients[clientID]
	if !ok {
		existing = client.Config{ClientID: clientID}
	}
	merged, err := mergeConfig(existing, patch)
	if err != nil {
		return err
	}
	m.clients[clientID] = merged
	return nil
}

// AppendHistory appends turns to the server-side audit copy of a
// conversation.
func (m *Memory) AppendHistory(_ context.Context, clientID string, msgs ...chat.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history[clientID] = append(m.history[clientID], msgs...)
	return nil
}

// History returns a copy of the stored conversation for a client.
func (m *Memory) History(_ context.Context, clientID string) []chat.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	msgs := m.history[clientID]
	copied := make([]chat.Message, len(msgs))
	copy(copied, msgs)
	return copied
}

// SaveLead stores a captured lead, assigning an id and timestamp if unset.
func (m *Memory) SaveLead(_ context.Context, lead *chat.LeadRecord) error {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.Timestamp.IsZero() {
		lead.Timestamp = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads = append(m.leads, *lead)
	return nil
}

// Leads returns a copy of all stored leads.
func (m *Memory) Leads() []chat.LeadRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	copied := make([]chat.LeadRecord, len(m.leads))
	copy(copied, m.leads)
	return copied
}

// mergeConfig round-trips the config through JSON so patch keys use the
// same names as the wire format.
func mergeConfig(existing client.Config, patch map[string]any) (client.Config, error) {
	raw, err := json.Marshal(existing)
	if err != nil {
		return client.Config{}, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return client.Config{}, err
	}
	for k, v := range patch {
		doc[k] = v
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return client.Config{}, err
	}
	var out client.Config
	if err := json.Unmarshal(merged, &out); err != nil {
		return client.Config{}, err
	}
	out.ClientID = existing.ClientID
	return out, nil
}
