package chat

import "time"

// LeadRecord is created exactly once per completed capture flow and is
// immutable thereafter. It is handed to the persistence and notification
// collaborators.
type LeadRecord struct {
	ID          string    `json:"id,omitempty"`
	ClientID    string    `json:"client_id"`
	Name        string    `json:"name"`
	Contact     string    `json:"contact"`
	Intent      string    `json:"intent"`
	Confidence  int       `json:"confidence"`
	LeadScore   int       `json:"lead_score"`
	History     []Message `json:"conversation_history,omitempty"`
	TargetEmail string    `json:"target_email,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
