package chat

// CaptureState tracks progress through the lead-capture sub-dialogue.
// The server is stateless per request: the widget echoes the current state
// back with every message and receives the next one in the response.
type CaptureState string

const (
	CaptureIdle          CaptureState = "idle"
	CaptureAskingName    CaptureState = "asking_name"
	CaptureAskingContact CaptureState = "asking_contact"
	CaptureSubmitted     CaptureState = "submitted"
	CaptureCancelled     CaptureState = "cancelled"
)

// ParseCaptureState maps a client-supplied value to a known state.
// Unknown or empty values fall back to idle rather than failing the turn.
func ParseCaptureState(raw string) CaptureState {
	switch CaptureState(raw) {
	case CaptureAskingName, CaptureAskingContact, CaptureSubmitted, CaptureCancelled:
		return CaptureState(raw)
	default:
		return CaptureIdle
	}
}

// Terminal reports whether the state ends the capture flow. Terminal states
// are transient: the orchestrator folds them back to idle for the next turn.
func (s CaptureState) Terminal() bool {
	return s == CaptureSubmitted || s == CaptureCancelled
}

// Active reports whether a capture flow is in progress.
func (s CaptureState) Active() bool {
	return s == CaptureAskingName || s == CaptureAskingContact
}
