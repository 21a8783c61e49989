// Package capture implements the multi-turn lead-capture state machine:
// idle → asking_name → asking_contact → submitted/cancelled. The machine is
// a pure function over caller-supplied state; every HTTP request rebuilds
// the context from what the widget echoes back.
package capture

import (
	"fmt"
	"strings"
	"time"

	"github.com/orelIL123/gpt-chat-live/internal/analysis/intent"
	"github.com/orelIL123/gpt-chat-live/internal/model/chat"
)

// Context is everything the machine needs for one step. Name, Intent and
// Confidence were captured on earlier turns and round-tripped through the
// client.
type Context struct {
	ClientID   string
	State      chat.CaptureState
	Name       string
	Intent     intent.Category
	Confidence int
	History    []chat.Message
}

// Outcome is the result of one step. Lead is non-nil only on the
// transition into submitted; the caller owns persisting and notifying it.
type Outcome struct {
	State     chat.CaptureState
	Reply     string
	Name      string
	Contact   string
	Lead      *chat.LeadRecord
	Cancelled bool
	Submitted bool
}

// Step advances the state machine by one user message. Pure: the only
// inputs are the context, the message and the clock, and it cannot fail.
func Step(ctx Context, input string, now time.Time) Outcome {
	switch ctx.State {
	case chat.CaptureAskingName:
		return stepAskingName(ctx, input)
	case chat.CaptureAskingContact:
		return stepAskingContact(ctx, input, now)
	default:
		// Terminal and idle states have no in-flow transitions; the
		// orchestrator folds terminals back to idle before calling.
		return Outcome{State: chat.CaptureIdle, Name: ctx.Name}
	}
}

func stepAskingName(ctx Context, input string) Outcome {
	if IsCancel(input) {
		return cancelled()
	}

	// Contact-shaped input is rejected, not silently reinterpreted:
	// users answering out of order are asked for the name again.
	if LooksLikeContact(input) {
		return Outcome{State: chat.CaptureAskingName, Reply: promptNameGotContact}
	}

	if !ValidName(input) {
		return Outcome{State: chat.CaptureAskingName, Reply: promptNameRetry}
	}

	name := strings.TrimSpace(input)
	return Outcome{
		State: chat.CaptureAskingContact,
		Reply: fmt.Sprintf(promptAskContact, name),
		Name:  name,
	}
}

func stepAskingContact(ctx Context, input string, now time.Time) Outcome {
	if IsCancel(input) {
		return cancelled()
	}

	contact := strings.TrimSpace(input)
	if LooksLikeContact(contact) {
		lead := &chat.LeadRecord{
			ClientID:   ctx.ClientID,
			Name:       ctx.Name,
			Contact:    contact,
			Intent:     string(ctx.Intent),
			Confidence: ctx.Confidence,
			LeadScore:  intent.Score(ctx.Intent, ctx.Confidence, len(ctx.History)),
			History:    ctx.History,
			Timestamp:  now.UTC(),
		}
		return Outcome{
			State:     chat.CaptureSubmitted,
			Reply:     ConfirmationMessage(ctx.Intent),
			Name:      ctx.Name,
			Contact:   contact,
			Lead:      lead,
			Submitted: true,
		}
	}

	// A name where contact info was expected does not overwrite the
	// captured name; ask again for a phone or email.
	if looksLikeName(input) {
		return Outcome{State: chat.CaptureAskingContact, Reply: promptContactGotName, Name: ctx.Name}
	}

	return Outcome{State: chat.CaptureAskingContact, Reply: promptContactRetry, Name: ctx.Name}
}

func cancelled() Outcome {
	return Outcome{State: chat.CaptureCancelled, Reply: promptCancelAck, Cancelled: true}
}
