package intent

import (
	"strings"

	"github.com/orelIL123/gpt-chat-live/internal/model/chat"
)

// shortReplyWords bounds how many words a message may have and still be
// read as an answer to the assistant's previous offer.
const shortReplyWords = 4

// TriggerPolicy holds the tunable parts of the capture decision.
type TriggerPolicy struct {
	// MinConfidence is the floor for rule 3. Policy value, not fixed by
	// the design.
	MinConfidence int
	// Qualifying lists the intents that can trigger capture via
	// confidence alone.
	Qualifying []Category
}

// DefaultPolicy matches the recommended production tuning.
func DefaultPolicy() TriggerPolicy {
	return TriggerPolicy{
		MinConfidence: 50,
		Qualifying:    []Category{Pricing, ComplexQueries, DetailedInfo},
	}
}

// ShouldCapture decides whether to interrupt normal chat flow and solicit
// contact details. Rules are evaluated as an ordered OR and short-circuit
// on the first hit:
//
//  1. the message is an explicit request to leave details, or an
//     affirmation right after the assistant offered human help;
//  2. the user asked for a human; never second-guessed, no confidence floor;
//  3. the classifier is confident enough and the intent qualifies;
//  4. the assistant's last turn offered human help and the user sent a
//     short reply, i.e. is plausibly answering that offer.
func (p TriggerPolicy) ShouldCapture(message string, res Result, history []chat.Message) bool {
	normalized := strings.ToLower(strings.TrimSpace(message))

	if containsAny(normalized, directTriggers) {
		return true
	}
	offered := lastAssistantOffered(history)
	if offered && isAffirmation(normalized) {
		return true
	}

	if res.Intent == HumanAssistance {
		return true
	}

	if res.Confidence >= p.MinConfidence && p.qualifies(res.Intent) {
		return true
	}

	if offered && wordCount(normalized) <= shortReplyWords && normalized != "" {
		return true
	}

	return false
}

func (p TriggerPolicy) qualifies(c Category) bool {
	for _, q := range p.Qualifying {
		if q == c {
			return true
		}
	}
	return false
}

// OffersHumanHelp reports whether assistant text offers to connect the
// user with a human, e.g. a model reply suggesting a callback.
func OffersHumanHelp(text string) bool {
	return containsAny(strings.ToLower(text), offerPhrases)
}

func lastAssistantOffered(history []chat.Message) bool {
	last, ok := chat.LastAssistant(history)
	if !ok {
		return false
	}
	return containsAny(strings.ToLower(last.Text), offerPhrases)
}

func isAffirmation(normalized string) bool {
	trimmed := strings.Trim(normalized, " .,!?")
	for _, word := range affirmations {
		if trimmed == word {
			return true
		}
	}
	return false
}

func containsAny(normalized string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}

func wordCount(normalized string) int {
	return len(strings.Fields(normalized))
}
