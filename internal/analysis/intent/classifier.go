// Package intent classifies free-text chat messages into coarse categories
// using a fixed bilingual keyword table, and decides when a conversation
// should switch into the lead-capture flow. Everything here is pure and
// deterministic: same input, same output, no side effects.
package intent

import (
	"strings"
	"unicode/utf8"
)

// Result is the classifier's verdict for a single message. It is recomputed
// per message and never persisted as authoritative state.
type Result struct {
	Intent            Category `json:"intent"`
	Confidence        int      `json:"confidence"`
	SuggestedResponse string   `json:"suggested_response"`
}

// Classify assigns a category and a 0-100 confidence to a message.
//
// Categories are tested in fixed priority order and the first one with a
// keyword hit wins; this ordering is the tie-break, not match count.
// Confidence rewards longer, keyword-dense messages:
//
//	min(runes/10, 5) + 10 * matched keywords, clamped to [0, 100]
//
// Rune count rather than byte count keeps Hebrew messages on the same
// scale as English ones.
func Classify(message string) Result {
	normalized := strings.ToLower(strings.TrimSpace(message))
	lengthScore := utf8.RuneCountInString(normalized) / 10
	if lengthScore > 5 {
		lengthScore = 5
	}

	for _, category := range categoryOrder {
		matches := countMatches(normalized, keywordTable[category])
		if matches == 0 {
			continue
		}
		return Result{
			Intent:            category,
			Confidence:        clamp(lengthScore+10*matches, 0, 100),
			SuggestedResponse: suggestedResponses[category],
		}
	}

	return Result{
		Intent:            GeneralInquiry,
		Confidence:        clamp(lengthScore, 0, 100),
		SuggestedResponse: suggestedResponses[GeneralInquiry],
	}
}

func countMatches(normalized string, keywords []string) int {
	matches := 0
	for _, keyword := range keywords {
		if strings.Contains(normalized, keyword) {
			matches++
		}
	}
	return matches
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
