package capture

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	emailPattern = regexp.MustCompile(`.+@.+\..+`)
	phonePattern = regexp.MustCompile(`^[\d\s\-()]+$`)
)

// Cancellation vocabulary. Requests to talk to a human while already
// inside the flow are treated the same way: the form is abandoned rather
// than looping. Single words are matched as whole words so that, say,
// "בטל" does not fire inside "בטלפון".
var (
	cancelWords = []string{
		"בטל", "ביטול", "עזוב", "תפסיק",
		"cancel", "stop",
	}
	cancelPhrases = []string{
		"לא תודה", "לא רוצה", "אני רוצה נציג", "תנו לי נציג",
		"no thanks", "never mind", "forget it",
		"i want a human", "get me a human",
	}
)

// LooksLikeEmail reports whether the input would satisfy the contact
// validator as an email address.
func LooksLikeEmail(input string) bool {
	return emailPattern.MatchString(strings.TrimSpace(input))
}

// LooksLikePhone reports whether the input would satisfy the contact
// validator as a phone number. Requires at least one digit so whitespace
// or dashes alone do not pass.
func LooksLikePhone(input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || !strings.ContainsAny(trimmed, "0123456789") {
		return false
	}
	return phonePattern.MatchString(trimmed)
}

// LooksLikeContact reports whether the input satisfies either contact form.
func LooksLikeContact(input string) bool {
	return LooksLikeEmail(input) || LooksLikePhone(input)
}

// ValidName accepts anything longer than one character that is not purely
// numeric and does not look like contact info.
func ValidName(input string) bool {
	trimmed := strings.TrimSpace(input)
	if utf8.RuneCountInString(trimmed) <= 1 {
		return false
	}
	if numericOnly(trimmed) {
		return false
	}
	return !LooksLikeContact(trimmed)
}

// looksLikeName spots a name given where contact info was expected:
// alphabetic, longer than one character, fails both contact patterns.
func looksLikeName(input string) bool {
	trimmed := strings.TrimSpace(input)
	if utf8.RuneCountInString(trimmed) <= 1 || LooksLikeContact(trimmed) {
		return false
	}
	for _, r := range trimmed {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) && r != '\'' && r != '-' {
			return false
		}
	}
	return true
}

// IsCancel reports whether the user is bailing out of the capture flow.
func IsCancel(input string) bool {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, phrase := range cancelPhrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	for _, field := range strings.Fields(normalized) {
		word := strings.Trim(field, ".,!?")
		for _, cancel := range cancelWords {
			if word == cancel {
				return true
			}
		}
	}
	return false
}

func numericOnly(s string) bool {
	seen := false
	for _, r := range s {
		if unicode.IsDigit(r) {
			seen = true
			continue
		}
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return seen
}
