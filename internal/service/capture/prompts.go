package capture

import "github.com/orelIL123/gpt-chat-live/internal/analysis/intent"

const (
	promptAskContact       = "נעים מאוד %s! איך נוכל לחזור אליך? אפשר להשאיר טלפון או אימייל."
	promptNameRetry        = "לא הצלחתי לקלוט שם 🙂 איך קוראים לך?"
	promptNameGotContact   = "נראה שזה טלפון או אימייל 🙂 קודם כל, מה השם שלך?"
	promptContactRetry     = "כדי שנוכל לחזור אליך אני צריך טלפון או אימייל תקינים."
	promptContactGotName   = "זה נראה כמו שם 🙂 אשמח דווקא לטלפון או לאימייל שנוכל לחזור אליך בו."
	promptCancelAck        = "אין בעיה! אם תרצה להשאיר פרטים בהמשך, אני כאן 🙂"
	promptSubmitFailed     = "מצטער, משהו השתבש אצלנו ולא הצלחתי לשמור את הפרטים. אפשר לנסות שוב מאוחר יותר."
	fallbackConfirmMessage = "תודה! נציג שלנו יצור איתך קשר בהקדם."
)

// confirmationMessages acknowledge a submitted lead, keyed by the intent
// that opened the capture flow.
var confirmationMessages = map[intent.Category]string{
	intent.Pricing:         "תודה על העניין! נציג שלנו יצור איתך קשר בקרוב עם הצעת מחיר מותאמת.",
	intent.ComplexQueries:  "תודה על השאלה! נציג מומחה יצור איתך קשר בקרוב עם מידע מפורט.",
	intent.HumanAssistance: "תודה! נציג שלנו יצור איתך קשר בהקדם.",
	intent.DetailedInfo:    "תודה על העניין! נציג שלנו יצור איתך קשר עם כל המידע המבוקש.",
	intent.GeneralInquiry:  "תודה! נציג שלנו יצור איתך קשר בהקדם.",
}

// ConfirmationMessage returns the Hebrew acknowledgement for a submitted
// lead with the given intent.
func ConfirmationMessage(category intent.Category) string {
	if msg, ok := confirmationMessages[category]; ok {
		return msg
	}
	return fallbackConfirmMessage
}

// SubmitFailedMessage is shown when the lead could not be persisted.
func SubmitFailedMessage() string {
	return promptSubmitFailed
}
