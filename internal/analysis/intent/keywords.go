package intent

// Category is a coarse reason the user is messaging.
type Category string

const (
	Pricing         Category = "pricing"
	ComplexQueries  Category = "complex_queries"
	HumanAssistance Category = "human_assistance"
	DetailedInfo    Category = "detailed_info"
	GeneralInquiry  Category = "general_inquiry"
)

// categoryOrder fixes classification priority. The first category with a
// keyword hit wins, regardless of how many keywords later categories match.
var categoryOrder = []Category{Pricing, ComplexQueries, HumanAssistance, DetailedInfo}

var keywordTable = map[Category][]string{
	Pricing: {
		"מחיר", "מחירים", "עלות", "כמה עולה", "כמה זה", "הצעת מחיר", "תעריף", "הנחה",
		"price", "pricing", "cost", "how much", "quote", "discount",
	},
	ComplexQueries: {
		"בעיה", "תקלה", "לא עובד", "מסובך", "אינטגרציה", "התאמה אישית", "שילוב",
		"complex", "integration", "custom", "technical", "problem", "issue", "doesn't work",
	},
	HumanAssistance: {
		"נציג", "בן אדם", "אדם אמיתי", "לדבר עם מישהו", "שירות לקוחות", "מישהו אנושי",
		"human", "agent", "representative", "real person", "speak to someone", "talk to a person",
	},
	DetailedInfo: {
		"פרטים נוספים", "מידע נוסף", "עוד מידע", "פירוט", "קטלוג", "מפרט", "חוברת",
		"details", "more info", "more information", "brochure", "catalog", "specification",
	},
}

// suggestedResponses open the capture flow, so each one asks for a name.
var suggestedResponses = map[Category]string{
	Pricing:         "אשמח שנציג יחזור אליך עם הצעת מחיר מותאמת. מה השם שלך?",
	ComplexQueries:  "נשמע שכדאי שמומחה שלנו יסתכל על זה. מה השם שלך?",
	HumanAssistance: "בשמחה! אחבר אותך לנציג שלנו. מה השם שלך?",
	DetailedInfo:    "אשמח שנציג ישלח לך את כל המידע. מה השם שלך?",
	GeneralInquiry:  "אשמח שנציג שלנו יחזור אליך. מה השם שלך?",
}

// directTriggers are explicit requests to leave contact details. They start
// the capture flow on their own, whatever the classifier said.
var directTriggers = []string{
	"להשאיר פרטים", "אשאיר פרטים", "תשאירו לי", "שיחזרו אלי", "תחזרו אלי", "צרו איתי קשר",
	"leave my details", "leave you my details", "contact me", "call me back", "get back to me",
}

// affirmations count as a trigger only when the assistant just offered
// to connect the user with a human.
var affirmations = []string{
	"כן", "אוקיי", "אוקי", "בטח", "סבבה", "בסדר", "יאללה",
	"yes", "yeah", "ok", "okay", "sure", "why not",
}

// offerPhrases mark an assistant turn as an offer of human help.
var offerPhrases = []string{
	"אשמח לחבר אותך עם נציג", "לחבר אותך עם נציג", "נציג יחזור אליך", "נציג שלנו יצור איתך קשר",
	"להשאיר פרטים", "רוצה שנחזור אליך",
	"connect you with", "leave your details", "a representative will contact you", "get back to you",
}
