package intent

import (
	"testing"

	"github.com/orelIL123/gpt-chat-live/internal/model/chat"
)

func TestShouldCaptureDirectRequest(t *testing.T) {
	policy := DefaultPolicy()
	res := Result{Intent: GeneralInquiry, Confidence: 0}

	for _, message := range []string{
		"אני רוצה להשאיר פרטים",
		"תחזרו אלי מחר",
		"please contact me about this",
	} {
		if !policy.ShouldCapture(message, res, nil) {
			t.Fatalf("expected capture for direct request %q", message)
		}
	}
}

func TestShouldCaptureHumanAssistanceIgnoresConfidence(t *testing.T) {
	policy := DefaultPolicy()
	res := Result{Intent: HumanAssistance, Confidence: 0}
	if !policy.ShouldCapture("נציג", res, nil) {
		t.Fatal("human assistance must trigger even at zero confidence")
	}
}

func TestShouldCaptureConfidenceThreshold(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name string
		res  Result
		want bool
	}{
		{"pricing at threshold", Result{Intent: Pricing, Confidence: 50}, true},
		{"pricing below threshold", Result{Intent: Pricing, Confidence: 49}, false},
		{"complex above threshold", Result{Intent: ComplexQueries, Confidence: 80}, true},
		{"detailed info above threshold", Result{Intent: DetailedInfo, Confidence: 60}, true},
		{"general inquiry never qualifies", Result{Intent: GeneralInquiry, Confidence: 99}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.ShouldCapture("הודעה רגילה בלי טריגר ישיר", tt.res, nil)
			if got != tt.want {
				t.Fatalf("ShouldCapture = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldCaptureCustomMinConfidence(t *testing.T) {
	policy := DefaultPolicy()
	policy.MinConfidence = 30

	res := Result{Intent: Pricing, Confidence: 35}
	if !policy.ShouldCapture("הודעה רגילה", res, nil) {
		t.Fatal("expected capture with lowered threshold")
	}
}

func TestShouldCaptureAffirmationAfterOffer(t *testing.T) {
	policy := DefaultPolicy()
	res := Result{Intent: GeneralInquiry, Confidence: 0}

	offered := []chat.Message{
		chat.UserMessage("יש לכם טיולים לצפון?"),
		chat.AssistantMessage("כן, יש לנו כמה מסלולים. אשמח לחבר אותך עם נציג שיפרט."),
	}
	if !policy.ShouldCapture("כן", res, offered) {
		t.Fatal("affirmation after an offer must trigger capture")
	}
	if !policy.ShouldCapture("yes!", res, offered) {
		t.Fatal("punctuated affirmation after an offer must trigger capture")
	}

	noOffer := []chat.Message{
		chat.UserMessage("שלום"),
		chat.AssistantMessage("שלום! איך אפשר לעזור?"),
	}
	if policy.ShouldCapture("כן", res, noOffer) {
		t.Fatal("affirmation without a preceding offer must not trigger")
	}
}

func TestShouldCaptureShortReplyAfterOffer(t *testing.T) {
	policy := DefaultPolicy()
	res := Result{Intent: GeneralInquiry, Confidence: 3}

	offered := []chat.Message{
		chat.UserMessage("אני מתלבט"),
		chat.AssistantMessage("רוצה שנציג יחזור אליך עם כל הפרטים?"),
	}

	if !policy.ShouldCapture("אולי בעצם למה לא", res, offered) {
		t.Fatal("short reply right after an offer should trigger")
	}
	if policy.ShouldCapture("לא הבנתי מה ההבדל בין שתי החבילות שהצעת לי קודם", res, offered) {
		t.Fatal("a long follow-up question is not an answer to the offer")
	}
	if policy.ShouldCapture("", res, offered) {
		t.Fatal("empty message never triggers")
	}
}

func TestShouldCaptureIgnoresUserTurnsAfterOffer(t *testing.T) {
	policy := DefaultPolicy()
	res := Result{Intent: GeneralInquiry, Confidence: 0}

	// The offer is judged on the last assistant turn even when a user
	// message follows it in the transcript.
	history := []chat.Message{
		chat.AssistantMessage("נציג יחזור אליך בהקדם, רוצה?"),
		chat.UserMessage("רגע, שאלה"),
	}
	if !policy.ShouldCapture("כן", res, history) {
		t.Fatal("trailing user turn must not hide the assistant's offer")
	}
}
