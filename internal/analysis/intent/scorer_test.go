package intent

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		category   Category
		confidence int
		history    int
		want       int
	}{
		// 80/2 + 30 + min(24, 20) = 90.
		{"engaged pricing lead", Pricing, 80, 12, 90},
		{"zero everything", GeneralInquiry, 0, 0, 10},
		{"human assistance", HumanAssistance, 40, 3, 46},
		{"complex query", ComplexQueries, 60, 5, 65},
		{"detailed info", DetailedInfo, 50, 0, 40},
		// Engagement caps at 20 no matter how long the transcript is.
		{"engagement capped", GeneralInquiry, 0, 500, 30},
		// Total clamps to 100.
		{"clamped at ceiling", Pricing, 100, 50, 100},
		// Unknown category scores like a general inquiry.
		{"unknown category", Category("spam"), 20, 0, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.category, tt.confidence, tt.history)
			if got != tt.want {
				t.Fatalf("Score(%q, %d, %d) = %d, want %d",
					tt.category, tt.confidence, tt.history, got, tt.want)
			}
		})
	}
}
