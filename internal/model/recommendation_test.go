package model

import "testing"

func TestPriorityForReason(t *testing.T) {
	cases := []struct {
		reason string
		want   RecommendationPriority
		kind   ReasonKind
	}{
		{"User explicitly requested a follow-up", PriorityHigh, ReasonExplicitRequest},
		{"Low ratings on pillar X", PriorityHigh, ReasonLowRatings},
		{"Enough time has passed since your submission (90 days)", PriorityLow, ReasonTimeElapsed},
		{"90 days have passed since submission", PriorityMedium, ReasonOther},
		{"Recommended by your coach", PriorityMedium, ReasonOther},
		// first match wins
		{"Low ratings, and enough time has passed", PriorityHigh, ReasonLowRatings},
	}
	for _, tc := range cases {
		if got := PriorityForReason(tc.reason); got != tc.want {
			t.Errorf("PriorityForReason(%q): got=%s want=%s", tc.reason, got, tc.want)
		}
		if got := ClassifyReason(tc.reason); got != tc.kind {
			t.Errorf("ClassifyReason(%q): got=%s want=%s", tc.reason, got, tc.kind)
		}
	}
}
