package model

import (
	"testing"
	"time"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input string
		want  Category
	}{
		{"meeting", CategoryMeeting},
		{" Review ", CategoryReview},
		{"RESPONSE", CategoryResponse},
		{"deliverable", CategoryDeliverable},
		{"follow-up", CategoryOther},
		{"", CategoryOther},
		{"nonsense", CategoryOther},
	}

	for _, tc := range tests {
		if got := ParseCategory(tc.input); got != tc.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestPriorityRank(t *testing.T) {
	if !(PriorityHigh.Rank() < PriorityMedium.Rank() && PriorityMedium.Rank() < PriorityLow.Rank()) {
		t.Error("priority ranks out of order")
	}
	if Priority("bogus").Rank() != PriorityLow.Rank() {
		t.Error("unknown priority should rank as low")
	}
}

func TestDeadlineISO(t *testing.T) {
	d := Deadline{Date: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), Specified: true}
	if got := d.ISO(); got != "2024-03-15" {
		t.Errorf("ISO() = %q", got)
	}

	var unspecified Deadline
	if got := unspecified.ISO(); got != "" {
		t.Errorf("unspecified ISO() = %q, want empty", got)
	}
}
