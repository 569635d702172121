package usecase

import (
	"testing"

	"inbox-triage/internal/model"
)

func TestSanitizeJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "markdown json fence",
			input: "```json\n{\"action_items\": []}\n```",
			want:  `{"action_items": []}`,
		},
		{
			name:  "plain fence",
			input: "```\n[1, 2]\n```",
			want:  `[1, 2]`,
		},
		{
			name:  "prose around object",
			input: "Here you go:\n{\"action_items\": []}\nHope that helps!",
			want:  `{"action_items": []}`,
		},
		{
			name:  "no json at all",
			input: "no structured content here",
			want:  "no structured content here",
		},
		{
			name:  "already clean",
			input: `{"a":1}`,
			want:  `{"a":1}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := sanitizeJSONResponse(tc.input); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestInferCategory(t *testing.T) {
	tests := []struct {
		description string
		want        model.Category
	}{
		{"Schedule a call with the vendor", model.CategoryMeeting},
		{"Review the pull request", model.CategoryReview},
		{"Reply to the customer complaint", model.CategoryResponse},
		{"Submit the expense report", model.CategoryDeliverable},
		{"Water the office plants", model.CategoryOther},
	}

	for _, tc := range tests {
		if got := inferCategory(tc.description); got != tc.want {
			t.Errorf("inferCategory(%q) = %q, want %q", tc.description, got, tc.want)
		}
	}
}

func TestParseTaskBlocks(t *testing.T) {
	text := "Task: Finalize the contract\nOwner: Eve\nDeadline: by Thursday\nCategory: deliverable\n---\nTask: Check the staging deploy\nOwner: null\n\nSome trailing commentary that is not a task."

	tasks := parseTaskBlocks(text)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	if tasks[0].Owner != "Eve" || tasks[0].DeadlinePhrase != "by Thursday" {
		t.Errorf("unexpected first task: %+v", tasks[0])
	}
	if tasks[0].Category != model.CategoryDeliverable {
		t.Errorf("category = %q, want deliverable", tasks[0].Category)
	}
	if tasks[1].Owner != model.OwnerUnspecified {
		t.Errorf("null owner should map to sentinel, got %q", tasks[1].Owner)
	}
	if tasks[1].Category != model.CategoryReview {
		t.Errorf("check keyword should infer review, got %q", tasks[1].Category)
	}
}
