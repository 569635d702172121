package model

import (
	"strings"
	"time"
)

// Priority is the urgency tier assigned to a resolved task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities for sorting: high < medium < low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Category classifies the type of action a task represents.
type Category string

const (
	CategoryMeeting     Category = "meeting"
	CategoryReview      Category = "review"
	CategoryResponse    Category = "response"
	CategoryDeliverable Category = "deliverable"
	CategoryOther       Category = "other"
)

// OwnerUnspecified is the sentinel substituted when the generator omits
// a task owner.
const OwnerUnspecified = "Unspecified"

// ParseCategory normalizes a free-form category string into the fixed
// set. Unrecognized values map to CategoryOther.
func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryMeeting:
		return CategoryMeeting
	case CategoryReview:
		return CategoryReview
	case CategoryResponse:
		return CategoryResponse
	case CategoryDeliverable:
		return CategoryDeliverable
	default:
		return CategoryOther
	}
}

// RawTask is an unvalidated task candidate straight from the text
// generator. DeadlinePhrase is the verbatim phrase, empty when absent.
type RawTask struct {
	Description    string
	Owner          string
	DeadlinePhrase string
	Category       Category
}

// Deadline is either an absolute calendar date or the unspecified
// marker, never free text.
type Deadline struct {
	Date      time.Time
	Specified bool
}

// ISO returns the deadline as YYYY-MM-DD, or empty when unspecified.
func (d Deadline) ISO() string {
	if !d.Specified {
		return ""
	}
	return d.Date.Format("2006-01-02")
}

// ResolvedTask is a RawTask with an absolute deadline and an assigned
// priority. Final and immutable.
type ResolvedTask struct {
	RawTask
	Deadline Deadline
	Priority Priority
}
