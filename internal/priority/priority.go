package priority

import (
	"strings"
	"time"

	"inbox-triage/internal/model"
)

// urgencyMarkers are strong independent urgency signals in a task
// description. Any one of them forces high priority regardless of date math.
var urgencyMarkers = []string{"urgent", "asap", "immediately", "critical"}

const (
	highWindow   = 2 * 24 * time.Hour
	mediumWindow = 7 * 24 * time.Hour
)

// Score assigns a priority to a task with a resolved deadline. Rules are
// evaluated in precedence order and the first match wins:
//  1. deadline within 2 days of ref (inclusive), or an urgency marker in
//     the description -> high
//  2. deadline within 7 days, or category deliverable/meeting with any
//     deadline present -> medium
//  3. otherwise -> low
func Score(task model.RawTask, deadline model.Deadline, ref time.Time) model.Priority {
	if hasUrgencyMarker(task.Description) {
		return model.PriorityHigh
	}

	if deadline.Specified {
		until := deadline.Date.Sub(ref)
		if until <= highWindow {
			return model.PriorityHigh
		}
		if until <= mediumWindow {
			return model.PriorityMedium
		}
		if task.Category == model.CategoryDeliverable || task.Category == model.CategoryMeeting {
			return model.PriorityMedium
		}
	}

	return model.PriorityLow
}

func hasUrgencyMarker(description string) bool {
	lower := strings.ToLower(description)
	for _, marker := range urgencyMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
