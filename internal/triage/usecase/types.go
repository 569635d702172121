package usecase

import (
	"context"
	"time"

	"inbox-triage/pkg/gcalendar"
	"inbox-triage/pkg/llmprovider"
)

// Generator is the text-generation capability used for summaries and task
// extraction. *llmprovider.Manager satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}

// CalendarScheduler creates calendar events for extracted tasks.
// *gcalendar.Client satisfies it.
type CalendarScheduler interface {
	CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error)
}

// Options tunes the pipeline.
type Options struct {
	SummaryTemperature    float64
	ExtractionTemperature float64
	Workers               int
	MaxTokens             int
	Timezone              string

	// CalendarID selects the calendar events are created on. Empty
	// means the account's primary calendar.
	CalendarID string

	// ReferenceDate overrides the run start time as the anchor for
	// relative-date resolution. Zero means use the wall clock.
	ReferenceDate time.Time
}

const (
	defaultWorkers               = 4
	defaultSummaryTemperature    = 0.4
	defaultExtractionTemperature = 0.2
	defaultMaxTokens             = 2048
)
