package usecase

import (
	"inbox-triage/internal/mailbox"
	"inbox-triage/pkg/datemath"
	pkgLog "inbox-triage/pkg/log"
)

type implUseCase struct {
	l        pkgLog.Logger
	llm      Generator
	reader   *mailbox.Reader
	dateMath *datemath.Parser
	calendar CalendarScheduler
	opts     Options
}

// New creates a new triage UseCase instance. calendar may be nil; calendar
// scheduling is then skipped.
func New(
	l pkgLog.Logger,
	llm Generator,
	reader *mailbox.Reader,
	dateMath *datemath.Parser,
	calendar CalendarScheduler,
	opts Options,
) *implUseCase {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.SummaryTemperature <= 0 {
		opts.SummaryTemperature = defaultSummaryTemperature
	}
	if opts.ExtractionTemperature <= 0 {
		opts.ExtractionTemperature = defaultExtractionTemperature
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}

	return &implUseCase{
		l:        l,
		llm:      llm,
		reader:   reader,
		dateMath: dateMath,
		calendar: calendar,
		opts:     opts,
	}
}
