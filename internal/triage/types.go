package triage

import (
	"time"

	"inbox-triage/internal/model"
)

// RunOutput is the aggregate result of one mailbox pass.
type RunOutput struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []model.ProcessingResult
	Stats      model.RunStats
}
