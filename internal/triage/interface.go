package triage

import (
	"context"

	"inbox-triage/internal/model"
)

// UseCase defines the business logic interface for the triage domain.
type UseCase interface {
	// Run processes every email in the mailbox and aggregates the per-email
	// results into a single run output, sorted by source filename.
	Run(ctx context.Context) (RunOutput, error)

	// ProcessEmail runs one email record through summarization, task
	// extraction, deadline resolution and prioritization.
	ProcessEmail(ctx context.Context, rec model.EmailRecord) model.ProcessingResult
}
