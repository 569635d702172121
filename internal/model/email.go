package model

import "time"

// Environment represents the deployment environment.
type Environment string

const (
	EnvironmentDevelopment Environment = "development"
	EnvironmentProduction  Environment = "production"
)

// EmailRecord is the structured representation of one input email.
// Immutable once built; owned by the orchestrator for the duration of
// one email's processing.
type EmailRecord struct {
	ID         string    // Derived from the source filename (extension stripped)
	Filename   string    // Original source filename
	Subject    string
	Sender     string
	Recipients []string // Ordered, may be empty
	Body       string
	ReceivedAt time.Time // Reference timestamp for relative-date resolution
}
