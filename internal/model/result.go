package model

// ProcessingStatus is the terminal state of one email's pipeline run.
type ProcessingStatus string

const (
	// StatusSuccess means the email was fully processed, possibly with
	// zero tasks.
	StatusSuccess ProcessingStatus = "success"

	// StatusDegraded means the generation backend failed for this email;
	// a fallback summary was produced and no tasks were extracted.
	StatusDegraded ProcessingStatus = "degraded"

	// StatusFailed means the email source could not be read or decoded.
	StatusFailed ProcessingStatus = "failed"
)

// ProcessingResult is the per-email aggregate emitted by the pipeline.
type ProcessingResult struct {
	EmailID  string
	Filename string
	Summary  string
	Tasks    []ResolvedTask
	Status   ProcessingStatus
	Error    string // Populated only when Status is StatusFailed
}

// RunStats summarizes a full pipeline run.
type RunStats struct {
	EmailsProcessed int `json:"emails_processed"`
	TasksExtracted  int `json:"tasks_extracted"`
	Failed          int `json:"failed"`
	Degraded        int `json:"degraded"`
}
