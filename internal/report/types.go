package report

import (
	"inbox-triage/internal/model"
)

// TaskRecord is one action item in the JSON report. Deadline is an ISO
// date string or null when unspecified.
type TaskRecord struct {
	Task        string  `json:"task"`
	Owner       string  `json:"owner"`
	Deadline    *string `json:"deadline"`
	Priority    string  `json:"priority"`
	Category    string  `json:"category"`
	SourceEmail string  `json:"source_email"`
	Summary     string  `json:"summary"`
}

// BuildRecords flattens per-email results into the report's task records,
// ordered by priority tier and then by source email filename.
func BuildRecords(results []model.ProcessingResult) []TaskRecord {
	records := make([]TaskRecord, 0)
	for _, res := range results {
		for _, task := range res.Tasks {
			records = append(records, newTaskRecord(res, task))
		}
	}
	sortRecords(records)
	return records
}

func newTaskRecord(res model.ProcessingResult, task model.ResolvedTask) TaskRecord {
	rec := TaskRecord{
		Task:        task.Description,
		Owner:       task.Owner,
		Priority:    string(task.Priority),
		Category:    string(task.Category),
		SourceEmail: res.Filename,
		Summary:     res.Summary,
	}
	if task.Deadline.Specified {
		iso := task.Deadline.ISO()
		rec.Deadline = &iso
	}
	return rec
}
