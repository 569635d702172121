package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"inbox-triage/internal/model"
)

var priorityRank = map[string]int{
	string(model.PriorityHigh):   0,
	string(model.PriorityMedium): 1,
	string(model.PriorityLow):    2,
}

func sortRecords(records []TaskRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		ri, rj := priorityRank[records[i].Priority], priorityRank[records[j].Priority]
		if ri != rj {
			return ri < rj
		}
		return records[i].SourceEmail < records[j].SourceEmail
	})
}

// WriteJSON writes the task records to path as a flat, indented JSON array.
// Zero tasks produce an empty array, not an error.
func WriteJSON(path string, records []TaskRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}
