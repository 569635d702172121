package report

import (
	"fmt"
	"os"
	"strings"

	"inbox-triage/internal/model"
)

var digestSections = []struct {
	priority model.Priority
	heading  string
}{
	{model.PriorityHigh, "High Priority"},
	{model.PriorityMedium, "Medium Priority"},
	{model.PriorityLow, "Low Priority"},
}

// Digest renders the task records as a Markdown digest grouped by
// priority. Records are expected in report order (see BuildRecords).
func Digest(records []TaskRecord, stats model.RunStats) string {
	var sb strings.Builder

	sb.WriteString("# Inbox Triage Digest\n\n")
	fmt.Fprintf(&sb, "Processed %d email(s), extracted %d task(s)", stats.EmailsProcessed, stats.TasksExtracted)
	if stats.Degraded > 0 || stats.Failed > 0 {
		fmt.Fprintf(&sb, " (%d degraded, %d failed)", stats.Degraded, stats.Failed)
	}
	sb.WriteString(".\n")

	if len(records) == 0 {
		sb.WriteString("\nNo action items found.\n")
		return sb.String()
	}

	for _, section := range digestSections {
		var lines []string
		for _, rec := range records {
			if rec.Priority != string(section.priority) {
				continue
			}
			lines = append(lines, digestLine(rec))
		}
		if len(lines) == 0 {
			continue
		}

		fmt.Fprintf(&sb, "\n## %s\n\n", section.heading)
		for _, line := range lines {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func digestLine(rec TaskRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "- **%s**", rec.Task)
	fmt.Fprintf(&sb, " (owner: %s", rec.Owner)
	if rec.Deadline != nil {
		fmt.Fprintf(&sb, ", due: %s", *rec.Deadline)
	}
	fmt.Fprintf(&sb, ", category: %s, source: %s)", rec.Category, rec.SourceEmail)
	return sb.String()
}

// WriteMarkdown writes the digest to path.
func WriteMarkdown(path string, records []TaskRecord, stats model.RunStats) error {
	if err := os.WriteFile(path, []byte(Digest(records, stats)), 0o644); err != nil {
		return fmt.Errorf("failed to write digest file: %w", err)
	}
	return nil
}
