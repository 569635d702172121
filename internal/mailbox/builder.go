package mailbox

import (
	"strings"
	"time"

	"inbox-triage/internal/model"
)

var dateHeaderLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"January 2, 2006",
}

// BuildRecord turns one raw email file into a structured EmailRecord.
// Leading "Subject:", "From:", "To:" and "Date:" header lines are parsed
// until the first blank line; everything after it is the body. Files with
// no header block are treated as all body. A parseable Date header
// overrides ref as the record's reference timestamp.
func BuildRecord(filename, raw string, ref time.Time) model.EmailRecord {
	rec := model.EmailRecord{
		ID:         strings.TrimSuffix(filename, ".txt"),
		Filename:   filename,
		ReceivedAt: ref,
	}

	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(normalized, "\n")

	bodyStart := 0
	sawHeader := false
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			if sawHeader {
				bodyStart = i + 1
			}
			break
		}

		key, value, ok := splitHeader(line)
		if !ok {
			break
		}
		sawHeader = true
		bodyStart = i + 1

		switch key {
		case "subject":
			rec.Subject = value
		case "from":
			rec.Sender = value
		case "to":
			rec.Recipients = splitAddresses(value)
		case "date":
			if t, ok := parseDateHeader(value); ok {
				rec.ReceivedAt = t
			}
		}
	}

	rec.Body = strings.TrimSpace(strings.Join(lines[bodyStart:], "\n"))
	return rec
}

func splitHeader(line string) (key, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	key = strings.ToLower(strings.TrimSpace(line[:idx]))
	switch key {
	case "subject", "from", "to", "date":
		return key, strings.TrimSpace(line[idx+1:]), true
	}
	return "", "", false
}

func splitAddresses(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

func parseDateHeader(value string) (time.Time, bool) {
	for _, layout := range dateHeaderLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
