package datemath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Parser converts natural-language deadline phrases to absolute calendar
// dates relative to a reference time. It is purely deterministic and
// never consults the text generator.
type Parser struct {
	location *time.Location
}

// NewParser creates a new date parser for the given IANA timezone string.
// e.g. "America/New_York"
func NewParser(timezone string) (*Parser, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Parser{location: loc}, nil
}

// OverdueTolerance is how far in the past a resolved date may fall and
// still be kept, so "yesterday" and overdue phrasing survive. Anything
// older resolves to unspecified rather than a guess.
const OverdueTolerance = 7 * 24 * time.Hour

var (
	durationRe = regexp.MustCompile(`^(?:in|within)\s+(a|an|\d+)\s+(day|week|month)s?$`)
	ordinalRe  = regexp.MustCompile(`(\d+)(st|nd|rd|th)\b`)

	weekdays = map[string]time.Weekday{
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
		"sunday":    time.Sunday,
	}
)

// Resolve converts a deadline phrase to an absolute date anchored at ref.
// The second return value is false when the phrase is absent, unknown,
// or would resolve unreasonably far in the past.
func (p *Parser) Resolve(phrase string, ref time.Time) (time.Time, bool) {
	phrase = normalizePhrase(phrase)
	if phrase == "" {
		return time.Time{}, false
	}

	ref = ref.In(p.location)

	resolved, ok := p.resolveAbsolute(phrase, ref)
	if !ok {
		resolved, ok = p.resolveRelative(phrase, ref)
	}
	if !ok {
		resolved, ok = p.resolveDuration(phrase, ref)
	}
	if !ok {
		return time.Time{}, false
	}

	if p.startOfDay(ref).Sub(resolved) > OverdueTolerance {
		return time.Time{}, false
	}
	return resolved, true
}

// normalizePhrase lowercases the phrase and strips leading connectives
// ("by", "on", "due", "before") and trailing punctuation.
func normalizePhrase(phrase string) string {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	phrase = strings.Trim(phrase, ".,;:!")
	for _, prefix := range []string{"by ", "on ", "due ", "before ", "until "} {
		phrase = strings.TrimPrefix(phrase, prefix)
	}
	return strings.TrimSpace(phrase)
}

// resolveAbsolute handles explicit written dates, with and without a year.
func (p *Parser) resolveAbsolute(phrase string, ref time.Time) (time.Time, bool) {
	phrase = ordinalRe.ReplaceAllString(phrase, "$1")

	layouts := []string{
		"2006-01-02",
		"2006/01/02",
		"01/02/2006",
		"January 2, 2006",
		"January 2 2006",
		"Jan 2, 2006",
		"Jan 2 2006",
		"2 January 2006",
		"2 Jan 2006",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, phrase, p.location); err == nil {
			return p.startOfDay(t), true
		}
	}

	// Yearless month-day forms assume the reference year. The tolerance
	// check in Resolve rejects far-past results instead of guessing a
	// different year.
	for _, layout := range []string{"January 2", "Jan 2", "2 January", "2 Jan"} {
		if t, err := time.ParseInLocation(layout, phrase, p.location); err == nil {
			return time.Date(ref.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.location), true
		}
	}

	return time.Time{}, false
}

// resolveRelative handles weekday names and day-relative expressions.
func (p *Parser) resolveRelative(phrase string, ref time.Time) (time.Time, bool) {
	switch phrase {
	case "today", "tonight", "eod", "end of day", "end of the day":
		return p.startOfDay(ref), true
	case "tomorrow":
		return p.startOfDay(ref.AddDate(0, 0, 1)), true
	case "yesterday":
		return p.startOfDay(ref.AddDate(0, 0, -1)), true
	case "eow", "end of week", "end of the week":
		return p.upcomingWeekday(ref, time.Friday), true
	case "eom", "end of month", "end of the month":
		first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, p.location)
		return first.AddDate(0, 1, -1), true
	case "next week":
		return p.startOfDay(ref.AddDate(0, 0, 7)), true
	}

	// "friday", "next friday", "this friday" all resolve to the next
	// occurrence strictly after ref; today never counts for a bare
	// weekday name.
	name := phrase
	for _, prefix := range []string{"next ", "this "} {
		name = strings.TrimPrefix(name, prefix)
	}
	if target, ok := weekdays[name]; ok {
		return p.nextWeekday(ref, target), true
	}

	return time.Time{}, false
}

// resolveDuration handles offsets like "in 3 days" and "within a week".
func (p *Parser) resolveDuration(phrase string, ref time.Time) (time.Time, bool) {
	matches := durationRe.FindStringSubmatch(phrase)
	if len(matches) != 3 {
		return time.Time{}, false
	}

	amount := 1
	if matches[1] != "a" && matches[1] != "an" {
		amount, _ = strconv.Atoi(matches[1])
	}

	switch matches[2] {
	case "day":
		return p.startOfDay(ref.AddDate(0, 0, amount)), true
	case "week":
		return p.startOfDay(ref.AddDate(0, 0, amount*7)), true
	case "month":
		return p.startOfDay(ref.AddDate(0, amount, 0)), true
	}

	return time.Time{}, false
}

// nextWeekday returns the next occurrence of target strictly after ref.
func (p *Parser) nextWeekday(ref time.Time, target time.Weekday) time.Time {
	daysUntil := int(target - ref.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return p.startOfDay(ref.AddDate(0, 0, daysUntil))
}

// upcomingWeekday is like nextWeekday but counts ref itself, so "end of
// week" on a Friday is that same Friday.
func (p *Parser) upcomingWeekday(ref time.Time, target time.Weekday) time.Time {
	daysUntil := int(target-ref.Weekday()+7) % 7
	return p.startOfDay(ref.AddDate(0, 0, daysUntil))
}

// Location returns the parser's timezone.
func (p *Parser) Location() *time.Location {
	return p.location
}

// startOfDay returns midnight at the start of the given day in the
// parser's timezone.
func (p *Parser) startOfDay(t time.Time) time.Time {
	t = t.In(p.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.location)
}

// EndOfDay returns 23:59:59 at the end of the given start-of-day time.
func (p *Parser) EndOfDay(startOfDay time.Time) time.Time {
	return startOfDay.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
}
