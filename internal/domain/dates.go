package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the layout of date-only deadline input, as produced by a
// browser date picker.
const DateLayout = "2006-01-02"

var deadlineLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDeadline parses a stored or user-entered deadline. Date-only values are
// read as midnight in loc; values carrying an offset keep it.
func ParseDeadline(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty deadline")
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if t, ok := parseBrowserDate(s); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized deadline %q, expected YYYY-MM-DD or RFC 3339", s)
}

// browserDateLayout matches the string form of a JavaScript Date, e.g.
// "Wed Jan 10 2024 09:00:00 GMT+0900 (Japan Standard Time)". Lists exported
// from the browser store carry deadlines in this form.
const browserDateLayout = "Mon Jan 02 2006 15:04:05 GMT-0700"

func parseBrowserDate(s string) (time.Time, bool) {
	if i := strings.Index(s, " ("); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse(browserDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsCanonicalDeadline reports whether s is already in the stored RFC 3339
// form.
func IsCanonicalDeadline(s string) bool {
	t, err := time.Parse(time.RFC3339, s)
	return err == nil && t.Format(time.RFC3339) == s
}

// FormatDeadline renders t as the stored RFC 3339 string. The offset of t is
// kept, so a date-only deadline stays on its calendar day.
func FormatDeadline(t time.Time) string {
	return t.Format(time.RFC3339)
}

// NormalizeDeadline turns user input into the stored form. Blank input
// defaults to now.
func NormalizeDeadline(s string, now time.Time) (string, error) {
	if strings.TrimSpace(s) == "" {
		return FormatDeadline(now), nil
	}
	t, err := ParseDeadline(s, now.Location())
	if err != nil {
		return "", err
	}
	return FormatDeadline(t), nil
}

// Midnight truncates t to the start of its day in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DaysUntil returns the number of calendar days from the date of now to the
// date of deadline, both taken in now's location. Past dates are negative.
func DaysUntil(deadline, now time.Time) int {
	loc := now.Location()
	d := Midnight(deadline, loc)
	n := Midnight(now, loc)
	// Compare on a UTC calendar so DST days still count as one day.
	du := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	nu := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	return int(du.Sub(nu).Hours() / 24)
}
