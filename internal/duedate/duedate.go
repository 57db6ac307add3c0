// Package duedate turns free-text due dates into calendar dates and classifies them
// relative to today.
package duedate

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Layout is the canonical stored form of a due date.
const Layout = "2006-01-02"

// maxOffsetDigits bounds the N in "+Nd"/"+Nw"; longer counts are not dates.
const maxOffsetDigits = 4

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// Normalize converts user input into a YYYY-MM-DD date relative to today.
// Input that cannot be read as a date is returned trimmed but otherwise unchanged.
func Normalize(input string, today time.Time) string {
	raw := strings.TrimSpace(input)
	s := strings.ToLower(raw)
	if s == "" {
		return ""
	}
	switch s {
	case "today":
		return today.Format(Layout)
	case "tomorrow":
		return today.AddDate(0, 0, 1).Format(Layout)
	}
	if n, unit, ok := relativeOffset(s); ok {
		switch unit {
		case 'd':
			return today.AddDate(0, 0, n).Format(Layout)
		case 'w':
			return today.AddDate(0, 0, 7*n).Format(Layout)
		}
	}
	if day, ok := weekdays[s]; ok {
		return nextWeekday(today, day).Format(Layout)
	}
	// Bare numbers would be read as unix timestamps.
	if allDigits(s) {
		return raw
	}
	if t, ok := parseAny(raw, today); ok {
		return t.Format(Layout)
	}
	return raw
}

// nextWeekday is the first day strictly after today falling on day.
func nextWeekday(today time.Time, day time.Weekday) time.Time {
	n := int(day - today.Weekday())
	if n <= 0 {
		n += 7
	}
	return today.AddDate(0, 0, n)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// relativeOffset reads "+<digits>d" and "+<digits>w".
func relativeOffset(s string) (int, byte, bool) {
	if len(s) < 3 || s[0] != '+' {
		return 0, 0, false
	}
	unit := s[len(s)-1]
	if unit != 'd' && unit != 'w' {
		return 0, 0, false
	}
	digits := s[1 : len(s)-1]
	if len(digits) > maxOffsetDigits || !allDigits(digits) {
		return 0, 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, 0, false
	}
	return n, unit, true
}

// parseAny hands s to dateparse. A date written without a year falls in
// today's year.
func parseAny(s string, today time.Time) (t time.Time, ok bool) {
	loc := today.Location()
	if loc == nil {
		loc = time.Local
	}
	// dateparse panics on a handful of malformed inputs.
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	t, err := dateparse.ParseIn(s, loc)
	if err != nil {
		return time.Time{}, false
	}
	if t.Year() == 0 {
		t = time.Date(today.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}
	return t, true
}
