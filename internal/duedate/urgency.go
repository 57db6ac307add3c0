package duedate

import "time"

type Urgency int

const (
	UrgencyNone Urgency = iota
	Overdue
	DueToday
	Upcoming
)

func (u Urgency) String() string {
	switch u {
	case Overdue:
		return "overdue"
	case DueToday:
		return "today"
	case Upcoming:
		return "upcoming"
	default:
		return ""
	}
}

// Classify compares a stored due date with today. Empty or non-ISO values are
// left unclassified.
func Classify(due string, today time.Time) Urgency {
	if due == "" {
		return UrgencyNone
	}
	d, err := time.Parse(Layout, due)
	if err != nil {
		return UrgencyNone
	}
	y, m, day := today.Date()
	t := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	switch {
	case d.Before(t):
		return Overdue
	case d.Equal(t):
		return DueToday
	default:
		return Upcoming
	}
}
