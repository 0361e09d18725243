package schedule

import (
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	// SlotInterval is the fixed grid every working-hours window is divided
	// into. One slot holds at most one non-cancelled appointment.
	SlotInterval = 30 * time.Minute

	DefaultWorkStart = "09:00"
	DefaultWorkEnd   = "17:00"
)

// Slots enumerates slot start times between workStart and workEnd at the
// given interval, in chronological order. An empty or malformed window
// yields no slots.
func Slots(workStart, workEnd string, interval time.Duration) []string {
	start, err := time.Parse(ClockLayout, workStart)
	if err != nil {
		return nil
	}
	end, err := time.Parse(ClockLayout, workEnd)
	if err != nil {
		return nil
	}

	var slots []string
	for t := start; t.Before(end); t = t.Add(interval) {
		slots = append(slots, t.Format(ClockLayout))
	}
	return slots
}

// Contains reports whether t is one of the slot start times.
func Contains(slots []string, t string) bool {
	for _, slot := range slots {
		if slot == t {
			return true
		}
	}
	return false
}

// ParseDate parses an ISO calendar date. The round-trip check rejects inputs
// the time package would silently normalize, such as "2025-6-1".
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	if d.Format(DateLayout) != s {
		return time.Time{}, &time.ParseError{Layout: DateLayout, Value: s}
	}
	return d, nil
}

// ValidClock reports whether s is a strict 24-hour "HH:MM" string.
func ValidClock(s string) bool {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return false
	}
	return t.Format(ClockLayout) == s
}

// BeforeToday reports whether day falls strictly before now's calendar day.
func BeforeToday(day, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, day.Location())
	return day.Before(today)
}
