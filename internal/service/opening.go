package service

import (
	"strings"
	"time"
)

const clockLayout = "15:04"

// parseClock converts an HH:mm string into seconds after midnight.
func parseClock(s string) (int, bool) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return secondOfDay(t), true
}

func secondOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// IsOpenAt reports whether a restaurant with the given HH:mm opening and
// closing times is open at the time of day of at.  A closing time earlier
// than the opening time means the window runs past midnight.  Missing or
// unparsable bounds count as closed.
func IsOpenAt(open, close string, at time.Time) bool {
	from, ok := parseClock(open)
	if !ok {
		return false
	}
	to, ok := parseClock(close)
	if !ok {
		return false
	}
	now := secondOfDay(at)
	if to < from {
		return now >= from || now <= to
	}
	return now >= from && now <= to
}

// isOpen is IsOpenAt over the nullable fields of a restaurant.
func isOpen(open, close *string, at time.Time) bool {
	if open == nil || close == nil {
		return false
	}
	return IsOpenAt(*open, *close, at)
}
