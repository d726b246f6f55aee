package checkpoints

import "time"

// FirstOfMonth truncates t down to the first instant of its month, in UTC.
func FirstOfMonth(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextMonthBoundary returns the first month boundary strictly after t.
func NextMonthBoundary(t time.Time) time.Time {
	boundary := FirstOfMonth(t)
	if !boundary.After(t) {
		boundary = boundary.AddDate(0, 1, 0)
	}
	return boundary
}
