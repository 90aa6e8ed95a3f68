package dates

import "time"

// Layouts for the calendar keys used to bucket sessions.
const (
	DayKeyLayout   = "2006-01-02"
	MonthKeyLayout = "2006-01"
)

// DayKey returns the local calendar-date key (YYYY-MM-DD) for t in loc.
// A zero time yields the empty string.
func DayKey(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(DayKeyLayout)
}

// ParseDayKey parses a YYYY-MM-DD key back into a midnight time in loc.
func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DayKeyLayout, key, loc)
}

// MonthKey returns the local month key (YYYY-MM) for t in loc.
func MonthKey(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(MonthKeyLayout)
}

// ParseMonthKey parses a YYYY-MM key into the first of that month in loc.
func ParseMonthKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(MonthKeyLayout, key, loc)
}

// CurrentMonthKey returns the month key for the current wall clock.
func CurrentMonthKey(loc *time.Location) string {
	return MonthKey(time.Now(), loc)
}

// MonthLabel formats a month heading, e.g. "January 2026".
func MonthLabel(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("January 2006")
}

// TimeLabel formats a local wall-clock time (HH:MM:SS). Zero times
// produce the empty string so unset endedAt values export as blanks.
func TimeLabel(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("15:04:05")
}

// DateTimeLabel formats a timestamp for display, e.g. "Jan 2, 2026 15:04".
func DateTimeLabel(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("Jan 2, 2006 15:04")
}

// CalendarGrid returns the 42 day cells (6 weeks x 7 days) covering the
// month containing monthDate, starting from the Sunday on or before the
// first of the month. Cells outside the target month are included;
// callers mark them muted via InMonth.
func CalendarGrid(monthDate time.Time, loc *time.Location) []time.Time {
	local := monthDate.In(loc)
	first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	cells := make([]time.Time, 0, 42)
	for i := 0; i < 42; i++ {
		cells = append(cells, start.AddDate(0, 0, i))
	}
	return cells
}

// InMonth reports whether cell falls inside the month of monthDate.
func InMonth(cell, monthDate time.Time) bool {
	return cell.Month() == monthDate.Month() && cell.Year() == monthDate.Year()
}

// PrevMonth and NextMonth step the calendar cursor, pinned to the first
// of the month so repeated stepping never skips short months.
func PrevMonth(monthDate time.Time, loc *time.Location) time.Time {
	local := monthDate.In(loc)
	return time.Date(local.Year(), local.Month()-1, 1, 0, 0, 0, 0, loc)
}

func NextMonth(monthDate time.Time, loc *time.Location) time.Time {
	local := monthDate.In(loc)
	return time.Date(local.Year(), local.Month()+1, 1, 0, 0, 0, 0, loc)
}
