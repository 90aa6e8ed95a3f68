package projection

import (
	"sort"
	"time"

	"venzen/gym-log/internal/dates"
	"venzen/gym-log/internal/domain"
)

// SessionsByDay buckets sessions by the local calendar day their
// startedAt falls on, for calendar rendering and drill-down.
func SessionsByDay(sessions []domain.WorkoutSession, loc *time.Location) map[string][]domain.WorkoutSession {
	byDay := make(map[string][]domain.WorkoutSession)
	for _, session := range sessions {
		key := dates.DayKey(session.StartedAt, loc)
		byDay[key] = append(byDay[key], session)
	}
	return byDay
}

// DayCount returns the number of sessions on a day, for the calendar
// cell badge.
func DayCount(byDay map[string][]domain.WorkoutSession, dayKey string) int {
	return len(byDay[dayKey])
}

// DaySessions returns one day's sessions sorted by start time ascending
// so the drill-down list is stable.
func DaySessions(byDay map[string][]domain.WorkoutSession, dayKey string) []domain.WorkoutSession {
	sessions := byDay[dayKey]
	ordered := make([]domain.WorkoutSession, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartedAt.Before(ordered[j].StartedAt)
	})
	return ordered
}

// CalendarCell is one day cell of the rendered month grid.
type CalendarCell struct {
	Date         time.Time `json:"date"`
	DayKey       string    `json:"dayKey"`
	InMonth      bool      `json:"inMonth"` // False cells render muted but stay selectable
	SessionCount int       `json:"sessionCount"`
}

// CalendarMonth builds the full grid of cells for the month containing
// monthDate, badged with per-day session counts.
func CalendarMonth(sessions []domain.WorkoutSession, monthDate time.Time, loc *time.Location) []CalendarCell {
	byDay := SessionsByDay(sessions, loc)
	grid := dates.CalendarGrid(monthDate, loc)

	cells := make([]CalendarCell, 0, len(grid))
	for _, day := range grid {
		key := dates.DayKey(day, loc)
		cells = append(cells, CalendarCell{
			Date:         day,
			DayKey:       key,
			InMonth:      dates.InMonth(day, monthDate.In(loc)),
			SessionCount: DayCount(byDay, key),
		})
	}
	return cells
}
