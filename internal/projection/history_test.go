package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venzen/gym-log/internal/domain"
)

func historySessions() []domain.WorkoutSession {
	morning := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	nextDay := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	return []domain.WorkoutSession{
		{ID: "s-3", StartedAt: nextDay},
		{ID: "s-2", StartedAt: evening},
		{ID: "s-1", StartedAt: morning},
	}
}

func TestSessionsByDay(t *testing.T) {
	byDay := SessionsByDay(historySessions(), time.UTC)

	assert.Len(t, byDay, 2)
	assert.Equal(t, 2, DayCount(byDay, "2026-03-14"))
	assert.Equal(t, 1, DayCount(byDay, "2026-03-15"))
	assert.Equal(t, 0, DayCount(byDay, "2026-03-16"))
}

func TestSessionsByDayUsesLocalDay(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*60*60)
	// 22:00 UTC on the 14th is already the 15th at UTC+7.
	sessions := []domain.WorkoutSession{
		{ID: "s-1", StartedAt: time.Date(2026, 3, 14, 22, 0, 0, 0, time.UTC)},
	}

	byDay := SessionsByDay(sessions, loc)
	assert.Equal(t, 1, DayCount(byDay, "2026-03-15"))
	assert.Equal(t, 0, DayCount(byDay, "2026-03-14"))
}

func TestDaySessionsSortedAscending(t *testing.T) {
	byDay := SessionsByDay(historySessions(), time.UTC)

	day := DaySessions(byDay, "2026-03-14")
	require.Len(t, day, 2)
	assert.Equal(t, "s-1", day[0].ID, "earliest session first")
	assert.Equal(t, "s-2", day[1].ID)

	assert.Empty(t, DaySessions(byDay, "2026-03-20"))
}

func TestCalendarMonth(t *testing.T) {
	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cells := CalendarMonth(historySessions(), march, time.UTC)
	require.Len(t, cells, 42)

	counts := make(map[string]int)
	inMonth := 0
	for _, cell := range cells {
		counts[cell.DayKey] = cell.SessionCount
		if cell.InMonth {
			inMonth++
		}
	}
	assert.Equal(t, 31, inMonth)
	assert.Equal(t, 2, counts["2026-03-14"])
	assert.Equal(t, 1, counts["2026-03-15"])
	assert.Equal(t, 0, counts["2026-03-16"])
}
