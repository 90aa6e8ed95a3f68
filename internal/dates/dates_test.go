package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKey(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)

	// 23:30 UTC is already the next day at UTC+2.
	late := time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-15", DayKey(late, loc))
	assert.Equal(t, "2026-03-14", DayKey(late, time.UTC))

	assert.Equal(t, "", DayKey(time.Time{}, loc), "zero time has no day key")
}

func TestDayKeyRoundTrip(t *testing.T) {
	loc := time.UTC
	parsed, err := ParseDayKey("2026-02-28", loc)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-28", DayKey(parsed, loc))

	_, err = ParseDayKey("28-02-2026", loc)
	assert.Error(t, err)
}

func TestMonthKeyRoundTrip(t *testing.T) {
	loc := time.UTC
	parsed, err := ParseMonthKey("2026-12", loc)
	require.NoError(t, err)
	assert.Equal(t, time.December, parsed.Month())
	assert.Equal(t, 1, parsed.Day())
	assert.Equal(t, "2026-12", MonthKey(parsed, loc))
}

func TestLabels(t *testing.T) {
	loc := time.UTC
	ts := time.Date(2026, 1, 5, 7, 4, 9, 0, time.UTC)

	assert.Equal(t, "January 2026", MonthLabel(ts, loc))
	assert.Equal(t, "07:04:09", TimeLabel(ts, loc))
	assert.Equal(t, "", TimeLabel(time.Time{}, loc))
}

func TestCalendarGrid(t *testing.T) {
	loc := time.UTC
	// March 2026 begins on a Sunday and ends on a Tuesday.
	march, err := ParseMonthKey("2026-03", loc)
	require.NoError(t, err)

	grid := CalendarGrid(march, loc)
	require.Len(t, grid, 42)
	assert.Equal(t, time.Sunday, grid[0].Weekday())

	containsFirst := false
	for _, day := range grid {
		if day.Year() == 2026 && day.Month() == time.March && day.Day() == 1 {
			containsFirst = true
		}
	}
	assert.True(t, containsFirst)
}

func TestCalendarGridLeadingDaysFromPriorMonth(t *testing.T) {
	loc := time.UTC
	// May 2026 begins on a Friday, so the grid leads with April days.
	may, err := ParseMonthKey("2026-05", loc)
	require.NoError(t, err)

	grid := CalendarGrid(may, loc)
	assert.Equal(t, time.Sunday, grid[0].Weekday())
	assert.Equal(t, time.April, grid[0].Month())
	assert.False(t, InMonth(grid[0], may))
	assert.True(t, InMonth(grid[5], may), "May 1st cell is in month")
}

func TestPrevNextMonth(t *testing.T) {
	loc := time.UTC
	jan, err := ParseMonthKey("2026-01", loc)
	require.NoError(t, err)

	assert.Equal(t, "2025-12", MonthKey(PrevMonth(jan, loc), loc))
	assert.Equal(t, "2026-02", MonthKey(NextMonth(jan, loc), loc))
}
