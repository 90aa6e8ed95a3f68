package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venzen/gym-log/internal/domain"
)

var baseTime = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

func snapshot() []domain.WorkoutSession {
	// Newest first, the way the store delivers it.
	return []domain.WorkoutSession{
		{ID: "s-3", Status: domain.StatusActive, StartedAt: baseTime},
		{ID: "s-2", Status: domain.StatusEnded, StartedAt: baseTime.Add(-24 * time.Hour)},
		{ID: "s-1", Status: domain.StatusEnded, StartedAt: baseTime.Add(-48 * time.Hour), Name: "Leg Day"},
	}
}

func TestActiveSession(t *testing.T) {
	active := ActiveSession(snapshot())
	require.NotNil(t, active)
	assert.Equal(t, "s-3", active.ID)
}

func TestActiveSessionNoneActive(t *testing.T) {
	sessions := snapshot()
	sessions[0].Status = domain.StatusEnded
	assert.Nil(t, ActiveSession(sessions))
	assert.Nil(t, ActiveSession(nil))
}

func TestActiveSessionNewestWins(t *testing.T) {
	sessions := snapshot()
	sessions[1].Status = domain.StatusActive

	active := ActiveSession(sessions)
	require.NotNil(t, active)
	assert.Equal(t, "s-3", active.ID, "with two actives the newest is picked")
}

func TestDisplayExercises(t *testing.T) {
	session := &domain.WorkoutSession{
		Exercises: []domain.Exercise{
			{ID: "ex-1", CreatedAt: baseTime},
			{ID: "ex-2", CreatedAt: baseTime.Add(5 * time.Minute)},
			{ID: "ex-3", CreatedAt: baseTime.Add(10 * time.Minute)},
		},
	}

	ordered := DisplayExercises(session)
	require.Len(t, ordered, 3)
	assert.Equal(t, "ex-3", ordered[0].ID, "newest exercise on top")
	assert.Equal(t, "ex-1", ordered[2].ID)
	assert.Equal(t, "ex-1", session.Exercises[0].ID, "stored order untouched")

	assert.Nil(t, DisplayExercises(nil))
}

func TestExpandedExerciseID(t *testing.T) {
	prev := []domain.Exercise{{ID: "ex-1"}, {ID: "ex-2"}}
	next := append(prev, domain.Exercise{ID: "ex-3"})

	assert.Equal(t, "ex-3", ExpandedExerciseID("ex-1", prev, next), "new exercise takes over")
	assert.Equal(t, "ex-1", ExpandedExerciseID("ex-1", prev, prev), "expansion survives")
	assert.Equal(t, "", ExpandedExerciseID("ex-2", prev, []domain.Exercise{{ID: "ex-1"}}), "deleted exercise collapses")
}

func TestElapsedLabel(t *testing.T) {
	start := baseTime

	assert.Equal(t, "0:00:00", ElapsedLabel(start, start))
	assert.Equal(t, "0:00:42", ElapsedLabel(start, start.Add(42*time.Second)))
	assert.Equal(t, "0:59:59", ElapsedLabel(start, start.Add(59*time.Minute+59*time.Second)))
	assert.Equal(t, "1:00:00", ElapsedLabel(start, start.Add(time.Hour)))
	assert.Equal(t, "27:15:05", ElapsedLabel(start, start.Add(27*time.Hour+15*time.Minute+5*time.Second)))
	assert.Equal(t, "0:00:00", ElapsedLabel(start, start.Add(-time.Minute)), "clock skew clamps to zero")
}

func TestDisplayName(t *testing.T) {
	sessions := snapshot()

	assert.Equal(t, "Workout 3", DisplayName(sessions, 0), "newest unnamed session gets the highest number")
	assert.Equal(t, "Workout 2", DisplayName(sessions, 1))
	assert.Equal(t, "Leg Day", DisplayName(sessions, 2), "explicit names win")
	assert.Equal(t, "Workout", DisplayName(sessions, 99))
}
