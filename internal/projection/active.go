// Package projection derives the read views of the session list: the
// single active session with its display ordering, and the history
// grouping by calendar day. Projections are pure functions recomputed
// from the latest full snapshot; nothing here patches incrementally.
package projection

import (
	"fmt"
	"sort"
	"time"

	"venzen/gym-log/internal/domain"
)

// ActiveSession picks the session currently being logged from the
// snapshot, which arrives ordered by startedAt descending. With more
// than one active session (the start race), the newest wins. Returns
// nil when no session is active.
func ActiveSession(sessions []domain.WorkoutSession) *domain.WorkoutSession {
	for i := range sessions {
		if sessions[i].IsActive() {
			return &sessions[i]
		}
	}
	return nil
}

// DisplayExercises returns the session's exercises ordered most
// recently created first. The stored order is insertion order; display
// flips it so the exercise being worked on sits on top.
func DisplayExercises(session *domain.WorkoutSession) []domain.Exercise {
	if session == nil {
		return nil
	}
	ordered := make([]domain.Exercise, len(session.Exercises))
	copy(ordered, session.Exercises)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})
	return ordered
}

// ExpandedExerciseID decides which single exercise card is expanded
// after a snapshot change: a newly added exercise takes over, otherwise
// the previous expansion survives as long as its exercise still exists.
func ExpandedExerciseID(previous string, prev, next []domain.Exercise) string {
	known := make(map[string]bool, len(prev))
	for _, exercise := range prev {
		known[exercise.ID] = true
	}
	for _, exercise := range next {
		if !known[exercise.ID] {
			return exercise.ID
		}
	}
	for _, exercise := range next {
		if exercise.ID == previous {
			return previous
		}
	}
	return ""
}

// ElapsedLabel formats the wall-clock time since startedAt as H:MM:SS.
// Negative deltas from clock skew clamp to zero so the label never runs
// backwards below the start.
func ElapsedLabel(startedAt, now time.Time) string {
	elapsed := now.Sub(startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	elapsed = elapsed.Round(time.Second)
	hours := int(elapsed.Hours())
	minutes := int(elapsed.Minutes()) % 60
	seconds := int(elapsed.Seconds()) % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}

// DisplayName labels a session for rendering: its own name when set,
// otherwise the positional "Workout N" where position counts from the
// oldest session (the snapshot arrives newest first).
func DisplayName(sessions []domain.WorkoutSession, index int) string {
	if index < 0 || index >= len(sessions) {
		return "Workout"
	}
	if name := sessions[index].Name; name != "" {
		return name
	}
	return fmt.Sprintf("Workout %d", len(sessions)-index)
}
