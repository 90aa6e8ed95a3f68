// Package export flattens sessions into one-row-per-set CSV payloads.
package export

import (
	"encoding/csv"
	"sort"
	"strconv"
	"strings"
	"time"

	"venzen/gym-log/internal/dates"
	"venzen/gym-log/internal/domain"
)

// Scope selects which sessions an export covers.
type Scope string

const (
	ScopeAll   Scope = "all"
	ScopeMonth Scope = "month"
)

// Columns is the literal CSV header, in order.
var Columns = []string{
	"date",
	"exercise_name",
	"reps",
	"weight_kg",
	"set_number",
	"set_finished_at",
	"workout_name",
	"workout_started_at",
	"workout_ended_at",
}

// Options narrow an export. MonthKey is only consulted when Scope is
// ScopeMonth.
type Options struct {
	Scope    Scope
	MonthKey string
}

// Row is one exported set.
type Row struct {
	Date             string
	ExerciseName     string
	Reps             int
	WeightKg         float64
	SetNumber        int // 1-based within its exercise
	SetFinishedAt    string
	WorkoutName      string
	WorkoutStartedAt string
	WorkoutEndedAt   string // Blank when the session never ended
}

// BuildRows flattens session -> exercise -> set into rows. Sessions are
// ordered by start time ascending; within a session, exercises and sets
// keep their stored order.
func BuildRows(sessions []domain.WorkoutSession, opts Options, loc *time.Location) []Row {
	filtered := make([]domain.WorkoutSession, 0, len(sessions))
	for _, session := range sessions {
		if opts.Scope == ScopeMonth && dates.MonthKey(session.StartedAt, loc) != opts.MonthKey {
			continue
		}
		filtered = append(filtered, session)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].StartedAt.Before(filtered[j].StartedAt)
	})

	var rows []Row
	for _, session := range filtered {
		workoutName := strings.TrimSpace(session.Name)
		if workoutName == "" {
			workoutName = "Workout"
		}
		endedAt := ""
		if session.EndedAt != nil {
			endedAt = dates.TimeLabel(*session.EndedAt, loc)
		}

		for _, exercise := range session.Exercises {
			for i, setEntry := range exercise.Sets {
				finishedAt := setEntry.FinishedAt
				if finishedAt.IsZero() {
					finishedAt = setEntry.CreatedAt
				}
				rowDate := finishedAt
				if rowDate.IsZero() {
					rowDate = session.StartedAt
				}

				rows = append(rows, Row{
					Date:             dates.DayKey(rowDate, loc),
					ExerciseName:     exercise.Name,
					Reps:             setEntry.Reps,
					WeightKg:         setEntry.WeightKg,
					SetNumber:        i + 1,
					SetFinishedAt:    dates.TimeLabel(finishedAt, loc),
					WorkoutName:      workoutName,
					WorkoutStartedAt: dates.TimeLabel(session.StartedAt, loc),
					WorkoutEndedAt:   endedAt,
				})
			}
		}
	}
	return rows
}

// BuildCSV serializes the export to CSV text. Fields containing a
// comma, double quote, or newline are quoted with inner quotes doubled;
// everything else is written bare.
func BuildCSV(sessions []domain.WorkoutSession, opts Options, loc *time.Location) (string, int) {
	rows := BuildRows(sessions, opts, loc)

	var sb strings.Builder
	writer := csv.NewWriter(&sb)
	_ = writer.Write(Columns)
	for _, row := range rows {
		_ = writer.Write([]string{
			row.Date,
			row.ExerciseName,
			strconv.Itoa(row.Reps),
			formatWeight(row.WeightKg),
			strconv.Itoa(row.SetNumber),
			row.SetFinishedAt,
			row.WorkoutName,
			row.WorkoutStartedAt,
			row.WorkoutEndedAt,
		})
	}
	writer.Flush()

	return sb.String(), len(rows)
}

// formatWeight prints weights without a trailing ".0" so whole-kilogram
// values export as plain integers.
func formatWeight(weightKg float64) string {
	return strconv.FormatFloat(weightKg, 'f', -1, 64)
}

// ObjectKey names an uploaded export in object storage, scoped per user
// and stamped so repeated exports never collide.
func ObjectKey(userID string, opts Options, now time.Time) string {
	scope := "all"
	if opts.Scope == ScopeMonth {
		scope = opts.MonthKey
	}
	return "exports/" + userID + "/" + scope + "-" + now.UTC().Format("20060102T150405Z") + ".csv"
}
