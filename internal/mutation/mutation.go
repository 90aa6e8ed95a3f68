// Package mutation is the session mutation engine: pure transformation
// functions that take the active session's exercise list and produce
// the next exercise list for each user operation. Every operation deep
// copies its input, so callers can hand the result to an atomic write
// as the absolute new desired state.
package mutation

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"venzen/gym-log/internal/catalog"
	"venzen/gym-log/internal/domain"
)

// --- Error Definitions ---
var (
	ErrEmptyName        = errors.New("exercise name cannot be empty")
	ErrExerciseNotFound = errors.New("exercise not found in session")
	ErrSetNotFound      = errors.New("set not found in exercise")
	ErrInvalidWeight    = errors.New("weight must be a non-negative number")
	ErrInvalidReps      = errors.New("reps must be a whole number of at least 1")
)

// Transform produces the next exercise list from the current one. The
// store adapter applies a Transform inside its atomic read-modify-write,
// so it may be invoked more than once if the transaction retries.
type Transform func(exercises []domain.Exercise) ([]domain.Exercise, error)

// ParseWeight parses a weight input. Either "." or "," is accepted as
// the decimal separator. A blank input means 0 kg; anything else must
// parse to a non-negative number.
func ParseWeight(input string) (float64, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", "."), 64)
	if err != nil || value < 0 {
		return 0, ErrInvalidWeight
	}
	return value, nil
}

// ParseReps parses a reps input, which must be an integer of at least 1.
func ParseReps(input string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || value < 1 {
		return 0, ErrInvalidReps
	}
	return value, nil
}

// CloneExercises deep-copies an exercise list including every embedded
// set, so transforms never alias the caller's slices.
func CloneExercises(exercises []domain.Exercise) []domain.Exercise {
	cloned := make([]domain.Exercise, len(exercises))
	for i, exercise := range exercises {
		cloned[i] = exercise
		cloned[i].Sets = make([]domain.SetEntry, len(exercise.Sets))
		copy(cloned[i].Sets, exercise.Sets)
	}
	return cloned
}

// AddExercise appends a new exercise with the given name. The catalog
// id is resolved by case-insensitive exact name match at creation time
// only; renames never re-resolve it.
func AddExercise(exercises []domain.Exercise, name string, now time.Time) ([]domain.Exercise, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrEmptyName
	}

	next := CloneExercises(exercises)
	next = append(next, domain.Exercise{
		ID:        uuid.NewString(),
		Name:      trimmed,
		CatalogID: catalog.ResolveID(trimmed),
		StartedAt: now,
		Sets:      []domain.SetEntry{},
		CreatedAt: now,
		UpdatedAt: now,
	})
	return next, nil
}

// RenameExercise replaces one exercise's name and bumps its updatedAt.
// Sibling exercises and all sets pass through untouched.
func RenameExercise(exercises []domain.Exercise, exerciseID, nextName string, now time.Time) ([]domain.Exercise, error) {
	trimmed := strings.TrimSpace(nextName)
	if trimmed == "" {
		return nil, ErrEmptyName
	}

	next := CloneExercises(exercises)
	exercise := findExercise(next, exerciseID)
	if exercise == nil {
		return nil, ErrExerciseNotFound
	}
	exercise.Name = trimmed
	exercise.UpdatedAt = now
	return next, nil
}

// DeleteExercise removes one exercise from the list. All of its sets
// are embedded, so they are discarded with it. Deleting an id that is
// no longer present is a no-op, not an error.
func DeleteExercise(exercises []domain.Exercise, exerciseID string) ([]domain.Exercise, error) {
	next := CloneExercises(exercises)
	for i := range next {
		if next[i].ID == exerciseID {
			return append(next[:i], next[i+1:]...), nil
		}
	}
	return next, nil
}

// AddSet appends a completed set to an exercise and bumps the parent's
// updatedAt. Values are assumed already parsed; the range rules are
// still enforced here so an invalid set can never be written.
func AddSet(exercises []domain.Exercise, exerciseID string, weightKg float64, reps int, now time.Time) ([]domain.Exercise, error) {
	if weightKg < 0 {
		return nil, ErrInvalidWeight
	}
	if reps < 1 {
		return nil, ErrInvalidReps
	}

	next := CloneExercises(exercises)
	exercise := findExercise(next, exerciseID)
	if exercise == nil {
		return nil, ErrExerciseNotFound
	}
	exercise.Sets = append(exercise.Sets, domain.SetEntry{
		ID:         uuid.NewString(),
		WeightKg:   weightKg,
		Reps:       reps,
		FinishedAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	exercise.UpdatedAt = now
	return next, nil
}

// UpdateSet replaces a set's weight and reps. The set's finishedAt and
// createdAt are preserved; only updatedAt moves, on both the set and
// its parent exercise.
func UpdateSet(exercises []domain.Exercise, exerciseID, setID string, weightKg float64, reps int, now time.Time) ([]domain.Exercise, error) {
	if weightKg < 0 {
		return nil, ErrInvalidWeight
	}
	if reps < 1 {
		return nil, ErrInvalidReps
	}

	next := CloneExercises(exercises)
	exercise := findExercise(next, exerciseID)
	if exercise == nil {
		return nil, ErrExerciseNotFound
	}
	for i := range exercise.Sets {
		if exercise.Sets[i].ID == setID {
			exercise.Sets[i].WeightKg = weightKg
			exercise.Sets[i].Reps = reps
			exercise.Sets[i].UpdatedAt = now
			exercise.UpdatedAt = now
			return next, nil
		}
	}
	return nil, ErrSetNotFound
}

// DeleteSet removes one set from its exercise and bumps the parent's
// updatedAt. A missing exercise or set id is a no-op.
func DeleteSet(exercises []domain.Exercise, exerciseID, setID string, now time.Time) ([]domain.Exercise, error) {
	next := CloneExercises(exercises)
	exercise := findExercise(next, exerciseID)
	if exercise == nil {
		return next, nil
	}
	for i := range exercise.Sets {
		if exercise.Sets[i].ID == setID {
			exercise.Sets = append(exercise.Sets[:i], exercise.Sets[i+1:]...)
			exercise.UpdatedAt = now
			return next, nil
		}
	}
	return next, nil
}

// IsValidation reports whether err is one of the local validation
// failures that should be handled without contacting the store.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrInvalidWeight) ||
		errors.Is(err, ErrInvalidReps)
}

func findExercise(exercises []domain.Exercise, exerciseID string) *domain.Exercise {
	for i := range exercises {
		if exercises[i].ID == exerciseID {
			return &exercises[i]
		}
	}
	return nil
}
