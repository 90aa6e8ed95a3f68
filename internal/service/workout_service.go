package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"venzen/gym-log/internal/domain"
	"venzen/gym-log/internal/mutation"
	"venzen/gym-log/internal/repository"
)

// --- Error Definitions ---
var (
	ErrSessionNotFound = errors.New("workout session not found")
	// ErrActionInFlight is returned when a mutating action is attempted
	// while a previous one has not settled yet. It mirrors the busy
	// state that disables buttons in a client UI.
	ErrActionInFlight = errors.New("another action is still in flight")
	ErrEmptyName      = errors.New("name cannot be empty")
)

// WorkoutService orchestrates the session lifecycle and every exercise
// and set mutation against the active session.
type WorkoutService interface {
	StartWorkout(ctx context.Context, userID string) (*domain.WorkoutSession, error)
	EndWorkout(ctx context.Context, userID, sessionID string) error
	RenameWorkout(ctx context.Context, userID, sessionID, name string) error
	DeleteWorkout(ctx context.Context, userID, sessionID string) error

	ListSessions(ctx context.Context, userID string) ([]domain.WorkoutSession, error)
	Subscribe(ctx context.Context, userID string, onNext func([]domain.WorkoutSession), onError func(error)) (stop func(), err error)

	AddExercise(ctx context.Context, userID, sessionID, name string) ([]domain.Exercise, error)
	RenameExercise(ctx context.Context, userID, sessionID, exerciseID, name string) ([]domain.Exercise, error)
	DeleteExercise(ctx context.Context, userID, sessionID, exerciseID string) ([]domain.Exercise, error)

	AddSet(ctx context.Context, userID, sessionID, exerciseID, weight, reps string) ([]domain.Exercise, error)
	UpdateSet(ctx context.Context, userID, sessionID, exerciseID, setID, weight, reps string) ([]domain.Exercise, error)
	DeleteSet(ctx context.Context, userID, sessionID, exerciseID, setID string) ([]domain.Exercise, error)
}

// workoutService implements the WorkoutService interface.
type workoutService struct {
	sessionRepo repository.SessionRepository

	// One in-flight mutating action per user at a time, cleared on
	// success and failure alike.
	gateMu sync.Mutex
	gates  map[string]bool

	now func() time.Time
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(sessionRepo repository.SessionRepository) WorkoutService {
	return &workoutService{
		sessionRepo: sessionRepo,
		gates:       make(map[string]bool),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// runExclusive runs one mutating action for a user, rejecting overlaps
// with ErrActionInFlight. The release sits in a defer so the gate
// always clears, whatever the action's outcome.
func (s *workoutService) runExclusive(userID string, action func() error) error {
	s.gateMu.Lock()
	if s.gates[userID] {
		s.gateMu.Unlock()
		return ErrActionInFlight
	}
	s.gates[userID] = true
	s.gateMu.Unlock()

	defer func() {
		s.gateMu.Lock()
		delete(s.gates, userID)
		s.gateMu.Unlock()
	}()

	return action()
}

// StartWorkout joins the user's existing active session or creates a
// new one. Starting twice never produces two active sessions.
func (s *workoutService) StartWorkout(ctx context.Context, userID string) (*domain.WorkoutSession, error) {
	var session *domain.WorkoutSession
	err := s.runExclusive(userID, func() error {
		var err error
		session, err = s.sessionRepo.Start(ctx, userID)
		return err
	})
	return session, err
}

// EndWorkout transitions an active session to ended. Sessions are never
// resurrected afterwards.
func (s *workoutService) EndWorkout(ctx context.Context, userID, sessionID string) error {
	return s.runExclusive(userID, func() error {
		status := domain.StatusEnded
		endedAt := s.now()
		err := s.sessionRepo.Patch(ctx, userID, sessionID, repository.SessionPatch{
			Status:  &status,
			EndedAt: &endedAt,
		})
		return mapNotFound(err)
	})
}

// RenameWorkout sets the session's display label.
func (s *workoutService) RenameWorkout(ctx context.Context, userID, sessionID, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrEmptyName
	}
	return s.runExclusive(userID, func() error {
		err := s.sessionRepo.Patch(ctx, userID, sessionID, repository.SessionPatch{Name: &trimmed})
		return mapNotFound(err)
	})
}

// DeleteWorkout removes the session document and everything embedded
// in it. No tombstones, no soft delete.
func (s *workoutService) DeleteWorkout(ctx context.Context, userID, sessionID string) error {
	return s.runExclusive(userID, func() error {
		return mapNotFound(s.sessionRepo.Delete(ctx, userID, sessionID))
	})
}

// ListSessions is the one-shot read backing the history view.
func (s *workoutService) ListSessions(ctx context.Context, userID string) ([]domain.WorkoutSession, error) {
	return s.sessionRepo.ListByUser(ctx, userID)
}

// Subscribe passes the live session feed through to the caller.
func (s *workoutService) Subscribe(ctx context.Context, userID string, onNext func([]domain.WorkoutSession), onError func(error)) (func(), error) {
	return s.sessionRepo.Subscribe(ctx, userID, onNext, onError)
}

// mutate funnels every exercise-list change through the repository's
// atomic read-modify-write path. Plain patches can never reach the
// exercises array.
func (s *workoutService) mutate(ctx context.Context, userID, sessionID string, transform repository.ExerciseTransform) ([]domain.Exercise, error) {
	var next []domain.Exercise
	err := s.runExclusive(userID, func() error {
		var err error
		next, err = s.sessionRepo.MutateExercises(ctx, userID, sessionID, transform)
		return mapNotFound(err)
	})
	return next, err
}

// AddExercise appends a named exercise to the session.
func (s *workoutService) AddExercise(ctx context.Context, userID, sessionID, name string) ([]domain.Exercise, error) {
	// Validation failures stay local; the store is never contacted.
	if strings.TrimSpace(name) == "" {
		return nil, mutation.ErrEmptyName
	}
	now := s.now()
	return s.mutate(ctx, userID, sessionID, func(exercises []domain.Exercise) ([]domain.Exercise, error) {
		return mutation.AddExercise(exercises, name, now)
	})
}

// RenameExercise renames one exercise in place.
func (s *workoutService) RenameExercise(ctx context.Context, userID, sessionID, exerciseID, name string) ([]domain.Exercise, error) {
	if strings.TrimSpace(name) == "" {
		return nil, mutation.ErrEmptyName
	}
	now := s.now()
	return s.mutate(ctx, userID, sessionID, func(exercises []domain.Exercise) ([]domain.Exercise, error) {
		return mutation.RenameExercise(exercises, exerciseID, name, now)
	})
}

// DeleteExercise removes an exercise and all of its sets.
func (s *workoutService) DeleteExercise(ctx context.Context, userID, sessionID, exerciseID string) ([]domain.Exercise, error) {
	return s.mutate(ctx, userID, sessionID, func(exercises []domain.Exercise) ([]domain.Exercise, error) {
		return mutation.DeleteExercise(exercises, exerciseID)
	})
}

// AddSet parses and validates the weight/reps inputs, then appends the
// set atomically.
func (s *workoutService) AddSet(ctx context.Context, userID, sessionID, exerciseID, weight, reps string) ([]domain.Exercise, error) {
	weightKg, err := mutation.ParseWeight(weight)
	if err != nil {
		return nil, err
	}
	repCount, err := mutation.ParseReps(reps)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return s.mutate(ctx, userID, sessionID, func(exercises []domain.Exercise) ([]domain.Exercise, error) {
		return mutation.AddSet(exercises, exerciseID, weightKg, repCount, now)
	})
}

// UpdateSet replaces a set's weight and reps under the same validation
// policy as AddSet.
func (s *workoutService) UpdateSet(ctx context.Context, userID, sessionID, exerciseID, setID, weight, reps string) ([]domain.Exercise, error) {
	weightKg, err := mutation.ParseWeight(weight)
	if err != nil {
		return nil, err
	}
	repCount, err := mutation.ParseReps(reps)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return s.mutate(ctx, userID, sessionID, func(exercises []domain.Exercise) ([]domain.Exercise, error) {
		return mutation.UpdateSet(exercises, exerciseID, setID, weightKg, repCount, now)
	})
}

// DeleteSet removes one set from its exercise.
func (s *workoutService) DeleteSet(ctx context.Context, userID, sessionID, exerciseID, setID string) ([]domain.Exercise, error) {
	now := s.now()
	return s.mutate(ctx, userID, sessionID, func(exercises []domain.Exercise) ([]domain.Exercise, error) {
		return mutation.DeleteSet(exercises, exerciseID, setID, now)
	})
}

// mapNotFound converts the repository's sentinel into the service-level
// error handlers report to users.
func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrSessionNotFound
	}
	return err
}
