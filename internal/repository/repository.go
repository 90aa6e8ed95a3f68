package repository

import (
	"context"
	"time"

	"venzen/gym-log/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive" // For user ObjectIDs
)

// Error constants for the repository layer
var (
	ErrNotFound = RepositoryError("not found")
	// ErrConflict is returned when the atomic exercise mutation runs
	// out of retries because other writers keep interleaving.
	ErrConflict = RepositoryError("concurrent modification")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ExerciseTransform maps the current persisted exercise list to the
// next one. It is applied inside the atomic read-modify-write and may
// run more than once if the write must retry, so it must be pure.
type ExerciseTransform func(exercises []domain.Exercise) ([]domain.Exercise, error)

// SessionPatch is a field-merge update for a session document. The
// exercises array is structurally unreachable from a patch and can only
// change through MutateExercises.
type SessionPatch struct {
	Name    *string
	Status  *domain.SessionStatus
	EndedAt *time.Time
}

// SessionRepository is the boundary to the session document store.
type SessionRepository interface {
	// Subscribe opens a live query for all of the user's sessions,
	// ordered by startedAt descending. onNext receives the full current
	// list as an initial snapshot and again after every change, from
	// this client or others. onError is invoked at most once, in place
	// of a delivery, and ends the subscription. The returned stop
	// function guarantees no further callback invocations.
	Subscribe(ctx context.Context, userID string, onNext func([]domain.WorkoutSession), onError func(error)) (stop func(), err error)

	// Start returns the user's existing active session unchanged, or
	// creates and persists a new one with an empty exercise list.
	Start(ctx context.Context, userID string) (*domain.WorkoutSession, error)

	// Patch merges the given fields into the session document and
	// refreshes updatedAt.
	Patch(ctx context.Context, userID, sessionID string, patch SessionPatch) error

	// MutateExercises reads the current persisted exercise list,
	// applies transform, and writes the result back as one indivisible
	// operation, retrying if another write interleaves. Returns
	// ErrNotFound if the session no longer exists at write time.
	MutateExercises(ctx context.Context, userID, sessionID string, transform ExerciseTransform) ([]domain.Exercise, error)

	// Delete removes the whole session document and everything
	// embedded in it.
	Delete(ctx context.Context, userID, sessionID string) error

	// ListByUser is a one-shot read of all sessions, ordered by
	// startedAt descending.
	ListByUser(ctx context.Context, userID string) ([]domain.WorkoutSession, error)
}

// FavoriteRepository stores favorite workout templates, a second
// independent per-user collection. Templates are never updated in
// place, only created and deleted.
type FavoriteRepository interface {
	// Subscribe delivers the user's templates ordered by name, with the
	// same callback contract as SessionRepository.Subscribe.
	Subscribe(ctx context.Context, userID string, onNext func([]domain.FavoriteTemplate), onError func(error)) (stop func(), err error)
	Create(ctx context.Context, favorite *domain.FavoriteTemplate) error
	Delete(ctx context.Context, userID, favoriteID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.FavoriteTemplate, error)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}
