package domain

import "time"

// SessionStatus type to distinguish session lifecycle states
type SessionStatus string

// Define constants for session statuses
const (
	StatusActive SessionStatus = "active"
	StatusEnded  SessionStatus = "ended"
)

// WorkoutSession represents one workout occurrence. Exercises and sets
// are embedded inside the session document, not stored as separate
// top-level records, so deleting a session removes everything it owns.
type WorkoutSession struct {
	ID        string        `bson:"_id" json:"id"` // UUID string, assigned at creation
	UserID    string        `bson:"userId" json:"userId"`
	Status    SessionStatus `bson:"status" json:"status"`
	Name      string        `bson:"name,omitempty" json:"name,omitempty"` // Optional display label; "Workout N" is applied at render time
	StartedAt time.Time     `bson:"startedAt" json:"startedAt"`
	EndedAt   *time.Time    `bson:"endedAt" json:"endedAt"` // Nil while the session is active
	Exercises []Exercise    `bson:"exercises" json:"exercises"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`

	// Revision guards the exercises array against concurrent writers.
	// Bumped on every atomic exercise mutation; never exposed via JSON.
	Revision int64 `bson:"revision" json:"-"`
}

// Exercise is one exercise logged within a session. Owned by exactly
// one session and embedded within it.
type Exercise struct {
	ID        string     `bson:"id" json:"id"`
	Name      string     `bson:"name" json:"name"`
	CatalogID *string    `bson:"catalogId" json:"catalogId"` // Resolved against the static catalog at creation time only
	StartedAt time.Time  `bson:"startedAt" json:"startedAt"`
	Sets      []SetEntry `bson:"sets" json:"sets"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// SetEntry is a single completed set. Owned by exactly one exercise.
type SetEntry struct {
	ID         string    `bson:"id" json:"id"`
	WeightKg   float64   `bson:"weightKg" json:"weightKg"` // Non-negative, fractional allowed
	Reps       int       `bson:"reps" json:"reps"`         // Positive
	FinishedAt time.Time `bson:"finishedAt" json:"finishedAt"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsActive reports whether the session is still being logged.
func (s *WorkoutSession) IsActive() bool {
	return s.Status == StatusActive
}
