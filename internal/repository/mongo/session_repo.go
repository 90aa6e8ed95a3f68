// internal/repository/mongo/session_repo.go
package mongo

import (
	"context"
	"errors"
	"sync"
	"time"

	"venzen/gym-log/internal/domain"
	"venzen/gym-log/internal/mutation"
	"venzen/gym-log/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollectionName = "sessions"

// maxMutateRetries bounds the optimistic-concurrency retry loop in
// MutateExercises.
const maxMutateRetries = 5

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new session repository.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// listByUser runs the ordered query backing both the one-shot read and
// every subscription delivery.
func (r *mongoSessionRepository) listByUser(ctx context.Context, userID string) ([]domain.WorkoutSession, error) {
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "startedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []domain.WorkoutSession{}
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].Exercises == nil {
			sessions[i].Exercises = []domain.Exercise{}
		}
	}
	return sessions, nil
}

// ListByUser retrieves all of the user's sessions, newest first.
func (r *mongoSessionRepository) ListByUser(ctx context.Context, userID string) ([]domain.WorkoutSession, error) {
	return r.listByUser(ctx, userID)
}

// Subscribe opens a change stream over the session collection and
// re-delivers the user's full ordered list after every relevant event.
// Each delivery is an authoritative replacement snapshot; there is no
// incremental merging.
func (r *mongoSessionRepository) Subscribe(ctx context.Context, userID string, onNext func([]domain.WorkoutSession), onError func(error)) (func(), error) {
	streamCtx, cancel := context.WithCancel(ctx)

	// Scope insert/update/replace events to this user. Delete events
	// carry no fullDocument, so they pass through and trigger a
	// (possibly redundant) re-query.
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"$or": bson.A{
				bson.M{"fullDocument.userId": userID},
				bson.M{"operationType": "delete"},
			},
		}}},
	}
	streamOptions := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	stream, err := r.collection.Watch(streamCtx, pipeline, streamOptions)
	if err != nil {
		cancel()
		return nil, err
	}

	// The stop guard: once stopped, neither callback may fire again.
	var mu sync.Mutex
	stopped := false

	deliver := func(sessions []domain.WorkoutSession) {
		mu.Lock()
		defer mu.Unlock()
		if !stopped {
			onNext(sessions)
		}
	}
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if !stopped {
			stopped = true
			onError(err)
		}
	}
	stop := func() {
		mu.Lock()
		stopped = true
		mu.Unlock()
		cancel()
	}

	go func() {
		defer stream.Close(context.Background())

		// Initial snapshot.
		initial, err := r.listByUser(streamCtx, userID)
		if err != nil {
			fail(err)
			return
		}
		deliver(initial)

		for stream.Next(streamCtx) {
			sessions, err := r.listByUser(streamCtx, userID)
			if err != nil {
				fail(err)
				return
			}
			deliver(sessions)
		}

		// Stream errors are terminal for the subscription; cancellation
		// via stop is a clean shutdown, not an error.
		if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
			fail(err)
		}
	}()

	return stop, nil
}

// Start implements find-or-create: an existing active session is
// returned unchanged, otherwise a fresh one is inserted. The unique
// partial index from EnsureSessionIndexes closes the race between two
// simultaneous starts; the loser re-reads the winner's document.
func (r *mongoSessionRepository) Start(ctx context.Context, userID string) (*domain.WorkoutSession, error) {
	existing, err := r.findActive(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	session := &domain.WorkoutSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    domain.StatusActive,
		StartedAt: now,
		EndedAt:   nil,
		Exercises: []domain.Exercise{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = r.collection.InsertOne(ctx, session)
	if mongo.IsDuplicateKeyError(err) {
		// Another device won the start race; join its session.
		return r.findActive(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (r *mongoSessionRepository) findActive(ctx context.Context, userID string) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	filter := bson.M{"userId": userID, "status": domain.StatusActive}
	// Newest first, in case legacy data holds more than one active
	// session for the user.
	findOptions := options.FindOne().SetSort(bson.D{{Key: "startedAt", Value: -1}})
	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if session.Exercises == nil {
		session.Exercises = []domain.Exercise{}
	}
	return &session, nil
}

// Patch merges scalar fields into the session document and refreshes
// updatedAt. The exercises array cannot be touched from here.
func (r *mongoSessionRepository) Patch(ctx context.Context, userID, sessionID string, patch repository.SessionPatch) error {
	fields := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Status != nil {
		fields["status"] = *patch.Status
	}
	if patch.EndedAt != nil {
		fields["endedAt"] = *patch.EndedAt
	}

	filter := bson.M{"_id": sessionID, "userId": userID}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// MutateExercises is the atomic read-modify-write over the exercises
// array. The document's revision counter is the optimistic lock: the
// conditional update only matches if no other writer committed since
// the read, and a miss rereads and reapplies the transform.
func (r *mongoSessionRepository) MutateExercises(ctx context.Context, userID, sessionID string, transform repository.ExerciseTransform) ([]domain.Exercise, error) {
	filter := bson.M{"_id": sessionID, "userId": userID}

	for attempt := 0; attempt < maxMutateRetries; attempt++ {
		var session domain.WorkoutSession
		err := r.collection.FindOne(ctx, filter).Decode(&session)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, repository.ErrNotFound
			}
			return nil, err
		}

		next, err := transform(mutation.CloneExercises(session.Exercises))
		if err != nil {
			return nil, err
		}

		update := bson.M{
			"$set": bson.M{
				"exercises": next,
				"updatedAt": time.Now().UTC(),
			},
			"$inc": bson.M{"revision": 1},
		}
		guarded := bson.M{
			"_id":      sessionID,
			"userId":   userID,
			"revision": session.Revision,
		}
		result, err := r.collection.UpdateOne(ctx, guarded, update)
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 1 {
			return next, nil
		}
		// Revision moved underneath us; retry against the fresh state.
	}
	return nil, repository.ErrConflict
}

// Delete removes the whole session document.
func (r *mongoSessionRepository) Delete(ctx context.Context, userID, sessionID string) error {
	filter := bson.M{"_id": sessionID, "userId": userID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureSessionIndexes creates necessary indexes. Call during startup.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// The live query: per-user sessions ordered newest first.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "startedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			// At most one active session per user, enforced at the
			// store layer rather than by check-then-create alone.
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": string(domain.StatusActive)}),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
