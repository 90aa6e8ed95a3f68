// internal/repository/mongo/favorite_repo.go
package mongo

import (
	"context"
	"errors"
	"sync"
	"time"

	"venzen/gym-log/internal/domain"
	"venzen/gym-log/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const favoriteCollectionName = "favoriteTemplates"

// mongoFavoriteRepository implements repository.FavoriteRepository
type mongoFavoriteRepository struct {
	collection *mongo.Collection
}

// NewMongoFavoriteRepository creates a new favorite-template repository.
func NewMongoFavoriteRepository(db *mongo.Database) repository.FavoriteRepository {
	return &mongoFavoriteRepository{
		collection: db.Collection(favoriteCollectionName),
	}
}

func (r *mongoFavoriteRepository) listByUser(ctx context.Context, userID string) ([]domain.FavoriteTemplate, error) {
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	favorites := []domain.FavoriteTemplate{}
	if err = cursor.All(ctx, &favorites); err != nil {
		return nil, err
	}
	for i := range favorites {
		if favorites[i].ExerciseNames == nil {
			favorites[i].ExerciseNames = []string{}
		}
	}
	return favorites, nil
}

// ListByUser retrieves all templates for a user, ordered by name.
func (r *mongoFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]domain.FavoriteTemplate, error) {
	return r.listByUser(ctx, userID)
}

// Subscribe mirrors the session subscription: full, name-ordered
// snapshots on every change, terminal errors, cancellable.
func (r *mongoFavoriteRepository) Subscribe(ctx context.Context, userID string, onNext func([]domain.FavoriteTemplate), onError func(error)) (func(), error) {
	streamCtx, cancel := context.WithCancel(ctx)

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

	var mu sync.Mutex
	stopped := false

	deliver := func(favorites []domain.FavoriteTemplate) {
		mu.Lock()
		defer mu.Unlock()
		if !stopped {
			onNext(favorites)
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

		initial, err := r.listByUser(streamCtx, userID)
		if err != nil {
			fail(err)
			return
		}
		deliver(initial)

		for stream.Next(streamCtx) {
			favorites, err := r.listByUser(streamCtx, userID)
			if err != nil {
				fail(err)
				return
			}
			deliver(favorites)
		}

		if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) {
			fail(err)
		}
	}()

	return stop, nil
}

// Create inserts a new favorite template.
func (r *mongoFavoriteRepository) Create(ctx context.Context, favorite *domain.FavoriteTemplate) error {
	if favorite.ID == "" || favorite.UserID == "" || favorite.Name == "" {
		return errors.New("favorite template requires id, userId, and name")
	}
	now := time.Now().UTC()
	if favorite.CreatedAt.IsZero() {
		favorite.CreatedAt = now
	}
	favorite.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, favorite)
	return err
}

// Delete removes a favorite template.
func (r *mongoFavoriteRepository) Delete(ctx context.Context, userID, favoriteID string) error {
	filter := bson.M{"_id": favoriteID, "userId": userID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureFavoriteIndexes creates necessary indexes. Call during startup.
func EnsureFavoriteIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// The live query: per-user templates ordered by name.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
