package service

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venzen/gym-log/internal/domain"
	"venzen/gym-log/internal/repository"
)

type fakeFavoriteRepo struct {
	mu        sync.Mutex
	favorites map[string]*domain.FavoriteTemplate
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favorites: make(map[string]*domain.FavoriteTemplate)}
}

func (f *fakeFavoriteRepo) Subscribe(ctx context.Context, userID string, onNext func([]domain.FavoriteTemplate), onError func(error)) (func(), error) {
	favorites, _ := f.ListByUser(ctx, userID)
	onNext(favorites)
	return func() {}, nil
}

func (f *fakeFavoriteRepo) Create(ctx context.Context, favorite *domain.FavoriteTemplate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *favorite
	f.favorites[favorite.ID] = &stored
	return nil
}

func (f *fakeFavoriteRepo) Delete(ctx context.Context, userID, favoriteID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	favorite, ok := f.favorites[favoriteID]
	if !ok || favorite.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.favorites, favoriteID)
	return nil
}

func (f *fakeFavoriteRepo) ListByUser(ctx context.Context, userID string) ([]domain.FavoriteTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	favorites := make([]domain.FavoriteTemplate, 0)
	for _, favorite := range f.favorites {
		if favorite.UserID == userID {
			favorites = append(favorites, *favorite)
		}
	}
	sort.Slice(favorites, func(i, j int) bool {
		return favorites[i].Name < favorites[j].Name
	})
	return favorites, nil
}

func TestCreateFavorite(t *testing.T) {
	ctx := context.Background()
	svc := NewFavoriteService(newFakeFavoriteRepo())

	favorite, err := svc.CreateFavorite(ctx, "user-1", "  Push Day ", []string{" Bench Press ", "", "Dip"})
	require.NoError(t, err)

	assert.NotEmpty(t, favorite.ID)
	assert.Equal(t, "Push Day", favorite.Name)
	assert.Equal(t, []string{"Bench Press", "Dip"}, favorite.ExerciseNames, "blank entries dropped, names trimmed")
}

func TestCreateFavoriteValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewFavoriteService(newFakeFavoriteRepo())

	_, err := svc.CreateFavorite(ctx, "user-1", "  ", []string{"Squat"})
	assert.ErrorIs(t, err, ErrFavoriteValidation)

	_, err = svc.CreateFavorite(ctx, "user-1", "Leg Day", []string{"", "  "})
	assert.ErrorIs(t, err, ErrFavoriteValidation)
}

func TestDeleteFavorite(t *testing.T) {
	ctx := context.Background()
	svc := NewFavoriteService(newFakeFavoriteRepo())

	favorite, err := svc.CreateFavorite(ctx, "user-1", "Push Day", []string{"Bench Press"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteFavorite(ctx, "user-2", favorite.ID), ErrFavoriteNotFound, "other users cannot delete")
	require.NoError(t, svc.DeleteFavorite(ctx, "user-1", favorite.ID))
	assert.ErrorIs(t, svc.DeleteFavorite(ctx, "user-1", favorite.ID), ErrFavoriteNotFound)
}

func TestListFavoritesSortedByName(t *testing.T) {
	ctx := context.Background()
	svc := NewFavoriteService(newFakeFavoriteRepo())

	_, err := svc.CreateFavorite(ctx, "user-1", "Push Day", []string{"Bench Press"})
	require.NoError(t, err)
	_, err = svc.CreateFavorite(ctx, "user-1", "Leg Day", []string{"Squat"})
	require.NoError(t, err)
	_, err = svc.CreateFavorite(ctx, "user-2", "Pull Day", []string{"Row"})
	require.NoError(t, err)

	favorites, err := svc.ListFavorites(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, favorites, 2, "only the owner's templates are listed")
	assert.Equal(t, "Leg Day", favorites[0].Name)
	assert.Equal(t, "Push Day", favorites[1].Name)
}
