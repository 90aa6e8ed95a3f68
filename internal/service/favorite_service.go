package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"venzen/gym-log/internal/domain"
	"venzen/gym-log/internal/repository"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrFavoriteNotFound   = errors.New("favorite template not found")
	ErrFavoriteValidation = errors.New("favorite template validation failed")
)

// FavoriteService manages saved workout templates. Templates are only
// created and deleted, never edited in place.
type FavoriteService interface {
	CreateFavorite(ctx context.Context, userID, name string, exerciseNames []string) (*domain.FavoriteTemplate, error)
	DeleteFavorite(ctx context.Context, userID, favoriteID string) error
	ListFavorites(ctx context.Context, userID string) ([]domain.FavoriteTemplate, error)
	Subscribe(ctx context.Context, userID string, onNext func([]domain.FavoriteTemplate), onError func(error)) (stop func(), err error)
}

// favoriteService implements the FavoriteService interface.
type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
}

// NewFavoriteService creates a new instance of favoriteService.
func NewFavoriteService(favoriteRepo repository.FavoriteRepository) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
	}
}

// CreateFavorite stores a new template with the given exercise names.
func (s *favoriteService) CreateFavorite(ctx context.Context, userID, name string, exerciseNames []string) (*domain.FavoriteTemplate, error) {
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return nil, ErrFavoriteValidation
	}

	names := make([]string, 0, len(exerciseNames))
	for _, exerciseName := range exerciseNames {
		if trimmed := strings.TrimSpace(exerciseName); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	if len(names) == 0 {
		return nil, ErrFavoriteValidation
	}

	now := time.Now().UTC()
	favorite := &domain.FavoriteTemplate{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          trimmedName,
		ExerciseNames: names,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.favoriteRepo.Create(ctx, favorite); err != nil {
		return nil, err
	}
	return favorite, nil
}

// DeleteFavorite removes a template.
func (s *favoriteService) DeleteFavorite(ctx context.Context, userID, favoriteID string) error {
	err := s.favoriteRepo.Delete(ctx, userID, favoriteID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrFavoriteNotFound
	}
	return err
}

// ListFavorites returns the user's templates ordered by name.
func (s *favoriteService) ListFavorites(ctx context.Context, userID string) ([]domain.FavoriteTemplate, error) {
	return s.favoriteRepo.ListByUser(ctx, userID)
}

// Subscribe passes the live template feed through to the caller.
func (s *favoriteService) Subscribe(ctx context.Context, userID string, onNext func([]domain.FavoriteTemplate), onError func(error)) (func(), error) {
	return s.favoriteRepo.Subscribe(ctx, userID, onNext, onError)
}
