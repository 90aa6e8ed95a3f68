package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venzen/gym-log/internal/export"
)

type fakeFileStorage struct {
	uploadedKey  string
	uploadedType string
	uploadedBody []byte
	presignedKey string
}

func (f *fakeFileStorage) Upload(ctx context.Context, objectKey, contentType string, body []byte) error {
	f.uploadedKey = objectKey
	f.uploadedType = contentType
	f.uploadedBody = body
	return nil
}

func (f *fakeFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	f.presignedKey = objectKey
	return "https://exports.example.com/" + objectKey + "?signed=1", nil
}

func seededWorkout(t *testing.T, svc WorkoutService, userID string) {
	t.Helper()
	ctx := context.Background()

	session, err := svc.StartWorkout(ctx, userID)
	require.NoError(t, err)
	exercises, err := svc.AddExercise(ctx, userID, session.ID, "Bench Press")
	require.NoError(t, err)
	_, err = svc.AddSet(ctx, userID, session.ID, exercises[0].ID, "60", "10")
	require.NoError(t, err)
	_, err = svc.AddSet(ctx, userID, session.ID, exercises[0].ID, "65", "8")
	require.NoError(t, err)
	require.NoError(t, svc.EndWorkout(ctx, userID, session.ID))
}

func TestBuildCSVExport(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSessionRepo()
	seededWorkout(t, NewWorkoutService(repo), "user-1")

	svc := NewExportService(repo, &fakeFileStorage{}, time.UTC, 0)
	result, err := svc.BuildCSV(ctx, "user-1", export.Options{Scope: export.ScopeAll})
	require.NoError(t, err)

	assert.Equal(t, 2, result.RowCount)
	lines := strings.Split(strings.TrimRight(result.CSVText, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,exercise_name,reps,weight_kg,set_number,set_finished_at,workout_name,workout_started_at,workout_ended_at", lines[0])
	assert.Contains(t, lines[1], "Bench Press")
	assert.Empty(t, result.URL)
}

func TestUploadCSVExport(t *testing.T) {
	ctx := context.Background()
	repo := newFakeSessionRepo()
	seededWorkout(t, NewWorkoutService(repo), "user-1")

	storage := &fakeFileStorage{}
	svc := NewExportService(repo, storage, time.UTC, 15*time.Minute)
	result, err := svc.UploadCSV(ctx, "user-1", export.Options{Scope: export.ScopeAll})
	require.NoError(t, err)

	assert.Equal(t, 2, result.RowCount)
	assert.True(t, strings.HasPrefix(storage.uploadedKey, "exports/user-1/all-"))
	assert.Equal(t, "text/csv", storage.uploadedType)
	assert.Contains(t, string(storage.uploadedBody), "Bench Press")
	assert.Equal(t, storage.uploadedKey, storage.presignedKey)
	assert.Equal(t, "https://exports.example.com/"+storage.uploadedKey+"?signed=1", result.URL)
}

func TestExportEmptyHistory(t *testing.T) {
	ctx := context.Background()
	svc := NewExportService(newFakeSessionRepo(), &fakeFileStorage{}, time.UTC, 0)

	result, err := svc.BuildCSV(ctx, "user-1", export.Options{Scope: export.ScopeAll})
	require.NoError(t, err)
	assert.Equal(t, 0, result.RowCount)

	lines := strings.Split(strings.TrimRight(result.CSVText, "\n"), "\n")
	assert.Len(t, lines, 1, "header only")
}
