package mutation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venzen/gym-log/internal/domain"
)

var testNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func sampleExercises() []domain.Exercise {
	earlier := testNow.Add(-10 * time.Minute)
	return []domain.Exercise{
		{
			ID:        "ex-1",
			Name:      "Bench Press",
			StartedAt: earlier,
			CreatedAt: earlier,
			UpdatedAt: earlier,
			Sets: []domain.SetEntry{
				{ID: "set-1", WeightKg: 60, Reps: 10, FinishedAt: earlier, CreatedAt: earlier, UpdatedAt: earlier},
				{ID: "set-2", WeightKg: 65, Reps: 8, FinishedAt: earlier, CreatedAt: earlier, UpdatedAt: earlier},
			},
		},
		{
			ID:        "ex-2",
			Name:      "Squat",
			StartedAt: earlier,
			CreatedAt: earlier,
			UpdatedAt: earlier,
			Sets:      []domain.SetEntry{},
		},
	}
}

func TestParseWeight(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"60", 60, false},
		{"62.5", 62.5, false},
		{"62,5", 62.5, false},
		{"  70 ", 70, false},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, true},
		{"-5", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseWeight(tc.input)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrInvalidWeight, "input %q", tc.input)
			continue
		}
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestParseReps(t *testing.T) {
	got, err := ParseReps(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, 12, got)

	for _, input := range []string{"", "0", "-3", "2.5", "ten"} {
		_, err := ParseReps(input)
		assert.ErrorIs(t, err, ErrInvalidReps, "input %q", input)
	}
}

func TestAddExercise(t *testing.T) {
	next, err := AddExercise(sampleExercises(), "  Deadlift  ", testNow)
	require.NoError(t, err)
	require.Len(t, next, 3)

	added := next[2]
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, "Deadlift", added.Name, "name is trimmed")
	assert.Equal(t, testNow, added.StartedAt)
	assert.NotNil(t, added.Sets, "sets start as an empty list, not nil")
	assert.Empty(t, added.Sets)
	require.NotNil(t, added.CatalogID, "known names resolve a catalog id")
	assert.Equal(t, "deadlift", *added.CatalogID)
}

func TestAddExerciseUnknownNameHasNoCatalogID(t *testing.T) {
	next, err := AddExercise(nil, "Granddad's Farm Carry", testNow)
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Nil(t, next[0].CatalogID)
}

func TestAddExerciseRejectsBlankName(t *testing.T) {
	_, err := AddExercise(sampleExercises(), "   ", testNow)
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestAddExerciseGeneratesUniqueIDs(t *testing.T) {
	next, err := AddExercise(sampleExercises(), "Row", testNow)
	require.NoError(t, err)
	next, err = AddExercise(next, "Row", testNow)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, exercise := range next {
		assert.False(t, seen[exercise.ID], "duplicate exercise id %s", exercise.ID)
		seen[exercise.ID] = true
	}
}

func TestRenameExercise(t *testing.T) {
	next, err := RenameExercise(sampleExercises(), "ex-1", "Incline Bench", testNow)
	require.NoError(t, err)

	assert.Equal(t, "Incline Bench", next[0].Name)
	assert.Equal(t, testNow, next[0].UpdatedAt)
	assert.Len(t, next[0].Sets, 2, "sets survive a rename")
	assert.Equal(t, "Squat", next[1].Name, "siblings untouched")
}

func TestRenameExerciseErrors(t *testing.T) {
	_, err := RenameExercise(sampleExercises(), "ex-1", "", testNow)
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = RenameExercise(sampleExercises(), "missing", "Row", testNow)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestDeleteExercise(t *testing.T) {
	next, err := DeleteExercise(sampleExercises(), "ex-1")
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, "ex-2", next[0].ID, "the exercise and its sets are gone")
}

func TestDeleteExerciseAbsentIDIsNoOp(t *testing.T) {
	next, err := DeleteExercise(sampleExercises(), "missing")
	require.NoError(t, err)
	assert.Len(t, next, 2)
}

func TestAddSet(t *testing.T) {
	next, err := AddSet(sampleExercises(), "ex-2", 80, 5, testNow)
	require.NoError(t, err)

	require.Len(t, next[1].Sets, 1)
	added := next[1].Sets[0]
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, 80.0, added.WeightKg)
	assert.Equal(t, 5, added.Reps)
	assert.Equal(t, testNow, added.FinishedAt)
	assert.Equal(t, testNow, next[1].UpdatedAt, "parent updatedAt bumped")
}

func TestAddSetValidation(t *testing.T) {
	_, err := AddSet(sampleExercises(), "ex-1", -1, 5, testNow)
	assert.ErrorIs(t, err, ErrInvalidWeight)

	_, err = AddSet(sampleExercises(), "ex-1", 60, 0, testNow)
	assert.ErrorIs(t, err, ErrInvalidReps)

	_, err = AddSet(sampleExercises(), "missing", 60, 5, testNow)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestUpdateSet(t *testing.T) {
	before := sampleExercises()
	original := before[0].Sets[0]

	next, err := UpdateSet(before, "ex-1", "set-1", 62.5, 9, testNow)
	require.NoError(t, err)

	updated := next[0].Sets[0]
	assert.Equal(t, 62.5, updated.WeightKg)
	assert.Equal(t, 9, updated.Reps)
	assert.Equal(t, original.FinishedAt, updated.FinishedAt, "finishedAt preserved")
	assert.Equal(t, original.CreatedAt, updated.CreatedAt, "createdAt preserved")
	assert.Equal(t, testNow, updated.UpdatedAt)
	assert.Equal(t, testNow, next[0].UpdatedAt)
	assert.Equal(t, original, before[0].Sets[0], "input not mutated")
}

func TestUpdateSetErrors(t *testing.T) {
	_, err := UpdateSet(sampleExercises(), "ex-1", "missing", 60, 5, testNow)
	assert.ErrorIs(t, err, ErrSetNotFound)

	_, err = UpdateSet(sampleExercises(), "ex-1", "set-1", 60, -1, testNow)
	assert.ErrorIs(t, err, ErrInvalidReps)
}

func TestDeleteSet(t *testing.T) {
	next, err := DeleteSet(sampleExercises(), "ex-1", "set-1", testNow)
	require.NoError(t, err)

	require.Len(t, next[0].Sets, 1)
	assert.Equal(t, "set-2", next[0].Sets[0].ID)
	assert.Equal(t, testNow, next[0].UpdatedAt)
}

func TestDeleteSetAbsentIDsAreNoOps(t *testing.T) {
	next, err := DeleteSet(sampleExercises(), "ex-1", "missing", testNow)
	require.NoError(t, err)
	assert.Len(t, next[0].Sets, 2)

	next, err = DeleteSet(sampleExercises(), "missing", "set-1", testNow)
	require.NoError(t, err)
	assert.Len(t, next, 2)
}

func TestOperationsDoNotAliasInput(t *testing.T) {
	before := sampleExercises()
	next, err := AddSet(before, "ex-1", 100, 3, testNow)
	require.NoError(t, err)

	next[0].Sets[0].WeightKg = 999
	next[0].Name = "changed"

	assert.Equal(t, 60.0, before[0].Sets[0].WeightKg)
	assert.Equal(t, "Bench Press", before[0].Name)
	assert.Len(t, before[0].Sets, 2)
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(ErrEmptyName))
	assert.True(t, IsValidation(ErrInvalidWeight))
	assert.True(t, IsValidation(ErrInvalidReps))
	assert.False(t, IsValidation(ErrExerciseNotFound))
	assert.False(t, IsValidation(nil))
}
