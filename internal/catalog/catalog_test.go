package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	raw := []RawEntry{
		{Name: "  Bench   Press ", Category: "strength", Equipment: []string{"barbell"}},
		{Name: "bench press"}, // Case-insensitive duplicate
		{Name: "Squat"},
		{Name: ""},
	}

	built := Build(raw)
	require.Len(t, built, 2)
	assert.Equal(t, "Bench Press", built[0].Name, "whitespace normalized")
	assert.Equal(t, "bench-press", built[0].ID)
	assert.Equal(t, []string{"barbell"}, built[0].Equipment)
	assert.Equal(t, "squat", built[1].ID)
}

func TestBuildSlugCollisionSuffixes(t *testing.T) {
	raw := []RawEntry{
		{Name: "Chin-Up"},
		{Name: "Chin Up"},  // Distinct name, same slug
		{Name: "Chin  Up"}, // Dropped as a duplicate of "Chin Up"
		{Name: "Chin/Up!"},
	}

	built := Build(raw)
	require.Len(t, built, 3)

	ids := make(map[string]bool)
	for _, entry := range built {
		ids[entry.ID] = true
	}
	assert.True(t, ids["chin-up"])
	assert.True(t, ids["chin-up-2"])
	assert.True(t, ids["chin-up-3"])
}

func TestBuildSortsByName(t *testing.T) {
	built := Build([]RawEntry{{Name: "Squat"}, {Name: "Deadlift"}, {Name: "Bench Press"}})
	require.Len(t, built, 3)
	assert.Equal(t, "Bench Press", built[0].Name)
	assert.Equal(t, "Deadlift", built[1].Name)
	assert.Equal(t, "Squat", built[2].Name)
}

func TestAllIsSortedAndNonEmpty(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Name, all[i].Name)
	}
}

func TestResolveID(t *testing.T) {
	id := ResolveID("Bench Press")
	require.NotNil(t, id)
	assert.Equal(t, "bench-press", *id)

	id = ResolveID("  bench press  ")
	require.NotNil(t, id, "matching is case-insensitive and trimmed")
	assert.Equal(t, "bench-press", *id)

	assert.Nil(t, ResolveID("Bench"), "substrings do not resolve")
	assert.Nil(t, ResolveID("Granddad's Farm Carry"))
}

func TestSuggest(t *testing.T) {
	matches := Suggest("press", 3)
	require.NotEmpty(t, matches)
	assert.LessOrEqual(t, len(matches), 3)
	for _, entry := range matches {
		assert.Contains(t, entry.ID, "press")
	}

	assert.Len(t, Suggest("", 5), 5, "empty query returns the catalog head")
	assert.Empty(t, Suggest("zzzzz", 5))
}
