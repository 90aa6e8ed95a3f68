// Package catalog holds the static exercise reference list used for
// autocomplete suggestions and name-based id resolution. The dataset is
// produced at build time from an external exercise database, embedded
// into the binary, and never mutated at runtime.
package catalog

import (
	_ "embed"
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

//go:embed exercise_catalog.json
var catalogJSON []byte

// Entry is one known exercise from the reference dataset.
type Entry struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category,omitempty"`
	Equipment      []string `json:"equipment,omitempty"`
	PrimaryMuscles []string `json:"primaryMuscles,omitempty"`
}

// RawEntry is the shape of the upstream dataset before normalization.
type RawEntry struct {
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Equipment      []string `json:"equipment"`
	PrimaryMuscles []string `json:"primary_muscles"`
}

var (
	loadOnce sync.Once
	entries  []Entry
	byName   map[string]*Entry // Keyed by lowercased name
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	slugStripRe  = regexp.MustCompile(`[^a-z0-9]+`)
)

// normalizeText collapses internal whitespace and trims the result.
func normalizeText(value string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(value, " "))
}

// slugify lowercases a name and reduces it to hyphen-separated
// alphanumeric runs, e.g. "Bench Press (Barbell)" -> "bench-press-barbell".
func slugify(value string) string {
	slug := slugStripRe.ReplaceAllString(strings.ToLower(normalizeText(value)), "-")
	return strings.Trim(slug, "-")
}

// Build converts raw dataset entries into the catalog: names are
// whitespace-normalized, duplicates are dropped case-insensitively,
// ids are slugified names with deterministic -2/-3 suffixes on slug
// collisions, and the result is sorted by name.
func Build(raw []RawEntry) []Entry {
	seenNames := make(map[string]bool)
	slugCounts := make(map[string]int)
	built := make([]Entry, 0, len(raw))

	for _, item := range raw {
		name := normalizeText(item.Name)
		if name == "" {
			continue
		}

		dedupeKey := strings.ToLower(name)
		if seenNames[dedupeKey] {
			continue
		}
		seenNames[dedupeKey] = true

		baseSlug := slugify(name)
		if baseSlug == "" {
			baseSlug = "exercise"
		}
		slugCounts[baseSlug]++
		id := baseSlug
		if n := slugCounts[baseSlug]; n > 1 {
			id = baseSlug + "-" + strconv.Itoa(n)
		}

		entry := Entry{
			ID:       id,
			Name:     name,
			Category: normalizeText(item.Category),
		}
		for _, eq := range item.Equipment {
			if v := normalizeText(eq); v != "" {
				entry.Equipment = append(entry.Equipment, v)
			}
		}
		for _, m := range item.PrimaryMuscles {
			if v := normalizeText(m); v != "" {
				entry.PrimaryMuscles = append(entry.PrimaryMuscles, v)
			}
		}
		built = append(built, entry)
	}

	sort.Slice(built, func(i, j int) bool {
		return built[i].Name < built[j].Name
	})
	return built
}

func load() {
	loadOnce.Do(func() {
		if err := json.Unmarshal(catalogJSON, &entries); err != nil {
			// The embedded dataset is generated and validated at build
			// time; failing to parse it is a packaging defect.
			panic("catalog: embedded dataset is invalid: " + err.Error())
		}
		byName = make(map[string]*Entry, len(entries))
		for i := range entries {
			byName[strings.ToLower(entries[i].Name)] = &entries[i]
		}
	})
}

// All returns the full catalog sorted by name.
func All() []Entry {
	load()
	return entries
}

// ResolveID matches a free-text exercise name against the catalog by
// case-insensitive exact match and returns the catalog id, or nil when
// the name is unknown. Resolution happens once at exercise creation;
// renames never re-resolve.
func ResolveID(name string) *string {
	load()
	entry, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil
	}
	id := entry.ID
	return &id
}

// Suggest returns up to limit catalog entries whose name contains the
// query, case-insensitively, preserving catalog (name) order. An empty
// query returns the head of the catalog.
func Suggest(query string, limit int) []Entry {
	load()
	if limit <= 0 {
		limit = 10
	}
	needle := strings.ToLower(strings.TrimSpace(query))

	matches := make([]Entry, 0, limit)
	for _, entry := range entries {
		if needle == "" || strings.Contains(strings.ToLower(entry.Name), needle) {
			matches = append(matches, entry)
			if len(matches) == limit {
				break
			}
		}
	}
	return matches
}
