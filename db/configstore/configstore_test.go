package configstore

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumenlearn/discovery/config"
	"github.com/lumenlearn/discovery/logger"
)

func newTestLogger() logger.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler)
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	t.Setenv("ENV", "test")
	t.Setenv("CONFIG_DB_PATH", filepath.Join(t.TempDir(), "configstore_test.db"))

	cfg, err := config.Load()
	require.New(t).NoError(err)

	store, err := New(newTestLogger(), cfg)
	require.New(t).NoError(err)
	t.Cleanup(func() { store.Close() })

	return store
}

var parseFieldPathTestCases = []struct {
	name      string
	raw       string
	expectErr bool
}{
	{name: "SingleSegment", raw: "CourseTitle"},
	{name: "Nested", raw: "Course.CourseTitle"},
	{name: "UnderscoresAndDigits", raw: "Course_2.Course-Level"},
	{name: "Empty", raw: "", expectErr: true},
	{name: "Blank", raw: "   ", expectErr: true},
	{name: "EmptySegment", raw: "Course..CourseTitle", expectErr: true},
	{name: "TrailingDot", raw: "Course.", expectErr: true},
	{name: "Whitespace", raw: "Course Title", expectErr: true},
	{name: "QueryCharacters", raw: "Course.Title:*", expectErr: true},
}

func TestParseFieldPath(t *testing.T) {
	for _, testCase := range parseFieldPathTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			path, err := ParseFieldPath(testCase.raw)
			if testCase.expectErr {
				assert.ErrorIs(err, ErrInvalidFieldPath)
				return
			}
			assert.NoError(err)
			assert.Equal(FieldPath(testCase.raw), path)
		})
	}
}

func TestFieldPathHelpers(t *testing.T) {
	assert := require.New(t)
	path := FieldPath("Course.CourseTitle")

	assert.Equal("Course.CourseTitle.keyword", path.Keyword())
	assert.Equal("CourseTitle", path.Leaf())
	assert.Equal([]string{"Course", "CourseTitle"}, path.Segments())
}

func TestConfigurationIsSingleton(t *testing.T) {
	assert := require.New(t)
	store := setupTestStore(t)

	_, err := store.Configuration()
	assert.ErrorIs(err, ErrNotFound)

	assert.NoError(store.SaveConfiguration(SearchConfiguration{ResultsPerPage: 10}))
	assert.NoError(store.SaveConfiguration(SearchConfiguration{ResultsPerPage: 25, CourseImgFallback: "fallback.png"}))

	configuration, err := store.Configuration()
	assert.NoError(err)
	assert.Equal(25, configuration.ResultsPerPage, "a second save replaces the first")
	assert.Equal("fallback.png", configuration.CourseImgFallback)
}

func TestSaveConfigurationRejectsNonPositivePageSize(t *testing.T) {
	assert := require.New(t)
	store := setupTestStore(t)

	assert.ErrorIs(store.SaveConfiguration(SearchConfiguration{ResultsPerPage: 0}), ErrInvalidEntry)
	assert.ErrorIs(store.SaveConfiguration(SearchConfiguration{ResultsPerPage: -3}), ErrInvalidEntry)
}

func TestFilterRoundtrip(t *testing.T) {
	assert := require.New(t)
	store := setupTestStore(t)

	assert.NoError(store.SaveFilter(FilterDefinition{
		DisplayName: "Course Provider",
		FieldPath:   "Course.CourseProviderName",
		Active:      true,
	}))
	assert.NoError(store.SaveFilter(FilterDefinition{
		DisplayName: "Retired Filter",
		FieldPath:   "Course.OldField",
		FilterKind:  FilterKindTerms,
		Active:      false,
	}))

	filters, err := store.ActiveFilters()
	assert.NoError(err)
	assert.Len(filters, 1)
	assert.Equal("Course Provider", filters[0].DisplayName)
	assert.Equal(FilterKindTerms, filters[0].FilterKind, "the terms kind is the default")
}

func TestSaveFilterValidation(t *testing.T) {
	assert := require.New(t)
	store := setupTestStore(t)

	assert.ErrorIs(store.SaveFilter(FilterDefinition{FieldPath: "Course.CourseTitle"}), ErrInvalidEntry)
	assert.ErrorIs(store.SaveFilter(FilterDefinition{
		DisplayName: "Bad Kind",
		FieldPath:   "Course.CourseTitle",
		FilterKind:  "range",
	}), ErrInvalidEntry)
	assert.ErrorIs(store.SaveFilter(FilterDefinition{
		DisplayName: "Bad Path",
		FieldPath:   "Course..CourseTitle",
	}), ErrInvalidFieldPath)
}

func TestSortRoundtrip(t *testing.T) {
	assert := require.New(t)
	store := setupTestStore(t)

	assert.NoError(store.SaveSort(SortDefinition{DisplayName: "Course Title", FieldPath: "Course.CourseTitle", Active: true}))
	assert.NoError(store.SaveSort(SortDefinition{DisplayName: "Hidden Sort", FieldPath: "Course.HiddenField", Active: false}))

	sorts, err := store.ActiveSorts()
	assert.NoError(err)
	assert.Len(sorts, 1)
	assert.Equal("Course Title", sorts[0].DisplayName)
}

func TestActiveSpotlightIDs(t *testing.T) {
	assert := require.New(t)
	store := setupTestStore(t)

	assert.NoError(store.SaveSpotlight(SpotlightEntry{CourseID: "course-1", Active: true}))
	assert.NoError(store.SaveSpotlight(SpotlightEntry{CourseID: "course-2", Active: false}))
	assert.NoError(store.SaveSpotlight(SpotlightEntry{CourseID: "course-3", Active: true}))
	assert.ErrorIs(store.SaveSpotlight(SpotlightEntry{Active: true}), ErrInvalidEntry)

	ids, err := store.ActiveSpotlightIDs()
	assert.NoError(err)
	assert.Equal([]string{"course-1", "course-3"}, ids)
}

func TestActiveHighlightsOrderedByRank(t *testing.T) {
	assert := require.New(t)
	store := setupTestStore(t)

	assert.NoError(store.SaveHighlight(DetailHighlight{DisplayName: "Provider", FieldPath: "Course.CourseProviderName", Rank: 2, Active: true}))
	assert.NoError(store.SaveHighlight(DetailHighlight{DisplayName: "Level", FieldPath: "CourseInstance.CourseLevel", Rank: 1, Active: true}))
	assert.NoError(store.SaveHighlight(DetailHighlight{DisplayName: "Inactive", FieldPath: "Course.Unused", Rank: 3, Active: false}))
	assert.ErrorIs(store.SaveHighlight(DetailHighlight{DisplayName: "No Rank", FieldPath: "Course.CourseTitle"}), ErrInvalidEntry)

	highlights, err := store.ActiveHighlights()
	assert.NoError(err)
	assert.Len(highlights, 2)
	assert.Equal("Level", highlights[0].DisplayName)
	assert.Equal("Provider", highlights[1].DisplayName)
}

func TestSnapshotCarriesActiveDefinitionsOnly(t *testing.T) {
	assert := require.New(t)
	store := setupTestStore(t)

	assert.NoError(store.SaveConfiguration(SearchConfiguration{ResultsPerPage: 10}))
	assert.NoError(store.SaveFilter(FilterDefinition{DisplayName: "Course Provider", FieldPath: "Course.CourseProviderName", Active: true}))
	assert.NoError(store.SaveFilter(FilterDefinition{DisplayName: "Retired", FieldPath: "Course.OldField", Active: false}))
	assert.NoError(store.SaveSort(SortDefinition{DisplayName: "Course Title", FieldPath: "Course.CourseTitle", Active: true}))

	snapshot, err := store.Snapshot()
	assert.NoError(err)
	assert.Equal(10, snapshot.Configuration.ResultsPerPage)
	assert.Len(snapshot.Filters, 1)
	assert.Len(snapshot.Sorts, 1)

	_, ok := snapshot.FilterByFieldPath("Course.CourseProviderName")
	assert.True(ok)
	_, ok = snapshot.FilterByFieldPath("Course.OldField")
	assert.False(ok, "inactive definitions never reach the snapshot")
}

func TestSnapshotWithoutConfiguration(t *testing.T) {
	assert := require.New(t)
	store := setupTestStore(t)

	_, err := store.Snapshot()
	assert.ErrorIs(err, ErrNotFound)
}

const seedFixture = `configuration:
  results_per_page: 10
  course_img_fallback: "images/default-course.png"
filters:
  - display_name: "Course Provider"
    field_name: "Course.CourseProviderName"
    filter_type: "terms"
    active: true
  - display_name: "Course Level"
    field_name: "CourseInstance.CourseLevel"
    filter_type: "terms"
    active: false
sort_options:
  - display_name: "Course Title"
    field_name: "Course.CourseTitle"
    active: true
spotlights:
  - course_id: "course-42"
    active: true
highlights:
  - display_name: "Provider"
    field_name: "Course.CourseProviderName"
    highlight_icon: "clipboard"
    rank: 1
    active: true
`

func TestLoadSeed(t *testing.T) {
	assert := require.New(t)
	store := setupTestStore(t)

	seedPath := filepath.Join(t.TempDir(), "seed.yaml")
	assert.NoError(os.WriteFile(seedPath, []byte(seedFixture), 0644))

	assert.NoError(store.LoadSeed(seedPath))

	snapshot, err := store.Snapshot()
	assert.NoError(err)
	assert.Equal(10, snapshot.Configuration.ResultsPerPage)
	assert.Len(snapshot.Filters, 1)
	assert.Len(snapshot.Sorts, 1)

	ids, err := store.ActiveSpotlightIDs()
	assert.NoError(err)
	assert.Equal([]string{"course-42"}, ids)

	highlights, err := store.ActiveHighlights()
	assert.NoError(err)
	assert.Len(highlights, 1)
	assert.Equal("clipboard", highlights[0].HighlightIcon)
}

func TestLoadSeedMissingFile(t *testing.T) {
	assert := require.New(t)
	store := setupTestStore(t)

	assert.Error(store.LoadSeed(filepath.Join(t.TempDir(), "missing.yaml")))
}
