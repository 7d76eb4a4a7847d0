package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// seedCatalog loads a fixed catalog exercising every filter dimension:
// deprecated and nsfw flags in all combinations, mods with several, one and
// no categories, and update dates spanning years.
func seedCatalog(t *testing.T, s *Store) {
	t.Helper()

	require.NoError(t, s.InsertCategories([]string{"Suits", "Music", "TV", "Items", "Misc"}))
	categories, err := s.GetCategories()
	require.NoError(t, err)
	byName := map[string]int32{}
	for _, c := range categories {
		byName[c.Name] = c.ID
	}
	ids := func(names ...string) []int32 {
		out := make([]int32, 0, len(names))
		for _, n := range names {
			out = append(out, byName[n])
		}
		return out
	}

	date := func(value string) time.Time {
		parsed, err := time.Parse(time.RFC3339, value)
		require.NoError(t, err)
		return parsed
	}

	entry := func(name string, updated string, deprecated, nsfw bool, categories ...string) CatalogMod {
		m := testMod(name, date(updated))
		m.Deprecated = deprecated
		m.NSFW = nsfw
		return CatalogMod{Mod: m, CategoryIDs: ids(categories...)}
	}

	require.NoError(t, s.InsertMods([]CatalogMod{
		entry("new-update mod", "2025-03-21T10:00:00Z", false, false),
		entry("1st mod", "2025-03-20T10:00:00Z", false, false, "Items", "Misc"),
		entry("dep-mod", "2025-03-20T09:00:00Z", true, false, "Items"),
		entry("nsfw-mod", "2025-03-20T08:00:00Z", false, true, "Items"),
		entry("dep-nsfw-mod", "2025-03-20T07:00:00Z", true, true, "Items"),
		entry("5th mod", "2025-03-09T10:00:00Z", false, false, "Music", "TV", "Items", "Misc"),
		entry("6th mod", "2025-03-08T10:00:00Z", false, false, "Music"),
		entry("nsfw-2 mod", "2025-03-07T10:00:00Z", false, true, "Misc"),
		entry("no-category mod", "2025-03-06T10:00:00Z", false, false),
		entry("old-mod", "2020-01-01T10:00:00Z", false, false),
	}, 100))
}

func listingNames(listings []ModListing) []string {
	names := make([]string, len(listings))
	for i, l := range listings {
		names[i] = l.Name
	}
	return names
}

func TestGetModsFilters(t *testing.T) {
	s := openTestStore(t)
	seedCatalog(t, s)
	const userID int32 = 1

	t.Run("defaults hide deprecated and nsfw", func(t *testing.T) {
		listings, err := s.GetMods(DefaultModQueryOptions(), userID)
		require.NoError(t, err)
		require.Equal(t, []string{
			"new-update mod", "1st mod", "5th mod", "6th mod", "no-category mod", "old-mod",
		}, listingNames(listings))
	})

	t.Run("include deprecated", func(t *testing.T) {
		opts := DefaultModQueryOptions()
		opts.IncludeDeprecated = true
		listings, err := s.GetMods(opts, userID)
		require.NoError(t, err)
		require.Equal(t, []string{
			"new-update mod", "1st mod", "dep-mod", "5th mod", "6th mod", "no-category mod", "old-mod",
		}, listingNames(listings))
	})

	t.Run("include nsfw", func(t *testing.T) {
		opts := DefaultModQueryOptions()
		opts.IncludeNSFW = true
		listings, err := s.GetMods(opts, userID)
		require.NoError(t, err)
		require.Equal(t, []string{
			"new-update mod", "1st mod", "nsfw-mod", "5th mod", "6th mod", "nsfw-2 mod", "no-category mod", "old-mod",
		}, listingNames(listings))
	})

	t.Run("include everything", func(t *testing.T) {
		opts := DefaultModQueryOptions()
		opts.IncludeDeprecated = true
		opts.IncludeNSFW = true
		listings, err := s.GetMods(opts, userID)
		require.NoError(t, err)
		require.Len(t, listings, 10)
	})

	t.Run("ignored categories drop every associated mod", func(t *testing.T) {
		opts := DefaultModQueryOptions()
		opts.IncludeDeprecated = true
		opts.IncludeNSFW = true
		opts.IgnoredCategories = []string{"Items", "Misc"}
		listings, err := s.GetMods(opts, userID)
		require.NoError(t, err)
		require.Equal(t, []string{
			"new-update mod", "6th mod", "no-category mod", "old-mod",
		}, listingNames(listings))
	})

	t.Run("ignoring an unused category changes nothing", func(t *testing.T) {
		opts := DefaultModQueryOptions()
		opts.IgnoredCategories = []string{"Suits"}
		listings, err := s.GetMods(opts, userID)
		require.NoError(t, err)
		require.Len(t, listings, 6)
	})

	t.Run("limit truncates after ordering", func(t *testing.T) {
		opts := DefaultModQueryOptions()
		opts.Limit = 4
		listings, err := s.GetMods(opts, userID)
		require.NoError(t, err)
		require.Equal(t, []string{
			"new-update mod", "1st mod", "5th mod", "6th mod",
		}, listingNames(listings))
	})

	t.Run("category names are attached", func(t *testing.T) {
		opts := DefaultModQueryOptions()
		opts.Limit = 3
		listings, err := s.GetMods(opts, userID)
		require.NoError(t, err)
		require.Len(t, listings, 3)

		require.Empty(t, listings[0].Categories)
		require.ElementsMatch(t, []string{"Items", "Misc"}, listings[1].Categories)
		require.ElementsMatch(t, []string{"Music", "TV", "Items", "Misc"}, listings[2].Categories)
	})
}

func TestGetModsExcludesRated(t *testing.T) {
	s := openTestStore(t)
	seedCatalog(t, s)
	const alice, bob int32 = 1, 2

	require.NoError(t, s.InsertRating(testUUID("new-update mod"), RatingLike, alice))
	require.NoError(t, s.InsertRating(testUUID("1st mod"), RatingDislike, alice))

	t.Run("rated mods leave the rater's feed", func(t *testing.T) {
		listings, err := s.GetMods(DefaultModQueryOptions(), alice)
		require.NoError(t, err)
		require.Equal(t, []string{
			"5th mod", "6th mod", "no-category mod", "old-mod",
		}, listingNames(listings))
	})

	t.Run("other users still see them", func(t *testing.T) {
		listings, err := s.GetMods(DefaultModQueryOptions(), bob)
		require.NoError(t, err)
		require.Equal(t, []string{
			"new-update mod", "1st mod", "5th mod", "6th mod", "no-category mod", "old-mod",
		}, listingNames(listings))
	})

	t.Run("either verdict hides the mod", func(t *testing.T) {
		listings, err := s.GetMods(DefaultModQueryOptions(), alice)
		require.NoError(t, err)
		require.NotContains(t, listingNames(listings), "1st mod")
	})
}
