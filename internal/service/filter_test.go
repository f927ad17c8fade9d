package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bloomca/Discosaur/internal/domain"
)

func filterFixture() []*domain.Album {
	return []*domain.Album{
		{
			Name:   "OK Computer",
			Artist: "Radiohead",
			Year:   1997,
			Tracks: []*domain.Track{
				{Title: "Airbag", Genre: "Alternative"},
				{Title: "Paranoid Android", Genre: "Alternative"},
			},
		},
		{
			Name:   "Homework",
			Artist: "Daft Punk",
			Year:   1997,
			Tracks: []*domain.Track{
				{Title: "Daftendirekt", Genre: "House"},
				{Title: "Around the World", Genre: "House"},
			},
		},
		{
			Name: "Demos",
			Tracks: []*domain.Track{
				{Title: "Sketch 1"},
			},
		},
	}
}

func TestFilterEmptyConfigKeepsEverything(t *testing.T) {
	albums := filterFixture()

	result := Filter(albums, &domain.FilterConfiguration{})

	require.Len(t, result, 3)
	for i := range albums {
		assert.NotSame(t, albums[i], result[i], "albums must be new objects")
		assert.Equal(t, albums[i].Name, result[i].Name)
		assert.Len(t, result[i].Tracks, len(albums[i].Tracks))
	}
}

func TestFilterAlbumNameIsCaseInsensitiveSubstring(t *testing.T) {
	albums := filterFixture()

	result := Filter(albums, &domain.FilterConfiguration{AlbumNameSearch: "home"})

	require.Len(t, result, 1)
	assert.Equal(t, "Homework", result[0].Name)
}

func TestFilterSongNameThinsOutTracks(t *testing.T) {
	albums := filterFixture()

	result := Filter(albums, &domain.FilterConfiguration{SongNameSearch: "aRounD"})

	require.Len(t, result, 1)
	require.Len(t, result[0].Tracks, 1)
	assert.Equal(t, "Around the World", result[0].Tracks[0].Title)
}

func TestFilterDropsAlbumsLeftWithoutTracks(t *testing.T) {
	albums := filterFixture()

	result := Filter(albums, &domain.FilterConfiguration{SongNameSearch: "airbag"})

	require.Len(t, result, 1)
	assert.Equal(t, "OK Computer", result[0].Name)
}

func TestFilterYearRange(t *testing.T) {
	albums := filterFixture()

	result := Filter(albums, &domain.FilterConfiguration{YearFrom: 1990, YearTo: 2000})

	// The range is inclusive; the album without a year is excluded.
	require.Len(t, result, 2)
	assert.Equal(t, "OK Computer", result[0].Name)
	assert.Equal(t, "Homework", result[1].Name)
}

func TestFilterYearBoundsAreInclusive(t *testing.T) {
	albums := filterFixture()

	lower := Filter(albums, &domain.FilterConfiguration{YearFrom: 1997})
	assert.Len(t, lower, 2)

	upper := Filter(albums, &domain.FilterConfiguration{YearTo: 1997})
	assert.Len(t, upper, 2)

	outside := Filter(albums, &domain.FilterConfiguration{YearFrom: 1998})
	assert.Empty(t, outside)
}

func TestFilterSelectedAlbumNames(t *testing.T) {
	albums := filterFixture()

	result := Filter(albums, &domain.FilterConfiguration{
		SelectedAlbumNames: []string{"Demos", "Homework"},
	})

	require.Len(t, result, 2)
	assert.Equal(t, "Homework", result[0].Name)
	assert.Equal(t, "Demos", result[1].Name)
}

func TestFilterSelectedGenres(t *testing.T) {
	albums := filterFixture()

	result := Filter(albums, &domain.FilterConfiguration{
		SelectedGenres: []string{"House"},
	})

	require.Len(t, result, 1)
	assert.Equal(t, "Homework", result[0].Name)
	assert.Len(t, result[0].Tracks, 2)
}

func TestFilterCriteriaCombineWithAnd(t *testing.T) {
	albums := filterFixture()

	result := Filter(albums, &domain.FilterConfiguration{
		YearFrom:       1997,
		SongNameSearch: "paranoid",
	})

	require.Len(t, result, 1)
	assert.Equal(t, "OK Computer", result[0].Name)
	require.Len(t, result[0].Tracks, 1)
	assert.Equal(t, "Paranoid Android", result[0].Tracks[0].Title)
}

func TestFilterConflictingCriteriaYieldNothing(t *testing.T) {
	albums := filterFixture()

	result := Filter(albums, &domain.FilterConfiguration{
		AlbumNameSearch: "homework",
		SelectedGenres:  []string{"Alternative"},
	})

	assert.Empty(t, result)
}

func TestFilterSharesTrackPointers(t *testing.T) {
	albums := filterFixture()

	result := Filter(albums, &domain.FilterConfiguration{AlbumNameSearch: "ok"})

	require.Len(t, result, 1)
	require.Len(t, result[0].Tracks, 2)
	// Filtered albums are new objects, but their tracks are the originals,
	// so playback state resolved against the full library still matches.
	assert.Same(t, albums[0].Tracks[0], result[0].Tracks[0])
	assert.Same(t, albums[0].Tracks[1], result[0].Tracks[1])
}

func TestFilterDoesNotMutateSource(t *testing.T) {
	albums := filterFixture()

	Filter(albums, &domain.FilterConfiguration{SongNameSearch: "daft"})

	assert.Len(t, albums[1].Tracks, 2)
}

func TestFilterPreservesAlbumMetadata(t *testing.T) {
	albums := filterFixture()
	albums[0].CoverArtPath = "/music/ok/cover.jpg"
	albums[0].FolderToken = "token-ok"

	result := Filter(albums, &domain.FilterConfiguration{AlbumNameSearch: "ok"})

	require.Len(t, result, 1)
	assert.Equal(t, "Radiohead", result[0].Artist)
	assert.Equal(t, uint(1997), result[0].Year)
	assert.Equal(t, "/music/ok/cover.jpg", result[0].CoverArtPath)
	assert.Equal(t, "token-ok", result[0].FolderToken)
}

func TestFilterIsMonotonic(t *testing.T) {
	albums := filterFixture()

	loose := Filter(albums, &domain.FilterConfiguration{YearFrom: 1990})
	tight := Filter(albums, &domain.FilterConfiguration{YearFrom: 1990, AlbumNameSearch: "home"})

	// Adding criteria can only shrink the result.
	assert.LessOrEqual(t, len(tight), len(loose))
}

func TestGenresCollectsDistinctFirstSeen(t *testing.T) {
	albums := filterFixture()

	genres := Genres(albums)

	assert.Equal(t, []string{"Alternative", "House"}, genres)
}

func TestGenresSkipsEmpty(t *testing.T) {
	albums := []*domain.Album{
		{Tracks: []*domain.Track{{Title: "untitled"}}},
	}

	assert.Empty(t, Genres(albums))
}
