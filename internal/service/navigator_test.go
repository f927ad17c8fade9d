package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bloomca/Discosaur/internal/domain"
)

// makeLibrary builds albums with the given track counts. Tracks get titles
// like "a0-t1" for readable failures.
func makeLibrary(trackCounts ...int) []*domain.Album {
	albums := make([]*domain.Album, 0, len(trackCounts))
	for ai, n := range trackCounts {
		album := &domain.Album{Name: fmt.Sprintf("Album %d", ai)}
		for ti := 0; ti < n; ti++ {
			title := fmt.Sprintf("a%d-t%d", ai, ti)
			album.Tracks = append(album.Tracks, &domain.Track{
				FilePath: "/music/" + title + ".mp3",
				FileName: title + ".mp3",
				Title:    title,
			})
		}
		albums = append(albums, album)
	}
	return albums
}

func TestNextTrackWithinAlbum(t *testing.T) {
	albums := makeLibrary(3, 2)

	next := NextTrack(albums[0].Tracks[0], albums)
	assert.Same(t, albums[0].Tracks[1], next)
}

func TestNextTrackCrossesAlbumBoundary(t *testing.T) {
	albums := makeLibrary(3, 2)

	next := NextTrack(albums[0].Tracks[2], albums)
	assert.Same(t, albums[1].Tracks[0], next)
}

func TestNextTrackAtEndReturnsNil(t *testing.T) {
	albums := makeLibrary(3, 2)

	assert.Nil(t, NextTrack(albums[1].Tracks[1], albums))
}

func TestNextTrackUnknownTrackReturnsNil(t *testing.T) {
	albums := makeLibrary(2)
	stranger := &domain.Track{Title: "stranger"}

	assert.Nil(t, NextTrack(stranger, albums))
	assert.Nil(t, NextTrack(nil, albums))
}

func TestPreviousTrackWithinAlbum(t *testing.T) {
	albums := makeLibrary(3, 2)

	prev := PreviousTrack(albums[0].Tracks[2], albums)
	assert.Same(t, albums[0].Tracks[1], prev)
}

func TestPreviousTrackCrossesAlbumBoundary(t *testing.T) {
	albums := makeLibrary(3, 2)

	prev := PreviousTrack(albums[1].Tracks[0], albums)
	assert.Same(t, albums[0].Tracks[2], prev)
}

func TestPreviousTrackAtStartReturnsNil(t *testing.T) {
	albums := makeLibrary(3, 2)

	assert.Nil(t, PreviousTrack(albums[0].Tracks[0], albums))
	assert.Nil(t, PreviousTrack(nil, albums))
}

func TestNextPreviousAreInverse(t *testing.T) {
	albums := makeLibrary(2, 1, 3)
	all := AllTracks(albums)
	require.Len(t, all, 6)

	// Walking forward then backward lands on the same track everywhere but
	// the ends.
	for i := 0; i < len(all)-1; i++ {
		next := NextTrack(all[i], albums)
		require.Same(t, all[i+1], next)
		assert.Same(t, all[i], PreviousTrack(next, albums))
	}
}

func TestNavigationSkipsEmptyAlbums(t *testing.T) {
	albums := makeLibrary(1, 0, 1)

	assert.Same(t, albums[2].Tracks[0], NextTrack(albums[0].Tracks[0], albums))
	assert.Same(t, albums[0].Tracks[0], PreviousTrack(albums[2].Tracks[0], albums))
}

func TestAlbumForTrack(t *testing.T) {
	albums := makeLibrary(2, 2)

	assert.Same(t, albums[1], AlbumForTrack(albums[1].Tracks[0], albums))
	assert.Nil(t, AlbumForTrack(&domain.Track{}, albums))
	assert.Nil(t, AlbumForTrack(nil, albums))
}

func TestFirstAndLastTrack(t *testing.T) {
	albums := makeLibrary(0, 2, 3, 0)

	assert.Same(t, albums[1].Tracks[0], FirstTrack(albums))
	assert.Same(t, albums[2].Tracks[2], LastTrack(albums))

	assert.Nil(t, FirstTrack(nil))
	assert.Nil(t, LastTrack(makeLibrary(0, 0)))
}

func TestAllTracksPreservesOrder(t *testing.T) {
	albums := makeLibrary(2, 1)

	all := AllTracks(albums)
	require.Len(t, all, 3)
	assert.Same(t, albums[0].Tracks[0], all[0])
	assert.Same(t, albums[0].Tracks[1], all[1])
	assert.Same(t, albums[1].Tracks[0], all[2])
}
