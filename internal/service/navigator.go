// Package service provides the business logic of the Discosaur engine:
// library building and filtering, sequence navigation, selection, playback
// orchestration and state persistence.
package service

import (
	"github.com/Bloomca/Discosaur/internal/domain"
)

// The navigator treats an album list as one logical sequence: the
// concatenation of every album's track list in order. All lookups compare
// tracks by pointer and are read-only linear scans, which is fine for
// libraries of a few thousand tracks.

// NextTrack returns the track immediately following current in the logical
// sequence, crossing into the first track of the next non-empty album when
// current is the last of its album. Returns nil when current is nil, not in
// albums, or the last track overall.
func NextTrack(current *domain.Track, albums []*domain.Album) *domain.Track {
	if current == nil {
		return nil
	}

	takeNext := false
	for _, album := range albums {
		for _, track := range album.Tracks {
			if takeNext {
				return track
			}
			if track == current {
				takeNext = true
			}
		}
	}
	return nil
}

// PreviousTrack returns the track immediately preceding current, crossing
// into the last track of the previous non-empty album. Returns nil when
// current is nil, not in albums, or the first track overall.
func PreviousTrack(current *domain.Track, albums []*domain.Album) *domain.Track {
	if current == nil {
		return nil
	}

	var prev *domain.Track
	for _, album := range albums {
		for _, track := range album.Tracks {
			if track == current {
				return prev
			}
			prev = track
		}
	}
	return nil
}

// AlbumForTrack returns the album containing track by reference membership,
// or nil when the track is nil or absent.
func AlbumForTrack(track *domain.Track, albums []*domain.Album) *domain.Album {
	if track == nil {
		return nil
	}

	for _, album := range albums {
		for _, t := range album.Tracks {
			if t == track {
				return album
			}
		}
	}
	return nil
}

// FirstTrack returns the first track of the first non-empty album, or nil.
func FirstTrack(albums []*domain.Album) *domain.Track {
	for _, album := range albums {
		if len(album.Tracks) > 0 {
			return album.Tracks[0]
		}
	}
	return nil
}

// LastTrack returns the last track of the last non-empty album, or nil.
func LastTrack(albums []*domain.Album) *domain.Track {
	for i := len(albums) - 1; i >= 0; i-- {
		if n := len(albums[i].Tracks); n > 0 {
			return albums[i].Tracks[n-1]
		}
	}
	return nil
}

// AllTracks returns the logical sequence as a flat slice.
func AllTracks(albums []*domain.Album) []*domain.Track {
	var tracks []*domain.Track
	for _, album := range albums {
		tracks = append(tracks, album.Tracks...)
	}
	return tracks
}
