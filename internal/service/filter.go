package service

import (
	"slices"
	"strings"

	"github.com/Bloomca/Discosaur/internal/domain"
)

// Filter projects a library through a filter configuration. It is a pure
// function: the source albums are never mutated, and result albums are new
// objects — callers must not rely on identity equality with the source.
// Track entries, however, are the original pointers, so playback and
// selection state held against the full library resolve correctly in the
// filtered view.
//
// All criteria combine with AND. Album-level criteria (name substring, year
// range, selected names) decide whether an album is considered at all;
// track-level criteria (title substring, selected genres) then thin out its
// track list. Albums left without tracks are dropped. Source order is
// preserved on both levels.
func Filter(albums []*domain.Album, cfg *domain.FilterConfiguration) []*domain.Album {
	if !cfg.HasAnyCriteria() {
		// An empty configuration keeps everything, still as new album
		// objects for consistent ownership.
		result := make([]*domain.Album, 0, len(albums))
		for _, album := range albums {
			result = append(result, cloneAlbum(album, album.Tracks))
		}
		return result
	}

	result := make([]*domain.Album, 0, len(albums))
	for _, album := range albums {
		if !albumMatches(album, cfg) {
			continue
		}

		tracks := album.Tracks
		if hasTrackCriteria(cfg) {
			tracks = matchingTracks(album.Tracks, cfg)
		}
		if len(tracks) == 0 {
			continue
		}

		result = append(result, cloneAlbum(album, tracks))
	}
	return result
}

func albumMatches(album *domain.Album, cfg *domain.FilterConfiguration) bool {
	if search := strings.TrimSpace(cfg.AlbumNameSearch); search != "" {
		if !containsFold(album.Name, search) {
			return false
		}
	}

	if cfg.YearFrom != 0 || cfg.YearTo != 0 {
		// Year bounds require the album to have a year at all.
		if album.Year == 0 {
			return false
		}
		if cfg.YearFrom != 0 && album.Year < cfg.YearFrom {
			return false
		}
		if cfg.YearTo != 0 && album.Year > cfg.YearTo {
			return false
		}
	}

	if len(cfg.SelectedAlbumNames) > 0 && !slices.Contains(cfg.SelectedAlbumNames, album.Name) {
		return false
	}

	return true
}

func hasTrackCriteria(cfg *domain.FilterConfiguration) bool {
	return strings.TrimSpace(cfg.SongNameSearch) != "" || len(cfg.SelectedGenres) > 0
}

func matchingTracks(tracks []*domain.Track, cfg *domain.FilterConfiguration) []*domain.Track {
	search := strings.TrimSpace(cfg.SongNameSearch)

	kept := make([]*domain.Track, 0, len(tracks))
	for _, track := range tracks {
		if search != "" && !containsFold(track.Title, search) {
			continue
		}
		// Genres are compared verbatim: selectable genres are collected
		// from the tracks themselves, so casing always agrees.
		if len(cfg.SelectedGenres) > 0 && !slices.Contains(cfg.SelectedGenres, track.Genre) {
			continue
		}
		kept = append(kept, track)
	}
	return kept
}

// cloneAlbum copies album metadata into a fresh Album sharing the given
// track pointers.
func cloneAlbum(album *domain.Album, tracks []*domain.Track) *domain.Album {
	return &domain.Album{
		Name:         album.Name,
		Artist:       album.Artist,
		Year:         album.Year,
		CoverArtPath: album.CoverArtPath,
		FolderToken:  album.FolderToken,
		Tracks:       slices.Clone(tracks),
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Genres returns the distinct genres present in the albums, in first-seen
// order. This is the candidate list offered for genre filtering.
func Genres(albums []*domain.Album) []string {
	var genres []string
	seen := make(map[string]struct{})
	for _, album := range albums {
		for _, track := range album.Tracks {
			if track.Genre == "" {
				continue
			}
			if _, ok := seen[track.Genre]; ok {
				continue
			}
			seen[track.Genre] = struct{}{}
			genres = append(genres, track.Genre)
		}
	}
	return genres
}
