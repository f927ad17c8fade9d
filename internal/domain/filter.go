package domain

import "strings"

// FilterConfiguration holds the user's library filter criteria. All criteria
// combine with logical AND; there is no OR mode. The JSON field names are
// part of the persisted-state contract.
type FilterConfiguration struct {
	// AlbumNameSearch is a case-insensitive substring matched against album
	// names.
	AlbumNameSearch string `json:"albumNameSearch,omitempty"`

	// SongNameSearch is a case-insensitive substring matched against track
	// titles.
	SongNameSearch string `json:"songNameSearch,omitempty"`

	// YearFrom and YearTo form a closed range. An album without a year is
	// excluded whenever either bound is set.
	YearFrom uint `json:"yearFrom,omitempty"`
	YearTo   uint `json:"yearTo,omitempty"`

	// SelectedAlbumNames restricts the result to albums whose name is a
	// member, when non-empty.
	SelectedAlbumNames []string `json:"selectedAlbumNames,omitempty"`

	// SelectedGenres restricts tracks to those whose genre is a member,
	// when non-empty.
	SelectedGenres []string `json:"selectedGenres,omitempty"`
}

// HasAnyCriteria reports whether at least one criterion is set. A
// whitespace-only search string counts as unset, as does an empty list.
func (c *FilterConfiguration) HasAnyCriteria() bool {
	if c == nil {
		return false
	}
	return strings.TrimSpace(c.AlbumNameSearch) != "" ||
		strings.TrimSpace(c.SongNameSearch) != "" ||
		c.YearFrom != 0 ||
		c.YearTo != 0 ||
		len(c.SelectedAlbumNames) > 0 ||
		len(c.SelectedGenres) > 0
}
