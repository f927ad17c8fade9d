// Package domain contains the core business models of the Discosaur engine:
// tracks, albums, the filter configuration and the persisted-state records.
// It has no dependencies outside the standard library.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// UncategorizedName is the reserved album name for tracks whose source file
// carried no album tag. It identifies the single merge target for ungrouped
// tracks across folder scans.
const UncategorizedName = "Uncategorized"

// Track is a single audio file in the library.
//
// Track identity is pointer identity: the same *Track lives in exactly one
// album's track list, and selection, navigation and playback all compare
// tracks by pointer. Fields are populated during scan or restore and are not
// mutated afterwards. Zero values mean "absent" for the optional fields.
type Track struct {
	// FilePath is the absolute path to the audio file.
	FilePath string

	// FileName is the base name of the audio file.
	FileName string

	// Title is the song title. Defaults to FileName when tag extraction
	// fails or yields no title.
	Title string

	// Artist is the performing artist, empty when unknown.
	Artist string

	// AlbumTitle is the album tag the track was grouped by, empty when the
	// track is uncategorized.
	AlbumTitle string

	// TrackNumber is the 1-based position on the album, 0 when unknown.
	TrackNumber uint

	// Year is the release year, 0 when unknown.
	Year uint

	// Genre is the music genre, empty when unknown.
	Genre string

	// Duration is the track length, 0 when unknown.
	Duration time.Duration
}

// TrackNumberDisplay returns "#N" for numbered tracks and "" otherwise.
func (t *Track) TrackNumberDisplay() string {
	if t.TrackNumber == 0 {
		return ""
	}
	return fmt.Sprintf("#%d", t.TrackNumber)
}

// DurationDisplay formats the duration as "m:ss", or "h:mm:ss" for tracks of
// an hour or longer. Returns "" when the duration is unknown.
func (t *Track) DurationDisplay() string {
	if t.Duration == 0 {
		return ""
	}
	return FormatDuration(t.Duration)
}

// FormatDuration renders a playback position or length as "m:ss", switching
// to "h:mm:ss" at the one hour mark.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Album is an ordered group of tracks sharing an album title, or the
// Uncategorized sentinel group. Track order is playback and display order.
type Album struct {
	// Name is the album title, or UncategorizedName.
	Name string

	// Artist is the album artist, empty when unknown. Copied from the first
	// track of the group after sorting.
	Artist string

	// Year is the release year, 0 when unknown.
	Year uint

	// CoverArtPath is the path to the folder's cover image, empty when the
	// folder had none.
	CoverArtPath string

	// FolderToken is the opaque access-list token of the folder this album
	// was scanned from. Empty for albums that are not persisted (the
	// Uncategorized group).
	FolderToken string

	// Tracks is the ordered track list. A track appears at most once.
	Tracks []*Track
}

// IsUncategorized reports whether this is the sentinel group for tracks
// without album metadata.
func (a *Album) IsUncategorized() bool {
	return a.Name == UncategorizedName
}

// DisplayName renders the album header: the name alone for the Uncategorized
// group, otherwise the name suffixed with "(Artist, Year)", " Artist" or
// "(Year)" depending on which of the two are present. A whitespace-only
// artist counts as absent.
func (a *Album) DisplayName() string {
	if a.IsUncategorized() {
		return a.Name
	}

	artist := strings.TrimSpace(a.Artist)
	switch {
	case artist != "" && a.Year != 0:
		return fmt.Sprintf("%s (%s, %d)", a.Name, artist, a.Year)
	case artist != "":
		return fmt.Sprintf("%s %s", a.Name, artist)
	case a.Year != 0:
		return fmt.Sprintf("%s (%d)", a.Name, a.Year)
	default:
		return a.Name
	}
}

// Tags is the result of reading metadata from an audio file. Zero values
// mean the tag was missing.
type Tags struct {
	Title       string
	Artist      string
	Album       string
	TrackNumber uint
	Year        uint
	Genre       string
	Duration    time.Duration
}

// SinkHandle is an opaque reference to a resource loaded into the audio
// sink. Handles become invalid once the resource is stopped or replaced.
type SinkHandle int64

// InvalidSinkHandle is the zero handle, held while nothing is loaded.
const InvalidSinkHandle SinkHandle = 0

// PlaybackStatus is the state of the playback state machine.
type PlaybackStatus int

const (
	// StatusStopped means no track is loaded.
	StatusStopped PlaybackStatus = iota

	// StatusPlaying means audio is being produced.
	StatusPlaying

	// StatusPaused means a track is loaded and positioned but silent.
	StatusPaused
)

// String returns a human-readable status name.
func (s PlaybackStatus) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// RepeatMode controls what happens when the current track reaches its end.
type RepeatMode int

const (
	// RepeatOff advances through the library and stops at the end.
	RepeatOff RepeatMode = iota

	// RepeatAlbum wraps back to the first track of the current album.
	RepeatAlbum

	// RepeatTrack replays the current track.
	RepeatTrack
)

// String returns a human-readable repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "off"
	case RepeatAlbum:
		return "album"
	case RepeatTrack:
		return "track"
	default:
		return "unknown"
	}
}

// VolumeMode is a presentation hint describing how the current volume level
// came about. It does not affect audio output.
type VolumeMode int

const (
	// VolumeDefault means full volume.
	VolumeDefault VolumeMode = iota

	// VolumeReduced means the reduced preset is active.
	VolumeReduced

	// VolumeManual means the user set an arbitrary level.
	VolumeManual
)

// String returns a human-readable volume mode name.
func (m VolumeMode) String() string {
	switch m {
	case VolumeDefault:
		return "default"
	case VolumeReduced:
		return "reduced"
	case VolumeManual:
		return "manual"
	default:
		return "unknown"
	}
}
