package domain

import (
	"path/filepath"
	"time"
)

// Persisted durations are counts of 100ns ticks.
const nanosPerTick = 100

// AppState is the root of the persisted-state document. The JSON field
// names are the on-disk contract and must not change.
type AppState struct {
	Settings     AppSettings            `json:"settings"`
	Playlist     []PersistedAlbum       `json:"playlist"`
	CurrentTrack *PersistedCurrentTrack `json:"currentTrack,omitempty"`
}

// AppSettings holds the persisted volume settings.
type AppSettings struct {
	VolumeLevel        int `json:"volumeLevel"`
	ReducedVolumeLevel int `json:"reducedVolumeLevel"`
}

// PersistedAlbum is the durable form of an Album. File paths are not stored;
// they are rebuilt at restore time from the resolved folder token.
type PersistedAlbum struct {
	FolderToken      string           `json:"folderToken"`
	Name             string           `json:"name"`
	Artist           string           `json:"artist,omitempty"`
	Year             uint             `json:"year,omitempty"`
	CoverArtFileName string           `json:"coverArtFileName,omitempty"`
	Tracks           []PersistedTrack `json:"tracks"`
}

// PersistedTrack is the durable form of a Track. Duration is stored as an
// integer count of 100ns ticks, absent when unknown.
type PersistedTrack struct {
	FileName      string `json:"fileName"`
	Title         string `json:"title"`
	Artist        string `json:"artist,omitempty"`
	AlbumTitle    string `json:"albumTitle,omitempty"`
	TrackNumber   uint   `json:"trackNumber,omitempty"`
	Year          uint   `json:"year,omitempty"`
	Genre         string `json:"genre,omitempty"`
	DurationTicks *int64 `json:"durationTicks,omitempty"`
}

// PersistedCurrentTrack identifies the track that was loaded when the state
// was captured, by (folder token, file name).
type PersistedCurrentTrack struct {
	FolderToken string `json:"folderToken"`
	FileName    string `json:"fileName"`
}

// DurationToTicks converts a track duration to persisted ticks. Returns nil
// for an unknown duration.
func DurationToTicks(d time.Duration) *int64 {
	if d == 0 {
		return nil
	}
	ticks := d.Nanoseconds() / nanosPerTick
	return &ticks
}

// TicksToDuration converts persisted ticks back to a duration. A nil tick
// count means the duration is unknown.
func TicksToDuration(ticks *int64) time.Duration {
	if ticks == nil {
		return 0
	}
	return time.Duration(*ticks * nanosPerTick)
}

// PersistAlbum converts a live album to its durable form. The caller is
// responsible for skipping albums without a folder token.
func PersistAlbum(album *Album) PersistedAlbum {
	pa := PersistedAlbum{
		FolderToken: album.FolderToken,
		Name:        album.Name,
		Artist:      album.Artist,
		Year:        album.Year,
		Tracks:      make([]PersistedTrack, 0, len(album.Tracks)),
	}
	if album.CoverArtPath != "" {
		pa.CoverArtFileName = filepath.Base(album.CoverArtPath)
	}
	for _, t := range album.Tracks {
		pa.Tracks = append(pa.Tracks, PersistedTrack{
			FileName:      t.FileName,
			Title:         t.Title,
			Artist:        t.Artist,
			AlbumTitle:    t.AlbumTitle,
			TrackNumber:   t.TrackNumber,
			Year:          t.Year,
			Genre:         t.Genre,
			DurationTicks: DurationToTicks(t.Duration),
		})
	}
	return pa
}

// RestoredState is the result of rebuilding domain state from a persisted
// document: the albums whose folder tokens resolved, the matched current
// track (nil when absent or unresolvable), and the volume settings.
type RestoredState struct {
	Albums       []*Album
	CurrentTrack *Track
	Settings     AppSettings
}
