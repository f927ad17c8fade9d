package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlbumDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		album    Album
		expected string
	}{
		{
			name:     "artist and year",
			album:    Album{Name: "OK Computer", Artist: "Radiohead", Year: 1997},
			expected: "OK Computer (Radiohead, 1997)",
		},
		{
			name:     "artist only",
			album:    Album{Name: "OK Computer", Artist: "Radiohead"},
			expected: "OK Computer Radiohead",
		},
		{
			name:     "year only",
			album:    Album{Name: "OK Computer", Year: 1997},
			expected: "OK Computer (1997)",
		},
		{
			name:     "name only",
			album:    Album{Name: "OK Computer"},
			expected: "OK Computer",
		},
		{
			name:     "whitespace artist counts as absent",
			album:    Album{Name: "OK Computer", Artist: "   ", Year: 1997},
			expected: "OK Computer (1997)",
		},
		{
			name:     "uncategorized ignores metadata",
			album:    Album{Name: UncategorizedName, Artist: "Someone", Year: 2001},
			expected: UncategorizedName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.album.DisplayName())
		})
	}
}

func TestTrackNumberDisplay(t *testing.T) {
	numbered := Track{TrackNumber: 7}
	assert.Equal(t, "#7", numbered.TrackNumberDisplay())

	unnumbered := Track{}
	assert.Equal(t, "", unnumbered.TrackNumberDisplay())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"seconds only", 42 * time.Second, "0:42"},
		{"minutes and seconds", 3*time.Minute + 5*time.Second, "3:05"},
		{"over an hour", time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
		{"rounds sub-second", 3*time.Minute + 500*time.Millisecond, "3:01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.duration))
		})
	}
}

func TestDurationDisplayUnknown(t *testing.T) {
	track := Track{}
	assert.Equal(t, "", track.DurationDisplay())
}

func TestDurationTicksRoundTrip(t *testing.T) {
	d := 3*time.Minute + 27*time.Second

	ticks := DurationToTicks(d)
	require.NotNil(t, ticks)
	assert.Equal(t, d, TicksToDuration(ticks))
}

func TestDurationTicksUnknown(t *testing.T) {
	assert.Nil(t, DurationToTicks(0))
	assert.Equal(t, time.Duration(0), TicksToDuration(nil))
}

func TestPersistAlbum(t *testing.T) {
	album := &Album{
		Name:         "Homework",
		Artist:       "Daft Punk",
		Year:         1997,
		CoverArtPath: "/music/homework/cover.jpg",
		FolderToken:  "token-1",
		Tracks: []*Track{
			{
				FileName:    "01 - Daftendirekt.mp3",
				Title:       "Daftendirekt",
				Artist:      "Daft Punk",
				AlbumTitle:  "Homework",
				TrackNumber: 1,
				Year:        1997,
				Genre:       "House",
				Duration:    2*time.Minute + 44*time.Second,
			},
			{
				FileName: "extra.mp3",
				Title:    "extra.mp3",
			},
		},
	}

	persisted := PersistAlbum(album)

	assert.Equal(t, "token-1", persisted.FolderToken)
	assert.Equal(t, "Homework", persisted.Name)
	assert.Equal(t, "cover.jpg", persisted.CoverArtFileName)
	require.Len(t, persisted.Tracks, 2)

	first := persisted.Tracks[0]
	assert.Equal(t, "Daftendirekt", first.Title)
	assert.Equal(t, uint(1), first.TrackNumber)
	require.NotNil(t, first.DurationTicks)
	assert.Equal(t, 2*time.Minute+44*time.Second, TicksToDuration(first.DurationTicks))

	second := persisted.Tracks[1]
	assert.Equal(t, "extra.mp3", second.Title)
	assert.Nil(t, second.DurationTicks)
}

func TestFilterConfigurationHasAnyCriteria(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *FilterConfiguration
		expected bool
	}{
		{"nil config", nil, false},
		{"empty config", &FilterConfiguration{}, false},
		{"whitespace search", &FilterConfiguration{AlbumNameSearch: "   "}, false},
		{"album search", &FilterConfiguration{AlbumNameSearch: "ok"}, true},
		{"song search", &FilterConfiguration{SongNameSearch: "air"}, true},
		{"year from", &FilterConfiguration{YearFrom: 1990}, true},
		{"year to", &FilterConfiguration{YearTo: 2000}, true},
		{"selected albums", &FilterConfiguration{SelectedAlbumNames: []string{"Homework"}}, true},
		{"selected genres", &FilterConfiguration{SelectedGenres: []string{"House"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.HasAnyCriteria())
		})
	}
}
