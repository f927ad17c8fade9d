// Package tags implements the TagReader port using dhowden/tag for metadata
// and the beep decoders for durations.
package tags

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"github.com/Bloomca/Discosaur/internal/domain"
	"github.com/Bloomca/Discosaur/internal/ports"
)

// Reader extracts track metadata from audio files. Tag frames come from the
// file's embedded tags; the duration comes from decoding the stream header,
// since tag frames rarely carry reliable lengths.
type Reader struct{}

// NewReader creates a tag reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadTags reads the embedded tags of an audio file. Missing frames come
// back as zero values; a file without any tags at all is still not an
// error, only an unreadable file is.
func (r *Reader) ReadTags(filePath string) (domain.Tags, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return domain.Tags{}, domain.NewAudioSinkError("tags", filePath, err)
	}
	defer func() {
		_ = f.Close()
	}()

	var tags domain.Tags
	if m, err := tag.ReadFrom(f); err == nil {
		tags.Title = strings.TrimSpace(m.Title())
		tags.Artist = strings.TrimSpace(m.Artist())
		tags.Album = strings.TrimSpace(m.Album())
		tags.Genre = strings.TrimSpace(m.Genre())
		if n, _ := m.Track(); n > 0 {
			tags.TrackNumber = uint(n)
		}
		if y := m.Year(); y > 0 {
			tags.Year = uint(y)
		}
	}

	tags.Duration = probeDuration(f, filePath)
	return tags, nil
}

// probeDuration decodes the stream header to compute the track length.
// Returns zero for formats without a decoder or on any decode failure.
func probeDuration(f *os.File, filePath string) time.Duration {
	if _, err := f.Seek(0, 0); err != nil {
		return 0
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	default:
		return 0
	}
	if err != nil {
		return 0
	}

	length := streamer.Len()
	// The streamer borrows the caller's file; closing it here would close
	// the file out from under ReadTags.
	if length <= 0 {
		return 0
	}
	return format.SampleRate.D(length)
}

// Verify that Reader implements the TagReader port.
var _ ports.TagReader = (*Reader)(nil)
