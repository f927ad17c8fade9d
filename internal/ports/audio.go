// Package ports defines the interfaces at the engine's boundaries. The core
// services depend only on these interfaces, never on a concrete audio
// library, tag parser or storage mechanism.
package ports

import (
	"time"

	"github.com/Bloomca/Discosaur/internal/domain"
)

// AudioSink is the playback boundary: it decodes and plays audio files and
// reports when a resource reaches its natural end.
//
// Implementations must be safe for concurrent use; the playback service may
// call into the sink while an end-of-media notification is being delivered.
type AudioSink interface {
	// Load decodes an audio file and returns a handle to it. The resource
	// stays loaded until Stop is called with the handle or it is replaced
	// by a later Load.
	Load(filePath string) (domain.SinkHandle, error)

	// Play starts playback of a loaded resource from its current position.
	Play(handle domain.SinkHandle) error

	// Pause silences a playing resource, preserving its position.
	Pause(handle domain.SinkHandle) error

	// Resume continues a paused resource.
	Resume(handle domain.SinkHandle) error

	// Stop halts playback and releases the resource. The handle is invalid
	// afterwards. A stopped resource does not emit a track-ended
	// notification.
	Stop(handle domain.SinkHandle) error

	// Seek repositions within the resource. Positions outside
	// [0, Duration] are clamped.
	Seek(handle domain.SinkHandle, position time.Duration) error

	// Position returns the current playback position.
	Position(handle domain.SinkHandle) (time.Duration, error)

	// Duration returns the total length of the resource.
	Duration(handle domain.SinkHandle) (time.Duration, error)

	// SetVolume sets the output volume for the resource, from 0.0 (silent)
	// to 1.0 (full).
	SetVolume(handle domain.SinkHandle, volume float64) error

	// SetTrackEndedFunc registers the callback invoked when a resource
	// reaches end-of-media. The callback is not invoked for manual stops.
	// It may be delivered from a sink-owned goroutine.
	SetTrackEndedFunc(fn func(handle domain.SinkHandle))

	// Close releases all sink resources.
	Close() error
}

// TagReader extracts metadata from an audio file. A failed read is not an
// error condition for library scanning; the caller falls back to
// filename-derived defaults.
type TagReader interface {
	// ReadTags returns whatever metadata could be extracted from the file.
	ReadTags(filePath string) (domain.Tags, error)
}
