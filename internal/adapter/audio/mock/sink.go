// Package mock provides an in-memory implementation of the AudioSink port.
// It is used for testing services without opening an audio device, and as
// the sink behind the --silent flag.
package mock

import (
	"errors"
	"sync"
	"time"

	"github.com/Bloomca/Discosaur/internal/domain"
	"github.com/Bloomca/Discosaur/internal/ports"
)

var (
	errForcedFailure = errors.New("forced failure")
	errOutOfRange    = errors.New("value out of range")
)

// Sink simulates audio playback in memory.
//
// Thread-safety: all methods are safe for concurrent use. TriggerTrackEnded
// invokes the registered callback on the caller's goroutine, outside the
// lock, matching how a real sink delivers end-of-stream from its mixer
// goroutine.
type Sink struct {
	mu         sync.RWMutex
	streams    map[domain.SinkHandle]*mockStream
	nextHandle domain.SinkHandle
	ended      func(domain.SinkHandle)

	// Behavior switches for error-path tests.
	failLoad bool
	failPlay bool

	defaultDuration time.Duration
}

type mockStream struct {
	filePath string
	duration time.Duration
	position time.Duration
	volume   float64
	status   domain.PlaybackStatus
}

// NewSink creates a new mock sink. Loaded streams report a three-minute
// duration unless overridden with SetDefaultDuration.
func NewSink() *Sink {
	return &Sink{
		streams:         make(map[domain.SinkHandle]*mockStream),
		nextHandle:      1,
		defaultDuration: 3 * time.Minute,
	}
}

// SetFailLoad configures the sink to fail Load calls.
func (s *Sink) SetFailLoad(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failLoad = fail
}

// SetFailPlay configures the sink to fail Play calls.
func (s *Sink) SetFailPlay(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPlay = fail
}

// SetDefaultDuration sets the duration reported for streams loaded from now
// on.
func (s *Sink) SetDefaultDuration(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultDuration = d
}

// Load registers a stream for the file and returns its handle.
func (s *Sink) Load(filePath string) (domain.SinkHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failLoad {
		return domain.InvalidSinkHandle,
			domain.NewAudioSinkError("load", filePath, errForcedFailure)
	}
	if filePath == "" {
		return domain.InvalidSinkHandle,
			domain.NewAudioSinkError("load", filePath, domain.ErrTrackNotFound)
	}

	handle := s.nextHandle
	s.nextHandle++
	s.streams[handle] = &mockStream{
		filePath: filePath,
		duration: s.defaultDuration,
		volume:   1.0,
		status:   domain.StatusStopped,
	}
	return handle, nil
}

// Play starts the stream from its current position.
func (s *Sink) Play(handle domain.SinkHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failPlay {
		return domain.NewAudioSinkError("play", "", errForcedFailure)
	}
	stream, err := s.streamLocked(handle)
	if err != nil {
		return err
	}
	stream.status = domain.StatusPlaying
	return nil
}

// Pause pauses a playing stream.
func (s *Sink) Pause(handle domain.SinkHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream, err := s.streamLocked(handle)
	if err != nil {
		return err
	}
	if stream.status == domain.StatusPlaying {
		stream.status = domain.StatusPaused
	}
	return nil
}

// Resume resumes a paused stream.
func (s *Sink) Resume(handle domain.SinkHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream, err := s.streamLocked(handle)
	if err != nil {
		return err
	}
	if stream.status == domain.StatusPaused {
		stream.status = domain.StatusPlaying
	}
	return nil
}

// Stop halts the stream and releases its handle. No end-of-stream callback
// fires for a manual stop.
func (s *Sink) Stop(handle domain.SinkHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.streamLocked(handle); err != nil {
		return err
	}
	delete(s.streams, handle)
	return nil
}

// Seek sets the stream position.
func (s *Sink) Seek(handle domain.SinkHandle, position time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream, err := s.streamLocked(handle)
	if err != nil {
		return err
	}
	if position < 0 || position > stream.duration {
		return domain.NewAudioSinkError("seek", stream.filePath, errOutOfRange)
	}
	stream.position = position
	return nil
}

// Position returns the stream position.
func (s *Sink) Position(handle domain.SinkHandle) (time.Duration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream, err := s.streamLocked(handle)
	if err != nil {
		return 0, err
	}
	return stream.position, nil
}

// Duration returns the stream duration.
func (s *Sink) Duration(handle domain.SinkHandle) (time.Duration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream, err := s.streamLocked(handle)
	if err != nil {
		return 0, err
	}
	return stream.duration, nil
}

// SetVolume sets the stream volume, 0..1.
func (s *Sink) SetVolume(handle domain.SinkHandle, volume float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream, err := s.streamLocked(handle)
	if err != nil {
		return err
	}
	if volume < 0 || volume > 1 {
		return domain.NewAudioSinkError("volume", stream.filePath, errOutOfRange)
	}
	stream.volume = volume
	return nil
}

// SetTrackEndedFunc registers the end-of-stream callback.
func (s *Sink) SetTrackEndedFunc(fn func(domain.SinkHandle)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = fn
}

// Close releases all streams.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streams = make(map[domain.SinkHandle]*mockStream)
	return nil
}

// TriggerTrackEnded simulates the stream draining naturally: the stream is
// released and the callback is invoked with its handle. A no-op for unknown
// handles.
func (s *Sink) TriggerTrackEnded(handle domain.SinkHandle) {
	s.mu.Lock()
	if _, exists := s.streams[handle]; !exists {
		s.mu.Unlock()
		return
	}
	delete(s.streams, handle)
	fn := s.ended
	s.mu.Unlock()

	if fn != nil {
		fn(handle)
	}
}

// LoadedStreams returns the number of live streams, for tests.
func (s *Sink) LoadedStreams() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.streams)
}

// Volume returns the stream volume, for tests.
func (s *Sink) Volume(handle domain.SinkHandle) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream, err := s.streamLocked(handle)
	if err != nil {
		return 0, err
	}
	return stream.volume, nil
}

// LoadedFile returns the file path behind a handle, for tests.
func (s *Sink) LoadedFile(handle domain.SinkHandle) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream, err := s.streamLocked(handle)
	if err != nil {
		return "", err
	}
	return stream.filePath, nil
}

func (s *Sink) streamLocked(handle domain.SinkHandle) (*mockStream, error) {
	stream, exists := s.streams[handle]
	if !exists {
		return nil, domain.ErrInvalidSinkHandle
	}
	return stream, nil
}

// Verify that Sink implements the AudioSink port.
var _ ports.AudioSink = (*Sink)(nil)
