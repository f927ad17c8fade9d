// Package beep implements the AudioSink port on top of the gopxl/beep
// speaker, decoding mp3, flac, wav and ogg/vorbis files.
package beep

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"github.com/Bloomca/Discosaur/internal/domain"
	"github.com/Bloomca/Discosaur/internal/ports"
)

// mixRate is the fixed sample rate of the speaker. Streams with a different
// native rate are resampled onto it, so the device is initialized once.
const mixRate = beep.SampleRate(44100)

// Sink plays audio through the system speaker. One stream is audible at a
// time; loading keeps the stream paused until Play.
//
// The end-of-stream callback fires only when a stream drains naturally.
// Stopping a stream never fires it, which lets the playback layer tell
// auto-advance apart from a user stop.
type Sink struct {
	initOnce sync.Once
	initErr  error

	mu         sync.Mutex
	streams    map[domain.SinkHandle]*stream
	nextHandle domain.SinkHandle
	active     domain.SinkHandle
	ended      func(domain.SinkHandle)
}

type stream struct {
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
}

// NewSink creates a sink. The speaker device is opened lazily on the first
// Load, so constructing a sink never touches audio hardware.
func NewSink() *Sink {
	return &Sink{
		streams:    make(map[domain.SinkHandle]*stream),
		nextHandle: 1,
	}
}

func (s *Sink) initSpeaker() error {
	s.initOnce.Do(func() {
		s.initErr = speaker.Init(mixRate, mixRate.N(time.Second/10))
	})
	return s.initErr
}

// Load opens and decodes the file, returning a handle to the prepared
// stream. The stream stays silent until Play.
func (s *Sink) Load(filePath string) (domain.SinkHandle, error) {
	if err := s.initSpeaker(); err != nil {
		return domain.InvalidSinkHandle,
			domain.NewAudioSinkError("init", filePath, err)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return domain.InvalidSinkHandle,
			domain.NewAudioSinkError("open", filePath, err)
	}

	streamer, format, err := decode(f, filePath)
	if err != nil {
		_ = f.Close()
		return domain.InvalidSinkHandle,
			domain.NewAudioSinkError("decode", filePath, err)
	}

	ctrl := &beep.Ctrl{Streamer: streamer, Paused: false}
	volume := &effects.Volume{Streamer: ctrl, Base: 2}

	s.mu.Lock()
	defer s.mu.Unlock()

	handle := s.nextHandle
	s.nextHandle++
	s.streams[handle] = &stream{
		file:     f,
		streamer: streamer,
		format:   format,
		ctrl:     ctrl,
		volume:   volume,
	}
	return handle, nil
}

func decode(f *os.File, filePath string) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".flac":
		return flac.Decode(f)
	case ".wav":
		return wav.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	default:
		return nil, beep.Format{}, domain.ErrUnsupportedFormat
	}
}

// Play makes the stream audible, replacing whatever is on the speaker.
func (s *Sink) Play(handle domain.SinkHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.streamLocked(handle)
	if err != nil {
		return err
	}

	var playable beep.Streamer = st.volume
	if st.format.SampleRate != mixRate {
		playable = beep.Resample(4, st.format.SampleRate, mixRate, st.volume)
	}

	speaker.Clear()
	s.active = handle
	speaker.Play(beep.Seq(playable, beep.Callback(func() {
		// The callback runs on the speaker's mixer goroutine with its
		// lock held; hand off so the handler can drive the speaker.
		go s.notifyEnded(handle)
	})))
	return nil
}

func (s *Sink) notifyEnded(handle domain.SinkHandle) {
	s.mu.Lock()
	st, exists := s.streams[handle]
	if !exists {
		s.mu.Unlock()
		return
	}
	delete(s.streams, handle)
	if s.active == handle {
		s.active = domain.InvalidSinkHandle
	}
	fn := s.ended
	s.mu.Unlock()

	releaseStream(st)
	if fn != nil {
		fn(handle)
	}
}

// Pause freezes the stream in place.
func (s *Sink) Pause(handle domain.SinkHandle) error {
	return s.setPaused(handle, true)
}

// Resume continues a paused stream.
func (s *Sink) Resume(handle domain.SinkHandle) error {
	return s.setPaused(handle, false)
}

func (s *Sink) setPaused(handle domain.SinkHandle, paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.streamLocked(handle)
	if err != nil {
		return err
	}
	speaker.Lock()
	st.ctrl.Paused = paused
	speaker.Unlock()
	return nil
}

// Stop silences the stream and releases its resources. The end-of-stream
// callback does not fire.
func (s *Sink) Stop(handle domain.SinkHandle) error {
	s.mu.Lock()
	st, err := s.streamLocked(handle)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	delete(s.streams, handle)
	wasActive := s.active == handle
	if wasActive {
		s.active = domain.InvalidSinkHandle
	}
	s.mu.Unlock()

	if wasActive {
		speaker.Clear()
	}
	releaseStream(st)
	return nil
}

// Seek moves the stream to the given position.
func (s *Sink) Seek(handle domain.SinkHandle, position time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.streamLocked(handle)
	if err != nil {
		return err
	}

	sample := st.format.SampleRate.N(position)
	if sample < 0 {
		sample = 0
	}
	if sample > st.streamer.Len() {
		sample = st.streamer.Len()
	}

	speaker.Lock()
	seekErr := st.streamer.Seek(sample)
	speaker.Unlock()
	if seekErr != nil {
		return domain.NewAudioSinkError("seek", st.file.Name(), seekErr)
	}
	return nil
}

// Position returns the playhead position of the stream.
func (s *Sink) Position(handle domain.SinkHandle) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.streamLocked(handle)
	if err != nil {
		return 0, err
	}

	speaker.Lock()
	pos := st.streamer.Position()
	speaker.Unlock()
	return st.format.SampleRate.D(pos), nil
}

// Duration returns the full length of the stream.
func (s *Sink) Duration(handle domain.SinkHandle) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.streamLocked(handle)
	if err != nil {
		return 0, err
	}
	return st.format.SampleRate.D(st.streamer.Len()), nil
}

// SetVolume sets the stream volume on a 0..1 linear scale. Zero mutes.
func (s *Sink) SetVolume(handle domain.SinkHandle, volume float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.streamLocked(handle)
	if err != nil {
		return err
	}

	speaker.Lock()
	if volume <= 0 {
		st.volume.Silent = true
	} else {
		st.volume.Silent = false
		st.volume.Volume = math.Log2(volume)
	}
	speaker.Unlock()
	return nil
}

// SetTrackEndedFunc registers the natural end-of-stream callback. The
// callback runs on its own goroutine and may call back into the sink.
func (s *Sink) SetTrackEndedFunc(fn func(domain.SinkHandle)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = fn
}

// Close silences the speaker and releases every stream.
func (s *Sink) Close() error {
	s.mu.Lock()
	streams := s.streams
	s.streams = make(map[domain.SinkHandle]*stream)
	s.active = domain.InvalidSinkHandle
	s.mu.Unlock()

	speaker.Clear()
	for _, st := range streams {
		releaseStream(st)
	}
	return nil
}

func releaseStream(st *stream) {
	_ = st.streamer.Close()
	_ = st.file.Close()
}

func (s *Sink) streamLocked(handle domain.SinkHandle) (*stream, error) {
	st, exists := s.streams[handle]
	if !exists {
		return nil, domain.ErrInvalidSinkHandle
	}
	return st, nil
}

// Verify that Sink implements the AudioSink port.
var _ ports.AudioSink = (*Sink)(nil)
