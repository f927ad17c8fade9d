package service

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/Bloomca/Discosaur/internal/domain"
	"github.com/Bloomca/Discosaur/internal/ports"
)

const (
	// DefaultVolumeLevel is the full-volume preset.
	DefaultVolumeLevel = 100
	// DefaultReducedVolumeLevel is the initial quiet preset, adjustable per
	// user.
	DefaultReducedVolumeLevel = 30
)

// PlaybackService drives the audio sink and owns the playback state machine:
// current track, play/pause/stop status, repeat and shuffle modes, and the
// volume presets.
//
// Track-ended callbacks arrive on the sink's goroutine; they are validated
// against the current sink handle so a late callback from an already
// replaced stream is ignored.
type PlaybackService struct {
	logger *slog.Logger
	sink   ports.AudioSink
	bus    ports.EventBus
	active func() []*domain.Album

	mu      sync.RWMutex
	status  domain.PlaybackStatus
	current *domain.Track
	handle  domain.SinkHandle

	repeatMode domain.RepeatMode
	shuffle    bool

	volumeLevel  int
	volumeMode   domain.VolumeMode
	reducedLevel int

	rng *rand.Rand
}

// NewPlaybackService creates a playback service over the given sink and
// active album provider. The sink's track-ended callback is installed here.
func NewPlaybackService(
	logger *slog.Logger,
	sink ports.AudioSink,
	active func() []*domain.Album,
	bus ports.EventBus,
) *PlaybackService {
	s := &PlaybackService{
		logger:       logger,
		sink:         sink,
		bus:          bus,
		active:       active,
		status:       domain.StatusStopped,
		volumeLevel:  DefaultVolumeLevel,
		volumeMode:   domain.VolumeDefault,
		reducedLevel: DefaultReducedVolumeLevel,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	sink.SetTrackEndedFunc(s.handleTrackEnded)
	return s
}

// Play starts playback of the given track, replacing whatever was playing.
// On failure the service transitions to Stopped, publishes a playback error
// event, and returns the error.
func (s *PlaybackService) Play(track *domain.Track) error {
	if track == nil {
		return domain.ErrNoTrackLoaded
	}

	s.mu.Lock()
	err := s.playLocked(track)
	current, status := s.current, s.status
	s.mu.Unlock()

	if err != nil {
		s.bus.Publish(domain.NewPlaybackErrorEvent(track, err))
		return err
	}
	s.bus.Publish(domain.NewPlaybackChangedEvent(current, status))
	return nil
}

// playLocked loads and starts a track. Must be called with the lock held.
func (s *PlaybackService) playLocked(track *domain.Track) error {
	s.releaseHandleLocked()

	handle, err := s.sink.Load(track.FilePath)
	if err != nil {
		s.status = domain.StatusStopped
		s.current = nil
		return domain.NewServiceError("PlaybackService", "Play",
			"cannot load track", err)
	}

	if err := s.sink.SetVolume(handle, float64(s.volumeLevel)/100); err != nil {
		s.logger.Warn("cannot apply volume to new stream", slog.Any("error", err))
	}

	if err := s.sink.Play(handle); err != nil {
		s.status = domain.StatusStopped
		s.current = nil
		return domain.NewServiceError("PlaybackService", "Play",
			"cannot start playback", err)
	}

	s.handle = handle
	s.current = track
	s.status = domain.StatusPlaying
	s.logger.Info("playback started",
		slog.String("track", track.Title),
		slog.String("file", track.FileName))
	return nil
}

func (s *PlaybackService) releaseHandleLocked() {
	if s.handle == domain.InvalidSinkHandle {
		return
	}
	if err := s.sink.Stop(s.handle); err != nil {
		s.logger.Debug("stopping previous stream failed", slog.Any("error", err))
	}
	s.handle = domain.InvalidSinkHandle
}

// Pause pauses a playing track. A no-op in any other state.
func (s *PlaybackService) Pause() {
	s.mu.Lock()
	if s.status != domain.StatusPlaying {
		s.mu.Unlock()
		return
	}
	if err := s.sink.Pause(s.handle); err != nil {
		s.logger.Warn("pause failed", slog.Any("error", err))
		s.mu.Unlock()
		return
	}
	s.status = domain.StatusPaused
	current, status := s.current, s.status
	s.mu.Unlock()

	s.bus.Publish(domain.NewPlaybackChangedEvent(current, status))
}

// Resume resumes a paused track. A no-op in any other state.
func (s *PlaybackService) Resume() {
	s.mu.Lock()
	if s.status != domain.StatusPaused {
		s.mu.Unlock()
		return
	}
	if err := s.sink.Resume(s.handle); err != nil {
		s.logger.Warn("resume failed", slog.Any("error", err))
		s.mu.Unlock()
		return
	}
	s.status = domain.StatusPlaying
	current, status := s.current, s.status
	s.mu.Unlock()

	s.bus.Publish(domain.NewPlaybackChangedEvent(current, status))
}

// TogglePlayPause pauses when playing, resumes when paused, and when stopped
// with a loaded track (a restored session) starts it from the beginning.
func (s *PlaybackService) TogglePlayPause() {
	s.mu.RLock()
	status, current := s.status, s.current
	s.mu.RUnlock()

	switch status {
	case domain.StatusPlaying:
		s.Pause()
	case domain.StatusPaused:
		s.Resume()
	case domain.StatusStopped:
		if current != nil {
			if err := s.Play(current); err != nil {
				s.logger.Warn("cannot restart stopped track", slog.Any("error", err))
			}
		}
	}
}

// Stop halts playback and clears the current track.
func (s *PlaybackService) Stop() {
	s.mu.Lock()
	if s.status == domain.StatusStopped && s.current == nil {
		s.mu.Unlock()
		return
	}
	s.releaseHandleLocked()
	s.status = domain.StatusStopped
	s.current = nil
	s.mu.Unlock()

	s.bus.Publish(domain.NewPlaybackChangedEvent(nil, domain.StatusStopped))
}

// Seek moves the playhead of the current stream, clamping to the stream
// bounds.
func (s *PlaybackService) Seek(position time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == domain.InvalidSinkHandle {
		return domain.ErrNoTrackLoaded
	}
	if position < 0 {
		position = 0
	}
	if total, err := s.sink.Duration(s.handle); err == nil && position > total {
		position = total
	}
	return s.sink.Seek(s.handle, position)
}

// Position returns the playhead position of the current stream.
func (s *PlaybackService) Position() (time.Duration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.handle == domain.InvalidSinkHandle {
		return 0, domain.ErrNoTrackLoaded
	}
	return s.sink.Position(s.handle)
}

// PlayNext plays the track that follows the current one: a random pick under
// shuffle, the next track of the library otherwise. Repeat album only changes
// what happens at the library end, wrapping back to the current album's first
// track. With nothing to advance to, the current track keeps playing.
func (s *PlaybackService) PlayNext() {
	albums := s.active()

	s.mu.Lock()
	next := s.pickNextLocked(albums)
	s.mu.Unlock()

	if next == nil {
		return
	}
	if err := s.Play(next); err != nil {
		s.logger.Warn("cannot play next track", slog.Any("error", err))
	}
}

// pickNextLocked chooses the manual-advance successor of the current track.
// Must be called with the lock held.
func (s *PlaybackService) pickNextLocked(albums []*domain.Album) *domain.Track {
	if s.shuffle {
		return s.randomTrackLocked(albums)
	}
	if s.current == nil {
		return FirstTrack(albums)
	}
	next := NextTrack(s.current, albums)
	if next == nil && s.repeatMode == domain.RepeatAlbum {
		next = firstTrackOfAlbum(s.current, albums)
	}
	return next
}

// PlayPrevious plays the preceding track: a random pick under shuffle, the
// previous track of the library otherwise. Repeat album only changes what
// happens at the library start, wrapping forward to the current album's last
// track. With nothing to go back to, the current track keeps playing.
func (s *PlaybackService) PlayPrevious() {
	albums := s.active()

	s.mu.Lock()
	var prev *domain.Track
	switch {
	case s.shuffle:
		prev = s.randomTrackLocked(albums)
	case s.current == nil:
		prev = LastTrack(albums)
	default:
		prev = PreviousTrack(s.current, albums)
		if prev == nil && s.repeatMode == domain.RepeatAlbum {
			prev = lastTrackOfAlbum(s.current, albums)
		}
	}
	s.mu.Unlock()

	if prev == nil {
		return
	}
	if err := s.Play(prev); err != nil {
		s.logger.Warn("cannot play previous track", slog.Any("error", err))
	}
}

// firstTrackOfAlbum returns the first track of the album containing the given
// track, nil when it belongs to no album.
func firstTrackOfAlbum(track *domain.Track, albums []*domain.Album) *domain.Track {
	album := AlbumForTrack(track, albums)
	if album == nil || len(album.Tracks) == 0 {
		return nil
	}
	return album.Tracks[0]
}

// lastTrackOfAlbum returns the last track of the album containing the given
// track, nil when it belongs to no album.
func lastTrackOfAlbum(track *domain.Track, albums []*domain.Album) *domain.Track {
	album := AlbumForTrack(track, albums)
	if album == nil || len(album.Tracks) == 0 {
		return nil
	}
	return album.Tracks[len(album.Tracks)-1]
}

// randomTrackLocked picks a uniformly random track, excluding the current
// one unless it is the only track. Must be called with the lock held.
func (s *PlaybackService) randomTrackLocked(albums []*domain.Album) *domain.Track {
	tracks := AllTracks(albums)
	if len(tracks) == 0 {
		return nil
	}
	if len(tracks) == 1 {
		return tracks[0]
	}

	for {
		candidate := tracks[s.rng.Intn(len(tracks))]
		if candidate != s.current {
			return candidate
		}
	}
}

// handleTrackEnded reacts to a stream draining naturally. Stale handles from
// already replaced streams are ignored; the most recent play request always
// wins.
func (s *PlaybackService) handleTrackEnded(handle domain.SinkHandle) {
	albums := s.active()

	s.mu.Lock()
	if handle != s.handle || s.handle == domain.InvalidSinkHandle {
		s.mu.Unlock()
		return
	}
	ended := s.current
	s.handle = domain.InvalidSinkHandle

	var next *domain.Track
	switch {
	case s.repeatMode == domain.RepeatTrack:
		next = ended
	case s.shuffle:
		next = s.randomTrackLocked(albums)
	default:
		next = NextTrack(ended, albums)
		if next == nil && s.repeatMode == domain.RepeatAlbum {
			// Only the library end wraps, back to the last album's start.
			next = firstTrackOfAlbum(ended, albums)
		}
	}

	var playErr error
	if next != nil {
		playErr = s.playLocked(next)
	} else {
		s.status = domain.StatusStopped
		s.current = nil
	}
	current, status := s.current, s.status
	s.mu.Unlock()

	s.bus.Publish(domain.NewTrackEndedEvent(ended, next))
	if playErr != nil {
		s.bus.Publish(domain.NewPlaybackErrorEvent(next, playErr))
		return
	}
	s.bus.Publish(domain.NewPlaybackChangedEvent(current, status))
}

// CycleRepeatMode advances off -> album -> track -> off.
func (s *PlaybackService) CycleRepeatMode() domain.RepeatMode {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.repeatMode {
	case domain.RepeatOff:
		s.repeatMode = domain.RepeatAlbum
	case domain.RepeatAlbum:
		s.repeatMode = domain.RepeatTrack
	default:
		s.repeatMode = domain.RepeatOff
	}
	return s.repeatMode
}

// ToggleShuffle flips shuffle mode. Enabling it while a track is playing
// immediately jumps to a random track.
func (s *PlaybackService) ToggleShuffle() bool {
	albums := s.active()

	s.mu.Lock()
	s.shuffle = !s.shuffle
	enabled := s.shuffle

	var jump *domain.Track
	if enabled && s.status == domain.StatusPlaying {
		jump = s.randomTrackLocked(albums)
	}
	s.mu.Unlock()

	if jump != nil {
		if err := s.Play(jump); err != nil {
			s.logger.Warn("cannot play shuffled track", slog.Any("error", err))
		}
	}
	return enabled
}

// ToggleVolume switches between full volume and the reduced preset. Any
// manual level toggles back to full first. This is the only entry into the
// reduced mode.
func (s *PlaybackService) ToggleVolume() {
	s.mu.Lock()
	level, mode := DefaultVolumeLevel, domain.VolumeDefault
	if s.volumeLevel == DefaultVolumeLevel {
		level, mode = s.reducedLevel, domain.VolumeReduced
	}
	s.applyVolumeLocked(level, mode)
	s.mu.Unlock()

	s.bus.Publish(domain.NewVolumeChangedEvent(level, mode))
}

// SetVolume sets the playback volume, clamped to 0..100. Full volume maps to
// the default mode, anything else is manual, even when the level happens to
// equal the reduced preset.
func (s *PlaybackService) SetVolume(level int) {
	if level < 0 {
		level = 0
	}
	if level > DefaultVolumeLevel {
		level = DefaultVolumeLevel
	}
	mode := domain.VolumeManual
	if level == DefaultVolumeLevel {
		mode = domain.VolumeDefault
	}

	s.mu.Lock()
	s.applyVolumeLocked(level, mode)
	s.mu.Unlock()

	s.bus.Publish(domain.NewVolumeChangedEvent(level, mode))
}

// applyVolumeLocked stores the level and mode and pushes the level to the
// live stream. Must be called with the lock held.
func (s *PlaybackService) applyVolumeLocked(level int, mode domain.VolumeMode) {
	s.volumeLevel = level
	s.volumeMode = mode
	if s.handle != domain.InvalidSinkHandle {
		if err := s.sink.SetVolume(s.handle, float64(level)/100); err != nil {
			s.logger.Warn("cannot apply volume", slog.Any("error", err))
		}
	}
}

// SetReducedVolumeLevel updates the quiet preset, clamped to 1..100. When
// the reduced preset is active the live volume follows, staying in reduced
// mode.
func (s *PlaybackService) SetReducedVolumeLevel(level int) {
	if level < 1 {
		level = 1
	}
	if level > DefaultVolumeLevel {
		level = DefaultVolumeLevel
	}

	s.mu.Lock()
	s.reducedLevel = level
	follow := s.volumeMode == domain.VolumeReduced
	if follow {
		s.applyVolumeLocked(level, domain.VolumeReduced)
	}
	s.mu.Unlock()

	if follow {
		s.bus.Publish(domain.NewVolumeChangedEvent(level, domain.VolumeReduced))
	}
}

// SetCurrentTrackDisplay installs a track as current without playing it.
// Used when restoring a session: the previously playing track is shown
// stopped, ready for TogglePlayPause.
func (s *PlaybackService) SetCurrentTrackDisplay(track *domain.Track) {
	s.mu.Lock()
	s.current = track
	s.status = domain.StatusStopped
	s.mu.Unlock()

	s.bus.Publish(domain.NewPlaybackChangedEvent(track, domain.StatusStopped))
}

// CurrentTrack returns the current track, nil when none.
func (s *PlaybackService) CurrentTrack() *domain.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Status returns the playback status.
func (s *PlaybackService) Status() domain.PlaybackStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// RepeatMode returns the active repeat mode.
func (s *PlaybackService) RepeatMode() domain.RepeatMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repeatMode
}

// IsShuffle reports whether shuffle mode is on.
func (s *PlaybackService) IsShuffle() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shuffle
}

// VolumeLevel returns the live volume level in percent.
func (s *PlaybackService) VolumeLevel() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.volumeLevel
}

// VolumeMode returns the active volume mode.
func (s *PlaybackService) VolumeMode() domain.VolumeMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.volumeMode
}

// ReducedVolumeLevel returns the quiet preset in percent.
func (s *PlaybackService) ReducedVolumeLevel() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reducedLevel
}

// Shutdown releases the current stream. The sink itself is closed by the
// application.
func (s *PlaybackService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseHandleLocked()
	s.status = domain.StatusStopped
}
