package service

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/Bloomca/Discosaur/internal/domain"
	"github.com/Bloomca/Discosaur/internal/ports"
)

// DefaultSaveDelay is the debounce window between a state change and the
// disk write.
const DefaultSaveDelay = 500 * time.Millisecond

// StatePersister writes session state to the state store, debounced so a
// burst of changes costs one write. The state is captured at schedule time,
// not at write time; within the window the latest capture wins.
//
// The persister starts gated: ScheduleSave is ignored until SetReady, which
// the application calls once restore has finished. Otherwise the restore
// churn itself would overwrite the state being restored.
type StatePersister struct {
	logger  *slog.Logger
	store   ports.StateStore
	access  ports.FolderAccessList
	bus     ports.EventBus
	capture func() *domain.AppState
	delay   time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	pending  *domain.AppState
	ready    bool
	shutdown bool
}

// NewStatePersister creates a persister. The capture callback must return a
// complete snapshot of the persistable state and be safe to call from any
// goroutine.
func NewStatePersister(
	logger *slog.Logger,
	store ports.StateStore,
	access ports.FolderAccessList,
	bus ports.EventBus,
	capture func() *domain.AppState,
	delay time.Duration,
) *StatePersister {
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	return &StatePersister{
		logger:  logger,
		store:   store,
		access:  access,
		bus:     bus,
		capture: capture,
		delay:   delay,
	}
}

// SetReady opens the gate: from now on ScheduleSave captures and writes.
func (p *StatePersister) SetReady() {
	p.mu.Lock()
	p.ready = true
	p.mu.Unlock()
}

// ScheduleSave captures the current state and (re)starts the debounce
// timer. Calls before SetReady or after Flush are ignored.
func (p *StatePersister) ScheduleSave() {
	p.mu.Lock()
	if !p.ready || p.shutdown {
		p.mu.Unlock()
		return
	}
	p.pending = p.capture()
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.delay, p.writePending)
	p.mu.Unlock()
}

func (p *StatePersister) writePending() {
	p.mu.Lock()
	state := p.pending
	p.pending = nil
	p.mu.Unlock()

	if state == nil {
		return
	}
	p.write(state)
}

// Flush cancels the timer, writes any pending state synchronously, and
// shuts the persister down. Called once on application exit.
func (p *StatePersister) Flush() {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		return
	}
	p.shutdown = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	state := p.pending
	p.pending = nil
	p.mu.Unlock()

	if state != nil {
		p.write(state)
	}
}

// write persists a snapshot. Failures are logged and dropped; persistence
// is best-effort and must never take the player down.
func (p *StatePersister) write(state *domain.AppState) {
	if err := p.store.Write(state); err != nil {
		p.logger.Warn("cannot persist state", slog.Any("error", err))
		return
	}
	p.logger.Debug("state persisted",
		slog.Int("albums", len(state.Playlist)))
	p.bus.Publish(domain.NewStateSavedEvent())
}

// LoadAndRestore reads the persisted state and rebuilds the domain objects.
// Returns (nil, nil) on a fresh start. Albums whose folder token no longer
// resolves are dropped with a warning; everything else restores.
func (p *StatePersister) LoadAndRestore() (*domain.RestoredState, error) {
	state, err := p.store.Read()
	if err != nil {
		return nil, domain.NewServiceError("StatePersister", "LoadAndRestore",
			"cannot read persisted state", err)
	}
	if state == nil {
		return nil, nil
	}

	// Tokens repeat across albums of one folder; resolve each once.
	paths := make(map[string]string)
	for _, persisted := range state.Playlist {
		if _, done := paths[persisted.FolderToken]; done {
			continue
		}
		path, err := p.access.ResolveToken(persisted.FolderToken)
		if err != nil {
			p.logger.Warn("folder token no longer resolves, dropping album",
				slog.String("album", persisted.Name),
				slog.Any("error", err))
			paths[persisted.FolderToken] = ""
			continue
		}
		paths[persisted.FolderToken] = path
	}

	var albums []*domain.Album
	for _, persisted := range state.Playlist {
		folderPath := paths[persisted.FolderToken]
		if folderPath == "" {
			continue
		}
		albums = append(albums, restoreAlbum(persisted, folderPath))
	}

	restored := &domain.RestoredState{
		Albums:   albums,
		Settings: normalizeSettings(state.Settings),
	}
	if state.CurrentTrack != nil {
		restored.CurrentTrack = findRestoredTrack(albums,
			state.CurrentTrack.FolderToken, state.CurrentTrack.FileName)
	}
	return restored, nil
}

func restoreAlbum(persisted domain.PersistedAlbum, folderPath string) *domain.Album {
	album := &domain.Album{
		Name:        persisted.Name,
		Artist:      persisted.Artist,
		Year:        persisted.Year,
		FolderToken: persisted.FolderToken,
		Tracks:      make([]*domain.Track, 0, len(persisted.Tracks)),
	}
	if persisted.CoverArtFileName != "" {
		album.CoverArtPath = filepath.Join(folderPath, persisted.CoverArtFileName)
	}
	for _, pt := range persisted.Tracks {
		album.Tracks = append(album.Tracks, &domain.Track{
			FilePath:    filepath.Join(folderPath, pt.FileName),
			FileName:    pt.FileName,
			Title:       pt.Title,
			Artist:      pt.Artist,
			AlbumTitle:  pt.AlbumTitle,
			TrackNumber: pt.TrackNumber,
			Year:        pt.Year,
			Genre:       pt.Genre,
			Duration:    domain.TicksToDuration(pt.DurationTicks),
		})
	}
	return album
}

func findRestoredTrack(albums []*domain.Album, token, fileName string) *domain.Track {
	for _, album := range albums {
		if album.FolderToken != token {
			continue
		}
		for _, track := range album.Tracks {
			if track.FileName == fileName {
				return track
			}
		}
	}
	return nil
}

func normalizeSettings(s domain.AppSettings) domain.AppSettings {
	if s.VolumeLevel < 0 || s.VolumeLevel > 100 {
		s.VolumeLevel = DefaultVolumeLevel
	}
	if s.ReducedVolumeLevel < 1 || s.ReducedVolumeLevel > 100 {
		s.ReducedVolumeLevel = DefaultReducedVolumeLevel
	}
	return s
}

// CaptureState builds a persistable snapshot from live domain state. Albums
// without a folder token (the merged Uncategorized album) cannot be restored
// and are skipped.
func CaptureState(
	albums []*domain.Album,
	current *domain.Track,
	volumeLevel, reducedLevel int,
) *domain.AppState {
	state := &domain.AppState{
		Settings: domain.AppSettings{
			VolumeLevel:        volumeLevel,
			ReducedVolumeLevel: reducedLevel,
		},
		Playlist: make([]domain.PersistedAlbum, 0, len(albums)),
	}

	for _, album := range albums {
		if album.FolderToken == "" {
			continue
		}
		state.Playlist = append(state.Playlist, domain.PersistAlbum(album))

		if current == nil || state.CurrentTrack != nil {
			continue
		}
		for _, track := range album.Tracks {
			if track == current {
				state.CurrentTrack = &domain.PersistedCurrentTrack{
					FolderToken: album.FolderToken,
					FileName:    track.FileName,
				}
				break
			}
		}
	}
	return state
}
