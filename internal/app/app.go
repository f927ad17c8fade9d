// Package app provides application-level orchestration and dependency
// injection. It wires the adapters into the services and manages the
// application lifecycle.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Bloomca/Discosaur/internal/adapter/access"
	beepsink "github.com/Bloomca/Discosaur/internal/adapter/audio/beep"
	"github.com/Bloomca/Discosaur/internal/adapter/audio/mock"
	"github.com/Bloomca/Discosaur/internal/adapter/eventbus"
	"github.com/Bloomca/Discosaur/internal/adapter/state"
	"github.com/Bloomca/Discosaur/internal/adapter/tags"
	"github.com/Bloomca/Discosaur/internal/config"
	"github.com/Bloomca/Discosaur/internal/domain"
	"github.com/Bloomca/Discosaur/internal/logger"
	"github.com/Bloomca/Discosaur/internal/ports"
	"github.com/Bloomca/Discosaur/internal/service"
)

// Application is the root structure holding all wired components. Commands
// talk to the services through it; it owns startup restore and graceful
// shutdown.
type Application struct {
	logger *slog.Logger
	cfg    config.Config

	eventBus ports.EventBus
	sink     ports.AudioSink

	library   *service.LibraryService
	selection *service.SelectionService
	playback  *service.PlaybackService
	persister *service.StatePersister
}

// Options tweaks construction for tests and headless runs.
type Options struct {
	// UseMockAudio swaps the speaker-backed sink for the in-memory one.
	UseMockAudio bool
}

// NewApplication creates an application with all dependencies wired.
func NewApplication(cfg config.Config, opts Options) (*Application, error) {
	a := &Application{cfg: cfg}

	a.logger = logger.NewLogger(logger.ConfigFrom(cfg.Log.Level, cfg.Log.Format))
	a.logger.Info("initializing", slog.String("version", GetVersionInfo().FullString()))

	a.eventBus = eventbus.NewSyncBus(a.logger.With(slog.String("component", "eventbus")))

	if opts.UseMockAudio {
		a.sink = mock.NewSink()
	} else {
		a.sink = beepsink.NewSink()
	}

	accessList, err := access.NewList(cfg.AccessFile)
	if err != nil {
		return nil, fmt.Errorf("opening folder access list: %w", err)
	}
	stateStore := state.NewStore(cfg.StateFile)

	a.library = service.NewLibraryService(
		a.logger.With(slog.String("service", "library")),
		tags.NewReader(),
		accessList,
		a.eventBus,
	)
	a.selection = service.NewSelectionService(a.library.ActiveAlbums, a.eventBus)
	a.playback = service.NewPlaybackService(
		a.logger.With(slog.String("service", "playback")),
		a.sink,
		a.library.ActiveAlbums,
		a.eventBus,
	)
	a.playback.SetReducedVolumeLevel(cfg.ReducedVolume)

	a.persister = service.NewStatePersister(
		a.logger.With(slog.String("service", "persister")),
		stateStore,
		accessList,
		a.eventBus,
		a.captureState,
		time.Duration(cfg.SaveDelayMS)*time.Millisecond,
	)

	a.wireAutoSave()
	return a, nil
}

// captureState snapshots everything worth persisting. Called by the
// persister at schedule time.
func (a *Application) captureState() *domain.AppState {
	return service.CaptureState(
		a.library.Albums(),
		a.playback.CurrentTrack(),
		a.playback.VolumeLevel(),
		a.playback.ReducedVolumeLevel(),
	)
}

// wireAutoSave schedules a save after every event that changes persistable
// state. Filter and selection changes are session-local and excluded.
func (a *Application) wireAutoSave() {
	save := func(domain.Event) { a.persister.ScheduleSave() }
	a.eventBus.Subscribe(domain.EventLibraryUpdated, save)
	a.eventBus.Subscribe(domain.EventPlaybackChanged, save)
	a.eventBus.Subscribe(domain.EventVolumeChanged, save)
}

// Restore rebuilds the previous session from disk and opens the persister
// gate. A corrupt or unreadable state file logs a warning and starts fresh;
// it never blocks startup.
func (a *Application) Restore() {
	restored, err := a.persister.LoadAndRestore()
	if err != nil {
		a.logger.Warn("cannot restore previous session", slog.Any("error", err))
	}
	if restored != nil {
		a.library.RestoreAlbums(restored.Albums)
		a.playback.SetReducedVolumeLevel(restored.Settings.ReducedVolumeLevel)
		a.playback.SetVolume(restored.Settings.VolumeLevel)
		if restored.CurrentTrack != nil {
			a.playback.SetCurrentTrackDisplay(restored.CurrentTrack)
		}
		a.logger.Info("session restored",
			slog.Int("albums", len(restored.Albums)),
			slog.Bool("current_track", restored.CurrentTrack != nil))
	}
	a.persister.SetReady()
}

// AddFolder scans a folder into the library.
func (a *Application) AddFolder(path string) error {
	return a.library.AddFolder(path)
}

// PlaySelectedTrack plays the selection anchor, or the first track of the
// library when nothing is selected.
func (a *Application) PlaySelectedTrack() error {
	track := a.selection.AnchorTrack()
	if track == nil {
		track = service.FirstTrack(a.library.ActiveAlbums())
	}
	if track == nil {
		return domain.ErrLibraryEmpty
	}
	return a.playback.Play(track)
}

// DeleteSelectedTracks removes the selected tracks from the library. If the
// playing track is among them playback stops first. The selection then
// moves to the nearest surviving neighbor: the track after the deleted
// block, or the one before it when the block reached the end.
func (a *Application) DeleteSelectedTracks() {
	selected := a.selection.SelectedTracks()
	if len(selected) == 0 {
		return
	}
	doomed := make(map[*domain.Track]struct{}, len(selected))
	for _, t := range selected {
		doomed[t] = struct{}{}
	}

	if current := a.playback.CurrentTrack(); current != nil {
		if _, gone := doomed[current]; gone {
			a.playback.Stop()
		}
	}

	neighbor := survivingNeighbor(a.library.ActiveAlbums(), doomed)

	a.selection.RemoveFromSelection(selected)
	a.library.RemoveTracks(selected)

	if neighbor != nil {
		a.selection.SelectTrack(neighbor)
	}
}

// survivingNeighbor picks the selection target after a deletion: the first
// surviving track past the last doomed one, else the last surviving track
// before the first doomed one.
func survivingNeighbor(albums []*domain.Album, doomed map[*domain.Track]struct{}) *domain.Track {
	seq := service.AllTracks(albums)

	last := -1
	first := len(seq)
	for i, track := range seq {
		if _, gone := doomed[track]; gone {
			if i < first {
				first = i
			}
			last = i
		}
	}
	if last == -1 {
		return nil
	}

	for i := last + 1; i < len(seq); i++ {
		if _, gone := doomed[seq[i]]; !gone {
			return seq[i]
		}
	}
	for i := first - 1; i >= 0; i-- {
		if _, gone := doomed[seq[i]]; !gone {
			return seq[i]
		}
	}
	return nil
}

// Library returns the library service.
func (a *Application) Library() *service.LibraryService { return a.library }

// Selection returns the selection service.
func (a *Application) Selection() *service.SelectionService { return a.selection }

// Playback returns the playback service.
func (a *Application) Playback() *service.PlaybackService { return a.playback }

// EventBus returns the event bus.
func (a *Application) EventBus() ports.EventBus { return a.eventBus }

// Logger returns the application logger.
func (a *Application) Logger() *slog.Logger { return a.logger }

// Shutdown flushes pending state and releases audio resources. Call via
// defer from main.
func (a *Application) Shutdown() {
	a.logger.Info("shutting down")

	a.persister.Flush()
	a.playback.Shutdown()
	if err := a.sink.Close(); err != nil {
		a.logger.Warn("cannot close audio sink", slog.Any("error", err))
	}
	if err := a.eventBus.Close(); err != nil {
		a.logger.Warn("cannot close event bus", slog.Any("error", err))
	}

	a.logger.Info("shutdown complete")
}
