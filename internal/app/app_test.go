package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bloomca/Discosaur/internal/config"
	"github.com/Bloomca/Discosaur/internal/domain"
)

func newTestApp(t *testing.T) *Application {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Config{
		StateFile:     filepath.Join(dir, "appstate.json"),
		AccessFile:    filepath.Join(dir, "folders.json"),
		SaveDelayMS:   20,
		ReducedVolume: 30,
		Log:           config.LogConfig{Level: "warn", Format: "text"},
	}

	application, err := NewApplication(cfg, Options{UseMockAudio: true})
	require.NoError(t, err)
	t.Cleanup(application.Shutdown)
	return application
}

// musicFolder writes placeholder audio files. Their tags are unreadable, so
// they land in the Uncategorized album titled by file name, in name order.
func musicFolder(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	return dir
}

func TestRestoreFreshStart(t *testing.T) {
	application := newTestApp(t)

	application.Restore()

	assert.Empty(t, application.Library().Albums())
	assert.Nil(t, application.Playback().CurrentTrack())
}

func TestAddFolderPopulatesLibrary(t *testing.T) {
	application := newTestApp(t)
	application.Restore()

	require.NoError(t, application.AddFolder(musicFolder(t, "a.mp3", "b.mp3")))

	albums := application.Library().Albums()
	require.Len(t, albums, 1)
	assert.Len(t, albums[0].Tracks, 2)
}

func TestPlaySelectedTrackEmptyLibrary(t *testing.T) {
	application := newTestApp(t)
	application.Restore()

	err := application.PlaySelectedTrack()

	assert.ErrorIs(t, err, domain.ErrLibraryEmpty)
}

func TestPlaySelectedTrackDefaultsToFirst(t *testing.T) {
	application := newTestApp(t)
	application.Restore()
	require.NoError(t, application.AddFolder(musicFolder(t, "a.mp3", "b.mp3")))

	require.NoError(t, application.PlaySelectedTrack())

	playback := application.Playback()
	assert.Equal(t, domain.StatusPlaying, playback.Status())
	assert.Equal(t, "a.mp3", playback.CurrentTrack().FileName)
}

func TestPlaySelectedTrackUsesAnchor(t *testing.T) {
	application := newTestApp(t)
	application.Restore()
	require.NoError(t, application.AddFolder(musicFolder(t, "a.mp3", "b.mp3")))

	albums := application.Library().Albums()
	application.Selection().SelectTrack(albums[0].Tracks[1])

	require.NoError(t, application.PlaySelectedTrack())

	assert.Equal(t, "b.mp3", application.Playback().CurrentTrack().FileName)
}

func TestDeleteSelectedTracksSelectsNextNeighbor(t *testing.T) {
	application := newTestApp(t)
	application.Restore()
	require.NoError(t, application.AddFolder(musicFolder(t, "a.mp3", "b.mp3", "c.mp3")))

	albums := application.Library().Albums()
	require.Len(t, albums[0].Tracks, 3)
	application.Selection().SelectTrack(albums[0].Tracks[1])

	application.DeleteSelectedTracks()

	remaining := application.Library().Albums()
	require.Len(t, remaining, 1)
	assert.Len(t, remaining[0].Tracks, 2)

	selected := application.Selection().SelectedTracks()
	require.Len(t, selected, 1)
	assert.Equal(t, "c.mp3", selected[0].FileName)
}

func TestDeleteSelectedTracksAtEndSelectsPrevious(t *testing.T) {
	application := newTestApp(t)
	application.Restore()
	require.NoError(t, application.AddFolder(musicFolder(t, "a.mp3", "b.mp3", "c.mp3")))

	albums := application.Library().Albums()
	application.Selection().SelectTrack(albums[0].Tracks[2])

	application.DeleteSelectedTracks()

	selected := application.Selection().SelectedTracks()
	require.Len(t, selected, 1)
	assert.Equal(t, "b.mp3", selected[0].FileName)
}

func TestDeleteLastTracksLeavesNoSelection(t *testing.T) {
	application := newTestApp(t)
	application.Restore()
	require.NoError(t, application.AddFolder(musicFolder(t, "a.mp3")))

	albums := application.Library().Albums()
	application.Selection().SelectAlbum(albums[0])

	application.DeleteSelectedTracks()

	assert.Empty(t, application.Library().Albums())
	assert.Empty(t, application.Selection().SelectedTracks())
}

func TestDeletePlayingTrackStopsPlayback(t *testing.T) {
	application := newTestApp(t)
	application.Restore()
	require.NoError(t, application.AddFolder(musicFolder(t, "a.mp3", "b.mp3")))

	albums := application.Library().Albums()
	application.Selection().SelectTrack(albums[0].Tracks[0])
	require.NoError(t, application.PlaySelectedTrack())

	application.DeleteSelectedTracks()

	assert.Equal(t, domain.StatusStopped, application.Playback().Status())
	assert.Nil(t, application.Playback().CurrentTrack())
}

func TestDeleteOtherTrackKeepsPlaying(t *testing.T) {
	application := newTestApp(t)
	application.Restore()
	require.NoError(t, application.AddFolder(musicFolder(t, "a.mp3", "b.mp3")))

	albums := application.Library().Albums()
	application.Selection().SelectTrack(albums[0].Tracks[0])
	require.NoError(t, application.PlaySelectedTrack())

	application.Selection().SelectTrack(albums[0].Tracks[1])
	application.DeleteSelectedTracks()

	assert.Equal(t, domain.StatusPlaying, application.Playback().Status())
	assert.Equal(t, "a.mp3", application.Playback().CurrentTrack().FileName)
}

func TestVolumeChangeIsAutoSaved(t *testing.T) {
	application := newTestApp(t)
	application.Restore()

	application.Playback().SetVolume(42)

	require.Eventually(t, func() bool {
		_, err := os.Stat(application.cfg.StateFile)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestShutdownFlushesPendingState(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		StateFile:  filepath.Join(dir, "appstate.json"),
		AccessFile: filepath.Join(dir, "folders.json"),
		// Long delay: only Flush can account for the write.
		SaveDelayMS:   60_000,
		ReducedVolume: 30,
		Log:           config.LogConfig{Level: "warn", Format: "text"},
	}
	application, err := NewApplication(cfg, Options{UseMockAudio: true})
	require.NoError(t, err)
	application.Restore()

	application.Playback().SetVolume(42)
	application.Shutdown()

	_, statErr := os.Stat(cfg.StateFile)
	assert.NoError(t, statErr)
}

func TestVolumeSettingsSurviveRestart(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		StateFile:     filepath.Join(dir, "appstate.json"),
		AccessFile:    filepath.Join(dir, "folders.json"),
		SaveDelayMS:   20,
		ReducedVolume: 30,
		Log:           config.LogConfig{Level: "warn", Format: "text"},
	}

	first, err := NewApplication(cfg, Options{UseMockAudio: true})
	require.NoError(t, err)
	first.Restore()
	first.Playback().SetReducedVolumeLevel(25)
	first.Playback().SetVolume(55)
	first.Shutdown()

	second, err := NewApplication(cfg, Options{UseMockAudio: true})
	require.NoError(t, err)
	defer second.Shutdown()
	second.Restore()

	assert.Equal(t, 55, second.Playback().VolumeLevel())
	assert.Equal(t, 25, second.Playback().ReducedVolumeLevel())
}
