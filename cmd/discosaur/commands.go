package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Bloomca/Discosaur/internal/app"
	"github.com/Bloomca/Discosaur/internal/config"
	"github.com/Bloomca/Discosaur/internal/domain"
)

var (
	configPath string
	silentMode bool
)

var rootCmd = &cobra.Command{
	Use:   "discosaur",
	Short: "Local music library and playback engine",
	Long: `Discosaur scans folders of audio files into albums, remembers your
library between runs, and plays it back with repeat and shuffle modes.`,
	SilenceUsage: true,
}

var scanCmd = &cobra.Command{
	Use:   "scan [folder]...",
	Short: "Add folders of audio files to the library",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApplication()
		if err != nil {
			return err
		}
		defer application.Shutdown()
		application.Restore()

		for _, folder := range args {
			if err := application.AddFolder(folder); err != nil {
				return err
			}
		}
		printAlbums(application)
		return nil
	},
}

var albumsCmd = &cobra.Command{
	Use:   "albums",
	Short: "List the albums in the library",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApplication()
		if err != nil {
			return err
		}
		defer application.Shutdown()
		application.Restore()

		printAlbums(application)
		return nil
	},
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the library, resuming the previous session",
	Long: `Starts playback from the previously playing track, or the first track
of the library, and keeps playing until interrupted. Tracks advance
automatically; repeat and shuffle settings apply.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := newApplication()
		if err != nil {
			return err
		}
		defer application.Shutdown()
		application.Restore()

		playback := application.Playback()
		track := playback.CurrentTrack()
		if track == nil {
			if err := application.PlaySelectedTrack(); err != nil {
				return err
			}
		} else if err := playback.Play(track); err != nil {
			return err
		}

		application.EventBus().Subscribe(domain.EventPlaybackChanged, func(event domain.Event) {
			if e, ok := event.(domain.PlaybackChangedEvent); ok && e.Track != nil {
				fmt.Printf("▶ %s — %s\n", e.Track.Title, e.Track.DurationDisplay())
			}
		})

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(app.GetVersionInfo().FullString())
	},
}

func newApplication() (*app.Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return app.NewApplication(cfg, app.Options{UseMockAudio: silentMode})
}

func printAlbums(application *app.Application) {
	for _, album := range application.Library().Albums() {
		fmt.Println(album.DisplayName())
		for _, track := range album.Tracks {
			fmt.Printf("  %s %s (%s)\n",
				track.TrackNumberDisplay(), track.Title, track.DurationDisplay())
		}
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&silentMode, "silent", false, "use the in-memory audio sink")
	rootCmd.AddCommand(scanCmd, albumsCmd, playCmd, versionCmd)
}
