package service

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/Bloomca/Discosaur/internal/domain"
	"github.com/Bloomca/Discosaur/internal/ports"
)

// supportedExtensions is the scan allow-list, matched case-insensitively
// against file extensions.
var supportedExtensions = []string{".mp3", ".flac", ".wav", ".m4a", ".ogg", ".wma", ".aac"}

// Cover art is any image in the scanned folder whose base name is one of the
// conventional names. At most one cover file is used per folder.
var (
	coverArtNames      = []string{"cover", "artwork", "folder", "front"}
	coverArtExtensions = []string{".jpg", ".jpeg", ".png"}
)

// LibraryService owns the album library and its filtered projection. It
// builds albums from folder scans, applies filters, and removes tracks.
//
// All operations are thread-safe via sync.RWMutex. Scanning and tag reading
// are blocking I/O performed before the lock is taken, so a slow disk never
// stalls readers; results are applied all at once per folder.
type LibraryService struct {
	logger *slog.Logger
	tags   ports.TagReader
	access ports.FolderAccessList
	bus    ports.EventBus

	mu        sync.RWMutex
	albums    []*domain.Album
	filtered  []*domain.Album
	filterCfg *domain.FilterConfiguration
	filtering bool
}

// NewLibraryService creates a new library service.
func NewLibraryService(
	logger *slog.Logger,
	tags ports.TagReader,
	access ports.FolderAccessList,
	bus ports.EventBus,
) *LibraryService {
	return &LibraryService{
		logger: logger,
		tags:   tags,
		access: access,
		bus:    bus,
	}
}

// ScanFolder builds zero or more albums from the immediate files of a
// folder. Files failing tag extraction still become tracks with the file
// name as title. An empty folder yields an empty result; an unreadable
// folder is an error.
func (s *LibraryService) ScanFolder(folderPath string) ([]*domain.Album, error) {
	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, domain.NewServiceError("LibraryService", "ScanFolder",
			fmt.Sprintf("cannot read folder %q", folderPath), err)
	}

	var tracks []*domain.Track
	for _, entry := range entries {
		if entry.IsDir() || !isSupportedAudioFile(entry.Name()) {
			continue
		}
		tracks = append(tracks, s.buildTrack(folderPath, entry.Name()))
	}
	if len(tracks) == 0 {
		return nil, nil
	}

	albums := GroupTracks(tracks)

	if coverPath := findCoverArt(folderPath, entries); coverPath != "" {
		for _, album := range albums {
			if album.CoverArtPath == "" {
				album.CoverArtPath = coverPath
			}
		}
	}

	return albums, nil
}

// buildTrack reads tags for a single file. Extraction failure is swallowed:
// the track keeps filename-derived defaults.
func (s *LibraryService) buildTrack(folderPath, fileName string) *domain.Track {
	track := &domain.Track{
		FilePath: filepath.Join(folderPath, fileName),
		FileName: fileName,
		Title:    fileName,
	}

	tags, err := s.tags.ReadTags(track.FilePath)
	if err != nil {
		s.logger.Debug("tag extraction failed, using filename defaults",
			slog.String("file", fileName), slog.Any("error", err))
		return track
	}

	if strings.TrimSpace(tags.Title) != "" {
		track.Title = tags.Title
	}
	track.Artist = tags.Artist
	track.AlbumTitle = tags.Album
	track.TrackNumber = tags.TrackNumber
	track.Year = tags.Year
	track.Genre = tags.Genre
	track.Duration = tags.Duration
	return track
}

// GroupTracks partitions tracks into albums by trimmed album title. Tracks
// without an album title form the Uncategorized group, placed last. Within a
// real album, tracks sort by track number ascending with unnumbered tracks
// after numbered ones, ties broken by file name; album artist and year are
// taken from the first track after sorting, so the lowest-numbered track's
// metadata wins.
func GroupTracks(tracks []*domain.Track) []*domain.Album {
	var order []string
	groups := make(map[string][]*domain.Track)
	var uncategorized []*domain.Track

	for _, track := range tracks {
		title := strings.TrimSpace(track.AlbumTitle)
		if title == "" {
			uncategorized = append(uncategorized, track)
			continue
		}
		if _, ok := groups[title]; !ok {
			order = append(order, title)
		}
		groups[title] = append(groups[title], track)
	}

	albums := make([]*domain.Album, 0, len(order)+1)
	for _, title := range order {
		grouped := groups[title]
		sortAlbumTracks(grouped)

		first := grouped[0]
		albums = append(albums, &domain.Album{
			Name:   title,
			Artist: first.Artist,
			Year:   first.Year,
			Tracks: grouped,
		})
	}

	if len(uncategorized) > 0 {
		albums = append(albums, &domain.Album{
			Name:   domain.UncategorizedName,
			Tracks: uncategorized,
		})
	}

	return albums
}

func sortAlbumTracks(tracks []*domain.Track) {
	slices.SortStableFunc(tracks, func(a, b *domain.Track) int {
		switch {
		case a.TrackNumber != 0 && b.TrackNumber != 0:
			if c := cmp.Compare(a.TrackNumber, b.TrackNumber); c != 0 {
				return c
			}
		case a.TrackNumber != 0:
			return -1
		case b.TrackNumber != 0:
			return 1
		}
		return cmp.Compare(a.FileName, b.FileName)
	})
}

func isSupportedAudioFile(name string) bool {
	return slices.Contains(supportedExtensions, strings.ToLower(filepath.Ext(name)))
}

func findCoverArt(folderPath string, entries []os.DirEntry) string {
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !slices.Contains(coverArtExtensions, ext) {
			continue
		}
		base := strings.ToLower(strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
		if slices.Contains(coverArtNames, base) {
			return filepath.Join(folderPath, entry.Name())
		}
	}
	return ""
}

// AddFolder scans a folder and merges the result into the library: real
// albums are appended carrying the folder's access token, uncategorized
// tracks merge into the library's single Uncategorized album. The merge is
// all-or-nothing; a scan error leaves the library untouched.
func (s *LibraryService) AddFolder(folderPath string) error {
	scanned, err := s.ScanFolder(folderPath)
	if err != nil {
		return err
	}
	if len(scanned) == 0 {
		s.logger.Info("folder contains no supported audio files",
			slog.String("folder", folderPath))
		return nil
	}

	// The token exists so the folder's albums can be restored on the next
	// start. Uncategorized tracks are not persisted, so a folder yielding
	// only those needs no token.
	var token string
	if slices.ContainsFunc(scanned, func(a *domain.Album) bool { return !a.IsUncategorized() }) {
		token, err = s.access.AddFolder(folderPath)
		if err != nil {
			return domain.NewServiceError("LibraryService", "AddFolder",
				fmt.Sprintf("cannot register folder %q", folderPath), err)
		}
	}

	s.mu.Lock()
	var added []*domain.Album
	for _, album := range scanned {
		if album.IsUncategorized() {
			s.mergeUncategorizedLocked(album.Tracks)
			continue
		}
		album.FolderToken = token
		s.albums = append(s.albums, album)
		added = append(added, album)
	}
	if s.filtering {
		s.rebuildFilteredLocked()
	}
	albums := slices.Clone(s.albums)
	s.mu.Unlock()

	s.logger.Info("folder added to library",
		slog.String("folder", folderPath),
		slog.Int("albums", len(added)))
	s.bus.Publish(domain.NewLibraryUpdatedEvent(albums, added, nil))
	return nil
}

// mergeUncategorizedLocked appends tracks to the single Uncategorized album,
// creating it when absent. Must be called with the lock held.
func (s *LibraryService) mergeUncategorizedLocked(tracks []*domain.Track) {
	for _, album := range s.albums {
		if album.IsUncategorized() {
			album.Tracks = append(album.Tracks, tracks...)
			return
		}
	}
	s.albums = append(s.albums, &domain.Album{
		Name:   domain.UncategorizedName,
		Tracks: tracks,
	})
}

// RemoveTracks deletes the given tracks from the library. Albums emptied by
// the deletion are dropped, and their folder tokens are released once no
// remaining album references them. The filtered view is rebuilt when active.
func (s *LibraryService) RemoveTracks(tracks []*domain.Track) {
	if len(tracks) == 0 {
		return
	}

	doomed := make(map[*domain.Track]struct{}, len(tracks))
	for _, t := range tracks {
		doomed[t] = struct{}{}
	}

	s.mu.Lock()
	var removed []*domain.Track
	var releasedTokens []string

	kept := s.albums[:0]
	for _, album := range s.albums {
		keptTracks := album.Tracks[:0]
		for _, track := range album.Tracks {
			if _, gone := doomed[track]; gone {
				removed = append(removed, track)
				continue
			}
			keptTracks = append(keptTracks, track)
		}
		album.Tracks = keptTracks
		if len(album.Tracks) > 0 {
			kept = append(kept, album)
			continue
		}
		if album.FolderToken != "" {
			releasedTokens = append(releasedTokens, album.FolderToken)
		}
	}
	s.albums = kept

	for _, token := range releasedTokens {
		if !s.tokenInUseLocked(token) {
			s.access.RemoveToken(token)
		}
	}

	if s.filtering {
		s.rebuildFilteredLocked()
	}
	albums := slices.Clone(s.albums)
	s.mu.Unlock()

	if len(removed) == 0 {
		return
	}
	s.bus.Publish(domain.NewLibraryUpdatedEvent(albums, nil, removed))
}

func (s *LibraryService) tokenInUseLocked(token string) bool {
	for _, album := range s.albums {
		if album.FolderToken == token {
			return true
		}
	}
	return false
}

// ApplyFilter installs a filter configuration and rebuilds the filtered
// view. A nil configuration or one without criteria behaves like
// ClearFilter.
func (s *LibraryService) ApplyFilter(cfg *domain.FilterConfiguration) {
	s.mu.Lock()
	s.filterCfg = cfg
	s.rebuildFilteredLocked()
	active, filtered := s.filtering, slices.Clone(s.filtered)
	s.mu.Unlock()

	s.bus.Publish(domain.NewFilterChangedEvent(active, filtered))
}

// ClearFilter drops the filter configuration and deactivates the filtered
// view.
func (s *LibraryService) ClearFilter() {
	s.mu.Lock()
	s.filterCfg = nil
	s.filtered = nil
	s.filtering = false
	s.mu.Unlock()

	s.bus.Publish(domain.NewFilterChangedEvent(false, nil))
}

// rebuildFilteredLocked recomputes the filtered view from the current
// configuration. Must be called with the lock held.
func (s *LibraryService) rebuildFilteredLocked() {
	if !s.filterCfg.HasAnyCriteria() {
		s.filtered = nil
		s.filtering = false
		return
	}
	s.filtered = Filter(s.albums, s.filterCfg)
	s.filtering = true
}

// RestoreAlbums replaces the library with albums rebuilt from persisted
// state. Used once at startup, before any user mutation.
func (s *LibraryService) RestoreAlbums(albums []*domain.Album) {
	s.mu.Lock()
	s.albums = slices.Clone(albums)
	s.mu.Unlock()

	s.bus.Publish(domain.NewLibraryRestoredEvent(albums))
}

// Albums returns a copy of the full album list.
func (s *LibraryService) Albums() []*domain.Album {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.albums)
}

// FilteredAlbums returns a copy of the filtered view. Empty when no filter
// is active.
func (s *LibraryService) FilteredAlbums() []*domain.Album {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.filtered)
}

// ActiveAlbums returns the album list navigation and selection should
// operate on: the filtered view while filtering, the full library otherwise.
func (s *LibraryService) ActiveAlbums() []*domain.Album {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.filtering {
		return slices.Clone(s.filtered)
	}
	return slices.Clone(s.albums)
}

// IsFiltering reports whether the filtered view is active.
func (s *LibraryService) IsFiltering() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filtering
}

// FilterConfig returns the installed filter configuration, nil when none.
func (s *LibraryService) FilterConfig() *domain.FilterConfiguration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterCfg
}
