package service

import (
	"slices"
	"sync"

	"github.com/Bloomca/Discosaur/internal/domain"
	"github.com/Bloomca/Discosaur/internal/ports"
)

// SelectionService tracks which tracks are currently selected. Selection is
// ordered: tracks appear in the order the user picked them, and the last one
// is the anchor that keyboard navigation moves from.
//
// The service never owns the album list; it queries the active view (full or
// filtered library) through the provider on every navigation call, so it
// stays correct when a filter is applied underneath it.
type SelectionService struct {
	active func() []*domain.Album
	bus    ports.EventBus

	mu       sync.RWMutex
	selected []*domain.Track
}

// NewSelectionService creates a selection service over the active album
// provider.
func NewSelectionService(active func() []*domain.Album, bus ports.EventBus) *SelectionService {
	return &SelectionService{
		active: active,
		bus:    bus,
	}
}

// SelectTrack replaces the selection with a single track. A nil track clears
// the selection.
func (s *SelectionService) SelectTrack(track *domain.Track) {
	s.mu.Lock()
	if track == nil {
		s.selected = nil
	} else {
		s.selected = []*domain.Track{track}
	}
	selected := slices.Clone(s.selected)
	s.mu.Unlock()

	s.bus.Publish(domain.NewSelectionChangedEvent(selected))
}

// SelectExtraTrack toggles a track's membership in the selection: an
// unselected track is appended (becoming the new anchor), an already
// selected one is removed.
func (s *SelectionService) SelectExtraTrack(track *domain.Track) {
	if track == nil {
		return
	}

	s.mu.Lock()
	if i := slices.Index(s.selected, track); i >= 0 {
		s.selected = slices.Delete(s.selected, i, i+1)
	} else {
		s.selected = append(s.selected, track)
	}
	selected := slices.Clone(s.selected)
	s.mu.Unlock()

	s.bus.Publish(domain.NewSelectionChangedEvent(selected))
}

// SelectNextTrack moves the selection to the track after the anchor,
// collapsing a multi-selection to that single track. With no selection the
// first track of the library is selected. At the end of the sequence the
// selection is unchanged.
func (s *SelectionService) SelectNextTrack() {
	albums := s.active()

	s.mu.Lock()
	anchor := s.anchorLocked()
	var next *domain.Track
	if anchor == nil {
		next = FirstTrack(albums)
	} else {
		next = NextTrack(anchor, albums)
	}
	if next == nil {
		s.mu.Unlock()
		return
	}
	s.selected = []*domain.Track{next}
	selected := slices.Clone(s.selected)
	s.mu.Unlock()

	s.bus.Publish(domain.NewSelectionChangedEvent(selected))
}

// SelectPreviousTrack moves the selection to the track before the anchor.
// With no selection the last track of the library is selected. At the start
// of the sequence the selection is unchanged.
func (s *SelectionService) SelectPreviousTrack() {
	albums := s.active()

	s.mu.Lock()
	anchor := s.anchorLocked()
	var prev *domain.Track
	if anchor == nil {
		prev = LastTrack(albums)
	} else {
		prev = PreviousTrack(anchor, albums)
	}
	if prev == nil {
		s.mu.Unlock()
		return
	}
	s.selected = []*domain.Track{prev}
	selected := slices.Clone(s.selected)
	s.mu.Unlock()

	s.bus.Publish(domain.NewSelectionChangedEvent(selected))
}

// SelectFirstTrackOfNextAlbum jumps the selection to the first track of the
// album after the anchor's album. With no selection it selects the first
// track of the library. On the last album the selection is unchanged.
func (s *SelectionService) SelectFirstTrackOfNextAlbum() {
	albums := s.active()

	s.mu.Lock()
	anchor := s.anchorLocked()

	var target *domain.Track
	if anchor == nil {
		target = FirstTrack(albums)
	} else if current := AlbumForTrack(anchor, albums); current != nil {
		idx := slices.Index(albums, current)
		for i := idx + 1; i < len(albums); i++ {
			if len(albums[i].Tracks) > 0 {
				target = albums[i].Tracks[0]
				break
			}
		}
	}
	if target == nil {
		s.mu.Unlock()
		return
	}
	s.selected = []*domain.Track{target}
	selected := slices.Clone(s.selected)
	s.mu.Unlock()

	s.bus.Publish(domain.NewSelectionChangedEvent(selected))
}

// SelectFirstTrackOfPreviousAlbum jumps the selection to the first track of
// the album before the anchor's album. With no selection, or on the first
// album, the selection is unchanged.
func (s *SelectionService) SelectFirstTrackOfPreviousAlbum() {
	albums := s.active()

	s.mu.Lock()
	anchor := s.anchorLocked()
	if anchor == nil {
		s.mu.Unlock()
		return
	}

	var target *domain.Track
	if current := AlbumForTrack(anchor, albums); current != nil {
		idx := slices.Index(albums, current)
		for i := idx - 1; i >= 0; i-- {
			if len(albums[i].Tracks) > 0 {
				target = albums[i].Tracks[0]
				break
			}
		}
	}
	if target == nil {
		s.mu.Unlock()
		return
	}
	s.selected = []*domain.Track{target}
	selected := slices.Clone(s.selected)
	s.mu.Unlock()

	s.bus.Publish(domain.NewSelectionChangedEvent(selected))
}

// SelectAlbum replaces the selection with every track of the album, in album
// order.
func (s *SelectionService) SelectAlbum(album *domain.Album) {
	if album == nil {
		return
	}

	s.mu.Lock()
	s.selected = slices.Clone(album.Tracks)
	selected := slices.Clone(s.selected)
	s.mu.Unlock()

	s.bus.Publish(domain.NewSelectionChangedEvent(selected))
}

// RemoveFromSelection drops the given tracks from the selection without
// touching the rest. Used when tracks are deleted from the library.
func (s *SelectionService) RemoveFromSelection(tracks []*domain.Track) {
	if len(tracks) == 0 {
		return
	}
	gone := make(map[*domain.Track]struct{}, len(tracks))
	for _, t := range tracks {
		gone[t] = struct{}{}
	}

	s.mu.Lock()
	before := len(s.selected)
	s.selected = slices.DeleteFunc(s.selected, func(t *domain.Track) bool {
		_, ok := gone[t]
		return ok
	})
	changed := len(s.selected) != before
	selected := slices.Clone(s.selected)
	s.mu.Unlock()

	if changed {
		s.bus.Publish(domain.NewSelectionChangedEvent(selected))
	}
}

// ClearSelection empties the selection.
func (s *SelectionService) ClearSelection() {
	s.mu.Lock()
	if len(s.selected) == 0 {
		s.mu.Unlock()
		return
	}
	s.selected = nil
	s.mu.Unlock()

	s.bus.Publish(domain.NewSelectionChangedEvent(nil))
}

// SelectedTracks returns a copy of the selection in selection order.
func (s *SelectionService) SelectedTracks() []*domain.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.selected)
}

// AnchorTrack returns the navigation anchor: the most recently selected
// track, nil when nothing is selected.
func (s *SelectionService) AnchorTrack() *domain.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.anchorLocked()
}

func (s *SelectionService) anchorLocked() *domain.Track {
	if len(s.selected) == 0 {
		return nil
	}
	return s.selected[len(s.selected)-1]
}
