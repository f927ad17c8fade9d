// Package domain defines the events published on the engine's event bus.
// Every mutable collection (library, filtered view, selection) and the
// playback state machine publishes after each structural change so a UI
// layer can re-render without binding to any specific framework.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
type Event interface {
	// Type returns the event type identifier.
	Type() EventType

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all events the engine publishes.
const (
	// Library events
	EventLibraryUpdated  EventType = "library.updated"
	EventFilterChanged   EventType = "library.filter_changed"
	EventLibraryRestored EventType = "library.restored"

	// Selection events
	EventSelectionChanged EventType = "selection.changed"

	// Playback events
	EventPlaybackChanged EventType = "playback.changed"
	EventTrackEnded      EventType = "playback.track_ended"
	EventPlaybackError   EventType = "playback.error"

	// Volume events
	EventVolumeChanged EventType = "volume.changed"

	// Persistence events
	EventStateSaved EventType = "state.saved"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides the timestamp shared by all concrete events.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// LibraryUpdatedEvent is published after albums are added to or removed from
// the library. Added and Removed carry the structural change; Albums is the
// full post-change album list.
type LibraryUpdatedEvent struct {
	baseEvent
	Albums        []*Album
	AddedAlbums   []*Album
	RemovedTracks []*Track
}

// Type returns the event type.
func (e LibraryUpdatedEvent) Type() EventType {
	return EventLibraryUpdated
}

// NewLibraryUpdatedEvent creates a new LibraryUpdatedEvent.
func NewLibraryUpdatedEvent(albums, added []*Album, removed []*Track) LibraryUpdatedEvent {
	return LibraryUpdatedEvent{
		baseEvent:     newBaseEvent(),
		Albums:        albums,
		AddedAlbums:   added,
		RemovedTracks: removed,
	}
}

// FilterChangedEvent is published when the filter configuration changes or
// the filtered view is rebuilt. Active is false after ClearFilter.
type FilterChangedEvent struct {
	baseEvent
	Active   bool
	Filtered []*Album
}

// Type returns the event type.
func (e FilterChangedEvent) Type() EventType {
	return EventFilterChanged
}

// NewFilterChangedEvent creates a new FilterChangedEvent.
func NewFilterChangedEvent(active bool, filtered []*Album) FilterChangedEvent {
	return FilterChangedEvent{
		baseEvent: newBaseEvent(),
		Active:    active,
		Filtered:  filtered,
	}
}

// LibraryRestoredEvent is published once at startup after the persisted
// library has been rebuilt.
type LibraryRestoredEvent struct {
	baseEvent
	Albums []*Album
}

// Type returns the event type.
func (e LibraryRestoredEvent) Type() EventType {
	return EventLibraryRestored
}

// NewLibraryRestoredEvent creates a new LibraryRestoredEvent.
func NewLibraryRestoredEvent(albums []*Album) LibraryRestoredEvent {
	return LibraryRestoredEvent{
		baseEvent: newBaseEvent(),
		Albums:    albums,
	}
}

// SelectionChangedEvent is published after every selection mutation with the
// full ordered selection.
type SelectionChangedEvent struct {
	baseEvent
	Selected []*Track
}

// Type returns the event type.
func (e SelectionChangedEvent) Type() EventType {
	return EventSelectionChanged
}

// NewSelectionChangedEvent creates a new SelectionChangedEvent.
func NewSelectionChangedEvent(selected []*Track) SelectionChangedEvent {
	return SelectionChangedEvent{
		baseEvent: newBaseEvent(),
		Selected:  selected,
	}
}

// PlaybackChangedEvent is published on every playback state transition.
// Track is nil when the new status is stopped.
type PlaybackChangedEvent struct {
	baseEvent
	Track  *Track
	Status PlaybackStatus
}

// Type returns the event type.
func (e PlaybackChangedEvent) Type() EventType {
	return EventPlaybackChanged
}

// NewPlaybackChangedEvent creates a new PlaybackChangedEvent.
func NewPlaybackChangedEvent(track *Track, status PlaybackStatus) PlaybackChangedEvent {
	return PlaybackChangedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Status:    status,
	}
}

// TrackEndedEvent is published when a track reaches end-of-media, after the
// auto-advance decision has been taken. NextTrack is nil when playback
// stopped.
type TrackEndedEvent struct {
	baseEvent
	EndedTrack *Track
	NextTrack  *Track
}

// Type returns the event type.
func (e TrackEndedEvent) Type() EventType {
	return EventTrackEnded
}

// NewTrackEndedEvent creates a new TrackEndedEvent.
func NewTrackEndedEvent(ended, next *Track) TrackEndedEvent {
	return TrackEndedEvent{
		baseEvent:  newBaseEvent(),
		EndedTrack: ended,
		NextTrack:  next,
	}
}

// PlaybackErrorEvent is published when the audio sink rejects a track.
type PlaybackErrorEvent struct {
	baseEvent
	Track *Track
	Err   error
}

// Type returns the event type.
func (e PlaybackErrorEvent) Type() EventType {
	return EventPlaybackError
}

// NewPlaybackErrorEvent creates a new PlaybackErrorEvent.
func NewPlaybackErrorEvent(track *Track, err error) PlaybackErrorEvent {
	return PlaybackErrorEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Err:       err,
	}
}

// VolumeChangedEvent is published when the volume level or mode changes.
type VolumeChangedEvent struct {
	baseEvent
	Level int
	Mode  VolumeMode
}

// Type returns the event type.
func (e VolumeChangedEvent) Type() EventType {
	return EventVolumeChanged
}

// NewVolumeChangedEvent creates a new VolumeChangedEvent.
func NewVolumeChangedEvent(level int, mode VolumeMode) VolumeChangedEvent {
	return VolumeChangedEvent{
		baseEvent: newBaseEvent(),
		Level:     level,
		Mode:      mode,
	}
}

// StateSavedEvent is published after a successful persistence write.
type StateSavedEvent struct {
	baseEvent
}

// Type returns the event type.
func (e StateSavedEvent) Type() EventType {
	return EventStateSaved
}

// NewStateSavedEvent creates a new StateSavedEvent.
func NewStateSavedEvent() StateSavedEvent {
	return StateSavedEvent{baseEvent: newBaseEvent()}
}
