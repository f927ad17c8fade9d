package service

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/Bloomca/Discosaur/internal/domain"
	"github.com/Bloomca/Discosaur/internal/ports"
)

// recordingBus is an EventBus stub that records published events and
// delivers them synchronously to subscribers.
type recordingBus struct {
	mu       sync.Mutex
	events   []domain.Event
	handlers map[domain.EventType][]domain.EventHandler
	nextID   int
}

func newRecordingBus() *recordingBus {
	return &recordingBus{handlers: make(map[domain.EventType][]domain.EventHandler)}
}

func (b *recordingBus) Publish(event domain.Event) {
	b.mu.Lock()
	b.events = append(b.events, event)
	handlers := append([]domain.EventHandler(nil), b.handlers[event.Type()]...)
	b.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

func (b *recordingBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.nextID++
	return domain.SubscriptionID(fmt.Sprintf("stub-%d", b.nextID))
}

func (b *recordingBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	return "stub-all"
}

func (b *recordingBus) Unsubscribe(domain.SubscriptionID) {}

func (b *recordingBus) Close() error { return nil }

// eventsOfType returns the recorded events matching the given type.
func (b *recordingBus) eventsOfType(eventType domain.EventType) []domain.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	var matched []domain.Event
	for _, e := range b.events {
		if e.Type() == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}

var _ ports.EventBus = (*recordingBus)(nil)

// stubTagReader serves canned tags keyed by file name.
type stubTagReader struct {
	mu      sync.Mutex
	tags    map[string]domain.Tags
	failAll bool
}

func newStubTagReader() *stubTagReader {
	return &stubTagReader{tags: make(map[string]domain.Tags)}
}

func (r *stubTagReader) set(fileName string, tags domain.Tags) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags[fileName] = tags
}

func (r *stubTagReader) ReadTags(filePath string) (domain.Tags, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failAll {
		return domain.Tags{}, fmt.Errorf("tag extraction broken")
	}
	if tags, ok := r.tags[filepath.Base(filePath)]; ok {
		return tags, nil
	}
	return domain.Tags{}, fmt.Errorf("no tags for %s", filePath)
}

var _ ports.TagReader = (*stubTagReader)(nil)

// stubAccessList is an in-memory FolderAccessList.
type stubAccessList struct {
	mu      sync.Mutex
	tokens  map[string]string
	removed []string
	nextID  int
}

func newStubAccessList() *stubAccessList {
	return &stubAccessList{tokens: make(map[string]string)}
}

func (l *stubAccessList) AddFolder(path string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	token := fmt.Sprintf("token-%d", l.nextID)
	l.tokens[token] = path
	return token, nil
}

func (l *stubAccessList) ResolveToken(token string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	path, ok := l.tokens[token]
	if !ok {
		return "", domain.ErrTokenNotFound
	}
	return path, nil
}

func (l *stubAccessList) RemoveToken(token string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.tokens, token)
	l.removed = append(l.removed, token)
}

func (l *stubAccessList) tokenCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tokens)
}

func (l *stubAccessList) removedTokens() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.removed...)
}

var _ ports.FolderAccessList = (*stubAccessList)(nil)

// stubStateStore keeps the persisted state in memory.
type stubStateStore struct {
	mu        sync.Mutex
	state     *domain.AppState
	writes    int
	failWrite bool
}

func newStubStateStore() *stubStateStore {
	return &stubStateStore{}
}

func (s *stubStateStore) Read() (*domain.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, nil
}

func (s *stubStateStore) Write(state *domain.AppState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite {
		return fmt.Errorf("disk full")
	}
	s.state = state
	s.writes++
	return nil
}

func (s *stubStateStore) writtenState() *domain.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *stubStateStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

var _ ports.StateStore = (*stubStateStore)(nil)
