// Package eventbus provides a synchronous implementation of the EventBus
// port. Handlers run on the publisher's goroutine in subscription order.
package eventbus

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Bloomca/Discosaur/internal/domain"
	"github.com/Bloomca/Discosaur/internal/ports"
)

// SyncBus delivers events synchronously. Slow handlers block publishing, so
// handlers must either finish quickly or hand off to their own goroutine.
//
// Publishing and subscribing are safe from multiple goroutines. A handler
// panic is recovered and logged; remaining handlers still run.
type SyncBus struct {
	logger *slog.Logger

	mu          sync.RWMutex
	subscribers map[domain.EventType][]subscription
	wildcard    []subscription
	closed      bool

	idCounter uint64
}

type subscription struct {
	id      domain.SubscriptionID
	handler domain.EventHandler
}

// NewSyncBus creates a new synchronous event bus.
func NewSyncBus(logger *slog.Logger) *SyncBus {
	return &SyncBus{
		logger:      logger,
		subscribers: make(map[domain.EventType][]subscription),
	}
}

// Publish delivers the event to type subscribers first, then wildcard
// subscribers. Does nothing on a closed bus or a nil event.
func (b *SyncBus) Publish(event domain.Event) {
	if event == nil {
		return
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	// Copy under the lock so handlers can subscribe/unsubscribe freely.
	targets := make([]subscription, 0, len(b.subscribers[event.Type()])+len(b.wildcard))
	targets = append(targets, b.subscribers[event.Type()]...)
	targets = append(targets, b.wildcard...)
	b.mu.RUnlock()

	for _, sub := range targets {
		b.deliver(sub.handler, event)
	}
}

func (b *SyncBus) deliver(handler domain.EventHandler, event domain.Event) {
	defer func() {
		if r := recover(); r != nil && b.logger != nil {
			b.logger.Error("event handler panicked",
				slog.Any("panic", r),
				slog.String("event_type", string(event.Type())))
		}
	}()
	handler(event)
}

// Subscribe registers a handler for one event type.
func (b *SyncBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID("sub")
	b.subscribers[eventType] = append(b.subscribers[eventType], subscription{id: id, handler: handler})
	return id
}

// SubscribeAll registers a handler for every event type.
func (b *SyncBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	if handler == nil {
		panic("event handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID("sub-all")
	b.wildcard = append(b.wildcard, subscription{id: id, handler: handler})
	return id
}

// Unsubscribe removes a subscription by id. Unknown ids are a no-op.
func (b *SyncBus) Unsubscribe(id domain.SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscribers {
		if filtered, found := without(subs, id); found {
			b.subscribers[eventType] = filtered
			return
		}
	}
	if filtered, found := without(b.wildcard, id); found {
		b.wildcard = filtered
	}
}

// Close drops all subscriptions. Publishing after Close is a no-op.
func (b *SyncBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("event bus already closed")
	}
	b.closed = true
	b.subscribers = make(map[domain.EventType][]subscription)
	b.wildcard = nil
	return nil
}

// SubscriberCount reports the number of active subscriptions, for tests and
// debugging.
func (b *SyncBus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := len(b.wildcard)
	for _, subs := range b.subscribers {
		count += len(subs)
	}
	return count
}

func (b *SyncBus) nextID(prefix string) domain.SubscriptionID {
	return domain.SubscriptionID(fmt.Sprintf("%s-%d", prefix, atomic.AddUint64(&b.idCounter, 1)))
}

func without(subs []subscription, id domain.SubscriptionID) ([]subscription, bool) {
	for i, sub := range subs {
		if sub.id == id {
			return append(subs[:i], subs[i+1:]...), true
		}
	}
	return subs, false
}

// Verify that SyncBus implements the EventBus port.
var _ ports.EventBus = (*SyncBus)(nil)
