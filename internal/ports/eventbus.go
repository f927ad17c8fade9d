package ports

import (
	"github.com/Bloomca/Discosaur/internal/domain"
)

// EventBus decouples the services that mutate domain state from the layers
// that react to it (UI, persistence, logging). Services publish after every
// structural change; subscribers never learn who published.
//
// Implementations must be thread-safe: events may be published and handlers
// registered from multiple goroutines.
type EventBus interface {
	// Publish delivers an event to all subscribers of its type. Handlers
	// should return quickly; a synchronous bus blocks the publisher until
	// every handler has run.
	Publish(event domain.Event)

	// Subscribe registers a handler for events of the given type and
	// returns an id for Unsubscribe. The same handler may be registered
	// multiple times.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a subscription. Unknown ids are a no-op.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler that receives every event. Useful
	// for logging and for the save-on-any-change wiring.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// Close shuts the bus down and drops all subscriptions.
	Close() error
}
