package service

// EventType labels a config lifecycle event.
type EventType string

const (
	EventConfigCreated    EventType = "config_created"
	EventConfigUpdated    EventType = "config_updated"
	EventConfigActivated  EventType = "config_activated"
	EventConfigDuplicated EventType = "config_duplicated"
	EventConfigDeleted    EventType = "config_deleted"
	EventConfigImported   EventType = "config_imported"
)

// Event is published after a config mutation commits, so UI sessions
// can reload the active aggregate.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// EventBus fans events out to subscribers.
type EventBus struct {
	subscribers []chan<- Event
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber channel. Not safe to call concurrently
// with Publish; wire subscribers up front.
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers. Slow subscribers are
// skipped rather than blocking the mutation path.
func (eb *EventBus) Publish(event Event) {
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
