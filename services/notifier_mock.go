package services

import (
	"sync"
)

// PublishedEvent is one event captured by the mock notifier
type PublishedEvent struct {
	Event   string
	Payload map[string]interface{}
}

// MockNotifier implements Notifier for testing by recording every
// published event instead of sending it anywhere
type MockNotifier struct {
	mu     sync.Mutex
	events []PublishedEvent

	// PublishError, when set, is returned from Publish to simulate a
	// broadcast failure
	PublishError error
}

// NewMockNotifier creates a new mock notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Publish records the event
func (m *MockNotifier) Publish(event string, payload map[string]interface{}) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{Event: event, Payload: payload})
	return nil
}

// Events returns a copy of all recorded events
func (m *MockNotifier) Events() []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PublishedEvent, len(m.events))
	copy(out, m.events)
	return out
}

// EventsNamed returns the recorded events with the given name
func (m *MockNotifier) EventsNamed(name string) []PublishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []PublishedEvent
	for _, e := range m.events {
		if e.Event == name {
			out = append(out, e)
		}
	}
	return out
}

// Reset clears all recorded events
func (m *MockNotifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
