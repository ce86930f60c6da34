package ui

import (
	"cmdpal/internal/eventbus"
	"cmdpal/internal/transport"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// triggerResultMsg carries the outcome of a trigger request back to the event loop
type triggerResultMsg struct {
	id  uint64
	env *transport.Envelope
	err error
}

// debounceMsg fires when typing has been idle for the debounce interval.
// Only the message matching the latest keystroke sequence is acted on.
type debounceMsg struct {
	seq int
}

// clearStatusMsg clears the status line if it still shows message id
type clearStatusMsg struct {
	id int
}
