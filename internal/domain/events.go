package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventPaletteOpened    EventType = "PaletteOpened"
	EventPaletteClosed    EventType = "PaletteClosed"
	EventCommandTriggered EventType = "CommandTriggered"
	EventCommandCompleted EventType = "CommandCompleted"
	EventCommandFailed    EventType = "CommandFailed"
	EventNotification     EventType = "Notification"
	EventRedirect         EventType = "Redirect"
	EventError            EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// PaletteOpenedEvent is emitted when the palette overlay opens
type PaletteOpenedEvent struct {
	Commands int
}

func (e PaletteOpenedEvent) Type() EventType { return EventPaletteOpened }

// PaletteClosedEvent is emitted when the palette closes
type PaletteClosedEvent struct {
	Depth int // stack depth collapsed on close
}

func (e PaletteClosedEvent) Type() EventType { return EventPaletteClosed }

// CommandTriggeredEvent is emitted when a trigger request is issued
type CommandTriggeredEvent struct {
	RequestID uint64
	Command   string
	Service   string
	Kind      string
}

func (e CommandTriggeredEvent) Type() EventType { return EventCommandTriggered }

// CommandCompletedEvent is emitted when a trigger response has been applied
type CommandCompletedEvent struct {
	RequestID uint64
	Command   string
	Outcome   string
}

func (e CommandCompletedEvent) Type() EventType { return EventCommandCompleted }

// CommandFailedEvent is emitted when a trigger request fails in transport
type CommandFailedEvent struct {
	RequestID uint64
	Command   string
	Err       error
}

func (e CommandFailedEvent) Type() EventType { return EventCommandFailed }

// NotificationEvent carries a user-facing message
type NotificationEvent struct {
	Message string
	Success bool
}

func (e NotificationEvent) Type() EventType { return EventNotification }

// RedirectEvent asks the host to navigate somewhere
type RedirectEvent struct {
	URL       string
	NewWindow bool
}

func (e RedirectEvent) Type() EventType { return EventRedirect }

// ErrorEvent is emitted when an error occurs outside a trigger request
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
