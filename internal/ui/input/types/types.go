package types

import tea "github.com/charmbracelet/bubbletea"

// Mode represents an input mode
type Mode int

const (
	// ModeNormal is active while the palette is closed
	ModeNormal Mode = iota
	// ModeSearch edits the palette input while browsing or answering an action
	ModeSearch
	// ModeHTML scrolls an HTML result
	ModeHTML
	// ModeConfirm waits for a yes/no answer to a warn command
	ModeConfirm
)

// Action represents a command the model should execute
type Action interface {
	Type() string
}

// Context provides read-only access to palette state needed for input handling
type Context interface {
	PaletteOpen() bool
	Depth() int
	HasPendingAction() bool
	EntryCount() int
	FocusIndex() int
}

// ModeHandler handles input for a specific mode
type ModeHandler interface {
	// HandleKey processes a key message and returns actions and whether to consume the event
	HandleKey(msg tea.KeyMsg, ctx Context) ([]Action, bool)

	// Enter is called when entering this mode
	Enter(ctx Context) []Action

	// Exit is called when leaving this mode
	Exit(ctx Context) []Action

	// Name returns the mode name for display
	Name() string
}
