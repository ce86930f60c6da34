package types

// TogglePaletteAction opens or closes the palette
type TogglePaletteAction struct{}

func (a TogglePaletteAction) Type() string { return "toggle_palette" }

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown"
}

func (a NavigateAction) Type() string { return "navigate" }

// ScrollAction scrolls an HTML result
type ScrollAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "top", "bottom"
}

func (a ScrollAction) Type() string { return "scroll" }

// QuickSelectAction selects the entry at a position directly
type QuickSelectAction struct {
	Position int // zero-based
}

func (a QuickSelectAction) Type() string { return "quick_select" }

// EnterAction selects the focused entry or submits the pending action
type EnterAction struct{}

func (a EnterAction) Type() string { return "enter" }

// OpenPagerAction shows the current HTML result in a full screen pager
type OpenPagerAction struct{}

func (a OpenPagerAction) Type() string { return "open_pager" }

// BackAction pops one level or closes the palette
type BackAction struct{}

func (a BackAction) Type() string { return "back" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

// ConfirmAction answers a warn confirmation
type ConfirmAction struct {
	Yes bool
}

func (a ConfirmAction) Type() string { return "confirm" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
