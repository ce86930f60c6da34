package input

import "cmdpal/internal/palette"

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	Palette *palette.State
}

// PaletteOpen returns true while the palette is visible
func (c *ModelContext) PaletteOpen() bool {
	return c.Palette.IsOpen()
}

// Depth returns the navigation stack depth
func (c *ModelContext) Depth() int {
	return c.Palette.Depth()
}

// HasPendingAction returns true while an action waits for input
func (c *ModelContext) HasPendingAction() bool {
	_, ok := c.Palette.Action()
	return ok
}

// EntryCount returns the number of displayed entries
func (c *ModelContext) EntryCount() int {
	return c.Palette.List().Len()
}

// FocusIndex returns the focused position
func (c *ModelContext) FocusIndex() int {
	return c.Palette.List().FocusIndex()
}
