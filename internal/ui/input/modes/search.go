package modes

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"cmdpal/internal/ui/input/keys"
	"cmdpal/internal/ui/input/types"
)

// SearchMode edits the palette input. Navigation and control keys are
// consumed here; everything else goes to the text field.
type SearchMode struct {
	QueryInput
	keys *keys.KeyMap
}

func NewSearchMode(ti *textinput.Model, km *keys.KeyMap) *SearchMode {
	return &SearchMode{
		QueryInput: NewQueryInput(types.ModeSearch, "search", ti, km),
		keys:       km,
	}
}

func (m *SearchMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if pos, ok := m.keys.QuickSelectPosition(msg); ok {
		if pos >= ctx.EntryCount() {
			return nil, true
		}
		return []types.Action{types.QuickSelectAction{Position: pos}}, true
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		return []types.Action{types.TogglePaletteAction{}}, true
	case key.Matches(msg, m.keys.Up):
		return []types.Action{types.NavigateAction{Direction: "up"}}, true
	case key.Matches(msg, m.keys.Down):
		return []types.Action{types.NavigateAction{Direction: "down"}}, true
	case key.Matches(msg, m.keys.PageUp):
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true
	case key.Matches(msg, m.keys.PageDown):
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true
	}
	return m.QueryInput.HandleKey(msg, ctx)
}
