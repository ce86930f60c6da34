package modes

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"cmdpal/internal/ui/input/keys"
	"cmdpal/internal/ui/input/types"
)

// HTMLMode scrolls an HTML result shown in the palette
type HTMLMode struct {
	keys *keys.KeyMap
}

func NewHTMLMode(km *keys.KeyMap) *HTMLMode {
	return &HTMLMode{keys: km}
}

func (m *HTMLMode) Name() string {
	return "html"
}

func (m *HTMLMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *HTMLMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *HTMLMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return []types.Action{types.QuitAction{Force: true}}, true
	case key.Matches(msg, m.keys.Toggle):
		return []types.Action{types.TogglePaletteAction{}}, true
	case key.Matches(msg, m.keys.Back):
		return []types.Action{types.BackAction{}}, true
	case key.Matches(msg, m.keys.Pager):
		return []types.Action{types.OpenPagerAction{}}, true
	case key.Matches(msg, m.keys.Up):
		return []types.Action{types.ScrollAction{Direction: "up"}}, true
	case key.Matches(msg, m.keys.Down):
		return []types.Action{types.ScrollAction{Direction: "down"}}, true
	case key.Matches(msg, m.keys.PageUp):
		return []types.Action{types.ScrollAction{Direction: "pageup"}}, true
	case key.Matches(msg, m.keys.PageDown):
		return []types.Action{types.ScrollAction{Direction: "pagedown"}}, true
	}

	switch msg.String() {
	case "g", "home":
		return []types.Action{types.ScrollAction{Direction: "top"}}, true
	case "G", "end":
		return []types.Action{types.ScrollAction{Direction: "bottom"}}, true
	}
	return nil, true
}
