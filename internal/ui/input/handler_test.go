package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdpal/internal/ui/input/keys"
	"cmdpal/internal/ui/input/types"
)

type stubContext struct {
	open    bool
	entries int
}

func (c stubContext) PaletteOpen() bool      { return c.open }
func (c stubContext) Depth() int             { return 0 }
func (c stubContext) HasPendingAction() bool { return false }
func (c stubContext) EntryCount() int        { return c.entries }
func (c stubContext) FocusIndex() int        { return 0 }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNormalModeKeys(t *testing.T) {
	h := New(keys.NewKeyMap("ctrl+p", "alt"))
	ctx := stubContext{}

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want types.Action
	}{
		{"toggle", tea.KeyMsg{Type: tea.KeyCtrlP}, types.TogglePaletteAction{}},
		{"help", runes("?"), types.ToggleHelpAction{}},
		{"quit", runes("q"), types.QuitAction{Force: false}},
		{"force quit", tea.KeyMsg{Type: tea.KeyCtrlC}, types.QuitAction{Force: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions, _ := h.HandleKey(tt.msg, ctx)
			require.Len(t, actions, 1)
			assert.Equal(t, tt.want, actions[0])
		})
	}

	actions, _ := h.HandleKey(runes("x"), ctx)
	assert.Empty(t, actions, "unbound keys do nothing while the palette is closed")
}

func TestSearchModeEditsText(t *testing.T) {
	h := New(keys.NewKeyMap("", ""))
	ctx := stubContext{open: true, entries: 3}
	h.SetMode(types.ModeSearch, ctx)

	actions, _ := h.HandleKey(runes("ab"), ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.UpdateTextAction{Text: "ab"}, actions[0])

	// q is text here, not quit
	actions, _ = h.HandleKey(runes("q"), ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.UpdateTextAction{Text: "abq"}, actions[0])
}

func TestSearchModeNavigationAndControlKeys(t *testing.T) {
	h := New(keys.NewKeyMap("ctrl+p", "alt"))
	ctx := stubContext{open: true, entries: 3}
	h.SetMode(types.ModeSearch, ctx)

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want types.Action
	}{
		{"up", tea.KeyMsg{Type: tea.KeyUp}, types.NavigateAction{Direction: "up"}},
		{"ctrl+j", tea.KeyMsg{Type: tea.KeyCtrlJ}, types.NavigateAction{Direction: "down"}},
		{"page down", tea.KeyMsg{Type: tea.KeyPgDown}, types.NavigateAction{Direction: "pagedown"}},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, types.EnterAction{}},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, types.BackAction{}},
		{"toggle", tea.KeyMsg{Type: tea.KeyCtrlP}, types.TogglePaletteAction{}},
		{"quick select", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2"), Alt: true}, types.QuickSelectAction{Position: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions, _ := h.HandleKey(tt.msg, ctx)
			require.Len(t, actions, 1)
			assert.Equal(t, tt.want, actions[0])
		})
	}
}

func TestQuickSelectBeyondEntriesIsIgnored(t *testing.T) {
	h := New(keys.NewKeyMap("ctrl+p", "alt"))
	ctx := stubContext{open: true, entries: 2}
	h.SetMode(types.ModeSearch, ctx)

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("5"), Alt: true}, ctx)
	assert.Empty(t, actions)
	assert.Empty(t, h.TextInput().Value())
}

func TestQuickSelectModifierIsConfigurable(t *testing.T) {
	km := keys.NewKeyMap("ctrl+p", "ctrl")
	assert.Equal(t, []string{"ctrl+1", "ctrl+2", "ctrl+3", "ctrl+4", "ctrl+5", "ctrl+6", "ctrl+7", "ctrl+8", "ctrl+9"}, km.QuickSelect.Keys())

	_, ok := km.QuickSelectPosition(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1"), Alt: true})
	assert.False(t, ok)
}

func TestConfirmModeAnswers(t *testing.T) {
	h := New(keys.NewKeyMap("", ""))
	ctx := stubContext{open: true}
	h.SetMode(types.ModeConfirm, ctx)

	actions, _ := h.HandleKey(runes("y"), ctx)
	assert.Equal(t, []types.Action{types.ConfirmAction{Yes: true}}, actions)

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	assert.Equal(t, []types.Action{types.ConfirmAction{Yes: false}}, actions)

	actions, _ = h.HandleKey(runes("x"), ctx)
	assert.Empty(t, actions)
	assert.Empty(t, h.TextInput().Value(), "confirm mode does not edit the input")
}

func TestHTMLModeScrolls(t *testing.T) {
	h := New(keys.NewKeyMap("", ""))
	ctx := stubContext{open: true}
	h.SetMode(types.ModeHTML, ctx)
	assert.Equal(t, "html", h.CurrentModeName())

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyDown}, ctx)
	assert.Equal(t, []types.Action{types.ScrollAction{Direction: "down"}}, actions)

	actions, _ = h.HandleKey(runes("o"), ctx)
	assert.Equal(t, []types.Action{types.OpenPagerAction{}}, actions)

	actions, _ = h.HandleKey(runes("G"), ctx)
	assert.Equal(t, []types.Action{types.ScrollAction{Direction: "bottom"}}, actions)

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	assert.Equal(t, []types.Action{types.BackAction{}}, actions)
}

func TestSetTextKeepsCursorAtEnd(t *testing.T) {
	h := New(keys.NewKeyMap("", ""))
	ctx := stubContext{open: true}
	h.SetMode(types.ModeSearch, ctx)

	h.SetText("hello")
	assert.Equal(t, "hello", h.TextInput().Value())
	assert.Equal(t, 5, h.TextInput().Position())
}

func TestClearQueryEmptiesTheInput(t *testing.T) {
	h := New(keys.NewKeyMap("", ""))
	ctx := stubContext{open: true, entries: 3}
	h.SetMode(types.ModeSearch, ctx)
	h.SetText("sett")

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlU}, ctx)
	assert.Equal(t, []types.Action{types.UpdateTextAction{Text: ""}}, actions)
	assert.Empty(t, h.TextInput().Value())

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlU}, ctx)
	assert.Empty(t, actions, "clearing an empty query does nothing")
}
