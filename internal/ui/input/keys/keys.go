package keys

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"cmdpal/internal/listing"
)

// KeyMap holds the palette key bindings
type KeyMap struct {
	Toggle      key.Binding
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Enter       key.Binding
	Back        key.Binding
	ClearQuery  key.Binding
	QuickSelect key.Binding
	Pager       key.Binding
	Help        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding

	modifier string
}

// NewKeyMap builds the bindings for a toggle key and a quick select modifier ("alt" or "ctrl")
func NewKeyMap(toggle, modifier string) *KeyMap {
	if toggle == "" {
		toggle = "ctrl+p"
	}
	if modifier == "" {
		modifier = "alt"
	}

	quick := make([]string, 0, listing.QuickSelectSlots)
	for i := 1; i <= listing.QuickSelectSlots; i++ {
		quick = append(quick, fmt.Sprintf("%s+%d", modifier, i))
	}

	return &KeyMap{
		Toggle:      key.NewBinding(key.WithKeys(toggle), key.WithHelp(toggle, "palette")),
		Up:          key.NewBinding(key.WithKeys("up", "ctrl+k"), key.WithHelp("↑", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "ctrl+j"), key.WithHelp("↓", "down")),
		PageUp:      key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		ClearQuery:  key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "clear")),
		QuickSelect: key.NewBinding(key.WithKeys(quick...), key.WithHelp(modifier+"+1-9", "quick select")),
		Pager:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in pager")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c")),
		modifier:    modifier,
	}
}

// QuickSelectPosition returns the zero-based position a quick select key refers to
func (k *KeyMap) QuickSelectPosition(msg tea.KeyMsg) (int, bool) {
	if !key.Matches(msg, k.QuickSelect) {
		return 0, false
	}
	digit := strings.TrimPrefix(msg.String(), k.modifier+"+")
	n, err := strconv.Atoi(digit)
	if err != nil || n < 1 || n > listing.QuickSelectSlots {
		return 0, false
	}
	return n - 1, true
}

// ShortHelp implements help.KeyMap
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Back, k.Up, k.Down, k.QuickSelect, k.Toggle}
}

// FullHelp implements help.KeyMap
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.ClearQuery},
		{k.Enter, k.Back, k.QuickSelect, k.Pager},
		{k.Toggle, k.Help, k.Quit},
	}
}

// WorkspaceHelp lists the bindings active while the palette is closed
func (k *KeyMap) WorkspaceHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Help, k.Quit}
}
