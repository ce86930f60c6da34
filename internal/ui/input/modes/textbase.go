package modes

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"cmdpal/internal/ui/input/keys"
	"cmdpal/internal/ui/input/types"
)

// QueryInput is the shared part of modes that type into the palette query.
// The query text lives in the palette, so entering the mode only moves the
// cursor and never resets the field.
type QueryInput struct {
	mode  types.Mode
	name  string
	input *textinput.Model
	keys  *keys.KeyMap
}

func NewQueryInput(mode types.Mode, name string, ti *textinput.Model, km *keys.KeyMap) QueryInput {
	return QueryInput{mode: mode, name: name, input: ti, keys: km}
}

func (q QueryInput) Name() string {
	return q.name
}

func (q QueryInput) Enter(ctx types.Context) []types.Action {
	if q.input == nil {
		return nil
	}
	q.input.Focus()
	q.input.CursorEnd()
	return nil
}

func (q QueryInput) Exit(ctx types.Context) []types.Action {
	if q.input != nil {
		q.input.Blur()
	}
	return nil
}

// HandleKey consumes run, back and clear; any other key edits the query
func (q QueryInput) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch {
	case key.Matches(msg, q.keys.ForceQuit):
		return []types.Action{types.QuitAction{Force: true}}, true
	case key.Matches(msg, q.keys.Back):
		return []types.Action{types.BackAction{}}, true
	case key.Matches(msg, q.keys.Enter):
		return []types.Action{types.EnterAction{}}, true
	case key.Matches(msg, q.keys.ClearQuery):
		if q.input == nil || q.input.Value() == "" {
			return nil, true
		}
		q.input.SetValue("")
		return []types.Action{types.UpdateTextAction{Text: ""}}, true
	}
	return nil, false
}
