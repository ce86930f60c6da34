package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"cmdpal/internal/ui/input/types"
)

// ConfirmMode asks for a yes/no answer before running a warn command
type ConfirmMode struct{}

func NewConfirmMode() *ConfirmMode {
	return &ConfirmMode{}
}

func (m *ConfirmMode) Name() string {
	return "confirm"
}

func (m *ConfirmMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "y", "Y", "enter":
		return []types.Action{types.ConfirmAction{Yes: true}}, true
	case "n", "N", "esc":
		return []types.Action{types.ConfirmAction{Yes: false}}, true
	}

	// Swallow everything else while the question is open
	return nil, true
}
