package palette

import (
	"cmdpal/internal/domain"
	"cmdpal/internal/transport"
)

// Outcome is the single state change a trigger response resolves to.
// Implementations are listed in priority order.
type Outcome interface {
	Name() string
}

// ShowHTML pushes a frame and shows an HTML fragment in place of the list
type ShowHTML struct {
	Title string
	Body  string
	Head  string
	Foot  string
}

// Restore leaves the state untouched and redisplays the current list
type Restore struct{}

// Suppressed drops an element search result that would not change the display
type Suppressed struct{}

// MergeSearch appends element search results after the active commands
type MergeSearch struct {
	Results domain.CommandSet
}

// ReplaceSet swaps the active commands in place for a realtime action
type ReplaceSet struct {
	Commands domain.CommandSet
}

// PushAction pushes a frame and waits for the action's input
type PushAction struct {
	Action domain.Action
}

// PushSet pushes a frame and shows a nested command set
type PushSet struct {
	Commands domain.CommandSet
}

// DeleteFocused removes the focused command from the active set
type DeleteFocused struct{}

// Terminal finishes the command and closes the palette
type Terminal struct {
	Success bool
}

// Rejected is a success:false response; only its message is used
type Rejected struct{}

func (ShowHTML) Name() string      { return "html" }
func (Restore) Name() string       { return "restore" }
func (Suppressed) Name() string    { return "suppressed" }
func (MergeSearch) Name() string   { return "merge_search" }
func (ReplaceSet) Name() string    { return "replace_set" }
func (PushAction) Name() string    { return "push_action" }
func (PushSet) Name() string       { return "push_set" }
func (DeleteFocused) Name() string { return "delete" }
func (Terminal) Name() string      { return "terminal" }
func (Rejected) Name() string      { return "rejected" }

// Classify resolves a response to exactly one outcome. shownResults is the
// number of element search results currently merged into the active set.
func Classify(kind RequestKind, env *transport.Envelope, shownResults int) Outcome {
	if env.Malformed {
		return Terminal{}
	}
	if !env.Success {
		return Rejected{}
	}

	if env.IsHTML {
		if env.Kind != transport.ResultHTML || env.ResultEmpty() {
			return Restore{}
		}
		return ShowHTML{Title: env.Title, Body: env.HTML, Head: env.HeadHTML, Foot: env.FootHTML}
	}

	if kind == RequestElementSearch && env.IsNewSet {
		if len(env.Commands) == shownResults {
			return Suppressed{}
		}
		return MergeSearch{Results: env.Commands}
	}

	if kind == RequestRealtime && env.IsNewSet {
		return ReplaceSet{Commands: env.Commands}
	}

	if env.Action != nil {
		return PushAction{Action: domain.Action{
			PromptLabel:       env.Action.Tabs,
			InitialSearchText: env.Action.SearchText,
			Callback:          env.Action.Call,
			Service:           env.Action.Service,
			Vars:              env.Action.Vars,
			Async:             env.Action.Async,
			Realtime:          env.Action.Realtime,
		}}
	}

	if env.IsNewSet {
		if len(env.Commands) == 0 {
			return Restore{}
		}
		return PushSet{Commands: env.Commands}
	}

	if env.DeleteCommand {
		return DeleteFocused{}
	}

	return Terminal{Success: !env.ResultEmpty()}
}
