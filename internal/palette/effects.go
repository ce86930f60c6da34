package palette

import "cmdpal/internal/domain"

// Effect is a side effect the host must carry out after a state transition
type Effect interface {
	Type() string
}

// IssueEffect asks the host to perform a trigger request
type IssueEffect struct {
	Request *Request
}

func (e IssueEffect) Type() string { return "issue" }

// NotifyEffect shows a transient notification
type NotifyEffect struct {
	Message string
	Success bool
}

func (e NotifyEffect) Type() string { return "notify" }

// NavigateEffect opens a url
type NavigateEffect struct {
	URL       string
	NewWindow bool
}

func (e NavigateEffect) Type() string { return "navigate" }

// ConfirmEffect asks the user to confirm a warn command
type ConfirmEffect struct {
	Command domain.Command
}

func (e ConfirmEffect) Type() string { return "confirm" }

// OpenedEffect reports that the palette opened
type OpenedEffect struct {
	Commands int
}

func (e OpenedEffect) Type() string { return "opened" }

// ClosedEffect reports that the palette closed from the given stack depth
type ClosedEffect struct {
	Depth int
}

func (e ClosedEffect) Type() string { return "closed" }

// CompletedEffect reports the outcome a response was resolved to
type CompletedEffect struct {
	RequestID uint64
	Command   string
	Outcome   string
}

func (e CompletedEffect) Type() string { return "completed" }

// FailedEffect reports a request that failed in transport
type FailedEffect struct {
	RequestID uint64
	Command   string
	Err       error
}

func (e FailedEffect) Type() string { return "failed" }
