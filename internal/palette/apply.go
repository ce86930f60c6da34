package palette

import (
	"context"
	"errors"
	"log"

	"cmdpal/internal/matcher"
	"cmdpal/internal/transport"
)

const (
	defaultSuccessMessage = "Done"
	defaultFailureMessage = "The command could not be completed"
)

// Apply resolves the response of request id. Responses of cancelled or
// superseded requests produce no state change.
func (s *State) Apply(id uint64, env *transport.Envelope) []Effect {
	req, ok := s.settle(id)
	if !ok {
		return nil
	}

	outcome := Classify(req.Kind, env, s.shownResults())
	log.Printf("palette: request %d resolved to %s", req.ID, outcome.Name())

	effects := []Effect{CompletedEffect{RequestID: req.ID, Command: req.Wire.Command, Outcome: outcome.Name()}}
	effects = append(effects, s.applyOutcome(req, outcome)...)

	switch outcome.(type) {
	case Rejected:
		msg := env.Message
		if msg == "" {
			msg = defaultFailureMessage
		}
		effects = append(effects, NotifyEffect{Message: msg, Success: false})
	case Terminal:
		success := !env.ResultEmpty()
		msg := env.Message
		if msg == "" {
			msg = defaultSuccessMessage
			if !success {
				msg = defaultFailureMessage
			}
		}
		effects = append(effects, NotifyEffect{Message: msg, Success: success})
	default:
		if env.Message != "" {
			effects = append(effects, NotifyEffect{Message: env.Message, Success: !env.ResultEmpty()})
		}
	}

	if _, rejected := outcome.(Rejected); !rejected && env.Redirect != nil {
		effects = append(effects, NavigateEffect{URL: env.Redirect.URL, NewWindow: env.Redirect.NewWindow})
	}
	return effects
}

// Fail resolves request id with a transport error. The navigation stack is
// left untouched and the list is shown again.
func (s *State) Fail(id uint64, err error) []Effect {
	req, ok := s.settle(id)
	if !ok {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}

	log.Printf("palette: request %d (%s) failed: %v", req.ID, req.Kind, err)
	effects := []Effect{FailedEffect{RequestID: req.ID, Command: req.Wire.Command, Err: err}}
	if req.Kind == RequestElementSearch {
		return effects
	}

	s.refresh()
	return append(effects, NotifyEffect{Message: defaultFailureMessage, Success: false})
}

func (s *State) applyOutcome(req *Request, outcome Outcome) []Effect {
	switch o := outcome.(type) {
	case ShowHTML:
		s.push(req.Label)
		s.action = nil
		s.html = &HTMLContent{Title: o.Title, Body: o.Body, Head: o.Head, Foot: o.Foot}
		if s.opts.HTMLWidth > s.width {
			s.width = s.opts.HTMLWidth
		}
		s.mode = ModeShowingHTML
		s.list.Clear()

	case Restore, Rejected:
		s.refresh()

	case Suppressed:

	case MergeSearch:
		results := matcher.EchoQuery(o.Results, req.Query)
		for i := range results {
			results[i].SearchResult = true
		}
		merged := withoutSearchResults(s.commands)
		merged = append(merged, results...)
		s.setCommands(merged)
		s.refresh()

	case ReplaceSet:
		s.setCommands(o.Commands)
		s.refresh()

	case PushAction:
		label := o.Action.PromptLabel
		if label == "" {
			label = req.Label
		}
		s.push(label)
		action := o.Action
		s.action = &action
		s.setCommands(nil)
		s.searchText = action.InitialSearchText
		s.mode = ModeActionPending
		s.refresh()

	case PushSet:
		s.push(req.Label)
		s.action = nil
		s.setCommands(o.Commands)
		s.searchText = ""
		s.mode = ModeBrowsing
		s.refresh()

	case DeleteFocused:
		if i := s.targetIndex(req); i >= 0 {
			s.setCommands(s.commands.RemoveAt(i))
		}
		if len(s.commands) == 0 {
			effects := []Effect{NotifyEffect{Message: s.opts.EmptyMessage, Success: true}}
			return append(effects, s.Close()...)
		}
		s.refresh()

	case Terminal:
		return s.Close()
	}
	return nil
}

// targetIndex locates the command that issued req in the current set. The
// recorded index is checked against the command name since search results
// may have been dropped while the request was in flight.
func (s *State) targetIndex(req *Request) int {
	if req.Target >= 0 && req.Target < len(s.commands) && s.commands[req.Target].Name == req.target {
		return req.Target
	}
	if req.Target < 0 {
		return -1
	}
	for i, cmd := range s.commands {
		if cmd.Name == req.target {
			return i
		}
	}
	return -1
}
