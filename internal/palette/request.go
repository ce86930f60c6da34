package palette

import (
	"context"
	"errors"
	"log"

	"cmdpal/internal/transport"
)

var (
	// ErrBusy is returned when an ordinary request is already in flight
	ErrBusy = errors.New("a command is already running")
	// ErrClosed is returned for requests issued while the palette is closed
	ErrClosed = errors.New("palette is closed")
)

// RequestKind distinguishes the origins of a trigger request
type RequestKind int

const (
	// RequestCommand runs a selected command
	RequestCommand RequestKind = iota
	// RequestAction submits a pending action on Enter
	RequestAction
	// RequestRealtime resubmits a realtime action while typing
	RequestRealtime
	// RequestElementSearch is the live element search augmentation
	RequestElementSearch
)

func (k RequestKind) String() string {
	switch k {
	case RequestCommand:
		return "command"
	case RequestAction:
		return "action"
	case RequestRealtime:
		return "realtime"
	case RequestElementSearch:
		return "element_search"
	default:
		return "unknown"
	}
}

// ordinary requests block any other request until they resolve
func (k RequestKind) ordinary() bool {
	return k == RequestCommand || k == RequestAction
}

// Request is a trigger request issued by the palette. The caller performs it
// with Context() and reports back through State.Apply or State.Fail.
type Request struct {
	ID   uint64
	Kind RequestKind
	Wire transport.Request

	// Label names the nested level a pushed frame will show
	Label string
	// Query is the search text at the time the request was issued
	Query string

	// Target is the index in the command set of the command that issued the
	// request, or -1 for action submissions and element searches
	Target int
	target string

	ctx    context.Context
	cancel context.CancelFunc
}

// Context is cancelled when the request is superseded or the palette closes
func (r *Request) Context() context.Context {
	return r.ctx
}

// begin registers a new in-flight request. A pending ordinary request rejects
// it; a pending element search or realtime submission is cancelled instead.
func (s *State) begin(kind RequestKind, wire transport.Request, label string) (*Request, error) {
	if s.mode == ModeClosed {
		return nil, ErrClosed
	}
	if s.inflight != nil {
		if s.inflight.Kind.ordinary() {
			return nil, ErrBusy
		}
		s.cancelInflight("superseded")
	}

	s.nextID++
	ctx, cancel := context.WithCancel(s.base)
	req := &Request{
		ID:     s.nextID,
		Kind:   kind,
		Wire:   wire,
		Label:  label,
		Query:  s.searchText,
		Target: -1,
		ctx:    ctx,
		cancel: cancel,
	}
	s.inflight = req
	if kind.ordinary() {
		s.loading = true
	}
	log.Printf("palette: request %d (%s) command=%s", req.ID, kind, wire.Command)
	return req, nil
}

// settle clears the in-flight request if id matches it. Completions of
// cancelled or superseded requests report false and must be ignored.
func (s *State) settle(id uint64) (*Request, bool) {
	if s.inflight == nil || s.inflight.ID != id {
		log.Printf("palette: ignoring stale response for request %d", id)
		return nil, false
	}
	req := s.inflight
	s.inflight = nil
	s.loading = false
	req.cancel()
	return req, true
}

func (s *State) cancelInflight(reason string) {
	if s.inflight == nil {
		return
	}
	log.Printf("palette: cancelling request %d (%s): %s", s.inflight.ID, s.inflight.Kind, reason)
	s.inflight.cancel()
	s.inflight = nil
	s.loading = false
}
