package palette

import (
	"context"
	"log"
	"strings"

	"cmdpal/internal/domain"
	"cmdpal/internal/listing"
	"cmdpal/internal/matcher"
	"cmdpal/internal/transport"
)

// Mode is the top level state of the palette
type Mode int

const (
	ModeClosed Mode = iota
	ModeBrowsing
	ModeActionPending
	ModeShowingHTML
)

func (m Mode) String() string {
	switch m {
	case ModeClosed:
		return "closed"
	case ModeBrowsing:
		return "browsing"
	case ModeActionPending:
		return "action"
	case ModeShowingHTML:
		return "html"
	default:
		return "unknown"
	}
}

// Options configures a State
type Options struct {
	// Width and HTMLWidth are the palette widths in columns
	Width     int
	HTMLWidth int
	// MaxVisible is the list viewport height in rows
	MaxVisible int

	ElementSearch  bool
	ElementCommand string
	ElementService string

	// EmptyMessage is shown when deleting the last command of a set
	EmptyMessage string

	Matcher matcher.Options
}

// DefaultOptions returns the options used when no configuration is given
func DefaultOptions() Options {
	return Options{
		Width:          64,
		HTMLWidth:      100,
		MaxVisible:     10,
		ElementSearch:  true,
		ElementCommand: "searchDirectly",
		ElementService: "search",
		EmptyMessage:   "No commands left",
		Matcher:        matcher.DefaultOptions(),
	}
}

// HTMLContent is the fragment shown while in ModeShowingHTML
type HTMLContent struct {
	Title string
	Body  string
	Head  string
	Foot  string
}

// State is the palette state machine. It is not safe for concurrent use;
// every method is expected to run on the UI event loop.
type State struct {
	opts    Options
	base    context.Context
	matcher *matcher.Matcher
	list    *listing.List

	mode       Mode
	loading    bool
	commands   domain.CommandSet
	generation uint64
	stack      []domain.Frame
	action     *domain.Action
	searchText string
	width      int
	html       *HTMLContent
	confirming *domain.Command
	confirmAt  int

	inflight *Request
	nextID   uint64
}

// New creates a closed palette over the root command set
func New(root domain.CommandSet, opts Options) *State {
	if opts.Width <= 0 {
		opts.Width = DefaultOptions().Width
	}
	if opts.HTMLWidth < opts.Width {
		opts.HTMLWidth = opts.Width
	}
	s := &State{
		opts:    opts,
		base:    context.Background(),
		matcher: matcher.New(opts.Matcher),
		list:    listing.New(opts.MaxVisible),
		width:   opts.Width,
	}
	s.setCommands(root)
	return s
}

// Mode returns the current mode
func (s *State) Mode() Mode { return s.mode }

// IsOpen reports whether the palette is visible
func (s *State) IsOpen() bool { return s.mode != ModeClosed }

// Loading reports whether an ordinary request is in flight
func (s *State) Loading() bool { return s.loading }

// Depth returns the navigation stack depth
func (s *State) Depth() int { return len(s.stack) }

// Stack returns a copy of the navigation stack, root first
func (s *State) Stack() []domain.Frame {
	out := make([]domain.Frame, len(s.stack))
	copy(out, s.stack)
	return out
}

// Label is the label of the current nested level, empty at the root
func (s *State) Label() string {
	if len(s.stack) == 0 {
		return ""
	}
	return s.stack[len(s.stack)-1].Label
}

// SearchText returns the current input text
func (s *State) SearchText() string { return s.searchText }

// Commands returns the active command set
func (s *State) Commands() domain.CommandSet { return s.commands }

// Action returns the pending action
func (s *State) Action() (domain.Action, bool) {
	if s.action == nil {
		return domain.Action{}, false
	}
	return *s.action, true
}

// Width returns the current palette width
func (s *State) Width() int { return s.width }

// HTML returns the fragment shown in ModeShowingHTML
func (s *State) HTML() (HTMLContent, bool) {
	if s.html == nil {
		return HTMLContent{}, false
	}
	return *s.html, true
}

// List returns the display list
func (s *State) List() *listing.List { return s.list }

// Pending returns the in-flight request, if any
func (s *State) Pending() *Request { return s.inflight }

// Confirming returns the warn command awaiting confirmation
func (s *State) Confirming() (domain.Command, bool) {
	if s.confirming == nil {
		return domain.Command{}, false
	}
	return *s.confirming, true
}

// ElementSearchActive reports whether typing should schedule element searches.
// It is only active at the root level.
func (s *State) ElementSearchActive() bool {
	return s.opts.ElementSearch && s.mode == ModeBrowsing && len(s.stack) == 0
}

// SetElementSearch enables or disables the element search augmentation
func (s *State) SetElementSearch(enabled bool) {
	s.opts.ElementSearch = enabled
}

// RealtimeActive reports whether typing should resubmit the pending action
func (s *State) RealtimeActive() bool {
	return s.mode == ModeActionPending && s.action != nil && s.action.Realtime
}

// Open shows the palette with the active set unfiltered
func (s *State) Open() []Effect {
	if s.mode != ModeClosed {
		return nil
	}
	s.mode = ModeBrowsing
	s.refresh()
	log.Printf("palette: opened with %d commands", len(s.commands))
	return []Effect{OpenedEffect{Commands: len(s.commands)}}
}

// Close hides the palette, aborting in-flight work and collapsing the
// navigation stack back to the root set.
func (s *State) Close() []Effect {
	if s.mode == ModeClosed {
		return nil
	}
	depth := len(s.stack)
	s.cancelInflight("palette closed")

	if depth > 0 {
		root := s.stack[0]
		s.setCommands(root.Commands)
		s.width = root.Width
		s.stack = nil
	}
	if s.shownResults() > 0 {
		s.setCommands(withoutSearchResults(s.commands))
	}

	s.action = nil
	s.searchText = ""
	s.html = nil
	s.confirming = nil
	s.mode = ModeClosed
	s.list.Clear()

	log.Printf("palette: closed from depth %d", depth)
	return []Effect{ClosedEffect{Depth: depth}}
}

// Toggle opens a closed palette and closes an open one
func (s *State) Toggle() []Effect {
	if s.mode == ModeClosed {
		return s.Open()
	}
	return s.Close()
}

// SetSearchText updates the input text and re-runs the matcher
func (s *State) SetSearchText(text string) {
	if s.mode == ModeClosed || s.mode == ModeShowingHTML || text == s.searchText {
		return
	}
	s.searchText = text

	if strings.TrimSpace(text) == "" {
		if s.inflight != nil && s.inflight.Kind == RequestElementSearch {
			s.cancelInflight("query cleared")
		}
		if s.shownResults() > 0 {
			s.setCommands(withoutSearchResults(s.commands))
		}
	}
	s.refresh()
}

// MoveUp moves focus to the previous entry
func (s *State) MoveUp() bool {
	return s.navigable() && s.list.MoveUp()
}

// MoveDown moves focus to the next entry
func (s *State) MoveDown() bool {
	return s.navigable() && s.list.MoveDown()
}

// PageUp moves focus one viewport up
func (s *State) PageUp() bool {
	return s.navigable() && s.list.PageUp()
}

// PageDown moves focus one viewport down
func (s *State) PageDown() bool {
	return s.navigable() && s.list.PageDown()
}

// Focus moves focus to the entry at pos
func (s *State) Focus(pos int) bool {
	return s.navigable() && s.list.Focus(pos)
}

// SetHeight changes the list viewport height
func (s *State) SetHeight(rows int) {
	s.list.SetHeight(rows)
}

func (s *State) navigable() bool {
	return (s.mode == ModeBrowsing || s.mode == ModeActionPending) && !s.loading
}

// Enter selects the focused entry, or submits the pending action. A realtime
// action with a focused result selects that result instead.
func (s *State) Enter() []Effect {
	switch s.mode {
	case ModeBrowsing:
		return s.selectFocused()
	case ModeActionPending:
		if s.action != nil && s.action.Realtime {
			if _, ok := s.list.Focused(); ok {
				return s.selectFocused()
			}
		}
		return s.Submit()
	}
	return nil
}

// SelectAt focuses and selects the entry at pos, if present
func (s *State) SelectAt(pos int) []Effect {
	if !s.Focus(pos) {
		return nil
	}
	return s.selectFocused()
}

func (s *State) selectFocused() []Effect {
	if !s.navigable() {
		return nil
	}
	entry, ok := s.list.Focused()
	if !ok {
		return nil
	}
	return s.selectCommand(entry.Match.Command, entry.Match.Index)
}

// selectCommand runs cmd, the command at index in the current set
func (s *State) selectCommand(cmd domain.Command, index int) []Effect {
	if cmd.Kind() == domain.KindInfo {
		return nil
	}
	if cmd.Warn {
		c := cmd
		s.confirming = &c
		s.confirmAt = index
		return []Effect{ConfirmEffect{Command: cmd}}
	}
	return s.execute(cmd, index)
}

// Confirm resolves a pending warn confirmation. Declining is a no-op.
func (s *State) Confirm(yes bool) []Effect {
	if s.confirming == nil {
		return nil
	}
	cmd := *s.confirming
	s.confirming = nil
	if !yes {
		return nil
	}
	return s.execute(cmd, s.confirmAt)
}

func (s *State) execute(cmd domain.Command, index int) []Effect {
	switch cmd.Kind() {
	case domain.KindLink:
		effects := []Effect{NavigateEffect{URL: cmd.URL}}
		return append(effects, s.Close()...)
	case domain.KindCall:
		req, err := s.begin(RequestCommand, transport.Request{
			Command: cmd.Call,
			Service: cmd.Service,
			Vars:    cmd.Vars,
		}, cmd.Name)
		if err != nil {
			log.Printf("palette: not running %q: %v", cmd.Name, err)
			return nil
		}
		req.Target = index
		req.target = cmd.Name
		return []Effect{IssueEffect{Request: req}}
	}
	return nil
}

// Submit sends the pending action with the current input text
func (s *State) Submit() []Effect {
	return s.submit(RequestAction)
}

// SubmitRealtime resubmits a realtime action after typing goes idle
func (s *State) SubmitRealtime() []Effect {
	if !s.RealtimeActive() {
		return nil
	}
	return s.submit(RequestRealtime)
}

func (s *State) submit(kind RequestKind) []Effect {
	if s.mode != ModeActionPending || s.action == nil {
		return nil
	}
	req, err := s.begin(kind, transport.Request{
		Command: s.action.Callback,
		Service: s.action.Service,
		Vars:    s.action.SubmitVars(s.searchText),
	}, s.action.PromptLabel)
	if err != nil {
		log.Printf("palette: not submitting action %q: %v", s.action.Callback, err)
		return nil
	}
	return []Effect{IssueEffect{Request: req}}
}

// ElementSearch issues a live element search for the current query,
// superseding one that is still pending.
func (s *State) ElementSearch() []Effect {
	if !s.ElementSearchActive() {
		return nil
	}
	query := strings.TrimSpace(s.searchText)
	if query == "" {
		return nil
	}
	req, err := s.begin(RequestElementSearch, transport.Request{
		Command: s.opts.ElementCommand,
		Service: s.opts.ElementService,
		Vars:    map[string]any{"searchText": query},
	}, "")
	if err != nil {
		log.Printf("palette: skipping element search: %v", err)
		return nil
	}
	return []Effect{IssueEffect{Request: req}}
}

// Escape cancels a confirmation, pops one level, or closes at the root
func (s *State) Escape() []Effect {
	switch {
	case s.mode == ModeClosed:
		return nil
	case s.confirming != nil:
		s.confirming = nil
		return nil
	case len(s.stack) > 0:
		s.pop()
		return nil
	default:
		return s.Close()
	}
}

func (s *State) push(label string) {
	var action *domain.Action
	if s.action != nil {
		a := *s.action
		action = &a
	}
	s.stack = append(s.stack, domain.Frame{
		Label:      label,
		Commands:   s.commands,
		SearchText: s.searchText,
		Action:     action,
		Width:      s.width,
	})
	log.Printf("palette: pushed %q (depth %d)", label, len(s.stack))
}

func (s *State) pop() {
	s.cancelInflight("navigated back")

	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]

	s.setCommands(top.Commands)
	s.searchText = top.SearchText
	s.action = top.Action
	s.width = top.Width
	s.html = nil
	if s.action != nil {
		s.mode = ModeActionPending
	} else {
		s.mode = ModeBrowsing
	}
	s.refresh()
	log.Printf("palette: popped to depth %d", len(s.stack))
}

func (s *State) setCommands(set domain.CommandSet) {
	s.commands = set
	s.generation++
}

// refresh re-runs the matcher and redraws the list. A pending action is
// matched with an empty query since its input is not a filter.
func (s *State) refresh() {
	query := s.searchText
	if s.mode == ModeActionPending {
		query = ""
	}
	s.list.Render(s.matcher.Match(s.generation, query, s.commands))
}

func (s *State) shownResults() int {
	n := 0
	for _, c := range s.commands {
		if c.SearchResult {
			n++
		}
	}
	return n
}

func withoutSearchResults(set domain.CommandSet) domain.CommandSet {
	out := make(domain.CommandSet, 0, len(set))
	for _, c := range set {
		if !c.SearchResult {
			out = append(out, c)
		}
	}
	return out
}
