package domain

import (
	"encoding/json"
	"fmt"
)

// IconKind identifies how an icon's content is interpreted
type IconKind string

const (
	IconFont IconKind = "font"
	IconSVG  IconKind = "svg"
)

// Icon is the optional glyph shown next to a command
type Icon struct {
	Kind    IconKind `json:"kind"`
	Content string   `json:"content"`
}

// CommandKind classifies what selecting a command does
type CommandKind int

const (
	// KindInfo entries are informational and selecting them does nothing
	KindInfo CommandKind = iota
	// KindLink entries navigate to their URL without a server round-trip
	KindLink
	// KindCall entries trigger a server-side handler
	KindCall
)

// Command is one selectable palette entry
type Command struct {
	Name    string         `json:"name"`
	Info    string         `json:"info,omitempty"`
	Icon    *Icon          `json:"icon,omitempty"`
	More    bool           `json:"more,omitempty"`
	Warn    bool           `json:"warn,omitempty"`
	URL     string         `json:"url,omitempty"`
	Call    string         `json:"call,omitempty"`
	Service string         `json:"service,omitempty"`
	Vars    map[string]any `json:"vars,omitempty"`

	// SearchResult marks entries merged in from a live element search
	SearchResult bool `json:"-"`
}

// Kind reports whether the command is a link, a server call or informational.
// A url takes precedence over a call when a descriptor carries both.
func (c Command) Kind() CommandKind {
	switch {
	case c.URL != "":
		return KindLink
	case c.Call != "":
		return KindCall
	default:
		return KindInfo
	}
}

// UnmarshalJSON accepts the loose shapes the server emits: icon, service and
// vars may be `false` instead of absent.
func (c *Command) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name    string          `json:"name"`
		Info    string          `json:"info"`
		Icon    json.RawMessage `json:"icon"`
		More    bool            `json:"more"`
		Warn    bool            `json:"warn"`
		URL     string          `json:"url"`
		Call    string          `json:"call"`
		Service json.RawMessage `json:"service"`
		Vars    json.RawMessage `json:"vars"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse command: %w", err)
	}

	*c = Command{
		Name: raw.Name,
		Info: raw.Info,
		More: raw.More,
		Warn: raw.Warn,
		URL:  raw.URL,
		Call: raw.Call,
	}

	if isPresent(raw.Icon) {
		var icon Icon
		if err := json.Unmarshal(raw.Icon, &icon); err != nil {
			return fmt.Errorf("failed to parse icon of %q: %w", raw.Name, err)
		}
		c.Icon = &icon
	}
	if isPresent(raw.Service) {
		if err := json.Unmarshal(raw.Service, &c.Service); err != nil {
			return fmt.Errorf("failed to parse service of %q: %w", raw.Name, err)
		}
	}
	if isPresent(raw.Vars) {
		vars, err := ParseVars(raw.Vars)
		if err != nil {
			return fmt.Errorf("failed to parse vars of %q: %w", raw.Name, err)
		}
		c.Vars = vars
	}
	return nil
}

// ParseVars decodes a vars object, treating false, null and [] as empty.
func ParseVars(data []byte) (map[string]any, error) {
	if !isPresent(data) || string(data) == "[]" {
		return nil, nil
	}
	var vars map[string]any
	if err := json.Unmarshal(data, &vars); err != nil {
		return nil, err
	}
	return vars, nil
}

func isPresent(data json.RawMessage) bool {
	s := string(data)
	return len(s) > 0 && s != "null" && s != "false"
}

// CommandSet is the ordered list of commands currently matched against
type CommandSet []Command

// Clone returns an independent copy of the set
func (s CommandSet) Clone() CommandSet {
	if s == nil {
		return nil
	}
	out := make(CommandSet, len(s))
	copy(out, s)
	return out
}

// RemoveAt returns a copy of the set without the entry at index i; later
// entries shift down by one position. Out of range indices return a copy.
func (s CommandSet) RemoveAt(i int) CommandSet {
	if i < 0 || i >= len(s) {
		return s.Clone()
	}
	out := make(CommandSet, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

// Action is an interactive command awaiting one more piece of user input
type Action struct {
	PromptLabel       string
	InitialSearchText string
	Callback          string
	Service           string
	Vars              map[string]any
	Async             bool
	Realtime          bool
}

// SubmitVars returns the action vars merged with the current input text
func (a Action) SubmitVars(searchText string) map[string]any {
	vars := make(map[string]any, len(a.Vars)+1)
	for k, v := range a.Vars {
		vars[k] = v
	}
	vars["searchText"] = searchText
	return vars
}

// Frame is a snapshot of the palette taken before entering a nested command set
type Frame struct {
	Label      string
	Commands   CommandSet
	SearchText string
	Action     *Action
	Width      int
}
