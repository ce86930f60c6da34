package transport

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/tidwall/gjson"

	"cmdpal/internal/domain"
)

// Request is the trigger command request body
type Request struct {
	Command string
	Service string
	Vars    map[string]any
}

// MarshalJSON writes empty service and vars as false, matching the endpoint contract.
func (r Request) MarshalJSON() ([]byte, error) {
	body := map[string]any{
		"command": r.Command,
		"service": false,
		"vars":    false,
	}
	if r.Service != "" {
		body["service"] = r.Service
	}
	if len(r.Vars) > 0 {
		body["vars"] = r.Vars
	}
	return json.Marshal(body)
}

// ResultKind describes the shape of the result field
type ResultKind int

const (
	ResultNone ResultKind = iota
	ResultCommands
	ResultHTML
	ResultBool
)

// Redirect asks the client to navigate after applying the response
type Redirect struct {
	URL       string
	NewWindow bool
}

// ActionSpec is the isAction payload of a response
type ActionSpec struct {
	Tabs       string
	SearchText string
	Call       string
	Service    string
	Vars       map[string]any
	Async      bool
	Realtime   bool
}

// Envelope is a decoded trigger response
type Envelope struct {
	Success bool
	Message string
	Title   string

	Kind     ResultKind
	Commands domain.CommandSet
	HTML     string
	Flag     bool

	Redirect      *Redirect
	IsNewSet      bool
	Action        *ActionSpec
	IsHTML        bool
	HeadHTML      string
	FootHTML      string
	DeleteCommand bool

	// Malformed marks a response whose shape could not be understood
	Malformed bool
}

// ResultEmpty reports whether the result is absent, false, "" or an empty list
func (e *Envelope) ResultEmpty() bool {
	switch e.Kind {
	case ResultCommands:
		return len(e.Commands) == 0
	case ResultHTML:
		return strings.TrimSpace(e.HTML) == ""
	case ResultBool:
		return !e.Flag
	default:
		return true
	}
}

// Decode parses a trigger response body. Only bodies that are not JSON are
// rejected with ErrMalformed. A JSON value that is not an object, or a result
// list holding anything but commands, yields an envelope marked Malformed.
// Other fields with unexpected shapes are ignored.
func Decode(body []byte) (*Envelope, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		log.Printf("transport: response is %s, not an object", root.Type)
		return &Envelope{Malformed: true}, nil
	}

	env := &Envelope{
		Success:       root.Get("success").Bool(),
		Message:       stringField(root.Get("message")),
		Title:         stringField(root.Get("title")),
		IsNewSet:      root.Get("isNewSet").Bool(),
		IsHTML:        root.Get("isHtml").Bool(),
		HeadHTML:      stringField(root.Get("headHtml")),
		FootHTML:      stringField(root.Get("footHtml")),
		DeleteCommand: root.Get("deleteCommand").Bool(),
	}

	result := root.Get("result")
	switch {
	case result.IsArray():
		var set domain.CommandSet
		if err := json.Unmarshal([]byte(result.Raw), &set); err != nil {
			log.Printf("transport: result is not a command list: %v", err)
			env.Malformed = true
			break
		}
		env.Kind = ResultCommands
		env.Commands = set
	case result.Type == gjson.String:
		env.Kind = ResultHTML
		env.HTML = result.String()
	case result.IsBool():
		env.Kind = ResultBool
		env.Flag = result.Bool()
	}

	if redirect := root.Get("redirect"); redirect.IsObject() {
		if url := redirect.Get("url").String(); url != "" {
			env.Redirect = &Redirect{URL: url, NewWindow: redirect.Get("newWindow").Bool()}
		}
	} else if redirect.Type == gjson.String && redirect.String() != "" {
		env.Redirect = &Redirect{URL: redirect.String()}
	}

	if action := root.Get("isAction"); action.IsObject() {
		vars, err := domain.ParseVars([]byte(action.Get("vars").Raw))
		if err != nil {
			log.Printf("transport: ignoring action vars: %v", err)
			vars = nil
		}
		env.Action = &ActionSpec{
			Tabs:       tabsLabel(action.Get("tabs")),
			SearchText: stringField(action.Get("searchText")),
			Call:       stringField(action.Get("call")),
			Service:    stringField(action.Get("service")),
			Vars:       vars,
			Async:      action.Get("async").Bool(),
			Realtime:   action.Get("realtime").Bool(),
		}
	}

	return env, nil
}

// stringField returns string values only; false/null/numbers read as ""
func stringField(v gjson.Result) string {
	if v.Type != gjson.String {
		return ""
	}
	return v.String()
}

// tabsLabel flattens the tabs value, which may be a string or a list of labels
func tabsLabel(v gjson.Result) string {
	if v.IsArray() {
		var parts []string
		for _, item := range v.Array() {
			if s := stringField(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " / ")
	}
	return stringField(v)
}
