package palette

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmdpal/internal/domain"
	"cmdpal/internal/transport"
)

func rootSet() domain.CommandSet {
	return domain.CommandSet{
		{Name: "Create entry", Call: "createEntry", More: true},
		{Name: "Settings", URL: "https://example.com/settings"},
		{Name: "Clear caches", Call: "clearCaches", Warn: true},
		{Name: "About", Info: "version info"},
	}
}

func newOpen(t *testing.T, root domain.CommandSet) *State {
	t.Helper()
	s := New(root, DefaultOptions())
	effects := s.Open()
	require.Len(t, effects, 1)
	return s
}

func envelope(t *testing.T, body string) *transport.Envelope {
	t.Helper()
	env, err := transport.Decode([]byte(body))
	require.NoError(t, err)
	return env
}

func find[T Effect](effects []Effect) (T, bool) {
	for _, e := range effects {
		if v, ok := e.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func issued(t *testing.T, effects []Effect) *Request {
	t.Helper()
	e, ok := find[IssueEffect](effects)
	require.True(t, ok, "expected a request to be issued, got %v", effects)
	return e.Request
}

func TestOpenShowsRootUnfiltered(t *testing.T) {
	s := New(rootSet(), DefaultOptions())
	assert.False(t, s.IsOpen())
	assert.Equal(t, 0, s.List().Len())

	s.Open()
	assert.Equal(t, ModeBrowsing, s.Mode())
	assert.Equal(t, 4, s.List().Len())
	assert.Equal(t, 0, s.List().FocusIndex())
	assert.Nil(t, s.Open(), "opening twice is a no-op")
}

func TestToggle(t *testing.T) {
	s := New(rootSet(), DefaultOptions())
	s.Toggle()
	assert.True(t, s.IsOpen())
	effects := s.Toggle()
	assert.False(t, s.IsOpen())
	_, ok := find[ClosedEffect](effects)
	assert.True(t, ok)
}

func TestSearchFiltersList(t *testing.T) {
	s := newOpen(t, rootSet())
	s.SetSearchText("sett")
	require.Equal(t, 1, s.List().Len())
	e, _ := s.List().Focused()
	assert.Equal(t, "Settings", e.Match.Command.Name)

	s.SetSearchText("zzz")
	assert.Equal(t, 0, s.List().Len())
	assert.True(t, s.IsOpen(), "no match is not an error")
}

func TestNewSetPushesFrame(t *testing.T) {
	s := newOpen(t, rootSet())
	req := issued(t, s.SelectAt(0))
	assert.Equal(t, RequestCommand, req.Kind)
	assert.Equal(t, "createEntry", req.Wire.Command)
	assert.True(t, s.Loading())

	s.Apply(req.ID, envelope(t, `{"success":true,"isNewSet":true,"result":[{"name":"A"},{"name":"B"}]}`))

	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, domain.CommandSet{{Name: "A"}, {Name: "B"}}, s.Commands())
	assert.Equal(t, "", s.SearchText())
	assert.Equal(t, "Create entry", s.Label())
	assert.Equal(t, ModeBrowsing, s.Mode())
	assert.False(t, s.Loading())
	assert.False(t, s.ElementSearchActive(), "element search is disabled below the root")
}

func TestPopRestoresPushedFrame(t *testing.T) {
	s := newOpen(t, rootSet())
	s.SetSearchText("create")

	beforeCommands := s.Commands()
	beforeWidth := s.Width()

	req := issued(t, s.Enter())
	s.Apply(req.ID, envelope(t, `{"success":true,"isHtml":true,"title":"Preview","result":"<p>hi</p>"}`))
	require.Equal(t, ModeShowingHTML, s.Mode())
	assert.Equal(t, DefaultOptions().HTMLWidth, s.Width())
	html, ok := s.HTML()
	require.True(t, ok)
	assert.Equal(t, "<p>hi</p>", html.Body)

	assert.Nil(t, s.Escape())

	assert.Equal(t, 0, s.Depth())
	assert.Equal(t, beforeCommands, s.Commands())
	assert.Equal(t, "create", s.SearchText())
	assert.Equal(t, beforeWidth, s.Width())
	_, hasAction := s.Action()
	assert.False(t, hasAction)
	assert.Equal(t, "", s.Label())
	assert.Equal(t, ModeBrowsing, s.Mode())
	assert.True(t, s.ElementSearchActive())
}

func TestPopRestoresPendingAction(t *testing.T) {
	s := newOpen(t, rootSet())
	req := issued(t, s.SelectAt(0))
	s.Apply(req.ID, envelope(t, `{"success":true,"isAction":{"tabs":"Title","searchText":"draft","call":"create","service":"entries","vars":{"section":3}}}`))
	require.Equal(t, ModeActionPending, s.Mode())

	s.SetSearchText("My post")
	action, _ := s.Action()

	req = issued(t, s.Enter())
	s.Apply(req.ID, envelope(t, `{"success":true,"isNewSet":true,"result":[{"name":"Pick a type","call":"pick"}]}`))
	require.Equal(t, 2, s.Depth())
	assert.Equal(t, ModeBrowsing, s.Mode())
	assert.Equal(t, "Title", s.Stack()[1].Label)

	s.Escape()
	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, ModeActionPending, s.Mode())
	assert.Equal(t, "My post", s.SearchText())
	restored, ok := s.Action()
	require.True(t, ok)
	assert.Equal(t, action, restored)
	assert.Equal(t, "Title", s.Label())
}

func TestCloseCollapsesStack(t *testing.T) {
	root := rootSet()
	s := newOpen(t, root)

	req := issued(t, s.SelectAt(0))
	s.Apply(req.ID, envelope(t, `{"success":true,"isNewSet":true,"result":[{"name":"Blog","call":"pickSection"}]}`))
	req = issued(t, s.SelectAt(0))
	s.Apply(req.ID, envelope(t, `{"success":true,"isNewSet":true,"result":[{"name":"Post","call":"pickType"}]}`))
	require.Equal(t, 2, s.Depth())

	effects := s.Close()
	closed, ok := find[ClosedEffect](effects)
	require.True(t, ok)
	assert.Equal(t, 2, closed.Depth)

	s.Open()
	assert.Equal(t, 0, s.Depth())
	assert.Equal(t, root, s.Commands())
	assert.Equal(t, "", s.SearchText())
	assert.Equal(t, "", s.Label())
	assert.Equal(t, DefaultOptions().Width, s.Width())
}

func TestActionResponse(t *testing.T) {
	s := newOpen(t, rootSet())
	req := issued(t, s.SelectAt(0))
	s.Apply(req.ID, envelope(t, `{"success":true,"isAction":{"tabs":"T","searchText":"","call":"c","service":"s","vars":{},"async":true,"realtime":false}}`))

	assert.Equal(t, ModeActionPending, s.Mode())
	assert.Equal(t, "", s.SearchText())
	assert.Empty(t, s.Commands())
	assert.Equal(t, 0, s.List().Len())
	assert.Equal(t, "T", s.Label())

	s.SetSearchText("my title")
	assert.Nil(t, s.SubmitRealtime(), "non-realtime actions only submit on enter")

	req = issued(t, s.Enter())
	assert.Equal(t, RequestAction, req.Kind)
	assert.Equal(t, transport.Request{
		Command: "c",
		Service: "s",
		Vars:    map[string]any{"searchText": "my title"},
	}, req.Wire)
}

func TestRealtimeActionReplacesInPlace(t *testing.T) {
	s := newOpen(t, rootSet())
	req := issued(t, s.SelectAt(0))
	s.Apply(req.ID, envelope(t, `{"success":true,"isAction":{"tabs":"Find user","searchText":"","call":"findUser","realtime":true}}`))
	require.True(t, s.RealtimeActive())

	s.SetSearchText("jo")
	r1 := issued(t, s.SubmitRealtime())
	assert.Equal(t, RequestRealtime, r1.Kind)
	assert.False(t, s.Loading())

	s.SetSearchText("joe")
	r2 := issued(t, s.SubmitRealtime())
	assert.ErrorIs(t, r1.Context().Err(), context.Canceled)

	assert.Nil(t, s.Apply(r1.ID, envelope(t, `{"success":true,"isNewSet":true,"result":[{"name":"Jo","call":"u1"}]}`)))
	assert.Empty(t, s.Commands())

	s.Apply(r2.ID, envelope(t, `{"success":true,"isNewSet":true,"result":[{"name":"Joe","call":"u2"},{"name":"Joey","call":"u3"}]}`))
	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, ModeActionPending, s.Mode())
	assert.Len(t, s.Commands(), 2)
	assert.Equal(t, 2, s.List().Len(), "realtime results are shown unfiltered")
	assert.Equal(t, "joe", s.SearchText())

	req = issued(t, s.Enter())
	assert.Equal(t, RequestCommand, req.Kind)
	assert.Equal(t, "u2", req.Wire.Command)
}

func TestDeleteSoleEntryCloses(t *testing.T) {
	s := newOpen(t, domain.CommandSet{{Name: "Only", Call: "removeMe"}})
	req := issued(t, s.Enter())

	effects := s.Apply(req.ID, envelope(t, `{"success":true,"deleteCommand":true}`))

	assert.Empty(t, s.Commands())
	assert.Equal(t, ModeClosed, s.Mode())
	notify, ok := find[NotifyEffect](effects)
	require.True(t, ok)
	assert.Equal(t, DefaultOptions().EmptyMessage, notify.Message)
}

func TestDeleteRemovesFocusedEntry(t *testing.T) {
	root := domain.CommandSet{
		{Name: "one", Call: "d"},
		{Name: "two", Call: "d"},
		{Name: "three", Call: "d"},
	}
	s := newOpen(t, root)
	req := issued(t, s.SelectAt(1))

	s.Apply(req.ID, envelope(t, `{"success":true,"deleteCommand":true,"message":"Deleted","result":true}`))

	assert.Equal(t, domain.CommandSet{root[0], root[2]}, s.Commands())
	assert.Len(t, root, 3, "the original set is not modified")
	assert.True(t, s.IsOpen())
	assert.Equal(t, 2, s.List().Len())
	assert.Equal(t, 0, s.List().FocusIndex())
}

func TestDeleteRemovesIssuingCommandAfterTyping(t *testing.T) {
	root := domain.CommandSet{
		{Name: "one", Call: "d"},
		{Name: "two", Call: "d"},
		{Name: "three", Call: "d"},
	}
	s := newOpen(t, root)
	req := issued(t, s.SelectAt(2))
	assert.Equal(t, 2, req.Target)

	// typing refilters and resets focus away from the issuing command
	s.SetSearchText("o")
	focused, ok := s.List().Focused()
	require.True(t, ok)
	assert.NotEqual(t, "three", focused.Match.Command.Name)

	s.Apply(req.ID, envelope(t, `{"success":true,"deleteCommand":true,"result":true}`))

	assert.Equal(t, domain.CommandSet{root[0], root[1]}, s.Commands())
}

func TestDeleteAfterConfirmationRemovesConfirmedCommand(t *testing.T) {
	root := domain.CommandSet{
		{Name: "keep", Call: "d"},
		{Name: "drop", Call: "d", Warn: true},
	}
	s := newOpen(t, root)
	_, ok := find[ConfirmEffect](s.SelectAt(1))
	require.True(t, ok)

	req := issued(t, s.Confirm(true))
	assert.Equal(t, 1, req.Target)

	s.Apply(req.ID, envelope(t, `{"success":true,"deleteCommand":true,"result":true}`))
	assert.Equal(t, domain.CommandSet{root[0]}, s.Commands())
}

func TestStaleElementSearchIsIgnored(t *testing.T) {
	s := newOpen(t, rootSet())

	s.SetSearchText("hello")
	r1 := issued(t, s.ElementSearch())
	s.SetSearchText("hello w")
	r2 := issued(t, s.ElementSearch())

	assert.ErrorIs(t, r1.Context().Err(), context.Canceled)
	before := s.Commands()

	assert.Nil(t, s.Apply(r1.ID, envelope(t, `{"success":true,"isNewSet":true,"result":[{"name":"Stale","url":"/stale"}]}`)))
	assert.Nil(t, s.Fail(r1.ID, context.Canceled))
	assert.Equal(t, before, s.Commands())
	assert.Same(t, r2, s.Pending())
}

func TestElementSearchMergeAndSuppress(t *testing.T) {
	s := newOpen(t, rootSet())
	s.SetSearchText("hw")

	req := issued(t, s.ElementSearch())
	assert.Equal(t, RequestElementSearch, req.Kind)
	assert.Equal(t, "searchDirectly", req.Wire.Command)
	assert.Equal(t, "search", req.Wire.Service)
	assert.Equal(t, map[string]any{"searchText": "hw"}, req.Wire.Vars)

	s.Apply(req.ID, envelope(t, `{"success":true,"isNewSet":true,"result":[{"name":"Hello world","url":"/hello"}]}`))
	require.Len(t, s.Commands(), 5)
	merged := s.Commands()[4]
	assert.True(t, merged.SearchResult)
	assert.Equal(t, "Hello world {hw}", merged.Name)
	assert.Equal(t, 0, s.Depth(), "element search does not push")
	assert.Equal(t, "hw", s.SearchText())
	require.Equal(t, 1, s.List().Len())

	req = issued(t, s.ElementSearch())
	effects := s.Apply(req.ID, envelope(t, `{"success":true,"isNewSet":true,"result":[{"name":"Other","url":"/other"}]}`))
	completed, _ := find[CompletedEffect](effects)
	assert.Equal(t, "suppressed", completed.Outcome)
	assert.Equal(t, "Hello world {hw}", s.Commands()[4].Name)

	s.SetSearchText("")
	assert.Len(t, s.Commands(), 4, "clearing the query drops merged results")
}

func TestOrdinaryRequestIsExclusive(t *testing.T) {
	s := newOpen(t, rootSet())
	req := issued(t, s.SelectAt(0))

	assert.Nil(t, s.SelectAt(1))
	s.SetSearchText("abc")
	assert.Nil(t, s.ElementSearch())
	assert.Same(t, req, s.Pending())
}

func TestCommandSupersedesElementSearch(t *testing.T) {
	s := newOpen(t, rootSet())
	s.SetSearchText("create")
	search := issued(t, s.ElementSearch())

	req := issued(t, s.Enter())
	assert.Equal(t, "createEntry", req.Wire.Command)
	assert.ErrorIs(t, search.Context().Err(), context.Canceled)
	assert.Nil(t, s.Apply(search.ID, envelope(t, `{"success":true,"isNewSet":true,"result":[]}`)))
}

func TestCloseCancelsInflight(t *testing.T) {
	s := newOpen(t, rootSet())
	req := issued(t, s.SelectAt(0))

	s.Close()
	assert.ErrorIs(t, req.Context().Err(), context.Canceled)
	assert.Nil(t, s.Apply(req.ID, envelope(t, `{"success":true,"isNewSet":true,"result":[{"name":"A"}]}`)))
	assert.Equal(t, ModeClosed, s.Mode())
	assert.Equal(t, 0, s.Depth())
}

func TestHTMLWithEmptyResultRestores(t *testing.T) {
	s := newOpen(t, rootSet())
	req := issued(t, s.SelectAt(0))
	effects := s.Apply(req.ID, envelope(t, `{"success":true,"isHtml":true,"result":""}`))

	completed, _ := find[CompletedEffect](effects)
	assert.Equal(t, "restore", completed.Outcome)
	assert.Equal(t, ModeBrowsing, s.Mode())
	assert.Equal(t, 0, s.Depth())
	assert.Equal(t, 4, s.List().Len())
}

func TestTerminalNotifiesClosesAndRedirects(t *testing.T) {
	s := newOpen(t, rootSet())
	req := issued(t, s.SelectAt(0))

	effects := s.Apply(req.ID, envelope(t, `{"success":true,"message":"Saved","result":true,"redirect":{"url":"https://example.com/entry/1","newWindow":true}}`))

	assert.Equal(t, ModeClosed, s.Mode())
	notify, ok := find[NotifyEffect](effects)
	require.True(t, ok)
	assert.Equal(t, NotifyEffect{Message: "Saved", Success: true}, notify)
	require.NotEmpty(t, effects)
	assert.Equal(t, NavigateEffect{URL: "https://example.com/entry/1", NewWindow: true}, effects[len(effects)-1])
}

func TestMalformedResponseClosesAsTerminal(t *testing.T) {
	s := newOpen(t, rootSet())
	s.SetSearchText("create")
	req := issued(t, s.Enter())

	effects := s.Apply(req.ID, envelope(t, `{"success":true,"isNewSet":true,"result":[1]}`))

	assert.Equal(t, ModeClosed, s.Mode())
	assert.Equal(t, 0, s.Depth())
	notify, ok := find[NotifyEffect](effects)
	require.True(t, ok)
	assert.False(t, notify.Success)
	_, failed := find[FailedEffect](effects)
	assert.False(t, failed)
}

func TestRejectedKeepsPaletteOpen(t *testing.T) {
	s := newOpen(t, rootSet())
	req := issued(t, s.SelectAt(0))

	effects := s.Apply(req.ID, envelope(t, `{"success":false,"message":"Not allowed","isNewSet":true,"result":[{"name":"X"}],"redirect":"https://example.com"}`))

	assert.True(t, s.IsOpen())
	assert.Equal(t, 0, s.Depth())
	assert.False(t, s.Loading())
	notify, _ := find[NotifyEffect](effects)
	assert.Equal(t, NotifyEffect{Message: "Not allowed", Success: false}, notify)
	_, navigated := find[NavigateEffect](effects)
	assert.False(t, navigated)

	issued(t, s.SelectAt(0))
}

func TestTransportFailureKeepsStack(t *testing.T) {
	s := newOpen(t, rootSet())
	req := issued(t, s.SelectAt(0))
	s.Apply(req.ID, envelope(t, `{"success":true,"isNewSet":true,"result":[{"name":"A","call":"a"},{"name":"B","call":"b"}]}`))

	req = issued(t, s.SelectAt(1))
	effects := s.Fail(req.ID, fmt.Errorf("%w: connection refused", transport.ErrTransport))

	failed, ok := find[FailedEffect](effects)
	require.True(t, ok)
	assert.ErrorIs(t, failed.Err, transport.ErrTransport)
	notify, _ := find[NotifyEffect](effects)
	assert.False(t, notify.Success)

	assert.Equal(t, 1, s.Depth())
	assert.True(t, s.IsOpen())
	assert.False(t, s.Loading())
	assert.Equal(t, 2, s.List().Len())
	assert.Nil(t, s.Pending())
}

func TestWarnRequiresConfirmation(t *testing.T) {
	s := newOpen(t, rootSet())

	effects := s.SelectAt(2)
	confirm, ok := find[ConfirmEffect](effects)
	require.True(t, ok)
	assert.Equal(t, "Clear caches", confirm.Command.Name)
	assert.Nil(t, s.Pending())

	assert.Nil(t, s.Confirm(false))
	assert.Nil(t, s.Pending())
	_, confirming := s.Confirming()
	assert.False(t, confirming)

	s.SelectAt(2)
	assert.Nil(t, s.Escape())
	assert.True(t, s.IsOpen(), "escape only cancels the confirmation")

	s.SelectAt(2)
	req := issued(t, s.Confirm(true))
	assert.Equal(t, "clearCaches", req.Wire.Command)
}

func TestLinkNavigatesAndCloses(t *testing.T) {
	s := newOpen(t, rootSet())
	effects := s.SelectAt(1)

	require.NotEmpty(t, effects)
	assert.Equal(t, NavigateEffect{URL: "https://example.com/settings"}, effects[0])
	assert.False(t, s.IsOpen())
	assert.Nil(t, s.Pending())
}

func TestInfoEntryIsNoop(t *testing.T) {
	s := newOpen(t, rootSet())
	assert.Nil(t, s.SelectAt(3))
	assert.True(t, s.IsOpen())
	assert.Equal(t, 3, s.List().FocusIndex())
}

func TestEscapeAtRootCloses(t *testing.T) {
	s := newOpen(t, rootSet())
	s.SetSearchText("sett")
	effects := s.Escape()
	_, ok := find[ClosedEffect](effects)
	assert.True(t, ok)
	assert.Equal(t, "", s.SearchText())
	assert.Nil(t, s.Escape())
}

func TestClosedPaletteIgnoresInput(t *testing.T) {
	s := New(rootSet(), DefaultOptions())
	s.SetSearchText("abc")
	assert.Equal(t, "", s.SearchText())
	assert.Nil(t, s.Enter())
	assert.Nil(t, s.SelectAt(0))
	assert.Nil(t, s.ElementSearch())
}

func TestElementSearchCanBeDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.ElementSearch = false
	s := New(rootSet(), opts)
	s.Open()
	s.SetSearchText("abc")
	assert.False(t, s.ElementSearchActive())
	assert.Nil(t, s.ElementSearch())
}
