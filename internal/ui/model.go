package ui

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"cmdpal/internal/config"
	"cmdpal/internal/eventbus"
	"cmdpal/internal/htmltext"
	"cmdpal/internal/palette"
	"cmdpal/internal/transport"
	"cmdpal/internal/ui/input"
	"cmdpal/internal/ui/input/keys"
	inputtypes "cmdpal/internal/ui/input/types"
	"cmdpal/internal/ui/views"
)

const (
	statusTimeout = 3 * time.Second
	maxActivity   = 200
	actionHint    = "Type and press enter"
)

// Model represents the UI state
type Model struct {
	bus     eventbus.EventBus
	config  *config.Config
	palette *palette.State
	client  transport.Trigger

	width    int
	height   int
	help     help.Model
	showHelp bool
	spinner  spinner.Model
	viewport viewport.Model
	htmlKey  string // identifies the fragment loaded into the viewport

	statusMessage string
	statusSuccess bool
	statusID      int

	debounceSeq int
	activity    []string

	renderer     *views.Renderer
	inputHandler *input.Handler
	keys         *keys.KeyMap

	// Program reference for terminal management
	program *tea.Program
	pager   *PagerOps
}

// NewModel creates a new UI model around a palette and the client that
// performs its trigger requests
func NewModel(bus eventbus.EventBus, cfg *config.Config, pal *palette.State, client transport.Trigger) *Model {
	km := keys.NewKeyMap(cfg.UI.ToggleKey, cfg.UI.QuickSelectModifier)

	m := &Model{
		bus:          bus,
		config:       cfg,
		palette:      pal,
		client:       client,
		help:         help.New(),
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		viewport:     viewport.New(views.Inner(cfg.UI.HTMLWidth), 10),
		renderer:     views.NewRenderer(),
		inputHandler: input.New(km),
		keys:         km,
	}
	m.syncInput()
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPagerOps(p)
}

// Palette returns the palette state driven by this model
func (m *Model) Palette() *palette.State {
	return m.palette
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateViewportHeight()
		return m, nil

	case tea.KeyMsg:
		ctx := &input.ModelContext{Palette: m.palette}
		actions, cmd := m.inputHandler.HandleKey(msg, ctx)

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		m.syncInput()
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		cmd := m.handleMouse(msg)
		m.syncInput()
		return m, cmd

	default:
		model, cmd := m.handleNonKeyboardMsg(msg)
		return model, tea.Batch(cmd, m.inputHandler.Update(msg))
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	state := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		Title:         "cmdpal",
		Subtitle:      m.config.Endpoint,
		Activity:      m.activity,
		StatusMessage: m.statusMessage,
		StatusSuccess: m.statusSuccess,
		ShowHelp:      m.showHelp,
		HelpModel:     m.help,
		HelpKeys:      m.keys,
		Palette:       m.paletteView(),
	}
	return zone.Scan(m.renderer.Render(state))
}

// paletteView collects what the palette renderer needs, or nil while closed
func (m *Model) paletteView() *views.PaletteView {
	p := m.palette
	if !p.IsOpen() {
		return nil
	}

	width := m.paletteWidth()
	v := &views.PaletteView{
		Width:   width,
		Label:   p.Label(),
		Input:   m.inputHandler.TextInput().View(),
		Loading: p.Loading(),
		Spinner: m.spinner.View(),
	}

	if html, ok := p.HTML(); ok {
		v.HTMLTitle = html.Title
		v.HTML = m.viewport.View()
		if m.viewport.TotalLineCount() > m.viewport.Height {
			v.HTMLFoot = fmt.Sprintf("%3.f%%", m.viewport.ScrollPercent()*100)
		}
		return v
	}

	if cmd, ok := p.Confirming(); ok {
		v.Confirm = cmd.Name
	}

	list := p.List()
	v.Entries = list.Visible()
	v.Focus = list.FocusIndex()
	v.Total = list.Len()
	v.Offset = list.Offset()
	// a pending action without results shows only its input
	v.ShowList = p.Mode() == palette.ModeBrowsing || list.Len() > 0
	if p.Mode() == palette.ModeBrowsing {
		v.Empty = "No matching commands"
	}
	return v
}

// paletteWidth clamps the palette's requested width to the terminal
func (m *Model) paletteWidth() int {
	w := m.palette.Width()
	if m.width > 0 && w > m.width-2 {
		w = m.width - 2
	}
	return w
}

// updateViewportHeight sizes the list and the HTML viewport to the terminal
func (m *Model) updateViewportHeight() {
	// label, input, borders, footer and the space above the palette
	rows := m.height - m.height/8 - 8
	if rows > m.config.UI.MaxVisible {
		rows = m.config.UI.MaxVisible
	}
	if rows < 1 {
		rows = 1
	}
	m.palette.SetHeight(rows)
	m.layoutHTML()
}

// syncInput aligns the input mode and text field with the palette state
func (m *Model) syncInput() {
	ctx := &input.ModelContext{Palette: m.palette}
	mode := inputtypes.ModeNormal
	switch {
	case !m.palette.IsOpen():
	case m.palette.Mode() == palette.ModeShowingHTML:
		mode = inputtypes.ModeHTML
	default:
		if _, ok := m.palette.Confirming(); ok {
			mode = inputtypes.ModeConfirm
		} else {
			mode = inputtypes.ModeSearch
		}
	}
	for _, action := range m.inputHandler.SetMode(mode, ctx) {
		m.processAction(action)
	}

	m.inputHandler.SetText(m.palette.SearchText())
	if _, ok := m.palette.Action(); ok {
		m.inputHandler.SetPlaceholder(actionHint)
	} else {
		m.inputHandler.SetPlaceholder("Search commands")
	}
	m.inputHandler.TextInput().Width = views.Inner(m.paletteWidth()) - 3

	m.loadHTML()
}

// loadHTML renders a newly shown HTML fragment into the viewport
func (m *Model) loadHTML() {
	html, ok := m.palette.HTML()
	if !ok {
		m.htmlKey = ""
		return
	}
	key := html.Title + "\x00" + html.Head + "\x00" + html.Body + "\x00" + html.Foot
	if key == m.htmlKey {
		return
	}
	m.htmlKey = key
	m.layoutHTML()
	m.viewport.GotoTop()
}

// layoutHTML re-wraps the current fragment for the palette width
func (m *Model) layoutHTML() {
	html, ok := m.palette.HTML()
	if !ok {
		return
	}
	width := views.Inner(m.paletteWidth())
	content := htmltext.Document(html.Head, html.Body, html.Foot, width)

	maxHeight := m.height - m.height/8 - 8
	if maxHeight < 3 {
		maxHeight = 3
	}
	height := strings.Count(content, "\n") + 1
	if height > maxHeight {
		height = maxHeight
	}

	m.viewport.Width = width
	m.viewport.Height = height
	m.viewport.SetContent(content)
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	log.Printf("processAction: %T", action)

	switch a := action.(type) {
	case inputtypes.TogglePaletteAction:
		return m.processEffects(m.palette.Toggle())

	case inputtypes.NavigateAction:
		switch a.Direction {
		case "up":
			m.palette.MoveUp()
		case "down":
			m.palette.MoveDown()
		case "pageup":
			m.palette.PageUp()
		case "pagedown":
			m.palette.PageDown()
		}
		return nil

	case inputtypes.ScrollAction:
		switch a.Direction {
		case "up":
			m.viewport.LineUp(1)
		case "down":
			m.viewport.LineDown(1)
		case "pageup":
			m.viewport.HalfViewUp()
		case "pagedown":
			m.viewport.HalfViewDown()
		case "top":
			m.viewport.GotoTop()
		case "bottom":
			m.viewport.GotoBottom()
		}
		return nil

	case inputtypes.QuickSelectAction:
		return m.processEffects(m.palette.SelectAt(a.Position))

	case inputtypes.EnterAction:
		return m.processEffects(m.palette.Enter())

	case inputtypes.BackAction:
		return m.processEffects(m.palette.Escape())

	case inputtypes.UpdateTextAction:
		m.palette.SetSearchText(a.Text)
		return m.scheduleSearch()

	case inputtypes.ConfirmAction:
		return m.processEffects(m.palette.Confirm(a.Yes))

	case inputtypes.OpenPagerAction:
		return m.openPager()

	case inputtypes.ToggleHelpAction:
		m.showHelp = !m.showHelp
		return nil

	case inputtypes.QuitAction:
		if m.palette.IsOpen() {
			m.processEffects(m.palette.Close())
		}
		return tea.Quit
	}

	return nil
}

// openPager shows the current HTML result in ov
func (m *Model) openPager() tea.Cmd {
	html, ok := m.palette.HTML()
	if !ok || m.pager == nil {
		return nil
	}
	content := htmltext.Document(html.Head, html.Body, html.Foot, pagerWidth)
	if html.Title != "" {
		content = html.Title + "\n\n" + content
	}
	pager := m.pager
	return func() tea.Msg {
		return pagerExitMsg{err: pager.ShowInPager(content)}
	}
}

// scheduleSearch starts the debounce timer for typing that triggers a request
func (m *Model) scheduleSearch() tea.Cmd {
	if !m.palette.RealtimeActive() && !m.palette.ElementSearchActive() {
		return nil
	}
	m.debounceSeq++
	seq := m.debounceSeq
	return tea.Tick(m.config.Search.Debounce.Std(), func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

// processEffects carries out the side effects of a palette transition
func (m *Model) processEffects(effects []palette.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, effect := range effects {
		switch e := effect.(type) {
		case palette.IssueEffect:
			req := e.Request
			m.publish(eventbus.CommandTriggeredEvent{
				RequestID: req.ID,
				Command:   req.Wire.Command,
				Service:   req.Wire.Service,
				Kind:      req.Kind.String(),
			})
			cmds = append(cmds, m.trigger(req))
			if m.palette.Loading() {
				cmds = append(cmds, m.spinner.Tick)
			}

		case palette.NotifyEffect:
			cmds = append(cmds, m.setStatus(e.Message, e.Success))

		case palette.NavigateEffect:
			m.record("open %s", e.URL)
			m.publish(eventbus.RedirectEvent{URL: e.URL, NewWindow: e.NewWindow})

		case palette.ConfirmEffect:
			log.Printf("awaiting confirmation for %q", e.Command.Name)

		case palette.OpenedEffect:
			m.publish(eventbus.PaletteOpenedEvent{Commands: e.Commands})

		case palette.ClosedEffect:
			m.debounceSeq++
			m.publish(eventbus.PaletteClosedEvent{Depth: e.Depth})

		case palette.CompletedEffect:
			if e.Outcome != (palette.Suppressed{}).Name() {
				m.record("%s → %s", e.Command, e.Outcome)
			}
			m.publish(eventbus.CommandCompletedEvent{RequestID: e.RequestID, Command: e.Command, Outcome: e.Outcome})

		case palette.FailedEffect:
			m.record("%s failed: %v", e.Command, e.Err)
			m.publish(eventbus.CommandFailedEvent{RequestID: e.RequestID, Command: e.Command, Err: e.Err})
		}
	}
	return tea.Batch(cmds...)
}

// trigger performs a request off the event loop
func (m *Model) trigger(req *palette.Request) tea.Cmd {
	client := m.client
	ctx := req.Context()
	id := req.ID
	wire := req.Wire
	return func() tea.Msg {
		env, err := client.Trigger(ctx, wire)
		return triggerResultMsg{id: id, env: env, err: err}
	}
}

// handleMouse selects clicked entries, closes on clicks outside the palette
// and scrolls with the wheel
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !m.palette.IsOpen() {
		return nil
	}

	_, showingHTML := m.palette.HTML()
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if showingHTML {
			m.viewport.LineUp(3)
		} else {
			m.palette.MoveUp()
		}
		return nil
	case tea.MouseButtonWheelDown:
		if showingHTML {
			m.viewport.LineDown(3)
		} else {
			m.palette.MoveDown()
		}
		return nil
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}

	box := zone.Get(views.PaletteZone)
	if box == nil {
		return nil
	}
	if !box.InBounds(msg) {
		return m.processEffects(m.palette.Close())
	}
	for _, e := range m.palette.List().Visible() {
		if z := zone.Get(views.EntryZone(e.Position)); z != nil && z.InBounds(msg) {
			return m.processEffects(m.palette.SelectAt(e.Position))
		}
	}
	return nil
}

// handleNonKeyboardMsg handles non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case triggerResultMsg:
		var effects []palette.Effect
		if msg.err != nil {
			effects = m.palette.Fail(msg.id, msg.err)
		} else {
			effects = m.palette.Apply(msg.id, msg.env)
		}
		cmd := m.processEffects(effects)
		m.syncInput()
		return m, cmd

	case debounceMsg:
		if msg.seq != m.debounceSeq {
			return m, nil
		}
		if m.palette.RealtimeActive() {
			return m, m.processEffects(m.palette.SubmitRealtime())
		}
		return m, m.processEffects(m.palette.ElementSearch())

	case spinner.TickMsg:
		if !m.palette.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case EventMsg:
		if n, ok := msg.Event.(eventbus.NotificationEvent); ok {
			return m, m.setStatus(n.Message, n.Success)
		}
		return m, nil

	case pagerExitMsg:
		if msg.err != nil {
			log.Printf("Pager failed: %v", msg.err)
			return m, m.setStatus("Could not open the pager", false)
		}
		return m, nil

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.statusMessage = ""
		}
		return m, nil

	default:
		return m, nil
	}
}

// setStatus shows a transient message on the status line
func (m *Model) setStatus(message string, success bool) tea.Cmd {
	m.statusID++
	id := m.statusID
	m.statusMessage = message
	m.statusSuccess = success
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

// record appends a line to the activity log
func (m *Model) record(format string, args ...any) {
	line := time.Now().Format("15:04:05") + "  " + fmt.Sprintf(format, args...)
	m.activity = append(m.activity, line)
	if len(m.activity) > maxActivity {
		m.activity = m.activity[len(m.activity)-maxActivity:]
	}
}

func (m *Model) publish(event eventbus.DomainEvent) {
	if m.bus != nil {
		m.bus.Publish(event)
	}
}
