package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width    int
	Height   int
	Title    string
	Subtitle string

	Activity []string // newest last

	StatusMessage string
	StatusSuccess bool

	ShowHelp  bool
	HelpModel help.Model
	HelpKeys  help.KeyMap

	Palette *PaletteView // nil while closed
}

// Renderer handles all view rendering
type Renderer struct {
	styles        *Styles
	paletteRender *PaletteRenderer
	popupRender   *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:        styles,
		paletteRender: NewPaletteRenderer(styles),
		popupRender:   NewPopupRenderer(styles),
	}
}

// Styles returns the styles used by the renderer
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	workspace := r.renderWorkspace(state)
	if state.Palette == nil {
		return workspace
	}

	popup := r.paletteRender.Render(*state.Palette)
	return r.popupRender.RenderPopupOverlay(workspace, popup, state.Width, state.Height, state.Height/8)
}

// renderWorkspace draws the page under the palette: title, recent activity,
// status and help.
func (r *Renderer) renderWorkspace(state ViewState) string {
	var content strings.Builder

	title := r.styles.Title.Render(state.Title)
	if state.Subtitle != "" {
		title = lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", r.styles.Dim.Render(state.Subtitle))
	}
	content.WriteString(title)
	content.WriteString("\n")

	// status, help and padding
	reserved := 8
	if state.ShowHelp {
		reserved += 4
	}
	rows := state.Height - reserved
	if rows < 1 {
		rows = 1
	}

	activity := state.Activity
	if len(activity) > rows {
		activity = activity[len(activity)-rows:]
	}
	if len(activity) == 0 {
		content.WriteString(r.styles.Dim.Render("No commands run yet."))
		content.WriteString("\n")
	}
	for _, line := range activity {
		content.WriteString(truncate(line, max(state.Width-4, 10)))
		content.WriteString("\n")
	}

	if state.StatusMessage != "" {
		style := r.styles.StatusError
		if state.StatusSuccess {
			style = r.styles.StatusSuccess
		}
		content.WriteString(r.styles.Status.Render(style.Render(state.StatusMessage)))
		content.WriteString("\n")
	}

	if state.HelpKeys != nil {
		content.WriteString("\n")
		hm := state.HelpModel
		hm.ShowAll = state.ShowHelp
		content.WriteString(r.styles.Help.Render(hm.View(state.HelpKeys)))
	}

	return r.styles.Main.Render(content.String())
}
