package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Confirm       lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Scroll        lipgloss.Style
	Highlight     lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
	SelectionBg   lipgloss.Style

	Palette      lipgloss.Style
	Label        lipgloss.Style
	Prompt       lipgloss.Style
	Info         lipgloss.Style
	Shortcut     lipgloss.Style
	Icon         lipgloss.Style
	SearchResult lipgloss.Style
	Backdrop     lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Confirm: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		Dim:     lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Scroll:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		SelectionBg:   lipgloss.NewStyle().Background(lipgloss.Color("238")),

		Palette: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1),
		Label:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Prompt:       lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true),
		Info:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Shortcut:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Icon:         lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		SearchResult: lipgloss.NewStyle().Foreground(lipgloss.Color("51")), // cyan
		Backdrop:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}
