package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"cmdpal/internal/domain"
	"cmdpal/internal/listing"
)

// PaletteZone marks the palette box for click-outside detection
const PaletteZone = "palette"

// EntryZone returns the mouse zone id of the entry at pos
func EntryZone(pos int) string {
	return fmt.Sprintf("palette-entry-%d", pos)
}

// PaletteView is everything needed to draw the open palette
type PaletteView struct {
	Width   int
	Label   string
	Input   string // rendered text input
	Loading bool
	Spinner string

	Entries  []listing.Entry // visible entries
	Focus    int
	Total    int
	Offset   int
	ShowList bool
	Empty    string // shown when the list has no entries

	HTMLTitle string
	HTML      string // rendered viewport content, non-empty in HTML mode
	HTMLFoot  string

	Confirm string // name of a warn command awaiting confirmation
}

// PaletteRenderer draws the palette box
type PaletteRenderer struct {
	styles *Styles
}

// NewPaletteRenderer creates a new palette renderer
func NewPaletteRenderer(styles *Styles) *PaletteRenderer {
	return &PaletteRenderer{styles: styles}
}

// Inner returns the content width available inside a palette of width columns
func Inner(width int) int {
	// border and horizontal padding
	inner := width - 4
	if inner < 10 {
		inner = 10
	}
	return inner
}

// Render draws the palette
func (pr *PaletteRenderer) Render(v PaletteView) string {
	inner := Inner(v.Width)
	var b strings.Builder

	if v.Label != "" {
		b.WriteString(pr.styles.Label.Render(truncate(v.Label, inner)))
		b.WriteString("\n")
	}

	if v.HTML != "" {
		if v.HTMLTitle != "" {
			b.WriteString(pr.styles.Title.UnsetMarginBottom().Render(truncate(v.HTMLTitle, inner)))
			b.WriteString("\n")
		}
		b.WriteString(v.HTML)
		if v.HTMLFoot != "" {
			b.WriteString("\n")
			b.WriteString(pr.styles.Scroll.Render(v.HTMLFoot))
		}
		return pr.box(b.String(), inner)
	}

	b.WriteString(pr.styles.Prompt.Render("› "))
	b.WriteString(v.Input)

	switch {
	case v.Confirm != "":
		b.WriteString("\n\n")
		b.WriteString(pr.styles.Confirm.Render(truncate(fmt.Sprintf("Run %q? (y/n)", v.Confirm), inner)))
	case v.Loading:
		b.WriteString("\n\n")
		b.WriteString(pr.styles.StatusLoading.Render(v.Spinner + " Running…"))
	case v.ShowList:
		b.WriteString("\n")
		if len(v.Entries) == 0 {
			if v.Empty != "" {
				b.WriteString("\n")
				b.WriteString(pr.styles.Dim.Render(truncate(v.Empty, inner)))
			}
			break
		}
		for _, e := range v.Entries {
			b.WriteString("\n")
			b.WriteString(zone.Mark(EntryZone(e.Position), pr.renderEntry(e, e.Position == v.Focus, inner)))
		}
		if v.Total > len(v.Entries) {
			b.WriteString("\n")
			b.WriteString(pr.styles.Scroll.Render(fmt.Sprintf("%d-%d of %d", v.Offset+1, v.Offset+len(v.Entries), v.Total)))
		}
	}

	return pr.box(b.String(), inner)
}

func (pr *PaletteRenderer) box(content string, inner int) string {
	return zone.Mark(PaletteZone, pr.styles.Palette.Width(inner+2).Render(content))
}

// renderEntry draws one row: shortcut, icon, highlighted name and info
func (pr *PaletteRenderer) renderEntry(e listing.Entry, focused bool, inner int) string {
	cmd := e.Match.Command

	shortcut := "  "
	if n := e.Shortcut(); n > 0 {
		shortcut = fmt.Sprintf("%d ", n)
	}
	prefix := pr.styles.Shortcut.Render(shortcut)
	used := 2

	if icon := iconGlyph(cmd.Icon); icon != "" {
		prefix += pr.styles.Icon.Render(icon) + " "
		used += runewidth.StringWidth(icon) + 1
	}

	nameStyle := lipgloss.NewStyle()
	if cmd.SearchResult {
		nameStyle = pr.styles.SearchResult
	}
	if cmd.Warn {
		nameStyle = pr.styles.StatusWarning
	}

	room := inner - used
	name := highlight(cmd.Name, e.Match.NameMatches, room, nameStyle, pr.styles.Highlight)
	room -= runewidth.StringWidth(cmd.Name)

	line := prefix + name
	if cmd.Info != "" && room > 4 {
		line += "  " + highlight(cmd.Info, e.Match.InfoMatches, room-2, pr.styles.Info, pr.styles.Highlight)
	}
	if cmd.More {
		line += pr.styles.Dim.Render(" ›")
	}

	if focused {
		return pr.styles.SelectionBg.Width(inner).Render(line)
	}
	return line
}

// iconGlyph returns the text drawn for an icon
func iconGlyph(icon *domain.Icon) string {
	if icon == nil {
		return ""
	}
	switch icon.Kind {
	case domain.IconFont:
		if icon.Content == "" {
			return ""
		}
		return runewidth.Truncate(icon.Content, 2, "")
	case domain.IconSVG:
		return "◆"
	}
	return ""
}

// highlight renders text truncated to width columns with the runes at
// positions emphasized
func highlight(text string, positions []int, width int, base, hl lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	marked := make(map[int]bool, len(positions))
	for _, p := range positions {
		marked[p] = true
	}

	runes := []rune(text)
	limit := width
	if runewidth.StringWidth(text) > width {
		limit = width - 1 // room for the ellipsis
	}

	var b strings.Builder
	used := 0
	for i, r := range runes {
		w := runewidth.RuneWidth(r)
		if used+w > limit {
			b.WriteString(base.Render("…"))
			break
		}
		used += w
		if marked[i] {
			b.WriteString(hl.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}
	return b.String()
}

func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}
