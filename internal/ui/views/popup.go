package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay draws popup over a desaturated copy of mainContent,
// horizontally centered and starting at row top.
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popup string, width, height, top int) string {
	base := strings.Split(ansiRE.ReplaceAllString(mainContent, ""), "\n")
	for len(base) < height {
		base = append(base, "")
	}

	popupLines := strings.Split(popup, "\n")
	popupW := lipgloss.Width(popup)
	x := (width - popupW) / 2
	if x < 0 {
		x = 0
	}
	if top < 0 || top+len(popupLines) > len(base) {
		top = 0
	}

	out := make([]string, len(base))
	for i, line := range base {
		out[i] = pr.styles.Backdrop.Render(line)
	}

	for i, line := range popupLines {
		row := top + i
		if row >= len(base) {
			break
		}
		plain := base[row]
		left := runewidth.FillRight(runewidth.Truncate(plain, x, ""), x)
		right := cutLeft(plain, x+popupW)
		pad := popupW - lipgloss.Width(line)
		if pad < 0 {
			pad = 0
		}
		out[row] = pr.styles.Backdrop.Render(left) + line + strings.Repeat(" ", pad) + pr.styles.Backdrop.Render(right)
	}

	if height > 0 && len(out) > height {
		out = out[:height]
	}
	return strings.Join(out, "\n")
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// cutLeft drops the first width columns of s
func cutLeft(s string, width int) string {
	used := 0
	for i, r := range s {
		if used >= width {
			return s[i:]
		}
		used += runewidth.RuneWidth(r)
	}
	return ""
}
