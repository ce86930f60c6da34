package listing

import "cmdpal/internal/matcher"

// QuickSelectSlots is the number of leading positions reachable by digit shortcuts
const QuickSelectSlots = 9

// Entry is one displayed row
type Entry struct {
	// Position is the zero-based rank of the row in the current display list
	Position int
	Match    matcher.Match
}

// Shortcut returns the digit (1-9) that selects this entry, or 0 when it has none.
func (e Entry) Shortcut() int {
	if e.Position < QuickSelectSlots {
		return e.Position + 1
	}
	return 0
}

// List is the display list built from a match result. It owns focus and the
// scroll viewport; both reset on every Render.
type List struct {
	entries []Entry
	focus   int // -1 when empty
	offset  int
	height  int
}

// New creates an empty list showing at most height rows at once
func New(height int) *List {
	if height < 1 {
		height = 1
	}
	return &List{focus: -1, height: height}
}

// Render rebuilds the display list from ranked matches and focuses position 0
func (l *List) Render(matches []matcher.Match) {
	l.entries = make([]Entry, len(matches))
	for i, m := range matches {
		l.entries[i] = Entry{Position: i, Match: m}
	}
	l.offset = 0
	if len(l.entries) > 0 {
		l.focus = 0
	} else {
		l.focus = -1
	}
}

// Clear empties the list
func (l *List) Clear() {
	l.Render(nil)
}

// Len returns the number of entries
func (l *List) Len() int {
	return len(l.entries)
}

// Entries returns all entries in position order
func (l *List) Entries() []Entry {
	return l.entries
}

// At returns the entry at position pos
func (l *List) At(pos int) (Entry, bool) {
	if pos < 0 || pos >= len(l.entries) {
		return Entry{}, false
	}
	return l.entries[pos], true
}

// Focused returns the focused entry
func (l *List) Focused() (Entry, bool) {
	return l.At(l.focus)
}

// FocusIndex returns the focused position, -1 when the list is empty
func (l *List) FocusIndex() int {
	return l.focus
}

// Offset returns the first visible position
func (l *List) Offset() int {
	return l.offset
}

// Height returns the viewport height in rows
func (l *List) Height() int {
	return l.height
}

// SetHeight changes the viewport height and keeps the focused row visible
func (l *List) SetHeight(height int) {
	if height < 1 {
		height = 1
	}
	l.height = height
	l.ensureFocusVisible()
}

// Visible returns the entries inside the viewport
func (l *List) Visible() []Entry {
	end := l.offset + l.height
	if end > len(l.entries) {
		end = len(l.entries)
	}
	if l.offset >= end {
		return nil
	}
	return l.entries[l.offset:end]
}

// Focus moves focus to pos if it exists
func (l *List) Focus(pos int) bool {
	if pos < 0 || pos >= len(l.entries) {
		return false
	}
	l.focus = pos
	l.ensureFocusVisible()
	return true
}

// MoveUp focuses the previous entry; there is no wraparound
func (l *List) MoveUp() bool {
	return l.Focus(l.focus - 1)
}

// MoveDown focuses the next entry; there is no wraparound
func (l *List) MoveDown() bool {
	return l.Focus(l.focus + 1)
}

// PageUp moves focus one viewport up, stopping at the first entry
func (l *List) PageUp() bool {
	if len(l.entries) == 0 || l.focus == 0 {
		return false
	}
	target := l.focus - l.height
	if target < 0 {
		target = 0
	}
	return l.Focus(target)
}

// PageDown moves focus one viewport down, stopping at the last entry
func (l *List) PageDown() bool {
	last := len(l.entries) - 1
	if last < 0 || l.focus == last {
		return false
	}
	target := l.focus + l.height
	if target > last {
		target = last
	}
	return l.Focus(target)
}

// ensureFocusVisible scrolls the minimum amount needed to show the focused entry
func (l *List) ensureFocusVisible() {
	if l.focus < 0 {
		l.offset = 0
		return
	}

	if l.focus < l.offset {
		l.offset = l.focus
	}
	if l.focus >= l.offset+l.height {
		l.offset = l.focus - l.height + 1
	}

	maxOffset := len(l.entries) - l.height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if l.offset > maxOffset {
		l.offset = maxOffset
	}
	if l.offset < 0 {
		l.offset = 0
	}
}
