// Package htmltext turns the HTML fragments returned by commands into
// wrapped plain text for the terminal.
package htmltext

import (
	"strings"
	"unicode"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var blockTags = map[atom.Atom]bool{
	atom.Div: true, atom.Section: true, atom.Article: true, atom.Header: true,
	atom.Footer: true, atom.Nav: true, atom.Main: true, atom.Aside: true,
	atom.Ul: true, atom.Ol: true, atom.Dl: true, atom.Dt: true, atom.Dd: true,
	atom.Table: true, atom.Tr: true, atom.Form: true, atom.Fieldset: true,
	atom.Blockquote: true, atom.Figure: true, atom.Figcaption: true,
}

var paragraphTags = map[atom.Atom]bool{
	atom.P: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true,
}

var skippedTags = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Head: true, atom.Title: true,
	atom.Template: true, atom.Noscript: true, atom.Svg: true,
}

// Text converts an HTML fragment to plain text. Scripts and styles are
// dropped, block elements start new lines and links keep their target.
func Text(fragment string) string {
	w := &writer{}
	z := html.NewTokenizer(strings.NewReader(fragment))

	var href string
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return tidy(w.String())

		case html.TextToken:
			if skip > 0 {
				continue
			}
			w.text(string(z.Text()))

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := atom.Lookup(name)
			switch {
			case skippedTags[tag]:
				if tt == html.StartTagToken {
					skip++
				}
			case tag == atom.Br:
				w.WriteByte('\n')
			case tag == atom.Hr:
				w.newline()
				w.WriteString(strings.Repeat("─", 8))
				w.newline()
			case tag == atom.Li:
				w.newline()
				w.WriteString("• ")
			case tag == atom.Pre:
				w.newline()
				w.pre++
			case tag == atom.A && hasAttr:
				href = attr(z, "href")
			case paragraphTags[tag]:
				w.paragraph()
			case blockTags[tag]:
				w.newline()
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := atom.Lookup(name)
			switch {
			case skippedTags[tag]:
				if skip > 0 {
					skip--
				}
			case tag == atom.Pre:
				if w.pre > 0 {
					w.pre--
				}
				w.newline()
			case tag == atom.A:
				if href != "" && !strings.HasPrefix(href, "#") && !strings.HasPrefix(href, "javascript:") {
					w.WriteString(" (" + href + ")")
				}
				href = ""
			case tag == atom.Td || tag == atom.Th:
				w.WriteString("  ")
			case paragraphTags[tag]:
				w.paragraph()
			case blockTags[tag]:
				w.newline()
			}
		}
	}
}

// Render converts a fragment and wraps it to width columns. Words longer
// than the width are broken.
func Render(fragment string, width int) string {
	text := Text(fragment)
	if width <= 0 || text == "" {
		return text
	}
	return wrap.String(wordwrap.String(text, width), width)
}

// Document renders the head, body and foot assets of a response in order,
// skipping parts that carry no visible text.
func Document(head, body, foot string, width int) string {
	var parts []string
	for _, fragment := range []string{head, body, foot} {
		if text := Render(fragment, width); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

func attr(z *html.Tokenizer, key string) string {
	for {
		k, v, more := z.TagAttr()
		if string(k) == key {
			return string(v)
		}
		if !more {
			return ""
		}
	}
}

type writer struct {
	strings.Builder
	pre int
}

func (w *writer) last() byte {
	s := w.String()
	if s == "" {
		return '\n'
	}
	return s[len(s)-1]
}

func (w *writer) newline() {
	if w.Len() > 0 && w.last() != '\n' {
		w.WriteByte('\n')
	}
}

func (w *writer) paragraph() {
	if w.Len() == 0 {
		return
	}
	w.newline()
	if !strings.HasSuffix(w.String(), "\n\n") {
		w.WriteByte('\n')
	}
}

// text writes a text node; outside <pre> whitespace runs collapse to a space
func (w *writer) text(s string) {
	if w.pre > 0 {
		w.WriteString(s)
		return
	}
	collapsed := strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
	if collapsed == "" {
		if s != "" && w.last() != ' ' && w.last() != '\n' {
			w.WriteByte(' ')
		}
		return
	}
	if unicode.IsSpace(rune(s[0])) && w.last() != ' ' && w.last() != '\n' {
		w.WriteByte(' ')
	}
	w.WriteString(collapsed)
	if unicode.IsSpace(rune(s[len(s)-1])) {
		w.WriteByte(' ')
	}
}

// tidy trims trailing spaces and collapses runs of blank lines
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.Trim(strings.Join(out, "\n"), "\n")
}
