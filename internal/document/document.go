// Package document parses markdown-like text into an ordered list of
// header-delimited sections and rebuilds text from that list.
//
// A Document keeps the text before the first heading as a level-0 preamble
// and every heading (1-6 '#' markers, whitespace, title) as a Section whose
// body is every line up to the next heading. Bodies keep their line
// terminators, so rendering an unmodified Document reproduces the input.
// Structural edits (InsertSection) normalise the blank line in front of the
// inserted heading; byte-exact spacing around edits is not preserved.
package document

import (
	"regexp"
	"strings"
)

// headingPattern matches an ATX heading line. Lines with markers but no
// whitespace after them ("#tag") are ordinary body text.
var headingPattern = regexp.MustCompile(`^(#{1,6})[ \t]+(.+)$`)

// Section is a heading-delimited region of a document.
type Section struct {
	Title string
	// Level is 1-6 for headings and 0 for the preamble.
	Level int
	// Body holds the lines following the heading, each with its terminator.
	Body string
}

// Heading returns the reconstructed heading line without terminator.
func (s *Section) Heading() string {
	if s.Level == 0 {
		return ""
	}
	return strings.Repeat("#", s.Level) + " " + s.Title
}

// Document is an ordered sequence of sections plus an optional preamble.
// It is not safe for concurrent use.
type Document struct {
	Preamble *Section
	Sections []*Section

	// index maps a title to the position of its first occurrence.
	index map[string]int
}

// ParseHeading reports whether line is a heading and returns its level and
// trimmed title.
func ParseHeading(line string) (level int, title string, ok bool) {
	m := headingPattern.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
	if m == nil {
		return 0, "", false
	}
	title = strings.TrimSpace(m[2])
	if title == "" {
		return 0, "", false
	}
	return len(m[1]), title, true
}

// Parse splits text into a Document. It never fails: malformed heading
// markers are kept as body text and no line is dropped.
func Parse(text string) *Document {
	doc := &Document{}

	var current *Section
	var body strings.Builder
	var preamble strings.Builder

	closeCurrent := func() {
		if current != nil {
			current.Body = body.String()
			body.Reset()
		}
	}

	for _, line := range SplitLines(text) {
		if level, title, ok := ParseHeading(line); ok {
			closeCurrent()
			current = &Section{Title: title, Level: level}
			doc.Sections = append(doc.Sections, current)
			continue
		}
		if current == nil {
			preamble.WriteString(line)
		} else {
			body.WriteString(line)
		}
	}
	closeCurrent()

	if preamble.Len() > 0 {
		doc.Preamble = &Section{Level: 0, Body: preamble.String()}
	}
	doc.reindex()
	return doc
}

// Render rebuilds the document text: preamble first, then every section's
// heading line followed by its body, in document order.
func (d *Document) Render() string {
	var b strings.Builder
	if d.Preamble != nil {
		b.WriteString(d.Preamble.Body)
	}
	for _, s := range d.Sections {
		b.WriteString(s.Heading())
		b.WriteString("\n")
		b.WriteString(s.Body)
	}
	return b.String()
}

// String implements fmt.Stringer.
func (d *Document) String() string {
	return d.Render()
}

// Len returns the number of heading sections (the preamble is not counted).
func (d *Document) Len() int {
	return len(d.Sections)
}

// IsEmpty reports whether the document has neither preamble nor sections.
func (d *Document) IsEmpty() bool {
	return d.Preamble == nil && len(d.Sections) == 0
}

// InsertSection inserts s at position i (clamped to [0, Len()]) and keeps a
// blank line between the preceding content and the new heading, and between
// the new section and a following heading.
func (d *Document) InsertSection(i int, s *Section) {
	if i < 0 {
		i = 0
	}
	if i > len(d.Sections) {
		i = len(d.Sections)
	}

	d.Sections = append(d.Sections, nil)
	copy(d.Sections[i+1:], d.Sections[i:])
	d.Sections[i] = s

	if i == 0 {
		if d.Preamble != nil {
			d.Preamble.Body = separate(d.Preamble.Body, true)
		}
	} else {
		prev := d.Sections[i-1]
		prev.Body = separate(prev.Body, false)
	}
	if i+1 < len(d.Sections) {
		s.Body = separate(s.Body, false)
	}

	d.reindex()
}

// IndexOf returns the position of s in the document, or -1.
func (d *Document) IndexOf(s *Section) int {
	for i, sec := range d.Sections {
		if sec == s {
			return i
		}
	}
	return -1
}

// SubtreeEnd returns the position just past the last descendant of the
// section at i, that is the next section whose level is not deeper.
func (d *Document) SubtreeEnd(i int) int {
	if i < 0 || i >= len(d.Sections) {
		return len(d.Sections)
	}
	level := d.Sections[i].Level
	for j := i + 1; j < len(d.Sections); j++ {
		if d.Sections[j].Level <= level {
			return j
		}
	}
	return len(d.Sections)
}

// Descendants returns the sections nested under the section at i.
func (d *Document) Descendants(i int) []*Section {
	if i < 0 || i >= len(d.Sections) {
		return nil
	}
	return d.Sections[i+1 : d.SubtreeEnd(i)]
}

// All returns the preamble (when present) followed by every section.
func (d *Document) All() []*Section {
	all := make([]*Section, 0, len(d.Sections)+1)
	if d.Preamble != nil {
		all = append(all, d.Preamble)
	}
	return append(all, d.Sections...)
}

func (d *Document) reindex() {
	d.index = make(map[string]int, len(d.Sections))
	for i, s := range d.Sections {
		if _, seen := d.index[s.Title]; !seen {
			d.index[s.Title] = i
		}
	}
}

// separate makes body end in a blank line so a following heading stands
// apart. A body that is already blank counts as a separator.
func separate(body string, preamble bool) string {
	switch {
	case strings.TrimSpace(body) == "":
		if body == "" && !preamble {
			return "\n"
		}
		return body
	case strings.HasSuffix(body, "\n\n"):
		return body
	case strings.HasSuffix(body, "\n"):
		return body + "\n"
	default:
		return body + "\n\n"
	}
}
