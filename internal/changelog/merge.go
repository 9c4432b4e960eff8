package changelog

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ariel-frischer/docpatch/internal/changeset"
	"github.com/ariel-frischer/docpatch/internal/document"
)

const (
	blockLevel    = 2
	categoryLevel = 3
	titleLevel    = 1
)

// DefaultAnchorTitle is the level-1 title new blocks are placed under.
const DefaultAnchorTitle = "Release Notes"

// Merger merges ChangeSets into the versioned blocks of one document.
type Merger struct {
	doc     *document.Document
	anchors []string
	log     zerolog.Logger
}

// Option configures a Merger.
type Option func(*Merger)

// WithAnchorTitles sets the level-1 titles (matched case-insensitively by
// substring) under which new blocks are inserted. The first one is used
// when a title has to be created.
func WithAnchorTitles(titles ...string) Option {
	return func(m *Merger) {
		var anchors []string
		for _, t := range titles {
			if t = strings.TrimSpace(t); t != "" {
				anchors = append(anchors, t)
			}
		}
		if len(anchors) > 0 {
			m.anchors = anchors
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Merger) {
		m.log = log
	}
}

// NewMerger returns a Merger editing doc in place.
func NewMerger(doc *document.Document, opts ...Option) *Merger {
	m := &Merger{
		doc:     doc,
		anchors: []string{DefaultAnchorTitle},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge folds cs into the block for label and reports whether the document
// changed. An existing block (heading "label" optionally followed by a
// parenthesised date) receives only bullets it does not already hold, per
// category. Otherwise a new block stamped with date is inserted. A ChangeSet
// with no categorised items is a no-op.
func (m *Merger) Merge(cs *changeset.ChangeSet, label string, date time.Time) bool {
	label = changeset.OneLine(label)
	block := BlockFromChangeSet(cs, label, date.Format(DateLayout))
	if block.IsEmpty() || label == "" {
		return false
	}

	if i := m.findBlock(label); i >= 0 {
		return m.mergeInto(i, block)
	}
	m.insertBlock(block)
	return true
}

// findBlock returns the index of the first level-2 section whose heading is
// label, with or without a date suffix.
func (m *Merger) findBlock(label string) int {
	pattern := headingPattern(label)
	for i, s := range m.doc.Sections {
		if s.Level == blockLevel && pattern.MatchString(s.Title) {
			return i
		}
	}
	return -1
}

// blockEnd returns the index just past the block starting at i: the next
// section at level 2 or above.
func (m *Merger) blockEnd(i int) int {
	for j := i + 1; j < len(m.doc.Sections); j++ {
		if m.doc.Sections[j].Level <= blockLevel {
			return j
		}
	}
	return len(m.doc.Sections)
}

func (m *Merger) findCategory(start int, name Category) *document.Section {
	for j := start + 1; j < m.blockEnd(start); j++ {
		s := m.doc.Sections[j]
		if s.Level == categoryLevel && strings.EqualFold(s.Title, string(name)) {
			return s
		}
	}
	return nil
}

func (m *Merger) mergeInto(start int, block VersionBlock) bool {
	modified := false
	for _, cat := range block.Categories {
		if s := m.findCategory(start, cat.Name); s != nil {
			var lines []string
			for _, item := range cat.Items {
				line := bullet(item)
				if document.HasLine(s.Body, line) || slices.Contains(lines, line) {
					continue
				}
				lines = append(lines, line)
			}
			if len(lines) == 0 {
				continue
			}
			s.Body = document.AppendLines(s.Body, lines...)
			modified = true
			m.log.Debug().
				Str("version", block.Label).
				Str("category", string(cat.Name)).
				Int("bullets", len(lines)).
				Msg("appended changelog bullets")
			continue
		}

		m.doc.InsertSection(m.blockEnd(start), categorySection(cat))
		modified = true
		m.log.Debug().
			Str("version", block.Label).
			Str("category", string(cat.Name)).
			Msg("added changelog category")
	}
	return modified
}

// insertBlock places a new block beneath the anchor title, before the first
// heading when there is no anchor, or under a freshly created anchor title
// when the document has no headings at all.
func (m *Merger) insertBlock(block VersionBlock) {
	at := m.anchorIndex()
	switch {
	case at >= 0:
		at++
	case len(m.doc.Sections) > 0:
		at = 0
	default:
		m.doc.InsertSection(0, &document.Section{Title: m.anchors[0], Level: titleLevel})
		at = 1
	}

	m.doc.InsertSection(at, &document.Section{Title: block.Heading(), Level: blockLevel})
	for i, cat := range block.Categories {
		m.doc.InsertSection(at+1+i, categorySection(cat))
	}
	m.log.Debug().
		Str("version", block.Label).
		Int("position", at).
		Msg("created changelog block")
}

// anchorIndex returns the first level-1 section whose title contains one of
// the anchor titles, or -1.
func (m *Merger) anchorIndex() int {
	for i, s := range m.doc.Sections {
		if s.Level != titleLevel {
			continue
		}
		title := strings.ToLower(s.Title)
		for _, a := range m.anchors {
			if strings.Contains(title, strings.ToLower(a)) {
				return i
			}
		}
	}
	return -1
}

func categorySection(cat CategoryItems) *document.Section {
	var b strings.Builder
	for _, item := range cat.Items {
		b.WriteString(bullet(item))
		b.WriteString("\n")
	}
	return &document.Section{Title: string(cat.Name), Level: categoryLevel, Body: b.String()}
}

func headingPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(label) + `(?:\s+\(([^)]*)\))?$`)
}

func bullet(item string) string {
	return "- " + changeset.OneLine(item)
}
