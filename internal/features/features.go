// Package features merges feature bullets, configuration notes and
// structured feature entries into a parsed document.
package features

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ariel-frischer/docpatch/internal/changeset"
	"github.com/ariel-frischer/docpatch/internal/document"
)

const (
	// FeaturesTitle is the heading used when a features section is created.
	FeaturesTitle = "Features"
	// ConfigurationTitle is the heading used when a configuration section is created.
	ConfigurationTitle = "Configuration"

	sectionLevel = 2
	entryLevel   = 3
	maxLevel     = 6
)

// FeatureTitles are the synonyms tried, in order, to locate the features section.
var FeatureTitles = []string{"Features", "Key Features", "Functionality", "What it does"}

// ConfigurationTitles are the synonyms tried, in order, to locate the
// configuration section.
var ConfigurationTitles = []string{"Configuration", "Config", "Environment", "Setup"}

var bulletPattern = regexp.MustCompile(`^\s*[-*+]\s+(.*)$`)

// Merger applies feature-level edits to one document. Every method reports
// whether the document text changed.
type Merger struct {
	doc *document.Document
	log zerolog.Logger
}

// Option configures a Merger.
type Option func(*Merger)

// WithLogger sets the logger used for debug output.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Merger) {
		m.log = log
	}
}

// NewMerger returns a Merger editing doc in place.
func NewMerger(doc *document.Document, opts ...Option) *Merger {
	m := &Merger{doc: doc, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Apply runs every feature-level edit a ChangeSet calls for: new features,
// removals, modified features, configuration notes and structured entries.
// Items the same removals would delete are not added, so applying a
// ChangeSet twice leaves the document as the first run left it.
func (m *Merger) Apply(cs *changeset.ChangeSet) bool {
	removed := needles(cs.RemovedFeatures)
	modified := m.AddFeatures(survivors(cs.NewFeatures, removed))
	modified = m.RemoveFeatures(cs.RemovedFeatures) || modified
	modified = m.UpdateFeatures(survivors(cs.ModifiedFeatures, removed)) || modified
	modified = m.UpdateConfiguration(cs.ConfigurationUpdates) || modified
	modified = m.AddStructuredEntries(cs.DocumentationEntries) || modified
	return modified
}

// AddFeatures appends each item as a bullet to the features section unless
// the section already mentions it (case-insensitive substring). When no
// features section exists one is created after the document title.
func (m *Merger) AddFeatures(items []string) bool {
	return m.appendBullets(FeatureTitles, FeaturesTitle, items, m.featuresIndex)
}

// UpdateFeatures records modified features. It merges exactly like
// AddFeatures.
func (m *Merger) UpdateFeatures(items []string) bool {
	return m.AddFeatures(items)
}

// UpdateConfiguration appends configuration notes to the configuration
// section, creating it after the features section (or where a features
// section would go) when missing.
func (m *Merger) UpdateConfiguration(items []string) bool {
	return m.appendBullets(ConfigurationTitles, ConfigurationTitle, items, m.configurationIndex)
}

// RemoveFeatures deletes, from every section including the preamble, each
// bullet line whose text contains one of items (case-insensitive).
func (m *Merger) RemoveFeatures(items []string) bool {
	removed := needles(items)
	if len(removed) == 0 {
		return false
	}

	match := func(line string) bool {
		sub := bulletPattern.FindStringSubmatch(line)
		return sub != nil && containsAny(sub[1], removed)
	}

	modified := false
	for _, s := range m.doc.All() {
		body, removed := document.DeleteLines(s.Body, match)
		if !removed {
			continue
		}
		s.Body = body
		modified = true
		m.log.Debug().Str("section", s.Title).Msg("removed feature bullets")
	}
	return modified
}

// AddStructuredEntries adds each entry as a sub-heading of the features
// section, followed by its description and optional input/output bullets.
// Entries whose name already heads a sub-section are skipped.
func (m *Merger) AddStructuredEntries(entries []changeset.DocumentationEntry) bool {
	pending := make([]changeset.DocumentationEntry, 0, len(entries))
	for _, e := range entries {
		if changeset.OneLine(e.Name) != "" {
			pending = append(pending, e)
		}
	}
	if len(pending) == 0 {
		return false
	}

	target := m.doc.Find(FeatureTitles...)
	if target == nil {
		target = &document.Section{Title: FeaturesTitle, Level: sectionLevel}
		m.doc.InsertSection(m.featuresIndex(), target)
		m.log.Debug().Str("section", target.Title).Msg("created section")
	}

	parent := m.doc.IndexOf(target)
	level := max(entryLevel, target.Level+1)
	if level > maxLevel {
		level = maxLevel
	}

	seen := make(map[string]bool)
	for _, s := range m.doc.Descendants(parent) {
		seen[s.Title] = true
	}

	added := 0
	for _, e := range pending {
		name := changeset.OneLine(e.Name)
		if seen[name] {
			continue
		}
		seen[name] = true
		m.doc.InsertSection(m.doc.SubtreeEnd(parent), &document.Section{
			Title: name,
			Level: level,
			Body:  entryBody(e),
		})
		added++
	}
	if added > 0 {
		m.log.Debug().Str("section", target.Title).Int("entries", added).Msg("added structured entries")
	}
	return added > 0
}

// appendBullets is the shared find-or-create path for bullet sections.
func (m *Merger) appendBullets(synonyms []string, title string, items []string, insertAt func() int) bool {
	target := m.doc.Find(synonyms...)

	var existing string
	if target != nil {
		existing = strings.ToLower(target.Body)
	}

	var lines []string
	for _, item := range items {
		item = changeset.OneLine(item)
		if item == "" {
			continue
		}
		lower := strings.ToLower(item)
		if strings.Contains(existing, lower) {
			continue
		}
		existing += "\n" + lower
		lines = append(lines, "- "+item)
	}
	if len(lines) == 0 {
		return false
	}

	if target != nil {
		target.Body = document.AppendLines(target.Body, lines...)
		m.log.Debug().Str("section", target.Title).Int("bullets", len(lines)).Msg("appended bullets")
		return true
	}

	s := &document.Section{Title: title, Level: sectionLevel, Body: document.AppendLines("", lines...)}
	m.doc.InsertSection(insertAt(), s)
	m.log.Debug().Str("section", title).Int("bullets", len(lines)).Msg("created section")
	return true
}

// featuresIndex is where a new features section goes: right after a leading
// level-1 title section, otherwise before the first heading.
func (m *Merger) featuresIndex() int {
	if len(m.doc.Sections) > 0 && m.doc.Sections[0].Level == 1 {
		return 1
	}
	return 0
}

// configurationIndex places a new configuration section after the features
// subtree, or where a features section would go.
func (m *Merger) configurationIndex() int {
	if s := m.doc.Find(FeatureTitles...); s != nil {
		return m.doc.SubtreeEnd(m.doc.IndexOf(s))
	}
	return m.featuresIndex()
}

// needles lowercases and one-lines the removal items, dropping empty ones.
func needles(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if n := strings.ToLower(changeset.OneLine(item)); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func containsAny(text string, lowered []string) bool {
	text = strings.ToLower(text)
	for _, n := range lowered {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// survivors drops the items a removal of lowered would delete again.
func survivors(items, lowered []string) []string {
	if len(lowered) == 0 {
		return items
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !containsAny(changeset.OneLine(item), lowered) {
			out = append(out, item)
		}
	}
	return out
}

func entryBody(e changeset.DocumentationEntry) string {
	var b strings.Builder
	b.WriteString("\n")

	desc := changeset.OneLine(e.Description)
	if desc != "" {
		b.WriteString(desc)
		b.WriteString("\n")
	}

	input := changeset.OneLine(e.Input)
	output := changeset.OneLine(e.Output)
	if input == "" && output == "" {
		return b.String()
	}
	if desc != "" {
		b.WriteString("\n")
	}
	if input != "" {
		b.WriteString("- **Input:** " + input + "\n")
	}
	if output != "" {
		b.WriteString("- **Output:** " + output + "\n")
	}
	return b.String()
}
