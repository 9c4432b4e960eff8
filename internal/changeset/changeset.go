// Package changeset defines the categorised change-description record that
// drives document updates, together with loaders for the formats the
// classification step produces.
package changeset

import (
	"strings"
)

// Significance is the coarse severity of a change.
type Significance string

const (
	SignificanceLow    Significance = "low"
	SignificanceMedium Significance = "medium"
	SignificanceHigh   Significance = "high"
)

// ParseSignificance maps s to a Significance. Case and surrounding space are
// ignored; an empty value is low and an unrecognised one is medium.
func ParseSignificance(s string) Significance {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return SignificanceLow
	case "low":
		return SignificanceLow
	case "high":
		return SignificanceHigh
	default:
		return SignificanceMedium
	}
}

// IsValid reports whether s is one of the three known levels.
func (s Significance) IsValid() bool {
	switch s {
	case SignificanceLow, SignificanceMedium, SignificanceHigh:
		return true
	}
	return false
}

// Rank orders significance levels: low < medium < high.
func (s Significance) Rank() int {
	switch s {
	case SignificanceHigh:
		return 2
	case SignificanceMedium:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether s ranks at or above min.
func (s Significance) AtLeast(min Significance) bool {
	return s.Rank() >= min.Rank()
}

// DocumentationEntry is a structured, user-facing feature description.
type DocumentationEntry struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	Description string `json:"description" yaml:"description" toml:"description"`
	Input       string `json:"input,omitempty" yaml:"input,omitempty" toml:"input,omitempty"`
	Output      string `json:"output,omitempty" yaml:"output,omitempty" toml:"output,omitempty"`
}

// ChangeSet describes the changes detected in a code change. Every field is
// optional: absent lists are empty and an absent significance is low.
type ChangeSet struct {
	NewFeatures          []string             `json:"new_features,omitempty" yaml:"new_features,omitempty" toml:"new_features,omitempty"`
	RemovedFeatures      []string             `json:"removed_features,omitempty" yaml:"removed_features,omitempty" toml:"removed_features,omitempty"`
	ModifiedFeatures     []string             `json:"modified_features,omitempty" yaml:"modified_features,omitempty" toml:"modified_features,omitempty"`
	ConfigurationUpdates []string             `json:"configuration_updates,omitempty" yaml:"configuration_updates,omitempty" toml:"configuration_updates,omitempty"`
	DocumentationEntries []DocumentationEntry `json:"documentation_entries,omitempty" yaml:"documentation_entries,omitempty" toml:"documentation_entries,omitempty"`
	Significance         Significance         `json:"significance,omitempty" yaml:"significance,omitempty" toml:"significance,omitempty"`
	Summary              string               `json:"summary,omitempty" yaml:"summary,omitempty" toml:"summary,omitempty"`
}

// Normalize trims every item, folds embedded line breaks into single spaces,
// drops blank items and entries without a name, and canonicalises the
// significance. It is safe to call more than once.
func (c *ChangeSet) Normalize() {
	c.NewFeatures = cleanItems(c.NewFeatures)
	c.RemovedFeatures = cleanItems(c.RemovedFeatures)
	c.ModifiedFeatures = cleanItems(c.ModifiedFeatures)
	c.ConfigurationUpdates = cleanItems(c.ConfigurationUpdates)

	entries := c.DocumentationEntries[:0]
	for _, e := range c.DocumentationEntries {
		e.Name = OneLine(e.Name)
		e.Description = OneLine(e.Description)
		e.Input = OneLine(e.Input)
		e.Output = OneLine(e.Output)
		if e.Name == "" {
			continue
		}
		entries = append(entries, e)
	}
	c.DocumentationEntries = entries

	c.Significance = ParseSignificance(string(c.Significance))
	c.Summary = strings.TrimSpace(c.Summary)
}

// IsEmpty reports whether none of the changelog categories (new, removed,
// modified, configuration) has an item.
func (c *ChangeSet) IsEmpty() bool {
	return len(c.NewFeatures) == 0 &&
		len(c.RemovedFeatures) == 0 &&
		len(c.ModifiedFeatures) == 0 &&
		len(c.ConfigurationUpdates) == 0
}

// HasChanges reports whether any list, documentation entries included, has
// an item.
func (c *ChangeSet) HasChanges() bool {
	return !c.IsEmpty() || len(c.DocumentationEntries) > 0
}

// Count returns the total number of items across all lists.
func (c *ChangeSet) Count() int {
	return len(c.NewFeatures) +
		len(c.RemovedFeatures) +
		len(c.ModifiedFeatures) +
		len(c.ConfigurationUpdates) +
		len(c.DocumentationEntries)
}

// ShouldUpdate reports whether documents should be touched for this change:
// there are new, removed or configuration items, or the significance is at
// least min.
func (c *ChangeSet) ShouldUpdate(min Significance) bool {
	hasChanges := len(c.NewFeatures) > 0 ||
		len(c.RemovedFeatures) > 0 ||
		len(c.ConfigurationUpdates) > 0
	return hasChanges || c.Significance.AtLeast(min)
}

func cleanItems(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = OneLine(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// OneLine trims s and replaces line breaks (with their surrounding space)
// by a single space so an item always renders as one line and can never
// start a heading of its own.
func OneLine(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	lines := strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' })
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, " ")
}
