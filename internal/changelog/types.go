package changelog

import (
	"slices"
	"strings"

	"github.com/ariel-frischer/docpatch/internal/changeset"
)

// DateLayout is the format of the date stamp in a block heading.
const DateLayout = "2006-01-02"

// Category names a changelog sub-block.
type Category string

const (
	CategoryAdded         Category = "Added"
	CategoryRemoved       Category = "Removed"
	CategoryChanged       Category = "Changed"
	CategoryConfiguration Category = "Configuration"
)

// Categories returns the recognised categories in rendering order.
func Categories() []Category {
	return []Category{CategoryAdded, CategoryRemoved, CategoryChanged, CategoryConfiguration}
}

// ParseCategory matches name against the recognised categories, ignoring case.
func ParseCategory(name string) (Category, bool) {
	for _, c := range Categories() {
		if strings.EqualFold(strings.TrimSpace(name), string(c)) {
			return c, true
		}
	}
	return "", false
}

// CategoryItems is one category of a block with its bullet texts in order.
type CategoryItems struct {
	Name  Category `yaml:"name" json:"name"`
	Items []string `yaml:"items" json:"items"`
}

// VersionBlock is the changelog entry for one version label.
// Categories keep first-seen order.
type VersionBlock struct {
	Label      string          `yaml:"label" json:"label"`
	Date       string          `yaml:"date,omitempty" json:"date,omitempty"`
	Categories []CategoryItems `yaml:"categories" json:"categories"`
}

// Entry is a flattened view of a single changelog bullet.
type Entry struct {
	Text     string   `yaml:"text" json:"text"`
	Category Category `yaml:"category" json:"category"`
	Version  string   `yaml:"version" json:"version"`
}

// Changelog is the ordered list of blocks read from a document, newest
// first when the document follows the usual layout.
type Changelog struct {
	Versions []VersionBlock `yaml:"versions" json:"versions"`
}

// BlockFromChangeSet builds the block a ChangeSet contributes: Added from
// new features, Removed from removed features, Changed from modified
// features and Configuration from configuration updates. Repeated items
// collapse and empty categories are omitted.
func BlockFromChangeSet(cs *changeset.ChangeSet, label, date string) VersionBlock {
	block := VersionBlock{Label: label, Date: date}
	sources := []struct {
		name  Category
		items []string
	}{
		{CategoryAdded, cs.NewFeatures},
		{CategoryRemoved, cs.RemovedFeatures},
		{CategoryChanged, cs.ModifiedFeatures},
		{CategoryConfiguration, cs.ConfigurationUpdates},
	}

	for _, src := range sources {
		var items []string
		for _, item := range src.items {
			if item = changeset.OneLine(item); item != "" && !slices.Contains(items, item) {
				items = append(items, item)
			}
		}
		if len(items) > 0 {
			block.Categories = append(block.Categories, CategoryItems{Name: src.name, Items: items})
		}
	}
	return block
}

// Heading returns the block heading title, "label (date)" or just the label.
func (b VersionBlock) Heading() string {
	if b.Date == "" {
		return b.Label
	}
	return b.Label + " (" + b.Date + ")"
}

// IsEmpty reports whether the block has no bullets in any category.
func (b VersionBlock) IsEmpty() bool {
	return b.Count() == 0
}

// Count returns the total number of bullets across all categories.
func (b VersionBlock) Count() int {
	n := 0
	for _, c := range b.Categories {
		n += len(c.Items)
	}
	return n
}

// Items returns the bullets of category c, or nil.
func (b VersionBlock) Items(c Category) []string {
	for _, ci := range b.Categories {
		if strings.EqualFold(string(ci.Name), string(c)) {
			return ci.Items
		}
	}
	return nil
}

// Entries returns a flattened list of all bullets in this block.
func (b VersionBlock) Entries() []Entry {
	entries := make([]Entry, 0, b.Count())
	for _, c := range b.Categories {
		for _, text := range c.Items {
			entries = append(entries, Entry{Text: text, Category: c.Name, Version: b.Label})
		}
	}
	return entries
}
