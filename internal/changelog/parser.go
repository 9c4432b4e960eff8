package changelog

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ariel-frischer/docpatch/internal/document"
)

var (
	// blockHeadingPattern splits a block heading into label and optional date.
	blockHeadingPattern = regexp.MustCompile(`^(.+?)(?:\s+\(([^)]*)\))?$`)
	bulletPattern       = regexp.MustCompile(`^\s*[-*+]\s+(.*\S)\s*$`)
)

// Load reads the release-notes file at path and returns its blocks.
func Load(path string) (*Changelog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading changelog file: %w", err)
	}
	return Read(document.Parse(string(data))), nil
}

// Read collects every level-2 block of doc in document order. Level-3
// sections inside a block become its categories; bullets elsewhere in the
// block are ignored (see Check).
func Read(doc *document.Document) *Changelog {
	c := &Changelog{}
	var current *VersionBlock

	for _, s := range doc.Sections {
		switch {
		case s.Level <= blockLevel:
			if current != nil {
				c.Versions = append(c.Versions, *current)
				current = nil
			}
			if s.Level == blockLevel {
				label, date := splitHeading(s.Title)
				current = &VersionBlock{Label: label, Date: date}
			}
		case s.Level == categoryLevel && current != nil:
			name := Category(s.Title)
			if known, ok := ParseCategory(s.Title); ok {
				name = known
			}
			current.Categories = append(current.Categories, CategoryItems{
				Name:  name,
				Items: bullets(s.Body),
			})
		}
	}
	if current != nil {
		c.Versions = append(c.Versions, *current)
	}
	return c
}

// splitHeading returns the label and the parenthesised date of a block heading.
func splitHeading(title string) (label, date string) {
	m := blockHeadingPattern.FindStringSubmatch(title)
	if m == nil {
		return title, ""
	}
	return m[1], strings.TrimSpace(m[2])
}

func bullets(body string) []string {
	var items []string
	for _, line := range document.SplitLines(body) {
		if m := bulletPattern.FindStringSubmatch(strings.TrimRight(line, "\r\n")); m != nil {
			items = append(items, m[1])
		}
	}
	return items
}

// NormalizeVersion normalizes a version label for comparison by lowering
// case and removing a leading "v", so "v0.6.0" and "0.6.0" are equal.
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(version)), "v")
}
