package document

import "strings"

// Find resolves a section from an ordered list of candidate titles.
// Candidates are tried in order; for each one the sections are scanned in
// document order for a case-insensitive substring match on the title, so
// "Features" also finds "Key Features". The preamble is never returned.
func (d *Document) Find(candidates ...string) *Section {
	for _, candidate := range candidates {
		needle := strings.ToLower(strings.TrimSpace(candidate))
		if needle == "" {
			continue
		}
		for _, s := range d.Sections {
			if strings.Contains(strings.ToLower(s.Title), needle) {
				return s
			}
		}
	}
	return nil
}

// Lookup returns the first section whose title equals title exactly.
// When several headings share a title the earliest one is addressable;
// later ones stay in the document and are still rendered.
func (d *Document) Lookup(title string) (*Section, bool) {
	if d.index == nil {
		d.reindex()
	}
	i, ok := d.index[title]
	if !ok {
		return nil, false
	}
	return d.Sections[i], true
}

// Titles returns every section title in document order, duplicates included.
func (d *Document) Titles() []string {
	titles := make([]string, len(d.Sections))
	for i, s := range d.Sections {
		titles[i] = s.Title
	}
	return titles
}
