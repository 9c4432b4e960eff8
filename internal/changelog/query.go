package changelog

import (
	"fmt"
	"strings"
)

// UnknownVersionError reports a label with no matching block.
type UnknownVersionError struct {
	Label string
	Known []string
}

func (e *UnknownVersionError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("version %q not found (changelog has no versions)", e.Label)
	}
	return fmt.Sprintf("version %q not found (available: %s)", e.Label, strings.Join(e.Known, ", "))
}

// Find returns the first block whose label matches label, ignoring case and
// a leading "v".
func (c *Changelog) Find(label string) (*VersionBlock, error) {
	want := NormalizeVersion(label)
	for i := range c.Versions {
		if NormalizeVersion(c.Versions[i].Label) == want {
			return &c.Versions[i], nil
		}
	}
	return nil, &UnknownVersionError{Label: label, Known: c.Labels()}
}

// Labels lists block labels in document order.
func (c *Changelog) Labels() []string {
	labels := make([]string, 0, len(c.Versions))
	for _, v := range c.Versions {
		labels = append(labels, v.Label)
	}
	return labels
}

// Head returns up to n entries from the top of the document.
func (c *Changelog) Head(n int) []Entry {
	head := make([]Entry, 0, max(n, 0))
	for _, v := range c.Versions {
		for _, e := range v.Entries() {
			if len(head) >= n {
				return head
			}
			head = append(head, e)
		}
	}
	return head
}

// EntryCount is the number of bullets across all blocks.
func (c *Changelog) EntryCount() int {
	n := 0
	for _, v := range c.Versions {
		n += v.Count()
	}
	return n
}
