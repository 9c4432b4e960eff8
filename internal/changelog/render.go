package changelog

import (
	"io"
	"strings"
)

// Markdown renders b in the layout Merge writes:
//
//	## label (date)
//
//	### Added
//	- item
//
// Categories without items are left out.
func (b VersionBlock) Markdown() string {
	var sb strings.Builder
	sb.WriteString("## " + b.Heading() + "\n")
	for _, c := range b.Categories {
		if len(c.Items) == 0 {
			continue
		}
		sb.WriteString("\n### " + string(c.Name) + "\n")
		for _, item := range c.Items {
			sb.WriteString(bullet(item) + "\n")
		}
	}
	return sb.String()
}

// WriteMarkdown writes b.Markdown() to w.
func (b VersionBlock) WriteMarkdown(w io.Writer) error {
	_, err := io.WriteString(w, b.Markdown())
	return err
}
