// Package report renders the markdown summary posted to a pull request after
// documentation has been updated.
package report

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/docpatch/internal/changeset"
	"github.com/ariel-frischer/docpatch/internal/diff"
)

// Heading opens every summary comment. It is also used to find an earlier
// comment to replace.
const Heading = "## 📚 Documentation Update Preview"

const footer = "*🤖 Generated by docpatch*"

// Comment builds the summary comment for cs. diffPreview is the unified diff
// of the updated documents; it is cut to maxLines lines, and omitted when
// maxLines is zero or the diff is empty.
func Comment(cs *changeset.ChangeSet, diffPreview string, maxLines int) string {
	var b strings.Builder

	b.WriteString(Heading + "\n\n")
	b.WriteString("Significant changes were detected and the documentation was updated.\n\n")

	b.WriteString("### Analysis Summary\n")
	fmt.Fprintf(&b, "**Significance:** %s\n\n", strings.ToUpper(string(cs.Significance)))

	writeList(&b, "New Features Added", cs.NewFeatures)
	writeList(&b, "Features Removed", cs.RemovedFeatures)
	writeList(&b, "Features Changed", cs.ModifiedFeatures)
	writeList(&b, "Configuration Changes", cs.ConfigurationUpdates)

	if cs.Summary != "" {
		fmt.Fprintf(&b, "**Summary:**\n%s\n\n", cs.Summary)
	}

	if maxLines > 0 && strings.TrimSpace(diffPreview) != "" {
		preview, _ := diff.Truncate(diffPreview, maxLines)
		b.WriteString("### Documentation Changes\n\n")
		b.WriteString("<details>\n<summary>Click to view diff</summary>\n\n")
		b.WriteString("```diff\n")
		b.WriteString(preview)
		if !strings.HasSuffix(preview, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("```\n\n</details>\n\n")
	}

	b.WriteString("---\n\n")
	b.WriteString(footer + "\n")
	return b.String()
}

// Section formats one labelled diff for inclusion in a combined preview.
func Section(path, d string) string {
	if d == "" {
		return ""
	}
	if !strings.HasSuffix(d, "\n") {
		d += "\n"
	}
	return fmt.Sprintf("--- %s ---\n%s", path, d)
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s:**\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}
