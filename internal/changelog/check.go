package changelog

import (
	"fmt"
	"time"

	"github.com/ariel-frischer/docpatch/internal/document"
)

// Severity of a lint issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single lint finding in a release-notes document.
type Issue struct {
	Severity Severity
	Version  string
	Message  string
}

func (i Issue) String() string {
	if i.Version == "" {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Version, i.Message)
}

// Check lints doc. Duplicate labels and malformed dates are errors; empty
// blocks, empty or unknown categories and bullets outside a category are
// warnings. Merging never depends on a clean result.
func Check(doc *document.Document) []Issue {
	var issues []Issue

	seen := make(map[string]bool)
	for _, v := range Read(doc).Versions {
		key := NormalizeVersion(v.Label)
		if seen[key] {
			issues = append(issues, Issue{SeverityError, v.Label, "duplicate version label"})
		}
		seen[key] = true

		if v.Date != "" {
			if _, err := time.Parse(DateLayout, v.Date); err != nil {
				issues = append(issues, Issue{SeverityError, v.Label, fmt.Sprintf("invalid date %q (expected YYYY-MM-DD)", v.Date)})
			}
		}

		if v.IsEmpty() {
			issues = append(issues, Issue{SeverityWarning, v.Label, "version has no entries"})
		}
		for _, c := range v.Categories {
			if _, ok := ParseCategory(string(c.Name)); !ok {
				issues = append(issues, Issue{SeverityWarning, v.Label, fmt.Sprintf("unknown category %q", c.Name)})
			}
			if len(c.Items) == 0 {
				issues = append(issues, Issue{SeverityWarning, v.Label, fmt.Sprintf("category %q is empty", c.Name)})
			}
		}
	}

	for _, s := range doc.Sections {
		if s.Level != blockLevel {
			continue
		}
		if len(bullets(s.Body)) > 0 {
			label, _ := splitHeading(s.Title)
			issues = append(issues, Issue{SeverityWarning, label, "bullets outside a category heading"})
		}
	}

	return issues
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
