// Package filter classifies changed paths so that test-only or README-only
// changes do not trigger documentation updates, and detects commit or pull
// request titles that opt out of processing.
package filter

import (
	"regexp"
	"strings"
)

// Kind is the classification of one path.
type Kind string

const (
	KindTest   Kind = "test"
	KindReadme Kind = "readme"
	KindDoc    Kind = "doc"
	KindCode   Kind = "code"
)

var (
	testPatterns = []string{
		`.*[_.]test\.py`,
		`(?:.*/)?test_[^/]*\.py`,
		`.*\.(?:test|spec)\.[jt]sx?`,
		`(?:.*/)?tests?/.*`,
		`(?:.*/)?__tests__/.*`,
		`.*_test\.go`,
	}
	readmePatterns = []string{
		`readme(?:\.md|\.txt)?`,
		`.*/readme\.md`,
		`.*\.readme`,
	}
	docPatterns = []string{
		`.*\.md`,
		`(?:.*/)?docs?/.*`,
	}
)

// SkipMarkers are substrings of a title that disable processing.
var SkipMarkers = []string{
	"[skip-docpatch]",
	"[skip-pr-analyzer]",
	"[skip-analyzer]",
	"[no-analyze]",
	BotCommitMessage,
}

// BotCommitMessage is the message used when committing updated docs, so the
// resulting push is not processed again.
const BotCommitMessage = "docs: update README based on PR changes"

// Classifier sorts paths into tests, READMEs, other documentation and code.
// Matching is case-insensitive and paths use forward slashes.
type Classifier struct {
	test   *regexp.Regexp
	readme *regexp.Regexp
	doc    *regexp.Regexp
}

// NewClassifier returns a Classifier using the built-in patterns.
func NewClassifier() *Classifier {
	return &Classifier{
		test:   compile(testPatterns),
		readme: compile(readmePatterns),
		doc:    compile(docPatterns),
	}
}

func compile(patterns []string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^(?:` + strings.Join(patterns, "|") + `)$`)
}

// IsTest reports whether path is a test file.
func (c *Classifier) IsTest(path string) bool {
	return c.test.MatchString(normalize(path))
}

// IsReadme reports whether path is a README.
func (c *Classifier) IsReadme(path string) bool {
	return c.readme.MatchString(normalize(path))
}

// IsDoc reports whether path is documentation (markdown or under docs/).
func (c *Classifier) IsDoc(path string) bool {
	return c.doc.MatchString(normalize(path))
}

// Classify returns the Kind of path. Tests take precedence over
// documentation, and READMEs over other documentation.
func (c *Classifier) Classify(path string) Kind {
	switch {
	case c.IsTest(path):
		return KindTest
	case c.IsReadme(path):
		return KindReadme
	case c.IsDoc(path):
		return KindDoc
	default:
		return KindCode
	}
}

// Filter drops tests and READMEs from paths as requested.
func (c *Classifier) Filter(paths []string, excludeTests, excludeReadme bool) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if excludeTests && c.IsTest(p) {
			continue
		}
		if excludeReadme && c.IsReadme(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// CodeFiles returns the paths worth analysing: everything except tests,
// READMEs and documentation. Configuration files count as code.
func (c *Classifier) CodeFiles(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if c.Classify(p) == KindCode {
			out = append(out, p)
		}
	}
	return out
}

// IsReadmeOnly reports whether every path is a README. An empty list is not
// README-only.
func (c *Classifier) IsReadmeOnly(paths []string) bool {
	if len(paths) == 0 {
		return false
	}
	for _, p := range paths {
		if !c.IsReadme(p) {
			return false
		}
	}
	return true
}

// ShouldSkip reports whether a title or commit message carries a skip marker.
func ShouldSkip(title string) bool {
	for _, marker := range SkipMarkers {
		if strings.Contains(title, marker) {
			return true
		}
	}
	return false
}

func normalize(path string) string {
	return strings.TrimPrefix(strings.ReplaceAll(path, `\`, "/"), "./")
}
