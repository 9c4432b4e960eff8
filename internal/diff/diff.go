// Package diff renders unified line diffs between two versions of a
// document for preview and review comments.
package diff

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// DefaultContext is the number of unchanged lines shown around each hunk.
const DefaultContext = 3

// TruncationNotice is appended by Truncate when lines were dropped.
const TruncationNotice = "... (diff truncated)"

// Options controls diff headers and context size.
type Options struct {
	FromFile string
	ToFile   string
	// Context is the number of context lines; negative means DefaultContext.
	Context int
}

// Unified returns the unified diff from original to updated, or "" when the
// texts are equal.
func Unified(original, updated string, opts Options) (string, error) {
	if original == updated {
		return "", nil
	}

	ctx := opts.Context
	if ctx < 0 {
		ctx = DefaultContext
	}
	from, to := opts.FromFile, opts.ToFile
	if from == "" {
		from = "original"
	}
	if to == "" {
		to = "updated"
	}

	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(original),
		B:        splitLines(updated),
		FromFile: from,
		ToFile:   to,
		Context:  ctx,
	})
	if err != nil {
		return "", fmt.Errorf("computing diff: %w", err)
	}
	return out, nil
}

// splitLines keeps line terminators; a final line without one gets a "\n"
// so it compares equal to the same line followed by more text.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		return lines[:len(lines)-1]
	}
	lines[len(lines)-1] += "\n"
	return lines
}

// Truncate keeps the first maxLines lines of d and appends TruncationNotice
// when anything was cut. A maxLines of zero or less keeps everything.
func Truncate(d string, maxLines int) (string, bool) {
	if maxLines <= 0 || d == "" {
		return d, false
	}
	lines := strings.SplitAfter(d, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) <= maxLines {
		return d, false
	}
	kept := strings.Join(lines[:maxLines], "")
	if !strings.HasSuffix(kept, "\n") {
		kept += "\n"
	}
	return kept + TruncationNotice + "\n", true
}

// Stats counts the changed lines of a unified diff.
type Stats struct {
	Added   int
	Removed int
}

// Count returns the added and removed line counts of d. File headers are
// only recognised outside hunks, so a removed "-- x" line still counts.
func Count(d string) Stats {
	var s Stats
	var h hunkReader
	for _, line := range strings.Split(d, "\n") {
		switch h.classify(line) {
		case lineAdded:
			s.Added++
		case lineRemoved:
			s.Removed++
		}
	}
	return s
}

func (s Stats) String() string {
	return fmt.Sprintf("+%d -%d", s.Added, s.Removed)
}

// Colorize colours a unified diff for terminal output: headers bold, hunk
// markers cyan, additions green and removals red.
func Colorize(d string) string {
	bold := color.New(color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	var h hunkReader
	var b strings.Builder
	for _, line := range strings.SplitAfter(d, "\n") {
		text := strings.TrimSuffix(line, "\n")
		nl := line[len(text):]
		switch h.classify(text) {
		case lineHeader:
			b.WriteString(bold(text))
		case lineHunk:
			b.WriteString(cyan(text))
		case lineAdded:
			b.WriteString(green(text))
		case lineRemoved:
			b.WriteString(red(text))
		default:
			b.WriteString(text)
		}
		b.WriteString(nl)
	}
	return b.String()
}

type lineKind int

const (
	lineOther lineKind = iota
	lineHeader
	lineHunk
	lineAdded
	lineRemoved
)

var hunkPattern = regexp.MustCompile(`^@@ -\d+(?:,(\d+))? \+\d+(?:,(\d+))? @@`)

// hunkReader classifies the lines of a unified diff in order. It tracks how
// many old and new lines the current hunk still holds.
type hunkReader struct {
	oldLeft, newLeft int
}

func (h *hunkReader) classify(line string) lineKind {
	if h.oldLeft > 0 || h.newLeft > 0 {
		switch {
		case strings.HasPrefix(line, "+"):
			h.newLeft--
			return lineAdded
		case strings.HasPrefix(line, "-"):
			h.oldLeft--
			return lineRemoved
		case strings.HasPrefix(line, `\`):
			return lineOther
		default:
			h.oldLeft--
			h.newLeft--
			return lineOther
		}
	}

	switch {
	case strings.HasPrefix(line, "@@"):
		if m := hunkPattern.FindStringSubmatch(line); m != nil {
			h.oldLeft, h.newLeft = hunkSize(m[1]), hunkSize(m[2])
		}
		return lineHunk
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return lineHeader
	}
	return lineOther
}

// hunkSize parses the optional line count of a hunk range; it defaults to 1.
func hunkSize(s string) int {
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
