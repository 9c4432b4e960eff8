package document

import "strings"

// SplitLines splits text into lines that keep their "\n" terminator.
// The final line has no terminator when text does not end with one.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// AppendLines inserts lines after the last non-blank line of body so that
// trailing blank lines keep separating the body from the next heading.
// A body without content is replaced by a blank line, the new lines and at
// most one trailing blank line, so repeated appends to an emptied section
// do not accumulate blank lines.
func AppendLines(body string, lines ...string) string {
	if len(lines) == 0 {
		return body
	}

	existing := SplitLines(body)
	last := -1
	for i, line := range existing {
		if strings.TrimSpace(line) != "" {
			last = i
		}
	}

	var b strings.Builder
	if last < 0 {
		b.WriteString("\n")
		for _, line := range lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
		if len(existing) > 0 {
			b.WriteString("\n")
		}
		return b.String()
	}
	for _, line := range existing[:last+1] {
		b.WriteString(line)
	}
	if !strings.HasSuffix(existing[last], "\n") {
		b.WriteString("\n")
	}
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	for _, line := range existing[last+1:] {
		b.WriteString(line)
	}
	return b.String()
}

// DeleteLines removes every line of body for which match returns true.
// The line passed to match has its terminator stripped.
func DeleteLines(body string, match func(line string) bool) (string, bool) {
	var b strings.Builder
	removed := false
	for _, line := range SplitLines(body) {
		if match(strings.TrimRight(line, "\r\n")) {
			removed = true
			continue
		}
		b.WriteString(line)
	}
	if !removed {
		return body, false
	}
	return b.String(), true
}

// HasLine reports whether body contains a line equal to line once both are
// trimmed of surrounding whitespace.
func HasLine(body, line string) bool {
	want := strings.TrimSpace(line)
	for _, l := range SplitLines(body) {
		if strings.TrimSpace(l) == want {
			return true
		}
	}
	return false
}
