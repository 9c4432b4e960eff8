// Package output prints the status lines and separators docpatch commands
// write to the terminal. It imports nothing from the rest of the module.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// headerWidth caps the separator drawn by PrintTargetHeader.
const headerWidth = 80

// Status selects the mark and color of a status line.
type Status int

const (
	Success Status = iota
	Skipped
	Warning
)

type statusStyle struct {
	mark    string
	color   *color.Color
	dimBody bool
}

var statusStyles = map[Status]statusStyle{
	Success: {mark: "✓", color: color.New(color.FgGreen, color.Bold)},
	Skipped: {mark: "–", color: color.New(color.Faint), dimBody: true},
	Warning: {mark: "!", color: color.New(color.FgYellow)},
}

// Print writes message to out prefixed with the mark for s.
func Print(out io.Writer, s Status, message string) {
	style, ok := statusStyles[s]
	if !ok {
		fmt.Fprintln(out, message)
		return
	}
	if style.dimBody {
		message = style.color.Sprint(message)
	}
	fmt.Fprintf(out, "%s %s\n", style.color.Sprint(style.mark), message)
}

func PrintSuccess(out io.Writer, message string) { Print(out, Success, message) }

func PrintSkipped(out io.Writer, message string) { Print(out, Skipped, message) }

func PrintWarning(out io.Writer, message string) { Print(out, Warning, message) }

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Width returns the column count of w when it is a terminal, or headerWidth.
func Width(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			return cols
		}
	}
	return headerWidth
}

// PrintTargetHeader writes a rule with " label: path " centered in it.
func PrintTargetHeader(out io.Writer, label, path string) {
	title := fmt.Sprintf(" %s: %s ", label, path)
	side := max((min(Width(out), headerWidth)-len(title))/2, 3)
	rule := color.New(color.Faint).Sprint(strings.Repeat("─", side))
	fmt.Fprintf(out, "\n%s%s%s\n", rule, color.New(color.FgCyan, color.Bold).Sprint(title), rule)
}
