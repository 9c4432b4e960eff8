package errors

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

type palette struct {
	label, message, category, usage, hint func(a ...interface{}) string
}

var colored = palette{
	label:    color.New(color.FgRed, color.Bold).SprintFunc(),
	message:  color.New(color.FgRed).SprintFunc(),
	category: color.New(color.FgYellow).SprintFunc(),
	usage:    color.New(color.FgCyan).SprintFunc(),
	hint:     color.New(color.FgGreen, color.Bold).SprintFunc(),
}

var plain = palette{
	label:    fmt.Sprint,
	message:  fmt.Sprint,
	category: fmt.Sprint,
	usage:    fmt.Sprint,
	hint:     fmt.Sprint,
}

// Render writes e to w: a headline, the usage line when set and the hints.
func Render(w io.Writer, e *CLIError, useColor bool) {
	if e == nil {
		return
	}
	p := plain
	if useColor {
		p = colored
	}

	fmt.Fprintf(w, "%s [%s]: %s\n", p.label("Error"), p.category(e.Category), p.message(e.Message))
	if e.Usage != "" {
		fmt.Fprintf(w, "\n%s %s\n", p.usage("Usage:"), p.usage(e.Usage))
	}
	if len(e.Hints) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", p.hint("To fix this:"))
	for _, h := range e.Hints {
		fmt.Fprintf(w, "  %s %s\n", p.hint("•"), h)
	}
}

// FprintError renders err to w, colored unless color.NoColor is set.
// Errors without a CLIError in their chain render as runtime errors.
func FprintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	cliErr, ok := As(err)
	if !ok {
		cliErr = Wrap(err, Runtime, "")
	}
	Render(w, cliErr, !color.NoColor)
}
