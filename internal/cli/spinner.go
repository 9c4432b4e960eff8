package cli

import (
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/ariel-frischer/docpatch/internal/output"
)

// startSpinner shows a spinner with suffix on interactive terminals and
// returns the function that stops it. Elsewhere it does nothing.
func startSpinner(w io.Writer, suffix string) func() {
	if !output.IsTerminal(w) {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + suffix
	s.Start()
	return s.Stop
}
