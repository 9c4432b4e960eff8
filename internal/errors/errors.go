// Package errors defines the categorized errors docpatch commands return.
// Each error carries the hints shown under "To fix this" and, for argument
// errors, the usage line of the command that rejected its input.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Category classifies a CLIError. The CLI maps it to an exit code.
type Category int

const (
	// Argument errors come from invalid or missing command arguments.
	Argument Category = iota
	// Configuration errors come from settings that are missing or invalid.
	Configuration
	// Prerequisite errors mean a credential, repository or file is absent.
	Prerequisite
	// Runtime errors happen while a command is doing its work.
	Runtime
)

var categoryNames = [...]string{
	Argument:      "Argument Error",
	Configuration: "Configuration Error",
	Prerequisite:  "Prerequisite Error",
	Runtime:       "Runtime Error",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Error"
	}
	return categoryNames[c]
}

// CLIError is an error with a category and user-facing hints.
type CLIError struct {
	Category Category
	Message  string
	// Usage is the correct invocation, printed for argument errors.
	Usage string
	Hints []string

	cause error
}

func (e *CLIError) Error() string { return e.Message }

func (e *CLIError) Unwrap() error { return e.cause }

// WithUsage sets the usage line and returns e.
func (e *CLIError) WithUsage(usage string) *CLIError {
	e.Usage = usage
	return e
}

// New returns a CLIError without an underlying cause.
func New(category Category, message string, hints ...string) *CLIError {
	return &CLIError{Category: category, Message: message, Hints: hints}
}

// Wrap returns a CLIError caused by err, or nil when err is nil. A non-empty
// context is prefixed to err's message.
func Wrap(err error, category Category, context string, hints ...string) *CLIError {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if context != "" {
		msg = fmt.Sprintf("%s: %v", context, err)
	}
	return &CLIError{Category: category, Message: msg, Hints: hints, cause: err}
}

// As returns the first CLIError in err's chain.
func As(err error) (*CLIError, bool) {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr, true
	}
	return nil, false
}

// CategoryOf returns the category of the first CLIError in err's chain.
// Other errors count as Runtime.
func CategoryOf(err error) Category {
	if cliErr, ok := As(err); ok {
		return cliErr.Category
	}
	return Runtime
}
