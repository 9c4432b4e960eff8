package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/docpatch/internal/errors"
)

// Exit codes for the docpatch CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution, including runs
	// where nothing needed updating
	ExitSuccess = 0

	// ExitFailure indicates a runtime or configuration failure
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitMissingDependencies indicates a required credential, file or
	// repository is missing
	ExitMissingDependencies = 4
)

// ExitError carries an exit code through cobra's error return. A nil Err
// means the command already reported the problem.
type ExitError struct {
	Code int
	Err  error
}

// NewExitError returns an ExitError that prints nothing further.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch clierrors.CategoryOf(err) {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Prerequisite:
		return ExitMissingDependencies
	default:
		return ExitFailure
	}
}
