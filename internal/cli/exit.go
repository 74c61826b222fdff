package cli

import "errors"

// Exit codes.
const (
	ExitFailure = 1 // missing configuration file or a failed run
	ExitUsage   = 2 // bad arguments or settings
)

// ExitError carries the exit code a failure maps to.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// ExitCode maps err to a process exit code. Errors that are not ExitErrors
// map to ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

func usageError(msg string) error {
	return &ExitError{Code: ExitUsage, Message: msg}
}

func failure(msg string) error {
	return &ExitError{Code: ExitFailure, Message: msg}
}
