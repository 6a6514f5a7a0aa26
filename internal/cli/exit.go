package cli

import (
	"errors"
)

// Exit codes returned by the meatprint binary.
const (
	ExitOK              = 0
	ExitFailure         = 1
	ExitDocumentsFailed = 2
)

// ExitError asks main to terminate with a specific status.
type ExitError struct {
	Code   int
	Reason string
}

func (e *ExitError) Error() string {
	return e.Reason
}

// ExitCode maps an error returned by the root command to a process status.
// Configuration errors and every other failure exit with ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
