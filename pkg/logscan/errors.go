package logscan

import "errors"

var (
	// ErrArgument marks a missing or invalid input argument.
	ErrArgument = errors.New("argument error")
	// ErrIO marks an input file that could not be read.
	ErrIO = errors.New("io error")
	// ErrTransport marks a failed message transfer between coordinator and worker.
	ErrTransport = errors.New("transport error")
)

const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitTransport = 2
)

// ExitCode maps an error returned by a run to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrTransport):
		return ExitTransport
	default:
		return ExitFailure
	}
}
