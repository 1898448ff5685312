package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Scan errors.
var (
	// ErrNotADirectory is returned when the scan target is not a directory.
	ErrNotADirectory = errors.New("not a directory")

	// ErrNotARepository marks a path without repository metadata. Scans use it
	// to classify an entry as plain; it is never reported to the user.
	ErrNotARepository = errors.New("not a repository")
)

// CommandFailure is returned when the history query used for the sync check
// does not complete successfully.
type CommandFailure struct {
	Command  string
	Args     []string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	// Err is set when the process could not run or was stopped, as opposed
	// to exiting with a non-zero status.
	Err error
}

// Status describes how the command ended.
func (e *CommandFailure) Status() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.ExitCode)
}

func (e *CommandFailure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "command failed: %s %s\n", e.Command, strings.Join(e.Args, " "))
	fmt.Fprintf(&b, "status: %s\n", e.Status())
	fmt.Fprintf(&b, "stdout: %s\n", strings.TrimRight(string(e.Stdout), "\n"))
	fmt.Fprintf(&b, "stderr: %s", strings.TrimRight(string(e.Stderr), "\n"))
	return b.String()
}

func (e *CommandFailure) Unwrap() error {
	return e.Err
}
