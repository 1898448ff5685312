package ports

import "context"

// CommandResult is the captured outcome of an external process.
type CommandResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Success reports whether the process exited with status zero.
func (r *CommandResult) Success() bool {
	return r != nil && r.ExitCode == 0
}

// CommandRunner runs external processes synchronously.
type CommandRunner interface {
	// Run blocks until the process exits. A non-zero exit status is not an
	// error: it is reported through CommandResult.ExitCode. An error means the
	// process could not be started or was stopped by ctx.
	Run(ctx context.Context, name string, args ...string) (*CommandResult, error)
}
