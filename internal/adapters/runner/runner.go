// Package runner executes external processes and captures their output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xvierd/repostat/internal/ports"
)

// waitDelay bounds how long Run waits for output pipes after ctx stops the
// process, in case a child of the process keeps them open.
const waitDelay = 2 * time.Second

// ExecRunner implements ports.CommandRunner with os/exec.
type ExecRunner struct {
	log logrus.FieldLogger
}

// Ensure ExecRunner implements ports.CommandRunner.
var _ ports.CommandRunner = (*ExecRunner)(nil)

// NewExecRunner creates a runner that logs invocations to log.
func NewExecRunner(log logrus.FieldLogger) *ExecRunner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ExecRunner{log: log}
}

// Run starts name with args and waits for it to exit.
func (e *ExecRunner) Run(ctx context.Context, name string, args ...string) (*ports.CommandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.log.WithField("command", name+" "+strings.Join(args, " ")).Debug("running command")

	err := cmd.Run()
	result := &ports.CommandResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if err == nil {
		return result, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		return result, fmt.Errorf("%s stopped: %w", name, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	result.ExitCode = -1
	return result, fmt.Errorf("failed to run %s: %w", name, err)
}
