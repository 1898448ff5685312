package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xvierd/repostat/internal/domain"
	"github.com/xvierd/repostat/internal/ports"
)

// CLISyncChecker asks the git command line for commits reachable from a
// local branch but from no remote-tracking branch.
type CLISyncChecker struct {
	runner  ports.CommandRunner
	binary  string
	timeout time.Duration
	log     logrus.FieldLogger
}

// Ensure CLISyncChecker implements ports.SyncChecker.
var _ ports.SyncChecker = (*CLISyncChecker)(nil)

// NewCLISyncChecker creates a checker running binary through runner.
// A zero timeout lets the query run until it exits.
func NewCLISyncChecker(runner ports.CommandRunner, binary string, timeout time.Duration, log logrus.FieldLogger) *CLISyncChecker {
	if binary == "" {
		binary = "git"
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CLISyncChecker{
		runner:  runner,
		binary:  binary,
		timeout: timeout,
		log:     log,
	}
}

// unpushedArgs builds the history query scoped to controlDir.
func unpushedArgs(controlDir string) []string {
	return []string{
		"--git-dir", controlDir,
		"log", "--branches", "--not", "--remotes",
		"--format=%H",
	}
}

// IsSynced runs the history query and combines its outcome with the remote
// count. The query always runs, even when there are no remotes. Any failure
// of the query is returned as a *domain.CommandFailure.
func (c *CLISyncChecker) IsSynced(ctx context.Context, repo ports.Repository) (bool, error) {
	args := unpushedArgs(repo.ControlDir())

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	result, err := c.runner.Run(ctx, c.binary, args...)
	if err != nil || !result.Success() {
		failure := &domain.CommandFailure{
			Command:  c.binary,
			Args:     args,
			ExitCode: -1,
			Err:      err,
		}
		if result != nil {
			failure.ExitCode = result.ExitCode
			failure.Stdout = result.Stdout
			failure.Stderr = result.Stderr
		}
		if errors.Is(err, context.DeadlineExceeded) {
			failure.Err = fmt.Errorf("timed out after %s: %w", c.timeout, err)
		}
		return false, failure
	}

	c.log.WithFields(logrus.Fields{
		"repository": repo.Path(),
		"exit_code":  result.ExitCode,
	}).Debug("history query finished")

	hasUnpushed := len(bytes.TrimSpace(result.Stdout)) > 0

	remotes, err := repo.Remotes()
	if err != nil {
		return false, err
	}

	return domain.SyncVerdict(hasUnpushed, len(remotes)).IsSynced(), nil
}
