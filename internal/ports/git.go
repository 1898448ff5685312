// Package ports defines the interfaces between the scan use case and the
// infrastructure it drives: the version-control engine, the process runner,
// the filesystem and the report sinks.
package ports

import (
	"context"

	"github.com/xvierd/repostat/internal/domain"
)

// Repository is an opened working tree. A handle belongs to the scan step
// that opened it and must be closed once that entry has been reported.
type Repository interface {
	// Path is the filesystem path the handle was opened from.
	Path() string

	// StatusEntries enumerates file status with ignored files excluded,
	// untracked files included and untracked directories fully expanded.
	StatusEntries() ([]domain.FileStatus, error)

	// Remotes returns the names of the configured remotes (possibly none).
	Remotes() ([]string, error)

	// ControlDir is the repository's metadata directory (usually .git).
	ControlDir() string

	// WorkDir is the root of the checked-out files.
	WorkDir() string

	// Close releases the handle.
	Close() error
}

// RepoProber opens repositories.
// This is a driven port (implemented by adapters).
type RepoProber interface {
	// Open returns a handle for path, or an error wrapping
	// domain.ErrNotARepository when path holds no valid repository.
	Open(path string) (Repository, error)
}

// SyncChecker decides whether every local commit exists on some remote.
// This is a driven port (implemented by adapters).
type SyncChecker interface {
	IsSynced(ctx context.Context, repo Repository) (bool, error)
}
