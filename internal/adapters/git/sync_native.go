package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/xvierd/repostat/internal/domain"
	"github.com/xvierd/repostat/internal/ports"
)

// NativeSyncChecker computes the same verdict as CLISyncChecker by walking
// commit history with go-git. It never spawns a process.
type NativeSyncChecker struct{}

// Ensure NativeSyncChecker implements ports.SyncChecker.
var _ ports.SyncChecker = (*NativeSyncChecker)(nil)

// NewNativeSyncChecker creates a new go-git sync checker.
func NewNativeSyncChecker() *NativeSyncChecker {
	return &NativeSyncChecker{}
}

// IsSynced reports whether every commit reachable from a local branch is
// reachable from some remote-tracking branch, and at least one remote exists.
func (c *NativeSyncChecker) IsSynced(ctx context.Context, repo ports.Repository) (bool, error) {
	r, ok := repo.(*Repository)
	if !ok || r.repo == nil {
		return false, fmt.Errorf("native sync check needs an open go-git repository, got %T", repo)
	}

	var local, remote []plumbing.Hash
	refs, err := r.repo.References()
	if err != nil {
		return false, fmt.Errorf("failed to list references: %w", err)
	}
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		switch {
		case ref.Name().IsBranch():
			local = append(local, ref.Hash())
		case ref.Name().IsRemote():
			remote = append(remote, ref.Hash())
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to read references: %w", err)
	}

	shallow := make(map[plumbing.Hash]bool)
	boundary, err := r.repo.Storer.Shallow()
	if err != nil {
		return false, fmt.Errorf("failed to read shallow boundary: %w", err)
	}
	for _, hash := range boundary {
		shallow[hash] = true
	}

	published := make(map[plumbing.Hash]bool)
	for _, hash := range remote {
		if err := c.walk(ctx, r, hash, published, shallow, func(commit *object.Commit) error {
			published[commit.Hash] = true
			return nil
		}); err != nil {
			return false, err
		}
	}

	hasUnpushed := false
	for _, hash := range local {
		if published[hash] {
			continue
		}
		if err := c.walk(ctx, r, hash, published, shallow, func(*object.Commit) error {
			hasUnpushed = true
			return storer.ErrStop
		}); err != nil {
			return false, err
		}
		if hasUnpushed {
			break
		}
	}

	remotes, err := repo.Remotes()
	if err != nil {
		return false, err
	}

	return domain.SyncVerdict(hasUnpushed, len(remotes)).IsSynced(), nil
}

// walk visits the commits reachable from tip, skipping anything in seen.
// Parents of shallow commits are not in the object store, so the walk ends
// there the way git's own history traversal does.
func (c *NativeSyncChecker) walk(ctx context.Context, r *Repository, tip plumbing.Hash, seen, shallow map[plumbing.Hash]bool, fn func(*object.Commit) error) error {
	visited := make(map[plumbing.Hash]bool)
	pending := []plumbing.Hash{tip}

	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		hash := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if seen[hash] || visited[hash] {
			continue
		}
		visited[hash] = true

		commit, err := r.repo.CommitObject(hash)
		if err != nil {
			return fmt.Errorf("failed to walk history from %s: %w", tip, err)
		}

		if err := fn(commit); err != nil {
			if errors.Is(err, storer.ErrStop) {
				return nil
			}
			return err
		}

		if shallow[hash] {
			continue
		}
		pending = append(pending, commit.ParentHashes...)
	}
	return nil
}
