// Package domain contains the core entities of repostat: the two verdict
// axes reported for a repository and the lines and summaries built from them.
// These types are independent of go-git, the terminal and the CLI.
package domain

// WorkingTreeStatus is the local cleanliness verdict of a repository.
type WorkingTreeStatus string

const (
	WorkingTreeClean WorkingTreeStatus = "clean"
	WorkingTreeDirty WorkingTreeStatus = "dirty"
)

// SyncStatus is the remote synchronization verdict of a repository.
type SyncStatus string

const (
	SyncSynced   SyncStatus = "synced"
	SyncUnsynced SyncStatus = "unsynced"
)

// FileStatus is one entry of a repository's file-status enumeration.
// Staging and Worktree hold the single-letter codes git uses in short
// status output ('?' untracked, 'M' modified, 'A' added, ...).
type FileStatus struct {
	Path     string
	Staging  byte
	Worktree byte
}

// Classify reduces a file-status enumeration to a working tree verdict.
// The enumeration is expected to exclude ignored files already.
func Classify(entries []FileStatus) WorkingTreeStatus {
	if len(entries) == 0 {
		return WorkingTreeClean
	}
	return WorkingTreeDirty
}

// SyncVerdict combines the history query outcome with the remote count.
// A repository without remotes is never synced, whatever its history says.
func SyncVerdict(hasUnpushed bool, remoteCount int) SyncStatus {
	if !hasUnpushed && remoteCount > 0 {
		return SyncSynced
	}
	return SyncUnsynced
}

// IsClean reports whether the verdict is the clean one.
func (s WorkingTreeStatus) IsClean() bool {
	return s == WorkingTreeClean
}

// IsSynced reports whether the verdict is the synced one.
func (s SyncStatus) IsSynced() bool {
	return s == SyncSynced
}
