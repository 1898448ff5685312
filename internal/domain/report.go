package domain

// EntryKind classifies a directory entry. It is decided once per entry by a
// single repository probe and never re-evaluated.
type EntryKind string

const (
	EntryRepository EntryKind = "repository"
	EntryPlain      EntryKind = "plain"
)

// ReportLine is the rendered unit of a scan. Plain entries carry only a
// name; the verdict fields are meaningful for repositories only.
type ReportLine struct {
	Name        string
	Kind        EntryKind
	WorkingTree WorkingTreeStatus
	Sync        SyncStatus
}

// NewPlainLine builds the line for an entry that is not a repository.
func NewPlainLine(name string) ReportLine {
	return ReportLine{Name: name, Kind: EntryPlain}
}

// NewRepositoryLine builds the line for a repository entry.
func NewRepositoryLine(name string, wt WorkingTreeStatus, sync SyncStatus) ReportLine {
	return ReportLine{
		Name:        name,
		Kind:        EntryRepository,
		WorkingTree: wt,
		Sync:        sync,
	}
}

// IsRepository reports whether the line describes a repository.
func (l ReportLine) IsRepository() bool {
	return l.Kind == EntryRepository
}

// ScanRequest describes a single scan of a target directory.
type ScanRequest struct {
	// Target is the directory to scan. Empty means the working directory.
	Target string
	// Sort orders child entries by name instead of directory order.
	Sort bool
	// Match, when set, keeps only child entries whose names fuzzy-match it.
	Match string
}

// Summary aggregates the lines produced by one scan.
type Summary struct {
	Target       string
	Repositories int
	Plain        int
	Dirty        int
	Unsynced     int
}

// Add accounts for one emitted line.
func (s *Summary) Add(line ReportLine) {
	if !line.IsRepository() {
		s.Plain++
		return
	}
	s.Repositories++
	if !line.WorkingTree.IsClean() {
		s.Dirty++
	}
	if !line.Sync.IsSynced() {
		s.Unsynced++
	}
}

// NeedsAttention reports whether any repository is dirty or unsynced.
func (s *Summary) NeedsAttention() bool {
	return s.Dirty > 0 || s.Unsynced > 0
}
