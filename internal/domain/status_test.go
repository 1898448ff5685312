package domain

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		entries []FileStatus
		want    WorkingTreeStatus
	}{
		{
			name:    "nil enumeration",
			entries: nil,
			want:    WorkingTreeClean,
		},
		{
			name:    "empty enumeration",
			entries: []FileStatus{},
			want:    WorkingTreeClean,
		},
		{
			name:    "untracked file",
			entries: []FileStatus{{Path: "new.txt", Staging: '?', Worktree: '?'}},
			want:    WorkingTreeDirty,
		},
		{
			name: "modified and staged files",
			entries: []FileStatus{
				{Path: "a.go", Staging: ' ', Worktree: 'M'},
				{Path: "b.go", Staging: 'A', Worktree: ' '},
			},
			want: WorkingTreeDirty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.entries); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSyncVerdict(t *testing.T) {
	tests := []struct {
		name        string
		hasUnpushed bool
		remotes     int
		want        SyncStatus
	}{
		{"pushed with remote", false, 1, SyncSynced},
		{"pushed with several remotes", false, 3, SyncSynced},
		{"unpushed with remote", true, 1, SyncUnsynced},
		{"no remotes and nothing unpushed", false, 0, SyncUnsynced},
		{"no remotes and unpushed", true, 0, SyncUnsynced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SyncVerdict(tt.hasUnpushed, tt.remotes); got != tt.want {
				t.Errorf("SyncVerdict(%v, %d) = %v, want %v", tt.hasUnpushed, tt.remotes, got, tt.want)
			}
		})
	}
}
