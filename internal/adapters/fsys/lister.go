// Package fsys enumerates directories for scans.
package fsys

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xvierd/repostat/internal/ports"
)

// Lister implements ports.DirLister on the local filesystem.
//
// Entries come back in the order the operating system returns them, which
// differs between filesystems and platforms. Callers that need a stable
// order sort the result.
type Lister struct{}

// Ensure Lister implements ports.DirLister.
var _ ports.DirLister = (*Lister)(nil)

// NewLister creates a new directory lister.
func NewLister() *Lister {
	return &Lister{}
}

// List returns the full paths of the immediate entries of dir.
func (l *Lister) List(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}
	defer f.Close()

	// (*os.File).ReadDir does not sort, unlike os.ReadDir.
	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}
