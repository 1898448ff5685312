// Package git provides repository probing and sync checking using go-git
// and the git command line.
package git

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/xvierd/repostat/internal/domain"
	"github.com/xvierd/repostat/internal/ports"
)

// Prober implements the ports.RepoProber interface using go-git.
type Prober struct{}

// NewProber creates a new repository prober.
func NewProber() *Prober {
	return &Prober{}
}

// Ensure Prober implements ports.RepoProber.
var _ ports.RepoProber = (*Prober)(nil)

// Open opens the repository containing path. Paths without a repository, and
// repositories whose metadata cannot be read, yield domain.ErrNotARepository.
func (p *Prober) Open(path string) (ports.Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	// Find the git repository by traversing up the directory tree
	root, err := findGitRepo(absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotARepository, path)
	}

	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrNotARepository, path, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrNotARepository, path, err)
	}
	worktree.Excludes = append(worktree.Excludes, userExcludes()...)

	controlDir := filepath.Join(root, git.GitDirName)
	if storage, ok := repo.Storer.(*filesystem.Storage); ok {
		controlDir = storage.Filesystem().Root()
	}

	return &Repository{
		path:       path,
		repo:       repo,
		worktree:   worktree,
		controlDir: controlDir,
		workDir:    worktree.Filesystem.Root(),
	}, nil
}

// Repository is a go-git backed ports.Repository.
type Repository struct {
	path       string
	repo       *git.Repository
	worktree   *git.Worktree
	controlDir string
	workDir    string
}

// Ensure Repository implements ports.Repository.
var _ ports.Repository = (*Repository)(nil)

// Path returns the path the repository was opened from.
func (r *Repository) Path() string {
	return r.path
}

// StatusEntries returns every path whose staging or worktree state differs
// from HEAD, sorted by path. go-git lists untracked files individually and
// honors .gitignore plus the user and system excludes, so ignored files
// never appear. With core.fileMode off, permission-only changes are dropped.
func (r *Repository) StatusEntries() ([]domain.FileStatus, error) {
	status, err := r.worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree status: %w", err)
	}
	if !r.tracksFileMode() {
		if err := r.dropModeOnlyChanges(status); err != nil {
			return nil, err
		}
	}

	entries := make([]domain.FileStatus, 0, len(status))
	for file, s := range status {
		if s.Staging == git.Unmodified && s.Worktree == git.Unmodified {
			continue
		}
		entries = append(entries, domain.FileStatus{
			Path:     file,
			Staging:  byte(s.Staging),
			Worktree: byte(s.Worktree),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	return entries, nil
}

// Remotes returns the configured remote names.
func (r *Repository) Remotes() ([]string, error) {
	remotes, err := r.repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %w", err)
	}

	names := make([]string, 0, len(remotes))
	for _, remote := range remotes {
		names = append(names, remote.Config().Name)
	}
	sort.Strings(names)

	return names, nil
}

// ControlDir returns the repository metadata directory.
func (r *Repository) ControlDir() string {
	return r.controlDir
}

// WorkDir returns the root of the working tree.
func (r *Repository) WorkDir() string {
	return r.workDir
}

// Close drops the references held by the handle.
func (r *Repository) Close() error {
	r.repo = nil
	r.worktree = nil
	return nil
}

// tracksFileMode reports the core.fileMode setting, true unless disabled.
func (r *Repository) tracksFileMode() bool {
	cfg, err := r.repo.Config()
	if err != nil || !cfg.Raw.Section("core").HasOption("filemode") {
		return true
	}
	switch strings.ToLower(cfg.Raw.Section("core").Option("filemode")) {
	case "false", "no", "off", "0":
		return false
	}
	return true
}

// dropModeOnlyChanges removes worktree modifications whose content still
// matches the index.
func (r *Repository) dropModeOnlyChanges(status git.Status) error {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}

	for file, s := range status {
		if s.Staging != git.Unmodified || s.Worktree != git.Modified {
			continue
		}
		entry, err := idx.Entry(file)
		if err != nil {
			continue
		}

		fullPath := filepath.Join(r.workDir, filepath.FromSlash(file))
		info, err := os.Lstat(fullPath)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		content, err := os.ReadFile(fullPath)
		if err != nil {
			continue
		}
		if plumbing.ComputeHash(plumbing.BlobObject, content) == entry.Hash {
			delete(status, file)
		}
	}
	return nil
}

// userExcludes loads the ignore patterns git applies outside the
// repository: the system config's excludesfile, the global one, and the
// XDG default when no global excludesfile is configured. Unreadable
// sources contribute nothing, as with git.
func userExcludes() []gitignore.Pattern {
	root := osfs.New("/")

	var patterns []gitignore.Pattern
	if system, err := gitignore.LoadSystemPatterns(root); err == nil {
		patterns = append(patterns, system...)
	}

	global, err := gitignore.LoadGlobalPatterns(root)
	if err == nil && len(global) > 0 {
		return append(patterns, global...)
	}

	return append(patterns, xdgExcludes()...)
}

// xdgExcludes reads $XDG_CONFIG_HOME/git/ignore (or ~/.config/git/ignore).
func xdgExcludes() []gitignore.Pattern {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		configHome = filepath.Join(home, ".config")
	}

	data, err := os.ReadFile(filepath.Join(configHome, "git", "ignore"))
	if err != nil {
		return nil
	}

	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns
}

// findGitRepo traverses up the directory tree to find a .git directory.
func findGitRepo(startPath string) (string, error) {
	currentPath := startPath

	for {
		gitPath := filepath.Join(currentPath, git.GitDirName)
		info, err := os.Stat(gitPath)
		if err == nil && info.IsDir() {
			return currentPath, nil
		}

		// Check if this is a git worktree (file containing gitdir reference)
		if err == nil && !info.IsDir() {
			content, err := os.ReadFile(gitPath)
			if err == nil && strings.HasPrefix(string(content), "gitdir: ") {
				return currentPath, nil
			}
		}

		parent := filepath.Dir(currentPath)
		if parent == currentPath {
			break
		}
		currentPath = parent
	}

	return "", fmt.Errorf("no .git directory found")
}
