package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/xvierd/repostat/internal/domain"
)

// initRepo creates a repository in dir with one committed file.
func initRepo(t *testing.T, dir string) *git.Repository {
	t.Helper()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("Failed to init git repo: %v", err)
	}
	writeFile(t, filepath.Join(dir, "test.txt"), "test content")
	commitAll(t, repo, "Initial commit")
	return repo
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func commitAll(t *testing.T, repo *git.Repository, msg string) plumbing.Hash {
	t.Helper()

	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatalf("Failed to add files: %v", err)
	}
	hash, err := worktree.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Failed to create commit: %v", err)
	}
	return hash
}

// publish configures remote "origin" and points its tracking ref for the
// current branch at HEAD, as a push would.
func publish(t *testing.T, repo *git.Repository) {
	t.Helper()

	addRemote(t, repo, "origin")
	head, err := repo.Head()
	if err != nil {
		t.Fatalf("Failed to get HEAD: %v", err)
	}
	ref := plumbing.NewHashReference(plumbing.NewRemoteReferenceName("origin", head.Name().Short()), head.Hash())
	if err := repo.Storer.SetReference(ref); err != nil {
		t.Fatalf("Failed to set remote ref: %v", err)
	}
}

func addRemote(t *testing.T, repo *git.Repository, name string) {
	t.Helper()
	if _, err := repo.Remote(name); err == nil {
		return
	}
	_, err := repo.CreateRemote(&config.RemoteConfig{
		Name: name,
		URLs: []string{"https://example.com/" + name + "/repo.git"},
	})
	if err != nil {
		t.Fatalf("Failed to create remote: %v", err)
	}
}

func gitPlainInit(dir string) (*git.Repository, error) {
	return git.PlainInit(dir, false)
}

// fakeRepository is a ports.Repository that is not backed by go-git.
type fakeRepository struct {
	path       string
	controlDir string
	remotes    []string
	entries    []domain.FileStatus
}

func (f *fakeRepository) Path() string                                { return f.path }
func (f *fakeRepository) StatusEntries() ([]domain.FileStatus, error) { return f.entries, nil }
func (f *fakeRepository) Remotes() ([]string, error)                  { return f.remotes, nil }
func (f *fakeRepository) ControlDir() string                          { return f.controlDir }
func (f *fakeRepository) WorkDir() string                             { return filepath.Dir(f.controlDir) }
func (f *fakeRepository) Close() error                                { return nil }
