// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/sahilm/fuzzy"
	"github.com/sirupsen/logrus"
	"github.com/xvierd/repostat/internal/domain"
	"github.com/xvierd/repostat/internal/ports"
)

// ScanService reports the status of a repository, or of every repository
// directly inside a directory.
type ScanService struct {
	prober ports.RepoProber
	sync   ports.SyncChecker
	lister ports.DirLister
	log    logrus.FieldLogger
}

// Ensure ScanService implements ports.Scanner.
var _ ports.Scanner = (*ScanService)(nil)

// NewScanService creates a new scan service.
func NewScanService(prober ports.RepoProber, sync ports.SyncChecker, lister ports.DirLister, log logrus.FieldLogger) *ScanService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ScanService{
		prober: prober,
		sync:   sync,
		lister: lister,
		log:    log,
	}
}

// Scan reports req.Target into w. When the target is itself a repository it
// produces a single line. Otherwise every immediate entry of the target gets
// one line: a full report for repositories, the bare name for anything else.
// Scanning never goes deeper than one level.
//
// Entries are processed one at a time, each fully reported before the next
// is probed. The first failure stops the scan; lines already written stay
// written.
func (s *ScanService) Scan(ctx context.Context, req domain.ScanRequest, w ports.ReportWriter) (*domain.Summary, error) {
	target := req.Target
	if target == "" {
		var err error
		target, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", target, err)
	}

	info, err := os.Stat(absTarget)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrNotADirectory, target, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotADirectory, target)
	}

	summary := &domain.Summary{Target: absTarget}

	repo, err := s.probe(absTarget)
	if err != nil {
		return nil, err
	}
	if repo != nil {
		line, err := s.reportRepository(ctx, repo, filepath.Base(absTarget))
		if err != nil {
			return nil, err
		}
		if err := emit(w, summary, line); err != nil {
			return nil, err
		}
		return summary, nil
	}

	paths, err := s.lister.List(absTarget)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", target, err)
	}
	paths = selectEntries(paths, req)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := filepath.Base(path)
		line := domain.NewPlainLine(name)

		repo, err := s.probe(path)
		if err != nil {
			return nil, err
		}
		if repo != nil {
			line, err = s.reportRepository(ctx, repo, name)
			if err != nil {
				return nil, err
			}
		}

		if err := emit(w, summary, line); err != nil {
			return nil, err
		}
	}

	return summary, nil
}

// probe opens path. A path without a repository yields a nil handle and no
// error.
func (s *ScanService) probe(path string) (ports.Repository, error) {
	repo, err := s.prober.Open(path)
	if errors.Is(err, domain.ErrNotARepository) {
		s.log.WithField("path", path).WithError(err).Debug("not a repository")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// reportRepository computes both verdicts for repo and releases the handle.
func (s *ScanService) reportRepository(ctx context.Context, repo ports.Repository, name string) (domain.ReportLine, error) {
	defer repo.Close()

	entries, err := repo.StatusEntries()
	if err != nil {
		return domain.ReportLine{}, fmt.Errorf("failed to get status of %s: %w", name, err)
	}
	workingTree := domain.Classify(entries)

	synced, err := s.sync.IsSynced(ctx, repo)
	if err != nil {
		return domain.ReportLine{}, fmt.Errorf("failed to check sync state of %s: %w", name, err)
	}
	syncStatus := domain.SyncUnsynced
	if synced {
		syncStatus = domain.SyncSynced
	}

	s.log.WithFields(logrus.Fields{
		"repository":   name,
		"working_tree": workingTree,
		"sync":         syncStatus,
		"changes":      len(entries),
	}).Debug("repository evaluated")

	return domain.NewRepositoryLine(name, workingTree, syncStatus), nil
}

func emit(w ports.ReportWriter, summary *domain.Summary, line domain.ReportLine) error {
	if err := w.WriteLine(line); err != nil {
		return err
	}
	summary.Add(line)
	return nil
}

// selectEntries applies the fuzzy name filter and the optional sort. The
// filter keeps directory order among the entries it retains.
func selectEntries(paths []string, req domain.ScanRequest) []string {
	if req.Match != "" {
		names := make([]string, len(paths))
		for i, p := range paths {
			names[i] = filepath.Base(p)
		}

		matches := fuzzy.Find(req.Match, names)
		keep := make([]int, 0, len(matches))
		for _, m := range matches {
			keep = append(keep, m.Index)
		}
		sort.Ints(keep)

		filtered := make([]string, 0, len(keep))
		for _, i := range keep {
			filtered = append(filtered, paths[i])
		}
		paths = filtered
	}

	if req.Sort {
		sort.SliceStable(paths, func(i, j int) bool {
			return filepath.Base(paths[i]) < filepath.Base(paths[j])
		})
	}

	return paths
}
