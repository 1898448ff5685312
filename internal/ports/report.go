package ports

import (
	"context"

	"github.com/xvierd/repostat/internal/domain"
)

// DirLister enumerates the immediate entries of a directory.
type DirLister interface {
	// List returns the full paths of the entries of dir in the order the
	// filesystem yields them.
	List(dir string) ([]string, error)
}

// ReportWriter is the sink for report lines.
type ReportWriter interface {
	// WriteLine emits one line. Implementations write a line contiguously.
	WriteLine(line domain.ReportLine) error

	// Flush is called once after a successful scan.
	Flush() error
}

// Scanner runs a scan and streams its lines into w.
// This is a driving port (implemented by the services layer).
type Scanner interface {
	Scan(ctx context.Context, req domain.ScanRequest, w ReportWriter) (*domain.Summary, error)
}

// Notifier announces the outcome of a scan.
type Notifier interface {
	NotifyScanSummary(summary *domain.Summary) error
}
