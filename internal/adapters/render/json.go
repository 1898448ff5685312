package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/xvierd/repostat/internal/domain"
	"github.com/xvierd/repostat/internal/ports"
)

// Report is the JSON document produced by JSONWriter.
type Report struct {
	Target  string        `json:"target"`
	Entries []ReportEntry `json:"entries"`
}

// ReportEntry is one line of a Report. Verdicts are omitted for plain entries.
type ReportEntry struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	WorkingTree string `json:"working_tree,omitempty"`
	Sync        string `json:"sync,omitempty"`
}

// JSONWriter buffers lines and encodes them as one document on Flush, so a
// failed scan produces no output at all.
type JSONWriter struct {
	out    io.Writer
	report Report
}

// Ensure JSONWriter implements ports.ReportWriter.
var _ ports.ReportWriter = (*JSONWriter)(nil)

// NewJSONWriter creates a JSON writer for a scan of target.
func NewJSONWriter(out io.Writer, target string) *JSONWriter {
	return &JSONWriter{
		out:    out,
		report: Report{Target: target, Entries: []ReportEntry{}},
	}
}

// WriteLine buffers line.
func (w *JSONWriter) WriteLine(line domain.ReportLine) error {
	w.report.Entries = append(w.report.Entries, ReportEntry{
		Name:        line.Name,
		Kind:        string(line.Kind),
		WorkingTree: string(line.WorkingTree),
		Sync:        string(line.Sync),
	})
	return nil
}

// Flush writes the buffered report.
func (w *JSONWriter) Flush() error {
	encoder := json.NewEncoder(w.out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(w.report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
