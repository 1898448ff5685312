// Package render writes scan reports as colored text or JSON.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/muesli/termenv"
	"github.com/xvierd/repostat/internal/config"
	"github.com/xvierd/repostat/internal/domain"
	"github.com/xvierd/repostat/internal/ports"
)

// ResolveProfile picks the color profile for out according to mode.
// In auto mode colors are used only on a terminal and when NO_COLOR is unset.
func ResolveProfile(mode string, out io.Writer) termenv.Profile {
	switch mode {
	case config.ColorAlways:
		return termenv.ANSI
	case config.ColorNever:
		return termenv.Ascii
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return termenv.Ascii
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(f.Fd()) {
		return termenv.ANSI
	}
	return termenv.Ascii
}

// TextWriter renders one line per entry:
//
//	<working tree verdict><sync verdict><name>
//
// Verdict columns are left-aligned and padded to a fixed width. Plain
// entries print only their name.
type TextWriter struct {
	out    io.Writer
	width  int
	labels config.LabelConfig

	clean    lipgloss.Style
	dirty    lipgloss.Style
	synced   lipgloss.Style
	unsynced lipgloss.Style
}

// Ensure TextWriter implements ports.ReportWriter.
var _ ports.ReportWriter = (*TextWriter)(nil)

// NewTextWriter creates a text writer on out using the given color profile.
func NewTextWriter(out io.Writer, profile termenv.Profile, cfg *config.Config) *TextWriter {
	renderer := lipgloss.NewRenderer(out)
	renderer.SetColorProfile(profile)

	style := func(color string) lipgloss.Style {
		return renderer.NewStyle().Foreground(lipgloss.Color(color)).Inline(true)
	}

	return &TextWriter{
		out:      out,
		width:    cfg.Output.ColumnWidth,
		labels:   cfg.Labels,
		clean:    style(cfg.Theme.Clean),
		dirty:    style(cfg.Theme.Dirty),
		synced:   style(cfg.Theme.Synced),
		unsynced: style(cfg.Theme.Unsynced),
	}
}

// WriteLine renders line and writes it with a single Write call, so one
// entry's fields are never interleaved with another's. Every colored field
// carries its own reset sequence.
func (w *TextWriter) WriteLine(line domain.ReportLine) error {
	var b strings.Builder

	if line.IsRepository() {
		if line.WorkingTree.IsClean() {
			b.WriteString(w.clean.Render(w.pad(w.labels.Clean)))
		} else {
			b.WriteString(w.dirty.Render(w.pad(w.labels.Dirty)))
		}
		if line.Sync.IsSynced() {
			b.WriteString(w.synced.Render(w.pad(w.labels.Synced)))
		} else {
			b.WriteString(w.unsynced.Render(w.pad(w.labels.Unsynced)))
		}
	}
	b.WriteString(line.Name)
	b.WriteByte('\n')

	if _, err := io.WriteString(w.out, b.String()); err != nil {
		return fmt.Errorf("failed to write report line: %w", err)
	}
	return nil
}

// Flush is a no-op: lines are written as they are produced.
func (w *TextWriter) Flush() error {
	return nil
}

// pad left-aligns label in the column, keeping one space of separation for
// labels as wide as the column or wider.
func (w *TextWriter) pad(label string) string {
	if gap := w.width - lipgloss.Width(label); gap > 0 {
		return label + strings.Repeat(" ", gap)
	}
	return label + " "
}
