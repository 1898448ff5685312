// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/repostat/internal/config"
	"github.com/xvierd/repostat/internal/domain"
	"github.com/xvierd/repostat/internal/ports"
)

// SendFunc delivers one notification.
type SendFunc func(title, message string) error

// Notifier handles desktop notifications.
type Notifier struct {
	cfg  *config.NotificationConfig
	send SendFunc
}

// Ensure Notifier implements ports.Notifier.
var _ ports.Notifier = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	return NewWithSender(cfg, func(title, message string) error {
		return beeep.Notify(title, message, "")
	})
}

// NewWithSender creates a notifier that delivers through send.
func NewWithSender(cfg *config.NotificationConfig, send SendFunc) *Notifier {
	return &Notifier{cfg: cfg, send: send}
}

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(title, message string) error {
	if !n.IsEnabled() {
		return nil
	}
	return n.send(title, message)
}

// NotifyScanSummary announces how many repositories need attention. Scans
// where every repository is clean and synced stay silent.
func (n *Notifier) NotifyScanSummary(summary *domain.Summary) error {
	if summary == nil || !summary.NeedsAttention() {
		return nil
	}

	message := fmt.Sprintf("%d of %d repositories in %s are dirty, %d are unsynced.",
		summary.Dirty, summary.Repositories, summary.Target, summary.Unsynced)
	return n.Notify("repostat: attention needed", message)
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled && n.send != nil
}
