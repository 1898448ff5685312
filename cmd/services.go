package cmd

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/xvierd/repostat/internal/adapters/fsys"
	"github.com/xvierd/repostat/internal/adapters/git"
	"github.com/xvierd/repostat/internal/adapters/notification"
	"github.com/xvierd/repostat/internal/adapters/render"
	"github.com/xvierd/repostat/internal/adapters/runner"
	"github.com/xvierd/repostat/internal/config"
	"github.com/xvierd/repostat/internal/ports"
	"github.com/xvierd/repostat/internal/services"
)

// appDeps groups all service-layer dependencies initialized for one command.
type appDeps struct {
	config   *config.Config
	log      *logrus.Logger
	prober   ports.RepoProber
	sync     ports.SyncChecker
	scanner  ports.Scanner
	notifier ports.Notifier
}

// initializeServices loads the configuration, applies flag overrides and
// wires the adapters into the scan service.
func initializeServices(cmd *cobra.Command, opts *options, stderr io.Writer) (*appDeps, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	app := &appDeps{
		config: cfg,
		log:    newLogger(stderr, opts),
	}

	app.prober = git.NewProber()

	switch cfg.Sync.Engine {
	case config.EngineNative:
		app.sync = git.NewNativeSyncChecker()
	default:
		app.sync = git.NewCLISyncChecker(runner.NewExecRunner(app.log), cfg.Git.Binary, cfg.Sync.Timeout, app.log)
	}
	app.log.WithFields(logrus.Fields{
		"engine": cfg.Sync.Engine,
		"config": cfg.Source,
	}).Debug("sync engine selected")

	app.scanner = services.NewScanService(app.prober, app.sync, fsys.NewLister(), app.log)
	app.notifier = notification.New(&cfg.Notifications)

	return app, nil
}

// loadConfig reads the config file and applies the flags the user set.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("color") {
		cfg.Output.Color = opts.color
	}
	if flags.Changed("sort") {
		cfg.Output.Sort = opts.sort
	}
	if flags.Changed("notify") {
		cfg.Notifications.Enabled = opts.notify
	}
	if flags.Changed("sync-engine") {
		cfg.Sync.Engine = opts.syncEngine
	}
	if flags.Changed("timeout") {
		cfg.Sync.Timeout = opts.timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the diagnostics logger. Report output never goes
// through it.
func newLogger(stderr io.Writer, opts *options) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)

	if opts.verbose {
		log.SetLevel(logrus.DebugLevel)
	} else if opts.jsonOutput {
		log.SetOutput(io.Discard)
	}
	return log
}

// newReportWriter picks the JSON or text writer for stdout.
func (a *appDeps) newReportWriter(stdout io.Writer, target string, jsonOutput bool) ports.ReportWriter {
	if jsonOutput {
		return render.NewJSONWriter(stdout, target)
	}
	profile := render.ResolveProfile(a.config.Output.Color, stdout)
	return render.NewTextWriter(stdout, profile, a.config)
}
