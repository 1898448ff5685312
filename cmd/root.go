// Package cmd provides the CLI commands for repostat.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/repostat/internal/domain"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// options holds the global flags of one invocation.
type options struct {
	configPath string
	jsonOutput bool
	color      string
	sort       bool
	match      string
	notify     bool
	syncEngine string
	timeout    time.Duration
	verbose    bool
}

// Run executes the command line in args (args[0] is the program name) and
// returns the process exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	if len(args) > 0 {
		rootCmd.SetArgs(args[1:])
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "repostat [target_dir]",
		Short: "Report the working tree and sync state of git repositories",
		Long: `repostat prints one line per repository: whether the working tree has
uncommitted changes and whether every local commit has been pushed.

If target_dir is itself a repository it is reported alone. Otherwise each
entry directly inside target_dir is reported: repositories with their
status, anything else by name only. target_dir defaults to the current
directory.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, opts, args, stdout, stderr)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to the config file (default: $XDG_CONFIG_HOME/repostat/config.toml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log probing and git invocations to stderr")
	flags.StringVar(&opts.syncEngine, "sync-engine", "", "Sync check engine: cli or native")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Bound each git history query; needs a unit, e.g. 30s or 2m (0 disables)")

	rootCmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the report as JSON")
	rootCmd.Flags().StringVar(&opts.color, "color", "", "Color mode: auto, always or never")
	rootCmd.Flags().BoolVar(&opts.sort, "sort", false, "Order entries by name instead of directory order")
	rootCmd.Flags().StringVarP(&opts.match, "match", "m", "", "Only report entries whose names fuzzy-match this pattern")
	rootCmd.Flags().BoolVar(&opts.notify, "notify", false, "Send a desktop notification when a repository needs attention")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("repostat\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(newMCPCmd(opts, stderr))
	rootCmd.AddCommand(newConfigCmd(opts, stdout))

	return rootCmd
}

// runScan reports the target directory to stdout.
func runScan(cmd *cobra.Command, opts *options, args []string, stdout, stderr io.Writer) error {
	app, err := initializeServices(cmd, opts, stderr)
	if err != nil {
		return err
	}

	target := ""
	if len(args) == 1 {
		target = args[0]
	}

	reportTarget := target
	if reportTarget == "" {
		reportTarget = "."
	}
	if abs, err := filepath.Abs(reportTarget); err == nil {
		reportTarget = abs
	}

	req := domain.ScanRequest{
		Target: target,
		Sort:   app.config.Output.Sort,
		Match:  opts.match,
	}

	w := app.newReportWriter(stdout, reportTarget, opts.jsonOutput)
	summary, err := app.scanner.Scan(cmd.Context(), req, w)
	if err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if err := app.notifier.NotifyScanSummary(summary); err != nil {
		app.log.WithError(err).Warn("failed to send notification")
	}

	return nil
}
