package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newConfigCmd(opts *options, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration a scan would run with: the config file merged
over the defaults, with REPOSTAT_* environment overrides and flags applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			source := cfg.Source
			if source == "" {
				source = "(defaults)"
			}

			rows := []struct {
				key   string
				value interface{}
			}{
				{"source", source},
				{"git.binary", cfg.Git.Binary},
				{"sync.engine", cfg.Sync.Engine},
				{"sync.timeout", cfg.Sync.Timeout},
				{"output.color", cfg.Output.Color},
				{"output.sort", cfg.Output.Sort},
				{"output.column_width", cfg.Output.ColumnWidth},
				{"labels.clean", cfg.Labels.Clean},
				{"labels.dirty", cfg.Labels.Dirty},
				{"labels.synced", cfg.Labels.Synced},
				{"labels.unsynced", cfg.Labels.Unsynced},
				{"theme.clean", cfg.Theme.Clean},
				{"theme.dirty", cfg.Theme.Dirty},
				{"theme.synced", cfg.Theme.Synced},
				{"theme.unsynced", cfg.Theme.Unsynced},
				{"notifications.enabled", cfg.Notifications.Enabled},
			}
			for _, row := range rows {
				if _, err := fmt.Fprintf(stdout, "%-22s %v\n", row.key, row.value); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
