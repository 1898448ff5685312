package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xvierd/repostat/internal/adapters/mcp"
)

func newMCPCmd(opts *options, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server provides tools for scanning directories of git repositories.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := initializeServices(cmd, opts, stderr)
			if err != nil {
				return err
			}

			// stdout carries the protocol
			fmt.Fprintln(stderr, "Starting MCP server on stdio, press Ctrl+C to stop")

			server := mcp.NewServer(app.scanner, Version)
			defer server.Stop()
			if err := server.Start(cmd.Context()); err != nil {
				return fmt.Errorf("MCP server error: %w", err)
			}
			return nil
		},
	}
}
