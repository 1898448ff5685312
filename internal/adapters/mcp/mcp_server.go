// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/repostat/internal/adapters/render"
	"github.com/xvierd/repostat/internal/domain"
	"github.com/xvierd/repostat/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server  *server.MCPServer
	scanner ports.Scanner
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(scanner ports.Scanner, version string) *Server {
	s := &Server{
		scanner: scanner,
	}

	s.server = server.NewMCPServer(
		"repostat",
		version,
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	scanTool := mcp.NewTool(
		"scan_directory",
		mcp.WithDescription("Report the working tree and sync state of a git repository, or of every repository directly inside a directory"),
		mcp.WithString(
			"path",
			mcp.Required(),
			mcp.Description("Directory to scan"),
		),
		mcp.WithBoolean(
			"sort",
			mcp.Description("Order entries by name instead of directory order"),
		),
		mcp.WithString(
			"match",
			mcp.Description("Only report entries whose names fuzzy-match this pattern"),
		),
	)
	s.server.AddTool(scanTool, s.handleScanDirectory)

	summaryTool := mcp.NewTool(
		"scan_summary",
		mcp.WithDescription("Count the repositories in a directory that are dirty or have unpushed commits"),
		mcp.WithString(
			"path",
			mcp.Required(),
			mcp.Description("Directory to scan"),
		),
	)
	s.server.AddTool(summaryTool, s.handleScanSummary)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)
	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

// handleScanDirectory handles the scan_directory tool.
func (s *Server) handleScanDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required: " + err.Error()), nil
	}

	req := domain.ScanRequest{
		Target: path,
		Sort:   request.GetBool("sort", false),
		Match:  request.GetString("match", ""),
	}

	target := path
	if abs, err := filepath.Abs(path); err == nil {
		target = abs
	}

	var buf bytes.Buffer
	w := render.NewJSONWriter(&buf, target)
	if _, err := s.scanner.Scan(ctx, req, w); err != nil {
		return mcp.NewToolResultError(scanErrorMessage(err)), nil
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	return mcp.NewToolResultText(buf.String()), nil
}

// handleScanSummary handles the scan_summary tool.
func (s *Server) handleScanSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required: " + err.Error()), nil
	}

	summary, err := s.scanner.Scan(ctx, domain.ScanRequest{Target: path}, discardWriter{})
	if err != nil {
		return mcp.NewToolResultError(scanErrorMessage(err)), nil
	}

	result := map[string]interface{}{
		"target":          summary.Target,
		"repositories":    summary.Repositories,
		"plain":           summary.Plain,
		"dirty":           summary.Dirty,
		"unsynced":        summary.Unsynced,
		"needs_attention": summary.NeedsAttention(),
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

func scanErrorMessage(err error) string {
	if errors.Is(err, domain.ErrNotADirectory) {
		return err.Error()
	}
	return fmt.Sprintf("scan failed: %v", err)
}

type discardWriter struct{}

func (discardWriter) WriteLine(domain.ReportLine) error { return nil }
func (discardWriter) Flush() error                      { return nil }
