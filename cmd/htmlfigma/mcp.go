package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Floristeady/html-to-figma-sub000/internal/bridge"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server over stdio",
	Long: `Expose the import-html tool to MCP clients over stdin/stdout. Each call
writes an import request to the shared state file, where "htmlfigma watch"
or the design-tool plugin picks it up.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().String("state", defaultStatePath, "Shared state file to write")
}

func runMCP(_ *cobra.Command, _ []string) error {
	log, err := commandLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	state := bridge.StateFile{Path: getStringWithFallback("state", "mcp.state", defaultStatePath)}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "htmlfigma",
		Version: version,
	}, nil)
	bridge.RegisterMCP(srv, state, bridge.SystemClock, log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info("MCP server ready", zap.String("state", state.Path))
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
