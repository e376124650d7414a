package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/docklike/internal/server"
	"github.com/mj1618/docklike/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing the dock",
	Long: `Start a Model Context Protocol (MCP) server that tracks windows live and
exposes the dock as tools: list_groups, list_windows, activate_group and
reconcile.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  docklike serve
  docklike serve --transport streamable-http --port 8080
  docklike serve --cache-ttl 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 250, "Snapshot cache TTL in milliseconds (0 to disable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")

	env, err := setup(cmd)
	if err != nil {
		return err
	}
	sess, _, err := newLiveSession(env, true)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sessErr := make(chan error, 1)
	go func() { sessErr <- sess.Run(ctx) }()

	cfg := server.Config{
		Name:      "docklike",
		Version:   version.Version,
		Transport: transport,
		Port:      port,
		CacheTTL:  time.Duration(cacheTTLMs) * time.Millisecond,
	}
	srv := server.New(sess, cfg, env.log)

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(cfg) }()

	select {
	case err := <-serveErr:
		cancel()
		if runErr := <-sessErr; runErr != nil {
			env.log.Error("Session stopped with error", runErr)
		}
		return err
	case err := <-sessErr:
		if err != nil {
			return fmt.Errorf("session stopped: %w", err)
		}
		return nil
	}
}
