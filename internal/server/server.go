// Package server exposes the dock to MCP clients.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mj1618/docklike/internal/logger"
	"github.com/mj1618/docklike/internal/model"
)

// Dock is the part of a session the tools drive.
type Dock interface {
	Snapshot(ctx context.Context) (model.DockSnapshot, error)
	ActivateGroup(ctx context.Context, id string) error
	Reconcile(ctx context.Context) error
}

// Config holds MCP server configuration.
type Config struct {
	Name      string
	Version   string
	Transport string
	Port      int
	CacheTTL  time.Duration
}

// Server wraps the MCP server with the dock and a snapshot cache.
type Server struct {
	dock  Dock
	cache *SnapshotCache
	log   *logger.Logger
	mcp   *mcpserver.MCPServer
}

// New creates an MCP server with the dock tools registered.
func New(dock Dock, cfg Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Name == "" {
		cfg.Name = "docklike"
	}
	s := &Server{
		dock:  dock,
		cache: NewSnapshotCache(cfg.CacheTTL),
		log:   log,
		mcp:   mcpserver.NewMCPServer(cfg.Name, cfg.Version),
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve(cfg Config) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		s.log.Info("MCP server listening", "port", cfg.Port)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("list_groups",
			mcp.WithDescription("List the taskbar groups: one per application, pinned groups first, with their member window IDs"),
			mcp.WithBoolean("pinned", mcp.Description("Only pinned groups")),
			mcp.WithBoolean("nonempty", mcp.Description("Only groups with at least one window")),
		),
		s.handleListGroups,
	)

	s.mcp.AddTool(
		mcp.NewTool("list_windows",
			mcp.WithDescription("List every known window with its grouping key, group and whether the taskbar shows it"),
			mcp.WithString("group", mcp.Description("Only windows resolved to this group ID")),
			mcp.WithBoolean("tracked", mcp.Description("Only windows currently shown on the taskbar")),
		),
		s.handleListWindows,
	)

	s.mcp.AddTool(
		mcp.NewTool("activate_group",
			mcp.WithDescription("Activate a group like a click on its button: focus its top window, or cycle to the next window if the group is already active"),
			mcp.WithString("id", mcp.Description("Group ID, as reported by list_groups"), mcp.Required()),
		),
		s.handleActivateGroup,
	)

	s.mcp.AddTool(
		mcp.NewTool("reconcile",
			mcp.WithDescription("Re-evaluate every window against the visibility settings"),
		),
		s.handleReconcile,
	)
}
