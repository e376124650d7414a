package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/docklike/internal/model"
)

// result is the reply to a command tool.
type result struct {
	OK     bool   `yaml:"ok"`
	Action string `yaml:"action"`
	Group  string `yaml:"group,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

// toText serializes v to YAML for an MCP response.
func toText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %s", err)
	}
	return string(b)
}

// commandHandler runs fn, invalidates the cache and reports the outcome.
func (s *Server) commandHandler(ctx context.Context, res result, fn func(context.Context) error) (*mcp.CallToolResult, error) {
	err := fn(ctx)
	s.cache.Invalidate()
	if err != nil {
		res.Error = err.Error()
		return mcp.NewToolResultError(toText(res)), nil
	}
	res.OK = true
	return mcp.NewToolResultText(toText(res)), nil
}

func (s *Server) handleListGroups(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	pinnedOnly := boolParam(params, "pinned", false)
	nonempty := boolParam(params, "nonempty", false)

	snap, err := s.cache.Snapshot(ctx, s.dock)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	groups := []model.GroupSnapshot{}
	for _, g := range snap.Groups {
		if pinnedOnly && !g.Pinned {
			continue
		}
		if nonempty && len(g.Windows) == 0 {
			continue
		}
		groups = append(groups, g)
	}
	return mcp.NewToolResultText(toText(groups)), nil
}

func (s *Server) handleListWindows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	group := stringParam(params, "group", "")
	trackedOnly := boolParam(params, "tracked", false)

	snap, err := s.cache.Snapshot(ctx, s.dock)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	windows := []model.WindowSnapshot{}
	for _, w := range snap.Windows {
		if group != "" && w.Group != group {
			continue
		}
		if trackedOnly && !w.Tracked {
			continue
		}
		windows = append(windows, w)
	}
	return mcp.NewToolResultText(toText(windows)), nil
}

func (s *Server) handleActivateGroup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := stringParam(request.GetArguments(), "id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}
	return s.commandHandler(ctx, result{Action: "activate_group", Group: id}, func(ctx context.Context) error {
		return s.dock.ActivateGroup(ctx, id)
	})
}

func (s *Server) handleReconcile(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.commandHandler(ctx, result{Action: "reconcile"}, s.dock.Reconcile)
}

// Parameter extraction helpers for tool arguments.

func stringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func boolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}
