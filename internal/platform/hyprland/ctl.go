package hyprland

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/mj1618/docklike/internal/logger"
)

// Runner executes hyprctl with args and returns its combined output.
type Runner func(ctx context.Context, args ...string) ([]byte, error)

// ExecRunner runs the hyprctl binary at path.
func ExecRunner(path string) Runner {
	return func(ctx context.Context, args ...string) ([]byte, error) {
		return exec.CommandContext(ctx, path, args...).CombinedOutput()
	}
}

// Ctl queries and commands the compositor through hyprctl.
type Ctl struct {
	run Runner
	log *logger.Logger
}

// NewCtl looks hyprctl up in PATH.
func NewCtl(log *logger.Logger) (*Ctl, error) {
	path, err := exec.LookPath("hyprctl")
	if err != nil {
		log.Error("hyprctl not found in PATH", err)
		return nil, fmt.Errorf("hyprctl not found in PATH: %w", err)
	}
	log.Debug("Found hyprctl", "path", path)
	return &Ctl{run: ExecRunner(path), log: log}, nil
}

// NewCtlWithRunner builds a Ctl around a custom runner.
func NewCtlWithRunner(run Runner, log *logger.Logger) *Ctl {
	return &Ctl{run: run, log: log}
}

func (c *Ctl) query(ctx context.Context, what string, v interface{}) error {
	output, err := c.run(ctx, what, "-j")
	if err != nil {
		c.log.Error("Failed to execute hyprctl", err, "query", what, "output", string(output))
		return fmt.Errorf("hyprctl %s: %w", what, err)
	}
	if err := json.Unmarshal(output, v); err != nil {
		c.log.Error("Failed to parse hyprctl output", err, "query", what, "output", string(output))
		return fmt.Errorf("failed to parse hyprctl %s output: %w", what, err)
	}
	return nil
}

// Clients lists every client window.
func (c *Ctl) Clients(ctx context.Context) ([]Client, error) {
	var clients []Client
	if err := c.query(ctx, "clients", &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// Monitors lists the enabled monitors.
func (c *Ctl) Monitors(ctx context.Context) ([]Monitor, error) {
	var monitors []Monitor
	if err := c.query(ctx, "monitors", &monitors); err != nil {
		return nil, err
	}
	return monitors, nil
}

// ActiveWindow returns the focused client's address, or "" when nothing
// has focus.
func (c *Ctl) ActiveWindow(ctx context.Context) (string, error) {
	var active struct {
		Address string `json:"address"`
	}
	if err := c.query(ctx, "activewindow", &active); err != nil {
		return "", err
	}
	return active.Address, nil
}

// ActiveWorkspace returns the focused workspace.
func (c *Ctl) ActiveWorkspace(ctx context.Context) (Workspace, error) {
	var ws Workspace
	err := c.query(ctx, "activeworkspace", &ws)
	return ws, err
}

// Dispatch runs a hyprctl dispatcher. hyprctl exits 0 on most failures, so
// anything other than "ok" is treated as an error.
func (c *Ctl) Dispatch(ctx context.Context, dispatcher string, arg string) error {
	output, err := c.run(ctx, "dispatch", dispatcher, arg)
	if err != nil {
		c.log.Error("Failed to dispatch", err, "dispatcher", dispatcher, "arg", arg, "output", string(output))
		return fmt.Errorf("hyprctl dispatch %s: %w", dispatcher, err)
	}
	if out := strings.TrimSpace(string(output)); out != "ok" {
		return fmt.Errorf("hyprctl dispatch %s %s: %s", dispatcher, arg, out)
	}
	return nil
}

// fullscreenMode accepts both the boolean (older releases) and the integer
// (0.42 and later) encodings of the client fullscreen field. 1 is
// maximized, 2 fullscreen; a legacy true means fullscreen.
type fullscreenMode int

func (m *fullscreenMode) UnmarshalJSON(b []byte) error {
	switch s := string(b); s {
	case "true":
		*m = 2
	case "false", "null":
		*m = 0
	default:
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid fullscreen value %s", s)
		}
		*m = fullscreenMode(n)
	}
	return nil
}

// Workspace is a workspace as reported by hyprctl.
type Workspace struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Client is a window as reported by hyprctl clients.
type Client struct {
	Address        string         `json:"address"`
	Mapped         bool           `json:"mapped"`
	Hidden         bool           `json:"hidden"`
	At             [2]int         `json:"at"`
	Size           [2]int         `json:"size"`
	Workspace      Workspace      `json:"workspace"`
	Floating       bool           `json:"floating"`
	Monitor        int            `json:"monitor"`
	Class          string         `json:"class"`
	Title          string         `json:"title"`
	InitialClass   string         `json:"initialClass"`
	InitialTitle   string         `json:"initialTitle"`
	PID            int            `json:"pid"`
	XWayland       bool           `json:"xwayland"`
	Pinned         bool           `json:"pinned"`
	Fullscreen     fullscreenMode `json:"fullscreen"`
	FocusHistoryID int            `json:"focusHistoryID"`
}

// Monitor is a monitor as reported by hyprctl monitors.
type Monitor struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	Width           int       `json:"width"`
	Height          int       `json:"height"`
	X               int       `json:"x"`
	Y               int       `json:"y"`
	Scale           float64   `json:"scale"`
	Transform       int       `json:"transform"`
	Focused         bool      `json:"focused"`
	Disabled        bool      `json:"disabled"`
	ActiveWorkspace Workspace `json:"activeWorkspace"`
}
