package platform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// WindowID identifies a native window for its whole lifetime.
type WindowID uint64

func (id WindowID) String() string {
	return "0x" + strconv.FormatUint(uint64(id), 16)
}

// ParseWindowID accepts decimal or 0x-prefixed hexadecimal IDs.
func ParseWindowID(s string) (WindowID, error) {
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	v, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q: %w", s, err)
	}
	return WindowID(v), nil
}

// State is the bitmask of window state flags.
type State uint32

const (
	StateMinimized State = 1 << iota
	StateMaximizedHorizontally
	StateMaximizedVertically
	StateShaded
	StateSkipPager
	StateSkipTasklist
	StateSticky
	StateHidden
	StateFullscreen
	StateDemandsAttention
	StateUrgent
	StateAbove
	StateBelow
)

var stateNames = map[string]State{
	"minimized":              StateMinimized,
	"maximized-horizontally": StateMaximizedHorizontally,
	"maximized-vertically":   StateMaximizedVertically,
	"shaded":                 StateShaded,
	"skip-pager":             StateSkipPager,
	"skip-tasklist":          StateSkipTasklist,
	"sticky":                 StateSticky,
	"hidden":                 StateHidden,
	"fullscreen":             StateFullscreen,
	"demands-attention":      StateDemandsAttention,
	"urgent":                 StateUrgent,
	"above":                  StateAbove,
	"below":                  StateBelow,
}

// Has reports whether any of the flags in mask are set.
func (s State) Has(mask State) bool {
	return s&mask != 0
}

// Names returns the sorted flag names set in s.
func (s State) Names() []string {
	var names []string
	for name, flag := range stateNames {
		if s&flag != 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (s State) String() string {
	if s == 0 {
		return "normal"
	}
	return strings.Join(s.Names(), "|")
}

// ParseState converts flag names (e.g. "minimized", "skip-tasklist") to a State.
func ParseState(names []string) (State, error) {
	var s State
	for _, n := range names {
		flag, ok := stateNames[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return 0, fmt.Errorf("unknown window state: %q", n)
		}
		s |= flag
	}
	return s, nil
}

// WorkspaceID identifies a workspace.
type WorkspaceID int

// WorkspaceRef is an optional workspace reference. A window on all
// workspaces (or not yet placed) has no workspace.
type WorkspaceRef struct {
	ID    WorkspaceID
	Valid bool
}

// OnWorkspace returns a valid reference to id.
func OnWorkspace(id WorkspaceID) WorkspaceRef {
	return WorkspaceRef{ID: id, Valid: true}
}

// NoWorkspace is the null workspace reference.
var NoWorkspace = WorkspaceRef{}

func (w WorkspaceRef) String() string {
	if !w.Valid {
		return "none"
	}
	return strconv.Itoa(int(w.ID))
}

// MonitorID identifies a monitor.
type MonitorID int

// MonitorRef is an optional monitor reference.
type MonitorRef struct {
	ID    MonitorID
	Valid bool
}

// Bounds represents a screen rectangle.
type Bounds struct {
	X, Y, Width, Height int
}

// Center returns the centre point of the rectangle.
func (b Bounds) Center() (x, y int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Contains reports whether the point lies inside b.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

// ParseBBox parses a "x,y,w,h" string into a Bounds.
func ParseBBox(s string) (*Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid bbox %q: expected x,y,w,h", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid bbox %q: %w", s, err)
		}
		vals[i] = v
	}
	return &Bounds{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}
