package hyprland

import (
	"strconv"
	"strings"

	"github.com/mj1618/docklike/internal/platform"
)

// minimizedWorkspace is the special workspace Minimize parks windows on.
const minimizedWorkspace = "special:minimized"

// parseAddress converts a client address, with or without the 0x prefix.
func parseAddress(addr string) (platform.WindowID, bool) {
	addr = strings.TrimPrefix(strings.TrimSpace(addr), "0x")
	if addr == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(addr, 16, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return platform.WindowID(v), true
}

func address(id platform.WindowID) string {
	return "0x" + strconv.FormatUint(uint64(id), 16)
}

// window is a client as cached by the backend. It is only touched on the
// event loop.
type window struct {
	id        platform.WindowID
	client    Client
	state     platform.State
	workspace platform.WorkspaceRef
	geometry  platform.Bounds

	listeners map[int]platform.WindowListener
	nextSub   int
}

func newWindow(id platform.WindowID, c Client, urgent bool) *window {
	w := &window{id: id, listeners: make(map[int]platform.WindowListener)}
	w.client = c
	w.state = clientState(c, urgent)
	w.workspace = clientWorkspace(c)
	w.geometry = clientBounds(c)
	return w
}

func (w *window) ID() platform.WindowID { return w.id }
func (w *window) Name() string          { return w.client.Title }

func (w *window) ClassGroup() string {
	if w.client.Class != "" {
		return w.client.Class
	}
	return w.client.InitialClass
}

func (w *window) ClassInstance() string            { return w.client.InitialClass }
func (w *window) IconName() string                 { return strings.ToLower(w.ClassGroup()) }
func (w *window) State() platform.State            { return w.state }
func (w *window) Workspace() platform.WorkspaceRef { return w.workspace }
func (w *window) Geometry() platform.Bounds        { return w.geometry }

func (w *window) Subscribe(l platform.WindowListener) func() {
	id := w.nextSub
	w.nextSub++
	w.listeners[id] = l
	return func() { delete(w.listeners, id) }
}

func (w *window) each(fn func(platform.WindowListener)) {
	for id := 0; id < w.nextSub; id++ {
		if l, ok := w.listeners[id]; ok {
			fn(l)
		}
	}
}

func (w *window) minimized() bool {
	return w.client.Workspace.Name == minimizedWorkspace
}

// update replaces the cached client and notifies listeners of what changed.
// Class changes are reported last so handles regroup with fresh state.
func (w *window) update(c Client, urgent bool) {
	prev := w.client
	w.client = c

	if prev.Title != c.Title {
		w.each(func(l platform.WindowListener) { l.OnNameChanged() })
	}
	if state := clientState(c, urgent); state != w.state {
		changed := state ^ w.state
		w.state = state
		w.each(func(l platform.WindowListener) { l.OnStateChanged(changed, state) })
	}
	if ws := clientWorkspace(c); ws != w.workspace {
		w.workspace = ws
		w.each(func(l platform.WindowListener) { l.OnWorkspaceChanged() })
	}
	if b := clientBounds(c); b != w.geometry {
		w.geometry = b
		w.each(func(l platform.WindowListener) { l.OnGeometryChanged() })
	}
	if prev.Class != c.Class || prev.InitialClass != c.InitialClass {
		w.each(func(l platform.WindowListener) { l.OnIconChanged() })
		w.each(func(l platform.WindowListener) { l.OnClassChanged() })
	}
}

func clientState(c Client, urgent bool) platform.State {
	var s platform.State
	if c.Workspace.Name == minimizedWorkspace {
		s |= platform.StateMinimized
	}
	if c.Hidden || !c.Mapped {
		s |= platform.StateHidden
	}
	if c.Pinned {
		s |= platform.StateSticky
	}
	switch c.Fullscreen {
	case 0:
	case 1:
		s |= platform.StateMaximizedHorizontally | platform.StateMaximizedVertically
	default:
		s |= platform.StateFullscreen
	}
	if c.Floating {
		s |= platform.StateAbove
	}
	if urgent {
		s |= platform.StateUrgent | platform.StateDemandsAttention
	}
	return s
}

// clientWorkspace maps pinned clients and clients on special workspaces
// (scratchpads, the minimized stash) to no workspace: they are reachable
// from every workspace.
func clientWorkspace(c Client) platform.WorkspaceRef {
	if c.Pinned || c.Workspace.ID < 0 || strings.HasPrefix(c.Workspace.Name, "special:") {
		return platform.NoWorkspace
	}
	return platform.OnWorkspace(platform.WorkspaceID(c.Workspace.ID))
}

func clientBounds(c Client) platform.Bounds {
	return platform.Bounds{X: c.At[0], Y: c.At[1], Width: c.Size[0], Height: c.Size[1]}
}
