package taskbar

import (
	"github.com/mj1618/docklike/internal/logger"
	"github.com/mj1618/docklike/internal/platform"
	"github.com/mj1618/docklike/internal/policy"
)

// WindowHandle is the taskbar's view of one native window. It owns the
// window's menu item and its membership in a group.
//
// A handle is a member of its group exactly when Tracked reports true.
type WindowHandle struct {
	native platform.Window
	env    *Env
	log    *logger.Logger
	item   Representation

	key     string
	group   *Group
	state   platform.State
	monitor platform.MonitorRef
	tracked bool
	active  bool
	closed  bool

	unsubscribe func()
}

// NewWindowHandle resolves the window's group, subscribes to its
// notifications and runs an initial UpdateState.
func NewWindowHandle(native platform.Window, env *Env) *WindowHandle {
	w := &WindowHandle{
		native: native,
		env:    env,
		log:    env.Log.With("window", native.ID().String()),
		state:  native.State(),
	}
	w.item = env.Presenter.WindowItem(w)
	w.key = GroupingKey(native)
	w.group = env.Dock.PrepareGroup(env.Apps.Search(w.key))
	w.unsubscribe = native.Subscribe(w)

	w.UpdateState()
	if !w.tracked {
		env.Dock.Release(w.group)
	}
	w.item.RefreshIcon()
	w.item.RefreshLabel()
	w.log.Debug("Window handle created", "key", w.key, "group", w.group.ID(), "tracked", w.tracked)
	return w
}

func (w *WindowHandle) ID() platform.WindowID   { return w.native.ID() }
func (w *WindowHandle) Native() platform.Window { return w.native }
func (w *WindowHandle) Name() string            { return w.native.Name() }

// Key is the grouping key the current group was resolved from.
func (w *WindowHandle) Key() string { return w.key }

// Group is the window's current group. It is set even when the window is
// not tracked.
func (w *WindowHandle) Group() *Group { return w.group }

// Tracked reports whether the window is currently a member of its group.
func (w *WindowHandle) Tracked() bool { return w.tracked }

// Active reports whether the window carries the active highlight.
func (w *WindowHandle) Active() bool { return w.active }

// State is the cached state bitmask as of the last UpdateState.
func (w *WindowHandle) State() platform.State { return w.state }

// Closed reports whether Destroy has run.
func (w *WindowHandle) Closed() bool { return w.closed }

// Monitor is the monitor last computed for the window, when the screen
// filter is on.
func (w *WindowHandle) Monitor() platform.MonitorRef { return w.monitor }

// UpdateState recomputes whether the window belongs on the taskbar and joins
// or leaves its group accordingly.
//
// The tasklist check reads the state cached before this call, so a window
// that just gained skip-tasklist stays listed until the next update.
func (w *WindowHandle) UpdateState() {
	if w.closed {
		return
	}
	previous := w.state
	w.state = w.native.State()

	s := w.env.Settings
	in := policy.Input{
		Settings:        s,
		TasklistState:   previous,
		Workspace:       w.native.Workspace(),
		ActiveWorkspace: w.env.Screen.ActiveWorkspace(),
		PreviousMonitor: w.monitor,
	}
	if s.OnlyDisplayScreen {
		x, y := w.native.Geometry().Center()
		in.Monitor = w.env.Screen.MonitorAtPoint(x, y)
		in.PanelMonitor = w.env.Screen.PanelMonitor()
	}
	d := policy.Decide(in)
	if s.OnlyDisplayScreen {
		w.monitor = platform.MonitorRef{ID: in.Monitor, Valid: true}
	}

	if d.Track {
		w.joinGroup()
		if d.Activate {
			w.env.Activator.SetActiveWindow()
		}
	} else {
		w.leaveGroup()
	}
	w.item.Show()
}

func (w *WindowHandle) joinGroup() {
	if w.tracked {
		return
	}
	// A released group keeps its ID but not its button; resolve it again.
	w.group = w.env.Dock.PrepareGroup(w.group.App())
	w.group.Add(w)
	w.tracked = true
}

func (w *WindowHandle) leaveGroup() {
	if !w.tracked {
		return
	}
	w.group.Remove(w)
	w.group.OnWindowUnactivate()
	w.tracked = false
	w.env.Dock.Release(w.group)
}

// OnActivate applies the active highlight and, when tracked, marks the group
// active with this window on top.
func (w *WindowHandle) OnActivate() {
	if w.closed {
		return
	}
	w.active = true
	w.item.SetActiveStyle(true)
	w.item.QueueRedraw()
	w.item.RefreshLabel()
	if w.tracked {
		w.group.OnWindowActivate(w)
	}
}

// OnUnactivate removes the active highlight.
func (w *WindowHandle) OnUnactivate() {
	if w.closed {
		return
	}
	w.active = false
	w.item.SetActiveStyle(false)
	w.item.QueueRedraw()
	w.item.RefreshLabel()
	if w.tracked {
		w.group.OnWindowUnactivate()
	}
}

// Activate raises and focuses the window.
func (w *WindowHandle) Activate(timestamp uint32) error {
	return w.env.Commander.Activate(w.ID(), timestamp)
}

// Minimize minimizes the window.
func (w *WindowHandle) Minimize() error {
	return w.env.Commander.Minimize(w.ID())
}

// Destroy unsubscribes, leaves the group and releases the menu item. Further
// notifications are ignored.
func (w *WindowHandle) Destroy() {
	if w.closed {
		return
	}
	w.closed = true
	if w.unsubscribe != nil {
		w.unsubscribe()
	}
	w.leaveGroup()
	w.item.Release()
	w.log.Debug("Window handle destroyed")
}

func (w *WindowHandle) OnNameChanged() {
	if w.closed {
		return
	}
	w.item.RefreshLabel()
}

func (w *WindowHandle) OnIconChanged() {
	if w.closed {
		return
	}
	w.item.RefreshIcon()
}

func (w *WindowHandle) OnStateChanged(changed, newState platform.State) {
	w.UpdateState()
}

func (w *WindowHandle) OnWorkspaceChanged() {
	w.UpdateState()
}

func (w *WindowHandle) OnGeometryChanged() {
	w.UpdateState()
}

// OnClassChanged re-resolves the group. When it differs the window leaves the
// old group and joins the new one, whatever its visibility, and the active
// highlight is re-applied. The next UpdateState settles visibility again.
func (w *WindowHandle) OnClassChanged() {
	if w.closed {
		return
	}
	key := GroupingKey(w.native)
	group := w.env.Dock.PrepareGroup(w.env.Apps.Search(key))
	if group.ID() == w.group.ID() {
		w.key = key
		if !w.tracked {
			w.env.Dock.Release(group)
		}
		return
	}

	from := w.group.ID()
	w.leaveGroup()
	w.key, w.group = key, group
	w.joinGroup()
	w.log.Info("Window changed group", "from", from, "to", group.ID(), "tracked", w.tracked)
	w.env.Activator.SetActiveWindow()
}
