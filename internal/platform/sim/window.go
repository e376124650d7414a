// Package sim is an in-memory windowing backend. Every mutation delivers its
// notifications synchronously on the calling goroutine, which makes it the
// backend of choice for tests and for replaying recorded scenarios.
package sim

import (
	"github.com/mj1618/docklike/internal/platform"
)

// Window is a simulated native window.
type Window struct {
	id            platform.WindowID
	name          string
	classGroup    string
	classInstance string
	icon          string
	state         platform.State
	workspace     platform.WorkspaceRef
	geometry      platform.Bounds

	listeners map[int]platform.WindowListener
	nextSub   int
}

// WindowSpec describes a window to open.
type WindowSpec struct {
	ID            platform.WindowID
	Name          string
	ClassGroup    string
	ClassInstance string
	Icon          string
	State         platform.State
	Workspace     platform.WorkspaceRef
	Geometry      platform.Bounds
}

func (w *Window) ID() platform.WindowID            { return w.id }
func (w *Window) Name() string                     { return w.name }
func (w *Window) ClassGroup() string               { return w.classGroup }
func (w *Window) ClassInstance() string            { return w.classInstance }
func (w *Window) IconName() string                 { return w.icon }
func (w *Window) State() platform.State            { return w.state }
func (w *Window) Workspace() platform.WorkspaceRef { return w.workspace }
func (w *Window) Geometry() platform.Bounds        { return w.geometry }

// Subscribe registers l. The returned function is idempotent.
func (w *Window) Subscribe(l platform.WindowListener) func() {
	if w.listeners == nil {
		w.listeners = make(map[int]platform.WindowListener)
	}
	id := w.nextSub
	w.nextSub++
	w.listeners[id] = l
	return func() { delete(w.listeners, id) }
}

// Subscribers is the number of live subscriptions.
func (w *Window) Subscribers() int { return len(w.listeners) }

// each calls fn for every listener in subscription order. Listeners that
// unsubscribe during dispatch are skipped from then on.
func (w *Window) each(fn func(platform.WindowListener)) {
	for id := 0; id < w.nextSub; id++ {
		if l, ok := w.listeners[id]; ok {
			fn(l)
		}
	}
}

// SetName changes the title.
func (w *Window) SetName(name string) {
	if w.name == name {
		return
	}
	w.name = name
	w.each(func(l platform.WindowListener) { l.OnNameChanged() })
}

// SetIcon changes the icon name.
func (w *Window) SetIcon(icon string) {
	if w.icon == icon {
		return
	}
	w.icon = icon
	w.each(func(l platform.WindowListener) { l.OnIconChanged() })
}

// SetState replaces the state bitmask.
func (w *Window) SetState(s platform.State) {
	changed := w.state ^ s
	if changed == 0 {
		return
	}
	w.state = s
	w.each(func(l platform.WindowListener) { l.OnStateChanged(changed, s) })
}

// MoveToWorkspace changes the window's workspace.
func (w *Window) MoveToWorkspace(ref platform.WorkspaceRef) {
	if w.workspace == ref {
		return
	}
	w.workspace = ref
	w.each(func(l platform.WindowListener) { l.OnWorkspaceChanged() })
}

// SetGeometry moves or resizes the window.
func (w *Window) SetGeometry(b platform.Bounds) {
	if w.geometry == b {
		return
	}
	w.geometry = b
	w.each(func(l platform.WindowListener) { l.OnGeometryChanged() })
}

// SetClass changes the class group and instance.
func (w *Window) SetClass(group, instance string) {
	if w.classGroup == group && w.classInstance == instance {
		return
	}
	w.classGroup, w.classInstance = group, instance
	w.each(func(l platform.WindowListener) { l.OnClassChanged() })
}
