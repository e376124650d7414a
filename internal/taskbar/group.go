package taskbar

import (
	"errors"
	"fmt"

	"github.com/mj1618/docklike/internal/appinfo"
	"github.com/mj1618/docklike/internal/logger"
)

// ErrNoWindows is returned when activating a group that has no members.
var ErrNoWindows = errors.New("group has no windows")

// ErrNoGroup is returned when a group ID is not registered.
var ErrNoGroup = errors.New("no such group")

// Group aggregates the tracked windows of one application.
type Group struct {
	id     string
	app    *appinfo.AppInfo
	pinned bool
	log    *logger.Logger
	button Representation

	windows []*WindowHandle
	active  bool
	top     *WindowHandle
}

func newGroup(app *appinfo.AppInfo, presenter Presenter, log *logger.Logger) *Group {
	g := &Group{
		id:  app.ID,
		app: app,
		log: log.With("group", app.ID),
	}
	g.button = presenter.GroupButton(g)
	return g
}

func (g *Group) ID() string            { return g.id }
func (g *Group) App() *appinfo.AppInfo { return g.app }
func (g *Group) Pinned() bool          { return g.pinned }
func (g *Group) Len() int              { return len(g.windows) }

// Active reports whether one of the group's windows is the active window.
func (g *Group) Active() bool { return g.active }

// TopWindow is the member most recently activated, or nil.
func (g *Group) TopWindow() *WindowHandle { return g.top }

// Windows returns the members in join order.
func (g *Group) Windows() []*WindowHandle {
	out := make([]*WindowHandle, len(g.windows))
	copy(out, g.windows)
	return out
}

// Has reports whether w is a member.
func (g *Group) Has(w *WindowHandle) bool {
	return g.indexOf(w) >= 0
}

func (g *Group) indexOf(w *WindowHandle) int {
	for i, m := range g.windows {
		if m == w {
			return i
		}
	}
	return -1
}

// Add makes w a member. Adding a member twice is a no-op.
func (g *Group) Add(w *WindowHandle) {
	if g.Has(w) {
		return
	}
	g.windows = append(g.windows, w)
	g.button.RefreshLabel()
	g.button.Show()
	g.log.Debug("Window joined", "window", w.ID().String(), "members", len(g.windows))
}

// Remove drops w. Removing a non-member is a no-op.
func (g *Group) Remove(w *WindowHandle) {
	i := g.indexOf(w)
	if i < 0 {
		return
	}
	g.windows = append(g.windows[:i], g.windows[i+1:]...)
	if g.top == w {
		g.top = nil
	}
	g.button.RefreshLabel()
	g.button.QueueRedraw()
	g.log.Debug("Window left", "window", w.ID().String(), "members", len(g.windows))
}

// OnWindowActivate marks the group active with w on top.
func (g *Group) OnWindowActivate(w *WindowHandle) {
	g.top = w
	if g.active {
		return
	}
	g.active = true
	g.button.SetActiveStyle(true)
	g.button.QueueRedraw()
}

// OnWindowUnactivate clears the group's active state.
func (g *Group) OnWindowUnactivate() {
	if !g.active {
		return
	}
	g.active = false
	g.button.SetActiveStyle(false)
	g.button.QueueRedraw()
}

// Activate focuses the group's top window, or cycles to the next member when
// the group is already active.
func (g *Group) Activate(timestamp uint32) error {
	if len(g.windows) == 0 {
		return fmt.Errorf("activate %s: %w", g.id, ErrNoWindows)
	}
	target := g.windows[0]
	if i := g.indexOf(g.top); i >= 0 {
		target = g.top
		if g.active {
			target = g.windows[(i+1)%len(g.windows)]
		}
	}
	return target.Activate(timestamp)
}

// MinimizeAll minimizes every member, collecting failures.
func (g *Group) MinimizeAll() error {
	var errs []error
	for _, w := range g.windows {
		if err := w.Minimize(); err != nil {
			errs = append(errs, fmt.Errorf("minimize %s: %w", w.ID(), err))
		}
	}
	return errors.Join(errs...)
}

func (g *Group) release() {
	g.button.Release()
}
