package taskbar

import (
	"fmt"
	"time"

	"github.com/mj1618/docklike/internal/logger"
	"github.com/mj1618/docklike/internal/model"
	"github.com/mj1618/docklike/internal/platform"
	"github.com/mj1618/docklike/internal/policy"
)

// Tracker owns one WindowHandle per open window and routes screen
// notifications to them.
type Tracker struct {
	env         *Env
	log         *logger.Logger
	handles     map[platform.WindowID]*WindowHandle
	order       []*WindowHandle
	unsubscribe func()
}

// Config carries the collaborators a Tracker needs.
type Config struct {
	Screen    platform.Screen
	Commander platform.Commander
	Apps      AppRegistry
	Presenter Presenter
	Settings  policy.Settings
	Log       *logger.Logger
}

// NewTracker returns a tracker. Call Start to begin tracking.
func NewTracker(cfg Config) *Tracker {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	presenter := cfg.Presenter
	if presenter == nil {
		presenter = NopPresenter{}
	}
	t := &Tracker{
		log:     log,
		handles: make(map[platform.WindowID]*WindowHandle),
	}
	t.env = &Env{
		Settings:  cfg.Settings,
		Apps:      cfg.Apps,
		Dock:      NewDock(presenter, log),
		Screen:    cfg.Screen,
		Commander: cfg.Commander,
		Activator: t,
		Presenter: presenter,
		Log:       log,
	}
	return t
}

// Dock returns the group registry.
func (t *Tracker) Dock() *Dock { return t.env.Dock }

// Settings returns the visibility settings in effect.
func (t *Tracker) Settings() policy.Settings { return t.env.Settings }

// Start subscribes to the screen and creates handles for the windows that
// already exist.
func (t *Tracker) Start() {
	t.unsubscribe = t.env.Screen.Subscribe(t)
	for _, w := range t.env.Screen.Windows() {
		t.OnWindowOpened(w)
	}
	t.SetActiveWindow()
	t.log.Info("Tracking windows", "windows", len(t.order), "groups", t.env.Dock.Len())
}

// Close unsubscribes and destroys every handle.
func (t *Tracker) Close() {
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
	for _, h := range t.order {
		h.Destroy()
	}
	t.order = nil
	t.handles = make(map[platform.WindowID]*WindowHandle)
}

// Windows returns the handles in the order the windows were opened.
func (t *Tracker) Windows() []*WindowHandle {
	out := make([]*WindowHandle, len(t.order))
	copy(out, t.order)
	return out
}

// Window looks up a handle by window ID.
func (t *Tracker) Window(id platform.WindowID) (*WindowHandle, bool) {
	h, ok := t.handles[id]
	return h, ok
}

func (t *Tracker) OnWindowOpened(w platform.Window) {
	if _, ok := t.handles[w.ID()]; ok {
		return
	}
	h := NewWindowHandle(w, t.env)
	t.handles[w.ID()] = h
	t.order = append(t.order, h)
}

func (t *Tracker) OnWindowClosed(w platform.Window) {
	h, ok := t.handles[w.ID()]
	if !ok {
		return
	}
	delete(t.handles, w.ID())
	for i, o := range t.order {
		if o == h {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	h.Destroy()
}

func (t *Tracker) OnActiveWindowChanged(previous, current platform.Window) {
	if previous != nil {
		if h, ok := t.handles[previous.ID()]; ok {
			h.OnUnactivate()
		}
	}
	if current != nil {
		if h, ok := t.handles[current.ID()]; ok {
			h.OnActivate()
		}
	}
}

func (t *Tracker) OnActiveWorkspaceChanged() { t.Reconcile() }

func (t *Tracker) OnMonitorsChanged() { t.Reconcile() }

// SetActiveWindow re-applies the highlight to the active window.
func (t *Tracker) SetActiveWindow() {
	w := t.env.Screen.ActiveWindow()
	if w == nil {
		return
	}
	if h, ok := t.handles[w.ID()]; ok {
		h.OnActivate()
	}
}

// Reconcile re-runs UpdateState on every window.
func (t *Tracker) Reconcile() {
	for _, h := range t.Windows() {
		h.UpdateState()
	}
}

// SetSettings swaps the visibility settings and reconciles.
func (t *Tracker) SetSettings(s policy.Settings) {
	if s == t.env.Settings {
		return
	}
	t.log.Info("Visibility settings changed",
		"only_display_visible", s.OnlyDisplayVisible,
		"only_display_screen", s.OnlyDisplayScreen,
		"follow_monitor", s.FollowMonitor)
	t.env.Settings = s
	t.Reconcile()
}

// SetPinned replaces the pinned applications.
func (t *Tracker) SetPinned(keys []string) {
	t.env.Dock.SetPinned(keys, t.env.Apps)
}

// RefreshApps re-resolves every window's group, for use after the
// application registry has been reloaded, and then reconciles so that
// windows moved by the class-change path are filtered again.
func (t *Tracker) RefreshApps() {
	for _, h := range t.Windows() {
		h.OnClassChanged()
	}
	t.Reconcile()
}

// ActivateGroup focuses (or cycles within) the group with the given ID.
func (t *Tracker) ActivateGroup(id string, timestamp uint32) error {
	g, ok := t.env.Dock.Group(id)
	if !ok {
		return fmt.Errorf("activate %s: %w", id, ErrNoGroup)
	}
	return g.Activate(timestamp)
}

// Snapshot captures the current groups and windows.
func (t *Tracker) Snapshot() model.DockSnapshot {
	s := model.DockSnapshot{
		TS:      time.Now().Unix(),
		Groups:  []model.GroupSnapshot{},
		Windows: []model.WindowSnapshot{},
	}
	for _, g := range t.env.Dock.Groups() {
		gs := model.GroupSnapshot{
			ID:      g.ID(),
			Name:    g.App().Name,
			Icon:    g.App().Icon,
			Unknown: g.App().Unknown,
			Pinned:  g.Pinned(),
			Active:  g.Active(),
			Windows: []string{},
		}
		if top := g.TopWindow(); top != nil {
			gs.Top = top.ID().String()
		}
		for _, w := range g.Windows() {
			gs.Windows = append(gs.Windows, w.ID().String())
		}
		s.Groups = append(s.Groups, gs)
	}
	for _, h := range t.order {
		ws := model.WindowSnapshot{
			ID:      h.ID().String(),
			Name:    h.Name(),
			Key:     h.Key(),
			Group:   h.Group().ID(),
			State:   h.State().Names(),
			Tracked: h.Tracked(),
			Active:  h.Active(),
		}
		if ref := h.Native().Workspace(); ref.Valid {
			ws.Workspace = ref.String()
		}
		s.Windows = append(s.Windows, ws)
	}
	return s
}
