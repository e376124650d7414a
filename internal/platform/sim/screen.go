package sim

import (
	"fmt"

	"github.com/mj1618/docklike/internal/platform"
)

// Monitor is a simulated monitor.
type Monitor struct {
	ID     platform.MonitorID
	Bounds platform.Bounds
}

// Op names a recorded command.
type Op string

const (
	OpActivate Op = "activate"
	OpMinimize Op = "minimize"
)

// Command is one call made through the Commander interface.
type Command struct {
	Op        Op
	ID        platform.WindowID
	Timestamp uint32
}

// Screen is a simulated display. It also implements platform.Commander and
// records every command it receives.
type Screen struct {
	windows   []*Window
	byID      map[platform.WindowID]*Window
	active    *Window
	workspace platform.WorkspaceRef
	monitors  []Monitor
	panel     platform.MonitorID

	listeners map[int]platform.ScreenListener
	nextSub   int

	Commands []Command
}

// NewScreen returns an empty screen on workspace 0 with one 1920x1080
// monitor.
func NewScreen() *Screen {
	return &Screen{
		byID:      make(map[platform.WindowID]*Window),
		workspace: platform.OnWorkspace(0),
		monitors:  []Monitor{{ID: 0, Bounds: platform.Bounds{Width: 1920, Height: 1080}}},
		listeners: make(map[int]platform.ScreenListener),
	}
}

// NewProvider wraps s as a platform provider.
func NewProvider(s *Screen) *platform.Provider {
	return &platform.Provider{Name: "sim", Screen: s, Commander: s}
}

func (s *Screen) Windows() []platform.Window {
	out := make([]platform.Window, len(s.windows))
	for i, w := range s.windows {
		out[i] = w
	}
	return out
}

func (s *Screen) ActiveWindow() platform.Window {
	if s.active == nil {
		return nil
	}
	return s.active
}

func (s *Screen) ActiveWorkspace() platform.WorkspaceRef { return s.workspace }

// MonitorAtPoint returns the first monitor containing the point, or the
// panel monitor when none does.
func (s *Screen) MonitorAtPoint(x, y int) platform.MonitorID {
	for _, m := range s.monitors {
		if m.Bounds.Contains(x, y) {
			return m.ID
		}
	}
	return s.panel
}

func (s *Screen) PanelMonitor() platform.MonitorID { return s.panel }

func (s *Screen) Subscribe(l platform.ScreenListener) func() {
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l
	return func() { delete(s.listeners, id) }
}

func (s *Screen) each(fn func(platform.ScreenListener)) {
	for id := 0; id < s.nextSub; id++ {
		if l, ok := s.listeners[id]; ok {
			fn(l)
		}
	}
}

// Window looks up a window by ID.
func (s *Screen) Window(id platform.WindowID) (*Window, bool) {
	w, ok := s.byID[id]
	return w, ok
}

// MustWindow is Window for tests and scenarios that know the ID exists.
func (s *Screen) MustWindow(id platform.WindowID) *Window {
	w, ok := s.byID[id]
	if !ok {
		panic(fmt.Sprintf("sim: no window %s", id))
	}
	return w
}

// Open adds a window and notifies listeners.
func (s *Screen) Open(spec WindowSpec) (*Window, error) {
	if _, ok := s.byID[spec.ID]; ok {
		return nil, fmt.Errorf("open %s: window already exists", spec.ID)
	}
	w := &Window{
		id:            spec.ID,
		name:          spec.Name,
		classGroup:    spec.ClassGroup,
		classInstance: spec.ClassInstance,
		icon:          spec.Icon,
		state:         spec.State,
		workspace:     spec.Workspace,
		geometry:      spec.Geometry,
	}
	s.windows = append(s.windows, w)
	s.byID[w.id] = w
	s.each(func(l platform.ScreenListener) { l.OnWindowOpened(w) })
	return w, nil
}

// Close removes a window and notifies listeners. Closing the active window
// leaves no window active.
func (s *Screen) Close(id platform.WindowID) error {
	w, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("close %s: %w", id, platform.ErrWindowGone)
	}
	delete(s.byID, id)
	for i, o := range s.windows {
		if o == w {
			s.windows = append(s.windows[:i], s.windows[i+1:]...)
			break
		}
	}
	s.each(func(l platform.ScreenListener) { l.OnWindowClosed(w) })
	if s.active == w {
		s.active = nil
		s.each(func(l platform.ScreenListener) { l.OnActiveWindowChanged(w, nil) })
	}
	return nil
}

// Focus makes the window active. A zero ID clears focus.
func (s *Screen) Focus(id platform.WindowID) error {
	var next *Window
	if id != 0 {
		w, ok := s.byID[id]
		if !ok {
			return fmt.Errorf("focus %s: %w", id, platform.ErrWindowGone)
		}
		next = w
	}
	if next == s.active {
		return nil
	}
	prev := s.active
	s.active = next
	var prevWin, nextWin platform.Window
	if prev != nil {
		prevWin = prev
	}
	if next != nil {
		nextWin = next
	}
	s.each(func(l platform.ScreenListener) { l.OnActiveWindowChanged(prevWin, nextWin) })
	return nil
}

// SwitchWorkspace changes the active workspace.
func (s *Screen) SwitchWorkspace(ref platform.WorkspaceRef) {
	if s.workspace == ref {
		return
	}
	s.workspace = ref
	s.each(func(l platform.ScreenListener) { l.OnActiveWorkspaceChanged() })
}

// SetMonitors replaces the monitor layout.
func (s *Screen) SetMonitors(monitors []Monitor) {
	s.monitors = append([]Monitor(nil), monitors...)
	s.each(func(l platform.ScreenListener) { l.OnMonitorsChanged() })
}

// SetPanelMonitor moves the taskbar to another monitor.
func (s *Screen) SetPanelMonitor(id platform.MonitorID) {
	if s.panel == id {
		return
	}
	s.panel = id
	s.each(func(l platform.ScreenListener) { l.OnMonitorsChanged() })
}

// Activate records the command and focuses the window.
func (s *Screen) Activate(id platform.WindowID, timestamp uint32) error {
	s.Commands = append(s.Commands, Command{Op: OpActivate, ID: id, Timestamp: timestamp})
	return s.Focus(id)
}

// Minimize records the command and sets the minimized state.
func (s *Screen) Minimize(id platform.WindowID) error {
	s.Commands = append(s.Commands, Command{Op: OpMinimize, ID: id})
	w, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("minimize %s: %w", id, platform.ErrWindowGone)
	}
	w.SetState(w.state | platform.StateMinimized)
	return nil
}
