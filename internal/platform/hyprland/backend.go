// Package hyprland is the windowing backend for the Hyprland compositor.
//
// Queries go through hyprctl; change notifications come from the socket2
// event stream. Every event that can affect the taskbar triggers a re-read
// of the client list, which is diffed against the cache to produce the
// per-window notifications.
package hyprland

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/mj1618/docklike/internal/logger"
	"github.com/mj1618/docklike/internal/platform"
)

// ErrEventStreamClosed is returned by Run when the compositor closes socket2.
var ErrEventStreamClosed = errors.New("hyprland event stream closed")

const (
	defaultSettle  = 30 * time.Millisecond
	commandTimeout = 2 * time.Second
)

// Backend caches compositor state and implements platform.Screen and
// platform.Commander. The cache is only read and written on the event loop;
// Run does its I/O elsewhere and hands results over through dispatch.
type Backend struct {
	ctl    *Ctl
	log    *logger.Logger
	socket string
	settle time.Duration
	panel  string

	windows   map[platform.WindowID]*window
	order     []*window
	active    *window
	workspace platform.WorkspaceRef
	monitors  []Monitor
	urgent    map[platform.WindowID]bool

	listeners map[int]platform.ScreenListener
	nextSub   int
}

// Option configures a Backend.
type Option func(*Backend)

// WithCtl replaces the hyprctl client.
func WithCtl(ctl *Ctl) Option {
	return func(b *Backend) { b.ctl = ctl }
}

// WithSocket sets the socket2 path.
func WithSocket(path string) Option {
	return func(b *Backend) { b.socket = path }
}

// WithSettle sets how long Run waits for an event burst to end before
// re-reading state.
func WithSettle(d time.Duration) Option {
	return func(b *Backend) { b.settle = d }
}

// WithPanelMonitor names the monitor the taskbar lives on.
func WithPanelMonitor(name string) Option {
	return func(b *Backend) { b.panel = name }
}

// snapshot is one complete read of compositor state.
type snapshot struct {
	clients   []Client
	monitors  []Monitor
	active    string
	workspace Workspace
	urgent    []platform.WindowID
}

// New connects to the running instance and loads the initial state.
func New(ctx context.Context, log *logger.Logger, opts ...Option) (*Backend, error) {
	b := &Backend{
		log:       log,
		settle:    defaultSettle,
		windows:   make(map[platform.WindowID]*window),
		urgent:    make(map[platform.WindowID]bool),
		listeners: make(map[int]platform.ScreenListener),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.ctl == nil {
		ctl, err := NewCtl(log)
		if err != nil {
			return nil, err
		}
		b.ctl = ctl
	}
	if b.socket == "" {
		path, err := SocketPath()
		if err != nil {
			return nil, err
		}
		b.socket = path
	}

	s, err := b.query(ctx)
	if err != nil {
		return nil, fmt.Errorf("initial hyprland state: %w", err)
	}
	b.apply(s)
	log.Info("Hyprland backend ready", "clients", len(b.order), "monitors", len(b.monitors), "socket", b.socket)
	return b, nil
}

// Provider wraps b as a platform provider.
func (b *Backend) Provider() *platform.Provider {
	return &platform.Provider{
		Name:            "hyprland",
		Screen:          b,
		Commander:       b,
		Run:             b.Run,
		SetPanelMonitor: b.SetPanelMonitor,
	}
}

// SetPanelMonitor names the monitor the taskbar lives on. Call it on the
// event loop.
func (b *Backend) SetPanelMonitor(name string) {
	if b.panel == name {
		return
	}
	b.panel = name
	b.each(func(l platform.ScreenListener) { l.OnMonitorsChanged() })
}

func (b *Backend) query(ctx context.Context) (snapshot, error) {
	var s snapshot
	var err error
	if s.clients, err = b.ctl.Clients(ctx); err != nil {
		return s, err
	}
	if s.monitors, err = b.ctl.Monitors(ctx); err != nil {
		return s, err
	}
	if s.active, err = b.ctl.ActiveWindow(ctx); err != nil {
		return s, err
	}
	if s.workspace, err = b.ctl.ActiveWorkspace(ctx); err != nil {
		return s, err
	}
	return s, nil
}

// apply diffs s against the cache and emits notifications.
func (b *Backend) apply(s snapshot) {
	for _, id := range s.urgent {
		b.urgent[id] = true
	}
	activeID, hasActive := parseAddress(s.active)
	if hasActive {
		delete(b.urgent, activeID)
	}

	seen := make(map[platform.WindowID]bool, len(s.clients))
	for _, c := range s.clients {
		id, ok := parseAddress(c.Address)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		if w, ok := b.windows[id]; ok {
			w.update(c, b.urgent[id])
			continue
		}
		w := newWindow(id, c, b.urgent[id])
		b.windows[id] = w
		b.order = append(b.order, w)
		b.each(func(l platform.ScreenListener) { l.OnWindowOpened(w) })
	}

	kept := b.order[:0]
	var closed []*window
	for _, w := range b.order {
		if seen[w.id] {
			kept = append(kept, w)
			continue
		}
		closed = append(closed, w)
	}
	b.order = kept
	for _, w := range closed {
		delete(b.windows, w.id)
		delete(b.urgent, w.id)
		b.each(func(l platform.ScreenListener) { l.OnWindowClosed(w) })
	}

	var next *window
	if hasActive {
		next = b.windows[activeID]
	}
	if next != b.active {
		prev := b.active
		b.active = next
		b.each(func(l platform.ScreenListener) { l.OnActiveWindowChanged(asWindow(prev), asWindow(next)) })
	}

	if ws := platform.OnWorkspace(platform.WorkspaceID(s.workspace.ID)); ws != b.workspace {
		b.workspace = ws
		b.each(func(l platform.ScreenListener) { l.OnActiveWorkspaceChanged() })
	}

	if !sameMonitors(b.monitors, s.monitors) {
		b.monitors = s.monitors
		b.each(func(l platform.ScreenListener) { l.OnMonitorsChanged() })
	}
}

// asWindow avoids handing listeners a typed nil.
func asWindow(w *window) platform.Window {
	if w == nil {
		return nil
	}
	return w
}

func sameMonitors(a, b []Monitor) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.ID != y.ID || x.Name != y.Name || x.Disabled != y.Disabled || monitorBounds(x) != monitorBounds(y) {
			return false
		}
	}
	return true
}

// monitorBounds is the monitor rectangle in layout coordinates, which is
// what client positions use.
func monitorBounds(m Monitor) platform.Bounds {
	w, h := m.Width, m.Height
	if m.Transform%2 == 1 {
		w, h = h, w
	}
	if m.Scale > 0 {
		w = int(float64(w) / m.Scale)
		h = int(float64(h) / m.Scale)
	}
	return platform.Bounds{X: m.X, Y: m.Y, Width: w, Height: h}
}

func (b *Backend) Windows() []platform.Window {
	out := make([]platform.Window, len(b.order))
	for i, w := range b.order {
		out[i] = w
	}
	return out
}

func (b *Backend) ActiveWindow() platform.Window { return asWindow(b.active) }

func (b *Backend) ActiveWorkspace() platform.WorkspaceRef { return b.workspace }

func (b *Backend) MonitorAtPoint(x, y int) platform.MonitorID {
	for _, m := range b.monitors {
		if !m.Disabled && monitorBounds(m).Contains(x, y) {
			return platform.MonitorID(m.ID)
		}
	}
	return b.PanelMonitor()
}

// PanelMonitor is the monitor named by WithPanelMonitor, falling back to
// the first enabled monitor.
func (b *Backend) PanelMonitor() platform.MonitorID {
	var first *Monitor
	for i, m := range b.monitors {
		if m.Disabled {
			continue
		}
		if m.Name == b.panel {
			return platform.MonitorID(m.ID)
		}
		if first == nil {
			first = &b.monitors[i]
		}
	}
	if first == nil {
		return 0
	}
	return platform.MonitorID(first.ID)
}

func (b *Backend) Subscribe(l platform.ScreenListener) func() {
	id := b.nextSub
	b.nextSub++
	b.listeners[id] = l
	return func() { delete(b.listeners, id) }
}

func (b *Backend) each(fn func(platform.ScreenListener)) {
	for id := 0; id < b.nextSub; id++ {
		if l, ok := b.listeners[id]; ok {
			fn(l)
		}
	}
}

// Activate focuses the window, first bringing it back from the minimized
// stash if needed. The timestamp has no meaning on Wayland.
func (b *Backend) Activate(id platform.WindowID, timestamp uint32) error {
	w, ok := b.windows[id]
	if !ok {
		return fmt.Errorf("activate %s: %w", id, platform.ErrWindowGone)
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if w.minimized() {
		target := fmt.Sprintf("%d,address:%s", b.workspace.ID, address(id))
		if err := b.ctl.Dispatch(ctx, "movetoworkspacesilent", target); err != nil {
			return err
		}
	}
	b.log.Debug("Focusing window", "address", address(id))
	return b.ctl.Dispatch(ctx, "focuswindow", "address:"+address(id))
}

// Minimize moves the window to the minimized special workspace.
func (b *Backend) Minimize(id platform.WindowID) error {
	if _, ok := b.windows[id]; !ok {
		return fmt.Errorf("minimize %s: %w", id, platform.ErrWindowGone)
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	return b.ctl.Dispatch(ctx, "movetoworkspacesilent", minimizedWorkspace+",address:"+address(id))
}

// Run reads socket2 until ctx is cancelled or the stream fails. Bursts of
// events are coalesced into one state read.
func (b *Backend) Run(ctx context.Context, dispatch func(func())) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", b.socket)
	if err != nil {
		return fmt.Errorf("connect to hyprland events: %w", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	events := make(chan Event, 64)
	readErr := make(chan error, 1)
	go func() { readErr <- readEvents(ctx, conn, events) }()

	var (
		timer  *time.Timer
		fire   <-chan time.Time
		urgent []platform.WindowID
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			if err == nil {
				err = ErrEventStreamClosed
			}
			return fmt.Errorf("hyprland events: %w", err)
		case ev := <-events:
			b.log.Debug("Hyprland event", "event", ev.Name, "data", ev.Data)
			if ev.Name == "urgent" {
				if id, ok := parseAddress(ev.Data); ok {
					urgent = append(urgent, id)
				}
			}
			if !ev.NeedsRefresh() || timer != nil {
				continue
			}
			timer = time.NewTimer(b.settle)
			fire = timer.C
		case <-fire:
			timer, fire = nil, nil
			s, err := b.query(ctx)
			if err != nil {
				b.log.Warn("Failed to refresh hyprland state", "error", err.Error())
				continue
			}
			s.urgent, urgent = urgent, nil
			dispatch(func() { b.apply(s) })
		}
	}
}
