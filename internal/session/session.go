// Package session runs a windowing backend, the taskbar tracker and the user
// configuration on one event loop, and answers queries from other goroutines.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/mj1618/docklike/internal/appinfo"
	"github.com/mj1618/docklike/internal/logger"
	"github.com/mj1618/docklike/internal/loop"
	"github.com/mj1618/docklike/internal/model"
	"github.com/mj1618/docklike/internal/platform"
	"github.com/mj1618/docklike/internal/settings"
	"github.com/mj1618/docklike/internal/taskbar"
)

// Listener receives the dock changes produced by one loop task, together with
// the snapshot they lead to. The first batch after Run reports everything
// tracked at startup as added. It runs on the event loop and must not block.
type Listener func(changes []model.DockChange, snapshot model.DockSnapshot)

// Config carries what a Session is built from.
type Config struct {
	Provider  *platform.Provider
	Apps      *appinfo.Registry
	Presenter taskbar.Presenter
	Log       *logger.Logger

	// Store supplies settings and, with Watch, their reloads. Nil means
	// Settings (or the defaults) apply for the whole session.
	Store    *settings.Store
	Settings *settings.Settings

	// Watch reloads the config file and the applications directories when
	// they change on disk.
	Watch bool
}

// Session owns the tracker. All tracker access happens on the loop.
type Session struct {
	loop     *loop.Loop
	tracker  *taskbar.Tracker
	provider *platform.Provider
	apps     *appinfo.Registry
	store    *settings.Store
	log      *logger.Logger
	watch    bool

	settings  settings.Settings
	started   bool
	last      model.DockSnapshot
	listeners []Listener

	ran atomic.Bool
}

// New builds a session. Nothing is tracked until Start or Run.
func New(cfg Config) (*Session, error) {
	if cfg.Provider == nil || cfg.Provider.Screen == nil {
		return nil, errors.New("session: provider has no screen")
	}
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	apps := cfg.Apps
	if apps == nil {
		apps = appinfo.FromApps(log)
	}

	current := settings.Default()
	switch {
	case cfg.Store != nil:
		current = cfg.Store.Current()
	case cfg.Settings != nil:
		current = *cfg.Settings
	}
	apps.SetAliases(current.Aliases)

	s := &Session{
		loop:     loop.New(0),
		provider: cfg.Provider,
		apps:     apps,
		store:    cfg.Store,
		log:      log,
		watch:    cfg.Watch,
		settings: current,
	}
	s.tracker = taskbar.NewTracker(taskbar.Config{
		Screen:    cfg.Provider.Screen,
		Commander: cfg.Provider.Commander,
		Apps:      apps,
		Presenter: cfg.Presenter,
		Settings:  current.Policy(),
		Log:       log,
	})
	return s, nil
}

// OnChange registers l. Call it before Run.
func (s *Session) OnChange(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Start applies the pinned set and panel monitor and begins tracking the
// windows that already exist. It runs on the caller's goroutine and is a
// no-op after the first call.
func (s *Session) Start() {
	if s.started {
		return
	}
	s.started = true
	if s.provider.SetPanelMonitor != nil {
		s.provider.SetPanelMonitor(s.settings.PanelMonitor)
	}
	s.tracker.SetPinned(s.settings.Pinned)
	s.tracker.Start()
}

// Once starts tracking and returns the resulting dock state without running
// the loop, for one-shot callers that never call Run.
func (s *Session) Once() model.DockSnapshot {
	s.Start()
	return s.tracker.Snapshot()
}

// Snapshot returns the current dock state. It needs a running loop.
func (s *Session) Snapshot(ctx context.Context) (model.DockSnapshot, error) {
	var snap model.DockSnapshot
	err := s.Do(ctx, func(t *taskbar.Tracker) { snap = t.Snapshot() })
	return snap, err
}

// ActivateGroup focuses, or cycles within, the group with the given ID.
func (s *Session) ActivateGroup(ctx context.Context, id string) error {
	var activateErr error
	if err := s.Do(ctx, func(t *taskbar.Tracker) { activateErr = t.ActivateGroup(id, 0) }); err != nil {
		return err
	}
	return activateErr
}

// Reconcile re-evaluates every window against the current settings.
func (s *Session) Reconcile(ctx context.Context) error {
	return s.Do(ctx, func(t *taskbar.Tracker) { t.Reconcile() })
}

// Do runs fn against the tracker on the loop, then publishes any changes.
func (s *Session) Do(ctx context.Context, fn func(*taskbar.Tracker)) error {
	return s.loop.Do(ctx, func() {
		fn(s.tracker)
		s.publish()
	})
}

// Dispatch queues fn on the loop and publishes what it changed. Backends
// receive it as their dispatch function.
func (s *Session) Dispatch(fn func()) {
	if !s.loop.Post(func() {
		fn()
		s.publish()
	}) {
		s.log.Debug("Dropped event after loop stopped")
	}
}

// Run starts tracking and serves the loop until ctx is cancelled or the
// backend's event stream fails.
func (s *Session) Run(ctx context.Context) error {
	if !s.ran.CompareAndSwap(false, true) {
		return errors.New("session: already run")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.loop.Post(func() {
		s.Start()
		s.publish()
	})

	if s.watch {
		s.startWatchers(ctx)
	}

	backendErr := make(chan error, 1)
	if s.provider.Run != nil {
		go func() {
			err := s.provider.Run(ctx, s.Dispatch)
			backendErr <- err
			cancel()
		}()
	}

	loopErr := s.loop.Run(ctx)
	s.tracker.Close()
	if s.provider.Close != nil {
		if err := s.provider.Close(); err != nil {
			s.log.Warn("Backend close failed", "error", err.Error())
		}
	}

	select {
	case err := <-backendErr:
		if err != nil && !stopped(err) {
			return fmt.Errorf("%s backend: %w", s.provider.Name, err)
		}
	default:
	}
	if stopped(loopErr) {
		return nil
	}
	return loopErr
}

func stopped(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (s *Session) startWatchers(ctx context.Context) {
	if s.store != nil {
		s.store.Watch(func(cfg settings.Settings) {
			s.Dispatch(func() { s.applySettings(cfg) })
		})
	}
	err := s.apps.Watch(ctx, func() {
		if err := s.apps.Reload(); err != nil {
			s.log.Error("Application registry reload failed", err)
			return
		}
		s.Dispatch(s.tracker.RefreshApps)
	})
	if err != nil {
		s.log.Warn("Not watching applications directories", "error", err.Error())
	}
}

// applySettings runs on the loop.
func (s *Session) applySettings(cfg settings.Settings) {
	prev := s.settings
	s.settings = cfg

	if !sameAliases(prev.Aliases, cfg.Aliases) {
		s.apps.SetAliases(cfg.Aliases)
		s.tracker.RefreshApps()
	}
	s.tracker.SetPinned(cfg.Pinned)
	if prev.PanelMonitor != cfg.PanelMonitor && s.provider.SetPanelMonitor != nil {
		s.provider.SetPanelMonitor(cfg.PanelMonitor)
	}
	s.tracker.SetSettings(cfg.Policy())
}

func (s *Session) publish() {
	if !s.started || len(s.listeners) == 0 {
		return
	}
	curr := s.tracker.Snapshot()
	changes := model.DiffDocks(s.last, curr)
	s.last = curr
	if len(changes) == 0 {
		return
	}
	for _, l := range s.listeners {
		l(changes, curr)
	}
}

func sameAliases(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
