package taskbar

import (
	"errors"
	"strings"
	"testing"

	"github.com/mj1618/docklike/internal/appinfo"
	"github.com/mj1618/docklike/internal/logger"
	"github.com/mj1618/docklike/internal/platform"
	"github.com/mj1618/docklike/internal/platform/sim"
	"github.com/mj1618/docklike/internal/policy"
)

func newTracker(t *testing.T, screen *sim.Screen, s policy.Settings, apps AppRegistry) *Tracker {
	t.Helper()
	if apps == nil {
		apps = appinfo.FromApps(logger.Nop())
	}
	tr := NewTracker(Config{
		Screen:    screen,
		Commander: screen,
		Apps:      apps,
		Settings:  s,
		Log:       logger.Nop(),
	})
	tr.Start()
	t.Cleanup(tr.Close)
	return tr
}

func mustOpen(t *testing.T, s *sim.Screen, spec sim.WindowSpec) *sim.Window {
	t.Helper()
	w, err := s.Open(spec)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func mustHandle(t *testing.T, tr *Tracker, id platform.WindowID) *WindowHandle {
	t.Helper()
	h, ok := tr.Window(id)
	if !ok {
		t.Fatalf("no handle for %s", id)
	}
	return h
}

func TestTracker_StartAdoptsExistingWindows(t *testing.T) {
	screen := sim.NewScreen()
	mustOpen(t, screen, sim.WindowSpec{ID: 1, ClassGroup: "Firefox"})
	mustOpen(t, screen, sim.WindowSpec{ID: 2, ClassGroup: "kitty"})
	if err := screen.Focus(2); err != nil {
		t.Fatal(err)
	}

	tr := newTracker(t, screen, policy.Settings{}, nil)

	if len(tr.Windows()) != 2 || tr.Dock().Len() != 2 {
		t.Fatalf("windows=%d groups=%d", len(tr.Windows()), tr.Dock().Len())
	}
	h2 := mustHandle(t, tr, 2)
	if !h2.Active() || !h2.Group().Active() || h2.Group().TopWindow() != h2 {
		t.Error("the focused window should be highlighted on start")
	}
	checkInvariants(t, tr.Dock(), tr.Windows()...)
}

func TestTracker_FocusMovesHighlight(t *testing.T) {
	screen := sim.NewScreen()
	tr := newTracker(t, screen, policy.Settings{}, nil)
	mustOpen(t, screen, sim.WindowSpec{ID: 1, ClassGroup: "Firefox"})
	mustOpen(t, screen, sim.WindowSpec{ID: 2, ClassGroup: "kitty"})

	_ = screen.Focus(1)
	_ = screen.Focus(2)

	h1, h2 := mustHandle(t, tr, 1), mustHandle(t, tr, 2)
	if h1.Active() || h1.Group().Active() {
		t.Error("window 1 and its group should be inactive")
	}
	if !h2.Active() || !h2.Group().Active() {
		t.Error("window 2 and its group should be active")
	}
}

func TestTracker_CloseWindow(t *testing.T) {
	screen := sim.NewScreen()
	tr := newTracker(t, screen, policy.Settings{}, nil)
	w := mustOpen(t, screen, sim.WindowSpec{ID: 1, ClassGroup: "Firefox"})
	h := mustHandle(t, tr, 1)

	if err := screen.Close(1); err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.Window(1); ok {
		t.Error("handle should be dropped")
	}
	if !h.Closed() || w.Subscribers() != 0 {
		t.Error("handle should be destroyed")
	}
	if tr.Dock().Len() != 0 {
		t.Errorf("groups left: %d", tr.Dock().Len())
	}
}

func TestTracker_WorkspaceSwitchReconciles(t *testing.T) {
	screen := sim.NewScreen()
	screen.SwitchWorkspace(ws(1))
	tr := newTracker(t, screen, policy.Settings{OnlyDisplayVisible: true}, nil)
	mustOpen(t, screen, sim.WindowSpec{ID: 1, ClassGroup: "Firefox", Workspace: ws(1)})
	mustOpen(t, screen, sim.WindowSpec{ID: 2, ClassGroup: "kitty", Workspace: ws(2)})
	h1, h2 := mustHandle(t, tr, 1), mustHandle(t, tr, 2)

	if !h1.Tracked() || h2.Tracked() {
		t.Fatalf("before switch: tracked=%v,%v", h1.Tracked(), h2.Tracked())
	}
	screen.SwitchWorkspace(ws(2))
	if h1.Tracked() || !h2.Tracked() {
		t.Errorf("after switch: tracked=%v,%v", h1.Tracked(), h2.Tracked())
	}
	checkInvariants(t, tr.Dock(), tr.Windows()...)
}

func TestTracker_SetSettings(t *testing.T) {
	screen := sim.NewScreen()
	screen.SwitchWorkspace(ws(1))
	tr := newTracker(t, screen, policy.Settings{}, nil)
	mustOpen(t, screen, sim.WindowSpec{ID: 1, ClassGroup: "Firefox", Workspace: ws(2)})
	h := mustHandle(t, tr, 1)
	if !h.Tracked() {
		t.Fatal("filters off: every window is tracked")
	}

	tr.SetSettings(policy.Settings{OnlyDisplayVisible: true})
	if h.Tracked() {
		t.Error("enabling the workspace filter should drop the window")
	}
	if !tr.Settings().OnlyDisplayVisible {
		t.Error("Settings() not updated")
	}
	tr.SetSettings(policy.Settings{})
	if !h.Tracked() {
		t.Error("disabling the filter should bring it back")
	}
}

func TestTracker_ClassChangeKeepsHighlight(t *testing.T) {
	screen := sim.NewScreen()
	tr := newTracker(t, screen, policy.Settings{}, nil)
	w := mustOpen(t, screen, sim.WindowSpec{ID: 1, ClassGroup: "A"})
	_ = screen.Focus(1)

	w.SetClass("B", "")
	h := mustHandle(t, tr, 1)
	g := h.Group()
	if g.ID() != "b" || !g.Active() || g.TopWindow() != h {
		t.Errorf("new group should be active with the window on top: id=%s active=%v", g.ID(), g.Active())
	}
	if _, ok := tr.Dock().Group("a"); ok {
		t.Error("old group should be gone")
	}
}

func TestTracker_ActivateGroup(t *testing.T) {
	screen := sim.NewScreen()
	tr := newTracker(t, screen, policy.Settings{}, nil)
	mustOpen(t, screen, sim.WindowSpec{ID: 1, ClassGroup: "kitty"})
	mustOpen(t, screen, sim.WindowSpec{ID: 2, ClassGroup: "kitty"})

	if err := tr.ActivateGroup("nope", 0); !errors.Is(err, ErrNoGroup) {
		t.Errorf("ActivateGroup(nope) = %v", err)
	}
	if err := tr.ActivateGroup("kitty", 0); err != nil {
		t.Fatal(err)
	}
	if screen.ActiveWindow().ID() != 1 {
		t.Errorf("first activation should focus window 1, got %s", screen.ActiveWindow().ID())
	}
	if err := tr.ActivateGroup("kitty", 0); err != nil {
		t.Fatal(err)
	}
	if screen.ActiveWindow().ID() != 2 {
		t.Errorf("second activation should cycle to window 2, got %s", screen.ActiveWindow().ID())
	}
}

func TestTracker_RefreshApps(t *testing.T) {
	apps := appinfo.FromApps(logger.Nop(), &appinfo.AppInfo{ID: "libreoffice-writer", Name: "LibreOffice Writer"})
	screen := sim.NewScreen()
	tr := newTracker(t, screen, policy.Settings{}, apps)
	mustOpen(t, screen, sim.WindowSpec{ID: 1, ClassGroup: "soffice"})

	if got := mustHandle(t, tr, 1).Group().ID(); got != "soffice" {
		t.Fatalf("group = %s", got)
	}
	apps.SetAliases(map[string]string{"soffice": "libreoffice-writer"})
	tr.RefreshApps()
	if got := mustHandle(t, tr, 1).Group().ID(); got != "libreoffice-writer" {
		t.Errorf("after alias, group = %s", got)
	}
	checkInvariants(t, tr.Dock(), tr.Windows()...)
}

func TestTracker_RefreshAppsKeepsFilteredWindowsOut(t *testing.T) {
	apps := appinfo.FromApps(logger.Nop(), &appinfo.AppInfo{ID: "libreoffice-writer", Name: "LibreOffice Writer"})
	screen := sim.NewScreen()
	screen.SwitchWorkspace(platform.OnWorkspace(1))
	tr := newTracker(t, screen, policy.Settings{OnlyDisplayVisible: true}, apps)
	mustOpen(t, screen, sim.WindowSpec{ID: 1, ClassGroup: "soffice", Workspace: platform.OnWorkspace(2)})

	tr.RefreshApps()
	if tr.Dock().Len() != 0 {
		t.Fatalf("an unchanged registry must not register groups, got %d", tr.Dock().Len())
	}

	apps.SetAliases(map[string]string{"soffice": "libreoffice-writer"})
	tr.RefreshApps()
	h := mustHandle(t, tr, 1)
	if h.Tracked() {
		t.Error("window on another workspace should stay untracked after a registry reload")
	}
	if h.Group().ID() != "libreoffice-writer" {
		t.Errorf("group = %s", h.Group().ID())
	}
	if tr.Dock().Len() != 0 {
		t.Errorf("no groups expected, got %d", tr.Dock().Len())
	}
	checkInvariants(t, tr.Dock(), tr.Windows()...)
}

func TestTracker_SetPinned(t *testing.T) {
	screen := sim.NewScreen()
	tr := newTracker(t, screen, policy.Settings{}, nil)
	mustOpen(t, screen, sim.WindowSpec{ID: 1, ClassGroup: "Firefox"})
	tr.SetPinned([]string{"kitty"})

	if got := groupIDs(tr.Dock().Groups()); !sameIDs(got, []string{"kitty", "firefox"}) {
		t.Errorf("Groups() = %v", got)
	}
}

func TestTracker_Snapshot(t *testing.T) {
	screen := sim.NewScreen()
	screen.SwitchWorkspace(ws(1))
	tr := newTracker(t, screen, policy.Settings{OnlyDisplayVisible: true}, nil)
	mustOpen(t, screen, sim.WindowSpec{ID: 1, Name: "Mozilla Firefox", ClassGroup: "Firefox", Workspace: ws(1), State: platform.StateMaximizedVertically})
	mustOpen(t, screen, sim.WindowSpec{ID: 2, ClassGroup: "kitty", Workspace: ws(2)})
	_ = screen.Focus(1)

	s := tr.Snapshot()
	if len(s.Groups) != 1 || len(s.Windows) != 2 {
		t.Fatalf("groups=%d windows=%d", len(s.Groups), len(s.Windows))
	}
	g := s.Group("firefox")
	if g == nil || !g.Active || g.Top != "0x1" || len(g.Windows) != 1 || !g.Unknown {
		t.Errorf("group snapshot = %+v", g)
	}
	w1 := s.Window("0x1")
	if w1 == nil || !w1.Tracked || !w1.Active || w1.Workspace != "1" || w1.Name != "Mozilla Firefox" {
		t.Errorf("window 1 snapshot = %+v", w1)
	}
	if len(w1.State) != 1 || w1.State[0] != "maximized-vertically" {
		t.Errorf("state = %v", w1.State)
	}
	if w2 := s.Window("0x2"); w2 == nil || w2.Tracked || w2.Group != "kitty" {
		t.Errorf("window 2 snapshot = %+v", w2)
	}
}

func TestTracker_Close(t *testing.T) {
	screen := sim.NewScreen()
	tr := NewTracker(Config{Screen: screen, Commander: screen, Apps: appinfo.FromApps(logger.Nop())})
	tr.Start()
	w := mustOpen(t, screen, sim.WindowSpec{ID: 1, ClassGroup: "Firefox"})

	tr.Close()
	if w.Subscribers() != 0 || len(tr.Windows()) != 0 {
		t.Error("Close should release every handle")
	}
	mustOpen(t, screen, sim.WindowSpec{ID: 2, ClassGroup: "kitty"})
	if len(tr.Windows()) != 0 {
		t.Error("closed tracker must not adopt new windows")
	}
}

const invariantScenario = `
settings:
  only_display_visible: true
  only_display_screen: true
workspace: 1
monitors:
  - {id: 0, bounds: "0,0,1920,1080"}
  - {id: 1, bounds: "1920,0,1920,1080"}
windows:
  - {id: "0x1", class: Firefox, workspace: 1}
  - {id: "0x2", class: Firefox, workspace: 2}
  - {id: "0x3", class: kitty, workspace: 1, geometry: "2000,0,800,600"}
active: "0x1"
steps:
  - workspace: 2
  - workspace: 1
  - move: {id: "0x3", geometry: "100,0,800,600"}
  - state: {id: "0x1", set: [skip-tasklist]}
  - move: {id: "0x1", geometry: "200,0,800,600"}
  - class: {id: "0x2", class: kitty}
  - move: {id: "0x2", workspace: 1}
  - focus: "0x2"
  - activate_group: kitty
  - panel: 1
  - move: {id: "0x2", sticky: true}
  - open: {id: "0x4", class: Firefox, workspace: 1}
  - close: "0x3"
  - state: {id: "0x1", set: []}
  - move: {id: "0x1", geometry: "300,0,800,600"}
  - panel: 0
  - close: "0x2"
`

func TestTracker_InvariantsHoldThroughScenario(t *testing.T) {
	sc, err := sim.LoadScenario(strings.NewReader(invariantScenario))
	if err != nil {
		t.Fatal(err)
	}
	screen, err := sc.Setup()
	if err != nil {
		t.Fatal(err)
	}
	tr := newTracker(t, screen, sc.Settings.Policy(), sc.Registry(logger.Nop()))
	checkInvariants(t, tr.Dock(), tr.Windows()...)

	err = sc.Play(screen, sim.Hooks{
		ActivateGroup: func(id string) error { return tr.ActivateGroup(id, 0) },
		AfterStep: func(i int, step sim.Step) {
			t.Run(step.Describe(), func(t *testing.T) {
				checkInvariants(t, tr.Dock(), tr.Windows()...)
			})
		},
	})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}

	h1 := mustHandle(t, tr, 1)
	h4 := mustHandle(t, tr, 4)
	if !h1.Tracked() || !h4.Tracked() || h1.Group() != h4.Group() {
		t.Error("both Firefox windows should end up tracked together")
	}
}
