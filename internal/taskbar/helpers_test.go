package taskbar

import (
	"testing"

	"github.com/mj1618/docklike/internal/appinfo"
	"github.com/mj1618/docklike/internal/logger"
	"github.com/mj1618/docklike/internal/platform"
	"github.com/mj1618/docklike/internal/platform/sim"
	"github.com/mj1618/docklike/internal/policy"
)

type recordingItem struct {
	shown    bool
	released bool
	active   bool
	redraws  int
	labels   int
	icons    int
}

func (r *recordingItem) Show()                 { r.shown = true }
func (r *recordingItem) QueueRedraw()          { r.redraws++ }
func (r *recordingItem) SetActiveStyle(a bool) { r.active = a }
func (r *recordingItem) RefreshLabel()         { r.labels++ }
func (r *recordingItem) RefreshIcon()          { r.icons++ }
func (r *recordingItem) Release()              { r.released = true }

type recordingPresenter struct {
	windows map[platform.WindowID]*recordingItem
	groups  map[string]*recordingItem
}

func newRecordingPresenter() *recordingPresenter {
	return &recordingPresenter{
		windows: make(map[platform.WindowID]*recordingItem),
		groups:  make(map[string]*recordingItem),
	}
}

func (p *recordingPresenter) WindowItem(w *WindowHandle) Representation {
	item := &recordingItem{}
	p.windows[w.ID()] = item
	return item
}

func (p *recordingPresenter) GroupButton(g *Group) Representation {
	item := &recordingItem{}
	p.groups[g.ID()] = item
	return item
}

type countingActivator struct {
	calls int
}

func (a *countingActivator) SetActiveWindow() { a.calls++ }

// fixture wires handles directly to an Env, without a Tracker, so tests can
// observe activator calls.
type fixture struct {
	screen    *sim.Screen
	env       *Env
	presenter *recordingPresenter
	activator *countingActivator
}

func newFixture(s policy.Settings, apps ...*appinfo.AppInfo) *fixture {
	screen := sim.NewScreen()
	screen.SwitchWorkspace(ws(1))
	p := newRecordingPresenter()
	a := &countingActivator{}
	return &fixture{
		screen:    screen,
		presenter: p,
		activator: a,
		env: &Env{
			Settings:  s,
			Apps:      appinfo.FromApps(logger.Nop(), apps...),
			Dock:      NewDock(p, logger.Nop()),
			Screen:    screen,
			Commander: screen,
			Activator: a,
			Presenter: p,
			Log:       logger.Nop(),
		},
	}
}

func (f *fixture) open(t *testing.T, spec sim.WindowSpec) (*sim.Window, *WindowHandle) {
	t.Helper()
	if spec.Geometry == (platform.Bounds{}) {
		spec.Geometry = platform.Bounds{X: 100, Y: 100, Width: 800, Height: 600}
	}
	w, err := f.screen.Open(spec)
	if err != nil {
		t.Fatalf("open %s: %v", spec.ID, err)
	}
	return w, NewWindowHandle(w, f.env)
}

func ws(id int) platform.WorkspaceRef {
	return platform.OnWorkspace(platform.WorkspaceID(id))
}

// checkInvariants verifies that tracked windows are exactly the group
// members and that no empty unpinned group lingers in the dock.
func checkInvariants(t *testing.T, dock *Dock, handles ...*WindowHandle) {
	t.Helper()
	for _, h := range handles {
		if h.Closed() {
			continue
		}
		if h.Tracked() != h.Group().Has(h) {
			t.Errorf("window %s: tracked=%v but member=%v", h.ID(), h.Tracked(), h.Group().Has(h))
		}
		if h.Tracked() {
			if g, ok := dock.Group(h.Group().ID()); !ok || g != h.Group() {
				t.Errorf("window %s: group %s is not the registered one", h.ID(), h.Group().ID())
			}
		}
	}
	for _, g := range dock.Groups() {
		if g.Len() == 0 && !g.Pinned() {
			t.Errorf("group %s is empty and unpinned but still registered", g.ID())
		}
		for _, w := range g.Windows() {
			if !w.Tracked() || w.Group() != g {
				t.Errorf("group %s holds %s which does not point back", g.ID(), w.ID())
			}
		}
	}
}
