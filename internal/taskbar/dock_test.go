package taskbar

import (
	"testing"

	"github.com/mj1618/docklike/internal/appinfo"
	"github.com/mj1618/docklike/internal/logger"
	"github.com/mj1618/docklike/internal/platform/sim"
	"github.com/mj1618/docklike/internal/policy"
)

func groupIDs(groups []*Group) []string {
	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.ID()
	}
	return ids
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDock_PrepareGroup(t *testing.T) {
	d := NewDock(NopPresenter{}, logger.Nop())
	app := &appinfo.AppInfo{ID: "org.mozilla.firefox", Name: "Firefox"}

	g1 := d.PrepareGroup(app)
	g2 := d.PrepareGroup(&appinfo.AppInfo{ID: "org.mozilla.firefox"})
	if g1 != g2 {
		t.Error("one group per application ID")
	}
	if g1.App() != app {
		t.Error("the first descriptor is kept")
	}

	for _, in := range []*appinfo.AppInfo{nil, {}} {
		if g := d.PrepareGroup(in); g.ID() != appinfo.UnknownID {
			t.Errorf("PrepareGroup(%v) = %s, want unknown", in, g.ID())
		}
	}
	if d.Len() != 2 {
		t.Errorf("Len() = %d", d.Len())
	}
}

func TestDock_ReleaseStaleGroup(t *testing.T) {
	d := NewDock(NopPresenter{}, logger.Nop())
	g := d.PrepareGroup(appinfo.Unknown("foot"))

	d.Release(g)
	if _, ok := d.Group("foot"); ok {
		t.Fatal("empty group should be released")
	}
	d.Release(g)

	replacement := d.PrepareGroup(appinfo.Unknown("foot"))
	if replacement == g {
		t.Fatal("PrepareGroup must not revive a released group")
	}
	d.Release(g)
	if got, ok := d.Group("foot"); !ok || got != replacement {
		t.Error("releasing a stale group must not drop its replacement")
	}
}

func TestDock_ReleaseKeepsMembers(t *testing.T) {
	f := newFixture(policy.Settings{})
	_, h := f.open(t, sim.WindowSpec{ID: 1, ClassGroup: "Firefox"})
	f.env.Dock.Release(h.Group())
	if _, ok := f.env.Dock.Group("firefox"); !ok {
		t.Error("group with members must not be released")
	}
}

func TestDock_Pinned(t *testing.T) {
	apps := appinfo.FromApps(logger.Nop(), &appinfo.AppInfo{ID: "org.mozilla.firefox", Name: "Firefox", WMClass: "firefox"})
	d := NewDock(NopPresenter{}, logger.Nop())

	d.PrepareGroup(appinfo.Unknown("foot"))
	d.SetPinned([]string{"firefox", "kitty", "Firefox"}, apps)

	if got := groupIDs(d.Groups()); !sameIDs(got, []string{"org.mozilla.firefox", "kitty", "foot"}) {
		t.Errorf("Groups() = %v", got)
	}
	g, _ := d.Group("kitty")
	if !g.Pinned() {
		t.Error("kitty should be pinned")
	}
	d.Release(g)
	if _, ok := d.Group("kitty"); !ok {
		t.Error("pinned group must survive Release")
	}

	d.SetPinned([]string{"kitty"}, apps)
	if got := groupIDs(d.Groups()); !sameIDs(got, []string{"kitty", "foot"}) {
		t.Errorf("after unpinning firefox, Groups() = %v", got)
	}
}

func TestDock_PinnedGroupOutlivesWindows(t *testing.T) {
	f := newFixture(policy.Settings{})
	f.env.Dock.SetPinned([]string{"firefox"}, f.env.Apps)
	_, h := f.open(t, sim.WindowSpec{ID: 1, ClassGroup: "Firefox"})

	pinned, _ := f.env.Dock.Group("firefox")
	if h.Group() != pinned {
		t.Fatal("window should join the pinned group")
	}
	h.Destroy()
	if g, ok := f.env.Dock.Group("firefox"); !ok || g.Len() != 0 {
		t.Error("pinned group should remain, empty")
	}
	checkInvariants(t, f.env.Dock)
}
