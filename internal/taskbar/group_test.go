package taskbar

import (
	"errors"
	"testing"

	"github.com/mj1618/docklike/internal/platform"
	"github.com/mj1618/docklike/internal/platform/sim"
	"github.com/mj1618/docklike/internal/policy"
)

func TestGroup_AddRemoveAreIdempotent(t *testing.T) {
	f := newFixture(policy.Settings{})
	_, h := f.open(t, sim.WindowSpec{ID: 1, ClassGroup: "Terminal"})
	g := h.Group()

	g.Add(h)
	if g.Len() != 1 {
		t.Errorf("double add should not duplicate, len = %d", g.Len())
	}
	_, other := f.open(t, sim.WindowSpec{ID: 2, ClassGroup: "Editor"})
	g.Remove(other)
	if g.Len() != 1 {
		t.Errorf("removing a non-member changed the group, len = %d", g.Len())
	}
}

func TestGroup_RemoveTopWindow(t *testing.T) {
	f := newFixture(policy.Settings{})
	_, h1 := f.open(t, sim.WindowSpec{ID: 1, ClassGroup: "Terminal"})
	_, h2 := f.open(t, sim.WindowSpec{ID: 2, ClassGroup: "Terminal"})
	g := h1.Group()

	h1.OnActivate()
	h1.Destroy()
	if g.TopWindow() != nil {
		t.Error("top window should be cleared when it leaves")
	}
	if g.Active() {
		t.Error("leaving deactivates the group")
	}
	if got := g.Windows(); len(got) != 1 || got[0] != h2 {
		t.Errorf("Windows() = %v", got)
	}
}

func TestGroup_ActivateCycles(t *testing.T) {
	f := newFixture(policy.Settings{})
	_, h1 := f.open(t, sim.WindowSpec{ID: 1, ClassGroup: "Terminal"})
	_, h2 := f.open(t, sim.WindowSpec{ID: 2, ClassGroup: "Terminal"})
	_, h3 := f.open(t, sim.WindowSpec{ID: 3, ClassGroup: "Terminal"})
	g := h1.Group()

	last := func() platform.WindowID {
		return f.screen.Commands[len(f.screen.Commands)-1].ID
	}

	if err := g.Activate(1); err != nil {
		t.Fatal(err)
	}
	if last() != h1.ID() {
		t.Errorf("no top window: expected first member, got %s", last())
	}

	h2.OnActivate()
	if err := g.Activate(2); err != nil {
		t.Fatal(err)
	}
	if last() != h3.ID() {
		t.Errorf("active group should cycle to the next member, got %s", last())
	}

	h3.OnActivate()
	if err := g.Activate(3); err != nil {
		t.Fatal(err)
	}
	if last() != h1.ID() {
		t.Errorf("cycling should wrap around, got %s", last())
	}

	h3.OnUnactivate()
	if err := g.Activate(4); err != nil {
		t.Fatal(err)
	}
	if last() != h3.ID() {
		t.Errorf("inactive group should raise its top window, got %s", last())
	}
}

func TestGroup_ActivateEmpty(t *testing.T) {
	f := newFixture(policy.Settings{})
	f.env.Dock.SetPinned([]string{"kitty"}, f.env.Apps)
	g, ok := f.env.Dock.Group("kitty")
	if !ok {
		t.Fatal("pinned group missing")
	}
	if err := g.Activate(0); !errors.Is(err, ErrNoWindows) {
		t.Errorf("Activate on empty group = %v", err)
	}
}

func TestGroup_MinimizeAll(t *testing.T) {
	f := newFixture(policy.Settings{})
	w1, h1 := f.open(t, sim.WindowSpec{ID: 1, ClassGroup: "Terminal"})
	f.open(t, sim.WindowSpec{ID: 2, ClassGroup: "Terminal"})

	if err := f.screen.Close(2); err != nil {
		t.Fatal(err)
	}
	err := h1.Group().MinimizeAll()
	if !errors.Is(err, platform.ErrWindowGone) {
		t.Errorf("MinimizeAll = %v, want ErrWindowGone", err)
	}
	if !w1.State().Has(platform.StateMinimized) {
		t.Error("window 1 should still be minimized")
	}
}

func TestGroup_ButtonFollowsActiveState(t *testing.T) {
	f := newFixture(policy.Settings{})
	_, h := f.open(t, sim.WindowSpec{ID: 1, ClassGroup: "Terminal"})
	button := f.presenter.groups["terminal"]
	if !button.shown {
		t.Error("button should be shown once the group has a member")
	}

	h.OnActivate()
	if !button.active {
		t.Error("button should be styled active")
	}
	h.OnUnactivate()
	if button.active {
		t.Error("button should lose the active style")
	}
}
