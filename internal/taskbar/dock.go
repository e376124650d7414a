package taskbar

import (
	"github.com/mj1618/docklike/internal/appinfo"
	"github.com/mj1618/docklike/internal/logger"
)

// Dock is the registry of groups. There is at most one group per
// application ID.
type Dock struct {
	presenter Presenter
	log       *logger.Logger

	groups map[string]*Group
	order  []*Group
	pinned []string
}

// NewDock returns an empty dock.
func NewDock(presenter Presenter, log *logger.Logger) *Dock {
	return &Dock{
		presenter: presenter,
		log:       log,
		groups:    make(map[string]*Group),
	}
}

// PrepareGroup returns the group for app, creating it if needed. A nil app
// or one without an ID maps to the unknown group.
func (d *Dock) PrepareGroup(app *appinfo.AppInfo) *Group {
	if app == nil || app.ID == "" {
		app = appinfo.Unknown("")
	}
	if g, ok := d.groups[app.ID]; ok {
		return g
	}
	g := newGroup(app, d.presenter, d.log)
	d.insert(g)
	return g
}

func (d *Dock) insert(g *Group) {
	g.pinned = d.isPinned(g.id)
	d.groups[g.id] = g
	d.order = append(d.order, g)
	d.log.Debug("Group created", "group", g.id, "pinned", g.pinned)
}

// Release drops g from the dock once it has no members and is not pinned.
func (d *Dock) Release(g *Group) {
	if g == nil || g.Len() > 0 || g.pinned {
		return
	}
	if d.groups[g.id] != g {
		return
	}
	delete(d.groups, g.id)
	for i, o := range d.order {
		if o == g {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	g.release()
	d.log.Debug("Group removed", "group", g.id)
}

// Group looks up a group by ID.
func (d *Dock) Group(id string) (*Group, bool) {
	g, ok := d.groups[id]
	return g, ok
}

// Len is the number of registered groups.
func (d *Dock) Len() int { return len(d.groups) }

// Groups returns pinned groups in pin order followed by the rest in the
// order they were created.
func (d *Dock) Groups() []*Group {
	out := make([]*Group, 0, len(d.order))
	for _, id := range d.pinned {
		if g, ok := d.groups[id]; ok {
			out = append(out, g)
		}
	}
	for _, g := range d.order {
		if !g.pinned {
			out = append(out, g)
		}
	}
	return out
}

func (d *Dock) isPinned(id string) bool {
	for _, p := range d.pinned {
		if p == id {
			return true
		}
	}
	return false
}

// SetPinned replaces the pinned set. Each entry is resolved through apps so
// that desktop IDs, WM classes and aliases all work. Pinned groups exist even
// with no windows; unpinned groups without windows are removed.
func (d *Dock) SetPinned(keys []string, apps AppRegistry) {
	var resolved []*appinfo.AppInfo
	seen := make(map[string]bool)
	for _, k := range keys {
		app := apps.Search(k)
		if seen[app.ID] {
			continue
		}
		seen[app.ID] = true
		resolved = append(resolved, app)
	}

	previous := d.pinned
	d.pinned = make([]string, 0, len(resolved))
	for _, app := range resolved {
		d.pinned = append(d.pinned, app.ID)
	}
	for _, app := range resolved {
		if g, ok := d.groups[app.ID]; ok {
			g.pinned = true
			continue
		}
		d.PrepareGroup(app)
	}
	for _, id := range previous {
		if seen[id] {
			continue
		}
		if g, ok := d.groups[id]; ok {
			g.pinned = false
			d.Release(g)
		}
	}
}
