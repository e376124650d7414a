package taskbar

import "github.com/mj1618/docklike/internal/logger"

// Representation is the on-screen object owned by a window handle (its menu
// item) or a group (its button). Rendering is up to the implementation.
type Representation interface {
	Show()
	QueueRedraw()
	SetActiveStyle(active bool)
	RefreshLabel()
	RefreshIcon()
	// Release is called once, when the owner goes away.
	Release()
}

// Presenter creates representations.
type Presenter interface {
	WindowItem(w *WindowHandle) Representation
	GroupButton(g *Group) Representation
}

// NopPresenter renders nothing.
type NopPresenter struct{}

func (NopPresenter) WindowItem(*WindowHandle) Representation { return nopRepresentation{} }
func (NopPresenter) GroupButton(*Group) Representation       { return nopRepresentation{} }

type nopRepresentation struct{}

func (nopRepresentation) Show()               {}
func (nopRepresentation) QueueRedraw()        {}
func (nopRepresentation) SetActiveStyle(bool) {}
func (nopRepresentation) RefreshLabel()       {}
func (nopRepresentation) RefreshIcon()        {}
func (nopRepresentation) Release()            {}

// LogPresenter traces presentation requests at debug level. Useful when
// running headless to see what a frontend would be asked to draw.
type LogPresenter struct {
	Log *logger.Logger
}

func (p LogPresenter) WindowItem(w *WindowHandle) Representation {
	return &logRepresentation{
		log:   p.Log.With("item", "window", "window", w.ID().String()),
		label: w.Name,
	}
}

func (p LogPresenter) GroupButton(g *Group) Representation {
	return &logRepresentation{
		log:   p.Log.With("item", "group", "group", g.ID()),
		label: func() string { return g.App().Name },
	}
}

type logRepresentation struct {
	log   *logger.Logger
	label func() string
	shown bool
}

func (r *logRepresentation) Show() {
	if r.shown {
		return
	}
	r.shown = true
	r.log.Debug("show")
}

func (r *logRepresentation) QueueRedraw() {}

func (r *logRepresentation) SetActiveStyle(active bool) {
	r.log.Debug("active style", "active", active)
}

func (r *logRepresentation) RefreshLabel() {
	r.log.Debug("label", "text", r.label())
}

func (r *logRepresentation) RefreshIcon() {
	r.log.Debug("icon")
}

func (r *logRepresentation) Release() {
	r.log.Debug("release")
}
