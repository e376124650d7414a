// Package taskbar keeps the set of open windows grouped by application and
// decides which windows the taskbar shows.
//
// Everything in this package runs on a single goroutine: notifications from
// the windowing backend, settings reloads and queries are all delivered
// one at a time (see internal/loop), so none of the types here lock.
package taskbar

import (
	"strings"

	"github.com/mj1618/docklike/internal/appinfo"
	"github.com/mj1618/docklike/internal/logger"
	"github.com/mj1618/docklike/internal/platform"
	"github.com/mj1618/docklike/internal/policy"
)

// AppRegistry resolves grouping keys. It must never return nil.
type AppRegistry interface {
	Search(key string) *appinfo.AppInfo
}

// Activator re-applies the active-window highlight to whichever window the
// backend currently reports as active.
type Activator interface {
	SetActiveWindow()
}

// Env is the set of services shared by every window handle and group.
type Env struct {
	Settings  policy.Settings
	Apps      AppRegistry
	Dock      *Dock
	Screen    platform.Screen
	Commander platform.Commander
	Activator Activator
	Presenter Presenter
	Log       *logger.Logger
}

// GroupingKey derives the grouping key of a window from its class group,
// falling back to the class instance and then the title.
func GroupingKey(w platform.Window) string {
	for _, candidate := range []string{w.ClassGroup(), w.ClassInstance(), w.Name()} {
		if c := strings.TrimSpace(candidate); c != "" {
			return strings.ToLower(c)
		}
	}
	return ""
}
