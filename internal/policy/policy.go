// Package policy decides whether a window belongs in the taskbar. Every
// function here is pure so the rules can be exercised without a windowing
// backend.
package policy

import "github.com/mj1618/docklike/internal/platform"

// Settings are the display filters that affect visibility.
type Settings struct {
	// OnlyDisplayVisible hides windows that are on another workspace.
	OnlyDisplayVisible bool
	// OnlyDisplayScreen hides windows whose centre is on another monitor
	// than the panel.
	OnlyDisplayScreen bool
	// FollowMonitor makes a window that moved monitors the active window
	// again once it is tracked.
	FollowMonitor bool
}

// OnWorkspace reports whether a window on workspace win passes the
// workspace filter. A window without a workspace always passes.
func OnWorkspace(onlyVisible bool, win, active platform.WorkspaceRef) bool {
	if !onlyVisible || !win.Valid {
		return true
	}
	return active.Valid && active.ID == win.ID
}

// OnScreen reports whether a window whose centre is on windowMonitor passes
// the monitor filter.
func OnScreen(onlyScreen bool, windowMonitor, panelMonitor platform.MonitorID) bool {
	if !onlyScreen {
		return true
	}
	return windowMonitor == panelMonitor
}

// MonitorChanged reports whether the window moved away from a previously
// observed monitor. The first observation is never a change.
func MonitorChanged(previous platform.MonitorRef, current platform.MonitorID) bool {
	return previous.Valid && previous.ID != current
}

// OnTasklist reports whether state allows the window on the tasklist.
func OnTasklist(state platform.State) bool {
	return !state.Has(platform.StateSkipTasklist)
}

// Input gathers everything Decide needs for one window.
type Input struct {
	Settings Settings

	// TasklistState is the state used for the tasklist check.
	TasklistState platform.State

	Workspace       platform.WorkspaceRef
	ActiveWorkspace platform.WorkspaceRef

	// Monitor is the monitor under the window centre; only consulted when
	// OnlyDisplayScreen is set.
	Monitor         platform.MonitorID
	PanelMonitor    platform.MonitorID
	PreviousMonitor platform.MonitorRef
}

// Decision is the outcome of Decide.
type Decision struct {
	OnWorkspace    bool
	OnScreen       bool
	OnTasklist     bool
	MonitorChanged bool

	// Track is true when the window should be a group member.
	Track bool
	// Activate is true when the window should be made the active window
	// after joining.
	Activate bool
}

// Decide combines the predicates.
func Decide(in Input) Decision {
	d := Decision{
		OnWorkspace: OnWorkspace(in.Settings.OnlyDisplayVisible, in.Workspace, in.ActiveWorkspace),
		OnScreen:    true,
		OnTasklist:  OnTasklist(in.TasklistState),
	}
	if in.Settings.OnlyDisplayScreen {
		d.OnScreen = OnScreen(true, in.Monitor, in.PanelMonitor)
		d.MonitorChanged = MonitorChanged(in.PreviousMonitor, in.Monitor)
	}
	d.Track = d.OnWorkspace && d.OnTasklist && d.OnScreen
	d.Activate = d.Track && d.MonitorChanged && in.Settings.FollowMonitor
	return d
}
