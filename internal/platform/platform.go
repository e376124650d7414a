package platform

// WindowListener receives per-window change notifications. Notifications for
// one window arrive in order; there is no ordering across windows.
type WindowListener interface {
	OnNameChanged()
	OnIconChanged()
	OnStateChanged(changed, newState State)
	OnWorkspaceChanged()
	OnGeometryChanged()
	OnClassChanged()
}

// Window is the native window as reported by the windowing subsystem.
type Window interface {
	ID() WindowID
	Name() string
	ClassGroup() string
	ClassInstance() string
	IconName() string
	State() State
	Workspace() WorkspaceRef
	Geometry() Bounds

	// Subscribe registers l for this window's notifications. The returned
	// function removes the subscription and is safe to call more than once.
	Subscribe(l WindowListener) (unsubscribe func())
}

// ScreenListener receives window lifecycle and display-wide notifications.
type ScreenListener interface {
	OnWindowOpened(w Window)
	OnWindowClosed(w Window)
	// OnActiveWindowChanged passes the previously and currently active
	// windows; either may be nil.
	OnActiveWindowChanged(previous, current Window)
	OnActiveWorkspaceChanged()
	OnMonitorsChanged()
}

// Screen answers display-wide queries.
type Screen interface {
	Windows() []Window
	// ActiveWindow returns nil when no window has focus.
	ActiveWindow() Window
	ActiveWorkspace() WorkspaceRef
	MonitorAtPoint(x, y int) MonitorID
	// PanelMonitor is the monitor the taskbar itself lives on.
	PanelMonitor() MonitorID
	Subscribe(l ScreenListener) (unsubscribe func())
}

// Commander performs window commands.
type Commander interface {
	Activate(id WindowID, timestamp uint32) error
	Minimize(id WindowID) error
}
