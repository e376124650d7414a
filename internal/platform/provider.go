package platform

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/mj1618/docklike/internal/logger"
)

// Provider bundles the windowing subsystem backends for the current session.
type Provider struct {
	Name      string
	Screen    Screen
	Commander Commander

	// Run pumps the backend's event source until ctx is cancelled. Cache
	// updates and the notifications they cause are handed to dispatch so
	// they run on the caller's event loop. Backends that deliver
	// notifications synchronously leave it nil.
	Run func(ctx context.Context, dispatch func(func())) error

	// SetPanelMonitor names the monitor the taskbar is shown on. Must be
	// called on the event loop. May be nil.
	SetPanelMonitor func(name string)

	// Close releases backend resources. May be nil.
	Close func() error
}

// ErrUnsupported is returned when no backend can serve the current session.
var ErrUnsupported = fmt.Errorf("docklike has no windowing backend for this session on %s/%s; supported: Hyprland", runtime.GOOS, runtime.GOARCH)

// ErrWindowGone is returned by commands addressed to a window that no longer exists.
var ErrWindowGone = errors.New("window no longer exists")

// NewProviderFunc is set by backend packages via init().
// See internal/platform/hyprland/init.go for the Hyprland registration.
var NewProviderFunc func(log *logger.Logger) (*Provider, error)

// NewProvider returns a Provider for the current session.
func NewProvider(log *logger.Logger) (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc(log)
}
