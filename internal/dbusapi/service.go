// Package dbusapi exposes the dock on the session bus as
// org.docklike.Taskbar at /org/docklike/Taskbar.
package dbusapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"

	"github.com/mj1618/docklike/internal/logger"
	"github.com/mj1618/docklike/internal/model"
)

const (
	Interface = "org.docklike.Taskbar"
	Path      = "/org/docklike/Taskbar"

	callTimeout = 2 * time.Second
)

// Dock is the part of a session the service drives.
type Dock interface {
	Snapshot(ctx context.Context) (model.DockSnapshot, error)
	ActivateGroup(ctx context.Context, id string) error
	Reconcile(ctx context.Context) error
}

// Service answers method calls on the bus. Exported methods with a
// *dbus.Error result are the bus methods.
type Service struct {
	conn *dbus.Conn
	dock Dock
	log  *logger.Logger

	mu         sync.Mutex
	closed     bool
	groupCount uint32
}

func NewService(conn *dbus.Conn, dock Dock, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{conn: conn, dock: dock, log: log}
}

// Listen claims the bus name and exports the object.
func (s *Service) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("listen: service is closed")
	}

	reply, err := s.conn.RequestName(Interface, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("listen: failed to request name %s: %w", Interface, err)
	}

	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("listen: name %s already taken", Interface)
	}

	if err := s.conn.Export(s, Path, Interface); err != nil {
		return fmt.Errorf("listen: failed to export %s: %w", Interface, err)
	}

	s.exportProperties()
	s.log.Info("D-Bus service listening", "name", Interface, "path", Path)
	return nil
}

func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.conn.Export(nil, Path, Interface); err != nil {
		s.log.Warn("Failed to unexport", "error", err.Error())
	}
	_, err := s.conn.ReleaseName(Interface)
	return err
}

// Groups returns the groups as a JSON array.
func (s *Service) Groups() (string, *dbus.Error) {
	snap, err := s.snapshot()
	if err != nil {
		return "", err
	}
	return encode(snap.Groups)
}

// Windows returns the windows as a JSON array.
func (s *Service) Windows() (string, *dbus.Error) {
	snap, err := s.snapshot()
	if err != nil {
		return "", err
	}
	return encode(snap.Windows)
}

// Reconcile re-evaluates every window.
func (s *Service) Reconcile() *dbus.Error {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	if err := s.dock.Reconcile(ctx); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// ActivateGroup focuses, or cycles within, the group id.
func (s *Service) ActivateGroup(id string) *dbus.Error {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	if err := s.dock.ActivateGroup(ctx, id); err != nil {
		s.log.Debug("ActivateGroup failed", "group", id, "error", err.Error())
		return dbus.MakeFailedError(err)
	}
	return nil
}

// Notify publishes a batch of dock changes: the Changed signal carries them
// as JSON and GroupCount is refreshed. It matches session.Listener.
func (s *Service) Notify(changes []model.DockChange, snap model.DockSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.conn == nil {
		return
	}

	if n := uint32(len(snap.Groups)); n != s.groupCount {
		s.groupCount = n
		s.exportProperties()
	}

	b, err := json.Marshal(changes)
	if err != nil {
		s.log.Error("Failed to encode changes", err)
		return
	}
	if err := s.conn.Emit(Path, Interface+".Changed", string(b)); err != nil {
		s.log.Warn("Failed to emit Changed", "error", err.Error())
	}
}

func (s *Service) snapshot() (model.DockSnapshot, *dbus.Error) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()
	snap, err := s.dock.Snapshot(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.log.Warn("Snapshot timed out")
		}
		return model.DockSnapshot{}, dbus.MakeFailedError(err)
	}
	return snap, nil
}

func encode(v interface{}) (string, *dbus.Error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return string(b), nil
}

func (s *Service) exportProperties() {
	prop.Export(s.conn, Path, prop.Map{
		Interface: map[string]*prop.Prop{
			"GroupCount": {
				Value:    s.groupCount,
				Writable: false,
				Emit:     prop.EmitTrue,
			},
		},
	})
}
