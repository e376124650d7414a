package hyprland

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const signatureEnv = "HYPRLAND_INSTANCE_SIGNATURE"

// ErrNoInstance is returned outside a Hyprland session.
var ErrNoInstance = errors.New(signatureEnv + " is not set; not running under Hyprland")

// Event is one line of the socket2 event stream: NAME>>DATA.
type Event struct {
	Name string
	Data string
}

// Fields splits the event data on commas into at most n parts. Titles may
// contain commas, so the last field keeps the remainder.
func (e Event) Fields(n int) []string {
	return strings.SplitN(e.Data, ",", n)
}

// ParseEvent parses a socket2 line.
func ParseEvent(line string) (Event, bool) {
	name, data, ok := strings.Cut(strings.TrimRight(line, "\r\n"), ">>")
	if !ok || name == "" {
		return Event{}, false
	}
	return Event{Name: name, Data: data}, true
}

// refreshEvents are the events after which the client list is re-read.
var refreshEvents = map[string]bool{
	"openwindow":         true,
	"closewindow":        true,
	"activewindow":       true,
	"activewindowv2":     true,
	"windowtitle":        true,
	"windowtitlev2":      true,
	"movewindow":         true,
	"movewindowv2":       true,
	"workspace":          true,
	"workspacev2":        true,
	"focusedmon":         true,
	"focusedmonv2":       true,
	"fullscreen":         true,
	"changefloatingmode": true,
	"urgent":             true,
	"minimized":          true,
	"pin":                true,
	"monitoradded":       true,
	"monitoraddedv2":     true,
	"monitorremoved":     true,
	"monitorremovedv2":   true,
	"moveworkspace":      true,
	"moveworkspacev2":    true,
	"renameworkspace":    true,
	"destroyworkspace":   true,
	"destroyworkspacev2": true,
	"activespecial":      true,
	"activespecialv2":    true,
}

// NeedsRefresh reports whether the event can change anything the taskbar
// reads.
func (e Event) NeedsRefresh() bool {
	return refreshEvents[e.Name]
}

// SocketPath returns the socket2 path for the running instance. Newer
// releases use $XDG_RUNTIME_DIR/hypr, older ones /tmp/hypr.
func SocketPath() (string, error) {
	sig := os.Getenv(signatureEnv)
	if sig == "" {
		return "", ErrNoInstance
	}
	candidates := []string{
		filepath.Join(xdg.RuntimeDir, "hypr", sig, ".socket2.sock"),
		filepath.Join("/tmp", "hypr", sig, ".socket2.sock"),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return candidates[0], nil
}

// readEvents scans r line by line, sending parsed events to out until r
// fails or ctx is cancelled. A clean EOF returns nil.
func readEvents(ctx context.Context, r io.Reader, out chan<- Event) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		ev, ok := ParseEvent(scanner.Text())
		if !ok {
			continue
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return scanner.Err()
}
