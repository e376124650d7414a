package appinfo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mj1618/docklike/internal/logger"
)

func writeDesktop(t *testing.T, dir, rel, body string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestParseDesktopEntry(t *testing.T) {
	src := `# comment
[Desktop Entry]
Type=Application
Name=Firefox Web Browser
Name[de]=Firefox Webbrowser
Icon=firefox
Exec=firefox %u
StartupWMClass=firefox

[Desktop Action new-window]
Name=New Window
`
	e, err := parseDesktopEntry(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if e.Name != "Firefox Web Browser" {
		t.Errorf("Name = %q (action group or locale leaked)", e.Name)
	}
	if e.Icon != "firefox" || e.StartupWMClass != "firefox" || e.Exec != "firefox %u" {
		t.Errorf("unexpected entry %+v", e)
	}
}

func TestParseDesktopEntry_NoGroup(t *testing.T) {
	if _, err := parseDesktopEntry(strings.NewReader("Name=x\n")); err == nil {
		t.Error("expected error without [Desktop Entry]")
	}
}

func TestDesktopFileID(t *testing.T) {
	got := desktopFileID("/usr/share/applications", "/usr/share/applications/kde4/kate.desktop")
	if got != "kde4-kate" {
		t.Errorf("desktopFileID = %q, want kde4-kate", got)
	}
}

func TestRegistry_ReloadAndSearch(t *testing.T) {
	home := t.TempDir()
	system := t.TempDir()

	writeDesktop(t, home, "org.mozilla.firefox.desktop", "[Desktop Entry]\nType=Application\nName=Firefox\nIcon=firefox\n")
	writeDesktop(t, system, "org.mozilla.firefox.desktop", "[Desktop Entry]\nType=Application\nName=System Firefox\n")
	writeDesktop(t, system, "gimp.desktop", "[Desktop Entry]\nType=Application\nName=GNU Image Manipulation Program\n")
	writeDesktop(t, system, "code.desktop", "[Desktop Entry]\nType=Application\nName=Visual Studio Code\nStartupWMClass=Code - OSS\n")
	writeDesktop(t, system, "gone.desktop", "[Desktop Entry]\nType=Application\nName=Gone\nHidden=true\n")
	writeDesktop(t, system, "link.desktop", "[Desktop Entry]\nType=Link\nName=Link\n")

	r := NewRegistry(logger.Nop(), home, system, filepath.Join(home, "missing"))
	if err := r.Reload(); err != nil {
		t.Fatal(err)
	}

	if len(r.Apps()) != 3 {
		t.Fatalf("expected 3 apps, got %d: %+v", len(r.Apps()), r.Apps())
	}

	tests := []struct {
		key     string
		wantID  string
		unknown bool
	}{
		{"org.mozilla.firefox", "org.mozilla.firefox", false},
		{"Firefox", "org.mozilla.firefox", false},
		{"code - oss", "code", false},
		{"gimp-2.10", "gimp", false},
		{"xterm", "xterm", true},
		{"", UnknownID, true},
		{"gone", "gone", true},
	}
	for _, tt := range tests {
		a := r.Search(tt.key)
		if a == nil {
			t.Fatalf("Search(%q) returned nil", tt.key)
		}
		if a.ID != tt.wantID || a.Unknown != tt.unknown {
			t.Errorf("Search(%q) = {%s unknown=%v}, want {%s unknown=%v}", tt.key, a.ID, a.Unknown, tt.wantID, tt.unknown)
		}
	}

	ff, _ := r.Get("org.mozilla.firefox")
	if ff.Name != "Firefox" {
		t.Errorf("home directory must win, got %q", ff.Name)
	}
}

func TestRegistry_Aliases(t *testing.T) {
	r := FromApps(logger.Nop(), &AppInfo{ID: "libreoffice-writer", Name: "Writer"})
	r.SetAliases(map[string]string{"Soffice": "LibreOffice-Writer", "term": "kitty"})

	if got := r.Search("soffice"); got.ID != "libreoffice-writer" {
		t.Errorf("alias to known app: got %s", got.ID)
	}
	got := r.Search("term")
	if !got.Unknown || got.ID != "kitty" {
		t.Errorf("alias to unknown app should fall back to the alias target, got %+v", got)
	}
}

func TestUnknown(t *testing.T) {
	u := Unknown("Firefox")
	if u.ID != "Firefox" || !u.Unknown {
		t.Errorf("Unknown(Firefox) = %+v", u)
	}
	if Unknown("").ID != UnknownID {
		t.Errorf("empty key must map to the sentinel")
	}
}

func TestRegistry_Watch(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry(logger.Nop(), dir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 1)
	if err := r.Watch(ctx, func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}); err != nil {
		t.Fatal(err)
	}

	writeDesktop(t, dir, "new.desktop", "[Desktop Entry]\nType=Application\nName=New\n")

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("expected change notification")
	}
}
