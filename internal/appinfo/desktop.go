package appinfo

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// desktopEntry holds the keys of a [Desktop Entry] group we care about.
type desktopEntry struct {
	Name           string
	Icon           string
	Exec           string
	StartupWMClass string
	Type           string
	Hidden         bool
	NoDisplay      bool
}

// parseDesktopEntry reads the [Desktop Entry] group of a desktop file.
// Localized keys (Name[de]) and other groups are ignored.
func parseDesktopEntry(r io.Reader) (desktopEntry, error) {
	var e desktopEntry
	inEntry := false
	seen := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inEntry = line == "[Desktop Entry]"
			if inEntry {
				seen = true
			}
			continue
		}
		if !inEntry {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "Name":
			e.Name = value
		case "Icon":
			e.Icon = value
		case "Exec":
			e.Exec = value
		case "StartupWMClass":
			e.StartupWMClass = value
		case "Type":
			e.Type = value
		case "Hidden":
			e.Hidden = value == "true"
		case "NoDisplay":
			e.NoDisplay = value == "true"
		}
	}
	if err := scanner.Err(); err != nil {
		return desktopEntry{}, fmt.Errorf("read desktop entry: %w", err)
	}
	if !seen {
		return desktopEntry{}, fmt.Errorf("no [Desktop Entry] group")
	}
	return e, nil
}

// desktopFileID derives the desktop file ID from its path relative to an
// applications directory: subdirectories become dash-separated prefixes.
func desktopFileID(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(rel, ".desktop")
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", "-")
}

// scanDir collects the desktop files under root. Missing directories are
// not an error.
func scanDir(root string) ([]*AppInfo, error) {
	var apps []*AppInfo
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".desktop") {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return nil
		}
		entry, perr := parseDesktopEntry(f)
		f.Close()
		if perr != nil || entry.Hidden || (entry.Type != "" && entry.Type != "Application") {
			return nil
		}
		id := desktopFileID(root, path)
		name := entry.Name
		if name == "" {
			name = id
		}
		apps = append(apps, &AppInfo{
			ID:      id,
			Name:    name,
			Icon:    entry.Icon,
			Exec:    entry.Exec,
			Path:    path,
			WMClass: entry.StartupWMClass,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return apps, nil
}
