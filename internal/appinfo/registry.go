// Package appinfo resolves window grouping keys to installed applications.
package appinfo

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/adrg/xdg"

	"github.com/mj1618/docklike/internal/logger"
)

// UnknownID is the identity of the fallback group for windows without any
// usable grouping key.
const UnknownID = "unknown"

// AppInfo describes one application.
type AppInfo struct {
	ID      string `yaml:"id"                json:"id"`
	Name    string `yaml:"name"              json:"name"`
	Icon    string `yaml:"icon,omitempty"    json:"icon,omitempty"`
	Exec    string `yaml:"exec,omitempty"    json:"exec,omitempty"`
	Path    string `yaml:"path,omitempty"    json:"path,omitempty"`
	WMClass string `yaml:"wmclass,omitempty" json:"wmclass,omitempty"`
	Unknown bool   `yaml:"unknown,omitempty" json:"unknown,omitempty"`
}

// Unknown returns the descriptor for a key that matches no installed
// application. It is keyed by the grouping key itself so that windows of the
// same unregistered program still share a group.
func Unknown(key string) *AppInfo {
	if key == "" {
		key = UnknownID
	}
	return &AppInfo{ID: key, Name: key, Icon: key, Unknown: true}
}

// Registry indexes applications by desktop file ID, StartupWMClass and name.
type Registry struct {
	dirs []string
	log  *logger.Logger

	mu      sync.RWMutex
	apps    []*AppInfo
	ids     map[string]*AppInfo
	classes map[string]*AppInfo
	names   map[string]*AppInfo
	aliases map[string]string
}

// SearchDirs returns the XDG applications directories in precedence order.
func SearchDirs() []string {
	dirs := []string{filepath.Join(xdg.DataHome, "applications")}
	for _, d := range xdg.DataDirs {
		dirs = append(dirs, filepath.Join(d, "applications"))
	}
	return dirs
}

// NewRegistry returns an empty registry reading from dirs. Call Reload to
// populate it.
func NewRegistry(log *logger.Logger, dirs ...string) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	r := &Registry{dirs: dirs, log: log}
	r.index(nil)
	return r
}

// FromApps builds a registry from an explicit list, for callers that do not
// read desktop files.
func FromApps(log *logger.Logger, apps ...*AppInfo) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	r := &Registry{log: log}
	r.index(apps)
	return r
}

// Dirs returns the directories the registry loads from.
func (r *Registry) Dirs() []string {
	return append([]string(nil), r.dirs...)
}

// Reload rescans every directory. Earlier directories win on ID clashes.
func (r *Registry) Reload() error {
	var all []*AppInfo
	for _, dir := range r.dirs {
		apps, err := scanDir(dir)
		if err != nil {
			r.log.Warn("Skipping applications directory", "dir", dir, "error", err.Error())
			continue
		}
		all = append(all, apps...)
	}
	r.index(all)
	r.log.Debug("Application registry loaded", "apps", len(all), "dirs", len(r.dirs))
	return nil
}

// SetAliases installs grouping-key → application-ID overrides.
func (r *Registry) SetAliases(aliases map[string]string) {
	lowered := make(map[string]string, len(aliases))
	for k, v := range aliases {
		lowered[strings.ToLower(k)] = strings.ToLower(v)
	}
	r.mu.Lock()
	r.aliases = lowered
	r.mu.Unlock()
}

func (r *Registry) index(apps []*AppInfo) {
	ids := make(map[string]*AppInfo, len(apps))
	classes := make(map[string]*AppInfo)
	names := make(map[string]*AppInfo)
	var kept []*AppInfo
	for _, a := range apps {
		id := strings.ToLower(a.ID)
		if _, dup := ids[id]; dup {
			continue
		}
		ids[id] = a
		kept = append(kept, a)
		if a.WMClass != "" {
			if _, ok := classes[strings.ToLower(a.WMClass)]; !ok {
				classes[strings.ToLower(a.WMClass)] = a
			}
		}
		if a.Name != "" {
			if _, ok := names[strings.ToLower(a.Name)]; !ok {
				names[strings.ToLower(a.Name)] = a
			}
		}
	}
	r.mu.Lock()
	r.apps = kept
	r.ids = ids
	r.classes = classes
	r.names = names
	r.mu.Unlock()
}

// Apps returns all indexed applications sorted by ID.
func (r *Registry) Apps() []*AppInfo {
	r.mu.RLock()
	out := append([]*AppInfo(nil), r.apps...)
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns the application with the given desktop file ID.
func (r *Registry) Get(id string) (*AppInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.ids[strings.ToLower(id)]
	return a, ok
}

var versionSuffix = regexp.MustCompile(`[-_ ]v?[0-9][0-9.]*$`)

// Search resolves a grouping key. It never returns nil: keys that match
// nothing yield Unknown(key).
func (r *Registry) Search(key string) *AppInfo {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return Unknown("")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if target, ok := r.aliases[key]; ok {
		if a, ok := r.ids[target]; ok {
			return a
		}
		key = target
	}
	if a := r.lookup(key); a != nil {
		return a
	}
	if trimmed := versionSuffix.ReplaceAllString(key, ""); trimmed != "" && trimmed != key {
		if a := r.lookup(trimmed); a != nil {
			return a
		}
	}
	// Reverse-DNS desktop IDs (org.gnome.Nautilus) against short classes.
	for _, a := range r.apps {
		id := strings.ToLower(a.ID)
		if i := strings.LastIndex(id, "."); i >= 0 && id[i+1:] == key {
			return a
		}
	}
	return Unknown(key)
}

func (r *Registry) lookup(key string) *AppInfo {
	if a, ok := r.ids[key]; ok {
		return a
	}
	if a, ok := r.classes[key]; ok {
		return a
	}
	if a, ok := r.names[key]; ok {
		return a
	}
	return nil
}
