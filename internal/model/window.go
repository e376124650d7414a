package model

// WindowSnapshot is the serializable view of one window handle.
type WindowSnapshot struct {
	ID        string   `yaml:"id"                  json:"id"`
	Name      string   `yaml:"name"                json:"name"`
	Key       string   `yaml:"key"                 json:"key"`
	Group     string   `yaml:"group"               json:"group"`
	Workspace string   `yaml:"workspace,omitempty" json:"workspace,omitempty"`
	State     []string `yaml:"state,omitempty"     json:"state,omitempty"`
	Tracked   bool     `yaml:"tracked"             json:"tracked"`
	Active    bool     `yaml:"active,omitempty"    json:"active,omitempty"`
}

// GroupSnapshot is the serializable view of one group.
type GroupSnapshot struct {
	ID      string   `yaml:"id"                json:"id"`
	Name    string   `yaml:"name"              json:"name"`
	Icon    string   `yaml:"icon,omitempty"    json:"icon,omitempty"`
	Unknown bool     `yaml:"unknown,omitempty" json:"unknown,omitempty"`
	Pinned  bool     `yaml:"pinned,omitempty"  json:"pinned,omitempty"`
	Active  bool     `yaml:"active,omitempty"  json:"active,omitempty"`
	Top     string   `yaml:"top,omitempty"     json:"top,omitempty"`
	Windows []string `yaml:"windows"           json:"windows"`
}

// DockSnapshot captures the whole taskbar at one instant.
type DockSnapshot struct {
	TS      int64            `yaml:"ts"      json:"ts"`
	Groups  []GroupSnapshot  `yaml:"groups"  json:"groups"`
	Windows []WindowSnapshot `yaml:"windows" json:"windows"`
}

// Group returns the group with the given ID, or nil.
func (s DockSnapshot) Group(id string) *GroupSnapshot {
	for i := range s.Groups {
		if s.Groups[i].ID == id {
			return &s.Groups[i]
		}
	}
	return nil
}

// Window returns the window with the given ID, or nil.
func (s DockSnapshot) Window(id string) *WindowSnapshot {
	for i := range s.Windows {
		if s.Windows[i].ID == id {
			return &s.Windows[i]
		}
	}
	return nil
}
