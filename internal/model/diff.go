package model

import (
	"fmt"
	"strings"
	"time"
)

// ChangeType represents the kind of taskbar change detected.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
	ChangeChanged ChangeType = "changed"
)

// Kind says whether a change concerns a group or a window.
type Kind string

const (
	KindGroup  Kind = "group"
	KindWindow Kind = "window"
)

// DockChange represents a single change between two snapshots.
type DockChange struct {
	Type    ChangeType           `yaml:"type"              json:"type"`
	Kind    Kind                 `yaml:"kind"              json:"kind"`
	TS      int64                `yaml:"ts"                json:"ts"`
	ID      string               `yaml:"id"                json:"id"`
	Group   *GroupSnapshot       `yaml:"group,omitempty"   json:"group,omitempty"`   // For added groups
	Window  *WindowSnapshot      `yaml:"window,omitempty"  json:"window,omitempty"`  // For added windows
	Changes map[string][2]string `yaml:"changes,omitempty" json:"changes,omitempty"` // For changed: field diffs
}

// DiffDocks compares two snapshots and returns the changes. Groups and
// windows are matched by ID. Group changes come before window changes.
func DiffDocks(prev, curr DockSnapshot) []DockChange {
	now := time.Now().Unix()
	var changes []DockChange

	prevGroups := make(map[string]GroupSnapshot, len(prev.Groups))
	for _, g := range prev.Groups {
		prevGroups[g.ID] = g
	}
	currGroups := make(map[string]bool, len(curr.Groups))
	for _, g := range curr.Groups {
		currGroups[g.ID] = true
		old, existed := prevGroups[g.ID]
		if !existed {
			gCopy := g
			changes = append(changes, DockChange{Type: ChangeAdded, Kind: KindGroup, TS: now, ID: g.ID, Group: &gCopy})
			continue
		}
		if diffs := diffGroup(old, g); diffs != nil {
			changes = append(changes, DockChange{Type: ChangeChanged, Kind: KindGroup, TS: now, ID: g.ID, Changes: diffs})
		}
	}
	for _, g := range prev.Groups {
		if !currGroups[g.ID] {
			changes = append(changes, DockChange{Type: ChangeRemoved, Kind: KindGroup, TS: now, ID: g.ID})
		}
	}

	prevWindows := make(map[string]WindowSnapshot, len(prev.Windows))
	for _, w := range prev.Windows {
		prevWindows[w.ID] = w
	}
	currWindows := make(map[string]bool, len(curr.Windows))
	for _, w := range curr.Windows {
		currWindows[w.ID] = true
		old, existed := prevWindows[w.ID]
		if !existed {
			wCopy := w
			changes = append(changes, DockChange{Type: ChangeAdded, Kind: KindWindow, TS: now, ID: w.ID, Window: &wCopy})
			continue
		}
		if diffs := diffWindow(old, w); diffs != nil {
			changes = append(changes, DockChange{Type: ChangeChanged, Kind: KindWindow, TS: now, ID: w.ID, Changes: diffs})
		}
	}
	for _, w := range prev.Windows {
		if !currWindows[w.ID] {
			changes = append(changes, DockChange{Type: ChangeRemoved, Kind: KindWindow, TS: now, ID: w.ID})
		}
	}

	return changes
}

func diffGroup(prev, curr GroupSnapshot) map[string][2]string {
	diffs := make(map[string][2]string)

	if prev.Name != curr.Name {
		diffs["name"] = [2]string{prev.Name, curr.Name}
	}
	if prev.Pinned != curr.Pinned {
		diffs["pinned"] = [2]string{fmt.Sprintf("%v", prev.Pinned), fmt.Sprintf("%v", curr.Pinned)}
	}
	if prev.Active != curr.Active {
		diffs["active"] = [2]string{fmt.Sprintf("%v", prev.Active), fmt.Sprintf("%v", curr.Active)}
	}
	if prev.Top != curr.Top {
		diffs["top"] = [2]string{prev.Top, curr.Top}
	}
	if a, b := strings.Join(prev.Windows, ","), strings.Join(curr.Windows, ","); a != b {
		diffs["windows"] = [2]string{a, b}
	}

	if len(diffs) == 0 {
		return nil
	}
	return diffs
}

func diffWindow(prev, curr WindowSnapshot) map[string][2]string {
	diffs := make(map[string][2]string)

	if prev.Name != curr.Name {
		diffs["name"] = [2]string{prev.Name, curr.Name}
	}
	if prev.Group != curr.Group {
		diffs["group"] = [2]string{prev.Group, curr.Group}
	}
	if prev.Workspace != curr.Workspace {
		diffs["workspace"] = [2]string{prev.Workspace, curr.Workspace}
	}
	if a, b := strings.Join(prev.State, "|"), strings.Join(curr.State, "|"); a != b {
		diffs["state"] = [2]string{a, b}
	}
	if prev.Tracked != curr.Tracked {
		diffs["tracked"] = [2]string{fmt.Sprintf("%v", prev.Tracked), fmt.Sprintf("%v", curr.Tracked)}
	}
	if prev.Active != curr.Active {
		diffs["active"] = [2]string{fmt.Sprintf("%v", prev.Active), fmt.Sprintf("%v", curr.Active)}
	}

	if len(diffs) == 0 {
		return nil
	}
	return diffs
}
