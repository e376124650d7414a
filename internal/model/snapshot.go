package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// snapshotFile is the state-relative path of the last saved snapshot.
const snapshotFile = "docklike/last-snapshot.json"

// SnapshotPath returns where SaveSnapshot writes, creating parent
// directories as needed.
func SnapshotPath() (string, error) {
	return xdg.StateFile(snapshotFile)
}

// SaveSnapshot writes s to path for later diffing.
func SaveSnapshot(path string, s DockSnapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadSnapshot reads a previously saved snapshot. A missing file yields an
// error wrapping fs.ErrNotExist.
func LoadSnapshot(path string) (DockSnapshot, error) {
	var s DockSnapshot
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("load snapshot: %w", err)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return s, nil
}
