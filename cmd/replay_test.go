package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mj1618/docklike/internal/logger"
	"github.com/mj1618/docklike/internal/model"
	"github.com/mj1618/docklike/internal/output"
	"github.com/mj1618/docklike/internal/platform/sim"
)

const replayScenarioYAML = `
name: firefox comes and goes
apps:
  - {id: org.mozilla.firefox, name: Firefox, wmclass: firefox}
settings:
  pinned: [kitty]
windows:
  - {id: "0x1", class: Firefox}
steps:
  - open: {id: "0x2", class: Firefox}
  - close: "0x1"
  - close: "0x2"
`

func findChange(changes []model.DockChange, typ model.ChangeType, kind model.Kind, id string) *model.DockChange {
	for i := range changes {
		c := &changes[i]
		if c.Type == typ && c.Kind == kind && c.ID == id {
			return c
		}
	}
	return nil
}

func TestReplayScenario(t *testing.T) {
	sc, err := sim.LoadScenario(strings.NewReader(replayScenarioYAML))
	if err != nil {
		t.Fatal(err)
	}

	var sets []output.ChangeSet
	final, err := replayScenario(sc, logger.Nop(), func(cs output.ChangeSet) { sets = append(sets, cs) })
	if err != nil {
		t.Fatalf("replayScenario: %v", err)
	}
	if len(sets) != 4 {
		t.Fatalf("got %d change sets, want start + 3 steps", len(sets))
	}

	start := sets[0]
	if start.Step != "start" {
		t.Errorf("first step = %q", start.Step)
	}
	if len(start.Changes) < 2 || start.Changes[0].ID != "kitty" || start.Changes[1].ID != "org.mozilla.firefox" {
		t.Errorf("start should add the pinned group first: %+v", start.Changes)
	}
	if findChange(start.Changes, model.ChangeAdded, model.KindWindow, "0x1") == nil {
		t.Errorf("start should add window 0x1: %+v", start.Changes)
	}

	opened := sets[1]
	if !strings.HasPrefix(opened.Step, "1: open 0x2") {
		t.Errorf("step label = %q", opened.Step)
	}
	g := findChange(opened.Changes, model.ChangeChanged, model.KindGroup, "org.mozilla.firefox")
	if g == nil || g.Changes["windows"] != [2]string{"0x1", "0x1,0x2"} {
		t.Errorf("open should grow the firefox group: %+v", opened.Changes)
	}

	last := sets[3]
	if findChange(last.Changes, model.ChangeRemoved, model.KindGroup, "org.mozilla.firefox") == nil {
		t.Errorf("closing the last firefox window should remove the group: %+v", last.Changes)
	}
	if findChange(last.Changes, model.ChangeRemoved, model.KindGroup, "kitty") != nil {
		t.Error("the pinned group must survive")
	}

	if len(final.Groups) != 1 || final.Groups[0].ID != "kitty" || len(final.Windows) != 0 {
		t.Errorf("final = %+v", final)
	}
}

func TestReplayScenario_UnknownWindowFails(t *testing.T) {
	sc, err := sim.LoadScenario(strings.NewReader(`
windows:
  - {id: "0x1", class: kitty}
steps:
  - rename: {id: "0x9", name: nobody}
`))
	if err != nil {
		t.Fatal(err)
	}
	_, err = replayScenario(sc, logger.Nop(), func(output.ChangeSet) {})
	if err == nil {
		t.Error("renaming an unknown window should fail the replay")
	}
}

func TestReplayCommand_FinalJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	if err := os.WriteFile(path, []byte(replayScenarioYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	oldStdout, oldFormat := output.Stdout, output.OutputFormat
	output.Stdout = &buf
	t.Cleanup(func() {
		output.Stdout, output.OutputFormat = oldStdout, oldFormat
		rootCmd.SetArgs(nil)
	})

	rootCmd.SetArgs([]string{
		"replay", path, "--final",
		"--format", "json",
		"--config", filepath.Join(dir, "config.yaml"),
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("replay: %v", err)
	}

	var res output.ListResult
	if err := json.Unmarshal(buf.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if res.Backend != "sim" || len(res.Groups) != 1 || res.Groups[0].ID != "kitty" {
		t.Errorf("result = %+v", res)
	}
}
