package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mj1618/docklike/internal/logger"
	"github.com/mj1618/docklike/internal/model"
	"github.com/mj1618/docklike/internal/output"
	"github.com/mj1618/docklike/internal/platform/sim"
	"github.com/mj1618/docklike/internal/taskbar"
)

var replayCmd = &cobra.Command{
	Use:   "replay SCENARIO.yaml",
	Short: "Play a scripted window session and print how the groups change",
	Long: `Build a simulated screen from a scenario file, track it exactly like a live
session and print the group and window changes after every step.

With --final only the resulting groups and windows are printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Bool("final", false, "Print only the final state")
	replayCmd.Flags().Bool("pretty", false, "Pretty-print output (no-op for YAML)")
}

func runReplay(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	final, _ := cmd.Flags().GetBool("final")

	sc, err := sim.LoadScenarioFile(args[0])
	if err != nil {
		return err
	}

	var sets []output.ChangeSet
	snap, err := replayScenario(sc, env.log, func(cs output.ChangeSet) {
		sets = append(sets, cs)
	})
	if err != nil {
		return err
	}
	if final {
		return output.Print(listResult("sim", snap, true))
	}
	return output.Print(sets)
}

// replayScenario plays sc against a fresh tracker. emit receives the startup
// state as one change set and then one change set per step.
func replayScenario(sc *sim.Scenario, log *logger.Logger, emit func(output.ChangeSet)) (model.DockSnapshot, error) {
	screen, err := sc.Setup()
	if err != nil {
		return model.DockSnapshot{}, err
	}

	tracker := taskbar.NewTracker(taskbar.Config{
		Screen:    screen,
		Commander: screen,
		Apps:      sc.Registry(log),
		Presenter: taskbar.LogPresenter{Log: log},
		Settings:  sc.Settings.Policy(),
		Log:       log,
	})
	tracker.SetPinned(sc.Settings.Pinned)
	tracker.Start()
	defer tracker.Close()

	prev := tracker.Snapshot()
	emit(output.ChangeSet{TS: prev.TS, Step: "start", Changes: nonNil(model.DiffDocks(model.DockSnapshot{}, prev))})

	err = sc.Play(screen, sim.Hooks{
		ActivateGroup: func(id string) error {
			return tracker.ActivateGroup(id, uint32(time.Now().Unix()))
		},
		AfterStep: func(i int, step sim.Step) {
			curr := tracker.Snapshot()
			emit(output.ChangeSet{
				TS:      curr.TS,
				Step:    fmt.Sprintf("%d: %s", i+1, step.Describe()),
				Changes: nonNil(model.DiffDocks(prev, curr)),
			})
			prev = curr
		},
	})
	if err != nil {
		return model.DockSnapshot{}, err
	}
	return tracker.Snapshot(), nil
}

func nonNil(changes []model.DockChange) []model.DockChange {
	if changes == nil {
		return []model.DockChange{}
	}
	return changes
}
