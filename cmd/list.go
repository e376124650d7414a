package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/mj1618/docklike/internal/model"
	"github.com/mj1618/docklike/internal/output"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the taskbar groups of the running session",
	Long: `Connect to the compositor, group its windows once and print the result.

With --diff the result is compared against the snapshot saved by the previous
'list --save' and only the changes are printed.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("windows", false, "Include every window, tracked or not")
	listCmd.Flags().Bool("save", false, "Save the snapshot for a later --diff")
	listCmd.Flags().Bool("diff", false, "Print changes since the last saved snapshot")
	listCmd.Flags().Bool("pretty", false, "Pretty-print output (no-op for YAML)")
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	sess, provider, err := newLiveSession(env, false)
	if err != nil {
		return err
	}
	snap := sess.Once()

	withWindows, _ := cmd.Flags().GetBool("windows")
	save, _ := cmd.Flags().GetBool("save")
	diff, _ := cmd.Flags().GetBool("diff")

	path, err := model.SnapshotPath()
	if err != nil {
		return fmt.Errorf("snapshot path: %w", err)
	}

	if diff {
		prev, err := model.LoadSnapshot(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := output.Print(output.ChangeSet{TS: snap.TS, Changes: model.DiffDocks(prev, snap)}); err != nil {
			return err
		}
	} else if err := output.Print(listResult(provider.Name, snap, withWindows)); err != nil {
		return err
	}

	if save || diff {
		if err := model.SaveSnapshot(path, snap); err != nil {
			return err
		}
		env.log.Debug("Snapshot saved", "path", path)
	}
	return nil
}

func listResult(backend string, snap model.DockSnapshot, withWindows bool) output.ListResult {
	res := output.ListResult{Backend: backend, TS: snap.TS, Groups: snap.Groups}
	if withWindows {
		res.Windows = snap.Windows
	}
	return res
}
