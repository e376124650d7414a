package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"github.com/mj1618/docklike/internal/dbusapi"
	"github.com/mj1618/docklike/internal/model"
	"github.com/mj1618/docklike/internal/output"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Track windows live until interrupted",
	Long: `Track the compositor's windows and keep the groups up to date as windows open,
close, move and change focus. Config file and applications directory changes
are picked up without a restart.

With --jsonl every batch of group and window changes is written to stdout as
one JSON object per line, starting with everything present at startup. With
--dbus the dock is also served on the session bus as org.docklike.Taskbar.

Use Ctrl+C or --duration to stop.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("jsonl", false, "Stream dock changes as JSONL to stdout")
	runCmd.Flags().Bool("dbus", false, "Serve org.docklike.Taskbar on the session bus")
	runCmd.Flags().Int("duration", 0, "Max seconds to run (0 = until Ctrl+C)")
}

func runRun(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	defer env.log.Close()

	jsonl, _ := cmd.Flags().GetBool("jsonl")
	withDBus, _ := cmd.Flags().GetBool("dbus")
	durationSec, _ := cmd.Flags().GetInt("duration")

	sess, provider, err := newLiveSession(env, true)
	if err != nil {
		return err
	}

	eventCount := 0
	if jsonl {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		sess.OnChange(func(changes []model.DockChange, snap model.DockSnapshot) {
			if err := enc.Encode(output.ChangeSet{TS: snap.TS, Changes: changes}); err != nil {
				env.log.Error("Failed to write changes", err)
				return
			}
			eventCount += len(changes)
		})
	}

	if withDBus {
		conn, err := dbus.ConnectSessionBus()
		if err != nil {
			return fmt.Errorf("connect session bus: %w", err)
		}
		defer conn.Close()

		svc := dbusapi.NewService(conn, sess, env.log)
		if err := svc.Listen(); err != nil {
			return err
		}
		defer svc.Close()
		sess.OnChange(svc.Notify)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if durationSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(durationSec)*time.Second)
		defer cancel()
	}

	start := time.Now()
	env.log.Info("Running", "backend", provider.Name, "jsonl", jsonl, "dbus", withDBus)
	err = sess.Run(ctx)
	env.log.Info("Stopped", "elapsed", fmt.Sprintf("%.1fs", time.Since(start).Seconds()), "events", eventCount)
	return err
}
