package cmd

import (
	"fmt"
	"os"

	"github.com/mj1618/docklike/internal/output"
	"github.com/mj1618/docklike/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docklike",
	Short: "Group open windows into a dock-style taskbar",
	Long: `docklike tracks the windows of the running compositor session and groups them
by application, the way a dock-style taskbar does: one group per application,
pinned applications first, with visibility filters for the current workspace
and monitor.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("debug", false, "Log at debug level")
	rootCmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/docklike/config.yaml)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Use the root persistent flag directly to avoid conflicts with
		// subcommand local flags.
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		if prettyFlag := cmd.Flags().Lookup("pretty"); prettyFlag != nil {
			if pretty, err := cmd.Flags().GetBool("pretty"); err == nil && pretty {
				output.PrettyOutput = true
			}
		}
		return nil
	}
}
