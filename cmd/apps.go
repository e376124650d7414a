package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mj1618/docklike/internal/appinfo"
	"github.com/mj1618/docklike/internal/output"
)

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List installed applications or resolve a grouping key",
	Long: `List the applications found in the XDG applications directories.

With --search, resolve one grouping key (a window class, desktop ID or name)
the same way windows are grouped, including configured aliases. Keys that
match nothing resolve to an unknown application named after the key.`,
	RunE: runApps,
}

func init() {
	rootCmd.AddCommand(appsCmd)
	appsCmd.Flags().String("search", "", "Resolve a grouping key")
	appsCmd.Flags().Bool("pretty", false, "Pretty-print output (no-op for YAML)")
}

func runApps(cmd *cobra.Command, args []string) error {
	env, err := setup(cmd)
	if err != nil {
		return err
	}
	registry, err := loadRegistry(env.log, env.store.Current().Aliases)
	if err != nil {
		return err
	}

	if key, _ := cmd.Flags().GetString("search"); key != "" {
		return output.Print(registry.Search(key))
	}
	apps := registry.Apps()
	if apps == nil {
		apps = []*appinfo.AppInfo{}
	}
	return output.Print(apps)
}
