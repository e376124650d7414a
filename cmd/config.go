package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/docklike/internal/output"
	"github.com/mj1618/docklike/internal/settings"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings (file, defaults and DOCKLIKE_* overrides)",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		return output.Print(env.store.Current())
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := rootCmd.PersistentFlags().GetString("config")
		if path == "" {
			path = settings.DefaultPath()
		}
		_, err := fmt.Fprintln(output.Stdout, path)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		path := env.store.Path()
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := env.store.Save(settings.Default()); err != nil {
			return err
		}
		_, err = fmt.Fprintln(output.Stdout, path)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configPathCmd, configInitCmd)
	configShowCmd.Flags().Bool("pretty", false, "Pretty-print output (no-op for YAML)")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
}
