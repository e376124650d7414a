package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mj1618/docklike/internal/appinfo"
	"github.com/mj1618/docklike/internal/logger"
	"github.com/mj1618/docklike/internal/platform"
	"github.com/mj1618/docklike/internal/session"
	"github.com/mj1618/docklike/internal/settings"
	"github.com/mj1618/docklike/internal/taskbar"
)

// cliEnv is what most commands start from: a logger and the user's settings.
type cliEnv struct {
	log   *logger.Logger
	store *settings.Store
}

// newLogger builds the console logger. --debug wins over the configured level.
func newLogger(debug bool, level string) (*logger.Logger, error) {
	lvl := logger.ParseLevel(level)
	if debug {
		lvl = zerolog.DebugLevel
	}
	return logger.New(logger.WithConsole(), logger.WithLevel(lvl))
}

// setup reads the global flags, opens the config file and builds the logger
// at the configured level.
func setup(cmd *cobra.Command) (*cliEnv, error) {
	debug, _ := rootCmd.PersistentFlags().GetBool("debug")
	path, _ := rootCmd.PersistentFlags().GetString("config")

	boot, err := newLogger(debug, "info")
	if err != nil {
		return nil, err
	}
	store, err := settings.Open(path, boot)
	if err != nil {
		return nil, err
	}
	log := boot
	if level := store.Current().LogLevel; !debug && level != "" && level != "info" {
		if log, err = newLogger(false, level); err != nil {
			return nil, err
		}
	}
	log.Debug("Command starting", "command", cmd.Name(), "config", store.Path())
	return &cliEnv{log: log, store: store}, nil
}

// loadRegistry reads every applications directory and applies aliases.
func loadRegistry(log *logger.Logger, aliases map[string]string) (*appinfo.Registry, error) {
	r := appinfo.NewRegistry(log, appinfo.SearchDirs()...)
	if err := r.Reload(); err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}
	r.SetAliases(aliases)
	return r, nil
}

// newLiveSession connects to the running compositor and builds a session
// over it.
func newLiveSession(env *cliEnv, watch bool) (*session.Session, *platform.Provider, error) {
	provider, err := platform.NewProvider(env.log)
	if err != nil {
		return nil, nil, err
	}
	apps, err := loadRegistry(env.log, env.store.Current().Aliases)
	if err != nil {
		return nil, nil, err
	}
	sess, err := session.New(session.Config{
		Provider:  provider,
		Apps:      apps,
		Presenter: taskbar.LogPresenter{Log: env.log},
		Store:     env.store,
		Log:       env.log,
		Watch:     watch,
	})
	if err != nil {
		return nil, nil, err
	}
	return sess, provider, nil
}
