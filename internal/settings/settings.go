// Package settings loads and watches the user's taskbar configuration.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/mj1618/docklike/internal/logger"
	"github.com/mj1618/docklike/internal/policy"
)

const (
	appName    = "docklike"
	configName = "config.yaml"
	envPrefix  = "DOCKLIKE"
)

// Settings holds the user configuration.
type Settings struct {
	OnlyDisplayVisible bool              `mapstructure:"only_display_visible" yaml:"only_display_visible" json:"only_display_visible"`
	OnlyDisplayScreen  bool              `mapstructure:"only_display_screen"  yaml:"only_display_screen"  json:"only_display_screen"`
	FollowMonitor      bool              `mapstructure:"follow_monitor"       yaml:"follow_monitor"       json:"follow_monitor"`
	Pinned             []string          `mapstructure:"pinned"               yaml:"pinned"               json:"pinned"`
	Aliases            map[string]string `mapstructure:"aliases"              yaml:"aliases"              json:"aliases"`
	PanelMonitor       string            `mapstructure:"panel_monitor"        yaml:"panel_monitor"        json:"panel_monitor"`
	LogLevel           string            `mapstructure:"log_level"            yaml:"log_level"            json:"log_level"`
}

// Policy returns the visibility-relevant subset.
func (s Settings) Policy() policy.Settings {
	return policy.Settings{
		OnlyDisplayVisible: s.OnlyDisplayVisible,
		OnlyDisplayScreen:  s.OnlyDisplayScreen,
		FollowMonitor:      s.FollowMonitor,
	}
}

// Default returns the built-in configuration.
func Default() Settings {
	return Settings{
		FollowMonitor: true,
		Aliases:       map[string]string{},
		LogLevel:      "info",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/docklike/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, configName)
}

// Store owns the viper instance backing Settings.
type Store struct {
	v    *viper.Viper
	path string
	log  *logger.Logger

	mu      sync.RWMutex
	current Settings
}

// Open loads settings from path (DefaultPath when empty). A missing file
// yields the defaults; DOCKLIKE_* environment variables override file values.
func Open(path string, log *logger.Logger) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	def := Default()
	v.SetDefault("only_display_visible", def.OnlyDisplayVisible)
	v.SetDefault("only_display_screen", def.OnlyDisplayScreen)
	v.SetDefault("follow_monitor", def.FollowMonitor)
	v.SetDefault("pinned", []string{})
	v.SetDefault("aliases", map[string]string{})
	v.SetDefault("panel_monitor", "")
	v.SetDefault("log_level", def.LogLevel)

	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	s := &Store{v: v, path: path, log: log}

	if err := v.ReadInConfig(); err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		log.Debug("No config file, using defaults", "path", path)
	} else {
		log.Debug("Config file loaded", "path", path)
	}

	if err := s.refresh(); err != nil {
		return nil, err
	}
	return s, nil
}

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, fs.ErrNotExist)
}

func (s *Store) refresh() error {
	var cfg Settings
	if err := s.v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Aliases == nil {
		cfg.Aliases = map[string]string{}
	}
	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()
	return nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Current returns a copy of the active settings.
func (s *Store) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := s.current
	cfg.Pinned = append([]string(nil), s.current.Pinned...)
	cfg.Aliases = make(map[string]string, len(s.current.Aliases))
	for k, v := range s.current.Aliases {
		cfg.Aliases[k] = v
	}
	return cfg
}

// Watch invokes onChange with the reloaded settings whenever the file
// changes. onChange runs on viper's watcher goroutine.
func (s *Store) Watch(onChange func(Settings)) {
	s.v.OnConfigChange(func(ev fsnotify.Event) {
		if err := s.refresh(); err != nil {
			s.log.Error("Failed to reload config", err, "path", ev.Name)
			return
		}
		s.log.Info("Config reloaded", "path", ev.Name, "op", ev.Op.String())
		onChange(s.Current())
	})
	s.v.WatchConfig()
}

// Save writes cfg to the backing file and makes it current.
func (s *Store) Save(cfg Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	s.v.Set("only_display_visible", cfg.OnlyDisplayVisible)
	s.v.Set("only_display_screen", cfg.OnlyDisplayScreen)
	s.v.Set("follow_monitor", cfg.FollowMonitor)
	s.v.Set("pinned", cfg.Pinned)
	s.v.Set("aliases", cfg.Aliases)
	s.v.Set("panel_monitor", cfg.PanelMonitor)
	s.v.Set("log_level", cfg.LogLevel)
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return s.refresh()
}
