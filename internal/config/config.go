package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todos.db"
	DefaultLogName        = "planner.log"
	EnvConfigPath         = "PLANNER_CONFIG"
)

// Keymap maps each action to its keys. A value may list several keys
// separated by commas, e.g. "up,k".
type Keymap struct {
	Quit      string `toml:"quit"`
	Up        string `toml:"up"`
	Down      string `toml:"down"`
	Add       string `toml:"add"`
	Done      string `toml:"done"`
	Delete    string `toml:"delete"`
	Completed string `toml:"completed"`
	Search    string `toml:"search"`
	Filter    string `toml:"filter"`
	Back      string `toml:"back"`
	Confirm   string `toml:"confirm"`
	Cancel    string `toml:"cancel"`
}

type Config struct {
	DBPath   string `toml:"db_path"`
	LogPath  string `toml:"log_path"`
	LogLevel string `toml:"log_level"`
	Keys     Keymap `toml:"keys"`
}

// ResolveConfigPath picks the config file location: $PLANNER_CONFIG, then the
// user config directory, then the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "planner", DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist. Relative db and log paths resolve against the
// config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

func (c Config) resolve(dir string) Config {
	def := defaultConfig()
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.LogPath == "" {
		c.LogPath = def.LogPath
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	c.DBPath = relativeTo(dir, c.DBPath)
	c.LogPath = relativeTo(dir, c.LogPath)
	c.Keys = c.Keys.withDefaults(def.Keys)
	return c
}

func relativeTo(dir, p string) string {
	if filepath.IsAbs(p) || strings.HasPrefix(p, "file:") {
		return p
	}
	return filepath.Join(dir, p)
}

func (k Keymap) withDefaults(def Keymap) Keymap {
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&k.Quit, def.Quit)
	fill(&k.Up, def.Up)
	fill(&k.Down, def.Down)
	fill(&k.Add, def.Add)
	fill(&k.Done, def.Done)
	fill(&k.Delete, def.Delete)
	fill(&k.Completed, def.Completed)
	fill(&k.Search, def.Search)
	fill(&k.Filter, def.Filter)
	fill(&k.Back, def.Back)
	fill(&k.Confirm, def.Confirm)
	fill(&k.Cancel, def.Cancel)
	return k
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:   DefaultDBName,
		LogPath:  DefaultLogName,
		LogLevel: "info",
		Keys: Keymap{
			Quit:      "q",
			Up:        "up,k",
			Down:      "down,j",
			Add:       "a",
			Done:      "d",
			Delete:    "x",
			Completed: "c",
			Search:    "/",
			Filter:    "f",
			Back:      "b",
			Confirm:   "enter",
			Cancel:    "esc",
		},
	}
}
