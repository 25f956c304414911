// Package config loads mockup settings from a TOML file.
//
// Settings start from [Default] and are overridden by whatever the file
// sets, so a config file only needs the keys it changes:
//
//	[editor]
//	grid_size = 8
//	snap = true
//	history_limit = 100
//
//	[store]
//	backend = "sqlite"
//	path = "~/mockups/projects.db"
//
//	[server]
//	addr = ":8080"
//
//	[log]
//	level = "debug"
//
// The file is looked up at --config, then $XDG_CONFIG_HOME/mockup/config.toml,
// then ~/.config/mockup/config.toml. A missing default file is not an error.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	mkerrors "github.com/matzehuels/mockup/pkg/errors"
	"github.com/matzehuels/mockup/pkg/history"
	"github.com/matzehuels/mockup/pkg/store"
)

const appName = "mockup"

// Config is the full settings tree.
type Config struct {
	Editor Editor `toml:"editor"`
	Store  Store  `toml:"store"`
	Server Server `toml:"server"`
	Log    Log    `toml:"log"`
}

// Editor holds canvas defaults for new documents.
type Editor struct {
	GridSize     float64 `toml:"grid_size"`
	Snap         bool    `toml:"snap"`
	HistoryLimit int     `toml:"history_limit"`
	// Catalog is an optional YAML file of extra components and templates.
	Catalog string `toml:"catalog"`
	// Device is the preset for new screens: mobile, tablet or desktop.
	Device string `toml:"device"`
}

// Store selects the project backend.
type Store struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	Path    string `toml:"path"`

	Redis struct {
		Addr     string `toml:"addr"`
		Password string `toml:"password"`
		DB       int    `toml:"db"`
		Prefix   string `toml:"prefix"`
	} `toml:"redis"`

	Mongo struct {
		URI      string `toml:"uri"`
		Database string `toml:"database"`
	} `toml:"mongo"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Editor: Editor{GridSize: 8, Snap: true, HistoryLimit: history.DefaultCapacity, Device: "mobile"},
		Store:  Store{Backend: store.BackendFile},
		Server: Server{Addr: "127.0.0.1:7070"},
		Log:    Log{Level: "info"},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads path over the defaults. An empty path means the default
// location, which may be absent.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil
	}
	if err != nil {
		return cfg, mkerrors.Wrap(mkerrors.ErrCodeInvalidConfig, err, "load config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, mkerrors.New(mkerrors.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	cfg.Store.Dir = expandHome(cfg.Store.Dir)
	cfg.Store.Path = expandHome(cfg.Store.Path)
	cfg.Editor.Catalog = expandHome(cfg.Editor.Catalog)
	return cfg, cfg.Validate()
}

// Validate checks value ranges and backend requirements.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return mkerrors.New(mkerrors.ErrCodeInvalidConfig, format, args...)
	}
	if c.Editor.GridSize < 0 {
		return invalid("editor.grid_size must not be negative, got %v", c.Editor.GridSize)
	}
	if c.Editor.HistoryLimit < 1 {
		return invalid("editor.history_limit must be at least 1, got %d", c.Editor.HistoryLimit)
	}
	switch c.Editor.Device {
	case "", "mobile", "tablet", "desktop":
	default:
		return invalid("editor.device must be mobile, tablet or desktop, got %q", c.Editor.Device)
	}
	switch c.Store.Backend {
	case store.BackendMemory, store.BackendFile, "":
	case store.BackendSQLite:
		if c.Store.Path == "" {
			return invalid("store.path is required for the sqlite backend")
		}
	case store.BackendRedis:
		if c.Store.Redis.Addr == "" {
			return invalid("store.redis.addr is required for the redis backend")
		}
	case store.BackendMongo:
		if c.Store.Mongo.URI == "" {
			return invalid("store.mongo.uri is required for the mongo backend")
		}
	default:
		return invalid("unknown store.backend %q", c.Store.Backend)
	}
	if _, err := c.Log.ParseLevel(); err != nil {
		return invalid("log.level: %v", err)
	}
	return nil
}

// ParseLevel converts the configured level name.
func (l Log) ParseLevel() (log.Level, error) {
	if l.Level == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(l.Level)
}

// StoreConfig converts the [store] section for [store.Open].
func (c Config) StoreConfig() store.Config {
	return store.Config{
		Backend:       c.Store.Backend,
		Dir:           c.Store.Dir,
		Path:          c.Store.Path,
		RedisAddr:     c.Store.Redis.Addr,
		RedisPassword: c.Store.Redis.Password,
		RedisDB:       c.Store.Redis.DB,
		RedisPrefix:   c.Store.Redis.Prefix,
		MongoURI:      c.Store.Mongo.URI,
		MongoDB:       c.Store.Mongo.Database,
	}
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// String renders the config back as TOML.
func (c Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
