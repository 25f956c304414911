package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	mkerrors "github.com/matzehuels/mockup/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[editor]
grid_size = 10
history_limit = 20

[store]
backend = "sqlite"
path = "~/mockups.db"

[log]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Editor.GridSize != 10 || cfg.Editor.HistoryLimit != 20 {
		t.Errorf("editor = %+v", cfg.Editor)
	}
	if !cfg.Editor.Snap || cfg.Editor.Device != "mobile" {
		t.Error("unset keys should keep their defaults")
	}
	home, _ := os.UserHomeDir()
	if cfg.Store.Path != filepath.Join(home, "mockups.db") {
		t.Errorf("store.path = %q, ~ should expand", cfg.Store.Path)
	}
	if lvl, _ := cfg.Log.ParseLevel(); lvl != log.DebugLevel {
		t.Errorf("level = %v", lvl)
	}
	if sc := cfg.StoreConfig(); sc.Backend != "sqlite" || sc.Path != cfg.Store.Path {
		t.Errorf("StoreConfig() = %+v", sc)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "syntax", body: "[editor\n", want: "load config"},
		{name: "unknown key", body: "[editor]\ncolour = 1\n", want: "editor.colour"},
		{name: "history limit", body: "[editor]\nhistory_limit = 0\n", want: "history_limit"},
		{name: "negative grid", body: "[editor]\ngrid_size = -1\n", want: "grid_size"},
		{name: "device", body: "[editor]\ndevice = \"watch\"\n", want: "editor.device"},
		{name: "backend", body: "[store]\nbackend = \"etcd\"\n", want: "etcd"},
		{name: "redis addr", body: "[store]\nbackend = \"redis\"\n", want: "redis.addr"},
		{name: "mongo uri", body: "[store]\nbackend = \"mongo\"\n", want: "mongo.uri"},
		{name: "sqlite path", body: "[store]\nbackend = \"sqlite\"\n", want: "store.path"},
		{name: "level", body: "[log]\nlevel = \"loud\"\n", want: "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !mkerrors.Is(err, mkerrors.ErrCodeInvalidConfig) {
				t.Fatalf("Load() = %v, want INVALID_CONFIG", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default file should not fail: %v", err)
	}
	if cfg.Editor.HistoryLimit != Default().Editor.HistoryLimit {
		t.Errorf("got %+v, want defaults", cfg)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("an explicit missing file should fail")
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", appName, "config.toml"); p != want {
		t.Errorf("Path() = %q, want %q", p, want)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(Default().String(), "[editor]") {
		t.Error("String() should render TOML sections")
	}
}
