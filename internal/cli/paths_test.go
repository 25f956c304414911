package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		custom := t.TempDir()
		t.Setenv("XDG_CACHE_HOME", custom)
		dir, err := cacheDir()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join(custom, appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		dir, err := cacheDir()
		if err != nil {
			t.Fatal(err)
		}
		home, _ := os.UserHomeDir()
		if want := filepath.Join(home, ".cache", appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})
}

func TestNewArtifactCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if c := newArtifactCache(true); c == nil {
		t.Fatal("newArtifactCache(true) returned nil")
	}
	c := newArtifactCache(false)
	defer c.Close()
	if err := c.Set(t.Context(), "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := c.Get(t.Context(), "k")
	if err != nil || !ok || string(got) != "v" {
		t.Errorf("Get = %q, %v, %v", got, ok, err)
	}
}
