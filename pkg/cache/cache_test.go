package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCaches(t *testing.T) {
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		c    Cache
	}{
		{name: "file", c: fc},
		{name: "memory", c: NewMemoryCache()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			defer tt.c.Close()

			if _, hit, err := tt.c.Get(ctx, "k"); err != nil || hit {
				t.Fatalf("Get on empty cache = %v, %v", hit, err)
			}
			if err := tt.c.Set(ctx, "k", []byte("<svg/>"), 0); err != nil {
				t.Fatal(err)
			}
			data, hit, err := tt.c.Get(ctx, "k")
			if err != nil || !hit || string(data) != "<svg/>" {
				t.Fatalf("Get = %q, %v, %v", data, hit, err)
			}
			if err := tt.c.Delete(ctx, "k"); err != nil {
				t.Fatal(err)
			}
			if _, hit, _ := tt.c.Get(ctx, "k"); hit {
				t.Error("hit after Delete")
			}
			if err := tt.c.Delete(ctx, "missing"); err != nil {
				t.Errorf("Delete(missing) = %v", err)
			}
		})
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not evicted, Len() = %d", c.Len())
	}
}

func TestFileCacheClear(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	ctx := context.Background()
	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("hit after Clear")
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	_ = c.Set(ctx, "k", []byte("v"), time.Hour)
	if data, hit, err := c.Get(ctx, "k"); hit || data != nil || err != nil {
		t.Errorf("NullCache.Get = %v, %v, %v", data, hit, err)
	}
}

func TestHash(t *testing.T) {
	if Hash([]byte("hello")) != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if Hash([]byte("hello")) == Hash([]byte("world")) {
		t.Error("different inputs should hash differently")
	}
	if n := len(Hash(nil)); n != 64 {
		t.Errorf("len = %d, want 64", n)
	}

	a, _ := HashJSON(map[string]int{"x": 1, "y": 2})
	b, _ := HashJSON(map[string]int{"y": 2, "x": 1})
	if a != b {
		t.Error("HashJSON should not depend on map iteration order")
	}
	if _, err := HashJSON(func() {}); err == nil {
		t.Error("HashJSON(func) should fail")
	}
}

func TestKeyers(t *testing.T) {
	k := NewDefaultKeyer()
	svg := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "svg"})
	dot := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "dot"})
	if svg == dot || !strings.HasPrefix(svg, "artifact:") {
		t.Errorf("ArtifactKey: svg=%q dot=%q", svg, dot)
	}

	scoped := NewScopedKeyer(nil, "p1:")
	if got, want := scoped.ArtifactKey("abc", ArtifactKeyOpts{}), "p1:"+k.ArtifactKey("abc", ArtifactKeyOpts{}); got != want {
		t.Errorf("scoped ArtifactKey = %q, want %q", got, want)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	transient := errors.New("connection reset")

	tests := []struct {
		name      string
		failures  int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{name: "first try", failures: 0, wantCalls: 1},
		{name: "recovers", failures: 1, retryable: true, wantCalls: 2},
		{name: "gives up", failures: 5, retryable: true, wantCalls: 3, wantErr: true},
		{name: "permanent", failures: 5, retryable: false, wantCalls: 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, 3, time.Millisecond, func() error {
				calls++
				if calls <= tt.failures {
					if tt.retryable {
						return Retryable(transient)
					}
					return transient
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, transient) {
				t.Errorf("err should wrap cause: %v", err)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}

	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, 3, time.Hour, func() error {
		return Retryable(errors.New("down"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
