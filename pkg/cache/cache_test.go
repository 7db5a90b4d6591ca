package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should never hit")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get(k) = hit %v, err %v", hit, err)
	}
	if string(data) != "payload" {
		t.Errorf("data = %q", data)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(ctx, "short", []byte("x"), time.Minute)
	c.Set(ctx, "forever", []byte("y"), 0)

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("bad")
	os.MkdirAll(filepath.Dir(path), 0o755)
	os.WriteFile(path, []byte("{not json"), 0o644)

	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Fatalf("corrupt entry: hit %v, err %v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCachePurge(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	if c.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", c.Dir(), dir)
	}
	for _, k := range []string{"a", "b", "c"} {
		c.Set(ctx, k, []byte(k), 0)
	}

	n, err := c.Purge()
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if n != 3 {
		t.Errorf("Purge removed %d, want 3", n)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cache dir not empty after purge: %d entries", len(entries))
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	tests := []struct {
		name string
		a, b string
	}{
		{"layout size", k.LayoutKey("h", LayoutKeyOpts{Width: 80, Height: 24}), k.LayoutKey("h", LayoutKeyOpts{Width: 120, Height: 24})},
		{"layout doc", k.LayoutKey("h1", LayoutKeyOpts{Width: 80}), k.LayoutKey("h2", LayoutKeyOpts{Width: 80})},
		{"render format", k.RenderKey("h", RenderKeyOpts{Format: "text"}), k.RenderKey("h", RenderKeyOpts{Format: "svg"})},
		{"render color", k.RenderKey("h", RenderKeyOpts{Format: "text"}), k.RenderKey("h", RenderKeyOpts{Format: "text", Color: true})},
		{"tree format", k.TreeKey("h", TreeKeyOpts{Format: "dot"}), k.TreeKey("h", TreeKeyOpts{Format: "svg"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a == tt.b {
				t.Errorf("keys should differ: %s", tt.a)
			}
		})
	}

	if !strings.HasPrefix(k.LayoutKey("h", LayoutKeyOpts{}), "layout:") {
		t.Error("layout keys should carry the layout: prefix")
	}
	if !strings.HasPrefix(k.RenderKey("h", RenderKeyOpts{}), "render:") {
		t.Error("render keys should carry the render: prefix")
	}
	if !strings.HasPrefix(k.TreeKey("h", TreeKeyOpts{}), "tree:") {
		t.Error("tree keys should carry the tree: prefix")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer("team-a", inner)

	want := "team-a:" + inner.LayoutKey("h", LayoutKeyOpts{Width: 10})
	if got := scoped.LayoutKey("h", LayoutKeyOpts{Width: 10}); got != want {
		t.Errorf("LayoutKey = %s, want %s", got, want)
	}

	nilInner := NewScopedKeyer("x", nil)
	if got := nilInner.TreeKey("h", TreeKeyOpts{}); !strings.HasPrefix(got, "x:tree:") {
		t.Errorf("nil inner should fall back to default keyer: %s", got)
	}

	unscoped := NewScopedKeyer("", inner)
	if unscoped.RenderKey("h", RenderKeyOpts{}) != inner.RenderKey("h", RenderKeyOpts{}) {
		t.Error("empty scope should not alter keys")
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("wrapped error should be retryable")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("wrapped error should unwrap to the cause")
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("bare error should not be retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := RetryWithBackoff(ctx, 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry then succeed: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, 3, time.Millisecond, func() error {
		calls++
		return ErrUnavailable
	})
	if err != ErrUnavailable || calls != 1 {
		t.Errorf("non-retryable: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, 3, time.Millisecond, func() error {
		calls++
		return Retryable(ErrUnavailable)
	})
	if !errors.Is(err, ErrUnavailable) || calls != 3 {
		t.Errorf("exhausted: err %v, calls %d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, 3, time.Hour, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
