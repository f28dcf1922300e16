package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, ok, err := c.Get(ctx, "key")
	if err != nil || ok || data != nil {
		t.Errorf("Get() = %q, %v, %v, want a miss", data, ok, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	defer c.Close()

	if _, ok, _ := c.Get(ctx, "solve:a"); ok {
		t.Error("Get() hit on an empty cache")
	}
	if err := c.Set(ctx, "solve:a", []byte(`{"w":1}`), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, ok, err := c.Get(ctx, "solve:a")
	if err != nil || !ok || string(data) != `{"w":1}` {
		t.Errorf("Get() = %q, %v, %v, want stored value", data, ok, err)
	}
	if err := c.Delete(ctx, "solve:a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := c.Get(ctx, "solve:a"); ok {
		t.Error("Get() hit after Delete")
	}
	if err := c.Delete(ctx, "solve:a"); err != nil {
		t.Errorf("Delete() of a missing key error = %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get() hit on an expired entry")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	fc := c.(*FileCache)
	path := fc.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("Get() = %v, %v, want a miss", ok, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry was not removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatalf("Set(%q) error = %v", k, err)
		}
	}
	n, err := c.(*FileCache).Clear()
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Error("Get() hit after Clear")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	tests := []struct {
		target  string
		want    string
		wantErr bool
	}{
		{"", "*cache.NullCache", false},
		{"none", "*cache.NullCache", false},
		{dir, "*cache.FileCache", false},
		{"file://" + dir, "*cache.FileCache", false},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			c, err := Open(ctx, tt.target)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open(%q) error = %v, wantErr %v", tt.target, err, tt.wantErr)
			}
			if got := typeName(c); got != tt.want {
				t.Errorf("Open(%q) = %s, want %s", tt.target, got, tt.want)
			}
		})
	}
}

func typeName(c Cache) string {
	switch c.(type) {
	case *NullCache:
		return "*cache.NullCache"
	case *FileCache:
		return "*cache.FileCache"
	}
	return "other"
}

func TestRemoteBackendsRejectBadURLs(t *testing.T) {
	ctx := context.Background()
	if _, err := NewRedisCache(ctx, "http://localhost:6379"); !errors.Is(err, ErrBackend) {
		t.Errorf("NewRedisCache() error = %v, want %v", err, ErrBackend)
	}
	if _, err := NewMongoCache(ctx, "http://localhost:27017"); !errors.Is(err, ErrBackend) {
		t.Errorf("NewMongoCache() error = %v, want %v", err, ErrBackend)
	}
}

func TestMongoDatabase(t *testing.T) {
	tests := map[string]string{
		"mongodb://localhost:27017":             "constraintlayout",
		"mongodb://localhost:27017/":            "constraintlayout",
		"mongodb://user:pw@db.local/layouts":    "layouts",
		"mongodb+srv://cluster.example.net/sim": "sim",
	}
	for uri, want := range tests {
		got, err := mongoDatabase(uri)
		if err != nil {
			t.Errorf("mongoDatabase(%q) error = %v", uri, err)
			continue
		}
		if got != want {
			t.Errorf("mongoDatabase(%q) = %q, want %q", uri, got, want)
		}
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	opts := SolveKeyOpts{Width: 400, Height: 300, WidthMode: "exactly", HeightMode: "wrap"}

	s1 := k.SolveKey("scene", opts)
	if s1 != k.SolveKey("scene", opts) {
		t.Error("SolveKey() is not deterministic")
	}
	if !strings.HasPrefix(s1, KindSolve+":") {
		t.Errorf("SolveKey() = %q, want prefix %q", s1, KindSolve+":")
	}
	wider := opts
	wider.Width = 500
	if s1 == k.SolveKey("scene", wider) {
		t.Error("SolveKey() ignores the width")
	}
	if s1 == k.SolveKey("other", opts) {
		t.Error("SolveKey() ignores the scene hash")
	}

	a1 := k.AnimateKey("scene", AnimateKeyOpts{SolveKeyOpts: opts, Frames: 30})
	a2 := k.AnimateKey("scene", AnimateKeyOpts{SolveKeyOpts: opts, Frames: 60})
	if a1 == a2 {
		t.Error("AnimateKey() ignores the frame count")
	}
	if k.ArtifactKey("r", ArtifactKeyOpts{Format: "svg"}) == k.ArtifactKey("r", ArtifactKeyOpts{Format: "png"}) {
		t.Error("ArtifactKey() ignores the format")
	}
	if got := Kind(k.SceneKey("scene")); got != KindScene {
		t.Errorf("Kind(SceneKey()) = %q, want %q", got, KindScene)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "api:team1:")
	key := scoped.SolveKey("scene", SolveKeyOpts{})
	if want := "api:team1:" + NewDefaultKeyer().SolveKey("scene", SolveKeyOpts{}); key != want {
		t.Errorf("SolveKey() = %q, want %q", key, want)
	}
	if got := Kind(key); got != KindSolve {
		t.Errorf("Kind(%q) = %q, want %q", key, got, KindSolve)
	}
}

func TestKind(t *testing.T) {
	tests := map[string]string{
		"solve:abc":         "solve",
		"api:t:animate:abc": "animate",
		"artifact:":         "artifact",
		"plain":             "",
	}
	for key, want := range tests {
		if got := Kind(key); got != want {
			t.Errorf("Kind(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestHash(t *testing.T) {
	h := Hash([]byte("hello"))
	if h != Hash([]byte("hello")) {
		t.Error("Hash() is not deterministic")
	}
	if h == Hash([]byte("world")) {
		t.Error("Hash() collides on different input")
	}
	if len(h) != 64 {
		t.Errorf("len(Hash()) = %d, want 64", len(h))
	}
}

func TestBackoff(t *testing.T) {
	ctx := context.Background()
	b := Backoff{Attempts: 3, Delay: time.Millisecond}

	calls := 0
	err := b.Do(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(errors.New("reset"))
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("Do() = %v after %d calls, want nil after 2", err, calls)
	}

	calls = 0
	permanent := errors.New("bad request")
	if err := b.Do(ctx, func() error { calls++; return permanent }); err != permanent || calls != 1 {
		t.Errorf("Do() = %v after %d calls, want %v after 1", err, calls, permanent)
	}

	calls = 0
	err = b.Do(ctx, func() error { calls++; return Retryable(permanent) })
	if !errors.Is(err, permanent) || calls != 3 {
		t.Errorf("Do() = %v after %d calls, want %v after 3", err, calls, permanent)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if err := b.Do(cctx, func() error { return Retryable(permanent) }); err != context.Canceled {
		t.Errorf("Do() on a cancelled context = %v, want %v", err, context.Canceled)
	}

	if Retryable(nil) != nil {
		t.Error("Retryable(nil) != nil")
	}
}

type recordingCacheHooks struct {
	observability.NoopCacheHooks
	events []string
}

func (h *recordingCacheHooks) OnCacheHit(_ context.Context, kind string) {
	h.events = append(h.events, "hit:"+kind)
}

func (h *recordingCacheHooks) OnCacheMiss(_ context.Context, kind string) {
	h.events = append(h.events, "miss:"+kind)
}

func (h *recordingCacheHooks) OnCacheSet(_ context.Context, kind string, _ int) {
	h.events = append(h.events, "set:"+kind)
}

func TestObserved(t *testing.T) {
	hooks := &recordingCacheHooks{}
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := Observed(fc)
	key := NewDefaultKeyer().SolveKey("s", SolveKeyOpts{})
	c.Get(ctx, key)
	c.Set(ctx, key, []byte("x"), 0)
	c.Get(ctx, key)

	want := []string{"miss:solve", "set:solve", "hit:solve"}
	if strings.Join(hooks.events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
}
