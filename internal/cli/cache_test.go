package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/cache"
)

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	cc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	for _, key := range []string{"a", "b", "c"} {
		if err := cc.Set(context.Background(), key, []byte("{}"), time.Hour); err != nil {
			t.Fatalf("Set(%q) error = %v", key, err)
		}
	}

	out := captureStdout(t)
	c := &CLI{Logger: newLogger(os.Stderr, LogInfo), cacheTarget: dir}
	cmd := c.cacheClearCommand()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("cache clear error = %v", err)
	}
	if !strings.Contains(out.String(), "Cleared 3 cached entries") {
		t.Errorf("output = %q, want 3 entries cleared", out)
	}
	if _, ok, _ := cc.Get(context.Background(), "a"); ok {
		t.Error("entry survived cache clear")
	}
}

func TestCachePath(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    string
		wantErr bool
	}{
		{"directory", "/tmp/layouts", "/tmp/layouts", false},
		{"redis", "redis://localhost:6379/0", "", true},
		{"mongo", "mongodb://localhost/constraintlayout", "", true},
		{"disabled", "none", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStdout(t)
			c := &CLI{Logger: newLogger(os.Stderr, LogInfo), cacheTarget: tt.target}
			cmd := c.cachePathCommand()
			err := cmd.RunE(cmd, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("cache path error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := strings.TrimSpace(out.String()); !tt.wantErr && got != tt.want {
				t.Errorf("cache path = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCachePathDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	out := captureStdout(t)
	c := &CLI{Logger: newLogger(os.Stderr, LogInfo)}
	cmd := c.cachePathCommand()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("cache path error = %v", err)
	}
	if got, want := strings.TrimSpace(out.String()), filepath.Join("/tmp/xdg", appName); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

// captureStdout redirects the printers to a buffer for the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	stdout = &buf
	t.Cleanup(restoreStdout)
	return &buf
}

func restoreStdout() { stdout = os.Stdout }
