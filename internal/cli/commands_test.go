package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/splitgrid/pkg/core/grid"
	errs "github.com/matzehuels/splitgrid/pkg/errors"
	"github.com/matzehuels/splitgrid/pkg/observability"
)

// isolate points every XDG directory at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Cleanup(observability.Reset)
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
	return out
}

func showBoxes(t *testing.T, doc string) map[string]grid.Box {
	t.Helper()
	out := mustRun(t, "show", doc, "--format", "boxes")
	var boxes []grid.Box
	if err := json.Unmarshal([]byte(out), &boxes); err != nil {
		t.Fatalf("decode boxes: %v\n%s", err, out)
	}
	byID := make(map[string]grid.Box, len(boxes))
	for _, b := range boxes {
		byID[b.ID] = b
	}
	return byID
}

func TestEditingSession(t *testing.T) {
	isolate(t)

	mustRun(t, "new", "work", "--pane", "editor", "--pane", "logs")
	mustRun(t, "split", "work", "logs", "down", "--title", "shell")

	boxes := showBoxes(t, "work")
	want := map[string]grid.Box{
		"editor": {ID: "editor", Location: grid.Location{0}, X: 0, Y: 0, Width: 60, Height: 40},
		"logs":   {ID: "logs", Location: grid.Location{1, 0}, X: 60, Y: 0, Width: 60, Height: 20},
		"shell":  {ID: "shell", Location: grid.Location{1, 1}, X: 60, Y: 20, Width: 60, Height: 20},
	}
	if len(boxes) != len(want) {
		t.Fatalf("got %d boxes, want %d", len(boxes), len(want))
	}
	for id, w := range want {
		got := boxes[id]
		if !got.Location.Equal(w.Location) || got.X != w.X || got.Y != w.Y || got.Width != w.Width || got.Height != w.Height {
			t.Errorf("box %s = %+v, want %+v", id, got, w)
		}
	}

	mustRun(t, "resize", "work", "editor", "80")
	boxes = showBoxes(t, "work")
	if boxes["editor"].Width != 80 || boxes["logs"].X != 80 {
		t.Errorf("after resize editor = %+v, logs = %+v", boxes["editor"], boxes["logs"])
	}

	mustRun(t, "remove", "work", "shell")
	boxes = showBoxes(t, "work")
	if got := boxes["logs"]; !got.Location.Equal(grid.Location{1}) || got.Height != 40 {
		t.Errorf("after remove logs = %+v, want location [1] height 40", got)
	}

	mustRun(t, "layout", "work", "60", "20")
	boxes = showBoxes(t, "work")
	if got := boxes["editor"].Width + boxes["logs"].Width; got != 60 {
		t.Errorf("widths after layout sum to %v, want 60", got)
	}
}

func TestCommandErrors(t *testing.T) {
	isolate(t)
	mustRun(t, "new", "work", "--pane", "editor")

	tests := []struct {
		name string
		args []string
		code errs.Code
	}{
		{"unknown document", []string{"show", "nope"}, errs.ErrCodeDocumentNotFound},
		{"unknown region", []string{"split", "work", "nope", "right"}, errs.ErrCodeRegionNotFound},
		{"bad direction", []string{"split", "work", "editor", "sideways"}, errs.ErrCodeInvalidDirection},
		{"duplicate region", []string{"split", "work", "editor", "right", "--id", "editor"}, errs.ErrCodeDuplicateRegion},
		{"bad format", []string{"show", "work", "--format", "gif"}, errs.ErrCodeInvalidFormat},
		{"bad size", []string{"resize", "work", "editor", "wide"}, errs.ErrCodeInvalidInput},
		{"bad sizing", []string{"remove", "work", "editor", "--sizing", "half"}, errs.ErrCodeInvalidInput},
		{"bad tree format", []string{"tree", "work", "-f", "gif"}, errs.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errs.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (%v)", got, tt.code, err)
			}
		})
	}
}

func TestExportImport(t *testing.T) {
	dir := isolate(t)
	mustRun(t, "new", "work", "--pane", "editor", "--pane", "logs")

	path := filepath.Join(dir, "work.json")
	mustRun(t, "export", "work", "-o", path)
	mustRun(t, "delete", "work")
	if _, err := runCLI(t, "show", "work"); !errs.IsNotFound(err) {
		t.Fatalf("show after delete: err = %v, want not found", err)
	}

	mustRun(t, "import", path, "--name", "restored")
	boxes := showBoxes(t, "restored")
	if len(boxes) != 2 || boxes["logs"].X != 60 {
		t.Errorf("restored boxes = %+v", boxes)
	}

	out := mustRun(t, "list")
	if !strings.Contains(out, "restored") {
		t.Errorf("list output missing document:\n%s", out)
	}
}

func TestShowText(t *testing.T) {
	isolate(t)
	mustRun(t, "new", "work", "--width", "20", "--height", "3", "--pane", "a", "--pane", "b")

	// Minimum widths from the default config fit in 10 columns each.
	out := mustRun(t, "show", "work", "--selected", "b")
	want := "┌a───────┐╔b═══════╗\n" +
		"│        │║        ║\n" +
		"└────────┘╚════════╝"
	if strings.TrimRight(out, "\n") != want {
		t.Errorf("show =\n%s\nwant\n%s", out, want)
	}
}

func TestTreeDOT(t *testing.T) {
	isolate(t)
	mustRun(t, "new", "work", "--pane", "editor")

	out := mustRun(t, "tree", "work")
	if !strings.HasPrefix(out, "digraph G {") || !strings.Contains(out, `"region:editor"`) {
		t.Errorf("tree output:\n%s", out)
	}
}

func TestConfigCommands(t *testing.T) {
	dir := isolate(t)

	out := mustRun(t, "config", "show")
	for _, want := range []string{"[grid]", "[store]", `backend = "file"`} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, "config", "path")
	if want := filepath.Join(dir, "config", appName, "config.toml"); strings.TrimSpace(out) != want {
		t.Errorf("config path = %q, want %q", out, want)
	}

	if _, err := runCLI(t, "--config", filepath.Join(dir, "missing.toml"), "list"); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("explicit missing config: err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestCachePath(t *testing.T) {
	dir := isolate(t)
	out := mustRun(t, "cache", "path")
	if want := filepath.Join(dir, "cache", appName); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}
	mustRun(t, "cache", "clear")
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
		{30 * 24 * time.Hour, "May 16, 2025"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatRelativeTime(now.Add(-tt.ago), now); got != tt.want {
				t.Errorf("formatRelativeTime(-%v) = %q, want %q", tt.ago, got, tt.want)
			}
		})
	}
}

func TestBaseURL(t *testing.T) {
	tests := map[string]string{
		":8080":          "http://localhost:8080",
		"127.0.0.1:9000": "http://127.0.0.1:9000",
	}
	for addr, want := range tests {
		if got := baseURL(addr); got != want {
			t.Errorf("baseURL(%q) = %q, want %q", addr, got, want)
		}
	}
}
