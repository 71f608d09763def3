package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/circuitgen/pkg/level"
)

// captureStdout redirects user-facing output for the rest of the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

// testEnv writes a config that keeps the cache inside a temp dir.
func testEnv(t *testing.T) (dir, configPath string) {
	t.Helper()
	dir = t.TempDir()
	configPath = filepath.Join(dir, "config.toml")
	cfg := fmt.Sprintf("[cache]\nbackend = \"file\"\ndir = %q\n", filepath.Join(dir, "cache"))
	if err := os.WriteFile(configPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, configPath
}

// execute runs the root command with args and returns cobra's own output.
func execute(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", configPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"generate", "batch", "tune", "snap", "inspect", "render", "profiles", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"config", "no-cache"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

func TestGenerateWritesLevel(t *testing.T) {
	dir, cfg := testEnv(t)
	out := captureStdout(t)
	path := filepath.Join(dir, "easy.json")

	_, err := execute(t, cfg, "generate", "-t", "easy", "-s", "3", "--trials", "150", "--solve", "-o", path)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	l, err := level.ReadFile(path)
	if err != nil {
		t.Fatalf("read generated level: %v", err)
	}
	if l.N() < 4 || l.N() > 12 {
		t.Errorf("easy level has %d nodes, want 4..12", l.N())
	}
	for _, s := range []string{"Level", "Solutions", "Success"} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("summary missing %q:\n%s", s, out.String())
		}
	}

	// The same seed is served from the cache and yields the same file.
	again := filepath.Join(dir, "again.json")
	if _, err := execute(t, cfg, "generate", "-t", "easy", "-s", "3", "--trials", "150", "--solve", "-o", again); err != nil {
		t.Fatalf("second generate: %v", err)
	}
	a, _ := os.ReadFile(path)
	b, _ := os.ReadFile(again)
	if !bytes.Equal(a, b) {
		t.Error("same seed should produce identical level files")
	}
	if !strings.Contains(out.String(), iconCached) {
		t.Error("second run should report a cache hit")
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	dir, cfg := testEnv(t)
	captureStdout(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown tier", []string{"generate", "-t", "extreme", "-o", filepath.Join(dir, "x.json")}},
		{"unknown generator", []string{"generate", "-g", "fractal", "-o", filepath.Join(dir, "x.json")}},
		{"negative trials", []string{"generate", "--trials=-1", "-o", filepath.Join(dir, "x.json")}},
		{"unknown extension", []string{"generate", "-o", filepath.Join(dir, "x.txt")}},
		{"bad level id", []string{"generate", "--id", "../escape", "-o", filepath.Join(dir, "x.json")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, cfg, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestGenerateDOTWithHighlight(t *testing.T) {
	dir, cfg := testEnv(t)
	captureStdout(t)
	path := filepath.Join(dir, "level.dot")

	if _, err := execute(t, cfg, "generate", "-t", "easy", "--tune=false", "--highlight", "-o", path); err != nil {
		t.Fatalf("generate: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "graph ") || !strings.Contains(string(data), "penwidth") {
		t.Errorf("expected DOT with a highlighted backbone:\n%s", data)
	}
}

func TestTuneSnapInspect(t *testing.T) {
	dir, cfg := testEnv(t)
	captureStdout(t)
	path := filepath.Join(dir, "medium.yaml")

	if _, err := execute(t, cfg, "generate", "-t", "medium", "-s", "11", "--tune=false", "-o", path); err != nil {
		t.Fatalf("generate: %v", err)
	}
	original, err := level.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, cfg, "tune", path, "-t", "medium", "--trials", "150"); err != nil {
		t.Fatalf("tune: %v", err)
	}
	tuned, err := level.ReadFile(filepath.Join(dir, "medium.tuned.yaml"))
	if err != nil {
		t.Fatalf("read tuned level: %v", err)
	}
	if tuned.DiodeCount() < original.DiodeCount() {
		t.Error("tuning must never remove diodes")
	}

	if _, err := execute(t, cfg, "snap", path, "-o", filepath.Join(dir, "snapped.json")); err != nil {
		t.Fatalf("snap: %v", err)
	}
	snapped, err := level.ReadFile(filepath.Join(dir, "snapped.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(snapped.Edges) != len(original.Edges) {
		t.Error("snap must not change the edge set")
	}

	out, err := execute(t, cfg, "inspect", path, "--trials", "100", "--json")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	var in inspection
	if err := json.Unmarshal([]byte(out), &in); err != nil {
		t.Fatalf("inspect --json output: %v\n%s", err, out)
	}
	if in.Nodes != original.N() || in.Play.Trials != 100 {
		t.Errorf("inspection = %+v", in)
	}
	if in.Layout.AvgEdgeLength <= 0 {
		t.Error("inspection should measure the layout")
	}
}

func TestInspectText(t *testing.T) {
	dir, cfg := testEnv(t)
	out := captureStdout(t)
	path := filepath.Join(dir, "level.json")
	if _, err := execute(t, cfg, "generate", "-t", "easy", "--tune=false", "-o", path); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if _, err := execute(t, cfg, "inspect", path, "-t", "easy", "--trials", "80"); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, s := range []string{"Layout", "Solver", "Play test", "Crossings"} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("inspect output missing %q", s)
		}
	}
}

func TestBatchWritesManifest(t *testing.T) {
	dir, cfg := testEnv(t)
	outDir := filepath.Join(dir, "levels")

	out := captureStdout(t)

	if _, err := execute(t, cfg, "batch", "-t", "easy", "-n", "3", "--trials", "100", "--out-dir", outDir, "-f", "yaml", "--template-stats"); err != nil {
		t.Fatalf("batch: %v", err)
	}
	if !strings.Contains(out.String(), "Template") || !strings.Contains(out.String(), "Kept") {
		t.Errorf("batch should print template stats:\n%s", out.String())
	}
	data, err := os.ReadFile(filepath.Join(outDir, manifestName))
	if err != nil {
		t.Fatal(err)
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if len(m.Levels) != 3 || m.Stats.Levels != 3 {
		t.Fatalf("manifest lists %d levels, stats %d", len(m.Levels), m.Stats.Levels)
	}
	seen := map[string]bool{}
	for i, e := range m.Levels {
		if e.Index != i || e.File != fmt.Sprintf("level-%03d.yaml", i) {
			t.Errorf("entry %d = %+v", i, e)
		}
		if seen[e.LevelID] {
			t.Errorf("duplicate level id %s", e.LevelID)
		}
		seen[e.LevelID] = true
		if _, err := level.ReadFile(filepath.Join(outDir, e.File)); err != nil {
			t.Errorf("read %s: %v", e.File, err)
		}
	}
}

func TestRenderDOT(t *testing.T) {
	dir, cfg := testEnv(t)
	captureStdout(t)
	path := filepath.Join(dir, "level.json")
	if _, err := execute(t, cfg, "generate", "-t", "easy", "--tune=false", "-o", path); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, cfg, "render", path, "-f", "dot,yaml", "--highlight", "0"); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, ext := range []string{"dot", "yaml"} {
		if _, err := os.Stat(filepath.Join(dir, "level."+ext)); err != nil {
			t.Errorf("render did not write level.%s", ext)
		}
	}
	if _, err := execute(t, cfg, "render", path, "-f", "gif"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestProfilesUsesConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	doc := "[cache]\nbackend = \"none\"\n[tiers.hard]\ntarget = 0.12\n"
	if err := os.WriteFile(cfg, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	out := captureStdout(t)
	if _, err := execute(t, cfg, "profiles"); err != nil {
		t.Fatalf("profiles: %v", err)
	}
	for _, s := range []string{"easy", "medium", "hard", "0.12 ± 0.02"} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("profiles output missing %q:\n%s", s, out.String())
		}
	}
}

func TestCacheCommands(t *testing.T) {
	dir, cfg := testEnv(t)
	out := captureStdout(t)

	got, err := execute(t, cfg, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(got) != filepath.Join(dir, "cache") {
		t.Errorf("cache path = %q", got)
	}

	if _, err := execute(t, cfg, "generate", "-t", "easy", "--tune=false", "-o", filepath.Join(dir, "l.json")); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if _, err := execute(t, cfg, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out.String(), "Cleared") {
		t.Errorf("clear output = %q", out.String())
	}

	out.Reset()
	if _, err := execute(t, cfg, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Cache is empty") {
		t.Errorf("second clear output = %q", out.String())
	}
}

func TestNoCacheSkipsStore(t *testing.T) {
	dir, cfg := testEnv(t)
	captureStdout(t)
	if _, err := execute(t, cfg, "--no-cache", "generate", "-t", "easy", "--tune=false", "-o", filepath.Join(dir, "l.json")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "cache")); err == nil {
		entries, _ := os.ReadDir(filepath.Join(dir, "cache"))
		if len(entries) > 0 {
			t.Error("--no-cache should not write cache entries")
		}
	}
}

func TestCompletion(t *testing.T) {
	_, cfg := testEnv(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := execute(t, cfg, "completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if !strings.Contains(out, appName) {
			t.Errorf("%s completion does not mention %s", shell, appName)
		}
	}
	if _, err := execute(t, cfg, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
	out, err := execute(t, cfg, "completion", "fish", "--no-descriptions")
	if err != nil || !strings.Contains(out, appName) {
		t.Errorf("fish --no-descriptions: err=%v", err)
	}
}

func TestFlagValueCompletion(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"generate", "--tier", ""}, []string{"easy", "medium", "hard"}},
		{[]string{"generate", "--generator", ""}, []string{"backbone", "grid", "template"}},
		{[]string{"batch", "--format", ""}, []string{"json", "yaml", "png"}},
		{[]string{"inspect", "level.json", "--tier", ""}, []string{"hard"}},
	}
	for _, tt := range tests {
		root := New(io.Discard, LogInfo).RootCommand()
		var buf bytes.Buffer
		root.SetOut(&buf)
		root.SetErr(io.Discard)
		root.SetArgs(append([]string{"__complete"}, tt.args...))
		if err := root.Execute(); err != nil {
			t.Fatalf("__complete %v: %v", tt.args, err)
		}
		out := buf.String()
		for _, w := range tt.want {
			if !strings.Contains(out, w+"\n") {
				t.Errorf("__complete %v = %q, missing %s", tt.args, out, w)
			}
		}
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]string{
		"a.json": "json",
		"a.YAML": "yaml",
		"a.yml":  "yaml",
		"a.svg":  "svg",
		"a.pdf":  "pdf",
		"a":      "json",
		"a.txt":  "json",
	}
	for path, want := range tests {
		if got := formatForPath(path); got != want {
			t.Errorf("formatForPath(%q) = %q, want %q", path, got, want)
		}
	}
	if got := siblingPath("dir/level.json", ".tuned"); got != "dir/level.tuned.json" {
		t.Errorf("siblingPath() = %q", got)
	}
}
