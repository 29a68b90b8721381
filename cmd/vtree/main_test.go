package main

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/vtree/internal/errors"
)

// runCLI executes the root command with a fresh config file in a temp dir.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "vtree.json")
	if err := os.WriteFile(cfgPath, []byte(`{"logLevel": "error"}`), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func writeTree(t *testing.T, name, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRender(t *testing.T) {
	path := writeTree(t, "tree.json", `{"sel": "ul#list", "children": [
  {"sel": "li", "key": "a", "text": "first"},
  "tail"
]}`)

	out, err := runCLI(t, "render", path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<ul id="list"><li>first</li>tail</ul>`
	if strings.TrimSpace(out) != want {
		t.Errorf("render = %q, want %q", out, want)
	}
}

func TestRender_InvalidDocument(t *testing.T) {
	path := writeTree(t, "bad.json", "{\n  \"sel\": \"p\",\n  oops\n}")

	_, err := runCLI(t, "render", path)
	if err == nil {
		t.Fatal("expected error")
	}
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("error type = %T, want *errors.Error", err)
	}
	if e.Code != "E100" {
		t.Errorf("Code = %s, want E100", e.Code)
	}
	if e.Location == nil || e.Location.File != path || e.Location.Line != 3 {
		t.Errorf("Location = %+v, want %s line 3", e.Location, path)
	}
}

func TestRender_UnknownModule(t *testing.T) {
	path := writeTree(t, "tree.json", `{"sel": "p"}`)
	if _, err := runCLI(t, "render", "--modules", "bogus", path); err == nil {
		t.Fatal("expected error for unknown module")
	}
}

func TestPatch_Journal(t *testing.T) {
	oldPath := writeTree(t, "old.json", `{"sel": "p", "text": "before"}`)
	newPath := writeTree(t, "new.json", `{"sel": "p", "text": "after"}`)

	out, err := runCLI(t, "patch", "--journal", "--modules", "attributes", oldPath, newPath)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("output lines = %d, want 3:\n%s", len(lines), out)
	}
	if lines[0] != "<p>after</p>" {
		t.Errorf("html = %q", lines[0])
	}
	if lines[1] != "# 1 ops" {
		t.Errorf("header = %q", lines[1])
	}
	if !strings.Contains(lines[2], `"op":"setText"`) || !strings.Contains(lines[2], `"value":"after"`) {
		t.Errorf("op = %q, want a setText to after", lines[2])
	}
}

func TestPatch_KeyedMoveWithoutJournal(t *testing.T) {
	oldPath := writeTree(t, "old.json", `{"sel": "ul", "children": [
  {"sel": "li", "key": 1, "text": "one"},
  {"sel": "li", "key": 2, "text": "two"}
]}`)
	newPath := writeTree(t, "new.json", `{"sel": "ul", "children": [
  {"sel": "li", "key": 2, "text": "two"},
  {"sel": "li", "key": 1, "text": "one"}
]}`)

	out, err := runCLI(t, "patch", oldPath, newPath)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if strings.TrimSpace(out) != "<ul><li>two</li><li>one</li></ul>" {
		t.Errorf("patch = %q", out)
	}
}

func TestBench(t *testing.T) {
	out, err := runCLI(t, "bench", "--sessions", "2", "--iterations", "5", "--list-size", "4", "--json", "-")
	if err != nil {
		t.Fatalf("bench: %v", err)
	}
	if !strings.Contains(out, "Total passes: 10") {
		t.Errorf("summary missing pass count:\n%s", out)
	}
	if !strings.Contains(out, `"passes": 10`) {
		t.Errorf("json report missing pass count:\n%s", out)
	}
}

func TestBench_UnknownProfile(t *testing.T) {
	_, err := runCLI(t, "bench", "--profile", "huge")
	if !stderrors.Is(err, errors.New("E121")) {
		t.Errorf("err = %v, want E121", err)
	}
}

func TestVersion_Short(t *testing.T) {
	var stdout bytes.Buffer
	cmd := newRootCmd(&stdout, &bytes.Buffer{})
	cmd.SetArgs([]string{"version", "--short"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(stdout.String()) != version {
		t.Errorf("version = %q, want %q", stdout.String(), version)
	}
}

func TestVersion_JSON(t *testing.T) {
	var stdout bytes.Buffer
	cmd := newRootCmd(&stdout, &bytes.Buffer{})
	cmd.SetArgs([]string{"version", "--json"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	var info versionInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		t.Fatalf("decode: %v\n%s", err, stdout.String())
	}
	if info.Version != version || len(info.Modules) == 0 {
		t.Errorf("info = %+v", info)
	}
}

func TestBuildServerConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "vtree.json")
	doc := `{
  "server": {"addr": ":9090", "allowedOrigins": ["*"]},
  "snapshot": {"backend": "disk", "dir": "snaps"},
  "metrics": {"enabled": true, "namespace": "ui"}
}`
	if err := os.WriteFile(cfgPath, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(&globalFlags{configPath: cfgPath})
	if err != nil {
		t.Fatal(err)
	}

	sc, cleanup, err := buildServerConfig(context.Background(), cfg)
	defer cleanup()
	if err != nil {
		t.Fatalf("buildServerConfig: %v", err)
	}
	if sc.Address != ":9090" {
		t.Errorf("Address = %q", sc.Address)
	}
	if sc.Store == nil {
		t.Error("Store should be set for the disk backend")
	}
	if _, err := os.Stat(filepath.Join(dir, "snaps")); err != nil {
		t.Errorf("snapshot dir not created: %v", err)
	}
	if sc.Metrics == nil || sc.Gatherer == nil {
		t.Error("metrics should be enabled")
	}
	if sc.Tracer != nil {
		t.Error("tracing should be disabled by default")
	}
}
