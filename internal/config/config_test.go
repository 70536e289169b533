package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[store]\ndir = \"ir\"\n\n[trace]\nlevel = \"detail\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Trace.Level != "detail" {
		t.Fatalf("level = %q", cfg.Trace.Level)
	}
	if cfg.Trace.Mode != "stream" || cfg.Store.Index != "index.db" {
		t.Fatalf("defaults not kept for unset keys: %+v", cfg)
	}
	if got, want := cfg.StoreDir(), filepath.Join(root, "ir"); got != want {
		t.Fatalf("StoreDir = %q, want %q", got, want)
	}
}

func TestDiscoverWithoutFile(t *testing.T) {
	dir := t.TempDir()
	if _, ok, err := Find(dir); err != nil || ok {
		// a stray irstore.toml above the temp dir would make this flaky
		t.Skipf("config file found above %s", dir)
	}
	cfg, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" || cfg.Store.Dir != "." {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[trace]\nlevle = \"debug\"\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "trace.levle") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[trace]\nlevel = \"loud\"\n\n[output]\ncolor = \"sometimes\"\n")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, frag := range []string{"[trace].level", "[output].color"} {
		if !strings.Contains(err.Error(), frag) {
			t.Errorf("error %q does not mention %s", err, frag)
		}
	}
}
