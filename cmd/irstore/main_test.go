package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	app.teardown(rootCmd)
	return out.String(), err
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "irstore.toml")
	data := "[store]\ndir = \"" + filepath.ToSlash(filepath.Join(dir, "ir")) + "\"\n\n[output]\ncolor = \"off\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDemoLoadInspectVerify(t *testing.T) {
	root := t.TempDir()
	cfg := writeConfig(t, root)

	out, err := execute(t, "--config", cfg, "demo")
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	if !strings.Contains(out, "saved") {
		t.Fatalf("demo output %q", out)
	}
	for _, name := range []string{"FuncDecl", "VarDecl", "index.db", "manifest.mp"} {
		if _, err := os.Stat(filepath.Join(root, "ir", name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}

	out, err = execute(t, "--config", cfg, "load")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.Contains(out, "func add(a: i32, b: i32) -> i32") {
		t.Fatalf("load did not print the add function:\n%s", out)
	}
	if !strings.Contains(out, "class Counter {") {
		t.Fatalf("load did not print the counter class:\n%s", out)
	}

	out, err = execute(t, "--config", cfg, "inspect")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !strings.Contains(out, "FuncDecl") || strings.Contains(out, "differs") {
		t.Fatalf("inspect output:\n%s", out)
	}

	out, err = execute(t, "--config", cfg, "verify", filepath.Join(root, "ir"))
	if err != nil {
		t.Fatalf("verify: %v\n%s", err, out)
	}
	if !strings.HasPrefix(out, "ok") {
		t.Fatalf("verify output %q", out)
	}
}

func TestLoadMissingDirectoryFails(t *testing.T) {
	root := t.TempDir()
	cfg := writeConfig(t, root)
	if _, err := execute(t, "--config", cfg, "load", filepath.Join(root, "nowhere")); err == nil {
		t.Fatal("expected load of an empty directory to fail")
	}
}

func TestReadColorMode(t *testing.T) {
	cases := []struct {
		input string
		want  colorMode
		ok    bool
	}{
		{"", colorAuto, true},
		{"AUTO", colorAuto, true},
		{"on", colorOn, true},
		{" off ", colorOff, true},
		{"sometimes", "", false},
	}
	for _, tc := range cases {
		got, err := readColorMode(tc.input)
		if (err == nil) != tc.ok {
			t.Fatalf("readColorMode(%q) error = %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("readColorMode(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestPad(t *testing.T) {
	if got := pad("Decl", 6); got != "Decl  " {
		t.Fatalf("pad = %q", got)
	}
	if got := pad("CompilationUnitDecl", 10); got != "Compila..." {
		t.Fatalf("pad truncate = %q", got)
	}
	if got := pad("日本", 5); got != "日本 " {
		t.Fatalf("pad wide = %q", got)
	}
}

func TestVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := renderVersionJSON(&buf, versionOptions{format: "json", showHash: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `"tool": "irstore"`) || !strings.Contains(out, `"git_commit": "unknown"`) {
		t.Fatalf("version json:\n%s", out)
	}
}
