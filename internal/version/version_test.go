package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestColoredWithoutColorIsPlain(t *testing.T) {
	orig, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = orig, origNoColor }()
	color.NoColor = true

	for _, v := range []string{"0.1.0-dev", "1.2.3", "1.0.0-rc.1", "nightly"} {
		Version = v
		if got := Colored(); got != v {
			t.Errorf("Colored() = %q, want %q", got, v)
		}
	}
}

func TestToolIncludesCommit(t *testing.T) {
	origV, origC := Version, GitCommit
	defer func() { Version, GitCommit = origV, origC }()

	Version, GitCommit = "1.2.3", ""
	if got := Tool(); got != "irstore 1.2.3" {
		t.Fatalf("Tool() = %q", got)
	}
	GitCommit = "abc123"
	if got := Tool(); got != "irstore 1.2.3 (abc123)" {
		t.Fatalf("Tool() = %q", got)
	}
}
