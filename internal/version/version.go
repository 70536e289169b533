// Package version carries build metadata of the irstore CLI.
package version

import (
	"strings"

	"github.com/fatih/color"
)

// These can be overridden at build time via -ldflags "-X irstore/internal/version.Version=...".
var (
	Version   = "0.1.0-dev"
	GitCommit = ""
	BuildDate = ""
)

// ArtifactFormat is the on-disk format generation written by this build. It
// matches the manifest schema number.
const ArtifactFormat = 1

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each numeric component highlighted. Anything
// that is not major.minor.patch[-suffix] is returned unchanged.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Tool is the identifier written into save manifests.
func Tool() string {
	if GitCommit == "" {
		return "irstore " + Version
	}
	return "irstore " + Version + " (" + GitCommit + ")"
}
