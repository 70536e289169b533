package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

type colorMode string

const (
	colorAuto colorMode = "auto"
	colorOn   colorMode = "on"
	colorOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorAuto, nil
	case "on":
		return colorOn, nil
	case "off":
		return colorOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// applyColorMode configures fatih/color globally and reports whether output
// should be styled.
func applyColorMode(mode colorMode) bool {
	var on bool
	switch mode {
	case colorOn:
		on = true
	case colorOff:
		on = false
	default:
		on = isTerminal(os.Stdout)
	}
	color.NoColor = !on
	return on
}

type styles struct {
	heading lipgloss.Style
	dim     lipgloss.Style
	ok      lipgloss.Style
	err     lipgloss.Style
	warn    lipgloss.Style
}

func newStyles(enabled bool) styles {
	if !enabled {
		plain := lipgloss.NewStyle()
		return styles{heading: plain, dim: plain, ok: plain, err: plain, warn: plain}
	}
	return styles{
		heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
}
