package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"irstore/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "irstore",
	Short:         "Save and load arena-allocated IR trees",
	Long:          `irstore writes a compiler IR tree to a directory of per-kind artifacts and reads it back with every reference relocated.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		app.teardown(cmd)
	},
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "path to irstore.toml (default: search upwards from the working directory)")
	pf.String("color", "", "colorize output (auto|on|off)")
	pf.Bool("timings", false, "print phase timings")
	pf.String("trace", "", "trace output file (\"-\" for stderr)")
	pf.String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "", "trace storage mode (stream|ring|both)")
	pf.String("trace-format", "", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "ring buffer size for ring/both modes")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		app.fail(rootCmd, err)
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
