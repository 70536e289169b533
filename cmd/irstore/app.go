package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"irstore/internal/config"
	"irstore/internal/serde"
	"irstore/internal/trace"
	"irstore/internal/version"
)

// appState is what PersistentPreRunE resolves once per invocation.
type appState struct {
	cfg     config.Config
	styles  styles
	tracer  trace.Tracer
	cleanup func()
}

var app appState

func (a *appState) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a.cfg = cfg

	colorFlag, err := cmd.Flags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	if colorFlag == "" {
		colorFlag = cfg.Output.Color
	}
	mode, err := readColorMode(colorFlag)
	if err != nil {
		return err
	}
	a.styles = newStyles(applyColorMode(mode))

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	tracer, cleanup, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		stopProfiling()
		return err
	}
	a.tracer = tracer
	a.cleanup = func() {
		cleanup()
		stopProfiling()
	}
	return nil
}

func (a *appState) teardown(*cobra.Command) {
	if a.cleanup != nil {
		a.cleanup()
		a.cleanup = nil
	}
}

// fail reports err and, when a ring tracer is active, dumps its events.
func (a *appState) fail(cmd *cobra.Command, err error) {
	fmt.Fprintln(cmd.ErrOrStderr(), a.styles.err.Render("error:"), err)
	if ring := ringOf(a.tracer); ring != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "last trace events:")
		if dumpErr := ring.Dump(cmd.ErrOrStderr(), trace.FormatText); dumpErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", dumpErr)
		}
	}
	a.teardown(cmd)
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(".")
}

// storeDir picks the directory argument, falling back to [store].dir.
func (a *appState) storeDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return a.cfg.StoreDir()
}

func (a *appState) serdeOptions() serde.Options {
	return serde.Options{IndexName: a.cfg.Store.Index, Tool: version.Tool()}
}

func timingsEnabled(cmd *cobra.Command) bool {
	on, err := cmd.Flags().GetBool("timings")
	return err == nil && on
}
