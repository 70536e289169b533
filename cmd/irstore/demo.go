package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"irstore/internal/ast"
	"irstore/internal/serde"
	"irstore/internal/testkit"
)

var demoCmd = &cobra.Command{
	Use:   "demo [dir]",
	Short: "Build the sample programs and save them",
	Long: `Build the sample programs (add and counter) into a fresh store and save it.
The directory defaults to [store].dir from irstore.toml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().Bool("dangling", false, "also build a unit with a reference to a missing declaration")
	demoCmd.Flags().Bool("no-manifest", false, "skip writing manifest.mp")
	demoCmd.Flags().Bool("report", false, "print the save report as JSON")
}

func runDemo(cmd *cobra.Command, args []string) error {
	dangling, err := cmd.Flags().GetBool("dangling")
	if err != nil {
		return fmt.Errorf("failed to get dangling flag: %w", err)
	}
	noManifest, err := cmd.Flags().GetBool("no-manifest")
	if err != nil {
		return fmt.Errorf("failed to get no-manifest flag: %w", err)
	}
	asJSON, err := cmd.Flags().GetBool("report")
	if err != nil {
		return fmt.Errorf("failed to get report flag: %w", err)
	}

	store := ast.NewStore(ast.Hints{})
	store.TrackUsers = true
	b := ast.NewBuilder(store)
	testkit.AddScenario(b)
	testkit.CounterScenario(b)
	if dangling {
		testkit.DanglingScenario(b)
	}

	dir := app.storeDir(args)
	opts := app.serdeOptions()
	opts.NoManifest = noManifest
	rep, err := serde.Save(cmd.Context(), store, dir, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, rep)
	}
	fmt.Fprintf(out, "%s %d nodes, %d bytes -> %s\n", app.styles.ok.Render("saved"), rep.Nodes, rep.Bytes, rep.Dir)
	if timingsEnabled(cmd) {
		fmt.Fprint(out, rep.Timings.Summary())
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
