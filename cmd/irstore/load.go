package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"irstore/internal/ast"
	"irstore/internal/printer"
	"irstore/internal/serde"
)

var loadCmd = &cobra.Command{
	Use:   "load [dir]",
	Short: "Load a saved store and print its compilation units",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLoad,
}

func init() {
	loadCmd.Flags().Bool("no-manifest", false, "do not check field layouts against manifest.mp")
	loadCmd.Flags().Bool("report", false, "print the load report as JSON instead of the program")
	loadCmd.Flags().Bool("quiet", false, "print only the summary line")
}

func runLoad(cmd *cobra.Command, args []string) error {
	noManifest, err := cmd.Flags().GetBool("no-manifest")
	if err != nil {
		return fmt.Errorf("failed to get no-manifest flag: %w", err)
	}
	asJSON, err := cmd.Flags().GetBool("report")
	if err != nil {
		return fmt.Errorf("failed to get report flag: %w", err)
	}
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	store := ast.NewStore(ast.Hints{})
	opts := app.serdeOptions()
	opts.NoManifest = noManifest
	rep, err := serde.Load(cmd.Context(), store, app.storeDir(args), opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, rep)
	}
	if !quiet {
		if err := printer.Fprint(out, store); err != nil {
			return err
		}
	}
	line := fmt.Sprintf("loaded %d nodes, %d references resolved", rep.Nodes, rep.Resolved)
	if rep.Dangling > 0 {
		line += app.styles.warn.Render(fmt.Sprintf(", %d dangling", rep.Dangling))
	}
	fmt.Fprintln(cmd.ErrOrStderr(), app.styles.dim.Render(line))
	if timingsEnabled(cmd) {
		fmt.Fprint(cmd.ErrOrStderr(), rep.Timings.Summary())
	}
	return nil
}
