package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"irstore/internal/ast"
	"irstore/internal/schema"
	"irstore/internal/serde"
	"irstore/internal/testkit"
	"irstore/internal/trace"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [dir...]",
	Short: "Check that saved stores reload, resave and reload to the same graph",
	Long: `For each directory: load it, check the users lists, save it again to a
temporary directory, load that copy and compare both graphs. Directories are
verified in parallel; each gets its own store.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().Int("jobs", 0, "maximum number of directories verified at once (0 = unlimited)")
}

type verifyResult struct {
	dir   string
	nodes int
	err   error
}

func runVerify(cmd *cobra.Command, args []string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	dirs := args
	if len(dirs) == 0 {
		dirs = []string{app.cfg.StoreDir()}
	}

	results := make([]verifyResult, len(dirs))
	g, gctx := errgroup.WithContext(cmd.Context())
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, dir := range dirs {
		g.Go(func() error {
			n, err := verifyDir(gctx, dir, app.serdeOptions())
			results[i] = verifyResult{dir: dir, nodes: n, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, res := range results {
		if res.err != nil {
			failed++
			fmt.Fprintf(out, "%s %s: %v\n", app.styles.err.Render("FAIL"), res.dir, res.err)
			continue
		}
		fmt.Fprintf(out, "%s %s (%d nodes)\n", app.styles.ok.Render("ok  "), res.dir, res.nodes)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d stores failed verification", failed, len(dirs))
	}
	return nil
}

// verifyDir runs load, users check, resave, reload and the isomorphism check
// for one directory.
func verifyDir(ctx context.Context, dir string, opts serde.Options) (int, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "verify")
	defer span.End(dir)
	reg := schema.Default()

	first := ast.NewStore(ast.Hints{})
	rep, err := serde.Load(ctx, first, dir, opts)
	if err != nil {
		return 0, err
	}
	if err := testkit.CheckUsers(reg, first); err != nil {
		return rep.Nodes, fmt.Errorf("after load: %w", err)
	}

	tmp, err := os.MkdirTemp("", "irstore-verify-*")
	if err != nil {
		return rep.Nodes, err
	}
	defer os.RemoveAll(tmp)

	if _, err := serde.Save(ctx, first, tmp, opts); err != nil {
		return rep.Nodes, fmt.Errorf("resave: %w", err)
	}
	second := ast.NewStore(ast.Hints{})
	if _, err := serde.Load(ctx, second, tmp, opts); err != nil {
		return rep.Nodes, fmt.Errorf("reload: %w", err)
	}
	if err := testkit.CheckIsomorphic(reg, first, second); err != nil {
		return rep.Nodes, err
	}
	return rep.Nodes, nil
}
