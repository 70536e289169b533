package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"irstore/internal/schema"
	"irstore/internal/serde"
	"irstore/internal/wire"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [dir]",
	Short: "Show the kinds, counts and field layouts of a saved store",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().Bool("fields", false, "list the recorded field signature of every kind")
}

type inspectRow struct {
	name    string
	class   string
	count   string
	bytes   string
	layout  string
	fields  []string
}

const inspectNameWidth = 22

func runInspect(cmd *cobra.Command, args []string) error {
	showFields, err := cmd.Flags().GetBool("fields")
	if err != nil {
		return fmt.Errorf("failed to get fields flag: %w", err)
	}
	dir := app.storeDir(args)
	reg := schema.Default()

	m, hasManifest, err := serde.ReadManifest(dir)
	if err != nil {
		return err
	}
	indexName := app.cfg.Store.Index
	if hasManifest && m.Index != "" {
		indexName = m.Index
	}
	records, err := readIndexFile(filepath.Join(dir, indexName), reg)
	if err != nil {
		return err
	}
	counts := make(map[string]int, len(records))
	for _, rec := range records {
		d, err := reg.Lookup(rec.Class)
		if err != nil {
			return err
		}
		counts[d.Name] = len(rec.IDs)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, app.styles.heading.Render("store "+dir))
	if hasManifest {
		fmt.Fprintf(out, "tool %s, format %d, saved %s\n", m.Tool, m.Schema, m.SavedAt.Format("2006-01-02 15:04:05"))
	} else {
		fmt.Fprintln(out, app.styles.warn.Render("no manifest; layouts unchecked"))
	}

	rows := make([]inspectRow, 0, reg.Len())
	for _, d := range reg.Ordered() {
		row := inspectRow{
			name:   d.Name,
			class:  fmt.Sprint(d.Class),
			count:  fmt.Sprint(counts[d.Name]),
			bytes:  artifactSize(filepath.Join(dir, d.Name)),
			layout: "-",
		}
		if hasManifest {
			row.layout = "ok"
			mk, ok := m.Kind(d.Class)
			switch {
			case !ok:
				row.layout = "missing"
			case strings.Join(mk.Fields, ",") != strings.Join(d.Signature(), ","):
				row.layout = "differs"
			}
			row.fields = mk.Fields
		} else {
			row.fields = d.Signature()
		}
		rows = append(rows, row)
	}
	renderInspect(out, rows, showFields)
	return nil
}

func readIndexFile(path string, reg *schema.Registry) ([]serde.IndexRecord, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", serde.ErrMissingArtifact, path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := wire.NewReader(f)
	if fi, statErr := f.Stat(); statErr == nil {
		r.SetSize(fi.Size())
	}
	return serde.ReadIndex(r, reg)
}

func artifactSize(path string) string {
	fi, err := os.Stat(path)
	if err != nil {
		return "missing"
	}
	return fmt.Sprint(fi.Size())
}

func renderInspect(out io.Writer, rows []inspectRow, showFields bool) {
	header := fmt.Sprintf("%s %6s %8s %10s  %s", pad("kind", inspectNameWidth), "class", "nodes", "bytes", "layout")
	fmt.Fprintln(out, app.styles.heading.Render(header))
	for _, row := range rows {
		layout := row.layout
		switch row.layout {
		case "ok":
			layout = app.styles.ok.Render(layout)
		case "differs", "missing":
			layout = app.styles.err.Render(layout)
		}
		fmt.Fprintf(out, "%s %6s %8s %10s  %s\n", pad(row.name, inspectNameWidth), row.class, row.count, row.bytes, layout)
		if showFields {
			for _, f := range row.fields {
				fmt.Fprintln(out, app.styles.dim.Render("    "+f))
			}
		}
	}
}

// pad fits value into width display cells.
func pad(value string, width int) string {
	if runewidth.StringWidth(value) > width {
		if width <= 3 {
			return runewidth.Truncate(value, width, "")
		}
		return runewidth.Truncate(value, width, "...")
	}
	return runewidth.FillRight(value, width)
}
