package serde

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"irstore/internal/ast"
	"irstore/internal/observ"
	"irstore/internal/schema"
	"irstore/internal/trace"
	"irstore/internal/wire"
)

// Save writes every registered kind of pools into dir, then the index and
// the manifest. dir is created if needed; existing artifacts are replaced.
func Save(ctx context.Context, pools Pools, dir string, opts Options) (*SaveReport, error) {
	reg := opts.registry()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("save: %w", err)
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "save")
	timer := observ.NewTimer()
	rep := &SaveReport{Dir: dir}
	var records []IndexRecord

	err := timer.Measure("artifacts", func() error {
		actx, aspan := trace.Start(ctx, trace.ScopePhase, "artifacts")
		defer aspan.End("")
		for _, d := range reg.Ordered() {
			if err := ctx.Err(); err != nil {
				return err
			}
			pool := pools.Pool(d.Class)
			if pool == nil {
				return fmt.Errorf("save: no arena for %s", d.Name)
			}
			idx := timer.Begin("kind:" + d.Name)
			rec, n, err := saveKind(actx, d, pool, filepath.Join(dir, d.Name))
			timer.End(idx, fmt.Sprintf("%d nodes", len(rec.IDs)))
			if err != nil {
				return fmt.Errorf("save %s: %w", d.Name, err)
			}
			records = append(records, rec)
			rep.Kinds = append(rep.Kinds, KindCount{Class: d.Class, Name: d.Name, Count: len(rec.IDs), Bytes: n})
			rep.Nodes += len(rec.IDs)
			rep.Bytes += n
		}
		return nil
	})
	if err == nil {
		err = timer.Measure("index", func() error {
			_, ispan := trace.Start(ctx, trace.ScopePhase, "index")
			defer ispan.End("")
			return writeAtomic(filepath.Join(dir, opts.indexName()), func(f *os.File) error {
				w := wire.NewWriter(f)
				if err := WriteIndex(w, records); err != nil {
					return err
				}
				if err := w.Flush(); err != nil {
					return err
				}
				rep.Bytes += w.Offset()
				return nil
			})
		})
	}
	if err == nil && !opts.NoManifest {
		err = timer.Measure("manifest", func() error {
			return writeManifest(dir, buildManifest(reg, opts, rep))
		})
	}

	rep.Timings = timer.Report()
	if err != nil {
		trace.Point(ctx, trace.ScopeError, "save failed", err.Error())
		span.End("error")
		return nil, err
	}
	span.WithCount("nodes", rep.Nodes).End(dir)
	return rep, nil
}

// saveKind writes one artifact: [u64 count][record]*count. It returns the
// identities in write order and the artifact size.
func saveKind(ctx context.Context, d *schema.Descriptor, pool ast.Pool, path string) (IndexRecord, int64, error) {
	_, span := trace.Start(ctx, trace.ScopeKind, "kind:"+d.Name)
	rec := IndexRecord{Class: d.Class, IDs: make([]ast.Identity, 0, pool.Len())}
	var size int64
	err := writeAtomic(path, func(f *os.File) error {
		w := wire.NewWriter(f)
		enc := NewEncoder(w)
		w.Size(pool.Len())
		var encErr error
		pool.EachNode(func(_ int, h ast.Handle, node any) bool {
			rec.IDs = append(rec.IDs, ast.Ref{Class: d.Class, Handle: h}.Identity())
			encErr = enc.Encode(d, node)
			return encErr == nil
		})
		if encErr != nil {
			return encErr
		}
		if err := w.Flush(); err != nil {
			return err
		}
		size = w.Offset()
		return nil
	})
	span.WithCount("nodes", len(rec.IDs)).End("")
	return rec, size, err
}

func buildManifest(reg *schema.Registry, opts Options, rep *SaveReport) *Manifest {
	m := &Manifest{
		Schema:    manifestSchemaVersion,
		Tool:      opts.Tool,
		SavedAt:   time.Now().UTC(),
		ByteOrder: "little",
		Index:     opts.indexName(),
		Kinds:     make([]ManifestKind, 0, reg.Len()),
	}
	for i, d := range reg.Ordered() {
		m.Kinds = append(m.Kinds, ManifestKind{
			Class:  d.Class,
			Name:   d.Name,
			Count:  rep.Kinds[i].Count,
			Fields: d.Signature(),
		})
	}
	return m
}
