package serde

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"irstore/internal/ast"
	"irstore/internal/observ"
	"irstore/internal/schema"
	"irstore/internal/trace"
	"irstore/internal/wire"
)

// Load replaces the content of every registered arena in pools with the save
// found in dir. The arenas are cleared first; on error they hold a partial
// load and should be discarded.
func Load(ctx context.Context, pools Pools, dir string, opts Options) (*LoadReport, error) {
	reg := opts.registry()
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "load")
	timer := observ.NewTimer()
	rep := &LoadReport{Dir: dir}

	err := loadPhases(ctx, reg, pools, dir, opts, timer, rep)
	rep.Timings = timer.Report()
	if err != nil {
		trace.Point(ctx, trace.ScopeError, "load failed", err.Error())
		span.End("error")
		return nil, err
	}
	span.WithCount("nodes", rep.Nodes).WithCount("dangling", rep.Dangling).End(dir)
	return rep, nil
}

func loadPhases(ctx context.Context, reg *schema.Registry, pools Pools, dir string, opts Options, timer *observ.Timer, rep *LoadReport) error {
	if !opts.NoManifest {
		err := timer.Measure("manifest", func() error {
			m, ok, err := ReadManifest(dir)
			if err != nil || !ok {
				return err
			}
			rep.Manifest = true
			return m.Check(reg)
		})
		if err != nil {
			return err
		}
	}

	patches := NewPatches()
	err := timer.Measure("materialize", func() error {
		mctx, mspan := trace.Start(ctx, trace.ScopePhase, "materialize")
		defer mspan.End("")
		for _, d := range reg.Ordered() {
			if err := ctx.Err(); err != nil {
				return err
			}
			pool := pools.Pool(d.Class)
			if pool == nil {
				return fmt.Errorf("load: no arena for %s", d.Name)
			}
			idx := timer.Begin("kind:" + d.Name)
			n, size, err := materialize(mctx, d, pool, filepath.Join(dir, d.Name), patches)
			timer.End(idx, fmt.Sprintf("%d nodes", n))
			if err != nil {
				return fmt.Errorf("load %s: %w", d.Name, err)
			}
			rep.Kinds = append(rep.Kinds, KindCount{Class: d.Class, Name: d.Name, Count: n, Bytes: size})
			rep.Nodes += n
		}
		return nil
	})
	if err != nil {
		return err
	}
	rep.Patches = patches.Len()

	table := NewRelocationTable(rep.Nodes)
	err = timer.Measure("relocate", func() error {
		_, rspan := trace.Start(ctx, trace.ScopePhase, "relocate")
		defer rspan.End("")
		return relocate(reg, pools, filepath.Join(dir, opts.indexName()), table)
	})
	if err != nil {
		return err
	}

	return timer.Measure("patch", func() error {
		pctx, pspan := trace.Start(ctx, trace.ScopePhase, "patch")
		res := table.Apply(pctx, pools, patches)
		pspan.WithCount("resolved", res.Resolved).WithCount("dangling", res.Dangling).End("")
		rep.Resolved, rep.Dangling, rep.DanglingIDs = res.Resolved, res.Dangling, res.DanglingIDs
		return nil
	})
}

// materialize decodes one artifact into pool. Nodes are appended in file
// order, so the i-th record becomes the i-th node of the arena.
func materialize(ctx context.Context, d *schema.Descriptor, pool ast.Pool, path string, patches *Patches) (n int, size int64, err error) {
	_, span := trace.Start(ctx, trace.ScopeKind, "kind:"+d.Name)
	defer func() { span.WithCount("nodes", n).End("") }()

	f, size, err := openArtifact(path)
	if err != nil {
		return 0, 0, err
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	r := wire.NewReader(f)
	r.SetSize(size)
	count := r.Size()
	if err := r.Err(); err != nil {
		return 0, size, err
	}
	width := d.MinRecordSize()
	if left, _ := r.Remaining(); width > 0 && int64(count) > left/int64(width) {
		return 0, size, fmt.Errorf("%w: count %d does not fit in %d bytes", wire.ErrTruncated, count, left)
	}

	pool.Clear()
	// Queued patches point into arena storage, so the arena must not grow
	// while decoding. Kinds without fields carry no references.
	if width > 0 {
		pool.Reserve(count)
	}
	dec := NewDecoder(r, patches)
	for i := 0; i < count; i++ {
		h, node := pool.NewNode()
		if err := dec.Decode(d, ast.Ref{Class: d.Class, Handle: h}, node); err != nil {
			return i, size, fmt.Errorf("record %d: %w", i, err)
		}
	}
	if !r.AtEOF() {
		if err := r.Err(); err != nil {
			return count, size, err
		}
		return count, size, fmt.Errorf("%w: %d trailing bytes after %d records", ErrLayoutMismatch, size-r.Offset(), count)
	}
	if count == 0 {
		trace.Point(ctx, trace.ScopeKind, "empty", d.Name)
	}
	return count, size, nil
}

// relocate reads the index and binds every saved identity to its new node.
// Every registered kind holding nodes must have a record.
func relocate(reg *schema.Registry, pools Pools, path string, table *RelocationTable) (err error) {
	f, size, err := openArtifact(path)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	r := wire.NewReader(f)
	r.SetSize(size)
	records, err := ReadIndex(r, reg)
	if err != nil {
		return err
	}
	bound := make(map[ast.ClassID]bool, len(records))
	for _, rec := range records {
		d, err := reg.Lookup(rec.Class)
		if err != nil {
			return err
		}
		pool := pools.Pool(rec.Class)
		if pool == nil {
			return fmt.Errorf("load: no arena for %s", d.Name)
		}
		if err := table.Bind(pool, d.Name, rec.IDs); err != nil {
			return err
		}
		bound[rec.Class] = true
	}
	for _, d := range reg.Ordered() {
		if bound[d.Class] {
			continue
		}
		if p := pools.Pool(d.Class); p != nil && p.Len() > 0 {
			return fmt.Errorf("%w: index has no record for %s (%d nodes)", ErrLayoutMismatch, d.Name, p.Len())
		}
	}
	return nil
}
