package serde

import (
	"fmt"

	"irstore/internal/ast"
	"irstore/internal/schema"
	"irstore/internal/wire"
)

// DefaultIndexName is the file name of the identity index.
const DefaultIndexName = "index.db"

// IndexRecord lists the saved identities of one kind in artifact order.
type IndexRecord struct {
	Class ast.ClassID
	IDs   []ast.Identity
}

// WriteIndex writes records in the given order.
func WriteIndex(w *wire.Writer, records []IndexRecord) error {
	for _, rec := range records {
		w.I32(int32(rec.Class))
		w.Size(len(rec.IDs))
		for _, id := range rec.IDs {
			w.Identity(id)
		}
	}
	return w.Err()
}

// ReadIndex reads records until the stream ends on a record boundary.
// Every class must be known to reg and appear at most once.
func ReadIndex(r *wire.Reader, reg *schema.Registry) ([]IndexRecord, error) {
	var out []IndexRecord
	seen := make(map[ast.ClassID]bool)
	for !r.AtEOF() {
		class := ast.ClassID(r.I32())
		n := r.Size()
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("index: %w", err)
		}
		d, err := reg.Lookup(class)
		if err != nil {
			return nil, fmt.Errorf("index: %w", err)
		}
		if seen[class] {
			return nil, fmt.Errorf("%w: index: second record for %s", ErrLayoutMismatch, d.Name)
		}
		seen[class] = true
		if left, ok := r.Remaining(); ok && int64(n) > left/8 {
			return nil, fmt.Errorf("index: %s: %w: %d identities, %d bytes left", d.Name, wire.ErrTruncated, n, left)
		}
		ids := make([]ast.Identity, n)
		for i := range ids {
			ids[i] = r.Identity()
		}
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("index: %s: %w", d.Name, err)
		}
		out = append(out, IndexRecord{Class: class, IDs: ids})
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("index: %w", err)
	}
	return out, nil
}
