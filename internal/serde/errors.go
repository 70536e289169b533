// Package serde saves a Store to a directory of per-kind artifacts and loads
// it back.
//
// A save writes, for every registered kind in ascending class id order, one
// artifact named after the kind: [u64 count] followed by count records. A
// record is the node's persisted fields in descriptor order, parent first.
// References are written as the identity the target had when saved. After
// the artifacts comes the index (default "index.db"): for every kind,
// [i32 class][u64 count][u64 identity]*count in the same order as that
// kind's artifact. A msgpack manifest with per-kind field signatures is
// written last. Nil and empty sequences are written alike and load as empty,
// non-nil slices.
//
// A load runs three phases. Materialize decodes every artifact into fresh
// arena nodes and queues one pending patch per non-empty reference slot.
// Relocate reads the index and maps each saved identity to the node created
// for it. Patch rewrites every queued slot and rebuilds declaration Users
// from `use` references. References whose identity is not in the index are
// dangling: they stay empty and are counted in the report.
package serde

import "errors"

var (
	// ErrMissingArtifact means a per-kind artifact or the index is absent.
	ErrMissingArtifact = errors.New("serde: missing artifact")
	// ErrLayoutMismatch means artifacts disagree with each other or with the
	// registry: counts differ, a record has trailing bytes, the index repeats
	// an identity, or field signatures changed.
	ErrLayoutMismatch = errors.New("serde: layout mismatch")
)
