package serde

import (
	"irstore/internal/ast"
	"irstore/internal/observ"
	"irstore/internal/schema"
)

// Pools resolves a class id to its arena. *ast.Store implements it.
type Pools interface {
	Pool(id ast.ClassID) ast.Pool
}

// PoolSet is a Pools over an explicit set of arenas, for registries other
// than the default one.
type PoolSet map[ast.ClassID]ast.Pool

// Pool returns the arena for id, or nil when the set has none.
func (s PoolSet) Pool(id ast.ClassID) ast.Pool { return s[id] }

// NewPoolSet indexes pools by their class.
func NewPoolSet(pools ...ast.Pool) PoolSet {
	s := make(PoolSet, len(pools))
	for _, p := range pools {
		s[p.Class()] = p
	}
	return s
}

// Options tune a save or load. The zero value uses schema.Default, the
// default index name and the manifest.
type Options struct {
	Registry  *schema.Registry
	IndexName string
	// Tool is recorded in the manifest.
	Tool string
	// NoManifest skips writing the manifest on save and checking it on load.
	NoManifest bool
}

func (o Options) registry() *schema.Registry {
	if o.Registry != nil {
		return o.Registry
	}
	return schema.Default()
}

func (o Options) indexName() string {
	if o.IndexName != "" {
		return o.IndexName
	}
	return DefaultIndexName
}

// KindCount is the per-kind line of a report.
type KindCount struct {
	Class ast.ClassID `json:"class"`
	Name  string      `json:"name"`
	Count int         `json:"count"`
	Bytes int64       `json:"bytes"`
}

// SaveReport summarizes a save.
type SaveReport struct {
	Dir     string        `json:"dir"`
	Kinds   []KindCount   `json:"kinds"`
	Nodes   int           `json:"nodes"`
	Bytes   int64         `json:"bytes"`
	Timings observ.Report `json:"timings"`
}

// LoadReport summarizes a load.
type LoadReport struct {
	Dir         string         `json:"dir"`
	Kinds       []KindCount    `json:"kinds"`
	Nodes       int            `json:"nodes"`
	Patches     int            `json:"patches"`
	Resolved    int            `json:"resolved"`
	Dangling    int            `json:"dangling"`
	DanglingIDs []ast.Identity `json:"dangling_ids,omitempty"`
	Manifest    bool           `json:"manifest"`
	Timings     observ.Report  `json:"timings"`
}
