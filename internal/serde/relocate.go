package serde

import (
	"context"
	"fmt"
	"slices"

	"irstore/internal/ast"
	"irstore/internal/schema"
	"irstore/internal/trace"
)

// PendingPatch is one reference slot waiting for its target.
type PendingPatch struct {
	Owner ast.Ref  // node holding the slot
	Slot  *ast.Ref // points into the owner's arena storage
	Role  schema.Role
}

// Patches groups pending slots by the identity they were saved with.
type Patches struct {
	byID  map[ast.Identity][]PendingPatch
	order []ast.Identity // first-seen order, so patching is deterministic
	n     int
}

// NewPatches returns an empty patch list.
func NewPatches() *Patches {
	return &Patches{byID: make(map[ast.Identity][]PendingPatch)}
}

// Add queues pp under id. Identities keep their first-seen order.
func (p *Patches) Add(id ast.Identity, pp PendingPatch) {
	if _, seen := p.byID[id]; !seen {
		p.order = append(p.order, id)
	}
	p.byID[id] = append(p.byID[id], pp)
	p.n++
}

// Len is the number of pending slots.
func (p *Patches) Len() int { return p.n }

// Identities returns the distinct identities in first-seen order.
func (p *Patches) Identities() []ast.Identity { return p.order }

// For returns the slots queued under id.
func (p *Patches) For(id ast.Identity) []PendingPatch { return p.byID[id] }

// RelocationTable maps saved identities to the references of the nodes
// created for them in this load.
type RelocationTable struct {
	m map[ast.Identity]ast.Ref
}

// NewRelocationTable sizes the table for capHint identities.
func NewRelocationTable(capHint int) *RelocationTable {
	return &RelocationTable{m: make(map[ast.Identity]ast.Ref, capHint)}
}

// Lookup returns the node created for a saved identity.
func (t *RelocationTable) Lookup(id ast.Identity) (ast.Ref, bool) {
	r, ok := t.m[id]
	return r, ok
}

func (t *RelocationTable) Len() int { return len(t.m) }

// Bind pairs the i-th identity of a kind's index record with the i-th node
// materialized for that kind. The pool must hold exactly len(ids) nodes.
func (t *RelocationTable) Bind(pool ast.Pool, name string, ids []ast.Identity) error {
	if pool.Len() != len(ids) {
		return fmt.Errorf("%w: %s: index lists %d identities, artifact held %d nodes",
			ErrLayoutMismatch, name, len(ids), pool.Len())
	}
	for i, id := range ids {
		if id == ast.NoIdentity {
			return fmt.Errorf("%w: %s: empty identity at position %d", ErrLayoutMismatch, name, i)
		}
		if prev, dup := t.m[id]; dup {
			return fmt.Errorf("%w: %s: identity %v listed twice (first bound to %v)", ErrLayoutMismatch, name, id, prev)
		}
		h, _ := pool.NodeAt(i)
		t.m[id] = ast.Ref{Class: pool.Class(), Handle: h}
	}
	return nil
}

// PatchResult summarizes the patch phase.
type PatchResult struct {
	Resolved    int
	Dangling    int
	DanglingIDs []ast.Identity // distinct, ascending
}

// Apply writes every pending slot whose identity resolves and adds the owner
// of every resolved `use` slot to the target declaration's Users. Unresolved
// slots keep NoRef.
func (t *RelocationTable) Apply(ctx context.Context, pools Pools, p *Patches) PatchResult {
	var res PatchResult
	for _, id := range p.order {
		target, ok := t.m[id]
		pending := p.byID[id]
		if !ok {
			res.Dangling += len(pending)
			res.DanglingIDs = append(res.DanglingIDs, id)
			for _, pp := range pending {
				trace.Point(ctx, trace.ScopeNode, "dangling",
					fmt.Sprintf("%v -> %v", pp.Owner, ast.RefFromIdentity(id)))
			}
			continue
		}
		for _, pp := range pending {
			*pp.Slot = target
			res.Resolved++
			if pp.Role == schema.RoleUse {
				addUser(pools, target, pp.Owner)
			}
		}
	}
	slices.Sort(res.DanglingIDs)
	return res
}

func addUser(pools Pools, target, owner ast.Ref) {
	pool := pools.Pool(target.Class)
	if pool == nil {
		return
	}
	n, ok := pool.Node(target.Handle)
	if !ok {
		return
	}
	if d, ok := n.(ast.Decl); ok {
		d.Base().Users.Add(owner)
	}
}
