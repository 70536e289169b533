package serde

import (
	"irstore/internal/ast"
	"irstore/internal/schema"
)

// RebuildUsers recomputes every declaration's Users from scratch: each
// non-empty `use` slot adds its owner to the target. The load path gets the
// same result incrementally; this is for graphs edited without Builder.
func RebuildUsers(reg *schema.Registry, pools Pools) {
	if reg == nil {
		reg = schema.Default()
	}
	for _, d := range reg.Ordered() {
		if !d.IsDecl() {
			continue
		}
		if p := pools.Pool(d.Class); p != nil {
			p.EachNode(func(_ int, _ ast.Handle, node any) bool {
				if decl, ok := node.(ast.Decl); ok {
					decl.Base().Users.Clear()
				}
				return true
			})
		}
	}
	for _, d := range reg.Ordered() {
		p := pools.Pool(d.Class)
		if p == nil {
			continue
		}
		p.EachNode(func(_ int, h ast.Handle, node any) bool {
			owner := ast.Ref{Class: d.Class, Handle: h}
			d.EachRef(node, func(role schema.Role, slot *ast.Ref) {
				if role == schema.RoleUse && slot.IsValid() {
					addUser(pools, *slot, owner)
				}
			})
			return true
		})
	}
}
