// Package testkit holds graph-level checks shared by tests and the verify
// command.
package testkit

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"fortio.org/safecast"

	"irstore/internal/ast"
	"irstore/internal/schema"
	"irstore/internal/serde"
	"irstore/internal/wire"
)

// positions maps every live node of every registered kind to a handle-free
// identity: class in the high half, 1-based insertion ordinal in the low half.
type positions map[ast.Ref]ast.Identity

func collectPositions(reg *schema.Registry, pools serde.Pools) (positions, error) {
	pos := make(positions)
	for _, d := range reg.Ordered() {
		p := pools.Pool(d.Class)
		if p == nil {
			return nil, fmt.Errorf("no arena for %s", d.Name)
		}
		var err error
		p.EachNode(func(ordinal int, h ast.Handle, _ any) bool {
			var n uint32
			n, err = safecast.Conv[uint32](ordinal + 1)
			if err != nil {
				return false
			}
			pos[ast.Ref{Class: d.Class, Handle: h}] = ast.Ref{Class: d.Class, Handle: ast.Handle(n)}.Identity()
			return true
		})
		if err != nil {
			return nil, fmt.Errorf("%s: ordinal overflow: %w", d.Name, err)
		}
	}
	return pos, nil
}

// of maps r; references to nodes that do not exist compare as empty.
func (p positions) of(r ast.Ref) ast.Identity {
	return p[r]
}

// CheckIsomorphic reports whether a and b hold the same graph up to handle
// renaming: equal node counts per kind, equal values position by position,
// references pointing at the same positions, and equal Users.
func CheckIsomorphic(reg *schema.Registry, a, b serde.Pools) error {
	if reg == nil {
		reg = schema.Default()
	}
	posA, err := collectPositions(reg, a)
	if err != nil {
		return fmt.Errorf("left: %w", err)
	}
	posB, err := collectPositions(reg, b)
	if err != nil {
		return fmt.Errorf("right: %w", err)
	}

	var errs []error
	for _, d := range reg.Ordered() {
		pa, pb := a.Pool(d.Class), b.Pool(d.Class)
		if pa.Len() != pb.Len() {
			errs = append(errs, fmt.Errorf("%s: %d nodes vs %d", d.Name, pa.Len(), pb.Len()))
			continue
		}
		for i := 0; i < pa.Len(); i++ {
			ha, na := pa.NodeAt(i)
			hb, nb := pb.NodeAt(i)
			ra, err := canonical(d, na, posA)
			if err != nil {
				return err
			}
			rb, err := canonical(d, nb, posB)
			if err != nil {
				return err
			}
			if !bytes.Equal(ra, rb) {
				errs = append(errs, fmt.Errorf("%s[%d]: content differs (%v vs %v)", d.Name, i, ha, hb))
				continue
			}
			if d.IsDecl() {
				ua := mappedUsers(na.(ast.Decl), posA)
				ub := mappedUsers(nb.(ast.Decl), posB)
				if !slices.Equal(ua, ub) {
					errs = append(errs, fmt.Errorf("%s[%d]: users %v vs %v", d.Name, i, ua, ub))
				}
			}
		}
	}
	return errors.Join(errs...)
}

func canonical(d *schema.Descriptor, node any, pos positions) ([]byte, error) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	enc := serde.NewEncoder(w)
	enc.MapRefs(pos.of)
	if err := enc.Encode(d, node); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func mappedUsers(d ast.Decl, pos positions) []ast.Identity {
	users := d.Base().Users.Sorted()
	out := make([]ast.Identity, 0, len(users))
	for _, u := range users {
		out = append(out, pos.of(u))
	}
	slices.Sort(out)
	return out
}

// CheckUsers verifies that every declaration's Users is exactly the set of
// nodes holding a `use` reference to it.
func CheckUsers(reg *schema.Registry, pools serde.Pools) error {
	if reg == nil {
		reg = schema.Default()
	}
	want := make(map[ast.Ref]map[ast.Ref]struct{})
	for _, d := range reg.Ordered() {
		p := pools.Pool(d.Class)
		if p == nil {
			continue
		}
		p.EachNode(func(_ int, h ast.Handle, node any) bool {
			owner := ast.Ref{Class: d.Class, Handle: h}
			d.EachRef(node, func(role schema.Role, slot *ast.Ref) {
				if role != schema.RoleUse || !slot.IsValid() {
					return
				}
				if want[*slot] == nil {
					want[*slot] = make(map[ast.Ref]struct{})
				}
				want[*slot][owner] = struct{}{}
			})
			return true
		})
	}

	var errs []error
	for _, d := range reg.Ordered() {
		if !d.IsDecl() {
			continue
		}
		p := pools.Pool(d.Class)
		if p == nil {
			continue
		}
		p.EachNode(func(_ int, h ast.Handle, node any) bool {
			self := ast.Ref{Class: d.Class, Handle: h}
			users := &node.(ast.Decl).Base().Users
			exp := want[self]
			if users.Len() != len(exp) {
				errs = append(errs, fmt.Errorf("%v: %d users, %d uses point here", self, users.Len(), len(exp)))
				return true
			}
			for owner := range exp {
				if !users.Has(owner) {
					errs = append(errs, fmt.Errorf("%v: user %v missing", self, owner))
				}
			}
			return true
		})
	}
	return errors.Join(errs...)
}
