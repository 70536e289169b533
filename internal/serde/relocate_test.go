package serde

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"irstore/internal/ast"
	"irstore/internal/schema"
	"irstore/internal/wire"
)

func TestEncodeDecodeQueuesEveryReference(t *testing.T) {
	s := ast.NewStore(ast.Hints{})
	b := ast.NewBuilder(s)
	i32 := b.I32()
	fn := b.Func("f", []ast.ParamSpec{{Name: "a", Type: i32}, {Name: "b", Type: i32}}, i32, ast.NoRef)

	reg := schema.Default()
	d, err := reg.Lookup(ast.ClassFuncDecl)
	require.NoError(t, err)

	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	require.NoError(t, NewEncoder(w).Encode(d, s.Decls.Funcs.Get(fn.Handle)))
	require.NoError(t, w.Flush())

	patches := NewPatches()
	r := wire.NewReader(&buf)
	r.SetSize(int64(buf.Len()))
	var out ast.FuncDecl
	owner := ast.Ref{Class: ast.ClassFuncDecl, Handle: 7}
	require.NoError(t, NewDecoder(r, patches).Decode(d, owner, &out))
	require.True(t, r.AtEOF())

	require.Equal(t, "f", out.Name)
	require.Len(t, out.Params, 2)
	require.Equal(t, "b", out.Params[1].Name)
	require.Equal(t, ast.NoRef, out.Params[0].Type, "references stay empty until patched")
	require.Equal(t, ast.NoRef, out.Body)

	// two param types and the return type share one identity; Body is empty
	require.Equal(t, 3, patches.Len())
	require.Equal(t, []ast.Identity{i32.Identity()}, patches.Identities())
	for _, pp := range patches.For(i32.Identity()) {
		require.Equal(t, owner, pp.Owner)
		require.Equal(t, schema.RoleChild, pp.Role)
	}
}

func TestRelocationApply(t *testing.T) {
	s := ast.NewStore(ast.Hints{})
	target := s.Decls.Vars.Allocate(ast.VarDecl{DeclBase: ast.DeclBase{Name: "v"}})
	table := NewRelocationTable(1)
	require.NoError(t, table.Bind(s.Decls.Vars, "VarDecl", []ast.Identity{ast.Identity(42)}))

	var use, child, lost ast.Ref
	owner := ast.Ref{Class: ast.ClassDeclRefExpr, Handle: 3}
	p := NewPatches()
	p.Add(42, PendingPatch{Owner: owner, Slot: &use, Role: schema.RoleUse})
	p.Add(42, PendingPatch{Owner: owner, Slot: &child, Role: schema.RoleChild})
	p.Add(77, PendingPatch{Owner: owner, Slot: &lost, Role: schema.RoleUse})

	res := table.Apply(context.Background(), s, p)
	want := ast.Ref{Class: ast.ClassVarDecl, Handle: target}
	require.Equal(t, want, use)
	require.Equal(t, want, child)
	require.Equal(t, ast.NoRef, lost)
	require.Equal(t, PatchResult{Resolved: 2, Dangling: 1, DanglingIDs: []ast.Identity{77}}, res)

	users := &s.Decls.Vars.Get(target).Users
	require.Equal(t, 1, users.Len(), "only use slots feed Users")
	require.True(t, users.Has(owner))
}

func TestRelocationBindRejectsBadRecords(t *testing.T) {
	arena := ast.NewArena[ast.VarDecl](ast.ClassVarDecl, 2)
	arena.Allocate(ast.VarDecl{})
	arena.Allocate(ast.VarDecl{})

	require.ErrorIs(t, NewRelocationTable(0).Bind(arena, "VarDecl", []ast.Identity{1}), ErrLayoutMismatch)
	require.ErrorIs(t, NewRelocationTable(0).Bind(arena, "VarDecl", []ast.Identity{1, 1}), ErrLayoutMismatch)
	require.ErrorIs(t, NewRelocationTable(0).Bind(arena, "VarDecl", []ast.Identity{1, ast.NoIdentity}), ErrLayoutMismatch)
	require.NoError(t, NewRelocationTable(0).Bind(arena, "VarDecl", []ast.Identity{9, 4}))
}

func TestReadIndexRejectsUnknownClass(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	require.NoError(t, WriteIndex(w, []IndexRecord{{Class: 9999, IDs: []ast.Identity{1}}}))
	require.NoError(t, w.Flush())

	_, err := ReadIndex(wire.NewReader(&buf), schema.Default())
	require.ErrorIs(t, err, schema.ErrUnknownClass)
}

func TestReadIndexTruncatedRecord(t *testing.T) {
	var buf bytes.Buffer
	w := wire.NewWriter(&buf)
	require.NoError(t, WriteIndex(w, []IndexRecord{{Class: ast.ClassVarDecl, IDs: []ast.Identity{1, 2}}}))
	require.NoError(t, w.Flush())
	raw := buf.Bytes()[:buf.Len()-4]

	_, err := ReadIndex(wire.NewReader(bytes.NewReader(raw)), schema.Default())
	require.ErrorIs(t, err, wire.ErrTruncated)
}
