package testkit

import (
	"testing"

	"irstore/internal/ast"
)

func TestIsomorphicIgnoresHandles(t *testing.T) {
	a := ast.NewStore(ast.Hints{})
	CounterScenario(ast.NewBuilder(a))

	// same graph, but every handle shifted by a discarded first node
	b := ast.NewStore(ast.Hints{})
	bb := ast.NewBuilder(b)
	for _, r := range []ast.Ref{bb.I32(), bb.Int(0), bb.Var("tmp", ast.NoRef, ast.NoRef)} {
		b.Destroy(r)
	}
	CounterScenario(bb)

	if err := CheckIsomorphic(nil, a, b); err != nil {
		t.Fatalf("expected isomorphic stores: %v", err)
	}
}

func TestIsomorphicDetectsDifferences(t *testing.T) {
	a := ast.NewStore(ast.Hints{})
	AddScenario(ast.NewBuilder(a))

	b := ast.NewStore(ast.Hints{})
	AddScenario(ast.NewBuilder(b))
	_, fn := b.Decls.Funcs.At(0)
	fn.Params[0].Name = "x"
	if err := CheckIsomorphic(nil, a, b); err == nil {
		t.Fatal("renamed parameter went unnoticed")
	}

	c := ast.NewStore(ast.Hints{})
	AddScenario(ast.NewBuilder(c))
	ast.NewBuilder(c).Int(7)
	if err := CheckIsomorphic(nil, a, c); err == nil {
		t.Fatal("extra node went unnoticed")
	}
}

func TestIsomorphicDetectsRewiredReference(t *testing.T) {
	a := ast.NewStore(ast.Hints{})
	CounterScenario(ast.NewBuilder(a))
	b := ast.NewStore(ast.Hints{})
	CounterScenario(ast.NewBuilder(b))

	// point x's init at the wrong declaration, keeping Users consistent
	_, x := b.Decls.Vars.At(0)
	ref := b.Expr(x.Init).(*ast.DeclRefExpr)
	hx, _ := b.Decls.Vars.At(0)
	ast.NewBuilder(b).Bind(x.Init, ast.Ref{Class: ast.ClassVarDecl, Handle: hx})
	if ref.Decl.Handle != hx {
		t.Fatal("bind did not apply")
	}
	if err := CheckUsers(nil, b); err != nil {
		t.Fatalf("users should stay consistent: %v", err)
	}
	if err := CheckIsomorphic(nil, a, b); err == nil {
		t.Fatal("rewired reference went unnoticed")
	}
}

func TestCheckUsersFindsStaleEntry(t *testing.T) {
	s := ast.NewStore(ast.Hints{})
	AddScenario(ast.NewBuilder(s))
	_, fn := s.Decls.Funcs.At(0)
	fn.Users.Add(ast.Ref{Class: ast.ClassDeclRefExpr, Handle: 1})
	if err := CheckUsers(nil, s); err == nil {
		t.Fatal("stale user went unnoticed")
	}
}

func TestDestroyKeepsUsersConsistent(t *testing.T) {
	s := ast.NewStore(ast.Hints{})
	b := ast.NewBuilder(s)
	CounterScenario(b)
	x := b.Var("x", b.I32(), ast.NoRef)
	s.Destroy(b.DeclRef(x))
	s.Destroy(b.Member(b.DeclRefNamed("p"), x))
	if err := CheckUsers(nil, s); err != nil {
		t.Fatalf("users out of sync after destroy: %v", err)
	}
}
