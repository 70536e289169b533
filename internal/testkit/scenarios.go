package testkit

import "irstore/internal/ast"

// AddScenario builds
//
//	func add(a: i32, b: i32) -> i32 {
//	  a + b
//	}
//
// inside a compilation unit named "add" and returns the unit.
func AddScenario(b *ast.Builder) ast.Ref {
	unit := b.CompilationUnit("add")
	body := b.Block(nil, b.Binary(ast.BinaryAdd, b.DeclRefNamed("a"), b.DeclRefNamed("b")))
	fn := b.Func("add", []ast.ParamSpec{
		{Name: "a", Type: b.I32()},
		{Name: "b", Type: b.I32()},
	}, b.I32(), body)
	b.AddDecl(unit, fn)
	return unit
}

// CounterScenario builds a unit that uses every node kind. It contains a
// pair of variables initialised from each other, a class type created before
// its class is complete, and references from types and expressions to
// declarations created later.
func CounterScenario(b *ast.Builder) ast.Ref {
	unit := b.CompilationUnit("counter")
	cls := b.Class("Counter")

	x := b.Var("x", b.I32(), ast.NoRef)
	y := b.Var("y", b.I32(), b.DeclRef(x))
	b.SetInit(x, b.DeclRef(y))
	b.AddVar(cls, x)
	b.AddVar(cls, y)

	label := b.Var("label", b.StringType(), b.Str("counter"))
	b.AddVar(cls, label)

	items := b.Var("items", b.List(b.ClassTypeOf(cls)), ast.NoRef)
	it := b.Var("it", b.ClassTypeOf(cls), ast.NoRef)
	step := b.Var("step", b.I32(), b.Int(1))

	loop := b.Foreach(it, b.DeclRef(items), b.Block([]ast.Ref{
		b.ExprStmt(b.Call(b.Member(b.DeclRef(it), x), b.Str("tick"), b.Unary(ast.UnaryNot, b.Int(0)))),
	}, ast.NoRef))
	choose := b.If(
		b.Binary(ast.BinaryNotEqual, b.DeclRefNamed("n"), b.Int(0)),
		b.Block(nil, b.Binary(ast.BinarySub, b.DeclRefNamed("n"), b.DeclRef(step))),
		b.Block(nil, b.Unary(ast.UnaryNeg, b.DeclRef(step))),
	)
	body := b.Block([]ast.Ref{
		b.DeclStmt(step),
		b.ExprStmt(loop),
		b.Return(choose),
	}, ast.NoRef)
	next := b.Func("next", []ast.ParamSpec{{Name: "n", Type: b.I32()}}, b.I32(), body)
	b.AddFunc(cls, next)

	reset := b.Func("reset", nil, b.Unit(), b.Block(nil, ast.NoRef))
	b.AddFunc(cls, reset)

	// resolved after the fact, like a late name-resolution pass
	late := b.DeclRefNamed("reset")
	b.Bind(late, reset)
	b.AddDecl(unit, cls)
	b.AddDecl(unit, items)
	b.AddDecl(unit, b.Var("callback", b.ClassTypeNamed("Handler"), b.MemberNamed(b.DeclRef(label), "len")))
	b.AddDecl(unit, b.Var("again", b.Unit(), b.Call(late)))
	return unit
}

// DanglingScenario builds a unit whose only variable is initialised from a
// reference to a declaration that does not exist.
func DanglingScenario(b *ast.Builder) ast.Ref {
	unit := b.CompilationUnit("dangling")
	ghost := ast.Ref{Class: ast.ClassVarDecl, Handle: 999}
	b.AddDecl(unit, b.Var("v", b.I32(), b.DeclRef(ghost)))
	return unit
}
