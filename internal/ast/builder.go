package ast

import (
	"slices"

	"golang.org/x/text/unicode/norm"
)

// Builder creates nodes inside a Store and keeps Users in sync when
// Store.TrackUsers is on. It is the construction-time half of the
// back-reference bookkeeping; the loader is the other half.
type Builder struct {
	s *Store
}

// NewBuilder returns a Builder that allocates into s.
func NewBuilder(s *Store) *Builder {
	return &Builder{s: s}
}

// Store is the store nodes are allocated into.
func (b *Builder) Store() *Store { return b.s }

// ParamSpec describes one parameter for Func.
type ParamSpec struct {
	Name string
	Type Ref
}

func ident(name string) string {
	return norm.NFC.String(name)
}

func ref(class ClassID, h Handle) Ref {
	return Ref{Class: class, Handle: h}
}

// addUse records owner as a user of target.
func (b *Builder) addUse(owner, target Ref) {
	if !b.s.TrackUsers || !target.IsValid() || !IsDeclClass(target.Class) {
		return
	}
	if d := b.s.Decl(target); d != nil {
		d.Base().Users.Add(owner)
	}
}

func (b *Builder) dropUse(owner, target Ref) {
	if !b.s.TrackUsers || !target.IsValid() || !IsDeclClass(target.Class) {
		return
	}
	if d := b.s.Decl(target); d != nil {
		d.Base().Users.Remove(owner)
	}
}

// Types

func (b *Builder) Unit() Ref {
	return ref(ClassUnitType, b.s.Types.Units.Allocate(UnitType{}))
}

// Integral is a signed or unsigned integer type of width bits.
func (b *Builder) Integral(signed bool, width uint32) Ref {
	return ref(ClassIntegralType, b.s.Types.Integrals.Allocate(IntegralType{
		SignWidth: PackSignWidth(signed, width),
	}))
}

func (b *Builder) I32() Ref { return b.Integral(true, 32) }

func (b *Builder) StringType() Ref {
	return ref(ClassStringType, b.s.Types.Strings.Allocate(StringType{}))
}

// ClassTypeOf refers to a resolved class declaration.
func (b *Builder) ClassTypeOf(cls Ref) Ref {
	r := ref(ClassClassType, b.s.Types.Classes.Allocate(ClassType{Decl: cls}))
	b.addUse(r, cls)
	return r
}

// ClassTypeNamed is an unresolved class type.
func (b *Builder) ClassTypeNamed(name string) Ref {
	return ref(ClassClassType, b.s.Types.Classes.Allocate(ClassType{Name: ident(name)}))
}

func (b *Builder) List(elem Ref) Ref {
	return ref(ClassListType, b.s.Types.Lists.Allocate(ListType{Elem: elem}))
}

// Decls

// CompilationUnit starts an empty unit; AddDecl fills it.
func (b *Builder) CompilationUnit(name string) Ref {
	h, d := b.s.Decls.Units.New()
	d.Name = ident(name)
	return ref(ClassCompilationUnitDecl, h)
}

func (b *Builder) AddDecl(unit, decl Ref) {
	u := b.s.Decls.Units.Get(unit.Handle)
	u.Decls = append(u.Decls, decl)
}

// Var declares a variable. typ and init may be NoRef.
func (b *Builder) Var(name string, typ, init Ref) Ref {
	h, d := b.s.Decls.Vars.New()
	d.Name = ident(name)
	d.Type = typ
	d.Init = init
	return ref(ClassVarDecl, h)
}

// SetInit replaces the initializer, so two variables can refer to each other.
func (b *Builder) SetInit(v, init Ref) {
	b.s.Decls.Vars.Get(v.Handle).Init = init
}

// Func declares a function; parameter names are normalised like every other name.
func (b *Builder) Func(name string, params []ParamSpec, ret, body Ref) Ref {
	h, d := b.s.Decls.Funcs.New()
	d.Name = ident(name)
	d.Params = make([]Param, 0, len(params))
	for _, p := range params {
		d.Params = append(d.Params, Param{Name: ident(p.Name), Type: p.Type})
	}
	d.ReturnType = ret
	d.Body = body
	return ref(ClassFuncDecl, h)
}

// Class declares an empty class; AddVar and AddFunc add members.
func (b *Builder) Class(name string) Ref {
	h, d := b.s.Decls.Classes.New()
	d.Name = ident(name)
	return ref(ClassClassDecl, h)
}

func (b *Builder) AddVar(cls, v Ref) {
	c := b.s.Decls.Classes.Get(cls.Handle)
	c.Vars = append(c.Vars, v)
}

func (b *Builder) AddFunc(cls, fn Ref) {
	c := b.s.Decls.Classes.Get(cls.Handle)
	c.Funcs = append(c.Funcs, fn)
}

// Exprs

func (b *Builder) Int(v uint64) Ref {
	return ref(ClassIntegerLiteralExpr, b.s.Exprs.Integers.Allocate(IntegerLiteralExpr{Value: v}))
}

func (b *Builder) Str(v string) Ref {
	return ref(ClassStringLiteralExpr, b.s.Exprs.Strings.Allocate(StringLiteralExpr{Value: v}))
}

// DeclRef is a resolved use of decl.
func (b *Builder) DeclRef(decl Ref) Ref {
	r := ref(ClassDeclRefExpr, b.s.Exprs.DeclRefs.Allocate(DeclRefExpr{Decl: decl}))
	b.addUse(r, decl)
	return r
}

// DeclRefNamed is an unresolved use; Bind resolves it later.
func (b *Builder) DeclRefNamed(name string) Ref {
	return ref(ClassDeclRefExpr, b.s.Exprs.DeclRefs.Allocate(DeclRefExpr{Name: ident(name)}))
}

// Bind points an existing DeclRefExpr at decl, moving it between Users sets.
func (b *Builder) Bind(expr, decl Ref) {
	e := b.s.Exprs.DeclRefs.Get(expr.Handle)
	old := e.Decl
	e.Decl = decl
	b.dropUse(expr, old)
	b.addUse(expr, decl)
}

// Member is prefix.target with the member resolved.
func (b *Builder) Member(prefix, target Ref) Ref {
	r := ref(ClassMemberExpr, b.s.Exprs.Members.Allocate(MemberExpr{Prefix: prefix, Target: target}))
	b.addUse(r, target)
	return r
}

// MemberNamed is prefix.name left unresolved.
func (b *Builder) MemberNamed(prefix Ref, name string) Ref {
	return ref(ClassMemberExpr, b.s.Exprs.Members.Allocate(MemberExpr{Prefix: prefix, Name: ident(name)}))
}

// Call copies args; the caller keeps ownership of its slice.
func (b *Builder) Call(callee Ref, args ...Ref) Ref {
	return ref(ClassCallExpr, b.s.Exprs.Calls.Allocate(CallExpr{Callee: callee, Args: slices.Clone(args)}))
}

func (b *Builder) Unary(op UnaryOp, arg Ref) Ref {
	return ref(ClassUnaryExpr, b.s.Exprs.Unaries.Allocate(UnaryExpr{Op: op, Arg: arg}))
}

func (b *Builder) Binary(op BinaryOp, lhs, rhs Ref) Ref {
	return ref(ClassBinaryExpr, b.s.Exprs.Binaries.Allocate(BinaryExpr{Op: op, LHS: lhs, RHS: rhs}))
}

func (b *Builder) If(cond, then, els Ref) Ref {
	return ref(ClassIfExpr, b.s.Exprs.Ifs.Allocate(IfExpr{Cond: cond, Then: then, Else: els}))
}

// Foreach binds iter, a variable declaration, to each element of seq.
func (b *Builder) Foreach(iter, seq, body Ref) Ref {
	return ref(ClassForeachExpr, b.s.Exprs.Foreachs.Allocate(ForeachExpr{Iterator: iter, Seq: seq, Body: body}))
}

// Block copies stmts, so AddStmt never writes into a caller's array.
func (b *Builder) Block(stmts []Ref, last Ref) Ref {
	return ref(ClassBlockExpr, b.s.Exprs.Blocks.Allocate(BlockExpr{Stmts: slices.Clone(stmts), Last: last}))
}

func (b *Builder) AddStmt(block, stmt Ref) {
	blk := b.s.Exprs.Blocks.Get(block.Handle)
	blk.Stmts = append(blk.Stmts, stmt)
}

// SetLast sets the block's value expression.
func (b *Builder) SetLast(block, expr Ref) {
	b.s.Exprs.Blocks.Get(block.Handle).Last = expr
}

// Stmts

func (b *Builder) ExprStmt(expr Ref) Ref {
	return ref(ClassExprStmt, b.s.Stmts.Exprs.Allocate(ExprStmt{Expr: expr}))
}

func (b *Builder) DeclStmt(v Ref) Ref {
	return ref(ClassDeclStmt, b.s.Stmts.Decls.Allocate(DeclStmt{Decl: v}))
}

func (b *Builder) Return(expr Ref) Ref {
	return ref(ClassReturnStmt, b.s.Stmts.Returns.Allocate(ReturnStmt{Expr: expr}))
}
