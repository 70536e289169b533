package ast

import (
	"fmt"
	"slices"
)

type Types struct {
	Units     *Arena[UnitType]
	Integrals *Arena[IntegralType]
	Strings   *Arena[StringType]
	Classes   *Arena[ClassType]
	Lists     *Arena[ListType]
}

type Decls struct {
	Units   *Arena[CompilationUnitDecl]
	Vars    *Arena[VarDecl]
	Funcs   *Arena[FuncDecl]
	Classes *Arena[ClassDecl]
}

type Exprs struct {
	Integers *Arena[IntegerLiteralExpr]
	Strings  *Arena[StringLiteralExpr]
	DeclRefs *Arena[DeclRefExpr]
	Members  *Arena[MemberExpr]
	Calls    *Arena[CallExpr]
	Unaries  *Arena[UnaryExpr]
	Binaries *Arena[BinaryExpr]
	Ifs      *Arena[IfExpr]
	Foreachs *Arena[ForeachExpr]
	Blocks   *Arena[BlockExpr]
}

type Stmts struct {
	Exprs   *Arena[ExprStmt]
	Decls   *Arena[DeclStmt]
	Returns *Arena[ReturnStmt]
}

type Hints struct{ Types, Decls, Exprs, Stmts uint }

// Store owns one arena per concrete kind. Independent stores share nothing,
// so several graphs can live in one process.
//
// A Store is not safe for concurrent use; a save or load call assumes nothing
// else touches the store until it returns.
type Store struct {
	Types *Types
	Decls *Decls
	Exprs *Exprs
	Stmts *Stmts

	// TrackUsers makes Builder constructors maintain Users eagerly.
	// With it off, serde.RebuildUsers recomputes Users in one pass.
	TrackUsers bool

	pools map[ClassID]Pool
}

// NewStore allocates every arena. Zero hints fall back to small defaults.
func NewStore(hints Hints) *Store {
	if hints.Types == 0 {
		hints.Types = 1 << 4
	}
	if hints.Decls == 0 {
		hints.Decls = 1 << 5
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 7
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 6
	}
	s := &Store{
		Types: &Types{
			Units:     NewArena[UnitType](ClassUnitType, hints.Types),
			Integrals: NewArena[IntegralType](ClassIntegralType, hints.Types),
			Strings:   NewArena[StringType](ClassStringType, hints.Types),
			Classes:   NewArena[ClassType](ClassClassType, hints.Types),
			Lists:     NewArena[ListType](ClassListType, hints.Types),
		},
		Decls: &Decls{
			Units:   NewArena[CompilationUnitDecl](ClassCompilationUnitDecl, 1),
			Vars:    NewArena[VarDecl](ClassVarDecl, hints.Decls),
			Funcs:   NewArena[FuncDecl](ClassFuncDecl, hints.Decls),
			Classes: NewArena[ClassDecl](ClassClassDecl, hints.Decls),
		},
		Exprs: &Exprs{
			Integers: NewArena[IntegerLiteralExpr](ClassIntegerLiteralExpr, hints.Exprs),
			Strings:  NewArena[StringLiteralExpr](ClassStringLiteralExpr, hints.Exprs),
			DeclRefs: NewArena[DeclRefExpr](ClassDeclRefExpr, hints.Exprs),
			Members:  NewArena[MemberExpr](ClassMemberExpr, hints.Exprs),
			Calls:    NewArena[CallExpr](ClassCallExpr, hints.Exprs),
			Unaries:  NewArena[UnaryExpr](ClassUnaryExpr, hints.Exprs),
			Binaries: NewArena[BinaryExpr](ClassBinaryExpr, hints.Exprs),
			Ifs:      NewArena[IfExpr](ClassIfExpr, hints.Exprs),
			Foreachs: NewArena[ForeachExpr](ClassForeachExpr, hints.Exprs),
			Blocks:   NewArena[BlockExpr](ClassBlockExpr, hints.Exprs),
		},
		Stmts: &Stmts{
			Exprs:   NewArena[ExprStmt](ClassExprStmt, hints.Stmts),
			Decls:   NewArena[DeclStmt](ClassDeclStmt, hints.Stmts),
			Returns: NewArena[ReturnStmt](ClassReturnStmt, hints.Stmts),
		},
		TrackUsers: true,
	}
	s.pools = make(map[ClassID]Pool, len(classNames))
	for _, p := range []Pool{
		s.Types.Units, s.Types.Integrals, s.Types.Strings, s.Types.Classes, s.Types.Lists,
		s.Decls.Units, s.Decls.Vars, s.Decls.Funcs, s.Decls.Classes,
		s.Exprs.Integers, s.Exprs.Strings, s.Exprs.DeclRefs, s.Exprs.Members, s.Exprs.Calls,
		s.Exprs.Unaries, s.Exprs.Binaries, s.Exprs.Ifs, s.Exprs.Foreachs, s.Exprs.Blocks,
		s.Stmts.Exprs, s.Stmts.Decls, s.Stmts.Returns,
	} {
		s.pools[p.Class()] = p
	}
	return s
}

// Pool returns the arena for a class id, nil if the store has none.
func (s *Store) Pool(id ClassID) Pool {
	return s.pools[id]
}

// Classes lists every class id held by the store in ascending order.
func (s *Store) Classes() []ClassID {
	out := make([]ClassID, 0, len(s.pools))
	for id := range s.pools {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Clear empties every arena.
func (s *Store) Clear() {
	for _, p := range s.pools {
		p.Clear()
	}
}

// Node resolves r to its concrete *T, or nil for an empty or unknown ref.
func (s *Store) Node(r Ref) Node {
	if !r.IsValid() {
		return nil
	}
	p := s.pools[r.Class]
	if p == nil {
		return nil
	}
	v, ok := p.Node(r.Handle)
	if !ok {
		return nil
	}
	return v.(Node)
}

// Type resolves r as a type node; nil when empty. A ref into another
// namespace is a programming error.
func (s *Store) Type(r Ref) Type {
	n := s.Node(r)
	if n == nil {
		return nil
	}
	t, ok := n.(Type)
	if !ok {
		panic(fmt.Sprintf("ref %v is not a type", r))
	}
	return t
}

// Decl resolves r as a declaration node; nil when empty.
func (s *Store) Decl(r Ref) Decl {
	n := s.Node(r)
	if n == nil {
		return nil
	}
	d, ok := n.(Decl)
	if !ok {
		panic(fmt.Sprintf("ref %v is not a declaration", r))
	}
	return d
}

// Expr resolves r as an expression node; nil when empty.
func (s *Store) Expr(r Ref) Expr {
	n := s.Node(r)
	if n == nil {
		return nil
	}
	e, ok := n.(Expr)
	if !ok {
		panic(fmt.Sprintf("ref %v is not an expression", r))
	}
	return e
}

// Stmt resolves r as a statement node; nil when empty.
func (s *Store) Stmt(r Ref) Stmt {
	n := s.Node(r)
	if n == nil {
		return nil
	}
	st, ok := n.(Stmt)
	if !ok {
		panic(fmt.Sprintf("ref %v is not a statement", r))
	}
	return st
}

// Units returns refs to every compilation unit in insertion order.
func (s *Store) Units() []Ref {
	out := make([]Ref, 0, s.Decls.Units.Len())
	s.Decls.Units.Each(func(_ int, h Handle, _ *CompilationUnitDecl) bool {
		out = append(out, Ref{Class: ClassCompilationUnitDecl, Handle: h})
		return true
	})
	return out
}

// Destroy removes the node behind r and drops r from the Users of every
// declaration it uses. References that point at r itself are left as they
// are and load as dangling. Call it only outside a save/load session.
func (s *Store) Destroy(r Ref) {
	p := s.pools[r.Class]
	if p == nil {
		panic(fmt.Sprintf("destroy: unknown class %d", r.Class))
	}
	if node, ok := p.Node(r.Handle); ok {
		s.dropUses(r, node)
	}
	p.Destroy(r.Handle)
}
