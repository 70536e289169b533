package ast

// Node is implemented by every concrete kind.
//
// Reference-typed fields carry an `ir` struct tag that the schema registry reads:
//
//	ir:"child"  owning edge to another node
//	ir:"use"    non-owning reference; feeds the target declaration's Users
//	ir:"-"      transient, never persisted
//	ir:"base"   embedded namespace base, persisted before the kind's own fields
type Node interface {
	Class() ClassID
}

// Type is the closed sum of type kinds.
type Type interface {
	Node
	isType()
}

// Decl is the closed sum of declaration kinds.
type Decl interface {
	Node
	Base() *DeclBase
	isDecl()
}

// Expr is the closed sum of expression kinds.
type Expr interface {
	Node
	isExpr()
}

// Stmt is the closed sum of statement kinds.
type Stmt interface {
	Node
	isStmt()
}
