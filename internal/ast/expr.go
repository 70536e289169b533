package ast

type UnaryOp uint8

const (
	UnaryUndef UnaryOp = iota
	UnaryNot           // !
	UnaryNeg           // -
)

type BinaryOp uint8

const (
	BinaryUndef    BinaryOp = iota
	BinaryAdd               // +
	BinarySub               // -
	BinaryNotEqual          // !=
)

type IntegerLiteralExpr struct {
	Value uint64
}

type StringLiteralExpr struct {
	Value string
}

// DeclRefExpr names a declaration. Decl stays empty until name resolution
// runs; Name keeps the spelling either way.
type DeclRefExpr struct {
	Decl Ref `ir:"use"`
	Name string
}

// MemberExpr is prefix.name; Target is the resolved member, if any.
type MemberExpr struct {
	Prefix Ref `ir:"child"`
	Target Ref `ir:"use"`
	Name   string
}

type CallExpr struct {
	Callee Ref   `ir:"child"`
	Args   []Ref `ir:"child"`
}

type UnaryExpr struct {
	Op  UnaryOp
	Arg Ref `ir:"child"`
}

type BinaryExpr struct {
	Op  BinaryOp
	LHS Ref `ir:"child"`
	RHS Ref `ir:"child"`
}

type IfExpr struct {
	Cond Ref `ir:"child"`
	Then Ref `ir:"child"`
	Else Ref `ir:"child"`
}

type ForeachExpr struct {
	Iterator Ref `ir:"child"` // VarDecl owned by the loop
	Seq      Ref `ir:"child"`
	Body     Ref `ir:"child"`
}

type BlockExpr struct {
	Stmts []Ref `ir:"child"`
	Last  Ref   `ir:"child"`
}

func (*IntegerLiteralExpr) Class() ClassID { return ClassIntegerLiteralExpr }
func (*StringLiteralExpr) Class() ClassID  { return ClassStringLiteralExpr }
func (*DeclRefExpr) Class() ClassID        { return ClassDeclRefExpr }
func (*MemberExpr) Class() ClassID         { return ClassMemberExpr }
func (*CallExpr) Class() ClassID           { return ClassCallExpr }
func (*UnaryExpr) Class() ClassID          { return ClassUnaryExpr }
func (*BinaryExpr) Class() ClassID         { return ClassBinaryExpr }
func (*IfExpr) Class() ClassID             { return ClassIfExpr }
func (*ForeachExpr) Class() ClassID        { return ClassForeachExpr }
func (*BlockExpr) Class() ClassID          { return ClassBlockExpr }

func (*IntegerLiteralExpr) isExpr() {}
func (*StringLiteralExpr) isExpr()  {}
func (*DeclRefExpr) isExpr()        {}
func (*MemberExpr) isExpr()         {}
func (*CallExpr) isExpr()           {}
func (*UnaryExpr) isExpr()          {}
func (*BinaryExpr) isExpr()         {}
func (*IfExpr) isExpr()             {}
func (*ForeachExpr) isExpr()        {}
func (*BlockExpr) isExpr()          {}
