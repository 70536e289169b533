package ast

type ExprStmt struct {
	Expr Ref `ir:"child"`
}

type DeclStmt struct {
	Decl Ref `ir:"child"` // VarDecl
}

type ReturnStmt struct {
	Expr Ref `ir:"child"`
}

func (*ExprStmt) Class() ClassID   { return ClassExprStmt }
func (*DeclStmt) Class() ClassID   { return ClassDeclStmt }
func (*ReturnStmt) Class() ClassID { return ClassReturnStmt }

func (*ExprStmt) isStmt()   {}
func (*DeclStmt) isStmt()   {}
func (*ReturnStmt) isStmt() {}
