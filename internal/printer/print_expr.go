package printer

import (
	"strconv"

	"irstore/internal/ast"
)

var unaryOps = map[ast.UnaryOp]string{
	ast.UnaryNot: "!",
	ast.UnaryNeg: "-",
}

var binaryOps = map[ast.BinaryOp]string{
	ast.BinaryAdd:      "+",
	ast.BinarySub:      "-",
	ast.BinaryNotEqual: "!=",
}

func opText[K comparable](ops map[K]string, op K) string {
	if s, ok := ops[op]; ok {
		return s
	}
	return "?"
}

func (p *printer) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.IntegerLiteralExpr:
		p.write(strconv.FormatUint(e.Value, 10))
	case *ast.StringLiteralExpr:
		p.write(strconv.Quote(e.Value))
	case *ast.DeclRefExpr:
		p.write(p.declName(e.Decl, e.Name))
	case *ast.MemberExpr:
		p.node(e.Prefix)
		p.write(".", p.declName(e.Target, e.Name))
	case *ast.CallExpr:
		p.node(e.Callee)
		p.write("(")
		for i, a := range e.Args {
			if i > 0 {
				p.write(", ")
			}
			p.node(a)
		}
		p.write(")")
	case *ast.UnaryExpr:
		p.write(opText(unaryOps, e.Op))
		p.node(e.Arg)
	case *ast.BinaryExpr:
		p.node(e.LHS)
		p.write(" ", opText(binaryOps, e.Op), " ")
		p.node(e.RHS)
	case *ast.IfExpr:
		p.write("if ")
		p.node(e.Cond)
		p.write(" ")
		p.node(e.Then)
		if e.Else.IsValid() {
			p.write(" else ")
			p.node(e.Else)
		}
	case *ast.ForeachExpr:
		p.write("foreach ", p.declName(e.Iterator, "_"), " in ")
		p.node(e.Seq)
		p.write(" ")
		p.node(e.Body)
	case *ast.BlockExpr:
		p.write("{\n")
		p.nested(func() {
			for _, st := range e.Stmts {
				p.node(st)
				p.write("\n")
			}
			if e.Last.IsValid() {
				p.write(p.indent)
				p.node(e.Last)
				p.write("\n")
			}
		})
		p.write(p.indent, "}")
	}
}

// stmt writes its own indentation.
func (p *printer) stmt(st ast.Stmt) {
	switch st := st.(type) {
	case *ast.ExprStmt:
		p.write(p.indent)
		p.node(st.Expr)
	case *ast.DeclStmt:
		p.node(st.Decl)
	case *ast.ReturnStmt:
		p.write(p.indent, "return")
		if st.Expr.IsValid() {
			p.write(" ")
			p.node(st.Expr)
		}
	}
}
