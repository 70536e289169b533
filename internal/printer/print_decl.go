package printer

import "irstore/internal/ast"

// decl writes its own indentation: declarations always start a line.
func (p *printer) decl(d ast.Decl) {
	switch d := d.(type) {
	case *ast.CompilationUnitDecl:
		for i, r := range d.Decls {
			if i > 0 {
				p.write("\n")
			}
			p.node(r)
		}
	case *ast.VarDecl:
		p.write(p.indent, "var ", d.Name)
		if d.Type.IsValid() {
			p.write(": ")
			p.node(d.Type)
		}
		if d.Init.IsValid() {
			p.write(" = ")
			p.node(d.Init)
		}
		p.write(";")
	case *ast.FuncDecl:
		p.write(p.indent, "func ", d.Name, "(")
		for i, param := range d.Params {
			if i > 0 {
				p.write(", ")
			}
			p.write(param.Name, ": ")
			p.node(param.Type)
		}
		p.write(")")
		if d.ReturnType.IsValid() {
			p.write(" -> ")
			p.node(d.ReturnType)
		}
		if d.Body.IsValid() {
			p.write(" ")
			p.node(d.Body)
		}
	case *ast.ClassDecl:
		p.write(p.indent, "class ", d.Name, " {")
		if len(d.Vars)+len(d.Funcs) == 0 {
			p.write("}")
			return
		}
		p.nested(func() {
			for _, r := range d.Vars {
				p.write("\n")
				p.node(r)
			}
			for _, r := range d.Funcs {
				p.write("\n")
				p.node(r)
			}
		})
		p.write("\n", p.indent, "}")
	}
}
