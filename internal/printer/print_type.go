package printer

import (
	"strconv"

	"irstore/internal/ast"
)

func (p *printer) typ(t ast.Type) {
	switch t := t.(type) {
	case *ast.UnitType:
		p.write("()")
	case *ast.IntegralType:
		prefix := "u"
		if t.Signed() {
			prefix = "i"
		}
		p.write(prefix, strconv.FormatUint(uint64(t.Width()), 10))
	case *ast.StringType:
		p.write("string")
	case *ast.ClassType:
		p.write(p.declName(t.Decl, t.Name))
	case *ast.ListType:
		p.write("[]")
		p.node(t.Elem)
	}
}
