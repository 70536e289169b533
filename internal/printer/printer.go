// Package printer renders a tree held in an ast.Store as canonical source
// text. Two isomorphic stores render identically, which makes the output a
// cheap equality check in tests and in the CLI.
package printer

import (
	"io"
	"strings"

	"irstore/internal/ast"
)

const indentUnit = "  "

type printer struct {
	s      *ast.Store
	sb     strings.Builder
	indent string
}

// Node renders the subtree rooted at r.
func Node(s *ast.Store, r ast.Ref) string {
	p := &printer{s: s}
	p.node(r)
	return p.sb.String()
}

// Units renders every compilation unit of s, in insertion order, separated
// by blank lines.
func Units(s *ast.Store) string {
	p := &printer{s: s}
	for i, u := range s.Units() {
		if i > 0 {
			p.sb.WriteString("\n\n")
		}
		p.node(u)
	}
	return p.sb.String()
}

// Fprint writes Units(s) followed by a newline.
func Fprint(w io.Writer, s *ast.Store) error {
	_, err := io.WriteString(w, Units(s)+"\n")
	return err
}

func (p *printer) write(parts ...string) {
	for _, s := range parts {
		p.sb.WriteString(s)
	}
}

// nested runs fn one indentation level deeper.
func (p *printer) nested(fn func()) {
	saved := p.indent
	p.indent += indentUnit
	fn()
	p.indent = saved
}

func (p *printer) node(r ast.Ref) {
	if !r.IsValid() {
		return
	}
	switch n := p.s.Node(r).(type) {
	case nil:
		p.write("<missing ", r.String(), ">")
	case ast.Type:
		p.typ(n)
	case ast.Decl:
		p.decl(n)
	case ast.Expr:
		p.expr(n)
	case ast.Stmt:
		p.stmt(n)
	}
}

// declName is the name of the declaration behind r, or fallback when r does
// not resolve.
func (p *printer) declName(r ast.Ref, fallback string) string {
	if r.IsValid() {
		if d, ok := p.s.Node(r).(ast.Decl); ok {
			return d.Base().Name
		}
	}
	return fallback
}
