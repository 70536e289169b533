package schema

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"irstore/internal/ast"
)

// Registry holds one descriptor per concrete kind.
type Registry struct {
	byClass map[ast.ClassID]*Descriptor
	byName  map[string]*Descriptor
	byType  map[reflect.Type]*Descriptor
	ordered []*Descriptor
}

// Build derives descriptors for kinds. Any unsupported field, unknown tag or
// duplicate id/name fails the whole registry.
func Build(kinds ...Kind) (*Registry, error) {
	r := &Registry{
		byClass: make(map[ast.ClassID]*Descriptor, len(kinds)),
		byName:  make(map[string]*Descriptor, len(kinds)),
		byType:  make(map[reflect.Type]*Descriptor, len(kinds)),
	}
	b := &builder{bases: make(map[reflect.Type]*Descriptor)}
	for _, k := range kinds {
		if !k.Class.IsValid() || k.Name == "" {
			return nil, fmt.Errorf("schema: kind %v needs a class id and a name", k.Type)
		}
		if _, dup := r.byClass[k.Class]; dup {
			return nil, fmt.Errorf("%w: id %d", ErrDuplicateClass, k.Class)
		}
		if _, dup := r.byName[k.Name]; dup {
			return nil, fmt.Errorf("%w: name %q", ErrDuplicateClass, k.Name)
		}
		d, err := b.descriptor(k)
		if err != nil {
			return nil, err
		}
		r.byClass[k.Class] = d
		r.byName[k.Name] = d
		r.byType[k.Type] = d
		r.ordered = append(r.ordered, d)
	}
	slices.SortFunc(r.ordered, func(a, b *Descriptor) int {
		return int(a.Class) - int(b.Class)
	})
	return r, nil
}

// Lookup returns the descriptor for a class id.
func (r *Registry) Lookup(id ast.ClassID) (*Descriptor, error) {
	d, ok := r.byClass[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownClass, id)
	}
	return d, nil
}

// ByName returns the descriptor whose kind identifier is name.
func (r *Registry) ByName(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Of returns the descriptor for a node pointer.
func (r *Registry) Of(node any) (*Descriptor, bool) {
	t := reflect.TypeOf(node)
	if t == nil || t.Kind() != reflect.Pointer {
		return nil, false
	}
	d, ok := r.byType[t.Elem()]
	return d, ok
}

// Ordered returns descriptors in ascending class id. This is the fixed
// per-kind order used by both save and load.
func (r *Registry) Ordered() []*Descriptor {
	return r.ordered
}

func (r *Registry) Len() int { return len(r.ordered) }

// ASTKinds lists every concrete node kind of internal/ast.
func ASTKinds() []Kind {
	return []Kind{
		KindOf[ast.UnitType](ast.ClassUnitType),
		KindOf[ast.IntegralType](ast.ClassIntegralType),
		KindOf[ast.StringType](ast.ClassStringType),
		KindOf[ast.ClassType](ast.ClassClassType),
		KindOf[ast.ListType](ast.ClassListType),

		KindOf[ast.CompilationUnitDecl](ast.ClassCompilationUnitDecl),
		KindOf[ast.VarDecl](ast.ClassVarDecl),
		KindOf[ast.FuncDecl](ast.ClassFuncDecl),
		KindOf[ast.ClassDecl](ast.ClassClassDecl),

		KindOf[ast.IntegerLiteralExpr](ast.ClassIntegerLiteralExpr),
		KindOf[ast.StringLiteralExpr](ast.ClassStringLiteralExpr),
		KindOf[ast.DeclRefExpr](ast.ClassDeclRefExpr),
		KindOf[ast.MemberExpr](ast.ClassMemberExpr),
		KindOf[ast.CallExpr](ast.ClassCallExpr),
		KindOf[ast.UnaryExpr](ast.ClassUnaryExpr),
		KindOf[ast.BinaryExpr](ast.ClassBinaryExpr),
		KindOf[ast.IfExpr](ast.ClassIfExpr),
		KindOf[ast.ForeachExpr](ast.ClassForeachExpr),
		KindOf[ast.BlockExpr](ast.ClassBlockExpr),

		KindOf[ast.ExprStmt](ast.ClassExprStmt),
		KindOf[ast.DeclStmt](ast.ClassDeclStmt),
		KindOf[ast.ReturnStmt](ast.ClassReturnStmt),
	}
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the registry for ASTKinds, built on first use.
// A failure here is a bug in the node definitions, so it panics.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := Build(ASTKinds()...)
		if err != nil {
			panic(fmt.Errorf("schema: building default registry: %w", err))
		}
		defaultReg = r
	})
	return defaultReg
}
