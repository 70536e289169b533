package schema

import (
	"reflect"

	"irstore/internal/ast"
)

// RefVisitor receives every persisted reference slot of a node.
type RefVisitor func(role Role, slot *ast.Ref)

// EachRef visits the reference slots of node (a *T for this descriptor),
// parent fields first, in descriptor order. Slots are addressable, so the
// visitor may rewrite them.
func (d *Descriptor) EachRef(node any, fn RefVisitor) {
	eachRef(d, d.Elem(node), fn)
}

func eachRef(d *Descriptor, v reflect.Value, fn RefVisitor) {
	if d.Parent != nil {
		eachRef(d.Parent, v.Field(d.BaseIndex), fn)
	}
	eachFieldRef(d.Fields, v, fn)
}

func eachFieldRef(fields []Field, v reflect.Value, fn RefVisitor) {
	for i := range fields {
		f := &fields[i]
		if f.Tag == TagTransient || !f.Value.HasRefs() {
			continue
		}
		walkRef(f.Value, v.Field(f.Index), fn)
	}
}

func walkRef(val *Value, v reflect.Value, fn RefVisitor) {
	switch val.Shape {
	case ShapeIdentity:
		fn(val.Role, v.Addr().Interface().(*ast.Ref))
	case ShapeSeq, ShapeArray:
		for i := 0; i < v.Len(); i++ {
			walkRef(val.Elem, v.Index(i), fn)
		}
	case ShapeAggregate:
		eachFieldRef(val.Fields, v, fn)
	}
}
