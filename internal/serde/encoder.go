package serde

import (
	"fmt"
	"reflect"

	"irstore/internal/ast"
	"irstore/internal/schema"
	"irstore/internal/wire"
)

// Encoder writes node records through a wire.Writer, driven only by
// descriptors.
type Encoder struct {
	w     *wire.Writer
	ident func(ast.Ref) ast.Identity
}

// NewEncoder writes records to w, mapping refs to their own identity.
func NewEncoder(w *wire.Writer) *Encoder {
	return &Encoder{w: w, ident: ast.Ref.Identity}
}

// MapRefs replaces the identity written for each reference. Comparing two
// graphs by content uses it to write positions instead of handles.
func (e *Encoder) MapRefs(fn func(ast.Ref) ast.Identity) {
	e.ident = fn
}

// Encode writes one record for node, a *T of d's type.
func (e *Encoder) Encode(d *schema.Descriptor, node any) error {
	e.record(d, d.Elem(node))
	return e.w.Err()
}

func (e *Encoder) record(d *schema.Descriptor, v reflect.Value) {
	if d.Parent != nil {
		e.record(d.Parent, v.Field(d.BaseIndex))
	}
	e.fields(d.Fields, v)
}

func (e *Encoder) fields(fields []schema.Field, v reflect.Value) {
	for i := range fields {
		f := &fields[i]
		if f.Tag == schema.TagTransient {
			continue
		}
		e.value(f.Value, v.Field(f.Index))
	}
}

func (e *Encoder) value(val *schema.Value, v reflect.Value) {
	switch val.Shape {
	case schema.ShapeBool:
		e.w.Bool(v.Bool())
	case schema.ShapeInt:
		e.w.Int(val.Size, v.Int())
	case schema.ShapeUint:
		e.w.Uint(val.Size, v.Uint())
	case schema.ShapeFloat:
		if val.Size == 4 {
			e.w.F32(float32(v.Float()))
		} else {
			e.w.F64(v.Float())
		}
	case schema.ShapeText:
		e.w.Text(v.String())
	case schema.ShapeSeq:
		e.w.Size(v.Len())
		for i := 0; i < v.Len(); i++ {
			e.value(val.Elem, v.Index(i))
		}
	case schema.ShapeArray:
		for i := 0; i < val.Len; i++ {
			e.value(val.Elem, v.Index(i))
		}
	case schema.ShapeAggregate:
		e.fields(val.Fields, v)
	case schema.ShapeIdentity:
		e.w.Identity(e.ident(*refAt(v)))
	default:
		panic(fmt.Sprintf("serde: encoder: unhandled shape %v", val.Shape))
	}
}
