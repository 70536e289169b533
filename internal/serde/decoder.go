package serde

import (
	"fmt"
	"reflect"

	"irstore/internal/ast"
	"irstore/internal/schema"
	"irstore/internal/wire"
)

// Decoder fills freshly created nodes from a wire.Reader. Reference slots are
// left empty and queued on the patch list; the relocation phase fills them.
type Decoder struct {
	r       *wire.Reader
	patches *Patches
	owner   ast.Ref
}

// NewDecoder reads from r. When r knows its size, sequence lengths are
// checked against it before allocation.
func NewDecoder(r *wire.Reader, patches *Patches) *Decoder {
	return &Decoder{r: r, patches: patches}
}

// Decode reads one record into node, a *T of d's type. owner is the new
// reference of node itself, recorded with every queued patch.
func (dec *Decoder) Decode(d *schema.Descriptor, owner ast.Ref, node any) error {
	dec.owner = owner
	dec.record(d, d.Elem(node))
	return dec.r.Err()
}

func (dec *Decoder) record(d *schema.Descriptor, v reflect.Value) {
	if d.Parent != nil {
		dec.record(d.Parent, v.Field(d.BaseIndex))
	}
	dec.fields(d.Fields, v)
}

func (dec *Decoder) fields(fields []schema.Field, v reflect.Value) {
	for i := range fields {
		f := &fields[i]
		if f.Tag == schema.TagTransient {
			continue
		}
		dec.value(f.Value, v.Field(f.Index))
	}
}

func (dec *Decoder) value(val *schema.Value, v reflect.Value) {
	if dec.r.Err() != nil {
		return
	}
	switch val.Shape {
	case schema.ShapeBool:
		v.SetBool(dec.r.Bool())
	case schema.ShapeInt:
		v.SetInt(dec.r.Int(val.Size))
	case schema.ShapeUint:
		v.SetUint(dec.r.Uint(val.Size))
	case schema.ShapeFloat:
		if val.Size == 4 {
			v.SetFloat(float64(dec.r.F32()))
		} else {
			v.SetFloat(dec.r.F64())
		}
	case schema.ShapeText:
		v.SetString(dec.r.Text())
	case schema.ShapeSeq:
		n := dec.r.Size()
		if dec.r.Err() != nil {
			v.SetZero()
			return
		}
		if n == 0 {
			v.Set(reflect.MakeSlice(val.Type, 0, 0))
			return
		}
		if !dec.fits(n, val.Elem.MinSize()) {
			return
		}
		// Allocated once: queued patches point into the backing array.
		s := reflect.MakeSlice(val.Type, n, n)
		for i := 0; i < n; i++ {
			dec.value(val.Elem, s.Index(i))
		}
		v.Set(s)
	case schema.ShapeArray:
		for i := 0; i < val.Len; i++ {
			dec.value(val.Elem, v.Index(i))
		}
	case schema.ShapeAggregate:
		dec.fields(val.Fields, v)
	case schema.ShapeIdentity:
		id := dec.r.Identity()
		slot := refAt(v)
		*slot = ast.NoRef
		if dec.r.Err() == nil && id != ast.NoIdentity {
			dec.patches.Add(id, PendingPatch{Owner: dec.owner, Slot: slot, Role: val.Role})
		}
	default:
		panic(fmt.Sprintf("serde: decoder: unhandled shape %v", val.Shape))
	}
}

// fits checks that n elements of at least width bytes each can still be
// read, and fails the stream as truncated otherwise.
func (dec *Decoder) fits(n, width int) bool {
	left, ok := dec.r.Remaining()
	if !ok || width == 0 {
		return true
	}
	if int64(n) <= left/int64(width) {
		return true
	}
	dec.r.Fail(fmt.Errorf("%w: sequence of %d needs at least %d bytes at offset %d, %d left",
		wire.ErrTruncated, n, int64(n)*int64(width), dec.r.Offset(), left))
	return false
}

// refAt returns the addressable ast.Ref behind v.
func refAt(v reflect.Value) *ast.Ref {
	return v.Addr().Interface().(*ast.Ref)
}
