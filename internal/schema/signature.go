package schema

import (
	"strconv"
	"strings"
)

// Signature lists the persisted fields of d, parent first, one entry per
// field as "Name:layout". Two descriptors with equal signatures read and write
// byte-identical records, so the manifest stores it to catch layout drift.
func (d *Descriptor) Signature() []string {
	var out []string
	if d.Parent != nil {
		out = append(out, d.Parent.Signature()...)
	}
	for i := range d.Fields {
		f := &d.Fields[i]
		if f.Tag == TagTransient {
			continue
		}
		out = append(out, f.Name+":"+f.Value.layout())
	}
	return out
}

func (v *Value) layout() string {
	switch v.Shape {
	case ShapeInt:
		return "i" + strconv.Itoa(v.Size*8)
	case ShapeUint:
		return "u" + strconv.Itoa(v.Size*8)
	case ShapeFloat:
		return "f" + strconv.Itoa(v.Size*8)
	case ShapeIdentity:
		return "ref/" + v.Role.String()
	case ShapeSeq:
		return "[]" + v.Elem.layout()
	case ShapeArray:
		return "[" + strconv.Itoa(v.Len) + "]" + v.Elem.layout()
	case ShapeAggregate:
		parts := make([]string, 0, len(v.Fields))
		for i := range v.Fields {
			f := &v.Fields[i]
			if f.Tag == TagTransient {
				continue
			}
			parts = append(parts, f.Name+":"+f.Value.layout())
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return v.Shape.String()
	}
}
