package schema

import (
	"fmt"
	"reflect"

	"irstore/internal/ast"
)

const tagKey = "ir"

// Kind names one concrete node struct to register.
type Kind struct {
	Class ast.ClassID
	Name  string
	Type  reflect.Type
}

// KindOf is a convenience for building Kind entries.
func KindOf[T any](class ast.ClassID) Kind {
	return Kind{Class: class, Name: ast.ClassName(class), Type: reflect.TypeFor[T]()}
}

type builder struct {
	bases map[reflect.Type]*Descriptor
}

func (b *builder) descriptor(k Kind) (*Descriptor, error) {
	if k.Type.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is %s, not a struct", ErrUnsupportedField, k.Name, k.Type.Kind())
	}
	d := &Descriptor{
		Class:     k.Class,
		Name:      k.Name,
		Namespace: k.Class.Namespace(),
		Type:      k.Type,
		BaseIndex: -1,
	}
	for i := 0; i < k.Type.NumField(); i++ {
		sf := k.Type.Field(i)
		tag := sf.Tag.Get(tagKey)
		if tag == "base" {
			if i != 0 || !sf.Anonymous {
				return nil, fmt.Errorf("%w: %s.%s: base must be the first embedded field", ErrUnsupportedField, k.Name, sf.Name)
			}
			parent, err := b.base(sf.Type)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k.Name, err)
			}
			d.Parent = parent
			d.BaseIndex = i
			continue
		}
		f, err := field(k.Name, sf, i)
		if err != nil {
			return nil, err
		}
		d.Fields = append(d.Fields, f)
	}
	return d, nil
}

// base builds (once per type) the descriptor of an embedded namespace base.
func (b *builder) base(t reflect.Type) (*Descriptor, error) {
	if d, ok := b.bases[t]; ok {
		return d, nil
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: base %s is not a struct", ErrUnsupportedField, t)
	}
	d := &Descriptor{Name: t.Name(), Type: t, BaseIndex: -1}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Tag.Get(tagKey) == "base" {
			return nil, fmt.Errorf("%w: %s: nested bases are not supported", ErrUnsupportedField, t)
		}
		f, err := field(t.Name(), sf, i)
		if err != nil {
			return nil, err
		}
		d.Fields = append(d.Fields, f)
	}
	b.bases[t] = d
	return d, nil
}

func field(owner string, sf reflect.StructField, index int) (Field, error) {
	tag := sf.Tag.Get(tagKey)
	f := Field{Name: sf.Name, Index: index}
	if tag == "-" {
		f.Tag = TagTransient
		return f, nil
	}
	if !sf.IsExported() {
		return Field{}, fmt.Errorf("%w: %s.%s is unexported and not transient", ErrUnsupportedField, owner, sf.Name)
	}
	var role Role
	switch tag {
	case "":
	case "child":
		role = RoleChild
	case "use":
		role = RoleUse
	default:
		return Field{}, fmt.Errorf("%w: %s.%s: unknown tag %q", ErrUnsupportedField, owner, sf.Name, tag)
	}
	v, err := value(owner+"."+sf.Name, sf.Type, role)
	if err != nil {
		return Field{}, err
	}
	if role != RoleNone && !v.HasRefs() {
		return Field{}, fmt.Errorf("%w: %s.%s: tag %q on a field without references", ErrUnsupportedField, owner, sf.Name, tag)
	}
	f.Value = v
	f.Tag = TagValue
	if v.Shape == ShapeIdentity || (v.Elem != nil && v.Elem.Shape == ShapeIdentity) {
		f.Tag = TagReference
	}
	return f, nil
}

// value derives the walk for t. role is inherited from the enclosing field
// tag and applies to identities reached through sequences and arrays.
func value(path string, t reflect.Type, role Role) (*Value, error) {
	v := &Value{Type: t}
	switch t.Kind() {
	case reflect.Bool:
		v.Shape, v.Size = ShapeBool, 1
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		v.Shape, v.Size = ShapeInt, numericSize(t)
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		v.Shape, v.Size = ShapeUint, numericSize(t)
	case reflect.Float32, reflect.Float64:
		v.Shape, v.Size = ShapeFloat, int(t.Size())
	case reflect.String:
		v.Shape = ShapeText
	case reflect.Slice:
		elem, err := value(path+"[]", t.Elem(), role)
		if err != nil {
			return nil, err
		}
		v.Shape, v.Elem = ShapeSeq, elem
	case reflect.Array:
		elem, err := value(path+"[]", t.Elem(), role)
		if err != nil {
			return nil, err
		}
		v.Shape, v.Elem, v.Len = ShapeArray, elem, t.Len()
	case reflect.Struct:
		if t == refType {
			if role == RoleNone {
				return nil, fmt.Errorf("%w: %s: reference without a child/use tag", ErrUnsupportedField, path)
			}
			v.Shape, v.Role, v.Size = ShapeIdentity, role, 8
			return v, nil
		}
		v.Shape = ShapeAggregate
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.Tag.Get(tagKey) == "base" {
				return nil, fmt.Errorf("%w: %s.%s: base inside an aggregate", ErrUnsupportedField, path, sf.Name)
			}
			f, err := field(path, sf, i)
			if err != nil {
				return nil, err
			}
			v.Fields = append(v.Fields, f)
		}
	default:
		return nil, fmt.Errorf("%w: %s: %s", ErrUnsupportedField, path, t.Kind())
	}
	return v, nil
}

// numericSize pins platform-sized ints to 8 bytes so files are portable.
func numericSize(t reflect.Type) int {
	switch t.Kind() {
	case reflect.Int, reflect.Uint:
		return 8
	default:
		return int(t.Size())
	}
}
