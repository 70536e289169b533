// Package schema describes, per concrete node kind, how to walk its fields
// generically.
//
// Descriptors are derived once from the node structs in internal/ast through
// reflection. The `ir` struct tag marks reference fields (`child`, `use`),
// transient fields (`-`) and the embedded namespace base (`base`); every other
// exported field is a value field. The persistence engine in internal/serde
// only ever looks at descriptors, never at concrete node types.
package schema

import (
	"errors"
	"reflect"

	"irstore/internal/ast"
)

var (
	// ErrUnsupportedField is returned when a field's Go kind or tag cannot be persisted.
	ErrUnsupportedField = errors.New("schema: unsupported field")
	// ErrUnknownClass is returned for a class id with no descriptor.
	ErrUnknownClass = errors.New("schema: unknown class id")
	// ErrDuplicateClass is returned when two kinds claim the same id or name.
	ErrDuplicateClass = errors.New("schema: duplicate class")
)

// Tag classifies a field for persistence.
type Tag uint8

const (
	TagValue Tag = iota
	TagReference
	TagTransient
)

func (t Tag) String() string {
	switch t {
	case TagValue:
		return "value"
	case TagReference:
		return "reference"
	case TagTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Role tells owning edges from plain uses. Only uses feed back-reference sets.
type Role uint8

const (
	RoleNone Role = iota
	RoleChild
	RoleUse
)

func (r Role) String() string {
	switch r {
	case RoleChild:
		return "child"
	case RoleUse:
		return "use"
	default:
		return "none"
	}
}

// Shape is the structural category of a value.
type Shape uint8

const (
	ShapeBool Shape = iota + 1
	ShapeInt
	ShapeUint
	ShapeFloat
	ShapeText
	ShapeSeq       // [u64 length][elements]
	ShapeArray     // fixed count, no prefix
	ShapeAggregate // fields in declaration order
	ShapeIdentity  // ast.Ref written as its legacy identity
)

func (s Shape) String() string {
	switch s {
	case ShapeBool:
		return "bool"
	case ShapeInt:
		return "int"
	case ShapeUint:
		return "uint"
	case ShapeFloat:
		return "float"
	case ShapeText:
		return "text"
	case ShapeSeq:
		return "seq"
	case ShapeArray:
		return "array"
	case ShapeAggregate:
		return "aggregate"
	case ShapeIdentity:
		return "identity"
	default:
		return "unknown"
	}
}

// Value describes how one Go type is walked.
type Value struct {
	Shape  Shape
	Type   reflect.Type
	Size   int     // byte width for numerics
	Len    int     // element count for arrays
	Role   Role    // for ShapeIdentity
	Elem   *Value  // for ShapeSeq and ShapeArray
	Fields []Field // for ShapeAggregate
}

// HasRefs reports whether walking this value can reach an identity.
func (v *Value) HasRefs() bool {
	switch v.Shape {
	case ShapeIdentity:
		return true
	case ShapeSeq, ShapeArray:
		return v.Elem.HasRefs()
	case ShapeAggregate:
		for i := range v.Fields {
			if v.Fields[i].Value != nil && v.Fields[i].Value.HasRefs() {
				return true
			}
		}
	}
	return false
}

// Field is one entry of a descriptor, in declaration order.
type Field struct {
	Name  string
	Index int // struct field index
	Tag   Tag
	Value *Value // nil for transient fields
}

// Descriptor is the schema of one concrete kind, or of a namespace base when
// Class is NoClassID.
type Descriptor struct {
	Class     ast.ClassID
	Name      string
	Namespace ast.Namespace
	Type      reflect.Type
	// Parent fields are written before Fields. BaseIndex is the index of
	// the embedded base inside Type.
	Parent    *Descriptor
	BaseIndex int
	Fields    []Field
}

// IsDecl reports whether nodes of this kind carry a back-reference set.
func (d *Descriptor) IsDecl() bool {
	return d.Namespace == ast.NamespaceDecl
}

// Elem unwraps node, which must be a *T of the descriptor's type.
func (d *Descriptor) Elem(node any) reflect.Value {
	v := reflect.ValueOf(node)
	if v.Kind() != reflect.Pointer || v.Elem().Type() != d.Type {
		panic("schema: " + d.Name + ": node of type " + v.Type().String())
	}
	return v.Elem()
}

var refType = reflect.TypeFor[ast.Ref]()

// MinSize is the smallest number of bytes one encoded value can occupy.
func (v *Value) MinSize() int {
	switch v.Shape {
	case ShapeText, ShapeSeq:
		return 8
	case ShapeArray:
		return v.Len * v.Elem.MinSize()
	case ShapeAggregate:
		n := 0
		for i := range v.Fields {
			if v.Fields[i].Value != nil {
				n += v.Fields[i].Value.MinSize()
			}
		}
		return n
	default:
		return v.Size
	}
}

// MinRecordSize is the smallest encoded size of one node of this kind.
func (d *Descriptor) MinRecordSize() int {
	n := 0
	if d.Parent != nil {
		n += d.Parent.MinRecordSize()
	}
	for i := range d.Fields {
		if d.Fields[i].Value != nil {
			n += d.Fields[i].Value.MinSize()
		}
	}
	return n
}
