package ast

import "fmt"

type (
	// ClassID is the globally unique id of a concrete node kind.
	// All four namespaces share one id space.
	ClassID int32
	// Handle is an arena-local serial minted at creation. Never reused.
	Handle uint32
	// Identity is the fixed-width form of a Ref written to disk.
	Identity uint64
)

const (
	NoClassID  ClassID  = 0
	NoHandle   Handle   = 0
	NoIdentity Identity = 0
)

func (id ClassID) IsValid() bool { return id != NoClassID }
func (h Handle) IsValid() bool   { return h != NoHandle }

// Namespace is one of the four closed node families.
type Namespace uint8

const (
	NamespaceNone Namespace = iota
	NamespaceType
	NamespaceDecl
	NamespaceExpr
	NamespaceStmt
)

func (n Namespace) String() string {
	switch n {
	case NamespaceType:
		return "type"
	case NamespaceDecl:
		return "decl"
	case NamespaceExpr:
		return "expr"
	case NamespaceStmt:
		return "stmt"
	default:
		return "none"
	}
}

// Namespace derives the family from the thousands digit of the class id.
func (id ClassID) Namespace() Namespace {
	switch id / 1000 {
	case 1:
		return NamespaceType
	case 2:
		return NamespaceDecl
	case 3:
		return NamespaceExpr
	case 4:
		return NamespaceStmt
	default:
		return NamespaceNone
	}
}

// Ref points at a node in some arena of a Store.
// It is used both for owning child edges and for non-owning uses.
type Ref struct {
	Class  ClassID
	Handle Handle
}

// NoRef is the empty reference.
var NoRef = Ref{}

func (r Ref) IsValid() bool { return r.Class.IsValid() && r.Handle.IsValid() }

// Identity packs the ref into its on-disk form.
func (r Ref) Identity() Identity {
	if !r.IsValid() {
		return NoIdentity
	}
	return Identity(uint64(uint32(r.Class))<<32 | uint64(r.Handle))
}

// RefFromIdentity unpacks an identity written by Ref.Identity.
func RefFromIdentity(id Identity) Ref {
	if id == NoIdentity {
		return NoRef
	}
	return Ref{
		Class:  ClassID(int32(uint32(uint64(id) >> 32))),
		Handle: Handle(uint32(uint64(id))),
	}
}

func (r Ref) String() string {
	if !r.IsValid() {
		return "<none>"
	}
	if name := ClassName(r.Class); name != "" {
		return fmt.Sprintf("%s#%d", name, r.Handle)
	}
	return fmt.Sprintf("%d#%d", r.Class, r.Handle)
}

func (id Identity) String() string {
	return fmt.Sprintf("0x%016x", uint64(id))
}
