package ast

import "testing"

func TestArenaHandlesAreNeverReused(t *testing.T) {
	a := NewArena[IntegerLiteralExpr](ClassIntegerLiteralExpr, 0)
	h1 := a.Allocate(IntegerLiteralExpr{Value: 1})
	h2 := a.Allocate(IntegerLiteralExpr{Value: 2})
	if h1 != 1 || h2 != 2 {
		t.Fatalf("handles = %d, %d; want 1, 2", h1, h2)
	}
	a.Destroy(h1)
	a.Clear()
	if h3 := a.Allocate(IntegerLiteralExpr{Value: 3}); h3 != 3 {
		t.Fatalf("handle after clear = %d, want 3", h3)
	}
	if a.Len() != 1 {
		t.Fatalf("Len = %d", a.Len())
	}
}

func TestArenaDestroyKeepsOrder(t *testing.T) {
	a := NewArena[IntegerLiteralExpr](ClassIntegerLiteralExpr, 0)
	var hs []Handle
	for v := range uint64(5) {
		hs = append(hs, a.Allocate(IntegerLiteralExpr{Value: v}))
	}
	a.Destroy(hs[0])
	a.Destroy(hs[3])

	var got []uint64
	a.Each(func(ordinal int, _ Handle, e *IntegerLiteralExpr) bool {
		if ordinal != len(got) {
			t.Fatalf("ordinal %d out of sequence", ordinal)
		}
		got = append(got, e.Value)
		return true
	})
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 4 {
		t.Fatalf("live values = %v", got)
	}

	h, e := a.At(2)
	if h != hs[4] || e.Value != 4 {
		t.Fatalf("At(2) = %d/%d", h, e.Value)
	}
	if pos, ok := a.Ordinal(hs[2]); !ok || pos != 1 {
		t.Fatalf("Ordinal = %d, %v", pos, ok)
	}
	if _, ok := a.Lookup(hs[0]); ok {
		t.Fatal("destroyed handle still resolves")
	}
	if got := a.Get(hs[4]); got.Value != 4 {
		t.Fatalf("Get after compaction = %d", got.Value)
	}
}

func TestArenaReserveKeepsSlotsStable(t *testing.T) {
	a := NewArena[VarDecl](ClassVarDecl, 0)
	a.Reserve(16)
	_, first := a.New()
	for range 15 {
		a.New()
	}
	h, _ := a.At(0)
	if a.Get(h) != first {
		t.Fatal("slot moved although capacity was reserved")
	}
}

func TestArenaGetUnknownPanics(t *testing.T) {
	a := NewArena[VarDecl](ClassVarDecl, 0)
	if a.Get(NoHandle) != nil {
		t.Fatal("Get(NoHandle) must be nil")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown handle")
		}
	}()
	a.Get(42)
}

func TestArenaAsPool(t *testing.T) {
	var p Pool = NewArena[StringLiteralExpr](ClassStringLiteralExpr, 0)
	h, n := p.NewNode()
	n.(*StringLiteralExpr).Value = "x"
	got, ok := p.Node(h)
	if !ok || got.(*StringLiteralExpr).Value != "x" {
		t.Fatalf("Node(%d) = %v, %v", h, got, ok)
	}
	count := 0
	p.EachNode(func(int, Handle, any) bool { count++; return true })
	if count != 1 || p.Class() != ClassStringLiteralExpr {
		t.Fatalf("count=%d class=%d", count, p.Class())
	}
}

func TestRefIdentity(t *testing.T) {
	r := Ref{Class: ClassFuncDecl, Handle: 17}
	id := r.Identity()
	if RefFromIdentity(id) != r {
		t.Fatalf("identity %v does not unpack to %v", id, r)
	}
	if NoRef.Identity() != NoIdentity || RefFromIdentity(NoIdentity) != NoRef {
		t.Fatal("empty ref must map to the empty identity")
	}
	if r.String() != "FuncDecl#17" {
		t.Fatalf("String = %q", r.String())
	}
	if ClassReturnStmt.Namespace() != NamespaceStmt || ClassListType.Namespace() != NamespaceType {
		t.Fatal("namespace derivation broken")
	}
}
