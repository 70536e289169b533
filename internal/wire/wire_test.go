package wire

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"irstore/internal/ast"
)

func TestPrimitivesAreLittleEndian(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.U16(0x0102)
	w.I32(-2)
	w.Size(3)
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0x02, 0x01,
		0xfe, 0xff, 0xff, 0xff,
		0x03, 0, 0, 0, 0, 0, 0, 0,
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("bytes = % x, want % x", buf.Bytes(), want)
	}
	if w.Offset() != int64(len(want)) {
		t.Fatalf("offset = %d", w.Offset())
	}
}

func TestWidthsSignExtend(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Int(1, -5)
	w.Int(2, math.MinInt16)
	w.Uint(4, math.MaxUint32)
	w.F32(1.5)
	w.F64(-0.25)
	w.Bool(true)
	w.Text("héllo")
	w.Identity(ast.Ref{Class: ast.ClassVarDecl, Handle: 9}.Identity())
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&buf)
	if v := r.Int(1); v != -5 {
		t.Errorf("Int(1) = %d", v)
	}
	if v := r.Int(2); v != math.MinInt16 {
		t.Errorf("Int(2) = %d", v)
	}
	if v := r.Uint(4); v != math.MaxUint32 {
		t.Errorf("Uint(4) = %d", v)
	}
	if v := r.F32(); v != 1.5 {
		t.Errorf("F32 = %v", v)
	}
	if v := r.F64(); v != -0.25 {
		t.Errorf("F64 = %v", v)
	}
	if !r.Bool() {
		t.Error("Bool = false")
	}
	if s := r.Text(); s != "héllo" {
		t.Errorf("Text = %q", s)
	}
	if ref := ast.RefFromIdentity(r.Identity()); ref != (ast.Ref{Class: ast.ClassVarDecl, Handle: 9}) {
		t.Errorf("Identity = %v", ref)
	}
	if !r.AtEOF() || r.Err() != nil {
		t.Fatalf("expected clean EOF, err=%v", r.Err())
	}
}

func TestTruncationIsSticky(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 2, 3}))
	_ = r.U32()
	if !errors.Is(r.Err(), ErrTruncated) {
		t.Fatalf("err = %v, want ErrTruncated", r.Err())
	}
	if v := r.U8(); v != 0 {
		t.Fatalf("reads after an error must yield zero, got %d", v)
	}
	if r.AtEOF() {
		t.Fatal("a failed stream is not at a clean EOF")
	}
}

func TestTextLongerThanStream(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Size(1 << 40)
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	r := NewReader(bytes.NewReader(buf.Bytes()))
	r.SetSize(int64(buf.Len()))
	if s := r.Text(); s != "" || !errors.Is(r.Err(), ErrTruncated) {
		t.Fatalf("Text = %q, err = %v", s, r.Err())
	}
}

func TestBadWidth(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Uint(3, 1)
	if !errors.Is(w.Err(), ErrWidth) {
		t.Fatalf("writer err = %v", w.Err())
	}
	r := NewReader(bytes.NewReader(make([]byte, 8)))
	_ = r.Int(5)
	if !errors.Is(r.Err(), ErrWidth) {
		t.Fatalf("reader err = %v", r.Err())
	}
}
