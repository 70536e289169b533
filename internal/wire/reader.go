package wire

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"fortio.org/safecast"

	"irstore/internal/ast"
)

// Reader consumes primitives from a buffered stream.
type Reader struct {
	r    *bufio.Reader
	buf  [8]byte
	off  int64
	size int64 // -1 when unknown
	err  error
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r), size: -1}
}

// SetSize declares the total stream length so that length prefixes larger
// than what is left fail as truncated before anything is allocated.
func (r *Reader) SetSize(n int64) { r.size = n }

// Remaining reports the unread byte count when the size is known.
func (r *Reader) Remaining() (int64, bool) {
	if r.size < 0 {
		return 0, false
	}
	return r.size - r.off, true
}

func (r *Reader) read(b []byte) bool {
	if r.err != nil {
		return false
	}
	n, err := io.ReadFull(r.r, b)
	r.off += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = fmt.Errorf("%w: need %d bytes at offset %d, got %d", ErrTruncated, len(b), r.off-int64(n), n)
		}
		r.err = err
		return false
	}
	return true
}

func (r *Reader) U8() uint8 {
	if !r.read(r.buf[:1]) {
		return 0
	}
	return r.buf[0]
}

func (r *Reader) U16() uint16 {
	if !r.read(r.buf[:2]) {
		return 0
	}
	return binary.LittleEndian.Uint16(r.buf[:2])
}

func (r *Reader) U32() uint32 {
	if !r.read(r.buf[:4]) {
		return 0
	}
	return binary.LittleEndian.Uint32(r.buf[:4])
}

func (r *Reader) U64() uint64 {
	if !r.read(r.buf[:8]) {
		return 0
	}
	return binary.LittleEndian.Uint64(r.buf[:8])
}

func (r *Reader) I32() int32 { return int32(r.U32()) }
func (r *Reader) I64() int64 { return int64(r.U64()) }

// Bool accepts any non-zero byte as true.
func (r *Reader) Bool() bool { return r.U8() != 0 }

func (r *Reader) F32() float32 { return math.Float32frombits(r.U32()) }
func (r *Reader) F64() float64 { return math.Float64frombits(r.U64()) }

// Uint reads width bytes zero-extended.
func (r *Reader) Uint(width int) uint64 {
	switch width {
	case 1:
		return uint64(r.U8())
	case 2:
		return uint64(r.U16())
	case 4:
		return uint64(r.U32())
	case 8:
		return r.U64()
	default:
		r.Fail(fmt.Errorf("%w: %d", ErrWidth, width))
		return 0
	}
}

// Int reads width bytes sign-extended.
func (r *Reader) Int(width int) int64 {
	switch width {
	case 1:
		return int64(int8(r.U8()))
	case 2:
		return int64(int16(r.U16()))
	case 4:
		return int64(int32(r.U32()))
	case 8:
		return int64(r.U64())
	default:
		r.Fail(fmt.Errorf("%w: %d", ErrWidth, width))
		return 0
	}
}

// Size reads a length prefix.
func (r *Reader) Size() int {
	v := r.U64()
	if r.err != nil {
		return 0
	}
	n, err := safecast.Conv[int](v)
	if err != nil {
		r.Fail(fmt.Errorf("%w: %d at offset %d", ErrLength, v, r.off-SizeWidth))
		return 0
	}
	return n
}

// Text reads [length][bytes].
func (r *Reader) Text() string {
	n := r.Size()
	if r.err != nil || n == 0 {
		return ""
	}
	if left, ok := r.Remaining(); ok && int64(n) > left {
		r.Fail(fmt.Errorf("%w: text of %d bytes at offset %d, %d left", ErrTruncated, n, r.off, left))
		return ""
	}
	b := make([]byte, n)
	if !r.read(b) {
		return ""
	}
	return string(b)
}

func (r *Reader) Identity() ast.Identity { return ast.Identity(r.U64()) }

// AtEOF reports whether the stream is exhausted exactly at a record boundary.
func (r *Reader) AtEOF() bool {
	if r.err != nil {
		return false
	}
	_, err := r.r.Peek(1)
	if err == nil {
		return false
	}
	if !errors.Is(err, io.EOF) {
		r.err = err
	}
	return errors.Is(err, io.EOF)
}

// Fail records err unless an earlier error is already stored.
func (r *Reader) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Offset is the number of bytes consumed so far.
func (r *Reader) Offset() int64 { return r.off }

func (r *Reader) Err() error { return r.err }
