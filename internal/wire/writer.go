package wire

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"fortio.org/safecast"

	"irstore/internal/ast"
)

// Writer appends primitives to a buffered stream.
type Writer struct {
	w   *bufio.Writer
	buf [8]byte
	n   int64
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) write(b []byte) {
	if w.err != nil {
		return
	}
	n, err := w.w.Write(b)
	w.n += int64(n)
	if err != nil {
		w.err = err
	}
}

func (w *Writer) U8(v uint8) {
	w.buf[0] = v
	w.write(w.buf[:1])
}

func (w *Writer) U16(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[:2], v)
	w.write(w.buf[:2])
}

func (w *Writer) U32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[:4], v)
	w.write(w.buf[:4])
}

func (w *Writer) U64(v uint64) {
	binary.LittleEndian.PutUint64(w.buf[:8], v)
	w.write(w.buf[:8])
}

func (w *Writer) I32(v int32) { w.U32(uint32(v)) }
func (w *Writer) I64(v int64) { w.U64(uint64(v)) }

func (w *Writer) Bool(v bool) {
	if v {
		w.U8(1)
		return
	}
	w.U8(0)
}

func (w *Writer) F32(v float32) { w.U32(math.Float32bits(v)) }
func (w *Writer) F64(v float64) { w.U64(math.Float64bits(v)) }

// Uint writes v truncated to width bytes.
func (w *Writer) Uint(width int, v uint64) {
	switch width {
	case 1:
		w.U8(uint8(v))
	case 2:
		w.U16(uint16(v))
	case 4:
		w.U32(uint32(v))
	case 8:
		w.U64(v)
	default:
		w.fail(fmt.Errorf("%w: %d", ErrWidth, width))
	}
}

// Int writes v truncated to width bytes, two's complement.
func (w *Writer) Int(width int, v int64) {
	w.Uint(width, uint64(v))
}

// Size writes a length prefix.
func (w *Writer) Size(n int) {
	v, err := safecast.Conv[uint64](n)
	if err != nil {
		w.fail(fmt.Errorf("%w: %d", ErrLength, n))
		return
	}
	w.U64(v)
}

// Text writes [length][bytes].
func (w *Writer) Text(s string) {
	w.Size(len(s))
	if w.err != nil {
		return
	}
	n, err := w.w.WriteString(s)
	w.n += int64(n)
	if err != nil {
		w.err = err
	}
}

func (w *Writer) Identity(id ast.Identity) { w.U64(uint64(id)) }

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// Offset is the number of bytes accepted so far.
func (w *Writer) Offset() int64 { return w.n }

func (w *Writer) Err() error { return w.err }

// Flush pushes buffered bytes to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}
