// Package wire holds the fixed-width binary primitives of the artifact format.
//
// All numerics are little-endian. Lengths (counts, text, sequences) are
// unsigned 64-bit. Identities are unsigned 64-bit. Writer and Reader keep the
// first error they hit and turn every later call into a no-op, so callers can
// write a whole record and check Err once.
package wire

import (
	"errors"
)

var (
	// ErrTruncated means the stream ended in the middle of a record.
	ErrTruncated = errors.New("wire: truncated stream")
	// ErrWidth means a numeric width other than 1, 2, 4 or 8 was requested.
	ErrWidth = errors.New("wire: unsupported numeric width")
	// ErrLength means a length prefix does not fit the platform int.
	ErrLength = errors.New("wire: length out of range")
)

// SizeWidth is the on-disk width of every length prefix.
const SizeWidth = 8
