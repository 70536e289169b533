package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena is an insertion-ordered store of one concrete node kind.
// Every element is identified by a Handle minted at creation; handles are
// 1-based and never reused, so 0 always means "no element".
//
// Pointers returned by Get/At/New stay valid until the next growth of the
// backing slice or the next compaction. Reserve before bulk allocation keeps
// them valid for the whole batch.
type Arena[T any] struct {
	class   ClassID
	data    []T
	handles []Handle // parallel to data; NoHandle marks a destroyed slot
	index   map[Handle]int
	next    Handle
	dead    int
}

// NewArena creates an arena for the given class with an initial capacity of capHint.
func NewArena[T any](class ClassID, capHint uint) *Arena[T] {
	return &Arena[T]{
		class:   class,
		data:    make([]T, 0, capHint),
		handles: make([]Handle, 0, capHint),
		index:   make(map[Handle]int, capHint),
	}
}

// Class is the kind id every node in this arena belongs to.
func (a *Arena[T]) Class() ClassID { return a.class }

// Allocate appends value and returns its handle.
func (a *Arena[T]) Allocate(value T) Handle {
	h, slot := a.New()
	*slot = value
	return h
}

// New appends a zero value and returns its handle and slot.
func (a *Arena[T]) New() (Handle, *T) {
	next, err := safecast.Conv[uint32](uint64(a.next) + 1)
	if err != nil {
		panic(fmt.Errorf("arena %d: handle overflow: %w", a.class, err))
	}
	h := Handle(next)
	a.next = h
	var zero T
	a.data = append(a.data, zero)
	a.handles = append(a.handles, h)
	pos := len(a.data) - 1
	a.index[h] = pos
	return h, &a.data[pos]
}

// Get returns the element for h, nil for NoHandle. Unknown handles panic.
func (a *Arena[T]) Get(h Handle) *T {
	if h == NoHandle {
		return nil
	}
	pos, ok := a.index[h]
	if !ok {
		panic(fmt.Sprintf("arena %d: unknown handle %d", a.class, h))
	}
	return &a.data[pos]
}

// Lookup is Get without the panic.
func (a *Arena[T]) Lookup(h Handle) (*T, bool) {
	pos, ok := a.index[h]
	if !ok {
		return nil, false
	}
	return &a.data[pos], true
}

// Destroy removes the element in O(1). The slot becomes a tombstone until the
// next compaction. Must not be called while a load session is pending.
func (a *Arena[T]) Destroy(h Handle) {
	pos, ok := a.index[h]
	if !ok {
		panic(fmt.Sprintf("arena %d: destroy of unknown handle %d", a.class, h))
	}
	var zero T
	a.data[pos] = zero
	a.handles[pos] = NoHandle
	delete(a.index, h)
	a.dead++
}

// Reserve grows the capacity to at least n slots.
func (a *Arena[T]) Reserve(n int) {
	a.compact()
	if n <= cap(a.data) {
		return
	}
	data := make([]T, len(a.data), n)
	copy(data, a.data)
	a.data = data
	handles := make([]Handle, len(a.handles), n)
	copy(handles, a.handles)
	a.handles = handles
}

// Len returns the number of live elements.
func (a *Arena[T]) Len() int {
	return len(a.data) - a.dead
}

// Each visits live elements in insertion order until fn returns false.
// fn must not allocate into or destroy from this arena.
func (a *Arena[T]) Each(fn func(ordinal int, h Handle, v *T) bool) {
	ordinal := 0
	for pos, h := range a.handles {
		if h == NoHandle {
			continue
		}
		if !fn(ordinal, h, &a.data[pos]) {
			return
		}
		ordinal++
	}
}

// At returns the ordinal-th live element in insertion order.
func (a *Arena[T]) At(ordinal int) (Handle, *T) {
	a.compact()
	if ordinal < 0 || ordinal >= len(a.data) {
		panic(fmt.Sprintf("arena %d: ordinal %d out of range [0,%d)", a.class, ordinal, len(a.data)))
	}
	return a.handles[ordinal], &a.data[ordinal]
}

// Ordinal reports the insertion-order position of h among live elements.
func (a *Arena[T]) Ordinal(h Handle) (int, bool) {
	a.compact()
	pos, ok := a.index[h]
	return pos, ok
}

// Clear drops every element. Handles keep counting from where they were.
func (a *Arena[T]) Clear() {
	a.data = a.data[:0]
	a.handles = a.handles[:0]
	clear(a.index)
	a.dead = 0
}

// READONLY. Contains tombstones (zero values) if anything was destroyed.
func (a *Arena[T]) Slice() []T {
	a.compact()
	return a.data
}

func (a *Arena[T]) compact() {
	if a.dead == 0 {
		return
	}
	w := 0
	for r, h := range a.handles {
		if h == NoHandle {
			continue
		}
		if w != r {
			a.data[w] = a.data[r]
			a.handles[w] = h
			a.index[h] = w
		}
		w++
	}
	var zero T
	for i := w; i < len(a.data); i++ {
		a.data[i] = zero
	}
	a.data = a.data[:w]
	a.handles = a.handles[:w]
	a.dead = 0
}

// Pool is the type-erased view of an arena the persistence engine drives.
// Node values are always *T of the arena's element type.
type Pool interface {
	Class() ClassID
	Len() int
	Reserve(n int)
	Clear()
	NewNode() (Handle, any)
	Node(h Handle) (any, bool)
	NodeAt(ordinal int) (Handle, any)
	EachNode(fn func(ordinal int, h Handle, node any) bool)
	Destroy(h Handle)
}

// NewNode allocates a zero node and returns it as a *T.
func (a *Arena[T]) NewNode() (Handle, any) {
	h, slot := a.New()
	return h, slot
}

// Node returns the live node for h as a *T.
func (a *Arena[T]) Node(h Handle) (any, bool) {
	v, ok := a.Lookup(h)
	if !ok {
		return nil, false
	}
	return v, true
}

// NodeAt is At without the element type.
func (a *Arena[T]) NodeAt(ordinal int) (Handle, any) {
	h, v := a.At(ordinal)
	return h, v
}

// EachNode is Each without the element type.
func (a *Arena[T]) EachNode(fn func(ordinal int, h Handle, node any) bool) {
	a.Each(func(ordinal int, h Handle, v *T) bool {
		return fn(ordinal, h, v)
	})
}
