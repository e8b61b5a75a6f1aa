// Package pagebuf implements Buffer, a double-ended growable array backed by
// fixed-size pages.
//
// Logical indices are signed. Elements appended with Push live at indices
// [0, end) on the positive page list; elements prepended with Unshift live at
// [start, 0) on the negative page list, where index i maps to negative slot ^i
// (so -1 is slot 0, -2 is slot 1, ...). Pages are allocated lazily, exactly
// when a bound crosses a page boundary, and are never pre-allocated in bulk.
//
//	negative pages          positive pages
//	... [-3][-2][-1] | [0][1][2] ...
//	    ^start                  ^end (exclusive)
//
// Push, Unshift and Pop are amortized O(1); At and Get are O(1).
// A Buffer is not safe for concurrent use.
package pagebuf

import (
	"iter"
	"math"
	"os"
	"unsafe"

	"github.com/opal-lang/crux/core/invariant"
)

const (
	// maxPageBytes caps the byte size of a page regardless of the platform page size.
	maxPageBytes = 1024

	// MinPageElems is the smallest page capacity used for large element types.
	MinPageElems = 8
)

// Releaser is implemented by elements that hold resources of their own.
// Release calls it on every live element before dropping the pages.
type Releaser interface {
	Release()
}

// Buffer is a paged deque addressed through a split positive/negative index
// space. The zero value is not usable; call New or NewSized.
type Buffer[T any] struct {
	positive [][]T
	negative [][]T
	start    int
	end      int
	pageCap  int
}

// New returns an empty buffer whose page capacity is derived from the
// platform page size and the size of T.
func New[T any]() *Buffer[T] {
	return NewSized[T](PageCapacity[T]())
}

// NewSized returns an empty buffer holding pageCap elements per page.
func NewSized[T any](pageCap int) *Buffer[T] {
	invariant.Positive(pageCap, "page capacity")
	return &Buffer[T]{pageCap: pageCap}
}

// PageCapacity returns the number of T that fit in one page:
// min(platform page size, maxPageBytes) / sizeof(T), never below MinPageElems.
func PageCapacity[T any]() int {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		size = 1
	}
	n := min(os.Getpagesize(), maxPageBytes) / size
	return max(n, MinPageElems)
}

// PageCap returns the number of elements stored per page.
func (b *Buffer[T]) PageCap() int {
	return b.pageCap
}

// Pages returns the number of allocated (positive, negative) pages.
func (b *Buffer[T]) Pages() (positive, negative int) {
	return len(b.positive), len(b.negative)
}

// Len returns end - start.
func (b *Buffer[T]) Len() int {
	return b.end - b.start
}

// Bounds returns the logical [start, end) range of live elements.
func (b *Buffer[T]) Bounds() (start, end int) {
	return b.start, b.end
}

// slot translates a logical index into its backing element.
func (b *Buffer[T]) slot(index int) *T {
	pages, offset := b.positive, index
	if index < 0 {
		pages, offset = b.negative, ^index
	}
	return &pages[offset/b.pageCap][offset%b.pageCap]
}

func (b *Buffer[T]) newPage() []T {
	return make([]T, b.pageCap)
}

// Push appends item after the right bound.
func (b *Buffer[T]) Push(item T) {
	invariant.Precondition(b.end < math.MaxInt, "pagebuf: push would overflow the right bound")

	if len(b.positive)*b.pageCap == b.end {
		b.positive = append(b.positive, b.newPage())
	}

	*b.slot(b.end) = item
	b.end++
}

// Unshift prepends item before the left bound.
func (b *Buffer[T]) Unshift(item T) {
	invariant.Precondition(b.start > math.MinInt, "pagebuf: unshift would overflow the left bound")

	if -len(b.negative)*b.pageCap == b.start {
		b.negative = append(b.negative, b.newPage())
	}

	b.start--
	*b.slot(b.start) = item
}

// Pop removes and returns the rightmost element. ok is false when the buffer is empty.
func (b *Buffer[T]) Pop() (item T, ok bool) {
	if b.Len() == 0 {
		return item, false
	}

	b.end--
	p := b.slot(b.end)
	item = *p

	var zero T
	*p = zero
	return item, true
}

// Prepend drains src from its right end, unshifting every element into b, so
// that src's former contents appear in their original order at the front of b.
// src is left empty with its pages dropped and must not be reused.
func (b *Buffer[T]) Prepend(src *Buffer[T]) {
	invariant.Precondition(src != b, "pagebuf: cannot prepend a buffer to itself")

	want := b.Len() + src.Len()
	for {
		item, ok := src.Pop()
		if !ok {
			break
		}
		b.Unshift(item)
	}
	src.drop()

	invariant.Postcondition(b.Len() == want, "pagebuf: prepend lost elements (have %d, want %d)", b.Len(), want)
}

// Concat drains src from its left end, pushing every element onto b, so that
// src's former contents appear in their original order at the back of b.
// src is left empty with its pages dropped and must not be reused.
func (b *Buffer[T]) Concat(src *Buffer[T]) {
	invariant.Precondition(src != b, "pagebuf: cannot concat a buffer to itself")

	for i := src.start; i < src.end; i++ {
		p := src.slot(i)
		b.Push(*p)

		var zero T
		*p = zero
	}
	src.drop()
}

// At returns the element at a logical index in [start, end).
func (b *Buffer[T]) At(index int) (item T, ok bool) {
	if index < b.start || index >= b.end {
		return item, false
	}
	return *b.slot(index), true
}

// Get returns the element at a relative index in [0, Len()).
func (b *Buffer[T]) Get(index int) (item T, ok bool) {
	if index < 0 || index >= b.Len() {
		return item, false
	}
	return *b.slot(b.start + index), true
}

// MustGet is Get for callers that already checked the bounds.
func (b *Buffer[T]) MustGet(index int) T {
	invariant.InRange(index, 0, b.Len()-1, "pagebuf index")
	return *b.slot(b.start + index)
}

// All yields (relative index, element) pairs from left to right.
func (b *Buffer[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := b.start; i < b.end; i++ {
			if !yield(i-b.start, *b.slot(i)) {
				return
			}
		}
	}
}

// Backward yields (relative index, element) pairs from right to left.
func (b *Buffer[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := b.end - 1; i >= b.start; i-- {
			if !yield(i-b.start, *b.slot(i)) {
				return
			}
		}
	}
}

// Release runs Release on every live element implementing Releaser, in
// left-to-right order, then drops every page. The buffer is empty afterwards
// and may be reused.
func (b *Buffer[T]) Release() {
	for i := b.start; i < b.end; i++ {
		p := b.slot(i)
		if r, ok := any(*p).(Releaser); ok {
			r.Release()
		}
	}
	b.drop()
}

// drop clears every page reference without running element releasers.
func (b *Buffer[T]) drop() {
	clear(b.positive)
	clear(b.negative)
	b.positive = nil
	b.negative = nil
	b.start = 0
	b.end = 0
}
