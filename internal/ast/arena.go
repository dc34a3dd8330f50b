package ast

// Arena is a generic, append-only store for AST payloads.
//
// IDs handed out by Allocate are 1-based so the zero value of every
// typed ID means "absent". Index 0 is never occupied.
type Arena[T any] struct {
	items []T
}

// Allocate stores v and returns its 1-based index.
func (a *Arena[T]) Allocate(v T) uint32 {
	a.items = append(a.items, v)
	return uint32(len(a.items))
}

// Get returns a pointer to the element for a 1-based id, or nil when
// the id is zero or out of range.
func (a *Arena[T]) Get(id uint32) *T {
	if id == 0 || int(id) > len(a.items) {
		return nil
	}
	return &a.items[id-1]
}

// Len reports the number of allocated elements.
func (a *Arena[T]) Len() int { return len(a.items) }

// Slice exposes the backing storage. Indices are 0-based; callers that
// hold typed IDs should prefer Get.
func (a *Arena[T]) Slice() []T { return a.items }

// Reserve grows the backing storage so that at least n more elements
// can be allocated without reallocation.
func (a *Arena[T]) Reserve(n int) {
	if n <= 0 {
		return
	}
	if cap(a.items)-len(a.items) >= n {
		return
	}
	grown := make([]T, len(a.items), len(a.items)+n)
	copy(grown, a.items)
	a.items = grown
}
