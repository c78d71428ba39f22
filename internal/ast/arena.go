package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena stores nodes of one type; indices are 1-based so that 0 means "no node".
type Arena[T any] struct {
	data []T
}

// NewArena creates an arena with the given initial capacity; zero is allowed.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		data: make([]T, 0, capHint),
	}
}

// Allocate appends value and returns its 1-based index.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	idx, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	return idx
}

// Get returns nil for index 0 or an index past the end.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || int(index) > len(a.data) {
		return nil
	}
	return &a.data[index-1]
}

// Slice exposes the backing storage; callers must not modify it.
func (a *Arena[T]) Slice() []T {
	return a.data
}

func (a *Arena[T]) Len() uint32 {
	return uint32(len(a.data)) //nolint:gosec // bounded in Allocate
}
