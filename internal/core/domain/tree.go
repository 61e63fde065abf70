package domain

import (
	"iter"
	"slices"
)

// Tree is either a single leaf value or an ordered, fixed-arity tuple of subtrees.
// It describes declared output shapes and mirrors them as trees of futures and artifacts.
type Tree[T any] struct {
	value T
	items []Tree[T]
	tuple bool
}

// Leaf returns a tree holding a single value.
func Leaf[T any](v T) Tree[T] {
	return Tree[T]{value: v}
}

// Tuple returns a tree whose elements are the given subtrees, in order.
func Tuple[T any](items ...Tree[T]) Tree[T] {
	return Tree[T]{items: slices.Clone(items), tuple: true}
}

// Leaves returns a tuple of leaf trees, one per value.
func Leaves[T any](values ...T) Tree[T] {
	items := make([]Tree[T], len(values))
	for i, v := range values {
		items[i] = Leaf(v)
	}
	return Tree[T]{items: items, tuple: true}
}

// IsLeaf reports whether the tree is a single value.
func (t Tree[T]) IsLeaf() bool {
	return !t.tuple
}

// Value returns the leaf value, or the zero value for a tuple.
func (t Tree[T]) Value() T {
	return t.value
}

// Len returns the number of tuple elements; a leaf has none.
func (t Tree[T]) Len() int {
	return len(t.items)
}

// At returns the i-th element of a tuple. It panics if i is out of range.
func (t Tree[T]) At(i int) Tree[T] {
	return t.items[i]
}

// Get returns the leaf value at index. An empty index addresses the tree itself.
func (t Tree[T]) Get(index ...int) (T, bool) {
	node := t
	for _, i := range index {
		if node.IsLeaf() || i < 0 || i >= len(node.items) {
			var zero T
			return zero, false
		}
		node = node.items[i]
	}
	if !node.IsLeaf() {
		var zero T
		return zero, false
	}
	return node.value, true
}

// All yields every leaf depth-first, left to right, with its index path.
// The yielded index slice is a copy owned by the caller.
func (t Tree[T]) All() iter.Seq2[[]int, T] {
	return func(yield func([]int, T) bool) {
		t.walk(nil, yield)
	}
}

func (t Tree[T]) walk(prefix []int, yield func([]int, T) bool) bool {
	if t.IsLeaf() {
		return yield(slices.Clone(prefix), t.value)
	}
	for i, item := range t.items {
		if !item.walk(append(prefix, i), yield) {
			return false
		}
	}
	return true
}

// Values returns every leaf value in depth-first, left-to-right order.
func (t Tree[T]) Values() []T {
	var out []T
	for _, v := range t.All() {
		out = append(out, v)
	}
	return out
}

// MapTree builds a tree of the same shape by applying fn to each leaf.
// The first error aborts the traversal and is returned unchanged.
func MapTree[T, U any](t Tree[T], fn func(index []int, v T) (U, error)) (Tree[U], error) {
	return mapTree(t, nil, fn)
}

func mapTree[T, U any](t Tree[T], prefix []int, fn func([]int, T) (U, error)) (Tree[U], error) {
	if t.IsLeaf() {
		v, err := fn(slices.Clone(prefix), t.value)
		if err != nil {
			return Tree[U]{}, err
		}
		return Leaf(v), nil
	}
	items := make([]Tree[U], len(t.items))
	for i, item := range t.items {
		mapped, err := mapTree(item, append(prefix, i), fn)
		if err != nil {
			return Tree[U]{}, err
		}
		items[i] = mapped
	}
	return Tree[U]{items: items, tuple: true}, nil
}
