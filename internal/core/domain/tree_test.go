package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fileflow/internal/core/domain"
)

func TestTree_Leaf(t *testing.T) {
	tree := domain.Leaf("a")

	assert.True(t, tree.IsLeaf())
	assert.Equal(t, "a", tree.Value())
	assert.Equal(t, 0, tree.Len())

	v, ok := tree.Get()
	require.True(t, ok)
	assert.Equal(t, "a", v)
}

func TestTree_NestedIndexPaths(t *testing.T) {
	// (A, (B, A))
	tree := domain.Tuple(
		domain.Leaf("A"),
		domain.Tuple(domain.Leaf("B"), domain.Leaf("A")),
	)

	require.False(t, tree.IsLeaf())
	require.Equal(t, 2, tree.Len())
	assert.True(t, tree.At(0).IsLeaf())
	assert.Equal(t, 2, tree.At(1).Len())

	var indexes [][]int
	var values []string
	for index, v := range tree.All() {
		indexes = append(indexes, index)
		values = append(values, v)
	}

	assert.Equal(t, [][]int{{0}, {1, 0}, {1, 1}}, indexes)
	assert.Equal(t, []string{"A", "B", "A"}, values)
	assert.Equal(t, []string{"A", "B", "A"}, tree.Values())
}

func TestTree_Get(t *testing.T) {
	tree := domain.Tuple(
		domain.Leaf(1),
		domain.Tuple(domain.Leaf(2), domain.Leaf(3)),
	)

	v, ok := tree.Get(1, 1)
	require.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok = tree.Get(1)
	assert.False(t, ok, "tuple element is not a leaf")

	_, ok = tree.Get(2)
	assert.False(t, ok, "out of range")

	_, ok = tree.Get(0, 0)
	assert.False(t, ok, "cannot index into a leaf")
}

func TestTree_Leaves(t *testing.T) {
	tree := domain.Leaves("x", "y")

	require.Equal(t, 2, tree.Len())
	assert.Equal(t, []string{"x", "y"}, tree.Values())
}

func TestMapTree(t *testing.T) {
	tree := domain.Tuple(
		domain.Leaf(1),
		domain.Tuple(domain.Leaf(2), domain.Leaf(3)),
	)

	t.Run("preserves shape", func(t *testing.T) {
		doubled, err := domain.MapTree(tree, func(_ []int, v int) (int, error) {
			return v * 2, nil
		})
		require.NoError(t, err)

		assert.Equal(t, 2, doubled.Len())
		assert.Equal(t, 2, doubled.At(1).Len())
		assert.Equal(t, []int{2, 4, 6}, doubled.Values())
	})

	t.Run("stops at first error", func(t *testing.T) {
		boom := errors.New("boom")
		var visited [][]int
		_, err := domain.MapTree(tree, func(index []int, v int) (int, error) {
			visited = append(visited, index)
			if v == 2 {
				return 0, boom
			}
			return v, nil
		})

		require.ErrorIs(t, err, boom)
		assert.Equal(t, [][]int{{0}, {1, 0}}, visited)
	})
}
