package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestBuildCategoryTree_NestedAndOrdered(t *testing.T) {
	// Flat list ordered by name, as the repository returns it:
	// A(root), B(child of A), C(root).
	flat := []Category{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B", ParentID: ptr("a")},
		{ID: "c", Name: "C"},
	}

	tree := BuildCategoryTree(flat)

	require.Len(t, tree, 2)
	assert.Equal(t, "A", tree[0].Name)
	assert.Equal(t, "C", tree[1].Name)

	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "B", tree[0].Children[0].Name)
	assert.Empty(t, tree[1].Children)
}

func TestBuildCategoryTree_Empty(t *testing.T) {
	assert.Empty(t, BuildCategoryTree(nil))
}

func TestBuildCategoryTree_DeepNesting(t *testing.T) {
	flat := []Category{
		{ID: "1", Name: "Work"},
		{ID: "2", Name: "Banking", ParentID: ptr("1")},
		{ID: "3", Name: "Cards", ParentID: ptr("2")},
	}

	tree := BuildCategoryTree(flat)

	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "Cards", tree[0].Children[0].Children[0].Name)
}

func TestBuildCategoryTree_CycleIsIgnored(t *testing.T) {
	// x and y point at each other; neither is reachable from a root, so the
	// builder must drop them instead of recursing forever.
	flat := []Category{
		{ID: "a", Name: "A"},
		{ID: "x", Name: "X", ParentID: ptr("y")},
		{ID: "y", Name: "Y", ParentID: ptr("x")},
	}

	tree := BuildCategoryTree(flat)

	require.Len(t, tree, 1)
	assert.Equal(t, "A", tree[0].Name)
}

func TestBuildCategoryTree_DanglingParentIgnored(t *testing.T) {
	flat := []Category{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B", ParentID: ptr("missing")},
	}

	tree := BuildCategoryTree(flat)

	require.Len(t, tree, 1)
	assert.Equal(t, "A", tree[0].Name)
}
