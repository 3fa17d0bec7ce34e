package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabhi256/bdiag/internal/blend/model"
)

func collectPointerPaths(t *testing.T, s *model.DNAStruct) []string {
	t.Helper()
	var paths []string
	err := WalkPointerFields(s, func(path model.Path, _ *model.DNAField) error {
		paths = append(paths, path.String())
		return nil
	})
	require.NoError(t, err)
	return paths
}

func TestWalkPointerFields_PlainStructHasNoLeaves(t *testing.T) {
	catalog := newTestCatalog()
	idType, ok := catalog.StructByName("ID")
	require.True(t, ok)

	assert.Empty(t, collectPointerPaths(t, idType), "ID carries no pointer fields")
}

func TestWalkPointerFields_NestedStructAndPointers(t *testing.T) {
	catalog := newTestCatalog()
	objectType, ok := catalog.StructByName("Object")
	require.True(t, ok)

	// Field-major order: the inline id struct walks first and yields
	// nothing, then the two pointers. The scalar tag array is inert.
	assert.Equal(t, []string{"next", "data"}, collectPointerPaths(t, objectType))
}

func TestWalkPointerFields_ArrayIndexRecordedOnlyForArrays(t *testing.T) {
	inner := &model.DNAStruct{Name: "Target", Size: 8}
	inner.Fields = []*model.DNAField{
		{Name: "*ref", NameOnly: "ref", Pointer: true, ArraySize: 1, TypeName: "Target", Type: inner},
	}
	outer := &model.DNAStruct{Name: "Holder", Size: 48}
	outer.Fields = []*model.DNAField{
		{Name: "*mats[2]", NameOnly: "mats", Pointer: true, ArraySize: 2, TypeName: "Target", Type: inner},
		{Name: "sub[2]", NameOnly: "sub", ArraySize: 2, TypeName: "Target", Type: inner},
		{Name: "value", NameOnly: "value", ArraySize: 1, TypeName: "int", TypeSize: 4},
	}
	model.NewCatalog(8, []*model.DNAStruct{inner, outer})

	// Array-index-major within each field, index always recorded for arrays,
	// never for scalars.
	want := []string{"mats[0]", "mats[1]", "sub[0].ref", "sub[1].ref"}
	assert.Equal(t, want, collectPointerPaths(t, outer))
}

func TestWalkPointerFields_PointerToStructTypeIsALeaf(t *testing.T) {
	catalog := newTestCatalog()
	objectType, ok := catalog.StructByName("Object")
	require.True(t, ok)

	// Object.next points to Object, which has fields of its own; the walker
	// must not descend into them.
	for _, path := range collectPointerPaths(t, objectType) {
		assert.NotContains(t, path, "next.", "walked through a pointer field")
	}
}

func TestWalkPointerFields_ImpossibleShapeFailsFast(t *testing.T) {
	broken := &model.DNAStruct{Name: "Broken", Size: 4}
	broken.Fields = []*model.DNAField{
		{Name: "mystery", NameOnly: "mystery", ArraySize: 1, Kind: model.FieldKind(9)},
	}

	err := WalkPointerFields(broken, func(model.Path, *model.DNAField) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "impossible descriptor shape")
}
