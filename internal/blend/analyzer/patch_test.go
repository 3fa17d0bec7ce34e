package analyzer

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabhi256/bdiag/internal/blend/model"
)

func TestNullifyHomeless(t *testing.T) {
	snap := buildScenario(t)
	inv, err := BuildInverseMap(snap, DefaultGraphOptions())
	require.NoError(t, err)

	mutated, err := NewPatchEngine(snap).NullifyHomeless(inv)
	require.NoError(t, err)
	assert.Equal(t, 1, mutated, "only Z's dangling next must be touched")

	// The live reference X -> Y survives.
	x, ok := snap.BlockByAddress(100)
	require.True(t, ok)
	data, err := snap.GetPointer(x, 0, model.Path{model.FieldSeg("data")})
	require.NoError(t, err)
	assert.Equal(t, uint64(200), data)

	z, ok := snap.BlockByAddress(300)
	require.True(t, ok)
	next, err := snap.GetPointer(z, 0, model.Path{model.FieldSeg("next")})
	require.NoError(t, err)
	assert.Zero(t, next)

	// A rebuilt map over the mutated snapshot reports nothing homeless.
	inv, err = BuildInverseMap(snap, DefaultGraphOptions())
	require.NoError(t, err)
	report, err := Analyze(snap, inv)
	require.NoError(t, err)
	assert.Empty(t, report.Homeless.Addresses)
}

func TestNullifyHomeless_NoDanglingPointers(t *testing.T) {
	catalog := newTestCatalog()
	a := newObjectBlock(catalog, "OB", 100, 0, 200, "OBA", 1)
	b := newMeshBlock(catalog, 200, "MEB", 2)
	snap := newFakeSnapshot(catalog, a, b)

	inv, err := BuildInverseMap(snap, DefaultGraphOptions())
	require.NoError(t, err)

	mutated, err := NewPatchEngine(snap).NullifyHomeless(inv)
	require.NoError(t, err)
	assert.Zero(t, mutated)
}

func TestNullifySessionUIDs(t *testing.T) {
	catalog := newTestCatalog()
	object := newObjectBlock(catalog, "OB", 100, 0, 0, "OBA", 4242)
	mesh := newMeshBlock(catalog, 200, "MEB", 7)
	opaque := newOpaqueBlock(catalog, 300, make([]byte, 8))
	snap := newFakeSnapshot(catalog, object, mesh, opaque)

	idx := model.NewIdentityIndex(catalog)
	mutated, err := NewPatchEngine(snap).NullifySessionUIDs(idx)
	require.NoError(t, err)
	assert.Equal(t, 2, mutated)

	assert.Zero(t, binary.LittleEndian.Uint32(object.Data[10:14]))
	assert.Zero(t, binary.LittleEndian.Uint32(mesh.Data[10:14]))

	// Names are untouched; only the volatile uid is cleared.
	assert.Equal(t, byte('O'), object.Data[0])
}

func TestNullifySessionUIDs_CatalogWithoutUID(t *testing.T) {
	// Older catalogs carry an ID struct with no session uid at all.
	id := &model.DNAStruct{Name: "ID", Size: 10}
	id.Fields = []*model.DNAField{
		{Name: "name[10]", NameOnly: "name", ArraySize: 10, TypeName: "char", TypeSize: 1},
	}
	object := &model.DNAStruct{Name: "Object", Size: 10}
	object.Fields = []*model.DNAField{
		{Name: "id", NameOnly: "id", ArraySize: 1, TypeName: "ID", Type: id},
	}
	catalog := model.NewCatalog(8, []*model.DNAStruct{id, object})

	block := &model.Block{
		Code: "OB", Size: 10, Address: 100,
		SDNAIndex: 1, Count: 1, Type: catalog.Structs[1], Data: make([]byte, 10),
	}
	snap := newFakeSnapshot(catalog, block)

	idx := model.NewIdentityIndex(catalog)
	mutated, err := NewPatchEngine(snap).NullifySessionUIDs(idx)
	require.NoError(t, err)
	assert.Zero(t, mutated)
}
