package parser

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mabhi256/bdiag/internal/blend/analyzer"
	"github.com/mabhi256/bdiag/internal/blend/model"
)

func writeBHead(buf *bytes.Buffer, code string, size int, addr uint64, sdnaIndex, count int) {
	tag := make([]byte, 4)
	copy(tag, code)
	buf.Write(tag)

	var b [8]byte
	binary.LittleEndian.PutUint32(b[:4], uint32(size))
	buf.Write(b[:4])
	binary.LittleEndian.PutUint64(b[:], addr)
	buf.Write(b[:])
	binary.LittleEndian.PutUint32(b[:4], uint32(sdnaIndex))
	buf.Write(b[:4])
	binary.LittleEndian.PutUint32(b[:4], uint32(count))
	buf.Write(b[:4])
}

// writeTestBlend synthesizes a minimal container on disk:
//
//	OB   (100) Object "Cube"      next -> 999 (dangling), data -> 200
//	ME   (200) Mesh   "Cube_mesh"
//	DNA1 (400) the reflection catalog from testSDNA
func writeTestBlend(t *testing.T) string {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("BLENDER_v405")

	object := make([]byte, 32)
	copy(object[0:10], "Cube")
	binary.LittleEndian.PutUint32(object[10:14], 4242)
	binary.LittleEndian.PutUint64(object[16:24], 999)
	binary.LittleEndian.PutUint64(object[24:32], 200)
	writeBHead(&buf, "OB", len(object), 100, 2, 1)
	buf.Write(object)

	mesh := make([]byte, 16)
	copy(mesh[0:10], "Cube_mesh")
	binary.LittleEndian.PutUint32(mesh[10:14], 7)
	writeBHead(&buf, "ME", len(mesh), 200, 3, 1)
	buf.Write(mesh)

	sdna := testSDNA()
	writeBHead(&buf, "DNA1", len(sdna), 400, 0, 1)
	buf.Write(sdna)

	writeBHead(&buf, "ENDB", 0, 0, 0, 0)

	path := filepath.Join(t.TempDir(), "cube.blend")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestOpen(t *testing.T) {
	f, err := Open(writeTestBlend(t))
	require.NoError(t, err)
	defer f.Close()

	header := f.Header()
	assert.Equal(t, 8, header.PointerSize)
	assert.False(t, header.BigEndian)
	assert.Equal(t, "405", header.Version)

	require.Len(t, f.Blocks(), 3, "DNA1 stays in the block table")

	ob, ok := f.BlockByAddress(100)
	require.True(t, ok)
	assert.Equal(t, "OB", ob.Code)
	require.NotNil(t, ob.Type)
	assert.Equal(t, "Object", ob.Type.Name)
	assert.Equal(t, 1, ob.Count)

	assert.Len(t, f.BlocksByCode("ME"), 1)

	next, err := f.GetPointer(ob, 0, model.Path{model.FieldSeg("next")})
	require.NoError(t, err)
	assert.Equal(t, uint64(999), next)
	data, err := f.GetPointer(ob, 0, model.Path{model.FieldSeg("data")})
	require.NoError(t, err)
	assert.Equal(t, uint64(200), data)

	name, err := f.GetBytes(ob, 0, model.Path{model.FieldSeg("id"), model.FieldSeg("name")})
	require.NoError(t, err)
	assert.Equal(t, "Cube", string(bytes.TrimRight(name, "\x00")))
}

func TestOpen_NotABlendFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.blend")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a container"), 0o644))

	_, err := Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a .blend file")
}

func TestOpen_CompressedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packed.blend")
	payload := append([]byte{0x1f, 0x8b}, make([]byte, 16)...)
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	_, err := Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compressed")
}

func TestOpen_MissingCatalog(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("BLENDER_v405")
	writeBHead(&buf, "ENDB", 0, 0, 0, 0)

	path := filepath.Join(t.TempDir(), "empty.blend")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	_, err := Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DNA1 block missing")
}

func TestAnalyzeLoadedFile(t *testing.T) {
	f, err := Open(writeTestBlend(t))
	require.NoError(t, err)
	defer f.Close()

	inv, err := analyzer.BuildInverseMap(f, analyzer.DefaultGraphOptions())
	require.NoError(t, err)
	report, err := analyzer.Analyze(f, inv)
	require.NoError(t, err)

	assert.Equal(t, []uint64{999}, report.Homeless.Addresses)
	assert.Equal(t, 1, report.Homeless.TotalRefs)

	// OB and DNA1 have no inbound references; ME is held by OB.
	orphans := make([]uint64, 0, len(report.Orphans))
	for _, o := range report.Orphans {
		orphans = append(orphans, o.Block.Address)
	}
	assert.Equal(t, []uint64{100, 400}, orphans)
	assert.Empty(t, report.Addresses.Odd)
}

func TestPatchAndSaveRoundtrip(t *testing.T) {
	source := writeTestBlend(t)
	f, err := Open(source)
	require.NoError(t, err)

	inv, err := analyzer.BuildInverseMap(f, analyzer.DefaultGraphOptions())
	require.NoError(t, err)

	engine := analyzer.NewPatchEngine(f)
	mutated, err := engine.NullifyHomeless(inv)
	require.NoError(t, err)
	assert.Equal(t, 1, mutated)

	idx := model.NewIdentityIndex(f.Catalog())
	mutated, err = engine.NullifySessionUIDs(idx)
	require.NoError(t, err)
	assert.Equal(t, 2, mutated)

	patched := filepath.Join(t.TempDir(), "cube.patched.blend")
	require.NoError(t, f.Save(patched))
	require.NoError(t, f.Close())

	g, err := Open(patched)
	require.NoError(t, err)
	defer g.Close()

	require.Len(t, g.Blocks(), 3)

	ob, ok := g.BlockByAddress(100)
	require.True(t, ok)
	next, err := g.GetPointer(ob, 0, model.Path{model.FieldSeg("next")})
	require.NoError(t, err)
	assert.Zero(t, next, "dangling pointer stays zeroed after the roundtrip")
	data, err := g.GetPointer(ob, 0, model.Path{model.FieldSeg("data")})
	require.NoError(t, err)
	assert.Equal(t, uint64(200), data, "live pointer survives the roundtrip")

	uid, err := g.GetBytes(ob, 0, model.Path{model.FieldSeg("id"), model.FieldSeg("session_uid")})
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 4), uid)

	inv, err = analyzer.BuildInverseMap(g, analyzer.DefaultGraphOptions())
	require.NoError(t, err)
	report, err := analyzer.Analyze(g, inv)
	require.NoError(t, err)
	assert.Empty(t, report.Homeless.Addresses)
}
