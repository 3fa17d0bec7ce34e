package analyzer

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/mabhi256/bdiag/internal/blend/model"
)

// fakeSnapshot is an in-memory Snapshot for analyzer tests. Raw() serves the
// concatenated block payloads, which is where packed addresses would appear
// in a real file.
type fakeSnapshot struct {
	catalog *model.Catalog
	blocks  []*model.Block
	byAddr  map[uint64]*model.Block
	access  model.Accessor
	raw     *bytes.Reader
}

func newFakeSnapshot(catalog *model.Catalog, blocks ...*model.Block) *fakeSnapshot {
	snap := &fakeSnapshot{
		catalog: catalog,
		blocks:  blocks,
		byAddr:  make(map[uint64]*model.Block),
		access:  model.Accessor{Order: binary.LittleEndian, PointerSize: catalog.PointerSize},
	}
	var raw []byte
	for _, b := range blocks {
		if b.Address != 0 {
			if _, taken := snap.byAddr[b.Address]; !taken {
				snap.byAddr[b.Address] = b
			}
		}
		raw = append(raw, b.Data...)
	}
	snap.raw = bytes.NewReader(raw)
	return snap
}

func (s *fakeSnapshot) Catalog() *model.Catalog { return s.catalog }
func (s *fakeSnapshot) Blocks() []*model.Block  { return s.blocks }

func (s *fakeSnapshot) BlockByAddress(addr uint64) (*model.Block, bool) {
	b, ok := s.byAddr[addr]
	return b, ok
}

func (s *fakeSnapshot) BlocksByCode(code string) []*model.Block {
	var out []*model.Block
	for _, b := range s.blocks {
		if b.Code == code {
			out = append(out, b)
		}
	}
	return out
}

func (s *fakeSnapshot) GetPointer(b *model.Block, itemIndex int, path model.Path) (uint64, error) {
	return s.access.Pointer(b, itemIndex, path)
}

func (s *fakeSnapshot) GetBytes(b *model.Block, itemIndex int, path model.Path) ([]byte, error) {
	return s.access.Bytes(b, itemIndex, path)
}

func (s *fakeSnapshot) SetZero(b *model.Block, itemIndex int, path model.Path) error {
	return s.access.Zero(b, itemIndex, path)
}

func (s *fakeSnapshot) Raw() io.ReadSeeker { return s.raw }

// newTestCatalog builds a small catalog:
//
//	0 link:   { link *next }                        (the opaque raw entry)
//	1 ID:     { char name[10]; int session_uid; char _pad[2] }
//	2 Object: { ID id; Object *next; Mesh *data; char tag[8] }
//	3 Mesh:   { ID id }
func newTestCatalog() *model.Catalog {
	link := &model.DNAStruct{Name: "link", Size: 8}
	id := &model.DNAStruct{Name: "ID", Size: 16}
	object := &model.DNAStruct{Name: "Object", Size: 40}
	mesh := &model.DNAStruct{Name: "Mesh", Size: 16}

	link.Fields = []*model.DNAField{
		{Name: "*next", NameOnly: "next", Pointer: true, ArraySize: 1, TypeName: "link", Type: link},
	}
	id.Fields = []*model.DNAField{
		{Name: "name[10]", NameOnly: "name", ArraySize: 10, TypeName: "char", TypeSize: 1},
		{Name: "session_uid", NameOnly: "session_uid", ArraySize: 1, TypeName: "int", TypeSize: 4},
		{Name: "_pad[2]", NameOnly: "_pad", ArraySize: 2, TypeName: "char", TypeSize: 1},
	}
	object.Fields = []*model.DNAField{
		{Name: "id", NameOnly: "id", ArraySize: 1, TypeName: "ID", Type: id},
		{Name: "*next", NameOnly: "next", Pointer: true, ArraySize: 1, TypeName: "Object", Type: object},
		{Name: "*data", NameOnly: "data", Pointer: true, ArraySize: 1, TypeName: "Mesh", Type: mesh},
		{Name: "tag[8]", NameOnly: "tag", ArraySize: 8, TypeName: "char", TypeSize: 1},
	}
	mesh.Fields = []*model.DNAField{
		{Name: "id", NameOnly: "id", ArraySize: 1, TypeName: "ID", Type: id},
	}

	return model.NewCatalog(8, []*model.DNAStruct{link, id, object, mesh})
}

const (
	linkIndex   = 0
	idIndex     = 1
	objectIndex = 2
	meshIndex   = 3
)

// newObjectBlock builds one Object block with the given addresses written
// into its pointer fields and uid into id.session_uid.
func newObjectBlock(catalog *model.Catalog, code string, addr, next, data uint64, name string, uid uint32) *model.Block {
	objectType, _ := catalog.Struct(objectIndex)
	payload := make([]byte, objectType.Size)
	copy(payload[0:10], name)
	binary.LittleEndian.PutUint32(payload[10:14], uid)
	binary.LittleEndian.PutUint64(payload[16:24], next)
	binary.LittleEndian.PutUint64(payload[24:32], data)

	return &model.Block{
		Code:      code,
		Size:      len(payload),
		Address:   addr,
		SDNAIndex: objectIndex,
		Count:     1,
		Type:      objectType,
		Data:      payload,
	}
}

func newMeshBlock(catalog *model.Catalog, addr uint64, name string, uid uint32) *model.Block {
	meshType, _ := catalog.Struct(meshIndex)
	payload := make([]byte, meshType.Size)
	copy(payload[0:10], name)
	binary.LittleEndian.PutUint32(payload[10:14], uid)

	return &model.Block{
		Code:      "ME",
		Size:      len(payload),
		Address:   addr,
		SDNAIndex: meshIndex,
		Count:     1,
		Type:      meshType,
		Data:      payload,
	}
}

func newOpaqueBlock(catalog *model.Catalog, addr uint64, payload []byte) *model.Block {
	linkType, _ := catalog.Struct(linkIndex)
	return &model.Block{
		Code:      "DATA",
		Size:      len(payload),
		Address:   addr,
		SDNAIndex: linkIndex,
		Count:     1,
		Type:      linkType,
		Data:      payload,
	}
}
