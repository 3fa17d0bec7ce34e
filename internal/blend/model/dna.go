package model

// FieldKind classifies a catalog field once, when the catalog is loaded.
// The walker dispatches on this tag instead of re-inspecting field metadata.
type FieldKind uint8

const (
	// KindScalar is plain inline data: no nested fields, not a pointer.
	KindScalar FieldKind = iota
	// KindPointer is a file-relative address. Takes priority over KindStruct:
	// a pointer's declared type may carry fields, but they belong to the
	// pointed-to block, not to this one.
	KindPointer
	// KindStruct is an inline struct whose fields are part of this block.
	KindStruct
)

func (k FieldKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindPointer:
		return "pointer"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// DNAField is one field of a catalog struct.
type DNAField struct {
	Name     string // declared name with decorations, e.g. "*next", "mat[4][4]"
	NameOnly string // decoration-free name, e.g. "next", "mat"

	Pointer   bool
	ArraySize int // >= 1; 1 means scalar

	TypeName string     // declared type name, e.g. "float", "ID"
	TypeSize int        // size of one element of the declared type (pointers excluded)
	Type     *DNAStruct // catalog entry for TypeName, nil for primitive types

	// Computed by NewCatalog.
	Kind   FieldKind
	Offset int // byte offset within one struct item
	Size   int // total bytes including array repeats
}

// DNAStruct is one entry of the reflection catalog.
type DNAStruct struct {
	Index  int // position in the catalog, used as the block's type id
	Name   string
	Size   int // bytes per item, from the catalog's type-length table
	Fields []*DNAField

	byName map[string]*DNAField
}

func (s *DNAStruct) Field(name string) (*DNAField, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// Catalog is the file's reflection catalog: every struct the format can
// describe, with per-field layout resolved up front.
type Catalog struct {
	PointerSize int
	Structs     []*DNAStruct

	byName map[string]*DNAStruct
}

// NewCatalog finalizes a parsed struct list into a usable catalog: field
// kinds, sizes and offsets are decided here, once, so the rest of the
// analyzer never re-derives them.
func NewCatalog(pointerSize int, structs []*DNAStruct) *Catalog {
	c := &Catalog{
		PointerSize: pointerSize,
		Structs:     structs,
		byName:      make(map[string]*DNAStruct, len(structs)),
	}

	for i, s := range structs {
		s.Index = i
		s.byName = make(map[string]*DNAField, len(s.Fields))
		c.byName[s.Name] = s

		offset := 0
		for _, f := range s.Fields {
			if f.ArraySize < 1 {
				f.ArraySize = 1
			}

			// Pointer check must come first: pointer fields to struct types
			// still occupy pointer-size bytes and are never descended into.
			switch {
			case f.Pointer:
				f.Kind = KindPointer
				f.Size = pointerSize * f.ArraySize
			case f.Type != nil && len(f.Type.Fields) > 0:
				f.Kind = KindStruct
				f.Size = f.Type.Size * f.ArraySize
			default:
				f.Kind = KindScalar
				size := f.TypeSize
				if f.Type != nil {
					size = f.Type.Size
				}
				f.Size = size * f.ArraySize
			}

			f.Offset = offset
			offset += f.Size
			s.byName[f.NameOnly] = f
		}
	}

	return c
}

// Struct returns the catalog entry at the given type index.
func (c *Catalog) Struct(index int) (*DNAStruct, bool) {
	if index < 0 || index >= len(c.Structs) {
		return nil, false
	}
	return c.Structs[index], true
}

// StructByName returns the catalog entry with the given struct name.
func (c *Catalog) StructByName(name string) (*DNAStruct, bool) {
	s, ok := c.byName[name]
	return s, ok
}
