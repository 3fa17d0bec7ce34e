package model

// Identity-bearing structs embed the catalog's ID struct under a field named
// "id". The ID struct carries the block's stable name plus a volatile
// session-scoped uid regenerated on every load.
const (
	IDStructName = "ID"
	IDFieldName  = "id"
)

// sessionUIDNames lists the known spellings of the volatile uid field,
// newest first.
var sessionUIDNames = []string{"session_uid", "session_uuid"}

// IdentityIndex caches, per catalog type, whether the type is
// identity-bearing. Built once per analysis pass; pure given a fixed catalog.
type IdentityIndex struct {
	isIdentity []bool
	uidField   string
}

func NewIdentityIndex(cat *Catalog) *IdentityIndex {
	idx := &IdentityIndex{isIdentity: make([]bool, len(cat.Structs))}

	idStruct, ok := cat.StructByName(IDStructName)
	if !ok {
		return idx
	}
	for _, name := range sessionUIDNames {
		if _, ok := idStruct.Field(name); ok {
			idx.uidField = name
			break
		}
	}

	for i, s := range cat.Structs {
		f, ok := s.Field(IDFieldName)
		idx.isIdentity[i] = ok && f.Kind == KindStruct && f.Type == idStruct
	}
	return idx
}

// IsIdentityType reports whether the catalog type at the given index embeds
// the ID struct.
func (ix *IdentityIndex) IsIdentityType(typeIndex int) bool {
	if typeIndex < 0 || typeIndex >= len(ix.isIdentity) {
		return false
	}
	return ix.isIdentity[typeIndex]
}

// SessionUIDField returns the name of the volatile uid field inside the ID
// struct, or "" when the catalog predates it.
func (ix *IdentityIndex) SessionUIDField() string {
	return ix.uidField
}
