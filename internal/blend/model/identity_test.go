package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func identityCatalog(uidName string) *Catalog {
	id := &DNAStruct{Name: "ID", Size: 14}
	id.Fields = []*DNAField{
		{Name: "name[10]", NameOnly: "name", ArraySize: 10, TypeName: "char", TypeSize: 1},
	}
	if uidName != "" {
		id.Fields = append(id.Fields, &DNAField{
			Name: uidName, NameOnly: uidName, ArraySize: 1, TypeName: "int", TypeSize: 4,
		})
	}
	object := &DNAStruct{Name: "Object", Size: 22}
	object.Fields = []*DNAField{
		{Name: "id", NameOnly: "id", ArraySize: 1, TypeName: "ID", Type: id},
		{Name: "*parent", NameOnly: "parent", Pointer: true, ArraySize: 1, TypeName: "Object", Type: object},
	}
	// Has a pointer to ID but no embedded one, so it carries no identity.
	wrapper := &DNAStruct{Name: "Wrapper", Size: 8}
	wrapper.Fields = []*DNAField{
		{Name: "*id", NameOnly: "id", Pointer: true, ArraySize: 1, TypeName: "ID", Type: id},
	}
	return NewCatalog(8, []*DNAStruct{id, object, wrapper})
}

func TestIdentityIndex(t *testing.T) {
	idx := NewIdentityIndex(identityCatalog("session_uid"))

	assert.False(t, idx.IsIdentityType(0), "the ID struct itself bears no identity")
	assert.True(t, idx.IsIdentityType(1))
	assert.False(t, idx.IsIdentityType(2), "a pointer-to-ID field is not an embedded ID")
	assert.False(t, idx.IsIdentityType(-1))
	assert.False(t, idx.IsIdentityType(99))

	assert.Equal(t, "session_uid", idx.SessionUIDField())
}

func TestIdentityIndex_LegacyUIDSpelling(t *testing.T) {
	idx := NewIdentityIndex(identityCatalog("session_uuid"))
	assert.Equal(t, "session_uuid", idx.SessionUIDField())
}

func TestIdentityIndex_NoUIDField(t *testing.T) {
	idx := NewIdentityIndex(identityCatalog(""))
	assert.Empty(t, idx.SessionUIDField())
	assert.True(t, idx.IsIdentityType(1), "identity does not depend on the uid field")
}
