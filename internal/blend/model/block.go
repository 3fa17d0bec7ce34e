package model

import "fmt"

// Header is the container file preamble.
type Header struct {
	Magic       string // "BLENDER"
	PointerSize int    // 4 or 8
	BigEndian   bool
	Version     string // three ASCII digits, e.g. "405"
}

// Block is one typed, addressed record in the container's block table.
type Block struct {
	Code      string // category tag, trailing NULs trimmed (e.g. "OB", "DATA")
	Size      int    // payload length in bytes
	Address   uint64 // stored memory address; file-unique identity when non-zero
	SDNAIndex int    // index into the reflection catalog
	Count     int    // number of contiguous array-of-struct items

	FileOffset int64      // payload start within the file
	Type       *DNAStruct // resolved catalog entry
	Data       []byte     // payload, loaded lazily by the owning reader
}

func (b *Block) String() string {
	typeName := "?"
	if b.Type != nil {
		typeName = b.Type.Name
	}
	return fmt.Sprintf("<%s %s at 0x%x>", b.Code, typeName, b.Address)
}
