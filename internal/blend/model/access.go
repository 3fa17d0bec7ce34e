package model

import (
	"encoding/binary"
	"fmt"
)

// Accessor reads and writes terminal field values inside a loaded block
// payload, addressing them by (path, item index).
type Accessor struct {
	Order       binary.ByteOrder
	PointerSize int
}

// resolve walks a path from the block's type down to one terminal value and
// returns its byte range within the block payload.
func (a Accessor) resolve(b *Block, itemIndex int, path Path) (offset, size int, err error) {
	if b.Type == nil {
		return 0, 0, fmt.Errorf("block %s has no reflection type", b)
	}
	if itemIndex < 0 || itemIndex >= b.Count {
		return 0, 0, fmt.Errorf("block %s: item index %d out of range [0, %d)", b, itemIndex, b.Count)
	}
	if len(path) == 0 {
		return 0, 0, fmt.Errorf("block %s: empty field path", b)
	}

	offset = itemIndex * b.Type.Size
	cur := b.Type
	var field *DNAField

	for _, seg := range path {
		if seg.IsIndex {
			if field == nil {
				return 0, 0, fmt.Errorf("block %s: path %s indexes before naming a field", b, path)
			}
			if seg.Index < 0 || seg.Index >= field.ArraySize {
				return 0, 0, fmt.Errorf("block %s: path %s index %d out of range [0, %d)",
					b, path, seg.Index, field.ArraySize)
			}
			elem := field.Size / field.ArraySize
			offset += seg.Index * elem
			size = elem
			continue
		}

		if cur == nil {
			return 0, 0, fmt.Errorf("block %s: path %s descends into non-struct field", b, path)
		}
		f, ok := cur.Field(seg.Name)
		if !ok {
			return 0, 0, fmt.Errorf("block %s: struct %s has no field %q", b, cur.Name, seg.Name)
		}
		field = f
		offset += f.Offset
		size = f.Size
		cur = f.Type
	}

	if offset+size > len(b.Data) {
		return 0, 0, fmt.Errorf("block %s: field %s at [%d, %d) exceeds payload of %d bytes",
			b, path, offset, offset+size, len(b.Data))
	}
	return offset, size, nil
}

// Pointer reads a pointer-valued field as a file-relative address.
func (a Accessor) Pointer(b *Block, itemIndex int, path Path) (uint64, error) {
	offset, size, err := a.resolve(b, itemIndex, path)
	if err != nil {
		return 0, err
	}
	switch size {
	case 4:
		return uint64(a.Order.Uint32(b.Data[offset : offset+4])), nil
	case 8:
		return a.Order.Uint64(b.Data[offset : offset+8]), nil
	default:
		return 0, fmt.Errorf("block %s: field %s is %d bytes, not pointer-sized", b, path, size)
	}
}

// Bytes returns a copy of the raw bytes of a field.
func (a Accessor) Bytes(b *Block, itemIndex int, path Path) ([]byte, error) {
	offset, size, err := a.resolve(b, itemIndex, path)
	if err != nil {
		return nil, err
	}
	out := make([]byte, size)
	copy(out, b.Data[offset:offset+size])
	return out, nil
}

// Zero overwrites a field's bytes with zeros, in place.
func (a Accessor) Zero(b *Block, itemIndex int, path Path) error {
	offset, size, err := a.resolve(b, itemIndex, path)
	if err != nil {
		return err
	}
	for i := offset; i < offset+size; i++ {
		b.Data[i] = 0
	}
	return nil
}
