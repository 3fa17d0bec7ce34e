package parser

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/mabhi256/bdiag/internal/blend/model"
)

/*
*	DNA1 payload layout (all values aligned to 4 bytes from payload start):
*	  "SDNA"
*	  "NAME" int32 count, NUL-terminated field declarations
*	  "TYPE" int32 count, NUL-terminated type names
*	  "TLEN" uint16 per type, byte length
*	  "STRC" int32 count, per struct:
*	         uint16 type index, uint16 field count,
*	         then (uint16 type index, uint16 name index) per field
 */

// sdnaCursor walks the DNA1 payload sequentially.
type sdnaCursor struct {
	data  []byte
	off   int
	order binary.ByteOrder
}

func (c *sdnaCursor) bytes(n int) ([]byte, error) {
	if c.off+n > len(c.data) {
		return nil, fmt.Errorf("catalog truncated at offset %d", c.off)
	}
	out := c.data[c.off : c.off+n]
	c.off += n
	return out, nil
}

func (c *sdnaCursor) u2() (uint16, error) {
	buf, err := c.bytes(2)
	if err != nil {
		return 0, err
	}
	return c.order.Uint16(buf), nil
}

func (c *sdnaCursor) i4() (int32, error) {
	buf, err := c.bytes(4)
	if err != nil {
		return 0, err
	}
	return int32(c.order.Uint32(buf)), nil
}

func (c *sdnaCursor) cstring() (string, error) {
	start := c.off
	for c.off < len(c.data) {
		if c.data[c.off] == 0 {
			s := string(c.data[start:c.off])
			c.off++
			return s, nil
		}
		c.off++
	}
	return "", fmt.Errorf("unterminated string in catalog at offset %d", start)
}

func (c *sdnaCursor) align4() {
	if rem := c.off % 4; rem != 0 {
		c.off += 4 - rem
	}
}

func (c *sdnaCursor) expectTag(tag string) error {
	buf, err := c.bytes(4)
	if err != nil {
		return err
	}
	if string(buf) != tag {
		return fmt.Errorf("expected catalog section %q, found %q", tag, buf)
	}
	return nil
}

func (c *sdnaCursor) stringSection(tag string) ([]string, error) {
	if err := c.expectTag(tag); err != nil {
		return nil, err
	}
	count, err := c.i4()
	if err != nil {
		return nil, err
	}
	out := make([]string, count)
	for i := range out {
		if out[i], err = c.cstring(); err != nil {
			return nil, err
		}
	}
	c.align4()
	return out, nil
}

// parseCatalog decodes the DNA1 payload into a finalized reflection catalog.
func parseCatalog(data []byte, order binary.ByteOrder, pointerSize int) (*model.Catalog, error) {
	c := &sdnaCursor{data: data, order: order}

	if err := c.expectTag("SDNA"); err != nil {
		return nil, err
	}

	names, err := c.stringSection("NAME")
	if err != nil {
		return nil, err
	}
	types, err := c.stringSection("TYPE")
	if err != nil {
		return nil, err
	}

	if err := c.expectTag("TLEN"); err != nil {
		return nil, err
	}
	typeLens := make([]int, len(types))
	for i := range typeLens {
		length, err := c.u2()
		if err != nil {
			return nil, err
		}
		typeLens[i] = int(length)
	}
	c.align4()

	if err := c.expectTag("STRC"); err != nil {
		return nil, err
	}
	structCount, err := c.i4()
	if err != nil {
		return nil, err
	}

	// First pass: struct shells, so fields can resolve types declared later.
	structs := make([]*model.DNAStruct, structCount)
	structByType := make(map[int]*model.DNAStruct, structCount)
	rawFields := make([][][2]int, structCount)
	for i := range structs {
		typeIndex, err := c.u2()
		if err != nil {
			return nil, err
		}
		fieldCount, err := c.u2()
		if err != nil {
			return nil, err
		}
		if int(typeIndex) >= len(types) {
			return nil, fmt.Errorf("struct %d has invalid type index %d", i, typeIndex)
		}

		structs[i] = &model.DNAStruct{
			Name: types[typeIndex],
			Size: typeLens[typeIndex],
		}
		structByType[int(typeIndex)] = structs[i]

		rawFields[i] = make([][2]int, fieldCount)
		for j := range rawFields[i] {
			fieldType, err := c.u2()
			if err != nil {
				return nil, err
			}
			nameIndex, err := c.u2()
			if err != nil {
				return nil, err
			}
			if int(fieldType) >= len(types) || int(nameIndex) >= len(names) {
				return nil, fmt.Errorf("struct %s field %d has invalid indices", structs[i].Name, j)
			}
			rawFields[i][j] = [2]int{int(fieldType), int(nameIndex)}
		}
	}

	// Second pass: decode field declarations.
	for i, s := range structs {
		s.Fields = make([]*model.DNAField, len(rawFields[i]))
		for j, raw := range rawFields[i] {
			decl := names[raw[1]]
			nameOnly, isPointer, arraySize, err := parseFieldName(decl)
			if err != nil {
				return nil, fmt.Errorf("struct %s: %w", s.Name, err)
			}
			s.Fields[j] = &model.DNAField{
				Name:      decl,
				NameOnly:  nameOnly,
				Pointer:   isPointer,
				ArraySize: arraySize,
				TypeName:  types[raw[0]],
				TypeSize:  typeLens[raw[0]],
				Type:      structByType[raw[0]],
			}
		}
	}

	return model.NewCatalog(pointerSize, structs), nil
}

// parseFieldName splits a declared field name into its parts:
// "*next" -> next, pointer; "mat[4][4]" -> mat, 16 items; "(*handle)()" is a
// function pointer and behaves like any other pointer.
func parseFieldName(decl string) (nameOnly string, isPointer bool, arraySize int, err error) {
	if decl == "" {
		return "", false, 0, fmt.Errorf("empty field declaration")
	}

	isPointer = decl[0] == '*' || decl[0] == '('
	arraySize = 1

	name := decl
	for rest := decl; ; {
		open := strings.IndexByte(rest, '[')
		if open < 0 {
			break
		}
		closing := strings.IndexByte(rest[open:], ']')
		if closing < 0 {
			return "", false, 0, fmt.Errorf("malformed field declaration %q", decl)
		}
		dim, err := strconv.Atoi(rest[open+1 : open+closing])
		if err != nil || dim < 1 {
			return "", false, 0, fmt.Errorf("malformed array size in %q", decl)
		}
		arraySize *= dim
		rest = rest[open+closing+1:]
	}
	if bracket := strings.IndexByte(name, '['); bracket >= 0 {
		name = name[:bracket]
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '*', '(', ')':
			return -1
		}
		return r
	}, name)

	if name == "" {
		return "", false, 0, fmt.Errorf("field declaration %q has no name", decl)
	}
	return name, isPointer, arraySize, nil
}
