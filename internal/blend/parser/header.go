package parser

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/mabhi256/bdiag/internal/blend/model"
)

/*
*	.blend header layout (12 bytes):
*	  [0:7]  "BLENDER"
*	  [7]    pointer size: '_' = 8 bytes, '-' = 4 bytes
*	  [8]    endianness:   'v' = little, 'V' = big
*	  [9:12] version digits, e.g. "405"
 */

const (
	Magic      = "BLENDER"
	headerSize = 12
)

var gzipMagic = []byte{0x1f, 0x8b}

func parseHeader(br *BinaryReader) (*model.Header, error) {
	buf, err := br.ReadNBytes(headerSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(buf[:len(Magic)]) != Magic {
		if bytes.HasPrefix(buf, gzipMagic) {
			return nil, fmt.Errorf("compressed .blend files are not supported, decompress first")
		}
		return nil, fmt.Errorf("not a .blend file (bad magic %q)", buf[:len(Magic)])
	}

	header := &model.Header{
		Magic:   Magic,
		Version: string(buf[9:12]),
	}

	switch buf[7] {
	case '_':
		header.PointerSize = 8
	case '-':
		header.PointerSize = 4
	default:
		return nil, fmt.Errorf("invalid pointer size marker %q", buf[7])
	}

	switch buf[8] {
	case 'v':
		header.BigEndian = false
	case 'V':
		header.BigEndian = true
	default:
		return nil, fmt.Errorf("invalid endianness marker %q", buf[8])
	}

	if err := br.SetPointerSize(header.PointerSize); err != nil {
		return nil, err
	}
	if header.BigEndian {
		br.SetByteOrder(binary.BigEndian)
	}

	return header, nil
}
