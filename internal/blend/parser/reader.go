package parser

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Provides utilities for reading binary data with the endianness and pointer
// size declared in the file header
type BinaryReader struct {
	reader    *bufio.Reader
	order     binary.ByteOrder
	ptrSize   int
	bytesRead int64
}

func NewBinaryReader(reader io.Reader) *BinaryReader {
	return &BinaryReader{
		reader:  bufio.NewReader(reader),
		order:   binary.LittleEndian,
		ptrSize: 8,
	}
}

func (br *BinaryReader) BytesRead() int64 {
	return br.bytesRead
}

func (br *BinaryReader) SetByteOrder(order binary.ByteOrder) {
	br.order = order
}

func (br *BinaryReader) SetPointerSize(size int) error {
	if size != 4 && size != 8 {
		return fmt.Errorf("invalid pointer size: %d", size)
	}
	br.ptrSize = size
	return nil
}

// ReadNBytes reads exactly n bytes and tracks position
func (br *BinaryReader) ReadNBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	bytesRead, err := io.ReadFull(br.reader, buf)
	if err != nil {
		return nil, err
	}
	br.bytesRead += int64(bytesRead)
	return buf, nil
}

// Skip discards exactly n bytes
func (br *BinaryReader) Skip(n int64) error {
	skipped, err := io.CopyN(io.Discard, br.reader, n)
	br.bytesRead += skipped
	return err
}

// ReadU4 reads a 4-byte unsigned integer
func (br *BinaryReader) ReadU4() (uint32, error) {
	buf, err := br.ReadNBytes(4)
	if err != nil {
		return 0, err
	}
	return br.order.Uint32(buf), nil
}

// ReadU8 reads an 8-byte unsigned integer
func (br *BinaryReader) ReadU8() (uint64, error) {
	buf, err := br.ReadNBytes(8)
	if err != nil {
		return 0, err
	}
	return br.order.Uint64(buf), nil
}

// ReadI4 reads a 4-byte signed integer
func (br *BinaryReader) ReadI4() (int32, error) {
	val, err := br.ReadU4()
	return int32(val), err
}

// ReadPointer reads a stored address (size depends on the file header)
func (br *BinaryReader) ReadPointer() (uint64, error) {
	switch br.ptrSize {
	case 4:
		val, err := br.ReadU4()
		return uint64(val), err
	case 8:
		return br.ReadU8()
	default:
		return 0, fmt.Errorf("invalid pointer size: %d", br.ptrSize)
	}
}
