package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mabhi256/bdiag/internal/blend/model"
)

// File is a loaded container: header, reflection catalog and block table.
// Block payloads load lazily through the shared file handle, so any component
// that scans the raw stream must restore the handle's position.
type File struct {
	path    string
	handle  *os.File
	header  *model.Header
	catalog *model.Catalog
	blocks  []*model.Block
	byAddr  map[uint64]*model.Block
	byCode  map[string][]*model.Block
	access  model.Accessor
}

func (f *File) Path() string {
	return f.path
}

func (f *File) Header() *model.Header {
	return f.header
}

func (f *File) Catalog() *model.Catalog {
	return f.catalog
}

// Blocks returns every block in file order, the DNA1 catalog block included.
func (f *File) Blocks() []*model.Block {
	return f.blocks
}

// BlockByAddress returns the block owning the given address. When several
// blocks share an address, the earliest one in file order is canonical.
func (f *File) BlockByAddress(addr uint64) (*model.Block, bool) {
	b, ok := f.byAddr[addr]
	return b, ok
}

// BlocksByCode returns all blocks sharing a category code, in file order.
func (f *File) BlocksByCode(code string) []*model.Block {
	return f.byCode[code]
}

// Raw exposes the underlying byte stream for whole-file scans. Callers must
// restore the position they found the stream at.
func (f *File) Raw() io.ReadSeeker {
	return f.handle
}

func (f *File) ensureLoaded(b *model.Block) error {
	if b.Data != nil || b.Size == 0 {
		return nil
	}
	if _, err := f.handle.Seek(b.FileOffset, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to block %s: %w", b, err)
	}
	data := make([]byte, b.Size)
	if _, err := io.ReadFull(f.handle, data); err != nil {
		return fmt.Errorf("failed to read block %s payload: %w", b, err)
	}
	b.Data = data
	return nil
}

// GetPointer reads a pointer field as a stored address.
func (f *File) GetPointer(b *model.Block, itemIndex int, path model.Path) (uint64, error) {
	if err := f.ensureLoaded(b); err != nil {
		return 0, err
	}
	return f.access.Pointer(b, itemIndex, path)
}

// GetBytes returns the raw bytes of a field.
func (f *File) GetBytes(b *model.Block, itemIndex int, path model.Path) ([]byte, error) {
	if err := f.ensureLoaded(b); err != nil {
		return nil, err
	}
	return f.access.Bytes(b, itemIndex, path)
}

// SetZero zeroes a field in the in-memory block table. The file on disk is
// untouched until Save.
func (f *File) SetZero(b *model.Block, itemIndex int, path model.Path) error {
	if err := f.ensureLoaded(b); err != nil {
		return err
	}
	return f.access.Zero(b, itemIndex, path)
}

// Save writes the current in-memory state to a new file at the given path.
func (f *File) Save(path string) error {
	for _, b := range f.blocks {
		if err := f.ensureLoaded(b); err != nil {
			return err
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	w := bufio.NewWriter(out)

	if err := f.writeHeader(w); err != nil {
		out.Close()
		return err
	}
	for _, b := range f.blocks {
		if err := f.writeBlock(w, b); err != nil {
			out.Close()
			return err
		}
	}
	if err := f.writeBlockHeader(w, &model.Block{Code: codeEndOfFile}); err != nil {
		out.Close()
		return err
	}

	if err := w.Flush(); err != nil {
		out.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return out.Close()
}

func (f *File) writeHeader(w io.Writer) error {
	buf := make([]byte, headerSize)
	copy(buf, Magic)
	if f.header.PointerSize == 8 {
		buf[7] = '_'
	} else {
		buf[7] = '-'
	}
	if f.header.BigEndian {
		buf[8] = 'V'
	} else {
		buf[8] = 'v'
	}
	copy(buf[9:], f.header.Version)
	_, err := w.Write(buf)
	return err
}

func (f *File) writeBlockHeader(w io.Writer, b *model.Block) error {
	code := make([]byte, 4)
	copy(code, b.Code)
	if _, err := w.Write(code); err != nil {
		return err
	}

	buf := make([]byte, 4)
	f.access.Order.PutUint32(buf, uint32(b.Size))
	if _, err := w.Write(buf); err != nil {
		return err
	}

	if f.header.PointerSize == 8 {
		ptr := make([]byte, 8)
		f.access.Order.PutUint64(ptr, b.Address)
		if _, err := w.Write(ptr); err != nil {
			return err
		}
	} else {
		f.access.Order.PutUint32(buf, uint32(b.Address))
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}

	f.access.Order.PutUint32(buf, uint32(b.SDNAIndex))
	if _, err := w.Write(buf); err != nil {
		return err
	}
	f.access.Order.PutUint32(buf, uint32(b.Count))
	_, err := w.Write(buf)
	return err
}

func (f *File) writeBlock(w io.Writer, b *model.Block) error {
	if err := f.writeBlockHeader(w, b); err != nil {
		return fmt.Errorf("failed to write block %s: %w", b, err)
	}
	if _, err := w.Write(b.Data); err != nil {
		return fmt.Errorf("failed to write block %s payload: %w", b, err)
	}
	return nil
}

func (f *File) Close() error {
	return f.handle.Close()
}
