package analyzer

import (
	"io"

	"github.com/mabhi256/bdiag/internal/blend/model"
)

// Snapshot is the view of a loaded container the analyzer consumes. The
// concrete reader lives elsewhere; the analyzer only needs block enumeration,
// field access by (path, item index), and raw stream access for whole-file
// scans.
type Snapshot interface {
	Catalog() *model.Catalog

	// Blocks returns every block in original file order.
	Blocks() []*model.Block
	BlockByAddress(addr uint64) (*model.Block, bool)
	BlocksByCode(code string) []*model.Block

	GetPointer(b *model.Block, itemIndex int, path model.Path) (uint64, error)
	GetBytes(b *model.Block, itemIndex int, path model.Path) ([]byte, error)
	SetZero(b *model.Block, itemIndex int, path model.Path) error

	// Raw exposes the shared byte stream. Scans must restore its position.
	Raw() io.ReadSeeker
}
