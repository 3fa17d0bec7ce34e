package analyzer

import (
	"fmt"

	"github.com/mabhi256/bdiag/internal/blend/model"
)

// GraphOptions controls inverse-map construction.
type GraphOptions struct {
	// SkipTypeIndices lists catalog entries whose payload is not
	// reflection-describable and must not be walked. The catalog numbering is
	// format-version specific, which is why this is not hard-coded.
	SkipTypeIndices []int
}

// DefaultGraphOptions skips catalog index 0, the catalog's raw "link" entry
// historically used for opaque data blocks.
func DefaultGraphOptions() GraphOptions {
	return GraphOptions{SkipTypeIndices: []int{0}}
}

// BuildInverseMap walks every pointer field of every block item and returns a
// freshly built inverse-reference map. Pointer values of zero are null and
// never recorded.
//
// Each call builds from scratch: calling it twice on an unmodified snapshot
// yields identical maps, and callers must rebuild after any mutation, since a
// previously built map does not self-update.
func BuildInverseMap(snap Snapshot, opts GraphOptions) (*InverseMap, error) {
	skip := make(map[int]bool, len(opts.SkipTypeIndices))
	for _, index := range opts.SkipTypeIndices {
		skip[index] = true
	}

	inv := NewInverseMap()
	for _, block := range snap.Blocks() {
		if skip[block.SDNAIndex] {
			continue
		}
		if block.Type == nil {
			return nil, fmt.Errorf("block %s has no catalog entry for type index %d", block, block.SDNAIndex)
		}

		for item := 0; item < block.Count; item++ {
			err := WalkPointerFields(block.Type, func(path model.Path, _ *model.DNAField) error {
				value, err := snap.GetPointer(block, item, path)
				if err != nil {
					return err
				}
				if value == 0 {
					return nil
				}
				inv.Add(value, Inverse{
					BlockAddress: block.Address,
					ItemIndex:    item,
					TypeName:     block.Type.Name,
					Path:         path,
				})
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return inv, nil
}
