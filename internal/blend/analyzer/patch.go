package analyzer

import (
	"github.com/mabhi256/bdiag/internal/blend/model"
)

// PatchEngine applies explicit in-place mutations to a snapshot's block
// table. Nothing here runs automatically: every operation is invoked by a
// caller who accepts its caveats, and the engine then mutates
// unconditionally.
//
// Any mutation invalidates previously built inverse maps; rebuild before
// further analysis.
type PatchEngine struct {
	snap Snapshot
}

func NewPatchEngine(snap Snapshot) *PatchEngine {
	return &PatchEngine{snap: snap}
}

// NullifyHomeless zeroes every pointer field aimed at an address no block
// owns and returns the number of fields mutated.
//
// This is a best-effort cleanup heuristic, not a guarantee: if nothing
// legitimately targets an address the pointer is dead weight that only adds
// diff noise, and simple files have been observed to stay loadable after
// zeroing. The mutated file is still not promised to remain valid to
// downstream consumers.
func (e *PatchEngine) NullifyHomeless(inv *InverseMap) (int, error) {
	mutated := 0
	for _, addr := range inv.Addresses() {
		if _, ok := e.snap.BlockByAddress(addr); ok {
			continue
		}
		for _, ref := range inv.Refs(addr) {
			source, ok := e.snap.BlockByAddress(ref.BlockAddress)
			if !ok {
				// The referencing block itself has no stable address; its
				// field cannot be re-located.
				continue
			}
			if err := e.snap.SetZero(source, ref.ItemIndex, ref.Path); err != nil {
				return mutated, err
			}
			mutated++
		}
	}
	return mutated, nil
}

// NullifySessionUIDs zeroes the volatile session uid inside every
// identity-bearing block item and returns the number of items mutated.
//
// The uid is regenerated on every load, so zeroing it only removes diff
// noise between two loads of the same data. Never hand such a file back to
// the owning application for real use: a shared non-zero value across blocks
// is known to destabilize it.
func (e *PatchEngine) NullifySessionUIDs(idx *model.IdentityIndex) (int, error) {
	uidField := idx.SessionUIDField()
	if uidField == "" {
		// Catalog predates session uids; nothing to do.
		return 0, nil
	}
	uidPath := model.Path{model.FieldSeg(model.IDFieldName), model.FieldSeg(uidField)}

	mutated := 0
	for _, block := range e.snap.Blocks() {
		if !idx.IsIdentityType(block.SDNAIndex) {
			continue
		}
		for item := 0; item < block.Count; item++ {
			if err := e.snap.SetZero(block, item, uidPath); err != nil {
				return mutated, err
			}
			mutated++
		}
	}
	return mutated, nil
}
