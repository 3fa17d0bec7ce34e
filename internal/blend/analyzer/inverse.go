package analyzer

import (
	"fmt"

	"github.com/mabhi256/bdiag/internal/blend/model"
)

// Inverse records one inbound reference: some field of some block item holds
// the target address. Identity is the full tuple, so the same target may
// collect many distinct references while exact repeats collapse.
type Inverse struct {
	BlockAddress uint64 // address of the referencing block
	ItemIndex    int    // which array item of that block holds the pointer
	TypeName     string // the referencing block's struct name
	Path         model.Path
}

func (iv Inverse) String() string {
	return fmt.Sprintf("%s.%s (block 0x%x item %d)", iv.TypeName, iv.Path, iv.BlockAddress, iv.ItemIndex)
}

func (iv Inverse) key() string {
	return fmt.Sprintf("%x|%d|%s|%s", iv.BlockAddress, iv.ItemIndex, iv.TypeName, iv.Path)
}

// InverseMap maps every referenced address to its set of inbound references.
// Addresses iterate in first-insertion order so reports stay deterministic.
// An absent address is equivalent to an empty set.
type InverseMap struct {
	refs  map[uint64][]Inverse
	seen  map[uint64]map[string]struct{}
	order []uint64
}

func NewInverseMap() *InverseMap {
	return &InverseMap{
		refs: make(map[uint64][]Inverse),
		seen: make(map[uint64]map[string]struct{}),
	}
}

// Add records an inbound reference to target. Exact duplicates (same source
// block, item, type and path) are dropped; Add reports whether the record
// was inserted.
func (m *InverseMap) Add(target uint64, iv Inverse) bool {
	set, ok := m.seen[target]
	if !ok {
		set = make(map[string]struct{})
		m.seen[target] = set
		m.order = append(m.order, target)
	}

	k := iv.key()
	if _, dup := set[k]; dup {
		return false
	}
	set[k] = struct{}{}
	m.refs[target] = append(m.refs[target], iv)
	return true
}

// Refs returns the inbound references recorded for addr, in insertion order.
// Nil when the address was never referenced.
func (m *InverseMap) Refs(addr uint64) []Inverse {
	return m.refs[addr]
}

// Count returns the number of inbound references recorded for addr.
func (m *InverseMap) Count(addr uint64) int {
	return len(m.refs[addr])
}

// Addresses returns every referenced address in first-insertion order.
func (m *InverseMap) Addresses() []uint64 {
	return m.order
}

// Len returns the number of distinct referenced addresses.
func (m *InverseMap) Len() int {
	return len(m.order)
}

// TotalRefs returns the total number of recorded references.
func (m *InverseMap) TotalRefs() int {
	total := 0
	for _, refs := range m.refs {
		total += len(refs)
	}
	return total
}
