package analyzer

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/mabhi256/bdiag/internal/blend/model"
)

// OrphanEntry is a block no pointer field anywhere in the file targets.
type OrphanEntry struct {
	Block *model.Block

	// ByteOccurrences counts the packed address's raw occurrences across the
	// whole file. Non-zero despite zero structural inverses signals an
	// address collision or a reference path the walker did not reach, and is
	// distinct from a true orphan.
	ByteOccurrences int

	// CodeBlockCount is how many blocks share this block's category code.
	CodeBlockCount int
}

// HomelessReport covers addresses the inverse map holds that no block owns.
type HomelessReport struct {
	Addresses []uint64 // map-insertion order
	TotalRefs int      // inbound references aimed at those addresses
}

// AddressCollision is a block reusing an address an earlier block already
// claimed. The earlier block stays canonical.
type AddressCollision struct {
	Address   uint64
	Canonical *model.Block
	Duplicate *model.Block
}

// AddressReport covers odd and duplicated block addresses.
type AddressReport struct {
	Odd        []*model.Block // blocks with no stable address (zero sentinel)
	Collisions []AddressCollision
}

// Report is the integrity analyzer's structured output. Findings are the
// normal result of a pass, never errors; presentation is the caller's job.
type Report struct {
	Orphans   []OrphanEntry
	Homeless  HomelessReport
	Addresses AddressReport
}

func (r *Report) Clean() bool {
	return len(r.Orphans) == 0 &&
		len(r.Homeless.Addresses) == 0 &&
		len(r.Addresses.Odd) == 0 &&
		len(r.Addresses.Collisions) == 0
}

// PackAddress renders an address the way it is stored in the file payload:
// 8 bytes, little-endian.
func PackAddress(addr uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, addr)
	return buf
}

// Analyze computes the orphan, homeless and address findings for a snapshot
// given its inverse map. All three checks run independently and in block file
// order; only I/O failure aborts the pass.
func Analyze(snap Snapshot, inv *InverseMap) (*Report, error) {
	raw, err := readRaw(snap.Raw())
	if err != nil {
		return nil, err
	}

	report := &Report{}

	for _, block := range snap.Blocks() {
		if inv.Count(block.Address) > 0 {
			continue
		}
		// Double check against the raw bytes: zero occurrences with zero
		// inverses happens when two blocks share one address.
		report.Orphans = append(report.Orphans, OrphanEntry{
			Block:           block,
			ByteOccurrences: bytes.Count(raw, PackAddress(block.Address)),
			CodeBlockCount:  len(snap.BlocksByCode(block.Code)),
		})
	}

	for _, addr := range inv.Addresses() {
		if _, ok := snap.BlockByAddress(addr); ok {
			continue
		}
		report.Homeless.Addresses = append(report.Homeless.Addresses, addr)
		report.Homeless.TotalRefs += inv.Count(addr)
	}

	used := make(map[uint64]*model.Block)
	for _, block := range snap.Blocks() {
		if block.Address == 0 {
			report.Addresses.Odd = append(report.Addresses.Odd, block)
			continue
		}
		if canonical, taken := used[block.Address]; taken {
			report.Addresses.Collisions = append(report.Addresses.Collisions, AddressCollision{
				Address:   block.Address,
				Canonical: canonical,
				Duplicate: block,
			})
			continue
		}
		used[block.Address] = block
	}

	return report, nil
}

// readRaw reads the whole stream while preserving its position. Other
// components read blocks lazily by offset through the same handle, so the
// position must be restored on every path.
func readRaw(r io.ReadSeeker) ([]byte, error) {
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	data, readErr := io.ReadAll(r)
	if _, seekErr := r.Seek(pos, io.SeekStart); seekErr != nil && readErr == nil {
		readErr = seekErr
	}
	if readErr != nil {
		return nil, readErr
	}
	return data, nil
}
