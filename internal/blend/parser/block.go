package parser

import (
	"fmt"
	"strings"

	"github.com/mabhi256/bdiag/internal/blend/model"
)

/*
*	Block header (BHEAD) layout:
*	  code       4 bytes   category tag, NUL padded
*	  len        int32     payload length
*	  old        pointer   address the data lived at when the file was saved
*	  SDNAnr     int32     index into the reflection catalog
*	  nr         int32     array-of-struct item count
*	The payload of len bytes follows immediately. "ENDB" terminates the table,
*	"DNA1" holds the reflection catalog itself.
 */

const (
	codeEndOfFile = "ENDB"
	codeDNA       = "DNA1"
)

func parseBlockHeader(br *BinaryReader) (*model.Block, error) {
	code, err := br.ReadNBytes(4)
	if err != nil {
		return nil, fmt.Errorf("failed to read block code: %w", err)
	}

	size, err := br.ReadI4()
	if err != nil {
		return nil, fmt.Errorf("failed to read block length: %w", err)
	}
	if size < 0 {
		return nil, fmt.Errorf("negative block length %d", size)
	}

	addr, err := br.ReadPointer()
	if err != nil {
		return nil, fmt.Errorf("failed to read block address: %w", err)
	}

	sdnaIndex, err := br.ReadI4()
	if err != nil {
		return nil, fmt.Errorf("failed to read block type index: %w", err)
	}

	count, err := br.ReadI4()
	if err != nil {
		return nil, fmt.Errorf("failed to read block item count: %w", err)
	}

	return &model.Block{
		Code:      strings.TrimRight(string(code), "\x00"),
		Size:      int(size),
		Address:   addr,
		SDNAIndex: int(sdnaIndex),
		Count:     int(count),
	}, nil
}
