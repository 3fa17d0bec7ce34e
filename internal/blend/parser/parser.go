package parser

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/mabhi256/bdiag/internal/blend/model"
)

// Parser reads the container's block table and reflection catalog in one
// sequential pass. Payloads other than DNA1 are skipped and loaded lazily.
type Parser struct {
	filename string
	file     *os.File
	br       *BinaryReader
}

func NewParser(filename string) (*Parser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}

	return &Parser{
		filename: filename,
		file:     file,
		br:       NewBinaryReader(file),
	}, nil
}

func (p *Parser) Close() error {
	return p.file.Close()
}

// Parse reads the header, block table and catalog, and returns the loaded
// file. The parser's handle is owned by the returned File afterwards.
func (p *Parser) Parse() (*File, error) {
	header, err := parseHeader(p.br)
	if err != nil {
		return nil, err
	}

	var blocks []*model.Block
	var dnaPayload []byte

	for {
		block, err := parseBlockHeader(p.br)
		if err != nil {
			return nil, fmt.Errorf("failed to parse block table: %w", err)
		}
		if block.Code == codeEndOfFile {
			break
		}

		block.FileOffset = p.br.BytesRead()
		if block.Code == codeDNA {
			if block.Data, err = p.br.ReadNBytes(block.Size); err != nil {
				return nil, fmt.Errorf("failed to read reflection catalog: %w", err)
			}
			dnaPayload = block.Data
		} else if err := p.br.Skip(int64(block.Size)); err != nil {
			return nil, fmt.Errorf("failed to skip block %s payload: %w", block, err)
		}

		blocks = append(blocks, block)
	}

	if dnaPayload == nil {
		return nil, fmt.Errorf("%s has no reflection catalog (DNA1 block missing)", p.filename)
	}

	var order binary.ByteOrder = binary.LittleEndian
	if header.BigEndian {
		order = binary.BigEndian
	}

	catalog, err := parseCatalog(dnaPayload, order, header.PointerSize)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reflection catalog: %w", err)
	}

	file := &File{
		path:    p.filename,
		handle:  p.file,
		header:  header,
		catalog: catalog,
		blocks:  blocks,
		byAddr:  make(map[uint64]*model.Block, len(blocks)),
		byCode:  make(map[string][]*model.Block),
		access:  model.Accessor{Order: order, PointerSize: header.PointerSize},
	}

	for _, block := range blocks {
		if s, ok := catalog.Struct(block.SDNAIndex); ok {
			block.Type = s
		}
		// First block with an address wins; repeats are a validation finding.
		if block.Address != 0 {
			if _, exists := file.byAddr[block.Address]; !exists {
				file.byAddr[block.Address] = block
			}
		}
		file.byCode[block.Code] = append(file.byCode[block.Code], block)
	}

	return file, nil
}

// Open is shorthand for NewParser followed by Parse.
func Open(filename string) (*File, error) {
	p, err := NewParser(filename)
	if err != nil {
		return nil, err
	}
	file, err := p.Parse()
	if err != nil {
		p.Close()
		return nil, err
	}
	return file, nil
}
