// Package iddiff extracts the ordered identity descriptors of a container
// and line-diffs two such extractions. It consumes only the raw block table,
// not the reference graph.
package iddiff

import (
	"bytes"
	"fmt"

	"github.com/mabhi256/bdiag/internal/blend/model"
)

// Source is the view of a loaded container the differ needs.
type Source interface {
	Blocks() []*model.Block
	GetBytes(b *model.Block, itemIndex int, path model.Path) ([]byte, error)
}

// Descriptor identifies one identity-bearing block: its category code and
// its raw id.name value. The name bytes are taken as stored, not decoded or
// validated.
type Descriptor struct {
	Code string
	Name string
}

func (d Descriptor) String() string {
	return fmt.Sprintf("(%q, %q)", d.Code, d.Name)
}

// Identities returns the identity descriptors of every identity-bearing
// block, in file order. No sorting happens: block order is assumed stable
// across comparable snapshots, and a changed order has meaning too.
func Identities(src Source, idx *model.IdentityIndex) ([]Descriptor, error) {
	namePath := model.Path{model.FieldSeg(model.IDFieldName), model.FieldSeg("name")}

	var out []Descriptor
	for _, block := range src.Blocks() {
		if !idx.IsIdentityType(block.SDNAIndex) {
			continue
		}
		raw, err := src.GetBytes(block, 0, namePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read id.name of %s: %w", block, err)
		}
		if end := bytes.IndexByte(raw, 0); end >= 0 {
			raw = raw[:end]
		}
		out = append(out, Descriptor{Code: block.Code, Name: string(raw)})
	}
	return out, nil
}
