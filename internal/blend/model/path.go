package model

import (
	"fmt"
	"strings"
)

// Segment is one step in a field path: either a struct field name or an
// array index into the preceding field.
type Segment struct {
	Name    string
	Index   int
	IsIndex bool
}

func FieldSeg(name string) Segment {
	return Segment{Name: name}
}

func IndexSeg(index int) Segment {
	return Segment{Index: index, IsIndex: true}
}

// Path identifies one terminal location inside a block item. A path is only
// meaningful paired with a (block address, item index).
type Path []Segment

// With returns a new path with seg appended. The receiver's backing array is
// never shared, so paths built during recursion stay independent.
func (p Path) With(seg Segment) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}

// String renders the path in dotted form, e.g. "id.name" or "mat[3]".
func (p Path) String() string {
	var sb strings.Builder
	for _, seg := range p {
		if seg.IsIndex {
			fmt.Fprintf(&sb, "[%d]", seg.Index)
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(seg.Name)
	}
	return sb.String()
}

func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}
