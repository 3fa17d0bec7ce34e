package analyzer

import (
	"fmt"

	"github.com/mabhi256/bdiag/internal/blend/model"
)

// WalkPointerFields visits every pointer-valued terminal reachable under the
// struct's field list, depth first, and calls fn with the field path of each.
//
// Traversal is field-major: a field's array items are visited in order before
// the next field starts. The array index is appended to the path only when
// the field's array size is greater than one, keeping scalar paths readable.
// Plain-data terminals are inert and produce no visit.
func WalkPointerFields(s *model.DNAStruct, fn func(path model.Path, field *model.DNAField) error) error {
	for _, field := range s.Fields {
		if err := walkField(s, field, nil, fn); err != nil {
			return err
		}
	}
	return nil
}

func walkField(owner *model.DNAStruct, f *model.DNAField, prefix model.Path, fn func(model.Path, *model.DNAField) error) error {
	if f.Kind == model.KindScalar {
		return nil
	}

	path := prefix.With(model.FieldSeg(f.NameOnly))
	for i := 0; i < f.ArraySize; i++ {
		itemPath := path
		if f.ArraySize > 1 {
			itemPath = path.With(model.IndexSeg(i))
		}

		switch f.Kind {
		case model.KindPointer:
			// Pointers are leaves even when the pointed-to type has fields of
			// its own; those belong to the target block.
			if err := fn(itemPath, f); err != nil {
				return err
			}
		case model.KindStruct:
			for _, sub := range f.Type.Fields {
				if err := walkField(f.Type, sub, itemPath, fn); err != nil {
					return err
				}
			}
		default:
			// The catalog loader tags every field; anything else means the
			// format assumptions are broken and the pass cannot continue.
			return fmt.Errorf("struct %s field %s has impossible descriptor shape (kind %d)",
				owner.Name, f.Name, f.Kind)
		}
	}
	return nil
}
