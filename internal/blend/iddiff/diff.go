package iddiff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// LineKind tags one line of a unified diff.
type LineKind int

const (
	Context LineKind = iota
	Added
	Removed
	HunkHeader
)

// Line is one rendered diff line. Presentation (coloring, writing) is the
// caller's job; tagging here has no semantic effect.
type Line struct {
	Kind LineKind
	Text string
}

// Unified computes an LCS-based unified diff of two descriptor sequences.
// Returns nil when the sequences are identical.
func Unified(a, b []Descriptor, fromName, toName string) ([]Line, error) {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        renderLines(a),
		B:        renderLines(b),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	})
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	raw := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	lines := make([]Line, len(raw))
	for i, l := range raw {
		lines[i] = Line{Kind: classify(l), Text: l}
	}
	return lines, nil
}

// HasChanges reports whether the diff contains added or removed lines.
func HasChanges(lines []Line) bool {
	for _, l := range lines {
		if l.Kind == Added || l.Kind == Removed {
			return true
		}
	}
	return false
}

func renderLines(ds []Descriptor) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.String() + "\n"
	}
	return out
}

func classify(line string) LineKind {
	switch {
	// File headers before line markers, same as any unified diff consumer.
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return Context
	case strings.HasPrefix(line, "+"):
		return Added
	case strings.HasPrefix(line, "-"):
		return Removed
	case strings.HasPrefix(line, "@@"):
		return HunkHeader
	default:
		return Context
	}
}
