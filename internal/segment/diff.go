package segment

import "chronicle/history/internal/snapshot"

// DiffKind tags a diff segment.
type DiffKind string

const (
	Unchanged DiffKind = "unchanged"
	Removed   DiffKind = "removed"
	Added     DiffKind = "added"
)

// DiffSegment is one piece of a comparison between two content strings.
type DiffSegment struct {
	Kind DiffKind `json:"kind"`
	Text string   `json:"text"`
}

// BuildDiffSegments compares a against b using the same prefix/suffix
// bracketing as snapshot.Derive. Text found only in a is Removed and text
// found only in b is Added. Empty pieces are omitted.
func BuildDiffSegments(a, b string) []DiffSegment {
	segments := make([]DiffSegment, 0, 4)
	if a == b {
		if a != "" {
			segments = append(segments, DiffSegment{Kind: Unchanged, Text: a})
		}
		return segments
	}

	aRunes := []rune(a)
	bRunes := []rune(b)
	prefix, suffix := snapshot.CommonBounds(aRunes, bRunes)

	pieces := []DiffSegment{
		{Kind: Unchanged, Text: string(aRunes[:prefix])},
		{Kind: Removed, Text: string(aRunes[prefix : len(aRunes)-suffix])},
		{Kind: Added, Text: string(bRunes[prefix : len(bRunes)-suffix])},
		{Kind: Unchanged, Text: string(aRunes[len(aRunes)-suffix:])},
	}
	for _, piece := range pieces {
		if piece.Text != "" {
			segments = append(segments, piece)
		}
	}
	return segments
}
