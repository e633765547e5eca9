package snapshot

import (
	"unicode/utf8"

	"chronicle/history/internal/authorship"
)

// AuthorRange is one authorship record from the history service. Offsets are
// half-open rune positions into the document body.
type AuthorRange struct {
	AuthorID   string          `json:"author_id"`
	AuthorType authorship.Kind `json:"author_type"`
	Start      int             `json:"start_offset"`
	End        int             `json:"end_offset"`
}

// Seed builds a snapshot for content that already existed before this
// session. Offsets are clamped into the content, empty or inverted ranges are
// skipped, and later ranges win where they overlap earlier ones. Positions no
// range covers go to fallback.
func Seed(content string, ranges []AuthorRange, fallback authorship.Author) Snapshot {
	n := utf8.RuneCountInString(content)
	attribution := fill(n, fallback)

	for _, r := range ranges {
		start := clamp(r.Start, 0, n)
		end := clamp(r.End, 0, n)
		if end <= start {
			continue
		}
		author := authorship.FromHistoryRecord(r.AuthorID, r.AuthorType)
		for i := start; i < end; i++ {
			attribution[i] = author
		}
	}

	return Snapshot{Content: content, Attribution: attribution}
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
