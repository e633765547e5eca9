// Package segment run-length encodes snapshots for rendering: colored
// authorship runs, in-place decoration ranges, and a three-way text diff.
package segment

import (
	"chronicle/history/internal/authorship"
	"chronicle/history/internal/snapshot"
)

// AuthorshipSegment is a maximal run of characters written by one author.
type AuthorshipSegment struct {
	Author authorship.Author `json:"author"`
	Text   string            `json:"text"`
}

// Range is a half-open rune range [From, To) written by one author.
type Range struct {
	From       int    `json:"from"`
	To         int    `json:"to"`
	AuthorName string `json:"authorName"`
}

// BuildAuthorshipSegments partitions the snapshot content into same-author
// runs. Joining the Text of every segment reproduces the content.
func BuildAuthorshipSegments(s snapshot.Snapshot) []AuthorshipSegment {
	runes := []rune(s.Content)
	segments := make([]AuthorshipSegment, 0)
	scanRuns(s, len(runes), func(from, to int, author authorship.Author) {
		segments = append(segments, AuthorshipSegment{Author: author, Text: string(runes[from:to])})
	})
	return segments
}

// BuildAuthorshipRanges is BuildAuthorshipSegments for consumers that decorate
// ranges in place.
func BuildAuthorshipRanges(s snapshot.Snapshot) []Range {
	ranges := make([]Range, 0)
	scanRuns(s, s.Len(), func(from, to int, author authorship.Author) {
		ranges = append(ranges, Range{From: from, To: to, AuthorName: author.Name})
	})
	return ranges
}

func scanRuns(s snapshot.Snapshot, n int, emit func(from, to int, author authorship.Author)) {
	if n == 0 {
		return
	}
	start := 0
	current := s.AuthorAt(0)
	for i := 1; i < n; i++ {
		author := s.AuthorAt(i)
		if author.Same(current) {
			continue
		}
		emit(start, i, current)
		start = i
		current = author
	}
	emit(start, n, current)
}
