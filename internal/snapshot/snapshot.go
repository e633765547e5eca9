// Package snapshot derives whole-document snapshots that carry per-character
// attribution across arbitrary edits.
//
// Positions are rune offsets: Attribution[i] names the author of the i-th
// code point of Content.
package snapshot

import (
	"unicode/utf8"

	"chronicle/history/internal/authorship"
)

// Snapshot is one document state plus the author of every character in it.
type Snapshot struct {
	Content     string              `json:"content"`
	Attribution []authorship.Author `json:"attribution"`
}

// New attributes all of content to author.
func New(content string, author authorship.Author) Snapshot {
	return Snapshot{Content: content, Attribution: fill(utf8.RuneCountInString(content), author)}
}

// Len returns the number of characters in the snapshot.
func (s Snapshot) Len() int {
	return utf8.RuneCountInString(s.Content)
}

// AuthorAt returns the author of position i, or UnknownCollaborator when the
// attribution does not cover i.
func (s Snapshot) AuthorAt(i int) authorship.Author {
	if i < 0 || i >= len(s.Attribution) {
		return authorship.UnknownCollaborator
	}
	return s.Attribution[i]
}

// Equal reports whether both snapshots hold the same content and the same
// author id at every position.
func (s Snapshot) Equal(other Snapshot) bool {
	if s.Content != other.Content || len(s.Attribution) != len(other.Attribution) {
		return false
	}
	for i := range s.Attribution {
		if !s.Attribution[i].Same(other.Attribution[i]) {
			return false
		}
	}
	return true
}

// Normalize returns a copy whose attribution has exactly one entry per
// character. Missing entries are filled with fallback and extra ones dropped.
func Normalize(s Snapshot, fallback authorship.Author) Snapshot {
	n := s.Len()
	attribution := make([]authorship.Author, n)
	copied := copy(attribution, s.Attribution)
	for i := copied; i < n; i++ {
		attribution[i] = fallback
	}
	return Snapshot{Content: s.Content, Attribution: attribution}
}

func fill(n int, author authorship.Author) []authorship.Author {
	attribution := make([]authorship.Author, n)
	for i := range attribution {
		attribution[i] = author
	}
	return attribution
}
