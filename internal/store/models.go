package store

import "time"

// CommitInfo describes one revision of a document body in the git history.
type CommitInfo struct {
	Hash      string
	Message   string
	Author    string
	CreatedAt time.Time
}

// AuthorshipRangeRow is a stored authorship record as the history service
// writes it. Offsets are rune positions into the body at Revision.
type AuthorshipRangeRow struct {
	DocumentID  string
	Revision    string
	AuthorID    string
	AuthorType  string
	StartOffset int
	EndOffset   int
}
