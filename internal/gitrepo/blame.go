package gitrepo

import (
	"fmt"
	"unicode/utf8"

	"chronicle/history/internal/authorship"
	"chronicle/history/internal/snapshot"
	"chronicle/history/internal/store"

	git "github.com/go-git/go-git/v5"
)

type blameLine struct {
	authorName string
	email      string
	text       string
}

// BlameRanges attributes the head body line by line from git blame and
// returns the commit the ranges describe. Each line's newline belongs to that
// line, and adjacent lines by the same author merge into one range. Offsets
// are rune positions into the head body.
func (s *Service) BlameRanges(documentID string) ([]snapshot.AuthorRange, store.CommitInfo, error) {
	lock := s.documentLock(documentID)
	lock.Lock()
	defer lock.Unlock()

	commitObj, err := s.headCommit(documentID)
	if err != nil {
		return nil, store.CommitInfo{}, err
	}
	content, err := readContentFromCommit(commitObj)
	if err != nil {
		return nil, store.CommitInfo{}, err
	}

	result, err := git.Blame(commitObj, contentFile)
	if err != nil {
		return nil, store.CommitInfo{}, fmt.Errorf("blame %s: %w", contentFile, err)
	}

	lines := make([]blameLine, 0, len(result.Lines))
	for _, line := range result.Lines {
		lines = append(lines, blameLine{
			authorName: line.AuthorName,
			email:      line.Author,
			text:       line.Text,
		})
	}
	return rangesFromLines(content, lines), toCommitInfo(commitObj), nil
}

func rangesFromLines(content string, lines []blameLine) []snapshot.AuthorRange {
	runes := []rune(content)
	ranges := make([]snapshot.AuthorRange, 0, len(lines))
	cursor := 0
	for _, line := range lines {
		start := cursor
		end := min(start+utf8.RuneCountInString(line.text), len(runes))
		if end < len(runes) && runes[end] == '\n' {
			end++
		}
		cursor = end
		if end <= start {
			continue
		}

		kind := kindFromEmail(line.email)
		authorID := authorIDFromSignature(line.authorName, kind)
		if last := len(ranges) - 1; last >= 0 && ranges[last].AuthorID == authorID && ranges[last].AuthorType == kind && ranges[last].End == start {
			ranges[last].End = end
			continue
		}
		ranges = append(ranges, snapshot.AuthorRange{
			AuthorID:   authorID,
			AuthorType: kind,
			Start:      start,
			End:        end,
		})
	}
	return ranges
}

// authorIDFromSignature maps the sentinel names written by signature back to
// their author ids so re-seeded text joins runs written in a live session.
func authorIDFromSignature(name string, kind authorship.Kind) string {
	if kind != authorship.KindHuman {
		return name
	}
	switch name {
	case authorship.LocalUserName:
		return authorship.LocalUserID
	case authorship.UnknownName:
		return authorship.UnknownID
	}
	return name
}
