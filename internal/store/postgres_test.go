package store

import (
	"testing"

	"chronicle/history/internal/authorship"
)

func TestToAuthorRange(t *testing.T) {
	got := toAuthorRange(AuthorshipRangeRow{
		DocumentID:  "doc-1",
		Revision:    "abc1234",
		AuthorID:    "build-bot",
		AuthorType:  "Agent",
		StartOffset: 3,
		EndOffset:   9,
	})
	if got.AuthorID != "build-bot" || got.Start != 3 || got.End != 9 {
		t.Fatalf("unexpected range %+v", got)
	}
	if got.AuthorType != authorship.KindAgent {
		t.Fatalf("expected agent kind, got %q", got.AuthorType)
	}

	if human := toAuthorRange(AuthorshipRangeRow{AuthorType: "reviewer"}); human.AuthorType != authorship.KindHuman {
		t.Fatalf("expected unknown types to map to human, got %q", human.AuthorType)
	}
}
