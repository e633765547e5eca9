package snapshot

import (
	"testing"

	"chronicle/history/internal/authorship"
)

func TestSeedClampsAndFills(t *testing.T) {
	letters := map[string]string{
		"sarah":                "S",
		"build-bot":            "R",
		authorship.UnknownID:   "U",
		authorship.LocalUserID: "L",
	}
	ranges := []AuthorRange{
		{AuthorID: "sarah", AuthorType: authorship.KindHuman, Start: -4, End: 3},
		{AuthorID: "build-bot", AuthorType: authorship.KindAgent, Start: 5, End: 99},
		{AuthorID: "sarah", Start: 4, End: 4},
		{AuthorID: "sarah", Start: 7, End: 6},
		{AuthorID: authorship.LocalUserID, Start: 8, End: 9},
	}

	got := Seed("0123456789", ranges, authorship.UnknownCollaborator)
	if len(got.Attribution) != 10 {
		t.Fatalf("expected 10 attribution entries, got %d", len(got.Attribution))
	}
	if ids(got, letters) != "SSSUURRRLR" {
		t.Fatalf("attribution = %s", ids(got, letters))
	}
	if got.Attribution[5].Type != authorship.KindAgent {
		t.Fatalf("expected agent kind from record, got %q", got.Attribution[5].Type)
	}
	if got.Attribution[8].Name != authorship.LocalUserName {
		t.Fatalf("expected local user display name, got %q", got.Attribution[8].Name)
	}
}

func TestSeedBlankAuthorIDUsesUnknown(t *testing.T) {
	got := Seed("abc", []AuthorRange{{AuthorID: "  ", Start: 0, End: 3}}, authorship.LocalUser)
	for i, author := range got.Attribution {
		if !author.Same(authorship.UnknownCollaborator) {
			t.Fatalf("position %d: expected unknown collaborator, got %+v", i, author)
		}
	}
}

func TestSeedEmptyContent(t *testing.T) {
	got := Seed("", []AuthorRange{{AuthorID: "sarah", Start: 0, End: 10}}, authorship.LocalUser)
	if got.Content != "" || len(got.Attribution) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", got)
	}
}

func TestSeedCountsRunes(t *testing.T) {
	got := Seed("日本語", []AuthorRange{{AuthorID: "sarah", Start: 1, End: 2}}, authorship.LocalUser)
	letters := map[string]string{"sarah": "S", authorship.LocalUserID: "L"}
	if ids(got, letters) != "LSL" {
		t.Fatalf("attribution = %s", ids(got, letters))
	}
}
