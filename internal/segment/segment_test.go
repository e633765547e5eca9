package segment

import (
	"reflect"
	"strings"
	"testing"

	"chronicle/history/internal/authorship"
	"chronicle/history/internal/snapshot"
)

var (
	authorA = authorship.FromHistoryRecord("avery", authorship.KindHuman)
	authorB = authorship.FromPeer(authorship.Peer{Name: "Claude Agent", Type: "agent"})
)

type run struct {
	id   string
	text string
}

func runsOf(segments []AuthorshipSegment) []run {
	out := make([]run, 0, len(segments))
	for _, segment := range segments {
		out = append(out, run{id: segment.Author.ID, text: segment.Text})
	}
	return out
}

func TestAuthorshipSegmentsAfterInsert(t *testing.T) {
	s := snapshot.Derive(snapshot.New("abcXYZ", authorA), "abc12XYZ", authorB)

	got := runsOf(BuildAuthorshipSegments(s))
	want := []run{{authorA.ID, "abc"}, {authorB.ID, "12"}, {authorA.ID, "XYZ"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("segments = %+v, want %+v", got, want)
	}
}

func TestAuthorshipSegmentsAfterReplace(t *testing.T) {
	s := snapshot.Derive(snapshot.New("hello world", authorA), "hello there", authorB)

	got := runsOf(BuildAuthorshipSegments(s))
	want := []run{{authorA.ID, "hello "}, {authorB.ID, "there"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("segments = %+v, want %+v", got, want)
	}
}

func TestAuthorshipSegmentsRoundTrip(t *testing.T) {
	s := snapshot.New("# Title\n", authorA)
	s = snapshot.Derive(s, "# Title\n\nDraft — by the agent.\n", authorB)
	s = snapshot.Derive(s, "# Better Title\n\nDraft — by the agent.\n", authorship.LocalUser)
	s = snapshot.Derive(s, "# Better Title\n\nDraft.\n", authorA)

	var joined strings.Builder
	for _, segment := range BuildAuthorshipSegments(s) {
		joined.WriteString(segment.Text)
	}
	if joined.String() != s.Content {
		t.Fatalf("joined segments %q != content %q", joined.String(), s.Content)
	}
}

func TestAuthorshipSegmentsEmpty(t *testing.T) {
	if got := BuildAuthorshipSegments(snapshot.New("", authorA)); len(got) != 0 {
		t.Fatalf("expected no segments, got %+v", got)
	}
	if got := BuildAuthorshipRanges(snapshot.New("", authorA)); len(got) != 0 {
		t.Fatalf("expected no ranges, got %+v", got)
	}
}

func TestAuthorshipSegmentsMalformedAttribution(t *testing.T) {
	s := snapshot.Snapshot{Content: "abcd", Attribution: []authorship.Author{authorA, authorA}}

	got := runsOf(BuildAuthorshipSegments(s))
	want := []run{{authorA.ID, "ab"}, {authorship.UnknownID, "cd"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("segments = %+v, want %+v", got, want)
	}
}

func TestAuthorshipRanges(t *testing.T) {
	s := snapshot.Derive(snapshot.New("añoXYZ", authorA), "año12XYZ", authorB)

	got := BuildAuthorshipRanges(s)
	want := []Range{
		{From: 0, To: 3, AuthorName: authorA.Name},
		{From: 3, To: 5, AuthorName: authorB.Name},
		{From: 5, To: 8, AuthorName: authorA.Name},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ranges = %+v, want %+v", got, want)
	}
}
