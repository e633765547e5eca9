package snapshot

import (
	"strings"
	"testing"

	"chronicle/history/internal/authorship"
)

var (
	authorA = authorship.FromHistoryRecord("avery", authorship.KindHuman)
	authorB = authorship.FromPeer(authorship.Peer{Name: "Claude Agent", Type: "agent"})
)

// ids renders attribution as one letter per character for compact assertions.
func ids(s Snapshot, letters map[string]string) string {
	var builder strings.Builder
	for _, author := range s.Attribution {
		letter, ok := letters[author.ID]
		if !ok {
			letter = "?"
		}
		builder.WriteString(letter)
	}
	return builder.String()
}

func TestDeriveIdempotent(t *testing.T) {
	base := Derive(New("hello world", authorA), "hello there", authorB)

	again := Derive(base, base.Content, authorship.LocalUser)
	if !again.Equal(base) {
		t.Fatalf("expected no-op derive to keep snapshot, got %+v", again)
	}
	if &again.Attribution[0] == &base.Attribution[0] {
		t.Fatal("expected a copy of the attribution, not shared storage")
	}
}

func TestDeriveAttribution(t *testing.T) {
	letters := map[string]string{authorA.ID: "A", authorB.ID: "B"}
	tests := []struct {
		name     string
		previous string
		next     string
		want     string
	}{
		{name: "insert middle", previous: "abcXYZ", next: "abc12XYZ", want: "AAABBAAA"},
		{name: "replace tail", previous: "hello world", next: "hello there", want: "AAAAAABBBBB"},
		{name: "append", previous: "abc", next: "abcd", want: "AAAB"},
		{name: "prepend", previous: "abc", next: "zabc", want: "BAAA"},
		{name: "delete middle", previous: "abcdef", next: "abef", want: "AAAA"},
		{name: "delete all", previous: "abc", next: "", want: ""},
		{name: "from empty", previous: "", next: "new", want: "BBB"},
		{name: "repeated pattern", previous: "aaaa", next: "aaaaa", want: "AAAAB"},
		{name: "multibyte", previous: "héllo", next: "hé—llo", want: "AABAAA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(New(tt.previous, authorA), tt.next, authorB)
			if got.Content != tt.next {
				t.Fatalf("content = %q, want %q", got.Content, tt.next)
			}
			if len(got.Attribution) != got.Len() {
				t.Fatalf("attribution length %d != content length %d", len(got.Attribution), got.Len())
			}
			if ids(got, letters) != tt.want {
				t.Fatalf("attribution = %s, want %s", ids(got, letters), tt.want)
			}
		})
	}
}

func TestDeriveChainKeepsEarlierAuthors(t *testing.T) {
	letters := map[string]string{authorA.ID: "A", authorB.ID: "B", authorship.LocalUserID: "L"}

	s := New("one two", authorA)
	s = Derive(s, "one and two", authorB)
	s = Derive(s, "one and two!", authorship.LocalUser)
	s = Derive(s, "one and two!", authorA)

	if got := ids(s, letters); got != "AAAABBBBAAAL" {
		t.Fatalf("attribution = %s", got)
	}
}

func TestDeriveNormalizesShortAttribution(t *testing.T) {
	malformed := Snapshot{Content: "abcd", Attribution: []authorship.Author{authorA}}

	same := Derive(malformed, "abcd", authorB)
	if len(same.Attribution) != 4 {
		t.Fatalf("expected normalized length 4, got %d", len(same.Attribution))
	}
	if !same.Attribution[3].Same(authorship.UnknownCollaborator) {
		t.Fatalf("expected fallback author, got %+v", same.Attribution[3])
	}

	grown := Derive(malformed, "abcdX", authorB)
	letters := map[string]string{authorA.ID: "A", authorB.ID: "B", authorship.UnknownID: "U"}
	if got := ids(grown, letters); got != "AUUUB" {
		t.Fatalf("attribution = %s", got)
	}
}

func TestCommonBoundsDoNotOverlap(t *testing.T) {
	tests := []struct {
		a, b           string
		prefix, suffix int
	}{
		{a: "abcXYZ", b: "abc12XYZ", prefix: 3, suffix: 3},
		{a: "aaa", b: "aaaa", prefix: 3, suffix: 0},
		{a: "aaaa", b: "aa", prefix: 2, suffix: 0},
		{a: "abab", b: "ab", prefix: 2, suffix: 0},
		{a: "xab", b: "yab", prefix: 0, suffix: 2},
		{a: "", b: "", prefix: 0, suffix: 0},
		{a: "same", b: "same", prefix: 4, suffix: 0},
	}
	for _, tt := range tests {
		prefix, suffix := CommonBounds([]rune(tt.a), []rune(tt.b))
		if prefix != tt.prefix || suffix != tt.suffix {
			t.Errorf("CommonBounds(%q, %q) = (%d, %d), want (%d, %d)", tt.a, tt.b, prefix, suffix, tt.prefix, tt.suffix)
		}
	}
}

func TestAuthorAtFallsBack(t *testing.T) {
	s := Snapshot{Content: "ab", Attribution: []authorship.Author{authorA}}
	if got := s.AuthorAt(0); !got.Same(authorA) {
		t.Fatalf("expected author A at 0, got %+v", got)
	}
	for _, i := range []int{-1, 1, 5} {
		if got := s.AuthorAt(i); !got.Same(authorship.UnknownCollaborator) {
			t.Fatalf("AuthorAt(%d) = %+v, want fallback", i, got)
		}
	}
}
