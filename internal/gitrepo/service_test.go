package gitrepo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"chronicle/history/internal/authorship"
)

var (
	avery = authorship.FromHistoryRecord("Avery", authorship.KindHuman)
	agent = authorship.FromPeer(authorship.Peer{Name: "Claude Agent", Type: "agent"})
)

func TestDocumentRepoLifecycle(t *testing.T) {
	tempDir := t.TempDir()
	svc := New(tempDir)

	if err := svc.EnsureDocumentRepo("doc-1", "# Doc\n\nSub\n", avery); err != nil {
		t.Fatalf("EnsureDocumentRepo() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "doc-1", contentFile)); err != nil {
		t.Fatalf("content file missing: %v", err)
	}
	if err := svc.EnsureDocumentRepo("doc-1", "ignored", avery); err != nil {
		t.Fatalf("EnsureDocumentRepo() second call error = %v", err)
	}

	commit, err := svc.CommitContent("doc-1", "# Doc\n\nSub, revised\n", agent, "Revise subtitle")
	if err != nil {
		t.Fatalf("CommitContent() error = %v", err)
	}
	if len(commit.Hash) != 7 {
		t.Fatalf("expected short hash, got %q", commit.Hash)
	}
	if commit.Author != "Claude Agent" {
		t.Fatalf("expected agent author name, got %q", commit.Author)
	}

	content, head, err := svc.HeadContent("doc-1")
	if err != nil {
		t.Fatalf("HeadContent() error = %v", err)
	}
	if content != "# Doc\n\nSub, revised\n" {
		t.Fatalf("unexpected head content %q", content)
	}
	if head.Hash != commit.Hash {
		t.Fatalf("expected head %s, got %s", commit.Hash, head.Hash)
	}

	history, err := svc.History("doc-1", 10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 commits, got %d", len(history))
	}
	if history[0].Hash != commit.Hash {
		t.Fatalf("expected newest commit first, got %s", history[0].Hash)
	}

	limited, err := svc.History("doc-1", 1)
	if err != nil {
		t.Fatalf("History() limited error = %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

func TestMissingDocument(t *testing.T) {
	svc := New(t.TempDir())

	if _, _, err := svc.HeadContent("nope"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if _, _, err := svc.BlameRanges("nope"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound from blame, got %v", err)
	}
}

func TestSignatureEncodesKind(t *testing.T) {
	human := signature(avery)
	if human.Email != "Avery@local.chronicle.dev" {
		t.Fatalf("unexpected human email %q", human.Email)
	}
	bot := signature(agent)
	if bot.Email != "Claude.Agent@agents.chronicle.dev" {
		t.Fatalf("unexpected agent email %q", bot.Email)
	}
	if kindFromEmail(bot.Email) != authorship.KindAgent || kindFromEmail(human.Email) != authorship.KindHuman {
		t.Fatal("expected kind to round-trip through the email domain")
	}
	if blank := signature(authorship.Author{}); blank.Name != authorship.UnknownName {
		t.Fatalf("expected fallback name, got %q", blank.Name)
	}
}

func TestConcurrentCommitContent(t *testing.T) {
	svc := New(t.TempDir())
	if err := svc.EnsureDocumentRepo("doc-1", "base\n", avery); err != nil {
		t.Fatalf("EnsureDocumentRepo() error = %v", err)
	}

	const writers = 12
	var wg sync.WaitGroup
	errCh := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if _, err := svc.CommitContent("doc-1", fmt.Sprintf("body-%02d\n", idx), avery, fmt.Sprintf("Commit %02d", idx)); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			t.Fatalf("CommitContent() concurrent error = %v", err)
		}
	}

	history, err := svc.History("doc-1", 100)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != writers+1 {
		t.Fatalf("expected %d commits in history, got %d", writers+1, len(history))
	}

	head, _, err := svc.HeadContent("doc-1")
	if err != nil {
		t.Fatalf("HeadContent() error = %v", err)
	}
	if !strings.HasPrefix(head, "body-") {
		t.Fatalf("unexpected head content after concurrent commits: %q", head)
	}
}
