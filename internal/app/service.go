package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"chronicle/history/internal/authorship"
	"chronicle/history/internal/config"
	"chronicle/history/internal/gitrepo"
	"chronicle/history/internal/history"
	"chronicle/history/internal/presence"
	"chronicle/history/internal/segment"
	"chronicle/history/internal/snapshot"
	"chronicle/history/internal/store"
)

const (
	sourceContent  = "content"
	sourcePostgres = "postgres"
	sourceBlame    = "blame"
	sourceLocal    = "local"

	revisionLimit     = 25
	checkpointMessage = "Checkpoint document"
)

type gitService interface {
	EnsureDocumentRepo(string, string, authorship.Author) error
	CommitContent(string, string, authorship.Author, string) (store.CommitInfo, error)
	HeadContent(string) (string, store.CommitInfo, error)
	BlameRanges(string) ([]snapshot.AuthorRange, store.CommitInfo, error)
	History(string, int) ([]store.CommitInfo, error)
}

type rangeStore interface {
	ListAuthorshipRanges(context.Context, string, string) ([]snapshot.AuthorRange, error)
	Ping(context.Context) error
}

type peerRoster interface {
	Join(context.Context, string, authorship.Peer) error
	Leave(context.Context, string, string) error
	Peers(context.Context, string) ([]authorship.Peer, error)
	Ping(context.Context) error
}

// openDocument is the history state for one document view. Its mutex
// serializes every operation on the buffer, which is itself single-threaded.
type openDocument struct {
	mu       sync.Mutex
	id       string
	revision string
	source   string
	buffer   *history.Buffer
	live     *liveDocument
	peers    []authorship.Peer
}

type Service struct {
	cfg    config.Config
	git    gitService
	ranges rangeStore
	roster peerRoster

	docMu     sync.Mutex
	documents map[string]*openDocument
}

// New wires the service. rangeStore and roster may be nil when Postgres or
// Redis is not configured.
func New(cfg config.Config, gitService *gitrepo.Service, rangeStore *store.PostgresStore, roster *presence.RedisRoster) *Service {
	s := &Service{
		cfg:       cfg,
		documents: make(map[string]*openDocument),
	}
	if gitService != nil {
		s.git = gitService
	}
	if rangeStore != nil {
		s.ranges = rangeStore
	}
	if roster != nil {
		s.roster = roster
	}
	return s
}

// Open starts a history session for documentID. An explicit content body is
// attributed to the local user and becomes the repository baseline when the
// document has none; otherwise the git head is loaded and its attribution
// comes from stored ranges, then git blame, then the local user. Opening an
// already open document returns its current state.
func (s *Service) Open(ctx context.Context, documentID string, content *string) (map[string]any, error) {
	documentID, err := documentKey(documentID)
	if err != nil {
		return nil, err
	}

	if doc, ok := s.find(documentID); ok {
		doc.mu.Lock()
		defer doc.mu.Unlock()
		return timelineState(doc), nil
	}

	initial, revision, source, err := s.initialSnapshot(ctx, documentID, content)
	if err != nil {
		return nil, err
	}

	doc := &openDocument{id: documentID, revision: revision, source: source}
	doc.live = newLiveDocument(initial.Content, func(next string, remote bool) {
		doc.buffer.OnChange(next, remote, doc.peers)
	})
	doc.buffer = history.New(history.WithCapacity(s.cfg.HistoryCapacity), history.WithEditor(doc.live))
	doc.buffer.Seed(initial)

	s.docMu.Lock()
	if existing, ok := s.documents[documentID]; ok {
		doc = existing
	} else {
		s.documents[documentID] = doc
	}
	s.docMu.Unlock()

	doc.mu.Lock()
	defer doc.mu.Unlock()
	return timelineState(doc), nil
}

func (s *Service) initialSnapshot(ctx context.Context, documentID string, content *string) (snapshot.Snapshot, string, string, error) {
	if content != nil {
		if s.git != nil {
			if err := s.git.EnsureDocumentRepo(documentID, *content, authorship.LocalUser); err != nil {
				return snapshot.Snapshot{}, "", "", fmt.Errorf("ensure document repo: %w", err)
			}
		}
		return snapshot.New(*content, authorship.LocalUser), "", sourceContent, nil
	}
	if s.git == nil {
		return snapshot.Snapshot{}, "", "", errDocumentNotFound(documentID)
	}

	body, head, err := s.git.HeadContent(documentID)
	if isNotFound(err) {
		return snapshot.Snapshot{}, "", "", errDocumentNotFound(documentID)
	}
	if err != nil {
		return snapshot.Snapshot{}, "", "", fmt.Errorf("load document head: %w", err)
	}

	if s.ranges != nil {
		ranges, err := s.ranges.ListAuthorshipRanges(ctx, documentID, head.Hash)
		if err != nil {
			log.Printf("history: authorship ranges for %s@%s unavailable: %v", documentID, head.Hash, err)
		} else if len(ranges) > 0 {
			return snapshot.Seed(body, ranges, authorship.UnknownCollaborator), head.Hash, sourcePostgres, nil
		}
	}

	ranges, blamed, err := s.git.BlameRanges(documentID)
	if err != nil {
		log.Printf("history: blame for %s failed, attributing to local user: %v", documentID, err)
		return snapshot.New(body, authorship.LocalUser), head.Hash, sourceLocal, nil
	}
	if blamed.Hash != head.Hash {
		log.Printf("history: head of %s moved from %s to %s while opening", documentID, head.Hash, blamed.Hash)
		return snapshot.New(body, authorship.LocalUser), head.Hash, sourceLocal, nil
	}
	return snapshot.Seed(body, ranges, authorship.UnknownCollaborator), head.Hash, sourceBlame, nil
}

// Close discards the history session. Nothing is persisted.
func (s *Service) Close(documentID string) error {
	documentID, err := documentKey(documentID)
	if err != nil {
		return err
	}
	s.docMu.Lock()
	defer s.docMu.Unlock()
	if _, ok := s.documents[documentID]; !ok {
		return errDocumentNotOpen(documentID)
	}
	delete(s.documents, documentID)
	return nil
}

// ApplyChange writes content into the live document as the collaborative
// buffer would, which commits it to history. Remote changes are attributed to
// the first peer on the presence roster.
func (s *Service) ApplyChange(ctx context.Context, documentID, content string, remote bool) (map[string]any, error) {
	doc, err := s.lookup(documentID)
	if err != nil {
		return nil, err
	}

	var peers []authorship.Peer
	if remote && s.roster != nil {
		listed, err := s.roster.Peers(ctx, doc.id)
		if err != nil {
			log.Printf("history: presence roster for %s unavailable: %v", doc.id, err)
		} else {
			peers = listed
		}
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()
	doc.peers = peers
	doc.live.Apply(content, remote)
	return timelineState(doc), nil
}

// Scrub previews a historical snapshot in the live document without
// recording it.
func (s *Service) Scrub(documentID string, index int) (map[string]any, error) {
	doc, err := s.lookup(documentID)
	if err != nil {
		return nil, err
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()
	doc.buffer.Scrub(index)
	return timelineState(doc), nil
}

func (s *Service) Timeline(documentID string) (map[string]any, error) {
	doc, err := s.lookup(documentID)
	if err != nil {
		return nil, err
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()
	return timelineState(doc), nil
}

// Authorship returns the colored-authorship view of the displayed snapshot,
// or of the live tip when latest is set.
func (s *Service) Authorship(documentID string, latest bool) (map[string]any, error) {
	doc, err := s.lookup(documentID)
	if err != nil {
		return nil, err
	}
	doc.mu.Lock()
	entry := doc.buffer.CurrentEntry()
	if latest {
		entry = doc.buffer.LatestEntry()
	}
	index := doc.buffer.Index()
	doc.mu.Unlock()

	return map[string]any{
		"documentId": doc.id,
		"index":      index,
		"latest":     latest,
		"content":    entry.Content,
		"segments":   segment.BuildAuthorshipSegments(entry),
		"ranges":     segment.BuildAuthorshipRanges(entry),
	}, nil
}

// Diff compares the displayed snapshot against the live tip. Text present
// only in the tip is reported as added.
func (s *Service) Diff(documentID string) (map[string]any, error) {
	doc, err := s.lookup(documentID)
	if err != nil {
		return nil, err
	}
	doc.mu.Lock()
	current := doc.buffer.CurrentEntry()
	latest := doc.buffer.LatestEntry()
	index := doc.buffer.Index()
	length := doc.buffer.Len()
	doc.mu.Unlock()

	return map[string]any{
		"documentId": doc.id,
		"index":      index,
		"length":     length,
		"segments":   segment.BuildDiffSegments(current.Content, latest.Content),
	}, nil
}

// Checkpoint commits the live tip to the document repository as the local
// user. The in-memory history is left as it is.
func (s *Service) Checkpoint(documentID, message string) (map[string]any, error) {
	doc, err := s.lookup(documentID)
	if err != nil {
		return nil, err
	}
	if s.git == nil {
		return nil, errGitUnavailable()
	}
	message = strings.TrimSpace(message)
	if message == "" {
		message = checkpointMessage
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()
	latest := doc.buffer.LatestEntry()
	commit, err := s.git.CommitContent(doc.id, latest.Content, authorship.LocalUser, message)
	if err != nil {
		return nil, fmt.Errorf("checkpoint document: %w", err)
	}
	doc.revision = commit.Hash

	state := timelineState(doc)
	state["commit"] = revisionItem(commit)
	return state, nil
}

// Revisions lists durable revisions from the document repository, newest first.
func (s *Service) Revisions(documentID string) (map[string]any, error) {
	documentID, err := documentKey(documentID)
	if err != nil {
		return nil, err
	}
	if s.git == nil {
		return nil, errGitUnavailable()
	}
	commits, err := s.git.History(documentID, revisionLimit)
	if err != nil {
		return nil, fmt.Errorf("load revisions: %w", err)
	}
	items := make([]map[string]any, 0, len(commits))
	for _, commit := range commits {
		items = append(items, revisionItem(commit))
	}
	return map[string]any{"documentId": documentID, "revisions": items}, nil
}

func (s *Service) JoinPeer(ctx context.Context, documentID string, peer authorship.Peer) (map[string]any, error) {
	documentID, err := documentKey(documentID)
	if err != nil {
		return nil, err
	}
	if s.roster == nil {
		return nil, errPresenceUnavailable()
	}
	if strings.TrimSpace(peer.Name) == "" {
		return nil, domainError(http.StatusBadRequest, "INVALID_PEER", "Peer name is required", nil)
	}
	if err := s.roster.Join(ctx, documentID, peer); err != nil {
		return nil, err
	}
	return s.rosterState(ctx, documentID)
}

func (s *Service) LeavePeer(ctx context.Context, documentID, name string) (map[string]any, error) {
	documentID, err := documentKey(documentID)
	if err != nil {
		return nil, err
	}
	if s.roster == nil {
		return nil, errPresenceUnavailable()
	}
	if err := s.roster.Leave(ctx, documentID, name); err != nil {
		return nil, err
	}
	return s.rosterState(ctx, documentID)
}

func (s *Service) rosterState(ctx context.Context, documentID string) (map[string]any, error) {
	peers, err := s.roster.Peers(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if peers == nil {
		peers = []authorship.Peer{}
	}
	authors := make([]authorship.Author, 0, len(peers))
	for _, peer := range peers {
		authors = append(authors, authorship.FromPeer(peer))
	}
	return map[string]any{"documentId": documentID, "peers": peers, "authors": authors}, nil
}

// Ping checks the optional backends that are configured.
func (s *Service) Ping(ctx context.Context) map[string]error {
	checks := make(map[string]error)
	if s.ranges != nil {
		checks["database"] = s.ranges.Ping(ctx)
	}
	if s.roster != nil {
		checks["presence"] = s.roster.Ping(ctx)
	}
	return checks
}

// documentKey trims a raw document id and rejects ids that could name a
// path outside the repositories directory.
func documentKey(raw string) (string, error) {
	documentID := strings.TrimSpace(raw)
	if documentID == "" {
		return "", errInvalidDocument(raw, "Document id is required")
	}
	if documentID == "." || strings.Contains(documentID, "..") || strings.ContainsAny(documentID, `/\`) {
		return "", errInvalidDocument(raw, "Document id contains path characters")
	}
	return documentID, nil
}

func (s *Service) find(documentID string) (*openDocument, bool) {
	s.docMu.Lock()
	defer s.docMu.Unlock()
	doc, ok := s.documents[documentID]
	return doc, ok
}

func (s *Service) lookup(raw string) (*openDocument, error) {
	documentID, err := documentKey(raw)
	if err != nil {
		return nil, err
	}
	doc, ok := s.find(documentID)
	if !ok {
		return nil, errDocumentNotOpen(documentID)
	}
	return doc, nil
}

func timelineState(doc *openDocument) map[string]any {
	return map[string]any{
		"documentId": doc.id,
		"revision":   nilIfEmpty(doc.revision),
		"source":     doc.source,
		"index":      doc.buffer.Index(),
		"length":     doc.buffer.Len(),
		"capacity":   doc.buffer.Capacity(),
		"atTip":      doc.buffer.AtTip(),
		"content":    doc.live.Content(),
	}
}

func revisionItem(commit store.CommitInfo) map[string]any {
	return map[string]any{
		"hash":      commit.Hash,
		"message":   strings.TrimSpace(commit.Message),
		"author":    commit.Author,
		"color":     authorship.ColorOf(commit.Author),
		"createdAt": commit.CreatedAt,
	}
}

func nilIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func isNotFound(err error) bool {
	return errors.Is(err, gitrepo.ErrDocumentNotFound)
}
