// Package authorship resolves raw identity inputs into canonical, colored authors.
package authorship

import (
	"strings"
)

// Kind distinguishes people from automated agents.
type Kind string

const (
	KindHuman Kind = "human"
	KindAgent Kind = "agent"
)

const (
	LocalUserID   = "local-user"
	LocalUserName = "You"
	UnknownID     = "unknown-author"
	UnknownName   = "Unknown collaborator"

	peerPrefix   = "peer:"
	fallbackSlug = "remote"
)

// Author is an immutable identity record. Two authors are the same author when
// their IDs match.
type Author struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  Kind   `json:"type"`
	Color string `json:"color"`
}

// Peer is one roster entry from the presence service.
type Peer struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Cursor int    `json:"cursor"`
}

var (
	// LocalUser is the person editing in this session.
	LocalUser = Author{ID: LocalUserID, Name: LocalUserName, Type: KindHuman, Color: ColorOf(LocalUserName)}
	// UnknownCollaborator stands in when no concrete identity is available.
	UnknownCollaborator = Author{ID: UnknownID, Name: UnknownName, Type: KindHuman, Color: ColorOf(UnknownName)}
)

// Same reports whether a and b name the same author.
func (a Author) Same(b Author) bool {
	return a.ID == b.ID
}

// ParseKind maps a raw type string to a Kind. Anything other than "agent" is human.
func ParseKind(raw string) Kind {
	if strings.EqualFold(strings.TrimSpace(raw), string(KindAgent)) {
		return KindAgent
	}
	return KindHuman
}

// FromPeer builds the author for a presence roster entry. The id is derived
// from the slugified name so the same peer name always resolves identically.
func FromPeer(peer Peer) Author {
	return Author{
		ID:    peerPrefix + slugify(peer.Name),
		Name:  peer.Name,
		Type:  ParseKind(peer.Type),
		Color: ColorOf(peer.Name),
	}
}

// FromHistoryRecord builds the author named by an authorship-range record.
func FromHistoryRecord(authorID string, authorType Kind) Author {
	id := strings.TrimSpace(authorID)
	if id == "" {
		return UnknownCollaborator
	}
	if id == LocalUserID {
		return LocalUser
	}
	if authorType != KindAgent {
		authorType = KindHuman
	}
	return Author{ID: id, Name: id, Type: authorType, Color: ColorOf(id)}
}

// ForChange picks who a content change is attributed to. Remote changes go to
// the first listed peer because the change event does not carry its origin.
func ForChange(remote bool, peers []Peer) Author {
	if !remote {
		return LocalUser
	}
	if len(peers) == 0 {
		return UnknownCollaborator
	}
	return FromPeer(peers[0])
}

func slugify(name string) string {
	var builder strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			pendingDash = false
			builder.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	if builder.Len() == 0 {
		return fallbackSlug
	}
	return builder.String()
}
