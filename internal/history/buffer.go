// Package history keeps the bounded timeline of document snapshots and the
// scrub position a viewer is looking at.
package history

import (
	"chronicle/history/internal/authorship"
	"chronicle/history/internal/snapshot"
)

const (
	// DefaultCapacity is the number of snapshots kept when no capacity is given.
	DefaultCapacity = 240
	// MaxCapacity is the largest capacity a buffer accepts.
	MaxCapacity = 10000
)

// Editor is the live document a scrub writes into. SetContent may raise the
// change notification synchronously, which lands back in OnChange.
type Editor interface {
	Content() string
	SetContent(content string)
}

// Buffer is an ordered, capacity-bounded sequence of snapshots plus the index
// of the one currently displayed. The last entry is always the live tip.
//
// A Buffer is not safe for concurrent use; callers serialize access per
// document.
type Buffer struct {
	entries  []snapshot.Snapshot
	index    int
	capacity int
	editor   Editor

	// suppress is held by Scrub while it writes into the editor so the change
	// notification that write raises is not recorded as a commit.
	suppress bool
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithCapacity bounds the number of retained snapshots. Values <= 0 select
// DefaultCapacity and values above MaxCapacity are clamped.
func WithCapacity(capacity int) Option {
	return func(b *Buffer) {
		if capacity <= 0 {
			capacity = DefaultCapacity
		}
		if capacity > MaxCapacity {
			capacity = MaxCapacity
		}
		b.capacity = capacity
	}
}

// WithEditor attaches the live editor that Scrub previews snapshots in.
func WithEditor(editor Editor) Option {
	return func(b *Buffer) { b.editor = editor }
}

// New creates an empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{capacity: DefaultCapacity}
	for _, o := range opts {
		o(b)
	}
	b.entries = make([]snapshot.Snapshot, 0, min(b.capacity, 64))
	return b
}

// Seed discards any existing timeline and starts over from initial.
func (b *Buffer) Seed(initial snapshot.Snapshot) {
	clear(b.entries)
	b.entries = append(b.entries[:0], snapshot.Normalize(initial, authorship.UnknownCollaborator))
	b.index = 0
}

// Commit records next as the new live tip, attributing changed text to
// author. Content identical to the tip is not appended. Either way the view
// returns to the tip. It reports whether an entry was appended.
func (b *Buffer) Commit(next string, author authorship.Author) bool {
	if len(b.entries) == 0 {
		b.Seed(snapshot.New(next, author))
		return true
	}

	tip := b.entries[len(b.entries)-1]
	derived := snapshot.Derive(tip, next, author)
	appended := false
	if derived.Content != tip.Content {
		b.entries = append(b.entries, derived)
		b.evict()
		appended = true
	}
	b.index = len(b.entries) - 1
	return appended
}

// OnChange is the handler for the live editor's change notification. While a
// scrub is writing into the editor it does nothing.
func (b *Buffer) OnChange(next string, remote bool, peers []authorship.Peer) {
	if b.suppress {
		return
	}
	b.Commit(next, authorship.ForChange(remote, peers))
}

// Scrub moves the view to target, clamped into the timeline, and previews
// that snapshot in the editor. It never appends or re-attributes. It returns
// the index actually selected.
func (b *Buffer) Scrub(target int) int {
	if len(b.entries) == 0 {
		b.index = 0
		return 0
	}
	b.index = max(0, min(target, len(b.entries)-1))

	content := b.entries[b.index].Content
	if b.editor != nil && b.editor.Content() != content {
		b.writeSuppressed(content)
	}
	return b.index
}

func (b *Buffer) writeSuppressed(content string) {
	b.suppress = true
	defer func() { b.suppress = false }()
	b.editor.SetContent(content)
}

// Suppressed reports whether a scrub write is in progress.
func (b *Buffer) Suppressed() bool {
	return b.suppress
}

// CurrentEntry returns the snapshot being displayed.
func (b *Buffer) CurrentEntry() snapshot.Snapshot {
	if len(b.entries) == 0 {
		return emptyEntry()
	}
	return b.entries[b.index]
}

// LatestEntry returns the live tip.
func (b *Buffer) LatestEntry() snapshot.Snapshot {
	if len(b.entries) == 0 {
		return emptyEntry()
	}
	return b.entries[len(b.entries)-1]
}

// Len returns the number of retained snapshots.
func (b *Buffer) Len() int {
	return len(b.entries)
}

// Index returns the position of the displayed snapshot.
func (b *Buffer) Index() int {
	return b.index
}

// Capacity returns the retention bound.
func (b *Buffer) Capacity() int {
	return b.capacity
}

// AtTip reports whether the view is on the live tip.
func (b *Buffer) AtTip() bool {
	return len(b.entries) == 0 || b.index == len(b.entries)-1
}

// Entries returns a copy of the timeline, oldest first.
func (b *Buffer) Entries() []snapshot.Snapshot {
	out := make([]snapshot.Snapshot, len(b.entries))
	copy(out, b.entries)
	return out
}

// evict drops the oldest entries until the buffer is within capacity.
func (b *Buffer) evict() {
	overflow := len(b.entries) - b.capacity
	if overflow <= 0 {
		return
	}
	copy(b.entries, b.entries[overflow:])
	clear(b.entries[b.capacity:])
	b.entries = b.entries[:b.capacity]
}

func emptyEntry() snapshot.Snapshot {
	return snapshot.New("", authorship.LocalUser)
}
