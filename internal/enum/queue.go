// Package enum implements the Directory-Enumeration Engine (spec §4.3): a
// streaming, mergeable queue that fabricates a single logically-sorted
// sequence of directory entries from real origin/target directories and
// synthetic illusionary-hierarchy entries.
//
// The three producer variants share one interface and are combined by a
// merged queue that selects among them by explicit comparison rather than
// open dynamic dispatch, per spec §9's design note.
package enum

import (
	"context"

	"github.com/samuelgr/pathwinder/internal/layout"
	"github.com/samuelgr/pathwinder/internal/pwstatus"
)

// Status is a producer or merged queue's progress state.
type Status struct {
	Code pwstatus.Code // Success is never reported here; see IsError.
}

// MoreEntries reports whether the queue believes it has at least one more
// entry to offer.
func (s Status) MoreEntries() bool { return s.Code == pwstatus.MoreEntries }

// NoMoreFiles reports whether the queue is exhausted.
func (s Status) NoMoreFiles() bool { return s.Code == pwstatus.NoMoreFiles }

// IsError reports whether the queue is stuck on an unrecoverable error.
func (s Status) IsError() bool { return s.Code.IsError() }

// Entry is one fabricated directory entry: a name plus enough metadata to
// re-serialize a directory-information record for it. Metadata holds the
// class-specific bytes between FileIndex and FileNameLength inclusive of
// neither; it is copied verbatim from whatever record produced the entry,
// or left zeroed for a purely synthetic entry whose metadata came back
// not-found (never reached in practice, since §4.3 skips such insertions).
type Entry struct {
	Name     string
	Metadata []byte
}

// Queue is the contract every producer (and the merged queue itself)
// implements (spec §4.3 "Queue interface").
type Queue interface {
	// Status reports the queue's current progress state.
	Status(ctx context.Context) Status
	// FrontName returns the name of the current entry; valid only while
	// Status reports MoreEntries.
	FrontName() string
	// FrontSize returns the number of bytes CopyFront would write for the
	// current entry if given unlimited capacity.
	FrontSize(class layout.InfoClass) int
	// CopyFront serializes the current entry into dest, writing at most
	// cap bytes, and returns the number of bytes written. The caller is
	// responsible for detecting whether the whole record fit.
	CopyFront(dest []byte, cap int, class layout.InfoClass) int
	// Pop advances past the current entry.
	Pop(ctx context.Context)
	// Restart re-seeds the producer. A nil pattern leaves any existing
	// pattern unchanged; a non-nil pattern replaces it.
	Restart(ctx context.Context, pattern *string)
}
