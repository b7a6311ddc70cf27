// Package handleregistry implements the Open-Handle Registry (spec §4.4):
// the core's record of every handle it has redirected or synthesized, so a
// later operation on the same handle (a read, a second enumeration batch, a
// close) can recover the decision that was made when it was opened.
//
// The registry is a single map guarded by one mutex, grounded on the
// teacher's reliance on jacobsa/syncutil's invariant-checked mutex for
// structures whose correctness depends on never being read or written
// outside a held lock.
package handleregistry

import (
	"context"

	"github.com/google/uuid"
	"github.com/jacobsa/syncutil"

	"github.com/samuelgr/pathwinder/internal/decision"
	"github.com/samuelgr/pathwinder/internal/enum"
	"github.com/samuelgr/pathwinder/internal/fsops"
	"github.com/samuelgr/pathwinder/internal/logger"
	"github.com/samuelgr/pathwinder/internal/pwpath"
	"github.com/samuelgr/pathwinder/internal/pwstatus"
)

// Record is everything the registry remembers about one open handle
// (spec §4.4): the application-visible path it was opened against, the
// instruction that produced it, and, once an enumeration has begun on it,
// the merged queue driving that enumeration plus a session id identifying
// it across log lines.
type Record struct {
	AssociatedPath     pwpath.Path
	Instruction        decision.Instruction
	Enumeration        *enum.MergedQueue
	EnumerationSession string
}

// Registry is the Open-Handle Registry. The zero value is not usable; call
// New.
type Registry struct {
	mu      syncutil.InvariantMutex
	records map[fsops.Handle]Record
}

// New returns an empty Registry.
func New() *Registry {
	r := &Registry{records: make(map[fsops.Handle]Record)}
	r.mu = syncutil.NewInvariantMutex(r.checkInvariants)
	return r
}

// checkInvariants is run by the invariant mutex after every unlock in race-
// detector builds. The only invariant the registry carries is that its map
// is never nil.
func (r *Registry) checkInvariants() {
	if r.records == nil {
		panic("handleregistry: records map is nil")
	}
}

// Insert adds a new record for handle, which must not already be present
// (spec §4.4: a handle value is only ever inserted once between opens,
// since the platform guarantees handle values are not reused while open).
func (r *Registry) Insert(handle fsops.Handle, rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[handle] = rec
}

// InsertOrUpdate adds handle's record, overwriting any existing one. Used
// when a handle is reassociated, e.g. after a root-handle composition
// changes what path the registry believes a handle refers to.
func (r *Registry) InsertOrUpdate(handle fsops.Handle, rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[handle] = rec
}

// Get returns handle's record, if any. This is a read-only lookup, so it
// takes the mutex's shared lock rather than the exclusive one (spec §5).
func (r *Registry) Get(handle fsops.Handle) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[handle]
	return rec, ok
}

// AssociateEnumeration attaches a merged enumeration queue to an
// already-registered handle, for use by the next partial-enumeration call
// on it. It is a no-op if handle is not registered. A fresh session id is
// stamped on the record so later log lines for this enumeration (spanning
// however many partial-enumeration calls it takes to drain) can be grepped
// together.
func (r *Registry) AssociateEnumeration(handle fsops.Handle, queue *enum.MergedQueue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[handle]
	if !ok {
		return
	}
	rec.Enumeration = queue
	rec.EnumerationSession = uuid.NewString()
	r.records[handle] = rec
	logger.Debugf("handleregistry: associated enumeration session %s with handle %v", rec.EnumerationSession, handle)
}

// Remove discards handle's record without closing anything on the real
// filesystem. Used when the caller has already established the handle is
// gone by some other means.
func (r *Registry) Remove(handle fsops.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, handle)
}

// CloseAndRemove closes handle via facade and removes its record in a
// single critical section, so no concurrent lookup can observe the handle
// as registered once it is no longer safe to use (spec §4.4's handle-reuse
// invariant: the platform may hand the same numeric value to an unrelated
// open as soon as close returns). The record is erased only if the close
// succeeds; a failed close leaves it in place so the host can retry the
// close later (spec §4.4, §5, §7 Recovery).
func (r *Registry) CloseAndRemove(ctx context.Context, handle fsops.Handle, facade fsops.FilesystemOperations) pwstatus.Code {
	r.mu.Lock()
	defer r.mu.Unlock()
	status := facade.CloseHandle(ctx, handle)
	if status != pwstatus.Success {
		return status
	}
	delete(r.records, handle)
	return status
}
