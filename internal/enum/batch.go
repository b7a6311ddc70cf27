package enum

import (
	"context"

	"github.com/samuelgr/pathwinder/internal/fsops"
	"github.com/samuelgr/pathwinder/internal/layout"
	"github.com/samuelgr/pathwinder/internal/pwpath"
	"github.com/samuelgr/pathwinder/internal/pwstatus"
)

// batchSize is the scratch buffer used to pull one round of records from the
// facade at a time. Real NtQueryDirectoryFileEx callers tend to use 64KiB;
// matched here so a producer rarely needs more than one round-trip for a
// typical directory.
const batchSize = 64 * 1024

// realDirReader streams decoded entries out of one real directory via
// repeated FilesystemOperations.PartialEnumerateDirectoryContents calls,
// applying an optional include filter and folding not-found/empty errors
// into a clean empty stream (spec §7's absorption policy, applied the same
// way the Path Decision Function applies it to a single Open).
type realDirReader struct {
	facade  fsops.FilesystemOperations
	path    pwpath.Path
	class   layout.InfoClass
	pattern string
	include func(name string) bool

	handle  fsops.Handle
	opened  bool
	buf     []byte
	pending []Entry
	cursor  int
	done    bool
	err     pwstatus.Code
	first   bool
}

func newRealDirReader(facade fsops.FilesystemOperations, path pwpath.Path, class layout.InfoClass, pattern string, include func(string) bool) *realDirReader {
	return &realDirReader{
		facade:  facade,
		path:    path,
		class:   class,
		pattern: pattern,
		include: include,
		buf:     make([]byte, batchSize),
		first:   true,
	}
}

func (r *realDirReader) ensureOpen(ctx context.Context) {
	if r.opened || r.done || r.err != pwstatus.Success {
		return
	}
	h, status := r.facade.OpenDirectoryForEnumeration(ctx, r.path)
	if status != pwstatus.Success {
		if pwstatus.IsNameResolutionFailure(status) {
			r.done = true
			return
		}
		r.err = status
		return
	}
	r.handle = h
	r.opened = true
}

func (r *realDirReader) fetchBatch(ctx context.Context) {
	flags := fsops.EnumerationFlags{Restart: r.first}
	r.first = false

	written, status := r.facade.PartialEnumerateDirectoryContents(ctx, r.handle, r.class, r.buf, flags, r.pattern)
	if status != pwstatus.Success && status != pwstatus.MoreEntries && status != pwstatus.NoMoreFiles {
		r.err = status
		return
	}
	if status == pwstatus.NoMoreFiles && written == 0 {
		r.done = true
		return
	}

	d, _ := layout.For(r.class)
	offset := 0
	for offset < written {
		rec := r.buf[offset:written]
		name := d.ReadName(rec)
		metaEnd := d.FileNameLengthAt
		var meta []byte
		if metaEnd > metadataOffset {
			meta = append([]byte(nil), rec[metadataOffset:metaEnd]...)
		}
		if r.include == nil || r.include(name) {
			r.pending = append(r.pending, Entry{Name: name, Metadata: meta})
		}

		next := d.ReadNextEntryOffset(rec)
		if next == 0 {
			break
		}
		offset += int(next)
	}

	if status == pwstatus.NoMoreFiles {
		r.done = true
	}
}

func (r *realDirReader) advance(ctx context.Context) {
	r.ensureOpen(ctx)
	for r.cursor >= len(r.pending) && !r.done && r.err == pwstatus.Success {
		r.pending = r.pending[:0]
		r.cursor = 0
		r.fetchBatch(ctx)
	}
}

func (r *realDirReader) status(ctx context.Context) Status {
	r.advance(ctx)
	if r.err != pwstatus.Success {
		return Status{Code: r.err}
	}
	if r.cursor < len(r.pending) {
		return Status{Code: pwstatus.MoreEntries}
	}
	return Status{Code: pwstatus.NoMoreFiles}
}

func (r *realDirReader) front() Entry {
	return r.pending[r.cursor]
}

func (r *realDirReader) pop(context.Context) {
	r.cursor++
}

func (r *realDirReader) restart(ctx context.Context, pattern *string) {
	if pattern != nil {
		r.pattern = *pattern
	}
	if r.opened {
		_ = r.facade.CloseHandle(ctx, r.handle)
	}
	r.opened = false
	r.done = false
	r.err = pwstatus.Success
	r.first = true
	r.pending = r.pending[:0]
	r.cursor = 0
}
