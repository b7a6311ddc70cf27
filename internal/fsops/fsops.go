// Package fsops declares FilesystemOperations, the only external
// collaborator the core calls (spec §6). The core is otherwise
// platform-neutral: every real-filesystem touchpoint goes through this
// interface, which in production is backed by a thin facade over NtClose,
// NtQueryDirectoryFileEx, NtOpenFile and friends, and in tests by an
// in-memory fake (see the fake subpackage).
package fsops

import (
	"context"

	"github.com/samuelgr/pathwinder/internal/layout"
	"github.com/samuelgr/pathwinder/internal/pwpath"
	"github.com/samuelgr/pathwinder/internal/pwstatus"
)

// Handle identifies an open real-filesystem object. Its numeric value may be
// reused by the platform once closed; callers must not retain it across a
// close without going through the Open-Handle Registry (spec §4.4).
type Handle uintptr

// EnumerationFlags controls a single partial-enumeration call.
type EnumerationFlags struct {
	// Restart requests that the enumeration begin again from the first
	// entry, discarding any server-side continuation state.
	Restart bool
	// ReturnSingleEntry requests that at most one record be written per call.
	ReturnSingleEntry bool
}

// FilesystemOperations is the facade the core consumes (spec §6). Every
// method returns a pwstatus.Code alongside any value; the core never treats
// a non-Success code as a Go error requiring special control flow beyond
// what spec §7 describes.
type FilesystemOperations interface {
	// CloseHandle closes a previously opened handle.
	CloseHandle(ctx context.Context, handle Handle) pwstatus.Code

	// CreateDirectoryHierarchy creates path and any missing parent
	// directories.
	CreateDirectoryHierarchy(ctx context.Context, path pwpath.Path) pwstatus.Code

	// Exists reports whether path names anything on the real filesystem.
	Exists(ctx context.Context, path pwpath.Path) bool

	// IsDirectory reports whether path names a real directory.
	IsDirectory(ctx context.Context, path pwpath.Path) bool

	// OpenDirectoryForEnumeration opens path for a subsequent series of
	// PartialEnumerateDirectoryContents calls.
	OpenDirectoryForEnumeration(ctx context.Context, path pwpath.Path) (Handle, pwstatus.Code)

	// PartialEnumerateDirectoryContents fills buf with one batch of
	// directory-information records of the given class, honoring pattern
	// and flags, and returns how many bytes were written.
	PartialEnumerateDirectoryContents(
		ctx context.Context,
		handle Handle,
		infoClass layout.InfoClass,
		buf []byte,
		flags EnumerationFlags,
		pattern string,
	) (written int, status pwstatus.Code)

	// QueryAbsolutePathByHandle recovers the real path a handle was opened
	// against.
	QueryAbsolutePathByHandle(ctx context.Context, handle Handle) (pwpath.Path, pwstatus.Code)

	// QuerySingleFileDirectoryInformation fills buf with one record
	// describing the single child leaf of parent, without opening a
	// directory enumeration. Used by the name-insertion producer to obtain
	// plausible metadata for a synthetic entry (spec §4.3 Producer C).
	QuerySingleFileDirectoryInformation(
		ctx context.Context,
		parent pwpath.Path,
		leaf string,
		infoClass layout.InfoClass,
		buf []byte,
	) (written int, status pwstatus.Code)

	// QueryFileHandleMode returns the access mode a handle was opened with.
	QueryFileHandleMode(ctx context.Context, handle Handle) (mode AccessMode, status pwstatus.Code)
}

// AccessMode is a coarse view of how a handle was opened; the core only
// needs to distinguish read-only access for the illusionary-directory and
// overlay-fallback rules (spec §4.2).
type AccessMode int

const (
	// AccessUnknown is the zero value, used when the facade cannot report
	// a mode (e.g. the handle predates the registry).
	AccessUnknown AccessMode = iota
	// AccessReadOnly marks a handle that cannot be used to create or modify.
	AccessReadOnly
	// AccessReadWrite marks a handle that can create or modify.
	AccessReadWrite
)
