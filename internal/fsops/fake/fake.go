// Package fake provides an in-memory FilesystemOperations for exercising
// the core without a real filesystem: an in-process tree of nodes standing
// in for a directory hierarchy, used by every other package's tests
// instead of a mocking framework.
package fake

import (
	"context"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/samuelgr/pathwinder/internal/fsops"
	"github.com/samuelgr/pathwinder/internal/layout"
	"github.com/samuelgr/pathwinder/internal/pwpath"
	"github.com/samuelgr/pathwinder/internal/pwstatus"
)

type node struct {
	name     string
	isDir    bool
	children map[string]*node // keyed by case-folded name
}

func newDirNode(name string) *node {
	return &node{name: name, isDir: true, children: make(map[string]*node)}
}

type handleState struct {
	path   pwpath.Path
	names  []string
	cursor int
	mode   fsops.AccessMode
}

// Facade is an in-memory FilesystemOperations. It has no notion of file
// contents, only directory structure, since that is all the core ever
// asks about.
type Facade struct {
	mu         sync.Mutex
	roots      map[string]*node // keyed by case-folded Path prefix
	handles    map[fsops.Handle]*handleState
	nextHandle fsops.Handle
}

// New returns an empty Facade.
func New() *Facade {
	return &Facade{
		roots:   make(map[string]*node),
		handles: make(map[fsops.Handle]*handleState),
	}
}

func foldKey(s string) string { return strings.ToLower(s) }

func (f *Facade) rootFor(p pwpath.Path) *node {
	key := foldKey(p.Prefix())
	r, ok := f.roots[key]
	if !ok {
		r = newDirNode(p.Prefix())
		f.roots[key] = r
	}
	return r
}

func (f *Facade) lookup(p pwpath.Path) (*node, bool) {
	n := f.rootFor(p)
	for _, c := range p.Components() {
		child, ok := n.children[foldKey(c)]
		if !ok {
			return nil, false
		}
		n = child
	}
	return n, true
}

// AddDirectory pre-seeds a real directory at p and any missing ancestors.
// Test helper only.
func (f *Facade) AddDirectory(p pwpath.Path) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensureDir(p)
}

// AddFile pre-seeds a real (non-directory) leaf at p, creating ancestors as
// needed. Test helper only.
func (f *Facade) AddFile(p pwpath.Path) {
	f.mu.Lock()
	defer f.mu.Unlock()
	parent, ok := p.Parent()
	var parentNode *node
	if !ok {
		parentNode = f.rootFor(p)
	} else {
		parentNode = f.ensureDir(parent)
	}
	parentNode.children[foldKey(p.Leaf())] = &node{name: p.Leaf(), isDir: false}
}

func (f *Facade) ensureDir(p pwpath.Path) *node {
	n := f.rootFor(p)
	for _, c := range p.Components() {
		key := foldKey(c)
		child, ok := n.children[key]
		if !ok {
			child = newDirNode(c)
			n.children[key] = child
		}
		n = child
	}
	return n
}

// Exists implements fsops.FilesystemOperations.
func (f *Facade) Exists(ctx context.Context, p pwpath.Path) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.lookup(p)
	return ok
}

// IsDirectory implements fsops.FilesystemOperations.
func (f *Facade) IsDirectory(ctx context.Context, p pwpath.Path) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.lookup(p)
	return ok && n.isDir
}

// CreateDirectoryHierarchy implements fsops.FilesystemOperations.
func (f *Facade) CreateDirectoryHierarchy(ctx context.Context, p pwpath.Path) pwstatus.Code {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n, ok := f.lookup(p); ok {
		if !n.isDir {
			return pwstatus.ObjectNameCollision
		}
		return pwstatus.Success
	}
	f.ensureDir(p)
	return pwstatus.Success
}

// OpenDirectoryForEnumeration implements fsops.FilesystemOperations.
func (f *Facade) OpenDirectoryForEnumeration(ctx context.Context, p pwpath.Path) (fsops.Handle, pwstatus.Code) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n, ok := f.lookup(p)
	if !ok {
		return 0, pwstatus.ObjectPathNotFound
	}
	if !n.isDir {
		return 0, pwstatus.ObjectPathInvalid
	}

	names := make([]string, 0, len(n.children))
	for _, child := range n.children {
		names = append(names, child.name)
	}
	sort.Slice(names, func(i, j int) bool { return strings.ToLower(names[i]) < strings.ToLower(names[j]) })

	f.nextHandle++
	h := f.nextHandle
	f.handles[h] = &handleState{path: p, names: names, mode: fsops.AccessReadOnly}
	return h, pwstatus.Success
}

// PartialEnumerateDirectoryContents implements fsops.FilesystemOperations.
func (f *Facade) PartialEnumerateDirectoryContents(
	ctx context.Context,
	handle fsops.Handle,
	infoClass layout.InfoClass,
	buf []byte,
	flags fsops.EnumerationFlags,
	pattern string,
) (int, pwstatus.Code) {
	f.mu.Lock()
	defer f.mu.Unlock()

	hs, ok := f.handles[handle]
	if !ok {
		return 0, pwstatus.InvalidHandle
	}
	if flags.Restart {
		hs.cursor = 0
	}

	d, status := layout.For(infoClass)
	if status.IsError() {
		return 0, status
	}

	written := 0
	lastOffset := -1
	wroteAny := false

	for hs.cursor < len(hs.names) {
		name := hs.names[hs.cursor]
		if pattern != "" && pattern != "*" {
			if ok, _ := path.Match(strings.ToLower(pattern), strings.ToLower(name)); !ok {
				hs.cursor++
				continue
			}
		}

		need := d.FileNameAt + 2*len([]rune(name))
		if need < d.BaseSize {
			need = d.BaseSize
		}
		if written+need > len(buf) {
			if !wroteAny {
				return 0, pwstatus.BufferTooSmall
			}
			break
		}

		rec := buf[written : written+need]
		d.WriteName(rec, name, len(rec))
		if lastOffset >= 0 {
			d.WriteNextEntryOffset(buf[lastOffset:], uint32(written-lastOffset))
		}
		lastOffset = written
		written += need
		wroteAny = true
		hs.cursor++

		if flags.ReturnSingleEntry {
			break
		}
	}

	if lastOffset >= 0 {
		d.ClearNextEntryOffset(buf[lastOffset:])
	}

	if hs.cursor >= len(hs.names) {
		return written, pwstatus.NoMoreFiles
	}
	return written, pwstatus.MoreEntries
}

// QueryAbsolutePathByHandle implements fsops.FilesystemOperations.
func (f *Facade) QueryAbsolutePathByHandle(ctx context.Context, handle fsops.Handle) (pwpath.Path, pwstatus.Code) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hs, ok := f.handles[handle]
	if !ok {
		return pwpath.Path{}, pwstatus.InvalidHandle
	}
	return hs.path, pwstatus.Success
}

// QuerySingleFileDirectoryInformation implements fsops.FilesystemOperations.
func (f *Facade) QuerySingleFileDirectoryInformation(
	ctx context.Context,
	parent pwpath.Path,
	leaf string,
	infoClass layout.InfoClass,
	buf []byte,
) (int, pwstatus.Code) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n, ok := f.lookup(parent)
	if !ok || !n.isDir {
		return 0, pwstatus.ObjectPathNotFound
	}
	child, ok := n.children[foldKey(leaf)]
	if !ok {
		return 0, pwstatus.ObjectNameNotFound
	}

	d, status := layout.For(infoClass)
	if status.IsError() {
		return 0, status
	}
	need := d.FileNameAt + 2*len([]rune(child.name))
	if need < d.BaseSize {
		need = d.BaseSize
	}
	if need > len(buf) {
		return 0, pwstatus.BufferTooSmall
	}
	rec := buf[:need]
	for i := range rec {
		rec[i] = 0
	}
	d.WriteName(rec, child.name, len(rec))
	d.ClearNextEntryOffset(rec)
	return need, pwstatus.Success
}

// QueryFileHandleMode implements fsops.FilesystemOperations.
func (f *Facade) QueryFileHandleMode(ctx context.Context, handle fsops.Handle) (fsops.AccessMode, pwstatus.Code) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hs, ok := f.handles[handle]
	if !ok {
		return fsops.AccessUnknown, pwstatus.InvalidHandle
	}
	return hs.mode, pwstatus.Success
}

// CloseHandle implements fsops.FilesystemOperations.
func (f *Facade) CloseHandle(ctx context.Context, handle fsops.Handle) pwstatus.Code {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.handles[handle]; !ok {
		return pwstatus.InvalidHandle
	}
	delete(f.handles, handle)
	return pwstatus.Success
}
