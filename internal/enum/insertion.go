package enum

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/samuelgr/pathwinder/internal/fsops"
	"github.com/samuelgr/pathwinder/internal/layout"
	"github.com/samuelgr/pathwinder/internal/pwpath"
	"github.com/samuelgr/pathwinder/internal/pwstatus"
)

// Candidate is one illusionary child directory name-insertion may offer:
// Name is the child component immediately below the directory being
// enumerated, and RepresentativeTarget is some dominated rule's target
// directory, queried for plausible metadata to stamp on the synthetic entry
// (spec §4.3 Producer C).
type Candidate struct {
	Name                 string
	RepresentativeTarget pwpath.Path
}

// InsertionProducer is Producer C (spec §4.3): it fabricates one directory
// entry per illusionary child name, skipping silently over any candidate
// whose representative target does not actually exist (there is then
// nothing plausible to stamp on the synthetic entry). Unlike Producer A,
// which delegates pattern matching to the facade, Producer C folds and
// matches its own pattern in-process (spec §9's noted asymmetry), since it
// never asks the facade to enumerate anything.
type InsertionProducer struct {
	facade     fsops.FilesystemOperations
	class      layout.InfoClass
	pattern    string
	candidates []Candidate

	cursor  int
	buf     []byte
	current Entry
	haveCur bool
	done    bool
}

// NewInsertionProducer builds Producer C from an unordered candidate list,
// sorting it case-insensitively by name so it merges correctly against the
// other two producers.
func NewInsertionProducer(facade fsops.FilesystemOperations, class layout.InfoClass, pattern string, candidates []Candidate) *InsertionProducer {
	sorted := append([]Candidate(nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
	})
	return &InsertionProducer{
		facade:     facade,
		class:      class,
		pattern:    pattern,
		candidates: sorted,
		buf:        make([]byte, batchSize),
	}
}

func (ip *InsertionProducer) matchesPattern(name string) bool {
	if ip.pattern == "" || ip.pattern == "*" {
		return true
	}
	ok, _ := matchFold(ip.pattern, name)
	return ok
}

func (ip *InsertionProducer) resolveNext(ctx context.Context) {
	for ip.cursor < len(ip.candidates) {
		c := ip.candidates[ip.cursor]
		ip.cursor++
		if !ip.matchesPattern(c.Name) {
			continue
		}
		parent, ok := c.RepresentativeTarget.Parent()
		if !ok {
			continue
		}
		written, status := ip.facade.QuerySingleFileDirectoryInformation(ctx, parent, c.RepresentativeTarget.Leaf(), ip.class, ip.buf)
		if status != pwstatus.Success || written == 0 {
			continue
		}
		d, _ := layout.For(ip.class)
		metaEnd := d.FileNameLengthAt
		var meta []byte
		if metaEnd > metadataOffset && metaEnd <= written {
			meta = append([]byte(nil), ip.buf[metadataOffset:metaEnd]...)
		}
		ip.current = Entry{Name: c.Name, Metadata: meta}
		ip.haveCur = true
		return
	}
	ip.done = true
}

func (ip *InsertionProducer) Status(ctx context.Context) Status {
	if !ip.haveCur && !ip.done {
		ip.resolveNext(ctx)
	}
	if ip.haveCur {
		return Status{Code: pwstatus.MoreEntries}
	}
	return Status{Code: pwstatus.NoMoreFiles}
}

func (ip *InsertionProducer) FrontName() string { return ip.current.Name }

func (ip *InsertionProducer) FrontSize(class layout.InfoClass) int { return ip.current.size(class) }

func (ip *InsertionProducer) CopyFront(dest []byte, cap int, class layout.InfoClass) int {
	return ip.current.render(dest, cap, class)
}

func (ip *InsertionProducer) Pop(ctx context.Context) {
	ip.haveCur = false
}

func (ip *InsertionProducer) Restart(ctx context.Context, pattern *string) {
	if pattern != nil {
		ip.pattern = *pattern
	}
	ip.cursor = 0
	ip.haveCur = false
	ip.done = false
}

// matchFold implements Producer C's own case-folded single-component glob
// match, since it has no facade enumeration call to delegate to.
func matchFold(pattern, name string) (bool, error) {
	return path.Match(strings.ToLower(pattern), strings.ToLower(name))
}
