package enum

import (
	"context"
	"strings"

	"github.com/samuelgr/pathwinder/internal/fsops"
	"github.com/samuelgr/pathwinder/internal/layout"
	"github.com/samuelgr/pathwinder/internal/pwpath"
	"github.com/samuelgr/pathwinder/internal/pwstatus"
	"github.com/samuelgr/pathwinder/internal/rulestore"
)

// TargetProducer is Producer B (spec §4.3): the union, across every rule
// that targets the directory being enumerated, of that rule's real target
// directory contents filtered to the rule's own file patterns. When more
// than one rule targets the same directory their readers are merged here,
// case-insensitively, breaking ties by rule name so the order is
// deterministic across runs.
type TargetProducer struct {
	readers []*realDirReader
	names   []string // rule name per reader, parallel index, for tiebreaks
	active  int      // index of reader currently at front, or -1
}

// NewTargetProducer builds Producer B for directory p out of every rule
// store reports as targeting p.
func NewTargetProducer(facade fsops.FilesystemOperations, p pwpath.Path, class layout.InfoClass, pattern string, rules []rulestore.Rule) *TargetProducer {
	tp := &TargetProducer{active: -1}
	for _, r := range rules {
		rule := r
		include := func(name string) bool { return rule.MatchesName(name) }
		tp.readers = append(tp.readers, newRealDirReader(facade, rule.TargetDirectory(), class, pattern, include))
		tp.names = append(tp.names, rule.Name())
	}
	return tp
}

func (tp *TargetProducer) selectFront(ctx context.Context) Status {
	best := -1
	var bestName string
	for i, r := range tp.readers {
		st := r.status(ctx)
		if st.IsError() {
			return st
		}
		if !st.MoreEntries() {
			continue
		}
		name := strings.ToLower(r.front().Name)
		if best == -1 || name < bestName || (name == bestName && strings.ToLower(tp.names[i]) < strings.ToLower(tp.names[best])) {
			best = i
			bestName = name
		}
	}
	tp.active = best
	if best == -1 {
		return Status{Code: pwstatus.NoMoreFiles}
	}
	return Status{Code: pwstatus.MoreEntries}
}

func (tp *TargetProducer) Status(ctx context.Context) Status { return tp.selectFront(ctx) }

func (tp *TargetProducer) FrontName() string {
	if tp.active == -1 {
		return ""
	}
	return tp.readers[tp.active].front().Name
}

func (tp *TargetProducer) FrontSize(class layout.InfoClass) int {
	if tp.active == -1 {
		return 0
	}
	return tp.readers[tp.active].front().size(class)
}

func (tp *TargetProducer) CopyFront(dest []byte, cap int, class layout.InfoClass) int {
	if tp.active == -1 {
		return 0
	}
	return tp.readers[tp.active].front().render(dest, cap, class)
}

func (tp *TargetProducer) Pop(ctx context.Context) {
	if tp.active == -1 {
		return
	}
	tp.readers[tp.active].pop(ctx)
	tp.active = -1
}

func (tp *TargetProducer) Restart(ctx context.Context, pattern *string) {
	for _, r := range tp.readers {
		r.restart(ctx, pattern)
	}
	tp.active = -1
}
