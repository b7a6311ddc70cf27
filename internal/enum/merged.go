package enum

import (
	"context"
	"strings"

	"github.com/samuelgr/pathwinder/internal/layout"
	"github.com/samuelgr/pathwinder/internal/pwstatus"
)

// tier fixes the A < B < C precedence spec §4.3 assigns when two producers
// offer the same name in the same round: origin-side wins over
// target-side, which wins over a synthesized insertion.
type tier int

const (
	tierOrigin tier = iota
	tierTarget
	tierInsertion
)

type taggedProducer struct {
	q    Queue
	tier tier
}

// MergedQueue combines Producer A, Producer B and Producer C into the
// single sorted, deduplicated stream spec §4.3 describes. Entries are
// compared case-insensitively; when two producers offer the same name in
// the same round, the lower tier wins and the other is silently dropped
// once it is reached, never re-offered (spec §4.3 "Merged queue").
type MergedQueue struct {
	producers []taggedProducer
	seen      map[string]bool

	haveCurrent bool
	activeIdx   int
}

// NewMergedQueue builds a queue over an origin producer (nil if the
// directory itself is not a real origin, e.g. a purely illusionary
// ancestor), a target producer (nil if no rule targets this directory) and
// any number of insertion producers.
func NewMergedQueue(origin *OriginProducer, target *TargetProducer, insertions ...*InsertionProducer) *MergedQueue {
	m := &MergedQueue{seen: make(map[string]bool)}
	if origin != nil {
		m.producers = append(m.producers, taggedProducer{q: origin, tier: tierOrigin})
	}
	if target != nil {
		m.producers = append(m.producers, taggedProducer{q: target, tier: tierTarget})
	}
	for _, ins := range insertions {
		if ins != nil {
			m.producers = append(m.producers, taggedProducer{q: ins, tier: tierInsertion})
		}
	}
	return m
}

func (m *MergedQueue) selectFront(ctx context.Context) Status {
	if m.haveCurrent {
		return Status{Code: pwstatus.MoreEntries}
	}

	for {
		best := -1
		var bestName string
		for i, tp := range m.producers {
			st := tp.q.Status(ctx)
			if st.IsError() {
				return st
			}
			if !st.MoreEntries() {
				continue
			}
			name := strings.ToLower(tp.q.FrontName())
			if best == -1 || name < bestName || (name == bestName && tp.tier < m.producers[best].tier) {
				best = i
				bestName = name
			}
		}
		if best == -1 {
			return Status{Code: pwstatus.NoMoreFiles}
		}
		if m.seen[bestName] {
			m.producers[best].q.Pop(ctx)
			continue
		}
		m.activeIdx = best
		m.haveCurrent = true
		return Status{Code: pwstatus.MoreEntries}
	}
}

func (m *MergedQueue) Status(ctx context.Context) Status { return m.selectFront(ctx) }

func (m *MergedQueue) FrontName() string {
	if !m.haveCurrent {
		return ""
	}
	return m.producers[m.activeIdx].q.FrontName()
}

func (m *MergedQueue) FrontSize(class layout.InfoClass) int {
	if !m.haveCurrent {
		return 0
	}
	return m.producers[m.activeIdx].q.FrontSize(class)
}

func (m *MergedQueue) CopyFront(dest []byte, cap int, class layout.InfoClass) int {
	if !m.haveCurrent {
		return 0
	}
	return m.producers[m.activeIdx].q.CopyFront(dest, cap, class)
}

func (m *MergedQueue) Pop(ctx context.Context) {
	if !m.haveCurrent {
		return
	}
	m.seen[strings.ToLower(m.FrontName())] = true
	m.producers[m.activeIdx].q.Pop(ctx)
	m.haveCurrent = false
}

// Restart re-seeds every underlying producer (spec §4.3 "Restart
// semantics": each producer resumes from its first entry, re-testing
// pending insertions if pattern changes). rescan distinguishes a genuine
// rescan request — the platform's restart flag — from a plain resume: only
// a rescan clears the deduplication set, since that set lives with the
// handle record for the lifetime of the enumeration, not per call.
func (m *MergedQueue) Restart(ctx context.Context, pattern *string, rescan bool) {
	if rescan {
		m.seen = make(map[string]bool)
	}
	m.haveCurrent = false
	for _, tp := range m.producers {
		tp.q.Restart(ctx, pattern)
	}
}
