package enum

import (
	"context"

	"github.com/samuelgr/pathwinder/internal/fsops"
	"github.com/samuelgr/pathwinder/internal/layout"
	"github.com/samuelgr/pathwinder/internal/pwpath"
	"github.com/samuelgr/pathwinder/internal/rulestore"
)

// NewDirectoryQueue assembles the merged enumeration queue for directory p,
// wiring up whichever of the three producers actually apply (spec §4.3): an
// origin producer when p is itself a covered origin directory, a target
// producer reading from each such rule's target directory, and an
// insertion producer for any illusionary child names nested below p.
func NewDirectoryQueue(
	ctx context.Context,
	facade fsops.FilesystemOperations,
	store *rulestore.FilesystemDirector,
	p pwpath.Path,
	class layout.InfoClass,
	pattern string,
) *MergedQueue {
	var originProducer *OriginProducer
	var targetProducer *TargetProducer
	if container, ok := store.RulesForOrigin(p); ok {
		originProducer = NewOriginProducer(facade, p, class, pattern, container)
		targetProducer = NewTargetProducer(facade, p, class, pattern, container.Rules())
	}

	var insertionProducer *InsertionProducer
	if children := store.OriginChildCandidates(p); len(children) > 0 {
		candidates := make([]Candidate, 0, len(children))
		for _, child := range children {
			rep, ok := representativeTarget(store, child)
			if !ok {
				continue
			}
			candidates = append(candidates, Candidate{Name: child.Leaf(), RepresentativeTarget: rep})
		}
		if len(candidates) > 0 {
			insertionProducer = NewInsertionProducer(facade, class, pattern, candidates)
		}
	}

	return NewMergedQueue(originProducer, targetProducer, insertionProducer)
}

// representativeTarget finds some rule whose origin directory is child
// itself or lies below it, and returns that rule's target directory as the
// metadata source for a synthetic insertion entry at child (spec §4.3
// Producer C).
func representativeTarget(store *rulestore.FilesystemDirector, child pwpath.Path) (pwpath.Path, bool) {
	for _, r := range store.AllRules() {
		rel := child.RelationTo(r.OriginDirectory())
		if rel == pwpath.Same || rel == pwpath.Ancestor {
			return r.TargetDirectory(), true
		}
	}
	return pwpath.Path{}, false
}
