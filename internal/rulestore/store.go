package rulestore

import (
	"strings"

	"github.com/samuelgr/pathwinder/internal/pwpath"
)

// ClassifyKind is the public classification spec §4.1 exposes from
// ClassifyPath.
type ClassifyKind int

const (
	NotCovered ClassifyKind = iota
	IsOrigin
	IsAncestorOfOrigin
	IsDescendantOfOrigin
	IsTarget
	IsDescendantOfTarget
)

// FilesystemDirector is the immutable, finalized Rule Store (spec §4.1).
// All of its queries are lock-free: nothing about it changes after
// Builder.Finalize returns it (spec §5).
type FilesystemDirector struct {
	rules      []Rule
	byName     map[string]Rule
	byOrigin   map[string]RelatedFilesystemRuleContainer
	originKeys map[string]pwpath.Path // folded origin string -> canonical Path
	idx        *index
}

func newFilesystemDirector(rules []Rule) *FilesystemDirector {
	fd := &FilesystemDirector{
		rules:      rules,
		byName:     make(map[string]Rule, len(rules)),
		byOrigin:   make(map[string]RelatedFilesystemRuleContainer),
		originKeys: make(map[string]pwpath.Path),
		idx:        newIndex(),
	}

	grouped := make(map[string][]Rule)
	for _, r := range rules {
		fd.byName[strings.ToLower(r.Name())] = r
		key := strings.ToLower(r.OriginDirectory().String())
		grouped[key] = append(grouped[key], r)
		fd.originKeys[key] = r.OriginDirectory()
		fd.idx.addOrigin(r.OriginDirectory(), r.Name())
		fd.idx.addTarget(r.TargetDirectory(), r.Name())
	}
	for key, rs := range grouped {
		fd.byOrigin[key] = newContainer(rs)
	}

	return fd
}

// RuleByName returns the rule with the given case-insensitive name.
func (fd *FilesystemDirector) RuleByName(name string) (Rule, bool) {
	r, ok := fd.byName[strings.ToLower(name)]
	return r, ok
}

// RulesForOrigin returns the container of rules whose origin directory
// exactly matches path.
func (fd *FilesystemDirector) RulesForOrigin(path pwpath.Path) (RelatedFilesystemRuleContainer, bool) {
	c, ok := fd.byOrigin[strings.ToLower(path.String())]
	return c, ok
}

// AllRules returns every rule in the store, in no particular order.
func (fd *FilesystemDirector) AllRules() []Rule {
	return fd.rules
}

// ClassifyPath implements spec §4.1's ClassifyPath query.
func (fd *FilesystemDirector) ClassifyPath(p pwpath.Path) (ClassifyKind, Rule, bool) {
	if originNode, ok := fd.idx.deepestOriginAncestor(p); ok {
		rel := originNode.path.RelationTo(p)
		container := fd.byOrigin[strings.ToLower(originNode.path.String())]
		rule := Rule{}
		if container.Len() > 0 {
			rule = container.Rules()[0]
		}
		switch rel {
		case pwpath.Same:
			return IsOrigin, rule, true
		case pwpath.Descendant:
			return IsDescendantOfOrigin, rule, true
		}
	}

	if len(fd.idx.childOriginCandidates(p)) > 0 {
		return IsAncestorOfOrigin, Rule{}, false
	}

	if targetNode, ok := fd.idx.deepestTargetAncestor(p); ok {
		rel := targetNode.path.RelationTo(p)
		var rule Rule
		if len(targetNode.targetRules) > 0 {
			rule, _ = fd.RuleByName(targetNode.targetRules[0])
		}
		switch rel {
		case pwpath.Same:
			return IsTarget, rule, rule.Name() != ""
		case pwpath.Descendant:
			return IsDescendantOfTarget, rule, rule.Name() != ""
		}
	}

	return NotCovered, Rule{}, false
}

// OriginChildCandidates exposes, for a directory p, every immediate child
// component that dominates at least one rule's origin directory
// (spec §4.3 Producer C, §4.2 step 4). Each returned path is the
// concatenation of p and one such child component.
func (fd *FilesystemDirector) OriginChildCandidates(p pwpath.Path) []pwpath.Path {
	nodes := fd.idx.childOriginCandidates(p)
	out := make([]pwpath.Path, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.path)
	}
	return out
}

// RulesTargetingDirectory returns every rule whose target directory exactly
// matches p (spec §4.3 Producer B: "each rule that targets D for
// enumeration").
func (fd *FilesystemDirector) RulesTargetingDirectory(p pwpath.Path) []Rule {
	node, depth := fd.idx.walk(p)
	if depth != len(p.Components()) {
		return nil
	}
	out := make([]Rule, 0, len(node.targetRules))
	for _, name := range node.targetRules {
		if r, ok := fd.RuleByName(name); ok {
			out = append(out, r)
		}
	}
	return out
}

// DeepestOriginAncestorRule returns the container of rules whose origin
// directory is p itself or the deepest ancestor of p among all origin
// directories (spec §4.2 step 3).
func (fd *FilesystemDirector) DeepestOriginAncestorRule(p pwpath.Path) (RelatedFilesystemRuleContainer, pwpath.Path, bool) {
	node, ok := fd.idx.deepestOriginAncestor(p)
	if !ok {
		return RelatedFilesystemRuleContainer{}, pwpath.Path{}, false
	}
	return fd.byOrigin[strings.ToLower(node.path.String())], node.path, true
}
