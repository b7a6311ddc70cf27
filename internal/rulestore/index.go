package rulestore

import (
	"strings"

	"github.com/samuelgr/pathwinder/internal/pwpath"
)

// trieNode is one component level of the Rule Index (spec §3 "Rule Index").
// The trie is keyed by path components over the concatenation of every
// rule's origin directory and every rule's target directory; it answers
// "what is the deepest indexed directory that is P or an ancestor of P" and
// "does some origin directory lie strictly below P" without a linear scan
// of the rule list.
type trieNode struct {
	children map[string]*trieNode
	path     pwpath.Path

	// originRules holds the names of rules whose origin directory is
	// exactly this node's path, in precedence order once finalized.
	originRules []string
	// targetRules holds the names of rules whose target directory is
	// exactly this node's path.
	targetRules []string
	// hasOriginDescendant is true once any proper descendant of this node
	// (not the node itself) has become an origin directory. It lets the
	// enumeration engine's name-insertion producer find illusionary
	// sub-hierarchies without walking the whole rule list.
	hasOriginDescendant bool
}

func newTrieNode(path pwpath.Path) *trieNode {
	return &trieNode{children: make(map[string]*trieNode), path: path}
}

// index is the Rule Index: a trie rooted above every rule's origin and
// target directory.
type index struct {
	root *trieNode
}

func newIndex() *index {
	return &index{root: newTrieNode(pwpath.Path{})}
}

func foldKey(component string) string {
	return strings.ToLower(component)
}

// nodeFor walks (creating as needed) the trie path down to p, marking every
// proper ancestor's hasOriginDescendant flag when markOrigin is true.
func (ix *index) nodeFor(p pwpath.Path, markOrigin bool) *trieNode {
	cur := ix.root
	built := pwpath.Path{}
	for _, c := range p.Components() {
		key := foldKey(c)
		built = built.Join(c)
		next, ok := cur.children[key]
		if !ok {
			next = newTrieNode(built)
			cur.children[key] = next
		}
		if markOrigin {
			cur.hasOriginDescendant = true
		}
		cur = next
	}
	return cur
}

// addOrigin registers p as the origin directory of ruleName.
func (ix *index) addOrigin(p pwpath.Path, ruleName string) {
	node := ix.nodeFor(p, true)
	node.originRules = append(node.originRules, ruleName)
}

// addTarget registers p as the target directory of ruleName.
func (ix *index) addTarget(p pwpath.Path, ruleName string) {
	node := ix.nodeFor(p, false)
	node.targetRules = append(node.targetRules, ruleName)
}

// walk descends the trie along p's components without creating nodes,
// returning the deepest node reached and how many of p's components were
// consumed. If the trie diverges from p before exhausting its components,
// depth is less than len(p.Components()).
func (ix *index) walk(p pwpath.Path) (node *trieNode, depth int) {
	cur := ix.root
	for i, c := range p.Components() {
		next, ok := cur.children[foldKey(c)]
		if !ok {
			return cur, i
		}
		cur = next
	}
	return cur, len(p.Components())
}

// deepestOriginAncestor finds the deepest origin directory that is p or an
// ancestor of p (spec §4.2 step 3: "the rule whose origin more deeply
// matches the request wins"). found is false if no origin directory
// dominates p at all.
func (ix *index) deepestOriginAncestor(p pwpath.Path) (node *trieNode, found bool) {
	cur := ix.root
	var best *trieNode
	if len(cur.originRules) > 0 {
		best = cur
	}
	for _, c := range p.Components() {
		next, ok := cur.children[foldKey(c)]
		if !ok {
			break
		}
		cur = next
		if len(cur.originRules) > 0 {
			best = cur
		}
	}
	return best, best != nil
}

// deepestTargetAncestor finds the deepest target directory that is p or an
// ancestor of p (spec §4.2 step 5: "P is under a target directory").
func (ix *index) deepestTargetAncestor(p pwpath.Path) (node *trieNode, found bool) {
	cur := ix.root
	var best *trieNode
	if len(cur.targetRules) > 0 {
		best = cur
	}
	for _, c := range p.Components() {
		next, ok := cur.children[foldKey(c)]
		if !ok {
			break
		}
		cur = next
		if len(cur.targetRules) > 0 {
			best = cur
		}
	}
	return best, best != nil
}

// childOriginCandidates returns, for each immediate child of p's node that
// dominates at least one origin directory (itself or some descendant),
// that child's component name and node. Used by spec §4.2 step 4 (is P an
// ancestor of some rule's origin directory?) and by §4.3 Producer C (what
// synthetic entries must be inserted when enumerating p?).
func (ix *index) childOriginCandidates(p pwpath.Path) []*trieNode {
	node, depth := ix.walk(p)
	if depth != len(p.Components()) {
		return nil
	}
	var out []*trieNode
	for _, child := range node.children {
		if len(child.originRules) > 0 || child.hasOriginDescendant {
			out = append(out, child)
		}
	}
	return out
}

// hasOriginDescendantStrictly reports whether some origin directory lies
// strictly below p (p itself excluded).
func (ix *index) hasOriginDescendantStrictly(p pwpath.Path) bool {
	node, depth := ix.walk(p)
	if depth != len(p.Components()) {
		return false
	}
	return node.hasOriginDescendant
}
