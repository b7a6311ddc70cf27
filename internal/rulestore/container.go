package rulestore

import (
	"sort"
	"strings"
)

// RelatedFilesystemRuleContainer holds the set of rules sharing a common
// origin directory, ordered so that more specific rules are tried first
// (spec §3, §4.1 "Precedence within a container").
type RelatedFilesystemRuleContainer struct {
	rules []Rule
}

// newContainer builds a container from an unordered rule slice, sorting by
// descending specificity with a case-insensitive name tiebreak. Empty-
// pattern rules (specificity 0) always sort last, acting as catch-alls.
func newContainer(rules []Rule) RelatedFilesystemRuleContainer {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Specificity() != b.Specificity() {
			return a.Specificity() > b.Specificity()
		}
		return strings.ToLower(a.Name()) < strings.ToLower(b.Name())
	})
	return RelatedFilesystemRuleContainer{rules: sorted}
}

// Rules returns the container's rules in precedence order. The returned
// slice must not be mutated by the caller.
func (c RelatedFilesystemRuleContainer) Rules() []Rule {
	return c.rules
}

// Len reports the number of rules in the container.
func (c RelatedFilesystemRuleContainer) Len() int {
	return len(c.rules)
}

// FirstMatch returns the first rule (in precedence order) whose file
// patterns match leaf, and false if none match.
func (c RelatedFilesystemRuleContainer) FirstMatch(leaf string) (Rule, bool) {
	for _, r := range c.rules {
		if r.MatchesName(leaf) {
			return r, true
		}
	}
	return Rule{}, false
}
