// Package rulestore implements the Rule Store (spec §4.1): a validated,
// indexed collection of filesystem rules, built once and then queried
// lock-free for the remainder of the process's life (spec §5).
package rulestore

import (
	"path"
	"strings"

	"github.com/samuelgr/pathwinder/internal/pwpath"
)

// RedirectMode selects how a rule's target directory relates to its origin
// directory when both are visible (spec GLOSSARY).
type RedirectMode int

const (
	// Simple hides the origin side entirely; only the target is visible.
	Simple RedirectMode = iota
	// Overlay unions the target on top of the origin; target wins on a name
	// collision.
	Overlay
)

func (m RedirectMode) String() string {
	if m == Overlay {
		return "Overlay"
	}
	return "Simple"
}

// Rule is an immutable filesystem redirection rule (spec §3).
type Rule struct {
	name            string
	originDirectory pwpath.Path
	targetDirectory pwpath.Path
	filePatterns    []string
	redirectMode    RedirectMode
}

// Name returns the rule's unique, case-insensitive identifier.
func (r Rule) Name() string { return r.name }

// OriginDirectory returns the absolute, normalized origin directory.
func (r Rule) OriginDirectory() pwpath.Path { return r.originDirectory }

// TargetDirectory returns the absolute, normalized target directory.
func (r Rule) TargetDirectory() pwpath.Path { return r.targetDirectory }

// FilePatterns returns the rule's ordered glob pattern list. An empty list
// means "match everything".
func (r Rule) FilePatterns() []string { return r.filePatterns }

// RedirectMode returns the rule's mode.
func (r Rule) RedirectMode() RedirectMode { return r.redirectMode }

// Specificity is the number of file patterns the rule carries; it drives
// the precedence ordering within a RelatedFilesystemRuleContainer (spec
// §3, §4.1): more patterns sort before fewer, and an empty-pattern rule is
// a catch-all that always sorts last.
func (r Rule) Specificity() int { return len(r.filePatterns) }

// MatchesName reports whether leaf matches the rule's file pattern list. An
// empty pattern list matches everything. Matching is case-insensitive and
// applied to a single name component, never a path (spec §3).
func (r Rule) MatchesName(leaf string) bool {
	if len(r.filePatterns) == 0 {
		return true
	}
	folded := foldForMatch(leaf)
	for _, pattern := range r.filePatterns {
		if ok, _ := path.Match(foldForMatch(pattern), folded); ok {
			return true
		}
	}
	return false
}

// foldForMatch lower-cases for use with path.Match, which is itself
// case-sensitive; spec §3 requires glob matching to be case-insensitive.
func foldForMatch(s string) string {
	return strings.ToLower(s)
}
