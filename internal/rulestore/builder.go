package rulestore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samuelgr/pathwinder/internal/fsops"
	"github.com/samuelgr/pathwinder/internal/pwpath"
)

// RejectReason classifies why Builder.AddRule refused a candidate rule
// (spec §4.1).
type RejectReason int

const (
	// RejectNone means the rule was accepted.
	RejectNone RejectReason = iota
	// RejectDuplicateName means another rule already uses this name.
	RejectDuplicateName
	// RejectOriginIsRoot means the origin directory names a filesystem root.
	RejectOriginIsRoot
	// RejectTargetIsRoot means the target directory names a filesystem root.
	RejectTargetIsRoot
	// RejectOriginEqualsTarget means origin and target are the same path.
	RejectOriginEqualsTarget
	// RejectOriginCollidesWithExistingTarget means the candidate's origin
	// directory is already some other rule's target directory (spec §3
	// invariant 3, applied from the origin side).
	RejectOriginCollidesWithExistingTarget
	// RejectTargetCollidesWithExistingOrigin means the candidate's target
	// directory is already some other rule's origin directory (spec §3
	// invariant 3).
	RejectTargetCollidesWithExistingOrigin
	// RejectAmbiguousOriginPatterns means the candidate shares an origin
	// directory with an existing rule and the two rules have identical
	// file-pattern sets, so precedence could never distinguish them (spec
	// §3 invariant 2's exception clause does not apply).
	RejectAmbiguousOriginPatterns
	// RejectInvalidPath means a configuration front end supplied a string
	// that does not parse as an absolute path.
	RejectInvalidPath
)

func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectDuplicateName:
		return "duplicate rule name"
	case RejectOriginIsRoot:
		return "origin directory is a filesystem root"
	case RejectTargetIsRoot:
		return "target directory is a filesystem root"
	case RejectOriginEqualsTarget:
		return "origin directory equals target directory"
	case RejectOriginCollidesWithExistingTarget:
		return "origin directory is already a target directory of another rule"
	case RejectTargetCollidesWithExistingOrigin:
		return "target directory is already an origin directory of another rule"
	case RejectAmbiguousOriginPatterns:
		return "origin directory is shared with another rule using the same file patterns"
	case RejectInvalidPath:
		return "path does not parse as an absolute path"
	default:
		return "unknown rejection reason"
	}
}

// Violation describes a whole-store invariant failure discovered at
// Finalize time (spec §4.1, invariants 4 and 5 of §3).
type Violation struct {
	RuleName string
	Message  string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.RuleName, v.Message)
}

// Builder accumulates candidate rules one at a time and is consumed by a
// single call to Finalize (spec §4.1: "The builder is single-use").
type Builder struct {
	rules    []Rule
	byName   map[string]int // folded name -> index into rules
	byOrigin map[string][]int
	byTarget map[string][]int
	done     bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		byName:   make(map[string]int),
		byOrigin: make(map[string][]int),
		byTarget: make(map[string][]int),
	}
}

// AddRule validates and stages a candidate rule. It returns RejectNone on
// success; any other value means the rule was not added.
func (b *Builder) AddRule(name string, originDirectory, targetDirectory pwpath.Path, filePatterns []string, mode RedirectMode) RejectReason {
	if b.done {
		panic("rulestore: AddRule called on a finalized Builder")
	}

	foldedName := strings.ToLower(name)
	if _, exists := b.byName[foldedName]; exists {
		return RejectDuplicateName
	}
	if originDirectory.IsRoot() {
		return RejectOriginIsRoot
	}
	if targetDirectory.IsRoot() {
		return RejectTargetIsRoot
	}
	if originDirectory.Equal(targetDirectory) {
		return RejectOriginEqualsTarget
	}

	foldedOrigin := strings.ToLower(originDirectory.String())
	foldedTarget := strings.ToLower(targetDirectory.String())

	if _, exists := b.byTarget[foldedOrigin]; exists {
		return RejectOriginCollidesWithExistingTarget
	}
	if _, exists := b.byOrigin[foldedTarget]; exists {
		return RejectTargetCollidesWithExistingOrigin
	}
	if indices, exists := b.byOrigin[foldedOrigin]; exists {
		for _, idx := range indices {
			if samePatternSet(b.rules[idx].FilePatterns(), filePatterns) {
				return RejectAmbiguousOriginPatterns
			}
		}
	}

	patterns := append([]string(nil), filePatterns...)
	rule := Rule{
		name:            name,
		originDirectory: originDirectory,
		targetDirectory: targetDirectory,
		filePatterns:    patterns,
		redirectMode:    mode,
	}

	idx := len(b.rules)
	b.rules = append(b.rules, rule)
	b.byName[foldedName] = idx
	b.byOrigin[foldedOrigin] = append(b.byOrigin[foldedOrigin], idx)
	b.byTarget[foldedTarget] = append(b.byTarget[foldedTarget], idx)

	return RejectNone
}

func samePatternSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	af := make([]string, len(a))
	bf := make([]string, len(b))
	for i := range a {
		af[i] = strings.ToLower(a[i])
	}
	for i := range b {
		bf[i] = strings.ToLower(b[i])
	}
	sort.Strings(af)
	sort.Strings(bf)
	for i := range af {
		if af[i] != bf[i] {
			return false
		}
	}
	return true
}

// Finalize performs the whole-store checks of spec §3 invariants 4 and 5
// (which require querying the real filesystem) and, on success, builds an
// immutable FilesystemDirector. On failure it returns the list of
// violations found; every rule is checked, not just the first violator.
// Either way the Builder is consumed and must not be reused.
func (b *Builder) Finalize(ctx context.Context, facade fsops.FilesystemOperations) (*FilesystemDirector, []Violation) {
	if b.done {
		panic("rulestore: Finalize called twice on the same Builder")
	}
	b.done = true

	originIsRuleOrigin := make(map[string]bool, len(b.rules))
	for _, r := range b.rules {
		originIsRuleOrigin[strings.ToLower(r.OriginDirectory().String())] = true
	}

	var violations []Violation
	for _, r := range b.rules {
		parent, ok := r.OriginDirectory().Parent()
		if ok {
			parentIsRuleOrigin := originIsRuleOrigin[strings.ToLower(parent.String())]
			if !parentIsRuleOrigin && !facade.IsDirectory(ctx, parent) {
				violations = append(violations, Violation{
					RuleName: r.Name(),
					Message:  "origin directory's parent is neither a real directory nor another rule's origin directory",
				})
			}
		}

		if facade.Exists(ctx, r.OriginDirectory()) && !facade.IsDirectory(ctx, r.OriginDirectory()) {
			violations = append(violations, Violation{
				RuleName: r.Name(),
				Message:  "origin directory exists on the real filesystem but is not a directory",
			})
		}
	}

	if len(violations) > 0 {
		return nil, violations
	}

	return newFilesystemDirector(b.rules), nil
}
