// Package decision implements the Path Decision Function (spec §4.2): given
// an absolute path and an operation kind, it consults the Rule Store and
// produces an Operation Instruction describing what the interceptor must
// do next.
package decision

import (
	"context"
	"time"

	"github.com/jacobsa/timeutil"

	"github.com/samuelgr/pathwinder/internal/fsops"
	"github.com/samuelgr/pathwinder/internal/pwpath"
	"github.com/samuelgr/pathwinder/internal/pwstatus"
	"github.com/samuelgr/pathwinder/internal/rulestore"
)

// OperationKind is the kind of filesystem operation being decided (spec
// §4.2 inputs).
type OperationKind int

const (
	Open OperationKind = iota
	Create
	Query
	Enumerate
)

// InstructionKind tags which of the four Operation Instruction shapes (spec
// §4.2 table) an Instruction carries.
type InstructionKind int

const (
	KindPassThrough InstructionKind = iota
	KindRedirect
	KindTryRedirectThenFallback
	KindSynthesize
)

// String returns the lowercase name used for metrics and logging.
func (k InstructionKind) String() string {
	switch k {
	case KindPassThrough:
		return "pass_through"
	case KindRedirect:
		return "redirect"
	case KindTryRedirectThenFallback:
		return "try_redirect_then_fallback"
	case KindSynthesize:
		return "synthesize"
	default:
		return "unknown"
	}
}

// SynthesizeOutcome is what a Synthesize instruction fabricates.
type SynthesizeOutcome int

const (
	SynthesizeDirectory SynthesizeOutcome = iota
	SynthesizeNotFound
)

// Instruction is the decision function's output (spec §4.2). Exactly the
// fields relevant to Kind are meaningful; this mirrors a closed,
// compile-time-known tagged variant (spec §9) rather than an open
// inheritance hierarchy.
type Instruction struct {
	Kind InstructionKind

	// RealPath is populated for PassThrough and Redirect.
	RealPath pwpath.Path

	// FallbackTarget/FallbackOrigin are populated for
	// TryRedirectThenFallback: try FallbackTarget first, then
	// FallbackOrigin on not-found.
	FallbackTarget pwpath.Path
	FallbackOrigin pwpath.Path

	// Synthesize is populated for KindSynthesize.
	Synthesize SynthesizeOutcome

	// SynthesizedTime is the timestamp the interceptor should stamp onto a
	// fabricated directory-information record for a SynthesizeDirectory
	// outcome; a directory with no real backing needs some plausible value
	// for CreationTime/LastWriteTime and similar fields (spec §4.2 step 4).
	SynthesizedTime time.Time

	// CreateMissingParents is set alongside Redirect when the redirected
	// path walks through an illusionary hierarchy whose real parent
	// directories on the target side do not yet exist (spec §4.2 step 4).
	CreateMissingParents bool

	// MatchedRule is the rule, if any, that produced this instruction.
	MatchedRule rulestore.Rule
	HasRule     bool
}

// HandleContext carries the subset of an Open-Handle Registry record the
// decision function needs for root-handle path composition (spec §4.2
// "Root-handle composition"): the application's logical path for a
// previously opened handle, never the real opened path.
type HandleContext struct {
	AssociatedPath pwpath.Path
}

// Decide implements the algorithm of spec §4.2. requestPath is the raw path
// as supplied by the application; if handle is non-nil, requestPath is
// first composed onto handle.AssociatedPath (root-handle composition) before
// classification.
func Decide(
	ctx context.Context,
	store *rulestore.FilesystemDirector,
	facade fsops.FilesystemOperations,
	clock timeutil.Clock,
	requestPath pwpath.Path,
	op OperationKind,
	access fsops.AccessMode,
	handle *HandleContext,
) Instruction {
	p := requestPath
	if handle != nil {
		p = composeUnderHandle(handle.AssociatedPath, requestPath)
	}

	kind, rule, hasRule := store.ClassifyPath(p)

	switch kind {
	case rulestore.NotCovered:
		return Instruction{Kind: KindPassThrough, RealPath: p}

	case rulestore.IsOrigin, rulestore.IsDescendantOfOrigin:
		return decideUnderOrigin(p, op, store, rule, hasRule)

	case rulestore.IsAncestorOfOrigin:
		return decideIllusionaryAncestor(ctx, store, facade, clock, p, op, access)

	case rulestore.IsTarget, rulestore.IsDescendantOfTarget:
		// spec §4.2 step 5: target directories are not hidden from direct
		// (non-redirected) access.
		return Instruction{Kind: KindPassThrough, RealPath: p}

	default:
		return Instruction{Kind: KindPassThrough, RealPath: p}
	}
}

// composeUnderHandle rebuilds the request path relative to a handle's
// logical (associated) path, per spec §4.2's root-handle composition rule.
// requestPath's components, if it is itself absolute and shares the
// handle's namespace, are treated as already-composed; otherwise its
// components are appended to associatedPath. In practice the interceptor
// always supplies a request path already composed syntactically (e.g. via
// RtlPrefixUnicodeString handling upstream) and passes us the handle's
// associated path plus the trailing components; composeUnderHandle
// performs that append explicitly so the core never depends on upstream
// syntax composition.
func composeUnderHandle(associatedPath, trailing pwpath.Path) pwpath.Path {
	result := associatedPath
	for _, c := range trailing.Components() {
		result = result.Join(c)
	}
	return result
}

// decideUnderOrigin implements spec §4.2 step 3: P equals or lies strictly
// below a rule's origin directory.
func decideUnderOrigin(p pwpath.Path, op OperationKind, store *rulestore.FilesystemDirector, fallbackRule rulestore.Rule, hasRule bool) Instruction {
	container, originPath, ok := store.DeepestOriginAncestorRule(p)
	if !ok {
		// Should not happen: ClassifyPath already told us p is at or below
		// some origin. Fall back to pass-through defensively.
		return Instruction{Kind: KindPassThrough, RealPath: p}
	}

	var rule rulestore.Rule
	var matched bool
	if p.Equal(originPath) {
		// The directory as a whole is covered; any rule in the container
		// applies to the directory itself (spec §4.2 step 3).
		if container.Len() > 0 {
			rule = container.Rules()[0]
			matched = true
		}
	} else {
		remainder, _ := p.TrimPrefix(originPath)
		leaf := remainder[0]
		rule, matched = container.FirstMatch(leaf)
	}

	if !matched {
		if hasRule {
			rule, matched = fallbackRule, true
		} else {
			return Instruction{Kind: KindPassThrough, RealPath: p}
		}
	}

	realPath, _ := p.WithNewBase(originPath, rule.TargetDirectory())

	switch rule.RedirectMode() {
	case rulestore.Overlay:
		switch op {
		case Create:
			return Instruction{Kind: KindRedirect, RealPath: realPath, CreateMissingParents: true, MatchedRule: rule, HasRule: true}
		default: // Open, Query, Enumerate (enumeration handled by the enum package's own merge, not here)
			return Instruction{
				Kind:           KindTryRedirectThenFallback,
				FallbackTarget: realPath,
				FallbackOrigin: p,
				MatchedRule:    rule,
				HasRule:        true,
			}
		}
	default: // Simple
		if op == Create {
			return Instruction{Kind: KindRedirect, RealPath: realPath, CreateMissingParents: true, MatchedRule: rule, HasRule: true}
		}
		return Instruction{Kind: KindRedirect, RealPath: realPath, MatchedRule: rule, HasRule: true}
	}
}

// decideIllusionaryAncestor implements spec §4.2 step 4: P is an ancestor of
// some rule's origin directory that does not itself exist on the real
// filesystem.
func decideIllusionaryAncestor(
	ctx context.Context,
	store *rulestore.FilesystemDirector,
	facade fsops.FilesystemOperations,
	clock timeutil.Clock,
	p pwpath.Path,
	op OperationKind,
	access fsops.AccessMode,
) Instruction {
	if facade.Exists(ctx, p) {
		// p is classified as an ancestor of some rule's origin, but it
		// already exists on the real filesystem in its own right: its real
		// contents are real, so let this pass through untouched rather than
		// fabricating a directory over top of it (spec §4.2 step 4 scopes
		// the illusionary case to ancestors that do not themselves exist).
		return Instruction{Kind: KindPassThrough, RealPath: p}
	}

	switch op {
	case Open, Query:
		// Read-only access to an illusionary directory: fabricate success
		// or failure depending on whether any dominated rule's target
		// actually exists. Write access to create through the hierarchy is
		// handled by the Create case below, per spec §4.2 step 4.
		if anyDominatedTargetExists(ctx, store, facade, p) {
			return Instruction{Kind: KindSynthesize, Synthesize: SynthesizeDirectory, SynthesizedTime: clock.Now()}
		}
		return Instruction{Kind: KindSynthesize, Synthesize: SynthesizeNotFound, RealPath: p}

	case Create:
		// Creating an illusionary directory itself (as opposed to a file
		// or directory beneath the rule's real origin, which is handled by
		// decideUnderOrigin and already carries CreateMissingParents)
		// requires nothing on the real filesystem: the directory has no
		// real counterpart of its own, only a dominated rule's origin
		// does. Report success without touching the real filesystem, same
		// as the read-only case, as long as some dominated rule exists.
		if len(store.OriginChildCandidates(p)) == 0 {
			return Instruction{Kind: KindSynthesize, Synthesize: SynthesizeNotFound, RealPath: p}
		}
		return Instruction{Kind: KindSynthesize, Synthesize: SynthesizeDirectory, SynthesizedTime: clock.Now()}

	default: // Enumerate is handled by the enum package directly.
		return Instruction{Kind: KindSynthesize, Synthesize: SynthesizeDirectory, SynthesizedTime: clock.Now()}
	}
}

// anyDominatedTargetExists reports whether at least one rule whose origin
// lies at or below p has a target directory that exists on the real
// filesystem (spec §4.2 step 4's condition for Synthesize(Directory) vs
// Synthesize(NotFound)).
func anyDominatedTargetExists(ctx context.Context, store *rulestore.FilesystemDirector, facade fsops.FilesystemOperations, p pwpath.Path) bool {
	for _, rule := range store.AllRules() {
		rel := p.RelationTo(rule.OriginDirectory())
		if rel != pwpath.Same && rel != pwpath.Ancestor {
			continue
		}
		if facade.Exists(ctx, rule.TargetDirectory()) {
			return true
		}
	}
	return false
}

// AbsorbOpenStatus implements spec §7's propagation policy for opening a
// directory for enumeration: NoSuchFile/ObjectNameNotFound/
// ObjectPathNotFound/ObjectNameInvalid/ObjectPathInvalid are treated as "the
// real directory is empty" rather than propagated as errors.
func AbsorbOpenStatus(status pwstatus.Code) (absorbed bool) {
	return pwstatus.IsNameResolutionFailure(status)
}
