// Package pwpath implements the absolute, normalized, case-insensitive path
// type that every other core component operates on (spec §3 "Path
// (absolute)"). A Path never allocates past construction time; components
// are compared with Unicode case folding via golang.org/x/text rather than
// a hand-rolled ASCII upper-case.
package pwpath

import (
	"strings"

	"golang.org/x/text/cases"
)

// separator is the canonical component separator. Rule definitions and
// application paths alike use the backslash form native to the redirected
// platform; the core never reinterprets forward slashes.
const separator = `\`

var caseFolder = cases.Fold()

// Path is an absolute, normalized sequence of name components, optionally
// preceded by an opaque namespace prefix (e.g. a volume-device prefix)
// carried through verbatim per spec §3.
type Path struct {
	prefix     string
	components []string
}

// Equal compares two name components (or whole strings) using Unicode case
// folding, per spec §3's "case-insensitive equality" and §8 property 2.
func Equal(a, b string) bool {
	if len(a) == len(b) && a == b {
		return true
	}
	return caseFolder.String(a) == caseFolder.String(b)
}

// New normalizes raw into a Path: it resolves "." and ".." segments,
// collapses redundant and trailing separators, and carries through any
// leading namespace prefix verbatim. It returns ok=false for an empty path
// or a path that, after normalization, names nothing but a root.
func New(raw string) (p Path, ok bool) {
	prefix, rest := splitPrefix(raw)

	var components []string
	for _, part := range strings.Split(rest, separator) {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(components) > 0 {
				components = components[:len(components)-1]
			}
		default:
			components = append(components, part)
		}
	}

	if len(components) == 0 {
		return Path{}, false
	}
	return Path{prefix: prefix, components: components}, true
}

// MustNew is New, panicking on an invalid path. Intended for constants and
// tests, never for application-supplied input.
func MustNew(raw string) Path {
	p, ok := New(raw)
	if !ok {
		panic("pwpath: invalid path: " + raw)
	}
	return p
}

// splitPrefix peels off a leading namespace prefix such as "\??\" or a drive
// letter root ("C:"), leaving the component-bearing remainder. Anything the
// core does not specifically recognize is treated as part of the first
// component instead, which is always safe since the prefix is opaque.
func splitPrefix(raw string) (prefix, rest string) {
	switch {
	case strings.HasPrefix(raw, `\??\`):
		return `\??\`, raw[4:]
	case strings.HasPrefix(raw, `\\?\`):
		return `\\?\`, raw[4:]
	case len(raw) >= 2 && raw[1] == ':':
		return raw[:2], raw[2:]
	default:
		return "", raw
	}
}

// IsRoot reports whether p names a filesystem root (no components below the
// namespace prefix).
func (p Path) IsRoot() bool {
	return len(p.components) == 0
}

// Components returns the path's name components in order. The returned
// slice must not be mutated by the caller.
func (p Path) Components() []string {
	return p.components
}

// Prefix returns the opaque leading namespace fragment, if any.
func (p Path) Prefix() string {
	return p.prefix
}

// Leaf returns the final name component, or "" if p is a root.
func (p Path) Leaf() string {
	if p.IsRoot() {
		return ""
	}
	return p.components[len(p.components)-1]
}

// Parent returns the path one level up, and false if p is already a root.
func (p Path) Parent() (parent Path, ok bool) {
	if p.IsRoot() {
		return Path{}, false
	}
	return Path{prefix: p.prefix, components: p.components[:len(p.components)-1]}, true
}

// Join appends a single name component and returns the result. name must not
// itself contain a separator.
func (p Path) Join(name string) Path {
	next := make([]string, len(p.components)+1)
	copy(next, p.components)
	next[len(p.components)] = name
	return Path{prefix: p.prefix, components: next}
}

// String renders the path back to its canonical backslash form.
func (p Path) String() string {
	if p.IsRoot() {
		return p.prefix
	}
	return p.prefix + strings.Join(p.components, separator)
}

// Equal reports whether p and other denote the same path: same prefix
// (compared case-insensitively, since a drive letter is case-insensitive
// too) and the same components in order, compared case-insensitively.
func (p Path) Equal(other Path) bool {
	if !Equal(p.prefix, other.prefix) {
		return false
	}
	if len(p.components) != len(other.components) {
		return false
	}
	for i := range p.components {
		if !Equal(p.components[i], other.components[i]) {
			return false
		}
	}
	return true
}

// Relation classifies how other relates to p.
type Relation int

const (
	// Unrelated means neither path is an ancestor of the other.
	Unrelated Relation = iota
	// Same means the two paths denote the same location.
	Same
	// Ancestor means p is a strict ancestor of other.
	Ancestor
	// Descendant means p is a strict descendant of other.
	Descendant
)

// RelationTo classifies p against other from p's point of view: whether p
// equals, is an ancestor of, is a descendant of, or is unrelated to other.
func (p Path) RelationTo(other Path) Relation {
	if !Equal(p.prefix, other.prefix) {
		return Unrelated
	}
	pc, oc := p.components, other.components
	switch {
	case len(pc) == len(oc):
		if componentsEqual(pc, oc) {
			return Same
		}
		return Unrelated
	case len(pc) < len(oc):
		if componentsEqual(pc, oc[:len(pc)]) {
			return Ancestor
		}
		return Unrelated
	default:
		if componentsEqual(oc, pc[:len(oc)]) {
			return Descendant
		}
		return Unrelated
	}
}

// TrimPrefix returns the components of p that lie below ancestor, and false
// if ancestor is not an ancestor of (or equal to) p.
func (p Path) TrimPrefix(ancestor Path) (remainder []string, ok bool) {
	rel := ancestor.RelationTo(p)
	if rel != Descendant && rel != Same {
		return nil, false
	}
	return p.components[len(ancestor.components):], true
}

// WithNewBase replaces the oldBase prefix of p (which must be an ancestor of
// or equal to p) with newBase, producing the real path substitution spec
// §4.2's Redirect instruction performs.
func (p Path) WithNewBase(oldBase, newBase Path) (result Path, ok bool) {
	remainder, ok := p.TrimPrefix(oldBase)
	if !ok {
		return Path{}, false
	}
	result = newBase
	for _, c := range remainder {
		result = result.Join(c)
	}
	return result, true
}

func componentsEqual(a, b []string) bool {
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
