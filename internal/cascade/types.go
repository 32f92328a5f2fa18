package cascade

import (
	"fmt"
	"sort"
	"strings"
)

// StyleMap maps a CSS property name to its raw value.
type StyleMap map[string]string

// Clone returns a shallow copy; a nil map clones to an empty one.
func (m StyleMap) Clone() StyleMap {
	out := make(StyleMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Merge copies every property of other into m, overwriting same-named ones.
func (m StyleMap) Merge(other StyleMap) {
	for k, v := range other {
		m[k] = v
	}
}

// String formats the map as a sorted declaration block.
func (m StyleMap) String() string {
	if len(m) == 0 {
		return "{}"
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, m[k]))
	}
	return "{ " + strings.Join(parts, "; ") + "; }"
}

// Rules maps a selector to its accumulated declarations.
type Rules map[string]StyleMap

// Add merges decls into the entry for selector. Earlier properties of the
// same selector that decls does not mention are kept.
func (r Rules) Add(selector string, decls StyleMap) {
	existing, ok := r[selector]
	if !ok {
		existing = make(StyleMap, len(decls))
		r[selector] = existing
	}
	existing.Merge(decls)
}

// Lookup returns the declarations for selector, or nil.
func (r Rules) Lookup(selector string) StyleMap {
	return r[selector]
}

// Selectors returns all selectors in sorted order.
func (r Rules) Selectors() []string {
	out := make([]string, 0, len(r))
	for s := range r {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
