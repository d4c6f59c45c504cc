package suite

import "sort"

// Definitions is the input to ResolveSelection: the general selection and
// subtag specification plus the live case registry.
//
// Subtags preserves declaration order. Each entry maps one subtag name to
// its overlay list; a multi-key entry is processed in sorted name order.
type Definitions struct {
	Selection []string
	Subtags   []map[string][]string
	Cases     *Registry
}

// ResolveSelection turns the declarative selection/subtag specification
// into the concrete set of runnable case identifiers, synthesizing a new
// registry entry for every subtag expansion.
//
// The base selection is general.selection when present and non-empty,
// otherwise every registered case (the full-suite default). For each
// subtag rule {name: overlays} and each base case ID, a derived case
// name+ID is created (unless it already exists) that inherits the base
// case's attributes, carries subtag=name, and unions the base case's
// extra list with the rule's overlays, order-preserving and de-duplicated.
// Expansion is additive: base IDs stay in the result. A base ID with no
// registry entry is never expanded, so the unregistered ID itself is what
// surfaces as CaseNotFound.
//
// The registry is mutated in place. Resolution runs exactly once per run;
// see the package documentation for the re-entry caveat.
func ResolveSelection(defs Definitions) []string {
	base := defs.Selection
	if len(base) == 0 {
		base = defs.Cases.IDs()
	}

	selection := append([]string(nil), base...)

	for _, rule := range defs.Subtags {
		for _, name := range sortedRuleNames(rule) {
			overlays := rule[name]
			for _, baseID := range base {
				baseCase, ok := defs.Cases.Get(baseID)
				if !ok {
					// The base ID itself stays in the selection and is
					// reported as CaseNotFound downstream; expanding it
					// would mask that with an attribute-less derived case.
					continue
				}
				derivedID := name + baseID
				if !defs.Cases.Has(derivedID) {
					derived := baseCase.Clone()
					derived.Subtag = name
					derived.Extra = unionExtras(derived.Extra, overlays)
					defs.Cases.Add(derivedID, derived)
				}
				selection = append(selection, derivedID)
			}
		}
	}
	return selection
}

// unionExtras appends overlays to extras, preserving order and dropping
// repeated identifiers.
func unionExtras(extras, overlays []string) []string {
	seen := make(map[string]bool, len(extras)+len(overlays))
	out := make([]string, 0, len(extras)+len(overlays))
	for _, lists := range [][]string{extras, overlays} {
		for _, e := range lists {
			if seen[e] {
				continue
			}
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

func sortedRuleNames(rule map[string][]string) []string {
	if len(rule) == 1 {
		for name := range rule {
			return []string{name}
		}
	}
	names := make([]string, 0, len(rule))
	for name := range rule {
		names = append(names, name)
	}
	// Sorted fallback keeps multi-key rule entries deterministic.
	sort.Strings(names)
	return names
}
