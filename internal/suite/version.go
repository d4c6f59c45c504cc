package suite

import (
	"sort"
	"strings"

	"github.com/meteoci/regress/internal/config"
)

// Recognized reference kinds in a dependency declaration.
const (
	refKindTag     = "tag"
	refKindBranch  = "branch"
	refKindUnknown = "Unknown"
)

// ModelVersion derives the version tag identifying the model-execution
// program build, from a dependency-declaration document.
//
// The document is searched for a table exposing a "tag" or "branch" key
// whose value is "<kind>/<ref>". The result is "<kind>_<ref>". When
// neither recognized key is present but a slash-formed reference value is
// found, the kind defaults to Unknown and the reference is still
// propagated.
func ModelVersion(path string) (string, error) {
	doc, err := config.Load(path)
	if err != nil {
		return "", err
	}
	kind, raw := findRef(doc.Raw())
	if raw == "" {
		return "", config.NewMissingKeyError("tag|branch")
	}
	ref := raw
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		ref = raw[i+1:]
	}
	if kind != refKindTag && kind != refKindBranch {
		kind = refKindUnknown
	}
	return kind + "_" + ref, nil
}

// findRef walks the document tree depth-first looking for a reference
// declaration. Explicit tag/branch keys win within a table; otherwise any
// string value shaped like "<kind>/<ref>" is taken with its key as the
// candidate kind. Keys are visited in sorted order for determinism.
func findRef(m map[string]any) (kind, value string) {
	if v, ok := m[refKindTag].(string); ok {
		return refKindTag, v
	}
	if v, ok := m[refKindBranch].(string); ok {
		return refKindBranch, v
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if s, ok := m[k].(string); ok && strings.Contains(s, "/") {
			return k, s
		}
	}
	for _, k := range keys {
		if sub, ok := m[k].(map[string]any); ok {
			if kind, value = findRef(sub); value != "" {
				return kind, value
			}
		}
	}
	return "", ""
}
