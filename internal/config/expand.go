package config

import (
	"fmt"
	"regexp"
)

// maxExpandDepth caps macro resolution passes. Expansion that has not
// reached a fixed point by then leaves the remaining tokens intact.
const maxExpandDepth = 10

var macroPattern = regexp.MustCompile(`@([A-Za-z0-9_.]+)@`)

// Expand resolves @token@ macros across every string leaf of the document
// and returns the fully-resolved values keyed by dotted path.
//
// A token resolves against the document's own dotted key space first, then
// against the derived time variables. Unresolvable tokens stay as written.
func (d *Document) Expand() map[string]string {
	flat := d.Flatten()
	times := d.DeriveTimes()

	lookup := func(token string) (string, bool) {
		if v, ok := flat[token]; ok {
			return stringify(v), true
		}
		if v, ok := times[token]; ok {
			return stringify(v), true
		}
		return "", false
	}

	out := make(map[string]string, len(flat))
	for key, v := range flat {
		out[key] = expandString(stringify(v), lookup)
	}
	return out
}

// ExpandValue resolves macros in a single string against this document.
func (d *Document) ExpandValue(s string) string {
	flat := d.Flatten()
	times := d.DeriveTimes()
	return expandString(s, func(token string) (string, bool) {
		if v, ok := flat[token]; ok {
			return stringify(v), true
		}
		if v, ok := times[token]; ok {
			return stringify(v), true
		}
		return "", false
	})
}

func expandString(s string, lookup func(string) (string, bool)) string {
	for i := 0; i < maxExpandDepth; i++ {
		if !macroPattern.MatchString(s) {
			return s
		}
		replaced := false
		s = macroPattern.ReplaceAllStringFunc(s, func(match string) string {
			token := match[1 : len(match)-1]
			if v, ok := lookup(token); ok {
				replaced = true
				return v
			}
			return match
		})
		if !replaced {
			return s
		}
	}
	return s
}

func stringify(v any) string {
	switch tv := v.(type) {
	case string:
		return tv
	case fmt.Stringer:
		return tv.String()
	default:
		return fmt.Sprintf("%v", tv)
	}
}
