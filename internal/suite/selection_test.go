package suite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSelection_FullSuiteDefault(t *testing.T) {
	r := NewRegistry()
	r.Add("A", &Case{})
	r.Add("B", &Case{})

	sel := ResolveSelection(Definitions{Cases: r})

	assert.ElementsMatch(t, []string{"A", "B"}, sel)
}

func TestResolveSelection_EmptySelectionMeansAll(t *testing.T) {
	r := NewRegistry()
	r.Add("A", &Case{})

	sel := ResolveSelection(Definitions{Selection: []string{}, Cases: r})

	assert.Equal(t, []string{"A"}, sel)
}

func TestResolveSelection_WithSubtags(t *testing.T) {
	r := NewRegistry()
	r.Add("X", &Case{Host: "h1"})
	r.Add("Y", &Case{})

	sel := ResolveSelection(Definitions{
		Selection: []string{"X"},
		Subtags:   []map[string][]string{{"a": {"foo", "bar"}}},
		Cases:     r,
	})

	assert.Equal(t, []string{"X", "aX"}, sel)

	derived, ok := r.Get("aX")
	require.True(t, ok, "synthesized case must be registered")
	assert.Equal(t, "h1", derived.Host, "derived case inherits the base host")
	assert.Equal(t, "a", derived.Subtag)
	assert.Equal(t, []string{"foo", "bar"}, derived.Extra)

	// Base case Y was not selected, so no aY is synthesized.
	assert.False(t, r.Has("aY"))
}

func TestResolveSelection_ExtraUnionDeduplicates(t *testing.T) {
	r := NewRegistry()
	r.Add("X", &Case{Extra: []string{"foo", "baz"}})

	ResolveSelection(Definitions{
		Selection: []string{"X"},
		Subtags:   []map[string][]string{{"a": {"foo", "bar"}}},
		Cases:     r,
	})

	derived, ok := r.Get("aX")
	require.True(t, ok)
	assert.Equal(t, []string{"foo", "baz", "bar"}, derived.Extra,
		"base extras keep their order, overlays append, duplicates drop")
}

func TestResolveSelection_SubtagOnCaseWithoutExtra(t *testing.T) {
	r := NewRegistry()
	r.Add("C", &Case{Host: "h"})

	ResolveSelection(Definitions{
		Selection: []string{"C"},
		Subtags:   []map[string][]string{{"s": {"o1", "o2"}}},
		Cases:     r,
	})

	derived, ok := r.Get("sC")
	require.True(t, ok)
	assert.Equal(t, []string{"o1", "o2"}, derived.Extra)
}

func TestResolveSelection_MultipleSubtagRules(t *testing.T) {
	r := NewRegistry()
	r.Add("X", &Case{})

	sel := ResolveSelection(Definitions{
		Selection: []string{"X"},
		Subtags: []map[string][]string{
			{"a": {"foo"}},
			{"b": {"bar"}},
		},
		Cases: r,
	})

	assert.Equal(t, []string{"X", "aX", "bX"}, sel,
		"expansions appear in subtag declaration order")
	assert.True(t, r.Has("aX"))
	assert.True(t, r.Has("bX"))
}

func TestResolveSelection_AdditiveKeepsBaseIDs(t *testing.T) {
	r := NewRegistry()
	r.Add("X", &Case{})
	r.Add("Y", &Case{})

	sel := ResolveSelection(Definitions{
		Selection: []string{"X", "Y"},
		Subtags:   []map[string][]string{{"a": {"foo"}}},
		Cases:     r,
	})

	assert.Equal(t, []string{"X", "Y", "aX", "aY"}, sel)
}

func TestResolveSelection_ExistingDerivedCaseNotOverwritten(t *testing.T) {
	r := NewRegistry()
	r.Add("X", &Case{})
	r.Add("aX", &Case{Host: "preexisting"})

	sel := ResolveSelection(Definitions{
		Selection: []string{"X"},
		Subtags:   []map[string][]string{{"a": {"foo"}}},
		Cases:     r,
	})

	assert.Equal(t, []string{"X", "aX"}, sel)
	existing, _ := r.Get("aX")
	assert.Equal(t, "preexisting", existing.Host, "registered case wins over synthesis")
	assert.Empty(t, existing.Extra)
}

func TestResolveSelection_UnregisteredBaseIDNotExpanded(t *testing.T) {
	r := NewRegistry()
	r.Add("X", &Case{Host: "h1"})

	sel := ResolveSelection(Definitions{
		Selection: []string{"X", "ghost"},
		Subtags:   []map[string][]string{{"a": {"foo"}}},
		Cases:     r,
	})

	assert.Equal(t, []string{"X", "ghost", "aX"}, sel,
		"the unregistered ID stays in the selection but grows no variant")
	assert.False(t, r.Has("aghost"), "no attribute-less case is synthesized")
	assert.False(t, r.Has("ghost"))
}

func TestResolveSelection_NoSubtags(t *testing.T) {
	r := NewRegistry()
	r.Add("A", &Case{})

	sel := ResolveSelection(Definitions{Selection: []string{"A"}, Cases: r})

	assert.Equal(t, []string{"A"}, sel)
	assert.Equal(t, 1, r.Len())
}
