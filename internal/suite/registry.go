package suite

import (
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// Case is a single named test-run configuration unit.
type Case struct {
	// Host is the abstract host key. A case without a host is registered
	// but not runnable.
	Host string

	// Subtag marks this case as a subtag-expansion of a base case.
	Subtag string

	// Extra is the ordered list of overlay-file identifiers merged into
	// the invocation.
	Extra []string

	// Hostname and Hostdomain are populated by UpdateHostnames once the
	// host key has been resolved against the host metadata table.
	Hostname   string
	Hostdomain string

	// Attrs carries unknown configuration keys untouched.
	Attrs map[string]any
}

// Clone returns a deep copy of the case.
func (c *Case) Clone() *Case {
	out := *c
	out.Extra = append([]string(nil), c.Extra...)
	if c.Attrs != nil {
		out.Attrs = make(map[string]any, len(c.Attrs))
		for k, v := range c.Attrs {
			out.Attrs[k] = v
		}
	}
	return &out
}

// Registry is the case catalog: an insertion-ordered mapping from case
// identifier to case attributes. Identifiers are NFC-normalized on every
// insert and lookup so visually identical IDs cannot alias.
type Registry struct {
	order []string
	cases map[string]*Case
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{cases: map[string]*Case{}}
}

// Add registers a case under id, replacing any existing entry without
// disturbing its position.
func (r *Registry) Add(id string, c *Case) {
	id = norm.NFC.String(id)
	if _, exists := r.cases[id]; !exists {
		r.order = append(r.order, id)
	}
	r.cases[id] = c
}

// Get returns the case registered under id.
func (r *Registry) Get(id string) (*Case, bool) {
	c, ok := r.cases[norm.NFC.String(id)]
	return c, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.cases[norm.NFC.String(id)]
	return ok
}

// IDs returns all case identifiers in registration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of registered cases.
func (r *Registry) Len() int {
	return len(r.order)
}

// RegistryFromConfig builds a registry from the configuration's static
// case table. TOML decoding loses authoring order, so base cases are
// registered in sorted identifier order for deterministic iteration.
func RegistryFromConfig(section map[string]any) (*Registry, error) {
	r := NewRegistry()
	ids := make([]string, 0, len(section))
	for id := range section {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		raw, ok := section[id].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("case %q: expected a table, got %T", id, section[id])
		}
		c := &Case{}
		for k, v := range raw {
			switch k {
			case "host":
				c.Host, _ = v.(string)
			case "subtag":
				c.Subtag, _ = v.(string)
			case "extra":
				c.Extra = toStringSlice(v)
			case "hostname":
				c.Hostname, _ = v.(string)
			case "hostdomain":
				c.Hostdomain, _ = v.(string)
			default:
				if c.Attrs == nil {
					c.Attrs = map[string]any{}
				}
				c.Attrs[k] = v
			}
		}
		r.Add(id, c)
	}
	return r, nil
}

func toStringSlice(v any) []string {
	switch tv := v.(type) {
	case []string:
		return append([]string(nil), tv...)
	case []any:
		out := make([]string, 0, len(tv))
		for _, e := range tv {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
