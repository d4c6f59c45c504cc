package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Document is a configuration document backed by a map tree.
//
// Documents follow copy-on-update semantics: Merge returns a new Document
// rather than mutating the receiver, so a base configuration can be layered
// with per-case overlays without cross-contamination.
type Document struct {
	path string
	data map[string]any
}

// Load reads and parses a TOML document from disk.
func Load(path string) (*Document, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &Error{Code: ErrCodeNotFound, Message: "configuration file not found", Path: path}
	}
	data := map[string]any{}
	if _, err := toml.DecodeFile(path, &data); err != nil {
		return nil, &Error{Code: ErrCodeParse, Message: "invalid TOML", Path: path, Err: err}
	}
	return &Document{path: path, data: data}, nil
}

// Parse parses a TOML document from a string. Used by tests and for
// in-memory overlay construction.
func Parse(src string) (*Document, error) {
	data := map[string]any{}
	if _, err := toml.Decode(src, &data); err != nil {
		return nil, &Error{Code: ErrCodeParse, Message: "invalid TOML", Err: err}
	}
	return &Document{data: data}, nil
}

// New creates a Document from an existing map tree. The map is not copied;
// callers hand over ownership.
func New(data map[string]any) *Document {
	if data == nil {
		data = map[string]any{}
	}
	return &Document{data: data}
}

// Path returns the file path this document was loaded from, or "" for
// in-memory documents.
func (d *Document) Path() string {
	return d.path
}

// Raw returns the underlying map tree. Callers must not mutate it.
func (d *Document) Raw() map[string]any {
	return d.data
}

// Get resolves a dotted key ("general.case") against the map tree.
func (d *Document) Get(key string) (any, bool) {
	parts := strings.Split(key, ".")
	var cur any = d.data
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// GetString resolves a dotted key to a string. Non-string and absent
// values yield "".
func (d *Document) GetString(key string) string {
	v, ok := d.Get(key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// GetStringSlice resolves a dotted key to a list of strings.
// Returns nil when the key is absent or not a list.
func (d *Document) GetStringSlice(key string) []string {
	v, ok := d.Get(key)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Section returns the named table, or false when absent or not a table.
func (d *Document) Section(key string) (map[string]any, bool) {
	v, ok := d.Get(key)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

// Merge layers an overlay on top of this document and returns the result
// as a new Document. Tables merge recursively; scalar and list values from
// the overlay win. Neither input is mutated.
func (d *Document) Merge(overlay map[string]any) *Document {
	return &Document{path: d.path, data: mergeMaps(d.data, overlay)}
}

func mergeMaps(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base))
	for k, v := range base {
		out[k] = copyValue(v)
	}
	for k, v := range overlay {
		bm, baseIsMap := out[k].(map[string]any)
		om, overIsMap := v.(map[string]any)
		if baseIsMap && overIsMap {
			out[k] = mergeMaps(bm, om)
			continue
		}
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, e := range tv {
			out[k] = copyValue(e)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}

// SaveAs writes the document to path as TOML. Whole-file replace: the
// write either fully completes or the error is reported to the caller.
func (d *Document) SaveAs(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save config %s: %w", path, err)
	}
	enc := toml.NewEncoder(f)
	if err := enc.Encode(d.data); err != nil {
		f.Close()
		return fmt.Errorf("save config %s: %w", path, err)
	}
	return f.Close()
}

// Flatten returns all leaf values keyed by dotted path, in sorted key
// order when iterated via sorted keys. Tables recurse; lists and scalars
// are leaves.
func (d *Document) Flatten() map[string]any {
	out := map[string]any{}
	flattenInto(out, "", d.data)
	return out
}

func flattenInto(out map[string]any, prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			flattenInto(out, key, sub)
			continue
		}
		out[key] = v
	}
}
