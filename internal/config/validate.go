package config

import (
	_ "embed"
	"encoding/json"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaSrc string

// Validate checks the document against the embedded CUE schema.
//
// The schema constrains the shapes of the general, cases, domain, cleaning,
// ial and scheduler sections; everything else is open and passes through.
// Violations are reported as a schema Error, which callers treat as fatal.
func (d *Document) Validate() error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return &Error{Code: ErrCodeSchema, Message: "internal schema is invalid", Err: err}
	}

	// Round-trip through JSON so TOML-specific value types (datetimes,
	// integer widths) land as plain CUE data.
	raw, err := json.Marshal(d.data)
	if err != nil {
		return &Error{Code: ErrCodeSchema, Message: "configuration is not encodable", Path: d.path, Err: err}
	}
	expr, err := cuejson.Extract(d.path, raw)
	if err != nil {
		return &Error{Code: ErrCodeSchema, Message: "configuration is not encodable", Path: d.path, Err: err}
	}
	val := ctx.BuildExpr(expr)
	if err := val.Err(); err != nil {
		return &Error{Code: ErrCodeSchema, Message: "configuration is not encodable", Path: d.path, Err: err}
	}

	unified := schema.Unify(val)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return &Error{Code: ErrCodeSchema, Message: "configuration violates schema", Path: d.path, Err: err}
	}
	return nil
}
