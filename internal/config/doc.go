// Package config provides TOML configuration document handling for the
// regression suite orchestrator.
//
// A Document is an immutable-by-convention map tree loaded from a TOML file.
// Components layer overlays on top of a base document with Merge, read
// values by dotted key with Get/GetString/Section, and resolve macro
// references with Expand.
//
// # Macro Expansion
//
// String values may reference other configuration values with @token@
// syntax. A token resolves against the dotted key space of the document
// (general.case, domain.name, ...) plus the derived time variables
// (YYYY, MM, DD, HH). Expansion iterates to a fixed point with a depth
// cap; unresolved tokens are left intact so they remain visible in logs.
//
// # Schema Validation
//
// Loaded documents can be validated against an embedded CUE schema
// describing the general, cases, domain and cleaning sections. The schema
// uses open structs: unknown keys pass through untouched.
package config
