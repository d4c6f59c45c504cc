// Package cleaning applies configuration-driven rules to remove
// generated test artifacts, with scheduler-driven suite removal as a
// best-effort terminal step.
//
// A cleaning configuration holds named rules plus a reserved defaults
// entry. Rules are applied per discovered per-case output configuration
// file. Dry-run is a hard override: every choice's dry_run flag is
// forced true, nothing is mutated, and the external scheduler is never
// contacted.
//
// Failure isolation is per file and per rule: a missing file or a failed
// removal is logged and skipped, never aborting the remaining work. Only
// the initial empty-input case reports "nothing processed".
package cleaning
