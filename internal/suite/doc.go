// Package suite implements the test-case orchestration core: the case
// registry, selection resolution with subtag expansion, host resolution,
// model version derivation and invocation command synthesis.
//
// # Lifecycle
//
// Cases are created from the configuration's static case table, may be
// cloned and extended by ResolveSelection when subtag rules apply, and are
// annotated in place by UpdateHostnames. Resolution completes fully before
// any other component reads the registry; that ordering is the only
// cross-component guarantee the core requires.
//
// # Selection expansion is exactly-once
//
// ResolveSelection mutates the registry it is given. Re-invoking it against
// an already-expanded registry is undefined: previously synthesized cases
// would be indistinguishable from ordinary base cases. Callers resolve once
// per run.
package suite
