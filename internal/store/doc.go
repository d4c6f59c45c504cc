// Package store provides the SQLite-backed run ledger.
//
// The ledger is an append-only record of what the orchestrator did:
// one row per case invocation (runs) and one row per applied cleaning
// rule (cleanings). It exists for the history command and for audits;
// nothing in the run or clean paths depends on reading it back.
//
// All ordering uses a seq INTEGER logical clock, never timestamps, so
// listing is deterministic regardless of wall time.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: tolerate lock contention
//   - single connection: SQLite has one writer
package store
