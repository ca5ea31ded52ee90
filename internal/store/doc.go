// Package store provides SQLite-backed durable storage for playout journals.
//
// Only journals are persisted: a playout row describing how the battle was
// set up, and one entry row per resolved decision or chance. Trees are never
// stored; a playout is rebuilt by re-driving the battle with the journal.
//
// # Ordering
//
// Entries are ordered by seq (the driver's logical clock), never by wall
// time. Every read uses ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// # Idempotency
//
// Entry ids are content addressed (see journal.EntryID), so writing the same
// entry twice is a no-op.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
