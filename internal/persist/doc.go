// Package persist provides durable storage for store snapshots.
//
// Every entity store serializes its whole state under a fixed key after each
// mutation; the Sink interface abstracts where those snapshots live.
//
// Implementations:
//
//   - FileSink: one indented JSON file per key, atomic temp-and-rename
//     replacement, flock lock file for cross-process safety
//   - SQLiteSink: a single snapshots key/value table in SQLite (WAL mode)
//   - MemorySink: in-memory map for tests, with write-failure injection
//
// Snapshots are whole-state replacements. There is no partial update, no
// history, and no recovery path beyond "last write wins": if a write fails,
// the in-memory state and the durable state diverge until the next
// successful write.
package persist
