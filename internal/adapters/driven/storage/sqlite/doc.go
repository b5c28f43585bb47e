// Package sqlite provides the SQLite-backed implementation of the design
// index store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. One database holds the
// three chunk collections (decks, slides, elements), their FTS5 full-text
// shadow tables, the phrase-trigger table, and the append-only feedback log.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files.
//
// # Data Location
//
// By default, the database is stored at ~/.slides/data/index.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode: any number of concurrent readers, one
// writer at a time per handle.
package sqlite
