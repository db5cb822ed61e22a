// Package sqlite provides a SQLite-backed run history store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Each analysis run is stored in the runs table with one
// set_statistics row per set, in list order. Undefined imaged volumes are
// stored as SQL NULL.
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/
// directory. Each migration is a pair of .up.sql and .down.sql files and
// applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.cytoset/data/runs.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. SQLite runs in WAL mode with
// a busy timeout so concurrent batch analyses can save runs.
package sqlite
