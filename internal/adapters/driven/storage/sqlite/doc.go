// Package sqlite provides the SQLite implementation of the driven.Store port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Every core operation runs in one
// transaction opened through Store.Update or Store.View.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files;
// applied versions are recorded in schema_migrations.
//
// Polymorphic records follow two layouts:
//
//   - Entity and DocumentSet share one table each, with a type discriminator column.
//   - Document keeps a base row plus one payload table per discriminator value. Payload
//     rows reference document(id, type), so a payload cannot attach to a base row of
//     another kind. Message and meeting rows extend text_document, and triggers keep at
//     most one of them per text document.
//
// Link tables use composite primary keys and cascade on delete of either endpoint.
//
// # Data Location
//
// By default, the database is stored at ~/.raggamuffin/data/raggamuffin.db
//
// # Thread Safety
//
// All operations are thread-safe. Writers open BEGIN IMMEDIATE transactions on a
// dedicated handle and wait on busy_timeout; readers use a separate handle in WAL mode.
package sqlite
