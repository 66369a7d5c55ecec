// Package driving defines interfaces that external actors (CLI, ingestion)
// use to interact with core services. These are the "driving" ports in
// hexagonal architecture terminology - they drive the application.
//
// Every mutating operation runs in exactly one store transaction: it either
// fully applies or leaves no trace.
//
// Implementations of these interfaces live in internal/core/services.
package driving
