// Package domain defines the core records of the raggamuffin knowledge store.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceType / Source: provenance category and instance
//   - Entity: a person or organization (one shared shape, Kind discriminator)
//   - Document: a base record plus exactly one variant payload (text or image)
//   - Message / Meeting: event payloads that extend a text payload
//   - Chunk: a retrieval-oriented span of a document's text
//   - DocumentSet: a named collection of documents, optionally a conversation
//   - Link: a composite-keyed edge between two records
//
// # Variants
//
// Polymorphism is expressed as a tagged variant: a Kind discriminator stored on
// the base record and a payload that is either inline fields (Entity,
// DocumentSet) or a keyed side record (Document, TextDocument events).
// Shared capabilities (timestamps, embeddings, event date) are facet structs
// embedded in the records that have them.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
