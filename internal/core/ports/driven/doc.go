// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Store: transactional access to the persisted model (Update / View)
//   - Tx: the row-level operations available inside one transaction
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Embedder: generates dense vectors. Without it, embedding commands fail
//     with domain.ErrEmbeddingUnavailable.
//   - Summariser: generates summaries. Without it, summary commands fail
//     with domain.ErrLLMUnavailable.
//   - Normaliser / PostProcessor: used by ingestion and chunking.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
