// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Each operation opens exactly one store transaction through
// driven.Store.Update or driven.Store.View. Invariants that span rows
// (payload discriminators, role rules, hierarchy acyclicity, chunk
// offsets) are checked inside that transaction, so a failure leaves no
// partial state behind.
//
// Beyond the ports, services depend only on uuid for identifiers and
// errgroup for the integrity scan.
package services
