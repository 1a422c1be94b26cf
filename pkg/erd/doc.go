// Package erd builds entity relationship diagrams from data-model types.
//
// The package is organized around two capability contracts ([Model] and
// [Field]) that data-modeling framework adapters implement, a [Registry]
// that dispatches raw types to the first adapter claiming them, and a
// composition-graph discovery that walks field type declarations to collect
// component models and the edges connecting them. [Create] is the single
// entry point; it returns an immutable, canonically ordered [Diagram].
//
// # Concurrency
//
// Discovery is single-threaded and touches only in-memory type
// declarations. Each Create call owns its visited sets, so independent
// calls may run concurrently as long as the registry they share is no
// longer being mutated. Adapter registration must complete before any
// traversal begins; the registry performs no internal locking.
package erd
