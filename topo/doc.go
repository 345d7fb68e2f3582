// Package topo orders layer descriptors into a deterministic, executable
// schedule respecting blob data dependencies and sharing constraints.
//
// Sort computes a linearization of the bottoms/tops dependency graph using a
// Kahn's-algorithm variant: a remaining-dependency count per layer and a
// ready set recomputed per round, partitioned so that ready in-place layers
// are emitted strictly before ready non-in-place layers. Within each subclass
// the original input order is preserved, so the schedule is stable.
//
// In-place layers rewrite a blob's storage ahead of every sibling that merely
// reads the same storage; emitting them first within each ready round
// satisfies that ordering without finer-grained dependency edges.
//
// Sort also enforces the structural sharing rules of a differentiable graph:
// each output name has exactly one producer, every consumed name has a
// producer, and a blob fans out to at most one gradient-pushing consumer
// (any number of forward-only or in-place readers are fine; merging several
// incoming gradients requires an explicit split layer).
//
// Errors:
//
//	ErrDuplicateOutput  - two layers claim the same output name.
//	ErrMissingInput     - a consumed name is never produced.
//	ErrMultipleConsumer - a second backprop-capable, non-in-place reader of one blob.
//	ErrCycleDetected    - no layer is ready while layers remain unscheduled.
//
// Complexity:
//
//   - Time:   O(V·R + E) with R ready rounds (R ≤ V; R is small for layered graphs)
//   - Memory: O(V + E) for the producer index, dependency counts, and adjacency
package topo
