// Package net assembles a set of layer descriptors into an executable,
// dependency-ordered computation graph and drives forward and backward
// passes over it.
//
// Construction is all-or-nothing: New validates and topologically sorts the
// descriptors (see package topo), binds every layer to its input blobs and
// gradient channels, invokes the backend's per-layer Setup, registers newly
// produced blobs, wires parameter sharing through the process-wide registry,
// and finally verifies that every differentiable output can reach a loss.
// Any failure shuts down the states created so far and returns only the
// error; no partially-usable Net is ever observable.
//
// Execution is single-threaded and synchronous. Forward walks the schedule
// left to right, applying non-identity activations in place and accumulating
// the scalar losses of Loss-capable layers into the returned objective.
// Backward walks the same schedule right to left: activation backward first,
// then the backend's backward computation, then per-parameter regularizer
// gradients. The regularizer's forward (objective) contribution is omitted:
// it does not affect gradients, and the objective stays a consistent
// monitoring signal without the extra computation.
//
// Lifecycle: New → InitParams → any number of Forward / Backward /
// ForwardBackward calls → Destroy. Destroy shuts every layer state down
// exactly once and is idempotent; every other operation rejects a destroyed
// Net with ErrDestroyed.
//
// Errors:
//
//	ErrNilBackend       - New was given a nil backend.
//	ErrSetupMismatch    - Setup returned fewer outputs than the layer declares.
//	ErrDanglingGradient - a differentiable output never reaches a loss.
//	ErrDestroyed        - an operation was invoked after Destroy.
//	ErrNoStatistician   - statistics were requested but the backend has none.
//
// Sorting errors surface unchanged from package topo, descriptor validation
// errors from package layers, and backend failures from the backend itself,
// each wrapped with layer context for errors.Is matching.
package net
