// Package backend declares the capability contracts through which the graph
// core drives an external compute backend, plus the runtime records (State,
// Param) that cross that boundary.
//
// The core never performs numeric work. It binds blobs, fixes an execution
// order, and then issues blocking calls against these interfaces:
//
//   - Backend — per-layer Setup / Forward / Backward / Shutdown.
//   - Activation — in-place forward transform of an output blob, and the
//     matching backward transform of an (output, gradient) pair. The identity
//     activation is a nil Activation; the engine skips it.
//   - Regularizer — backward-only contribution accumulated into a parameter's
//     gradient buffer. nil means no regularization for that parameter.
//   - Initializer — one-shot fill of a parameter blob. nil is the null
//     initializer and is skipped.
//   - Registry — the process-wide parameter sharing store keyed by a layer's
//     sharing key. MemRegistry is the default in-memory implementation.
//   - Statistician — optional statistics dump/reset support; backends that do
//     not track statistics simply do not implement it.
//
// Every call is synchronous: it returns a completed result before the core
// touches the next layer. A backend may parallelize internally, but effects
// of layer i's forward must be visible to layer i+1's forward, and effects of
// layer i's backward to layer i-1's backward, in the fixed schedule order.
//
// Setup/compute failures are the backend's own errors; the core propagates
// them unchanged (wrapped only with layer context) and never retries.
package backend
