// Package blob defines the data-channel vocabulary of a layer graph: the
// opaque Blob handle, the explicit optional gradient channel Grad, and the
// Registry of symbol-keyed binding tables built during assembly.
//
// A Blob is an opaque handle to a backend-owned buffer, identified by a
// symbolic name. The core never inspects a blob's contents; it only binds
// handles to layers. Every forward blob has a companion gradient channel,
// which is either present (a real gradient buffer that backward passes
// accumulate into) or absent (the producing layer cannot backpropagate, so
// backward traffic against it is a no-op). Absence is expressed in the type —
// Grad with Present() == false — rather than by a runtime sentinel object.
//
// The Registry holds the two name-keyed tables populated incrementally during
// assembly: forward output blobs and their gradient channels. After assembly
// every layer holds direct handles; the Registry is retained only for
// diagnostics and post-assembly validation.
//
// Errors:
//
//	ErrBlobRedeclared - an output name was registered twice.
//	ErrBlobUnknown    - a lookup referenced a name that was never registered.
//
// Complexity: all Registry operations are O(1) map accesses.
package blob
