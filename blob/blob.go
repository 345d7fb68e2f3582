package blob

import (
	"errors"
	"fmt"
)

// Sentinel errors for registry operations.
var (
	// ErrBlobRedeclared indicates that an output name was registered twice.
	ErrBlobRedeclared = errors.New("blob: output name already registered")

	// ErrBlobUnknown indicates a lookup of a name that was never registered.
	ErrBlobUnknown = errors.New("blob: name not registered")
)

// Blob is an opaque handle to a backend-owned data buffer, identified by a
// symbolic name. Implementations belong to the compute backend; the core
// treats every Blob as a bind-only token and never touches its contents.
type Blob interface {
	// Name returns the symbolic name this handle was created under.
	Name() string
}

// Grad is the explicit optional gradient channel paired with a forward blob.
//
// A present Grad carries the buffer that backward passes accumulate into.
// An absent Grad (the zero value) means the producing layer cannot
// backpropagate: consumers see it at binding time and skip gradient traffic.
type Grad struct {
	blob Blob
}

// NoGrad returns the absent gradient channel. It is the zero value of Grad,
// provided as a named constructor for readability at registration sites.
func NoGrad() Grad {
	return Grad{}
}

// WithGrad returns a present gradient channel wrapping buffer b.
// Passing nil yields the absent channel.
func WithGrad(b Blob) Grad {
	return Grad{blob: b}
}

// Present reports whether the channel carries a real gradient buffer.
func (g Grad) Present() bool {
	return g.blob != nil
}

// Blob returns the underlying gradient buffer, or nil when absent.
// Callers gate on Present before touching the result.
func (g Grad) Blob() Blob {
	return g.blob
}

// Registry holds the two symbol-keyed binding tables built during assembly:
// forward output blobs and their gradient channels, both keyed by top name.
// A Registry is confined to the single goroutine performing assembly and is
// retained afterwards for diagnostics only; it needs no locking.
type Registry struct {
	outputs map[string]Blob
	grads   map[string]Grad
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		outputs: make(map[string]Blob),
		grads:   make(map[string]Grad),
	}
}

// PutOutput registers the forward blob b under name.
// Registering a name twice returns ErrBlobRedeclared: the sorter reports
// user-facing duplicates first, so hitting this during assembly means the
// layer set changed between sorting and binding.
func (r *Registry) PutOutput(name string, b Blob) error {
	if _, ok := r.outputs[name]; ok {
		return fmt.Errorf("%q: %w", name, ErrBlobRedeclared)
	}
	r.outputs[name] = b

	return nil
}

// Output returns the forward blob registered under name.
func (r *Registry) Output(name string) (Blob, bool) {
	b, ok := r.outputs[name]

	return b, ok
}

// PutGrad registers the gradient channel g under name, replacing any prior
// entry. Gradient channels follow their output blob, so redeclaration is
// already excluded by PutOutput.
func (r *Registry) PutGrad(name string, g Grad) {
	r.grads[name] = g
}

// Grad returns the gradient channel registered under name.
// An unregistered name yields the absent channel.
func (r *Registry) Grad(name string) Grad {
	return r.grads[name]
}

// Len returns the number of registered forward outputs.
func (r *Registry) Len() int {
	return len(r.outputs)
}
