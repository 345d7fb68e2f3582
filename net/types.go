package net

import (
	"errors"

	"github.com/sunagakazuo/layergraph/backend"
	"github.com/sunagakazuo/layergraph/blob"
	"github.com/sunagakazuo/layergraph/layers"
)

// Sentinel errors for Net construction and use.
var (
	// ErrNilBackend indicates that New was given a nil backend.
	ErrNilBackend = errors.New("net: backend is nil")

	// ErrSetupMismatch indicates that a backend Setup returned fewer owned
	// outputs or gradient channels than the layer's top list declares.
	ErrSetupMismatch = errors.New("net: setup result does not match descriptor tops")

	// ErrDanglingGradient indicates a backprop-capable output blob that is
	// never consumed by anything feeding gradient flow back from a loss.
	ErrDanglingGradient = errors.New("net: differentiable blob never reaches a loss")

	// ErrDestroyed indicates an operation on a Net after Destroy.
	ErrDestroyed = errors.New("net: net is destroyed")

	// ErrNoStatistician indicates a statistics request against a backend that
	// does not implement backend.Statistician.
	ErrNoStatistician = errors.New("net: backend does not collect statistics")
)

// defaultRegistry is the process-wide parameter sharing store used when no
// WithParamRegistry option is given, so sharing keys span every Net in the
// process, mirroring the lifetime of the parameters themselves.
var defaultRegistry = backend.NewMemRegistry()

// Option configures optional behavior of Net construction and execution.
type Option func(*options)

// options holds the resolved configuration for one Net.
type options struct {
	registry backend.Registry // parameter sharing store
	verbose  bool             // per-layer trace lines
}

// defaultOptions returns the defaults: the process-wide parameter registry
// and no tracing.
func defaultOptions() options {
	return options{registry: defaultRegistry}
}

// WithParamRegistry returns an Option that overrides the parameter sharing
// store, scoping weight sharing to the supplied registry.
// Passing nil has no effect.
func WithParamRegistry(r backend.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithVerbose returns an Option that enables per-layer trace lines during
// assembly and execution.
func WithVerbose() Option {
	return func(o *options) {
		o.verbose = true
	}
}

// Net is the assembled graph: the topologically sorted layer list, the
// parallel per-layer runtime states and bound input bindings, the indices of
// source layers, and the blob registry retained for diagnostics.
//
// A Net is confined to a single goroutine. Layer states are created once by
// New, mutated in place by every pass, and released exactly once by Destroy.
type Net struct {
	backend backend.Backend
	opts    options

	layers     []layers.Descriptor // sorted schedule
	states     []*backend.State    // parallel to layers
	inputs     [][]blob.Blob       // bound forward inputs per layer
	inputGrads [][]blob.Grad       // bound backward inputs per layer
	sources    []int               // indices of source layers in the schedule

	registry  *blob.Registry // output/gradient tables, for diagnostics
	destroyed bool
}

// Len returns the number of layers in the schedule.
func (n *Net) Len() int {
	return len(n.layers)
}

// Layers returns a copy of the sorted layer schedule.
func (n *Net) Layers() []layers.Descriptor {
	out := make([]layers.Descriptor, len(n.layers))
	copy(out, n.layers)

	return out
}

// State returns the runtime state of the i-th layer in the schedule.
// The caller must not shut it down; the Net owns it until Destroy.
func (n *Net) State(i int) *backend.State {
	return n.states[i]
}

// Sources returns the schedule indices of the source (data) layers.
func (n *Net) Sources() []int {
	out := make([]int, len(n.sources))
	copy(out, n.sources)

	return out
}

// OutputBlob returns the forward blob registered under the given top name.
func (n *Net) OutputBlob(name string) (blob.Blob, bool) {
	return n.registry.Output(name)
}

// GradBlob returns the gradient channel registered under the given top name;
// unknown names yield the absent channel.
func (n *Net) GradBlob(name string) blob.Grad {
	return n.registry.Grad(name)
}
