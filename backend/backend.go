package backend

import (
	"github.com/sunagakazuo/layergraph/blob"
	"github.com/sunagakazuo/layergraph/layers"
)

// Backend is the per-layer compute contract. All calls are blocking and
// single-threaded from the core's point of view; see the package comment for
// the visibility guarantees a backend must preserve.
type Backend interface {
	// Setup builds the runtime State for one layer: it allocates the layer's
	// owned output blobs and gradient channels, and either adopts the shared
	// parameter set (when non-nil) or allocates a fresh one. inputs and
	// inputGrads are the layer's bound bottoms, in descriptor order; both are
	// empty for source layers. Setup fails on invalid shapes or configuration.
	Setup(desc layers.Descriptor, shared []*Param, inputs []blob.Blob, inputGrads []blob.Grad) (*State, error)

	// Forward runs the layer's computation, reading inputs and writing the
	// State's owned output blobs. Loss-capable layers also refresh State.Loss;
	// source layers refresh State.Epoch when a data pass wraps around.
	Forward(s *State, inputs []blob.Blob) error

	// Backward consumes the State's output gradients and accumulates the
	// layer's input gradients into inputGrads (absent channels are skipped).
	// Params-capable layers also accumulate parameter gradients.
	Backward(s *State, inputs []blob.Blob, inputGrads []blob.Grad) error

	// Shutdown releases backend resources held by s. It is called exactly
	// once per layer during Net teardown.
	Shutdown(s *State) error
}

// Activation transforms a layer's outputs in place after the forward
// computation, and untransforms output gradients ahead of the backward
// computation. A nil Activation is the identity.
type Activation interface {
	// Forward applies the activation to b in place.
	Forward(b blob.Blob) error

	// Backward rewrites grad from d(objective)/d(activated output) to
	// d(objective)/d(pre-activation output), reading the activated values
	// from b.
	Backward(b blob.Blob, grad blob.Blob) error
}

// Regularizer contributes a penalty gradient for one parameter.
// A nil Regularizer means the parameter is unregularized.
//
// The forward (objective) contribution of regularizers is deliberately not
// surfaced: it does not affect gradients, and the reported objective stays a
// consistent monitoring signal without it.
type Regularizer interface {
	// Backward accumulates coef-scaled penalty gradients of param into grad.
	Backward(coef float64, param, grad blob.Blob) error
}

// Initializer fills a freshly allocated parameter blob.
// A nil Initializer is the null initializer and is skipped.
type Initializer interface {
	Init(b blob.Blob) error
}

// StatsStorage is an opaque handle to wherever a backend persists layer
// statistics. Its shape is a private matter between the backend and the
// storage collaborator.
type StatsStorage interface{}

// Statistician is the optional statistics contract. The core type-asserts a
// Backend against it when a Stats-capable layer asks for a dump or a reset.
type Statistician interface {
	// DumpStatistics persists (and, when show is set, reports) the statistics
	// accumulated by s since the last reset.
	DumpStatistics(st StatsStorage, s *State, show bool) error

	// ResetStatistics clears the statistics accumulated by s.
	ResetStatistics(s *State) error
}

// Param is one trainable parameter of a layer: its value buffer, the gradient
// buffer that every sharing layer's backward call accumulates into, and the
// optional initializer/regularizer hooks.
//
// When a parameter set is shared, every sharing layer's State holds the same
// *Param pointers; callers that zero gradients between steps must do so once
// per parameter, not once per referencing layer.
type Param struct {
	Name        string
	Blob        blob.Blob
	Grad        blob.Blob
	Initializer Initializer
	Regularizer Regularizer
}

// State is the per-layer runtime record produced once by Setup and mutated in
// place by every forward/backward call until the Net is destroyed.
type State struct {
	// Desc is the descriptor this state was set up for.
	Desc layers.Descriptor

	// Outputs are the blobs this layer owns, one per top name. Sinks own
	// none; in-place layers alias their bound inputs instead of allocating.
	Outputs []blob.Blob

	// OutputGrads are the gradient channels paired with Outputs. They are
	// present when the layer can backpropagate and absent otherwise.
	OutputGrads []blob.Grad

	// Params is the layer's parameter set, nil for parameterless layers.
	// Shared sets alias the same *Param values across layers.
	Params []*Param

	// Activation is the non-identity activation to apply to every output,
	// nil when the layer has none.
	Activation Activation

	// Loss is the scalar loss produced by the most recent forward call;
	// meaningful only for Loss-capable layers.
	Loss float64

	// Epoch counts completed passes over the underlying data set;
	// meaningful only for source layers.
	Epoch int

	// Data holds backend-private bookkeeping for this layer.
	Data any
}
