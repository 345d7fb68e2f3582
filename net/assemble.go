package net

import (
	"fmt"

	"github.com/sunagakazuo/layergraph/backend"
	"github.com/sunagakazuo/layergraph/blob"
	"github.com/sunagakazuo/layergraph/layers"
	"github.com/sunagakazuo/layergraph/topo"
)

// New assembles descs into an executable Net driven by b.
//
// Steps:
//  1. Validate and topologically sort the descriptors (package topo).
//  2. For each layer in schedule order, bind its bottoms to the blobs and
//     gradient channels registered by earlier layers, fetch any shared
//     parameter set for its sharing key, and invoke the backend's Setup.
//  3. Commit the layer's parameter set for future sharing and register its
//     tops: the output blob always; the gradient channel when the layer can
//     backpropagate, the absent channel otherwise.
//  4. Verify gradient flow: every differentiable output must reach a loss.
//
// Construction is all-or-nothing: on any failure the states created so far
// are shut down and only the error is returned.
func New(b backend.Backend, descs []layers.Descriptor, opts ...Option) (*Net, error) {
	// 1) A nil backend cannot set up anything; reject it before sorting.
	if b == nil {
		return nil, ErrNilBackend
	}
	opt := defaultOptions()
	for _, o := range opts {
		o(&opt)
	}
	// 2) Order the layers. Sort validates every descriptor and enforces the
	//    naming/aliasing rules, so binding below cannot miss a producer.
	sorted, err := topo.Sort(descs)
	if err != nil {
		return nil, err
	}
	n := &Net{
		backend:    b,
		opts:       opt,
		layers:     sorted,
		states:     make([]*backend.State, 0, len(sorted)),
		inputs:     make([][]blob.Blob, 0, len(sorted)),
		inputGrads: make([][]blob.Grad, 0, len(sorted)),
		registry:   blob.NewRegistry(),
	}
	// 3) Bind and set up each layer in schedule order.
	for i, d := range sorted {
		if err = n.assembleLayer(i, d); err != nil {
			n.teardown()

			return nil, err
		}
	}
	// 4) Static gradient-flow check. Runs after every blob is bound, so it
	//    sees the final gradient table.
	if err = n.checkGradientFlow(); err != nil {
		n.teardown()

		return nil, err
	}

	return n, nil
}

// assembleLayer binds, sets up, and registers the i-th layer of the schedule.
func (n *Net) assembleLayer(i int, d layers.Descriptor) error {
	// Bind forward inputs and backward inputs positionally from the bottoms.
	// Sources have no bottoms and bind empty lists.
	inputs := make([]blob.Blob, 0, len(d.Bottoms))
	inputGrads := make([]blob.Grad, 0, len(d.Bottoms))
	for _, bottom := range d.Bottoms {
		bound, ok := n.registry.Output(bottom)
		if !ok {
			// The sorter guarantees a producer precedes us; reaching this
			// means the descriptor slice changed between sort and bind.
			return fmt.Errorf("layer %q: blob %q: %w", d.Name, bottom, blob.ErrBlobUnknown)
		}
		inputs = append(inputs, bound)
		inputGrads = append(inputGrads, n.registry.Grad(bottom))
	}
	// Fetch a previously committed parameter set for this sharing key, if any.
	var shared []*backend.Param
	if d.Has(layers.Params) {
		shared = n.opts.registry.Get(d.SharingKey())
	}
	st, err := n.backend.Setup(d, shared, inputs, inputGrads)
	if err != nil {
		return fmt.Errorf("layer %q: setup: %w", d.Name, err)
	}
	if n.opts.verbose {
		fmt.Printf("net: setup %s caps=%s\n", d, d.Caps)
	}
	// First layer to claim a sharing key commits its freshly allocated set.
	if d.Has(layers.Params) && shared == nil {
		n.opts.registry.Put(d.SharingKey(), st.Params)
	}
	n.states = append(n.states, st)
	n.inputs = append(n.inputs, inputs)
	n.inputGrads = append(n.inputGrads, inputGrads)
	if d.Has(layers.Source) {
		n.sources = append(n.sources, i)
	}
	// Sinks own no outputs; in-place layers reuse their bound input blobs.
	// Everything else registers one owned blob per top, with a present
	// gradient channel only when the layer can push gradients through it.
	if d.Has(layers.Sink) || d.Has(layers.InPlace) {
		return nil
	}
	if len(st.Outputs) < len(d.Tops) {
		return fmt.Errorf("layer %q: %d output(s) for %d top(s): %w",
			d.Name, len(st.Outputs), len(d.Tops), ErrSetupMismatch)
	}
	for j, top := range d.Tops {
		if err = n.registry.PutOutput(top, st.Outputs[j]); err != nil {
			return fmt.Errorf("layer %q: %w", d.Name, err)
		}
		if !d.Has(layers.Backprop) {
			n.registry.PutGrad(top, blob.NoGrad())

			continue
		}
		if j >= len(st.OutputGrads) || !st.OutputGrads[j].Present() {
			return fmt.Errorf("layer %q: top %q has no gradient channel: %w",
				d.Name, top, ErrSetupMismatch)
		}
		n.registry.PutGrad(top, st.OutputGrads[j])
	}

	return nil
}

// teardown releases every state created so far. It runs only on the
// construction failure path, where the primary error is already decided;
// shutdown failures are dropped rather than masking it.
func (n *Net) teardown() {
	for _, s := range n.states {
		_ = n.backend.Shutdown(s)
	}
	n.states = nil
	n.destroyed = true
}

// checkGradientFlow statically verifies that every output blob produced by a
// backprop-capable, non-in-place layer is eventually required by something
// that pushes a real gradient into it.
//
// Walking the schedule in reverse, a blob becomes "ready" once some
// backprop-capable consumer downstream has claimed it: a backprop sink (a
// loss layer) originates gradient flow into all of its bottoms, and every
// interior backprop layer relays readiness from its tops to its bottoms.
// An interior layer whose top is neither ready nor gradient-less dead-ends
// the differentiable path: its gradient buffer would never be written.
// In-place layers are skipped; their readiness travels with the aliased blob.
func (n *Net) checkGradientFlow() error {
	ready := make(map[string]bool, n.registry.Len())
	for i := len(n.layers) - 1; i >= 0; i-- {
		d := n.layers[i]
		if !d.Has(layers.Backprop) {
			continue
		}
		switch {
		case d.Has(layers.Sink):
			for _, bottom := range d.Bottoms {
				ready[bottom] = true
			}
		case d.Has(layers.InPlace):
			// Readiness is inherited through the aliased blob.
		default:
			for _, top := range d.Tops {
				if !ready[top] && n.registry.Grad(top).Present() {
					return fmt.Errorf("layer %q: blob %q: %w", d.Name, top, ErrDanglingGradient)
				}
			}
			for _, bottom := range d.Bottoms {
				ready[bottom] = true
			}
		}
	}

	return nil
}
