package net

import (
	"fmt"

	"github.com/sunagakazuo/layergraph/layers"
)

// Forward drives one forward sweep over the schedule and returns the
// accumulated objective: the sum of every Loss-capable layer's scalar loss.
//
// Per layer, in schedule order: run the backend's forward computation with
// the bound inputs, apply the non-identity activation (if any) in place to
// every owned output, then fold the layer's loss into the objective.
//
// reguCoef is accepted for signature symmetry with Backward; the regularizer
// contributes nothing to the reported objective (see the package comment).
func (n *Net) Forward(reguCoef float64) (float64, error) {
	if n.destroyed {
		return 0, ErrDestroyed
	}
	var obj float64
	for i, d := range n.layers {
		s := n.states[i]
		if err := n.backend.Forward(s, n.inputs[i]); err != nil {
			return 0, fmt.Errorf("layer %q: forward: %w", d.Name, err)
		}
		if s.Activation != nil {
			for _, out := range s.Outputs {
				if err := s.Activation.Forward(out); err != nil {
					return 0, fmt.Errorf("layer %q: activation forward: %w", d.Name, err)
				}
			}
		}
		if d.Has(layers.Loss) {
			obj += s.Loss
		}
		if n.opts.verbose {
			fmt.Printf("net: forward %s\n", d.Name)
		}
	}

	return obj, nil
}

// Backward drives one backward sweep over the schedule, in reverse order.
//
// Per layer: first apply the activation's backward transform to every
// present (output, output-gradient) pair, turning the activated gradient
// into a pre-activation gradient; then run the backend's backward
// computation, which consumes the output gradients and accumulates input
// gradients into the bound backward inputs; finally accumulate each
// parameter's regularizer gradient scaled by reguCoef.
//
// Gradients keep accumulating across calls for shared parameters; resetting
// them between steps is the caller's concern, once per shared parameter.
func (n *Net) Backward(reguCoef float64) error {
	if n.destroyed {
		return ErrDestroyed
	}
	for i := len(n.layers) - 1; i >= 0; i-- {
		d := n.layers[i]
		s := n.states[i]
		if s.Activation != nil {
			for j := range s.Outputs {
				if j >= len(s.OutputGrads) || !s.OutputGrads[j].Present() {
					continue
				}
				if err := s.Activation.Backward(s.Outputs[j], s.OutputGrads[j].Blob()); err != nil {
					return fmt.Errorf("layer %q: activation backward: %w", d.Name, err)
				}
			}
		}
		if err := n.backend.Backward(s, n.inputs[i], n.inputGrads[i]); err != nil {
			return fmt.Errorf("layer %q: backward: %w", d.Name, err)
		}
		if d.Has(layers.Params) {
			for _, p := range s.Params {
				if p.Regularizer == nil {
					continue
				}
				if err := p.Regularizer.Backward(reguCoef, p.Blob, p.Grad); err != nil {
					return fmt.Errorf("layer %q: param %q: regularizer: %w", d.Name, p.Name, err)
				}
			}
		}
		if n.opts.verbose {
			fmt.Printf("net: backward %s\n", d.Name)
		}
	}

	return nil
}

// ForwardBackward runs Forward then Backward with the same coefficient and
// returns Forward's objective. The two passes couple only through the blobs.
func (n *Net) ForwardBackward(reguCoef float64) (float64, error) {
	obj, err := n.Forward(reguCoef)
	if err != nil {
		return 0, err
	}
	if err = n.Backward(reguCoef); err != nil {
		return 0, err
	}

	return obj, nil
}
