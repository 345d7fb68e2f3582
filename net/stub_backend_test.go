package net_test

import (
	"github.com/sunagakazuo/layergraph/backend"
	"github.com/sunagakazuo/layergraph/blob"
	"github.com/sunagakazuo/layergraph/layers"
)

// scalarBlob is a one-value blob: enough numeric surface to make every pass
// deterministic and every assertion exact.
type scalarBlob struct {
	name string
	val  float64
}

func (b *scalarBlob) Name() string { return b.name }

// val reads a scalarBlob's value out of a Blob handle.
func val(b blob.Blob) float64 { return b.(*scalarBlob).val }

// constInit fills a parameter blob with a fixed value.
type constInit struct{ v float64 }

func (c constInit) Init(b blob.Blob) error {
	b.(*scalarBlob).val = c.v

	return nil
}

// l2Reg accumulates coef·param into the parameter's gradient.
type l2Reg struct{}

func (l2Reg) Backward(coef float64, param, grad blob.Blob) error {
	grad.(*scalarBlob).val += coef * param.(*scalarBlob).val

	return nil
}

// doubler is a linear activation y = 2x, so its backward transform is also a
// doubling of the gradient.
type doubler struct{}

func (doubler) Forward(b blob.Blob) error {
	b.(*scalarBlob).val *= 2

	return nil
}

func (doubler) Backward(_ blob.Blob, grad blob.Blob) error {
	grad.(*scalarBlob).val *= 2

	return nil
}

// stubBackend is a deterministic scalar backend. Behavior is switched on the
// descriptor's capability flags:
//
//   - Source: forward copies feed[top] into each owned output.
//   - Sink+Loss: forward sets Loss = Σ ½·in²; backward writes in into each
//     present input gradient.
//   - InPlace: forward adds 1 to each aliased blob; the shift's derivative is
//     identity, so backward passes gradients through untouched.
//   - Anything else: forward writes w·in[0] into every output, where w is the
//     layer's single "weight" parameter (1 when parameterless); backward
//     accumulates w·outGrad into the input gradients and outGrad·in[0] into
//     the weight gradient.
type stubBackend struct {
	feed  map[string]float64 // source top name -> fed value
	initW float64            // value of a freshly allocated weight

	failSetup string // layer name whose Setup fails
	setupErr  error

	shutdowns []string // layer names shut down, in call order
}

func newStubBackend() *stubBackend {
	return &stubBackend{feed: make(map[string]float64), initW: 1}
}

func (sb *stubBackend) Setup(
	d layers.Descriptor,
	shared []*backend.Param,
	inputs []blob.Blob,
	inputGrads []blob.Grad,
) (*backend.State, error) {
	if d.Name == sb.failSetup {
		return nil, sb.setupErr
	}
	s := &backend.State{Desc: d}
	if d.Has(layers.Activation) {
		s.Activation = doubler{}
	}
	if d.Has(layers.Params) {
		s.Params = shared
		if s.Params == nil {
			s.Params = []*backend.Param{{
				Name:        "weight",
				Blob:        &scalarBlob{name: d.Name + ".weight", val: sb.initW},
				Grad:        &scalarBlob{name: d.Name + ".weight.grad"},
				Initializer: constInit{v: sb.initW},
				Regularizer: l2Reg{},
			}}
		}
	}
	switch {
	case d.Has(layers.InPlace):
		// In-place layers own no new storage: outputs alias the bound inputs.
		s.Outputs = inputs
		s.OutputGrads = inputGrads
	case !d.Has(layers.Sink):
		for _, top := range d.Tops {
			s.Outputs = append(s.Outputs, &scalarBlob{name: top})
			if d.Has(layers.Backprop) {
				s.OutputGrads = append(s.OutputGrads, blob.WithGrad(&scalarBlob{name: top + ".grad"}))
			} else {
				s.OutputGrads = append(s.OutputGrads, blob.NoGrad())
			}
		}
	}

	return s, nil
}

func (sb *stubBackend) Forward(s *backend.State, inputs []blob.Blob) error {
	d := s.Desc
	switch {
	case d.Has(layers.Source):
		for _, out := range s.Outputs {
			out.(*scalarBlob).val = sb.feed[out.Name()]
		}
	case d.Has(layers.Sink) && d.Has(layers.Loss):
		var loss float64
		for _, in := range inputs {
			loss += 0.5 * val(in) * val(in)
		}
		s.Loss = loss
	case d.Has(layers.InPlace):
		for _, out := range s.Outputs {
			out.(*scalarBlob).val++
		}
	default:
		w := 1.0
		if len(s.Params) > 0 {
			w = val(s.Params[0].Blob)
		}
		for _, out := range s.Outputs {
			out.(*scalarBlob).val = w * val(inputs[0])
		}
	}

	return nil
}

func (sb *stubBackend) Backward(s *backend.State, inputs []blob.Blob, inputGrads []blob.Grad) error {
	d := s.Desc
	if !d.Has(layers.Backprop) {
		return nil
	}
	switch {
	case d.Has(layers.Sink) && d.Has(layers.Loss):
		for i, g := range inputGrads {
			if !g.Present() {
				continue
			}
			g.Blob().(*scalarBlob).val = val(inputs[i])
		}
	case d.Has(layers.InPlace):
		// Identity derivative; gradients already live in the aliased channels.
	default:
		w := 1.0
		if len(s.Params) > 0 {
			w = val(s.Params[0].Blob)
		}
		outGrad := val(s.OutputGrads[0].Blob())
		if len(s.Params) > 0 {
			s.Params[0].Grad.(*scalarBlob).val += outGrad * val(inputs[0])
		}
		for _, g := range inputGrads {
			if !g.Present() {
				continue
			}
			g.Blob().(*scalarBlob).val += w * outGrad
		}
	}

	return nil
}

func (sb *stubBackend) Shutdown(s *backend.State) error {
	sb.shutdowns = append(sb.shutdowns, s.Desc.Name)

	return nil
}

// statsBackend extends stubBackend with the Statistician contract, counting
// dump and reset calls per layer name.
type statsBackend struct {
	*stubBackend
	dumps  []string
	resets []string
}

func newStatsBackend() *statsBackend {
	return &statsBackend{stubBackend: newStubBackend()}
}

func (sb *statsBackend) DumpStatistics(_ backend.StatsStorage, s *backend.State, _ bool) error {
	sb.dumps = append(sb.dumps, s.Desc.Name)

	return nil
}

func (sb *statsBackend) ResetStatistics(s *backend.State) error {
	sb.resets = append(sb.resets, s.Desc.Name)

	return nil
}
