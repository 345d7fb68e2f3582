package topo

import (
	"errors"
	"fmt"

	"github.com/sunagakazuo/layergraph/layers"
)

// Sentinel errors for schedule construction.
var (
	// ErrDuplicateOutput indicates that two layers claim the same output name.
	ErrDuplicateOutput = errors.New("topo: duplicate output blob")

	// ErrMissingInput indicates that a consumed blob name is never produced.
	ErrMissingInput = errors.New("topo: input blob never produced")

	// ErrMultipleConsumer indicates a second backprop-capable, non-in-place
	// consumer of one blob; merging gradients needs an explicit split layer.
	ErrMultipleConsumer = errors.New("topo: multiple backprop consumers of one blob")

	// ErrCycleDetected indicates that no layer is ready while layers remain.
	ErrCycleDetected = errors.New("topo: cycle detected")
)

// Sort orders descs into an executable schedule.
//
// The result is a permutation of descs containing every descriptor exactly
// once, such that the producer of every consumed blob precedes its consumers,
// and within every round of simultaneously-ready layers all in-place layers
// precede all non-in-place layers, each subclass keeping input order.
// The input slice is never mutated.
//
// Every descriptor is validated first; a validation failure aborts with the
// descriptor's own error. An empty input yields an empty schedule.
func Sort(descs []layers.Descriptor) ([]layers.Descriptor, error) {
	n := len(descs)
	if n == 0 {
		return nil, nil
	}
	// 1) Reject malformed descriptors before touching the name tables.
	for _, d := range descs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}
	// 2) Index every produced output name by its producing layer.
	//    Sinks produce nothing; in-place layers reuse their bottom's identity
	//    and register nothing new.
	producer := make(map[string]int, n)
	for i, d := range descs {
		if d.Has(layers.Sink) || d.Has(layers.InPlace) {
			continue
		}
		for _, top := range d.Tops {
			if j, ok := producer[top]; ok {
				return nil, fmt.Errorf("blob %q claimed by %q and %q: %w",
					top, descs[j].Name, d.Name, ErrDuplicateOutput)
			}
			producer[top] = i
		}
	}
	// 3) Resolve every consumption, recording dependency edges and enforcing
	//    the single-gradient-consumer rule. A blob may fan out to any number
	//    of forward-only or in-place readers, but at most one reader that
	//    pushes a gradient back into it.
	// indeg counts unresolved dependencies per layer; dependents maps a
	// producer index to its consumer indices; taken records, per blob name,
	// the first gradient-pushing consumer seen.
	indeg := make([]int, n)
	dependents := make([][]int, n)
	taken := make(map[string]string, n)
	for i, d := range descs {
		if d.Has(layers.Source) {
			continue
		}
		for _, bottom := range d.Bottoms {
			p, ok := producer[bottom]
			if !ok {
				return nil, fmt.Errorf("layer %q: blob %q: %w",
					d.Name, bottom, ErrMissingInput)
			}
			if d.Has(layers.Backprop) && !d.Has(layers.InPlace) {
				if prev, dup := taken[bottom]; dup {
					return nil, fmt.Errorf(
						"blob %q consumed by %q and %q (insert an explicit split layer to fan out gradients): %w",
						bottom, prev, d.Name, ErrMultipleConsumer)
				}
				taken[bottom] = d.Name
			}
			dependents[p] = append(dependents[p], i)
			indeg[i]++
		}
	}
	// 4) Kahn rounds. Each round snapshots the ready set, then emits its
	//    in-place members first and the rest second, both in input order;
	//    dependency counts drop as a layer is emitted, so freed layers join
	//    the next round.
	sorted := make([]layers.Descriptor, 0, n)
	emitted := make([]bool, n)
	for remaining := n; remaining > 0; {
		ready := make([]int, 0, remaining)
		for i := range descs {
			if !emitted[i] && indeg[i] == 0 {
				ready = append(ready, i)
			}
		}
		if len(ready) == 0 {
			return nil, fmt.Errorf("%d layer(s) unschedulable: %w", remaining, ErrCycleDetected)
		}
		for pass := 0; pass < 2; pass++ {
			inPlacePass := pass == 0
			for _, i := range ready {
				if descs[i].Has(layers.InPlace) != inPlacePass {
					continue
				}
				sorted = append(sorted, descs[i])
				emitted[i] = true
				remaining--
				for _, c := range dependents[i] {
					indeg[c]--
				}
			}
		}
	}

	return sorted, nil
}
