package net

import (
	"errors"
	"fmt"

	"github.com/sunagakazuo/layergraph/backend"
	"github.com/sunagakazuo/layergraph/layers"
)

// InitParams applies each parameter's initializer, exactly once per shared
// parameter set: when several layers alias the same *Param values, only the
// first visit initializes them. Parameters with a nil (null) initializer are
// skipped.
func (n *Net) InitParams() error {
	if n.destroyed {
		return ErrDestroyed
	}
	seen := make(map[*backend.Param]struct{})
	for i, s := range n.states {
		for _, p := range s.Params {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			if p.Initializer == nil {
				continue
			}
			if err := p.Initializer.Init(p.Blob); err != nil {
				return fmt.Errorf("layer %q: param %q: init: %w", n.layers[i].Name, p.Name, err)
			}
		}
	}

	return nil
}

// Destroy shuts down every layer state exactly once and marks the Net
// unusable. It is idempotent: repeated calls return nil. Shutdown continues
// past individual failures; the joined errors are returned.
func (n *Net) Destroy() error {
	if n.destroyed {
		return nil
	}
	n.destroyed = true
	var errs []error
	for i, s := range n.states {
		if err := n.backend.Shutdown(s); err != nil {
			errs = append(errs, fmt.Errorf("layer %q: shutdown: %w", n.layers[i].Name, err))
		}
	}
	n.states = nil

	return errors.Join(errs...)
}

// Epoch returns the number of completed data-set passes, defined as the
// minimum epoch across all source layers: one pass is complete only when the
// slowest source has wrapped. A Net without source layers reports 0.
func (n *Net) Epoch() int {
	if n.destroyed || len(n.sources) == 0 {
		return 0
	}
	epoch := n.states[n.sources[0]].Epoch
	for _, i := range n.sources[1:] {
		if e := n.states[i].Epoch; e < epoch {
			epoch = e
		}
	}

	return epoch
}

// DumpStatistics persists (and, when show is set, reports) the statistics of
// every Stats-capable layer via the backend's Statistician contract.
// A Net without Stats-capable layers is a no-op regardless of backend.
func (n *Net) DumpStatistics(st backend.StatsStorage, show bool) error {
	if n.destroyed {
		return ErrDestroyed
	}
	return n.eachStatsLayer(func(sb backend.Statistician, s *backend.State) error {
		return sb.DumpStatistics(st, s, show)
	})
}

// ResetStatistics clears the accumulated statistics of every Stats-capable
// layer via the backend's Statistician contract.
func (n *Net) ResetStatistics() error {
	if n.destroyed {
		return ErrDestroyed
	}
	return n.eachStatsLayer(func(sb backend.Statistician, s *backend.State) error {
		return sb.ResetStatistics(s)
	})
}

// eachStatsLayer applies fn to every Stats-capable layer's state. It demands
// a Statistician backend only when at least one such layer exists.
func (n *Net) eachStatsLayer(fn func(backend.Statistician, *backend.State) error) error {
	sb, ok := n.backend.(backend.Statistician)
	for i, d := range n.layers {
		if !d.Has(layers.Stats) {
			continue
		}
		if !ok {
			return fmt.Errorf("layer %q: %w", d.Name, ErrNoStatistician)
		}
		if err := fn(sb, n.states[i]); err != nil {
			return fmt.Errorf("layer %q: statistics: %w", d.Name, err)
		}
	}

	return nil
}
