package layers

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for descriptor validation.
var (
	// ErrEmptyName indicates that the Descriptor has an empty Name.
	ErrEmptyName = errors.New("layers: descriptor name is empty")

	// ErrNoBottoms indicates that a non-source descriptor declares no bottoms.
	ErrNoBottoms = errors.New("layers: non-source descriptor has no bottoms")

	// ErrSourceHasBottoms indicates that a Source descriptor declares bottoms.
	ErrSourceHasBottoms = errors.New("layers: source descriptor has bottoms")

	// ErrNoTops indicates that a non-sink descriptor declares no tops.
	ErrNoTops = errors.New("layers: non-sink descriptor has no tops")

	// ErrSinkHasTops indicates that a Sink descriptor declares tops.
	ErrSinkHasTops = errors.New("layers: sink descriptor has tops")

	// ErrInPlaceAlias indicates that an InPlace descriptor's top names are not
	// a subset of its bottom names, or that it is also a source or a sink.
	ErrInPlaceAlias = errors.New("layers: in-place tops must alias bottoms")

	// ErrDuplicateName indicates a blob name repeated within Bottoms or Tops.
	ErrDuplicateName = errors.New("layers: duplicate blob name in descriptor")
)

// Capability is a bit set of the fixed abilities a layer declares.
// Capabilities are assigned at authoring time and queried, never mutated,
// during assembly and execution.
type Capability uint16

const (
	// Source marks a layer with no inputs (typically a data feed).
	Source Capability = 1 << iota

	// Sink marks a layer with no outputs (typically a loss).
	Sink

	// InPlace marks a layer that transforms a blob without introducing a new
	// output identity; its tops alias its bottoms.
	InPlace

	// Params marks a layer that owns (or shares) trainable parameters.
	Params

	// Loss marks a layer that contributes a scalar loss to the objective.
	Loss

	// Activation marks a layer with a non-identity activation applied to its
	// outputs after the forward computation.
	Activation

	// Backprop marks a layer that can compute input gradients from output
	// gradients.
	Backprop

	// Stats marks a layer that accumulates reportable statistics.
	Stats
)

// capNames maps each single capability bit to its display name, in bit order.
var capNames = []struct {
	bit  Capability
	name string
}{
	{Source, "Source"},
	{Sink, "Sink"},
	{InPlace, "InPlace"},
	{Params, "Params"},
	{Loss, "Loss"},
	{Activation, "Activation"},
	{Backprop, "Backprop"},
	{Stats, "Stats"},
}

// String renders the capability set as a "|"-joined list of flag names,
// or "None" for the empty set.
func (c Capability) String() string {
	if c == 0 {
		return "None"
	}
	parts := make([]string, 0, len(capNames))
	for _, cn := range capNames {
		if c&cn.bit != 0 {
			parts = append(parts, cn.name)
		}
	}

	return strings.Join(parts, "|")
}

// Descriptor is the immutable declaration of one computation node.
//
// Bottoms and Tops are ordered lists of symbolic blob names; their order is
// significant — it fixes the binding order of input and output blobs at
// assembly time. Caps is the fixed capability set. ParamKey selects the
// parameter-sharing key for Params-capable layers; when empty, Name is used,
// so two layers share parameters exactly when they declare the same key.
type Descriptor struct {
	Name     string
	Bottoms  []string
	Tops     []string
	Caps     Capability
	ParamKey string
}

// Has reports whether the descriptor declares every capability in c.
func (d Descriptor) Has(c Capability) bool {
	return d.Caps&c == c
}

// SharingKey returns the parameter-sharing key: ParamKey when set, else Name.
func (d Descriptor) SharingKey() string {
	if d.ParamKey != "" {
		return d.ParamKey
	}

	return d.Name
}

// String renders the descriptor as "name(bottoms → tops)" for diagnostics.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s(%s → %s)",
		d.Name, strings.Join(d.Bottoms, ","), strings.Join(d.Tops, ","))
}

// Validate checks the structural invariants of the descriptor.
// It returns the first violated sentinel, wrapped with the descriptor name,
// or nil when the descriptor is well-formed.
//
// Invariants:
//   - Name is non-empty.
//   - Source ⇔ len(Bottoms) == 0; Sink ⇔ len(Tops) == 0.
//   - InPlace ⇒ not Source, not Sink, and every top name appears in Bottoms.
//   - No name repeats within Bottoms; no name repeats within Tops.
func (d Descriptor) Validate() error {
	// 1) The name anchors every diagnostic; reject the empty string first.
	if d.Name == "" {
		return ErrEmptyName
	}
	// 2) Source/bottom consistency: the flag and the list must agree.
	if d.Has(Source) && len(d.Bottoms) > 0 {
		return fmt.Errorf("layer %q: %w", d.Name, ErrSourceHasBottoms)
	}
	if !d.Has(Source) && len(d.Bottoms) == 0 {
		return fmt.Errorf("layer %q: %w", d.Name, ErrNoBottoms)
	}
	// 3) Sink/top consistency, mirrored.
	if d.Has(Sink) && len(d.Tops) > 0 {
		return fmt.Errorf("layer %q: %w", d.Name, ErrSinkHasTops)
	}
	if !d.Has(Sink) && len(d.Tops) == 0 {
		return fmt.Errorf("layer %q: %w", d.Name, ErrNoTops)
	}
	// 4) In-place layers rewrite existing storage: they must sit strictly in
	//    the interior of the graph and every top must alias a bottom.
	if d.Has(InPlace) {
		if d.Has(Source) || d.Has(Sink) {
			return fmt.Errorf("layer %q: %w", d.Name, ErrInPlaceAlias)
		}
		bottoms := make(map[string]struct{}, len(d.Bottoms))
		for _, b := range d.Bottoms {
			bottoms[b] = struct{}{}
		}
		for _, t := range d.Tops {
			if _, ok := bottoms[t]; !ok {
				return fmt.Errorf("layer %q: top %q: %w", d.Name, t, ErrInPlaceAlias)
			}
		}
	}
	// 5) Repeated names within one side would make positional binding ambiguous.
	if dup, ok := firstDuplicate(d.Bottoms); ok {
		return fmt.Errorf("layer %q: bottom %q: %w", d.Name, dup, ErrDuplicateName)
	}
	if dup, ok := firstDuplicate(d.Tops); ok {
		return fmt.Errorf("layer %q: top %q: %w", d.Name, dup, ErrDuplicateName)
	}

	return nil
}

// firstDuplicate returns the first name occurring twice in names, if any.
func firstDuplicate(names []string) (string, bool) {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			return n, true
		}
		seen[n] = struct{}{}
	}

	return "", false
}
