// Package layers defines the Layer Descriptor: the immutable declaration of
// one computation node in a layer graph.
//
// A Descriptor names the node, lists its bottom (input) and top (output) blob
// names, and carries a fixed Capability set describing what the node can do
// (produce data, consume gradients, declare a loss, own parameters, and so on).
// Descriptors are plain value types: they are authored once, validated once via
// Validate, and only ever queried afterwards — assembly and execution never
// mutate them.
//
// Capability is an explicit bit set queried with Has. Execution code switches
// on the fixed flag set; there is no open-ended dynamic dispatch on descriptor
// contents.
//
// Errors:
//
//	ErrEmptyName        - descriptor has an empty name.
//	ErrNoBottoms        - a non-source descriptor declares no bottoms.
//	ErrSourceHasBottoms - a source descriptor declares bottoms.
//	ErrNoTops           - a non-sink descriptor declares no tops.
//	ErrSinkHasTops      - a sink descriptor declares tops.
//	ErrInPlaceAlias     - an in-place descriptor's tops do not alias its bottoms.
//	ErrDuplicateName    - a blob name repeats within Bottoms or within Tops.
//
// Complexity: Validate is O(B + T) in the number of bottom and top names.
package layers
