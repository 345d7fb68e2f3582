// Package layergraph assembles independently-authored computation layers
// into an executable, dependency-ordered graph and drives forward and
// backward passes over it.
//
// 🚀 What is layergraph?
//
//	A small, deterministic graph assembler and scheduler that brings together:
//		• Layer descriptors: named bottoms/tops plus a fixed capability set
//		• Topological scheduling: stable Kahn ordering with in-place priority
//		• Blob binding: symbol-keyed output and gradient tables, resolved once
//		• Execution: synchronous forward/backward sweeps over the fixed order
//		• Validation: every differentiable path must reach a loss before
//		  anything runs
//
// ✨ Why choose layergraph?
//
//   - Fail-fast guarantees – duplicate outputs, missing inputs, gradient
//     fan-in conflicts, cycles, and dangling gradients are all rejected at
//     construction; no partially-usable net ever escapes
//   - Deterministic – the schedule is a pure, stable function of the input
//     descriptor order
//   - Backend-agnostic – numeric kernels, memory, activations, regularizers,
//     initializers, and statistics live behind narrow capability contracts
//
// Everything is organized under five subpackages:
//
//	layers/  — Descriptor and Capability: the immutable layer declarations
//	blob/    — Blob handles, the optional gradient channel, binding tables
//	topo/    — the topological sorter and its structural error taxonomy
//	backend/ — the capability contracts an external compute backend fulfils
//	net/     — the assembler, execution engine, and gradient-flow validator
//
// Quick ASCII example:
//
//	data ──x──▶ inner-product ──y──▶ loss
//
//	a three-layer chain: a source feeding blob x, a parameterized layer
//	transforming x into y, and a loss sink originating gradient flow.
//
// See net.New for the construction contract and the examples under net for a
// runnable end-to-end walkthrough.
package layergraph
