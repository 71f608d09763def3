// Package level defines the puzzle level data model: nodes (bulbs and
// switches), wires with optional diode and gate restrictions, and the
// invariants every generated level must satisfy.
//
// # Model
//
// A [Level] owns an ordered slice of [Node] values whose IDs are exactly
// their slice indices (0..N-1), and a slice of [Edge] values whose IDs are
// assigned sequentially by [Level.AddEdge]. Edge IDs are stable identifiers
// distinct from node IDs.
//
// Levels are plain values. [Level.Clone] produces a deep copy, which the
// tuning loop uses to keep an untouched baseline while it experiments.
//
// # Invariants
//
// [Level.Validate] checks, in order:
//
//   - at least one node, and node IDs dense and matching their position
//   - edge endpoints in range and never equal (no self-loops)
//   - every gated edge's group is controlled by a switch node present in the level
//   - switch groups only on switch nodes
//   - the underlying undirected graph is connected
//
// The backbone invariant (a Hamiltonian path existing before restrictions are
// overlaid) is generator-specific and checked with [Level.HasBackbone] or
// [Level.HasSequentialBackbone].
//
// # Serialization
//
// [WriteJSON], [ReadJSON], [WriteYAML] and [ReadYAML] encode a level in a flat
// human-readable format; [ReadFile] and [WriteFile] choose the codec by file
// extension. Decoded levels are validated before they are returned.
package level
