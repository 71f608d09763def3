// Package gen builds complete puzzle levels: topology, switches, gates,
// diodes and an accepted 2D layout.
//
// # Generators
//
// Three strategies share the [Generator] contract:
//
//   - [BackboneFirst] lays the path 0–1–…–(N−1), adds decoy edges up to a
//     target average degree under a per-node degree cap and a hub cap, and
//     places the result with the template library. Decoys join ids at most
//     [LayoutOptions.DecoySpan] apart, which keeps every level drawable
//     without crossings on the strip template.
//   - [GridRange] arranges 16–25 nodes on a 4×4, 5×4 or 5×5 grid in
//     serpentine order and connects every pair of neighbouring cells.
//   - [TemplateBased] permutes the node ids of a small hand-authored graph
//     and attaches its curated switches, gates and diodes.
//
// Every strategy is deterministic for a fixed seed: the only randomness is a
// stream built from the seed by [rng.New].
//
// # Layout
//
// Backbone-first and template-based layouts run a bounded propose/accept
// loop: pick a template, assign node ids to slots, improve a rejected
// assignment with up to [LayoutOptions.SwapSteps] slot swaps ranked by
// [geom.Score], jitter, and test [geom.Accept] with the relaxed
// [LayoutOptions] thresholds. When the budget
// runs out the generator falls back to a jittered ring that is not
// re-validated and reports [Result.Fallback]. Generation never fails because
// of layout; errors are reserved for precondition violations such as a node
// range beyond the solver limit.
//
// # Attributes
//
// Gates only appear when the level has a switch, one to three of them. With
// two or more, their initial open/closed states are redrawn until at least
// one is open and one is closed, so visiting a switch visibly changes the
// board. Diodes that land on the backbone always point along it, which keeps
// the intended solution traversable.
package gen
