// Package gridlayout snaps a level's node positions onto a regular grid.
//
// [Place] works for any topology: it only needs an edge list and the current
// positions. For every grid size in [Options.MinSize, Options.MaxSize] and
// every stagger choice it
//
//  1. builds a k×k lattice covering the padded bounding box of the input,
//  2. assigns nodes to cells, either greedily by distance or, for ring-like
//     inputs, by angular bands that keep the nodes' circular order,
//  3. hill-climbs by moving a random node to a random cell (swapping with the
//     occupant, if any) and keeping the change only when the weighted [Cost]
//     strictly drops.
//
// The search on each candidate stops at whichever comes first of
// [Options.MaxAttempts] and [Options.TimeBudget]. The cheapest candidate
// overall wins. Because rejected changes are reverted, the returned layout is
// never worse than its own initial assignment.
//
// Wall-clock time only decides how long the search runs. With a large time
// budget the result depends on the seed alone.
package gridlayout
