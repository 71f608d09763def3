// Package geom provides the planar geometry and aesthetic scoring used to
// judge candidate level layouts.
//
// # Overview
//
// Every generator proposes node positions and then asks this package whether
// the drawing is acceptable. The functions here are pure: they take an edge
// list, a position slice indexed by node id, and a node count, and never
// mutate their inputs.
//
// # Acceptance
//
// [Accept] is the single yes/no gate used by all layout retry loops. A layout
// passes when it has at most [Criteria.MaxCrossings] interior edge crossings,
// its closest pair of nodes is at least max(DistanceFloor, average edge length
// × MinDistanceScale) apart, and the coefficient of variation of its edge
// lengths is at most [Criteria.MaxEdgeLengthCV].
//
// [Score] folds the same signals into one continuous number. It ranks
// alternatives and is never used to reject a layout.
//
// # Crossings
//
// [CountCrossings] tests every pair of edges with the classic four-orientation
// cross product test. Pairs that share an endpoint, either by id or by
// coincident coordinates, never count. Orientation values that are
// near zero are treated as "no crossing" so colinear overlaps and touching
// segments do not inflate the count.
//
// The endpoint and colinearity thresholds are expressed relative to the
// layout's average edge length (see [Tolerance]), which keeps the test
// meaningful whether a layout is drawn in unit space or in pixels.
//
// # Diagnostics
//
// [PointSegmentDistance], [MinEdgeNodeClearance], [ClearanceViolations],
// [MinIncidentAngle] and [AngularCrowding] support the grid placer's cost
// function and the CLI's inspect command.
package geom
