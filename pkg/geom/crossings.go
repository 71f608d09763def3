package geom

// Tolerance holds the thresholds of the crossing test, expressed as
// multiples of the layout's average edge length L.
//
// Two endpoints closer than Endpoint×L are treated as the same point, and an
// orientation value whose magnitude is below Colinear×L² is treated as zero.
type Tolerance struct {
	Endpoint float64
	Colinear float64
}

// DefaultTolerance is the tolerance used by [CountCrossings].
var DefaultTolerance = Tolerance{
	Endpoint: 1e-4,
	Colinear: 1e-9,
}

// scaled converts the relative tolerance to absolute epsilons for a layout
// whose average edge length is scale. A degenerate scale falls back to 1 so
// the thresholds never collapse to zero.
func (t Tolerance) scaled(scale float64) (endpointEps, colinearEps float64) {
	if scale <= 0 {
		scale = 1
	}
	return t.Endpoint * scale, t.Colinear * scale * scale
}

// CountCrossings returns the number of edge pairs whose segments cross at an
// interior point, using [DefaultTolerance].
//
// Pairs sharing an endpoint (same id or coincident coordinates) are skipped.
// The result does not depend on edge order, and is unchanged by any
// relabeling that permutes node ids and positions together.
//
// Runs in O(E²).
func CountCrossings(edges []Edge, pos []Vec2) int {
	return CountCrossingsTol(edges, pos, DefaultTolerance)
}

// CountCrossingsTol is [CountCrossings] with an explicit tolerance.
func CountCrossingsTol(edges []Edge, pos []Vec2, tol Tolerance) int {
	if len(edges) < 2 {
		return 0
	}
	endEps, colEps := tol.scaled(AverageEdgeLength(edges, pos))

	crossings := 0
	for i := 0; i < len(edges); i++ {
		for j := i + 1; j < len(edges); j++ {
			if segmentsCross(edges[i], edges[j], pos, endEps, colEps) {
				crossings++
			}
		}
	}
	return crossings
}

// EdgeCrossings returns, for every edge, how many other edges it crosses.
// The sum of the result is twice [CountCrossings].
func EdgeCrossings(edges []Edge, pos []Vec2) []int {
	out := make([]int, len(edges))
	endEps, colEps := DefaultTolerance.scaled(AverageEdgeLength(edges, pos))
	for i := 0; i < len(edges); i++ {
		for j := i + 1; j < len(edges); j++ {
			if segmentsCross(edges[i], edges[j], pos, endEps, colEps) {
				out[i]++
				out[j]++
			}
		}
	}
	return out
}

func segmentsCross(e1, e2 Edge, pos []Vec2, endEps, colEps float64) bool {
	if sharesEndpoint(e1, e2, pos, endEps) {
		return false
	}
	p1, p2 := pos[e1.A], pos[e1.B]
	p3, p4 := pos[e2.A], pos[e2.B]

	d1 := orient(p3, p4, p1)
	d2 := orient(p3, p4, p2)
	d3 := orient(p1, p2, p3)
	d4 := orient(p1, p2, p4)
	if nearZero(d1, colEps) || nearZero(d2, colEps) || nearZero(d3, colEps) || nearZero(d4, colEps) {
		return false
	}
	return (d1 > 0) != (d2 > 0) && (d3 > 0) != (d4 > 0)
}

func sharesEndpoint(e1, e2 Edge, pos []Vec2, eps float64) bool {
	if e1.A == e2.A || e1.A == e2.B || e1.B == e2.A || e1.B == e2.B {
		return true
	}
	a1, b1 := pos[e1.A], pos[e1.B]
	a2, b2 := pos[e2.A], pos[e2.B]
	return a1.Near(a2, eps) || a1.Near(b2, eps) || b1.Near(a2, eps) || b1.Near(b2, eps)
}

// orient is the z component of (b-a)×(c-a).
func orient(a, b, c Vec2) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

func nearZero(v, eps float64) bool {
	return v < eps && v > -eps
}
