package geom

import (
	"math"
	"slices"
)

// PointSegmentDistance returns the distance from p to the closed segment ab.
func PointSegmentDistance(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < 1e-18 {
		return p.Dist(a)
	}
	t := max(0, min(1, p.Sub(a).Dot(ab)/l2))
	return p.Dist(a.Add(ab.Scale(t)))
}

// MinEdgeNodeClearance returns the smallest distance between any edge and any
// of the first n nodes that is not one of its endpoints, or [FarDistance] when
// no such pair exists.
func MinEdgeNodeClearance(edges []Edge, pos []Vec2, n int) float64 {
	n = min(n, len(pos))
	best := FarDistance
	for _, e := range edges {
		for v := 0; v < n; v++ {
			if v == e.A || v == e.B {
				continue
			}
			best = min(best, PointSegmentDistance(pos[v], pos[e.A], pos[e.B]))
		}
	}
	return best
}

// ClearanceViolations counts (edge, non-endpoint node) pairs closer than minClear.
func ClearanceViolations(edges []Edge, pos []Vec2, n int, minClear float64) int {
	n = min(n, len(pos))
	count := 0
	for _, e := range edges {
		for v := 0; v < n; v++ {
			if v == e.A || v == e.B {
				continue
			}
			if PointSegmentDistance(pos[v], pos[e.A], pos[e.B]) < minClear {
				count++
			}
		}
	}
	return count
}

// incidentAngles returns the sorted directions (radians, [-π, π]) of the
// edges leaving node v.
func incidentAngles(v int, edges []Edge, pos []Vec2) []float64 {
	var angles []float64
	for _, e := range edges {
		switch v {
		case e.A:
			angles = append(angles, pos[e.B].Sub(pos[e.A]).Angle())
		case e.B:
			angles = append(angles, pos[e.A].Sub(pos[e.B]).Angle())
		}
	}
	slices.Sort(angles)
	return angles
}

// MinIncidentAngle returns the smallest angular separation (radians) between
// two edges incident to node v, or 2π when v has fewer than two edges.
func MinIncidentAngle(v int, edges []Edge, pos []Vec2) float64 {
	angles := incidentAngles(v, edges, pos)
	if len(angles) < 2 {
		return 2 * math.Pi
	}
	best := angles[0] + 2*math.Pi - angles[len(angles)-1]
	for i := 1; i < len(angles); i++ {
		best = min(best, angles[i]-angles[i-1])
	}
	return best
}

// MinIncidentAngleAll returns the minimum of [MinIncidentAngle] over the first
// n nodes.
func MinIncidentAngleAll(edges []Edge, pos []Vec2, n int) float64 {
	best := 2 * math.Pi
	for v := 0; v < min(n, len(pos)); v++ {
		best = min(best, MinIncidentAngle(v, edges, pos))
	}
	return best
}

// AngularCrowding counts, over branch nodes (degree ≥ 3), the pairs of
// angularly adjacent incident edges separated by less than minSep radians.
func AngularCrowding(edges []Edge, pos []Vec2, n int, minSep float64) int {
	count := 0
	for v := 0; v < min(n, len(pos)); v++ {
		angles := incidentAngles(v, edges, pos)
		if len(angles) < 3 {
			continue
		}
		for i := range angles {
			next := angles[(i+1)%len(angles)]
			gap := next - angles[i]
			if i == len(angles)-1 {
				gap += 2 * math.Pi
			}
			if gap < minSep {
				count++
			}
		}
	}
	return count
}
