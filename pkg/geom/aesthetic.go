package geom

import "math"

// FarDistance is returned by [MinNodeDistance] when fewer than two nodes exist.
const FarDistance = 1e9

// Criteria are the thresholds of [Accept].
type Criteria struct {
	// MaxCrossings is the largest tolerated number of interior edge crossings.
	MaxCrossings int
	// MinDistanceScale multiplies the average edge length to obtain the
	// required minimum node spacing.
	MinDistanceScale float64
	// MaxEdgeLengthCV bounds the coefficient of variation of edge lengths.
	MaxEdgeLengthCV float64
	// DistanceFloor is the absolute minimum node spacing, applied even when
	// edges are very short.
	DistanceFloor float64
}

// DefaultCriteria is the strict acceptance profile. Generators relax
// MinDistanceScale and allow a small crossing budget on top of it.
var DefaultCriteria = Criteria{
	MaxCrossings:     0,
	MinDistanceScale: 0.35,
	MaxEdgeLengthCV:  0.60,
	DistanceFloor:    0.35,
}

// Score weights.
const (
	crossingPenalty = 5.0
	distanceReward  = 2.0
	cvPenalty       = 3.0
)

// MinNodeDistance returns the smallest Euclidean distance between any two of
// the first n positions, or [FarDistance] when n < 2.
func MinNodeDistance(pos []Vec2, n int) float64 {
	n = min(n, len(pos))
	if n < 2 {
		return FarDistance
	}
	best := math.Inf(1)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if d := pos[i].Dist(pos[j]); d < best {
				best = d
			}
		}
	}
	return best
}

// AverageEdgeLength returns the mean edge length, or 0 when there are no edges.
func AverageEdgeLength(edges []Edge, pos []Vec2) float64 {
	if len(edges) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range edges {
		sum += pos[e.A].Dist(pos[e.B])
	}
	return sum / float64(len(edges))
}

// EdgeLengthCV returns the sample coefficient of variation of edge lengths
// (Bessel-corrected standard deviation over mean). It is 0 for fewer than two
// edges or a near-zero mean.
func EdgeLengthCV(edges []Edge, pos []Vec2) float64 {
	if len(edges) < 2 {
		return 0
	}
	mean := AverageEdgeLength(edges, pos)
	if mean < 1e-9 {
		return 0
	}
	ss := 0.0
	for _, e := range edges {
		d := pos[e.A].Dist(pos[e.B]) - mean
		ss += d * d
	}
	return math.Sqrt(ss/float64(len(edges)-1)) / mean
}

// Accept reports whether a layout satisfies c. It is the only acceptance
// predicate used by layout retry loops.
func Accept(edges []Edge, pos []Vec2, n int, c Criteria) bool {
	if CountCrossings(edges, pos) > c.MaxCrossings {
		return false
	}
	required := max(c.DistanceFloor, AverageEdgeLength(edges, pos)*c.MinDistanceScale)
	if MinNodeDistance(pos, n) < required {
		return false
	}
	return EdgeLengthCV(edges, pos) <= c.MaxEdgeLengthCV
}

// Score returns a continuous fitness for ranking layouts; higher is better.
// Each crossing costs more than any realistic gain from spacing, so a layout
// with fewer crossings nearly always ranks first.
func Score(edges []Edge, pos []Vec2, n int) float64 {
	crossings := float64(CountCrossings(edges, pos))
	avg := AverageEdgeLength(edges, pos)
	margin := 0.0
	if avg > 1e-9 && n >= 2 {
		margin = min(MinNodeDistance(pos, n)/avg, 1.5)
	}
	return -crossingPenalty*crossings + distanceReward*margin - cvPenalty*EdgeLengthCV(edges, pos)
}

// Report bundles every aesthetic signal of a layout.
type Report struct {
	Crossings     int     `json:"crossings"`
	MinDistance   float64 `json:"min_distance"`
	AvgEdgeLength float64 `json:"avg_edge_length"`
	EdgeLengthCV  float64 `json:"edge_length_cv"`
	MinClearance  float64 `json:"min_clearance"`
	MinAngle      float64 `json:"min_angle"`
	Score         float64 `json:"score"`
	Accepted      bool    `json:"accepted"`
}

// Inspect computes a [Report] for a layout judged against c.
func Inspect(edges []Edge, pos []Vec2, n int, c Criteria) Report {
	return Report{
		Crossings:     CountCrossings(edges, pos),
		MinDistance:   MinNodeDistance(pos, n),
		AvgEdgeLength: AverageEdgeLength(edges, pos),
		EdgeLengthCV:  EdgeLengthCV(edges, pos),
		MinClearance:  MinEdgeNodeClearance(edges, pos, n),
		MinAngle:      MinIncidentAngleAll(edges, pos, n),
		Score:         Score(edges, pos, n),
		Accepted:      Accept(edges, pos, n, c),
	}
}
