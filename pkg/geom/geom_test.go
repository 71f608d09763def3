package geom

import (
	"math"
	"math/rand/v2"
	"testing"
)

func square() []Vec2 {
	return []Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
}

func TestCountCrossings(t *testing.T) {
	tests := []struct {
		name  string
		pos   []Vec2
		edges []Edge
		want  int
	}{
		{"diagonals cross", square(), []Edge{{0, 2}, {1, 3}}, 1},
		{"cycle has none", square(), []Edge{{0, 1}, {1, 2}, {2, 3}, {3, 0}}, 0},
		{"shared endpoint", square(), []Edge{{0, 2}, {0, 1}}, 0},
		{"cycle plus diagonals", square(), []Edge{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {0, 2}, {1, 3}}, 1},
		{
			"colinear overlap is not a crossing",
			[]Vec2{{0, 0}, {2, 0}, {1, 0}, {3, 0}},
			[]Edge{{0, 1}, {2, 3}},
			0,
		},
		{
			"coincident endpoints by coordinate",
			[]Vec2{{0, 0}, {1, 1}, {0, 0}, {1, -1}},
			[]Edge{{0, 1}, {2, 3}},
			0,
		},
		{"single edge", square(), []Edge{{0, 2}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountCrossings(tt.edges, tt.pos); got != tt.want {
				t.Errorf("CountCrossings() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountCrossingsSymmetry(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	const n = 12
	pos := make([]Vec2, n)
	for i := range pos {
		pos[i] = Vec2{rng.Float64() * 10, rng.Float64() * 10}
	}
	var edges []Edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.IntN(4) == 0 {
				edges = append(edges, Edge{i, j})
			}
		}
	}
	base := CountCrossings(edges, pos)

	shuffled := append([]Edge(nil), edges...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	if got := CountCrossings(shuffled, pos); got != base {
		t.Errorf("reordered edges: got %d crossings, want %d", got, base)
	}

	perm := rng.Perm(n)
	relPos := make([]Vec2, n)
	for old, nu := range perm {
		relPos[nu] = pos[old]
	}
	relEdges := make([]Edge, len(edges))
	for i, e := range edges {
		relEdges[i] = Edge{perm[e.A], perm[e.B]}
	}
	if got := CountCrossings(relEdges, relPos); got != base {
		t.Errorf("relabeled: got %d crossings, want %d", got, base)
	}
}

func TestCrossingToleranceIsScaleAware(t *testing.T) {
	pos := square()
	edges := []Edge{{0, 2}, {1, 3}}
	scaled := make([]Vec2, len(pos))
	for i, p := range pos {
		scaled[i] = p.Scale(1000)
	}
	if CountCrossings(edges, pos) != CountCrossings(edges, scaled) {
		t.Error("crossing count should not depend on coordinate scale")
	}
}

func TestEdgeCrossings(t *testing.T) {
	edges := []Edge{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {0, 2}, {1, 3}}
	per := EdgeCrossings(edges, square())
	sum := 0
	for _, c := range per {
		sum += c
	}
	if sum != 2*CountCrossings(edges, square()) {
		t.Errorf("sum of per-edge crossings = %d, want %d", sum, 2*CountCrossings(edges, square()))
	}
}

func TestMinNodeDistance(t *testing.T) {
	if got := MinNodeDistance([]Vec2{{0, 0}}, 1); got != FarDistance {
		t.Errorf("single node: got %v, want sentinel", got)
	}
	if got := MinNodeDistance(square(), 4); math.Abs(got-1) > 1e-12 {
		t.Errorf("square: got %v, want 1", got)
	}
	// Only the first n positions count.
	pos := append(square(), Vec2{0.01, 0})
	if got := MinNodeDistance(pos, 4); math.Abs(got-1) > 1e-12 {
		t.Errorf("prefix: got %v, want 1", got)
	}
}

func TestEdgeLengthCV(t *testing.T) {
	pos := []Vec2{{0, 0}, {1, 0}, {3, 0}}
	if got := EdgeLengthCV([]Edge{{0, 1}}, pos); got != 0 {
		t.Errorf("one edge: got %v, want 0", got)
	}
	if got := EdgeLengthCV(nil, pos); got != 0 {
		t.Errorf("no edges: got %v, want 0", got)
	}
	// lengths 1 and 2: mean 1.5, sample sd sqrt(0.5)
	want := math.Sqrt(0.5) / 1.5
	if got := EdgeLengthCV([]Edge{{0, 1}, {1, 2}}, pos); math.Abs(got-want) > 1e-12 {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := EdgeLengthCV([]Edge{{0, 0}, {1, 1}}, pos); got != 0 {
		t.Errorf("zero-length edges: got %v, want 0", got)
	}
}

func TestAccept(t *testing.T) {
	cycle := []Edge{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
	if !Accept(cycle, square(), 4, DefaultCriteria) {
		t.Error("unit square cycle should be accepted")
	}

	withDiagonals := append(append([]Edge(nil), cycle...), Edge{0, 2}, Edge{1, 3})
	if Accept(withDiagonals, square(), 4, DefaultCriteria) {
		t.Error("one crossing must be rejected with a zero crossing budget")
	}
	relaxed := DefaultCriteria
	relaxed.MaxCrossings = 2
	relaxed.MaxEdgeLengthCV = 1
	if !Accept(withDiagonals, square(), 4, relaxed) {
		t.Error("one crossing should pass a budget of two")
	}

	cramped := []Vec2{{0, 0}, {1, 0}, {1, 1}, {0.95, 1}}
	if Accept(cycle, cramped, 4, DefaultCriteria) {
		t.Error("cramped nodes must be rejected")
	}
}

func TestScoreRanksCrossingsFirst(t *testing.T) {
	cycle := []Edge{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
	crossed := []Vec2{{0, 0}, {1, 1}, {1, 0}, {0, 1}}
	if Score(cycle, square(), 4) <= Score(cycle, crossed, 4) {
		t.Error("crossing-free layout should score higher")
	}
}

func TestPointSegmentDistance(t *testing.T) {
	a, b := Vec2{0, 0}, Vec2{2, 0}
	tests := []struct {
		p    Vec2
		want float64
	}{
		{Vec2{1, 1}, 1},
		{Vec2{-1, 0}, 1},
		{Vec2{3, 1}, math.Sqrt2},
		{Vec2{1, 0}, 0},
	}
	for _, tt := range tests {
		if got := PointSegmentDistance(tt.p, a, b); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("PointSegmentDistance(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if got := PointSegmentDistance(Vec2{3, 4}, a, a); math.Abs(got-5) > 1e-12 {
		t.Errorf("degenerate segment: got %v, want 5", got)
	}
}

func TestClearance(t *testing.T) {
	pos := []Vec2{{0, 0}, {2, 0}, {1, 0.1}}
	edges := []Edge{{0, 1}}
	if got := MinEdgeNodeClearance(edges, pos, 3); math.Abs(got-0.1) > 1e-12 {
		t.Errorf("clearance = %v, want 0.1", got)
	}
	if got := ClearanceViolations(edges, pos, 3, 0.2); got != 1 {
		t.Errorf("violations = %d, want 1", got)
	}
	if got := ClearanceViolations(edges, pos, 3, 0.05); got != 0 {
		t.Errorf("violations = %d, want 0", got)
	}
}

func TestIncidentAngles(t *testing.T) {
	pos := []Vec2{{0, 0}, {1, 0}, {0, 1}, {-1, 0}, {1, 0.05}}
	star := []Edge{{0, 1}, {0, 2}, {0, 3}}
	if got := MinIncidentAngle(0, star, pos); math.Abs(got-math.Pi/2) > 1e-12 {
		t.Errorf("MinIncidentAngle = %v, want π/2", got)
	}
	if got := MinIncidentAngle(1, star, pos); got != 2*math.Pi {
		t.Errorf("leaf: got %v, want 2π", got)
	}
	crowded := append(star, Edge{0, 4})
	if got := AngularCrowding(crowded, pos, 5, 10*math.Pi/180); got != 1 {
		t.Errorf("AngularCrowding = %d, want 1", got)
	}
	if got := AngularCrowding(star, pos, 5, 10*math.Pi/180); got != 0 {
		t.Errorf("AngularCrowding = %d, want 0", got)
	}
}

func TestBoundsAndCentroid(t *testing.T) {
	lo, hi := Bounds(square())
	if lo != (Vec2{0, 0}) || hi != (Vec2{1, 1}) {
		t.Errorf("Bounds = %v %v", lo, hi)
	}
	if c := Centroid(square()); c != (Vec2{0.5, 0.5}) {
		t.Errorf("Centroid = %v", c)
	}
}
