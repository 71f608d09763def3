// Package templates is the catalogue of candidate node geometries used by the
// generators' layout loops.
//
// A [Template] is an ordered list of slot positions in an abstract frame where
// a typical edge is about one unit long. Templates know nothing about edges:
// callers permute which node lands in which slot, jitter the result and ask
// [geom.Accept] whether the drawing is usable.
//
// Every family has a minimum node count below which it is not offered. When a
// family produces fewer slots than requested, a small filler ring around the
// origin tops up the remainder so no two slots collapse onto one point.
package templates

import (
	"math"
	"strings"

	"github.com/matzehuels/circuitgen/pkg/geom"
)

// Family names a template shape.
type Family string

const (
	Ring           Family = "ring"
	Star           Family = "star"
	DoubleStar     Family = "double_star"
	DoubleRing     Family = "double_ring"
	Concentric     Family = "concentric"
	PentagonSpiral Family = "pentagon_spiral"
	Layered        Family = "layered"
	SparseGrid     Family = "sparse_grid"
	TwoCluster     Family = "two_cluster"
	Ladder         Family = "ladder"
	Strip          Family = "strip"
	Knight         Family = "knight_board"
)

// Template is one candidate geometry with exactly as many slots as requested
// nodes.
type Template struct {
	Name   string
	Family Family
	Slots  []geom.Vec2
}

// Spec describes a family in the catalogue.
type Spec struct {
	Family Family
	MinN   int
	build  func(n int) []geom.Vec2
}

// catalogue is ordered; ForNodeCount preserves this order so random selection
// by index is reproducible.
var catalogue = []Spec{
	{Ring, 3, ringSlots},
	{Star, 5, starSlots},
	{DoubleStar, 8, doubleStarSlots},
	{DoubleRing, 8, doubleRingSlots},
	{Concentric, 10, concentricSlots},
	{PentagonSpiral, 10, pentagonSpiralSlots},
	{Layered, 6, layeredSlots},
	{SparseGrid, 6, sparseGridSlots},
	{TwoCluster, 8, twoClusterSlots},
	{Ladder, 6, ladderSlots},
	{Strip, 4, stripSlots},
}

const (
	// unitSpacing is the arc length between neighbouring ring slots.
	unitSpacing = 1.1
	// fillerScale sizes the filler ring relative to the outer radius.
	fillerScale = 0.35
	// doubleRingOuterShare is the fraction of slots on the outer band.
	doubleRingOuterShare = 0.62
	// innerRadiusScale is the inner band's radius relative to the outer.
	innerRadiusScale = 0.55
)

// Catalogue returns the family specs in selection order.
func Catalogue() []Spec {
	out := make([]Spec, len(catalogue))
	copy(out, catalogue)
	return out
}

// Radius returns the outer ring radius used for n nodes.
func Radius(n int) float64 {
	return math.Max(1, float64(n)*unitSpacing/(2*math.Pi))
}

// ForNodeCount returns every template offered for n nodes, in catalogue order.
// The knight board is never included; use [KnightBoard].
func ForNodeCount(n int) []Template {
	var out []Template
	for _, s := range catalogue {
		if n < s.MinN {
			continue
		}
		out = append(out, Template{
			Name:   string(s.Family),
			Family: s.Family,
			Slots:  fit(s.build(n), n),
		})
	}
	return out
}

// ByName returns the named template for n nodes.
func ByName(name string, n int) (Template, bool) {
	if name == string(Knight) && n == 16 {
		return KnightBoard(), true
	}
	for _, t := range ForNodeCount(n) {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}

// RingLike reports whether a layout built from the named template is a
// circular arrangement. Names may carry a graph prefix ("prism8/ring").
func RingLike(name string) bool {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	switch Family(name) {
	case Ring, DoubleRing, Concentric:
		return true
	}
	return name == "fallback_ring"
}

// Open reports whether a family's slot order is a path rather than a cycle.
// Walking an open template from its first slot keeps consecutive nodes
// adjacent; starting anywhere else joins the two ends with a long edge.
func Open(f Family) bool {
	return f == Strip
}

// KnightBoard returns the exact 4×4 board reserved for the 16-node knight
// graph. Slot r*4+c is row r, column c, with unit spacing.
func KnightBoard() Template {
	slots := make([]geom.Vec2, 16)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			slots[r*4+c] = geom.Vec2{X: float64(c) - 1.5, Y: float64(r) - 1.5}
		}
	}
	return Template{Name: string(Knight), Family: Knight, Slots: slots}
}

// fit tops up slots with a filler ring or truncates them so len == n.
func fit(slots []geom.Vec2, n int) []geom.Vec2 {
	if len(slots) >= n {
		return slots[:n]
	}
	missing := n - len(slots)
	r := fillerScale * Radius(n)
	for k := 0; k < missing; k++ {
		theta := 2*math.Pi*float64(k)/float64(missing) + math.Pi/float64(missing)
		slots = append(slots, geom.Polar(r, theta))
	}
	return slots
}

// polygon places k slots on a circle of radius r, starting at the top and
// rotated by phase.
func polygon(k int, r, phase float64) []geom.Vec2 {
	out := make([]geom.Vec2, k)
	for i := range out {
		out[i] = geom.Polar(r, phase-math.Pi/2+2*math.Pi*float64(i)/float64(k))
	}
	return out
}

func ringSlots(n int) []geom.Vec2 {
	return polygon(n, Radius(n), 0)
}

func starSlots(n int) []geom.Vec2 {
	return append([]geom.Vec2{{}}, polygon(n-1, Radius(n-1), 0)...)
}

func doubleStarSlots(n int) []geom.Vec2 {
	rest := n - 1
	inner := max(3, rest/3)
	outer := rest - inner
	r := Radius(n)
	out := []geom.Vec2{{}}
	out = append(out, polygon(inner, 0.5*r, math.Pi/float64(inner))...)
	return append(out, polygon(outer, r, 0)...)
}

func doubleRingSlots(n int) []geom.Vec2 {
	outer := int(math.Round(doubleRingOuterShare * float64(n)))
	inner := n - outer
	r := Radius(n)
	out := polygon(outer, r, 0)
	return append(out, polygon(inner, innerRadiusScale*r, math.Pi/float64(inner))...)
}

func concentricSlots(n int) []geom.Vec2 {
	a := int(math.Round(0.45 * float64(n)))
	b := int(math.Round(0.33 * float64(n)))
	c := n - a - b
	r := Radius(n)
	out := polygon(a, r, 0)
	out = append(out, polygon(b, 0.66*r, math.Pi/float64(b))...)
	if c > 0 {
		out = append(out, polygon(c, 0.33*r, 0)...)
	}
	return out
}

// pentagonSpiralSlots nests pentagons from the outside in, each rotated a
// further fifth of a turn so spokes spiral.
func pentagonSpiralSlots(n int) []geom.Vec2 {
	rings := (n + 4) / 5
	r := Radius(n)
	var out []geom.Vec2
	left := n
	for k := 0; k < rings && left > 0; k++ {
		size := min(5, left)
		radius := r * float64(rings-k) / float64(rings)
		out = append(out, polygon(size, radius, float64(k)*math.Pi/5)...)
		left -= size
	}
	return out
}

// rowSlots lays counts[i] slots on row i, rows centred on the origin.
func rowSlots(counts []int, rowGap float64, stagger bool) []geom.Vec2 {
	var out []geom.Vec2
	top := -rowGap * float64(len(counts)-1) / 2
	for i, k := range counts {
		shift := 0.0
		if stagger && i%2 == 1 {
			shift = 0.5
		}
		left := -float64(k-1)/2 + shift
		for j := 0; j < k; j++ {
			out = append(out, geom.Vec2{X: left + float64(j), Y: top + rowGap*float64(i)})
		}
	}
	return out
}

// split divides n into parts near-equal counts, larger counts first.
func split(n, parts int) []int {
	out := make([]int, parts)
	for i := range out {
		out[i] = n / parts
		if i < n%parts {
			out[i]++
		}
	}
	return out
}

func layeredSlots(n int) []geom.Vec2 {
	rows := 3
	if n <= 10 {
		rows = 2
	}
	return rowSlots(split(n, rows), 1.2, true)
}

func ladderSlots(n int) []geom.Vec2 {
	return rowSlots(split(n, 2), 1.2, false)
}

// stripSlots zigzags between two rows so that slots i, i+1 and i+2 form a
// unit equilateral triangle. A path through the slots in order, plus any
// chords between slots two apart, draws without crossings.
func stripSlots(n int) []geom.Vec2 {
	h := math.Sqrt(3) / 2
	out := make([]geom.Vec2, n)
	for i := range out {
		out[i] = geom.Vec2{
			X: 0.5*float64(i) - 0.25*float64(n-1),
			Y: h*float64(i%2) - h/2,
		}
	}
	return out
}

// sparseGridSlots fills a grid one column wider than square, leaving evenly
// spread holes.
func sparseGridSlots(n int) []geom.Vec2 {
	rows := int(math.Ceil(math.Sqrt(float64(n))))
	cols := rows + 1
	cells := rows * cols
	holes := cells - n
	skip := make(map[int]bool, holes)
	for k := 0; k < holes; k++ {
		skip[int((float64(k)+0.5)*float64(cells)/float64(holes))] = true
	}
	const pitch = 1.3
	out := make([]geom.Vec2, 0, n)
	for i := 0; i < cells && len(out) < n; i++ {
		if skip[i] {
			continue
		}
		r, c := i/cols, i%cols
		out = append(out, geom.Vec2{
			X: pitch * (float64(c) - float64(cols-1)/2),
			Y: pitch * (float64(r) - float64(rows-1)/2),
		})
	}
	return out
}

func twoClusterSlots(n int) []geom.Vec2 {
	left := (n + 1) / 2
	right := n - left
	r := math.Max(0.8, float64(left)*unitSpacing/(2*math.Pi))
	dx := 1.6*r + 0.6
	var out []geom.Vec2
	for _, p := range polygon(left, r, 0) {
		out = append(out, p.Add(geom.Vec2{X: -dx}))
	}
	for _, p := range polygon(right, r, math.Pi/float64(right)) {
		out = append(out, p.Add(geom.Vec2{X: dx}))
	}
	return out
}
