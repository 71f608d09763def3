package gridlayout

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/matzehuels/circuitgen/pkg/errors"
	"github.com/matzehuels/circuitgen/pkg/geom"
)

// Weights scale each term of the cost.
type Weights struct {
	Crossings float64 `toml:"crossings" json:"crossings"`
	LongEdges float64 `toml:"long_edges" json:"long_edges"`
	Clearance float64 `toml:"clearance" json:"clearance"`
	Angle     float64 `toml:"angle" json:"angle"`
}

// Options configures [Place].
type Options struct {
	MinSize  int    `toml:"min_size" json:"min_size"`
	MaxSize  int    `toml:"max_size" json:"max_size"`
	Staggers []bool `toml:"staggers" json:"staggers"`
	// Padding enlarges the bounding box by this fraction of its larger side.
	Padding     float64       `toml:"padding" json:"padding"`
	MaxAttempts int           `toml:"max_attempts" json:"max_attempts"`
	TimeBudget  time.Duration `toml:"time_budget" json:"time_budget"`
	// LongEdgeFactor marks edges longer than this multiple of the average.
	LongEdgeFactor float64 `toml:"long_edge_factor" json:"long_edge_factor"`
	// ClearanceFrac is the minimum node-to-edge clearance as a fraction of
	// the cell pitch.
	ClearanceFrac float64 `toml:"clearance_frac" json:"clearance_frac"`
	// MinAngle is the smallest comfortable angle between edges at a branch
	// node, in degrees.
	MinAngle float64 `toml:"min_angle" json:"min_angle"`
	Weights  Weights `toml:"weights" json:"weights"`
	// RingLike selects the angular-band initial assignment.
	RingLike bool `toml:"-" json:"ring_like"`
	// Clock replaces time.Now; tests use it to control the time budget.
	Clock func() time.Time `toml:"-" json:"-"`
}

// DefaultOptions returns the built-in search budget.
func DefaultOptions() Options {
	return Options{
		MinSize:        6,
		MaxSize:        10,
		Staggers:       []bool{false, true},
		Padding:        0.10,
		MaxAttempts:    2500,
		TimeBudget:     250 * time.Millisecond,
		LongEdgeFactor: 1.6,
		ClearanceFrac:  0.25,
		MinAngle:       20,
		Weights:        Weights{Crossings: 10, LongEdges: 6, Clearance: 3, Angle: 1},
	}
}

// Validate rejects budgets that would leave the search unbounded.
func (o Options) Validate() error {
	switch {
	case o.MinSize < 2 || o.MaxSize < o.MinSize:
		return errors.New(errors.ErrCodeInvalidConfig, "grid sizes [%d,%d] are invalid", o.MinSize, o.MaxSize)
	case o.MaxAttempts < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "max attempts cannot be negative")
	case o.TimeBudget <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "time budget must be positive")
	case len(o.Staggers) == 0:
		return errors.New(errors.ErrCodeInvalidConfig, "at least one stagger choice is required")
	}
	return nil
}

// Cost is the weighted badness of a layout.
type Cost struct {
	Crossings           int     `json:"crossings"`
	LongEdgeShare       float64 `json:"long_edge_share"`
	ClearanceViolations int     `json:"clearance_violations"`
	AngleCrowding       int     `json:"angle_crowding"`
	Total               float64 `json:"total"`
}

// Result is the winning grid layout.
type Result struct {
	Positions []geom.Vec2 `json:"positions"`
	Cols      int         `json:"cols"`
	Rows      int         `json:"rows"`
	Staggered bool        `json:"staggered"`
	// Original is the input layout's cost measured with the winning grid's
	// pitch; Before and After bracket the local search.
	Original Cost `json:"original"`
	Before   Cost `json:"before"`
	After    Cost `json:"after"`
	Attempts int  `json:"attempts"`
}

// Improved reports whether the search lowered the cost of its starting
// assignment.
func (r Result) Improved() bool { return r.After.Total < r.Before.Total }

// grid is one candidate lattice.
type grid struct {
	cells     []geom.Vec2
	k         int
	staggered bool
	pitch     float64
}

func newGrid(lo, hi geom.Vec2, k int, staggered bool) grid {
	w, h := hi.X-lo.X, hi.Y-lo.Y
	px, py := w/float64(k-1), h/float64(k-1)
	g := grid{k: k, staggered: staggered, pitch: math.Min(px, py)}
	for row := 0; row < k; row++ {
		shift := 0.0
		if staggered && row%2 == 1 {
			shift = px / 2
		}
		for col := 0; col < k; col++ {
			g.cells = append(g.cells, geom.Vec2{X: lo.X + float64(col)*px + shift, Y: lo.Y + float64(row)*py})
		}
	}
	return g
}

// Place snaps initial onto the best grid found. It fails only on invalid
// input or when no configured grid has enough cells.
func Place(edges []geom.Edge, initial []geom.Vec2, r *rand.Rand, opts *Options) (Result, error) {
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if err := o.Validate(); err != nil {
		return Result{}, err
	}
	n := len(initial)
	if n == 0 {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "nothing to place")
	}
	for _, e := range edges {
		if e.A < 0 || e.A >= n || e.B < 0 || e.B >= n {
			return Result{}, errors.New(errors.ErrCodeInvalidInput, "edge %d–%d outside %d nodes", e.A, e.B, n)
		}
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}

	lo, hi := paddedBounds(initial, o.Padding)
	var best *Result
	for k := o.MinSize; k <= o.MaxSize; k++ {
		if k*k < n {
			continue
		}
		for _, st := range o.Staggers {
			g := newGrid(lo, hi, k, st)
			res := search(edges, initial, g, r, o)
			if best == nil || res.After.Total < best.After.Total {
				best = &res
			}
		}
	}
	if best == nil {
		return Result{}, errors.New(errors.ErrCodeInvalidConfig, "no grid up to %d×%d fits %d nodes", o.MaxSize, o.MaxSize, n)
	}
	return *best, nil
}

// paddedBounds returns the bounding box grown by pad of its larger side. A
// degenerate box is widened to unit size first.
func paddedBounds(pos []geom.Vec2, pad float64) (geom.Vec2, geom.Vec2) {
	lo, hi := geom.Bounds(pos)
	side := math.Max(hi.X-lo.X, hi.Y-lo.Y)
	if side < 1e-9 {
		side = 1
	}
	if hi.X-lo.X < 1e-9 {
		lo.X, hi.X = lo.X-side/2, hi.X+side/2
	}
	if hi.Y-lo.Y < 1e-9 {
		lo.Y, hi.Y = lo.Y-side/2, hi.Y+side/2
	}
	d := geom.Vec2{X: pad * side, Y: pad * side}
	return lo.Sub(d), hi.Add(d)
}

func search(edges []geom.Edge, initial []geom.Vec2, g grid, r *rand.Rand, o Options) Result {
	n := len(initial)
	var assign []int
	if o.RingLike {
		assign = angularAssign(initial, g.cells)
	} else {
		assign = greedyAssign(initial, g.cells)
	}
	owner := make([]int, len(g.cells))
	for i := range owner {
		owner[i] = -1
	}
	pos := make([]geom.Vec2, n)
	for v, c := range assign {
		owner[c] = v
		pos[v] = g.cells[c]
	}

	before := cost(edges, pos, g.pitch, o)
	cur := before
	deadline := o.Clock().Add(o.TimeBudget)
	attempts := 0
	for attempts < o.MaxAttempts && o.Clock().Before(deadline) {
		attempts++
		v := r.IntN(n)
		c := r.IntN(len(g.cells))
		from := assign[v]
		if c == from {
			continue
		}
		u := owner[c]
		move(assign, owner, pos, g.cells, v, c)
		if u >= 0 {
			move(assign, owner, pos, g.cells, u, from)
		} else {
			owner[from] = -1
		}

		next := cost(edges, pos, g.pitch, o)
		if next.Total < cur.Total {
			cur = next
			continue
		}
		// revert
		move(assign, owner, pos, g.cells, v, from)
		if u >= 0 {
			move(assign, owner, pos, g.cells, u, c)
		} else {
			owner[c] = -1
		}
	}

	return Result{
		Positions: pos,
		Cols:      g.k,
		Rows:      g.k,
		Staggered: g.staggered,
		Original:  cost(edges, initial, g.pitch, o),
		Before:    before,
		After:     cur,
		Attempts:  attempts,
	}
}

func move(assign, owner []int, pos, cells []geom.Vec2, v, c int) {
	assign[v] = c
	owner[c] = v
	pos[v] = cells[c]
}

func cost(edges []geom.Edge, pos []geom.Vec2, pitch float64, o Options) Cost {
	n := len(pos)
	c := Cost{
		Crossings:           geom.CountCrossings(edges, pos),
		ClearanceViolations: geom.ClearanceViolations(edges, pos, n, o.ClearanceFrac*pitch),
		AngleCrowding:       geom.AngularCrowding(edges, pos, n, o.MinAngle*math.Pi/180),
	}
	if avg := geom.AverageEdgeLength(edges, pos); avg > 0 {
		long := 0
		for _, e := range edges {
			if pos[e.A].Dist(pos[e.B]) > o.LongEdgeFactor*avg {
				long++
			}
		}
		c.LongEdgeShare = float64(long) / float64(len(edges))
	}
	w := o.Weights
	c.Total = w.Crossings*float64(c.Crossings) + w.LongEdges*c.LongEdgeShare +
		w.Clearance*float64(c.ClearanceViolations) + w.Angle*float64(c.AngleCrowding)
	return c
}

// greedyAssign matches nodes to cells by ascending distance.
func greedyAssign(pos, cells []geom.Vec2) []int {
	type pair struct {
		v, c int
		d    float64
	}
	pairs := make([]pair, 0, len(pos)*len(cells))
	for v, p := range pos {
		for c, q := range cells {
			pairs = append(pairs, pair{v, c, p.Dist(q)})
		}
	}
	slices.SortStableFunc(pairs, func(a, b pair) int { return cmp.Compare(a.d, b.d) })
	assign := make([]int, len(pos))
	for i := range assign {
		assign[i] = -1
	}
	used := make([]bool, len(cells))
	left := len(pos)
	for _, p := range pairs {
		if left == 0 {
			break
		}
		if assign[p.v] >= 0 || used[p.c] {
			continue
		}
		assign[p.v] = p.c
		used[p.c] = true
		left--
	}
	return assign
}

// angularAssign keeps the circular order of a ring-like layout: it takes the
// n cells closest to the ring's mean radius and maps nodes onto them in angle
// order, choosing the rotation with the least total displacement.
func angularAssign(pos, cells []geom.Vec2) []int {
	n := len(pos)
	center := geom.Centroid(pos)
	radius := 0.0
	for _, p := range pos {
		radius += p.Dist(center)
	}
	radius /= float64(n)

	band := make([]int, len(cells))
	for i := range band {
		band[i] = i
	}
	slices.SortStableFunc(band, func(a, b int) int {
		return cmp.Compare(math.Abs(cells[a].Dist(center)-radius), math.Abs(cells[b].Dist(center)-radius))
	})
	band = band[:n]

	angle := func(p geom.Vec2) float64 { return p.Sub(center).Angle() }
	slices.SortStableFunc(band, func(a, b int) int { return cmp.Compare(angle(cells[a]), angle(cells[b])) })
	nodes := make([]int, n)
	for i := range nodes {
		nodes[i] = i
	}
	slices.SortStableFunc(nodes, func(a, b int) int { return cmp.Compare(angle(pos[a]), angle(pos[b])) })

	bestRot, bestCost := 0, math.Inf(1)
	for rot := 0; rot < n; rot++ {
		total := 0.0
		for i, v := range nodes {
			total += pos[v].Dist(cells[band[(i+rot)%n]])
		}
		if total < bestCost {
			bestRot, bestCost = rot, total
		}
	}
	assign := make([]int, n)
	for i, v := range nodes {
		assign[v] = band[(i+bestRot)%n]
	}
	return assign
}
