package gen

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/circuitgen/pkg/level"
	"github.com/matzehuels/circuitgen/pkg/rng"
	"github.com/matzehuels/circuitgen/pkg/templates"
)

// BackboneFirst builds the path 0–1–…–(N−1) and hides it among decoy edges.
type BackboneFirst struct{}

// Kind implements Generator.
func (BackboneFirst) Kind() Kind { return KindBackbone }

// Generate implements Generator.
func (g BackboneFirst) Generate(p Params, seed uint64) (*Result, error) {
	rp, err := p.resolve(g.Kind(), seed)
	if err != nil {
		return nil, err
	}
	r := rng.New(seed)
	prof := rp.profile

	n := rng.Between(r, rp.lo, rp.hi)
	l := level.New(rp.levelID, n)
	order := identityOrder(n)
	for i := 0; i+1 < n; i++ {
		l.AddEdge(i, i+1)
	}

	avgDegree := prof.DegreeMin + r.Float64()*(prof.DegreeMax-prof.DegreeMin)
	addDecoys(r, l, int(math.Round(avgDegree*float64(n)/2)), prof.DegreeCap, prof.HubCap, rp.layout.DecoySpan)

	switches := 0
	if n > 2 {
		interior := make([]int, n-2)
		for i := range interior {
			interior[i] = i + 1
		}
		switches = placeSwitches(r, l, interior, prof.Switches)
	}

	pl := placeWithTemplates(r, l.Pairs(), order, templates.ForNodeCount(n), rp.layout, rp.hooks)
	l.SetPositions(pl.pos)

	bi := newBackboneIndex(order)
	_, off := splitBackbone(l, bi)
	if switches > 0 && len(off) > 0 {
		hi := min(3, len(off))
		placeGates(r, l, off, rng.Between(r, 1, hi), rp.layout.GateRetries)
	}

	diodes := rng.Between(r, prof.DiodeMin, prof.DiodeMax)
	placeDiodes(r, l, shuffled(r, identityOrder(len(l.Edges))), diodes, prof.DiodeCapPerNode, bi)

	return newResult(g.Kind(), l, pl, order, rp.layout.Criteria()), nil
}

// addDecoys adds shuffled non-consecutive pairs until the level has target
// edges or the candidates run out. No node exceeds degreeCap, at most hubCap
// nodes reach it, and no pair is more than span ids apart unless span is 0.
func addDecoys(r *rand.Rand, l *level.Level, target, degreeCap, hubCap, span int) {
	n := l.N()
	if span <= 0 {
		span = n
	}
	var pairs []pair
	for a := 0; a < n; a++ {
		for b := a + 2; b < n && b-a <= span; b++ {
			pairs = append(pairs, pair{a, b})
		}
	}
	rng.Shuffle(r, pairs)

	deg := l.Degrees()
	hubs := 0
	for _, d := range deg {
		if d >= degreeCap {
			hubs++
		}
	}
	for _, pr := range pairs {
		if len(l.Edges) >= target {
			return
		}
		if deg[pr.a] >= degreeCap || deg[pr.b] >= degreeCap {
			continue
		}
		newHubs := 0
		if deg[pr.a]+1 == degreeCap {
			newHubs++
		}
		if deg[pr.b]+1 == degreeCap {
			newHubs++
		}
		if hubs+newHubs > hubCap {
			continue
		}
		l.AddEdge(pr.a, pr.b)
		deg[pr.a]++
		deg[pr.b]++
		hubs += newHubs
	}
}
