package gen

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/circuitgen/pkg/geom"
	"github.com/matzehuels/circuitgen/pkg/observability"
	"github.com/matzehuels/circuitgen/pkg/templates"
)

// placement is the outcome of a layout loop.
type placement struct {
	pos      []geom.Vec2
	template string
	fallback bool
	attempts int
}

// placeWithTemplates runs the propose/accept loop over pool.
//
// Each attempt picks a template and assigns node ids to its slots. Closed
// templates alternate between walking order around the slots from a random
// offset and a uniformly random assignment; open templates are always
// walked from one end. A proposal that fails [geom.Accept] is improved by
// slot swaps ranked with [geom.Score] before it is jittered and judged. The
// first accepted layout wins.
func placeWithTemplates(r *rand.Rand, edges []geom.Edge, order []int, pool []templates.Template, opts LayoutOptions, hooks observability.TemplateHooks) placement {
	n := len(order)
	c := opts.Criteria()
	pos := make([]geom.Vec2, n)

	for attempt := 1; attempt <= opts.Attempts && len(pool) > 0; attempt++ {
		tpl := pool[r.IntN(len(pool))]
		hooks.OnTemplateTry(tpl.Name)

		switch {
		case templates.Open(tpl.Family):
			assignOpen(r, pos, order, tpl.Slots)
		case attempt%2 == 1:
			assignCyclic(r, pos, order, tpl.Slots)
		default:
			for i, s := range r.Perm(n) {
				pos[i] = tpl.Slots[s]
			}
		}
		if !geom.Accept(edges, pos, n, c) {
			improveBySwaps(r, edges, pos, opts.SwapSteps)
		}
		jitter(r, pos, opts.Jitter*geom.AverageEdgeLength(edges, pos))

		if geom.Accept(edges, pos, n, c) {
			hooks.OnTemplateAccept(tpl.Name)
			hooks.OnTemplateChoose(tpl.Name)
			return placement{pos: pos, template: tpl.Name, attempts: attempt}
		}
	}

	hooks.OnTemplateChoose(observability.FallbackTemplate)
	return placement{
		pos:      ringFallback(r, order, opts.FallbackJitter),
		template: observability.FallbackTemplate,
		fallback: true,
		attempts: opts.Attempts,
	}
}

// improveBySwaps hill-climbs on [geom.Score]: it exchanges the positions of
// two random nodes and keeps the exchange only when the score strictly
// rises. It returns the final score.
func improveBySwaps(r *rand.Rand, edges []geom.Edge, pos []geom.Vec2, steps int) float64 {
	n := len(pos)
	best := geom.Score(edges, pos, n)
	if n < 2 {
		return best
	}
	for range steps {
		a, b := r.IntN(n), r.IntN(n-1)
		if b >= a {
			b++
		}
		pos[a], pos[b] = pos[b], pos[a]
		if s := geom.Score(edges, pos, n); s > best {
			best = s
			continue
		}
		pos[a], pos[b] = pos[b], pos[a]
	}
	return best
}

// placeExact positions node order[i] at slots[i] and jitters until the layout
// is accepted. The unjittered drawing is kept if no jittered one passes.
func placeExact(r *rand.Rand, edges []geom.Edge, order []int, tpl templates.Template, opts LayoutOptions, hooks observability.TemplateHooks) placement {
	n := len(order)
	c := opts.Criteria()
	base := make([]geom.Vec2, n)
	for i, v := range order {
		base[v] = tpl.Slots[i]
	}
	pos := make([]geom.Vec2, n)
	for attempt := 1; attempt <= opts.Attempts; attempt++ {
		hooks.OnTemplateTry(tpl.Name)
		copy(pos, base)
		jitter(r, pos, opts.Jitter*geom.AverageEdgeLength(edges, pos))
		if geom.Accept(edges, pos, n, c) {
			hooks.OnTemplateAccept(tpl.Name)
			hooks.OnTemplateChoose(tpl.Name)
			return placement{pos: pos, template: tpl.Name, attempts: attempt}
		}
	}
	hooks.OnTemplateChoose(tpl.Name)
	return placement{pos: base, template: tpl.Name, attempts: opts.Attempts, fallback: !geom.Accept(edges, base, n, c)}
}

// assignOpen walks order along slots from the front or the back.
func assignOpen(r *rand.Rand, pos []geom.Vec2, order []int, slots []geom.Vec2) {
	n := len(order)
	rev := r.IntN(2) == 1
	for k, v := range order {
		if rev {
			pos[v] = slots[n-1-k]
		} else {
			pos[v] = slots[k]
		}
	}
}

func assignCyclic(r *rand.Rand, pos []geom.Vec2, order []int, slots []geom.Vec2) {
	n := len(order)
	offset := r.IntN(n)
	step := 1
	if r.IntN(2) == 1 {
		step = n - 1
	}
	for k, v := range order {
		pos[v] = slots[(offset+k*step)%n]
	}
}

// jitter displaces every point by up to radius in a uniform direction.
func jitter(r *rand.Rand, pos []geom.Vec2, radius float64) {
	if radius <= 0 {
		return
	}
	for i := range pos {
		pos[i] = pos[i].Add(geom.Polar(radius*r.Float64(), 2*math.Pi*r.Float64()))
	}
}

// ringFallback places order evenly around a ring with circular jitter.
func ringFallback(r *rand.Rand, order []int, jitterFrac float64) []geom.Vec2 {
	n := len(order)
	radius := templates.Radius(n)
	pos := make([]geom.Vec2, n)
	for k, v := range order {
		pos[v] = geom.Polar(radius, -math.Pi/2+2*math.Pi*float64(k)/float64(n))
	}
	jitter(r, pos, jitterFrac*radius)
	return pos
}
