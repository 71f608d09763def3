package gen

import (
	"github.com/matzehuels/circuitgen/pkg/errors"
	"github.com/matzehuels/circuitgen/pkg/level"
	"github.com/matzehuels/circuitgen/pkg/rng"
	"github.com/matzehuels/circuitgen/pkg/templates"
)

// TemplateBased relabels a hand-authored graph and decorates it with the
// graph's curated switches, gates and diodes.
type TemplateBased struct{}

// Kind implements Generator.
func (TemplateBased) Kind() Kind { return KindTemplate }

// LibraryNames lists the hand-authored graphs in node-count order.
func LibraryNames() []string {
	out := make([]string, len(library))
	for i, g := range library {
		out[i] = g.name
	}
	return out
}

// Generate implements Generator.
func (g TemplateBased) Generate(p Params, seed uint64) (*Result, error) {
	rp, err := p.resolve(g.Kind(), seed)
	if err != nil {
		return nil, err
	}
	pool := libraryFor(rp.lo, rp.hi)
	if len(pool) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidGenerator,
			"no template graph has between %d and %d nodes", rp.lo, rp.hi)
	}
	r := rng.New(seed)
	prof := rp.profile
	src := pool[r.IntN(len(pool))]

	// perm maps template node ids to level node ids.
	perm := r.Perm(src.n)
	l := level.New(rp.levelID, src.n)
	for _, e := range src.edges {
		l.AddEdge(perm[e[0]], perm[e[1]])
	}
	order := remap(perm, src.backbone)

	switches := placeSwitches(r, l, remap(perm, src.switches), prof.Switches)

	var pl placement
	if src.board != nil {
		pl = placeExact(r, l.Pairs(), remap(perm, identityOrder(src.n)), *src.board, rp.layout, rp.hooks)
	} else {
		pl = placeWithTemplates(r, l.Pairs(), order, templates.ForNodeCount(src.n), rp.layout, rp.hooks)
	}
	l.SetPositions(pl.pos)
	pl.template = src.name + "/" + pl.template

	if switches > 0 {
		hi := min(3, len(src.gates))
		placeGates(r, l, src.gates, rng.Between(r, 1, hi), rp.layout.GateRetries)
	}

	bi := newBackboneIndex(order)
	diodes := rng.Between(r, prof.DiodeMin, prof.DiodeMax)
	placeDiodes(r, l, shuffled(r, src.diodes), diodes, prof.DiodeCapPerNode, bi)

	return newResult(g.Kind(), l, pl, order, rp.layout.Criteria()), nil
}

// remap applies perm to a list of node ids.
func remap(perm, ids []int) []int {
	out := make([]int, len(ids))
	for i, v := range ids {
		out[i] = perm[v]
	}
	return out
}
