package gen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/circuitgen/pkg/geom"
	"github.com/matzehuels/circuitgen/pkg/observability"
	"github.com/matzehuels/circuitgen/pkg/rng"
	"github.com/matzehuels/circuitgen/pkg/templates"
)

func hexagonEdges() []geom.Edge {
	var edges []geom.Edge
	for i := 0; i < 6; i++ {
		edges = append(edges, geom.Edge{A: i, B: (i + 1) % 6})
	}
	return append(edges, geom.Edge{A: 0, B: 3})
}

func TestImproveBySwapsNeverWorsens(t *testing.T) {
	edges := hexagonEdges()
	tpl, ok := templates.ByName(string(templates.Ring), 6)
	require.True(t, ok)

	for seed := uint64(0); seed < 20; seed++ {
		r := rng.New(seed)
		pos := make([]geom.Vec2, 6)
		for i, s := range r.Perm(6) {
			pos[i] = tpl.Slots[s]
		}
		before := geom.Score(edges, pos, 6)
		after := improveBySwaps(r, edges, pos, 200)

		require.GreaterOrEqual(t, after, before, "seed %d", seed)
		require.InDelta(t, geom.Score(edges, pos, 6), after, 1e-12)
		require.ElementsMatch(t, tpl.Slots, pos, "swaps only permute slots")
	}
}

func TestImproveBySwapsReducesCrossings(t *testing.T) {
	edges := hexagonEdges()
	tpl, _ := templates.ByName(string(templates.Ring), 6)
	// Star-polygon assignment: every hexagon side becomes a long chord.
	pos := make([]geom.Vec2, 6)
	for i, s := range []int{0, 2, 4, 1, 3, 5} {
		pos[i] = tpl.Slots[s]
	}
	before := geom.CountCrossings(edges, pos)
	require.Positive(t, before)

	improveBySwaps(rng.New(1), edges, pos, 400)
	require.Less(t, geom.CountCrossings(edges, pos), before)
}

func TestStripAcceptsLocalDecoys(t *testing.T) {
	const n = 20
	var edges []geom.Edge
	for i := 0; i+1 < n; i++ {
		edges = append(edges, geom.Edge{A: i, B: i + 1})
	}
	for i := 0; i+2 < n; i += 3 {
		edges = append(edges, geom.Edge{A: i, B: i + 2})
	}
	strip, ok := templates.ByName(string(templates.Strip), n)
	require.True(t, ok)

	opts := DefaultLayoutOptions()
	for seed := uint64(0); seed < 10; seed++ {
		pl := placeWithTemplates(rng.New(seed), edges, identityOrder(n), []templates.Template{strip}, opts, observability.NoopTemplateHooks{})
		require.False(t, pl.fallback, "seed %d", seed)
		require.Equal(t, 1, pl.attempts)
		require.True(t, geom.Accept(edges, pl.pos, n, opts.Criteria()))
	}
}
