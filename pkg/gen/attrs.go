package gen

import (
	"math/rand/v2"

	"github.com/zyedidia/generic/mapset"

	"github.com/matzehuels/circuitgen/pkg/level"
	"github.com/matzehuels/circuitgen/pkg/rng"
)

// pair is an unordered node pair, smaller id first.
type pair struct{ a, b int }

func makePair(a, b int) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

// backboneIndex maps node id to its position along order and records every
// consecutive pair.
type backboneIndex struct {
	at    []int
	pairs mapset.Set[pair]
}

func newBackboneIndex(order []int) backboneIndex {
	bi := backboneIndex{at: make([]int, len(order)), pairs: mapset.New[pair]()}
	for i, v := range order {
		bi.at[v] = i
		if i > 0 {
			bi.pairs.Put(makePair(order[i-1], v))
		}
	}
	return bi
}

func (bi backboneIndex) contains(e level.Edge) bool {
	return bi.pairs.Has(makePair(e.A, e.B))
}

// forward returns the diode that points e along the backbone.
func (bi backboneIndex) forward(e level.Edge) level.Diode {
	if bi.at[e.A] < bi.at[e.B] {
		return level.DiodeAtoB
	}
	return level.DiodeBtoA
}

// placeSwitches turns up to count of the candidate nodes into switches of the
// active group and returns how many were placed.
func placeSwitches(r *rand.Rand, l *level.Level, candidates []int, count int) int {
	count = min(count, len(candidates))
	for _, i := range rng.Sample(r, len(candidates), count) {
		n := &l.Nodes[candidates[i]]
		n.Type = level.Switch
		n.SwitchGroup = level.ActiveGroup
	}
	return count
}

// placeGates gates count of the candidate edges and draws their initial
// states, redrawing up to retries times until the set has both an open and a
// closed gate. If every redraw is uniform the first gate is flipped. A single
// gate cannot satisfy the rule and keeps its first draw.
func placeGates(r *rand.Rand, l *level.Level, candidates []int, count, retries int) int {
	count = min(count, len(candidates))
	if count == 0 {
		return 0
	}
	chosen := rng.Sample(r, len(candidates), count)
	for _, i := range chosen {
		l.Edges[candidates[i]].GateGroup = level.ActiveGroup
	}
	for try := 0; try < retries; try++ {
		open := 0
		for _, i := range chosen {
			e := &l.Edges[candidates[i]]
			e.GateOpen = r.IntN(2) == 1
			if e.GateOpen {
				open++
			}
		}
		if count == 1 || (open > 0 && open < count) {
			return count
		}
	}
	first := &l.Edges[candidates[chosen[0]]]
	first.GateOpen = !first.GateOpen
	return count
}

// placeDiodes walks candidates in order and restricts up to count of them.
// Gated edges are skipped, as is any edge whose endpoint already carries
// capPerNode diodes. Backbone edges point forward; others get a random
// direction.
func placeDiodes(r *rand.Rand, l *level.Level, candidates []int, count, capPerNode int, bi backboneIndex) int {
	deg := l.DiodeDegrees()
	placed := 0
	for _, id := range candidates {
		if placed == count {
			break
		}
		e := &l.Edges[id]
		if e.IsGated() || e.HasDiode() || deg[e.A] >= capPerNode || deg[e.B] >= capPerNode {
			continue
		}
		if bi.contains(*e) {
			e.Diode = bi.forward(*e)
		} else if r.IntN(2) == 0 {
			e.Diode = level.DiodeAtoB
		} else {
			e.Diode = level.DiodeBtoA
		}
		deg[e.A]++
		deg[e.B]++
		placed++
	}
	return placed
}

// shuffled returns a random permutation of ids.
func shuffled(r *rand.Rand, ids []int) []int {
	out := make([]int, len(ids))
	copy(out, ids)
	rng.Shuffle(r, out)
	return out
}

// splitBackbone partitions edge ids into backbone and non-backbone edges,
// preserving edge order.
func splitBackbone(l *level.Level, bi backboneIndex) (on, off []int) {
	for _, e := range l.Edges {
		if bi.contains(e) {
			on = append(on, e.ID)
		} else {
			off = append(off, e.ID)
		}
	}
	return on, off
}
