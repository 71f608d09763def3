package gen

import (
	"fmt"

	"github.com/matzehuels/circuitgen/pkg/errors"
	"github.com/matzehuels/circuitgen/pkg/geom"
	"github.com/matzehuels/circuitgen/pkg/level"
	"github.com/matzehuels/circuitgen/pkg/rng"
)

// Node range served by GridRange.
const (
	GridMinNodes = 16
	GridMaxNodes = 25
)

// GridRange lays nodes on a small grid in serpentine order. Consecutive ids
// always occupy neighbouring cells, so the backbone exists by construction.
type GridRange struct{}

// Kind implements Generator.
func (GridRange) Kind() Kind { return KindGrid }

// GridShape returns the grid used for n nodes.
func GridShape(n int) (cols, rows int) {
	switch {
	case n <= 16:
		return 4, 4
	case n <= 20:
		return 5, 4
	default:
		return 5, 5
	}
}

// serpentine returns the first n cells of a cols×rows grid in boustrophedon
// order as (col, row) pairs.
func serpentine(cols, rows, n int) [][2]int {
	out := make([][2]int, 0, n)
	for row := 0; row < rows && len(out) < n; row++ {
		for k := 0; k < cols && len(out) < n; k++ {
			col := k
			if row%2 == 1 {
				col = cols - 1 - k
			}
			out = append(out, [2]int{col, row})
		}
	}
	return out
}

// Generate implements Generator.
func (g GridRange) Generate(p Params, seed uint64) (*Result, error) {
	rp, err := p.resolve(g.Kind(), seed)
	if err != nil {
		return nil, err
	}
	lo, hi := max(rp.lo, GridMinNodes), min(rp.hi, GridMaxNodes)
	if lo > hi {
		return nil, errors.New(errors.ErrCodeInvalidGenerator,
			"grid generator needs %d–%d nodes, range is [%d,%d]", GridMinNodes, GridMaxNodes, rp.lo, rp.hi)
	}
	r := rng.New(seed)
	prof := rp.profile

	n := rng.Between(r, lo, hi)
	cols, rows := GridShape(n)
	cells := serpentine(cols, rows, n)

	l := level.New(rp.levelID, n)
	id := make(map[[2]int]int, n)
	for i, c := range cells {
		id[c] = i
		l.Nodes[i].Pos = geom.Vec2{
			X: float64(c[0]) - float64(cols-1)/2,
			Y: float64(c[1]) - float64(rows-1)/2,
		}
	}
	for i := 0; i+1 < n; i++ {
		l.AddEdge(i, i+1)
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			a, ok := id[[2]int{col, row}]
			if !ok {
				continue
			}
			for _, nb := range [][2]int{{col + 1, row}, {col, row + 1}} {
				if b, ok := id[nb]; ok && b != a+1 && a != b+1 {
					l.AddEdge(a, b)
				}
			}
		}
	}

	order := identityOrder(n)
	bi := newBackboneIndex(order)
	on, off := splitBackbone(l, bi)

	if prof.Switches > 0 {
		interior := make([]int, n-2)
		for i := range interior {
			interior[i] = i + 1
		}
		if placeSwitches(r, l, interior, 1) > 0 && len(off) > 0 {
			hi := min(4, len(off))
			placeGates(r, l, off, rng.Between(r, min(2, hi), hi), rp.layout.GateRetries)
		}
	}

	diodes := rng.Between(r, prof.DiodeMin, prof.DiodeMax)
	candidates := append(shuffled(r, off), shuffled(r, on)...)
	placeDiodes(r, l, candidates, diodes, prof.DiodeCapPerNode, bi)

	pl := placement{pos: l.Positions(), template: fmt.Sprintf("grid%dx%d", cols, rows), attempts: 1}
	return newResult(g.Kind(), l, pl, order, rp.layout.Criteria()), nil
}
