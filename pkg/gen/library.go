package gen

import (
	"github.com/matzehuels/circuitgen/pkg/templates"
)

// graphTemplate is a hand-authored small graph with curated attribute sites.
// Edge-valued lists index into edges.
type graphTemplate struct {
	name     string
	n        int
	edges    [][2]int
	backbone []int
	diodes   []int
	gates    []int
	switches []int
	// board, when set, is the exact drawing: node i sits at board.Slots[i].
	board *templates.Template
}

func cycle(from, to int) [][2]int {
	var out [][2]int
	for i := from; i < to; i++ {
		out = append(out, [2]int{i, i + 1})
	}
	return append(out, [2]int{to, from})
}

func path(from, to int) [][2]int {
	var out [][2]int
	for i := from; i < to; i++ {
		out = append(out, [2]int{i, i + 1})
	}
	return out
}

func concat(parts ...[][2]int) [][2]int {
	var out [][2]int
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// library is ordered by node count.
var library = []graphTemplate{
	{
		// Cube: two squares joined by four spokes.
		name:     "prism8",
		n:        8,
		edges:    concat(cycle(0, 3), cycle(4, 7), [][2]int{{0, 4}, {1, 5}, {2, 6}, {3, 7}}),
		backbone: []int{0, 1, 2, 3, 7, 6, 5, 4},
		diodes:   []int{3, 7, 8, 9, 10},
		gates:    []int{8, 9, 10},
		switches: []int{2, 6},
	},
	{
		// Eight-cycle rim around a hub wired to every other rim node.
		name:     "wheel9",
		n:        9,
		edges:    concat(cycle(0, 7), [][2]int{{8, 0}, {8, 2}, {8, 4}, {8, 6}}),
		backbone: []int{8, 0, 1, 2, 3, 4, 5, 6, 7},
		diodes:   []int{7, 9, 10, 11, 3},
		gates:    []int{9, 10, 11, 7},
		switches: []int{2, 4, 6},
	},
	{
		name:     "ladder10",
		n:        10,
		edges:    concat(path(0, 4), path(5, 9), [][2]int{{0, 5}, {1, 6}, {2, 7}, {3, 8}, {4, 9}}),
		backbone: []int{0, 1, 2, 3, 4, 9, 8, 7, 6, 5},
		diodes:   []int{8, 9, 10, 11, 2},
		gates:    []int{9, 10, 11},
		switches: []int{2, 3, 7},
	},
	{
		// Outer pentagon, spokes and inner pentagram.
		name: "petersen10",
		n:    10,
		edges: concat(cycle(0, 4),
			[][2]int{{0, 5}, {1, 6}, {2, 7}, {3, 8}, {4, 9}},
			[][2]int{{5, 7}, {7, 9}, {9, 6}, {6, 8}, {8, 5}}),
		backbone: []int{0, 1, 2, 3, 4, 9, 6, 8, 5, 7},
		diodes:   []int{5, 6, 7, 8, 11, 1},
		gates:    []int{6, 7, 8},
		switches: []int{2, 3, 9, 6},
	},
	{
		// Two hexagons joined by alternating spokes.
		name:     "hexprism12",
		n:        12,
		edges:    concat(cycle(0, 5), cycle(6, 11), [][2]int{{0, 6}, {2, 8}, {4, 10}}),
		backbone: []int{1, 2, 3, 4, 5, 0, 6, 7, 8, 9, 10, 11},
		diodes:   []int{0, 11, 13, 14, 3},
		gates:    []int{0, 13, 14},
		switches: []int{3, 8, 9},
	},
	{
		// Two seven-cycles with two bridges and one chord each.
		name: "twinloops14",
		n:    14,
		edges: concat(cycle(0, 6), cycle(7, 13),
			[][2]int{{6, 7}, {3, 10}, {1, 4}, {8, 11}}),
		backbone: identityOrder(14),
		diodes:   []int{6, 13, 15, 16, 17, 2, 10},
		gates:    []int{15, 16, 17, 6},
		switches: []int{2, 5, 9, 12},
	},
	knightGraph(),
}

// knightGraph is a serpentine tour of the 4×4 board plus six knight-move
// decoys chosen so that no two edges cross. Node r*4+c is row r, column c.
func knightGraph() graphTemplate {
	board := templates.KnightBoard()
	edges := [][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 7},
		{7, 6}, {6, 5}, {5, 4}, {4, 8},
		{8, 9}, {9, 10}, {10, 11}, {11, 15},
		{15, 14}, {14, 13}, {13, 12},
		{0, 6}, {1, 7}, {4, 10}, {5, 11}, {8, 14}, {9, 15},
	}
	return graphTemplate{
		name:     "knight16",
		n:        16,
		edges:    edges,
		backbone: []int{0, 1, 2, 3, 7, 6, 5, 4, 8, 9, 10, 11, 15, 14, 13, 12},
		diodes:   []int{15, 16, 17, 18, 19, 20, 5, 13},
		gates:    []int{15, 17, 19, 20},
		switches: []int{5, 6, 9, 10},
		board:    &board,
	}
}

// libraryFor returns the graphs whose node count lies in [lo, hi].
func libraryFor(lo, hi int) []graphTemplate {
	var out []graphTemplate
	for _, g := range library {
		if g.n >= lo && g.n <= hi {
			out = append(out, g)
		}
	}
	return out
}
