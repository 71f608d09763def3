package gridlayout

import (
	"slices"
	"testing"

	"github.com/matzehuels/circuitgen/pkg/geom"
)

func TestGreedyAssignNearestFirst(t *testing.T) {
	pos := []geom.Vec2{{X: 0}, {X: 1}}
	cells := []geom.Vec2{{X: 1.1}, {X: 0.1}, {X: 5, Y: 5}}
	if got := greedyAssign(pos, cells); !slices.Equal(got, []int{1, 0}) {
		t.Errorf("greedyAssign = %v, want [1 0]", got)
	}

	// Equal distances keep scan order: node 0 claims cell 0.
	pos = []geom.Vec2{{X: 0}, {X: 0}}
	cells = []geom.Vec2{{X: 1}, {X: -1}}
	if got := greedyAssign(pos, cells); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("greedyAssign with ties = %v, want [0 1]", got)
	}
}
