package geom_test

import (
	"fmt"

	"github.com/matzehuels/circuitgen/pkg/geom"
)

func ExampleCountCrossings() {
	pos := []geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	edges := []geom.Edge{{A: 0, B: 2}, {A: 1, B: 3}, {A: 0, B: 1}}

	fmt.Println(geom.CountCrossings(edges, pos))
	// Output: 1
}

func ExampleAccept() {
	pos := []geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	cycle := []geom.Edge{{A: 0, B: 1}, {A: 1, B: 2}, {A: 2, B: 3}, {A: 3, B: 0}}

	fmt.Println(geom.Accept(cycle, pos, len(pos), geom.DefaultCriteria))
	// Output: true
}
