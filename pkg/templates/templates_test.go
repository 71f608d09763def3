package templates

import (
	"math"
	"testing"

	"github.com/matzehuels/circuitgen/pkg/geom"
)

func TestForNodeCountSlotCounts(t *testing.T) {
	for n := 3; n <= 25; n++ {
		for _, tpl := range ForNodeCount(n) {
			if len(tpl.Slots) != n {
				t.Errorf("%s(n=%d) has %d slots", tpl.Name, n, len(tpl.Slots))
			}
			if d := geom.MinNodeDistance(tpl.Slots, n); d < 1e-6 {
				t.Errorf("%s(n=%d) has coincident slots (min distance %g)", tpl.Name, n, d)
			}
		}
	}
}

func TestMinimumNodeCounts(t *testing.T) {
	for _, s := range Catalogue() {
		below := ForNodeCount(s.MinN - 1)
		for _, tpl := range below {
			if tpl.Family == s.Family {
				t.Errorf("%s offered for n=%d below its minimum %d", s.Family, s.MinN-1, s.MinN)
			}
		}
		found := false
		for _, tpl := range ForNodeCount(s.MinN) {
			found = found || tpl.Family == s.Family
		}
		if !found {
			t.Errorf("%s not offered at its minimum n=%d", s.Family, s.MinN)
		}
	}
}

func TestKnightBoardReserved(t *testing.T) {
	for _, tpl := range ForNodeCount(16) {
		if tpl.Family == Knight {
			t.Fatal("knight board must not appear in random selection")
		}
	}
	kb := KnightBoard()
	if len(kb.Slots) != 16 {
		t.Fatalf("knight board has %d slots", len(kb.Slots))
	}
	if d := geom.MinNodeDistance(kb.Slots, 16); d != 1 {
		t.Errorf("knight board spacing = %v, want 1", d)
	}
	if _, ok := ByName(string(Knight), 16); !ok {
		t.Error("ByName should resolve the knight board for 16 nodes")
	}
	if _, ok := ByName(string(Knight), 12); ok {
		t.Error("knight board only exists for 16 nodes")
	}
}

func TestFillerTopsUp(t *testing.T) {
	slots := fit([]geom.Vec2{{X: 5}}, 4)
	if len(slots) != 4 {
		t.Fatalf("len = %d, want 4", len(slots))
	}
	for i := 1; i < 4; i++ {
		if slots[i].Len() > Radius(4) {
			t.Errorf("filler slot %d outside the ring: %+v", i, slots[i])
		}
	}
	if d := geom.MinNodeDistance(slots[1:], 3); d < 1e-6 {
		t.Error("filler slots collapsed")
	}
}

func TestDeterministic(t *testing.T) {
	a, b := ForNodeCount(14), ForNodeCount(14)
	for i := range a {
		for j := range a[i].Slots {
			if a[i].Slots[j] != b[i].Slots[j] {
				t.Fatalf("%s slot %d differs between calls", a[i].Name, j)
			}
		}
	}
}

func TestRingLike(t *testing.T) {
	tests := map[string]bool{
		"ring":            true,
		"prism8/ring":     true,
		"concentric":      true,
		"fallback_ring":   true,
		"wheel9/star":     false,
		"ladder":          false,
		"knight_board":    false,
		"grid5x4":         false,
		"petersen10/ring": true,
	}
	for name, want := range tests {
		if got := RingLike(name); got != want {
			t.Errorf("RingLike(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestStripTriangles(t *testing.T) {
	tpl, ok := ByName(string(Strip), 9)
	if !ok {
		t.Fatal("strip not offered for 9 nodes")
	}
	if !Open(tpl.Family) || Open(Ring) {
		t.Error("only the strip walks as a path")
	}
	for i := 0; i+1 < len(tpl.Slots); i++ {
		if d := tpl.Slots[i].Dist(tpl.Slots[i+1]); math.Abs(d-1) > 1e-9 {
			t.Errorf("slots %d,%d are %v apart, want 1", i, i+1, d)
		}
		if i+2 < len(tpl.Slots) {
			if d := tpl.Slots[i].Dist(tpl.Slots[i+2]); math.Abs(d-1) > 1e-9 {
				t.Errorf("slots %d,%d are %v apart, want 1", i, i+2, d)
			}
		}
	}

	// Path plus every span-two chord is planar on the strip.
	var edges []geom.Edge
	for i := 0; i+1 < 9; i++ {
		edges = append(edges, geom.Edge{A: i, B: i + 1})
		if i+2 < 9 {
			edges = append(edges, geom.Edge{A: i, B: i + 2})
		}
	}
	if c := geom.CountCrossings(edges, tpl.Slots); c != 0 {
		t.Errorf("strip drawing has %d crossings", c)
	}
}
