package level

import (
	"fmt"
	"slices"

	"github.com/matzehuels/circuitgen/pkg/geom"
)

const (
	// NoGate marks an edge that is not controlled by any switch group.
	NoGate = -1
	// NoSwitchGroup marks a node that controls no gate group.
	NoSwitchGroup = 0
	// ActiveGroup is the only switch group id generators assign.
	ActiveGroup = 1
)

// NodeType distinguishes the puzzle's visit targets from switches.
type NodeType int

const (
	// Bulb is a node the stroke must light.
	Bulb NodeType = iota
	// Switch is a node that toggles its gate group when visited.
	Switch
)

var nodeTypeNames = map[NodeType]string{
	Bulb:   "bulb",
	Switch: "switch",
}

func (t NodeType) String() string {
	if s, ok := nodeTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t NodeType) MarshalText() ([]byte, error) {
	s, ok := nodeTypeNames[t]
	if !ok {
		return nil, fmt.Errorf("unknown node type %d", int(t))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *NodeType) UnmarshalText(b []byte) error {
	for k, v := range nodeTypeNames {
		if v == string(b) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown node type %q", string(b))
}

// Diode restricts the direction in which an edge may be traversed.
type Diode int

const (
	// DiodeNone allows traversal both ways.
	DiodeNone Diode = iota
	// DiodeAtoB allows traversal only from A to B.
	DiodeAtoB
	// DiodeBtoA allows traversal only from B to A.
	DiodeBtoA
)

var diodeNames = map[Diode]string{
	DiodeNone: "none",
	DiodeAtoB: "a_to_b",
	DiodeBtoA: "b_to_a",
}

func (d Diode) String() string {
	if s, ok := diodeNames[d]; ok {
		return s
	}
	return fmt.Sprintf("Diode(%d)", int(d))
}

// MarshalText implements encoding.TextMarshaler.
func (d Diode) MarshalText() ([]byte, error) {
	s, ok := diodeNames[d]
	if !ok {
		return nil, fmt.Errorf("unknown diode %d", int(d))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Diode) UnmarshalText(b []byte) error {
	for k, v := range diodeNames {
		if v == string(b) {
			*d = k
			return nil
		}
	}
	return fmt.Errorf("unknown diode %q", string(b))
}

// Node is a vertex of the puzzle graph.
type Node struct {
	ID          int
	Pos         geom.Vec2
	Type        NodeType
	SwitchGroup int // 0 = none
}

// IsSwitch reports whether the node toggles a gate group.
func (n Node) IsSwitch() bool { return n.Type == Switch }

// Edge is a wire between two nodes.
type Edge struct {
	ID        int
	A, B      int
	Diode     Diode
	GateGroup int  // negative = not gated
	GateOpen  bool // state before any switch is toggled
}

// IsGated reports whether the edge belongs to a switch group.
func (e Edge) IsGated() bool { return e.GateGroup >= 0 }

// HasDiode reports whether the edge carries a direction restriction.
func (e Edge) HasDiode() bool { return e.Diode != DiodeNone }

// Touches reports whether v is an endpoint of e.
func (e Edge) Touches(v int) bool { return e.A == v || e.B == v }

// Other returns the endpoint opposite v. The result is undefined when v is
// not an endpoint.
func (e Edge) Other(v int) int {
	if e.A == v {
		return e.B
	}
	return e.A
}

// Allows reports whether the diode permits moving from one endpoint to the
// other. Gates are not considered.
func (e Edge) Allows(from, to int) bool {
	switch e.Diode {
	case DiodeAtoB:
		return from == e.A && to == e.B
	case DiodeBtoA:
		return from == e.B && to == e.A
	default:
		return (from == e.A && to == e.B) || (from == e.B && to == e.A)
	}
}

// DiodeToward returns the diode value that permits only from → to.
func (e Edge) DiodeToward(from, to int) Diode {
	if from == e.A && to == e.B {
		return DiodeAtoB
	}
	return DiodeBtoA
}

// Level is a complete puzzle: nodes, wires and their restrictions.
type Level struct {
	ID    string
	Nodes []Node
	Edges []Edge
}

// New returns a level with n bulb nodes at the origin and no edges.
func New(id string, n int) *Level {
	l := &Level{ID: id, Nodes: make([]Node, n)}
	for i := range l.Nodes {
		l.Nodes[i] = Node{ID: i}
	}
	return l
}

// N returns the number of nodes.
func (l *Level) N() int { return len(l.Nodes) }

// AddEdge appends an ungated, unrestricted edge between a and b and returns
// its id. Edge ids are assigned in construction order.
func (l *Level) AddEdge(a, b int) int {
	id := len(l.Edges)
	l.Edges = append(l.Edges, Edge{ID: id, A: a, B: b, GateGroup: NoGate})
	return id
}

// Clone returns a deep copy of l.
func (l *Level) Clone() *Level {
	return &Level{
		ID:    l.ID,
		Nodes: slices.Clone(l.Nodes),
		Edges: slices.Clone(l.Edges),
	}
}

// Pairs returns the endpoints of every edge, in edge order.
func (l *Level) Pairs() []geom.Edge {
	out := make([]geom.Edge, len(l.Edges))
	for i, e := range l.Edges {
		out[i] = geom.Edge{A: e.A, B: e.B}
	}
	return out
}

// Positions returns a copy of the node positions indexed by node id.
func (l *Level) Positions() []geom.Vec2 {
	out := make([]geom.Vec2, len(l.Nodes))
	for i, n := range l.Nodes {
		out[i] = n.Pos
	}
	return out
}

// SetPositions overwrites node positions. pos must have one entry per node.
func (l *Level) SetPositions(pos []geom.Vec2) {
	for i := range l.Nodes {
		l.Nodes[i].Pos = pos[i]
	}
}

// FindEdge returns the index of the first edge joining a and b in either
// orientation.
func (l *Level) FindEdge(a, b int) (int, bool) {
	for i, e := range l.Edges {
		if (e.A == a && e.B == b) || (e.A == b && e.B == a) {
			return i, true
		}
	}
	return -1, false
}

// HasEdge reports whether a and b are adjacent.
func (l *Level) HasEdge(a, b int) bool {
	_, ok := l.FindEdge(a, b)
	return ok
}

// Degrees returns the number of edges incident to each node.
func (l *Level) Degrees() []int {
	deg := make([]int, len(l.Nodes))
	for _, e := range l.Edges {
		deg[e.A]++
		deg[e.B]++
	}
	return deg
}

// DiodeDegrees returns, for each node, the number of incident diode edges.
func (l *Level) DiodeDegrees() []int {
	deg := make([]int, len(l.Nodes))
	for _, e := range l.Edges {
		if e.HasDiode() {
			deg[e.A]++
			deg[e.B]++
		}
	}
	return deg
}

// DiodeCount returns the number of edges carrying a diode.
func (l *Level) DiodeCount() int {
	n := 0
	for _, e := range l.Edges {
		if e.HasDiode() {
			n++
		}
	}
	return n
}

// GateCount returns the number of gated edges.
func (l *Level) GateCount() int {
	n := 0
	for _, e := range l.Edges {
		if e.IsGated() {
			n++
		}
	}
	return n
}

// Switches returns the ids of switch nodes in ascending order.
func (l *Level) Switches() []int {
	var out []int
	for _, n := range l.Nodes {
		if n.IsSwitch() {
			out = append(out, n.ID)
		}
	}
	return out
}

// Adjacency returns, for each node, the indices of its incident edges.
func (l *Level) Adjacency() [][]int {
	adj := make([][]int, len(l.Nodes))
	for i, e := range l.Edges {
		adj[e.A] = append(adj[e.A], i)
		adj[e.B] = append(adj[e.B], i)
	}
	return adj
}

// HasBackbone reports whether order visits every node exactly once and each
// consecutive pair is joined by an edge, ignoring diodes and gates.
func (l *Level) HasBackbone(order []int) bool {
	if len(order) != len(l.Nodes) {
		return false
	}
	seen := make([]bool, len(l.Nodes))
	for i, v := range order {
		if v < 0 || v >= len(l.Nodes) || seen[v] {
			return false
		}
		seen[v] = true
		if i > 0 && !l.HasEdge(order[i-1], v) {
			return false
		}
	}
	return true
}

// HasSequentialBackbone reports whether 0–1–…–(N−1) is a path in the edge set.
func (l *Level) HasSequentialBackbone() bool {
	order := make([]int, len(l.Nodes))
	for i := range order {
		order[i] = i
	}
	return l.HasBackbone(order)
}
