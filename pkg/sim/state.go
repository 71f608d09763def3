package sim

import (
	"github.com/matzehuels/circuitgen/pkg/level"
)

// Board is a level preprocessed for fast move generation.
type Board struct {
	l   *level.Level
	adj [][]int
}

// NewBoard indexes l. The level must not change while the board is in use.
func NewBoard(l *level.Level) *Board {
	return &Board{l: l, adj: l.Adjacency()}
}

// Level returns the indexed level.
func (b *Board) Level() *level.Level { return b.l }

// N returns the node count.
func (b *Board) N() int { return len(b.l.Nodes) }

// State is a partial stroke.
type State struct {
	Current int
	Visited []bool
	Count   int
	// Toggled holds, per switch group, whether its gates are flipped from
	// their initial state.
	Toggled map[int]bool
}

// Start begins a stroke on node v.
func (b *Board) Start(v int) *State {
	s := &State{Current: v, Visited: make([]bool, b.N()), Toggled: map[int]bool{}}
	b.enter(s, v)
	return s
}

func (b *Board) enter(s *State, v int) {
	s.Current = v
	s.Visited[v] = true
	s.Count++
	if n := b.l.Nodes[v]; n.IsSwitch() && n.SwitchGroup != level.NoSwitchGroup {
		s.Toggled[n.SwitchGroup] = !s.Toggled[n.SwitchGroup]
	}
}

// Passable reports whether e can be crossed from `from` in state s.
func (b *Board) Passable(s *State, e level.Edge, from int) bool {
	to := e.Other(from)
	if s.Visited[to] || !e.Allows(from, to) {
		return false
	}
	if e.IsGated() {
		return e.GateOpen != s.Toggled[e.GateGroup]
	}
	return true
}

// Moves appends the ids of edges passable from the current node to buf.
func (b *Board) Moves(s *State, buf []int) []int {
	buf = buf[:0]
	for _, id := range b.adj[s.Current] {
		if b.Passable(s, b.l.Edges[id], s.Current) {
			buf = append(buf, id)
		}
	}
	return buf
}

// Step crosses edge id from the current node.
func (b *Board) Step(s *State, id int) {
	b.enter(s, b.l.Edges[id].Other(s.Current))
}

// Undo reverts a Step that moved from prev onto the current node.
func (b *Board) Undo(s *State, prev int) {
	v := s.Current
	if n := b.l.Nodes[v]; n.IsSwitch() && n.SwitchGroup != level.NoSwitchGroup {
		s.Toggled[n.SwitchGroup] = !s.Toggled[n.SwitchGroup]
	}
	s.Visited[v] = false
	s.Count--
	s.Current = prev
}

// Done reports whether every node has been visited.
func (b *Board) Done(s *State) bool { return s.Count == b.N() }
