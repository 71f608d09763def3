package level

import (
	"errors"
	"fmt"

	"github.com/spakin/disjoint"
)

var (
	// ErrEmptyLevel is returned by [Level.Validate] for a level without nodes.
	ErrEmptyLevel = errors.New("level has no nodes")

	// ErrNodeIDGap is returned when a node's ID differs from its position,
	// which means the id range has a gap or a duplicate.
	ErrNodeIDGap = errors.New("node ids must be dense and match their position")

	// ErrUnknownEndpoint is returned when an edge references a node outside [0, N).
	ErrUnknownEndpoint = errors.New("edge endpoint out of range")

	// ErrSelfLoop is returned when an edge joins a node to itself.
	ErrSelfLoop = errors.New("edge is a self-loop")

	// ErrEdgeIDMismatch is returned when an edge's ID differs from its position.
	ErrEdgeIDMismatch = errors.New("edge ids must be sequential")

	// ErrGateWithoutSwitch is returned when a gated edge's group has no
	// controlling switch node.
	ErrGateWithoutSwitch = errors.New("gate group has no switch")

	// ErrGroupOnBulb is returned when a bulb carries a switch group.
	ErrGroupOnBulb = errors.New("only switch nodes may carry a switch group")

	// ErrDisconnected is returned when the undirected graph has more than one
	// component.
	ErrDisconnected = errors.New("level graph is disconnected")
)

// Validate checks the structural invariants every level must satisfy.
// It returns the first violation found, wrapped with its location.
func (l *Level) Validate() error {
	n := len(l.Nodes)
	if n == 0 {
		return ErrEmptyLevel
	}
	groups := map[int]bool{}
	for i, node := range l.Nodes {
		if node.ID != i {
			return fmt.Errorf("node at %d has id %d: %w", i, node.ID, ErrNodeIDGap)
		}
		if node.SwitchGroup != NoSwitchGroup {
			if !node.IsSwitch() {
				return fmt.Errorf("node %d: %w", i, ErrGroupOnBulb)
			}
			groups[node.SwitchGroup] = true
		}
	}

	for i, e := range l.Edges {
		if e.ID != i {
			return fmt.Errorf("edge at %d has id %d: %w", i, e.ID, ErrEdgeIDMismatch)
		}
		if e.A < 0 || e.A >= n || e.B < 0 || e.B >= n {
			return fmt.Errorf("edge %d (%d-%d): %w", e.ID, e.A, e.B, ErrUnknownEndpoint)
		}
		if e.A == e.B {
			return fmt.Errorf("edge %d at node %d: %w", e.ID, e.A, ErrSelfLoop)
		}
		if e.IsGated() && !groups[e.GateGroup] {
			return fmt.Errorf("edge %d group %d: %w", e.ID, e.GateGroup, ErrGateWithoutSwitch)
		}
	}

	if c := l.Components(); c != 1 {
		return fmt.Errorf("%d components: %w", c, ErrDisconnected)
	}
	return nil
}

// Components returns the number of connected components of the undirected
// graph, ignoring diodes and gates.
func (l *Level) Components() int {
	elems := make([]*disjoint.Element, len(l.Nodes))
	for i := range elems {
		elems[i] = disjoint.NewElement()
	}
	count := len(elems)
	for _, e := range l.Edges {
		if e.A < 0 || e.A >= len(elems) || e.B < 0 || e.B >= len(elems) {
			continue
		}
		if elems[e.A].Find() == elems[e.B].Find() {
			continue
		}
		disjoint.Union(elems[e.A], elems[e.B])
		count--
	}
	return count
}
