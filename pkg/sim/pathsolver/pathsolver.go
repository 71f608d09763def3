// Package pathsolver is a depth-first reference [sim.Solver].
//
// The search enumerates strokes from every start node under the movement
// rules of [sim.Board], counting complete strokes until either the solution
// cap or the expansion budget is reached. Both budgets keep worst-case levels
// bounded; when one is hit the returned count is a lower bound and
// [sim.Solution.Capped] is set.
package pathsolver

import (
	"github.com/matzehuels/circuitgen/pkg/level"
	"github.com/matzehuels/circuitgen/pkg/sim"
)

// earlyDepth is how many opening moves contribute to early branching.
const earlyDepth = 3

// Options bounds the search.
type Options struct {
	MaxNodes      int `toml:"max_nodes" json:"max_nodes"`
	MaxSolutions  int `toml:"max_solutions" json:"max_solutions"`
	MaxExpansions int `toml:"max_expansions" json:"max_expansions"`
}

// DefaultOptions returns the reference budgets.
func DefaultOptions() Options {
	return Options{
		MaxNodes:      25,
		MaxSolutions:  10_000,
		MaxExpansions: 2_000_000,
	}
}

// Solver counts one-stroke solutions by exhaustive DFS.
type Solver struct {
	opts Options
}

// New returns a solver. A nil opts selects [DefaultOptions].
func New(opts *Options) *Solver {
	if opts == nil {
		d := DefaultOptions()
		opts = &d
	}
	return &Solver{opts: *opts}
}

// MaxNodes implements sim.Solver.
func (s *Solver) MaxNodes() int { return s.opts.MaxNodes }

type search struct {
	board      *sim.Board
	solutions  int
	expansions int
	stop       bool
	opts       Options

	earlySum, earlyCount int
	deadSum, deadCount   int
}

// Solve implements sim.Solver. Levels larger than MaxNodes are not searched
// and come back capped with no solutions.
func (s *Solver) Solve(l *level.Level) sim.Solution {
	if l.N() == 0 {
		return sim.Solution{}
	}
	if l.N() > s.opts.MaxNodes {
		return sim.Solution{Capped: true}
	}
	st := &search{board: sim.NewBoard(l), opts: s.opts}
	for v := 0; v < l.N() && !st.stop; v++ {
		st.dfs(st.board.Start(v), 0)
	}

	out := sim.Solution{
		Solvable:      st.solutions > 0,
		SolutionCount: st.solutions,
		Capped:        st.stop,
	}
	if st.earlyCount > 0 {
		out.EarlyBranching = float64(st.earlySum) / float64(st.earlyCount)
	}
	if st.deadCount > 0 {
		out.DeadEndDepthAvg = float64(st.deadSum) / float64(st.deadCount)
	}
	return out
}

func (st *search) dfs(s *sim.State, depth int) {
	if st.stop {
		return
	}
	st.expansions++
	if st.expansions >= st.opts.MaxExpansions {
		st.stop = true
		return
	}
	if st.board.Done(s) {
		st.solutions++
		if st.solutions >= st.opts.MaxSolutions {
			st.stop = true
		}
		return
	}

	moves := st.board.Moves(s, nil)
	if depth < earlyDepth {
		st.earlySum += len(moves)
		st.earlyCount++
	}
	if len(moves) == 0 {
		st.deadSum += s.Count
		st.deadCount++
		return
	}
	prev := s.Current
	for _, id := range moves {
		st.board.Step(s, id)
		st.dfs(s, depth+1)
		st.board.Undo(s, prev)
		if st.stop {
			return
		}
	}
}
