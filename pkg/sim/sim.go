// Package sim defines the contracts between level generation and the
// components that judge a finished level: a [Solver] that characterises its
// one-stroke solutions and an [Evaluator] that estimates how often random
// play succeeds.
//
// Reference implementations live in the pathsolver and montecarlo
// subpackages. The tuning loop depends only on these interfaces, so tests can
// substitute deterministic fakes.
//
// # Movement rules
//
// Both references share the rules in [State]: a stroke starts on any node,
// moves along edges to unvisited nodes only, respects diode direction, and
// may cross a gated edge only while its gate is open. Visiting a switch
// toggles every gate in the switch's group. A stroke succeeds when it has
// visited every node.
package sim

import (
	"github.com/matzehuels/circuitgen/pkg/level"
)

// Solution summarises the one-stroke solutions of a level.
type Solution struct {
	Solvable      bool `json:"solvable"`
	SolutionCount int  `json:"solution_count"`
	// Capped is set when counting stopped at the solver's budget, making
	// SolutionCount a lower bound.
	Capped bool `json:"capped"`
	// EarlyBranching is the mean number of legal moves over the first moves
	// of every explored stroke.
	EarlyBranching float64 `json:"early_branching"`
	// DeadEndDepthAvg is the mean depth at which failed strokes get stuck.
	DeadEndDepthAvg float64 `json:"dead_end_depth_avg"`
}

// Solver characterises the solutions of a finished level.
type Solver interface {
	Solve(l *level.Level) Solution
	// MaxNodes is the largest level the solver supports.
	MaxNodes() int
}

// Metrics is the detailed outcome of a Monte Carlo evaluation.
type Metrics struct {
	SuccessRate          float64 `json:"success_rate"`
	AvgStartSuccessRate  float64 `json:"avg_start_success_rate"`
	BestStartSuccessRate float64 `json:"best_start_success_rate"`
	P80StartSuccessRate  float64 `json:"p80_start_success_rate"`
	// ForcedRatio is the share of moves that had exactly one option.
	ForcedRatio float64 `json:"forced_ratio"`
	// CorridorVisualRatio is the share of nodes that look like corridors
	// (degree two or less).
	CorridorVisualRatio float64 `json:"corridor_visual_ratio"`
	// TopEdgesShare is the share of successful traversals carried by the
	// busiest fifth of the edges.
	TopEdgesShare float64 `json:"top_edges_share"`
	// DiodeUsageRate is the share of successful trials that crossed at least
	// one diode.
	DiodeUsageRate            float64 `json:"diode_usage_rate"`
	AvgDiodeUseCountOnSuccess float64 `json:"avg_diode_use_count_on_success"`
	Trials                    int     `json:"trials"`
}

// CorridorLoad is the funnelling heuristic the tuner must not worsen.
func (m Metrics) CorridorLoad() float64 {
	return m.ForcedRatio + m.CorridorVisualRatio + m.TopEdgesShare
}

// DirectedEdge is one traversal direction between two nodes.
type DirectedEdge struct {
	From, To int
}

// Evaluator estimates difficulty by simulated play. Both methods must be
// deterministic for a fixed (level, trials, seed).
type Evaluator interface {
	EvaluateDetailed(l *level.Level, trials int, seed uint64) Metrics
	RunTrialsWithSuccessEdgeCounts(l *level.Level, trials int, seed uint64) map[DirectedEdge]int
}
