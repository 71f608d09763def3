// Package montecarlo is a random-play reference [sim.Evaluator].
//
// Each trial starts on node trial mod N, so every start gets an equal share
// of trials, and then picks uniformly among the legal moves until it either
// lights every node or gets stuck. All randomness comes from one stream
// seeded by the caller; identical inputs give identical metrics.
package montecarlo

import (
	"math"
	"slices"

	"github.com/matzehuels/circuitgen/pkg/level"
	"github.com/matzehuels/circuitgen/pkg/rng"
	"github.com/matzehuels/circuitgen/pkg/sim"
)

const (
	// topEdgesFraction is the busiest share of edges measured by TopEdgesShare.
	topEdgesFraction = 0.2
	// startPercentile is the per-start success percentile reported as P80.
	startPercentile = 0.8
	// corridorDegree is the largest degree that reads as a corridor.
	corridorDegree = 2
)

// Evaluator simulates uniform random play.
type Evaluator struct{}

// New returns an evaluator.
func New() *Evaluator { return &Evaluator{} }

// outcome aggregates one batch of trials.
type outcome struct {
	trials        int
	successes     int
	startTrials   []int
	startSuccess  []int
	moves, forced int
	diodeSuccess  int
	diodeCrossing int
	// directed counts successful traversals per direction.
	directed map[sim.DirectedEdge]int
	// undirected counts successful traversals per edge id.
	undirected []int
}

func run(l *level.Level, trials int, seed uint64) outcome {
	n := l.N()
	out := outcome{
		trials:       trials,
		startTrials:  make([]int, n),
		startSuccess: make([]int, n),
		directed:     make(map[sim.DirectedEdge]int),
		undirected:   make([]int, len(l.Edges)),
	}
	if n == 0 || trials <= 0 {
		return out
	}
	board := sim.NewBoard(l)
	r := rng.New(seed)
	var buf []int
	path := make([]int, 0, n)

	for t := 0; t < trials; t++ {
		start := t % n
		s := board.Start(start)
		path = path[:0]
		out.startTrials[start]++
		for !board.Done(s) {
			buf = board.Moves(s, buf)
			if len(buf) == 0 {
				break
			}
			out.moves++
			if len(buf) == 1 {
				out.forced++
			}
			id := buf[r.IntN(len(buf))]
			path = append(path, id)
			board.Step(s, id)
		}
		if !board.Done(s) {
			continue
		}

		out.successes++
		out.startSuccess[start]++
		from, diodes := start, 0
		for _, id := range path {
			e := l.Edges[id]
			to := e.Other(from)
			out.directed[sim.DirectedEdge{From: from, To: to}]++
			out.undirected[id]++
			if e.HasDiode() {
				diodes++
			}
			from = to
		}
		out.diodeCrossing += diodes
		if diodes > 0 {
			out.diodeSuccess++
		}
	}
	return out
}

// EvaluateDetailed implements sim.Evaluator.
func (e *Evaluator) EvaluateDetailed(l *level.Level, trials int, seed uint64) sim.Metrics {
	o := run(l, trials, seed)
	m := sim.Metrics{Trials: o.trials}
	if o.trials == 0 || l.N() == 0 {
		return m
	}
	m.SuccessRate = float64(o.successes) / float64(o.trials)
	m.AvgStartSuccessRate, m.BestStartSuccessRate, m.P80StartSuccessRate = startRates(o)
	if o.moves > 0 {
		m.ForcedRatio = float64(o.forced) / float64(o.moves)
	}
	m.CorridorVisualRatio = corridorRatio(l)
	m.TopEdgesShare = topShare(o.undirected)
	if o.successes > 0 {
		m.DiodeUsageRate = float64(o.diodeSuccess) / float64(o.successes)
		m.AvgDiodeUseCountOnSuccess = float64(o.diodeCrossing) / float64(o.successes)
	}
	return m
}

// RunTrialsWithSuccessEdgeCounts implements sim.Evaluator.
func (e *Evaluator) RunTrialsWithSuccessEdgeCounts(l *level.Level, trials int, seed uint64) map[sim.DirectedEdge]int {
	return run(l, trials, seed).directed
}

func startRates(o outcome) (avg, best, p80 float64) {
	var rates []float64
	for v, t := range o.startTrials {
		if t == 0 {
			continue
		}
		rates = append(rates, float64(o.startSuccess[v])/float64(t))
	}
	if len(rates) == 0 {
		return 0, 0, 0
	}
	sum := 0.0
	for _, r := range rates {
		sum += r
		best = max(best, r)
	}
	slices.Sort(rates)
	idx := max(0, int(math.Ceil(startPercentile*float64(len(rates))))-1)
	return sum / float64(len(rates)), best, rates[idx]
}

func corridorRatio(l *level.Level) float64 {
	corridors := 0
	for _, d := range l.Degrees() {
		if d <= corridorDegree {
			corridors++
		}
	}
	return float64(corridors) / float64(l.N())
}

// topShare returns the fraction of all traversals carried by the busiest
// fifth of the edges (at least one edge).
func topShare(counts []int) float64 {
	if len(counts) == 0 {
		return 0
	}
	sorted := slices.Clone(counts)
	slices.SortFunc(sorted, func(a, b int) int { return b - a })
	total := 0
	for _, c := range sorted {
		total += c
	}
	if total == 0 {
		return 0
	}
	k := max(1, int(math.Ceil(topEdgesFraction*float64(len(sorted)))))
	top := 0
	for _, c := range sorted[:k] {
		top += c
	}
	return float64(top) / float64(total)
}
