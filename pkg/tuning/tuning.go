// Package tuning calibrates a level's difficulty by adding diodes.
//
// [TuneDiodes] measures the level with a [sim.Evaluator] and, while random
// play succeeds too often for the tier, restricts the edges that successful
// trials rely on most. A diode can only remove moves, so a level that is
// already too hard is returned untouched.
//
// Every change must keep the success rate at or above the band's lower edge,
// keep diode usage on successful trials at the tier minimum, and must not
// raise the corridor load (see [sim.Metrics.CorridorLoad]) by more than
// [Options.CorridorTolerance] over the untouched level. The loop is bounded
// by [Options.MaxDiodeSteps] and [Options.MaxSteps] and reports failure
// through [Result.InBand], never through an error.
package tuning

import (
	"cmp"
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/matzehuels/circuitgen/pkg/errors"
	"github.com/matzehuels/circuitgen/pkg/level"
	"github.com/matzehuels/circuitgen/pkg/sim"
	"github.com/matzehuels/circuitgen/pkg/tier"
)

// Options bounds the loop.
type Options struct {
	MaxDiodeSteps     int     `toml:"max_diode_steps" json:"max_diode_steps"`
	MaxSteps          int     `toml:"max_steps" json:"max_steps"`
	CorridorTolerance float64 `toml:"corridor_tolerance" json:"corridor_tolerance"`
	// EndpointPenalty is subtracted from a candidate's usage count when one
	// of its endpoints already carries a diode.
	EndpointPenalty   float64 `toml:"endpoint_penalty" json:"endpoint_penalty"`
	CandidatesPerStep int     `toml:"candidates_per_step" json:"candidates_per_step"`
}

// DefaultOptions returns the built-in budgets.
func DefaultOptions() Options {
	return Options{
		MaxDiodeSteps:     8,
		MaxSteps:          32,
		CorridorTolerance: 0.05,
		EndpointPenalty:   1e6,
		CandidatesPerStep: 6,
	}
}

// Validate rejects budgets that would leave the loop unbounded.
func (o Options) Validate() error {
	switch {
	case o.MaxDiodeSteps < 0 || o.MaxSteps < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "tuning budgets cannot be negative")
	case o.CandidatesPerStep < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "candidates per step must be positive")
	case o.CorridorTolerance < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "corridor tolerance cannot be negative")
	}
	return nil
}

// Reason explains why the loop stopped.
type Reason string

const (
	ReasonBaselineInBand    Reason = "baseline_in_band"
	ReasonBaselineBelowBand Reason = "baseline_below_band"
	ReasonInBand            Reason = "in_band"
	ReasonFellBelowBand     Reason = "fell_below_band"
	ReasonNoCandidate       Reason = "no_candidate"
	ReasonBudgetExhausted   Reason = "budget_exhausted"
)

// Step records one accepted diode.
type Step struct {
	EdgeID      int         `json:"edge_id"`
	Diode       level.Diode `json:"diode"`
	SuccessRate float64     `json:"success_rate"`
}

// Result is the tuned level and its measurements.
type Result struct {
	// Level is a tuned copy; the input level is never modified.
	Level    *level.Level `json:"level"`
	InBand   bool         `json:"in_band"`
	Reason   Reason       `json:"reason"`
	Baseline sim.Metrics  `json:"baseline"`
	Final    sim.Metrics  `json:"final"`
	// DiodesAdded counts accepted diodes; Steps counts loop iterations.
	DiodesAdded int    `json:"diodes_added"`
	Steps       int    `json:"steps"`
	Trials      int    `json:"trials"`
	Trace       []Step `json:"trace,omitempty"`
}

// tuner carries the fixed inputs of one run.
type tuner struct {
	profile  tier.Profile
	eval     sim.Evaluator
	trials   int
	seed     uint64
	opts     Options
	baseLoad float64
}

// TuneDiodes calibrates l for profile. Every evaluation uses the same seed so
// successive measurements differ only by the level. A nil opts selects
// [DefaultOptions]. Errors are returned only for invalid inputs.
func TuneDiodes(l *level.Level, profile tier.Profile, seed uint64, trials int, eval sim.Evaluator, opts *Options) (Result, error) {
	if err := l.Validate(); err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeInvalidLevel, err, "tune %s", l.ID)
	}
	if eval == nil {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "tuning needs an evaluator")
	}
	if trials <= 0 {
		return Result{}, errors.New(errors.ErrCodeInvalidInput, "trials must be positive, got %d", trials)
	}
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	if err := o.Validate(); err != nil {
		return Result{}, err
	}

	t := &tuner{profile: profile, eval: eval, trials: trials, seed: seed, opts: o}
	cur := l.Clone()
	baseline := t.measure(cur)
	t.baseLoad = baseline.CorridorLoad()
	res := Result{Level: cur, Baseline: baseline, Final: baseline, Trials: trials}

	switch {
	case profile.InBand(baseline.SuccessRate) && t.usageOK(cur, baseline):
		res.InBand, res.Reason = true, ReasonBaselineInBand
		return res, nil
	case profile.BelowBand(baseline.SuccessRate):
		res.Reason = ReasonBaselineBelowBand
		return res, nil
	}

	res.Reason = ReasonBudgetExhausted
	for res.Steps < o.MaxSteps && res.DiodesAdded < o.MaxDiodeSteps {
		res.Steps++
		m := t.measure(cur)
		if t.satisfied(cur, m) {
			res.Reason = ReasonInBand
			break
		}
		if profile.BelowBand(m.SuccessRate) {
			res.Reason = ReasonFellBelowBand
			break
		}
		next, step, ok := t.improve(cur)
		if !ok {
			res.Reason = ReasonNoCandidate
			break
		}
		cur = next
		res.DiodesAdded++
		res.Trace = append(res.Trace, step)
	}

	res.Level = cur
	res.Final = t.measure(cur)
	res.InBand = t.satisfied(cur, res.Final)
	if res.InBand {
		res.Reason = ReasonInBand
	}
	return res, nil
}

func (t *tuner) measure(l *level.Level) sim.Metrics {
	return t.eval.EvaluateDetailed(l, t.trials, t.seed)
}

// usageOK holds when the level has no diodes or successful play uses them
// often enough.
func (t *tuner) usageOK(l *level.Level, m sim.Metrics) bool {
	return l.DiodeCount() == 0 || m.DiodeUsageRate >= t.profile.MinDiodeUsage
}

func (t *tuner) loadOK(m sim.Metrics) bool {
	return m.CorridorLoad() <= t.baseLoad+t.opts.CorridorTolerance
}

func (t *tuner) satisfied(l *level.Level, m sim.Metrics) bool {
	return t.profile.InBand(m.SuccessRate) && t.usageOK(l, m) && t.loadOK(m)
}

// acceptable is the test every single diode change must pass.
func (t *tuner) acceptable(l *level.Level, m sim.Metrics) bool {
	return !t.profile.BelowBand(m.SuccessRate) && t.usageOK(l, m) && t.loadOK(m)
}

// improve tries the top-ranked candidates, BtoA before AtoB, and returns the
// first acceptable change.
func (t *tuner) improve(cur *level.Level) (*level.Level, Step, bool) {
	counts := t.eval.RunTrialsWithSuccessEdgeCounts(cur, t.trials, t.seed)
	cands := rank(cur, counts, t.profile.DiodeCapPerNode, t.opts.EndpointPenalty)
	for _, id := range cands[:min(len(cands), t.opts.CandidatesPerStep)] {
		for _, d := range []level.Diode{level.DiodeBtoA, level.DiodeAtoB} {
			next := cur.Clone()
			next.Edges[id].Diode = d
			m := t.measure(next)
			if t.acceptable(next, m) {
				return next, Step{EdgeID: id, Diode: d, SuccessRate: m.SuccessRate}, true
			}
		}
	}
	return nil, Step{}, false
}

type candidate struct {
	id    int
	score float64
}

// rank orders diode-free, ungated edges by how many successful trials crossed
// them, penalising edges next to an existing diode. Edges that would push an
// endpoint past capPerNode are dropped. Ties keep edge order.
func rank(l *level.Level, counts map[sim.DirectedEdge]int, capPerNode int, penalty float64) []int {
	deg := l.DiodeDegrees()
	loaded := mapset.New[int]()
	for v, d := range deg {
		if d > 0 {
			loaded.Put(v)
		}
	}

	var cands []candidate
	for _, e := range l.Edges {
		if e.HasDiode() || e.IsGated() || deg[e.A] >= capPerNode || deg[e.B] >= capPerNode {
			continue
		}
		score := float64(counts[sim.DirectedEdge{From: e.A, To: e.B}] + counts[sim.DirectedEdge{From: e.B, To: e.A}])
		if loaded.Has(e.A) || loaded.Has(e.B) {
			score -= penalty
		}
		cands = append(cands, candidate{id: e.ID, score: score})
	}
	slices.SortStableFunc(cands, func(a, b candidate) int { return cmp.Compare(b.score, a.score) })
	out := make([]int, len(cands))
	for i, c := range cands {
		out[i] = c.id
	}
	return out
}
