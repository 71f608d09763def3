package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/circuitgen/pkg/cache"
	"github.com/matzehuels/circuitgen/pkg/gen"
	"github.com/matzehuels/circuitgen/pkg/gridlayout"
	"github.com/matzehuels/circuitgen/pkg/level"
	"github.com/matzehuels/circuitgen/pkg/observability"
	"github.com/matzehuels/circuitgen/pkg/rng"
	"github.com/matzehuels/circuitgen/pkg/sim"
	"github.com/matzehuels/circuitgen/pkg/sim/montecarlo"
	"github.com/matzehuels/circuitgen/pkg/sim/pathsolver"
	"github.com/matzehuels/circuitgen/pkg/templates"
	"github.com/matzehuels/circuitgen/pkg/tuning"
)

// Runner executes pipeline stages with caching.
//
// A Runner holds no per-run state; one runner may serve concurrent
// Execute calls with different options.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger
	Evaluator sim.Evaluator
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// selects the default keyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
		Evaluator: montecarlo.New(),
	}
}

// Execute runs every enabled stage.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	res := &Result{Seed: opts.Seed}

	// Stage 1: Generate
	start := time.Now()
	g, hit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	res.Generation = g
	res.Level = g.Level
	res.Stats.GenerateTime = time.Since(start)
	res.Stats.NodeCount = g.Level.N()
	res.Stats.EdgeCount = len(g.Level.Edges)
	res.CacheInfo.LevelHit = hit
	r.Logger.Info("generated level",
		"generator", opts.Generator,
		"tier", opts.Tier,
		"nodes", res.Stats.NodeCount,
		"edges", res.Stats.EdgeCount,
		"template", g.Template,
		"fallback", g.Fallback,
		"duration", res.Stats.GenerateTime)

	// Stage 2: Snap
	if opts.Snap {
		start = time.Now()
		snapped, layout, hit, err := r.SnapWithCacheInfo(ctx, res.Level, templates.RingLike(g.Template), opts)
		if err != nil {
			return nil, fmt.Errorf("snap: %w", err)
		}
		res.Level, res.Snap = snapped, layout
		res.Stats.SnapTime = time.Since(start)
		res.CacheInfo.SnapHit = hit
		r.Logger.Info("snapped to grid",
			"grid", fmt.Sprintf("%dx%d", layout.Cols, layout.Rows),
			"staggered", layout.Staggered,
			"cost", fmt.Sprintf("%.2f→%.2f", layout.Before.Total, layout.After.Total),
			"duration", res.Stats.SnapTime)
	}

	// Stage 3: Solve
	if opts.Solve {
		start = time.Now()
		sol := r.Solve(res.Level, opts)
		res.Solution = &sol
		res.Stats.SolveTime = time.Since(start)
		r.Logger.Info("solved",
			"solvable", sol.Solvable,
			"solutions", sol.SolutionCount,
			"capped", sol.Capped,
			"duration", res.Stats.SolveTime)
	}

	// Stage 4: Tune
	if opts.Tune {
		start = time.Now()
		tr, hit, err := r.TuneWithCacheInfo(ctx, res.Level, opts)
		if err != nil {
			return nil, fmt.Errorf("tune: %w", err)
		}
		res.Level, res.Tuning = tr.Level, tr
		res.Stats.TuneTime = time.Since(start)
		res.CacheInfo.TuneHit = hit
		r.Logger.Info("tuned",
			"in_band", tr.InBand,
			"reason", tr.Reason,
			"success", fmt.Sprintf("%.3f→%.3f", tr.Baseline.SuccessRate, tr.Final.SuccessRate),
			"diodes_added", tr.DiodesAdded,
			"duration", res.Stats.TuneTime)
	}
	return res, nil
}

// GenerateWithCacheInfo builds the level and reports whether it came from
// the cache.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (*gen.Result, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.LevelKey(opts.LevelKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached gen.Result
			if err := json.Unmarshal(data, &cached); err == nil && cached.Level != nil {
				return &cached, true, nil
			}
		}
	}

	g, err := gen.New(opts.kind)
	if err != nil {
		return nil, false, err
	}
	hooks := observability.Pipeline()
	hooks.OnGenerateStart(ctx, opts.Generator, opts.Tier, opts.Seed)
	start := time.Now()
	res, err := g.Generate(opts.Params(), opts.Seed)
	if err == nil {
		err = res.Level.Validate()
	}
	if err != nil {
		hooks.OnGenerateComplete(ctx, opts.Generator, 0, false, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnGenerateComplete(ctx, opts.Generator, res.Level.N(), res.Fallback, time.Since(start), nil)

	if data, err := json.Marshal(res); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLLevel)
	}
	return res, false, nil
}

// SnapWithCacheInfo places l on a grid. The input level is not modified.
func (r *Runner) SnapWithCacheInfo(ctx context.Context, l *level.Level, ringLike bool, opts Options) (*level.Level, *gridlayout.Result, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, false, err
	}
	key := r.Keyer.SnapKey(levelHash(l), opts.SnapKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var rec snapRecord
			if err := json.Unmarshal(data, &rec); err == nil && rec.Level != nil {
				return rec.Level, &rec.Layout, true, nil
			}
		}
	}

	hooks := observability.Pipeline()
	hooks.OnSnapStart(ctx, l.N())
	start := time.Now()
	grid := opts.Config.Grid
	grid.RingLike = ringLike
	layout, err := gridlayout.Place(l.Pairs(), l.Positions(), rng.New(rng.Derive(opts.Seed, streamSnap)), &grid)
	if err != nil {
		return nil, nil, false, err
	}
	hooks.OnSnapComplete(ctx, layout.Improved(), time.Since(start))

	out := l.Clone()
	out.SetPositions(layout.Positions)
	if data, err := json.Marshal(snapRecord{Level: out, Layout: layout}); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLSnap)
	}
	return out, &layout, false, nil
}

// Solve runs the exact solver with the configured budgets.
func (r *Runner) Solve(l *level.Level, opts Options) sim.Solution {
	_ = opts.ValidateAndSetDefaults()
	solver := opts.Config.Solver
	return pathsolver.New(&solver).Solve(l)
}

// TuneWithCacheInfo tunes l toward the tier band. The input level is not
// modified.
func (r *Runner) TuneWithCacheInfo(ctx context.Context, l *level.Level, opts Options) (*tuning.Result, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	trials := opts.TrialsFor(l.N())
	key := r.Keyer.TuneKey(levelHash(l), opts.TuneKeyOpts(trials))
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached tuning.Result
			if err := json.Unmarshal(data, &cached); err == nil && cached.Level != nil {
				return &cached, true, nil
			}
		}
	}

	hooks := observability.Pipeline()
	hooks.OnTuneStart(ctx, opts.Tier, trials)
	start := time.Now()
	tunOpts := opts.Config.Tuning
	res, err := tuning.TuneDiodes(l, opts.Profile(), rng.Derive(opts.Seed, streamTune), trials, r.Evaluator, &tunOpts)
	if err != nil {
		return nil, false, err
	}
	hooks.OnTuneComplete(ctx, res.InBand, res.DiodesAdded, time.Since(start))
	opts.Logger.Debug("tuning trace", "steps", res.Steps, "trace", len(res.Trace))

	if data, err := json.Marshal(res); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLTune)
	}
	return &res, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// levelHash hashes a level's JSON encoding.
func levelHash(l *level.Level) string {
	var buf bytes.Buffer
	if err := level.WriteJSON(l, &buf); err != nil {
		return cache.Hash([]byte(l.ID))
	}
	return cache.Hash(buf.Bytes())
}
