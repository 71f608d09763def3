package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/circuitgen/pkg/rng"
)

// BatchOptions configures [Runner.Batch].
type BatchOptions struct {
	// Base is applied to every level; its Seed is the first seed.
	Base  Options
	Count int
	// Reseed is how many extra seeds a slot may try when tuning misses the
	// band. Zero keeps the first attempt whatever its outcome.
	Reseed int
}

// BatchStats summarises a batch.
type BatchStats struct {
	Levels    int `json:"levels"`
	InBand    int `json:"in_band"`
	Reseeded  int `json:"reseeded"`
	Fallbacks int `json:"fallbacks"`
	CacheHits int `json:"cache_hits"`
}

// Batch runs Count consecutive seeds starting at Base.Seed. Slot i uses seed
// Base.Seed+i; when tuning misses the band and Reseed allows, the slot is
// retried with seeds derived from that value. fn, if not nil, is called
// with each finished slot in order; returning an error stops the batch.
func (r *Runner) Batch(ctx context.Context, opts BatchOptions, fn func(i int, res *Result) error) ([]*Result, BatchStats, error) {
	var stats BatchStats
	if opts.Count <= 0 {
		return nil, stats, fmt.Errorf("batch count must be positive")
	}
	if opts.Reseed < 0 {
		return nil, stats, fmt.Errorf("reseed cannot be negative")
	}
	r.applyLogger(&opts.Base)
	if err := opts.Base.ValidateAndSetDefaults(); err != nil {
		return nil, stats, fmt.Errorf("invalid options: %w", err)
	}

	results := make([]*Result, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		slotSeed := opts.Base.Seed + uint64(i)
		var res *Result
		for attempt := 0; attempt <= opts.Reseed; attempt++ {
			if err := ctx.Err(); err != nil {
				return results, stats, err
			}
			run := opts.Base
			run.Seed = slotSeed
			if attempt > 0 {
				run.Seed = rng.Derive(slotSeed, streamReseed+uint64(attempt))
				stats.Reseeded++
			}
			var err error
			res, err = r.Execute(ctx, run)
			if err != nil {
				return results, stats, fmt.Errorf("seed %d: %w", run.Seed, err)
			}
			if !run.Tune || res.InBand() {
				break
			}
			r.Logger.Warn("missed band", "slot", i, "seed", run.Seed, "attempt", attempt)
		}

		stats.Levels++
		if res.InBand() {
			stats.InBand++
		}
		if res.Generation.Fallback {
			stats.Fallbacks++
		}
		if res.CacheInfo.LevelHit {
			stats.CacheHits++
		}
		results = append(results, res)
		if fn != nil {
			if err := fn(i, res); err != nil {
				return results, stats, err
			}
		}
	}
	return results, stats, nil
}
