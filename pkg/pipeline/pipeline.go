// Package pipeline runs the generate → snap → solve → tune pipeline.
//
// The CLI and batch tools share this package so every entry point applies
// the same defaults, seeds and cache keys.
//
// # Stages
//
//  1. Generate: build a level with one of the three generators
//  2. Snap (optional): move nodes onto a regular grid
//  3. Solve (optional): count one-stroke solutions with the exact solver
//  4. Tune (optional): add diodes until the success rate lands in the tier band
//
// Generate, snap and tune results are cached under keys that hash every
// option affecting them. Each stage draws from its own stream derived from
// the run seed, so enabling snap never changes what tune sees for the same
// generated level.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Generator: "backbone",
//	    Tier:      "hard",
//	    Seed:      42,
//	    Tune:      true,
//	})
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/circuitgen/pkg/cache"
	"github.com/matzehuels/circuitgen/pkg/config"
	"github.com/matzehuels/circuitgen/pkg/errors"
	"github.com/matzehuels/circuitgen/pkg/gen"
	"github.com/matzehuels/circuitgen/pkg/gridlayout"
	"github.com/matzehuels/circuitgen/pkg/level"
	"github.com/matzehuels/circuitgen/pkg/observability"
	"github.com/matzehuels/circuitgen/pkg/sim"
	"github.com/matzehuels/circuitgen/pkg/tier"
	"github.com/matzehuels/circuitgen/pkg/tuning"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultGenerator = string(gen.KindBackbone)
	DefaultTier      = "medium"
	DefaultSeed      = uint64(42)
)

// Stage streams, mixed into the run seed with rng.Derive.
const (
	streamSnap uint64 = iota + 1
	streamTune
	streamReseed
)

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run. The JSON form of the non-runtime
// fields is what batch manifests record.
type Options struct {
	Generator string `json:"generator"`
	Tier      string `json:"tier"`
	Seed      uint64 `json:"seed"`
	NodeMin   int    `json:"node_min,omitempty"`
	NodeMax   int    `json:"node_max,omitempty"`
	// LevelID overrides the derived UUID.
	LevelID string `json:"level_id,omitempty"`

	Snap  bool `json:"snap,omitempty"`
	Solve bool `json:"solve,omitempty"`
	Tune  bool `json:"tune,omitempty"`
	// Trials overrides the tier's Monte Carlo trial count.
	Trials int `json:"trials,omitempty"`

	// Runtime options (not serialized)
	Refresh bool                        `json:"-"`
	Config  *config.Config              `json:"-"`
	Logger  *log.Logger                 `json:"-"`
	Hooks   observability.TemplateHooks `json:"-"`

	kind      gen.Kind
	tier      tier.Tier
	validated bool
}

// ValidateAndSetDefaults parses names and fills defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Generator == "" {
		o.Generator = DefaultGenerator
	}
	if o.Tier == "" {
		o.Tier = DefaultTier
	}
	k, err := gen.ParseKind(o.Generator)
	if err != nil {
		return err
	}
	t, err := tier.Parse(o.Tier)
	if err != nil {
		return err
	}
	o.kind, o.tier = k, t
	o.Generator, o.Tier = string(k), t.String()
	if o.Trials < 0 {
		return fmt.Errorf("trials cannot be negative")
	}
	if o.LevelID != "" {
		if err := errors.ValidateLevelID(o.LevelID); err != nil {
			return err
		}
	}
	if o.Config == nil {
		o.Config = config.Default()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Profile returns the tier profile in effect.
func (o *Options) Profile() tier.Profile { return o.Config.Profile(o.tier) }

// ID returns the level id: LevelID when set, otherwise a name-based UUID of
// generator, tier and seed, so reruns reproduce the same id.
func (o *Options) ID() string {
	if o.LevelID != "" {
		return o.LevelID
	}
	name := fmt.Sprintf("%s/%s/%d", o.Generator, o.Tier, o.Seed)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

// Params returns the generator parameters.
func (o *Options) Params() gen.Params {
	profile := o.Profile()
	layout := o.Config.Layout
	return gen.Params{
		Tier:     o.tier,
		Profile:  &profile,
		NodeMin:  o.NodeMin,
		NodeMax:  o.NodeMax,
		MaxNodes: o.Config.Solver.MaxNodes,
		LevelID:  o.ID(),
		Layout:   &layout,
		Hooks:    o.Hooks,
	}
}

// TrialsFor returns the trial count for a level with n nodes.
func (o *Options) TrialsFor(n int) int {
	if o.Trials > 0 {
		return o.Trials
	}
	return o.Profile().TrialsFor(n)
}

// LevelKeyOpts returns the cache key inputs of the generate stage.
func (o *Options) LevelKeyOpts() cache.LevelKeyOpts {
	hash := cache.HashJSON(struct {
		ID      string            `json:"id"`
		Profile tier.Profile      `json:"profile"`
		Layout  gen.LayoutOptions `json:"layout"`
		Max     int               `json:"max_nodes"`
	}{o.ID(), o.Profile(), o.Config.Layout, o.Config.Solver.MaxNodes})
	return cache.LevelKeyOpts{
		Generator:  o.Generator,
		Tier:       o.Tier,
		Seed:       o.Seed,
		NodeMin:    o.NodeMin,
		NodeMax:    o.NodeMax,
		ConfigHash: hash,
	}
}

// SnapKeyOpts returns the cache key inputs of the snap stage.
func (o *Options) SnapKeyOpts() cache.SnapKeyOpts {
	return cache.SnapKeyOpts{Seed: o.Seed, ConfigHash: cache.HashJSON(o.Config.Grid)}
}

// TuneKeyOpts returns the cache key inputs of the tune stage.
func (o *Options) TuneKeyOpts(trials int) cache.TuneKeyOpts {
	hash := cache.HashJSON(struct {
		Profile tier.Profile   `json:"profile"`
		Tuning  tuning.Options `json:"tuning"`
	}{o.Profile(), o.Config.Tuning})
	return cache.TuneKeyOpts{Tier: o.Tier, Seed: o.Seed, Trials: trials, ConfigHash: hash}
}

// =============================================================================
// Results
// =============================================================================

// Result is everything one run produced.
type Result struct {
	// Level is the final level: tuned if tuning ran, else snapped if
	// snapping ran, else as generated.
	Level      *level.Level       `json:"level"`
	Generation *gen.Result        `json:"generation"`
	Snap       *gridlayout.Result `json:"snap,omitempty"`
	Solution   *sim.Solution      `json:"solution,omitempty"`
	Tuning     *tuning.Result     `json:"tuning,omitempty"`
	Seed       uint64             `json:"seed"`
	Stats      Stats              `json:"stats"`
	CacheInfo  CacheInfo          `json:"cache"`
}

// InBand reports whether tuning ran and landed in the tier band.
func (r *Result) InBand() bool { return r.Tuning != nil && r.Tuning.InBand }

// Stats holds per-stage wall-clock timings.
type Stats struct {
	NodeCount    int           `json:"nodes"`
	EdgeCount    int           `json:"edges"`
	GenerateTime time.Duration `json:"generate_ns"`
	SnapTime     time.Duration `json:"snap_ns"`
	SolveTime    time.Duration `json:"solve_ns"`
	TuneTime     time.Duration `json:"tune_ns"`
}

// CacheInfo tracks which stages were served from the cache.
type CacheInfo struct {
	LevelHit bool `json:"level_hit"`
	SnapHit  bool `json:"snap_hit"`
	TuneHit  bool `json:"tune_hit"`
}

// snapRecord is the cached form of the snap stage.
type snapRecord struct {
	Level  *level.Level      `json:"level"`
	Layout gridlayout.Result `json:"layout"`
}
