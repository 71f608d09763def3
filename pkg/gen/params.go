package gen

import (
	"fmt"

	"github.com/matzehuels/circuitgen/pkg/errors"
	"github.com/matzehuels/circuitgen/pkg/geom"
	"github.com/matzehuels/circuitgen/pkg/level"
	"github.com/matzehuels/circuitgen/pkg/observability"
	"github.com/matzehuels/circuitgen/pkg/tier"
)

// DefaultMaxNodes is the largest level the reference solver supports.
const DefaultMaxNodes = 25

// Kind names a generator strategy.
type Kind string

const (
	KindBackbone Kind = "backbone"
	KindGrid     Kind = "grid"
	KindTemplate Kind = "template"
)

// Kinds lists every strategy.
var Kinds = []Kind{KindBackbone, KindGrid, KindTemplate}

// ParseKind validates a generator name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidGenerator, "unknown generator %q (must be one of: backbone, grid, template)", s)
}

// Generator produces a complete level for a seed.
type Generator interface {
	Kind() Kind
	Generate(p Params, seed uint64) (*Result, error)
}

// New returns the generator for kind.
func New(kind Kind) (Generator, error) {
	switch kind {
	case KindBackbone:
		return BackboneFirst{}, nil
	case KindGrid:
		return GridRange{}, nil
	case KindTemplate:
		return TemplateBased{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidGenerator, "unknown generator %q", kind)
}

// LayoutOptions bounds the layout retry loop and the attribute retries.
type LayoutOptions struct {
	Attempts         int     `toml:"attempts" json:"attempts"`
	MaxCrossings     int     `toml:"max_crossings" json:"max_crossings"`
	MinDistanceScale float64 `toml:"min_distance_scale" json:"min_distance_scale"`
	MaxEdgeLengthCV  float64 `toml:"max_edge_length_cv" json:"max_edge_length_cv"`
	DistanceFloor    float64 `toml:"distance_floor" json:"distance_floor"`
	// Jitter is the largest node displacement as a fraction of the average
	// edge length.
	Jitter float64 `toml:"jitter" json:"jitter"`
	// FallbackJitter is the fallback ring's displacement as a fraction of its
	// radius.
	FallbackJitter float64 `toml:"fallback_jitter" json:"fallback_jitter"`
	GateRetries    int     `toml:"gate_retries" json:"gate_retries"`
	// SwapSteps bounds the slot-swap search run on each proposal that fails
	// acceptance.
	SwapSteps int `toml:"swap_steps" json:"swap_steps"`
	// DecoySpan is the largest id distance |a-b| of a backbone-first decoy
	// edge. Zero lifts the limit.
	DecoySpan int `toml:"decoy_span" json:"decoy_span"`
}

// DefaultLayoutOptions returns the built-in layout budget.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		Attempts:         40,
		MaxCrossings:     2,
		MinDistanceScale: 0.30,
		MaxEdgeLengthCV:  geom.DefaultCriteria.MaxEdgeLengthCV,
		DistanceFloor:    geom.DefaultCriteria.DistanceFloor,
		Jitter:           0.08,
		FallbackJitter:   0.05,
		GateRetries:      12,
		SwapSteps:        150,
		DecoySpan:        2,
	}
}

// Criteria returns the acceptance thresholds the layout loop applies.
func (o LayoutOptions) Criteria() geom.Criteria {
	return geom.Criteria{
		MaxCrossings:     o.MaxCrossings,
		MinDistanceScale: o.MinDistanceScale,
		MaxEdgeLengthCV:  o.MaxEdgeLengthCV,
		DistanceFloor:    o.DistanceFloor,
	}
}

// Validate rejects budgets that would make a loop unbounded or meaningless.
func (o LayoutOptions) Validate() error {
	switch {
	case o.Attempts < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "layout attempts must be positive")
	case o.MaxCrossings < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "max crossings cannot be negative")
	case o.GateRetries < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "gate retries must be positive")
	case o.Jitter < 0 || o.FallbackJitter < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "jitter cannot be negative")
	case o.SwapSteps < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "swap steps cannot be negative")
	case o.DecoySpan == 1 || o.DecoySpan < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "decoy span must be 0 or at least 2")
	}
	return nil
}

// Params configures one generation call. Zero values select defaults.
type Params struct {
	Tier tier.Tier
	// Profile overrides the tier's built-in profile.
	Profile *tier.Profile
	// NodeMin and NodeMax narrow the profile's node range.
	NodeMin, NodeMax int
	// MaxNodes is the solver limit every level must respect.
	MaxNodes int
	LevelID  string
	Layout   *LayoutOptions
	// Hooks observes the layout loop; nil disables telemetry.
	Hooks observability.TemplateHooks
}

// resolved is Params with every default filled in.
type resolved struct {
	tier    tier.Tier
	profile tier.Profile
	lo, hi  int
	layout  LayoutOptions
	hooks   observability.TemplateHooks
	levelID string
}

func (p Params) resolve(kind Kind, seed uint64) (resolved, error) {
	r := resolved{tier: p.Tier, hooks: p.Hooks, layout: DefaultLayoutOptions()}
	if p.Profile != nil {
		r.profile = *p.Profile
	} else {
		r.profile = tier.DefaultTable().Profile(p.Tier)
	}
	if err := r.profile.Validate(); err != nil {
		return r, err
	}
	if p.Layout != nil {
		r.layout = *p.Layout
	}
	if err := r.layout.Validate(); err != nil {
		return r, err
	}
	if r.hooks == nil {
		r.hooks = observability.NoopTemplateHooks{}
	}

	r.lo, r.hi = r.profile.NodeMin, r.profile.NodeMax
	if p.NodeMin > 0 {
		r.lo = p.NodeMin
	}
	if p.NodeMax > 0 {
		r.hi = p.NodeMax
	}
	limit := p.MaxNodes
	if limit <= 0 {
		limit = DefaultMaxNodes
	}
	if err := errors.ValidateNodeRange(r.lo, r.hi, limit); err != nil {
		return r, err
	}

	r.levelID = p.LevelID
	if r.levelID == "" {
		r.levelID = fmt.Sprintf("%s-%s-%d", kind, p.Tier, seed)
	}
	return r, nil
}

// Result is a generated level plus how it was produced.
type Result struct {
	Level     *level.Level `json:"level"`
	Generator Kind         `json:"generator"`
	// Template names the layout template or graph the level was built from.
	Template string `json:"template"`
	// Fallback is set when the layout loop ran out of attempts and the
	// positions were not validated.
	Fallback bool `json:"fallback"`
	Attempts int  `json:"attempts"`
	// Backbone is a Hamiltonian path through the edge set, by node id.
	Backbone []int         `json:"backbone"`
	Criteria geom.Criteria `json:"criteria"`
	Layout   geom.Report   `json:"layout"`
}

func newResult(kind Kind, l *level.Level, pl placement, backbone []int, c geom.Criteria) *Result {
	return &Result{
		Level:     l,
		Generator: kind,
		Template:  pl.template,
		Fallback:  pl.fallback,
		Attempts:  pl.attempts,
		Backbone:  backbone,
		Criteria:  c,
		Layout:    geom.Inspect(l.Pairs(), l.Positions(), l.N(), c),
	}
}

func identityOrder(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
