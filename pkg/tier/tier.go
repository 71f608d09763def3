// Package tier defines difficulty tiers and the profile table that drives
// generation and tuning for each tier: node-count range, target success-rate
// band, Monte Carlo trial counts, structural caps and diode policy.
package tier

import (
	"fmt"
	"strings"

	"github.com/matzehuels/circuitgen/pkg/errors"
)

// Tier is a difficulty level.
type Tier int

const (
	Easy Tier = iota
	Medium
	Hard
)

// All lists every tier in ascending difficulty.
var All = []Tier{Easy, Medium, Hard}

var tierNames = [...]string{"easy", "medium", "hard"}

func (t Tier) String() string {
	if t < 0 || int(t) >= len(tierNames) {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierNames[t]
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tier) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Parse converts a case-insensitive tier name into a Tier.
func Parse(s string) (Tier, error) {
	for i, name := range tierNames {
		if strings.EqualFold(s, name) {
			return Tier(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidTier, "unknown tier %q (must be one of: easy, medium, hard)", s)
}

// inBandEpsilon absorbs floating error at the band edges.
const inBandEpsilon = 1e-9

// Profile is the per-tier policy table row.
type Profile struct {
	NodeMin int `toml:"node_min" json:"node_min"`
	NodeMax int `toml:"node_max" json:"node_max"`

	// Target ± Band is the success-rate window a tuned level must land in.
	Target float64 `toml:"target" json:"target"`
	Band   float64 `toml:"band" json:"band"`

	// Trials is the Monte Carlo trial count. SmallTrials replaces it for
	// levels with at most SmallNodeLimit nodes, where variance is higher.
	Trials         int `toml:"trials" json:"trials"`
	SmallTrials    int `toml:"small_trials" json:"small_trials"`
	SmallNodeLimit int `toml:"small_node_limit" json:"small_node_limit"`

	// DegreeMin–DegreeMax is the target average degree band for decoys.
	DegreeMin float64 `toml:"degree_min" json:"degree_min"`
	DegreeMax float64 `toml:"degree_max" json:"degree_max"`
	DegreeCap int     `toml:"degree_cap" json:"degree_cap"`
	// HubCap limits how many nodes may reach DegreeCap.
	HubCap int `toml:"hub_cap" json:"hub_cap"`

	Switches int `toml:"switches" json:"switches"`

	DiodeMin        int     `toml:"diode_min" json:"diode_min"`
	DiodeMax        int     `toml:"diode_max" json:"diode_max"`
	DiodeCapPerNode int     `toml:"diode_cap_per_node" json:"diode_cap_per_node"`
	MinDiodeUsage   float64 `toml:"min_diode_usage" json:"min_diode_usage"`
}

// Lower returns the band's lower edge.
func (p Profile) Lower() float64 { return p.Target - p.Band }

// Upper returns the band's upper edge.
func (p Profile) Upper() float64 { return p.Target + p.Band }

// InBand reports whether rate lies in [Target-Band, Target+Band].
func (p Profile) InBand(rate float64) bool {
	return rate >= p.Lower()-inBandEpsilon && rate <= p.Upper()+inBandEpsilon
}

// BelowBand reports whether rate is under the band's lower edge.
func (p Profile) BelowBand(rate float64) bool {
	return rate < p.Lower()-inBandEpsilon
}

// TrialsFor returns the trial count for a level with n nodes.
func (p Profile) TrialsFor(n int) int {
	if n <= p.SmallNodeLimit && p.SmallTrials > 0 {
		return p.SmallTrials
	}
	return p.Trials
}

// Validate checks that the profile is internally consistent.
func (p Profile) Validate() error {
	switch {
	case p.NodeMin < 2 || p.NodeMax < p.NodeMin:
		return errors.New(errors.ErrCodeInvalidConfig, "node range [%d,%d] is invalid", p.NodeMin, p.NodeMax)
	case p.Target <= 0 || p.Target >= 1 || p.Band < 0 || p.Lower() < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "target band %.3f±%.3f is invalid", p.Target, p.Band)
	case p.Trials <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "trials must be positive")
	case p.DegreeCap < 2:
		return errors.New(errors.ErrCodeInvalidConfig, "degree cap must be at least 2")
	case p.DegreeMax < p.DegreeMin:
		return errors.New(errors.ErrCodeInvalidConfig, "degree band [%.2f,%.2f] is invalid", p.DegreeMin, p.DegreeMax)
	case p.DiodeMin < 0 || p.DiodeMax < p.DiodeMin:
		return errors.New(errors.ErrCodeInvalidConfig, "diode range [%d,%d] is invalid", p.DiodeMin, p.DiodeMax)
	case p.DiodeCapPerNode < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "diode cap per node must be positive")
	}
	return nil
}

// Table maps every tier to its profile.
type Table map[Tier]Profile

// DefaultTable returns the built-in profiles.
func DefaultTable() Table {
	return Table{
		Easy: {
			NodeMin: 4, NodeMax: 12,
			Target: 0.50, Band: 0.05,
			Trials: 400, SmallTrials: 1200, SmallNodeLimit: 10,
			DegreeMin: 2.2, DegreeMax: 2.6, DegreeCap: 4, HubCap: 1,
			Switches: 0,
			DiodeMin: 0, DiodeMax: 1, DiodeCapPerNode: 2, MinDiodeUsage: 0.20,
		},
		Medium: {
			NodeMin: 10, NodeMax: 18,
			Target: 0.30, Band: 0.05,
			Trials: 400, SmallTrials: 1200, SmallNodeLimit: 10,
			DegreeMin: 2.5, DegreeMax: 2.9, DegreeCap: 4, HubCap: 1,
			Switches: 1,
			DiodeMin: 1, DiodeMax: 2, DiodeCapPerNode: 2, MinDiodeUsage: 0.30,
		},
		Hard: {
			NodeMin: 16, NodeMax: 25,
			Target: 0.10, Band: 0.02,
			Trials: 600, SmallTrials: 1200, SmallNodeLimit: 10,
			DegreeMin: 2.8, DegreeMax: 3.2, DegreeCap: 4, HubCap: 2,
			Switches: 2,
			DiodeMin: 2, DiodeMax: 4, DiodeCapPerNode: 4, MinDiodeUsage: 0.40,
		},
	}
}

// Profile returns the profile for t, falling back to the built-in default
// when the table has no entry.
func (tb Table) Profile(t Tier) Profile {
	if p, ok := tb[t]; ok {
		return p
	}
	return DefaultTable()[t]
}

// Validate checks every profile in the table.
func (tb Table) Validate() error {
	for _, t := range All {
		if err := tb.Profile(t).Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "tier %s", t)
		}
	}
	return nil
}
