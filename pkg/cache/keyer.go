package cache

import "fmt"

// LevelKeyOpts identifies a generated level.
type LevelKeyOpts struct {
	Generator string `json:"generator"`
	Tier      string `json:"tier"`
	Seed      uint64 `json:"seed"`
	NodeMin   int    `json:"node_min"`
	NodeMax   int    `json:"node_max"`
	// ConfigHash covers the tier profile and layout options.
	ConfigHash string `json:"config_hash"`
}

// SnapKeyOpts identifies a grid snap of a level.
type SnapKeyOpts struct {
	Seed       uint64 `json:"seed"`
	ConfigHash string `json:"config_hash"`
}

// TuneKeyOpts identifies a tuning run on a level.
type TuneKeyOpts struct {
	Tier       string `json:"tier"`
	Seed       uint64 `json:"seed"`
	Trials     int    `json:"trials"`
	ConfigHash string `json:"config_hash"`
}

// Keyer builds cache keys for each pipeline stage.
type Keyer interface {
	LevelKey(opts LevelKeyOpts) string
	SnapKey(levelHash string, opts SnapKeyOpts) string
	TuneKey(levelHash string, opts TuneKeyOpts) string
}

// DefaultKeyer prefixes each key with its stage name.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LevelKey returns "level:<generator>:<tier>:<hash>".
func (DefaultKeyer) LevelKey(opts LevelKeyOpts) string {
	return hashKey(fmt.Sprintf("level:%s:%s", opts.Generator, opts.Tier), opts)
}

// SnapKey returns "snap:<hash>".
func (DefaultKeyer) SnapKey(levelHash string, opts SnapKeyOpts) string {
	return hashKey("snap", levelHash, opts)
}

// TuneKey returns "tune:<tier>:<hash>".
func (DefaultKeyer) TuneKey(levelHash string, opts TuneKeyOpts) string {
	return hashKey("tune:"+opts.Tier, levelHash, opts)
}

var _ Keyer = DefaultKeyer{}
