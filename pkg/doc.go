// Package pkg holds the libraries behind circuitgen, a level generator for a
// one-stroke circuit puzzle: the player lights every bulb by tracing a single
// path that visits each node exactly once. Diodes make edges one-way,
// switches toggle gated edges, and the difficulty of a level is its success
// rate under simulated random play.
//
// # Data Flow
//
//	seed, tier
//	    ↓
//	[gen]         backbone-first, template or grid-range topology
//	    ↓
//	[gridlayout]  optional snap onto a regular or staggered grid
//	    ↓
//	[sim]         exact solution count and Monte Carlo play test
//	    ↓
//	[tuning]      diodes added until the success rate is in the tier band
//	    ↓
//	[level]       JSON / YAML, or [render/nodelink] for DOT, SVG, PNG, PDF
//
// [pipeline] strings the stages together with per-stage caching so the CLI,
// batch runs and tests share one code path.
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Generator: "backbone",
//	    Tier:      "hard",
//	    Seed:      7,
//	    Snap:      true,
//	    Tune:      true,
//	})
//	if err != nil {
//	    return err
//	}
//	_ = level.WriteFile(res.Level, "hard-7.json")
//
// # Packages
//
// Model and math:
//
//   - [level]: nodes, edges, diodes, switches and gates, plus validation and codecs
//   - [geom]: crossings, clearance, angles and the aesthetic score
//   - [templates]: slot layouts (rings, stars, ladders, grids...)
//   - [tier]: per-tier profiles: node range, target band, trials, diode policy
//   - [rng]: seeded PCG streams; nothing reads a global source
//
// Generation and evaluation:
//
//   - [gen]: the three topology generators and the shared layout loop
//   - [gridlayout]: grid placement with crossing-aware local search
//   - [sim/pathsolver]: bounded exhaustive solution counter
//   - [sim/montecarlo]: random-player simulation with per-edge usage counts
//   - [tuning]: the diode tuning loop
//
// Infrastructure:
//
//   - [pipeline]: staged execution, batch mode and export
//   - [cache]: file, Redis and no-op stage caches with hashed keys
//   - [config]: TOML overrides for every tunable value
//   - [observability]: hooks for template attempts and pipeline stages
//   - [errors]: coded errors shared across packages
//   - [render], [render/nodelink]: Graphviz drawing and SVG conversion
//   - [buildinfo]: version stamping
//
// [level]: https://pkg.go.dev/github.com/matzehuels/circuitgen/pkg/level
// [geom]: https://pkg.go.dev/github.com/matzehuels/circuitgen/pkg/geom
// [templates]: https://pkg.go.dev/github.com/matzehuels/circuitgen/pkg/templates
// [tier]: https://pkg.go.dev/github.com/matzehuels/circuitgen/pkg/tier
// [rng]: https://pkg.go.dev/github.com/matzehuels/circuitgen/pkg/rng
// [gen]: https://pkg.go.dev/github.com/matzehuels/circuitgen/pkg/gen
// [gridlayout]: https://pkg.go.dev/github.com/matzehuels/circuitgen/pkg/gridlayout
// [sim]: https://pkg.go.dev/github.com/matzehuels/circuitgen/pkg/sim
// [sim/pathsolver]: https://pkg.go.dev/github.com/matzehuels/circuitgen/pkg/sim/pathsolver
// [sim/montecarlo]: https://pkg.go.dev/github.com/matzehuels/circuitgen/pkg/sim/montecarlo
// [tuning]: https://pkg.go.dev/github.com/matzehuels/circuitgen/pkg/tuning
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/circuitgen/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/circuitgen/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/circuitgen/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/circuitgen/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/circuitgen/pkg/errors
// [render]: https://pkg.go.dev/github.com/matzehuels/circuitgen/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/circuitgen/pkg/render/nodelink
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/circuitgen/pkg/buildinfo
package pkg
