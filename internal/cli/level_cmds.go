package cli

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/circuitgen/pkg/geom"
	"github.com/matzehuels/circuitgen/pkg/pipeline"
	"github.com/matzehuels/circuitgen/pkg/sim"
)

// siblingPath returns path with suffix inserted before its extension.
func siblingPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

// =============================================================================
// tune
// =============================================================================

func (c *CLI) tuneCommand() *cobra.Command {
	var (
		tierName string
		seed     uint64
		trials   int
		output   string
		refresh  bool
	)

	cmd := &cobra.Command{
		Use:   "tune <level>",
		Short: "Add diodes to a level until it lands in its tier band",
		Long: `Tune an existing level file. Diodes are added one at a time along the
directions successful simulated players use most, until the success rate
falls inside the tier's target band. The input file is left untouched.`,
		Example: `  circuitgen tune level.json -t hard
  circuitgen tune level.yaml -t easy --trials 2000 -o easy.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := readLevelArg(args[0])
			if err != nil {
				return err
			}
			runner, cfg, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := pipeline.Options{Tier: tierName, Seed: seed, Trials: trials, Refresh: refresh, Config: cfg, Logger: c.Logger}
			spin := startStageSpinner(ctx, "Tuning diodes...")
			res, hit, err := runner.TuneWithCacheInfo(ctx, l, opts)
			spin.stop()
			if err != nil {
				return err
			}

			if output == "" {
				output = siblingPath(args[0], ".tuned")
			}
			if err := writeLevel(ctx, res.Level, output, nil); err != nil {
				return err
			}
			printSuccess("Tuned %s (%s)", l.ID, cacheLabel(hit))
			printKeyValue("Success", fmt.Sprintf("%.3f → %.3f (%d trials)", res.Baseline.SuccessRate, res.Final.SuccessRate, res.Trials))
			printKeyValue("Diodes", fmt.Sprintf("+%d in %d steps", res.DiodesAdded, res.Steps))
			printKeyValue("Diode use", fmt.Sprintf("%.2f", res.Final.DiodeUsageRate))
			if res.InBand {
				printKeyValue("Band", string(res.Reason))
			} else {
				printWarning("Not in band: %s", res.Reason)
			}
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&tierName, "tier", "t", pipeline.DefaultTier, "difficulty tier: easy, medium, hard")
	completeFlag(cmd, "tier", tierValues()...)
	cmd.Flags().Uint64VarP(&seed, "seed", "s", pipeline.DefaultSeed, "random seed for the simulated players")
	cmd.Flags().IntVar(&trials, "trials", 0, "Monte Carlo trials (default: tier profile)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <level>.tuned.<ext>)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results and recompute")

	return cmd
}

// =============================================================================
// snap
// =============================================================================

func (c *CLI) snapCommand() *cobra.Command {
	var (
		seed     uint64
		ringLike bool
		output   string
		refresh  bool
	)

	cmd := &cobra.Command{
		Use:   "snap <level>",
		Short: "Move a level's nodes onto a grid",
		Long: `Snap an existing level onto a regular or staggered grid. The grid size and
stagger are searched, nodes are assigned to cells, and a local search swaps
nodes while it reduces crossings, long edges and crowding. The layout is
never made worse than the first assignment.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := readLevelArg(args[0])
			if err != nil {
				return err
			}
			runner, cfg, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := pipeline.Options{Seed: seed, Refresh: refresh, Config: cfg, Logger: c.Logger}
			snapped, layout, hit, err := runner.SnapWithCacheInfo(ctx, l, ringLike, opts)
			if err != nil {
				return err
			}
			if output == "" {
				output = siblingPath(args[0], ".snapped")
			}
			if err := writeLevel(ctx, snapped, output, nil); err != nil {
				return err
			}
			printSuccess("Snapped %s (%s)", l.ID, cacheLabel(hit))
			printKeyValue("Grid", fmt.Sprintf("%dx%d staggered=%t", layout.Cols, layout.Rows, layout.Staggered))
			printKeyValue("Crossings", fmt.Sprintf("%d → %d", layout.Before.Crossings, layout.After.Crossings))
			printKeyValue("Cost", fmt.Sprintf("%.2f → %.2f", layout.Before.Total, layout.After.Total))
			printKeyValue("Attempts", fmt.Sprintf("%d", layout.Attempts))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().Uint64VarP(&seed, "seed", "s", pipeline.DefaultSeed, "random seed for the local search")
	cmd.Flags().BoolVar(&ringLike, "ring", false, "keep nodes in angular order (for ring layouts)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <level>.snapped.<ext>)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results and recompute")

	return cmd
}

// =============================================================================
// inspect
// =============================================================================

// inspection is the machine-readable form of inspect.
type inspection struct {
	LevelID  string       `json:"level_id"`
	Nodes    int          `json:"nodes"`
	Edges    int          `json:"edges"`
	Switches int          `json:"switches"`
	Gates    int          `json:"gates"`
	Diodes   int          `json:"diodes"`
	Layout   geom.Report  `json:"layout"`
	Solution sim.Solution `json:"solution"`
	Play     sim.Metrics  `json:"play"`
	Tier     string       `json:"tier"`
	InBand   bool         `json:"in_band"`
}

func (c *CLI) inspectCommand() *cobra.Command {
	var (
		tierName string
		seed     uint64
		trials   int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <level>",
		Short: "Print layout, solver and play-test diagnostics for a level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l, err := readLevelArg(args[0])
			if err != nil {
				return err
			}
			runner, cfg, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := pipeline.Options{Tier: tierName, Seed: seed, Trials: trials, Config: cfg, Logger: c.Logger}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			profile := opts.Profile()
			play := runner.Evaluator.EvaluateDetailed(l, opts.TrialsFor(l.N()), seed)
			in := inspection{
				LevelID:  l.ID,
				Nodes:    l.N(),
				Edges:    len(l.Edges),
				Switches: len(l.Switches()),
				Gates:    l.GateCount(),
				Diodes:   l.DiodeCount(),
				Layout:   geom.Inspect(l.Pairs(), l.Positions(), l.N(), cfg.Layout.Criteria()),
				Solution: runner.Solve(l, opts),
				Play:     play,
				Tier:     opts.Tier,
				InBand:   profile.InBand(play.SuccessRate),
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(in)
			}
			printInspection(in, profile.Lower(), profile.Upper())
			return nil
		},
	}

	cmd.Flags().StringVarP(&tierName, "tier", "t", pipeline.DefaultTier, "tier whose band the success rate is judged against")
	completeFlag(cmd, "tier", tierValues()...)
	cmd.Flags().Uint64VarP(&seed, "seed", "s", pipeline.DefaultSeed, "random seed for the simulated players")
	cmd.Flags().IntVar(&trials, "trials", 0, "Monte Carlo trials (default: tier profile)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")

	return cmd
}

func printInspection(in inspection, lo, hi float64) {
	printTitle(in.LevelID)
	printDetail("%d nodes · %d edges · %d switches · %d gates · %d diodes", in.Nodes, in.Edges, in.Switches, in.Gates, in.Diodes)
	printNewline()

	printTitle("Layout")
	printKeyValue("Crossings", fmt.Sprintf("%d", in.Layout.Crossings))
	printKeyValue("Min distance", fmt.Sprintf("%.3f", in.Layout.MinDistance))
	printKeyValue("Edge CV", fmt.Sprintf("%.3f", in.Layout.EdgeLengthCV))
	printKeyValue("Clearance", fmt.Sprintf("%.3f", in.Layout.MinClearance))
	printKeyValue("Min angle", fmt.Sprintf("%.1f°", in.Layout.MinAngle*180/math.Pi))
	printKeyValue("Score", fmt.Sprintf("%.3f", in.Layout.Score))
	printKeyValue("Accepted", fmt.Sprintf("%t", in.Layout.Accepted))
	printNewline()

	printTitle("Solver")
	count := fmt.Sprintf("%d", in.Solution.SolutionCount)
	if in.Solution.Capped {
		count += "+"
	}
	printKeyValue("Solvable", fmt.Sprintf("%t", in.Solution.Solvable))
	printKeyValue("Solutions", count)
	printKeyValue("Branching", fmt.Sprintf("%.2f", in.Solution.EarlyBranching))
	printKeyValue("Dead-end", fmt.Sprintf("%.2f", in.Solution.DeadEndDepthAvg))
	printNewline()

	printTitle("Play test")
	printKeyValue("Success", fmt.Sprintf("%.3f (band %.2f–%.2f, %s)", in.Play.SuccessRate, lo, hi, in.Tier))
	printKeyValue("Best start", fmt.Sprintf("%.3f", in.Play.BestStartSuccessRate))
	printKeyValue("Forced", fmt.Sprintf("%.3f", in.Play.ForcedRatio))
	printKeyValue("Corridors", fmt.Sprintf("%.3f", in.Play.CorridorVisualRatio))
	printKeyValue("Diode use", fmt.Sprintf("%.3f", in.Play.DiodeUsageRate))
	if in.InBand {
		printSuccess("In band")
	} else {
		printWarning("Outside the %s band", in.Tier)
	}
}
