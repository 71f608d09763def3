package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/circuitgen/pkg/errors"
	"github.com/matzehuels/circuitgen/pkg/pipeline"
)

// generateOpts holds the flags shared by generate and batch.
type generateOpts struct {
	generator string
	tier      string
	seed      uint64
	nodeMin   int
	nodeMax   int
	snap      bool
	solve     bool
	tune      bool
	trials    int
	refresh   bool
}

func (o *generateOpts) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.generator, "generator", "g", pipeline.DefaultGenerator, "generator: backbone, template, grid")
	f.StringVarP(&o.tier, "tier", "t", pipeline.DefaultTier, "difficulty tier: easy, medium, hard")
	f.Uint64VarP(&o.seed, "seed", "s", pipeline.DefaultSeed, "random seed")
	f.IntVar(&o.nodeMin, "nodes-min", 0, "minimum node count (default: tier profile)")
	f.IntVar(&o.nodeMax, "nodes-max", 0, "maximum node count (default: tier profile)")
	f.BoolVar(&o.snap, "snap", false, "snap node positions to a grid")
	f.BoolVar(&o.solve, "solve", false, "count one-stroke solutions with the exact solver")
	f.BoolVar(&o.tune, "tune", true, "add diodes until the success rate is in the tier band")
	f.IntVar(&o.trials, "trials", 0, "Monte Carlo trials (default: tier profile)")
	f.BoolVar(&o.refresh, "refresh", false, "ignore cached results and recompute")

	completeFlag(cmd, "generator", generatorValues()...)
	completeFlag(cmd, "tier", tierValues()...)
}

func (o *generateOpts) options() pipeline.Options {
	return pipeline.Options{
		Generator: o.generator,
		Tier:      o.tier,
		Seed:      o.seed,
		NodeMin:   o.nodeMin,
		NodeMax:   o.nodeMax,
		Snap:      o.snap,
		Solve:     o.solve,
		Tune:      o.tune,
		Trials:    o.trials,
		Refresh:   o.refresh,
	}
}

// generateCommand builds one level.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		opts      generateOpts
		output    string
		reportOut string
		levelID   string
		highlight bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one level",
		Long: `Generate one level from a generator, tier and seed.

The output format follows the file extension of --output: .json, .yaml, .dot,
.svg, .png or .pdf. The same generator, tier, seed and config always produce
the same level.`,
		Example: `  circuitgen generate -t hard -s 7 -o hard-7.json
  circuitgen generate -g grid --snap --solve -o level.svg --highlight`,
		RunE: func(cmd *cobra.Command, args []string) error {
			po := opts.options()
			po.LevelID = levelID
			return c.runGenerate(cmd.Context(), po, output, reportOut, highlight)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "level.json", "output file")
	cmd.Flags().StringVar(&reportOut, "report", "", "also write the full run report as JSON")
	cmd.Flags().StringVar(&levelID, "id", "", "level id (default: derived from generator, tier and seed)")
	cmd.Flags().BoolVar(&highlight, "highlight", false, "draw the backbone path bold in image output")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, output, reportOut string, highlight bool) error {
	if err := errors.ValidateOutputPath(output, outputExts...); err != nil {
		return err
	}
	runner, cfg, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()
	opts.Config = cfg

	prog := newProgress(c.Logger)
	spin := startStageSpinner(ctx, "Generating level...")
	res, err := runner.Execute(ctx, opts)
	spin.stop()
	if err != nil {
		return err
	}
	prog.done("Generated level")

	var hl []int
	if highlight {
		hl = backboneEdges(res.Level, res.Generation.Backbone)
	}
	if err := writeLevel(ctx, res.Level, output, hl); err != nil {
		return err
	}
	if reportOut != "" {
		if err := writeReport(res, reportOut); err != nil {
			return err
		}
	}

	printResult(res)
	printFile(output)
	if reportOut != "" {
		printFile(reportOut)
	}
	if f := formatForPath(output); !opts.Tune && (f == pipeline.FormatJSON || f == pipeline.FormatYAML) {
		printNewline()
		printNextStep("Tune it", fmt.Sprintf("%s tune %s -t %s", appName, output, opts.Tier))
	}
	return nil
}

// printResult summarises a pipeline run.
func printResult(res *pipeline.Result) {
	g := res.Generation
	printSuccess("Level %s", res.Level.ID)
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.LevelHit)
	printKeyValue("Generator", string(g.Generator))
	printKeyValue("Template", g.Template)
	if g.Fallback {
		printWarning("Layout fell back to a jittered ring after %d attempts", g.Attempts)
	}
	printKeyValue("Crossings", fmt.Sprintf("%d", g.Layout.Crossings))
	if res.Snap != nil {
		printKeyValue("Grid", fmt.Sprintf("%dx%d staggered=%t cost %.2f→%.2f",
			res.Snap.Cols, res.Snap.Rows, res.Snap.Staggered, res.Snap.Before.Total, res.Snap.After.Total))
	}
	if s := res.Solution; s != nil {
		count := fmt.Sprintf("%d", s.SolutionCount)
		if s.Capped {
			count += "+"
		}
		printKeyValue("Solutions", count)
	}
	if t := res.Tuning; t != nil {
		printKeyValue("Success", fmt.Sprintf("%.3f → %.3f (%d trials)", t.Baseline.SuccessRate, t.Final.SuccessRate, t.Trials))
		printKeyValue("Diodes", fmt.Sprintf("+%d (%d total)", t.DiodesAdded, res.Level.DiodeCount()))
		if t.InBand {
			printKeyValue("Band", string(t.Reason))
		} else {
			printWarning("Not in band: %s", t.Reason)
		}
	}
}

func writeReport(res *pipeline.Result, path string) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
