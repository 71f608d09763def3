package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/circuitgen/pkg/observability"
	"github.com/matzehuels/circuitgen/pkg/pipeline"
)

// manifestName is the index file batch writes next to its levels.
const manifestName = "manifest.json"

// manifest records what a batch produced.
type manifest struct {
	Options pipeline.Options    `json:"options"`
	Count   int                 `json:"count"`
	Reseed  int                 `json:"reseed"`
	Stats   pipeline.BatchStats `json:"stats"`
	Levels  []manifestEntry     `json:"levels"`
}

type manifestEntry struct {
	Index       int     `json:"index"`
	File        string  `json:"file"`
	LevelID     string  `json:"level_id"`
	Seed        uint64  `json:"seed"`
	Template    string  `json:"template"`
	Nodes       int     `json:"nodes"`
	Edges       int     `json:"edges"`
	Diodes      int     `json:"diodes"`
	SuccessRate float64 `json:"success_rate,omitempty"`
	InBand      bool    `json:"in_band"`
	Fallback    bool    `json:"fallback,omitempty"`
}

// batchCommand builds levels over consecutive seeds.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		opts    generateOpts
		count   int
		reseed  int
		outDir  string
		format  string
		tplStat bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Generate many levels over consecutive seeds",
		Long: `Generate --count levels with seeds --seed, --seed+1, ... and write them to
--out-dir together with a manifest.json index.

With --reseed N, a slot whose tuned success rate misses the tier band is
retried with up to N derived seeds before it is kept as is.`,
		Example: `  circuitgen batch -t easy --count 50 --out-dir levels/easy
  circuitgen batch -t hard --count 20 --reseed 3 --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			bo := pipeline.BatchOptions{Base: opts.options(), Count: count, Reseed: reseed}
			var counter *observability.TemplateCounter
			if tplStat {
				counter = observability.NewTemplateCounter()
				bo.Base.Hooks = counter
			}
			if err := c.runBatch(cmd.Context(), bo, outDir, format); err != nil {
				return err
			}
			if counter != nil {
				printTemplateStats(counter.Snapshot())
			}
			return nil
		},
	}

	opts.register(cmd)
	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of levels")
	cmd.Flags().IntVar(&reseed, "reseed", 0, "extra seeds to try per slot when tuning misses the band")
	cmd.Flags().StringVar(&outDir, "out-dir", "levels", "output directory")
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatJSON, "level file format: json, yaml, dot, svg, png, pdf")
	cmd.Flags().BoolVar(&tplStat, "template-stats", false, "print how often each layout template was tried, accepted and kept")
	completeFlag(cmd, "format", formatValues...)

	return cmd
}

func (c *CLI) runBatch(ctx context.Context, opts pipeline.BatchOptions, outDir, format string) error {
	if err := pipeline.ValidateFormat(format); err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	runner, cfg, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()
	opts.Base.Config = cfg

	prog := newProgress(c.Logger)
	entries := make([]manifestEntry, 0, opts.Count)
	spin := startStageSpinner(ctx, fmt.Sprintf("Level 1/%d", opts.Count))
	_, stats, err := runner.Batch(ctx, opts, func(i int, res *pipeline.Result) error {
		spin.setLabel(fmt.Sprintf("Level %d/%d", min(i+2, opts.Count), opts.Count))
		name := fmt.Sprintf("level-%03d.%s", i, format)
		if err := writeLevel(ctx, res.Level, filepath.Join(outDir, name), nil); err != nil {
			return err
		}
		entry := manifestEntry{
			Index:    i,
			File:     name,
			LevelID:  res.Level.ID,
			Seed:     res.Seed,
			Template: res.Generation.Template,
			Nodes:    res.Level.N(),
			Edges:    len(res.Level.Edges),
			Diodes:   res.Level.DiodeCount(),
			InBand:   res.InBand(),
			Fallback: res.Generation.Fallback,
		}
		if res.Tuning != nil {
			entry.SuccessRate = res.Tuning.Final.SuccessRate
		}
		entries = append(entries, entry)
		c.Logger.Debug("wrote level", "file", name, "seed", res.Seed, "in_band", entry.InBand)
		return nil
	})
	spin.stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %d levels", stats.Levels))

	m := manifest{Options: opts.Base, Count: opts.Count, Reseed: opts.Reseed, Stats: stats, Levels: entries}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	manifestPath := filepath.Join(outDir, manifestName)
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return err
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			e.File,
			fmt.Sprintf("%d", e.Seed),
			e.Template,
			fmt.Sprintf("%d/%d", e.Nodes, e.Edges),
			fmt.Sprintf("%d", e.Diodes),
			fmt.Sprintf("%.3f", e.SuccessRate),
			fmt.Sprintf("%t", e.InBand),
		}
	}
	printTable([]string{"File", "Seed", "Template", "Nodes/Edges", "Diodes", "Success", "In band"}, rows)
	printSuccess("%d levels, %d in band", stats.Levels, stats.InBand)
	printDetail("%d reseeded · %d layout fallbacks · %d cached", stats.Reseeded, stats.Fallbacks, stats.CacheHits)
	printFile(manifestPath)
	return nil
}

// printTemplateStats tabulates template telemetry. Levels served from the
// cache run no layout attempts and are not counted.
func printTemplateStats(stats []observability.TemplateStats) {
	if len(stats) == 0 {
		printInfo("No layout attempts recorded (all levels cached?)")
		return
	}
	rows := make([][]string, len(stats))
	for i, s := range stats {
		rows[i] = []string{
			s.Name,
			fmt.Sprintf("%d", s.Tries),
			fmt.Sprintf("%d", s.Accepts),
			fmt.Sprintf("%.0f%%", 100*s.AcceptRate()),
			fmt.Sprintf("%d", s.Chosen),
		}
	}
	printTable([]string{"Template", "Tries", "Accepted", "Rate", "Kept"}, rows)
}
