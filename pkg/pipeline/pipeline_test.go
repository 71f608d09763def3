package pipeline

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/circuitgen/pkg/cache"
	"github.com/matzehuels/circuitgen/pkg/config"
	"github.com/matzehuels/circuitgen/pkg/level"
	"github.com/matzehuels/circuitgen/pkg/observability"
	"github.com/matzehuels/circuitgen/pkg/sim"
)

func quietLogger() *log.Logger { return log.NewWithOptions(io.Discard, log.Options{}) }

func fileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, quietLogger())
}

func levelJSON(t *testing.T, l *level.Level) string {
	t.Helper()
	var buf bytes.Buffer
	if err := level.WriteJSON(l, &buf); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"yaml", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"SVG", true},
		{"xml", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
	if err := ValidateFormats([]string{"json", "bmp"}); err == nil {
		t.Error("ValidateFormats should reject bmp")
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Generator != DefaultGenerator || o.Tier != DefaultTier {
		t.Errorf("defaults = %s/%s", o.Generator, o.Tier)
	}
	if o.Config == nil || o.Logger == nil {
		t.Error("config and logger should default")
	}

	bad := Options{Tier: "impossible"}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("unknown tier should fail")
	}
	bad = Options{Generator: "wfc"}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("unknown generator should fail")
	}
}

func TestOptionsID(t *testing.T) {
	a := Options{Generator: "grid", Tier: "HARD", Seed: 7}
	b := Options{Generator: "grid", Tier: "hard", Seed: 7}
	for _, o := range []*Options{&a, &b} {
		if err := o.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
	}
	if a.ID() != b.ID() {
		t.Error("ID should depend on normalized names only")
	}
	if _, err := uuid.Parse(a.ID()); err != nil {
		t.Errorf("ID %q is not a UUID: %v", a.ID(), err)
	}
	b.Seed = 8
	if a.ID() == b.ID() {
		t.Error("seed should change the ID")
	}
	b.LevelID = "custom"
	if b.ID() != "custom" {
		t.Error("LevelID should override the derived id")
	}

	bad := Options{LevelID: "a/b"}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("level ids with path separators should be rejected")
	}
}

func TestExecuteAllStages(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)
	defer r.Close()
	opts := Options{Generator: "backbone", Tier: "easy", Seed: 3, Snap: true, Solve: true, Tune: true, Trials: 200}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if err := first.Level.Validate(); err != nil {
		t.Fatalf("final level invalid: %v", err)
	}
	if first.Snap == nil || first.Solution == nil || first.Tuning == nil {
		t.Fatal("every enabled stage should report a result")
	}
	if first.Snap.After.Total > first.Snap.Before.Total {
		t.Error("snap should never worsen its layout")
	}
	if first.CacheInfo != (CacheInfo{}) {
		t.Errorf("first run should miss every stage: %+v", first.CacheInfo)
	}
	if first.Tuning.Trials != 200 {
		t.Errorf("tuning trials = %d, want 200", first.Tuning.Trials)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	want := CacheInfo{LevelHit: true, SnapHit: true, TuneHit: true}
	if second.CacheInfo != want {
		t.Errorf("second run cache = %+v, want %+v", second.CacheInfo, want)
	}
	if levelJSON(t, first.Level) != levelJSON(t, second.Level) {
		t.Error("cached run produced a different level")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.LevelHit {
		t.Error("Refresh should bypass the cache")
	}
}

func TestConfigChangesCacheKey(t *testing.T) {
	ctx := context.Background()
	r := fileRunner(t)
	opts := Options{Tier: "easy", Seed: 11}
	if _, err := r.Execute(ctx, opts); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Layout.Attempts = 10
	opts.Config = cfg
	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.LevelHit {
		t.Error("different layout options must not share a cache entry")
	}
}

func TestExecuteIsDeterministicWithoutCache(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, quietLogger())
	opts := Options{Generator: "template", Tier: "medium", Seed: 5, Tune: true, Trials: 150}
	a, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if levelJSON(t, a.Level) != levelJSON(t, b.Level) {
		t.Error("same seed should reproduce the same tuned level")
	}
}

// flatEvaluator reports a constant success rate that no band contains.
type flatEvaluator struct{}

func (flatEvaluator) EvaluateDetailed(*level.Level, int, uint64) sim.Metrics {
	return sim.Metrics{SuccessRate: 0.95, DiodeUsageRate: 1, Trials: 1}
}

func (flatEvaluator) RunTrialsWithSuccessEdgeCounts(*level.Level, int, uint64) map[sim.DirectedEdge]int {
	return nil
}

func TestBatch(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, quietLogger())

	var seen []uint64
	results, stats, err := r.Batch(ctx, BatchOptions{Base: Options{Tier: "easy", Seed: 100}, Count: 3},
		func(i int, res *Result) error {
			seen = append(seen, res.Seed)
			return nil
		})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 || stats.Levels != 3 {
		t.Fatalf("got %d results, stats %+v", len(results), stats)
	}
	for i, s := range seen {
		if s != 100+uint64(i) {
			t.Errorf("slot %d ran seed %d", i, s)
		}
	}

	if _, _, err := r.Batch(ctx, BatchOptions{Count: 0}, nil); err == nil {
		t.Error("zero count should fail")
	}
}

func TestBatchReseedsOutOfBand(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	r.Evaluator = flatEvaluator{}
	_, stats, err := r.Batch(context.Background(), BatchOptions{
		Base:   Options{Tier: "easy", Seed: 1, Tune: true, Trials: 10},
		Count:  2,
		Reseed: 2,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Reseeded != 4 || stats.InBand != 0 {
		t.Errorf("stats = %+v, want 4 reseeds and nothing in band", stats)
	}
}

func TestBatchStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(nil, nil, quietLogger())
	if _, _, err := r.Batch(ctx, BatchOptions{Count: 2}, nil); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnGenerateStart(context.Context, string, string, uint64) { h.add("generate") }
func (h *recordingHooks) OnSnapStart(context.Context, int)                        { h.add("snap") }
func (h *recordingHooks) OnTuneStart(context.Context, string, int)                { h.add("tune") }

func TestPipelineHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	defer observability.Reset()

	r := NewRunner(nil, nil, quietLogger())
	if _, err := r.Execute(context.Background(), Options{Tier: "easy", Seed: 2, Snap: true, Tune: true, Trials: 50}); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(h.events, ","); got != "generate,snap,tune" {
		t.Errorf("events = %s", got)
	}
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(ctx, Options{Tier: "easy", Seed: 9})
	if err != nil {
		t.Fatal(err)
	}

	data, err := Export(ctx, res.Level, FormatJSON, nil)
	if err != nil || !bytes.Contains(data, []byte(`"level_id"`)) {
		t.Errorf("json export = %s, %v", data, err)
	}
	data, err = Export(ctx, res.Level, FormatDOT, res.Generation.Backbone)
	if err != nil || !bytes.Contains(data, []byte("penwidth=4")) {
		t.Errorf("dot export should highlight the backbone: %v", err)
	}
	if _, err := Export(ctx, res.Level, "bmp", nil); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestStatsRecordTimings(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), Options{Tier: "easy", Seed: 4, Solve: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.NodeCount != res.Level.N() || res.Stats.EdgeCount != len(res.Level.Edges) {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.Stats.GenerateTime < 0 || res.Stats.SolveTime < 0 || res.Stats.SnapTime != time.Duration(0) {
		t.Errorf("unexpected timings %+v", res.Stats)
	}
}
