package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Template hooks
	th := NoopTemplateHooks{}
	th.OnTemplateTry("ring")
	th.OnTemplateAccept("ring")
	th.OnTemplateChoose(FallbackTemplate)

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnGenerateStart(ctx, "backbone", "medium", 42)
	p.OnGenerateComplete(ctx, "backbone", 12, false, time.Second, nil)
	p.OnSnapStart(ctx, 12)
	p.OnSnapComplete(ctx, true, time.Second)
	p.OnTuneStart(ctx, "hard", 600)
	p.OnTuneComplete(ctx, true, 3, time.Second)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "result")
	c.OnCacheMiss(ctx, "result")
	c.OnCacheSet(ctx, "result", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	// Set custom hooks
	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	// Setting nil should be ignored
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

func TestTemplateCounter(t *testing.T) {
	c := NewTemplateCounter()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.OnTemplateTry("star")
			c.OnTemplateTry("ring")
			c.OnTemplateAccept("ring")
		}()
	}
	wg.Wait()
	c.OnTemplateChoose("ring")

	got := c.Snapshot()
	if len(got) != 2 || got[0].Name != "ring" || got[1].Name != "star" {
		t.Fatalf("Snapshot() = %+v", got)
	}
	if got[0].Tries != 8 || got[0].Accepts != 8 || got[0].Chosen != 1 {
		t.Errorf("ring row = %+v", got[0])
	}
	if got[1].AcceptRate() != 0 || got[0].AcceptRate() != 1 {
		t.Errorf("accept rates = %v, %v", got[0].AcceptRate(), got[1].AcceptRate())
	}

	c.Reset()
	if len(c.Snapshot()) != 0 {
		t.Error("Reset should clear all rows")
	}
}

// Test implementations
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
