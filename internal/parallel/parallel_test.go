package parallel

import (
	"sync/atomic"
	"testing"
)

func TestFor_CoversAllIndices(t *testing.T) {
	cfgs := map[string]Config{
		"sequential": {Enabled: false},
		"parallel":   {Enabled: true, NumWorkers: 4, MinChunkSize: 8},
	}
	for name, cfg := range cfgs {
		t.Run(name, func(t *testing.T) {
			const n = 1000
			var hits [n]int32
			For(n, func(i int) {
				atomic.AddInt32(&hits[i], 1)
			}, cfg)
			for i, h := range hits {
				if h != 1 {
					t.Fatalf("index %d hit %d times", i, h)
				}
			}
		})
	}
}

func TestFor_SmallNStaysSequential(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 64}
	order := make([]int, 0, 8)
	// Below MinChunkSize the loop runs inline, so appending without
	// synchronization is safe and ordered.
	For(8, func(i int) {
		order = append(order, i)
	}, cfg)
	for i, v := range order {
		if v != i {
			t.Fatalf("expected sequential order, got %v", order)
		}
	}
}

func TestForSamples_CoversAllSamples(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 64}
	const batch = 17
	var hits [batch]int32
	ForSamples(batch, func(b int) {
		atomic.AddInt32(&hits[b], 1)
	}, cfg)
	for b, h := range hits {
		if h != 1 {
			t.Fatalf("sample %d hit %d times", b, h)
		}
	}
}

func TestForSamples_ZeroBatch(t *testing.T) {
	called := false
	ForSamples(0, func(b int) { called = true }, DefaultConfig())
	if called {
		t.Fatal("callback should not run for an empty batch")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.NumWorkers < 1 {
		t.Errorf("NumWorkers: %d", cfg.NumWorkers)
	}
	if cfg.MinChunkSize < 1 {
		t.Errorf("MinChunkSize: %d", cfg.MinChunkSize)
	}
}
