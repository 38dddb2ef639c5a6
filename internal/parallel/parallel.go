// Package parallel provides bounded worker-pool execution for data-parallel
// loops inside compute kernels and batched layer application.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64,
	}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too
// small to amortize goroutine startup.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinChunkSize {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ForSamples executes f(b) for every sample index b in [0, batch).
//
// Samples are independent by construction (no cross-sample interaction in
// per-sample layer application), so each one may run on its own worker even
// for small batches.
func ForSamples(batch int, f func(b int), cfg Config) {
	if !cfg.Enabled || batch < 2 {
		for b := 0; b < batch; b++ {
			f(b)
		}
		return
	}

	var wg sync.WaitGroup
	workers := min(cfg.NumWorkers, batch)
	var next sync.Mutex
	idx := 0

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				next.Lock()
				b := idx
				idx++
				next.Unlock()
				if b >= batch {
					return
				}
				f(b)
			}
		}()
	}
	wg.Wait()
}
