package game

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Shard is the finished share of a parallel estimate.
type Shard struct {
	Index  int
	Trials int
	Tally  *Tally
}

// ShardSizes splits n trials across workers. The first n%workers shards get
// one extra trial.
func ShardSizes(n, workers int) []int {
	if workers > n {
		workers = n
	}
	sizes := make([]int, workers)
	for i := range sizes {
		sizes[i] = n / workers
		if i < n%workers {
			sizes[i]++
		}
	}
	return sizes
}

// EstimateParallel shards n trials over workers goroutines. Shard i draws from
// NewSource(seed, i), so the result is reproducible for a fixed seed and
// worker count. onShard, if set, is called once per finished shard from the
// worker goroutine.
func EstimateParallel(r *Ring, n int, seed uint64, workers int, rules Rules, onShard func(Shard)) (*Tally, error) {
	return EstimateParallelContext(context.Background(), r, n, seed, workers, rules, onShard)
}

// cancelCheckEvery is how many trials a shard runs between context checks.
const cancelCheckEvery = 4096

// EstimateParallelContext is EstimateParallel that stops early with ctx's
// error once ctx is done. Shards check ctx every cancelCheckEvery trials, so
// an uncancelled run returns the same tally as EstimateParallel.
func EstimateParallelContext(ctx context.Context, r *Ring, n int, seed uint64, workers int, rules Rules, onShard func(Shard)) (*Tally, error) {
	if n <= 0 {
		return nil, fmt.Errorf("estimate: %w (got %d)", ErrZeroTrials, n)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	sizes := ShardSizes(n, workers)
	partial := make([]*Tally, len(sizes))

	g, gctx := errgroup.WithContext(ctx)
	for i, size := range sizes {
		g.Go(func() error {
			src := NewSource(seed, uint64(i))
			t := NewTally(r)
			for t.Trials < size {
				if err := gctx.Err(); err != nil {
					return err
				}
				chunk := min(cancelCheckEvery, size-t.Trials)
				for range chunk {
					t.Record(r, RunTrial(r, src, rules))
				}
			}
			partial[i] = t
			if onShard != nil {
				onShard(Shard{Index: i, Trials: size, Tally: t})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := NewTally(r)
	for _, t := range partial {
		total.Merge(t)
	}
	return total, nil
}
