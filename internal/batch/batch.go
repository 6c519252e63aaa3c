// Package batch runs independent Worlds concurrently, each with a
// distinct construction-jitter seed, and reduces their results into
// ensemble statistics: one goroutine per run, a sync.WaitGroup
// barrier, first error wins.
package batch

import (
	"context"
	"sync"

	"github.com/climbfall/ropefall/internal/config"
	"github.com/climbfall/ropefall/internal/rope"
	"github.com/climbfall/ropefall/internal/world"
)

// RunResult pairs one ensemble member's seed with its outcome.
type RunResult struct {
	Seed   int64
	Result *world.Result
	Err    error
}

// Stats summarises peak tension and peak speed across an ensemble,
// showing how sensitive a scenario is to small seed perturbations.
type Stats struct {
	Runs int

	MinPeakTension, MaxPeakTension, MeanPeakTension float64
	MinPeakSpeed, MaxPeakSpeed, MeanPeakSpeed       float64
}

// Ensemble runs numRuns independent Worlds concurrently, each built
// from cfg with Seed overridden to seedStart+i, for duration seconds
// of simulated time. Every run gets its own World (and so its own
// Rope/Body graph); a World is never shared between goroutines, so
// each run stays single-threaded while the batch as a whole is
// concurrent.
func Ensemble(ctx context.Context, cfg *config.Config, logger rope.Logger, numRuns int, seedStart int64, duration float64) ([]RunResult, error) {
	results := make([]RunResult, numRuns)

	var wg sync.WaitGroup
	wg.Add(numRuns)
	for i := 0; i < numRuns; i++ {
		go func(idx int) {
			defer wg.Done()

			runCfg := *cfg
			runCfg.Seed = seedStart + int64(idx)
			results[idx].Seed = runCfg.Seed

			w, err := world.Build(&runCfg, logger)
			if err != nil {
				results[idx].Err = err
				return
			}
			res, err := w.Advance(ctx, duration)
			results[idx].Result = res
			results[idx].Err = err
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		if r.Err != nil {
			return results, r.Err
		}
	}
	return results, nil
}

// Reduce computes summary statistics over a completed ensemble's peak
// tension and peak speed. Runs with an error are skipped.
func Reduce(results []RunResult) Stats {
	var stats Stats
	var sumTension, sumSpeed float64
	first := true
	for _, r := range results {
		if r.Err != nil || r.Result == nil {
			continue
		}
		stats.Runs++
		pt, ps := r.Result.PeakTension, r.Result.PeakSpeed
		sumTension += pt
		sumSpeed += ps
		if first {
			stats.MinPeakTension, stats.MaxPeakTension = pt, pt
			stats.MinPeakSpeed, stats.MaxPeakSpeed = ps, ps
			first = false
			continue
		}
		if pt < stats.MinPeakTension {
			stats.MinPeakTension = pt
		}
		if pt > stats.MaxPeakTension {
			stats.MaxPeakTension = pt
		}
		if ps < stats.MinPeakSpeed {
			stats.MinPeakSpeed = ps
		}
		if ps > stats.MaxPeakSpeed {
			stats.MaxPeakSpeed = ps
		}
	}
	if stats.Runs > 0 {
		stats.MeanPeakTension = sumTension / float64(stats.Runs)
		stats.MeanPeakSpeed = sumSpeed / float64(stats.Runs)
	}
	return stats
}
