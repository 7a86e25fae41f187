package main

import (
	"fmt"
	"io"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelgrid/internal/config"
	"github.com/Faultbox/voxelgrid/internal/logger"
	"github.com/Faultbox/voxelgrid/internal/metrics"
	"github.com/Faultbox/voxelgrid/pkg/math"
	"github.com/Faultbox/voxelgrid/pkg/voxel"
)

type benchResult struct {
	Rays    int
	Hits    int
	Visits  int
	Workers int
	Elapsed time.Duration
}

// Rate returns rays per second, or 0 when the run was too short to time.
func (r benchResult) Rate() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Rays) / r.Elapsed.Seconds()
}

func cmdBench(out io.Writer, cfg *config.Config, _ []string) error {
	g, err := buildGrid(cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	rec := metrics.NewTraversal(reg)

	rays := randomRays(g.Box(), cfg.Bench.Rays, cfg.Bench.Seed)
	res := runBench(g, rays, cfg.Bench.Workers, rec)

	rate := res.Rate()
	logger.Named("bench").Info("bench finished",
		zap.Int("rays", res.Rays),
		zap.Int("hits", res.Hits),
		zap.Int("visits", res.Visits),
		zap.Int("workers", res.Workers),
		zap.Duration("elapsed", res.Elapsed),
		zap.Float64("rays_per_sec", rate),
	)

	summary, err := metrics.Gather(reg)
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}

	fmt.Fprintf(out, "Grid:    %s cells\n", g.Dims())
	fmt.Fprintf(out, "Rays:    %d (%d hit) on %d workers\n", res.Rays, res.Hits, res.Workers)
	fmt.Fprintf(out, "Elapsed: %s (%.0f rays/s)\n", res.Elapsed, rate)
	for _, k := range summary.Keys() {
		fmt.Fprintf(out, "%s %g\n", k, summary[k])
	}
	return nil
}

// randomRays generates n rays with origins in box grown by half its size
// on each side and uniformly random directions.
func randomRays(box math.AABB, n int, seed int64) []math.Ray {
	rng := rand.New(rand.NewSource(seed))
	size := box.Size()
	lo := box.Min.Sub(size.Scale(0.5))
	span := size.Scale(2)

	rays := make([]math.Ray, 0, n)
	for len(rays) < n {
		origin := lo.Add(math.Vec3{
			X: rng.Float32() * span.X,
			Y: rng.Float32() * span.Y,
			Z: rng.Float32() * span.Z,
		})
		dir := math.Vec3{
			X: rng.Float32()*2 - 1,
			Y: rng.Float32()*2 - 1,
			Z: rng.Float32()*2 - 1,
		}
		if dir.Length() < 1e-3 {
			continue
		}
		rays = append(rays, math.NewRay(origin, dir))
	}
	return rays
}

// runBench marches rays on a pool of workers, each taking a contiguous
// slice of the input. workers <= 0 uses one per CPU.
func runBench(g *voxel.Grid, rays []math.Ray, workers int, rec *metrics.Traversal) benchResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(rays) {
		workers = max(len(rays), 1)
	}

	type partial struct{ hits, visits int }
	parts := make([]partial, workers)
	chunk := (len(rays) + workers - 1) / workers

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := min(w*chunk, len(rays))
		hi := min(lo+chunk, len(rays))

		wg.Add(1)
		go func(w int, batch []math.Ray) {
			defer wg.Done()
			var p partial
			for _, r := range batch {
				n := 0
				g.RayMarchFunc(r, func(int) bool {
					n++
					return true
				})
				if n > 0 {
					p.hits++
					p.visits += n
				}
				rec.ObserveRay(n)
			}
			parts[w] = p
		}(w, rays[lo:hi])
	}
	wg.Wait()

	res := benchResult{Rays: len(rays), Workers: workers, Elapsed: time.Since(start)}
	for _, p := range parts {
		res.Hits += p.hits
		res.Visits += p.visits
	}
	return res
}
