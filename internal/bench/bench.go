// Package bench measures solver behavior over batches of reachable
// targets: success rates, error statistics, branch counts, and latency.
package bench

import (
	"context"
	"math/rand"
	"time"

	"github.com/san-kum/ikgeo/internal/kinematics"
	"github.com/san-kum/ikgeo/internal/sample"
	"github.com/san-kum/ikgeo/internal/solver"
)

// Config describes one benchmark run. With GridPoints > 0 the targets come
// from a joint-space grid sweep instead of random sampling and Trials is
// ignored.
type Config struct {
	Trials     int
	Seed       int64
	GridPoints int
	Solver     solver.Options
}

// Result aggregates a run. Error statistics cover the best solution of
// each solved trial; Latencies keeps per-trial milliseconds for plotting.
type Result struct {
	Robot         string        `json:"robot"`
	Pattern       string        `json:"pattern"`
	Trials        int           `json:"trials"`
	Solved        int           `json:"solved"`
	ApproxOnly    int           `json:"approx_only"`
	Failed        int           `json:"failed"`
	MinErr        float64       `json:"min_err"`
	MeanErr       float64       `json:"mean_err"`
	MaxErr        float64       `json:"max_err"`
	MeanSolutions float64       `json:"mean_solutions"`
	MeanLatency   time.Duration `json:"mean_latency_ns"`
	Latencies     []float64     `json:"latencies_ms"`
}

// Run benchmarks the chain: each trial draws a reachable target from a
// random joint vector (or the grid sweep), solves it, and records how the
// best returned solution compares to the target.
func Run(ctx context.Context, robot string, c *kinematics.Chain, cfg Config) (*Result, error) {
	var qs [][]float64
	if cfg.GridPoints > 0 {
		qs = sample.Grid(c, cfg.GridPoints)
	} else {
		rng := rand.New(rand.NewSource(cfg.Seed))
		qs = make([][]float64, cfg.Trials)
		for i := range qs {
			qs[i] = sample.JointVector(rng, c)
		}
	}

	// Above-tolerance entries are requested so the approx-only count can
	// tell boundary misses apart from outright failures.
	sopts := cfg.Solver
	sopts.IncludeApprox = true

	res := &Result{
		Robot:   robot,
		Pattern: c.Pattern().String(),
		Trials:  len(qs),
	}
	var errSum, solSum float64
	var latSum time.Duration

	for _, q := range qs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		target := c.Forward(q)

		start := time.Now()
		sols, err := solver.Solve(ctx, c, target, sopts)
		lat := time.Since(start)
		if err != nil {
			return res, err
		}

		latSum += lat
		res.Latencies = append(res.Latencies, float64(lat)/float64(time.Millisecond))
		solSum += float64(len(sols))

		best, exact := bestError(sols)
		switch {
		case exact:
			res.Solved++
			errSum += best
			if res.Solved == 1 || best < res.MinErr {
				res.MinErr = best
			}
			if best > res.MaxErr {
				res.MaxErr = best
			}
		case len(sols) > 0:
			res.ApproxOnly++
		default:
			res.Failed++
		}
	}

	if res.Solved > 0 {
		res.MeanErr = errSum / float64(res.Solved)
	}
	if res.Trials > 0 {
		res.MeanSolutions = solSum / float64(res.Trials)
		res.MeanLatency = latSum / time.Duration(res.Trials)
	}
	return res, nil
}

// bestError returns the smallest combined error among exact solutions.
func bestError(sols []solver.Solution) (float64, bool) {
	best := 0.0
	found := false
	for _, s := range sols {
		if s.Approx {
			continue
		}
		e := s.PosErr + s.OrientErr
		if !found || e < best {
			best = e
			found = true
		}
	}
	return best, found
}
