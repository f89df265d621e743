package refine

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"github.com/san-kum/ikgeo/internal/kinematics"
	"github.com/san-kum/ikgeo/internal/subproblem"
)

// Found is one converged seed-search result.
type Found struct {
	Q []float64
}

// Search polishes count random seeds toward target and returns the
// distinct converged joint vectors. Seeds are drawn from rng on the
// calling goroutine; the polish runs fan out over goroutines. A canceled
// ctx returns whatever converged before cancellation together with the
// context error.
func Search(ctx context.Context, c *kinematics.Chain, target kinematics.Pose, count int, rng *rand.Rand, p Params) ([]Found, error) {
	seeds := make([][]float64, count)
	for i := range seeds {
		seeds[i] = randomSeed(c, rng)
	}

	results := make([][]float64, count)
	var wg sync.WaitGroup
	for i := range seeds {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			q, ok, err := Polish(ctx, c, target, seeds[idx], p)
			if err == nil && ok {
				results[idx] = q
			}
		}(i)
	}
	wg.Wait()

	var out []Found
	for _, q := range results {
		if q == nil {
			continue
		}
		dup := false
		for _, f := range out {
			if sameJoints(c, q, f.Q) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, Found{Q: q})
		}
	}
	return out, ctx.Err()
}

// randomSeed draws revolute angles uniformly from (-π, π] and prismatic
// extensions uniformly within the chain reach.
func randomSeed(c *kinematics.Chain, rng *rand.Rand) []float64 {
	q := make([]float64, c.NumJoints())
	reach := c.Reach()
	for i := range q {
		switch c.Joint(i).Type {
		case kinematics.Prismatic:
			q[i] = (2*rng.Float64() - 1) * reach
		default:
			q[i] = (2*rng.Float64() - 1) * math.Pi
		}
	}
	return q
}

func sameJoints(c *kinematics.Chain, a, b []float64) bool {
	for i := range a {
		d := a[i] - b[i]
		if c.Joint(i).Type == kinematics.Revolute {
			d = subproblem.WrapAngle(d)
		}
		if math.Abs(d) > 1e-4 {
			return false
		}
	}
	return true
}
