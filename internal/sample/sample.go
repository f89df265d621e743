// Package sample generates joint vectors and target poses for tests and
// benchmarks. All randomness comes from an injected *rand.Rand so runs are
// reproducible from a seed.
package sample

import (
	"math"
	"math/rand"

	"github.com/san-kum/ikgeo/internal/kinematics"
)

// JointVector draws a random joint vector: revolute angles uniform over
// (-π, π], prismatic extensions uniform within the chain reach.
func JointVector(rng *rand.Rand, c *kinematics.Chain) []float64 {
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

// Target draws a random reachable pose together with the joint vector that
// produces it, for round-trip testing.
func Target(rng *rand.Rand, c *kinematics.Chain) (kinematics.Pose, []float64) {
	q := JointVector(rng, c)
	return c.Forward(q), q
}

// Grid enumerates joint vectors on a regular grid, points values per joint
// spread evenly over (-π, π) for revolute joints and over the chain reach
// for prismatic ones. The grid size is points^NumJoints; keep points small.
func Grid(c *kinematics.Chain, points int) [][]float64 {
	if points < 1 {
		return nil
	}
	var out [][]float64
	gridRecursive(c, points, make([]float64, 0, c.NumJoints()), &out)
	return out
}

func gridRecursive(c *kinematics.Chain, points int, current []float64, out *[][]float64) {
	if len(current) == c.NumJoints() {
		q := make([]float64, len(current))
		copy(q, current)
		*out = append(*out, q)
		return
	}
	span := math.Pi
	if c.Joint(len(current)).Type == kinematics.Prismatic {
		span = c.Reach()
	}
	for i := 0; i < points; i++ {
		// Cell midpoints, avoiding the ±span endpoints.
		v := span * (2*(float64(i)+0.5)/float64(points) - 1)
		gridRecursive(c, points, append(current, v), out)
	}
}
