package decomp

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ikgeo/internal/kinematics"
	"github.com/san-kum/ikgeo/internal/subproblem"
)

// The spherical patterns share the wrist-center split: the position
// equation fixes joints 1..3, then the residual orientation fixes the
// wrist. They differ only in how joints 1..3 come apart.

func (g *geom) sphericalTwoParallel() []Candidate {
	h1n := r3.Scale(-1, g.h[0])
	d := r3.Dot(g.h[1], r3.Add(r3.Add(g.p[1], g.p[2]), g.p[3]))

	var out []Candidate
	for _, s1 := range subproblem.Four(g.h[1], g.p16, h1n, d) {
		if s1.Residual > pruneTol {
			continue
		}
		v := r3.Sub(subproblem.Rot(h1n, s1.Theta, g.p16), g.p[1])
		for _, s3 := range subproblem.Three(g.p[3], r3.Scale(-1, g.p[2]), g.h[2], r3.Norm(v)) {
			s2 := subproblem.One(r3.Add(g.p[2], subproblem.Rot(g.h[2], s3.Theta, g.p[3])), v, g.h[1])[0]
			base := s1.Residual + s3.Residual + s2.Residual
			if base > pruneTol {
				continue
			}
			approx := s1.Approx || s3.Approx || s2.Approx
			out = append(out, g.withWrist([]float64{s1.Theta, s2.Theta, s3.Theta}, base, approx)...)
		}
	}
	return out
}

func (g *geom) sphericalTwoIntersecting() []Candidate {
	h1n := r3.Scale(-1, g.h[0])

	var out []Candidate
	for _, s1 := range subproblem.Three(g.p16, g.p[1], h1n, r3.Norm(g.p[3])) {
		if s1.Residual > pruneTol {
			continue
		}
		v := r3.Sub(subproblem.Rot(h1n, s1.Theta, g.p16), g.p[1])
		for _, pr := range subproblem.Two(v, g.p[3], r3.Scale(-1, g.h[1]), g.h[2]) {
			base := s1.Residual + pr.Residual
			if base > pruneTol {
				continue
			}
			approx := s1.Approx || pr.Approx
			out = append(out, g.withWrist([]float64{s1.Theta, pr.Theta1, pr.Theta2}, base, approx)...)
		}
	}
	return out
}

func (g *geom) spherical() []Candidate {
	var out []Candidate
	triples := subproblem.Five(
		r3.Scale(-1, g.p[1]), g.p16, g.p[2], g.p[3],
		r3.Scale(-1, g.h[0]), g.h[1], g.h[2],
	)
	for _, tr := range triples {
		if tr.Residual > pruneTol {
			continue
		}
		out = append(out, g.withWrist([]float64{tr.Theta1, tr.Theta2, tr.Theta3}, tr.Residual, tr.Approx)...)
	}
	return out
}

// withWrist completes a joints-1..3 prefix with every wrist branch.
func (g *geom) withWrist(q123 []float64, base float64, approx bool) []Candidate {
	r03 := rotSeq([]r3.Vec{g.h[0], g.h[1], g.h[2]}, q123)
	r36 := kinematics.Compose(kinematics.Invert(r03), g.r06)

	var out []Candidate
	for _, w := range g.wrist(r36) {
		res := base + w.residual
		if res > pruneTol {
			continue
		}
		out = append(out, Candidate{
			Q:        []float64{q123[0], q123[1], q123[2], w.t4, w.t5, w.t6},
			Residual: res,
			Approx:   approx || w.approx,
		})
	}
	return out
}
