// Copyright 2024 The vcad Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package booleans

import (
	"math"
	"sort"

	"github.com/JJZ993/vcad-sub001/geom"
	"github.com/JJZ993/vcad-sub001/vmath"
)

// marchingSSI approximates the intersection of two surfaces without a
// closed form: seed points on a coarse parameter grid of a are refined
// onto b by damped Newton iteration on the signed distance to b's
// tangent plane, then chained into polylines by nearest-neighbour
// walking within both domains.
func marchingSSI(a, b geom.Surface, grid int, tol vmath.Tolerance) IntersectionCurve {
	// Grid over the more compact surface: seeding an unbounded plane
	// domain wastes the entire grid.
	if surfaceScale(b) < surfaceScale(a) {
		a, b = b, a
	}
	seeds := collectSeeds(a, b, grid, tol)
	if len(seeds) == 0 {
		return emptyCurve()
	}
	if len(seeds) == 1 {
		return IntersectionCurve{Kind: CurvePoint, Point: seeds[0]}
	}
	return IntersectionCurve{Kind: CurveSampled, Samples: chainSeeds(seeds)}
}

// collectSeeds scans a's parameter grid for points close to b and
// Newton-refines each candidate onto the intersection manifold.
func collectSeeds(a, b geom.Surface, grid int, tol vmath.Tolerance) []vmath.Point {
	du, dv := a.Domain()
	var seeds []vmath.Point

	for i := 0; i <= grid; i++ {
		for j := 0; j <= grid; j++ {
			u := du.Lo + (du.Hi-du.Lo)*float64(i)/float64(grid)
			v := dv.Lo + (dv.Hi-dv.Lo)*float64(j)/float64(grid)
			p := a.Evaluate(u, v)

			// Cheap screen: distance to b's nearest parameter proxy.
			bu, bv := geom.ProjectUV(b, p)
			q := b.Evaluate(bu, bv)
			if p.Distance(q) > seedCaptureDistance(a, b) {
				continue
			}

			if refined, ok := newtonRefine(a, b, u, v, tol); ok {
				seeds = append(seeds, refined)
			}
		}
	}
	return dedupeSeeds(seeds, seedSpacing(a))
}

// seedCaptureDistance is the grid-cell-scale capture radius.
func seedCaptureDistance(a, b geom.Surface) float64 {
	return 0.1 * (surfaceScale(a) + surfaceScale(b))
}

func seedSpacing(a geom.Surface) float64 {
	return 0.01 * surfaceScale(a)
}

func surfaceScale(s geom.Surface) float64 {
	du, dv := s.Domain()
	c := s.Evaluate((du.Lo+du.Hi)/2, (dv.Lo+dv.Hi)/2)
	e := s.Evaluate(du.Hi, dv.Hi)
	d := c.Distance(e)
	if d < 1 {
		return 1
	}
	return d
}

// newtonRefine walks (u, v) on a toward the zero of the signed
// distance to b, moving within a's tangent plane. Reports failure when
// the iteration does not contract onto the manifold.
func newtonRefine(a, b geom.Surface, u, v float64, tol vmath.Tolerance) (vmath.Point, bool) {
	du, dv := a.Domain()

	for iter := 0; iter < 24; iter++ {
		p := a.Evaluate(u, v)
		bu, bv := geom.ProjectUV(b, p)
		q := b.Evaluate(bu, bv)
		n := b.Normal(bu, bv)

		dist := p.Sub(q.Vector).Dot(n)
		if math.Abs(dist) <= 10*tol.Linear {
			return p, true
		}

		// Gradient of the distance in a's parameters.
		su := a.PartialU(u, v)
		sv := a.PartialV(u, v)
		gu := su.Dot(n)
		gv := sv.Dot(n)
		g2 := gu*gu + gv*gv
		if g2 < 1e-18 {
			return vmath.Point{}, false
		}

		step := dist / g2
		u = clampTo(u-step*gu, du.Lo, du.Hi)
		v = clampTo(v-step*gv, dv.Lo, dv.Hi)
	}
	return vmath.Point{}, false
}

func clampTo(t, lo, hi float64) float64 {
	if t < lo {
		return lo
	}
	if t > hi {
		return hi
	}
	return t
}

func dedupeSeeds(seeds []vmath.Point, spacing float64) []vmath.Point {
	var out []vmath.Point
	for _, s := range seeds {
		dup := false
		for _, o := range out {
			if s.Distance(o) < spacing {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, s)
		}
	}
	return out
}

// chainSeeds orders refined seeds into a polyline by greedy
// nearest-neighbour walking from an extremal seed.
func chainSeeds(seeds []vmath.Point) []vmath.Point {
	if len(seeds) <= 2 {
		return seeds
	}

	// Deterministic start: lexicographically smallest point.
	sort.Slice(seeds, func(i, j int) bool {
		a, b := seeds[i], seeds[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})

	used := make([]bool, len(seeds))
	chain := []vmath.Point{seeds[0]}
	used[0] = true
	cur := seeds[0]

	for range seeds[1:] {
		best, bestD := -1, math.Inf(1)
		for i, s := range seeds {
			if used[i] {
				continue
			}
			if d := cur.Distance(s); d < bestD {
				best, bestD = i, d
			}
		}
		if best < 0 {
			break
		}
		used[best] = true
		cur = seeds[best]
		chain = append(chain, cur)
	}

	// Close the loop when the ends meet.
	if chain[0].Distance(chain[len(chain)-1]) < 4*seedsSpacingOf(chain) {
		chain = append(chain, chain[0])
	}
	return chain
}

func seedsSpacingOf(chain []vmath.Point) float64 {
	if len(chain) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(chain); i++ {
		total += chain[i-1].Distance(chain[i])
	}
	return total / float64(len(chain)-1)
}
