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

package geom

import (
	"github.com/golang/geo/r1"
	"github.com/golang/geo/r3"

	"github.com/JJZ993/vcad-sub001/vmath"
)

// BSpline is a tensor-product B-spline surface evaluated with de Boor's
// algorithm. Control is a grid of control points indexed [i][j] with i
// along u and j along v. DegreeU/DegreeV are the spline degrees and
// KnotsU/KnotsV the clamped knot vectors (len = count + degree + 1).
type BSpline struct {
	Control [][]vmath.Point
	DegreeU int
	DegreeV int
	KnotsU  []float64
	KnotsV  []float64
}

// UniformBSpline builds a clamped B-spline of the given degrees over a
// control grid, with uniform interior knots and domain [0, 1] in both
// directions.
func UniformBSpline(control [][]vmath.Point, degreeU, degreeV int) BSpline {
	return BSpline{
		Control: control,
		DegreeU: degreeU,
		DegreeV: degreeV,
		KnotsU:  clampedUniformKnots(len(control), degreeU),
		KnotsV:  clampedUniformKnots(len(control[0]), degreeV),
	}
}

func clampedUniformKnots(n, degree int) []float64 {
	m := n + degree + 1
	knots := make([]float64, m)
	interior := n - degree
	for i := range knots {
		switch {
		case i <= degree:
			knots[i] = 0
		case i >= m-degree-1:
			knots[i] = 1
		default:
			knots[i] = float64(i-degree) / float64(interior)
		}
	}
	return knots
}

// Kind returns KindBSpline.
func (b BSpline) Kind() Kind { return KindBSpline }

// Domain returns the valid knot span in each direction.
func (b BSpline) Domain() (u, v r1.Interval) {
	return r1.Interval{Lo: b.KnotsU[b.DegreeU], Hi: b.KnotsU[len(b.KnotsU)-b.DegreeU-1]},
		r1.Interval{Lo: b.KnotsV[b.DegreeV], Hi: b.KnotsV[len(b.KnotsV)-b.DegreeV-1]}
}

// findSpan locates the knot span containing t for de Boor evaluation.
func findSpan(knots []float64, degree int, numCtrl int, t float64) int {
	if t >= knots[numCtrl] {
		return numCtrl - 1
	}
	if t <= knots[degree] {
		return degree
	}
	lo, hi := degree, numCtrl
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if t < knots[mid] {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo
}

// deBoor1D evaluates a single B-spline span by repeated affine
// combination of the local control points.
func deBoor1D(ctrl []r3.Vector, knots []float64, degree int, t float64) r3.Vector {
	span := findSpan(knots, degree, len(ctrl), t)
	d := make([]r3.Vector, degree+1)
	for j := 0; j <= degree; j++ {
		d[j] = ctrl[span-degree+j]
	}
	for r := 1; r <= degree; r++ {
		for j := degree; j >= r; j-- {
			i := span - degree + j
			denom := knots[i+degree-r+1] - knots[i]
			alpha := 0.0
			if denom != 0 {
				alpha = (t - knots[i]) / denom
			}
			d[j] = d[j-1].Mul(1 - alpha).Add(d[j].Mul(alpha))
		}
	}
	return d[degree]
}

// Evaluate runs de Boor along v for each control row, then along u.
func (b BSpline) Evaluate(u, v float64) vmath.Point {
	rows := make([]r3.Vector, len(b.Control))
	for i, row := range b.Control {
		col := make([]r3.Vector, len(row))
		for j, p := range row {
			col[j] = p.Vector
		}
		rows[i] = deBoor1D(col, b.KnotsV, b.DegreeV, v)
	}
	return vmath.Point{Vector: deBoor1D(rows, b.KnotsU, b.DegreeU, u)}
}

// derivStep is the central-difference step for spline derivatives.
const derivStep = 1e-6

// PartialU is a central difference; spline intersections go through the
// marching path, which only needs first-order accuracy.
func (b BSpline) PartialU(u, v float64) r3.Vector {
	du, _ := b.Domain()
	lo, hi := clampStep(u, du)
	return b.Evaluate(hi, v).Sub(b.Evaluate(lo, v).Vector).Mul(1 / (hi - lo))
}

// PartialV is a central difference.
func (b BSpline) PartialV(u, v float64) r3.Vector {
	_, dv := b.Domain()
	lo, hi := clampStep(v, dv)
	return b.Evaluate(u, hi).Sub(b.Evaluate(u, lo).Vector).Mul(1 / (hi - lo))
}

func clampStep(t float64, dom r1.Interval) (lo, hi float64) {
	lo, hi = t-derivStep, t+derivStep
	if lo < dom.Lo {
		lo = dom.Lo
	}
	if hi > dom.Hi {
		hi = dom.Hi
	}
	return lo, hi
}

// Normal is the numerical normal dU x dV.
func (b BSpline) Normal(u, v float64) r3.Vector {
	return numericalNormal(b, u, v)
}

// Transformed maps every control point.
func (b BSpline) Transformed(t vmath.Transform) Surface {
	control := make([][]vmath.Point, len(b.Control))
	for i, row := range b.Control {
		control[i] = make([]vmath.Point, len(row))
		for j, p := range row {
			control[i][j] = t.ApplyPoint(p)
		}
	}
	out := b
	out.Control = control
	out.KnotsU = append([]float64(nil), b.KnotsU...)
	out.KnotsV = append([]float64(nil), b.KnotsV...)
	return out
}
