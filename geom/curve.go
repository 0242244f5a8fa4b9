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
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r3"

	"github.com/JJZ993/vcad-sub001/vmath"
)

// CurveKind tags the concrete type of a Curve.
type CurveKind int

// The curve kinds understood by the kernel.
const (
	CurveLine CurveKind = iota
	CurveCircle
	CurveBSpline
)

// Curve is a parametric curve r(t). Implementations are immutable.
type Curve interface {
	// Kind is the downcast tag.
	Kind() CurveKind

	// Domain returns the parameter interval.
	Domain() r1.Interval

	// Evaluate returns the point at t.
	Evaluate(t float64) vmath.Point

	// Tangent returns the (non-normalized) derivative at t.
	Tangent(t float64) r3.Vector

	// SuggestedSegments returns the subdivision count a tessellator
	// should use for this curve. 0 means one straight segment.
	SuggestedSegments() int
}

// Line is the infinite line Origin + t*Dir, usually trimmed by Domain
// to a segment.
type Line struct {
	Origin vmath.Point
	Dir    vmath.Direction
	Dom    r1.Interval
}

// LineThrough builds the segment from a to b, parameterized by length.
func LineThrough(a, b vmath.Point) Line {
	d, _ := vmath.DirectionFromVector(b.Sub(a.Vector))
	return Line{Origin: a, Dir: d, Dom: r1.Interval{Lo: 0, Hi: a.Distance(b)}}
}

// Kind returns CurveLine.
func (l Line) Kind() CurveKind { return CurveLine }

// Domain returns the trim interval.
func (l Line) Domain() r1.Interval { return l.Dom }

// Evaluate returns Origin + t*Dir.
func (l Line) Evaluate(t float64) vmath.Point {
	return l.Origin.Translated(l.Dir.Mul(t))
}

// Tangent is the constant direction.
func (l Line) Tangent(t float64) r3.Vector { return l.Dir.Vector }

// SuggestedSegments is 0: lines need no subdivision.
func (l Line) SuggestedSegments() int { return 0 }

// ClosestParam returns the parameter of the point on the (untrimmed)
// line closest to p.
func (l Line) ClosestParam(p vmath.Point) float64 {
	return p.Sub(l.Origin.Vector).Dot(l.Dir.Vector)
}

// Circle is the circle of the given Radius about Center in the plane
// with unit Normal. XDir lies in the plane and marks t = 0; the
// parameter is the angle in radians.
type Circle struct {
	Center vmath.Point
	Normal vmath.Direction
	XDir   vmath.Direction
	Radius float64
}

// NewCircle builds a full circle, choosing an arbitrary in-plane
// reference direction.
func NewCircle(center vmath.Point, normal vmath.Direction, radius float64) Circle {
	return Circle{Center: center, Normal: normal, XDir: normal.AnyPerpendicular(), Radius: radius}
}

// Kind returns CurveCircle.
func (c Circle) Kind() CurveKind { return CurveCircle }

// Domain returns one full period [0, 2*pi].
func (c Circle) Domain() r1.Interval { return r1.Interval{Lo: 0, Hi: twoPi} }

// Evaluate returns the point at angle t.
func (c Circle) Evaluate(t float64) vmath.Point {
	sin, cos := math.Sincos(t)
	y := c.Normal.Cross(c.XDir.Vector)
	return c.Center.Translated(c.XDir.Mul(cos * c.Radius).Add(y.Mul(sin * c.Radius)))
}

// Tangent returns the derivative with respect to the angle.
func (c Circle) Tangent(t float64) r3.Vector {
	sin, cos := math.Sincos(t)
	y := c.Normal.Cross(c.XDir.Vector)
	return c.XDir.Mul(-sin * c.Radius).Add(y.Mul(cos * c.Radius))
}

// SuggestedSegments scales with radius so large circles stay smooth.
func (c Circle) SuggestedSegments() int {
	n := int(math.Ceil(c.Radius * 4))
	if n < 16 {
		n = 16
	}
	if n > 128 {
		n = 128
	}
	return n
}

// BSplineCurve is a clamped B-spline curve evaluated with de Boor's
// algorithm.
type BSplineCurve struct {
	Control []vmath.Point
	Degree  int
	Knots   []float64
}

// UniformBSplineCurve builds a clamped uniform-knot curve with domain
// [0, 1].
func UniformBSplineCurve(control []vmath.Point, degree int) BSplineCurve {
	return BSplineCurve{
		Control: control,
		Degree:  degree,
		Knots:   clampedUniformKnots(len(control), degree),
	}
}

// Kind returns CurveBSpline.
func (b BSplineCurve) Kind() CurveKind { return CurveBSpline }

// Domain returns the valid knot span.
func (b BSplineCurve) Domain() r1.Interval {
	return r1.Interval{Lo: b.Knots[b.Degree], Hi: b.Knots[len(b.Knots)-b.Degree-1]}
}

// Evaluate runs de Boor on the control polygon.
func (b BSplineCurve) Evaluate(t float64) vmath.Point {
	ctrl := make([]r3.Vector, len(b.Control))
	for i, p := range b.Control {
		ctrl[i] = p.Vector
	}
	return vmath.Point{Vector: deBoor1D(ctrl, b.Knots, b.Degree, t)}
}

// Tangent is a central difference.
func (b BSplineCurve) Tangent(t float64) r3.Vector {
	lo, hi := clampStep(t, b.Domain())
	return b.Evaluate(hi).Sub(b.Evaluate(lo).Vector).Mul(1 / (hi - lo))
}

// SuggestedSegments grows with the control polygon size.
func (b BSplineCurve) SuggestedSegments() int {
	return 8 * len(b.Control)
}
