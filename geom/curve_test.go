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
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/golang/geo/r3"

	"github.com/JJZ993/vcad-sub001/vmath"
)

func TestLineThrough(tst *testing.T) {
	chk.PrintTitle("line segment evaluation")

	l := LineThrough(vmath.PointFromCoords(1, 0, 0), vmath.PointFromCoords(1, 4, 0))
	chk.Float64(tst, "domain lo", 1e-15, l.Domain().Lo, 0)
	chk.Float64(tst, "domain hi", 1e-15, l.Domain().Hi, 4)

	mid := l.Evaluate(2)
	chk.Float64(tst, "mid y", 1e-12, mid.Y, 2)
	chk.Float64(tst, "mid x", 1e-12, mid.X, 1)

	chk.Float64(tst, "closest param", 1e-12, l.ClosestParam(vmath.PointFromCoords(50, 3, 9)), 3)
	if l.SuggestedSegments() != 0 {
		tst.Error("line should not subdivide")
	}
}

func TestCircleEvaluate(tst *testing.T) {
	chk.PrintTitle("circle evaluation")

	c := NewCircle(vmath.PointFromCoords(2, 0, 1), vmath.ZAxis, 3)
	for _, a := range []float64{0, 1, math.Pi, 5} {
		p := c.Evaluate(a)
		chk.Float64(tst, "radius", 1e-12, p.Distance(c.Center), 3)
		chk.Float64(tst, "plane", 1e-12, p.Z, 1)

		// Tangent is perpendicular to the radius.
		tan := c.Tangent(a)
		chk.Float64(tst, "tangent perp", 1e-12, tan.Dot(p.Sub(c.Center.Vector)), 0)
	}
	chk.Float64(tst, "closure", 1e-9, c.Evaluate(0).Distance(c.Evaluate(twoPi)), 0)
	if c.SuggestedSegments() < 16 {
		tst.Errorf("suggested segments = %d", c.SuggestedSegments())
	}
}

func TestBSplineCurve(tst *testing.T) {
	chk.PrintTitle("b-spline curve evaluation")

	// Quadratic over collinear control points stays on the line and
	// interpolates the clamped ends.
	ctrl := []vmath.Point{
		vmath.PointFromCoords(0, 0, 0),
		vmath.PointFromCoords(1, 1, 0),
		vmath.PointFromCoords(2, 2, 0),
		vmath.PointFromCoords(3, 3, 0),
	}
	b := UniformBSplineCurve(ctrl, 2)

	dom := b.Domain()
	start := b.Evaluate(dom.Lo)
	end := b.Evaluate(dom.Hi)
	chk.Float64(tst, "start", 1e-12, start.Distance(ctrl[0]), 0)
	chk.Float64(tst, "end", 1e-12, end.Distance(ctrl[3]), 0)

	for _, t := range []float64{0.2, 0.5, 0.8} {
		p := b.Evaluate(t)
		chk.Float64(tst, "on line", 1e-12, p.X-p.Y, 0)
		chk.Float64(tst, "planar", 1e-12, p.Z, 0)
	}
	if b.SuggestedSegments() <= 0 {
		tst.Error("spline needs subdivision")
	}
}

func TestStoreTransformedCurves(tst *testing.T) {
	chk.PrintTitle("store transform rebuilds curves")

	st := NewStore()
	st.AddCurve(LineThrough(vmath.PointFromCoords(0, 0, 0), vmath.PointFromCoords(2, 0, 0)))
	st.AddCurve(NewCircle(vmath.PointFromCoords(0, 0, 0), vmath.ZAxis, 1))

	tr := vmath.Translation(r3.Vector{Z: 5}).Then(vmath.Scaling(3, 3, 3))
	moved := st.Transformed(tr)

	line := moved.Curve(0).(Line)
	chk.Float64(tst, "line length", 1e-12, line.Domain().Hi, 6)
	chk.Float64(tst, "line z", 1e-12, line.Origin.Z, 15)

	circle := moved.Curve(1).(Circle)
	chk.Float64(tst, "circle radius", 1e-12, circle.Radius, 3)
	chk.Float64(tst, "circle z", 1e-12, circle.Center.Z, 15)

	// The source store is untouched.
	chk.Float64(tst, "source radius", 1e-15, st.Curve(1).(Circle).Radius, 1)
}
