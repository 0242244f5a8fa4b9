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

// checkDerivatives compares the analytic partials of s against central
// differences at (u, v).
func checkDerivatives(tst *testing.T, name string, s Surface, u, v float64) {
	const h = 1e-6
	du := s.Evaluate(u+h, v).Sub(s.Evaluate(u-h, v).Vector).Mul(1 / (2 * h))
	dv := s.Evaluate(u, v+h).Sub(s.Evaluate(u, v-h).Vector).Mul(1 / (2 * h))
	gotU := s.PartialU(u, v)
	gotV := s.PartialV(u, v)
	chk.Float64(tst, name+" dU.x", 1e-5, gotU.X, du.X)
	chk.Float64(tst, name+" dU.y", 1e-5, gotU.Y, du.Y)
	chk.Float64(tst, name+" dU.z", 1e-5, gotU.Z, du.Z)
	chk.Float64(tst, name+" dV.x", 1e-5, gotV.X, dv.X)
	chk.Float64(tst, name+" dV.y", 1e-5, gotV.Y, dv.Y)
	chk.Float64(tst, name+" dV.z", 1e-5, gotV.Z, dv.Z)
}

func TestPlaneEvaluate(tst *testing.T) {
	chk.PrintTitle("plane evaluation")

	p := NewPlane(vmath.PointFromCoords(1, 2, 3), vmath.ZAxis)
	got := p.Evaluate(0, 0)
	chk.Float64(tst, "origin z", 1e-15, got.Z, 3)

	n := p.Normal(0.3, -0.7)
	chk.Float64(tst, "normal z", 1e-15, n.Z, 1)
	chk.Float64(tst, "normal norm", 1e-15, n.Norm(), 1)

	chk.Float64(tst, "signed distance", 1e-15, p.SignedDistance(vmath.PointFromCoords(0, 0, 8)), 5)

	u, v := p.Project(p.Evaluate(4.5, -2.25))
	chk.Float64(tst, "project u", 1e-12, u, 4.5)
	chk.Float64(tst, "project v", 1e-12, v, -2.25)

	checkDerivatives(tst, "plane", p, 0.4, 1.6)
}

func TestCylinderEvaluate(tst *testing.T) {
	chk.PrintTitle("cylinder evaluation")

	c := NewCylinder(vmath.PointFromCoords(0, 0, 0), vmath.ZAxis, 5, 10)

	// Every point on the wall is at radius 5 from the axis.
	for _, u := range []float64{0, 1, math.Pi, 5.1} {
		p := c.Evaluate(u, 3)
		r := math.Hypot(p.X, p.Y)
		chk.Float64(tst, "radius", 1e-12, r, 5)
		chk.Float64(tst, "height", 1e-12, p.Z, 3)
	}

	// u wraps modulo 2*pi.
	a := c.Evaluate(0.25, 1)
	b := c.Evaluate(0.25+twoPi, 1)
	chk.Float64(tst, "wrap", 1e-9, a.Distance(b), 0)

	// Normal is radial and unit length.
	n := c.Normal(1.1, 4)
	chk.Float64(tst, "normal norm", 1e-12, n.Norm(), 1)
	chk.Float64(tst, "normal axial", 1e-12, n.Z, 0)

	checkDerivatives(tst, "cylinder", c, 2.1, 6.5)
}

func TestConeEvaluate(tst *testing.T) {
	chk.PrintTitle("cone evaluation")

	c := NewCone(vmath.PointFromCoords(0, 0, 0), vmath.ZAxis, 4, 1, 6)
	chk.Float64(tst, "bottom radius", 1e-12, math.Hypot(c.Evaluate(0.8, 0).X, c.Evaluate(0.8, 0).Y), 4)
	chk.Float64(tst, "top radius", 1e-12, math.Hypot(c.Evaluate(2.5, 6).X, c.Evaluate(2.5, 6).Y), 1)
	chk.Float64(tst, "mid radius", 1e-12, math.Hypot(c.Evaluate(0, 3).X, c.Evaluate(0, 3).Y), 2.5)

	checkDerivatives(tst, "cone", c, 1.2, 2.0)
}

func TestSphereEvaluate(tst *testing.T) {
	chk.PrintTitle("sphere evaluation")

	s := NewSphere(vmath.PointFromCoords(1, -2, 0.5), 7)
	for _, uv := range [][2]float64{{0, 0}, {1, 0.3}, {3, -1.2}, {6, 1.5}} {
		p := s.Evaluate(uv[0], uv[1])
		chk.Float64(tst, "radius", 1e-12, p.Distance(s.Frame.Origin), 7)

		// Normal is the unit radial direction.
		n := s.Normal(uv[0], uv[1])
		radial := p.Sub(s.Frame.Origin.Vector).Normalize()
		chk.Float64(tst, "normal alignment", 1e-12, n.Dot(radial), 1)
	}

	checkDerivatives(tst, "sphere", s, 0.9, 0.4)
}

func TestTorusEvaluate(tst *testing.T) {
	chk.PrintTitle("torus evaluation")

	t := NewTorus(vmath.PointFromCoords(0, 0, 0), vmath.ZAxis, 10, 2)
	for _, uv := range [][2]float64{{0, 0}, {1.5, 2.5}, {4, 5.5}} {
		p := t.Evaluate(uv[0], uv[1])
		// Distance from the ring circle is the tube radius.
		ringDist := math.Hypot(math.Hypot(p.X, p.Y)-10, p.Z)
		chk.Float64(tst, "tube radius", 1e-12, ringDist, 2)
	}

	// Both directions wrap.
	chk.Float64(tst, "wrap u", 1e-9, t.Evaluate(0.3, 1).Distance(t.Evaluate(0.3+twoPi, 1)), 0)
	chk.Float64(tst, "wrap v", 1e-9, t.Evaluate(1, 0.3).Distance(t.Evaluate(1, 0.3+twoPi)), 0)

	checkDerivatives(tst, "torus", t, 2.2, 0.7)
}

func TestBilinearEvaluate(tst *testing.T) {
	chk.PrintTitle("bilinear patch evaluation")

	b := Bilinear{
		P00: vmath.PointFromCoords(0, 0, 0),
		P10: vmath.PointFromCoords(2, 0, 0),
		P01: vmath.PointFromCoords(0, 2, 0),
		P11: vmath.PointFromCoords(2, 2, 4),
	}
	chk.Float64(tst, "corner", 1e-15, b.Evaluate(1, 1).Z, 4)
	chk.Float64(tst, "center", 1e-15, b.Evaluate(0.5, 0.5).Z, 1)
	checkDerivatives(tst, "bilinear", b, 0.25, 0.75)
}

func TestBSplineSurface(tst *testing.T) {
	chk.PrintTitle("b-spline surface evaluation")

	// A flat 4x4 quadratic patch over z=0 must evaluate on the plane,
	// with corners interpolated (clamped knots).
	control := make([][]vmath.Point, 4)
	for i := range control {
		control[i] = make([]vmath.Point, 4)
		for j := range control[i] {
			control[i][j] = vmath.PointFromCoords(float64(i), float64(j), 0)
		}
	}
	b := UniformBSpline(control, 2, 2)

	u, v := b.Domain()
	chk.Float64(tst, "domain lo", 1e-15, u.Lo, 0)
	chk.Float64(tst, "domain hi", 1e-15, u.Hi, 1)

	p00 := b.Evaluate(u.Lo, v.Lo)
	chk.Float64(tst, "corner x", 1e-12, p00.X, 0)
	chk.Float64(tst, "corner y", 1e-12, p00.Y, 0)

	p11 := b.Evaluate(u.Hi, v.Hi)
	chk.Float64(tst, "far corner x", 1e-12, p11.X, 3)
	chk.Float64(tst, "far corner y", 1e-12, p11.Y, 3)

	mid := b.Evaluate(0.5, 0.5)
	chk.Float64(tst, "interior z", 1e-12, mid.Z, 0)
}

func TestSurfaceTransformed(tst *testing.T) {
	chk.PrintTitle("surface transform rebuild")

	c := NewCylinder(vmath.PointFromCoords(0, 0, 0), vmath.ZAxis, 5, 10)
	tr := vmath.Translation(r3.Vector{X: 3}).Then(vmath.Scaling(2, 2, 2))
	got := c.Transformed(tr).(Cylinder)
	chk.Float64(tst, "scaled radius", 1e-12, got.Radius, 10)
	chk.Float64(tst, "scaled height", 1e-12, got.VDomain.Hi, 20)
	chk.Float64(tst, "moved base x", 1e-12, got.Frame.Origin.X, 6)

	s := NewSphere(vmath.PointFromCoords(1, 0, 0), 4)
	gotS := s.Transformed(vmath.Scaling(3, 3, 3)).(Sphere)
	chk.Float64(tst, "sphere radius", 1e-12, gotS.Radius, 12)
}

func TestStoreAppendOnly(tst *testing.T) {
	st := NewStore()
	i0 := st.AddSurface(NewSphere(vmath.PointFromCoords(0, 0, 0), 1))
	i1 := st.AddSurface(NewPlane(vmath.PointFromCoords(0, 0, 0), vmath.ZAxis))
	if i0 != 0 || i1 != 1 {
		tst.Fatalf("indices not dense: %d, %d", i0, i1)
	}
	if st.NumSurfaces() != 2 {
		tst.Fatalf("NumSurfaces = %d", st.NumSurfaces())
	}
	if st.Surface(i0).Kind() != KindSphere || st.Surface(i1).Kind() != KindPlane {
		tst.Fatal("stored kinds do not round-trip")
	}

	c0 := st.AddCurve(LineThrough(vmath.PointFromCoords(0, 0, 0), vmath.PointFromCoords(1, 0, 0)))
	if c0 != 0 || st.NumCurves() != 1 {
		tst.Fatal("curve indices not dense")
	}
}
