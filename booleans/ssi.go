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

	"github.com/golang/geo/r1"

	"github.com/JJZ993/vcad-sub001/geom"
	"github.com/JJZ993/vcad-sub001/vmath"
)

// CurveKind tags the shape of an intersection result.
type CurveKind int

// The intersection curve kinds.
const (
	CurveEmpty CurveKind = iota
	CurvePoint
	CurveLine
	CurveTwoLines
	CurveCircle
	CurveSampled
)

func (k CurveKind) String() string {
	switch k {
	case CurveEmpty:
		return "Empty"
	case CurvePoint:
		return "Point"
	case CurveLine:
		return "Line"
	case CurveTwoLines:
		return "TwoLines"
	case CurveCircle:
		return "Circle"
	}
	return "Sampled"
}

// IntersectionCurve is the result of intersecting two surfaces,
// trimmed to the domains of both inputs but not to face trims. Only
// the field selected by Kind is meaningful.
type IntersectionCurve struct {
	Kind    CurveKind
	Point   vmath.Point
	Line    geom.Line
	Line2   geom.Line
	Circle  geom.Circle
	Samples []vmath.Point
}

func emptyCurve() IntersectionCurve { return IntersectionCurve{Kind: CurveEmpty} }

// lineExtent bounds untrimmed intersection lines; face trims cut them
// down afterwards.
const lineExtent = 1e9

func fullLineDomain() r1.Interval {
	return r1.Interval{Lo: -lineExtent, Hi: lineExtent}
}

// Intersect computes the intersection curve of two surfaces,
// dispatching on the kind pair: closed forms for the plane/quadric
// pairs that have them, marching refinement for torus, bilinear and
// B-spline pairs without one.
func Intersect(a, b geom.Surface, tol vmath.Tolerance) IntersectionCurve {
	switch {
	case a.Kind() == geom.KindPlane && b.Kind() == geom.KindPlane:
		return planePlane(a.(geom.Plane), b.(geom.Plane), tol)
	case a.Kind() == geom.KindPlane && b.Kind() == geom.KindSphere:
		return planeSphere(a.(geom.Plane), b.(geom.Sphere), tol)
	case a.Kind() == geom.KindSphere && b.Kind() == geom.KindPlane:
		return planeSphere(b.(geom.Plane), a.(geom.Sphere), tol)
	case a.Kind() == geom.KindPlane && b.Kind() == geom.KindCylinder:
		return planeCylinder(a.(geom.Plane), b.(geom.Cylinder), tol)
	case a.Kind() == geom.KindCylinder && b.Kind() == geom.KindPlane:
		return planeCylinder(b.(geom.Plane), a.(geom.Cylinder), tol)
	case a.Kind() == geom.KindSphere && b.Kind() == geom.KindSphere:
		return sphereSphere(a.(geom.Sphere), b.(geom.Sphere), tol)
	case a.Kind() == geom.KindPlane && b.Kind() == geom.KindTorus:
		return planeTorus(a.(geom.Plane), b.(geom.Torus), tol)
	case a.Kind() == geom.KindTorus && b.Kind() == geom.KindPlane:
		return planeTorus(b.(geom.Plane), a.(geom.Torus), tol)
	default:
		return marchingSSI(a, b, 64, tol)
	}
}

// planePlane returns the intersection line of two planes, or Empty for
// parallel planes. Coincident planes also report Empty: the overlap is
// a region, which the coplanar face classification owns.
func planePlane(a, b geom.Plane, tol vmath.Tolerance) IntersectionCurve {
	na := a.NormalDir().Vector
	nb := b.NormalDir().Vector
	u := na.Cross(nb)
	if tol.Parallel(na, nb) {
		return emptyCurve()
	}

	// p = (d1*(n2 x u) + d2*(u x n1)) / |u|^2 lies on both planes.
	d1 := na.Dot(a.Origin.Vector)
	d2 := nb.Dot(b.Origin.Vector)
	p := nb.Cross(u).Mul(d1).Add(u.Cross(na).Mul(d2)).Mul(1 / u.Norm2())

	dir, _ := vmath.DirectionFromVector(u)
	return IntersectionCurve{
		Kind: CurveLine,
		Line: geom.Line{Origin: vmath.Point{Vector: p}, Dir: dir, Dom: fullLineDomain()},
	}
}

// planeSphere returns the circle (or tangent point) where a plane cuts
// a sphere.
func planeSphere(p geom.Plane, s geom.Sphere, tol vmath.Tolerance) IntersectionCurve {
	d := p.SignedDistance(s.Frame.Origin)
	if math.Abs(d) > s.Radius+tol.Linear {
		return emptyCurve()
	}
	n := p.NormalDir()
	center := s.Frame.Origin.Translated(n.Mul(-d))
	if math.Abs(math.Abs(d)-s.Radius) <= tol.Linear {
		return IntersectionCurve{Kind: CurvePoint, Point: center}
	}
	r := math.Sqrt(s.Radius*s.Radius - d*d)
	return IntersectionCurve{Kind: CurveCircle, Circle: geom.NewCircle(center, n, r)}
}

// planeCylinder handles the three closed-form plane/cylinder cases:
// a plane parallel to the axis (two lines, one tangent line, or
// empty), a plane perpendicular to the axis (circle), and the oblique
// ellipse, which is sampled.
func planeCylinder(p geom.Plane, c geom.Cylinder, tol vmath.Tolerance) IntersectionCurve {
	n := p.NormalDir().Vector
	axis := c.Frame.Axis.Vector
	axialDot := math.Abs(n.Dot(axis))

	switch {
	case axialDot <= float64(tol.Angular):
		// Plane parallel to the axis. Distance from axis to plane
		// selects zero, one or two wall lines.
		d := p.SignedDistance(c.Frame.Origin)
		if math.Abs(d) > c.Radius+tol.Linear {
			return emptyCurve()
		}
		foot := c.Frame.Origin.Translated(n.Mul(-d))
		dir, _ := vmath.DirectionFromVector(axis)
		dom := r1.Interval{Lo: c.VDomain.Lo, Hi: c.VDomain.Hi}
		if math.Abs(math.Abs(d)-c.Radius) <= tol.Linear {
			return IntersectionCurve{
				Kind: CurveLine,
				Line: geom.Line{Origin: foot, Dir: dir, Dom: dom},
			}
		}
		// Chord offset along the in-plane direction perpendicular to
		// the axis.
		half := math.Sqrt(c.Radius*c.Radius - d*d)
		side, ok := vmath.DirectionFromVector(axis.Cross(n))
		if !ok {
			return emptyCurve()
		}
		return IntersectionCurve{
			Kind:  CurveTwoLines,
			Line:  geom.Line{Origin: foot.Translated(side.Mul(half)), Dir: dir, Dom: dom},
			Line2: geom.Line{Origin: foot.Translated(side.Mul(-half)), Dir: dir, Dom: dom},
		}
	case math.Abs(axialDot-1) <= float64(tol.Angular):
		// Plane perpendicular to the axis: a circle at the plane height.
		h := -p.SignedDistance(c.Frame.Origin) / n.Dot(axis)
		if !c.VDomain.Contains(h) {
			return emptyCurve()
		}
		center := c.Frame.Origin.Translated(axis.Mul(h))
		return IntersectionCurve{Kind: CurveCircle, Circle: geom.NewCircle(center, c.Frame.Axis, c.Radius)}
	default:
		// Oblique ellipse: sample around the cylinder and project onto
		// the plane along the axis.
		samples := make([]vmath.Point, 0, 64)
		nd := n.Dot(axis)
		for i := 0; i <= 64; i++ {
			u := twoPiF * float64(i) / 64
			onWall := c.Evaluate(u, 0)
			v := -p.SignedDistance(onWall) / nd
			if !c.VDomain.Contains(v) {
				continue
			}
			samples = append(samples, c.Evaluate(u, v))
		}
		if len(samples) < 2 {
			return emptyCurve()
		}
		return IntersectionCurve{Kind: CurveSampled, Samples: samples}
	}
}

// sphereSphere returns the circle, tangent point or empty intersection
// of two spheres.
func sphereSphere(a, b geom.Sphere, tol vmath.Tolerance) IntersectionCurve {
	d := a.Frame.Origin.Distance(b.Frame.Origin)
	if d > a.Radius+b.Radius+tol.Linear || d < math.Abs(a.Radius-b.Radius)-tol.Linear || d <= tol.Linear {
		return emptyCurve()
	}
	dir, _ := vmath.DirectionFromVector(b.Frame.Origin.Sub(a.Frame.Origin.Vector))

	// Distance from a's center to the radical plane.
	h := (d*d + a.Radius*a.Radius - b.Radius*b.Radius) / (2 * d)
	center := a.Frame.Origin.Translated(dir.Mul(h))
	r2 := a.Radius*a.Radius - h*h
	if r2 <= tol.Linear*tol.Linear {
		return IntersectionCurve{Kind: CurvePoint, Point: center}
	}
	return IntersectionCurve{Kind: CurveCircle, Circle: geom.NewCircle(center, dir, math.Sqrt(r2))}
}

// planeTorus handles the central and tangent closed forms and samples
// the oblique cases.
func planeTorus(p geom.Plane, t geom.Torus, tol vmath.Tolerance) IntersectionCurve {
	n := p.NormalDir().Vector
	axis := t.Frame.Axis.Vector
	d := p.SignedDistance(t.Frame.Origin)

	if tol.Parallel(n, axis) {
		// Plane perpendicular to the torus axis.
		if math.Abs(d) > t.Minor+tol.Linear {
			return emptyCurve()
		}
		if math.Abs(math.Abs(d)-t.Minor) <= tol.Linear {
			// Tangent: the extreme ring circle.
			center := t.Frame.Origin.Translated(n.Mul(-d))
			return IntersectionCurve{Kind: CurveCircle, Circle: geom.NewCircle(center, t.Frame.Axis, t.Major)}
		}
		// Central cut: two concentric circles. The result type carries
		// one circle, so both rings are returned sampled.
		half := math.Sqrt(t.Minor*t.Minor - d*d)
		center := t.Frame.Origin.Translated(n.Mul(-d))
		outer := geom.NewCircle(center, t.Frame.Axis, t.Major+half)
		inner := geom.NewCircle(center, t.Frame.Axis, t.Major-half)
		samples := sampleCircle(outer, 64)
		samples = append(samples, sampleCircle(inner, 64)...)
		return IntersectionCurve{Kind: CurveSampled, Samples: samples}
	}

	return marchingSSI(p, t, 96, tol)
}

func sampleCircle(c geom.Circle, n int) []vmath.Point {
	out := make([]vmath.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, c.Evaluate(twoPiF*float64(i)/float64(n)))
	}
	return out
}

const twoPiF = 2 * math.Pi
