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

// planeExtent bounds the parameter rectangle of an (unbounded) plane.
// Face trim loops, not this constant, bound real geometry.
const planeExtent = 1e9

// Plane is the surface Origin + u*XDir + v*YDir. The normal is
// XDir x YDir.
type Plane struct {
	Origin vmath.Point
	XDir   vmath.Direction
	YDir   vmath.Direction
}

// NewPlane builds a plane from an origin and a unit normal, choosing an
// arbitrary in-plane frame.
func NewPlane(origin vmath.Point, normal vmath.Direction) Plane {
	x := normal.AnyPerpendicular()
	y := vmath.Direction{Vector: normal.Cross(x.Vector)}
	return Plane{Origin: origin, XDir: x, YDir: y}
}

// Kind returns KindPlane.
func (p Plane) Kind() Kind { return KindPlane }

// Domain returns a parameter rectangle large enough for any model.
func (p Plane) Domain() (u, v r1.Interval) {
	i := r1.Interval{Lo: -planeExtent, Hi: planeExtent}
	return i, i
}

// Evaluate returns Origin + u*XDir + v*YDir.
func (p Plane) Evaluate(u, v float64) vmath.Point {
	return p.Origin.Translated(p.XDir.Mul(u).Add(p.YDir.Mul(v)))
}

// PartialU returns XDir.
func (p Plane) PartialU(u, v float64) r3.Vector { return p.XDir.Vector }

// PartialV returns YDir.
func (p Plane) PartialV(u, v float64) r3.Vector { return p.YDir.Vector }

// Normal returns the constant plane normal XDir x YDir.
func (p Plane) Normal(u, v float64) r3.Vector {
	return p.XDir.Cross(p.YDir.Vector)
}

// NormalDir returns the plane normal as a Direction.
func (p Plane) NormalDir() vmath.Direction {
	return vmath.Direction{Vector: p.Normal(0, 0)}
}

// SignedDistance returns the distance from pt to the plane along the
// normal.
func (p Plane) SignedDistance(pt vmath.Point) float64 {
	return pt.Sub(p.Origin.Vector).Dot(p.Normal(0, 0))
}

// Project returns the (u, v) parameters of the closest point on the
// plane to pt.
func (p Plane) Project(pt vmath.Point) (u, v float64) {
	d := pt.Sub(p.Origin.Vector)
	return d.Dot(p.XDir.Vector), d.Dot(p.YDir.Vector)
}

// Transformed carries the plane frame through t.
func (p Plane) Transformed(t vmath.Transform) Surface {
	x, okx := t.ApplyDirection(p.XDir)
	y, oky := t.ApplyDirection(p.YDir)
	if !okx || !oky {
		return p
	}
	// Re-orthogonalize under shear: keep x, rebuild y from the
	// transformed normal.
	n := t.ApplyNormal(p.Normal(0, 0))
	if nd, ok := vmath.DirectionFromVector(n); ok {
		y = vmath.Direction{Vector: nd.Cross(x.Vector)}
	}
	return Plane{Origin: t.ApplyPoint(p.Origin), XDir: x, YDir: y}
}
