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

// twoPi is the period of every closed parameter direction.
const twoPi = 2 * math.Pi

// frame is the positioning common to all quadrics: an origin, the main
// axis, and a reference direction at u = 0. XDir and Axis are
// perpendicular; YDir = Axis x XDir completes the right-handed frame.
type frame struct {
	Origin vmath.Point
	Axis   vmath.Direction
	XDir   vmath.Direction
}

func (f frame) yDir() r3.Vector {
	return f.Axis.Cross(f.XDir.Vector)
}

// radial returns cos(u)*XDir + sin(u)*YDir.
func (f frame) radial(u float64) r3.Vector {
	sin, cos := math.Sincos(u)
	return f.XDir.Mul(cos).Add(f.yDir().Mul(sin))
}

// dRadial returns d/du of radial(u).
func (f frame) dRadial(u float64) r3.Vector {
	sin, cos := math.Sincos(u)
	return f.XDir.Mul(-sin).Add(f.yDir().Mul(cos))
}

func (f frame) transformed(t vmath.Transform) (frame, float64) {
	axisV := t.ApplyVector(f.Axis.Vector)
	xV := t.ApplyVector(f.XDir.Vector)
	axis, okA := vmath.DirectionFromVector(axisV)
	x, okX := vmath.DirectionFromVector(xV)
	if !okA || !okX {
		return f, 1
	}
	// Radial scale factor measured along the reference direction;
	// exact for rigid motion and uniform scale.
	return frame{Origin: t.ApplyPoint(f.Origin), Axis: axis, XDir: x}, xV.Norm()
}

// Cylinder is a circular cylinder of the given Radius about
// frame.Axis. u is the angle around the axis (period 2*pi), v the
// signed distance along the axis from the origin within VDomain.
type Cylinder struct {
	Frame   frame
	Radius  float64
	VDomain r1.Interval
}

// NewCylinder builds a cylinder from base center, axis, radius and
// height, with v running from 0 to height.
func NewCylinder(base vmath.Point, axis vmath.Direction, radius, height float64) Cylinder {
	return Cylinder{
		Frame:   frame{Origin: base, Axis: axis, XDir: axis.AnyPerpendicular()},
		Radius:  radius,
		VDomain: r1.Interval{Lo: 0, Hi: height},
	}
}

// Kind returns KindCylinder.
func (c Cylinder) Kind() Kind { return KindCylinder }

// Domain returns u in [0, 2*pi] (closed) and the axial v interval.
func (c Cylinder) Domain() (u, v r1.Interval) {
	return r1.Interval{Lo: 0, Hi: twoPi}, c.VDomain
}

// Evaluate returns Origin + R*radial(u) + v*Axis.
func (c Cylinder) Evaluate(u, v float64) vmath.Point {
	return c.Frame.Origin.Translated(c.Frame.radial(u).Mul(c.Radius).Add(c.Frame.Axis.Mul(v)))
}

// PartialU is R * d(radial)/du.
func (c Cylinder) PartialU(u, v float64) r3.Vector {
	return c.Frame.dRadial(u).Mul(c.Radius)
}

// PartialV is the axis direction.
func (c Cylinder) PartialV(u, v float64) r3.Vector { return c.Frame.Axis.Vector }

// Normal points radially outward.
func (c Cylinder) Normal(u, v float64) r3.Vector { return c.Frame.radial(u) }

// Transformed rebuilds the cylinder in the transformed frame.
func (c Cylinder) Transformed(t vmath.Transform) Surface {
	f, scale := c.Frame.transformed(t)
	axial := t.ApplyVector(c.Frame.Axis.Vector).Norm()
	return Cylinder{
		Frame:   f,
		Radius:  c.Radius * scale,
		VDomain: r1.Interval{Lo: c.VDomain.Lo * axial, Hi: c.VDomain.Hi * axial},
	}
}

// Cone is a right circular cone (or frustum) about frame.Axis. The
// radius varies linearly from RadiusBottom at v=0 to RadiusTop at
// v=Height; VDomain trims the axial extent (a band of the full cone
// after splitting).
type Cone struct {
	Frame        frame
	RadiusBottom float64
	RadiusTop    float64
	Height       float64
	VDomain      r1.Interval
}

// NewCone builds a full cone from base center, axis, radii and height.
func NewCone(base vmath.Point, axis vmath.Direction, rBottom, rTop, height float64) Cone {
	return Cone{
		Frame:        frame{Origin: base, Axis: axis, XDir: axis.AnyPerpendicular()},
		RadiusBottom: rBottom,
		RadiusTop:    rTop,
		Height:       height,
		VDomain:      r1.Interval{Lo: 0, Hi: height},
	}
}

// Kind returns KindCone.
func (c Cone) Kind() Kind { return KindCone }

// Domain returns u in [0, 2*pi] and the trimmed axial interval.
func (c Cone) Domain() (u, v r1.Interval) {
	return r1.Interval{Lo: 0, Hi: twoPi}, c.VDomain
}

func (c Cone) radiusAt(v float64) float64 {
	if c.Height == 0 {
		return c.RadiusBottom
	}
	return c.RadiusBottom + (c.RadiusTop-c.RadiusBottom)*(v/c.Height)
}

// Evaluate returns Origin + r(v)*radial(u) + v*Axis.
func (c Cone) Evaluate(u, v float64) vmath.Point {
	return c.Frame.Origin.Translated(c.Frame.radial(u).Mul(c.radiusAt(v)).Add(c.Frame.Axis.Mul(v)))
}

// PartialU is r(v) * d(radial)/du.
func (c Cone) PartialU(u, v float64) r3.Vector {
	return c.Frame.dRadial(u).Mul(c.radiusAt(v))
}

// PartialV combines the radius slope with the axis direction.
func (c Cone) PartialV(u, v float64) r3.Vector {
	slope := 0.0
	if c.Height != 0 {
		slope = (c.RadiusTop - c.RadiusBottom) / c.Height
	}
	return c.Frame.radial(u).Mul(slope).Add(c.Frame.Axis.Vector)
}

// Normal points outward, tilted by the cone half-angle.
func (c Cone) Normal(u, v float64) r3.Vector {
	return numericalNormal(c, u, v)
}

// Transformed rebuilds the cone in the transformed frame.
func (c Cone) Transformed(t vmath.Transform) Surface {
	f, scale := c.Frame.transformed(t)
	axial := t.ApplyVector(c.Frame.Axis.Vector).Norm()
	return Cone{
		Frame:        f,
		RadiusBottom: c.RadiusBottom * scale,
		RadiusTop:    c.RadiusTop * scale,
		Height:       c.Height * axial,
		VDomain:      r1.Interval{Lo: c.VDomain.Lo * axial, Hi: c.VDomain.Hi * axial},
	}
}

// Sphere is the sphere of the given Radius about Frame.Origin.
// u is the azimuth (period 2*pi), v the latitude with v=0 on the
// equator; VDomain trims the latitude range (a band of the full
// sphere after splitting).
type Sphere struct {
	Frame   frame
	Radius  float64
	VDomain r1.Interval
}

// NewSphere builds a full sphere centered at c. The frame's reference
// direction derives from the axis the same way circle frames do, so
// parametric rings and boundary circles sample in phase.
func NewSphere(c vmath.Point, radius float64) Sphere {
	return Sphere{
		Frame:   frame{Origin: c, Axis: vmath.ZAxis, XDir: vmath.ZAxis.AnyPerpendicular()},
		Radius:  radius,
		VDomain: r1.Interval{Lo: -math.Pi / 2, Hi: math.Pi / 2},
	}
}

// Kind returns KindSphere.
func (s Sphere) Kind() Kind { return KindSphere }

// Domain returns u in [0, 2*pi] and the trimmed latitude interval.
func (s Sphere) Domain() (u, v r1.Interval) {
	return r1.Interval{Lo: 0, Hi: twoPi}, s.VDomain
}

// Evaluate returns the point at azimuth u, latitude v.
func (s Sphere) Evaluate(u, v float64) vmath.Point {
	sinV, cosV := math.Sincos(v)
	radial := s.Frame.radial(u).Mul(cosV).Add(s.Frame.Axis.Mul(sinV))
	return s.Frame.Origin.Translated(radial.Mul(s.Radius))
}

// PartialU is the azimuthal tangent.
func (s Sphere) PartialU(u, v float64) r3.Vector {
	return s.Frame.dRadial(u).Mul(s.Radius * math.Cos(v))
}

// PartialV is the meridional tangent.
func (s Sphere) PartialV(u, v float64) r3.Vector {
	sinV, cosV := math.Sincos(v)
	return s.Frame.Axis.Mul(cosV).Sub(s.Frame.radial(u).Mul(sinV)).Mul(s.Radius)
}

// Normal points radially outward from the center.
func (s Sphere) Normal(u, v float64) r3.Vector {
	return s.Evaluate(u, v).Sub(s.Frame.Origin.Vector).Mul(1 / s.Radius)
}

// Transformed rebuilds the sphere in the transformed frame.
func (s Sphere) Transformed(t vmath.Transform) Surface {
	f, scale := s.Frame.transformed(t)
	return Sphere{Frame: f, Radius: s.Radius * scale, VDomain: s.VDomain}
}

// Torus is the torus with major radius Major about Frame.Axis and tube
// radius Minor. Both u (around the axis) and v (around the tube) are
// closed with period 2*pi.
type Torus struct {
	Frame frame
	Major float64
	Minor float64
}

// NewTorus builds a torus centered at c with the given axis.
func NewTorus(c vmath.Point, axis vmath.Direction, major, minor float64) Torus {
	return Torus{
		Frame: frame{Origin: c, Axis: axis, XDir: axis.AnyPerpendicular()},
		Major: major,
		Minor: minor,
	}
}

// Kind returns KindTorus.
func (t Torus) Kind() Kind { return KindTorus }

// Domain returns u and v both in [0, 2*pi].
func (t Torus) Domain() (u, v r1.Interval) {
	i := r1.Interval{Lo: 0, Hi: twoPi}
	return i, i
}

// Evaluate returns the point at ring angle u, tube angle v.
func (t Torus) Evaluate(u, v float64) vmath.Point {
	sinV, cosV := math.Sincos(v)
	radial := t.Frame.radial(u)
	ring := radial.Mul(t.Major + t.Minor*cosV)
	return t.Frame.Origin.Translated(ring.Add(t.Frame.Axis.Mul(t.Minor * sinV)))
}

// PartialU is the tangent around the main axis.
func (t Torus) PartialU(u, v float64) r3.Vector {
	return t.Frame.dRadial(u).Mul(t.Major + t.Minor*math.Cos(v))
}

// PartialV is the tangent around the tube.
func (t Torus) PartialV(u, v float64) r3.Vector {
	sinV, cosV := math.Sincos(v)
	return t.Frame.Axis.Mul(t.Minor * cosV).Sub(t.Frame.radial(u).Mul(t.Minor * sinV))
}

// Normal points out of the tube.
func (t Torus) Normal(u, v float64) r3.Vector {
	sinV, cosV := math.Sincos(v)
	return t.Frame.radial(u).Mul(cosV).Add(t.Frame.Axis.Mul(sinV))
}

// Transformed rebuilds the torus in the transformed frame.
func (t Torus) Transformed(tr vmath.Transform) Surface {
	f, scale := t.Frame.transformed(tr)
	return Torus{Frame: f, Major: t.Major * scale, Minor: t.Minor * scale}
}
