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

	"github.com/JJZ993/vcad-sub001/vmath"
)

// ProjectUV returns parameters (u, v) of the surface point nearest to p,
// closed-form for the analytic kinds and by coarse grid search for
// bilinear and B-spline surfaces. It is a support routine for probe
// points and tessellation, not an exact inversion: for points far from
// the surface it returns the parameters of a reasonable proxy.
func ProjectUV(s Surface, p vmath.Point) (u, v float64) {
	switch sf := s.(type) {
	case Plane:
		return sf.Project(p)
	case Cylinder:
		d := p.Sub(sf.Frame.Origin.Vector)
		v = d.Dot(sf.Frame.Axis.Vector)
		radial := d.Sub(sf.Frame.Axis.Mul(v))
		return wrapAngle(math.Atan2(radial.Dot(sf.Frame.yDir()), radial.Dot(sf.Frame.XDir.Vector))), v
	case Cone:
		d := p.Sub(sf.Frame.Origin.Vector)
		v = d.Dot(sf.Frame.Axis.Vector)
		radial := d.Sub(sf.Frame.Axis.Mul(v))
		return wrapAngle(math.Atan2(radial.Dot(sf.Frame.yDir()), radial.Dot(sf.Frame.XDir.Vector))), v
	case Sphere:
		d := p.Sub(sf.Frame.Origin.Vector)
		axial := d.Dot(sf.Frame.Axis.Vector)
		radial := d.Sub(sf.Frame.Axis.Mul(axial))
		u = wrapAngle(math.Atan2(radial.Dot(sf.Frame.yDir()), radial.Dot(sf.Frame.XDir.Vector)))
		v = math.Atan2(axial, radial.Norm())
		return u, v
	case Torus:
		d := p.Sub(sf.Frame.Origin.Vector)
		axial := d.Dot(sf.Frame.Axis.Vector)
		radial := d.Sub(sf.Frame.Axis.Mul(axial))
		u = wrapAngle(math.Atan2(radial.Dot(sf.Frame.yDir()), radial.Dot(sf.Frame.XDir.Vector)))
		v = wrapAngle(math.Atan2(axial, radial.Norm()-sf.Major))
		return u, v
	}

	// Bilinear and B-spline: coarse grid search.
	du, dv := s.Domain()
	const n = 16
	best := math.Inf(1)
	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			gu := du.Lo + (du.Hi-du.Lo)*float64(i)/n
			gv := dv.Lo + (dv.Hi-dv.Lo)*float64(j)/n
			if d2 := s.Evaluate(gu, gv).Sub(p.Vector).Norm2(); d2 < best {
				best, u, v = d2, gu, gv
			}
		}
	}
	return u, v
}

// wrapAngle maps an angle into [0, 2*pi).
func wrapAngle(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}
