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

// Bilinear is the doubly ruled patch through four corner points:
//
//	r(u,v) = (1-u)(1-v)*P00 + u(1-v)*P10 + (1-u)v*P01 + uv*P11
//
// with u, v in [0, 1].
type Bilinear struct {
	P00, P10, P01, P11 vmath.Point
}

// Kind returns KindBilinear.
func (b Bilinear) Kind() Kind { return KindBilinear }

// Domain returns the unit square.
func (b Bilinear) Domain() (u, v r1.Interval) {
	i := r1.Interval{Lo: 0, Hi: 1}
	return i, i
}

// Evaluate interpolates the four corners.
func (b Bilinear) Evaluate(u, v float64) vmath.Point {
	p := b.P00.Mul((1 - u) * (1 - v)).
		Add(b.P10.Vector.Mul(u * (1 - v))).
		Add(b.P01.Vector.Mul((1 - u) * v)).
		Add(b.P11.Vector.Mul(u * v))
	return vmath.Point{Vector: p}
}

// PartialU is linear in v.
func (b Bilinear) PartialU(u, v float64) r3.Vector {
	bottom := b.P10.Sub(b.P00.Vector)
	top := b.P11.Sub(b.P01.Vector)
	return bottom.Mul(1 - v).Add(top.Mul(v))
}

// PartialV is linear in u.
func (b Bilinear) PartialV(u, v float64) r3.Vector {
	left := b.P01.Sub(b.P00.Vector)
	right := b.P11.Sub(b.P10.Vector)
	return left.Mul(1 - u).Add(right.Mul(u))
}

// Normal is the numerical normal dU x dV.
func (b Bilinear) Normal(u, v float64) r3.Vector {
	return numericalNormal(b, u, v)
}

// Transformed maps the four corners.
func (b Bilinear) Transformed(t vmath.Transform) Surface {
	return Bilinear{
		P00: t.ApplyPoint(b.P00),
		P10: t.ApplyPoint(b.P10),
		P01: t.ApplyPoint(b.P01),
		P11: t.ApplyPoint(b.P11),
	}
}
