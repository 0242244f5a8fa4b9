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

package vmath

// This file contains the one exact predicate the kernel relies on. It is
// guaranteed to produce correct, consistent results by computing a
// conservative error bound in floating point and falling back to exact
// rational arithmetic only when the filtered result is uncertain.
// Boolean face classification breaks catastrophically on a single wrong
// Zero/nonzero call, so Orient3D must be total and exact.

import (
	"math"
	"math/big"
)

// Sign is the sign of a signed volume or determinant.
type Sign int

// The three possible results of an orientation test.
const (
	Negative Sign = -1
	Zero     Sign = 0
	Positive Sign = 1
)

func (s Sign) String() string {
	switch s {
	case Negative:
		return "Negative"
	case Positive:
		return "Positive"
	default:
		return "Zero"
	}
}

// orient3dErrBound is Shewchuk's static filter bound for the 3x3
// determinant of coordinate differences: if |det| exceeds
// orient3dErrBound * permanent, the floating-point sign is certain.
// (7 + 56*eps)*eps with eps = 2^-53.
var orient3dErrBound = (7.0 + 56.0*epsilon) * epsilon

// epsilon is the rounding unit of float64, 2^-53.
const epsilon = 1.1102230246251565e-16

// Orient3D returns the sign of the signed volume of the tetrahedron
// (a, b, c, p): Positive if p lies on the side of plane (a,b,c) from
// which the triangle a->b->c winds counter-clockwise, Negative on the
// other side, and Zero exactly when the four points are coplanar.
//
// The fast path evaluates the determinant in float64 with a conservative
// error bound; when the bound cannot certify the sign the computation is
// redone in arbitrary-precision rational arithmetic, so the result is
// exact for every input.
func Orient3D(p, a, b, c Point) Sign {
	adx := a.X - p.X
	ady := a.Y - p.Y
	adz := a.Z - p.Z
	bdx := b.X - p.X
	bdy := b.Y - p.Y
	bdz := b.Z - p.Z
	cdx := c.X - p.X
	cdy := c.Y - p.Y
	cdz := c.Z - p.Z

	bdxcdy := bdx * cdy
	cdxbdy := cdx * bdy
	cdxady := cdx * ady
	adxcdy := adx * cdy
	adxbdy := adx * bdy
	bdxady := bdx * ady

	// The classic difference-from-p determinant is positive when p lies
	// below the CCW triangle; the tetrahedron volume of (a, b, c, p)
	// has the opposite sign, hence the negation.
	det := -(adz*(bdxcdy-cdxbdy) + bdz*(cdxady-adxcdy) + cdz*(adxbdy-bdxady))

	permanent := (math.Abs(bdxcdy)+math.Abs(cdxbdy))*math.Abs(adz) +
		(math.Abs(cdxady)+math.Abs(adxcdy))*math.Abs(bdz) +
		(math.Abs(adxbdy)+math.Abs(bdxady))*math.Abs(cdz)
	errBound := orient3dErrBound * permanent

	if det > errBound {
		return Positive
	}
	if det < -errBound {
		return Negative
	}
	return orient3dExact(p, a, b, c)
}

// orient3dExact evaluates the orientation determinant in exact rational
// arithmetic. Every float64 is a dyadic rational, so big.Rat represents
// the inputs and all intermediate products without rounding.
func orient3dExact(p, a, b, c Point) Sign {
	var adx, ady, adz, bdx, bdy, bdz, cdx, cdy, cdz big.Rat
	adx.Sub(ratOf(a.X), ratOf(p.X))
	ady.Sub(ratOf(a.Y), ratOf(p.Y))
	adz.Sub(ratOf(a.Z), ratOf(p.Z))
	bdx.Sub(ratOf(b.X), ratOf(p.X))
	bdy.Sub(ratOf(b.Y), ratOf(p.Y))
	bdz.Sub(ratOf(b.Z), ratOf(p.Z))
	cdx.Sub(ratOf(c.X), ratOf(p.X))
	cdy.Sub(ratOf(c.Y), ratOf(p.Y))
	cdz.Sub(ratOf(c.Z), ratOf(p.Z))

	// det = adz*(bdx*cdy - cdx*bdy) + bdz*(cdx*ady - adx*cdy) + cdz*(adx*bdy - bdx*ady)
	var t1, t2, m1, m2, m3, det big.Rat
	t1.Mul(&bdx, &cdy)
	t2.Mul(&cdx, &bdy)
	m1.Sub(&t1, &t2)
	m1.Mul(&m1, &adz)

	t1.Mul(&cdx, &ady)
	t2.Mul(&adx, &cdy)
	m2.Sub(&t1, &t2)
	m2.Mul(&m2, &bdz)

	t1.Mul(&adx, &bdy)
	t2.Mul(&bdx, &ady)
	m3.Sub(&t1, &t2)
	m3.Mul(&m3, &cdz)

	det.Add(&m1, &m2)
	det.Add(&det, &m3)
	// Same volume-sign convention as the filtered path.
	return Sign(-det.Sign())
}

func ratOf(f float64) *big.Rat {
	// NaN and infinities never reach the predicate; coordinates come
	// from finite model geometry.
	r := new(big.Rat)
	r.SetFloat64(f)
	return r
}

// Coplanar reports whether the four points are exactly coplanar.
func Coplanar(p, a, b, c Point) bool {
	return Orient3D(p, a, b, c) == Zero
}
