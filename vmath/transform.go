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

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
)

// Transform is an affine transformation of model space, stored as a 4x4
// homogeneous matrix. The zero value is not useful; start from
// Identity or one of the constructors and compose with Then.
type Transform struct {
	m mgl64.Mat4
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{mgl64.Ident4()}
}

// Translation returns a translation by v.
func Translation(v r3.Vector) Transform {
	return Transform{mgl64.Translate3D(v.X, v.Y, v.Z)}
}

// Scaling returns a non-uniform scale about the origin.
func Scaling(sx, sy, sz float64) Transform {
	return Transform{mgl64.Scale3D(sx, sy, sz)}
}

// RotationX returns a rotation about the X axis.
func RotationX(angle s1.Angle) Transform {
	return Transform{mgl64.HomogRotate3DX(angle.Radians())}
}

// RotationY returns a rotation about the Y axis.
func RotationY(angle s1.Angle) Transform {
	return Transform{mgl64.HomogRotate3DY(angle.Radians())}
}

// RotationZ returns a rotation about the Z axis.
func RotationZ(angle s1.Angle) Transform {
	return Transform{mgl64.HomogRotate3DZ(angle.Radians())}
}

// RotationAbout returns a rotation about an arbitrary axis through the
// origin.
func RotationAbout(axis Direction, angle s1.Angle) Transform {
	return Transform{mgl64.HomogRotate3D(angle.Radians(), mgl64.Vec3{axis.X, axis.Y, axis.Z})}
}

// Then returns the transform that applies t first and next second.
func (t Transform) Then(next Transform) Transform {
	return Transform{next.m.Mul4(t.m)}
}

// ApplyPoint transforms a position.
func (t Transform) ApplyPoint(p Point) Point {
	v := t.m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return PointFromCoords(v[0], v[1], v[2])
}

// ApplyVector transforms a displacement (translation is ignored).
func (t Transform) ApplyVector(v r3.Vector) r3.Vector {
	w := t.m.Mul4x1(mgl64.Vec4{v.X, v.Y, v.Z, 0})
	return r3.Vector{X: w[0], Y: w[1], Z: w[2]}
}

// ApplyDirection transforms a direction and re-normalizes. The second
// result is false if the transform collapses the direction (rank-
// deficient scale).
func (t Transform) ApplyDirection(d Direction) (Direction, bool) {
	return DirectionFromVector(t.ApplyVector(d.Vector))
}

// ApplyNormal transforms a surface normal using the inverse-transpose of
// the linear part, so normals stay perpendicular under non-uniform
// scale. Falls back to ApplyVector for singular transforms.
func (t Transform) ApplyNormal(n r3.Vector) r3.Vector {
	lin := t.m.Mat3()
	inv := lin.Inv()
	if inv == (mgl64.Mat3{}) {
		return t.ApplyVector(n)
	}
	w := inv.Transpose().Mul3x1(mgl64.Vec3{n.X, n.Y, n.Z})
	return r3.Vector{X: w[0], Y: w[1], Z: w[2]}
}

// Inverse returns the inverse transform. The second result is false for
// singular transforms.
func (t Transform) Inverse() (Transform, bool) {
	inv := t.m.Inv()
	if inv == (mgl64.Mat4{}) {
		return Transform{}, false
	}
	return Transform{inv}, true
}

// IsRigid reports whether the linear part preserves lengths within tol,
// i.e. the transform is a rotation plus translation (no scale/shear).
func (t Transform) IsRigid(tol Tolerance) bool {
	for _, axis := range []r3.Vector{{X: 1}, {Y: 1}, {Z: 1}} {
		if !tol.IsZero(t.ApplyVector(axis).Norm() - 1) {
			return false
		}
	}
	return true
}
