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
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
)

func pointsNear(a, b Point, tol float64) bool {
	return a.Sub(b.Vector).Norm() <= tol
}

func TestTransformTranslation(t *testing.T) {
	tr := Translation(r3.Vector{X: 10, Y: 20, Z: 30})
	got := tr.ApplyPoint(PointFromCoords(1, 2, 3))
	if !pointsNear(got, PointFromCoords(11, 22, 33), 1e-12) {
		t.Errorf("translated point = %v", got)
	}
	// Vectors ignore translation.
	v := tr.ApplyVector(r3.Vector{X: 1, Y: 2, Z: 3})
	if v.Sub(r3.Vector{X: 1, Y: 2, Z: 3}).Norm() > 1e-12 {
		t.Errorf("translated vector = %v", v)
	}
}

func TestTransformRotationZ(t *testing.T) {
	tr := RotationZ(s1.Angle(math.Pi / 2))
	got := tr.ApplyPoint(PointFromCoords(1, 0, 0))
	if !pointsNear(got, PointFromCoords(0, 1, 0), 1e-12) {
		t.Errorf("rotated point = %v", got)
	}
}

func TestTransformCompose(t *testing.T) {
	// Translate then scale: origin -> (1,0,0) -> (2,0,0).
	tr := Translation(r3.Vector{X: 1}).Then(Scaling(2, 2, 2))
	got := tr.ApplyPoint(PointFromCoords(0, 0, 0))
	if !pointsNear(got, PointFromCoords(2, 0, 0), 1e-12) {
		t.Errorf("composed transform = %v", got)
	}
}

func TestTransformInverseRoundTrip(t *testing.T) {
	tr := Translation(r3.Vector{X: 1, Y: 2, Z: 3}).
		Then(RotationX(s1.Angle(0.7))).
		Then(Scaling(2, 3, 4))
	inv, ok := tr.Inverse()
	if !ok {
		t.Fatal("transform unexpectedly singular")
	}
	p := PointFromCoords(5, 6, 7)
	got := inv.ApplyPoint(tr.ApplyPoint(p))
	if !pointsNear(got, p, 1e-9) {
		t.Errorf("inverse round trip = %v, want %v", got, p)
	}
}

func TestTransformNormalUnderNonUniformScale(t *testing.T) {
	// A plane with normal +Z scaled by (2,1,1) still has normal +Z, but
	// a 45-degree plane normal must shear correctly.
	tr := Scaling(2, 1, 1)
	n := tr.ApplyNormal(r3.Vector{X: 1, Y: 0, Z: 1}).Normalize()
	// Tangent (−1,0,1) maps to (−2,0,1); the mapped normal must stay
	// perpendicular to the mapped tangent.
	tan := tr.ApplyVector(r3.Vector{X: -1, Y: 0, Z: 1})
	if math.Abs(n.Dot(tan)) > 1e-12 {
		t.Errorf("normal not perpendicular after non-uniform scale: dot = %g", n.Dot(tan))
	}
}

func TestTransformRotationAbout(t *testing.T) {
	axis := MustDirection(r3.Vector{X: 1, Y: 1, Z: 0})
	tr := RotationAbout(axis, s1.Angle(math.Pi))
	got := tr.ApplyPoint(PointFromCoords(1, 0, 0))
	if !pointsNear(got, PointFromCoords(0, 1, 0), 1e-12) {
		t.Errorf("rotation about (1,1,0) by pi = %v, want (0,1,0)", got)
	}
}

func TestTransformIsRigid(t *testing.T) {
	tol := DefaultTolerance()
	if !RotationY(s1.Angle(1.1)).Then(Translation(r3.Vector{X: 4})).IsRigid(tol) {
		t.Error("rotation+translation reported non-rigid")
	}
	if Scaling(2, 1, 1).IsRigid(tol) {
		t.Error("scale reported rigid")
	}
}

func TestAABB(t *testing.T) {
	b := EmptyAABB()
	if !b.IsEmpty() {
		t.Fatal("EmptyAABB not empty")
	}
	b = b.AddPoint(PointFromCoords(0, 0, 0)).AddPoint(PointFromCoords(10, 5, 2))
	if b.IsEmpty() {
		t.Fatal("box with points reported empty")
	}
	if !b.Contains(PointFromCoords(5, 2, 1)) {
		t.Error("interior point not contained")
	}

	other := EmptyAABB().AddPoint(PointFromCoords(100, 0, 0)).AddPoint(PointFromCoords(110, 5, 2))
	if b.Overlaps(other) {
		t.Error("disjoint boxes reported overlapping")
	}
	if !b.Overlaps(b.Expanded(1)) {
		t.Error("box does not overlap its expansion")
	}
	if got, want := b.Diagonal(), math.Sqrt(100+25+4); math.Abs(got-want) > 1e-12 {
		t.Errorf("diagonal = %v, want %v", got, want)
	}
}
