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

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s1"
)

// Tolerance is the kernel-wide policy for near-equality decisions.
// Linear is in millimetres, Angular in radians. All coincidence,
// parallelism and containment tests in the kernel consult one of these.
type Tolerance struct {
	Linear  float64
	Angular s1.Angle
}

// DefaultTolerance returns the default CAD tolerance policy:
// 1e-6 mm linear, 1e-9 rad angular.
func DefaultTolerance() Tolerance {
	return Tolerance{Linear: 1e-6, Angular: s1.Angle(1e-9)}
}

// IsZero reports whether d is indistinguishable from zero length.
func (t Tolerance) IsZero(d float64) bool {
	return math.Abs(d) <= t.Linear
}

// PointsEqual reports whether a and b are coincident.
func (t Tolerance) PointsEqual(a, b Point) bool {
	return a.Sub(b.Vector).Norm2() <= t.Linear*t.Linear
}

// AnglesEqual reports whether two angles are indistinguishable.
func (t Tolerance) AnglesEqual(a, b s1.Angle) bool {
	return math.Abs(float64(a-b)) <= float64(t.Angular)
}

// Parallel reports whether the directions of a and b are parallel or
// anti-parallel within the angular tolerance. Zero vectors are parallel
// to everything.
func (t Tolerance) Parallel(a, b r3.Vector) bool {
	cross := a.Cross(b).Norm()
	dot := math.Abs(a.Dot(b))
	if dot == 0 {
		return cross <= t.Linear*t.Linear
	}
	// tan of the angle between the lines spanned by a and b.
	return cross/dot <= math.Tan(float64(t.Angular))+float64(t.Angular)
}

// SameDirection reports whether a and b point the same way within the
// angular tolerance (not merely parallel).
func (t Tolerance) SameDirection(a, b Direction) bool {
	return float64(a.Angle(b.Vector)) <= float64(t.Angular)
}
