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
	"github.com/golang/geo/r3"
)

// Point is a position in 3D model space, in millimetres.
//
// Point embeds r3.Vector so the full vector algebra (Add, Sub, Dot,
// Cross, Norm, ...) is available directly on it. The embedded vector is
// the position relative to the model origin.
type Point struct {
	r3.Vector
}

// PointFromCoords creates a Point from its three coordinates.
func PointFromCoords(x, y, z float64) Point {
	return Point{r3.Vector{X: x, Y: y, Z: z}}
}

// Vec returns the displacement from q to p, i.e. p - q.
func (p Point) Vec(q Point) r3.Vector {
	return p.Sub(q.Vector)
}

// Translated returns the point displaced by v.
func (p Point) Translated(v r3.Vector) Point {
	return Point{p.Add(v)}
}

// Midpoint returns the point halfway between p and q.
func (p Point) Midpoint(q Point) Point {
	return Point{p.Add(q.Vector).Mul(0.5)}
}

// Distance returns the Euclidean distance between p and q in mm.
func (p Point) Distance(q Point) float64 {
	return p.Sub(q.Vector).Norm()
}

// Direction is a vector known to have unit length.
//
// Construct one via DirectionFromVector, which normalizes; the zero
// value is invalid. Direction embeds r3.Vector for the algebra.
type Direction struct {
	r3.Vector
}

// DirectionFromVector normalizes v into a Direction. It reports ok=false
// if v is too short to normalize reliably.
func DirectionFromVector(v r3.Vector) (Direction, bool) {
	n := v.Norm()
	if n < 1e-300 {
		return Direction{}, false
	}
	return Direction{v.Mul(1 / n)}, true
}

// MustDirection is DirectionFromVector for inputs the caller knows are
// non-degenerate (e.g. axis constants). It panics on a zero vector.
func MustDirection(v r3.Vector) Direction {
	d, ok := DirectionFromVector(v)
	if !ok {
		panic("vmath: zero-length direction")
	}
	return d
}

// Reversed returns the opposite direction.
func (d Direction) Reversed() Direction {
	return Direction{d.Mul(-1)}
}

// Axis constants used throughout the kernel.
var (
	XAxis = Direction{r3.Vector{X: 1}}
	YAxis = Direction{r3.Vector{Y: 1}}
	ZAxis = Direction{r3.Vector{Z: 1}}
)

// AnyPerpendicular returns a unit vector perpendicular to d. The choice
// is arbitrary but deterministic.
func (d Direction) AnyPerpendicular() Direction {
	// r3.Vector.Ortho is unit length for unit input.
	return Direction{d.Ortho()}
}
