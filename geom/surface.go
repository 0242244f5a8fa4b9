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

// Package geom defines the parametric surfaces and curves of the vcad
// B-rep kernel and the per-solid Store that owns them.
//
// Surfaces and curves are immutable once stored. Intersectors dispatch
// on the Kind tag and downcast with a type assertion; exact-arithmetic
// predicates live in vmath, outside this polymorphic interface.
package geom

import (
	"github.com/golang/geo/r1"
	"github.com/golang/geo/r3"

	"github.com/JJZ993/vcad-sub001/vmath"
)

// Kind tags the concrete type of a Surface.
type Kind int

// The surface kinds understood by the kernel.
const (
	KindPlane Kind = iota
	KindCylinder
	KindCone
	KindSphere
	KindTorus
	KindBilinear
	KindBSpline
)

func (k Kind) String() string {
	switch k {
	case KindPlane:
		return "Plane"
	case KindCylinder:
		return "Cylinder"
	case KindCone:
		return "Cone"
	case KindSphere:
		return "Sphere"
	case KindTorus:
		return "Torus"
	case KindBilinear:
		return "Bilinear"
	case KindBSpline:
		return "BSpline"
	}
	return "Unknown"
}

// Surface is a parametric surface r(u, v). Implementations are
// immutable value types.
//
// Closed parameter directions (cylinder u, sphere u, torus u and v)
// wrap modulo 2*pi; Domain reports one period. Evaluate outside the
// domain extrapolates where the closed form allows it.
type Surface interface {
	// Kind is the downcast tag for intersector dispatch.
	Kind() Kind

	// Domain returns the parameter rectangle (u interval, v interval).
	Domain() (u, v r1.Interval)

	// Evaluate returns the point at (u, v).
	Evaluate(u, v float64) vmath.Point

	// PartialU returns the first partial derivative with respect to u.
	PartialU(u, v float64) r3.Vector

	// PartialV returns the first partial derivative with respect to v.
	PartialV(u, v float64) r3.Vector

	// Normal returns the unit outward normal at (u, v), the normalized
	// cross product of the partials with a fixed per-kind sign
	// convention.
	Normal(u, v float64) r3.Vector

	// Transformed returns the surface carried through an affine
	// transform. Quadric radii are rebuilt from transformed frame
	// vectors, so rigid motion and uniform scale are exact.
	Transformed(t vmath.Transform) Surface
}

// numericalNormal is the shared normal fallback: dU x dV, normalized.
func numericalNormal(s Surface, u, v float64) r3.Vector {
	n := s.PartialU(u, v).Cross(s.PartialV(u, v))
	if norm := n.Norm(); norm > 0 {
		return n.Mul(1 / norm)
	}
	return r3.Vector{}
}
