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

package mesh

import (
	"github.com/golang/geo/r3"

	"github.com/JJZ993/vcad-sub001/vmath"
)

// rayDir is the fixed query ray direction: slightly tilted by small
// irrational-looking offsets so the ray does not run along model axes,
// where shared edges and vertices of axis-aligned models would be hit
// exactly. The exact predicate handles the cases that remain.
var rayDir = r3.Vector{X: 1, Y: 1e-7, Z: 1.3e-7}

// boundaryTol is the plane distance below which a query point counts
// as lying on a triangle. Mesh vertices are stored as float32, so the
// tolerance must absorb their quantization at typical model scales
// (relative 6e-8, a few 1e-5 mm at metre-sized models).
const boundaryTol = 1e-4

// Contains reports whether p lies inside the closed mesh, by parity of
// ray crossings. Points on the boundary report inside.
func (m *TriangleMesh) Contains(p vmath.Point) bool {
	inside, boundary := m.classify(p)
	return inside || boundary
}

// ContainsInterior reports whether p lies strictly inside the mesh:
// boundary points report false. The boolean fallback uses the two
// variants to keep coplanar walls exactly once.
func (m *TriangleMesh) ContainsInterior(p vmath.Point) bool {
	inside, boundary := m.classify(p)
	return inside && !boundary
}

// Classify returns both the crossing-parity containment of p and
// whether p lies on the mesh boundary.
func (m *TriangleMesh) Classify(p vmath.Point) (inside, boundary bool) {
	return m.classify(p)
}

// BoundaryNormal returns the unit normal of a triangle whose plane
// contains p with p inside the triangle. ok is false when p is not on
// the boundary.
func (m *TriangleMesh) BoundaryNormal(p vmath.Point) (n r3.Vector, ok bool) {
	for i := 0; i < m.NumTriangles(); i++ {
		t := m.Triangle(i)
		if !onTriangle(p, t[0], t[1], t[2]) {
			continue
		}
		cross := t[1].Sub(t[0].Vector).Cross(t[2].Sub(t[0].Vector))
		if norm := cross.Norm(); norm > 1e-15 {
			return cross.Mul(1 / norm), true
		}
	}
	return r3.Vector{}, false
}

// classify counts ray crossings and detects boundary incidence.
//
// Near-degenerate triangles (ray almost parallel to the plane) are
// resolved through vmath.Orient3D: agreeing plane signs at p and at a
// far point along the ray prove the ray never crosses that plane, and
// the crossing is otherwise left to the adjacent triangles.
func (m *TriangleMesh) classify(p vmath.Point) (inside, boundary bool) {
	crossings := 0

	for i := 0; i < m.NumTriangles(); i++ {
		t := m.Triangle(i)
		v0, v1, v2 := t[0], t[1], t[2]

		if onTriangle(p, v0, v1, v2) {
			boundary = true
			continue
		}

		// Moller-Trumbore.
		edge1 := v1.Sub(v0.Vector)
		edge2 := v2.Sub(v0.Vector)
		h := rayDir.Cross(edge2)
		a := edge1.Dot(h)

		if a > -1e-12 && a < 1e-12 {
			// Ray nearly parallel to the triangle plane.
			far := p.Translated(rayDir.Mul(1e10))
			if vmath.Orient3D(p, v0, v1, v2) == vmath.Orient3D(far, v0, v1, v2) {
				continue
			}
			// The ray pierces the plane edge-on; the neighbouring
			// triangles count the crossing.
			continue
		}

		f := 1 / a
		s := p.Sub(v0.Vector)
		u := f * s.Dot(h)
		if u < 0 || u > 1 {
			continue
		}

		q := s.Cross(edge1)
		v := f * rayDir.Dot(q)
		if v < 0 || u+v > 1 {
			continue
		}

		if tt := f * edge2.Dot(q); tt > 1e-10 {
			crossings++
		}
	}

	return crossings%2 == 1, boundary
}

// onTriangle reports whether p lies on the triangle within boundaryTol
// of its plane.
func onTriangle(p, v0, v1, v2 vmath.Point) bool {
	e1 := v1.Sub(v0.Vector)
	e2 := v2.Sub(v0.Vector)
	normal := e1.Cross(e2)
	n := normal.Norm()
	if n < 1e-15 {
		return false
	}
	normal = normal.Mul(1 / n)
	if d := p.Sub(v0.Vector).Dot(normal); d > boundaryTol || d < -boundaryTol {
		return false
	}

	// Edge tests against planes lifted along the normal.
	ref := p.Translated(normal)
	s0 := vmath.Orient3D(p, v0, v1, ref)
	s1 := vmath.Orient3D(p, v1, v2, ref)
	s2 := vmath.Orient3D(p, v2, v0, ref)
	allNonNeg := s0 >= 0 && s1 >= 0 && s2 >= 0
	allNonPos := s0 <= 0 && s1 <= 0 && s2 <= 0
	return allNonNeg || allNonPos
}
