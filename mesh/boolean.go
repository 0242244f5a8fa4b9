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

import "github.com/JJZ993/vcad-sub001/vmath"

// Op selects a mesh-level boolean operation.
type Op int

// The three boolean operations.
const (
	Union Op = iota
	Difference
	Intersection
)

func (o Op) String() string {
	switch o {
	case Union:
		return "Union"
	case Difference:
		return "Difference"
	}
	return "Intersection"
}

// Boolean computes an approximate boolean of two closed meshes by
// whole-triangle classification: each triangle is kept or dropped by
// the containment of its centroid in the other mesh. Triangles are not
// split at the intersection, so the result is watertight only up to
// the tessellation density; it is the deterministic fallback when the
// B-rep pipeline reports failure, not the primary path.
//
// Boundary centroids (coplanar walls) are kept from the A side only in
// union and intersection, and from neither side in difference, so
// A = A union A, A intersect A = A, and A minus A is empty.
func Boolean(a, b *TriangleMesh, op Op) *TriangleMesh {
	out := &TriangleMesh{}

	switch op {
	case Union:
		copyClassified(out, a, func(c vmath.Point) bool { return !b.ContainsInterior(c) }, false)
		copyClassified(out, b, func(c vmath.Point) bool { return !a.Contains(c) }, false)
	case Difference:
		copyClassified(out, a, func(c vmath.Point) bool { return !b.Contains(c) }, false)
		// Kept triangles of B become interior hole walls: winding flips
		// so their normals face into the removed region.
		copyClassified(out, b, a.ContainsInterior, true)
	case Intersection:
		copyClassified(out, a, b.Contains, false)
		copyClassified(out, b, a.ContainsInterior, false)
	}

	return out
}

// copyClassified copies the triangles of src whose centroid passes
// keep, flipping winding when flip is set.
func copyClassified(dst, src *TriangleMesh, keep func(vmath.Point) bool, flip bool) {
	for i := 0; i < src.NumTriangles(); i++ {
		if !keep(src.Centroid(i)) {
			continue
		}
		t := src.Triangle(i)
		if flip {
			dst.AppendFlipped(t[0], t[1], t[2])
		} else {
			dst.AppendTriangle(t[0], t[1], t[2])
		}
	}
}
