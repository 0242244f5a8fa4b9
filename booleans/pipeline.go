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

package booleans

import (
	"github.com/JJZ993/vcad-sub001/brep"
	"github.com/JJZ993/vcad-sub001/mesh"
	"github.com/JJZ993/vcad-sub001/topo"
	"github.com/JJZ993/vcad-sub001/vmath"
)

// Op selects the boolean operation.
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

func (o Op) meshOp() mesh.Op {
	switch o {
	case Union:
		return mesh.Union
	case Difference:
		return mesh.Difference
	}
	return mesh.Intersection
}

// Result is a B-rep solid when the pipeline succeeds, or a triangle
// mesh from the fallback path.
type Result struct {
	Solid *brep.Solid
	Mesh  *mesh.TriangleMesh
}

// IsMesh reports whether the result fell back to mesh level.
func (r Result) IsMesh() bool { return r.Mesh != nil }

// ToMesh returns the result as a triangle mesh, tessellating a B-rep
// result at the given segment count.
func (r Result) ToMesh(segments int) *mesh.TriangleMesh {
	if r.Mesh != nil {
		return r.Mesh
	}
	return brep.Tessellate(r.Solid, segments)
}

// BooleanOp combines two solids under op.
//
// The pipeline: AABB gate with non-overlapping shortcuts, then the
// B-rep path (split crossed faces, carve pierced faces, classify,
// select, sew, repair, manifold check). If the B-rep path raises SSI
// failure, classification ambiguity or a non-manifold result, the
// whole operation restarts at mesh level exactly once and returns a
// mesh result. The segments parameter sizes that fallback
// tessellation.
func BooleanOp(a, b *brep.Solid, op Op, segments int) Result {
	tol := vmath.DefaultTolerance()

	if shortcut, ok := emptyOperandShortcut(a, b, op); ok {
		return shortcut
	}

	if !a.Bounds().Overlaps(b.Bounds()) {
		return nonOverlappingBoolean(a, b, op, tol)
	}

	res, err := brepBoolean(a, b, op, tol)
	if err != nil {
		// Deterministic fallback, exactly once.
		m := mesh.Boolean(brep.Tessellate(a, segments), brep.Tessellate(b, segments), op.meshOp())
		return Result{Mesh: m}
	}
	return res
}

// emptyOperandShortcut handles empty inputs without running the
// pipeline: X union Empty = X, X minus Empty = X, Empty minus X =
// Empty, X intersect Empty = Empty.
func emptyOperandShortcut(a, b *brep.Solid, op Op) (Result, bool) {
	aEmpty, bEmpty := a.IsEmpty(), b.IsEmpty()
	if !aEmpty && !bEmpty {
		return Result{}, false
	}
	switch op {
	case Union:
		if aEmpty {
			return Result{Solid: b.Clone()}, true
		}
		return Result{Solid: a.Clone()}, true
	case Difference:
		if aEmpty {
			return Result{Solid: brep.Empty()}, true
		}
		return Result{Solid: a.Clone()}, true
	default:
		return Result{Solid: brep.Empty()}, true
	}
}

// nonOverlappingBoolean is the fast path for disjoint bounding boxes.
func nonOverlappingBoolean(a, b *brep.Solid, op Op, tol vmath.Tolerance) Result {
	switch op {
	case Union:
		out := sewFaces(a, a.Topology.LiveFaces(), b, b.Topology.LiveFaces(), false, tol)
		RepairTopology(out.Topology, repairTolerance(tol))
		return Result{Solid: out}
	case Difference:
		return Result{Solid: a.Clone()}
	default:
		return Result{Solid: brep.Empty()}
	}
}

// brepBoolean runs the full classification pipeline.
func brepBoolean(a, b *brep.Solid, op Op, tol vmath.Tolerance) (Result, error) {
	// The splitter mutates, so it works on private copies.
	ca, cb := a.Clone(), b.Clone()
	opt := splitOptionsFor(ca, cb, tol)

	// Polygonal trims of planar faces must actually lie on their plane;
	// a bent loop cannot take the 2D splitting path and is an SSI
	// failure, which routes the whole operation to the mesh fallback.
	for _, s := range []*brep.Solid{ca, cb} {
		for _, f := range s.Topology.LiveFaces() {
			if !isPolygonalPlaneFace(s, f) {
				continue
			}
			if _, ok := facePlane(s, f, opt); !ok {
				return Result{}, ErrSSIFailure
			}
		}
	}

	// Cut every face crossed by a face of the other solid, then carve
	// circles and rings that pierce face interiors. Polygonal hole
	// winding follows which side the selection will keep (flag-flipped
	// faces pair the other way).
	if err := splitSolidFaces(ca, cb, opt, tol); err != nil {
		return Result{}, err
	}
	if err := splitSolidFaces(cb, ca, opt, tol); err != nil {
		return Result{}, err
	}
	holeWithOuter := op == Difference
	insertHoleLoops(ca, cb, opt, tol, holeWithOuter)
	insertHoleLoops(cb, ca, opt, tol, holeWithOuter)

	meshA := brep.Tessellate(ca, classifySegments)
	meshB := brep.Tessellate(cb, classifySegments)

	keepA, err := selectFaces(ca, meshB, op, true)
	if err != nil {
		return Result{}, err
	}
	keepB, err := selectFaces(cb, meshA, op, false)
	if err != nil {
		return Result{}, err
	}

	out := sewFaces(ca, keepA, cb, keepB, op == Difference, tol)
	RepairTopology(out.Topology, repairTolerance(tol))

	if !out.IsEmpty() {
		if err := out.Topology.CheckManifold(out.OuterShell()); err != nil {
			return Result{}, ErrNonManifoldResult
		}
	}
	return Result{Solid: out}, nil
}

// selectFaces classifies every live face of s against the other
// solid's tessellation and applies the per-op keep table:
//
//	op            keep from A             keep from B
//	Union         Outside, OnSame         Outside
//	Difference    Outside, OnOpposite    Inside
//	Intersection  Inside, OnSame          Inside
func selectFaces(s *brep.Solid, other *mesh.TriangleMesh, op Op, isA bool) ([]topo.FaceID, error) {
	var keep []topo.FaceID
	for _, f := range s.Topology.LiveFaces() {
		class, err := classifyFace(s, f, other)
		if err != nil {
			return nil, err
		}
		if keepFace(class, op, isA) {
			keep = append(keep, f)
		}
	}
	return keep, nil
}

func keepFace(class FaceClass, op Op, isA bool) bool {
	switch op {
	case Union:
		if isA {
			return class == ClassOutside || class == ClassOnSame
		}
		return class == ClassOutside
	case Difference:
		if isA {
			return class == ClassOutside || class == ClassOnOpposite
		}
		return class == ClassInside
	default: // Intersection
		if isA {
			return class == ClassInside || class == ClassOnSame
		}
		return class == ClassInside
	}
}
