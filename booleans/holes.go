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

// Hole carving. When the other solid pierces a face without touching
// its boundary (a bore through a plate), the crossing curves never
// reach the face boundary, so the two-crossing splitter cannot fire.
// A quadric bore contributes its circle section directly as an inner
// loop; a polyhedral peg contributes plane/plane segments that chain
// into a closed polygonal ring. Each carve also adds the disk face
// over the opening, so whichever side the classification keeps has a
// complete cover.

import (
	"github.com/golang/geo/r2"

	"github.com/JJZ993/vcad-sub001/brep"
	"github.com/JJZ993/vcad-sub001/geom"
	"github.com/JJZ993/vcad-sub001/topo"
	"github.com/JJZ993/vcad-sub001/vmath"
)

// insertHoleLoops carves holes into planar faces of dst wherever faces
// of other cross their interior along closed rings or circles.
//
// holeWithOuter selects the stored winding of polygonal hole rings:
// true winds them like the outer boundary, which is what edge pairing
// needs when the adjacent kept faces carry a flipped orientation flag
// (difference); false winds them opposite (union, intersection).
// Circle holes carry no winding: their single half-edge never pairs.
func insertHoleLoops(dst, other *brep.Solid, opt SplitOptions, tol vmath.Tolerance, holeWithOuter bool) {
	otherFaces := other.Topology.LiveFaces()
	otherBoxes := make([]vmath.AABB, len(otherFaces))
	for i, f := range otherFaces {
		otherBoxes[i] = faceBounds(other, f)
	}

	for _, fa := range dst.Topology.LiveFaces() {
		face := dst.Topology.Faces[fa]
		if !face.Alive || len(face.InnerLoops) > 0 {
			continue
		}
		if dst.Geometry.Surface(face.Surface).Kind() != geom.KindPlane {
			continue
		}
		carveFaceHoles(dst, fa, other, otherFaces, otherBoxes, opt, tol, holeWithOuter)
	}
}

func carveFaceHoles(dst *brep.Solid, fa topo.FaceID, other *brep.Solid,
	otherFaces []topo.FaceID, otherBoxes []vmath.AABB, opt SplitOptions,
	tol vmath.Tolerance, holeWithOuter bool) {

	pa, ok := facePlane(dst, fa, opt)
	if !ok {
		return
	}
	outer := facePolygon(dst, fa)
	if len(outer) < 3 {
		return
	}
	box := faceBounds(dst, fa).Expanded(opt.CrossTol)

	var segs []crossSegment
	for i, fb := range otherFaces {
		if !other.Topology.Faces[fb].Alive || !box.Overlaps(otherBoxes[i]) {
			continue
		}
		surfB := other.Geometry.Surface(other.Topology.Faces[fb].Surface)
		curve := Intersect(pa, surfB, tol)

		switch curve.Kind {
		case CurveCircle:
			circle, ok := circleOnFaceBand(surfB, curve.Circle, tol)
			if !ok {
				continue
			}
			if in, out := ringContainment(outer, circle, opt); in == 0 || out > 0 {
				continue
			}
			carveCircle(dst, fa, circle, tol)

		case CurveLine:
			if surfB.Kind() != geom.KindPlane {
				continue
			}
			iv, ok := lineLoopInterval(facePolygon(other, fb), curve.Line)
			if !ok {
				continue
			}
			entry := curve.Line.Evaluate(iv[0])
			exit := curve.Line.Evaluate(iv[1])
			if !strictlyInterior(outer, entry, opt.CrossTol) || !strictlyInterior(outer, exit, opt.CrossTol) {
				continue
			}
			segs = append(segs, crossSegment{entry: entry, exit: exit})
		}
	}

	segs = dedupeSegments(segs, 100*opt.WeldTol)
	face := dst.Topology.Faces[fa]
	for _, ring := range chainRings(segs, 100*opt.WeldTol) {
		if len(ring) < 3 {
			continue
		}
		hole := orientRing(ring, outer, holeWithOuter)
		addInnerPolygonLoop(dst, fa, hole)

		// The disk over the ring, wound like the parent face.
		disk := addFaceFromPoints(dst, orientRing(ring, outer, true), face.Surface, face.Orientation)
		attachToShell(dst, face.Shell, disk)
	}
}

// circleOnFaceBand canonicalizes an SSI circle on its quadric's axis
// and confirms the section lies within the (possibly banded) surface
// domain.
func circleOnFaceBand(surf geom.Surface, c geom.Circle, tol vmath.Tolerance) (geom.Circle, bool) {
	canonical, ok := canonicalAxisCircle(surf, c, tol)
	if !ok {
		return geom.Circle{}, false
	}
	vc, ok := circleAxialParam(surf, canonical)
	if !ok {
		return geom.Circle{}, false
	}
	_, vdom := surf.Domain()
	if !vdom.Contains(vc) {
		return geom.Circle{}, false
	}
	return canonical, true
}

// carveCircle installs a circular bore: the circle as an inner loop of
// the pierced face plus the disk face over the opening, both sharing
// one stored curve. Adjacent bands of a split bore report the same
// section, so an already-carved circle is skipped.
func carveCircle(dst *brep.Solid, fa topo.FaceID, circle geom.Circle, tol vmath.Tolerance) {
	face := dst.Topology.Faces[fa]
	ci := findOrAddCircle(dst, circle, tol)
	for _, l := range dst.Topology.FaceLoops(fa) {
		if dst.Topology.Loops[l].Curve == ci {
			return
		}
	}

	dst.Topology.AddInnerLoop(fa, addCircleLoop(dst, ci))

	disk := dst.Topology.AddFace(addCircleLoop(dst, ci), face.Surface, face.Orientation)
	attachToShell(dst, face.Shell, disk)
}

// strictlyInterior reports whether p lies inside the polygon and no
// closer than margin to its boundary.
func strictlyInterior(poly []vmath.Point, p vmath.Point, margin float64) bool {
	if _, d := closestLoopEdge(poly, p); d <= margin {
		return false
	}
	return pointInPolygon(poly, p)
}

// pointInPolygon is the 2D even-odd test in the polygon's plane.
func pointInPolygon(poly []vmath.Point, p vmath.Point) bool {
	normal, ok := vmath.DirectionFromVector(newellNormal(poly))
	if !ok {
		return false
	}
	x := normal.AnyPerpendicular()
	y := normal.Cross(x.Vector)
	project := func(q vmath.Point) r2.Point {
		d := q.Sub(poly[0].Vector)
		return r2.Point{X: d.Dot(x.Vector), Y: d.Dot(y)}
	}

	pt := project(p)
	inside := false
	n := len(poly)
	for i := 0; i < n; i++ {
		a := project(poly[i])
		b := project(poly[(i+1)%n])
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			xCross := a.X + (pt.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if pt.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// dedupeSegments drops repeated chords: both faces adjacent to a split
// contribute the same boundary segment.
func dedupeSegments(segs []crossSegment, weld float64) []crossSegment {
	var out []crossSegment
	for _, s := range segs {
		dup := false
		for _, o := range out {
			same := s.entry.Distance(o.entry) <= weld && s.exit.Distance(o.exit) <= weld
			swapped := s.entry.Distance(o.exit) <= weld && s.exit.Distance(o.entry) <= weld
			if same || swapped {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, s)
		}
	}
	return out
}

// chainRings welds segments into closed rings by endpoint matching.
// Segments that do not close are dropped.
func chainRings(segs []crossSegment, weld float64) [][]vmath.Point {
	used := make([]bool, len(segs))
	var rings [][]vmath.Point

	for start := range segs {
		if used[start] {
			continue
		}
		used[start] = true
		ring := []vmath.Point{segs[start].entry, segs[start].exit}

		for {
			tail := ring[len(ring)-1]
			found := -1
			var next vmath.Point
			for i, s := range segs {
				if used[i] {
					continue
				}
				if tail.Distance(s.entry) <= weld {
					found, next = i, s.exit
					break
				}
				if tail.Distance(s.exit) <= weld {
					found, next = i, s.entry
					break
				}
			}
			if found < 0 {
				break
			}
			used[found] = true
			ring = append(ring, next)
		}

		// Closed when the walk returns to the start.
		if len(ring) >= 4 && ring[0].Distance(ring[len(ring)-1]) <= weld {
			rings = append(rings, ring[:len(ring)-1])
		}
	}
	return rings
}

// orientRing winds the ring with (withOuter) or against the outer
// boundary's winding.
func orientRing(ring, outer []vmath.Point, withOuter bool) []vmath.Point {
	same := newellNormal(ring).Dot(newellNormal(outer)) > 0
	if same == withOuter {
		return ring
	}
	rev := make([]vmath.Point, len(ring))
	for i, p := range ring {
		rev[len(ring)-1-i] = p
	}
	return rev
}

// addInnerPolygonLoop creates a polygonal hole loop's vertices and
// half-edges and attaches it to the face.
func addInnerPolygonLoop(s *brep.Solid, f topo.FaceID, ring []vmath.Point) {
	verts := make([]topo.VertexID, len(ring))
	for i, p := range ring {
		verts[i] = findOrCreateVertex(s, p)
	}
	hes := make([]topo.HalfEdgeID, len(verts))
	for i, v := range verts {
		hes[i] = s.Topology.AddHalfEdge(v)
	}
	l := s.Topology.AddLoop(hes)
	s.Topology.AddInnerLoop(f, l)
}
