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

package brep

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/JJZ993/vcad-sub001/geom"
	"github.com/JJZ993/vcad-sub001/mesh"
	"github.com/JJZ993/vcad-sub001/topo"
	"github.com/JJZ993/vcad-sub001/vmath"
)

// Tessellate converts the solid's faces to a triangle mesh at the
// given circular resolution (0 = auto). Planar faces triangulate their
// trim loops, with closed-curve boundaries sampled at the resolution;
// curved faces sample their surface's parameter rectangle, so the
// boundary rings of adjacent faces land on identical points.
func Tessellate(s *Solid, segments int) *mesh.TriangleMesh {
	out := &mesh.TriangleMesh{}
	if s == nil {
		return out
	}
	n := resolveSegments(segments)

	for _, f := range s.Topology.LiveFaces() {
		for _, t := range FaceTriangles(s, f, n) {
			out.AppendTriangle(t[0], t[1], t[2])
		}
	}
	return out
}

// Volume returns the volume enclosed by the tessellated solid.
func Volume(s *Solid) float64 {
	return Tessellate(s, 0).Volume()
}

// FaceOutwardNormal returns the solid-outward normal of f: the surface
// normal near the face, flipped when the orientation flag is Reversed.
func FaceOutwardNormal(s *Solid, f topo.FaceID) r3.Vector {
	face := s.Topology.Faces[f]
	surf := s.Geometry.Surface(face.Surface)

	var u, v float64
	if surf.Kind() == geom.KindPlane {
		pts := s.Topology.LoopPoints(face.OuterLoop)
		if len(pts) == 0 {
			return r3.Vector{}
		}
		c := r3.Vector{}
		for _, p := range pts {
			c = c.Add(p.Vector)
		}
		u, v = geom.ProjectUV(surf, vmath.Point{Vector: c.Mul(1 / float64(len(pts)))})
	} else {
		du, dv := surf.Domain()
		u, v = du.Center(), dv.Center()
	}

	n := surf.Normal(u, v)
	if face.Orientation == topo.Reversed {
		n = n.Mul(-1)
	}
	return n
}

// FaceTriangles triangulates one face at the given circular resolution,
// with every triangle wound counter-clockwise about the face's outward
// normal.
func FaceTriangles(s *Solid, f topo.FaceID, segments int) [][3]vmath.Point {
	face := s.Topology.Faces[f]
	surf := s.Geometry.Surface(face.Surface)
	n := resolveSegments(segments)

	if surf.Kind() == geom.KindPlane {
		return planarFaceTriangles(s, f, n)
	}
	return curvedFaceTriangles(surf, face.Orientation, n)
}

// loopRing returns the boundary ring of a loop: the polygon of its
// vertices, or the sampled closed curve for a one-half-edge loop.
func loopRing(s *Solid, l topo.LoopID, segments int) []vmath.Point {
	if !s.Topology.IsCurveLoop(l) {
		return s.Topology.LoopPoints(l)
	}
	ci := s.Topology.Loops[l].Curve
	if ci == topo.Nil {
		return nil
	}
	curve := s.Geometry.Curve(ci)
	dom := curve.Domain()
	ring := make([]vmath.Point, segments)
	for i := 0; i < segments; i++ {
		t := dom.Lo + (dom.Hi-dom.Lo)*float64(i)/float64(segments)
		ring[i] = curve.Evaluate(t)
	}
	return ring
}

func planarFaceTriangles(s *Solid, f topo.FaceID, segments int) [][3]vmath.Point {
	face := s.Topology.Faces[f]
	outer := loopRing(s, face.OuterLoop, segments)
	if len(outer) < 3 {
		return nil
	}

	normal, ok := vmath.DirectionFromVector(FaceOutwardNormal(s, f))
	if !ok {
		return nil
	}

	var holes [][]vmath.Point
	for _, l := range face.InnerLoops {
		if h := loopRing(s, l, segments); len(h) >= 3 {
			holes = append(holes, h)
		}
	}

	return triangulatePolygon(outer, holes, normal)
}

// curvedFaceTriangles samples the surface's parameter rectangle. The
// trim of a curved face is exactly its surface's (possibly banded)
// domain, so no loop geometry is consulted.
func curvedFaceTriangles(surf geom.Surface, orientation topo.Orientation, segments int) [][3]vmath.Point {
	du, dv := surf.Domain()
	closedU := surf.Kind() != geom.KindBilinear && surf.Kind() != geom.KindBSpline
	nu := segments
	nv := vGridCount(surf, segments)

	at := func(i, j int) vmath.Point {
		var u float64
		if closedU {
			u = du.Lo + (du.Hi-du.Lo)*float64(i%nu)/float64(nu)
		} else {
			u = du.Lo + (du.Hi-du.Lo)*float64(i)/float64(nu)
		}
		v := dv.Lo + (dv.Hi-dv.Lo)*float64(j)/float64(nv)
		return surf.Evaluate(u, v)
	}

	var tris [][3]vmath.Point
	emit := func(a, b, c vmath.Point) {
		if a.Distance(b) < 1e-12 || b.Distance(c) < 1e-12 || c.Distance(a) < 1e-12 {
			return
		}
		if orientation == topo.Reversed {
			a, c = c, a
		}
		tris = append(tris, [3]vmath.Point{a, b, c})
	}

	for i := 0; i < nu; i++ {
		for j := 0; j < nv; j++ {
			p00 := at(i, j)
			p10 := at(i+1, j)
			p11 := at(i+1, j+1)
			p01 := at(i, j+1)
			emit(p00, p10, p11)
			emit(p00, p11, p01)
		}
	}
	return tris
}

// vGridCount picks the second grid dimension per kind: walls are
// straight along v, spheres and tori curve, free-form patches get the
// full resolution.
func vGridCount(surf geom.Surface, segments int) int {
	switch surf.Kind() {
	case geom.KindCylinder, geom.KindCone:
		return 1
	case geom.KindSphere:
		n := segments / 2
		if n < 2 {
			n = 2
		}
		return n
	case geom.KindTorus:
		return segments
	default:
		return segments
	}
}

// triangulatePolygon triangulates a polygon with optional holes so that
// every output triangle winds counter-clockwise about normal. Holes
// are spliced into the outer boundary by closest-pair bridges, then the
// merged simple polygon is ear-clipped.
func triangulatePolygon(outer []vmath.Point, holes [][]vmath.Point, normal vmath.Direction) [][3]vmath.Point {
	x := normal.AnyPerpendicular()
	y := normal.Cross(x.Vector)
	project := func(p vmath.Point) r2.Point {
		return r2.Point{X: p.Dot(x.Vector), Y: p.Dot(y)}
	}

	ring := func(pts []vmath.Point, wantCCW bool) []pv {
		out := make([]pv, len(pts))
		for i, p := range pts {
			out[i] = pv{p3: p, p2: project(p)}
		}
		if ccw := signedArea(out) > 0; ccw != wantCCW {
			for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
				out[i], out[j] = out[j], out[i]
			}
		}
		return out
	}

	poly := ring(outer, true)
	for _, h := range holes {
		poly = spliceHole(poly, ring(h, false))
	}
	return earClip(poly)
}

// pv pairs a boundary point with its 2D projection on the face plane.
type pv struct {
	p3 vmath.Point
	p2 r2.Point
}

func signedArea(ring []pv) float64 {
	area := 0.0
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		area += p.p2.X*q.p2.Y - q.p2.X*p.p2.Y
	}
	return area / 2
}

// spliceHole merges a (clockwise) hole ring into the (counter-
// clockwise) outer ring through the closest outer/hole vertex pair,
// duplicating both bridge endpoints.
func spliceHole(outer, hole []pv) []pv {
	bi, bj, best := 0, 0, -1.0
	for i, o := range outer {
		for j, h := range hole {
			diff := o.p2.Sub(h.p2)
			d := diff.Dot(diff)
			if best < 0 || d < best {
				best, bi, bj = d, i, j
			}
		}
	}

	merged := make([]pv, 0, len(outer)+len(hole)+2)
	merged = append(merged, outer[:bi+1]...)
	for k := 0; k <= len(hole); k++ {
		merged = append(merged, hole[(bj+k)%len(hole)])
	}
	merged = append(merged, outer[bi:]...)
	return merged
}

func earClip(poly []pv) [][3]vmath.Point {
	var tris [][3]vmath.Point
	work := append([]pv(nil), poly...)

	guard := 0
	for len(work) > 3 {
		clipped := false
		n := len(work)
		for i := 0; i < n; i++ {
			prev := work[(i+n-1)%n]
			cur := work[i]
			next := work[(i+1)%n]
			if !isEar(work, prev, cur, next) {
				continue
			}
			tris = append(tris, [3]vmath.Point{prev.p3, cur.p3, next.p3})
			work = append(work[:i], work[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// Degenerate remainder (collinear chain): fan what is left.
			for i := 1; i+1 < len(work); i++ {
				tris = append(tris, [3]vmath.Point{work[0].p3, work[i].p3, work[i+1].p3})
			}
			return tris
		}
		if guard++; guard > 4*len(poly) {
			break
		}
	}
	if len(work) == 3 {
		tris = append(tris, [3]vmath.Point{work[0].p3, work[1].p3, work[2].p3})
	}
	return tris
}

func isEar(poly []pv, a, b, c pv) bool {
	// Convex corner in CCW order.
	if cross2(b.p2.Sub(a.p2), c.p2.Sub(b.p2)) <= 0 {
		return false
	}
	for _, p := range poly {
		if p.p2 == a.p2 || p.p2 == b.p2 || p.p2 == c.p2 {
			continue
		}
		if pointInTri2(p.p2, a.p2, b.p2, c.p2) {
			return false
		}
	}
	return true
}

func cross2(a, b r2.Point) float64 {
	return a.X*b.Y - a.Y*b.X
}

func pointInTri2(p, a, b, c r2.Point) bool {
	d0 := cross2(b.Sub(a), p.Sub(a))
	d1 := cross2(c.Sub(b), p.Sub(b))
	d2 := cross2(a.Sub(c), p.Sub(c))
	return d0 >= 0 && d1 >= 0 && d2 >= 0
}
