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

// Face splitting along intersection curves.
//
// Every face pair goes through the SSI dispatch (Intersect) on the
// faces' stored surfaces. Line results between planar polygon faces
// reduce to the 2D line/polygon crossing problem. Circle results
// between a plane and a quadric split the quadric face into parameter
// bands sharing the circle as a boundary loop; the plane side is
// carved in the hole pass. Intersections without one of these forms
// (oblique ellipses, marching polylines, quadric/quadric curves) raise
// ErrSSIFailure and send the whole operation to the mesh fallback.

import (
	"math"
	"sort"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/JJZ993/vcad-sub001/brep"
	"github.com/JJZ993/vcad-sub001/geom"
	"github.com/JJZ993/vcad-sub001/topo"
	"github.com/JJZ993/vcad-sub001/vmath"
)

// SplitOptions tunes the splitter.
type SplitOptions struct {
	// CrossTol is the maximum distance from a curve endpoint to the
	// face boundary for the endpoint to count as crossing there. It
	// scales with the model, not a fixed magic length.
	CrossTol float64
	// WeldTol fuses near-coincident split vertices.
	WeldTol float64
}

// splitOptionsFor derives the splitter tolerances from the joint model
// extent.
func splitOptionsFor(a, b *brep.Solid, tol vmath.Tolerance) SplitOptions {
	diag := a.Bounds().Union(b.Bounds()).Diagonal()
	cross := 1e-4 * diag
	if min := 10 * tol.Linear; cross < min {
		cross = min
	}
	return SplitOptions{CrossTol: cross, WeldTol: tol.Linear}
}

// boundaryRingSamples is the sampling used when a circle boundary
// stands in for a polygon in containment tests.
const boundaryRingSamples = 32

// facePolygon returns the face's outer boundary as a polygon: the loop
// vertices, or the sampled circle of a disk-like face.
func facePolygon(s *brep.Solid, f topo.FaceID) []vmath.Point {
	face := s.Topology.Faces[f]
	if !s.Topology.IsCurveLoop(face.OuterLoop) {
		return s.Topology.LoopPoints(face.OuterLoop)
	}
	ci := s.Topology.Loops[face.OuterLoop].Curve
	if ci == topo.Nil {
		return nil
	}
	curve := s.Geometry.Curve(ci)
	dom := curve.Domain()
	ring := make([]vmath.Point, boundaryRingSamples)
	for i := range ring {
		t := dom.Lo + (dom.Hi-dom.Lo)*float64(i)/boundaryRingSamples
		ring[i] = curve.Evaluate(t)
	}
	return ring
}

// isPolygonalPlaneFace reports a planar face trimmed by a polygon
// loop, the only kind the 2D crossing splitter can cut.
func isPolygonalPlaneFace(s *brep.Solid, f topo.FaceID) bool {
	face := s.Topology.Faces[f]
	return s.Geometry.Surface(face.Surface).Kind() == geom.KindPlane &&
		!s.Topology.IsCurveLoop(face.OuterLoop)
}

// facePlane returns the supporting plane of a planar face, verifying
// that a polygonal outer loop actually lies on it. ok is false for a
// bent loop, which the pipeline reports as an SSI failure.
func facePlane(s *brep.Solid, f topo.FaceID, opt SplitOptions) (geom.Plane, bool) {
	face := s.Topology.Faces[f]
	surf := s.Geometry.Surface(face.Surface)
	plane, isPlane := surf.(geom.Plane)
	if !isPlane {
		return geom.Plane{}, false
	}
	if s.Topology.IsCurveLoop(face.OuterLoop) {
		return plane, true
	}
	pts := s.Topology.LoopPoints(face.OuterLoop)
	if len(pts) < 3 {
		return geom.Plane{}, false
	}
	for _, p := range pts {
		if math.Abs(plane.SignedDistance(p)) > opt.CrossTol {
			return geom.Plane{}, false
		}
	}
	return plane, true
}

func newellNormal(points []vmath.Point) (n r3.Vector) {
	for i, p := range points {
		q := points[(i+1)%len(points)]
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	return n
}

// crossSegment is the portion of a plane/plane intersection line that
// lies inside both faces' polygons.
type crossSegment struct {
	entry, exit vmath.Point
}

// splitSolidFaces splits every face of dst that a face of other
// crosses, repeating on the sub-faces until no further split applies.
// An intersection the splitter cannot represent returns ErrSSIFailure.
func splitSolidFaces(dst, other *brep.Solid, opt SplitOptions, tol vmath.Tolerance) error {
	otherFaces := other.Topology.LiveFaces()
	otherBoxes := make([]vmath.AABB, len(otherFaces))
	for i, f := range otherFaces {
		otherBoxes[i] = faceBounds(other, f)
	}

	work := dst.Topology.LiveFaces()
	for len(work) > 0 {
		f := work[len(work)-1]
		work = work[:len(work)-1]
		if !dst.Topology.Faces[f].Alive {
			continue
		}
		box := faceBounds(dst, f).Expanded(opt.CrossTol)

		for i, fb := range otherFaces {
			if !other.Topology.Faces[fb].Alive || !box.Overlaps(otherBoxes[i]) {
				continue
			}
			sub, split, err := splitFacePair(dst, f, other, fb, opt, tol)
			if err != nil {
				return err
			}
			if split {
				work = append(work, sub[:]...)
				break
			}
		}
	}
	return nil
}

// splitFacePair dispatches one (dst face, other face) pair through SSI
// and applies the split it implies to the dst face, if any.
func splitFacePair(dst *brep.Solid, f topo.FaceID, other *brep.Solid, fb topo.FaceID,
	opt SplitOptions, tol vmath.Tolerance) ([2]topo.FaceID, bool, error) {

	surfA := dst.Geometry.Surface(dst.Topology.Faces[f].Surface)
	surfB := other.Geometry.Surface(other.Topology.Faces[fb].Surface)
	curve := Intersect(surfA, surfB, tol)

	switch curve.Kind {
	case CurveEmpty, CurvePoint:
		return [2]topo.FaceID{}, false, nil

	case CurveLine:
		if surfA.Kind() == geom.KindPlane && surfB.Kind() == geom.KindPlane {
			return splitByPlanePlaneLine(dst, f, other, fb, curve.Line, opt)
		}
		// A line on a quadric wall (tangent or lengthwise cut) has no
		// band representation.
		return [2]topo.FaceID{}, false, ErrSSIFailure

	case CurveTwoLines:
		return [2]topo.FaceID{}, false, ErrSSIFailure

	case CurveCircle:
		return splitByCircle(dst, f, other, fb, curve.Circle, opt, tol)

	default: // CurveSampled
		// A real crossing the splitter cannot carry; if the sampled
		// polyline stays clear of both faces there is nothing to do.
		if sampledCurveTouches(curve.Samples, dst, f, other, fb, opt) {
			return [2]topo.FaceID{}, false, ErrSSIFailure
		}
		return [2]topo.FaceID{}, false, nil
	}
}

func sampledCurveTouches(samples []vmath.Point, a *brep.Solid, fa topo.FaceID,
	b *brep.Solid, fb topo.FaceID, opt SplitOptions) bool {
	boxA := faceBounds(a, fa).Expanded(opt.CrossTol)
	boxB := faceBounds(b, fb).Expanded(opt.CrossTol)
	for _, p := range samples {
		if boxA.Contains(p) && boxB.Contains(p) {
			return true
		}
	}
	return false
}

// splitByPlanePlaneLine clips the line to both face polygons and, if a
// crossing segment remains, cuts the dst face along it.
func splitByPlanePlaneLine(dst *brep.Solid, f topo.FaceID, other *brep.Solid, fb topo.FaceID,
	line geom.Line, opt SplitOptions) ([2]topo.FaceID, bool, error) {

	ia, okA := lineLoopInterval(facePolygon(dst, f), line)
	ib, okB := lineLoopInterval(facePolygon(other, fb), line)
	if !okA || !okB {
		return [2]topo.FaceID{}, false, nil
	}

	lo := math.Max(ia[0], ib[0])
	hi := math.Min(ia[1], ib[1])
	if hi-lo <= opt.WeldTol {
		return [2]topo.FaceID{}, false, nil
	}
	entry, exit := line.Evaluate(lo), line.Evaluate(hi)

	if !isPolygonalPlaneFace(dst, f) {
		// The segment crosses a disk-like face the polygon splitter
		// cannot cut.
		return [2]topo.FaceID{}, false, ErrSSIFailure
	}
	sub, split := splitFaceBySegment(dst, f, entry, exit, opt)
	return sub, split, nil
}

// splitByCircle handles a circle intersection between a plane and a
// quadric: the quadric face splits into two parameter bands; the plane
// face is validated here and carved in the hole pass.
func splitByCircle(dst *brep.Solid, f topo.FaceID, other *brep.Solid, fb topo.FaceID,
	circle geom.Circle, opt SplitOptions, tol vmath.Tolerance) ([2]topo.FaceID, bool, error) {

	surfA := dst.Geometry.Surface(dst.Topology.Faces[f].Surface)

	if surfA.Kind() == geom.KindPlane {
		// Plane side: the circle must lie fully inside or fully outside
		// the face boundary; carving happens later, a partial crossing
		// cannot be represented.
		poly := facePolygon(dst, f)
		if len(poly) < 3 {
			return [2]topo.FaceID{}, false, nil
		}
		surfB := other.Geometry.Surface(other.Topology.Faces[fb].Surface)
		canonical, ok := circleOnFaceBand(surfB, circle, tol)
		if !ok {
			if _, axisOK := canonicalAxisCircle(surfB, circle, tol); !axisOK {
				// An oblique section the carver cannot represent.
				return [2]topo.FaceID{}, false, ErrSSIFailure
			}
			// Axis-aligned but outside the band: no real crossing here.
			return [2]topo.FaceID{}, false, nil
		}
		in, out := ringContainment(poly, canonical, opt)
		if in > 0 && out > 0 {
			return [2]topo.FaceID{}, false, ErrSSIFailure
		}
		return [2]topo.FaceID{}, false, nil
	}

	// Quadric side: split the band at the circle's parameter.
	canonical, ok := canonicalAxisCircle(surfA, circle, tol)
	if !ok {
		return [2]topo.FaceID{}, false, ErrSSIFailure
	}
	return splitBandAtCircle(dst, f, canonical, opt, tol)
}

// ringContainment samples the circle and counts samples strictly
// inside and clearly outside the polygon.
func ringContainment(poly []vmath.Point, circle geom.Circle, opt SplitOptions) (in, out int) {
	for i := 0; i < 16; i++ {
		p := circle.Evaluate(twoPiF * float64(i) / 16)
		if strictlyInterior(poly, p, opt.CrossTol) {
			in++
		} else if _, d := closestLoopEdge(poly, p); d > opt.CrossTol || !pointInPolygon(poly, p) {
			out++
		}
	}
	return in, out
}

// canonicalAxisCircle re-frames an SSI circle on the quadric's own
// axis, so both sides of a split sample the boundary ring in phase.
// ok is false when the circle is not an axis-perpendicular section of
// the surface (an oblique cut the band splitter cannot represent).
func canonicalAxisCircle(surf geom.Surface, c geom.Circle, tol vmath.Tolerance) (geom.Circle, bool) {
	var origin vmath.Point
	var axis vmath.Direction
	switch q := surf.(type) {
	case geom.Cylinder:
		origin, axis = q.Frame.Origin, q.Frame.Axis
	case geom.Cone:
		origin, axis = q.Frame.Origin, q.Frame.Axis
	case geom.Sphere:
		origin, axis = q.Frame.Origin, q.Frame.Axis
	default:
		return geom.Circle{}, false
	}
	if !tol.Parallel(c.Normal.Vector, axis.Vector) {
		return geom.Circle{}, false
	}
	d := c.Center.Sub(origin.Vector)
	radial := d.Sub(axis.Mul(d.Dot(axis.Vector)))
	if radial.Norm() > 10*tol.Linear {
		// Circle center off the surface axis.
		return geom.Circle{}, false
	}
	return geom.Circle{
		Center: c.Center,
		Normal: axis,
		XDir:   axis.AnyPerpendicular(),
		Radius: c.Radius,
	}, true
}

// circleAxialParam returns the surface v parameter of an axis-aligned
// circle section.
func circleAxialParam(surf geom.Surface, c geom.Circle) (float64, bool) {
	switch q := surf.(type) {
	case geom.Cylinder:
		return c.Center.Sub(q.Frame.Origin.Vector).Dot(q.Frame.Axis.Vector), true
	case geom.Cone:
		return c.Center.Sub(q.Frame.Origin.Vector).Dot(q.Frame.Axis.Vector), true
	case geom.Sphere:
		h := c.Center.Sub(q.Frame.Origin.Vector).Dot(q.Frame.Axis.Vector)
		if math.Abs(h) > q.Radius {
			return 0, false
		}
		return math.Asin(h / q.Radius), true
	}
	return 0, false
}

// bandedSurface rebuilds a quadric with the axial trim [lo, hi].
func bandedSurface(surf geom.Surface, lo, hi float64) geom.Surface {
	switch q := surf.(type) {
	case geom.Cylinder:
		q.VDomain = r1.Interval{Lo: lo, Hi: hi}
		return q
	case geom.Cone:
		q.VDomain = r1.Interval{Lo: lo, Hi: hi}
		return q
	case geom.Sphere:
		q.VDomain = r1.Interval{Lo: lo, Hi: hi}
		return q
	}
	return surf
}

// splitBandAtCircle cuts a quadric band face into two bands sharing
// the circle as a boundary loop.
func splitBandAtCircle(s *brep.Solid, f topo.FaceID, circle geom.Circle,
	opt SplitOptions, tol vmath.Tolerance) ([2]topo.FaceID, bool, error) {

	face := s.Topology.Faces[f]
	surf := s.Geometry.Surface(face.Surface)
	vc, ok := circleAxialParam(surf, circle)
	if !ok {
		return [2]topo.FaceID{}, false, ErrSSIFailure
	}
	_, vdom := surf.Domain()
	margin := paramMargin(surf, opt.WeldTol)
	if vc <= vdom.Lo+margin || vc >= vdom.Hi-margin {
		// The circle rides a band boundary: nothing to cut.
		return [2]topo.FaceID{}, false, nil
	}

	ci := findOrAddCircle(s, circle, tol)

	lowerSurf := s.Geometry.AddSurface(bandedSurface(surf, vdom.Lo, vc))
	upperSurf := s.Geometry.AddSurface(bandedSurface(surf, vc, vdom.Hi))

	// Distribute the existing boundary loops to the band containing
	// their axial parameter; seam loops of fully closed surfaces
	// vanish with the split.
	var lowerLoops, upperLoops []topo.LoopID
	for _, l := range s.Topology.FaceLoops(f) {
		lc := s.Topology.Loops[l].Curve
		if !s.Topology.IsCurveLoop(l) || lc == topo.Nil {
			continue
		}
		bc, isCircle := s.Geometry.Curve(lc).(geom.Circle)
		if !isCircle {
			continue
		}
		bv, ok := circleAxialParam(surf, bc)
		if !ok {
			continue
		}
		nl := addCircleLoop(s, lc)
		if bv <= vc {
			lowerLoops = append(lowerLoops, nl)
		} else {
			upperLoops = append(upperLoops, nl)
		}
	}
	lowerLoops = append(lowerLoops, addCircleLoop(s, ci))
	upperLoops = append(upperLoops, addCircleLoop(s, ci))

	f1 := s.Topology.AddFace(lowerLoops[0], lowerSurf, face.Orientation)
	for _, l := range lowerLoops[1:] {
		s.Topology.AddInnerLoop(f1, l)
	}
	f2 := s.Topology.AddFace(upperLoops[0], upperSurf, face.Orientation)
	for _, l := range upperLoops[1:] {
		s.Topology.AddInnerLoop(f2, l)
	}

	attachToShell(s, face.Shell, f1, f2)
	s.Topology.RemoveFace(f)
	return [2]topo.FaceID{f1, f2}, true, nil
}

// paramMargin converts the weld tolerance to the surface's v units
// (arc length for the angular sphere parameter).
func paramMargin(surf geom.Surface, weld float64) float64 {
	if q, isSphere := surf.(geom.Sphere); isSphere {
		return weld / q.Radius
	}
	return weld
}

// addCircleLoop creates a closed-curve boundary loop for the stored
// circle, anchored at its parameter-zero point.
func addCircleLoop(s *brep.Solid, curve int) topo.LoopID {
	at := s.Geometry.Curve(curve).Evaluate(0)
	he := s.Topology.AddHalfEdge(findOrCreateVertex(s, at))
	return s.Topology.AddCurveLoop(he, curve)
}

// findOrAddCircle reuses a geometrically identical circle already in
// the store, so both faces of a split share one boundary curve.
func findOrAddCircle(s *brep.Solid, c geom.Circle, tol vmath.Tolerance) int {
	for i := 0; i < s.Geometry.NumCurves(); i++ {
		o, isCircle := s.Geometry.Curve(i).(geom.Circle)
		if !isCircle {
			continue
		}
		if o.Center.Distance(c.Center) <= tol.Linear &&
			math.Abs(o.Radius-c.Radius) <= tol.Linear &&
			tol.SameDirection(o.Normal, c.Normal) &&
			tol.SameDirection(o.XDir, c.XDir) {
			return i
		}
	}
	return s.Geometry.AddCurve(c)
}

func attachToShell(s *brep.Solid, shell topo.ShellID, faces ...topo.FaceID) {
	if shell == topo.Nil {
		return
	}
	s.Topology.Shells[shell].Faces = append(s.Topology.Shells[shell].Faces, faces...)
	for _, f := range faces {
		s.Topology.Faces[f].Shell = shell
	}
}

// lineLoopInterval returns the parameter interval where line lies
// inside the planar polygon, requiring exactly two boundary crossings.
func lineLoopInterval(poly []vmath.Point, line geom.Line) ([2]float64, bool) {
	n := len(poly)
	if n < 3 {
		return [2]float64{}, false
	}

	normal, ok := vmath.DirectionFromVector(newellNormal(poly))
	if !ok {
		return [2]float64{}, false
	}
	x := normal.AnyPerpendicular()
	y := normal.Cross(x.Vector)
	project := func(p vmath.Point) r2.Point {
		d := p.Sub(poly[0].Vector)
		return r2.Point{X: d.Dot(x.Vector), Y: d.Dot(y)}
	}

	o2 := project(line.Origin)
	dx := line.Dir.Dot(x.Vector)
	dy := line.Dir.Dot(y)
	if dx*dx+dy*dy < 1e-24 {
		// Line perpendicular to the polygon plane.
		return [2]float64{}, false
	}
	d2 := r2.Point{X: dx, Y: dy}

	var params []float64
	const eps = 1e-9
	for i := 0; i < n; i++ {
		a := project(poly[i])
		b := project(poly[(i+1)%n])
		s := b.Sub(a)

		det := s.X*d2.Y - d2.X*s.Y
		if math.Abs(det) < eps {
			continue
		}
		r := a.Sub(o2)
		t := (s.X*r.Y - s.Y*r.X) / det // along the line
		u := (d2.X*r.Y - d2.Y*r.X) / det
		if u < -eps || u > 1+eps {
			continue
		}
		dup := false
		for _, p := range params {
			if math.Abs(p-t) < 1e-7 {
				dup = true
				break
			}
		}
		if !dup {
			params = append(params, t)
		}
	}

	if len(params) != 2 {
		return [2]float64{}, false
	}
	sort.Float64s(params)
	return [2]float64{params[0], params[1]}, true
}

// splitFaceBySegment cuts a polygonal planar face along the segment
// entry-exit. The two sub-faces inherit the surface index and
// orientation. The split is aborted (false) when either endpoint is
// farther than CrossTol from the boundary, or both endpoints land on
// the same boundary edge.
func splitFaceBySegment(s *brep.Solid, f topo.FaceID, entry, exit vmath.Point,
	opt SplitOptions) ([2]topo.FaceID, bool) {

	face := s.Topology.Faces[f]
	loopPts := s.Topology.LoopPoints(face.OuterLoop)
	n := len(loopPts)
	if n < 3 || len(face.InnerLoops) > 0 {
		// Faces that already carry holes are left to the mesh fallback
		// rather than split across a hole.
		return [2]topo.FaceID{}, false
	}

	entryEdge, entryDist := closestLoopEdge(loopPts, entry)
	exitEdge, exitDist := closestLoopEdge(loopPts, exit)
	if entryDist > opt.CrossTol || exitDist > opt.CrossTol {
		return [2]topo.FaceID{}, false
	}
	if entryEdge == exitEdge {
		return [2]topo.FaceID{}, false
	}

	// Walk the boundary from the entry edge to the exit edge for one
	// sub-face and the complementary way for the other.
	var loop1, loop2 []vmath.Point
	loop1 = append(loop1, entry)
	for idx := (entryEdge + 1) % n; idx != (exitEdge+1)%n; idx = (idx + 1) % n {
		loop1 = append(loop1, loopPts[idx])
	}
	loop1 = append(loop1, exit)

	loop2 = append(loop2, exit)
	for idx := (exitEdge + 1) % n; idx != (entryEdge+1)%n; idx = (idx + 1) % n {
		loop2 = append(loop2, loopPts[idx])
	}
	loop2 = append(loop2, entry)

	loop1 = weldLoop(loop1, opt.WeldTol)
	loop2 = weldLoop(loop2, opt.WeldTol)
	if len(loop1) < 3 || len(loop2) < 3 {
		return [2]topo.FaceID{}, false
	}

	f1 := addFaceFromPoints(s, loop1, face.Surface, face.Orientation)
	f2 := addFaceFromPoints(s, loop2, face.Surface, face.Orientation)
	attachToShell(s, face.Shell, f1, f2)
	s.Topology.RemoveFace(f)
	return [2]topo.FaceID{f1, f2}, true
}

// closestLoopEdge returns the boundary edge index nearest to p and the
// distance to it.
func closestLoopEdge(poly []vmath.Point, p vmath.Point) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	n := len(poly)
	for i := 0; i < n; i++ {
		d := pointSegmentDistance(p, poly[i], poly[(i+1)%n])
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

func pointSegmentDistance(p, a, b vmath.Point) float64 {
	ab := b.Sub(a.Vector)
	ap := p.Sub(a.Vector)
	len2 := ab.Norm2()
	if len2 < 1e-20 {
		return ap.Norm()
	}
	t := ap.Dot(ab) / len2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return ap.Sub(ab.Mul(t)).Norm()
}

// weldLoop drops consecutive near-duplicate points.
func weldLoop(pts []vmath.Point, tol float64) []vmath.Point {
	var out []vmath.Point
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1].Distance(p) <= tol {
			continue
		}
		out = append(out, p)
	}
	if len(out) > 1 && out[0].Distance(out[len(out)-1]) <= tol {
		out = out[:len(out)-1]
	}
	return out
}

// addFaceFromPoints builds a face over existing-or-new vertices.
func addFaceFromPoints(s *brep.Solid, pts []vmath.Point, surface int, orientation topo.Orientation) topo.FaceID {
	verts := make([]topo.VertexID, len(pts))
	for i, p := range pts {
		verts[i] = findOrCreateVertex(s, p)
	}
	hes := make([]topo.HalfEdgeID, len(verts))
	for i, v := range verts {
		hes[i] = s.Topology.AddHalfEdge(v)
	}
	l := s.Topology.AddLoop(hes)
	return s.Topology.AddFace(l, surface, orientation)
}

// findOrCreateVertex reuses a live vertex within the default linear
// tolerance to avoid duplicating split points.
func findOrCreateVertex(s *brep.Solid, p vmath.Point) topo.VertexID {
	const tol = 1e-6
	for i := range s.Topology.Vertices {
		if s.Topology.Vertices[i].Alive && s.Topology.Vertices[i].Point.Distance(p) < tol {
			return topo.VertexID(i)
		}
	}
	return s.Topology.AddVertex(p)
}

// faceBounds returns the AABB of a face's geometry: loop vertices for
// polygonal faces, a parameter-grid sample for curved ones.
func faceBounds(s *brep.Solid, f topo.FaceID) vmath.AABB {
	face := s.Topology.Faces[f]
	surf := s.Geometry.Surface(face.Surface)

	if surf.Kind() == geom.KindPlane && !s.Topology.IsCurveLoop(face.OuterLoop) {
		box := vmath.EmptyAABB()
		for _, p := range s.Topology.LoopPoints(face.OuterLoop) {
			box = box.AddPoint(p)
		}
		return box
	}
	if surf.Kind() == geom.KindPlane {
		box := vmath.EmptyAABB()
		for _, p := range facePolygon(s, f) {
			box = box.AddPoint(p)
		}
		return box
	}

	du, dv := surf.Domain()
	box := vmath.EmptyAABB()
	const n = 8
	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			u := du.Lo + (du.Hi-du.Lo)*float64(i)/n
			v := dv.Lo + (dv.Hi-dv.Lo)*float64(j)/n
			box = box.AddPoint(surf.Evaluate(u, v))
		}
	}
	return box
}

