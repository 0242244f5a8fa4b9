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
	"fmt"

	"github.com/JJZ993/vcad-sub001/geom"
	"github.com/JJZ993/vcad-sub001/topo"
	"github.com/JJZ993/vcad-sub001/vmath"
)

// defaultSegments is the circular tessellation resolution used when a
// caller asks for segments = 0 (auto). Primitive topology itself is
// exact: curved walls are single faces over their analytic surface,
// and segments only matters when a mesh is produced.
const defaultSegments = 32

func resolveSegments(segments int) int {
	if segments <= 0 {
		return defaultSegments
	}
	if segments < 3 {
		return 3
	}
	return segments
}

// Empty returns the empty solid: no faces, one empty outer shell.
func Empty() *Solid {
	return newShellBuilder().finish()
}

// Cube constructs an axis-aligned box centered at the origin with the
// given edge lengths. Each of the six faces trims its own plane.
func Cube(sx, sy, sz float64) (*Solid, error) {
	if sx <= 0 || sy <= 0 || sz <= 0 {
		return nil, fmt.Errorf("%w: cube size (%g, %g, %g)", ErrDomain, sx, sy, sz)
	}
	hx, hy, hz := sx/2, sy/2, sz/2
	p := func(x, y, z float64) vmath.Point { return vmath.PointFromCoords(x, y, z) }

	b := newShellBuilder()
	quads := [][4]vmath.Point{
		{p(-hx, -hy, -hz), p(-hx, hy, -hz), p(hx, hy, -hz), p(hx, -hy, -hz)}, // -Z
		{p(-hx, -hy, hz), p(hx, -hy, hz), p(hx, hy, hz), p(-hx, hy, hz)},     // +Z
		{p(-hx, -hy, -hz), p(hx, -hy, -hz), p(hx, -hy, hz), p(-hx, -hy, hz)}, // -Y
		{p(-hx, hy, -hz), p(-hx, hy, hz), p(hx, hy, hz), p(hx, hy, -hz)},     // +Y
		{p(-hx, -hy, -hz), p(-hx, -hy, hz), p(-hx, hy, hz), p(-hx, hy, -hz)}, // -X
		{p(hx, -hy, -hz), p(hx, hy, -hz), p(hx, hy, hz), p(hx, -hy, hz)},     // +X
	}
	for _, q := range quads {
		b.addPlaneFace(q[:])
	}
	return b.finish(), nil
}

// Cylinder constructs a cylinder along Z centered at the origin: one
// cylindrical wall face bounded by the two rim circles, plus two
// planar cap disks sharing those circles.
func Cylinder(radius, height float64, segments int) (*Solid, error) {
	if radius <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: cylinder r=%g h=%g", ErrDomain, radius, height)
	}
	hz := height / 2

	b := newShellBuilder()
	surf := geom.NewCylinder(vmath.PointFromCoords(0, 0, -hz), vmath.ZAxis, radius, height)
	si := b.addSurface(surf)

	bottomCircle := geom.NewCircle(vmath.PointFromCoords(0, 0, -hz), vmath.ZAxis, radius)
	topCircle := geom.NewCircle(vmath.PointFromCoords(0, 0, hz), vmath.ZAxis, radius)
	cb := b.addCurve(bottomCircle)
	ct := b.addCurve(topCircle)

	b.addCurvedFace(si,
		b.curveLoop(cb, bottomCircle.Evaluate(0)),
		b.curveLoop(ct, topCircle.Evaluate(0)))

	b.addDiskFace(geom.NewPlane(vmath.PointFromCoords(0, 0, -hz), vmath.ZAxis.Reversed()),
		cb, bottomCircle.Evaluate(0))
	b.addDiskFace(geom.NewPlane(vmath.PointFromCoords(0, 0, hz), vmath.ZAxis),
		ct, topCircle.Evaluate(0))
	return b.finish(), nil
}

// Cone constructs a cone or frustum along Z centered at the origin,
// with radiusBottom at z = -h/2 and radiusTop at z = +h/2: one conical
// wall face bounded by its rim circle(s), plus planar cap disks.
func Cone(radiusBottom, radiusTop, height float64, segments int) (*Solid, error) {
	if height <= 0 || radiusBottom < 0 || radiusTop < 0 || (radiusBottom == 0 && radiusTop == 0) {
		return nil, fmt.Errorf("%w: cone rb=%g rt=%g h=%g", ErrDomain, radiusBottom, radiusTop, height)
	}
	hz := height / 2

	b := newShellBuilder()
	surf := geom.NewCone(vmath.PointFromCoords(0, 0, -hz), vmath.ZAxis, radiusBottom, radiusTop, height)
	si := b.addSurface(surf)

	var loops []topo.LoopID
	if radiusBottom > 0 {
		c := geom.NewCircle(vmath.PointFromCoords(0, 0, -hz), vmath.ZAxis, radiusBottom)
		ci := b.addCurve(c)
		loops = append(loops, b.curveLoop(ci, c.Evaluate(0)))
		b.addDiskFace(geom.NewPlane(vmath.PointFromCoords(0, 0, -hz), vmath.ZAxis.Reversed()),
			ci, c.Evaluate(0))
	}
	if radiusTop > 0 {
		c := geom.NewCircle(vmath.PointFromCoords(0, 0, hz), vmath.ZAxis, radiusTop)
		ci := b.addCurve(c)
		loops = append(loops, b.curveLoop(ci, c.Evaluate(0)))
		b.addDiskFace(geom.NewPlane(vmath.PointFromCoords(0, 0, hz), vmath.ZAxis),
			ci, c.Evaluate(0))
	}
	b.addCurvedFace(si, loops[0], loops[1:]...)
	return b.finish(), nil
}

// Sphere constructs a sphere centered at the origin: a single face
// covering the whole closed surface, anchored by a seam loop.
func Sphere(radius float64, segments int) (*Solid, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w: sphere r=%g", ErrDomain, radius)
	}

	b := newShellBuilder()
	surf := geom.NewSphere(vmath.PointFromCoords(0, 0, 0), radius)
	si := b.addSurface(surf)
	b.addCurvedFace(si, b.curveLoop(topo.Nil, vmath.PointFromCoords(0, 0, -radius)))
	return b.finish(), nil
}

// Torus constructs a torus about the Z axis centered at the origin,
// with ring radius major and tube radius minor: a single face over the
// doubly closed surface.
func Torus(major, minor float64, segments int) (*Solid, error) {
	if major <= 0 || minor <= 0 {
		return nil, fmt.Errorf("%w: torus R=%g r=%g", ErrDomain, major, minor)
	}
	if minor >= major {
		// The tube would pass through the axis: a self-intersecting solid.
		return nil, fmt.Errorf("%w: torus R=%g r=%g", ErrDegenerateGeometry, major, minor)
	}

	b := newShellBuilder()
	surf := geom.NewTorus(vmath.PointFromCoords(0, 0, 0), vmath.ZAxis, major, minor)
	si := b.addSurface(surf)
	b.addCurvedFace(si, b.curveLoop(topo.Nil, surf.Evaluate(0, 0)))
	return b.finish(), nil
}

// FaceSpec describes one face for SolidFromFaces: any surface, trimmed
// either by a polygonal boundary (Outer with optional Holes) or, when
// Outer is nil, by the surface's own domain. The full-domain form is
// the construction path for free-form faces (bilinear patches,
// B-spline patches) arriving from collaborators such as the STEP
// importer.
type FaceSpec struct {
	Surface geom.Surface
	Outer   []vmath.Point
	Holes   [][]vmath.Point
}

// SolidFromFaces assembles a solid from explicit faces. It performs no
// manifoldness repair: the caller (typically an importer) is expected
// to supply a coherent boundary; Validate reports whether it did.
func SolidFromFaces(faces []FaceSpec) (*Solid, error) {
	b := newShellBuilder()
	for i, spec := range faces {
		if spec.Surface == nil {
			return nil, fmt.Errorf("%w: face %d has no surface", ErrDomain, i)
		}
		si := b.addSurface(spec.Surface)
		if spec.Outer == nil {
			if len(spec.Holes) > 0 {
				return nil, fmt.Errorf("%w: face %d full-domain face with holes", ErrDomain, i)
			}
			du, dv := spec.Surface.Domain()
			b.addCurvedFace(si, b.curveLoop(topo.Nil, spec.Surface.Evaluate(du.Lo, dv.Lo)))
			continue
		}
		if len(spec.Outer) < 3 {
			return nil, fmt.Errorf("%w: face %d boundary too short", ErrDomain, i)
		}
		f := b.addPolygonFace(spec.Outer, si)
		for _, hole := range spec.Holes {
			hes := make([]topo.HalfEdgeID, len(hole))
			for j, p := range hole {
				hes[j] = b.topo.AddHalfEdge(b.vertex(p))
			}
			b.topo.AddInnerLoop(f, b.topo.AddLoop(hes))
		}
	}
	return b.finish(), nil
}
