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
	"github.com/golang/geo/r3"

	"github.com/JJZ993/vcad-sub001/geom"
	"github.com/JJZ993/vcad-sub001/topo"
	"github.com/JJZ993/vcad-sub001/vmath"
)

// vertexKey quantizes a position for vertex reuse during construction.
type vertexKey struct{ x, y, z int64 }

// keyQuantum is the construction-time vertex grid: a tenth of the
// default linear tolerance.
const keyQuantum = 1e-7

func keyOf(p vmath.Point) vertexKey {
	const inv = 1 / keyQuantum
	return vertexKey{
		x: int64(p.X*inv + copysignHalf(p.X)),
		y: int64(p.Y*inv + copysignHalf(p.Y)),
		z: int64(p.Z*inv + copysignHalf(p.Z)),
	}
}

func copysignHalf(v float64) float64 {
	if v < 0 {
		return -0.5
	}
	return 0.5
}

// shellBuilder assembles a closed shell face by face, fusing vertices
// by quantized position and pairing twin half-edges as opposite
// directed uses appear.
type shellBuilder struct {
	topo     *topo.Topology
	store    *geom.Store
	vertices map[vertexKey]topo.VertexID
	unpaired map[[2]topo.VertexID]topo.HalfEdgeID
	faces    []topo.FaceID
}

func newShellBuilder() *shellBuilder {
	return &shellBuilder{
		topo:     topo.New(),
		store:    geom.NewStore(),
		vertices: map[vertexKey]topo.VertexID{},
		unpaired: map[[2]topo.VertexID]topo.HalfEdgeID{},
	}
}

func (b *shellBuilder) vertex(p vmath.Point) topo.VertexID {
	k := keyOf(p)
	if v, ok := b.vertices[k]; ok {
		return v
	}
	v := b.topo.AddVertex(p)
	b.vertices[k] = v
	return v
}

// addSurface registers a surface shared by several faces.
func (b *shellBuilder) addSurface(s geom.Surface) int {
	return b.store.AddSurface(s)
}

// addCurve registers a boundary curve shared by adjacent faces.
func (b *shellBuilder) addCurve(c geom.Curve) int {
	return b.store.AddCurve(c)
}

// curveLoop makes a closed-curve boundary loop anchored at the curve's
// parameter-zero point. Pass curve topo.Nil with an explicit anchor for
// the seam loop of a closed surface.
func (b *shellBuilder) curveLoop(curve int, at vmath.Point) topo.LoopID {
	he := b.topo.AddHalfEdge(b.vertex(at))
	return b.topo.AddCurveLoop(he, curve)
}

// addCurvedFace creates a face over a curved surface, bounded by the
// given closed-curve loops: the first is the outer loop, the rest are
// inner. A face on a surface closed in both directions passes a seam
// loop as outer.
func (b *shellBuilder) addCurvedFace(si int, outer topo.LoopID, inner ...topo.LoopID) topo.FaceID {
	f := b.topo.AddFace(outer, si, topo.Forward)
	for _, l := range inner {
		b.topo.AddInnerLoop(f, l)
	}
	b.faces = append(b.faces, f)
	return f
}

// addDiskFace creates a planar face whose boundary is a full circle.
func (b *shellBuilder) addDiskFace(plane geom.Plane, curve int, at vmath.Point) topo.FaceID {
	si := b.store.AddSurface(plane)
	f := b.topo.AddFace(b.curveLoop(curve, at), si, topo.Forward)
	b.faces = append(b.faces, f)
	return f
}

// addPlaneFace creates a face over its own plane surface, derived from
// the boundary winding via the Newell normal.
func (b *shellBuilder) addPlaneFace(points []vmath.Point) topo.FaceID {
	n, _ := vmath.DirectionFromVector(newellNormal(points))
	si := b.store.AddSurface(geom.NewPlane(points[0], n))
	return b.addPolygonFace(points, si)
}

// newellNormal is the robust polygon normal: correct for any simple
// polygon winding, planar or nearly so.
func newellNormal(points []vmath.Point) (n r3.Vector) {
	for i, p := range points {
		q := points[(i+1)%len(points)]
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	return n
}

// addPolygonFace creates one face over the given boundary points
// (wound so the face normal points out of the shell) trimming the
// stored surface si.
func (b *shellBuilder) addPolygonFace(points []vmath.Point, si int) topo.FaceID {
	verts := make([]topo.VertexID, len(points))
	for i, p := range points {
		verts[i] = b.vertex(p)
	}

	hes := make([]topo.HalfEdgeID, len(verts))
	for i, v := range verts {
		hes[i] = b.topo.AddHalfEdge(v)
	}
	l := b.topo.AddLoop(hes)
	f := b.topo.AddFace(l, si, topo.Forward)
	b.faces = append(b.faces, f)

	// Pair each directed edge with its opposite use if one exists.
	n := len(verts)
	for i, he := range hes {
		a, c := verts[i], verts[(i+1)%n]
		if opp, ok := b.unpaired[[2]topo.VertexID{c, a}]; ok {
			b.topo.AddEdge(opp, he)
			delete(b.unpaired, [2]topo.VertexID{c, a})
		} else {
			b.unpaired[[2]topo.VertexID{a, c}] = he
		}
	}
	return f
}

// finish wraps the accumulated faces into an outer shell and solid.
func (b *shellBuilder) finish() *Solid {
	shell := b.topo.AddShell(b.faces, topo.OuterShell)
	id := b.topo.AddSolid(shell)
	return &Solid{Topology: b.topo, Geometry: b.store, ID: id}
}
