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

// Sewing assembles the selected faces of both operands into one new
// solid with a fresh topology and geometry store.
//
// Orientation rule: when copying faces of B under a difference, ONLY
// the orientation flag is flipped — the loop winding is preserved.
// Flipping both would cancel out and leave hole walls facing outward,
// silently adding the subtracted volume back in. The flag is the
// canonical mechanism for normal reversal.

import (
	"math"

	"github.com/JJZ993/vcad-sub001/brep"
	"github.com/JJZ993/vcad-sub001/geom"
	"github.com/JJZ993/vcad-sub001/topo"
	"github.com/JJZ993/vcad-sub001/vmath"
)

// sewKey quantizes positions at a tenth of the merge tolerance so
// near-coincident vertices from both operands fuse onto one target
// vertex.
type sewKey struct{ x, y, z int64 }

func sewKeyOf(p vmath.Point, quantum float64) sewKey {
	return sewKey{
		x: int64(math.Round(p.X / quantum)),
		y: int64(math.Round(p.Y / quantum)),
		z: int64(math.Round(p.Z / quantum)),
	}
}

// sewer carries the mapping state of one sew operation.
type sewer struct {
	topo    *topo.Topology
	store   *geom.Store
	quantum float64
	verts   map[sewKey]topo.VertexID
	curves  map[curveKey]int
	faces   []topo.FaceID
}

// curveKey identifies a boundary curve by quantized sample points, so
// geometrically identical curves from both operands fuse onto one
// target entry and the manifold check sees their shared boundary.
type curveKey struct {
	a, b, c sewKey
}

func curveKeyOf(c geom.Curve, quantum float64) curveKey {
	dom := c.Domain()
	at := func(f float64) sewKey {
		return sewKeyOf(c.Evaluate(dom.Lo+(dom.Hi-dom.Lo)*f), quantum)
	}
	return curveKey{a: at(0), b: at(0.25), c: at(0.5)}
}

// curveIndex maps a source curve into the target store, deduplicating
// by geometry.
func (s *sewer) curveIndex(c geom.Curve) int {
	k := curveKeyOf(c, s.quantum*100)
	if i, ok := s.curves[k]; ok {
		return i
	}
	i := s.store.AddCurve(c)
	s.curves[k] = i
	return i
}

// sewFaces copies the chosen faces of a and b into a fresh solid,
// flipping B's orientation flags when reverseB is set, then merges
// vertices within tol.
func sewFaces(a *brep.Solid, facesA []topo.FaceID, b *brep.Solid, facesB []topo.FaceID,
	reverseB bool, tol vmath.Tolerance) *brep.Solid {

	s := &sewer{
		topo:    topo.New(),
		store:   geom.NewStore(),
		quantum: tol.Linear / 10,
		verts:   map[sewKey]topo.VertexID{},
		curves:  map[curveKey]int{},
	}

	s.copyFaces(a, facesA, false)
	s.copyFaces(b, facesB, reverseB)

	mergeNearbyVertices(s.topo, tol.Linear)

	shell := s.topo.AddShell(s.faces, topo.OuterShell)
	id := s.topo.AddSolid(shell)
	return &brep.Solid{Topology: s.topo, Geometry: s.store, ID: id}
}

// copyFaces copies the given faces of source, deduplicating surfaces by
// source index and fusing loop vertices by quantized position.
func (s *sewer) copyFaces(source *brep.Solid, faces []topo.FaceID, reverseOrientation bool) {
	surfaceMap := map[int]int{}

	for _, sf := range faces {
		src := source.Topology.Faces[sf]

		si, ok := surfaceMap[src.Surface]
		if !ok {
			si = s.store.AddSurface(source.Geometry.Surface(src.Surface))
			surfaceMap[src.Surface] = si
		}

		// The winding is NEVER reversed here: the orientation flag flip
		// below is the single mechanism for normal reversal.
		outer := s.copyLoop(source, src.OuterLoop)
		if outer == topo.Nil {
			continue
		}

		orientation := src.Orientation
		if reverseOrientation {
			orientation = orientation.Flipped()
		}

		f := s.topo.AddFace(outer, si, orientation)
		for _, il := range src.InnerLoops {
			if inner := s.copyLoop(source, il); inner != topo.Nil {
				s.topo.AddInnerLoop(f, inner)
			}
		}
		s.faces = append(s.faces, f)
	}
}

// copyLoop rebuilds one loop in the target, reusing target vertices by
// quantized position. Closed-curve loops carry their boundary curve
// into the target store.
func (s *sewer) copyLoop(source *brep.Solid, l topo.LoopID) topo.LoopID {
	if source.Topology.IsCurveLoop(l) {
		anchor := source.Topology.Loops[l].HalfEdge
		p := source.Topology.Vertices[source.Topology.HalfEdges[anchor].Origin].Point
		he := s.topo.AddHalfEdge(s.vertex(p))
		curve := topo.Nil
		if ci := source.Topology.Loops[l].Curve; ci != topo.Nil {
			curve = s.curveIndex(source.Geometry.Curve(ci))
		}
		return s.topo.AddCurveLoop(he, curve)
	}

	pts := source.Topology.LoopPoints(l)
	if len(pts) == 0 {
		return topo.Nil
	}

	hes := make([]topo.HalfEdgeID, len(pts))
	for i, p := range pts {
		hes[i] = s.topo.AddHalfEdge(s.vertex(p))
	}
	return s.topo.AddLoop(hes)
}

// vertex reuses a target vertex by quantized position.
func (s *sewer) vertex(p vmath.Point) topo.VertexID {
	k := sewKeyOf(p, s.quantum)
	v, ok := s.verts[k]
	if !ok {
		v = s.topo.AddVertex(p)
		s.verts[k] = v
	}
	return v
}

// mergeNearbyVertices fuses live vertices closer than tol and
// re-points every half-edge at the survivor.
func mergeNearbyVertices(t *topo.Topology, tol float64) {
	live := t.LiveVertices()
	tol2 := tol * tol

	merge := map[topo.VertexID]topo.VertexID{}
	for i := 0; i < len(live); i++ {
		if _, gone := merge[live[i]]; gone {
			continue
		}
		pi := t.Vertices[live[i]].Point
		for j := i + 1; j < len(live); j++ {
			if _, gone := merge[live[j]]; gone {
				continue
			}
			if pi.Sub(t.Vertices[live[j]].Point.Vector).Norm2() < tol2 {
				merge[live[j]] = live[i]
			}
		}
	}
	if len(merge) == 0 {
		return
	}

	for i := range t.HalfEdges {
		if survivor, ok := merge[t.HalfEdges[i].Origin]; ok {
			t.HalfEdges[i].Origin = survivor
		}
	}
	for gone := range merge {
		t.RemoveVertex(gone)
	}
}
