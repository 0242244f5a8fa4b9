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

// Package topo implements the half-edge topology graph of a B-rep
// solid: keyed pools of vertices, half-edges, edges, loops, faces,
// shells and solids.
//
// Pools are arenas indexed by dense integer handles. Entities are
// never reused: removal marks the slot dead and the slot is retained
// until the owning solid is dropped. Back references (vertex to
// out-going half-edge) are hints that repair may re-link; ownership is
// one-way from solid to topology to pools.
package topo

import (
	"github.com/JJZ993/vcad-sub001/vmath"
)

// Handle types for the seven pools. The zero value is a valid handle;
// Nil (-1) marks an unset reference.
type (
	// VertexID indexes the vertex pool.
	VertexID int
	// HalfEdgeID indexes the half-edge pool.
	HalfEdgeID int
	// EdgeID indexes the edge pool.
	EdgeID int
	// LoopID indexes the loop pool.
	LoopID int
	// FaceID indexes the face pool.
	FaceID int
	// ShellID indexes the shell pool.
	ShellID int
	// SolidID indexes the solid pool.
	SolidID int
)

// Nil is the unset handle value for every pool.
const Nil = -1

// Orientation relates a face normal to its surface's parametric normal.
type Orientation int

// The two face orientations.
const (
	Forward Orientation = iota
	Reversed
)

// Flipped returns the opposite orientation.
func (o Orientation) Flipped() Orientation {
	if o == Forward {
		return Reversed
	}
	return Forward
}

func (o Orientation) String() string {
	if o == Forward {
		return "Forward"
	}
	return "Reversed"
}

// ShellType distinguishes the outer boundary from interior cavities.
type ShellType int

// The two shell types.
const (
	OuterShell ShellType = iota
	InnerShell
)

// Vertex is a topological point. HalfEdge is a back-reference hint to
// one out-going half-edge; it may go stale during repair and is then
// re-linked.
type Vertex struct {
	Point    vmath.Point
	HalfEdge HalfEdgeID
	Alive    bool
}

// HalfEdge is a directed use of an edge by one loop. A half-edge with
// Loop == Nil is detached (scratch during construction or unlinked by
// repair).
type HalfEdge struct {
	Origin VertexID
	Twin   HalfEdgeID
	Edge   EdgeID
	Next   HalfEdgeID
	Prev   HalfEdgeID
	Loop   LoopID
}

// Edge groups the two twin half-edges of one geometric edge.
type Edge struct {
	Half  [2]HalfEdgeID
	Alive bool
}

// Loop is a closed cycle of half-edges; HalfEdge anchors the cycle and
// any member is a valid anchor.
//
// A loop with a single half-edge represents a closed-curve boundary
// (e.g. a full circle); its half-edge has twin unset and Curve indexes
// the boundary curve in the owning solid's geometry store. Curve is
// Nil for polygonal loops and for the seam loop of a closed surface.
type Loop struct {
	HalfEdge HalfEdgeID
	Curve    int
	Alive    bool
}

// Face is a trimmed region of a surface: one outer loop, optional hole
// loops, the surface index into the owning solid's geometry store, and
// the orientation flag.
type Face struct {
	OuterLoop   LoopID
	InnerLoops  []LoopID
	Surface     int
	Orientation Orientation
	Shell       ShellID
	Alive       bool
}

// Shell is an ordered set of faces forming one closed boundary.
type Shell struct {
	Faces []FaceID
	Type  ShellType
}

// Solid is one outer shell plus any number of cavity shells.
type Solid struct {
	OuterShell  ShellID
	InnerShells []ShellID
}

// Topology holds the seven pools of one solid. It is exclusively owned:
// never aliased between solids nor shared across goroutines.
type Topology struct {
	Vertices  []Vertex
	HalfEdges []HalfEdge
	Edges     []Edge
	Loops     []Loop
	Faces     []Face
	Shells    []Shell
	Solids    []Solid
}

// New returns an empty topology.
func New() *Topology {
	return &Topology{}
}

// AddVertex appends a vertex at p.
func (t *Topology) AddVertex(p vmath.Point) VertexID {
	t.Vertices = append(t.Vertices, Vertex{Point: p, HalfEdge: Nil, Alive: true})
	return VertexID(len(t.Vertices) - 1)
}

// AddHalfEdge appends a detached half-edge out of origin.
func (t *Topology) AddHalfEdge(origin VertexID) HalfEdgeID {
	t.HalfEdges = append(t.HalfEdges, HalfEdge{
		Origin: origin,
		Twin:   Nil,
		Edge:   Nil,
		Next:   Nil,
		Prev:   Nil,
		Loop:   Nil,
	})
	id := HalfEdgeID(len(t.HalfEdges) - 1)
	if t.Vertices[origin].HalfEdge == Nil {
		t.Vertices[origin].HalfEdge = id
	}
	return id
}

// AddLoop links the given half-edges into a polygonal cycle, in order,
// and returns the new loop. The half-edges must be detached.
func (t *Topology) AddLoop(hes []HalfEdgeID) LoopID {
	t.Loops = append(t.Loops, Loop{HalfEdge: hes[0], Curve: Nil, Alive: true})
	id := LoopID(len(t.Loops) - 1)
	n := len(hes)
	for i, he := range hes {
		t.HalfEdges[he].Loop = id
		t.HalfEdges[he].Next = hes[(i+1)%n]
		t.HalfEdges[he].Prev = hes[(i+n-1)%n]
	}
	return id
}

// AddCurveLoop makes a one-half-edge loop for a closed boundary curve.
// The half-edge cycles to itself and, per the closed-curve convention,
// never receives a twin. curve indexes the owning store; pass Nil for
// the seam loop of a surface closed in both directions.
func (t *Topology) AddCurveLoop(he HalfEdgeID, curve int) LoopID {
	t.Loops = append(t.Loops, Loop{HalfEdge: he, Curve: curve, Alive: true})
	id := LoopID(len(t.Loops) - 1)
	t.HalfEdges[he].Loop = id
	t.HalfEdges[he].Next = he
	t.HalfEdges[he].Prev = he
	return id
}

// IsCurveLoop reports whether l is a one-half-edge closed-curve (or
// seam) loop.
func (t *Topology) IsCurveLoop(l LoopID) bool {
	he := t.Loops[l].HalfEdge
	return he != Nil && t.HalfEdges[he].Next == he
}

// AddEdge pairs two half-edges as twins under a new edge. Both must be
// currently unpaired.
func (t *Topology) AddEdge(h1, h2 HalfEdgeID) EdgeID {
	t.Edges = append(t.Edges, Edge{Half: [2]HalfEdgeID{h1, h2}, Alive: true})
	id := EdgeID(len(t.Edges) - 1)
	t.HalfEdges[h1].Twin = h2
	t.HalfEdges[h2].Twin = h1
	t.HalfEdges[h1].Edge = id
	t.HalfEdges[h2].Edge = id
	return id
}

// AddFace appends a face over the given outer loop and surface.
func (t *Topology) AddFace(outer LoopID, surface int, orientation Orientation) FaceID {
	t.Faces = append(t.Faces, Face{
		OuterLoop:   outer,
		Surface:     surface,
		Orientation: orientation,
		Shell:       Nil,
		Alive:       true,
	})
	return FaceID(len(t.Faces) - 1)
}

// AddInnerLoop attaches a hole loop to a face.
func (t *Topology) AddInnerLoop(f FaceID, l LoopID) {
	t.Faces[f].InnerLoops = append(t.Faces[f].InnerLoops, l)
}

// AddShell appends a shell over the given faces and points the faces
// back at it.
func (t *Topology) AddShell(faces []FaceID, typ ShellType) ShellID {
	t.Shells = append(t.Shells, Shell{Faces: faces, Type: typ})
	id := ShellID(len(t.Shells) - 1)
	for _, f := range faces {
		t.Faces[f].Shell = id
	}
	return id
}

// AddSolid appends a solid with the given outer shell.
func (t *Topology) AddSolid(outer ShellID) SolidID {
	t.Solids = append(t.Solids, Solid{OuterShell: outer, InnerShells: nil})
	return SolidID(len(t.Solids) - 1)
}

// RemoveFace marks a face dead and detaches it from its shell. Its
// loops and half-edges are left for repair to reclaim.
func (t *Topology) RemoveFace(f FaceID) {
	face := &t.Faces[f]
	if !face.Alive {
		return
	}
	face.Alive = false
	if face.Shell != Nil {
		shell := &t.Shells[face.Shell]
		for i, sf := range shell.Faces {
			if sf == f {
				shell.Faces = append(shell.Faces[:i], shell.Faces[i+1:]...)
				break
			}
		}
		face.Shell = Nil
	}
}

// RemoveVertex marks a vertex dead. Callers must have re-pointed every
// half-edge first.
func (t *Topology) RemoveVertex(v VertexID) {
	t.Vertices[v].Alive = false
}

// RemoveEdge marks an edge dead without touching its half-edges.
func (t *Topology) RemoveEdge(e EdgeID) {
	t.Edges[e].Alive = false
}

// Dest returns the destination vertex of a half-edge: the origin of its
// successor in the loop.
func (t *Topology) Dest(he HalfEdgeID) VertexID {
	next := t.HalfEdges[he].Next
	if next == Nil {
		return Nil
	}
	return t.HalfEdges[next].Origin
}

// LoopHalfEdges returns the cycle of l in order, starting at the
// anchor. Returns nil for a dead loop or one whose anchor was unlinked.
func (t *Topology) LoopHalfEdges(l LoopID) []HalfEdgeID {
	lp := t.Loops[l]
	if !lp.Alive || lp.HalfEdge == Nil {
		return nil
	}
	var out []HalfEdgeID
	he := lp.HalfEdge
	for {
		out = append(out, he)
		he = t.HalfEdges[he].Next
		if he == Nil || he == lp.HalfEdge {
			break
		}
		// Cycle guard: a loop can never exceed the pool size.
		if len(out) > len(t.HalfEdges) {
			return nil
		}
	}
	return out
}

// LoopPoints returns the origin positions around a loop.
func (t *Topology) LoopPoints(l LoopID) []vmath.Point {
	hes := t.LoopHalfEdges(l)
	pts := make([]vmath.Point, len(hes))
	for i, he := range hes {
		pts[i] = t.Vertices[t.HalfEdges[he].Origin].Point
	}
	return pts
}

// LiveFaces returns the handles of all live faces.
func (t *Topology) LiveFaces() []FaceID {
	var out []FaceID
	for i := range t.Faces {
		if t.Faces[i].Alive {
			out = append(out, FaceID(i))
		}
	}
	return out
}

// LiveVertices returns the handles of all live vertices.
func (t *Topology) LiveVertices() []VertexID {
	var out []VertexID
	for i := range t.Vertices {
		if t.Vertices[i].Alive {
			out = append(out, VertexID(i))
		}
	}
	return out
}

// FaceLoops returns the outer loop followed by the inner loops of f.
func (t *Topology) FaceLoops(f FaceID) []LoopID {
	face := t.Faces[f]
	out := make([]LoopID, 0, 1+len(face.InnerLoops))
	out = append(out, face.OuterLoop)
	out = append(out, face.InnerLoops...)
	return out
}

// Bounds returns the AABB of all live vertices.
func (t *Topology) Bounds() vmath.AABB {
	box := vmath.EmptyAABB()
	for i := range t.Vertices {
		if t.Vertices[i].Alive {
			box = box.AddPoint(t.Vertices[i].Point)
		}
	}
	return box
}

// Clone returns a deep copy of the topology.
func (t *Topology) Clone() *Topology {
	out := &Topology{
		Vertices:  append([]Vertex(nil), t.Vertices...),
		HalfEdges: append([]HalfEdge(nil), t.HalfEdges...),
		Edges:     append([]Edge(nil), t.Edges...),
		Loops:     append([]Loop(nil), t.Loops...),
		Faces:     make([]Face, len(t.Faces)),
		Shells:    make([]Shell, len(t.Shells)),
		Solids:    make([]Solid, len(t.Solids)),
	}
	for i, f := range t.Faces {
		f.InnerLoops = append([]LoopID(nil), f.InnerLoops...)
		out.Faces[i] = f
	}
	for i, s := range t.Shells {
		s.Faces = append([]FaceID(nil), s.Faces...)
		out.Shells[i] = s
	}
	for i, s := range t.Solids {
		s.InnerShells = append([]ShellID(nil), s.InnerShells...)
		out.Solids[i] = s
	}
	return out
}
