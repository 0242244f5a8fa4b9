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

package topo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JJZ993/vcad-sub001/vmath"
)

// buildTriangle links three vertices into one triangular face and
// returns the loop's half-edges.
func buildTriangle(t *Topology, pts [3]vmath.Point) (FaceID, []HalfEdgeID) {
	var hes []HalfEdgeID
	for _, p := range pts {
		v := t.AddVertex(p)
		hes = append(hes, t.AddHalfEdge(v))
	}
	l := t.AddLoop(hes)
	f := t.AddFace(l, 0, Forward)
	return f, hes
}

func TestLoopWalk(t *testing.T) {
	topo := New()
	_, hes := buildTriangle(topo, [3]vmath.Point{
		vmath.PointFromCoords(0, 0, 0),
		vmath.PointFromCoords(1, 0, 0),
		vmath.PointFromCoords(0, 1, 0),
	})

	got := topo.LoopHalfEdges(topo.HalfEdges[hes[0]].Loop)
	require.Equal(t, hes, got, "walking next from the anchor visits the cycle in order")

	// Walking prev from the anchor returns to the anchor.
	he := hes[0]
	for range hes {
		he = topo.HalfEdges[he].Prev
	}
	require.Equal(t, hes[0], he)

	require.NoError(t, topo.Validate())
}

func TestDest(t *testing.T) {
	topo := New()
	_, hes := buildTriangle(topo, [3]vmath.Point{
		vmath.PointFromCoords(0, 0, 0),
		vmath.PointFromCoords(1, 0, 0),
		vmath.PointFromCoords(0, 1, 0),
	})
	require.Equal(t, topo.HalfEdges[hes[1]].Origin, topo.Dest(hes[0]))
	require.Equal(t, topo.HalfEdges[hes[0]].Origin, topo.Dest(hes[2]))
}

func TestTwinSymmetry(t *testing.T) {
	topo := New()
	// Two triangles sharing the edge (0,0,0)-(1,0,0).
	f1, hes1 := buildTriangle(topo, [3]vmath.Point{
		vmath.PointFromCoords(0, 0, 0),
		vmath.PointFromCoords(1, 0, 0),
		vmath.PointFromCoords(0, 1, 0),
	})
	// The second triangle reuses the two vertices of that edge.
	hes2 := []HalfEdgeID{
		topo.AddHalfEdge(topo.HalfEdges[hes1[1]].Origin),
		topo.AddHalfEdge(topo.HalfEdges[hes1[0]].Origin),
		topo.AddHalfEdge(topo.AddVertex(vmath.PointFromCoords(0, -1, 0))),
	}
	f2 := topo.AddFace(topo.AddLoop(hes2), 0, Forward)
	_ = f1
	_ = f2

	e := topo.AddEdge(hes1[0], hes2[0])
	require.Equal(t, hes1[0], topo.HalfEdges[topo.HalfEdges[hes1[0]].Twin].Twin,
		"twin(twin(h)) = h")
	require.Equal(t, e, topo.HalfEdges[hes1[0]].Edge)
	require.Equal(t, e, topo.HalfEdges[hes2[0]].Edge)

	require.NoError(t, topo.Validate())
}

func TestValidateCatchesBrokenLoop(t *testing.T) {
	topo := New()
	_, hes := buildTriangle(topo, [3]vmath.Point{
		vmath.PointFromCoords(0, 0, 0),
		vmath.PointFromCoords(1, 0, 0),
		vmath.PointFromCoords(0, 1, 0),
	})
	// Corrupt the cycle.
	topo.HalfEdges[hes[1]].Prev = hes[1]
	require.ErrorIs(t, topo.Validate(), ErrBrokenLoop)
}

func TestRemoveFaceDetachesFromShell(t *testing.T) {
	topo := New()
	f1, _ := buildTriangle(topo, [3]vmath.Point{
		vmath.PointFromCoords(0, 0, 0),
		vmath.PointFromCoords(1, 0, 0),
		vmath.PointFromCoords(0, 1, 0),
	})
	f2, _ := buildTriangle(topo, [3]vmath.Point{
		vmath.PointFromCoords(0, 0, 1),
		vmath.PointFromCoords(1, 0, 1),
		vmath.PointFromCoords(0, 1, 1),
	})
	shell := topo.AddShell([]FaceID{f1, f2}, OuterShell)
	topo.RemoveFace(f1)

	require.False(t, topo.Faces[f1].Alive)
	require.Equal(t, []FaceID{f2}, topo.Shells[shell].Faces)
	require.Equal(t, []FaceID{f2}, topo.LiveFaces())
}

func TestBoundsSkipsDeadVertices(t *testing.T) {
	topo := New()
	topo.AddVertex(vmath.PointFromCoords(0, 0, 0))
	far := topo.AddVertex(vmath.PointFromCoords(1000, 0, 0))
	topo.AddVertex(vmath.PointFromCoords(10, 5, 2))
	topo.RemoveVertex(far)

	b := topo.Bounds()
	require.InDelta(t, 10, b.Max.X, 1e-12)
}

func TestCloneIsDeep(t *testing.T) {
	topo := New()
	f, _ := buildTriangle(topo, [3]vmath.Point{
		vmath.PointFromCoords(0, 0, 0),
		vmath.PointFromCoords(1, 0, 0),
		vmath.PointFromCoords(0, 1, 0),
	})
	topo.AddShell([]FaceID{f}, OuterShell)

	clone := topo.Clone()
	clone.Vertices[0].Point = vmath.PointFromCoords(9, 9, 9)
	clone.Shells[0].Faces[0] = Nil

	require.Equal(t, 0.0, topo.Vertices[0].Point.X, "clone mutation must not leak")
	require.Equal(t, f, topo.Shells[0].Faces[0])
}

func TestCurveLoops(t *testing.T) {
	topo := New()
	v := topo.AddVertex(vmath.PointFromCoords(3, 0, 0))

	// Two faces sharing one closed boundary curve (a disk against a
	// wall rim): manifold.
	l1 := topo.AddCurveLoop(topo.AddHalfEdge(v), 0)
	l2 := topo.AddCurveLoop(topo.AddHalfEdge(v), 0)
	require.True(t, topo.IsCurveLoop(l1))
	require.Equal(t, 0, topo.Loops[l1].Curve)

	f1 := topo.AddFace(l1, 0, Forward)
	f2 := topo.AddFace(l2, 1, Forward)
	shell := topo.AddShell([]FaceID{f1, f2}, OuterShell)
	topo.AddSolid(shell)

	require.NoError(t, topo.Validate())
	require.NoError(t, topo.CheckManifold(shell))

	// Dropping one face leaves the boundary curve used once.
	topo.RemoveFace(f2)
	require.ErrorIs(t, topo.CheckManifold(shell), ErrNonManifold)
}

func TestSeamLoopExemptFromManifold(t *testing.T) {
	// A closed surface's seam loop (no curve) bounds nothing and a
	// single such face is a valid shell.
	topo := New()
	v := topo.AddVertex(vmath.PointFromCoords(0, 0, -1))
	seam := topo.AddCurveLoop(topo.AddHalfEdge(v), Nil)
	f := topo.AddFace(seam, 0, Forward)
	shell := topo.AddShell([]FaceID{f}, OuterShell)
	topo.AddSolid(shell)

	require.True(t, topo.IsCurveLoop(seam))
	require.NoError(t, topo.Validate())
	require.NoError(t, topo.CheckManifold(shell))
}

func TestCheckManifoldClosedTetrahedron(t *testing.T) {
	topo := New()
	p := []vmath.Point{
		vmath.PointFromCoords(0, 0, 0),
		vmath.PointFromCoords(1, 0, 0),
		vmath.PointFromCoords(0, 1, 0),
		vmath.PointFromCoords(0, 0, 1),
	}
	verts := make([]VertexID, 4)
	for i, pt := range p {
		verts[i] = topo.AddVertex(pt)
	}

	// Outward-wound faces of a tetrahedron.
	faceVerts := [][3]VertexID{
		{verts[0], verts[2], verts[1]},
		{verts[0], verts[1], verts[3]},
		{verts[1], verts[2], verts[3]},
		{verts[2], verts[0], verts[3]},
	}
	type heKey struct{ a, b VertexID }
	firstUse := map[heKey]HalfEdgeID{}
	var faces []FaceID
	for i, fv := range faceVerts {
		var hes []HalfEdgeID
		for _, v := range fv {
			hes = append(hes, topo.AddHalfEdge(v))
		}
		l := topo.AddLoop(hes)
		faces = append(faces, topo.AddFace(l, i, Forward))
		for j, he := range hes {
			a, b := fv[j], fv[(j+1)%3]
			if opp, ok := firstUse[heKey{b, a}]; ok {
				topo.AddEdge(opp, he)
			} else {
				firstUse[heKey{a, b}] = he
			}
		}
	}
	shell := topo.AddShell(faces, OuterShell)
	topo.AddSolid(shell)

	require.NoError(t, topo.Validate())
	require.NoError(t, topo.CheckManifold(shell))

	// Dropping one face breaks manifoldness.
	topo.RemoveFace(faces[3])
	require.ErrorIs(t, topo.CheckManifold(shell), ErrNonManifold)
}
