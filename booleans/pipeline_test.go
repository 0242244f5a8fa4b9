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
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JJZ993/vcad-sub001/brep"
	"github.com/JJZ993/vcad-sub001/geom"
	"github.com/JJZ993/vcad-sub001/topo"
	"github.com/JJZ993/vcad-sub001/vmath"
)

func mustCube(t *testing.T, x, y, z float64) *brep.Solid {
	t.Helper()
	s, err := brep.Cube(x, y, z)
	require.NoError(t, err)
	return s
}

func mustCylinder(t *testing.T, r, h float64, segments int) *brep.Solid {
	t.Helper()
	s, err := brep.Cylinder(r, h, segments)
	require.NoError(t, err)
	return s
}

func resultVolume(r Result) float64 {
	return r.ToMesh(0).Volume()
}

func TestDisjointBoxesUnion(t *testing.T) {
	a := mustCube(t, 10, 10, 10)
	b := mustCube(t, 10, 10, 10).Transformed(vmath.Translation(vecXYZ(100, 0, 0)))

	res := BooleanOp(a, b, Union, 0)
	require.False(t, res.IsMesh(), "AABB gate keeps the B-rep form")
	require.Len(t, res.Solid.Topology.LiveFaces(), 12)
	require.InDelta(t, 2000, resultVolume(res), 1e-6)
	require.NoError(t, res.Solid.Validate())
}

func TestDisjointDifferenceReturnsA(t *testing.T) {
	a := mustCube(t, 10, 10, 10)
	b := mustCube(t, 4, 4, 4).Transformed(vmath.Translation(vecXYZ(50, 0, 0)))

	res := BooleanOp(a, b, Difference, 0)
	require.False(t, res.IsMesh())
	require.InDelta(t, 1000, resultVolume(res), 1e-6)
}

func TestDisjointIntersectionEmpty(t *testing.T) {
	a := mustCube(t, 10, 10, 10)
	b := mustCube(t, 10, 10, 10).Transformed(vmath.Translation(vecXYZ(100, 0, 0)))

	res := BooleanOp(a, b, Intersection, 0)
	require.False(t, res.IsMesh())
	require.True(t, res.Solid.IsEmpty())
}

func TestDifferenceIdentity(t *testing.T) {
	a := mustCube(t, 10, 10, 10)

	// A minus Empty = A.
	res := BooleanOp(a, brep.Empty(), Difference, 0)
	require.False(t, res.IsMesh())
	require.InDelta(t, 1000, resultVolume(res), 1e-6)

	// A minus A is empty.
	res = BooleanOp(a, a.Clone(), Difference, 0)
	require.False(t, res.IsMesh())
	require.True(t, res.Solid.IsEmpty(), "self-difference leaves no faces")
	require.InDelta(t, 0, resultVolume(res), 1e-9)
	require.True(t, res.ToMesh(0).IsEmpty())
}

func TestIntersectionIdempotence(t *testing.T) {
	a := mustCube(t, 10, 10, 10)
	res := BooleanOp(a, a.Clone(), Intersection, 0)
	require.False(t, res.IsMesh())
	require.Len(t, res.Solid.Topology.LiveFaces(), 6)
	require.InDelta(t, 1000, resultVolume(res), 1e-6)
	require.NoError(t, res.Solid.Validate())
}

func TestUnionCommutes(t *testing.T) {
	a := mustCube(t, 10, 10, 10)
	b := mustCube(t, 10, 10, 10).Transformed(vmath.Translation(vecXYZ(5, 0, 0)))

	ab := BooleanOp(a, b, Union, 0)
	ba := BooleanOp(b, a, Union, 0)
	require.False(t, ab.IsMesh())
	require.False(t, ba.IsMesh())
	require.InDelta(t, resultVolume(ab), resultVolume(ba), 1e-9,
		"union volume is symmetric")
	require.Equal(t, len(ab.Solid.Topology.LiveFaces()), len(ba.Solid.Topology.LiveFaces()),
		"union topology matches up to relabelling")
}

func TestInclusionExclusion(t *testing.T) {
	a := mustCube(t, 10, 10, 10)
	b := mustCube(t, 10, 10, 10).Transformed(vmath.Translation(vecXYZ(5, 0, 0)))

	union := resultVolume(BooleanOp(a, b, Union, 0))
	inter := resultVolume(BooleanOp(a, b, Intersection, 0))
	volA := brep.Volume(a)
	volB := brep.Volume(b)

	require.InDelta(t, volA+volB, union+inter, 0.001*(volA+volB),
		"vol(A)+vol(B) = vol(A|B)+vol(A&B)")
	require.InDelta(t, 1500, union, 1.5)
	require.InDelta(t, 500, inter, 0.5)
}

func TestCoplanarFaceUnion(t *testing.T) {
	// Two unit cubes sharing a full face: the shared wall vanishes.
	a := mustCube(t, 1, 1, 1)
	b := mustCube(t, 1, 1, 1).Transformed(vmath.Translation(vecXYZ(1, 0, 0)))

	res := BooleanOp(a, b, Union, 0)
	require.False(t, res.IsMesh())
	require.Len(t, res.Solid.Topology.LiveFaces(), 10)
	require.InDelta(t, 2, resultVolume(res), 1e-9)
	require.NoError(t, res.Solid.Validate())
}

func TestBoxWithHole(t *testing.T) {
	// Cube(20,10,5) minus a centered r=3 cylinder bored through: the
	// six outer box faces (the top and bottom ones annular around the
	// bore) plus one cylindrical face for the bore.
	a := mustCube(t, 20, 10, 5)
	b := mustCylinder(t, 3, 10, 32)

	res := BooleanOp(a, b, Difference, 0)
	require.False(t, res.IsMesh(), "box-with-hole stays on the B-rep path")
	require.NoError(t, res.Solid.Validate())

	faces := res.Solid.Topology.LiveFaces()
	require.Len(t, faces, 7)

	cylindrical, annular, plain := 0, 0, 0
	for _, f := range faces {
		face := res.Solid.Topology.Faces[f]
		switch res.Solid.Geometry.Surface(face.Surface).Kind() {
		case geom.KindCylinder:
			cylindrical++
			require.Equal(t, topo.Reversed, face.Orientation, "bore wall faces inward")
		case geom.KindPlane:
			if len(face.InnerLoops) == 1 {
				annular++
			} else {
				plain++
			}
		}
	}
	require.Equal(t, 1, cylindrical, "one cylindrical face for the bore")
	require.Equal(t, 2, annular, "two annular top/bottom faces around the bore")
	require.Equal(t, 4, plain, "remaining outer box faces untouched")

	want := 20.0*10*5 - math.Pi*9*5
	got := resultVolume(res)
	require.InDelta(t, want, got, 0.01*want, "volume = 1000 - pi*9*5 within 1%")
	require.Less(t, got, 1000.0, "bore removes volume")
}

func TestDifferenceHoleOrientationRegression(t *testing.T) {
	// Cube(30) minus a centered r=5 cylinder that extends beyond the
	// cube (h=40): the effective bore length caps at 30. A double flip
	// of the hole walls (flag and winding) would point them outward and
	// ADD the bore volume instead, pushing the result above 27000.
	a := mustCube(t, 30, 30, 30)
	b := mustCylinder(t, 5, 40, 32)

	res := BooleanOp(a, b, Difference, 0)
	got := resultVolume(res)

	want := 27000 - math.Pi*25*30
	require.InDelta(t, want, got, 0.005*want, "volume within 0.5%")
	require.Less(t, got, 27000.0, "hole walls must subtract, not add")
}

func TestRotatedCylinderThroughBox(t *testing.T) {
	// Cube(30) minus an r=4 cylinder tilted 45 degrees about X then 30
	// about Z. The bore length through the box is height/cos(45) along
	// the axis; the check is deliberately loose because the oblique
	// exit ellipses clip the box edges.
	a := mustCube(t, 30, 30, 30)
	b := mustCylinder(t, 4, 50, 32).
		Transformed(vmath.RotationX(math.Pi / 4).Then(vmath.RotationZ(math.Pi / 6)))

	res := BooleanOp(a, b, Difference, 0)
	got := resultVolume(res)

	require.Less(t, got, 27000.0, "bore removes volume")
	require.Greater(t, got, 27000.0-3000, "bore cannot remove more than the tube")
}

func TestUnionThroughCube(t *testing.T) {
	// Cylinder poking out of both cube faces: union keeps the two
	// protruding wall bands and both caps next to the annular box
	// faces.
	a := mustCube(t, 20, 10, 5)
	b := mustCylinder(t, 3, 10, 32)

	res := BooleanOp(a, b, Union, 0)
	require.False(t, res.IsMesh())
	require.NoError(t, res.Solid.Validate())
	require.Len(t, res.Solid.Topology.LiveFaces(), 10,
		"4 sides + 2 annular + 2 protruding bands + 2 caps")

	want := 20.0*10*5 + math.Pi*9*(10-5)
	got := resultVolume(res)
	require.InDelta(t, want, got, 0.01*want, "union adds the protruding bore volume")
}

func TestIntersectionThroughCube(t *testing.T) {
	// Cube and through-cylinder intersect in the bore segment: the
	// middle wall band capped by the two carve disks.
	a := mustCube(t, 20, 10, 5)
	b := mustCylinder(t, 3, 10, 32)

	res := BooleanOp(a, b, Intersection, 0)
	require.False(t, res.IsMesh())
	require.NoError(t, res.Solid.Validate())
	require.Len(t, res.Solid.Topology.LiveFaces(), 3)

	want := math.Pi * 9 * 5
	require.InDelta(t, want, resultVolume(res), 0.01*want)
}

func TestSphereSlabDifference(t *testing.T) {
	// Sphere minus a slab cutting its top cap: the sphere face splits
	// at an axis-perpendicular circle into latitude bands, and the
	// slab's lower face contributes the flat lid.
	a, err := brep.Sphere(10, 32)
	require.NoError(t, err)
	b := mustCube(t, 40, 40, 10).Transformed(vmath.Translation(vecXYZ(0, 0, 10)))

	res := BooleanOp(a, b, Difference, 0)
	require.False(t, res.IsMesh(), "axis-aligned sphere cut stays on the B-rep path")
	require.NoError(t, res.Solid.Validate())
	require.Len(t, res.Solid.Topology.LiveFaces(), 2, "spherical band plus the lid disk")

	capVolume := math.Pi * 25 * (3*10 - 5) / 3
	want := 4.0/3.0*math.Pi*1000 - capVolume
	require.InDelta(t, want, resultVolume(res), 0.02*want)
}

func TestSquarePegThroughPlate(t *testing.T) {
	// A polyhedral peg through a plate: the crossing segments chain
	// into a closed polygonal ring, carving a square hole.
	a := mustCube(t, 20, 20, 4)
	b := mustCube(t, 4, 4, 10)

	res := BooleanOp(a, b, Difference, 0)
	require.False(t, res.IsMesh())
	require.NoError(t, res.Solid.Validate())

	// 4 plate sides + 2 annular faces + 4 hole walls.
	require.Len(t, res.Solid.Topology.LiveFaces(), 10)

	want := 20.0*20*4 - 4.0*4*4
	require.InDelta(t, want, resultVolume(res), 1e-6)
}

func TestTorusBooleanFallsBack(t *testing.T) {
	// Torus sections have no band representation; the pipeline must
	// restart at mesh level deterministically.
	a := mustCube(t, 30, 30, 4)
	tor, err := brep.Torus(10, 2, 32)
	require.NoError(t, err)

	res := BooleanOp(a, tor, Difference, 0)
	require.True(t, res.IsMesh(), "torus boolean takes the mesh fallback")
	require.NotNil(t, res.Mesh)
	require.Less(t, res.Mesh.Volume(), 30.0*30*4)
}

func TestBSplinePatchBooleanFallsBack(t *testing.T) {
	// A free-form patch solid sends the pipeline through marching SSI
	// and out to the mesh fallback.
	control := make([][]vmath.Point, 4)
	for i := range control {
		control[i] = make([]vmath.Point, 4)
		for j := range control[i] {
			control[i][j] = vmath.PointFromCoords(float64(i-2)*4, float64(j-2)*4, 0)
		}
	}
	patch, err := brep.SolidFromFaces([]brep.FaceSpec{{Surface: geom.UniformBSpline(control, 2, 2)}})
	require.NoError(t, err)

	a := mustCube(t, 10, 10, 10)
	res := BooleanOp(a, patch, Union, 0)
	require.True(t, res.IsMesh(), "B-spline faces route to the mesh fallback")
}

func TestFallbackIsMeshResult(t *testing.T) {
	// A solid with a non-planar polygonal face loop cannot take the
	// planar path and must come back as a mesh, not an error.
	a := mustCube(t, 10, 10, 10)

	// A solid whose faces are non-planar loops: build a cube and bend
	// one vertex out of plane.
	b := mustCube(t, 10, 10, 10).Transformed(vmath.Translation(vecXYZ(5, 0, 0)))
	bendTopFace(b)

	res := BooleanOp(a, b, Union, 0)
	require.True(t, res.IsMesh(), "non-planar loops route to the mesh fallback")
	require.NotNil(t, res.Mesh)
}

// bendTopFace displaces one vertex so a face loop leaves its plane.
func bendTopFace(s *brep.Solid) {
	top := -1
	var best float64
	for i := range s.Topology.Vertices {
		if s.Topology.Vertices[i].Alive && s.Topology.Vertices[i].Point.Z >= best {
			best = s.Topology.Vertices[i].Point.Z
			top = i
		}
	}
	if top >= 0 {
		s.Topology.Vertices[top].Point = s.Topology.Vertices[top].Point.Translated(vecXYZ(0, 0, 2))
	}
}
