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

// Package mesh defines the triangle mesh that every non-core
// collaborator consumes, plus the mesh-level geometry queries the
// boolean pipeline falls back to.
package mesh

import (
	"github.com/JJZ993/vcad-sub001/vmath"
)

// TriangleMesh is the lingua franca for collaborators: flat arrays of
// vertex coordinates (3 float32 per vertex) and triangle indices, plus
// optional per-vertex normals.
type TriangleMesh struct {
	Vertices []float32
	Indices  []uint32
	Normals  []float32
}

// NumTriangles returns the triangle count.
func (m *TriangleMesh) NumTriangles() int {
	return len(m.Indices) / 3
}

// NumVertices returns the vertex count.
func (m *TriangleMesh) NumVertices() int {
	return len(m.Vertices) / 3
}

// IsEmpty reports whether the mesh has no triangles.
func (m *TriangleMesh) IsEmpty() bool {
	return len(m.Indices) == 0
}

// Vertex returns vertex i as a point in f64 model space.
func (m *TriangleMesh) Vertex(i int) vmath.Point {
	return vmath.PointFromCoords(
		float64(m.Vertices[3*i]),
		float64(m.Vertices[3*i+1]),
		float64(m.Vertices[3*i+2]),
	)
}

// Triangle returns the three corners of triangle i.
func (m *TriangleMesh) Triangle(i int) [3]vmath.Point {
	return [3]vmath.Point{
		m.Vertex(int(m.Indices[3*i])),
		m.Vertex(int(m.Indices[3*i+1])),
		m.Vertex(int(m.Indices[3*i+2])),
	}
}

// AddVertex appends a vertex and returns its index.
func (m *TriangleMesh) AddVertex(p vmath.Point) uint32 {
	m.Vertices = append(m.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
	return uint32(m.NumVertices() - 1)
}

// AddTriangle appends one triangle by vertex indices.
func (m *TriangleMesh) AddTriangle(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

// AppendTriangle appends a triangle by corner positions, adding
// vertices without deduplication.
func (m *TriangleMesh) AppendTriangle(a, b, c vmath.Point) {
	i := m.AddVertex(a)
	j := m.AddVertex(b)
	k := m.AddVertex(c)
	m.AddTriangle(i, j, k)
}

// AppendFlipped appends a triangle with reversed winding.
func (m *TriangleMesh) AppendFlipped(a, b, c vmath.Point) {
	m.AppendTriangle(a, c, b)
}

// Bounds returns the AABB of the mesh vertices.
func (m *TriangleMesh) Bounds() vmath.AABB {
	box := vmath.EmptyAABB()
	for i := 0; i < m.NumVertices(); i++ {
		box = box.AddPoint(m.Vertex(i))
	}
	return box
}

// Volume returns the signed volume enclosed by the mesh, the sum of
// signed tetrahedra against the origin. Positive for outward-wound
// closed meshes.
func (m *TriangleMesh) Volume() float64 {
	total := 0.0
	for i := 0; i < m.NumTriangles(); i++ {
		t := m.Triangle(i)
		total += t[0].Dot(t[1].Cross(t[2].Vector)) / 6
	}
	return total
}

// Centroid returns the area-weighted centroid of triangle i.
func (m *TriangleMesh) Centroid(i int) vmath.Point {
	t := m.Triangle(i)
	return vmath.Point{Vector: t[0].Add(t[1].Vector).Add(t[2].Vector).Mul(1.0 / 3.0)}
}
