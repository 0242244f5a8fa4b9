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

package ir

import "sync/atomic"

// nodeCounter allocates process-unique node ids for builders. It is
// written only while building documents and never consulted during
// evaluation.
var nodeCounter atomic.Uint64

func nextNodeID() NodeID {
	return NodeID(nodeCounter.Add(1))
}

// Builder accumulates nodes into a document with fresh ids.
type Builder struct {
	doc *Document
}

// NewBuilder starts a builder over a new document preloaded with the
// default material library.
func NewBuilder() *Builder {
	d := NewDocument()
	d.Materials = DefaultMaterials()
	return &Builder{doc: d}
}

// Document returns the built document.
func (b *Builder) Document() *Document { return b.doc }

func (b *Builder) add(name string, op CsgOp) NodeID {
	id := nextNodeID()
	var namePtr *string
	if name != "" {
		namePtr = &name
	}
	b.doc.Nodes[id] = Node{ID: id, Name: namePtr, Op: op}
	return id
}

// Empty adds an empty-geometry node.
func (b *Builder) Empty(name string) NodeID {
	return b.add(name, CsgOp{Type: OpEmpty})
}

// Cube adds an axis-aligned box centered at the origin.
func (b *Builder) Cube(name string, size Vec3) NodeID {
	return b.add(name, CsgOp{Type: OpCube, Size: size})
}

// Cylinder adds a Z-axis cylinder centered at the origin.
func (b *Builder) Cylinder(name string, radius, height float64, segments uint32) NodeID {
	return b.add(name, CsgOp{Type: OpCylinder, Radius: radius, Height: height, Segments: segments})
}

// Sphere adds a sphere centered at the origin.
func (b *Builder) Sphere(name string, radius float64, segments uint32) NodeID {
	return b.add(name, CsgOp{Type: OpSphere, Radius: radius, Segments: segments})
}

// Cone adds a Z-axis cone or frustum centered at the origin.
func (b *Builder) Cone(name string, radiusBottom, radiusTop, height float64, segments uint32) NodeID {
	return b.add(name, CsgOp{
		Type: OpCone, RadiusBottom: radiusBottom, RadiusTop: radiusTop,
		Height: height, Segments: segments,
	})
}

// Union adds a boolean union node.
func (b *Builder) Union(name string, left, right NodeID) NodeID {
	return b.add(name, CsgOp{Type: OpUnion, Left: left, Right: right})
}

// Difference adds a boolean difference node (left minus right).
func (b *Builder) Difference(name string, left, right NodeID) NodeID {
	return b.add(name, CsgOp{Type: OpDifference, Left: left, Right: right})
}

// Intersection adds a boolean intersection node.
func (b *Builder) Intersection(name string, left, right NodeID) NodeID {
	return b.add(name, CsgOp{Type: OpIntersection, Left: left, Right: right})
}

// Translate adds a translation of child by offset.
func (b *Builder) Translate(child NodeID, offset Vec3) NodeID {
	return b.add("", CsgOp{Type: OpTranslate, Child: child, Offset: offset})
}

// Rotate adds a rotation of child by Euler angles in degrees, applied
// X then Y then Z.
func (b *Builder) Rotate(child NodeID, angles Vec3) NodeID {
	return b.add("", CsgOp{Type: OpRotate, Child: child, Angles: angles})
}

// Scale adds a non-uniform scale of child.
func (b *Builder) Scale(child NodeID, factor Vec3) NodeID {
	return b.add("", CsgOp{Type: OpScale, Child: child, Factor: factor})
}

// StepImport adds an opaque STEP-import node, resolved by the
// registered collaborator at evaluation time.
func (b *Builder) StepImport(name, path string) NodeID {
	return b.add(name, CsgOp{Type: OpStepImport, Path: path})
}

// Root registers a node as a scene root with a material.
func (b *Builder) Root(node NodeID, material string) {
	b.doc.Roots = append(b.doc.Roots, SceneEntry{Root: node, Material: material})
}
