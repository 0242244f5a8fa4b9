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

// Package ir defines the declarative CSG document of the vcad
// ecosystem — a DAG of primitive, transform and boolean nodes — its
// .vcad JSON form, and the evaluator that lowers a document to B-rep
// solids or triangle meshes.
package ir

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r3"
)

// NodeID identifies a node in the document graph. IDs must stay below
// 2^53 so ecosystems without 64-bit integers can read them as JSON
// numbers.
type NodeID uint64

// MaxNodeID is the largest interoperable node id.
const MaxNodeID NodeID = 1<<53 - 1

// Vec3 is the wire form of a 3D vector, conventionally millimetres.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// V3 builds a Vec3.
func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// Vector converts to the kernel vector type.
func (v Vec3) Vector() r3.Vector { return r3.Vector{X: v.X, Y: v.Y, Z: v.Z} }

// The operation tags of the CsgOp union. The tag strings are the wire
// format and never change.
const (
	OpEmpty        = "Empty"
	OpCube         = "Cube"
	OpCylinder     = "Cylinder"
	OpSphere       = "Sphere"
	OpCone         = "Cone"
	OpUnion        = "Union"
	OpDifference   = "Difference"
	OpIntersection = "Intersection"
	OpTranslate    = "Translate"
	OpRotate       = "Rotate"
	OpScale        = "Scale"
	OpStepImport   = "StepImport"
)

// CsgOp is the tagged operation union. Type selects the variant; only
// the fields of that variant are meaningful (and serialized).
type CsgOp struct {
	Type string

	// Leaf primitives.
	Size         Vec3    // Cube
	Radius       float64 // Cylinder, Sphere
	RadiusBottom float64 // Cone
	RadiusTop    float64 // Cone
	Height       float64 // Cylinder, Cone
	Segments     uint32  // circular resolution, 0 = auto

	// Combinators.
	Left  NodeID
	Right NodeID

	// Transforms.
	Child  NodeID
	Offset Vec3 // Translate
	Angles Vec3 // Rotate, degrees, applied X then Y then Z
	Factor Vec3 // Scale

	// StepImport.
	Path string
}

// Children returns the node ids this operation references.
func (op CsgOp) Children() []NodeID {
	switch op.Type {
	case OpUnion, OpDifference, OpIntersection:
		return []NodeID{op.Left, op.Right}
	case OpTranslate, OpRotate, OpScale:
		return []NodeID{op.Child}
	}
	return nil
}

// Node is one entry of the document graph.
type Node struct {
	ID   NodeID  `json:"id"`
	Name *string `json:"name"`
	Op   CsgOp   `json:"op"`
}

// MaterialDef is a PBR material with optional physics parameters.
type MaterialDef struct {
	Name      string     `json:"name"`
	Color     [3]float64 `json:"color"`
	Metallic  float64    `json:"metallic"`
	Roughness float64    `json:"roughness"`
	Density   *float64   `json:"density"`
	Friction  *float64   `json:"friction"`
}

// SceneEntry assigns a material to one root of the scene.
type SceneEntry struct {
	Root     NodeID `json:"root"`
	Material string `json:"material"`
}

// Document is the .vcad document: the node graph, the material
// library, per-part material assignments, and the scene roots.
//
// The transitive node reference graph must be acyclic; Check verifies
// that together with referential integrity.
type Document struct {
	Version       string                 `json:"version"`
	Nodes         map[NodeID]Node        `json:"nodes"`
	Materials     map[string]MaterialDef `json:"materials"`
	PartMaterials map[string]string      `json:"part_materials"`
	Roots         []SceneEntry           `json:"roots"`
}

// FormatVersion is the current document format version.
const FormatVersion = "0.1"

// NewDocument returns an empty document of the current version.
func NewDocument() *Document {
	return &Document{
		Version:       FormatVersion,
		Nodes:         map[NodeID]Node{},
		Materials:     map[string]MaterialDef{},
		PartMaterials: map[string]string{},
		Roots:         nil,
	}
}

// Document graph sentinel errors.
var (
	// ErrMissingNode is returned when an operation references an id
	// absent from the node map.
	ErrMissingNode = errors.New("ir: missing node")
	// ErrCycle is returned when the reference graph is not a DAG.
	ErrCycle = errors.New("ir: node cycle")
	// ErrUnknownOp is returned for an unrecognized operation tag.
	ErrUnknownOp = errors.New("ir: unknown op")
	// ErrMissingMaterial is returned when a scene entry names an
	// undefined material.
	ErrMissingMaterial = errors.New("ir: missing material")
)

// Check validates referential integrity and acyclicity of the graph.
func (d *Document) Check() error {
	for id, n := range d.Nodes {
		if n.ID != id {
			return fmt.Errorf("%w: node keyed %d carries id %d", ErrMissingNode, id, n.ID)
		}
		for _, c := range n.Op.Children() {
			if _, ok := d.Nodes[c]; !ok {
				return fmt.Errorf("%w: node %d references %d", ErrMissingNode, id, c)
			}
		}
	}
	for _, r := range d.Roots {
		if _, ok := d.Nodes[r.Root]; !ok {
			return fmt.Errorf("%w: root %d", ErrMissingNode, r.Root)
		}
		if _, ok := d.Materials[r.Material]; !ok {
			return fmt.Errorf("%w: %q", ErrMissingMaterial, r.Material)
		}
	}

	// Acyclicity by coloring.
	const (
		white = iota
		gray
		black
	)
	color := map[NodeID]int{}
	var visit func(NodeID) error
	visit = func(id NodeID) error {
		switch color[id] {
		case gray:
			return fmt.Errorf("%w: through node %d", ErrCycle, id)
		case black:
			return nil
		}
		color[id] = gray
		for _, c := range d.Nodes[id].Op.Children() {
			if err := visit(c); err != nil {
				return err
			}
		}
		color[id] = black
		return nil
	}
	for id := range d.Nodes {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// DefaultMaterials returns the stock material library.
func DefaultMaterials() map[string]MaterialDef {
	density := func(v float64) *float64 { return &v }
	return map[string]MaterialDef{
		"aluminum": {
			Name:      "aluminum",
			Color:     [3]float64{0.91, 0.92, 0.93},
			Metallic:  1.0,
			Roughness: 0.4,
			Density:   density(2700),
			Friction:  density(0.6),
		},
		"abs_white": {
			Name:      "abs_white",
			Color:     [3]float64{0.95, 0.95, 0.92},
			Metallic:  0.0,
			Roughness: 0.7,
			Density:   density(1040),
			Friction:  density(0.5),
		},
		"steel": {
			Name:      "steel",
			Color:     [3]float64{0.75, 0.76, 0.78},
			Metallic:  1.0,
			Roughness: 0.35,
			Density:   density(7850),
			Friction:  density(0.7),
		},
	}
}
