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

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// jsonAPI is the configured codec: standard-library-compatible so the
// wire format matches other vcad implementations byte for byte.
var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrParse wraps malformed .vcad input.
var ErrParse = errors.New("ir: parse error")

// ToJSON serializes the document as pretty-printed UTF-8 JSON, the
// .vcad interchange form.
func (d *Document) ToJSON() (string, error) {
	b, err := jsonAPI.Marshal(d)
	if err != nil {
		return "", err
	}
	// Indent the whole text so the ops' own MarshalJSON output is
	// pretty-printed too.
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return "", err
	}
	return out.String(), nil
}

// FromJSON parses a .vcad document. Unknown top-level keys are
// ignored for forward compatibility; unknown operation tags are not.
func FromJSON(data string) (*Document, error) {
	var d Document
	if err := jsonAPI.UnmarshalFromString(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if d.Nodes == nil {
		d.Nodes = map[NodeID]Node{}
	}
	if d.Materials == nil {
		d.Materials = map[string]MaterialDef{}
	}
	if d.PartMaterials == nil {
		d.PartMaterials = map[string]string{}
	}
	return &d, nil
}

// The per-variant wire structs keep the emitted schema exact: only the
// fields of the tagged variant appear.
type (
	wireEmpty struct {
		Type string `json:"type"`
	}
	wireCube struct {
		Type string `json:"type"`
		Size Vec3   `json:"size"`
	}
	wireCylinder struct {
		Type     string  `json:"type"`
		Radius   float64 `json:"radius"`
		Height   float64 `json:"height"`
		Segments uint32  `json:"segments"`
	}
	wireSphere struct {
		Type     string  `json:"type"`
		Radius   float64 `json:"radius"`
		Segments uint32  `json:"segments"`
	}
	wireCone struct {
		Type         string  `json:"type"`
		RadiusBottom float64 `json:"radius_bottom"`
		RadiusTop    float64 `json:"radius_top"`
		Height       float64 `json:"height"`
		Segments     uint32  `json:"segments"`
	}
	wireBinary struct {
		Type  string `json:"type"`
		Left  NodeID `json:"left"`
		Right NodeID `json:"right"`
	}
	wireTranslate struct {
		Type   string `json:"type"`
		Child  NodeID `json:"child"`
		Offset Vec3   `json:"offset"`
	}
	wireRotate struct {
		Type   string `json:"type"`
		Child  NodeID `json:"child"`
		Angles Vec3   `json:"angles"`
	}
	wireScale struct {
		Type   string `json:"type"`
		Child  NodeID `json:"child"`
		Factor Vec3   `json:"factor"`
	}
	wireStep struct {
		Type string `json:"type"`
		Path string `json:"path"`
	}
)

// MarshalJSON emits exactly the fields of the tagged variant.
func (op CsgOp) MarshalJSON() ([]byte, error) {
	switch op.Type {
	case OpEmpty:
		return jsonAPI.Marshal(wireEmpty{Type: op.Type})
	case OpCube:
		return jsonAPI.Marshal(wireCube{Type: op.Type, Size: op.Size})
	case OpCylinder:
		return jsonAPI.Marshal(wireCylinder{Type: op.Type, Radius: op.Radius, Height: op.Height, Segments: op.Segments})
	case OpSphere:
		return jsonAPI.Marshal(wireSphere{Type: op.Type, Radius: op.Radius, Segments: op.Segments})
	case OpCone:
		return jsonAPI.Marshal(wireCone{
			Type: op.Type, RadiusBottom: op.RadiusBottom, RadiusTop: op.RadiusTop,
			Height: op.Height, Segments: op.Segments,
		})
	case OpUnion, OpDifference, OpIntersection:
		return jsonAPI.Marshal(wireBinary{Type: op.Type, Left: op.Left, Right: op.Right})
	case OpTranslate:
		return jsonAPI.Marshal(wireTranslate{Type: op.Type, Child: op.Child, Offset: op.Offset})
	case OpRotate:
		return jsonAPI.Marshal(wireRotate{Type: op.Type, Child: op.Child, Angles: op.Angles})
	case OpScale:
		return jsonAPI.Marshal(wireScale{Type: op.Type, Child: op.Child, Factor: op.Factor})
	case OpStepImport:
		return jsonAPI.Marshal(wireStep{Type: op.Type, Path: op.Path})
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOp, op.Type)
}

// csgOpWire is the union of every variant's fields, for reading.
type csgOpWire struct {
	Type         string  `json:"type"`
	Size         Vec3    `json:"size"`
	Radius       float64 `json:"radius"`
	RadiusBottom float64 `json:"radius_bottom"`
	RadiusTop    float64 `json:"radius_top"`
	Height       float64 `json:"height"`
	Segments     uint32  `json:"segments"`
	Left         NodeID  `json:"left"`
	Right        NodeID  `json:"right"`
	Child        NodeID  `json:"child"`
	Offset       Vec3    `json:"offset"`
	Angles       Vec3    `json:"angles"`
	Factor       Vec3    `json:"factor"`
	Path         string  `json:"path"`
}

// UnmarshalJSON reads any variant, rejecting unknown tags.
func (op *CsgOp) UnmarshalJSON(data []byte) error {
	var w csgOpWire
	if err := jsonAPI.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Type {
	case OpEmpty, OpCube, OpCylinder, OpSphere, OpCone,
		OpUnion, OpDifference, OpIntersection,
		OpTranslate, OpRotate, OpScale, OpStepImport:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, w.Type)
	}
	*op = CsgOp{
		Type:         w.Type,
		Size:         w.Size,
		Radius:       w.Radius,
		RadiusBottom: w.RadiusBottom,
		RadiusTop:    w.RadiusTop,
		Height:       w.Height,
		Segments:     w.Segments,
		Left:         w.Left,
		Right:        w.Right,
		Child:        w.Child,
		Offset:       w.Offset,
		Angles:       w.Angles,
		Factor:       w.Factor,
		Path:         w.Path,
	}
	return nil
}
