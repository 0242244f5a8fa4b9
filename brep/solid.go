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

// Package brep defines the boundary-representation solid — a half-edge
// topology over a geometry store — together with the primitive
// constructors, affine transforms and tessellation of the vcad kernel.
package brep

import (
	"errors"

	"github.com/JJZ993/vcad-sub001/geom"
	"github.com/JJZ993/vcad-sub001/topo"
	"github.com/JJZ993/vcad-sub001/vmath"
)

// Construction sentinel errors.
var (
	// ErrDomain is returned for invalid primitive dimensions.
	ErrDomain = errors.New("brep: invalid dimension")
	// ErrDegenerateGeometry is returned when a constructor or transform
	// would produce a zero-volume or self-intersecting solid.
	ErrDegenerateGeometry = errors.New("brep: degenerate geometry")
)

// Solid is a B-rep solid: one topology, one geometry store, and the
// handle of the solid entry within the topology. Both the topology and
// the store are exclusively owned by the solid.
type Solid struct {
	Topology *topo.Topology
	Geometry *geom.Store
	ID       topo.SolidID
}

// IsEmpty reports whether the solid has no live faces.
func (s *Solid) IsEmpty() bool {
	return s == nil || len(s.Topology.LiveFaces()) == 0
}

// Bounds returns the AABB over the solid's vertices.
func (s *Solid) Bounds() vmath.AABB {
	return s.Topology.Bounds()
}

// OuterShell returns the solid's outer shell handle.
func (s *Solid) OuterShell() topo.ShellID {
	return s.Topology.Solids[s.ID].OuterShell
}

// Clone returns a deep copy sharing nothing with s. The geometry store
// is immutable and re-shared entries would be safe, but booleans key
// surfaces by store index per solid, so the store is copied too.
func (s *Solid) Clone() *Solid {
	st := geom.NewStore()
	for i := 0; i < s.Geometry.NumSurfaces(); i++ {
		st.AddSurface(s.Geometry.Surface(i))
	}
	for i := 0; i < s.Geometry.NumCurves(); i++ {
		st.AddCurve(s.Geometry.Curve(i))
	}
	return &Solid{Topology: s.Topology.Clone(), Geometry: st, ID: s.ID}
}

// Transformed returns a copy of the solid carried through t: vertex
// positions are mapped directly and surface parameters are rebuilt
// under the transform.
func (s *Solid) Transformed(t vmath.Transform) *Solid {
	out := s.Clone()
	for i := range out.Topology.Vertices {
		if out.Topology.Vertices[i].Alive {
			out.Topology.Vertices[i].Point = t.ApplyPoint(out.Topology.Vertices[i].Point)
		}
	}
	out.Geometry = s.Geometry.Transformed(t)
	return out
}

// Validate checks the topology invariants and shell manifoldness.
func (s *Solid) Validate() error {
	if err := s.Topology.Validate(); err != nil {
		return err
	}
	return s.Topology.CheckManifold(s.OuterShell())
}
