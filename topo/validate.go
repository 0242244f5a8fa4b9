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
	"errors"
	"fmt"
)

// Validation sentinel errors.
var (
	// ErrBrokenLoop is returned when walking next around a loop does
	// not return to the anchor, or prev disagrees with next.
	ErrBrokenLoop = errors.New("topo: broken loop cycle")
	// ErrTwinAsymmetry is returned when twin(twin(h)) != h or the twins
	// disagree on their edge.
	ErrTwinAsymmetry = errors.New("topo: twin asymmetry")
	// ErrEdgeEndpoints is returned when an edge's half-edges do not run
	// between the same pair of vertices in opposite directions.
	ErrEdgeEndpoints = errors.New("topo: edge endpoint mismatch")
	// ErrShortLoop is returned for a one-half-edge loop whose half-edge
	// has a twin; such loops are reserved for closed curves.
	ErrShortLoop = errors.New("topo: loop too short")
	// ErrFaceNoLoop is returned for a live face without an outer loop.
	ErrFaceNoLoop = errors.New("topo: face has no outer loop")
	// ErrNonManifold is returned when a shell edge is not shared by
	// exactly two of the shell's faces.
	ErrNonManifold = errors.New("topo: non-manifold shell")
)

// Validate checks the structural invariants that must hold after every
// public operation: loop closure, twin symmetry, edge endpoints, and
// face/loop well-formedness. It does not check manifoldness; see
// CheckManifold.
func (t *Topology) Validate() error {
	// Twin symmetry and shared edge handles.
	for i := range t.HalfEdges {
		he := HalfEdgeID(i)
		twin := t.HalfEdges[he].Twin
		if twin == Nil {
			continue
		}
		if t.HalfEdges[twin].Twin != he {
			return fmt.Errorf("%w: half-edge %d", ErrTwinAsymmetry, he)
		}
		if t.HalfEdges[twin].Edge != t.HalfEdges[he].Edge || t.HalfEdges[he].Edge == Nil {
			return fmt.Errorf("%w: half-edge %d edge handle", ErrTwinAsymmetry, he)
		}
	}

	// Edges group loop-attached halves running between opposite
	// endpoints.
	for i := range t.Edges {
		if !t.Edges[i].Alive {
			continue
		}
		h1, h2 := t.Edges[i].Half[0], t.Edges[i].Half[1]
		if t.HalfEdges[h1].Loop == Nil || t.HalfEdges[h2].Loop == Nil {
			return fmt.Errorf("%w: edge %d has a detached half", ErrEdgeEndpoints, i)
		}
		// Single-half-edge loops represent closed curves; their twin
		// pairing carries no endpoint constraint.
		if t.HalfEdges[h1].Next == h1 || t.HalfEdges[h2].Next == h2 {
			continue
		}
		if t.HalfEdges[h1].Origin != t.Dest(h2) || t.HalfEdges[h2].Origin != t.Dest(h1) {
			return fmt.Errorf("%w: edge %d", ErrEdgeEndpoints, i)
		}
	}

	// Loop cycles close in both directions.
	for i := range t.Loops {
		if !t.Loops[i].Alive {
			continue
		}
		l := LoopID(i)
		hes := t.LoopHalfEdges(l)
		if hes == nil {
			return fmt.Errorf("%w: loop %d", ErrBrokenLoop, i)
		}
		for _, he := range hes {
			next := t.HalfEdges[he].Next
			if next == Nil || t.HalfEdges[next].Prev != he {
				return fmt.Errorf("%w: loop %d at half-edge %d", ErrBrokenLoop, i, he)
			}
			if t.HalfEdges[he].Loop != l {
				return fmt.Errorf("%w: loop %d half-edge %d owned elsewhere", ErrBrokenLoop, i, he)
			}
		}
	}

	// Faces have outer loops of sufficient length.
	for i := range t.Faces {
		if !t.Faces[i].Alive {
			continue
		}
		f := FaceID(i)
		if t.Faces[i].OuterLoop == Nil {
			return fmt.Errorf("%w: face %d", ErrFaceNoLoop, i)
		}
		for _, l := range t.FaceLoops(f) {
			n := len(t.LoopHalfEdges(l))
			if n == 0 {
				return fmt.Errorf("%w: face %d loop %d", ErrFaceNoLoop, i, l)
			}
			// One-half-edge loops are reserved for closed curves.
			if n == 1 && t.HalfEdges[t.Loops[l].HalfEdge].Twin != Nil {
				return fmt.Errorf("%w: face %d single-edge loop %d with twin", ErrShortLoop, i, l)
			}
		}
	}

	return nil
}

// CheckManifold verifies that within the shell every boundary of every
// face is shared with exactly one other face: each polygonal edge has
// exactly two adjacent half-edges, and each closed-curve boundary is
// used by exactly two loops. Seam loops of surfaces closed in both
// directions (Curve == Nil) bound nothing and are exempt.
func (t *Topology) CheckManifold(shell ShellID) error {
	edgeUses := map[EdgeID]int{}
	curveUses := map[int]int{}

	for _, f := range t.Shells[shell].Faces {
		if !t.Faces[f].Alive {
			continue
		}
		for _, l := range t.FaceLoops(f) {
			if t.IsCurveLoop(l) {
				if c := t.Loops[l].Curve; c != Nil {
					curveUses[c]++
				}
				continue
			}
			for _, he := range t.LoopHalfEdges(l) {
				e := t.HalfEdges[he].Edge
				if e == Nil {
					return fmt.Errorf("%w: face %d has unpaired half-edge %d", ErrNonManifold, f, he)
				}
				edgeUses[e]++
			}
		}
	}

	for e, n := range edgeUses {
		if n != 2 {
			return fmt.Errorf("%w: edge %d used %d times", ErrNonManifold, e, n)
		}
	}
	for c, n := range curveUses {
		if n != 2 {
			return fmt.Errorf("%w: boundary curve %d used %d times", ErrNonManifold, c, n)
		}
	}
	return nil
}
