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
	"github.com/JJZ993/vcad-sub001/topo"
	"github.com/JJZ993/vcad-sub001/vmath"
)

// RepairTopology heals the sewn topology in place. The steps run in a
// fixed order that must not be rearranged:
//
//  1. collapse zero-length half-edges
//  2. remove A-B-A spikes in loops
//  3. collapse again (spike removal can create new degeneracies)
//  4. pair half-edges into edges, by vertex identity and then by
//     quantized position
//
// Every step is idempotent and preserves the topology invariants.
func RepairTopology(t *topo.Topology, tolerance float64) {
	collapseDegenerateHalfEdges(t, tolerance)
	cleanupLoopSpikes(t, tolerance)
	collapseDegenerateHalfEdges(t, tolerance)
	pairHalfEdges(t, tolerance)
}

// collapseDegenerateHalfEdges unlinks loop half-edges whose endpoints
// coincide. Half-edges forming single-edge loops (closed curves) or
// carrying a twin are left alone.
func collapseDegenerateHalfEdges(t *topo.Topology, tolerance float64) {
	for i := range t.HalfEdges {
		he := topo.HalfEdgeID(i)
		h := t.HalfEdges[he]
		if h.Loop == topo.Nil || h.Next == topo.Nil {
			continue
		}
		if h.Next == he {
			continue
		}
		if h.Twin != topo.Nil {
			continue
		}
		origin := t.Vertices[h.Origin].Point
		dest := t.Vertices[t.HalfEdges[h.Next].Origin].Point
		if pointsClose(origin, dest, tolerance) {
			unlinkHalfEdge(t, he)
		}
	}
}

// cleanupLoopSpikes retargets away A-B-A spikes: three consecutive
// half-edges whose outer positions coincide while the middle half-edge
// has no twin.
func cleanupLoopSpikes(t *topo.Topology, tolerance float64) {
	for li := range t.Loops {
		if !t.Loops[li].Alive {
			continue
		}
		l := topo.LoopID(li)
		for changed := true; changed; {
			changed = false
			hes := t.LoopHalfEdges(l)
			if len(hes) < 3 {
				break
			}
			n := len(hes)
			for i := 0; i < n; i++ {
				hePrev := hes[(i+n-1)%n]
				heMid := hes[i]
				heNext := hes[(i+1)%n]
				if t.HalfEdges[heMid].Twin != topo.Nil {
					continue
				}
				pPrev := t.Vertices[t.HalfEdges[hePrev].Origin].Point
				pNext := t.Vertices[t.HalfEdges[heNext].Origin].Point
				if pointsClose(pPrev, pNext, tolerance) {
					t.HalfEdges[heNext].Origin = t.HalfEdges[hePrev].Origin
					unlinkHalfEdge(t, heMid)
					changed = true
					break
				}
			}
		}
	}
}

// pairHalfEdges pairs unpaired loop half-edges into edges: first by
// exact vertex identity, then by quantized endpoint position at twice
// the tolerance to catch logically identical vertices that drifted
// apart during copying.
func pairHalfEdges(t *topo.Topology, tolerance float64) {
	// Pass 1: vertex identity. Single-half-edge loops are closed-curve
	// boundaries and stay twinless by convention.
	idCandidates := map[[2]topo.VertexID]topo.HalfEdgeID{}
	for i := range t.HalfEdges {
		he := topo.HalfEdgeID(i)
		h := t.HalfEdges[he]
		if h.Twin != topo.Nil || h.Loop == topo.Nil || h.Next == topo.Nil || h.Next == he {
			continue
		}
		origin := h.Origin
		dest := t.HalfEdges[h.Next].Origin

		if opp, ok := idCandidates[[2]topo.VertexID{dest, origin}]; ok {
			if t.HalfEdges[opp].Twin == topo.Nil {
				t.AddEdge(he, opp)
				delete(idCandidates, [2]topo.VertexID{dest, origin})
				continue
			}
		}
		idCandidates[[2]topo.VertexID{origin, dest}] = he
	}

	// Pass 2: quantized position, coarser by 2x.
	type posEdgeKey struct{ a, b sewKey }
	quantum := 2 * tolerance
	if quantum <= 0 {
		quantum = 1e-6
	}
	posCandidates := map[posEdgeKey]topo.HalfEdgeID{}
	for i := range t.HalfEdges {
		he := topo.HalfEdgeID(i)
		h := t.HalfEdges[he]
		if h.Twin != topo.Nil || h.Loop == topo.Nil || h.Next == topo.Nil || h.Next == he {
			continue
		}
		okey := sewKeyOf(t.Vertices[h.Origin].Point, quantum)
		dkey := sewKeyOf(t.Vertices[t.HalfEdges[h.Next].Origin].Point, quantum)

		if opp, found := posCandidates[posEdgeKey{dkey, okey}]; found {
			if t.HalfEdges[opp].Twin == topo.Nil {
				t.AddEdge(he, opp)
				delete(posCandidates, posEdgeKey{dkey, okey})
				continue
			}
		}
		posCandidates[posEdgeKey{okey, dkey}] = he
	}
}

// unlinkHalfEdge detaches he from its loop, repairing the prev/next
// chain, the loop anchor, and the origin's half-edge hint, and breaks
// its twin pairing.
func unlinkHalfEdge(t *topo.Topology, he topo.HalfEdgeID) {
	h := t.HalfEdges[he]
	if h.Loop == topo.Nil || h.Prev == topo.Nil || h.Next == topo.Nil {
		return
	}
	if h.Prev == he || h.Next == he {
		return
	}

	t.HalfEdges[h.Prev].Next = h.Next
	t.HalfEdges[h.Next].Prev = h.Prev
	if t.Loops[h.Loop].HalfEdge == he {
		t.Loops[h.Loop].HalfEdge = h.Next
	}
	if t.Vertices[h.Origin].HalfEdge == he {
		t.Vertices[h.Origin].HalfEdge = h.Next
	}

	if h.Twin != topo.Nil {
		t.HalfEdges[h.Twin].Twin = topo.Nil
		t.HalfEdges[h.Twin].Edge = topo.Nil
	}
	if h.Edge != topo.Nil {
		t.RemoveEdge(h.Edge)
	}

	t.HalfEdges[he] = topo.HalfEdge{
		Origin: h.Origin,
		Twin:   topo.Nil,
		Edge:   topo.Nil,
		Next:   topo.Nil,
		Prev:   topo.Nil,
		Loop:   topo.Nil,
	}
}

func pointsClose(a, b vmath.Point, tolerance float64) bool {
	return a.Sub(b.Vector).Norm2() <= tolerance*tolerance
}

// repairTolerance guards against a zero policy.
func repairTolerance(tol vmath.Tolerance) float64 {
	if tol.Linear <= 0 {
		return 1e-6
	}
	return tol.Linear
}
