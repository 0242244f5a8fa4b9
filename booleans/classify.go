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
	"fmt"

	"github.com/JJZ993/vcad-sub001/brep"
	"github.com/JJZ993/vcad-sub001/mesh"
	"github.com/JJZ993/vcad-sub001/topo"
	"github.com/JJZ993/vcad-sub001/vmath"
)

// FaceClass is the relation of one face to the other solid.
type FaceClass int

// The four face classes.
const (
	ClassInside FaceClass = iota
	ClassOutside
	ClassOnSame
	ClassOnOpposite
)

func (c FaceClass) String() string {
	switch c {
	case ClassInside:
		return "Inside"
	case ClassOutside:
		return "Outside"
	case ClassOnSame:
		return "OnSame"
	}
	return "OnOpposite"
}

// classifyFace determines the relation of face f of s against the
// other solid, given the other solid's tessellation. Two independent
// probe points must agree; disagreement raises
// ErrClassificationAmbiguity, which sends the whole operation to the
// mesh fallback.
func classifyFace(s *brep.Solid, f topo.FaceID, other *mesh.TriangleMesh) (FaceClass, error) {
	probes := faceProbes(s, f)
	if len(probes) == 0 {
		return ClassOutside, fmt.Errorf("%w: face %d has no interior probe", ErrSSIFailure, f)
	}

	first, err := classifyProbe(s, f, probes[0], other)
	if err != nil {
		return first, err
	}
	for _, p := range probes[1:] {
		c, err := classifyProbe(s, f, p, other)
		if err != nil {
			return c, err
		}
		// Any disagreement, including an on-boundary probe beside an
		// interior one, is ambiguous.
		if c != first {
			return first, fmt.Errorf("%w: face %d probes %v vs %v",
				ErrClassificationAmbiguity, f, first, c)
		}
	}
	return first, nil
}

func classifyProbe(s *brep.Solid, f topo.FaceID, probe vmath.Point, other *mesh.TriangleMesh) (FaceClass, error) {
	inside, boundary := other.Classify(probe)
	if boundary {
		n, ok := other.BoundaryNormal(probe)
		if !ok {
			return ClassInside, fmt.Errorf("%w: face %d boundary probe without normal",
				ErrClassificationAmbiguity, f)
		}
		if brep.FaceOutwardNormal(s, f).Dot(n) >= 0 {
			return ClassOnSame, nil
		}
		return ClassOnOpposite, nil
	}
	if inside {
		return ClassInside, nil
	}
	return ClassOutside, nil
}

// classifySegments is the tessellation resolution backing the
// classification probes and meshes.
const classifySegments = 32

// faceProbes returns up to two interior points of f, the centroids of
// its two largest triangles. Triangulation respects hole loops, so the
// probes lie strictly inside the trimmed face.
func faceProbes(s *brep.Solid, f topo.FaceID) []vmath.Point {
	tris := brep.FaceTriangles(s, f, classifySegments)
	if len(tris) == 0 {
		return nil
	}

	best, second := -1, -1
	bestA, secondA := -1.0, -1.0
	for i, t := range tris {
		a := t[1].Sub(t[0].Vector).Cross(t[2].Sub(t[0].Vector)).Norm()
		if a > bestA {
			second, secondA = best, bestA
			best, bestA = i, a
		} else if a > secondA {
			second, secondA = i, a
		}
	}

	out := []vmath.Point{triangleCentroid(tris[best])}
	if second >= 0 && secondA > 1e-12 {
		out = append(out, triangleCentroid(tris[second]))
	}
	return out
}

func triangleCentroid(t [3]vmath.Point) vmath.Point {
	return vmath.Point{Vector: t[0].Add(t[1].Vector).Add(t[2].Vector).Mul(1.0 / 3.0)}
}
