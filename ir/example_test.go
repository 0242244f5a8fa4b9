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
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMountingPlateEndToEnd models a realistic part: a mounting plate
// with a bolt pattern of four corner holes, built through the builder,
// round-tripped through .vcad JSON, and evaluated to a mesh.
func TestMountingPlateEndToEnd(t *testing.T) {
	const (
		plateX, plateY, plateZ = 60.0, 40.0, 5.0
		holeR                  = 2.0
		inset                  = 6.0
	)

	b := NewBuilder()
	plate := b.Cube("plate", V3(plateX, plateY, plateZ))

	// The bolt pattern unions first (all disjoint), then drills in a
	// single difference.
	var pattern NodeID
	for i, at := range [][2]float64{
		{plateX/2 - inset, plateY/2 - inset},
		{-(plateX/2 - inset), plateY/2 - inset},
		{plateX/2 - inset, -(plateY/2 - inset)},
		{-(plateX/2 - inset), -(plateY/2 - inset)},
	} {
		hole := b.Cylinder("hole", holeR, plateZ*2, 32)
		moved := b.Translate(hole, V3(at[0], at[1], 0))
		if i == 0 {
			pattern = moved
		} else {
			pattern = b.Union("", pattern, moved)
		}
	}
	drilled := b.Difference("drilled_plate", plate, pattern)
	b.Root(drilled, "aluminum")
	doc := b.Document()

	// The document survives the interchange format.
	text, err := doc.ToJSON()
	require.NoError(t, err)
	restored, err := FromJSON(text)
	require.NoError(t, err)
	require.Equal(t, doc, restored)

	// And evaluates to a drilled plate.
	results, err := EvaluateDocument(restored, 0, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	want := plateX*plateY*plateZ - 4*math.Pi*holeR*holeR*plateZ
	require.InDelta(t, want, results[0].Mesh.Volume(), 0.01*want)
}
