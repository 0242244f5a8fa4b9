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
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JJZ993/vcad-sub001/brep"
	"github.com/JJZ993/vcad-sub001/step"
)

func TestEvaluatePrimitives(t *testing.T) {
	b := NewBuilder()
	cube := b.Cube("c", V3(2, 3, 4))
	sphere := b.Sphere("s", 5, 32)
	cyl := b.Cylinder("cy", 2, 6, 32)
	cone := b.Cone("co", 3, 0, 6, 32)

	e := NewEvaluator(b.Document(), 0, nil)

	for _, tc := range []struct {
		id   NodeID
		want float64
		tol  float64
	}{
		{cube, 24, 0.01},
		{sphere, 4.0 / 3.0 * math.Pi * 125, 0.02 * 4.0 / 3.0 * math.Pi * 125},
		{cyl, math.Pi * 4 * 6, 0.01 * math.Pi * 4 * 6},
		{cone, math.Pi * 9 * 6 / 3, 0.01 * math.Pi * 9 * 6 / 3},
	} {
		res, err := e.Evaluate(tc.id)
		require.NoError(t, err)
		require.False(t, res.IsMesh())
		require.InDelta(t, tc.want, res.ToMesh(0).Volume(), tc.tol)
	}
}

func TestEvaluateBoxWithHole(t *testing.T) {
	b := NewBuilder()
	box := b.Cube("box", V3(20, 10, 5))
	hole := b.Cylinder("hole", 3, 10, 32)
	diff := b.Difference("part", box, hole)

	e := NewEvaluator(b.Document(), 0, nil)
	res, err := e.Evaluate(diff)
	require.NoError(t, err)

	want := 1000 - math.Pi*9*5
	require.InDelta(t, want, res.ToMesh(0).Volume(), 0.01*want)
}

func TestEvaluateTransforms(t *testing.T) {
	b := NewBuilder()
	cube := b.Cube("c", V3(2, 2, 2))
	moved := b.Translate(cube, V3(10, 0, 0))
	rotated := b.Rotate(moved, V3(0, 0, 90))
	scaled := b.Scale(rotated, V3(2, 2, 2))

	e := NewEvaluator(b.Document(), 0, nil)
	res, err := e.Evaluate(scaled)
	require.NoError(t, err)
	require.False(t, res.IsMesh())

	// After Rz(90), the cube sits at (0, 10, 0); the scale doubles
	// positions and sizes.
	bounds := res.Solid.Bounds()
	require.InDelta(t, 20, bounds.Center().Y, 1e-9)
	require.InDelta(t, 0, bounds.Center().X, 1e-9)
	require.InDelta(t, 64, brep.Volume(res.Solid), 1e-6)
}

func TestEvaluateMemoizesSharedNodes(t *testing.T) {
	// The same cube feeds both sides of a union through different
	// transforms; the shared node must evaluate once.
	b := NewBuilder()
	cube := b.Cube("c", V3(4, 4, 4))
	left := b.Translate(cube, V3(-10, 0, 0))
	right := b.Translate(cube, V3(10, 0, 0))
	union := b.Union("u", left, right)

	e := NewEvaluator(b.Document(), 0, nil)
	res, err := e.Evaluate(union)
	require.NoError(t, err)
	require.InDelta(t, 128, res.ToMesh(0).Volume(), 1e-6)

	e.mu.Lock()
	_, cubeEvaluated := e.nodes[cube]
	slots := len(e.nodes)
	e.mu.Unlock()
	require.True(t, cubeEvaluated)
	require.Equal(t, 4, slots, "one memo slot per node")
}

func TestEvaluateDomainError(t *testing.T) {
	b := NewBuilder()
	bad := b.Cube("bad", V3(-1, 1, 1))

	e := NewEvaluator(b.Document(), 0, nil)
	_, err := e.Evaluate(bad)
	require.ErrorIs(t, err, brep.ErrDomain)
	require.Contains(t, err.Error(), "Cube", "failure names the op kind")
}

func TestEvaluateDegenerateScale(t *testing.T) {
	b := NewBuilder()
	cube := b.Cube("c", V3(2, 2, 2))
	flat := b.Scale(cube, V3(1, 0, 1))

	e := NewEvaluator(b.Document(), 0, nil)
	_, err := e.Evaluate(flat)
	require.ErrorIs(t, err, brep.ErrDegenerateGeometry)
}

func TestEvaluateCycleSurfaces(t *testing.T) {
	d := NewDocument()
	d.Nodes[1] = Node{ID: 1, Op: CsgOp{Type: OpTranslate, Child: 2, Offset: V3(1, 0, 0)}}
	d.Nodes[2] = Node{ID: 2, Op: CsgOp{Type: OpTranslate, Child: 1, Offset: V3(0, 1, 0)}}

	e := NewEvaluator(d, 0, nil)
	_, err := e.Evaluate(1)
	require.ErrorIs(t, err, ErrCycle)
}

func TestStepImportDelegation(t *testing.T) {
	b := NewBuilder()
	imp := b.StepImport("bracket", "parts/bracket.step")

	// Without a collaborator the node fails.
	e := NewEvaluator(b.Document(), 0, nil)
	_, err := e.Evaluate(imp)
	require.ErrorIs(t, err, step.ErrNoImporter)

	// With one, the imported solid passes through untouched.
	importer := step.ImporterFunc(func(path string) ([]*brep.Solid, error) {
		require.Equal(t, "parts/bracket.step", path)
		s, err := brep.Cube(3, 3, 3)
		return []*brep.Solid{s}, err
	})
	e = NewEvaluator(b.Document(), 0, importer)
	res, err := e.Evaluate(imp)
	require.NoError(t, err)
	require.InDelta(t, 27, res.ToMesh(0).Volume(), 1e-6)
}

func TestEvaluateDocumentPerRootStatus(t *testing.T) {
	b := NewBuilder()
	good := b.Cube("good", V3(5, 5, 5))
	bad := b.Sphere("bad", -2, 0)
	b.Root(good, "aluminum")
	b.Root(bad, "steel")

	results, err := EvaluateDocument(b.Document(), 0, nil)
	require.NoError(t, err, "document-level evaluation proceeds")
	require.Len(t, results, 2)

	require.NoError(t, results[0].Err)
	require.NotNil(t, results[0].Mesh)
	require.InDelta(t, 125, results[0].Mesh.Volume(), 1e-6)
	require.Equal(t, "aluminum", results[0].Material)

	require.Error(t, results[1].Err, "the failed root reports, the good one still evaluated")
	require.Nil(t, results[1].Mesh)
}

func TestEvaluateDeepStack(t *testing.T) {
	// ((((Cube | Sphere) - Cylinder) | Sphere') - Cube') evaluates and
	// yields a positive-volume solid or mesh.
	b := NewBuilder()
	cube := b.Cube("", V3(20, 20, 20))
	sphere := b.Sphere("", 12, 16)
	u1 := b.Union("", cube, sphere)
	cyl := b.Cylinder("", 4, 50, 16)
	d1 := b.Difference("", u1, cyl)
	sphere2 := b.Translate(b.Sphere("", 6, 16), V3(15, 0, 0))
	u2 := b.Union("", d1, sphere2)
	cube2 := b.Translate(b.Cube("", V3(8, 8, 8)), V3(-12, -12, 0))
	top := b.Difference("deep", u2, cube2)

	e := NewEvaluator(b.Document(), 0, nil)
	res, err := e.Evaluate(top)
	require.NoError(t, err)

	vol := res.ToMesh(0).Volume()
	require.Greater(t, vol, 0.0)
	require.Less(t, vol, 20.0*20*20+4.0/3.0*math.Pi*12*12*12+4.0/3.0*math.Pi*216)
}

func TestEvaluateParallelSiblings(t *testing.T) {
	// Two large independent subtrees under one union: exercises the
	// parallel path; the result must match the serial expectation.
	b := NewBuilder()

	buildTower := func(offset float64) NodeID {
		base := b.Cube("", V3(4, 4, 4))
		acc := base
		for i := 0; i < 6; i++ {
			next := b.Translate(b.Cube("", V3(4, 4, 4)), V3(offset+float64(100+i*10), 0, 0))
			acc = b.Union("", acc, next)
		}
		return b.Translate(acc, V3(offset, 0, 0))
	}

	left := buildTower(0)
	right := buildTower(1000)
	top := b.Union("towers", left, right)

	e := NewEvaluator(b.Document(), 0, nil)
	res, err := e.Evaluate(top)
	require.NoError(t, err)

	// 14 disjoint 4-cubes in total.
	require.InDelta(t, 14*64, res.ToMesh(0).Volume(), 1e-3)
}

func TestEvaluateUnknownOp(t *testing.T) {
	d := NewDocument()
	d.Nodes[1] = Node{ID: 1, Op: CsgOp{Type: "Gyroid"}}
	e := NewEvaluator(d, 0, nil)
	_, err := e.Evaluate(1)
	require.True(t, errors.Is(err, ErrUnknownOp))
}
