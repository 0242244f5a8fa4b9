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
	"fmt"
	"sync"

	"github.com/golang/geo/s1"

	"github.com/JJZ993/vcad-sub001/booleans"
	"github.com/JJZ993/vcad-sub001/brep"
	"github.com/JJZ993/vcad-sub001/mesh"
	"github.com/JJZ993/vcad-sub001/step"
	"github.com/JJZ993/vcad-sub001/vmath"
)

// NodeResult is the lowering of one node: a B-rep solid on the main
// path, a triangle mesh after a boolean fallback.
type NodeResult struct {
	Solid *brep.Solid
	Mesh  *mesh.TriangleMesh
}

// IsMesh reports whether the node lowered to mesh level.
func (r NodeResult) IsMesh() bool { return r.Mesh != nil }

// ToMesh tessellates a solid result or returns the mesh directly.
func (r NodeResult) ToMesh(segments int) *mesh.TriangleMesh {
	if r.Mesh != nil {
		return r.Mesh
	}
	return brep.Tessellate(r.Solid, segments)
}

// RootResult is the per-root outcome of a document evaluation. A
// failed root never aborts its siblings.
type RootResult struct {
	Root     NodeID
	Material string
	Mesh     *mesh.TriangleMesh
	Err      error
}

// parallelThreshold is the minimum subtree node count on both sides of
// a combinator before its children evaluate on separate goroutines.
const parallelThreshold = 8

// Evaluator lowers document nodes bottom-up with memoization by node
// id. The document is read-only for the evaluator's lifetime. Sibling
// subtrees of large combinators evaluate in parallel; each node's
// result is computed once and shared.
type Evaluator struct {
	doc      *Document
	segments int
	importer step.Importer

	mu    sync.Mutex
	nodes map[NodeID]*nodeEval
	sizes map[NodeID]int
}

// nodeEval is the per-node memo slot; done closes when the result is
// ready.
type nodeEval struct {
	done chan struct{}
	res  NodeResult
	err  error
}

// NewEvaluator prepares an evaluator. importer may be nil when the
// document contains no StepImport nodes. segments sizes primitive
// tessellation (0 = auto).
func NewEvaluator(doc *Document, segments int, importer step.Importer) *Evaluator {
	return &Evaluator{
		doc:      doc,
		segments: segments,
		importer: importer,
		nodes:    map[NodeID]*nodeEval{},
		sizes:    map[NodeID]int{},
	}
}

// Evaluate lowers the node with the given id.
func (e *Evaluator) Evaluate(id NodeID) (NodeResult, error) {
	return e.eval(id, map[NodeID]bool{})
}

// eval runs one node through Unevaluated -> InProgress -> done. path
// carries the ids in the current recursion chain: re-entering one
// means the document violated its DAG invariant.
func (e *Evaluator) eval(id NodeID, path map[NodeID]bool) (NodeResult, error) {
	if path[id] {
		return NodeResult{}, fmt.Errorf("%w: node %d revisited while in progress", ErrCycle, id)
	}

	e.mu.Lock()
	if ne, ok := e.nodes[id]; ok {
		e.mu.Unlock()
		<-ne.done
		return ne.res, ne.err
	}
	ne := &nodeEval{done: make(chan struct{})}
	e.nodes[id] = ne
	e.mu.Unlock()

	path[id] = true
	ne.res, ne.err = e.evalOp(id, path)
	delete(path, id)
	close(ne.done)
	return ne.res, ne.err
}

func (e *Evaluator) evalOp(id NodeID, path map[NodeID]bool) (NodeResult, error) {
	node, ok := e.doc.Nodes[id]
	if !ok {
		return NodeResult{}, fmt.Errorf("%w: %d", ErrMissingNode, id)
	}
	op := node.Op

	fail := func(err error) (NodeResult, error) {
		return NodeResult{}, fmt.Errorf("node %d (%s): %w", id, op.Type, err)
	}

	switch op.Type {
	case OpEmpty:
		return NodeResult{Solid: brep.Empty()}, nil

	case OpCube:
		s, err := brep.Cube(op.Size.X, op.Size.Y, op.Size.Z)
		if err != nil {
			return fail(err)
		}
		return NodeResult{Solid: s}, nil

	case OpCylinder:
		s, err := brep.Cylinder(op.Radius, op.Height, e.resolveSegments(op.Segments))
		if err != nil {
			return fail(err)
		}
		return NodeResult{Solid: s}, nil

	case OpSphere:
		s, err := brep.Sphere(op.Radius, e.resolveSegments(op.Segments))
		if err != nil {
			return fail(err)
		}
		return NodeResult{Solid: s}, nil

	case OpCone:
		s, err := brep.Cone(op.RadiusBottom, op.RadiusTop, op.Height, e.resolveSegments(op.Segments))
		if err != nil {
			return fail(err)
		}
		return NodeResult{Solid: s}, nil

	case OpUnion, OpDifference, OpIntersection:
		left, right, err := e.evalPair(op.Left, op.Right, path)
		if err != nil {
			return fail(err)
		}
		return e.combine(op.Type, left, right), nil

	case OpTranslate:
		child, err := e.eval(op.Child, path)
		if err != nil {
			return NodeResult{}, err
		}
		return transformResult(child, vmath.Translation(op.Offset.Vector())), nil

	case OpRotate:
		child, err := e.eval(op.Child, path)
		if err != nil {
			return NodeResult{}, err
		}
		return transformResult(child, rotationXYZ(op.Angles)), nil

	case OpScale:
		if op.Factor.X == 0 || op.Factor.Y == 0 || op.Factor.Z == 0 {
			// A collapsed axis produces a zero-volume solid; surface it
			// rather than emit degenerate topology.
			return fail(brep.ErrDegenerateGeometry)
		}
		child, err := e.eval(op.Child, path)
		if err != nil {
			return NodeResult{}, err
		}
		return transformResult(child, vmath.Scaling(op.Factor.X, op.Factor.Y, op.Factor.Z)), nil

	case OpStepImport:
		if e.importer == nil {
			return fail(step.ErrNoImporter)
		}
		solids, err := e.importer.Import(op.Path)
		if err != nil {
			return fail(err)
		}
		if len(solids) == 0 {
			return NodeResult{Solid: brep.Empty()}, nil
		}
		// Multiple imported bodies merge into one result.
		acc := solids[0]
		for _, s := range solids[1:] {
			r := booleans.BooleanOp(acc, s, booleans.Union, e.segments)
			if r.IsMesh() {
				return NodeResult{Mesh: r.Mesh}, nil
			}
			acc = r.Solid
		}
		return NodeResult{Solid: acc}, nil
	}

	return fail(ErrUnknownOp)
}

// evalPair evaluates both children of a combinator, on separate
// goroutines when both subtrees are large enough to pay for one.
func (e *Evaluator) evalPair(left, right NodeID, path map[NodeID]bool) (NodeResult, NodeResult, error) {
	if e.subtreeSize(left) >= parallelThreshold && e.subtreeSize(right) >= parallelThreshold {
		// The sibling goroutine gets its own path copy; memo slots keep
		// shared nodes single-evaluation.
		leftPath := map[NodeID]bool{}
		for id := range path {
			leftPath[id] = true
		}
		var (
			lr  NodeResult
			lerr error
			wg  sync.WaitGroup
		)
		wg.Add(1)
		go func() {
			defer wg.Done()
			lr, lerr = e.eval(left, leftPath)
		}()
		rr, rerr := e.eval(right, path)
		wg.Wait()
		if lerr != nil {
			return NodeResult{}, NodeResult{}, lerr
		}
		if rerr != nil {
			return NodeResult{}, NodeResult{}, rerr
		}
		return lr, rr, nil
	}

	lr, err := e.eval(left, path)
	if err != nil {
		return NodeResult{}, NodeResult{}, err
	}
	rr, err := e.eval(right, path)
	if err != nil {
		return NodeResult{}, NodeResult{}, err
	}
	return lr, rr, nil
}

// combine lowers a boolean node. Mesh operands force the mesh path;
// B-rep operands run the full pipeline, which may itself fall back.
func (e *Evaluator) combine(opType string, left, right NodeResult) NodeResult {
	var op booleans.Op
	switch opType {
	case OpUnion:
		op = booleans.Union
	case OpDifference:
		op = booleans.Difference
	default:
		op = booleans.Intersection
	}

	if left.IsMesh() || right.IsMesh() {
		var mop mesh.Op
		switch opType {
		case OpUnion:
			mop = mesh.Union
		case OpDifference:
			mop = mesh.Difference
		default:
			mop = mesh.Intersection
		}
		m := mesh.Boolean(left.ToMesh(e.segments), right.ToMesh(e.segments), mop)
		return NodeResult{Mesh: m}
	}

	res := booleans.BooleanOp(left.Solid, right.Solid, op, e.segments)
	if res.IsMesh() {
		return NodeResult{Mesh: res.Mesh}
	}
	return NodeResult{Solid: res.Solid}
}

func (e *Evaluator) resolveSegments(nodeSegments uint32) int {
	if nodeSegments > 0 {
		return int(nodeSegments)
	}
	return e.segments
}

// subtreeSize counts nodes reachable from id, memoized. Shared nodes
// count once per occurrence, which is fine for a threshold heuristic.
func (e *Evaluator) subtreeSize(id NodeID) int {
	e.mu.Lock()
	if s, ok := e.sizes[id]; ok {
		e.mu.Unlock()
		return s
	}
	e.mu.Unlock()

	size := 1
	if node, ok := e.doc.Nodes[id]; ok {
		for _, c := range node.Op.Children() {
			size += e.subtreeSize(c)
		}
	}

	e.mu.Lock()
	e.sizes[id] = size
	e.mu.Unlock()
	return size
}

// transformResult applies t to either representation.
func transformResult(r NodeResult, t vmath.Transform) NodeResult {
	if r.Mesh != nil {
		out := &mesh.TriangleMesh{
			Vertices: make([]float32, 0, len(r.Mesh.Vertices)),
			Indices:  append([]uint32(nil), r.Mesh.Indices...),
		}
		for i := 0; i < r.Mesh.NumVertices(); i++ {
			p := t.ApplyPoint(r.Mesh.Vertex(i))
			out.Vertices = append(out.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
		}
		return NodeResult{Mesh: out}
	}
	return NodeResult{Solid: r.Solid.Transformed(t)}
}

// rotationXYZ builds the Euler rotation: degrees, applied X then Y
// then Z.
func rotationXYZ(angles Vec3) vmath.Transform {
	return vmath.RotationX(s1.Angle(angles.X) * s1.Degree).
		Then(vmath.RotationY(s1.Angle(angles.Y) * s1.Degree)).
		Then(vmath.RotationZ(s1.Angle(angles.Z) * s1.Degree))
}

// EvaluateDocument lowers every scene root to a triangle mesh. Roots
// fail independently: an error on one root is reported in its
// RootResult while the others still evaluate.
func EvaluateDocument(doc *Document, segments int, importer step.Importer) ([]RootResult, error) {
	if err := doc.Check(); err != nil {
		return nil, err
	}
	e := NewEvaluator(doc, segments, importer)

	out := make([]RootResult, 0, len(doc.Roots))
	for _, entry := range doc.Roots {
		rr := RootResult{Root: entry.Root, Material: entry.Material}
		res, err := e.Evaluate(entry.Root)
		if err != nil {
			rr.Err = err
		} else {
			rr.Mesh = res.ToMesh(segments)
		}
		out = append(out, rr)
	}
	return out, nil
}
