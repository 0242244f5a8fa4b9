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

// Package booleans implements the B-rep boolean pipeline of the vcad
// kernel: AABB gating, surface-surface intersection, face splitting,
// face classification, sewing, topology repair, and the deterministic
// mesh-level fallback.
package booleans

import "errors"

// Pipeline failure sentinels. Any of these raised inside the B-rep
// path restarts the whole operation at mesh level exactly once.
var (
	// ErrSSIFailure is returned when surface-surface intersection does
	// not converge or a face loop cannot be reduced to the planar
	// splitting problem.
	ErrSSIFailure = errors.New("booleans: surface intersection failed")
	// ErrClassificationAmbiguity is returned when two probe points of
	// one face classify differently against the other solid.
	ErrClassificationAmbiguity = errors.New("booleans: ambiguous face classification")
	// ErrNonManifoldResult is returned when the sewn and repaired
	// result has an edge with other than two adjacent faces.
	ErrNonManifoldResult = errors.New("booleans: non-manifold result")
)
