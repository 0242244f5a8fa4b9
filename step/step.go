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

// Package step declares the contract between the kernel and the STEP
// interchange collaborator. The kernel never reads files itself: a
// StepImport node hands its path to a registered Importer and receives
// pre-built B-rep solids, which the evaluator treats as opaque
// primitives.
package step

import (
	"errors"

	"github.com/JJZ993/vcad-sub001/brep"
)

// ErrNoImporter is returned when a document uses StepImport but no
// collaborator is registered with the evaluator.
var ErrNoImporter = errors.New("step: no importer registered")

// Importer resolves a STEP file into one or more B-rep solids. The
// path string is opaque to the kernel.
type Importer interface {
	Import(path string) ([]*brep.Solid, error)
}

// ImporterFunc adapts a function to the Importer interface.
type ImporterFunc func(path string) ([]*brep.Solid, error)

// Import calls f.
func (f ImporterFunc) Import(path string) ([]*brep.Solid, error) {
	return f(path)
}
