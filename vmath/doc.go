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

/*
Package vmath provides the math foundation of the vcad B-rep kernel:
points, vectors and unit directions in millimetre model space, affine
transforms, axis-aligned bounding boxes, the tolerance policy that
governs every near-equality decision in the kernel, and the exact
orientation predicate used to classify incidence robustly.

All coordinates are float64 millimetres. Angular quantities use
s1.Angle so that degree/radian conversions stay explicit.
*/
package vmath
