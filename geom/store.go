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

package geom

import "github.com/JJZ993/vcad-sub001/vmath"

// Store owns the surfaces and curves of one solid. It is append-only:
// entries are identified by dense integer indices and are never removed
// from a live store. Boolean operations build a fresh store for their
// result instead of mutating the inputs.
type Store struct {
	surfaces []Surface
	curves   []Curve
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// AddSurface appends s and returns its index.
func (st *Store) AddSurface(s Surface) int {
	st.surfaces = append(st.surfaces, s)
	return len(st.surfaces) - 1
}

// Surface returns the surface at index i.
func (st *Store) Surface(i int) Surface {
	return st.surfaces[i]
}

// NumSurfaces returns the number of stored surfaces.
func (st *Store) NumSurfaces() int {
	return len(st.surfaces)
}

// AddCurve appends c and returns its index.
func (st *Store) AddCurve(c Curve) int {
	st.curves = append(st.curves, c)
	return len(st.curves) - 1
}

// Curve returns the curve at index i.
func (st *Store) Curve(i int) Curve {
	return st.curves[i]
}

// NumCurves returns the number of stored curves.
func (st *Store) NumCurves() int {
	return len(st.curves)
}

// Transformed returns a new store with every surface and curve carried
// through t, preserving indices.
func (st *Store) Transformed(t vmath.Transform) *Store {
	out := &Store{
		surfaces: make([]Surface, len(st.surfaces)),
		curves:   make([]Curve, len(st.curves)),
	}
	for i, s := range st.surfaces {
		out.surfaces[i] = s.Transformed(t)
	}
	for i, c := range st.curves {
		out.curves[i] = transformedCurve(c, t)
	}
	return out
}

func transformedCurve(c Curve, t vmath.Transform) Curve {
	switch cv := c.(type) {
	case Line:
		dir, ok := t.ApplyDirection(cv.Dir)
		if !ok {
			return cv
		}
		scale := t.ApplyVector(cv.Dir.Vector).Norm()
		dom := cv.Dom
		dom.Lo *= scale
		dom.Hi *= scale
		return Line{Origin: t.ApplyPoint(cv.Origin), Dir: dir, Dom: dom}
	case Circle:
		normal, okN := vmath.DirectionFromVector(t.ApplyNormal(cv.Normal.Vector))
		xv := t.ApplyVector(cv.XDir.Vector)
		x, okX := vmath.DirectionFromVector(xv)
		if !okN || !okX {
			return cv
		}
		return Circle{
			Center: t.ApplyPoint(cv.Center),
			Normal: normal,
			XDir:   x,
			Radius: cv.Radius * xv.Norm(),
		}
	case BSplineCurve:
		control := make([]vmath.Point, len(cv.Control))
		for i, p := range cv.Control {
			control[i] = t.ApplyPoint(p)
		}
		out := cv
		out.Control = control
		out.Knots = append([]float64(nil), cv.Knots...)
		return out
	}
	return c
}
