/*
 * tensor.go, part of gotlsmd.
 *
 *
 * Copyright 2026 The gotlsmd developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

//Package tensor provides the small fixed-size vector and symmetric-tensor
//types used throughout the library, as thin value types over gonum/mat.
//A Vec is a point or displacement in 3D space. A Sym is a symmetric 3x3
//tensor stored as its 6 independent components, which is how atomic
//displacement tensors come out of crystallographic refinement.
package tensor

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

//Vec is a 3D vector.
type Vec [3]float64

//Add returns the element-wise sum of v and w.
func (v Vec) Add(w Vec) Vec {
	return Vec{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

//Sub returns the element-wise difference v-w.
func (v Vec) Sub(w Vec) Vec {
	return Vec{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

//Scale returns v multiplied by the scalar s.
func (v Vec) Scale(s float64) Vec {
	return Vec{v[0] * s, v[1] * s, v[2] * s}
}

//Dot returns the dot product of v and w.
func (v Vec) Dot(w Vec) float64 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

//Norm returns the Euclidean norm of v.
func (v Vec) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

//Skew returns the antisymmetric matrix A of v such that, for a libration
//vector w, A*w is the displacement of a point at v. This is the position
//matrix of the TLS displacement equation.
func (v Vec) Skew() *mat.Dense {
	x, y, z := v[0], v[1], v[2]
	return mat.NewDense(3, 3, []float64{
		0, z, -y,
		-z, 0, x,
		y, -x, 0,
	})
}

//Sym is a symmetric 3x3 tensor stored as the 6 independent components in
//the order 11, 22, 33, 12, 13, 23. This matches the component order of
//anisotropic ADP records.
type Sym [6]float64

//At returns the i,j element of the tensor. Panics if i or j is out of
//[0,3), like the gonum accessors it mirrors.
func (s Sym) At(i, j int) float64 {
	if i > j {
		i, j = j, i
	}
	switch {
	case i == j:
		return s[i]
	case i == 0 && j == 1:
		return s[3]
	case i == 0 && j == 2:
		return s[4]
	case i == 1 && j == 2:
		return s[5]
	}
	panic(ErrIndexOutOfRange)
}

//Dense returns the tensor as a gonum symmetric matrix.
func (s Sym) Dense() *mat.SymDense {
	return mat.NewSymDense(3, []float64{
		s[0], s[3], s[4],
		s[3], s[1], s[5],
		s[4], s[5], s[2],
	})
}

//FromDense builds a Sym from any 3x3 gonum matrix, symmetrizing it by
//averaging off-diagonal pairs.
func FromDense(m mat.Matrix) Sym {
	r, c := m.Dims()
	if r != 3 || c != 3 {
		panic(ErrNot3x3)
	}
	return Sym{
		m.At(0, 0), m.At(1, 1), m.At(2, 2),
		0.5 * (m.At(0, 1) + m.At(1, 0)),
		0.5 * (m.At(0, 2) + m.At(2, 0)),
		0.5 * (m.At(1, 2) + m.At(2, 1)),
	}
}

//Add returns the element-wise sum of s and t.
func (s Sym) Add(t Sym) Sym {
	var r Sym
	for i := range s {
		r[i] = s[i] + t[i]
	}
	return r
}

//Sub returns the element-wise difference s-t.
func (s Sym) Sub(t Sym) Sym {
	var r Sym
	for i := range s {
		r[i] = s[i] - t[i]
	}
	return r
}

//Scale returns s multiplied by the scalar f.
func (s Sym) Scale(f float64) Sym {
	var r Sym
	for i := range s {
		r[i] = s[i] * f
	}
	return r
}

//Trace returns the trace of the tensor.
func (s Sym) Trace() float64 {
	return s[0] + s[1] + s[2]
}

//Iso returns the isotropic equivalent of the tensor, trace/3.
func (s Sym) Iso() float64 {
	return s.Trace() / 3.0
}

//Eigenvalues returns the eigenvalues of the tensor in ascending order.
//It returns an error if the (always convergent for symmetric input)
//factorization fails.
func (s Sym) Eigenvalues() (Vec, error) {
	var eig mat.EigenSym
	if !eig.Factorize(s.Dense(), false) {
		return Vec{}, Error{string(ErrEigen), []string{"Eigenvalues"}}
	}
	v := eig.Values(nil)
	return Vec{v[0], v[1], v[2]}, nil
}

//IsNaN reports whether any component of the tensor is NaN or infinite.
func (s Sym) IsNaN() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}
