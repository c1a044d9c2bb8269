/*
 * tensor_test.go, part of gotlsmd.
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
 */

package tensor

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestVecOps(Te *testing.T) {
	v := Vec{1, 2, 3}
	w := Vec{-2, 0, 4}
	if v.Add(w) != (Vec{-1, 2, 7}) || v.Sub(w) != (Vec{3, 2, -1}) {
		Te.Errorf("sum or difference wrong")
	}
	if v.Scale(2) != (Vec{2, 4, 6}) {
		Te.Errorf("scaling wrong")
	}
	if v.Dot(w) != 10 {
		Te.Errorf("dot product %g, want 10", v.Dot(w))
	}
	if n := (Vec{3, 4, 0}).Norm(); n != 5 {
		Te.Errorf("norm %g, want 5", n)
	}
}

//TestSkew checks the antisymmetry and the cross-product action of the
//position matrix.
func TestSkew(Te *testing.T) {
	v := Vec{1, -2, 3}
	a := v.Skew()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if a.At(i, j) != -a.At(j, i) {
				Te.Fatalf("position matrix not antisymmetric at %d,%d", i, j)
			}
		}
	}
	//A*w = w x v
	w := Vec{0.5, 1.5, -1}
	var got mat.VecDense
	got.MulVec(a, mat.NewVecDense(3, []float64{w[0], w[1], w[2]}))
	cross := Vec{
		w[1]*v[2] - w[2]*v[1],
		w[2]*v[0] - w[0]*v[2],
		w[0]*v[1] - w[1]*v[0],
	}
	for i := 0; i < 3; i++ {
		if math.Abs(got.AtVec(i)-cross[i]) > 1e-15 {
			Te.Errorf("component %d: %g, want %g", i, got.AtVec(i), cross[i])
		}
	}
}

func TestSymAccessors(Te *testing.T) {
	s := Sym{1, 2, 3, 4, 5, 6}
	want := [3][3]float64{{1, 4, 5}, {4, 2, 6}, {5, 6, 3}}
	d := s.Dense()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if s.At(i, j) != want[i][j] {
				Te.Errorf("At(%d,%d)=%g, want %g", i, j, s.At(i, j), want[i][j])
			}
			if d.At(i, j) != want[i][j] {
				Te.Errorf("Dense At(%d,%d)=%g, want %g", i, j, d.At(i, j), want[i][j])
			}
		}
	}
	if FromDense(d) != s {
		Te.Errorf("dense round trip changed the tensor")
	}
	if s.Trace() != 6 || s.Iso() != 2 {
		Te.Errorf("trace %g iso %g", s.Trace(), s.Iso())
	}
}

func TestFromDenseSymmetrizes(Te *testing.T) {
	m := mat.NewDense(3, 3, []float64{
		1, 2, 3,
		4, 1, 5,
		7, 9, 1,
	})
	s := FromDense(m)
	if s[3] != 3 || s[4] != 5 || s[5] != 7 {
		Te.Errorf("off-diagonals not averaged: %v", s)
	}
	defer func() {
		if recover() == nil {
			Te.Errorf("non-3x3 input accepted")
		}
	}()
	FromDense(mat.NewDense(2, 2, nil))
}

func TestSymArithmetic(Te *testing.T) {
	s := Sym{1, 2, 3, 4, 5, 6}
	t := Sym{6, 5, 4, 3, 2, 1}
	if s.Add(t) != (Sym{7, 7, 7, 7, 7, 7}) {
		Te.Errorf("sum wrong")
	}
	if s.Sub(t) != (Sym{-5, -3, -1, 1, 3, 5}) {
		Te.Errorf("difference wrong")
	}
	if s.Scale(-1) != (Sym{-1, -2, -3, -4, -5, -6}) {
		Te.Errorf("scaling wrong")
	}
}

func TestEigenvalues(Te *testing.T) {
	//diagonal tensor, eigenvalues are the diagonal sorted ascending
	s := Sym{3, 1, 2, 0, 0, 0}
	ev, err := s.Eigenvalues()
	if err != nil {
		Te.Fatal(err)
	}
	for i, want := range []float64{1, 2, 3} {
		if math.Abs(ev[i]-want) > 1e-12 {
			Te.Errorf("eigenvalue %d: %g, want %g", i, ev[i], want)
		}
	}
}

func TestIsNaN(Te *testing.T) {
	if (Sym{1, 2, 3, 4, 5, 6}).IsNaN() {
		Te.Errorf("finite tensor flagged")
	}
	if !(Sym{1, math.NaN(), 3, 4, 5, 6}).IsNaN() {
		Te.Errorf("NaN not flagged")
	}
	if !(Sym{1, 2, math.Inf(1), 4, 5, 6}).IsNaN() {
		Te.Errorf("infinity not flagged")
	}
}
