/*
 * tls.go, part of gotlsmd.
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

//Package tls implements the Translation/Libration/Screw rigid-body motion
//model and the least-squares machinery that fits it to observed atomic
//displacement parameters.
//
//The anisotropic model predicts a full displacement tensor per atom from 20
//parameters: the symmetric T (A^2) and L (rad^2) tensors and the screw
//tensor S (A*rad), whose trace is not observable and is fixed at zero, so S
//contributes the six off-diagonals plus the two differences S22-S11 and
//S11-S33. The isotropic model is the trace/3 of the anisotropic one and has
//10 parameters: a scalar IT, the L tensor, and the three screw combinations
//that survive the trace.
package tls

import (
	"math"

	"github.com/tlsmd/gotlsmd/tensor"
	"gonum.org/v1/gonum/mat"
)

//Conversion between the mean-square displacement U (A^2) and the
//crystallographic B factor.
const (
	U2B = 8.0 * math.Pi * math.Pi
	B2U = 1.0 / U2B
)

//Number of free parameters of each model.
const (
	AnisoParamCount = 20
	IsoParamCount   = 10
)

//Indices into the anisotropic parameter vector.
const (
	pT11 = iota
	pT22
	pT33
	pT12
	pT13
	pT23
	pL11
	pL22
	pL33
	pL12
	pL13
	pL23
	pS2211
	pS1133
	pS12
	pS13
	pS21
	pS23
	pS31
	pS32
)

//Indices into the isotropic parameter vector.
const (
	pIT = iota
	pIL11
	pIL22
	pIL33
	pIL12
	pIL13
	pIL23
	pIS1
	pIS2
	pIS3
)

//AtomData is the per-atom input of a fit: position, the observed
//displacement values and the square root of the fitting weight. The weight
//root is cached by the caller once per chain; every row of the design
//matrix and of the observation vector is scaled by it.
type AtomData struct {
	Pos        tensor.Vec
	Uiso       float64
	U          tensor.Sym
	SqrtWeight float64
}

//Centroid returns the weighted centroid of the atoms, the default libration
//origin. It returns the zero vector for an empty or zero-weight set.
func Centroid(atoms []AtomData) tensor.Vec {
	var c tensor.Vec
	var w float64
	for _, a := range atoms {
		aw := a.SqrtWeight * a.SqrtWeight
		c = c.Add(a.Pos.Scale(aw))
		w += aw
	}
	if w <= 0 {
		return tensor.Vec{}
	}
	return c.Scale(1.0 / w)
}

//Params holds a fitted anisotropic TLS model. S is stored in the reduced
//traceless form: S22-S11, S11-S33, S12, S13, S21, S23, S31, S32.
type Params struct {
	T      tensor.Sym
	L      tensor.Sym
	S      [8]float64
	Origin tensor.Vec
}

//SDiagonal recovers the three diagonal elements of the traceless screw
//tensor from the two stored differences.
func (p *Params) SDiagonal() (s11, s22, s33 float64) {
	s2211 := p.S[0]
	s1133 := p.S[1]
	s11 = (s1133 - s2211) / 3.0
	s22 = s11 + s2211
	s33 = s11 - s1133
	return s11, s22, s33
}

//SDense returns the full 3x3 screw tensor.
func (p *Params) SDense() *mat.Dense {
	s11, s22, s33 := p.SDiagonal()
	return mat.NewDense(3, 3, []float64{
		s11, p.S[2], p.S[3],
		p.S[4], s22, p.S[5],
		p.S[6], p.S[7], s33,
	})
}

//PredictU returns the displacement tensor the model predicts for an atom at
//pos: U = T + A*L*At + A*S + (A*S)t, with A the antisymmetric matrix of the
//position relative to the libration origin.
func (p *Params) PredictU(pos tensor.Vec) tensor.Sym {
	a := pos.Sub(p.Origin).Skew()
	var alat, as, u mat.Dense
	alat.Mul(a, p.L.Dense())
	alat.Mul(&alat, a.T())
	as.Mul(a, p.SDense())
	u.Add(p.T.Dense(), &alat)
	u.Add(&u, &as)
	u.Add(&u, as.T())
	return tensor.FromDense(&u)
}

//IsoParams holds a fitted isotropic TLS model: the scalar translation IT,
//the full libration tensor and the three observable screw combinations
//IS1 = S21-S12, IS2 = S13-S31, IS3 = S32-S23.
type IsoParams struct {
	T      float64
	L      tensor.Sym
	S      tensor.Vec
	Origin tensor.Vec
}

//PredictUiso returns the isotropic displacement the model predicts for an
//atom at pos. It equals the trace/3 of the anisotropic prediction.
func (p *IsoParams) PredictUiso(pos tensor.Vec) float64 {
	r := pos.Sub(p.Origin)
	x, y, z := r[0], r[1], r[2]
	xx, yy, zz := x*x, y*y, z*z
	q := (yy+zz)*p.L[0] + (xx+zz)*p.L[1] + (xx+yy)*p.L[2] -
		2.0*x*y*p.L[3] - 2.0*x*z*p.L[4] - 2.0*y*z*p.L[5] +
		2.0*z*p.S[0] + 2.0*y*p.S[1] + 2.0*x*p.S[2]
	return p.T + q/3.0
}

//Status classifies the outcome of a fit.
type Status int

const (
	//StatusConverged marks a successful fit.
	StatusConverged Status = iota
	//StatusTooFewAtoms marks a segment with fewer observations than model
	//parameters.
	StatusTooFewAtoms
	//StatusSingular marks a rank-deficient design matrix or a solve that
	//produced NaN/Inf values.
	StatusSingular
	//StatusNotConverged marks a nonlinear refinement that ran out of
	//iterations. The result carries the best residual found.
	StatusNotConverged
)

func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusTooFewAtoms:
		return "too-few-atoms"
	case StatusSingular:
		return "singular"
	case StatusNotConverged:
		return "not-converged"
	}
	return "unknown"
}

//Result is the outcome of fitting one candidate segment. Depending on the
//strategy, Aniso or Iso (or both pointers) may be set; a degenerate fit may
//carry neither. Residual is the weighted sum of squared differences between
//predicted and observed displacement values, always >= 0.
type Result struct {
	Aniso    *Params
	Iso      *IsoParams
	Residual float64
	Status   Status
}

//Cost returns the residual for converged fits and +Inf otherwise, so a
//partition search naturally never selects a degenerate segment.
func (r *Result) Cost() float64 {
	if r == nil || r.Status != StatusConverged {
		return math.Inf(1)
	}
	return r.Residual
}

//anisoFromVector unpacks a solved parameter vector.
func anisoFromVector(x []float64, origin tensor.Vec) *Params {
	p := &Params{Origin: origin}
	p.T = tensor.Sym{x[pT11], x[pT22], x[pT33], x[pT12], x[pT13], x[pT23]}
	p.L = tensor.Sym{x[pL11], x[pL22], x[pL33], x[pL12], x[pL13], x[pL23]}
	copy(p.S[:], x[pS2211:pS32+1])
	return p
}

//isoFromVector unpacks a solved parameter vector.
func isoFromVector(x []float64, origin tensor.Vec) *IsoParams {
	return &IsoParams{
		T:      x[pIT],
		L:      tensor.Sym{x[pIL11], x[pIL22], x[pIL33], x[pIL12], x[pIL13], x[pIL23]},
		S:      tensor.Vec{x[pIS1], x[pIS2], x[pIS3]},
		Origin: origin,
	}
}
