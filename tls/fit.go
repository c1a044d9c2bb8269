/*
 * fit.go, part of gotlsmd.
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

package tls

import (
	"math"

	"github.com/tlsmd/gotlsmd/tensor"
	"gonum.org/v1/gonum/mat"
)

//Config selects and tunes a fit strategy. Anisotropic picks the full-tensor
//model when anisotropic ADPs are available; otherwise the isotropic model is
//fit. OptimizeOrigin makes the libration origin a free parameter, which
//turns the fit nonlinear; with a fixed origin (the weighted centroid) the
//TLS equation is linear in all parameters and one SVD solve suffices.
type Config struct {
	Anisotropic    bool
	OptimizeOrigin bool
	//RCond is the relative singular-value cutoff of the pseudo-inverse.
	RCond float64
	//MaxIter and Tol control the nonlinear refinement.
	MaxIter int
	Tol     float64
}

//DefaultConfig returns the settings used by the chain analysis unless the
//caller overrides them. The origin is optimized only for isotropic data:
//the full anisotropic model family is closed under origin shifts, so with
//anisotropic observations the centroid origin loses nothing, while the
//reduced isotropic model does depend on where the origin sits.
func DefaultConfig(anisotropic bool) Config {
	return Config{
		Anisotropic:    anisotropic,
		OptimizeOrigin: !anisotropic,
		RCond:          1e-10,
		MaxIter:        60,
		Tol:            1e-7,
	}
}

//Strategy fits a TLS model to the atoms of one candidate segment. Fit never
//returns an error: every failure mode is local to the segment and is
//reported through the Status of the result. Implementations are pure and
//deterministic, so segments can be fit concurrently.
type Strategy interface {
	Fit(atoms []AtomData) *Result
}

//NewStrategy returns the strategy for the given configuration.
func NewStrategy(c Config) Strategy {
	lin := linearFit{aniso: c.Anisotropic, rcond: c.RCond}
	if !c.OptimizeOrigin {
		return lin
	}
	return &refineFit{lin: lin, maxIter: c.MaxIter, tol: c.Tol}
}

//linearFit solves the fixed-origin weighted least-squares problem by
//singular value decomposition. Gonum factorizes with the divide-and-conquer
//LAPACK routine, which keeps the solve stable when a segment has few atoms
//or near-collinear geometry; directions whose singular value falls below
//rcond times the largest are zeroed in the pseudo-inverse and the fit is
//flagged singular instead of silently returning runaway parameters.
type linearFit struct {
	aniso bool
	rcond float64
}

func (f linearFit) Fit(atoms []AtomData) *Result {
	res, _ := f.fitAt(atoms, Centroid(atoms))
	return res
}

//fitAt solves the system with the origin pinned at the given point. It also
//returns the per-row residual vector for use by the nonlinear refinement.
func (f linearFit) fitAt(atoms []AtomData, origin tensor.Vec) (*Result, []float64) {
	ncols := IsoParamCount
	rowsPer := 1
	if f.aniso {
		ncols = AnisoParamCount
		rowsPer = 6
	}
	nrows := rowsPer * len(atoms)
	if nrows < ncols {
		return &Result{Residual: math.Inf(1), Status: StatusTooFewAtoms}, nil
	}

	a := mat.NewDense(nrows, ncols, nil)
	b := mat.NewVecDense(nrows, nil)
	for i, at := range atoms {
		r := at.Pos.Sub(origin)
		if f.aniso {
			setAnisoRows(a, b, 6*i, r, at)
		} else {
			setIsoRow(a, b, i, r, at)
		}
	}

	x, deficient, ok := solvePseudoInverse(a, b, f.rcond)
	if !ok {
		return &Result{Residual: math.Inf(1), Status: StatusSingular}, nil
	}

	rvec := make([]float64, nrows)
	var ssq float64
	for i := 0; i < nrows; i++ {
		d := -b.AtVec(i)
		for j := 0; j < ncols; j++ {
			d += a.At(i, j) * x[j]
		}
		rvec[i] = d
		ssq += d * d
	}
	if math.IsNaN(ssq) || math.IsInf(ssq, 0) {
		return &Result{Residual: math.Inf(1), Status: StatusSingular}, nil
	}

	res := &Result{Residual: ssq, Status: StatusConverged}
	if deficient {
		res.Status = StatusSingular
	}
	if f.aniso {
		res.Aniso = anisoFromVector(x, origin)
	} else {
		res.Iso = isoFromVector(x, origin)
	}
	return res, rvec
}

//setAnisoRows fills the six design-matrix rows and observation entries of
//one atom, scaled by the root weight. The coefficients are the expansion of
//U = T + A*L*At + A*S + (A*S)t in the reduced parameter set; the row order
//is U11, U22, U33, U12, U13, U23.
func setAnisoRows(a *mat.Dense, b *mat.VecDense, row int, r tensor.Vec, at AtomData) {
	x, y, z := r[0], r[1], r[2]
	xx, yy, zz := x*x, y*y, z*z
	w := at.SqrtWeight

	//U11
	a.Set(row, pT11, w)
	a.Set(row, pL22, w*zz)
	a.Set(row, pL33, w*yy)
	a.Set(row, pL23, w*-2.0*y*z)
	a.Set(row, pS21, w*2.0*z)
	a.Set(row, pS31, w*-2.0*y)
	b.SetVec(row, w*at.U[0])

	//U22
	a.Set(row+1, pT22, w)
	a.Set(row+1, pL11, w*zz)
	a.Set(row+1, pL33, w*xx)
	a.Set(row+1, pL13, w*-2.0*x*z)
	a.Set(row+1, pS12, w*-2.0*z)
	a.Set(row+1, pS32, w*2.0*x)
	b.SetVec(row+1, w*at.U[1])

	//U33
	a.Set(row+2, pT33, w)
	a.Set(row+2, pL11, w*yy)
	a.Set(row+2, pL22, w*xx)
	a.Set(row+2, pL12, w*-2.0*x*y)
	a.Set(row+2, pS13, w*2.0*y)
	a.Set(row+2, pS23, w*-2.0*x)
	b.SetVec(row+2, w*at.U[2])

	//U12
	a.Set(row+3, pT12, w)
	a.Set(row+3, pL12, w*-zz)
	a.Set(row+3, pL13, w*y*z)
	a.Set(row+3, pL23, w*x*z)
	a.Set(row+3, pL33, w*-x*y)
	a.Set(row+3, pS2211, w*z)
	a.Set(row+3, pS31, w*x)
	a.Set(row+3, pS32, w*-y)
	b.SetVec(row+3, w*at.U[3])

	//U13
	a.Set(row+4, pT13, w)
	a.Set(row+4, pL12, w*y*z)
	a.Set(row+4, pL13, w*-yy)
	a.Set(row+4, pL22, w*-x*z)
	a.Set(row+4, pL23, w*x*y)
	a.Set(row+4, pS1133, w*y)
	a.Set(row+4, pS21, w*-x)
	a.Set(row+4, pS23, w*z)
	b.SetVec(row+4, w*at.U[4])

	//U23
	a.Set(row+5, pT23, w)
	a.Set(row+5, pL11, w*-y*z)
	a.Set(row+5, pL12, w*x*z)
	a.Set(row+5, pL13, w*x*y)
	a.Set(row+5, pL23, w*-xx)
	a.Set(row+5, pS2211, w*-x)
	a.Set(row+5, pS1133, w*-x)
	a.Set(row+5, pS12, w*y)
	a.Set(row+5, pS13, w*-z)
	b.SetVec(row+5, w*at.U[5])
}

//setIsoRow fills the single isotropic row of one atom. The coefficients are
//the trace/3 of the anisotropic expansion.
func setIsoRow(a *mat.Dense, b *mat.VecDense, row int, r tensor.Vec, at AtomData) {
	x, y, z := r[0], r[1], r[2]
	xx, yy, zz := x*x, y*y, z*z
	w := at.SqrtWeight

	a.Set(row, pIT, w)
	a.Set(row, pIL11, w*(yy+zz)/3.0)
	a.Set(row, pIL22, w*(xx+zz)/3.0)
	a.Set(row, pIL33, w*(xx+yy)/3.0)
	a.Set(row, pIL12, w*-2.0*x*y/3.0)
	a.Set(row, pIL13, w*-2.0*x*z/3.0)
	a.Set(row, pIL23, w*-2.0*y*z/3.0)
	a.Set(row, pIS1, w*2.0*z/3.0)
	a.Set(row, pIS2, w*2.0*y/3.0)
	a.Set(row, pIS3, w*2.0*x/3.0)
	b.SetVec(row, w*at.Uiso)
}

//solvePseudoInverse computes the minimum-norm least-squares solution
//x = V S+ Ut b, zeroing singular values below rcond times the largest.
//deficient reports whether any direction was dropped; ok is false when the
//factorization itself fails.
func solvePseudoInverse(a *mat.Dense, b *mat.VecDense, rcond float64) (x []float64, deficient, ok bool) {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, false, false
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)
	if len(s) == 0 || s[0] <= 0 {
		return nil, false, false
	}
	cutoff := rcond * s[0]

	_, ncols := a.Dims()
	//c = S+ Ut b
	c := make([]float64, len(s))
	for i := range s {
		if s[i] <= cutoff {
			deficient = true
			continue
		}
		var dot float64
		for k := 0; k < b.Len(); k++ {
			dot += u.At(k, i) * b.AtVec(k)
		}
		c[i] = dot / s[i]
	}
	x = make([]float64, ncols)
	for j := 0; j < ncols; j++ {
		var dot float64
		for i := range c {
			dot += v.At(j, i) * c[i]
		}
		x[j] = dot
	}
	return x, deficient, true
}

//refineFit optimizes the libration origin with a Levenberg-Marquardt loop,
//solving the linear subproblem at each trial origin. The Jacobian of the
//residual vector with respect to the three origin coordinates is taken by
//forward differences.
type refineFit struct {
	lin     linearFit
	maxIter int
	tol     float64
}

//fdStep is the forward-difference step, in Angstrom.
const fdStep = 1e-4

func (f *refineFit) Fit(atoms []AtomData) *Result {
	origin := Centroid(atoms)
	best, rvec := f.lin.fitAt(atoms, origin)
	if best.Status != StatusConverged {
		return best
	}
	if best.Residual == 0 {
		return best
	}

	lambda := 1e-3
	for iter := 0; iter < f.maxIter; iter++ {
		jac, ok := f.jacobian(atoms, origin, rvec)
		if !ok {
			best.Status = StatusSingular
			return best
		}
		step, ok := lmStep(jac, rvec, lambda)
		if !ok {
			lambda *= 10
			if lambda > 1e12 {
				//stalled at the seed; the linear solution stands
				return best
			}
			continue
		}
		if step.Norm() < 1e-10 {
			return best
		}
		trial := origin.Add(step)
		cand, cvec := f.lin.fitAt(atoms, trial)
		if cand.Status == StatusConverged && cand.Residual < best.Residual {
			rel := (best.Residual - cand.Residual) / best.Residual
			origin = trial
			best, rvec = cand, cvec
			lambda = math.Max(lambda*0.3, 1e-12)
			if rel < f.tol {
				return best
			}
			continue
		}
		lambda *= 10
		if lambda > 1e12 {
			//no downhill step exists anymore; the current origin is the
			//optimum to within the damping range
			return best
		}
	}
	best.Status = StatusNotConverged
	return best
}

//jacobian returns the m x 3 forward-difference Jacobian of the residual
//vector at the given origin.
func (f *refineFit) jacobian(atoms []AtomData, origin tensor.Vec, rvec []float64) (*mat.Dense, bool) {
	jac := mat.NewDense(len(rvec), 3, nil)
	for d := 0; d < 3; d++ {
		shifted := origin
		shifted[d] += fdStep
		res, hvec := f.lin.fitAt(atoms, shifted)
		if res.Status != StatusConverged || len(hvec) != len(rvec) {
			return nil, false
		}
		for i := range rvec {
			jac.Set(i, d, (hvec[i]-rvec[i])/fdStep)
		}
	}
	return jac, true
}

//lmStep solves the damped normal equations (Jt J + lambda diag(Jt J)) d = -Jt r.
func lmStep(jac *mat.Dense, rvec []float64, lambda float64) (tensor.Vec, bool) {
	var jtj mat.Dense
	jtj.Mul(jac.T(), jac)
	for i := 0; i < 3; i++ {
		d := jtj.At(i, i)
		if d <= 0 {
			d = 1e-12
		}
		jtj.Set(i, i, d*(1.0+lambda))
	}
	r := mat.NewVecDense(len(rvec), rvec)
	var jtr mat.VecDense
	jtr.MulVec(jac.T(), r)
	jtr.ScaleVec(-1, &jtr)

	var sol mat.VecDense
	if err := sol.SolveVec(&jtj, &jtr); err != nil {
		return tensor.Vec{}, false
	}
	step := tensor.Vec{sol.AtVec(0), sol.AtVec(1), sol.AtVec(2)}
	for _, v := range step {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return tensor.Vec{}, false
		}
	}
	return step, true
}
