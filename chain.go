/*
 * chain.go, part of gotlsmd.
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

package tlsmd

import (
	"fmt"
	"math"

	"github.com/tlsmd/gotlsmd/tensor"
	"github.com/tlsmd/gotlsmd/tls"
)

//Atom is one atom of a chain as delivered by an external structure loader.
//The loader is trusted to have validated physical plausibility; this
//package only checks the weight and the sequence ordering. FragID is the
//residue label the atom belongs to and Ifrag its fragment index, which
//defines the sequence order of the chain.
type Atom struct {
	Name       string
	FragID     string
	Ifrag      int
	Pos        tensor.Vec
	Uiso       float64
	U          tensor.Sym
	Weight     float64
	SqrtWeight float64
}

//Chain is an immutable, ordered sequence of atoms grouped into residues.
//Once built it is never mutated, so it can be shared freely between the
//concurrent segment fits. Residues are addressed by their 0-based offset
//along the chain, not by the loader's fragment index.
type Chain struct {
	id       string
	atoms    []*Atom
	resFirst []int //atom range of residue offset i is atoms[resFirst[i]:resFirst[i+1]]
	fitData  []tls.AtomData
}

//NewChain builds a chain from atoms already in sequence order. It fails
//fast on an empty atom list, a negative weight or a fragment index that
//decreases along the sequence. The square root of each weight is cached on
//the atom for the weighted least-squares fits.
func NewChain(id string, atoms []*Atom) (*Chain, error) {
	if len(atoms) == 0 {
		return nil, CError{"chain " + id + " has no atoms", []string{"NewChain"}}
	}
	c := &Chain{id: id, atoms: atoms}
	prev := atoms[0].Ifrag
	c.resFirst = append(c.resFirst, 0)
	for i, a := range atoms {
		if a.Weight < 0 || math.IsNaN(a.Weight) {
			return nil, CError{fmt.Sprintf("atom %d (%s) has malformed weight %v", i, a.Name, a.Weight), []string{"NewChain"}}
		}
		a.SqrtWeight = math.Sqrt(a.Weight)
		if a.Ifrag < prev {
			return nil, CError{fmt.Sprintf("fragment index decreases at atom %d (%s): %d after %d", i, a.Name, a.Ifrag, prev), []string{"NewChain"}}
		}
		if a.Ifrag > prev {
			c.resFirst = append(c.resFirst, i)
			prev = a.Ifrag
		}
	}
	c.resFirst = append(c.resFirst, len(atoms))

	c.fitData = make([]tls.AtomData, len(atoms))
	for i, a := range atoms {
		c.fitData[i] = tls.AtomData{
			Pos:        a.Pos,
			Uiso:       a.Uiso,
			U:          a.U,
			SqrtWeight: a.SqrtWeight,
		}
	}
	return c, nil
}

//ID returns the chain identifier.
func (C *Chain) ID() string {
	return C.id
}

//Len returns the number of atoms in the chain.
func (C *Chain) Len() int {
	return len(C.atoms)
}

//NumResidues returns the number of residues in the chain.
func (C *Chain) NumResidues() int {
	return len(C.resFirst) - 1
}

//Atom returns the ith atom of the chain.
func (C *Chain) Atom(i int) *Atom {
	return C.atoms[i]
}

//clampRange reports whether the residue-offset range [lo,hi) is usable.
//Degenerate ranges are not an error: the aggregate queries report empty
//results for them.
func (C *Chain) clampRange(lo, hi int) bool {
	return lo >= 0 && hi <= C.NumResidues() && lo < hi
}

//RangeAtoms returns the atoms of the residues in [lo,hi), or nil for a
//degenerate range. The returned slice aliases the chain; do not modify it.
func (C *Chain) RangeAtoms(lo, hi int) []*Atom {
	if !C.clampRange(lo, hi) {
		return nil
	}
	return C.atoms[C.resFirst[lo]:C.resFirst[hi]]
}

//RangeFitData returns the fit-solver view of the residues in [lo,hi).
func (C *Chain) RangeFitData(lo, hi int) []tls.AtomData {
	if !C.clampRange(lo, hi) {
		return nil
	}
	return C.fitData[C.resFirst[lo]:C.resFirst[hi]]
}

//RangeAtomCount returns the number of atoms in the residues [lo,hi).
func (C *Chain) RangeAtomCount(lo, hi int) int {
	if !C.clampRange(lo, hi) {
		return 0
	}
	return C.resFirst[hi] - C.resFirst[lo]
}

//RangeResidueCount returns the number of residues in [lo,hi).
func (C *Chain) RangeResidueCount(lo, hi int) int {
	if !C.clampRange(lo, hi) {
		return 0
	}
	return hi - lo
}

//RangeWeight returns the total fitting weight of the residues [lo,hi).
func (C *Chain) RangeWeight(lo, hi int) float64 {
	var w float64
	for _, a := range C.RangeAtoms(lo, hi) {
		w += a.Weight
	}
	return w
}

//RangeCentroid returns the weighted centroid of the residues [lo,hi),
//using the same per-atom weights as the fit solver so the statistics stay
//consistent with fit quality. It returns the zero vector for a degenerate
//or zero-weight range.
func (C *Chain) RangeCentroid(lo, hi int) tensor.Vec {
	var c tensor.Vec
	var w float64
	for _, a := range C.RangeAtoms(lo, hi) {
		c = c.Add(a.Pos.Scale(a.Weight))
		w += a.Weight
	}
	if w <= 0 {
		return tensor.Vec{}
	}
	return c.Scale(1.0 / w)
}

//RangeMeanUiso returns the weighted mean isotropic displacement of the
//residues [lo,hi), or 0 for a degenerate or zero-weight range.
func (C *Chain) RangeMeanUiso(lo, hi int) float64 {
	var sum, w float64
	for _, a := range C.RangeAtoms(lo, hi) {
		sum += a.Uiso * a.Weight
		w += a.Weight
	}
	if w <= 0 {
		return 0
	}
	return sum / w
}
