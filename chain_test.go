/*
 * chain_test.go, part of gotlsmd.
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

package tlsmd

import (
	"math"
	"math/rand"
	"testing"

	"github.com/tlsmd/gotlsmd/tensor"
	"github.com/tlsmd/gotlsmd/tls"
)

//synthAtoms builds a synthetic chain of nres residues with perRes atoms
//each, positions roughly along a protein backbone, and isotropic
//displacements taken from uiso(residue offset, position).
func synthAtoms(nres, perRes int, seed int64, uiso func(res int, pos tensor.Vec) float64) []*Atom {
	rng := rand.New(rand.NewSource(seed))
	var atoms []*Atom
	for res := 0; res < nres; res++ {
		for a := 0; a < perRes; a++ {
			pos := tensor.Vec{
				3.8*float64(res) + 3.0*(rng.Float64()-0.5),
				8.0 * (rng.Float64() - 0.5),
				8.0 * (rng.Float64() - 0.5),
			}
			atoms = append(atoms, &Atom{
				Name:   "CA",
				FragID: "ALA",
				Ifrag:  res,
				Pos:    pos,
				Uiso:   uiso(res, pos),
				Weight: 1,
			})
		}
	}
	return atoms
}

//synthChain wraps synthAtoms in a built chain.
func synthChain(t *testing.T, nres, perRes int, seed int64, uiso func(res int, pos tensor.Vec) float64) *Chain {
	t.Helper()
	c, err := NewChain("A", synthAtoms(nres, perRes, seed, uiso))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

//flatUiso is the dullest possible displacement field.
func flatUiso(res int, pos tensor.Vec) float64 { return 0.25 }

func TestNewChainValidation(Te *testing.T) {
	if _, err := NewChain("A", nil); err == nil {
		Te.Errorf("empty chain accepted")
	}

	atoms := synthAtoms(4, 2, 1, flatUiso)
	atoms[3].Weight = -0.5
	if _, err := NewChain("A", atoms); err == nil {
		Te.Errorf("negative weight accepted")
	}

	atoms = synthAtoms(4, 2, 1, flatUiso)
	atoms[5].Ifrag = 0 //out of order
	if _, err := NewChain("A", atoms); err == nil {
		Te.Errorf("decreasing fragment index accepted")
	}

	atoms = synthAtoms(4, 2, 1, flatUiso)
	atoms[0].Weight = 4
	c, err := NewChain("A", atoms)
	if err != nil {
		Te.Fatal(err)
	}
	if c.Atom(0).SqrtWeight != 2 {
		Te.Errorf("root weight not cached: %g", c.Atom(0).SqrtWeight)
	}
	if c.NumResidues() != 4 || c.Len() != 8 {
		Te.Errorf("got %d residues, %d atoms", c.NumResidues(), c.Len())
	}
}

func TestRangeQueries(Te *testing.T) {
	c := synthChain(Te, 6, 3, 2, func(res int, pos tensor.Vec) float64 {
		return 0.1 * float64(res+1)
	})

	if n := c.RangeAtomCount(1, 4); n != 9 {
		Te.Errorf("atom count %d, want 9", n)
	}
	if n := c.RangeResidueCount(1, 4); n != 3 {
		Te.Errorf("residue count %d, want 3", n)
	}
	if w := c.RangeWeight(0, 6); w != 18 {
		Te.Errorf("total weight %g, want 18", w)
	}

	//residue 2 has uniform uiso 0.3
	if u := c.RangeMeanUiso(2, 3); math.Abs(u-0.3) > 1e-14 {
		Te.Errorf("mean uiso %g, want 0.3", u)
	}

	//the centroid must match a hand-rolled weighted average
	var want tensor.Vec
	var w float64
	for _, a := range c.RangeAtoms(2, 5) {
		want = want.Add(a.Pos.Scale(a.Weight))
		w += a.Weight
	}
	want = want.Scale(1 / w)
	if got := c.RangeCentroid(2, 5); got != want {
		Te.Errorf("centroid %v, want %v", got, want)
	}

	//and it must agree with the fit solver's centroid over the same range
	if got, fit := c.RangeCentroid(2, 5), tls.Centroid(c.RangeFitData(2, 5)); got != fit {
		Te.Errorf("chain centroid %v disagrees with solver centroid %v", got, fit)
	}
}

func TestDegenerateRanges(Te *testing.T) {
	c := synthChain(Te, 4, 2, 3, flatUiso)
	if c.RangeAtoms(2, 2) != nil || c.RangeAtoms(-1, 2) != nil || c.RangeAtoms(3, 9) != nil {
		Te.Errorf("degenerate range returned atoms")
	}
	if c.RangeAtomCount(3, 1) != 0 || c.RangeWeight(5, 9) != 0 {
		Te.Errorf("degenerate range returned a nonzero aggregate")
	}
	if c.RangeCentroid(2, 2) != (tensor.Vec{}) || c.RangeMeanUiso(4, 4) != 0 {
		Te.Errorf("degenerate range returned a nonzero centroid or mean")
	}
}
