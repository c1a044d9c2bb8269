/*
 * analysis_test.go, part of gotlsmd.
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
	"context"
	"math"
	"testing"

	"github.com/tlsmd/gotlsmd/tensor"
	"github.com/tlsmd/gotlsmd/tls"
)

func TestAnalyzeChainValidation(Te *testing.T) {
	if _, err := AnalyzeChain(context.Background(), nil, nil); err == nil {
		Te.Errorf("nil chain accepted")
	}
	c := synthChain(Te, 6, 4, 11, flatUiso)
	bad := DefaultOptions()
	bad.MinLen = -1
	if _, err := AnalyzeChain(context.Background(), c, bad); err == nil {
		Te.Errorf("negative minimum length accepted")
	}
	bad = DefaultOptions()
	bad.Origin = OriginPolicy("barycenter")
	if _, err := AnalyzeChain(context.Background(), c, bad); err == nil {
		Te.Errorf("unknown origin policy accepted")
	}
}

//TestAnalyzeTwoDomains runs the full pipeline on a chain built from two
//rigid bodies with different motion and checks that the two-group
//partition finds the boundary between them.
func TestAnalyzeTwoDomains(Te *testing.T) {
	left := &tls.IsoParams{
		T:      0.10,
		L:      tensor.Sym{0.006, 0.002, 0.004, 0.001, 0, 0.0005},
		Origin: tensor.Vec{9, 0, 0},
	}
	right := &tls.IsoParams{
		T:      0.30,
		L:      tensor.Sym{0.001, 0.008, 0.002, -0.0006, 0.0009, 0},
		Origin: tensor.Vec{28, 0, 0},
	}
	c := synthChain(Te, 10, 4, 12, func(res int, pos tensor.Vec) float64 {
		m := left
		if res >= 5 {
			m = right
		}
		//a touch of deterministic noise so no fit is exactly zero
		return m.PredictUiso(pos) + 0.002*math.Sin(float64(res)+pos[0])
	})

	o := testOptions(3, 2)
	a, err := AnalyzeChain(context.Background(), c, o)
	if err != nil {
		Te.Fatal(err)
	}
	if a.DB == nil || a.DB.Len() == 0 {
		Te.Fatalf("analysis carries no segment database")
	}

	p1 := a.Partition(1)
	p2 := a.Partition(2)
	if p1 == nil || p2 == nil {
		Te.Fatalf("expected feasible partitions for k=1 and k=2")
	}
	checkTiling(Te, p1, 10, 1)
	checkTiling(Te, p2, 10, 2)

	//two rigid bodies fit far better as two groups than as one
	if p2.Residual >= p1.Residual {
		Te.Errorf("k=2 residual %g not below k=1 residual %g", p2.Residual, p1.Residual)
	}
	if b := p2.Segments[0].End; b != 5 {
		Te.Errorf("domain boundary found at residue %d, want 5", b)
	}

	//out-of-range group counts come back nil, not panicking
	if a.Partition(0) != nil || a.Partition(3) != nil {
		Te.Errorf("out-of-range partition lookup returned a partition")
	}
}

//TestAnalyzeDefaultsAndSummaries checks the nil-options path and the
//per-segment B-factor summaries used by the reporting layer.
func TestAnalyzeDefaultsAndSummaries(Te *testing.T) {
	c := synthChain(Te, 8, 5, 13, func(res int, pos tensor.Vec) float64 {
		return 0.2 + 0.001*pos[1]*pos[1] + 0.001*pos[2]*pos[2]
	})
	a, err := AnalyzeChain(context.Background(), c, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if a.Options.MinLen != DefaultOptions().MinLen {
		Te.Errorf("nil options not replaced by the defaults")
	}

	s := a.DB.Segment(0, a.Options.MinLen)
	if s == nil {
		Te.Fatalf("shortest leading segment missing")
	}
	obs := s.MeanBisoObs(c)
	if want := c.RangeMeanUiso(s.Start, s.End) * tls.U2B; math.Abs(obs-want) > 1e-12 {
		Te.Errorf("observed mean B %g, want %g", obs, want)
	}
	if s.Fit.Status == tls.StatusConverged {
		pred := s.MeanBisoTLS(c)
		//the isotropic fit reproduces this field closely, so the mean
		//predicted B must land near the observed one
		if math.Abs(pred-obs) > 0.05*obs {
			Te.Errorf("predicted mean B %g far from observed %g", pred, obs)
		}
	}
}
