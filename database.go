/*
 * database.go, part of gotlsmd.
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
	"context"
	"runtime"

	"github.com/tlsmd/gotlsmd/tls"
	"golang.org/x/sync/errgroup"
)

//Segment is one candidate TLS group: the residues [Start,End) of a chain
//together with the fitted model and its residual.
type Segment struct {
	Start int
	End   int
	Fit   *tls.Result
}

//Len returns the segment length in residues.
func (S *Segment) Len() int {
	return S.End - S.Start
}

//Cost returns the residual of a converged fit and +Inf for a degenerate
//one, which keeps degenerate segments out of every optimal partition.
func (S *Segment) Cost() float64 {
	return S.Fit.Cost()
}

//MeanBisoObs returns the weighted mean observed B factor over the segment.
func (S *Segment) MeanBisoObs(c *Chain) float64 {
	return tls.U2B * c.RangeMeanUiso(S.Start, S.End)
}

//MeanBisoTLS returns the weighted mean B factor the fitted model predicts
//over the segment, or 0 when the fit is degenerate.
func (S *Segment) MeanBisoTLS(c *Chain) float64 {
	if S.Fit == nil {
		return 0
	}
	var sum, w float64
	for _, a := range c.RangeAtoms(S.Start, S.End) {
		var uiso float64
		switch {
		case S.Fit.Iso != nil:
			uiso = S.Fit.Iso.PredictUiso(a.Pos)
		case S.Fit.Aniso != nil:
			uiso = S.Fit.Aniso.PredictU(a.Pos).Iso()
		default:
			return 0
		}
		sum += uiso * a.Weight
		w += a.Weight
	}
	if w <= 0 {
		return 0
	}
	return tls.U2B * sum / w
}

//SegmentDatabase holds the fit result of every admissible contiguous
//subsegment of one chain, keyed by its [start,end) residue range. It is
//filled once by BuildSegmentDatabase and read-only afterwards, so any
//number of readers may share it without locking. The exported fields exist
//for serialization; treat them as frozen.
type SegmentDatabase struct {
	ChainID string
	N       int //residues in the chain
	MinLen  int
	Segs    map[[2]int]*Segment
}

//Segment returns the fit for the residue range [start,end), or nil if the
//range is outside the chain or shorter than the minimum length.
func (db *SegmentDatabase) Segment(start, end int) *Segment {
	return db.Segs[[2]int{start, end}]
}

//Len returns the number of stored segments.
func (db *SegmentDatabase) Len() int {
	return len(db.Segs)
}

//BuildSegmentDatabase enumerates every contiguous residue range of the
//chain with at least o.MinLen residues and fits a TLS model to each. The
//fits are independent pure computations over the immutable chain, so they
//run on a pool of o.Cpus workers. Degenerate fits are stored too; they just
//carry infinite cost. The only hard failures are invalid options and
//cancellation of ctx, which abandons the build.
func BuildSegmentDatabase(ctx context.Context, chain *Chain, o *Options) (*SegmentDatabase, error) {
	if chain == nil || chain.Len() == 0 {
		return nil, CError{"nil or empty chain", []string{"BuildSegmentDatabase"}}
	}
	if err := o.validate(); err != nil {
		return nil, errDecorate(err, "BuildSegmentDatabase")
	}
	n := chain.NumResidues()

	type key = [2]int
	var keys []key
	for start := 0; start < n; start++ {
		for end := start + o.MinLen; end <= n; end++ {
			keys = append(keys, key{start, end})
		}
	}
	out := make([]*Segment, len(keys))

	workers := o.Cpus
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	strat := tls.NewStrategy(o.fitConfig())

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	g.Go(func() error {
		defer close(jobs)
		for i := range keys {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				k := keys[i]
				out[i] = &Segment{
					Start: k[0],
					End:   k[1],
					Fit:   strat.Fit(chain.RangeFitData(k[0], k[1])),
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	db := &SegmentDatabase{
		ChainID: chain.ID(),
		N:       n,
		MinLen:  o.MinLen,
		Segs:    make(map[[2]int]*Segment, len(keys)),
	}
	for i, k := range keys {
		db.Segs[k] = out[i]
	}
	return db, nil
}
