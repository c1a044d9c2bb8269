/*
 * analysis.go, part of gotlsmd.
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
	"os"
	"time"

	"github.com/charmbracelet/log"
)

//logger reports analysis progress. The default stays quiet below warnings;
//callers that want the chatty per-chain progress of the original program
//can install their own with SetLogger.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	Level:  log.WarnLevel,
	Prefix: "tlsmd",
})

//SetLogger replaces the package logger. A nil argument is ignored.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

//Analysis is the result of analyzing one chain: the segment database and
//one partition per requested group count. Partitions[k-1] is nil when no
//k-way tiling of the chain exists. All of it is immutable once returned.
type Analysis struct {
	Chain      *Chain
	Options    *Options
	DB         *SegmentDatabase
	Partitions []*Partition
}

//AnalyzeChain runs the whole two-stage optimization on one chain: it fits
//a TLS model to every admissible contiguous subsegment, then computes the
//minimum-residual partition of the chain into exactly k groups for every
//k up to o.MaxGroups. A nil o means DefaultOptions.
//
//Input validation failures and a cancelled database build are hard errors.
//Cancellation during the partition sweeps instead returns the analysis
//with the partitions completed so far, alongside the context's error.
func AnalyzeChain(ctx context.Context, chain *Chain, o *Options) (*Analysis, error) {
	if o == nil {
		o = DefaultOptions()
	}
	if chain == nil || chain.Len() == 0 {
		return nil, CError{"nil or empty chain", []string{"AnalyzeChain"}}
	}
	if err := o.validate(); err != nil {
		return nil, errDecorate(err, "AnalyzeChain")
	}

	start := time.Now()
	logger.Info("analyzing chain", "chain", chain.ID(), "residues", chain.NumResidues(),
		"atoms", chain.Len(), "minlen", o.MinLen, "maxgroups", o.MaxGroups)

	db, err := BuildSegmentDatabase(ctx, chain, o)
	if err != nil {
		return nil, err
	}
	logger.Info("segment database built", "chain", chain.ID(), "segments", db.Len(),
		"elapsed", time.Since(start))

	a := &Analysis{Chain: chain, Options: o, DB: db}
	a.Partitions, err = db.Optimize(ctx, o.MaxGroups)
	if err != nil {
		//completed group counts are still valid
		return a, err
	}
	for k, p := range a.Partitions {
		if p == nil {
			logger.Info("no feasible partition", "chain", chain.ID(), "groups", k+1)
			continue
		}
		logger.Info("partition", "chain", chain.ID(), "groups", k+1, "residual", p.Residual)
	}
	logger.Info("chain analysis done", "chain", chain.ID(), "elapsed", time.Since(start))
	return a, nil
}

//Partition returns the optimal partition into exactly k groups, or nil if
//k is out of range or infeasible.
func (A *Analysis) Partition(k int) *Partition {
	if k < 1 || k > len(A.Partitions) {
		return nil
	}
	return A.Partitions[k-1]
}
