/*
 * partition.go, part of gotlsmd.
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
	"math"
	"sort"
)

//Partition is an ordered sequence of segments whose ranges exactly tile
//the whole chain. Residual is the sum of the member residuals. A partition
//is immutable once produced.
type Partition struct {
	Segments []*Segment
	Residual float64
}

//NumGroups returns the number of segments in the partition.
func (P *Partition) NumGroups() int {
	return len(P.Segments)
}

//Optimize computes, for every k in [1,maxGroups], the minimum-total-residual
//partition of the chain into exactly k database segments. The segment graph
//is a DAG over the N+1 residue boundaries (each segment is a forward edge
//weighted by its residual), so the constrained shortest path is a dynamic
//program over (boundary, edges used). Ties are broken toward the smallest
//start boundary, which makes the result reproducible.
//
//The returned slice has maxGroups entries; entry k-1 is nil when no k-way
//tiling exists, which is a per-k feasibility condition and not an error.
//Cancellation between the per-k sweeps returns the partitions completed so
//far together with the context's error.
func (db *SegmentDatabase) Optimize(ctx context.Context, maxGroups int) ([]*Partition, error) {
	if maxGroups < 1 {
		return nil, CError{"maximum group count must be at least 1", []string{"Optimize"}}
	}
	n := db.N
	parts := make([]*Partition, maxGroups)

	//edges grouped by end boundary, sorted by start for deterministic
	//tie-breaking
	byEnd := make([][]*Segment, n+1)
	for _, s := range db.Segs {
		byEnd[s.End] = append(byEnd[s.End], s)
	}
	for _, segs := range byEnd {
		sort.Slice(segs, func(i, j int) bool { return segs[i].Start < segs[j].Start })
	}

	inf := math.Inf(1)
	cost := make([][]float64, n+1) //cost[b][j]: best total residual to boundary b with exactly j edges
	pred := make([][]int, n+1)
	for b := 0; b <= n; b++ {
		cost[b] = make([]float64, maxGroups+1)
		pred[b] = make([]int, maxGroups+1)
		for j := 0; j <= maxGroups; j++ {
			cost[b][j] = inf
			pred[b][j] = -1
		}
	}
	cost[0][0] = 0

	for j := 1; j <= maxGroups; j++ {
		select {
		case <-ctx.Done():
			return parts, ctx.Err()
		default:
		}
		for e := 1; e <= n; e++ {
			for _, s := range byEnd[e] {
				prev := cost[s.Start][j-1]
				if math.IsInf(prev, 1) {
					continue
				}
				c := prev + s.Cost()
				if c < cost[e][j] {
					cost[e][j] = c
					pred[e][j] = s.Start
				}
			}
		}
		parts[j-1] = db.backtrack(cost, pred, j)
	}
	return parts, nil
}

//backtrack reconstructs the optimal k-segment partition from the DP
//tables, or returns nil when boundary N is unreachable with exactly k
//edges.
func (db *SegmentDatabase) backtrack(cost [][]float64, pred [][]int, k int) *Partition {
	if math.IsInf(cost[db.N][k], 1) {
		return nil
	}
	segs := make([]*Segment, k)
	e := db.N
	for j := k; j >= 1; j-- {
		s := pred[e][j]
		segs[j-1] = db.Segs[[2]int{s, e}]
		e = s
	}
	return &Partition{Segments: segs, Residual: cost[db.N][k]}
}
