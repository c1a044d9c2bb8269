/*
 * doc.go, part of gotlsmd.
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

/*Package tlsmd partitions a protein chain into contiguous rigid-body
segments that best explain its observed crystallographic displacement data,
using the Translation/Libration/Screw (TLS) motion model.

The analysis runs in two stages. First, a TLS model is fit by weighted least
squares to every contiguous residue range of the chain above a minimum
length, and the fit residual of each range is recorded in a segment
database. Second, the database is treated as a directed acyclic graph over
the residue boundaries of the chain, and for every group count k up to a
configured maximum, the partition of the whole chain into exactly k
segments with the smallest total residual is found by dynamic programming.

	**What this library does**

    Holds a chain of atoms with their positions, displacement data and
	fitting weights, with aggregate queries over residue ranges.

    Fits the 20-parameter anisotropic TLS model, or the 10-parameter
	isotropic one, to any atom set (subpackage tls); linear fits go
	through a rank-revealing SVD, origin refinement through a
	Levenberg-Marquardt loop.

    Builds the O(N^2) segment database concurrently, with cancellation.

    Computes the optimal k-group partition for every k, with per-k
	feasibility reporting.

    Persists a built database as a unit (zstd-compressed gob), and
	exports results as JSON for external report generators (subpackage
	tlsjson).

Reading structure files, generating reports or refinement input, and
everything user-facing is deliberately left to external collaborators; this
library is only the optimization core.
*/
package tlsmd
