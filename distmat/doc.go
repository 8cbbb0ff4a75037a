// SPDX-License-Identifier: MIT

// Package distmat stores a dense matrix element-cyclically across a
// process grid and moves data between distributions.
//
// A distribution pair (colDist, rowDist) says how global rows and global
// columns map onto grid coordinates:
//
//	[MC, MR ]  - rows cycle over grid rows, columns over grid columns;
//	             the standard layout computation happens in.
//	[MC, Star] - rows cycle over grid rows, columns fully replicated
//	             within each grid row.
//	[Star, MR] - columns cycle over grid columns, rows replicated.
//	[VC, Star] - rows cycle over ALL processes in column-major order.
//	[VR, Star] - rows cycle over ALL processes in row-major order.
//	[Star,Star]- every process holds the whole matrix.
//
// plus the transposes of the partial pairs. With wrap w and alignment a,
// global index g lives at coordinate (g + a) mod w, and the process at
// coordinate t holds the indices congruent to its shift
// (t - a + w) mod w, stored contiguously in a local dense.Dense.
//
// What the package offers:
//
//	🚀 Matrix        - the distributed matrix: global shape, local buffer,
//	                   alignments, and index arithmetic.
//	🚀 QueueUpdate   - buffer additive updates to arbitrary global
//	                   entries; ProcessQueues routes and applies them.
//	🚀 Redist        - rebuild the same global matrix under any other
//	                   valid distribution pair and alignment.
//	🚀 GatherAll     - assemble the full matrix on every process.
//	🚀 View          - a window onto a sub-rectangle sharing local storage.
//
// All cross-process methods are collectives: every process of the grid
// must call them in the same order (the SPMD contract of package grid).
// Replicated axes follow a canonical-source rule, so redistribution
// always moves exactly one copy of each entry.
package distmat
