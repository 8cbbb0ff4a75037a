// SPDX-License-Identifier: MIT

// Package gemm multiplies distributed matrices: C := alpha*op(A)*op(B) +
// beta*C over a process grid, for any of the nine orientation pairs.
//
// What the package offers:
//
//	🚀 Gemm       - the driver: validates, picks an algorithm, and leaves
//	                the product in C under C's own distribution.
//	🚀 Product    - resizes C to op(A)*op(B)'s shape and computes with
//	                beta = 0.
//	🚀 LocalGemm  - communication-free multiply of already-aligned
//	                panels; misalignment is an error, never repaired.
//	🚀 LocalTrr2k - recursive triangular rank-2k update
//	                E := alpha*op(A)*op(B) + beta*op(C)*op(D) + gamma*E
//	                touching only one triangle of E.
//
// Algorithm families
//
// The default is stationary-C: C never moves; panels of A and B are
// redistributed and every process accumulates into its own slice of C.
// It works for every orientation pair. Two variants keep a different
// operand stationary and reduce partial products instead:
//
//	AlgStationaryA - A stays put (NN, NT); partial products are summed
//	                 across process rows.
//	AlgStationaryB - B stays put (NN, TN); partial products are summed
//	                 across process columns.
//	AlgCannon      - Cannon's shifting algorithm (NN on a square grid,
//	                 square operands divisible by the grid edge).
//
// A variant asked to handle an orientation pair outside its family fails
// with ErrAlgorithmUnsupported rather than silently falling back.
//
// Every entry point is a collective: all grid processes must call it with
// the same arguments, per the SPMD contract of package grid.
package gemm
