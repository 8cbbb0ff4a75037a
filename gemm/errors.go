// SPDX-License-Identifier: MIT
// Package gemm: sentinel error set (unified, consistent).
// Shape errors reuse blas.ErrNonconformal so callers match one sentinel
// for local and distributed products alike.

package gemm

import "errors"

var (
	// ErrGridMismatch indicates operands living on different grids or
	// different processes of one grid.
	ErrGridMismatch = errors.New("gemm: operands on different grids")

	// ErrDistMismatch indicates a LocalGemm operand whose distribution
	// pair does not match the requested orientation's required layout.
	ErrDistMismatch = errors.New("gemm: distribution mismatch")

	// ErrAlignMismatch indicates LocalGemm operands whose alignments do
	// not line up; the multiply would silently combine wrong entries.
	ErrAlignMismatch = errors.New("gemm: alignment mismatch")

	// ErrAlgorithmUnsupported indicates an algorithm variant asked to
	// handle an orientation pair outside its family.
	ErrAlgorithmUnsupported = errors.New("gemm: algorithm does not support this orientation pair")

	// ErrCannonPrecondition indicates Cannon's requirements are not met:
	// square grid, m == n == k, extents divisible by the grid edge.
	ErrCannonPrecondition = errors.New("gemm: Cannon preconditions not met")

	// ErrNonSquare indicates a triangular update target that is not
	// globally square.
	ErrNonSquare = errors.New("gemm: matrix must be square")
)
