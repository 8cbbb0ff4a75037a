// SPDX-License-Identifier: MIT
// Package gemm: the driver. Validation and algorithm dispatch live here;
// the variants themselves are in summa.go and cannon.go.

package gemm

import (
	"fmt"

	"github.com/katalvlaran/lvlblas/blas"
	"github.com/katalvlaran/lvlblas/dense"
	"github.com/katalvlaran/lvlblas/distmat"
)

// Gemm computes C := alpha*op(A)*op(B) + beta*C across the grid. A, B
// and C may carry any valid distribution pair; when C is not [MC, MR]
// with the required alignment, the product is formed in a temporary and
// redistributed back. A collective over the shared grid.
//
// Stage 1 (Validate): shared grid, orientations, global conformality.
// Stage 2 (Degenerate): k == 0 or alpha == 0 reduces to C := beta*C.
// Stage 3 (Execute): dispatch to the selected algorithm variant.
func Gemm[T dense.Scalar](opts Options[T], orientA, orientB blas.Orientation, alpha T, a, b *distmat.Matrix[T], beta T, c *distmat.Matrix[T]) error {
	if a.Process() != c.Process() || b.Process() != c.Process() {
		return fmt.Errorf("Gemm: %w", ErrGridMismatch)
	}
	if err := blas.CheckConformal(orientA, orientB,
		a.Height(), a.Width(), b.Height(), b.Width(), c.Height(), c.Width()); err != nil {
		return err
	}

	k := a.Width()
	if orientA.IsTrans() {
		k = a.Height()
	}
	if k == 0 || dense.IsZero(alpha) {
		// Pure scale; every replica scales its own copy, no communication.
		c.LocalDense().Scale(beta)

		return nil
	}

	// The variants compute into a [MC, MR] target. Cannon additionally
	// needs both alignments at zero.
	direct := c.ColDist() == distmat.MC && c.RowDist() == distmat.MR
	if opts.Alg == AlgCannon {
		direct = direct && c.ColAlign() == 0 && c.RowAlign() == 0
	}
	if direct {
		return dispatch(opts, orientA, orientB, alpha, a, b, beta, c)
	}

	tmp, err := distmat.Redist(c, distmat.MC, distmat.MR, 0, 0)
	if err != nil {
		return err
	}
	if err := dispatch(opts, orientA, orientB, alpha, a, b, beta, tmp); err != nil {
		return err
	}

	return c.CopyFrom(tmp, 0, 0)
}

// dispatch routes to the algorithm variant; c is [MC, MR].
func dispatch[T dense.Scalar](opts Options[T], orientA, orientB blas.Orientation, alpha T, a, b *distmat.Matrix[T], beta T, c *distmat.Matrix[T]) error {
	switch opts.Alg {
	case AlgDefault:
		return sumC(opts, orientA, orientB, alpha, a, b, beta, c)
	case AlgStationaryA:
		if orientA.IsTrans() {
			return fmt.Errorf("StationaryA with op(A) transposed: %w", ErrAlgorithmUnsupported)
		}

		return sumA(opts, orientA, orientB, alpha, a, b, beta, c)
	case AlgStationaryB:
		if orientB.IsTrans() {
			return fmt.Errorf("StationaryB with op(B) transposed: %w", ErrAlgorithmUnsupported)
		}

		return sumB(opts, orientA, orientB, alpha, a, b, beta, c)
	case AlgCannon:
		if orientA.IsTrans() || orientB.IsTrans() {
			return fmt.Errorf("Cannon with transposed operands: %w", ErrAlgorithmUnsupported)
		}

		return cannon(opts, alpha, a, b, beta, c)
	default:
		return fmt.Errorf("algorithm %v: %w", opts.Alg, ErrAlgorithmUnsupported)
	}
}

// Product resizes C to op(A)*op(B)'s shape and computes the product with
// beta = 0, discarding C's previous contents.
func Product[T dense.Scalar](opts Options[T], orientA, orientB blas.Orientation, alpha T, a, b *distmat.Matrix[T], c *distmat.Matrix[T]) error {
	m, n := a.Height(), b.Width()
	if orientA.IsTrans() {
		m = a.Width()
	}
	if orientB.IsTrans() {
		n = b.Height()
	}
	if err := c.Resize(m, n); err != nil {
		return err
	}

	var zero T

	return Gemm(opts, orientA, orientB, alpha, a, b, zero, c)
}

// asDist returns src itself when it already carries the requested layout,
// otherwise a redistributed copy. The short-circuit is decided from SPMD
// state, so every process takes the same branch.
func asDist[T dense.Scalar](src *distmat.Matrix[T], colDist, rowDist distmat.Dist, colAlign, rowAlign int) (*distmat.Matrix[T], error) {
	if src.ColDist() == colDist && src.RowDist() == rowDist &&
		src.ColAlign() == colAlign && src.RowAlign() == rowAlign {
		return src, nil
	}

	return distmat.Redist(src, colDist, rowDist, colAlign, rowAlign)
}

// panel allocates an empty h x w matrix with the given layout and fills
// it from src's window at (i0, j0). One collective redistribution.
func panel[T dense.Scalar](src *distmat.Matrix[T], colDist, rowDist distmat.Dist, colAlign, rowAlign, i0, j0, h, w int) (*distmat.Matrix[T], error) {
	dst, err := distmat.NewWithAlign[T](src.Process(), colDist, rowDist, colAlign, rowAlign)
	if err != nil {
		return nil, err
	}
	if err := dst.Resize(h, w); err != nil {
		return nil, err
	}
	if err := dst.CopyFrom(src, i0, j0); err != nil {
		return nil, err
	}

	return dst, nil
}

// one is the multiplicative identity in T.
func one[T dense.Scalar]() T { return dense.FromFloat[T](1) }
