// SPDX-License-Identifier: MIT
// Package gemm: the recursive triangular rank-2k update. Only one
// triangle of E is written; the masks test GLOBAL indices, because a
// local buffer's own triangle means nothing once the matrix is cut
// cyclically across the grid.

package gemm

import (
	"fmt"

	"github.com/katalvlaran/lvlblas/blas"
	"github.com/katalvlaran/lvlblas/dense"
	"github.com/katalvlaran/lvlblas/distmat"
)

// LocalTrr2k updates one triangle of the square matrix E:
//
//	E := alpha*op(A)*op(B) + beta*op(C)*op(D) + gamma*E
//
// without communication. E must be [MC, MR]; A, B, C and D must carry
// the LocalGemm layouts for their orientations, aligned with E. The
// update recurses along the diagonal: off-diagonal quadrants are plain
// LocalGemm calls, diagonal quadrants descend until a leaf is formed in
// scratch and added triangle-only.
func LocalTrr2k[T dense.Scalar](opts Options[T], uplo dense.UpLo,
	orientA, orientB, orientC, orientD blas.Orientation,
	alpha T, a, b *distmat.Matrix[T],
	beta T, c, d *distmat.Matrix[T],
	gamma T, e *distmat.Matrix[T]) error {
	if a.Process() != e.Process() || b.Process() != e.Process() ||
		c.Process() != e.Process() || d.Process() != e.Process() {
		return fmt.Errorf("LocalTrr2k: %w", ErrGridMismatch)
	}
	if e.Height() != e.Width() {
		return fmt.Errorf("LocalTrr2k: E is %dx%d: %w", e.Height(), e.Width(), ErrNonSquare)
	}
	if e.ColDist() != distmat.MC || e.RowDist() != distmat.MR {
		return fmt.Errorf("LocalTrr2k: E is [%v, %v], need [MC, MR]: %w", e.ColDist(), e.RowDist(), ErrDistMismatch)
	}
	n := e.Height()
	if err := blas.CheckConformal(orientA, orientB,
		a.Height(), a.Width(), b.Height(), b.Width(), n, n); err != nil {
		return err
	}
	if err := blas.CheckConformal(orientC, orientD,
		c.Height(), c.Width(), d.Height(), d.Width(), n, n); err != nil {
		return err
	}

	return trr2k(opts, uplo, orientA, orientB, orientC, orientD, alpha, a, b, beta, c, d, gamma, e)
}

// trr2k is the recursion: halve along the diagonal until a leaf fits the
// kernel, handling the off-diagonal quadrant with two LocalGemm calls.
func trr2k[T dense.Scalar](opts Options[T], uplo dense.UpLo,
	orientA, orientB, orientC, orientD blas.Orientation,
	alpha T, a, b *distmat.Matrix[T],
	beta T, c, d *distmat.Matrix[T],
	gamma T, e *distmat.Matrix[T]) error {
	n := e.Height()
	if n == 0 {
		return nil
	}
	if n <= 1 || n < e.Grid().Width()*opts.trrBlocksize() {
		return trr2kKernel(opts, uplo, orientA, orientB, orientC, orientD, alpha, a, b, beta, c, d, gamma, e)
	}

	half := n / 2
	a1, a2, err := splitOpRows(a, orientA, half)
	if err != nil {
		return err
	}
	b1, b2, err := splitOpCols(b, orientB, half)
	if err != nil {
		return err
	}
	c1, c2, err := splitOpRows(c, orientC, half)
	if err != nil {
		return err
	}
	d1, d2, err := splitOpCols(d, orientD, half)
	if err != nil {
		return err
	}
	etl, err := distmat.View(e, 0, 0, half, half)
	if err != nil {
		return err
	}
	ebr, err := distmat.View(e, half, half, n-half, n-half)
	if err != nil {
		return err
	}

	// Off-diagonal quadrant: a full rectangular update, gamma folded into
	// the first multiply's beta.
	if uplo == dense.Lower {
		ebl, err := distmat.View(e, half, 0, n-half, half)
		if err != nil {
			return err
		}
		if err := LocalGemm(opts.Local, orientA, orientB, alpha, a2, b1, gamma, ebl); err != nil {
			return err
		}
		if err := LocalGemm(opts.Local, orientC, orientD, beta, c2, d1, one[T](), ebl); err != nil {
			return err
		}
	} else {
		etr, err := distmat.View(e, 0, half, half, n-half)
		if err != nil {
			return err
		}
		if err := LocalGemm(opts.Local, orientA, orientB, alpha, a1, b2, gamma, etr); err != nil {
			return err
		}
		if err := LocalGemm(opts.Local, orientC, orientD, beta, c1, d2, one[T](), etr); err != nil {
			return err
		}
	}

	if err := trr2k(opts, uplo, orientA, orientB, orientC, orientD, alpha, a1, b1, beta, c1, d1, gamma, etl); err != nil {
		return err
	}

	return trr2k(opts, uplo, orientA, orientB, orientC, orientD, alpha, a2, b2, beta, c2, d2, gamma, ebr)
}

// trr2kKernel is the leaf: scale E's triangle by gamma, update the
// off-diagonal quadrant in place, and form each diagonal quadrant in
// scratch so the dead triangle is never touched.
func trr2kKernel[T dense.Scalar](opts Options[T], uplo dense.UpLo,
	orientA, orientB, orientC, orientD blas.Orientation,
	alpha T, a, b *distmat.Matrix[T],
	beta T, c, d *distmat.Matrix[T],
	gamma T, e *distmat.Matrix[T]) error {
	n := e.Height()
	scaleTrapezoid(gamma, uplo, e)
	if n == 0 {
		return nil
	}

	half := n / 2
	a1, a2, err := splitOpRows(a, orientA, half)
	if err != nil {
		return err
	}
	b1, b2, err := splitOpCols(b, orientB, half)
	if err != nil {
		return err
	}
	c1, c2, err := splitOpRows(c, orientC, half)
	if err != nil {
		return err
	}
	d1, d2, err := splitOpCols(d, orientD, half)
	if err != nil {
		return err
	}
	etl, err := distmat.View(e, 0, 0, half, half)
	if err != nil {
		return err
	}
	ebr, err := distmat.View(e, half, half, n-half, n-half)
	if err != nil {
		return err
	}

	// Off-diagonal quadrant in place; gamma was already applied above.
	if uplo == dense.Lower {
		ebl, err := distmat.View(e, half, 0, n-half, half)
		if err != nil {
			return err
		}
		if err := LocalGemm(opts.Local, orientA, orientB, alpha, a2, b1, one[T](), ebl); err != nil {
			return err
		}
		if err := LocalGemm(opts.Local, orientC, orientD, beta, c2, d1, one[T](), ebl); err != nil {
			return err
		}
	} else {
		etr, err := distmat.View(e, 0, half, half, n-half)
		if err != nil {
			return err
		}
		if err := LocalGemm(opts.Local, orientA, orientB, alpha, a1, b2, one[T](), etr); err != nil {
			return err
		}
		if err := LocalGemm(opts.Local, orientC, orientD, beta, c1, d2, one[T](), etr); err != nil {
			return err
		}
	}

	// Diagonal quadrants: form the full square in scratch, add only the
	// live triangle.
	type quadrant struct {
		e          *distmat.Matrix[T]
		a, b, c, d *distmat.Matrix[T]
	}
	for _, q := range []quadrant{
		{e: etl, a: a1, b: b1, c: c1, d: d1},
		{e: ebr, a: a2, b: b2, c: c2, d: d2},
	} {
		if q.e.Height() == 0 {
			continue
		}
		f, err := distmat.NewWithAlign[T](e.Process(), distmat.MC, distmat.MR, q.e.ColAlign(), q.e.RowAlign())
		if err != nil {
			return err
		}
		if err := LocalGemmResize(opts.Local, orientA, orientB, alpha, q.a, q.b, f); err != nil {
			return err
		}
		if err := LocalGemm(opts.Local, orientC, orientD, beta, q.c, q.d, one[T](), f); err != nil {
			return err
		}
		if err := axpyTriangle(uplo, one[T](), f, q.e); err != nil {
			return err
		}
	}

	return nil
}

// splitOpRows cuts the operand so op(first) holds op rows [0, half) and
// op(second) the rest.
func splitOpRows[T dense.Scalar](a *distmat.Matrix[T], orient blas.Orientation, half int) (*distmat.Matrix[T], *distmat.Matrix[T], error) {
	if !orient.IsTrans() {
		first, err := distmat.View(a, 0, 0, half, a.Width())
		if err != nil {
			return nil, nil, err
		}
		second, err := distmat.View(a, half, 0, a.Height()-half, a.Width())

		return first, second, err
	}
	first, err := distmat.View(a, 0, 0, a.Height(), half)
	if err != nil {
		return nil, nil, err
	}
	second, err := distmat.View(a, 0, half, a.Height(), a.Width()-half)

	return first, second, err
}

// splitOpCols cuts the operand so op(first) holds op columns [0, half)
// and op(second) the rest.
func splitOpCols[T dense.Scalar](b *distmat.Matrix[T], orient blas.Orientation, half int) (*distmat.Matrix[T], *distmat.Matrix[T], error) {
	if !orient.IsTrans() {
		first, err := distmat.View(b, 0, 0, b.Height(), half)
		if err != nil {
			return nil, nil, err
		}
		second, err := distmat.View(b, 0, half, b.Height(), b.Width()-half)

		return first, second, err
	}
	first, err := distmat.View(b, 0, 0, half, b.Width())
	if err != nil {
		return nil, nil, err
	}
	second, err := distmat.View(b, half, 0, b.Height()-half, b.Width())

	return first, second, err
}

// inTriangle reports whether global entry (i, j) lies in the live
// triangle, diagonal included.
func inTriangle(uplo dense.UpLo, i, j int) bool {
	if uplo == dense.Lower {
		return i >= j
	}

	return i <= j
}

// scaleTrapezoid multiplies the live triangle of m by alpha in place;
// alpha == 0 writes exact zeros.
func scaleTrapezoid[T dense.Scalar](alpha T, uplo dense.UpLo, m *distmat.Matrix[T]) {
	local := m.LocalDense()
	for jLoc := 0; jLoc < m.LocalWidth(); jLoc++ {
		gj := m.GlobalCol(jLoc)
		for iLoc := 0; iLoc < m.LocalHeight(); iLoc++ {
			if !inTriangle(uplo, m.GlobalRow(iLoc), gj) {
				continue
			}
			if dense.IsZero(alpha) {
				var zero T
				_ = local.Set(iLoc, jLoc, zero)

				continue
			}
			v, _ := local.At(iLoc, jLoc)
			_ = local.Set(iLoc, jLoc, v*alpha)
		}
	}
}

// axpyTriangle adds alpha*x's live triangle into y. x and y must be
// identically shaped, distributed and aligned, so their local layouts
// coincide.
func axpyTriangle[T dense.Scalar](uplo dense.UpLo, alpha T, x, y *distmat.Matrix[T]) error {
	if x.Height() != y.Height() || x.Width() != y.Width() ||
		x.ColAlign() != y.ColAlign() || x.RowAlign() != y.RowAlign() ||
		x.ColDist() != y.ColDist() || x.RowDist() != y.RowDist() {
		return fmt.Errorf("axpyTriangle: layouts differ: %w", ErrDistMismatch)
	}
	for jLoc := 0; jLoc < y.LocalWidth(); jLoc++ {
		gj := y.GlobalCol(jLoc)
		for iLoc := 0; iLoc < y.LocalHeight(); iLoc++ {
			if !inTriangle(uplo, y.GlobalRow(iLoc), gj) {
				continue
			}
			v, err := x.LocalDense().At(iLoc, jLoc)
			if err != nil {
				return err
			}
			if err := y.LocalDense().Update(iLoc, jLoc, alpha*v); err != nil {
				return err
			}
		}
	}

	return nil
}
