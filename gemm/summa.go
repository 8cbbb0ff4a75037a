// SPDX-License-Identifier: MIT
// Package gemm: the SUMMA variants. All three walk the same pattern:
// keep one operand stationary, stream panels of the others through the
// grid, and either accumulate locally (stationary-C) or reduce partial
// products along one grid axis (stationary-A/B).

package gemm

import (
	"github.com/katalvlaran/lvlblas/blas"
	"github.com/katalvlaran/lvlblas/dense"
	"github.com/katalvlaran/lvlblas/distmat"
	"github.com/katalvlaran/lvlblas/grid"
)

// sumC is stationary-C SUMMA for any orientation pair; c is [MC, MR].
// Each panel of op(A) arrives row-aligned with C and each panel of op(B)
// column-aligned, so every process accumulates with a purely local
// multiply.
//
// Complexity: O(k/blocksize) redistribution rounds.
func sumC[T dense.Scalar](opts Options[T], orientA, orientB blas.Orientation, alpha T, a, b *distmat.Matrix[T], beta T, c *distmat.Matrix[T]) error {
	c.LocalDense().Scale(beta)

	m, n := c.Height(), c.Width()
	k := a.Width()
	if orientA.IsTrans() {
		k = a.Height()
	}
	bs := opts.blocksize()
	for l := 0; l < k; l += bs {
		kb := minInt(bs, k-l)

		var a1 *distmat.Matrix[T]
		var err error
		if !orientA.IsTrans() {
			// A1 = A(:, l:l+kb) as [MC, Star], rows aligned with C.
			a1, err = panel(a, distmat.MC, distmat.Star, c.ColAlign(), 0, 0, l, m, kb)
		} else {
			// A1 = A(l:l+kb, :) as [Star, MC]; op(A1) rows align with C.
			a1, err = panel(a, distmat.Star, distmat.MC, 0, c.ColAlign(), l, 0, kb, m)
		}
		if err != nil {
			return err
		}

		var b1 *distmat.Matrix[T]
		if !orientB.IsTrans() {
			// B1 = B(l:l+kb, :) as [Star, MR], columns aligned with C.
			b1, err = panel(b, distmat.Star, distmat.MR, 0, c.RowAlign(), l, 0, kb, n)
		} else {
			// B1 = B(:, l:l+kb) as [MR, Star]; op(B1) columns align with C.
			b1, err = panel(b, distmat.MR, distmat.Star, c.RowAlign(), 0, 0, l, n, kb)
		}
		if err != nil {
			return err
		}

		if err := blas.GemmDense(opts.Local, orientA, orientB, alpha,
			a1.LocalDense(), b1.LocalDense(), one[T](), c.LocalDense()); err != nil {
			return err
		}
	}

	return nil
}

// sumA is stationary-A SUMMA; orientA is Normal and c is [MC, MR]. A is
// placed once as [MC, MR] row-aligned with C; panels of op(B) stream by,
// each process forms its partial product over its slice of the
// contraction axis, and a row-wise reduction completes each C panel.
func sumA[T dense.Scalar](opts Options[T], orientA, orientB blas.Orientation, alpha T, a, b *distmat.Matrix[T], beta T, c *distmat.Matrix[T]) error {
	a2, err := asDist(a, distmat.MC, distmat.MR, c.ColAlign(), 0)
	if err != nil {
		return err
	}
	c.LocalDense().Scale(beta)

	n, k := c.Width(), a.Width()
	mLoc := c.LocalHeight() // equals a2.LocalHeight(): same height and alignment
	kLoc := a2.LocalWidth()
	ld1 := maxInt(1, mLoc)
	bs := opts.blocksize()
	for j := 0; j < n; j += bs {
		nb := minInt(bs, n-j)

		var b1 *distmat.Matrix[T]
		if !orientB.IsTrans() {
			// B1 = B(:, j:j+nb) as [MR, Star]: contraction axis distributed
			// like A's columns.
			b1, err = panel(b, distmat.MR, distmat.Star, a2.RowAlign(), 0, 0, j, k, nb)
		} else {
			// B1 = B(j:j+nb, :) as [Star, MR]; op(B1) shares A's column
			// distribution.
			b1, err = panel(b, distmat.Star, distmat.MR, 0, a2.RowAlign(), j, 0, nb, k)
		}
		if err != nil {
			return err
		}

		// Partial product over this process's slice of the contraction.
		d1 := make([]T, mLoc*nb)
		if err := opts.Local.Gemm(blas.Normal, orientB, mLoc, nb, kLoc, alpha,
			a2.LocalDense().Data(), a2.LocalDense().LD(),
			b1.LocalDense().Data(), b1.LocalDense().LD(),
			dense.FromFloat[T](0), d1, ld1); err != nil {
			return err
		}

		// Complete the contraction across the process row.
		if err := grid.AllReduceSum(c.Process().RowComm(), d1); err != nil {
			return err
		}

		// Fold the owned columns of the finished panel into C.
		for jj := j; jj < j+nb; jj++ {
			jLoc, ok := c.LocalCol(jj)
			if !ok {
				continue
			}
			for iLoc := 0; iLoc < mLoc; iLoc++ {
				if err := c.LocalDense().Update(iLoc, jLoc, d1[iLoc+(jj-j)*mLoc]); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// sumB is stationary-B SUMMA; orientB is Normal and c is [MC, MR]. The
// mirror of sumA: B is placed once column-aligned with C, panels of
// op(A) stream by, and partial products are reduced down each process
// column.
func sumB[T dense.Scalar](opts Options[T], orientA, orientB blas.Orientation, alpha T, a, b *distmat.Matrix[T], beta T, c *distmat.Matrix[T]) error {
	b2, err := asDist(b, distmat.MC, distmat.MR, 0, c.RowAlign())
	if err != nil {
		return err
	}
	c.LocalDense().Scale(beta)

	m, k := c.Height(), b.Height()
	nLoc := c.LocalWidth() // equals b2.LocalWidth(): same width and alignment
	kLoc := b2.LocalHeight()
	bs := opts.blocksize()
	for i := 0; i < m; i += bs {
		nb := minInt(bs, m-i)

		var a1 *distmat.Matrix[T]
		if !orientA.IsTrans() {
			// A1 = A(i:i+nb, :) as [Star, MC]: contraction axis distributed
			// like B's rows.
			a1, err = panel(a, distmat.Star, distmat.MC, 0, b2.ColAlign(), i, 0, nb, k)
		} else {
			// A1 = A(:, i:i+nb) as [MC, Star]; op(A1) shares B's row
			// distribution.
			a1, err = panel(a, distmat.MC, distmat.Star, b2.ColAlign(), 0, 0, i, k, nb)
		}
		if err != nil {
			return err
		}

		d1 := make([]T, nb*nLoc)
		if err := opts.Local.Gemm(orientA, blas.Normal, nb, nLoc, kLoc, alpha,
			a1.LocalDense().Data(), a1.LocalDense().LD(),
			b2.LocalDense().Data(), b2.LocalDense().LD(),
			dense.FromFloat[T](0), d1, maxInt(1, nb)); err != nil {
			return err
		}

		// Complete the contraction down the process column.
		if err := grid.AllReduceSum(c.Process().ColComm(), d1); err != nil {
			return err
		}

		// Fold the owned rows of the finished panel into C.
		for ii := i; ii < i+nb; ii++ {
			iLoc, ok := c.LocalRow(ii)
			if !ok {
				continue
			}
			for jLoc := 0; jLoc < nLoc; jLoc++ {
				if err := c.LocalDense().Update(iLoc, jLoc, d1[(ii-i)+jLoc*nb]); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// minInt and maxInt are local helpers; kept unexported.
func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}
