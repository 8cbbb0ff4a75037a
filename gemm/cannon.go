// SPDX-License-Identifier: MIT
// Package gemm: Cannon's algorithm. Valid on a square grid for square
// operands whose extent divides by the grid edge; with zero alignments
// the element-cyclic local blocks are exactly the residue classes of the
// global indices, so block shifts contract the right entries.

package gemm

import (
	"fmt"

	"github.com/katalvlaran/lvlblas/blas"
	"github.com/katalvlaran/lvlblas/dense"
	"github.com/katalvlaran/lvlblas/distmat"
	"github.com/katalvlaran/lvlblas/grid"
)

// cannon computes C := alpha*A*B + beta*C; c is [MC, MR] with zero
// alignments.
//
// Stage 1 (Validate): square grid, m == n == k, divisibility.
// Stage 2 (Skew): rotate A blocks left by the row index and B blocks up
// by the column index.
// Stage 3 (March): q rounds of local multiply plus single-step shifts.
func cannon[T dense.Scalar](opts Options[T], alpha T, a, b *distmat.Matrix[T], beta T, c *distmat.Matrix[T]) error {
	g := c.Grid()
	q := g.Height()
	if g.Width() != q {
		return fmt.Errorf("grid %dx%d is not square: %w", g.Height(), g.Width(), ErrCannonPrecondition)
	}
	m, n := c.Height(), c.Width()
	k := a.Width()
	if m != n || n != k {
		return fmt.Errorf("extents m=%d n=%d k=%d differ: %w", m, n, k, ErrCannonPrecondition)
	}
	if m%q != 0 {
		return fmt.Errorf("extent %d not divisible by grid edge %d: %w", m, q, ErrCannonPrecondition)
	}

	a2, err := asDist(a, distmat.MC, distmat.MR, 0, 0)
	if err != nil {
		return err
	}
	b2, err := asDist(b, distmat.MC, distmat.MR, 0, 0)
	if err != nil {
		return err
	}

	c.LocalDense().Scale(beta)

	// Compact mb x mb local blocks; Clone squeezes out any LD padding.
	mb := m / q
	aBuf := a2.LocalDense().Clone().Data()
	bBuf := b2.LocalDense().Clone().Data()

	p := c.Process()
	row, col := p.Row(), p.Col()
	if q > 1 {
		// Initial skew: process (i, j) takes A block (i, j+i) and
		// B block (i+j, j).
		aBuf, err = grid.SendRecvReplace(p.RowComm(), aBuf, (col-row+q)%q, (col+row)%q)
		if err != nil {
			return err
		}
		bBuf, err = grid.SendRecvReplace(p.ColComm(), bBuf, (row-col+q)%q, (row+col)%q)
		if err != nil {
			return err
		}
	}

	cd := c.LocalDense()
	ldb := maxInt(1, mb)
	for step := 0; step < q; step++ {
		if err := opts.Local.Gemm(blas.Normal, blas.Normal, mb, mb, mb, alpha,
			aBuf, ldb, bBuf, ldb, one[T](), cd.Data(), cd.LD()); err != nil {
			return err
		}
		if step == q-1 {
			break
		}
		// Shift A one step left along the row, B one step up the column.
		aBuf, err = grid.SendRecvReplace(p.RowComm(), aBuf, (col-1+q)%q, (col+1)%q)
		if err != nil {
			return err
		}
		bBuf, err = grid.SendRecvReplace(p.ColComm(), bBuf, (row-1+q)%q, (row+1)%q)
		if err != nil {
			return err
		}
	}

	return nil
}
