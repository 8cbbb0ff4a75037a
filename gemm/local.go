// SPDX-License-Identifier: MIT
// Package gemm: LocalGemm. When the operands already carry conforming
// distributions and alignments, the distributed product is exactly one
// local multiply per process. The layout checks are always on: a
// misaligned call would quietly combine unrelated entries, so it fails
// instead.

package gemm

import (
	"fmt"

	"github.com/katalvlaran/lvlblas/blas"
	"github.com/katalvlaran/lvlblas/dense"
	"github.com/katalvlaran/lvlblas/distmat"
)

// LocalGemm computes C := alpha*op(A)*op(B) + beta*C without any
// communication. C must be [MC, MR]; the required layouts are
//
//	op(A) Normal:     A is [MC, Star], rows aligned with C
//	op(A) transposed: A is [Star, MC], columns aligned with C's rows
//	op(B) Normal:     B is [Star, MR], columns aligned with C
//	op(B) transposed: B is [MR, Star], rows aligned with C's columns
//
// so the contraction axis is fully replicated and each process multiplies
// its own slices.
func LocalGemm[T dense.Scalar](cfg blas.Config[T], orientA, orientB blas.Orientation, alpha T, a, b *distmat.Matrix[T], beta T, c *distmat.Matrix[T]) error {
	if a.Process() != c.Process() || b.Process() != c.Process() {
		return fmt.Errorf("LocalGemm: %w", ErrGridMismatch)
	}
	if err := blas.CheckConformal(orientA, orientB,
		a.Height(), a.Width(), b.Height(), b.Width(), c.Height(), c.Width()); err != nil {
		return err
	}
	if c.ColDist() != distmat.MC || c.RowDist() != distmat.MR {
		return fmt.Errorf("LocalGemm: C is [%v, %v], need [MC, MR]: %w", c.ColDist(), c.RowDist(), ErrDistMismatch)
	}

	if !orientA.IsTrans() {
		if a.ColDist() != distmat.MC || a.RowDist() != distmat.Star {
			return fmt.Errorf("LocalGemm: A is [%v, %v], need [MC, Star]: %w", a.ColDist(), a.RowDist(), ErrDistMismatch)
		}
		if a.ColAlign() != c.ColAlign() {
			return fmt.Errorf("LocalGemm: A colAlign %d vs C colAlign %d: %w", a.ColAlign(), c.ColAlign(), ErrAlignMismatch)
		}
	} else {
		if a.ColDist() != distmat.Star || a.RowDist() != distmat.MC {
			return fmt.Errorf("LocalGemm: A is [%v, %v], need [Star, MC]: %w", a.ColDist(), a.RowDist(), ErrDistMismatch)
		}
		if a.RowAlign() != c.ColAlign() {
			return fmt.Errorf("LocalGemm: A rowAlign %d vs C colAlign %d: %w", a.RowAlign(), c.ColAlign(), ErrAlignMismatch)
		}
	}
	if !orientB.IsTrans() {
		if b.ColDist() != distmat.Star || b.RowDist() != distmat.MR {
			return fmt.Errorf("LocalGemm: B is [%v, %v], need [Star, MR]: %w", b.ColDist(), b.RowDist(), ErrDistMismatch)
		}
		if b.RowAlign() != c.RowAlign() {
			return fmt.Errorf("LocalGemm: B rowAlign %d vs C rowAlign %d: %w", b.RowAlign(), c.RowAlign(), ErrAlignMismatch)
		}
	} else {
		if b.ColDist() != distmat.MR || b.RowDist() != distmat.Star {
			return fmt.Errorf("LocalGemm: B is [%v, %v], need [MR, Star]: %w", b.ColDist(), b.RowDist(), ErrDistMismatch)
		}
		if b.ColAlign() != c.RowAlign() {
			return fmt.Errorf("LocalGemm: B colAlign %d vs C rowAlign %d: %w", b.ColAlign(), c.RowAlign(), ErrAlignMismatch)
		}
	}

	return blas.GemmDense(cfg, orientA, orientB, alpha, a.LocalDense(), b.LocalDense(), beta, c.LocalDense())
}

// LocalGemmResize sets C to op(A)*op(B)'s shape and computes
// C := alpha*op(A)*op(B) with the same layout requirements as LocalGemm.
func LocalGemmResize[T dense.Scalar](cfg blas.Config[T], orientA, orientB blas.Orientation, alpha T, a, b *distmat.Matrix[T], c *distmat.Matrix[T]) error {
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

	return LocalGemm(cfg, orientA, orientB, alpha, a, b, zero, c)
}
