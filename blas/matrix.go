// SPDX-License-Identifier: MIT
// Package blas: the dense.Dense wrapper around the flat kernel. The four
// conformality tables below mirror the contract every caller must satisfy;
// violating them is a caller bug surfaced immediately as ErrNonconformal.

package blas

import (
	"fmt"

	"github.com/katalvlaran/lvlblas/dense"
)

// GemmDense computes C := alpha*op(A)*op(B) + beta*C on Dense buffers,
// dispatching through cfg (host kernel or staged backend).
//
// Conformality, per orientation pair:
//
//	NN: A.h == C.h, B.w == C.w, A.w == B.h
//	NT: A.h == C.h, B.h == C.w, A.w == B.w
//	TN: A.w == C.h, B.w == C.w, A.h == B.h
//	TT: A.w == C.h, B.h == C.w, A.h == B.w
//
// Complexity: O(m*n*k).
func GemmDense[T dense.Scalar](cfg Config[T], orientA, orientB Orientation, alpha T, a, b *dense.Dense[T], beta T, c *dense.Dense[T]) error {
	if err := CheckConformal(orientA, orientB, a.Height(), a.Width(), b.Height(), b.Width(), c.Height(), c.Width()); err != nil {
		return err
	}
	m, n := c.Height(), c.Width()
	k := a.Width()
	if orientA.IsTrans() {
		k = a.Height()
	}

	return cfg.Gemm(orientA, orientB, m, n, k, alpha, a.Data(), a.LD(), b.Data(), b.LD(), beta, c.Data(), c.LD())
}

// CheckConformal validates the Gemm shape table for the given orientation
// pair against the stored operand dimensions. Returns ErrNonconformal on
// any violation (fail-fast; a caller bug, not a runtime condition).
func CheckConformal(orientA, orientB Orientation, ah, aw, bh, bw, ch, cw int) error {
	if !orientA.Valid() || !orientB.Valid() {
		return fmt.Errorf("Gemm(%v,%v): %w", orientA, orientB, ErrBadOrientation)
	}
	var ok bool
	switch {
	case !orientA.IsTrans() && !orientB.IsTrans():
		ok = ah == ch && bw == cw && aw == bh
	case !orientA.IsTrans():
		ok = ah == ch && bh == cw && aw == bw
	case !orientB.IsTrans():
		ok = aw == ch && bw == cw && ah == bh
	default:
		ok = aw == ch && bh == cw && ah == bw
	}
	if !ok {
		return fmt.Errorf("Gemm%s%s: A %dx%d, B %dx%d, C %dx%d: %w",
			orientTag(orientA), orientTag(orientB), ah, aw, bh, bw, ch, cw, ErrNonconformal)
	}

	return nil
}

// orientTag renders the one-letter BLAS tag used in error text.
func orientTag(o Orientation) string {
	switch o {
	case Normal:
		return "N"
	case Transpose:
		return "T"
	default:
		return "C"
	}
}
