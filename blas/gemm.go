// SPDX-License-Identifier: MIT
// Package blas: the flat sequential Gemm kernel. Column-major, explicit
// leading dimensions, one loop nest per orientation family. Accumulation is
// pairwise sequential in a fixed order, so results are reproducible run
// over run on the same inputs.

package blas

import (
	"fmt"

	"github.com/katalvlaran/lvlblas/dense"
)

// Gemm computes C := alpha*op(A)*op(B) + beta*C on flat column-major
// buffers, where op is selected by transA/transB and C is m×n with
// contraction length k.
//
// Shapes: op(A) is m×k (A stored m×k when Normal, k×m otherwise);
// op(B) is k×n (B stored k×n when Normal, n×k otherwise).
//
// Degeneracies: k == 0 (or alpha == 0) reduces to C := beta*C; beta == 0
// zeroes C first and never reads it.
//
// Stage 1 (Validate): orientations, dimensions, strides, slice lengths.
// Stage 2 (Prepare): apply the beta prologue to C.
// Stage 3 (Execute): run the orientation-specific loop nest.
// Complexity: O(m*n*k).
func Gemm[T dense.Scalar](transA, transB Orientation, m, n, k int, alpha T, a []T, lda int, b []T, ldb int, beta T, c []T, ldc int) error {
	if err := validateFlat(transA, transB, m, n, k, a, lda, b, ldb, c, ldc); err != nil {
		return err
	}

	// Prologue: C := beta*C. beta == 0 writes exact zeros (never reads C).
	scaleRect(beta, m, n, c, ldc)

	// The product term contributes nothing when the contraction is empty.
	if k == 0 || dense.IsZero(alpha) {
		return nil
	}

	conjA := transA == Adjoint
	conjB := transB == Adjoint
	switch {
	case !transA.IsTrans() && !transB.IsTrans():
		// NN: saxpy-style update, streaming down columns of A.
		for j := 0; j < n; j++ {
			for l := 0; l < k; l++ {
				tmp := alpha * b[l+j*ldb]
				for i := 0; i < m; i++ {
					c[i+j*ldc] += tmp * a[i+l*lda]
				}
			}
		}
	case !transA.IsTrans():
		// N(T/C): B is n×k; op(B)(l,j) = b[j + l*ldb], conjugated on demand.
		for j := 0; j < n; j++ {
			for l := 0; l < k; l++ {
				bv := b[j+l*ldb]
				if conjB {
					bv = dense.Conj(bv)
				}
				tmp := alpha * bv
				for i := 0; i < m; i++ {
					c[i+j*ldc] += tmp * a[i+l*lda]
				}
			}
		}
	case !transB.IsTrans():
		// (T/C)N: A is k×m; dot-product form over the shared k index.
		for j := 0; j < n; j++ {
			for i := 0; i < m; i++ {
				var sum T
				for l := 0; l < k; l++ {
					av := a[l+i*lda]
					if conjA {
						av = dense.Conj(av)
					}
					sum += av * b[l+j*ldb]
				}
				c[i+j*ldc] += alpha * sum
			}
		}
	default:
		// (T/C)(T/C): A is k×m, B is n×k.
		for j := 0; j < n; j++ {
			for i := 0; i < m; i++ {
				var sum T
				for l := 0; l < k; l++ {
					av := a[l+i*lda]
					if conjA {
						av = dense.Conj(av)
					}
					bv := b[j+l*ldb]
					if conjB {
						bv = dense.Conj(bv)
					}
					sum += av * bv
				}
				c[i+j*ldc] += alpha * sum
			}
		}
	}

	return nil
}

// scaleRect applies X := beta*X to an m×n column-major window; beta == 0
// stores exact zeros so poisoned contents never propagate.
func scaleRect[T dense.Scalar](beta T, m, n int, x []T, ldx int) {
	switch {
	case dense.IsZero(beta):
		var zero T
		for j := 0; j < n; j++ {
			col := x[j*ldx : j*ldx+m]
			for i := range col {
				col[i] = zero
			}
		}
	case beta == fromInt[T](1):
		// Identity scale: leave C untouched.
	default:
		for j := 0; j < n; j++ {
			col := x[j*ldx : j*ldx+m]
			for i := range col {
				col[i] *= beta
			}
		}
	}
}

// validateFlat enforces the flat-call preconditions: enum membership,
// non-negative dimensions, covering strides and sufficient slice lengths.
func validateFlat[T dense.Scalar](transA, transB Orientation, m, n, k int, a []T, lda int, b []T, ldb int, c []T, ldc int) error {
	if !transA.Valid() || !transB.Valid() {
		return fmt.Errorf("Gemm(%v,%v): %w", transA, transB, ErrBadOrientation)
	}
	if m < 0 || n < 0 || k < 0 {
		return fmt.Errorf("Gemm: m=%d n=%d k=%d: %w", m, n, k, ErrNonconformal)
	}

	// Stored shapes of the three buffers.
	aRows, aCols := m, k
	if transA.IsTrans() {
		aRows, aCols = k, m
	}
	bRows, bCols := k, n
	if transB.IsTrans() {
		bRows, bCols = n, k
	}
	if err := checkOperand("A", a, lda, aRows, aCols); err != nil {
		return err
	}
	if err := checkOperand("B", b, ldb, bRows, bCols); err != nil {
		return err
	}

	return checkOperand("C", c, ldc, m, n)
}

// checkOperand validates one flat buffer against its declared shape.
func checkOperand[T dense.Scalar](name string, x []T, ldx, rows, cols int) error {
	if ldx < rows || ldx < 1 {
		return fmt.Errorf("Gemm %s: ld=%d rows=%d: %w", name, ldx, rows, ErrBadLeadingDim)
	}
	if rows == 0 || cols == 0 {
		return nil // empty operand needs no storage
	}
	if need := ldx*(cols-1) + rows; len(x) < need {
		return fmt.Errorf("Gemm %s: len=%d need=%d: %w", name, len(x), need, ErrShortSlice)
	}

	return nil
}

// fromInt lifts a small integer constant into the scalar ring.
func fromInt[T dense.Scalar](v int) T {
	return dense.FromFloat[T](float64(v))
}
