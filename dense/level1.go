// SPDX-License-Identifier: MIT
// Package dense: level-1-like helpers over Dense buffers, trapezoid
// scaling, triangular accumulate, and transpose/adjoint copies. These are
// the building blocks the triangular rank-2k kernel composes with Gemm.

package dense

import "fmt"

// UpLo selects the triangle of a square matrix an operation touches.
type UpLo int

const (
	// Lower selects entries with row >= col (diagonal included).
	Lower UpLo = iota
	// Upper selects entries with row <= col (diagonal included).
	Upper
)

// String implements fmt.Stringer for diagnostics.
func (u UpLo) String() string {
	if u == Lower {
		return "Lower"
	}

	return "Upper"
}

// ScaleTrapezoid multiplies the uplo trapezoid of m (diagonal included) by
// alpha, leaving the opposite triangle untouched. Works on rectangular m:
// the trapezoid is bounded by the main diagonal.
// Deterministic: fixed column-major loop order.
// Complexity: O(h*w).
func ScaleTrapezoid[T Scalar](alpha T, uplo UpLo, m *Dense[T]) {
	for j := 0; j < m.w; j++ {
		// Bound the scaled rows of column j by the diagonal.
		lo, hi := 0, m.h
		if uplo == Lower {
			lo = minInt(j, m.h)
		} else {
			hi = minInt(j+1, m.h)
		}
		col := m.data[j*m.ld : j*m.ld+m.h]
		if IsZero(alpha) {
			var zero T
			for i := lo; i < hi; i++ {
				col[i] = zero
			}
			continue
		}
		for i := lo; i < hi; i++ {
			col[i] *= alpha
		}
	}
}

// AxpyTriangle accumulates y_tri += alpha * x_tri on the uplo triangle of
// square, equally-shaped x and y (diagonal included).
// Complexity: O(n^2).
func AxpyTriangle[T Scalar](uplo UpLo, alpha T, x, y *Dense[T]) error {
	// Validate square, matching shapes before touching any element.
	if x.h != x.w {
		return fmt.Errorf("AxpyTriangle: %dx%d: %w", x.h, x.w, ErrNonSquare)
	}
	if x.h != y.h || x.w != y.w {
		return fmt.Errorf("AxpyTriangle: %dx%d vs %dx%d: %w", x.h, x.w, y.h, y.w, ErrShapeMismatch)
	}
	for j := 0; j < x.w; j++ {
		lo, hi := 0, x.h
		if uplo == Lower {
			lo = j
		} else {
			hi = j + 1
		}
		for i := lo; i < hi; i++ {
			y.data[i+j*y.ld] += alpha * x.data[i+j*x.ld]
		}
	}

	return nil
}

// Transpose returns a fresh w×h copy with out(j, i) = m(i, j).
// Complexity: O(h*w).
func Transpose[T Scalar](m *Dense[T]) *Dense[T] {
	out, _ := NewDense[T](m.w, m.h)
	for j := 0; j < m.w; j++ {
		for i := 0; i < m.h; i++ {
			out.data[j+i*out.ld] = m.data[i+j*m.ld]
		}
	}

	return out
}

// Adjoint returns a fresh w×h copy with out(j, i) = conj(m(i, j)).
// For real element types it coincides with Transpose.
// Complexity: O(h*w).
func Adjoint[T Scalar](m *Dense[T]) *Dense[T] {
	out, _ := NewDense[T](m.w, m.h)
	for j := 0; j < m.w; j++ {
		for i := 0; i < m.h; i++ {
			out.data[j+i*out.ld] = Conj(m.data[i+j*m.ld])
		}
	}

	return out
}

// minInt is a local helper mirroring maxInt in dense.go.
func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}
