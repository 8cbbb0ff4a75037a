// SPDX-License-Identifier: MIT
// Package dense: the generic numeric ring shared by local and distributed
// kernels. The Scalar constraint plus the capability helpers below (Conj,
// IsZero, AbsVal, FromFloat) are the only numeric operations the GEMM
// engine requires beyond +, -, *.

package dense

import (
	"math"
	"math/cmplx"
)

// Scalar is the numeric ring every lvlblas kernel is generic over:
// machine floats and machine complex types. Addition, subtraction and
// multiplication come from the language; conjugation and magnitude come
// from the helpers in this file. The constraint is over the exact builtin
// types (no ~) so the capability helpers can dispatch by dynamic type.
type Scalar interface {
	float32 | float64 | complex64 | complex128
}

// Conj returns the complex conjugate of v; for real types it returns v
// unchanged. Used element-wise by Adjoint orientations.
func Conj[T Scalar](v T) T {
	switch x := any(v).(type) {
	case complex64:
		return any(complex(real(x), -imag(x))).(T)
	case complex128:
		return any(cmplx.Conj(x)).(T)
	default:
		return v
	}
}

// IsZero reports whether v is exactly the additive identity.
// Degenerate beta == 0 paths key off this predicate so that the output is
// never read (NaN/uninitialized contents must not propagate).
func IsZero[T Scalar](v T) bool {
	var zero T

	return v == zero
}

// AbsVal returns |v| as a float64: absolute value for reals, modulus for
// complex values. Tolerance checks in tests and the benchmark harness are
// expressed through this single funnel.
func AbsVal[T Scalar](v T) float64 {
	switch x := any(v).(type) {
	case float32:
		return math.Abs(float64(x))
	case float64:
		return math.Abs(x)
	case complex64:
		return cmplx.Abs(complex128(x))
	case complex128:
		return cmplx.Abs(x)
	default:
		// Unreachable: the constraint admits exactly the four cases above.
		return 0
	}
}

// FromFloat converts a float64 into T (imaginary part zero for complex T).
// Deterministic test fixtures and the benchmark harness build their
// operands through this helper.
func FromFloat[T Scalar](f float64) T {
	var zero T
	switch any(zero).(type) {
	case complex64:
		return any(complex64(complex(f, 0))).(T)
	case complex128:
		return any(complex(f, 0)).(T)
	case float32:
		return any(float32(f)).(T)
	default:
		return any(f).(T)
	}
}
