// SPDX-License-Identifier: MIT
// Package blas: operand orientations. The same enum drives both the local
// kernel loop-nest selection and the distributed algorithm families.

package blas

// Orientation selects how an operand enters a product: as-is, transposed,
// or conjugate-transposed.
type Orientation int

const (
	// Normal uses the operand as stored.
	Normal Orientation = iota
	// Transpose uses the operand's transpose.
	Transpose
	// Adjoint uses the operand's conjugate transpose; for real element
	// types it coincides with Transpose.
	Adjoint
)

// String implements fmt.Stringer for diagnostics and error text.
func (o Orientation) String() string {
	switch o {
	case Normal:
		return "Normal"
	case Transpose:
		return "Transpose"
	case Adjoint:
		return "Adjoint"
	default:
		return "Orientation(?)"
	}
}

// Valid reports whether o is a member of the enum.
func (o Orientation) Valid() bool {
	return o == Normal || o == Transpose || o == Adjoint
}

// IsTrans reports whether the operand enters the product transposed
// (Transpose or Adjoint).
func (o Orientation) IsTrans() bool {
	return o == Transpose || o == Adjoint
}
