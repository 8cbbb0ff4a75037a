// SPDX-License-Identifier: MIT
// Package dense: sentinel error set (unified, consistent).
// This file defines ONLY package-level sentinel errors used across the dense
// package. All operations MUST return these sentinels and tests MUST check
// them via errors.Is. No operation panics on user-triggered conditions.

package dense

import "errors"

var (
	// ErrBadShape is returned when a requested shape is invalid (h < 0 or w < 0,
	// or h == 0 / w == 0 where a non-empty matrix is required by the caller).
	ErrBadShape = errors.New("dense: invalid shape")

	// ErrBadLeadingDim is returned when a leading dimension is smaller than
	// max(1, height); the column stride must cover a full column.
	ErrBadLeadingDim = errors.New("dense: leading dimension too small")

	// ErrOutOfRange indicates a row or column index outside [0, dim).
	// Public indexers (At/Set/Update) MUST return this, not panic.
	ErrOutOfRange = errors.New("dense: index out of range")

	// ErrShapeMismatch indicates incompatible dimensions between operands of
	// an element-wise operation (AxpyTriangle, Equal, CopyFrom).
	ErrShapeMismatch = errors.New("dense: shape mismatch")

	// ErrResizeView is returned when Resize is attempted on a non-owning view;
	// only the owning parent may reallocate storage.
	ErrResizeView = errors.New("dense: cannot resize a view")

	// ErrNonSquare signals that a square matrix was required but the input
	// was rectangular (triangle helpers).
	ErrNonSquare = errors.New("dense: matrix is not square")
)
