// SPDX-License-Identifier: MIT
// Package blas: sentinel error set (unified, consistent).
// All kernel entry points MUST return these sentinels and tests MUST check
// them via errors.Is. Shape violations are programming-contract breaches:
// fail-fast, never retried, never silently corrected.

package blas

import "errors"

var (
	// ErrNonconformal indicates operand shapes that do not conform for the
	// requested orientation pair (the four Gemm shape tables).
	ErrNonconformal = errors.New("blas: nonconformal operands")

	// ErrBadLeadingDim indicates a leading dimension smaller than the
	// corresponding operand height.
	ErrBadLeadingDim = errors.New("blas: leading dimension too small")

	// ErrShortSlice indicates a flat operand slice too short to address the
	// declared shape under its leading dimension.
	ErrShortSlice = errors.New("blas: operand slice too short")

	// ErrBadOrientation indicates an Orientation value outside the enum.
	ErrBadOrientation = errors.New("blas: invalid orientation")

	// ErrBackend reports a fatal staged-backend failure (allocation or
	// transfer); there is no degraded-mode fallback once offload is chosen.
	ErrBackend = errors.New("blas: backend failure")
)
