// SPDX-License-Identifier: MIT
// Package grid: sentinel error set (unified, consistent).
// Misuse of a communicator is a programming-contract breach: fail-fast,
// checked via errors.Is, never retried.

package grid

import "errors"

var (
	// ErrBadGrid indicates non-positive grid dimensions.
	ErrBadGrid = errors.New("grid: dimensions must be positive")

	// ErrBadRank indicates a rank outside [0, size) passed to a collective.
	ErrBadRank = errors.New("grid: rank out of range")

	// ErrPayload indicates a received payload whose element type does not
	// match the collective call; members disagreed on the call sequence.
	ErrPayload = errors.New("grid: mismatched collective payload")
)
