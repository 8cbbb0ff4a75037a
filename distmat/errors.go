// SPDX-License-Identifier: MIT
// Package distmat: sentinel error set (unified, consistent).

package distmat

import "errors"

var (
	// ErrBadDist indicates a Dist value outside the enum.
	ErrBadDist = errors.New("distmat: invalid distribution")

	// ErrBadDistPair indicates a (colDist, rowDist) combination the package
	// does not define, such as [MC, MC] or [VC, MR].
	ErrBadDistPair = errors.New("distmat: invalid distribution pair")

	// ErrBadAlign indicates an alignment outside [0, wrap).
	ErrBadAlign = errors.New("distmat: alignment out of range")

	// ErrBadShape indicates negative global dimensions.
	ErrBadShape = errors.New("distmat: dimensions must be non-negative")

	// ErrOutOfRange indicates a global index outside the matrix.
	ErrOutOfRange = errors.New("distmat: index out of range")

	// ErrNotLocal indicates a direct entry access on a process that does
	// not store the entry; use QueueUpdate for remote writes.
	ErrNotLocal = errors.New("distmat: entry not stored on this process")

	// ErrNotEmpty indicates an alignment change on a matrix that already
	// holds data; alignments are fixed at the first Resize.
	ErrNotEmpty = errors.New("distmat: matrix is not empty")

	// ErrGridMismatch indicates an operation mixing matrices from
	// different grids or different processes of one grid.
	ErrGridMismatch = errors.New("distmat: grid mismatch")
)
