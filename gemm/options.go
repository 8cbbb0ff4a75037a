// SPDX-License-Identifier: MIT
// Package gemm: algorithm selection and tuning knobs.

package gemm

import (
	"github.com/katalvlaran/lvlblas/blas"
	"github.com/katalvlaran/lvlblas/dense"
)

// Algorithm selects the distributed multiply variant.
type Algorithm int

const (
	// AlgDefault is stationary-C, valid for every orientation pair.
	AlgDefault Algorithm = iota
	// AlgStationaryA keeps A in place (NN and NT only).
	AlgStationaryA
	// AlgStationaryB keeps B in place (NN and TN only).
	AlgStationaryB
	// AlgCannon is Cannon's algorithm (NN on a square grid only).
	AlgCannon
)

// String implements fmt.Stringer.
func (a Algorithm) String() string {
	switch a {
	case AlgDefault:
		return "StationaryC"
	case AlgStationaryA:
		return "StationaryA"
	case AlgStationaryB:
		return "StationaryB"
	case AlgCannon:
		return "Cannon"
	default:
		return "Algorithm(?)"
	}
}

// Options carries per-call tuning for the distributed multiply.
type Options[T dense.Scalar] struct {
	// Alg selects the algorithm variant.
	Alg Algorithm

	// Blocksize is the panel width of the SUMMA loops.
	Blocksize int

	// TrrBlocksize is the leaf size of the LocalTrr2k recursion.
	TrrBlocksize int

	// Local configures the sequential kernel each process runs,
	// including optional staged-backend offload.
	Local blas.Config[T]
}

// DefaultOptions returns the stationary-C defaults with the host-only
// local kernel.
func DefaultOptions[T dense.Scalar]() Options[T] {
	return Options[T]{
		Alg:          AlgDefault,
		Blocksize:    128,
		TrrBlocksize: 64,
		Local:        blas.DefaultConfig[T](),
	}
}

// blocksize returns the effective SUMMA panel width.
func (o Options[T]) blocksize() int {
	if o.Blocksize < 1 {
		return 128
	}

	return o.Blocksize
}

// trrBlocksize returns the effective Trr2k leaf size.
func (o Options[T]) trrBlocksize() int {
	if o.TrrBlocksize < 1 {
		return 64
	}

	return o.TrrBlocksize
}
