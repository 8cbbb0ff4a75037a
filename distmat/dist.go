// SPDX-License-Identifier: MIT
// Package distmat: distribution kinds and the cyclic index arithmetic.
// Everything here is pure integer math; no communication.

package distmat

import (
	"fmt"

	"github.com/katalvlaran/lvlblas/grid"
)

// Dist names how one matrix axis maps onto grid coordinates.
type Dist int

const (
	// Star replicates the axis: every relevant process stores all of it.
	Star Dist = iota
	// MC cycles the axis over grid rows.
	MC
	// MR cycles the axis over grid columns.
	MR
	// VC cycles the axis over all processes in column-major grid order.
	VC
	// VR cycles the axis over all processes in row-major grid order.
	VR
)

// String implements fmt.Stringer.
func (d Dist) String() string {
	switch d {
	case Star:
		return "Star"
	case MC:
		return "MC"
	case MR:
		return "MR"
	case VC:
		return "VC"
	case VR:
		return "VR"
	default:
		return "Dist(?)"
	}
}

// Valid reports whether d is a member of the enum.
func (d Dist) Valid() bool {
	return d == Star || d == MC || d == MR || d == VC || d == VR
}

// Wrap is the cycle length of d on grid g: how many distinct coordinates
// the axis is dealt across.
func (d Dist) Wrap(g *grid.Grid) int {
	switch d {
	case MC:
		return g.Height()
	case MR:
		return g.Width()
	case VC, VR:
		return g.Size()
	default: // Star
		return 1
	}
}

// coord is the calling process's coordinate along d.
func (d Dist) coord(p *grid.Process) int {
	switch d {
	case MC:
		return p.Row()
	case MR:
		return p.Col()
	case VC:
		return p.VCRank()
	case VR:
		return p.VRRank()
	default: // Star
		return 0
	}
}

// coordOf is the coordinate along d of the process at grid (row, col).
func (d Dist) coordOf(g *grid.Grid, row, col int) int {
	switch d {
	case MC:
		return row
	case MR:
		return col
	case VC:
		return row + col*g.Height()
	case VR:
		return col + row*g.Width()
	default: // Star
		return 0
	}
}

// Shift is the first global index held at coordinate rank under wrap and
// alignment align.
func Shift(rank, align, wrap int) int {
	return ((rank-align)%wrap + wrap) % wrap
}

// Length is the number of indices in [0, n) held at the given shift.
func Length(n, shift, wrap int) int {
	if n <= shift {
		return 0
	}

	return (n - shift + wrap - 1) / wrap
}

// validPair reports whether (colDist, rowDist) is one of the defined
// distribution pairs.
func validPair(colDist, rowDist Dist) bool {
	switch colDist {
	case MC:
		return rowDist == MR || rowDist == Star
	case MR:
		return rowDist == MC || rowDist == Star
	case VC, VR:
		return rowDist == Star
	case Star:
		return rowDist == MC || rowDist == MR || rowDist == VC || rowDist == VR || rowDist == Star
	default:
		return false
	}
}

// checkPair validates both Dist values and their combination.
func checkPair(colDist, rowDist Dist) error {
	if !colDist.Valid() || !rowDist.Valid() {
		return fmt.Errorf("[%v, %v]: %w", colDist, rowDist, ErrBadDist)
	}
	if !validPair(colDist, rowDist) {
		return fmt.Errorf("[%v, %v]: %w", colDist, rowDist, ErrBadDistPair)
	}

	return nil
}
