// SPDX-License-Identifier: MIT
// Package distmat: the Matrix type and its local-side operations. Every
// method in this file touches only the calling process's state; the
// collectives live in redist.go.

package distmat

import (
	"fmt"

	"github.com/katalvlaran/lvlblas/dense"
	"github.com/katalvlaran/lvlblas/grid"
)

// Entry is one global matrix element in transit between processes.
type Entry[T dense.Scalar] struct {
	Row, Col int
	Val      T
}

// Matrix is a dense matrix distributed over a process grid. Each process
// holds its cyclic slice of the global matrix in a column-major local
// buffer. A Matrix value is per-process state inside a grid.Run.
type Matrix[T dense.Scalar] struct {
	p                  *grid.Process
	colDist, rowDist   Dist
	colAlign, rowAlign int
	height, width      int
	local              *dense.Dense[T]
	queue              []Entry[T]
}

// New returns an empty 0x0 matrix with the given distribution pair and
// zero alignments.
func New[T dense.Scalar](p *grid.Process, colDist, rowDist Dist) (*Matrix[T], error) {
	return NewWithAlign[T](p, colDist, rowDist, 0, 0)
}

// NewWithAlign returns an empty 0x0 matrix with explicit alignments.
func NewWithAlign[T dense.Scalar](p *grid.Process, colDist, rowDist Dist, colAlign, rowAlign int) (*Matrix[T], error) {
	if err := checkPair(colDist, rowDist); err != nil {
		return nil, err
	}
	g := p.Grid()
	if colAlign < 0 || colAlign >= colDist.Wrap(g) {
		return nil, fmt.Errorf("colAlign %d for wrap %d: %w", colAlign, colDist.Wrap(g), ErrBadAlign)
	}
	if rowAlign < 0 || rowAlign >= rowDist.Wrap(g) {
		return nil, fmt.Errorf("rowAlign %d for wrap %d: %w", rowAlign, rowDist.Wrap(g), ErrBadAlign)
	}

	local, _ := dense.NewDense[T](0, 0) // 0x0 never fails validation

	return &Matrix[T]{
		p:        p,
		colDist:  colDist,
		rowDist:  rowDist,
		colAlign: colAlign,
		rowAlign: rowAlign,
		local:    local,
	}, nil
}

// Process returns the calling process's grid handle.
func (m *Matrix[T]) Process() *grid.Process { return m.p }

// Grid returns the grid the matrix is distributed over.
func (m *Matrix[T]) Grid() *grid.Grid { return m.p.Grid() }

// ColDist reports the row-axis distribution.
func (m *Matrix[T]) ColDist() Dist { return m.colDist }

// RowDist reports the column-axis distribution.
func (m *Matrix[T]) RowDist() Dist { return m.rowDist }

// ColAlign reports the row-axis alignment.
func (m *Matrix[T]) ColAlign() int { return m.colAlign }

// RowAlign reports the column-axis alignment.
func (m *Matrix[T]) RowAlign() int { return m.rowAlign }

// Height reports the global row count.
func (m *Matrix[T]) Height() int { return m.height }

// Width reports the global column count.
func (m *Matrix[T]) Width() int { return m.width }

// ColWrap is the cycle length of the row axis.
func (m *Matrix[T]) ColWrap() int { return m.colDist.Wrap(m.p.Grid()) }

// RowWrap is the cycle length of the column axis.
func (m *Matrix[T]) RowWrap() int { return m.rowDist.Wrap(m.p.Grid()) }

// ColShift is the first global row stored on this process.
func (m *Matrix[T]) ColShift() int {
	return Shift(m.colDist.coord(m.p), m.colAlign, m.ColWrap())
}

// RowShift is the first global column stored on this process.
func (m *Matrix[T]) RowShift() int {
	return Shift(m.rowDist.coord(m.p), m.rowAlign, m.RowWrap())
}

// LocalHeight reports the number of global rows stored locally.
func (m *Matrix[T]) LocalHeight() int { return m.local.Height() }

// LocalWidth reports the number of global columns stored locally.
func (m *Matrix[T]) LocalWidth() int { return m.local.Width() }

// LocalDense exposes the local buffer. Mutations through it are visible
// to the matrix; the local (i, j) entry is global
// (GlobalRow(i), GlobalCol(j)).
func (m *Matrix[T]) LocalDense() *dense.Dense[T] { return m.local }

// Resize sets the global shape and reallocates the local buffer, zeroed.
// Previous contents are discarded. Views cannot be resized.
func (m *Matrix[T]) Resize(height, width int) error {
	if height < 0 || width < 0 {
		return fmt.Errorf("resize %dx%d: %w", height, width, ErrBadShape)
	}
	lh := Length(height, m.ColShift(), m.ColWrap())
	lw := Length(width, m.RowShift(), m.RowWrap())
	if err := m.local.Resize(lh, lw); err != nil {
		return err
	}
	m.height, m.width = height, width

	return nil
}

// AlignCols sets the row-axis alignment. The matrix must still be empty.
func (m *Matrix[T]) AlignCols(align int) error {
	if m.height != 0 || m.width != 0 {
		return fmt.Errorf("AlignCols on %dx%d: %w", m.height, m.width, ErrNotEmpty)
	}
	if align < 0 || align >= m.ColWrap() {
		return fmt.Errorf("colAlign %d for wrap %d: %w", align, m.ColWrap(), ErrBadAlign)
	}
	m.colAlign = align

	return nil
}

// AlignRows sets the column-axis alignment. The matrix must still be empty.
func (m *Matrix[T]) AlignRows(align int) error {
	if m.height != 0 || m.width != 0 {
		return fmt.Errorf("AlignRows on %dx%d: %w", m.height, m.width, ErrNotEmpty)
	}
	if align < 0 || align >= m.RowWrap() {
		return fmt.Errorf("rowAlign %d for wrap %d: %w", align, m.RowWrap(), ErrBadAlign)
	}
	m.rowAlign = align

	return nil
}

// AlignWith adopts other's alignments on every axis whose distribution
// matches one of other's axes, so that subsequently resized data lines up
// with other's without communication. The matrix must still be empty.
func (m *Matrix[T]) AlignWith(other *Matrix[T]) error {
	if m.p != other.p {
		return fmt.Errorf("AlignWith across processes: %w", ErrGridMismatch)
	}
	if a, ok := matchAlign(m.colDist, other); ok {
		if err := m.AlignCols(a); err != nil {
			return err
		}
	}
	if a, ok := matchAlign(m.rowDist, other); ok {
		if err := m.AlignRows(a); err != nil {
			return err
		}
	}

	return nil
}

// matchAlign finds other's alignment along the axis distributed as d.
func matchAlign[T dense.Scalar](d Dist, other *Matrix[T]) (int, bool) {
	if d == Star {
		return 0, false
	}
	if other.colDist == d {
		return other.colAlign, true
	}
	if other.rowDist == d {
		return other.rowAlign, true
	}

	return 0, false
}

// RowOwner is the row-axis coordinate storing global row i.
func (m *Matrix[T]) RowOwner(i int) int { return (i + m.colAlign) % m.ColWrap() }

// ColOwner is the column-axis coordinate storing global column j.
func (m *Matrix[T]) ColOwner(j int) int { return (j + m.rowAlign) % m.RowWrap() }

// IsLocal reports whether global entry (i, j) is stored on this process.
func (m *Matrix[T]) IsLocal(i, j int) bool {
	return m.RowOwner(i) == m.colDist.coord(m.p) && m.ColOwner(j) == m.rowDist.coord(m.p)
}

// GlobalRow maps a local row index to its global row.
func (m *Matrix[T]) GlobalRow(iLoc int) int { return m.ColShift() + iLoc*m.ColWrap() }

// GlobalCol maps a local column index to its global column.
func (m *Matrix[T]) GlobalCol(jLoc int) int { return m.RowShift() + jLoc*m.RowWrap() }

// LocalRow maps global row i to its local index; ok is false when the
// row lives elsewhere.
func (m *Matrix[T]) LocalRow(i int) (int, bool) {
	if m.RowOwner(i) != m.colDist.coord(m.p) {
		return 0, false
	}

	return (i - m.ColShift()) / m.ColWrap(), true
}

// LocalCol maps global column j to its local index; ok is false when the
// column lives elsewhere.
func (m *Matrix[T]) LocalCol(j int) (int, bool) {
	if m.ColOwner(j) != m.rowDist.coord(m.p) {
		return 0, false
	}

	return (j - m.RowShift()) / m.RowWrap(), true
}

// checkIndex validates a global index pair.
func (m *Matrix[T]) checkIndex(i, j int) error {
	if i < 0 || i >= m.height || j < 0 || j >= m.width {
		return fmt.Errorf("entry (%d,%d) of %dx%d: %w", i, j, m.height, m.width, ErrOutOfRange)
	}

	return nil
}

// localIndex resolves a global entry to local coordinates, failing with
// ErrNotLocal when this process does not store it.
func (m *Matrix[T]) localIndex(i, j int) (int, int, error) {
	if err := m.checkIndex(i, j); err != nil {
		return 0, 0, err
	}
	iLoc, ok := m.LocalRow(i)
	if !ok {
		return 0, 0, fmt.Errorf("row %d: %w", i, ErrNotLocal)
	}
	jLoc, ok := m.LocalCol(j)
	if !ok {
		return 0, 0, fmt.Errorf("col %d: %w", j, ErrNotLocal)
	}

	return iLoc, jLoc, nil
}

// Get reads the locally stored global entry (i, j).
func (m *Matrix[T]) Get(i, j int) (T, error) {
	iLoc, jLoc, err := m.localIndex(i, j)
	if err != nil {
		var zero T

		return zero, err
	}

	return m.local.At(iLoc, jLoc)
}

// Set overwrites the locally stored global entry (i, j).
func (m *Matrix[T]) Set(i, j int, v T) error {
	iLoc, jLoc, err := m.localIndex(i, j)
	if err != nil {
		return err
	}

	return m.local.Set(iLoc, jLoc, v)
}

// Update adds delta to the locally stored global entry (i, j).
func (m *Matrix[T]) Update(i, j int, delta T) error {
	iLoc, jLoc, err := m.localIndex(i, j)
	if err != nil {
		return err
	}

	return m.local.Update(iLoc, jLoc, delta)
}

// QueueUpdate buffers an additive update to any global entry, owned
// locally or not. Nothing is applied until ProcessQueues runs.
func (m *Matrix[T]) QueueUpdate(i, j int, delta T) error {
	if err := m.checkIndex(i, j); err != nil {
		return err
	}
	m.queue = append(m.queue, Entry[T]{Row: i, Col: j, Val: delta})

	return nil
}

// FillGlobal sets every global entry to f(i, j); each process writes the
// entries it stores. Purely local, no communication.
func (m *Matrix[T]) FillGlobal(f func(i, j int) T) {
	for jLoc := 0; jLoc < m.LocalWidth(); jLoc++ {
		j := m.GlobalCol(jLoc)
		for iLoc := 0; iLoc < m.LocalHeight(); iLoc++ {
			_ = m.local.Set(iLoc, jLoc, f(m.GlobalRow(iLoc), j))
		}
	}
}

// redundantCoord identifies which replica of the local data this process
// holds; 0 marks the canonical copy that redistribution reads from.
func (m *Matrix[T]) redundantCoord() int {
	switch {
	case m.colDist == Star && m.rowDist == Star:
		return m.p.VCRank()
	case (m.colDist == MC && m.rowDist == Star) || (m.colDist == Star && m.rowDist == MC):
		return m.p.Col()
	case (m.colDist == MR && m.rowDist == Star) || (m.colDist == Star && m.rowDist == MR):
		return m.p.Row()
	default:
		return 0
	}
}

// canonical reports whether this process holds the canonical copy of its
// local data.
func (m *Matrix[T]) canonical() bool { return m.redundantCoord() == 0 }

// ownerVCRanks lists the VC ranks of every process storing global entry
// (i, j), replicas included, in ascending VC order.
func (m *Matrix[T]) ownerVCRanks(i, j int) []int {
	g := m.p.Grid()
	rowCoord, colCoord := m.RowOwner(i), m.ColOwner(j)
	var ranks []int
	for col := 0; col < g.Width(); col++ {
		for row := 0; row < g.Height(); row++ {
			if m.colDist.coordOf(g, row, col) == rowCoord && m.rowDist.coordOf(g, row, col) == colCoord {
				ranks = append(ranks, row+col*g.Height())
			}
		}
	}

	return ranks
}

// View returns a window onto the h x w sub-rectangle of a starting at
// global (i0, j0). The view shares a's local storage and carries the
// induced alignments; it cannot be resized or re-aligned.
func View[T dense.Scalar](a *Matrix[T], i0, j0, h, w int) (*Matrix[T], error) {
	if i0 < 0 || j0 < 0 || h < 0 || w < 0 || i0+h > a.height || j0+w > a.width {
		return nil, fmt.Errorf("view [%d:%d, %d:%d] of %dx%d: %w", i0, i0+h, j0, j0+w, a.height, a.width, ErrOutOfRange)
	}

	// Local rows with global index below i0 precede the window.
	rowStart := Length(i0, a.ColShift(), a.ColWrap())
	colStart := Length(j0, a.RowShift(), a.RowWrap())
	lh := Length(i0+h, a.ColShift(), a.ColWrap()) - rowStart
	lw := Length(j0+w, a.RowShift(), a.RowWrap()) - colStart
	local, err := a.local.View(rowStart, colStart, lh, lw)
	if err != nil {
		return nil, err
	}

	return &Matrix[T]{
		p:        a.p,
		colDist:  a.colDist,
		rowDist:  a.rowDist,
		colAlign: (a.colAlign + i0) % a.ColWrap(),
		rowAlign: (a.rowAlign + j0) % a.RowWrap(),
		height:   h,
		width:    w,
		local:    local,
	}, nil
}
