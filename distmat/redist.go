// SPDX-License-Identifier: MIT
// Package distmat: the collectives. Redistribution is one general path:
// canonical sources pack (row, col, value) triples per destination VC
// rank, a single all-to-all moves them, destinations apply. Every defined
// distribution pair flows through the same exchange, replicas included.

package distmat

import (
	"fmt"

	"github.com/katalvlaran/lvlblas/dense"
	"github.com/katalvlaran/lvlblas/grid"
)

// ProcessQueues routes every update buffered by QueueUpdate on any
// process to all owners of the target entry, replicas included, and adds
// it to the stored value. A collective: every grid process must call it,
// queued updates or not.
//
// Stage 1 (Route): pack queued entries per destination VC rank.
// Stage 2 (Exchange): one all-to-all over the VC communicator.
// Stage 3 (Apply): add each received delta to the local entry.
func (m *Matrix[T]) ProcessQueues() error {
	comm := m.p.VCComm()
	out := make([][]Entry[T], comm.Size())
	for _, e := range m.queue {
		for _, dst := range m.ownerVCRanks(e.Row, e.Col) {
			out[dst] = append(out[dst], e)
		}
	}
	m.queue = m.queue[:0]

	in, err := grid.AllToAll(comm, out)
	if err != nil {
		return err
	}
	for _, batch := range in {
		for _, e := range batch {
			if err := m.Update(e.Row, e.Col, e.Val); err != nil {
				return err
			}
		}
	}

	return nil
}

// CopyFrom overwrites the matrix with the equally-shaped window of src
// starting at global (i0, j0), converting between the two distributions
// and alignments. The receiver must already hold its target shape. A
// collective over the shared grid.
func (m *Matrix[T]) CopyFrom(src *Matrix[T], i0, j0 int) error {
	if m.p != src.p {
		return fmt.Errorf("CopyFrom across processes: %w", ErrGridMismatch)
	}
	if i0 < 0 || j0 < 0 || i0+m.height > src.height || j0+m.width > src.width {
		return fmt.Errorf("CopyFrom window [%d:%d, %d:%d] of %dx%d: %w",
			i0, i0+m.height, j0, j0+m.width, src.height, src.width, ErrOutOfRange)
	}

	comm := m.p.VCComm()
	out := make([][]Entry[T], comm.Size())
	if src.canonical() {
		// Pack the canonical copy of every source entry in the window,
		// addressed to every destination replica.
		for jLoc := 0; jLoc < src.LocalWidth(); jLoc++ {
			gj := src.GlobalCol(jLoc)
			if gj < j0 || gj >= j0+m.width {
				continue
			}
			for iLoc := 0; iLoc < src.LocalHeight(); iLoc++ {
				gi := src.GlobalRow(iLoc)
				if gi < i0 || gi >= i0+m.height {
					continue
				}
				v, err := src.local.At(iLoc, jLoc)
				if err != nil {
					return err
				}
				e := Entry[T]{Row: gi - i0, Col: gj - j0, Val: v}
				for _, dst := range m.ownerVCRanks(e.Row, e.Col) {
					out[dst] = append(out[dst], e)
				}
			}
		}
	}

	in, err := grid.AllToAll(comm, out)
	if err != nil {
		return err
	}
	for _, batch := range in {
		for _, e := range batch {
			if err := m.Set(e.Row, e.Col, e.Val); err != nil {
				return err
			}
		}
	}

	return nil
}

// Redist rebuilds src under another distribution pair and alignment,
// preserving the global matrix. A collective over the shared grid.
func Redist[T dense.Scalar](src *Matrix[T], colDist, rowDist Dist, colAlign, rowAlign int) (*Matrix[T], error) {
	dst, err := NewWithAlign[T](src.p, colDist, rowDist, colAlign, rowAlign)
	if err != nil {
		return nil, err
	}
	if err := dst.Resize(src.height, src.width); err != nil {
		return nil, err
	}
	if err := dst.CopyFrom(src, 0, 0); err != nil {
		return nil, err
	}

	return dst, nil
}

// GatherAll assembles the full global matrix on every process as a plain
// dense buffer. A collective over the shared grid.
//
// Stage 1 (Gather): canonical sources send their entries to VC rank 0.
// Stage 2 (Assemble): rank 0 lays the entries into an h x w buffer.
// Stage 3 (Broadcast): the flat buffer is broadcast to every process.
func (m *Matrix[T]) GatherAll() (*dense.Dense[T], error) {
	comm := m.p.VCComm()
	out := make([][]Entry[T], comm.Size())
	if m.canonical() {
		for jLoc := 0; jLoc < m.LocalWidth(); jLoc++ {
			gj := m.GlobalCol(jLoc)
			for iLoc := 0; iLoc < m.LocalHeight(); iLoc++ {
				v, err := m.local.At(iLoc, jLoc)
				if err != nil {
					return nil, err
				}
				out[0] = append(out[0], Entry[T]{Row: m.GlobalRow(iLoc), Col: gj, Val: v})
			}
		}
	}
	in, err := grid.AllToAll(comm, out)
	if err != nil {
		return nil, err
	}

	var flat []T
	if comm.Rank() == 0 {
		flat = make([]T, m.height*m.width)
		for _, batch := range in {
			for _, e := range batch {
				flat[e.Row+e.Col*m.height] = e.Val
			}
		}
	}
	flat, err = grid.Bcast(comm, 0, flat)
	if err != nil {
		return nil, err
	}

	full, err := dense.NewDense[T](m.height, m.width)
	if err != nil {
		return nil, err
	}
	copy(full.Data(), flat)

	return full, nil
}
