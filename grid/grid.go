// SPDX-License-Identifier: MIT
// Package grid: the process rectangle and the SPMD launcher.

package grid

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Grid is an immutable r x c arrangement of processes.
type Grid struct {
	height int // r, number of process rows
	width  int // c, number of process columns
}

// NewGrid validates and returns an r x c grid.
func NewGrid(height, width int) (*Grid, error) {
	if height < 1 || width < 1 {
		return nil, fmt.Errorf("grid %dx%d: %w", height, width, ErrBadGrid)
	}

	return &Grid{height: height, width: width}, nil
}

// Height reports the number of process rows (r).
func (g *Grid) Height() int { return g.height }

// Width reports the number of process columns (c).
func (g *Grid) Width() int { return g.width }

// Size reports the total process count (r*c).
func (g *Grid) Size() int { return g.height * g.width }

// Process is one grid member inside a Run: its coordinates plus handles
// on its row, its column, and the two full-grid communicators. A Process
// belongs to its goroutine and must not escape it.
type Process struct {
	grid     *Grid
	row, col int
	rowComm  *Comm // ranked by column, size c
	colComm  *Comm // ranked by row, size r
	vcComm   *Comm // column-major full-grid order, size r*c
	vrComm   *Comm // row-major full-grid order, size r*c
}

// Grid returns the grid this process belongs to.
func (p *Process) Grid() *Grid { return p.grid }

// Row reports the process's grid row.
func (p *Process) Row() int { return p.row }

// Col reports the process's grid column.
func (p *Process) Col() int { return p.col }

// VCRank is the process's rank in column-major grid order.
func (p *Process) VCRank() int { return p.row + p.col*p.grid.height }

// VRRank is the process's rank in row-major grid order.
func (p *Process) VRRank() int { return p.col + p.row*p.grid.width }

// RowComm returns the communicator over this process's grid row.
func (p *Process) RowComm() *Comm { return p.rowComm }

// ColComm returns the communicator over this process's grid column.
func (p *Process) ColComm() *Comm { return p.colComm }

// VCComm returns the full-grid communicator in column-major order.
func (p *Process) VCComm() *Comm { return p.vcComm }

// VRComm returns the full-grid communicator in row-major order.
func (p *Process) VRComm() *Comm { return p.vrComm }

// Run executes fn once per grid process, each on its own goroutine, and
// waits for all of them. The first non-nil error is returned. Per the
// SPMD contract, fn must fail on every process when it fails on one; a
// process that abandons a collective midway leaves its peers blocked.
//
// Stage 1 (Wire): build the row, column and full-grid communicators.
// Stage 2 (Launch): one goroutine per process via errgroup.
// Stage 3 (Join): wait and surface the first error.
func (g *Grid) Run(fn func(*Process) error) error {
	r, c := g.height, g.width

	rowComms := make([][]*Comm, r) // rowComms[i][j]: process (i,j)'s row handle
	for i := range rowComms {
		rowComms[i] = newComm(c)
	}
	colComms := make([][]*Comm, c) // colComms[j][i]: process (i,j)'s column handle
	for j := range colComms {
		colComms[j] = newComm(r)
	}
	vcComms := newComm(r * c)
	vrComms := newComm(r * c)

	var eg errgroup.Group
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			p := &Process{
				grid:    g,
				row:     i,
				col:     j,
				rowComm: rowComms[i][j],
				colComm: colComms[j][i],
				vcComm:  vcComms[i+j*r],
				vrComm:  vrComms[j+i*c],
			}
			eg.Go(func() error { return fn(p) })
		}
	}

	return eg.Wait()
}
