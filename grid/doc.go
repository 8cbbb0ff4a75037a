// SPDX-License-Identifier: MIT

// Package grid arranges P processes into an r x c rectangle and gives each
// one communicators over its row, its column, and the whole grid. Each
// process is a goroutine; messages travel over buffered channels, so a
// whole distributed run lives inside one OS process and one test binary.
//
// What the package offers:
//
//	🚀 Grid        - the r x c shape, validated once at construction.
//	🚀 Grid.Run    - launches one goroutine per process, SPMD style, and
//	                 collects the first error.
//	🚀 Process     - a process's coordinates plus its four communicators.
//	🚀 Comm        - a communicator handle: Bcast, AllReduceSum,
//	                 SendRecvReplace, AllToAll, Barrier.
//
// Ranks and orderings
//
// A process at (row, col) has two linear ranks over the full grid:
//
//	VC (column-major): row + col*r   - walks down columns first.
//	VR (row-major):    col + row*c   - walks across rows first.
//
// Row communicators rank processes by their column (size c); column
// communicators rank them by their row (size r).
//
// SPMD contract
//
// Every collective must be invoked by every member of the communicator,
// in the same order on every member. Each communicator keeps a per-handle
// round counter folded into the message tag, so packets from distinct
// collective rounds can never be confused even when goroutines run ahead.
// Payload slices are cloned on send; a received slice is always owned by
// the receiver.
//
// Determinism: AllReduceSum accumulates contributions in rank order
// 0..size-1, so a reduction's floating-point result is identical on every
// member and reproducible run over run.
package grid
