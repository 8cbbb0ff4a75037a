// Package lvlblas is your in-memory playground for distributed dense
// linear algebra, from local column-major buffers to full SUMMA and
// Cannon matrix-multiplication schedules over a 2D process grid.
//
// 🚀 What is lvlblas?
//
//	A modern, deterministic library that brings together:
//		• Local primitives: column-major Dense buffers with leading
//		  dimensions, non-owning views, and a generic numeric ring
//		• Sequential BLAS-3: Gemm with all four orientation pairs and a
//		  pluggable staged (accelerator-style) backend
//		• Process grids: row/column/VC/VR communicators over a
//		  channel-based collective fabric (broadcast, all-reduce,
//		  send/receive, all-to-all)
//		• Distributed matrices: cyclic distributions, alignments,
//		  redistribution, and batched sparse updates
//		• Distributed GEMM: stationary-C/A/B SUMMA and Cannon's
//		  algorithm, plus the recursive triangular rank-2k kernel
//
// ✨ Why choose lvlblas?
//
//   - SPMD made safe – one goroutine per grid rank, message passing only,
//     no shared mutable state between ranks
//   - Rock-solid guarantees – fail-fast sentinel errors for every shape,
//     distribution, and alignment violation
//   - Pure Go – no cgo; the accelerator path is a staged backend you can
//     swap without touching the algorithms
//   - Deterministic – fixed loop orders and rank-ordered reductions make
//     results reproducible run over run
//
// Under the hood, everything is organized under five subpackages:
//
//	dense/   - column-major local buffers, views, numeric-ring helpers
//	blas/    - sequential Gemm kernel, orientations, backend config
//	grid/    - process grid, communicators, SPMD launcher
//	distmat/ - distribution descriptors & distributed matrices
//	gemm/    - SUMMA/Cannon orchestration, LocalGemm, LocalTrr2k
//
// Quick ASCII example:
//
//	    ┌────┬────┐
//	    │ 00 │ 01 │     a 2×2 process grid; every distributed matrix
//	    ├────┼────┤     is split round-robin over grid rows and
//	    │ 10 │ 11 │     columns, one local block per rank.
//	    └────┴────┘
//
// Dive into cmd/gemmbench for an end-to-end benchmark harness, and into
// each package's doc.go for the full contracts.
//
//	go get github.com/katalvlaran/lvlblas
package lvlblas
