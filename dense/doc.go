// Package dense provides the local column-major buffer every lvlblas
// computation ultimately runs on.
//
// The dense package provides:
//
//   - Dense[T], a column-major matrix with an explicit leading dimension,
//     the unit of actual computation on each process.
//   - Non-owning views (View) sharing the parent's backing slice, the
//     arena-style sub-matrices used by recursive kernels. Views never own
//     storage and must not outlive their parent.
//   - A generic numeric ring: the Scalar constraint over machine floats
//     and complex types, with Conj, IsZero, AbsVal and FromFloat helpers
//     shared by local and distributed kernels.
//   - Level-1-like triangle helpers (ScaleTrapezoid, AxpyTriangle) and
//     Transpose/Adjoint copies used by higher kernels and tests.
//
// Invariants:
//
//   - LD() >= max(1, Height()) at all times.
//   - A Dense owns its storage unless created by View; Resize on a view
//     returns ErrResizeView.
//   - Resize to a new shape discards previous contents (fresh zeroed
//     storage); callers must not rely on stale data surviving a resize.
//
// Dense is deliberately a storage type: all numeric kernels live in blas
// and gemm, which operate on the flat Data() slice plus LD().
package dense
