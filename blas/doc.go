// Package blas provides the sequential level-3 kernel lvlblas dispatches
// local computation to, together with the backend configuration that may
// stage large products through an accelerator-style path.
//
// The blas package provides:
//
//   - Gemm, the flat column-major kernel
//     C := alpha*op(A)*op(B) + beta*C
//     over the dense.Scalar ring with all four orientation pairs
//     (Normal/Transpose/Adjoint per operand, conjugation element-wise).
//   - GemmDense, the dense.Dense wrapper enforcing the four conformality
//     shapes before touching any element.
//   - Config, the explicit per-call backend selection object: a host path
//     and an optional staged backend engaged only when m, n and k all meet
//     their configured thresholds. There is no package-level mutable
//     selection state; each call carries its own Config.
//
// Degenerate cases are part of the contract:
//
//   - k == 0 reduces to C := beta*C (the product term contributes nothing).
//   - beta == 0 first zeroes C rather than reading it, so NaN or
//     uninitialized contents never propagate into the result.
//
// Dimension violations are caller bugs: they surface immediately as
// ErrNonconformal and are never retried. Staged-backend failures are fatal
// runtime errors (ErrBackend): once offload is selected there is no
// degraded-mode fallback.
package blas
