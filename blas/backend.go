// SPDX-License-Identifier: MIT
// Package blas: backend selection. The accelerator-style path is modeled as
// a Backend that stages operands into its own memory space, runs a blocked
// kernel there, and copies the result back. It is functionally identical
// to the host path and engaged only above configured size thresholds.
//
// Selection state is a per-call Config value, never package-global: two
// concurrent callers can run with different backends and thresholds.

package blas

import (
	"fmt"

	"golang.org/x/sys/cpu"

	"github.com/katalvlaran/lvlblas/dense"
)

// Backend is the boundary an accelerated GEMM implementation plugs into.
// Implementations receive the same flat column-major contract as the host
// kernel and must be functionally identical to it.
type Backend[T dense.Scalar] interface {
	// Name identifies the backend in diagnostics.
	Name() string
	// Gemm computes C := alpha*op(A)*op(B) + beta*C; failures are fatal
	// runtime errors wrapped around ErrBackend.
	Gemm(transA, transB Orientation, m, n, k int, alpha T, a []T, lda int, b []T, ldb int, beta T, c []T, ldc int) error
}

// Config selects where a local product runs. The zero value is the host
// path with no offload. Config is a value type: methods return modified
// copies, so a Config can be shared read-only across goroutines.
type Config[T dense.Scalar] struct {
	backend          Backend[T]
	minM, minN, minK int
}

// DefaultConfig returns the host-only configuration.
func DefaultConfig[T dense.Scalar]() Config[T] {
	return Config[T]{}
}

// UseStaged returns a copy offloading to the built-in staged backend when
// m >= minM, n >= minN and k >= minK all hold.
func (c Config[T]) UseStaged(minM, minN, minK int) Config[T] {
	return c.WithBackend(NewStaged[T](), minM, minN, minK)
}

// UseStagedAuto returns a copy offloading to the staged backend with
// thresholds calibrated from CPU features: wide-SIMD hosts keep small
// products local longer because the host kernel is already fast there.
func (c Config[T]) UseStagedAuto() Config[T] {
	t := defaultStagedThreshold()

	return c.UseStaged(t, t, t)
}

// WithBackend returns a copy offloading to b above the given thresholds.
func (c Config[T]) WithBackend(b Backend[T], minM, minN, minK int) Config[T] {
	c.backend = b
	c.minM, c.minN, c.minK = minM, minN, minK

	return c
}

// UseHost returns a copy with offload disabled.
func (c Config[T]) UseHost() Config[T] {
	c.backend = nil

	return c
}

// BackendName reports the active backend ("host" when none is configured).
func (c Config[T]) BackendName() string {
	if c.backend == nil {
		return "host"
	}

	return c.backend.Name()
}

// Offloads reports whether a product of the given extents would leave the
// host path under this configuration.
func (c Config[T]) Offloads(m, n, k int) bool {
	return c.backend != nil && k > 0 && m >= c.minM && n >= c.minN && k >= c.minK
}

// Gemm dispatches one product: the staged backend when all thresholds are
// met, the host kernel otherwise. The k == 0 degeneracy always stays on
// the host (it is a pure scale of C).
func (c Config[T]) Gemm(transA, transB Orientation, m, n, k int, alpha T, a []T, lda int, b []T, ldb int, beta T, cc []T, ldc int) error {
	if c.Offloads(m, n, k) {
		return c.backend.Gemm(transA, transB, m, n, k, alpha, a, lda, b, ldb, beta, cc, ldc)
	}

	return Gemm(transA, transB, m, n, k, alpha, a, lda, b, ldb, beta, cc, ldc)
}

// defaultStagedThreshold picks the auto-offload extent from CPU features.
// With a wide SIMD unit the host kernel stays competitive to larger sizes.
func defaultStagedThreshold() int {
	if cpu.X86.HasAVX512F || cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD {
		return 256
	}

	return 128
}

// stagedBlockDim is the tile edge of the staged backend's blocked kernel.
const stagedBlockDim = 64

// staged is the built-in accelerator-style backend: operands are copied
// into the backend's own buffers (the "device" memory space) in normalized
// NN layout, multiplied by a cache-blocked kernel, and copied back.
type staged[T dense.Scalar] struct {
	capacity int // maximum elements one staging allocation may hold
}

// NewStaged returns the built-in staged backend with an effectively
// unbounded staging capacity.
func NewStaged[T dense.Scalar]() Backend[T] {
	return &staged[T]{capacity: int(^uint(0) >> 1)}
}

// NewStagedCapacity returns a staged backend whose allocator refuses
// requests above capacity elements; staging a larger operand fails with
// ErrBackend. Used to exercise the fatal-allocation-failure contract.
func NewStagedCapacity[T dense.Scalar](capacity int) Backend[T] {
	return &staged[T]{capacity: capacity}
}

// Name implements Backend.
func (s *staged[T]) Name() string { return "staged" }

// alloc models the device allocator; exceeding capacity is fatal.
func (s *staged[T]) alloc(n int) ([]T, error) {
	if n > s.capacity {
		return nil, fmt.Errorf("staged alloc %d elements (capacity %d): %w", n, s.capacity, ErrBackend)
	}

	return make([]T, n), nil
}

// Gemm implements Backend: stage, multiply blocked, copy back.
func (s *staged[T]) Gemm(transA, transB Orientation, m, n, k int, alpha T, a []T, lda int, b []T, ldb int, beta T, c []T, ldc int) error {
	if err := validateFlat(transA, transB, m, n, k, a, lda, b, ldb, c, ldc); err != nil {
		return err
	}

	// Stage op(A) and op(B) in normalized m×k / k×n column-major layout;
	// transposition and conjugation are folded into the copy-in.
	da, err := s.alloc(m * k)
	if err != nil {
		return err
	}
	packOperand(transA, m, k, a, lda, da)
	db, err := s.alloc(k * n)
	if err != nil {
		return err
	}
	packOperand(transB, k, n, b, ldb, db)
	dc, err := s.alloc(m * n)
	if err != nil {
		return err
	}
	// beta == 0 leaves the device C zeroed; otherwise stage C in.
	if !dense.IsZero(beta) {
		for j := 0; j < n; j++ {
			copy(dc[j*m:j*m+m], c[j*ldc:j*ldc+m])
		}
	}

	blockedGemmNN(m, n, k, alpha, da, db, beta, dc)

	// Retrieve the result into host memory.
	for j := 0; j < n; j++ {
		copy(c[j*ldc:j*ldc+m], dc[j*m:j*m+m])
	}

	return nil
}

// packOperand copies op(X) into a compact rows×cols column-major buffer.
// rows×cols is the operated shape; the stored shape is swapped when the
// orientation transposes.
func packOperand[T dense.Scalar](orient Orientation, rows, cols int, x []T, ldx int, out []T) {
	switch orient {
	case Normal:
		for j := 0; j < cols; j++ {
			copy(out[j*rows:j*rows+rows], x[j*ldx:j*ldx+rows])
		}
	case Transpose:
		for j := 0; j < cols; j++ {
			for i := 0; i < rows; i++ {
				out[i+j*rows] = x[j+i*ldx]
			}
		}
	default: // Adjoint
		for j := 0; j < cols; j++ {
			for i := 0; i < rows; i++ {
				out[i+j*rows] = dense.Conj(x[j+i*ldx])
			}
		}
	}
}

// blockedGemmNN is the staged backend's cache-tiled NN kernel on compact
// buffers (lda == m, ldb == k, ldc == m).
func blockedGemmNN[T dense.Scalar](m, n, k int, alpha T, a, b []T, beta T, c []T) {
	scaleRect(beta, m, n, c, m)
	if k == 0 || dense.IsZero(alpha) {
		return
	}
	for jj := 0; jj < n; jj += stagedBlockDim {
		jEnd := minInt(jj+stagedBlockDim, n)
		for ll := 0; ll < k; ll += stagedBlockDim {
			lEnd := minInt(ll+stagedBlockDim, k)
			for ii := 0; ii < m; ii += stagedBlockDim {
				iEnd := minInt(ii+stagedBlockDim, m)
				// One tile: C[ii:iEnd, jj:jEnd] += alpha*A[ii:iEnd, ll:lEnd]*B[ll:lEnd, jj:jEnd].
				for j := jj; j < jEnd; j++ {
					for l := ll; l < lEnd; l++ {
						tmp := alpha * b[l+j*k]
						for i := ii; i < iEnd; i++ {
							c[i+j*m] += tmp * a[i+l*m]
						}
					}
				}
			}
		}
	}
}

// minInt is a local helper; kept unexported to avoid polluting the API.
func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}
