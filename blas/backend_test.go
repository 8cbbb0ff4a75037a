// SPDX-License-Identifier: MIT
package blas_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlblas/blas"
)

func TestConfig_Dispatch(t *testing.T) {
	cfg := blas.DefaultConfig[float64]()
	require.Equal(t, "host", cfg.BackendName(), "zero config is the host path")
	require.False(t, cfg.Offloads(1000, 1000, 1000), "no backend, no offload")

	cfg = cfg.UseStaged(8, 8, 8)
	require.Equal(t, "staged", cfg.BackendName())
	require.True(t, cfg.Offloads(8, 8, 8), "thresholds are inclusive")
	require.False(t, cfg.Offloads(7, 8, 8), "every extent must reach its threshold")
	require.False(t, cfg.Offloads(8, 7, 8))
	require.False(t, cfg.Offloads(8, 8, 7))
	require.False(t, cfg.Offloads(8, 8, 0), "k == 0 always stays on the host")

	host := cfg.UseHost()
	require.Equal(t, "host", host.BackendName())
	require.Equal(t, "staged", cfg.BackendName(), "Config is a value type; UseHost must not mutate the receiver")
}

func TestStaged_MatchesHost(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m, n, k := 70, 65, 80 // straddles the 64-wide tile boundary
	for _, ta := range orientations {
		for _, tb := range orientations {
			aRows, aCols := m, k
			if ta.IsTrans() {
				aRows, aCols = k, m
			}
			bRows, bCols := k, n
			if tb.IsTrans() {
				bRows, bCols = n, k
			}
			lda, ldb, ldc := aRows+1, bRows+2, m+1
			a := randComplex(rng, lda*aCols)
			b := randComplex(rng, ldb*bCols)
			c := randComplex(rng, ldc*n)
			want := append([]complex128(nil), c...)

			require.NoError(t, blas.Gemm(ta, tb, m, n, k, complex(1.25, 0.5), a, lda, b, ldb, complex(-0.75, 0), want, ldc))
			staged := blas.NewStaged[complex128]()
			require.NoError(t, staged.Gemm(ta, tb, m, n, k, complex(1.25, 0.5), a, lda, b, ldb, complex(-0.75, 0), c, ldc))
			require.Less(t, maxAbsDiff(c, want), float64(k)*1e-13, "staged backend must be functionally identical for %v/%v", ta, tb)
		}
	}
}

func TestStaged_BetaZero_NeverReadsC(t *testing.T) {
	a := []float64{1, 2, 3, 4} // 2x2
	b := []float64{1, 0, 0, 1} // identity
	nan := math.NaN()
	c := []float64{nan, nan, nan, nan}
	staged := blas.NewStaged[float64]()
	require.NoError(t, staged.Gemm(blas.Normal, blas.Normal, 2, 2, 2, 1.0, a, 2, b, 2, 0, c, 2))
	require.Equal(t, []float64{1, 2, 3, 4}, c)
}

func TestStaged_CapacityExceeded(t *testing.T) {
	a := make([]float64, 4)
	b := make([]float64, 4)
	c := make([]float64, 4)
	tiny := blas.NewStagedCapacity[float64](3) // A alone needs 4 elements
	err := tiny.Gemm(blas.Normal, blas.Normal, 2, 2, 2, 1.0, a, 2, b, 2, 0, c, 2)
	require.ErrorIs(t, err, blas.ErrBackend, "staging beyond capacity is a fatal backend error")
}

func TestConfig_Gemm_RoutesByThreshold(t *testing.T) {
	// Capacity 0 makes any offloaded call fail, so routing is observable.
	broken := blas.NewStagedCapacity[float64](0)
	cfg := blas.DefaultConfig[float64]().WithBackend(broken, 4, 4, 4)

	a := make([]float64, 16)
	b := make([]float64, 16)
	c := make([]float64, 16)

	// Below threshold: host kernel, must succeed.
	require.NoError(t, cfg.Gemm(blas.Normal, blas.Normal, 2, 2, 2, 1.0, a, 4, b, 4, 0, c, 4))

	// At threshold: routed to the broken backend.
	err := cfg.Gemm(blas.Normal, blas.Normal, 4, 4, 4, 1.0, a, 4, b, 4, 0, c, 4)
	require.ErrorIs(t, err, blas.ErrBackend)
}

func TestUseStagedAuto_ConfiguresStaged(t *testing.T) {
	cfg := blas.DefaultConfig[float32]().UseStagedAuto()
	require.Equal(t, "staged", cfg.BackendName())
	require.False(t, cfg.Offloads(1, 1, 1), "tiny products always stay on the host")
}
