// SPDX-License-Identifier: MIT
package gemm_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/lvlblas/blas"
	"github.com/katalvlaran/lvlblas/distmat"
	"github.com/katalvlaran/lvlblas/gemm"
	"github.com/katalvlaran/lvlblas/grid"
)

// sinkErr prevents the compiler from eliding benchmarked runs.
var sinkErr error

func benchGemm(b *testing.B, rows, cols, n int, alg gemm.Algorithm) {
	b.Helper()
	g, err := grid.NewGrid(rows, cols)
	if err != nil {
		b.Fatal(err)
	}
	rng := rand.New(rand.NewSource(12))
	f := randFunc(rng, n, n)
	opts := gemm.DefaultOptions[float64]()
	opts.Alg = alg

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sinkErr = g.Run(func(p *grid.Process) error {
			a, err := newFilled(p, distmat.MC, distmat.MR, n, n, f)
			if err != nil {
				return err
			}
			bm, err := newFilled(p, distmat.MC, distmat.MR, n, n, f)
			if err != nil {
				return err
			}
			c, err := distmat.New[float64](p, distmat.MC, distmat.MR)
			if err != nil {
				return err
			}

			return gemm.Product(opts, blas.Normal, blas.Normal, 1, a, bm, c)
		})
		if sinkErr != nil {
			b.Fatal(sinkErr)
		}
	}
}

func BenchmarkGemmStationaryC2x2(b *testing.B) { benchGemm(b, 2, 2, 128, gemm.AlgDefault) }

func BenchmarkGemmStationaryA2x2(b *testing.B) { benchGemm(b, 2, 2, 128, gemm.AlgStationaryA) }

func BenchmarkGemmCannon2x2(b *testing.B) { benchGemm(b, 2, 2, 128, gemm.AlgCannon) }
