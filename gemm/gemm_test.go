// SPDX-License-Identifier: MIT
package gemm_test

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lvlblas/blas"
	"github.com/katalvlaran/lvlblas/dense"
	"github.com/katalvlaran/lvlblas/distmat"
	"github.com/katalvlaran/lvlblas/gemm"
	"github.com/katalvlaran/lvlblas/grid"
)

// newFilled builds an h x w matrix under the given distribution and fills
// it with f over global indices.
func newFilled(p *grid.Process, colDist, rowDist distmat.Dist, h, w int, f func(i, j int) float64) (*distmat.Matrix[float64], error) {
	m, err := distmat.New[float64](p, colDist, rowDist)
	if err != nil {
		return nil, err
	}
	if err := m.Resize(h, w); err != nil {
		return nil, err
	}
	m.FillGlobal(f)

	return m, nil
}

// checkGathered compares the gathered global matrix against want within
// tol, entry by entry.
func checkGathered(c *distmat.Matrix[float64], want func(i, j int) float64, tol float64) error {
	full, err := c.GatherAll()
	if err != nil {
		return err
	}
	for j := 0; j < c.Width(); j++ {
		for i := 0; i < c.Height(); i++ {
			v, err := full.At(i, j)
			if err != nil {
				return err
			}
			if math.Abs(v-want(i, j)) > tol {
				return fmt.Errorf("C(%d,%d) = %v, want %v", i, j, v, want(i, j))
			}
		}
	}

	return nil
}

func TestGemm_AllOnes(t *testing.T) {
	g, err := grid.NewGrid(2, 2)
	require.NoError(t, err)

	// (4x3 of ones) * (3x2 of ones) has every entry equal to 3.
	ones := func(i, j int) float64 { return 1 }
	err = g.Run(func(p *grid.Process) error {
		a, err := newFilled(p, distmat.MC, distmat.MR, 4, 3, ones)
		if err != nil {
			return err
		}
		b, err := newFilled(p, distmat.MC, distmat.MR, 3, 2, ones)
		if err != nil {
			return err
		}
		c, err := newFilled(p, distmat.MC, distmat.MR, 4, 2, func(i, j int) float64 { return 0 })
		if err != nil {
			return err
		}
		if err := gemm.Gemm(gemm.DefaultOptions[float64](), blas.Normal, blas.Normal, 1, a, b, 0, c); err != nil {
			return err
		}

		return checkGathered(c, func(i, j int) float64 { return 3 }, 1e-14)
	})
	require.NoError(t, err)
}

func TestGemm_TransposedIdentity(t *testing.T) {
	g, err := grid.NewGrid(2, 2)
	require.NoError(t, err)

	// With A = I, op(A) = A^T = I, so C = B.
	bval := func(i, j int) float64 { return float64(7*i - 3*j) }
	err = g.Run(func(p *grid.Process) error {
		a, err := newFilled(p, distmat.MC, distmat.MR, 5, 5, func(i, j int) float64 {
			if i == j {
				return 1
			}

			return 0
		})
		if err != nil {
			return err
		}
		b, err := newFilled(p, distmat.MC, distmat.MR, 5, 4, bval)
		if err != nil {
			return err
		}
		c, err := newFilled(p, distmat.MC, distmat.MR, 5, 4, func(i, j int) float64 { return -99 })
		if err != nil {
			return err
		}
		if err := gemm.Gemm(gemm.DefaultOptions[float64](), blas.Transpose, blas.Normal, 1, a, b, 0, c); err != nil {
			return err
		}

		return checkGathered(c, bval, 1e-14)
	})
	require.NoError(t, err)
}

func TestGemm_SmallBlocksizeMatchesSequential(t *testing.T) {
	g, err := grid.NewGrid(2, 2)
	require.NoError(t, err)

	av := func(i, j int) float64 { return float64(i+1) * float64(j+2) }
	bv := func(i, j int) float64 { return float64(i - j) }
	want := seqGemm(blas.Normal, blas.Normal, 4, 4, 4, 1.5, av, bv, 0.5, func(i, j int) float64 { return 1 })

	opts := gemm.DefaultOptions[float64]()
	opts.Blocksize = 2 // forces multiple panel rounds on a 4-wide product
	err = g.Run(func(p *grid.Process) error {
		a, err := newFilled(p, distmat.MC, distmat.MR, 4, 4, av)
		if err != nil {
			return err
		}
		b, err := newFilled(p, distmat.MC, distmat.MR, 4, 4, bv)
		if err != nil {
			return err
		}
		c, err := newFilled(p, distmat.MC, distmat.MR, 4, 4, func(i, j int) float64 { return 1 })
		if err != nil {
			return err
		}
		if err := gemm.Gemm(opts, blas.Normal, blas.Normal, 1.5, a, b, 0.5, c); err != nil {
			return err
		}

		return checkGathered(c, want, 1e-13)
	})
	require.NoError(t, err)
}

// seqGemm computes alpha*op(A)*op(B) + beta*C0 sequentially and returns
// it as a lookup function.
func seqGemm(orientA, orientB blas.Orientation, m, n, k int, alpha float64, av, bv func(i, j int) float64, beta float64, cv func(i, j int) float64) func(i, j int) float64 {
	out := make([]float64, m*n)
	opA := func(i, l int) float64 {
		if orientA.IsTrans() {
			return av(l, i)
		}

		return av(i, l)
	}
	opB := func(l, j int) float64 {
		if orientB.IsTrans() {
			return bv(j, l)
		}

		return bv(l, j)
	}
	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			var sum float64
			for l := 0; l < k; l++ {
				sum += opA(i, l) * opB(l, j)
			}
			out[i+j*m] = alpha*sum + beta*cv(i, j)
		}
	}

	return func(i, j int) float64 { return out[i+j*m] }
}

func TestGemm_AllOrientations_AgainstGonum(t *testing.T) {
	g, err := grid.NewGrid(2, 3)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(5))
	m, n, k := 9, 7, 8
	av := randFunc(rng, 9, 9)
	bvv := randFunc(rng, 9, 9)
	cv := randFunc(rng, 9, 9)

	for _, ta := range []blas.Orientation{blas.Normal, blas.Transpose} {
		for _, tb := range []blas.Orientation{blas.Normal, blas.Transpose} {
			ah, aw := m, k
			if ta.IsTrans() {
				ah, aw = k, m
			}
			bh, bw := k, n
			if tb.IsTrans() {
				bh, bw = n, k
			}
			want := gonumGemm(ta, tb, m, n, k, 1.25, av, bvv, -0.5, cv)

			err = g.Run(func(p *grid.Process) error {
				a, err := newFilled(p, distmat.MC, distmat.MR, ah, aw, av)
				if err != nil {
					return err
				}
				b, err := newFilled(p, distmat.MC, distmat.MR, bh, bw, bvv)
				if err != nil {
					return err
				}
				c, err := newFilled(p, distmat.MC, distmat.MR, m, n, cv)
				if err != nil {
					return err
				}
				if err := gemm.Gemm(gemm.DefaultOptions[float64](), ta, tb, 1.25, a, b, -0.5, c); err != nil {
					return err
				}

				return checkGathered(c, want, float64(k)*1e-13)
			})
			require.NoError(t, err, "orientation pair %v/%v", ta, tb)
		}
	}
}

// randFunc returns a deterministic pseudo-random lookup over an h x w
// index domain.
func randFunc(rng *rand.Rand, h, w int) func(i, j int) float64 {
	vals := make([]float64, h*w)
	for i := range vals {
		vals[i] = 2*rng.Float64() - 1
	}

	return func(i, j int) float64 { return vals[i+j*h] }
}

// gonumGemm forms alpha*op(A)*op(B) + beta*C0 with gonum as the oracle.
func gonumGemm(orientA, orientB blas.Orientation, m, n, k int, alpha float64, av, bv func(i, j int) float64, beta float64, cv func(i, j int) float64) func(i, j int) float64 {
	opA := mat.NewDense(m, k, nil)
	for i := 0; i < m; i++ {
		for l := 0; l < k; l++ {
			if orientA.IsTrans() {
				opA.Set(i, l, av(l, i))
			} else {
				opA.Set(i, l, av(i, l))
			}
		}
	}
	opB := mat.NewDense(k, n, nil)
	for l := 0; l < k; l++ {
		for j := 0; j < n; j++ {
			if orientB.IsTrans() {
				opB.Set(l, j, bv(j, l))
			} else {
				opB.Set(l, j, bv(l, j))
			}
		}
	}
	var prod mat.Dense
	prod.Mul(opA, opB)

	return func(i, j int) float64 { return alpha*prod.At(i, j) + beta*cv(i, j) }
}

func TestGemm_Complex_Adjoint(t *testing.T) {
	g, err := grid.NewGrid(2, 2)
	require.NoError(t, err)

	// 2x2 adjoint sanity: C = A^H * B with hand-computed entries.
	avals := [][]complex128{{1 + 2i, 3}, {-1i, 2 - 1i}}
	bvals := [][]complex128{{2, 1i}, {1, 1}}
	want := func(i, j int) complex128 {
		var sum complex128
		for l := 0; l < 2; l++ {
			a := avals[l][i]
			sum += complex(real(a), -imag(a)) * bvals[l][j]
		}

		return sum
	}

	err = g.Run(func(p *grid.Process) error {
		a, err := distmat.New[complex128](p, distmat.MC, distmat.MR)
		if err != nil {
			return err
		}
		if err := a.Resize(2, 2); err != nil {
			return err
		}
		a.FillGlobal(func(i, j int) complex128 { return avals[i][j] })
		b, err := distmat.New[complex128](p, distmat.MC, distmat.MR)
		if err != nil {
			return err
		}
		if err := b.Resize(2, 2); err != nil {
			return err
		}
		b.FillGlobal(func(i, j int) complex128 { return bvals[i][j] })
		c, err := distmat.New[complex128](p, distmat.MC, distmat.MR)
		if err != nil {
			return err
		}
		if err := c.Resize(2, 2); err != nil {
			return err
		}
		if err := gemm.Gemm(gemm.DefaultOptions[complex128](), blas.Adjoint, blas.Normal, 1, a, b, 0, c); err != nil {
			return err
		}
		full, err := c.GatherAll()
		if err != nil {
			return err
		}
		for j := 0; j < 2; j++ {
			for i := 0; i < 2; i++ {
				v, _ := full.At(i, j)
				if dense.AbsVal(v-want(i, j)) > 1e-13 {
					return fmt.Errorf("C(%d,%d) = %v, want %v", i, j, v, want(i, j))
				}
			}
		}

		return nil
	})
	require.NoError(t, err)
}

func TestGemm_StationaryVariantsMatchDefault(t *testing.T) {
	g, err := grid.NewGrid(2, 3)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(6))
	m, n, k := 6, 5, 7
	av := randFunc(rng, 7, 7)
	bv := randFunc(rng, 7, 7)
	cv := randFunc(rng, 7, 7)

	cases := []struct {
		alg      gemm.Algorithm
		ta, tb   blas.Orientation
	}{
		{gemm.AlgStationaryA, blas.Normal, blas.Normal},
		{gemm.AlgStationaryA, blas.Normal, blas.Transpose},
		{gemm.AlgStationaryB, blas.Normal, blas.Normal},
		{gemm.AlgStationaryB, blas.Transpose, blas.Normal},
	}
	for _, tc := range cases {
		ah, aw := m, k
		if tc.ta.IsTrans() {
			ah, aw = k, m
		}
		bh, bw := k, n
		if tc.tb.IsTrans() {
			bh, bw = n, k
		}
		want := gonumGemm(tc.ta, tc.tb, m, n, k, 2, av, bv, 1, cv)

		err = g.Run(func(p *grid.Process) error {
			a, err := newFilled(p, distmat.MC, distmat.MR, ah, aw, av)
			if err != nil {
				return err
			}
			b, err := newFilled(p, distmat.MC, distmat.MR, bh, bw, bv)
			if err != nil {
				return err
			}
			c, err := newFilled(p, distmat.MC, distmat.MR, m, n, cv)
			if err != nil {
				return err
			}
			opts := gemm.DefaultOptions[float64]()
			opts.Alg = tc.alg
			opts.Blocksize = 3
			if err := gemm.Gemm(opts, tc.ta, tc.tb, 2, a, b, 1, c); err != nil {
				return err
			}

			return checkGathered(c, want, float64(k)*1e-13)
		})
		require.NoError(t, err, "%v %v/%v", tc.alg, tc.ta, tc.tb)
	}
}

func TestGemm_StationaryUnsupportedOrientations(t *testing.T) {
	g, err := grid.NewGrid(2, 2)
	require.NoError(t, err)

	err = g.Run(func(p *grid.Process) error {
		a, err := newFilled(p, distmat.MC, distmat.MR, 4, 4, func(i, j int) float64 { return 1 })
		if err != nil {
			return err
		}
		c, err := newFilled(p, distmat.MC, distmat.MR, 4, 4, func(i, j int) float64 { return 0 })
		if err != nil {
			return err
		}
		optsA := gemm.DefaultOptions[float64]()
		optsA.Alg = gemm.AlgStationaryA
		if err := gemm.Gemm(optsA, blas.Transpose, blas.Normal, 1, a, a, 0, c); !errors.Is(err, gemm.ErrAlgorithmUnsupported) {
			return errors.New("StationaryA must reject transposed A")
		}
		optsB := gemm.DefaultOptions[float64]()
		optsB.Alg = gemm.AlgStationaryB
		if err := gemm.Gemm(optsB, blas.Normal, blas.Transpose, 1, a, a, 0, c); !errors.Is(err, gemm.ErrAlgorithmUnsupported) {
			return errors.New("StationaryB must reject transposed B")
		}
		optsC := gemm.DefaultOptions[float64]()
		optsC.Alg = gemm.AlgCannon
		if err := gemm.Gemm(optsC, blas.Transpose, blas.Normal, 1, a, a, 0, c); !errors.Is(err, gemm.ErrAlgorithmUnsupported) {
			return errors.New("Cannon must reject transposed operands")
		}

		return nil
	})
	require.NoError(t, err)
}

func TestGemm_CannonMatchesDefault(t *testing.T) {
	g, err := grid.NewGrid(3, 3)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(8))
	const n = 6
	av := randFunc(rng, n, n)
	bv := randFunc(rng, n, n)
	cv := randFunc(rng, n, n)
	want := gonumGemm(blas.Normal, blas.Normal, n, n, n, 1.5, av, bv, 2, cv)

	err = g.Run(func(p *grid.Process) error {
		a, err := newFilled(p, distmat.MC, distmat.MR, n, n, av)
		if err != nil {
			return err
		}
		b, err := newFilled(p, distmat.MC, distmat.MR, n, n, bv)
		if err != nil {
			return err
		}
		c, err := newFilled(p, distmat.MC, distmat.MR, n, n, cv)
		if err != nil {
			return err
		}
		opts := gemm.DefaultOptions[float64]()
		opts.Alg = gemm.AlgCannon
		if err := gemm.Gemm(opts, blas.Normal, blas.Normal, 1.5, a, b, 2, c); err != nil {
			return err
		}

		return checkGathered(c, want, float64(n)*1e-13)
	})
	require.NoError(t, err)
}

func TestGemm_CannonPreconditions(t *testing.T) {
	// Rectangular grid is rejected.
	g, err := grid.NewGrid(2, 3)
	require.NoError(t, err)
	err = g.Run(func(p *grid.Process) error {
		a, err := newFilled(p, distmat.MC, distmat.MR, 6, 6, func(i, j int) float64 { return 1 })
		if err != nil {
			return err
		}
		c, err := newFilled(p, distmat.MC, distmat.MR, 6, 6, func(i, j int) float64 { return 0 })
		if err != nil {
			return err
		}
		opts := gemm.DefaultOptions[float64]()
		opts.Alg = gemm.AlgCannon
		if err := gemm.Gemm(opts, blas.Normal, blas.Normal, 1, a, a, 0, c); !errors.Is(err, gemm.ErrCannonPrecondition) {
			return errors.New("rectangular grid must be rejected")
		}

		return nil
	})
	require.NoError(t, err)

	// Extent not divisible by the grid edge is rejected.
	g2, err := grid.NewGrid(2, 2)
	require.NoError(t, err)
	err = g2.Run(func(p *grid.Process) error {
		a, err := newFilled(p, distmat.MC, distmat.MR, 5, 5, func(i, j int) float64 { return 1 })
		if err != nil {
			return err
		}
		c, err := newFilled(p, distmat.MC, distmat.MR, 5, 5, func(i, j int) float64 { return 0 })
		if err != nil {
			return err
		}
		opts := gemm.DefaultOptions[float64]()
		opts.Alg = gemm.AlgCannon
		if err := gemm.Gemm(opts, blas.Normal, blas.Normal, 1, a, a, 0, c); !errors.Is(err, gemm.ErrCannonPrecondition) {
			return errors.New("non-divisible extent must be rejected")
		}

		return nil
	})
	require.NoError(t, err)
}

func TestGemm_NonMCMRTarget(t *testing.T) {
	g, err := grid.NewGrid(2, 2)
	require.NoError(t, err)

	// C lives as [VC, Star]; the product forms in a temporary and comes
	// back to C's own distribution.
	av := func(i, j int) float64 { return float64(i + j) }
	want := seqGemm(blas.Normal, blas.Normal, 4, 4, 4, 1, av, av, 0.5, func(i, j int) float64 { return 2 })
	err = g.Run(func(p *grid.Process) error {
		a, err := newFilled(p, distmat.MC, distmat.MR, 4, 4, av)
		if err != nil {
			return err
		}
		c, err := newFilled(p, distmat.VC, distmat.Star, 4, 4, func(i, j int) float64 { return 2 })
		if err != nil {
			return err
		}
		if err := gemm.Gemm(gemm.DefaultOptions[float64](), blas.Normal, blas.Normal, 1, a, a, 0.5, c); err != nil {
			return err
		}
		if c.ColDist() != distmat.VC || c.RowDist() != distmat.Star {
			return errors.New("C must keep its own distribution")
		}

		return checkGathered(c, want, 1e-13)
	})
	require.NoError(t, err)
}

func TestGemm_Degeneracies(t *testing.T) {
	g, err := grid.NewGrid(2, 2)
	require.NoError(t, err)

	err = g.Run(func(p *grid.Process) error {
		// k == 0: C := beta*C with no communication.
		a, err := newFilled(p, distmat.MC, distmat.MR, 3, 0, nil2)
		if err != nil {
			return err
		}
		b, err := newFilled(p, distmat.MC, distmat.MR, 0, 3, nil2)
		if err != nil {
			return err
		}
		c, err := newFilled(p, distmat.MC, distmat.MR, 3, 3, func(i, j int) float64 { return 4 })
		if err != nil {
			return err
		}
		if err := gemm.Gemm(gemm.DefaultOptions[float64](), blas.Normal, blas.Normal, 1, a, b, 0.25, c); err != nil {
			return err
		}
		if err := checkGathered(c, func(i, j int) float64 { return 1 }, 0); err != nil {
			return err
		}

		// beta == 0 must overwrite a NaN-poisoned C.
		a2, err := newFilled(p, distmat.MC, distmat.MR, 2, 2, func(i, j int) float64 { return 1 })
		if err != nil {
			return err
		}
		c2, err := newFilled(p, distmat.MC, distmat.MR, 2, 2, func(i, j int) float64 { return math.NaN() })
		if err != nil {
			return err
		}
		if err := gemm.Gemm(gemm.DefaultOptions[float64](), blas.Normal, blas.Normal, 1, a2, a2, 0, c2); err != nil {
			return err
		}

		return checkGathered(c2, func(i, j int) float64 { return 2 }, 1e-14)
	})
	require.NoError(t, err)
}

// nil2 fills nothing; used for empty operands.
func nil2(i, j int) float64 { return 0 }

func TestGemm_ShapeAndGridErrors(t *testing.T) {
	g, err := grid.NewGrid(2, 2)
	require.NoError(t, err)

	err = g.Run(func(p *grid.Process) error {
		a, err := newFilled(p, distmat.MC, distmat.MR, 4, 3, nil2)
		if err != nil {
			return err
		}
		b, err := newFilled(p, distmat.MC, distmat.MR, 4, 2, nil2) // inner dims clash
		if err != nil {
			return err
		}
		c, err := newFilled(p, distmat.MC, distmat.MR, 4, 2, nil2)
		if err != nil {
			return err
		}
		if err := gemm.Gemm(gemm.DefaultOptions[float64](), blas.Normal, blas.Normal, 1, a, b, 0, c); !errors.Is(err, blas.ErrNonconformal) {
			return errors.New("nonconformal shapes must be rejected")
		}

		return nil
	})
	require.NoError(t, err)
}

func TestProduct_ResizesAndComputes(t *testing.T) {
	g, err := grid.NewGrid(2, 2)
	require.NoError(t, err)

	av := func(i, j int) float64 { return float64(i*3 + j) }
	want := seqGemm(blas.Transpose, blas.Normal, 3, 5, 4, 1, av, av, 0, nil2)
	err = g.Run(func(p *grid.Process) error {
		a, err := newFilled(p, distmat.MC, distmat.MR, 4, 3, av)
		if err != nil {
			return err
		}
		b, err := newFilled(p, distmat.MC, distmat.MR, 4, 5, av)
		if err != nil {
			return err
		}
		c, err := distmat.New[float64](p, distmat.MC, distmat.MR)
		if err != nil {
			return err
		}
		if err := gemm.Product(gemm.DefaultOptions[float64](), blas.Transpose, blas.Normal, 1, a, b, c); err != nil {
			return err
		}
		if c.Height() != 3 || c.Width() != 5 {
			return fmt.Errorf("C sized %dx%d, want 3x5", c.Height(), c.Width())
		}

		return checkGathered(c, want, 1e-13)
	})
	require.NoError(t, err)
}
