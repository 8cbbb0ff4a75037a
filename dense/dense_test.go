// Package dense_test contains unit tests for the Dense column-major buffer
// and the numeric-ring helpers in the dense package.
package dense_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/lvlblas/dense"
	"github.com/stretchr/testify/require"
)

// TestNewDenseInvalidShape ensures constructors reject negative dimensions
// and undersized leading dimensions.
func TestNewDenseInvalidShape(t *testing.T) {
	_, err := dense.NewDense[float64](-1, 5)    // negative height
	require.ErrorIs(t, err, dense.ErrBadShape)  // expect ErrBadShape

	_, err = dense.NewDense[float64](5, -1)     // negative width
	require.ErrorIs(t, err, dense.ErrBadShape)  // expect ErrBadShape

	_, err = dense.NewDenseLD[float64](4, 2, 3)      // ld < height
	require.ErrorIs(t, err, dense.ErrBadLeadingDim)  // expect ErrBadLeadingDim
}

// TestDenseShapeAndLD verifies dimension accessors and the ld >= h invariant.
func TestDenseShapeAndLD(t *testing.T) {
	m, err := dense.NewDense[float64](3, 4)
	require.NoError(t, err)
	require.Equal(t, 3, m.Height())
	require.Equal(t, 4, m.Width())
	require.GreaterOrEqual(t, m.LD(), m.Height()) // invariant ld >= h

	padded, err := dense.NewDenseLD[float64](3, 4, 7) // explicit padding
	require.NoError(t, err)
	require.Equal(t, 7, padded.LD())
	require.Len(t, padded.Data(), 7*4)
}

// TestAtSetOutOfRange ensures indexers return ErrOutOfRange, never panic.
func TestAtSetOutOfRange(t *testing.T) {
	m, err := dense.NewDense[float64](2, 2)
	require.NoError(t, err)

	_, err = m.At(-1, 0)                          // negative row
	require.ErrorIs(t, err, dense.ErrOutOfRange)  // expect ErrOutOfRange
	_, err = m.At(0, 2)                           // column past the edge
	require.ErrorIs(t, err, dense.ErrOutOfRange)  // expect ErrOutOfRange
	err = m.Set(2, 0, 1.5)                        // row past the edge
	require.ErrorIs(t, err, dense.ErrOutOfRange)  // expect ErrOutOfRange
	err = m.Update(0, -1, 1.5)                    // negative column
	require.ErrorIs(t, err, dense.ErrOutOfRange)  // expect ErrOutOfRange
}

// TestSetAtUpdateColumnMajor validates the column-major flat layout.
func TestSetAtUpdateColumnMajor(t *testing.T) {
	m, err := dense.NewDense[float64](2, 3)
	require.NoError(t, err)

	require.NoError(t, m.Set(1, 2, 7.5))  // write (1,2)
	v, err := m.At(1, 2)                  // read it back
	require.NoError(t, err)
	require.Equal(t, 7.5, v)

	// (1,2) lives at flat index 1 + 2*ld in column-major order.
	require.Equal(t, 7.5, m.Data()[1+2*m.LD()])

	require.NoError(t, m.Update(1, 2, 0.5)) // += 0.5
	v, err = m.At(1, 2)
	require.NoError(t, err)
	require.Equal(t, 8.0, v)
}

// TestViewSharesStorage ensures views alias the parent and refuse Resize.
func TestViewSharesStorage(t *testing.T) {
	m, err := dense.NewDense[float64](4, 4)
	require.NoError(t, err)

	v, err := m.View(1, 2, 2, 2) // 2x2 window at (1,2)
	require.NoError(t, err)
	require.True(t, v.IsView())
	require.Equal(t, m.LD(), v.LD()) // views keep the parent stride

	require.NoError(t, v.Set(0, 0, 3.25)) // write through the view
	got, err := m.At(1, 2)                // visible through the parent
	require.NoError(t, err)
	require.Equal(t, 3.25, got)

	err = v.Resize(1, 1)                         // views must not reallocate
	require.ErrorIs(t, err, dense.ErrResizeView) // expect ErrResizeView

	_, err = m.View(3, 3, 2, 2)                  // window past the edge
	require.ErrorIs(t, err, dense.ErrOutOfRange) // expect ErrOutOfRange
}

// TestResizeDiscardsContents ensures Resize yields fresh zeroed storage.
func TestResizeDiscardsContents(t *testing.T) {
	m, err := dense.NewDense[float64](2, 2)
	require.NoError(t, err)
	m.Fill(9)

	require.NoError(t, m.Resize(3, 1)) // different shape reallocates
	require.Equal(t, 3, m.Height())
	require.Equal(t, 1, m.Width())
	for i := 0; i < 3; i++ {
		v, errAt := m.At(i, 0)
		require.NoError(t, errAt)
		require.Zero(t, v) // stale data must not survive
	}
}

// TestCloneIndependence ensures Clone returns a compact deep copy.
func TestCloneIndependence(t *testing.T) {
	m, err := dense.NewDenseLD[float64](2, 2, 5) // padded parent
	require.NoError(t, err)
	require.NoError(t, m.Set(0, 0, 1.0))
	require.NoError(t, m.Set(1, 1, 2.0))

	clone := m.Clone()
	require.Equal(t, 2, clone.LD()) // clones compact the stride
	require.NoError(t, clone.Set(0, 0, 3.0))

	orig, err := m.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, orig) // original unchanged
}

// TestScaleZeroKillsNaN ensures Scale(0) writes exact zeros even over NaN.
func TestScaleZeroKillsNaN(t *testing.T) {
	m, err := dense.NewDense[float64](2, 2)
	require.NoError(t, err)
	m.Fill(math.NaN())

	m.Scale(0)
	for j := 0; j < 2; j++ {
		for i := 0; i < 2; i++ {
			v, errAt := m.At(i, j)
			require.NoError(t, errAt)
			require.Zero(t, v) // NaN * 0 must not leak through
		}
	}
}

// TestStringOutput checks the row-wise rendering.
func TestStringOutput(t *testing.T) {
	m, err := dense.NewDense[float64](2, 2)
	require.NoError(t, err)
	require.NoError(t, m.Set(0, 0, 1))
	require.NoError(t, m.Set(0, 1, 2))
	require.NoError(t, m.Set(1, 0, 3))
	require.NoError(t, m.Set(1, 1, 4))

	require.Equal(t, "[1, 2]\n[3, 4]\n", m.String())
}

// TestScalarHelpers exercises Conj, IsZero, AbsVal and FromFloat across the ring.
func TestScalarHelpers(t *testing.T) {
	require.Equal(t, complex(1, -2), dense.Conj(complex(1, 2)))           // complex128 conjugate
	require.Equal(t, complex64(complex(3, -4)), dense.Conj(complex64(complex(3, 4)))) // complex64 conjugate
	require.Equal(t, 2.5, dense.Conj(2.5))                                // reals are fixed points

	require.True(t, dense.IsZero(0.0))
	require.False(t, dense.IsZero(complex(0, 1)))

	require.InDelta(t, 5.0, dense.AbsVal(complex(3, 4)), 1e-15) // modulus
	require.InDelta(t, 1.5, dense.AbsVal(float32(-1.5)), 1e-6)  // magnitude

	require.Equal(t, complex(2, 0), dense.FromFloat[complex128](2)) // lift to complex
	require.Equal(t, float32(2), dense.FromFloat[float32](2))       // narrow to float32
}
