// SPDX-License-Identifier: MIT
// Package dense: Dense is the concrete column-major buffer with an explicit
// leading dimension, storing elements in a flat slice for performance and
// cache friendliness. Every distributed matrix owns exactly one Dense;
// recursive kernels operate on non-owning views into it.

package dense

import (
	"fmt"
	"strings"
)

// Dense is a column-major h×w matrix of T values.
// data holds at least ld*w elements; entry (i, j) lives at data[i + j*ld].
// Invariant: ld >= max(1, h). A view shares its parent's backing slice and
// must never be resized.
type Dense[T Scalar] struct {
	h, w int  // matrix height (rows) and width (columns)
	ld   int  // leading dimension: stride between consecutive columns
	view bool // true when the buffer is a non-owning window into a parent
	data []T  // flat backing storage, column-major
}

// denseErrorf wraps an underlying sentinel with Dense method context.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// NewDense creates an h×w Dense matrix initialized to zeros.
// Stage 1 (Validate): ensure h >= 0 and w >= 0.
// Stage 2 (Prepare): allocate flat backing slice with ld = max(1, h).
// Stage 3 (Finalize): return new Dense or ErrBadShape.
// Complexity: O(h*w) time and memory.
func NewDense[T Scalar](h, w int) (*Dense[T], error) {
	return NewDenseLD[T](h, w, maxInt(1, h))
}

// NewDenseLD creates an h×w Dense with an explicit leading dimension.
// ld must satisfy ld >= max(1, h) so each column is fully addressable.
// Complexity: O(ld*w).
func NewDenseLD[T Scalar](h, w, ld int) (*Dense[T], error) {
	// Validate shape first: negative dimensions are always a caller bug.
	if h < 0 || w < 0 {
		return nil, fmt.Errorf("NewDense(%d,%d): %w", h, w, ErrBadShape)
	}
	// Validate the column stride covers a full column.
	if ld < maxInt(1, h) {
		return nil, fmt.Errorf("NewDense(%d,%d,ld=%d): %w", h, w, ld, ErrBadLeadingDim)
	}

	return &Dense[T]{h: h, w: w, ld: ld, data: make([]T, ld*w)}, nil
}

// Height returns the number of rows. Complexity: O(1).
func (m *Dense[T]) Height() int { return m.h }

// Width returns the number of columns. Complexity: O(1).
func (m *Dense[T]) Width() int { return m.w }

// LD returns the leading dimension (column stride). Complexity: O(1).
func (m *Dense[T]) LD() int { return m.ld }

// Data exposes the flat column-major backing slice.
// Kernels index it as data[i + j*LD()]; the slice length is at least
// LD()*(Width()-1) + Height() for non-empty matrices.
func (m *Dense[T]) Data() []T { return m.data }

// IsView reports whether the buffer is a non-owning window.
func (m *Dense[T]) IsView() bool { return m.view }

// indexOf computes the flat index for (row, col) or returns ErrOutOfRange.
// Complexity: O(1).
func (m *Dense[T]) indexOf(method string, row, col int) (int, error) {
	if row < 0 || row >= m.h {
		return 0, denseErrorf(method, row, col, ErrOutOfRange)
	}
	if col < 0 || col >= m.w {
		return 0, denseErrorf(method, row, col, ErrOutOfRange)
	}

	return row + col*m.ld, nil
}

// At retrieves the element at (row, col).
// Complexity: O(1).
func (m *Dense[T]) At(row, col int) (T, error) {
	idx, err := m.indexOf("At", row, col)
	if err != nil {
		var zero T
		return zero, err
	}

	return m.data[idx], nil
}

// Set assigns value v at (row, col).
// Complexity: O(1).
func (m *Dense[T]) Set(row, col int, v T) error {
	idx, err := m.indexOf("Set", row, col)
	if err != nil {
		return err
	}
	m.data[idx] = v

	return nil
}

// Update adds v to the element at (row, col): m[row,col] += v.
// Complexity: O(1).
func (m *Dense[T]) Update(row, col int, v T) error {
	idx, err := m.indexOf("Update", row, col)
	if err != nil {
		return err
	}
	m.data[idx] += v

	return nil
}

// Resize reallocates the buffer to h×w with ld = max(1, h), discarding
// previous contents (fresh zeroed storage). A no-op when the shape already
// matches. Views cannot be resized.
// Complexity: O(h*w) on reallocation.
func (m *Dense[T]) Resize(h, w int) error {
	if m.view {
		return fmt.Errorf("Dense.Resize(%d,%d): %w", h, w, ErrResizeView)
	}
	if h < 0 || w < 0 {
		return fmt.Errorf("Dense.Resize(%d,%d): %w", h, w, ErrBadShape)
	}
	if h == m.h && w == m.w {
		return nil
	}
	m.h, m.w, m.ld = h, w, maxInt(1, h)
	m.data = make([]T, m.ld*w)

	return nil
}

// View returns a non-owning h×w window with top-left corner at (row, col).
// The view shares storage with m (same leading dimension); writes through
// either are visible to both. Views never own and must not be resized.
// Complexity: O(1).
func (m *Dense[T]) View(row, col, h, w int) (*Dense[T], error) {
	if h < 0 || w < 0 {
		return nil, fmt.Errorf("Dense.View(%d,%d,%d,%d): %w", row, col, h, w, ErrBadShape)
	}
	if row < 0 || col < 0 || row+h > m.h || col+w > m.w {
		return nil, fmt.Errorf("Dense.View(%d,%d,%d,%d): %w", row, col, h, w, ErrOutOfRange)
	}
	// An empty window still needs a well-formed (possibly empty) slice.
	off := row + col*m.ld
	if off > len(m.data) {
		off = len(m.data)
	}

	return &Dense[T]{h: h, w: w, ld: m.ld, view: true, data: m.data[off:]}, nil
}

// Zero overwrites the h×w window with the additive identity, respecting the
// leading dimension (padding between columns is left untouched).
// Complexity: O(h*w).
func (m *Dense[T]) Zero() {
	var zero T
	for j := 0; j < m.w; j++ {
		col := m.data[j*m.ld : j*m.ld+m.h]
		for i := range col {
			col[i] = zero
		}
	}
}

// Fill assigns v to every element of the h×w window.
// Complexity: O(h*w).
func (m *Dense[T]) Fill(v T) {
	for j := 0; j < m.w; j++ {
		col := m.data[j*m.ld : j*m.ld+m.h]
		for i := range col {
			col[i] = v
		}
	}
}

// Scale multiplies every element by alpha; alpha == 0 writes exact zeros so
// poisoned contents (NaN) do not survive a zero scale.
// Complexity: O(h*w).
func (m *Dense[T]) Scale(alpha T) {
	if IsZero(alpha) {
		m.Zero()
		return
	}
	for j := 0; j < m.w; j++ {
		col := m.data[j*m.ld : j*m.ld+m.h]
		for i := range col {
			col[i] *= alpha
		}
	}
}

// Clone returns a compact deep copy (ld == max(1, h)) owning its storage.
// Complexity: O(h*w).
func (m *Dense[T]) Clone() *Dense[T] {
	out, _ := NewDense[T](m.h, m.w) // shape already validated on m
	for j := 0; j < m.w; j++ {
		copy(out.data[j*out.ld:j*out.ld+m.h], m.data[j*m.ld:j*m.ld+m.h])
	}

	return out
}

// CopyFrom overwrites m with the contents of src; shapes must match exactly.
// Complexity: O(h*w).
func (m *Dense[T]) CopyFrom(src *Dense[T]) error {
	if m.h != src.h || m.w != src.w {
		return fmt.Errorf("Dense.CopyFrom: %dx%d vs %dx%d: %w", m.h, m.w, src.h, src.w, ErrShapeMismatch)
	}
	for j := 0; j < m.w; j++ {
		copy(m.data[j*m.ld:j*m.ld+m.h], src.data[j*src.ld:j*src.ld+m.h])
	}

	return nil
}

// Equal reports element-wise equality within tol (measured via AbsVal of
// the difference). Shapes must match; mismatched shapes report false.
// Complexity: O(h*w).
func (m *Dense[T]) Equal(other *Dense[T], tol float64) bool {
	if m.h != other.h || m.w != other.w {
		return false
	}
	for j := 0; j < m.w; j++ {
		for i := 0; i < m.h; i++ {
			if AbsVal(m.data[i+j*m.ld]-other.data[i+j*other.ld]) > tol {
				return false
			}
		}
	}

	return true
}

// String renders the matrix row by row as "[a, b]\n[c, d]\n".
// Intended for tests and small matrices only.
func (m *Dense[T]) String() string {
	var sb strings.Builder
	for i := 0; i < m.h; i++ {
		sb.WriteByte('[')
		for j := 0; j < m.w; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%v", m.data[i+j*m.ld])
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}

// maxInt is a local helper; kept unexported to avoid polluting the API.
func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}
