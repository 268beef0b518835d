/*
Package sparse implements a simple type for sparse integer matrices.
It is mainly used for parser tables (GOTO-table and ACTION-table).
Every entry in the table is either a single int32 or a pair (int32,int32);
the second slot of a pair holds the losing action of a resolved table
conflict.

This implementation uses the COO algorithm (a.k.a. triplet-encoding).

	https://medium.com/@jmaxg3/101-ways-to-store-a-sparse-matrix-c7f2bf15a229

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package sparse

import (
	"fmt"
)

// Matrix is a sparse matrix of integer values. Construct with
//
//	M := sparse.NewMatrix(10, 10, -1)  // last parameter is M's null-value
//
// Now
//
//	M.Set(2, 3, 4711)              // set a value
//	v := M.Value(2, 3)             // returns 4711
//	M.Add(2, 3, 123)               // add a secondary value
//	cnt := M.ValueCount()          // still returns 1 (one position set)
//	v = M.Value(10, 10)            // returns -1, i.e. the null-value
//
// Values cannot be deleted, but may be overwritten with the null-value.
// A matrix is not safe for concurrent mutation; parser tables are filled
// once and read-only afterwards, which is safe to share.
type Matrix struct {
	cells   []cell
	rowcnt  int
	colcnt  int
	nullval int32
}

// A cell holds up to two values at a (row, col) position. Cells are kept
// sorted by (row, col) to make lookups and row scans cheap.
type cell struct {
	row, col int
	primary  int32
	second   int32
}

// DefaultNullValue is the default empty-value for matrices (min int32).
const DefaultNullValue = -2147483648

// NewMatrix creates a matrix of size m x n. The 3rd argument is a
// null-value, indicating empty entries (use DefaultNullValue if you haven't
// any specific requirements).
func NewMatrix(m, n int, nullValue int32) *Matrix {
	return &Matrix{
		rowcnt:  m,
		colcnt:  n,
		nullval: nullValue,
	}
}

// M returns the row count.
func (m *Matrix) M() int {
	return m.rowcnt
}

// N returns the column count.
func (m *Matrix) N() int {
	return m.colcnt
}

// NullValue returns this matrix' null value.
func (m *Matrix) NullValue() int32 {
	return m.nullval
}

// ValueCount returns the number of occupied positions in the matrix.
func (m *Matrix) ValueCount() int {
	return len(m.cells)
}

// Value returns the primary value at position (i,j), or NullValue.
func (m *Matrix) Value(i, j int) int32 {
	if at, ok := m.find(i, j); ok {
		return m.cells[at].primary
	}
	return m.nullval
}

// Values returns the pair of values at position (i,j), or
// (NullValue, NullValue).
func (m *Matrix) Values(i, j int) (int32, int32) {
	if at, ok := m.find(i, j); ok {
		return m.cells[at].primary, m.cells[at].second
	}
	return m.nullval, m.nullval
}

// Set stores value as the primary value at position (i,j), clearing any
// secondary value.
func (m *Matrix) Set(i, j int, value int32) *Matrix {
	at, ok := m.find(i, j)
	if ok {
		m.cells[at].primary = value
		m.cells[at].second = m.nullval
		return m
	}
	m.insert(at, cell{row: i, col: j, primary: value, second: m.nullval})
	return m
}

// Add stores value at position (i,j): as the primary value if the position
// is empty, as the secondary value otherwise. A full cell keeps its primary
// value and has its secondary value overwritten.
func (m *Matrix) Add(i, j int, value int32) *Matrix {
	at, ok := m.find(i, j)
	if ok {
		if m.cells[at].primary == m.nullval {
			m.cells[at].primary = value
		} else {
			m.cells[at].second = value
		}
		return m
	}
	m.insert(at, cell{row: i, col: j, primary: value, second: m.nullval})
	return m
}

// EachInRow calls f for every occupied position (i, j) of row i, in
// ascending column order, passing the column index and the primary value.
func (m *Matrix) EachInRow(i int, f func(j int, value int32)) {
	at, _ := m.find(i, 0)
	for ; at < len(m.cells) && m.cells[at].row == i; at++ {
		if m.cells[at].primary != m.nullval {
			f(m.cells[at].col, m.cells[at].primary)
		}
	}
}

// find locates the cell for (i,j). If absent, it returns the insertion
// position keeping the cell slice sorted.
func (m *Matrix) find(i, j int) (int, bool) {
	lo, hi := 0, len(m.cells)
	for lo < hi {
		mid := (lo + hi) / 2
		c := &m.cells[mid]
		if c.row < i || (c.row == i && c.col < j) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(m.cells) && m.cells[lo].row == i && m.cells[lo].col == j {
		return lo, true
	}
	return lo, false
}

func (m *Matrix) insert(at int, c cell) {
	m.cells = append(m.cells, cell{})
	copy(m.cells[at+1:], m.cells[at:])
	m.cells[at] = c
}

func (c cell) String() string {
	return fmt.Sprintf("(%d,%d)=[%d,%d]", c.row, c.col, c.primary, c.second)
}
