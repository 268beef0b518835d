package sparse

import "testing"

func TestMatrixSetAndGet(t *testing.T) {
	M := NewMatrix(10, 10, DefaultNullValue)
	if v := M.Value(2, 3); v != DefaultNullValue {
		t.Errorf("expected null value for an empty position, got %d", v)
	}
	M.Set(2, 3, 4711)
	if v := M.Value(2, 3); v != 4711 {
		t.Errorf("expected 4711, got %d", v)
	}
	if cnt := M.ValueCount(); cnt != 1 {
		t.Errorf("expected 1 occupied position, got %d", cnt)
	}
	M.Set(2, 3, 7)
	if v := M.Value(2, 3); v != 7 {
		t.Errorf("expected the value to be overwritten with 7, got %d", v)
	}
	if cnt := M.ValueCount(); cnt != 1 {
		t.Errorf("expected 1 occupied position after overwrite, got %d", cnt)
	}
}

func TestMatrixSecondaryValues(t *testing.T) {
	M := NewMatrix(5, 5, DefaultNullValue)
	M.Add(1, 1, 10)
	if v1, v2 := M.Values(1, 1); v1 != 10 || v2 != DefaultNullValue {
		t.Errorf("expected (10, null), got (%d, %d)", v1, v2)
	}
	M.Add(1, 1, 20)
	if v1, v2 := M.Values(1, 1); v1 != 10 || v2 != 20 {
		t.Errorf("expected (10, 20), got (%d, %d)", v1, v2)
	}
	M.Set(1, 1, 30) // Set clears the secondary slot
	if v1, v2 := M.Values(1, 1); v1 != 30 || v2 != DefaultNullValue {
		t.Errorf("expected (30, null), got (%d, %d)", v1, v2)
	}
}

func TestMatrixOrdering(t *testing.T) {
	M := NewMatrix(100, 100, -1)
	positions := [][2]int{{7, 3}, {0, 9}, {7, 1}, {3, 3}, {0, 0}, {7, 8}}
	for k, pos := range positions {
		M.Set(pos[0], pos[1], int32(k))
	}
	for k, pos := range positions {
		if v := M.Value(pos[0], pos[1]); v != int32(k) {
			t.Errorf("expected %d at (%d,%d), got %d", k, pos[0], pos[1], v)
		}
	}
	if cnt := M.ValueCount(); cnt != len(positions) {
		t.Errorf("expected %d occupied positions, got %d", len(positions), cnt)
	}
}

func TestMatrixEachInRow(t *testing.T) {
	M := NewMatrix(10, 10, -1)
	M.Set(2, 5, 50)
	M.Set(2, 1, 10)
	M.Set(3, 0, 99)
	M.Set(2, 8, -1) // a null-valued cell is not reported
	var cols []int
	var vals []int32
	M.EachInRow(2, func(j int, value int32) {
		cols = append(cols, j)
		vals = append(vals, value)
	})
	if len(cols) != 2 || cols[0] != 1 || cols[1] != 5 {
		t.Errorf("expected columns [1 5], got %v", cols)
	}
	if vals[0] != 10 || vals[1] != 50 {
		t.Errorf("expected values [10 50], got %v", vals)
	}
	M.EachInRow(7, func(j int, value int32) {
		t.Errorf("expected no entries in row 7, got one at column %d", j)
	})
}
