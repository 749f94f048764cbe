package array

import (
	"math"
	"testing"
)

func sliceEq(xs, ys []float64) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if xs[i] != ys[i] {
			return false
		}
	}

	return true
}

func boolSliceEq(xs, ys []bool) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if xs[i] != ys[i] {
			return false
		}
	}

	return true
}

func TestArange(t *testing.T) {
	res := []float64{10, 12.5, 15, 17.5}

	xs := Arange(4, 2.5, 10)
	if !sliceEq(xs, res) {
		t.Errorf("Arange(4, 2.5, 10) = %g, not %g.", xs, res)
	}

	out := make([]float64, 4)
	xs = Arange(4, 2.5, 10, out)
	if !sliceEq(out, res) || !sliceEq(out, xs) {
		t.Errorf("Arange(4, 2.5, 10) = %g, not %g.", xs, res)
	}

	if xs := Arange(0, 1, 1); len(xs) != 0 {
		t.Errorf("Arange(0, 1, 1) = %g, not [].", xs)
	}
}

func TestFinite(t *testing.T) {
	xs := []float64{1, math.NaN(), math.Inf(1), -3, math.Inf(-1), 0}
	res := []bool{true, false, false, true, false, true}

	ok := Finite(xs)
	if !boolSliceEq(ok, res) {
		t.Errorf("Finite(%g) = %v, not %v.", xs, ok, res)
	}

	out := make([]bool, len(xs))
	ok = Finite(xs, out)
	if !boolSliceEq(out, res) || !boolSliceEq(out, ok) {
		t.Errorf("Finite(%g) = %v, not %v.", xs, ok, res)
	}

	if n := Count(Not(ok)); n != 3 {
		t.Errorf("Count(Not(%v)) = %d, not 3.", ok, n)
	}
}

func TestNot(t *testing.T) {
	xs := []bool{true, false, false}
	res := []bool{false, true, true}

	ok := Not(xs)
	if !boolSliceEq(ok, res) {
		t.Errorf("Not(%v) = %v, not %v.", xs, ok, res)
	}

	out := make([]bool, 3)
	ok = Not(xs, out)
	if !boolSliceEq(out, res) || !boolSliceEq(out, ok) {
		t.Errorf("Not(%v) = %v, not %v.", xs, ok, res)
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		xs []bool
		n  int
	}{
		{[]bool{}, 0},
		{[]bool{true}, 1},
		{[]bool{false, false}, 0},
		{[]bool{true, false, true, true}, 3},
	}

	for i, test := range tests {
		if n := Count(test.xs); n != test.n {
			t.Errorf("%d) Count(%v) = %d, not %d.", i, test.xs, n, test.n)
		}
	}
}

func TestGetOutputPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Finite() with a short output buffer didn't panic.")
		}
	}()
	Finite([]float64{1, 2, 3}, make([]bool, 2))
}

func BenchmarkFinite1000(b *testing.B) {
	xs := make([]float64, 1000)
	out := make([]bool, 1000)
	b.SetBytes(8000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Finite(xs, out)
	}
}
