/*package array provides array-manipulation utilities for float64 slices
that avoid the overhead of more general containers.
*/
package array

import (
	"fmt"
	"math"
)

// getOutput is a utility function that gets the output array from an optional
// argument or allocates a new one.
func getOutput(out [][]bool, n int) []bool {
	if len(out) == 0 {
		return make([]bool, n)
	} else {
		ok := out[0]
		if len(ok) != n {
			panic(fmt.Sprintf(
				"len(xs) = %d, but len(out) = %d", n, len(ok)),
			)
		}
		return ok
	}
}

// Arange returns the n values offset, offset + step, offset + 2*step, ...
// It takes a output target as an optional argument to avoid excess
// allocations.
func Arange(n int, step, offset float64, out ...[]float64) []float64 {
	var xs []float64
	if len(out) == 0 {
		xs = make([]float64, n)
	} else {
		xs = out[0]
		if len(xs) != n {
			panic(fmt.Sprintf("n = %d, but len(out) = %d", n, len(xs)))
		}
	}

	for i := range xs {
		xs[i] = float64(i)*step + offset
	}
	return xs
}

// Finite returns a bool array representing which elements of xs are neither
// NaN nor infinite. It takes a output target as an optional argument to avoid
// excess allocations.
func Finite(xs []float64, out ...[]bool) []bool {
	ok := getOutput(out, len(xs))
	for i := range xs {
		ok[i] = !math.IsNaN(xs[i]) && !math.IsInf(xs[i], 0)
	}
	return ok
}

// Not applies element-by-element ! to an input array. It takes an optional
// output array.
func Not(xs []bool, out ...[]bool) []bool {
	ok := getOutput(out, len(xs))
	for i := range xs {
		ok[i] = !xs[i]
	}
	return ok
}

// Count returns the number of true elements in xs.
func Count(xs []bool) int {
	n := 0
	for _, x := range xs {
		if x {
			n++
		}
	}
	return n
}
