// Package rank ranks and rescales score vectors.
//
// Ranks are 1-based. Missing values (NaN) are not ranked and keep NaN as
// their rank, so a column with gaps ranks only the values it has.
package rank

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Method decides the rank shared by tied values
type Method string

const (
	Average Method = "average" // mean of the positions the ties occupy
	Min     Method = "min"     // lowest position of the group
	Max     Method = "max"     // highest position of the group
	First   Method = "first"   // positions in order of appearance
)

// ParseMethod validates a tie method name
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case Average, Min, Max, First:
		return m, nil
	case "":
		return Average, nil
	}
	return "", fmt.Errorf("unknown rank method %q (want average, min, max or first)", s)
}

// Order is the sort direction used to assign rank 1
type Order bool

const (
	Ascending  Order = true  // smallest value gets rank 1
	Descending Order = false // largest value gets rank 1
)

// Rank returns the rank of every value of xs
func Rank(xs []float64, order Order, method Method) []float64 {
	ranks := make([]float64, len(xs))
	idx := make([]int, 0, len(xs))
	for i, x := range xs {
		if math.IsNaN(x) {
			ranks[i] = math.NaN()
			continue
		}
		idx = append(idx, i)
	}

	sort.SliceStable(idx, func(a, b int) bool {
		if order == Ascending {
			return xs[idx[a]] < xs[idx[b]]
		}
		return xs[idx[a]] > xs[idx[b]]
	})

	for start := 0; start < len(idx); {
		end := start + 1
		for end < len(idx) && xs[idx[end]] == xs[idx[start]] {
			end++
		}
		// positions start+1 .. end are tied
		for k := start; k < end; k++ {
			var r float64
			switch method {
			case Min:
				r = float64(start + 1)
			case Max:
				r = float64(end)
			case First:
				r = float64(k + 1)
			default:
				r = float64(start+1+end) / 2
			}
			ranks[idx[k]] = r
		}
		start = end
	}

	return ranks
}

// MinMax rescales xs linearly so the smallest value maps to 0 and the largest
// to 1. A constant vector maps to all zeros. NaN values stay NaN.
func MinMax(xs []float64) []float64 {
	return MinMaxFill(xs, 0)
}

// MinMaxFill is MinMax with the value assigned to every element of a
// constant vector.
func MinMaxFill(xs []float64, constant float64) []float64 {
	out := make([]float64, len(xs))
	present := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			present = append(present, x)
		}
	}
	if len(present) == 0 {
		copy(out, xs)
		return out
	}

	lo, hi := floats.Min(present), floats.Max(present)
	span := hi - lo
	for i, x := range xs {
		switch {
		case math.IsNaN(x):
			out[i] = math.NaN()
		case span == 0:
			out[i] = constant
		default:
			out[i] = (x - lo) / span
		}
	}
	return out
}

// Abs returns the absolute values of xs
func Abs(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = math.Abs(x)
	}
	return out
}
