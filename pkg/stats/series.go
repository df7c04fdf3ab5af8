// Package stats provides the small set of series statistics the simulator
// and its analytics need: a fixed-capacity rolling window and descriptive
// statistics over float slices.
package stats

import (
	"math"
	"sort"
)

// Window is a rolling sample with a fixed capacity. Appending beyond the
// capacity drops the oldest value.
type Window struct {
	data     []float64
	capacity int
}

// NewWindow creates a window holding at most capacity values.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = 1
	}
	return &Window{
		data:     make([]float64, 0, capacity),
		capacity: capacity,
	}
}

// Append adds a value, evicting the oldest if the window is full.
func (w *Window) Append(v float64) {
	w.data = append(w.data, v)
	if len(w.data) > w.capacity {
		w.data = w.data[1:]
	}
}

// Len returns the number of values currently held.
func (w *Window) Len() int {
	return len(w.data)
}

// Values returns a copy of the window contents, oldest first.
func (w *Window) Values() []float64 {
	out := make([]float64, len(w.data))
	copy(out, w.data)
	return out
}

// Last returns a copy of the most recent n values, oldest first. If fewer
// than n values are held, all of them are returned.
func (w *Window) Last(n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	if n > len(w.data) {
		n = len(w.data)
	}
	out := make([]float64, n)
	copy(out, w.data[len(w.data)-n:])
	return out
}

// Mean returns the arithmetic mean of the window, 0 if empty.
func (w *Window) Mean() float64 {
	return Mean(w.data)
}

// MeanAbs returns the mean absolute value of the window, 0 if empty.
func (w *Window) MeanAbs() float64 {
	if len(w.data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range w.data {
		sum += math.Abs(v)
	}
	return sum / float64(len(w.data))
}

// StdDev returns the population standard deviation of the window, 0 if
// empty.
func (w *Window) StdDev() float64 {
	return StdDev(w.data)
}

// Clear empties the window.
func (w *Window) Clear() {
	w.data = w.data[:0]
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev returns the population standard deviation, 0 for an empty slice.
func StdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := Mean(xs)
	var variance float64
	for _, x := range xs {
		d := x - m
		variance += d * d
	}
	variance /= float64(len(xs))
	return math.Sqrt(variance)
}

// SampleStdDev returns the sample standard deviation (Bessel-corrected),
// 0 for fewer than two values.
func SampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := Mean(xs)
	var variance float64
	for _, x := range xs {
		d := x - m
		variance += d * d
	}
	variance /= float64(len(xs) - 1)
	return math.Sqrt(variance)
}

// Diff returns the first differences xs[i+1]-xs[i]. The result has length
// len(xs)-1, or 0 for inputs shorter than two values.
func Diff(xs []float64) []float64 {
	if len(xs) < 2 {
		return []float64{}
	}
	out := make([]float64, len(xs)-1)
	for i := 1; i < len(xs); i++ {
		out[i-1] = xs[i] - xs[i-1]
	}
	return out
}

// Percentile returns the p-th percentile (0-100) using linear interpolation
// between closest ranks, 0 for an empty slice.
func Percentile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	frac := rank - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}

// Min returns the smallest value, 0 for an empty slice.
func Min(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

// Max returns the largest value, 0 for an empty slice.
func Max(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
