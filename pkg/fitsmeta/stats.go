package fitsmeta

import (
	"fmt"
	"math"
	"sort"
)

// MADScale converts a median absolute deviation into a normal-equivalent sigma.
const MADScale = 1.4826

// Statistics holds robust statistics of the finite samples of a matrix.
type Statistics struct {
	Median float64
	MAD    float64
	Min    float64
	Max    float64
	Count  int
}

func (s Statistics) String() string {
	return fmt.Sprintf("{Median=%f, MAD=%f, Min=%f, Max=%f, Count=%d}", s.Median, s.MAD, s.Min, s.Max, s.Count)
}

// CalculateStatistics computes median, MAD and range over the finite samples.
func CalculateStatistics(m *ImageMatrix) Statistics {
	sorted := make([]float64, 0, len(m.samples))
	for _, v := range m.samples {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return Statistics{}
	}
	sort.Float64s(sorted)
	median := medianSorted(sorted)

	deviations := make([]float64, len(sorted))
	for i, v := range sorted {
		deviations[i] = math.Abs(v - median)
	}
	sort.Float64s(deviations)

	return Statistics{
		Median: median,
		MAD:    medianSorted(deviations),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Count:  len(sorted),
	}
}

func medianSorted(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2.0
	}
	return sorted[n/2]
}

// AutoWindow picks display bounds of median ± kappa·sigma, where sigma is the
// scaled MAD, clamped to the sample range.
func AutoWindow(m *ImageMatrix, kappa float64) (float64, float64) {
	st := CalculateStatistics(m)
	sigma := MADScale * st.MAD
	lo := math.Max(st.Median-kappa*sigma, st.Min)
	hi := math.Min(st.Median+kappa*sigma, st.Max)
	return lo, hi
}
