package fitsmeta

import "math"

// ImageMatrix holds a single 2-D plane of samples in storage order:
// samples[y*width+x] is column x of the y-th stored row. Row 0 is the first row
// in the data unit, which is the bottom of a north-up display.
type ImageMatrix struct {
	width   int
	height  int
	samples []float64
	min     float64
	max     float64
}

// NewImageMatrix builds a matrix from a data unit's axis lengths and flattened
// samples. Only 2-D planes are accepted; cubes are rejected rather than
// truncated. The samples slice is retained, not copied.
func NewImageMatrix(axes []int, samples []float64) (*ImageMatrix, error) {
	if len(axes) != 2 || axes[0] <= 0 || axes[1] <= 0 {
		return nil, &UnsupportedDimensionalityError{Axes: append([]int(nil), axes...)}
	}
	width, height := axes[0], axes[1]
	if len(samples) != width*height {
		return nil, &DataSizeMismatchError{Width: width, Height: height, Samples: len(samples)}
	}
	return &ImageMatrix{width: width, height: height, samples: samples}, nil
}

// Width and Height are the axis lengths in pixels.
func (m *ImageMatrix) Width() int  { return m.width }
func (m *ImageMatrix) Height() int { return m.height }

// Samples returns the backing buffer in storage order. Callers must not modify it.
func (m *ImageMatrix) Samples() []float64 { return m.samples }

// ComputeMinMax scans every sample once and stores the result as the
// rendering bounds. NaN (blank) and infinite samples are ignored; a matrix with
// no finite sample reports 0, 0.
func (m *ImageMatrix) ComputeMinMax() (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range m.samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo > hi {
		lo, hi = 0, 0
	}
	m.min, m.max = lo, hi
	return lo, hi
}

// SetMinMax overrides the rendering bounds.
func (m *ImageMatrix) SetMinMax(min, max float64) {
	m.min, m.max = min, max
}

// MinMax returns the current rendering bounds.
func (m *ImageMatrix) MinMax() (float64, float64) { return m.min, m.max }

// ValueAt returns the sample at column x of display row y, where display row 0
// is the top of a north-up image (storage row height-1). Coordinates outside
// the image yield 0 instead of an error.
func (m *ImageMatrix) ValueAt(x, y int) float64 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0
	}
	return m.samples[(m.height-1-y)*m.width+x]
}
