package fitsmeta

import (
	"fmt"
	"strings"
)

// MalformedCardError reports the first card of a header that could not be parsed.
type MalformedCardError struct {
	Index   int
	Keyword string
	Card    string
	Reason  string
}

func (e *MalformedCardError) Error() string {
	return fmt.Sprintf("malformed card %d (%q): %s: %q", e.Index, e.Keyword, e.Reason, strings.TrimRight(e.Card, " "))
}

// UnsupportedDimensionalityError is returned for data units that are not 2-D planes.
type UnsupportedDimensionalityError struct {
	Axes []int
}

func (e *UnsupportedDimensionalityError) Error() string {
	if len(e.Axes) == 2 {
		return fmt.Sprintf("unsupported image axes %v: axis lengths must be positive", e.Axes)
	}
	return fmt.Sprintf("unsupported dimensionality: NAXIS=%d %v, want 2", len(e.Axes), e.Axes)
}

// DataSizeMismatchError is returned when the sample count disagrees with the axes.
type DataSizeMismatchError struct {
	Width   int
	Height  int
	Samples int
}

func (e *DataSizeMismatchError) Error() string {
	return fmt.Sprintf("data size mismatch: %dx%d image needs %d samples, got %d",
		e.Width, e.Height, e.Width*e.Height, e.Samples)
}

// MissingKeywordError is returned by the strict Header accessors.
type MissingKeywordError struct {
	Name string
}

func (e *MissingKeywordError) Error() string {
	return fmt.Sprintf("missing keyword %s", e.Name)
}

// KindMismatchError is returned when a typed accessor meets a keyword of another kind.
type KindMismatchError struct {
	Name string
	Want Kind
	Got  Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("keyword %s is %s, not %s", e.Name, e.Got, e.Want)
}

// UnsupportedHDUError is returned when the primary HDU holds a table instead of an image.
type UnsupportedHDUError struct {
	Type string
}

func (e *UnsupportedHDUError) Error() string {
	return fmt.Sprintf("illegal HDU type: %s", e.Type)
}
