package fitsmeta

import (
	"iter"
	"strconv"
	"strings"
	"time"
)

// Header is an ordered collection of header entries. Names may repeat (COMMENT,
// HISTORY); lookups return the first entry with a given name. A Header is
// append-only while it is built and must be treated as read-only afterwards.
type Header struct {
	entries []KeywordValue
	first   map[string]int
}

// NewHeader creates an empty Header.
func NewHeader() *Header {
	return &Header{first: make(map[string]int)}
}

// Append adds kv after the existing entries.
func (h *Header) Append(kv KeywordValue) {
	if _, ok := h.first[kv.Name]; !ok {
		h.first[kv.Name] = len(h.entries)
	}
	h.entries = append(h.entries, kv)
}

// Len returns the number of entries, repeats included.
func (h *Header) Len() int { return len(h.entries) }

// Lookup returns the first entry whose name matches exactly.
func (h *Header) Lookup(name string) (KeywordValue, bool) {
	i, ok := h.first[name]
	if !ok {
		return KeywordValue{}, false
	}
	return h.entries[i], true
}

// All iterates the entries in card order.
func (h *Header) All() iter.Seq2[int, KeywordValue] {
	return func(yield func(int, KeywordValue) bool) {
		for i, kv := range h.entries {
			if !yield(i, kv) {
				return
			}
		}
	}
}

// Entries returns a copy of the entries in card order.
func (h *Header) Entries() []KeywordValue {
	out := make([]KeywordValue, len(h.entries))
	copy(out, h.entries)
	return out
}

// Text renders the header as newline-separated 80-column cards followed by END.
func (h *Header) Text() string {
	var sb strings.Builder
	for _, kv := range h.entries {
		sb.WriteString(kv.Card())
		sb.WriteByte('\n')
	}
	sb.WriteString(padCard("END"))
	sb.WriteByte('\n')
	return sb.String()
}

func (h *Header) lookupStrict(name string) (KeywordValue, error) {
	kv, ok := h.Lookup(name)
	if !ok {
		return KeywordValue{}, &MissingKeywordError{Name: name}
	}
	return kv, nil
}

// --- strict accessors: absent keywords are an error ---

// Str returns the String keyword name.
func (h *Header) Str(name string) (string, error) {
	kv, err := h.lookupStrict(name)
	if err != nil {
		return "", err
	}
	return kv.Str()
}

// Int returns the Integer keyword name.
func (h *Header) Int(name string) (int64, error) {
	kv, err := h.lookupStrict(name)
	if err != nil {
		return 0, err
	}
	return kv.Int()
}

// Float reads an Integer or Real keyword.
func (h *Header) Float(name string) (float64, error) {
	kv, err := h.lookupStrict(name)
	if err != nil {
		return 0, err
	}
	return kv.Number()
}

// Bool returns the Boolean keyword name.
func (h *Header) Bool(name string) (bool, error) {
	kv, err := h.lookupStrict(name)
	if err != nil {
		return false, err
	}
	return kv.Bool()
}

// Time returns the Date keyword name.
func (h *Header) Time(name string) (time.Time, error) {
	kv, err := h.lookupStrict(name)
	if err != nil {
		return time.Time{}, err
	}
	return kv.Time()
}

// --- lenient accessors: absent or mistyped keywords yield the zero value ---

// GetString is Str with errors mapped to "".
func (h *Header) GetString(name string) string {
	v, _ := h.Str(name)
	return v
}

// GetInt is Int with errors mapped to 0.
func (h *Header) GetInt(name string) int64 {
	v, _ := h.Int(name)
	return v
}

// GetFloat is Float with errors mapped to 0.
func (h *Header) GetFloat(name string) float64 {
	v, _ := h.Float(name)
	return v
}

// GetBool is Bool with errors mapped to false.
func (h *Header) GetBool(name string) bool {
	v, _ := h.Bool(name)
	return v
}

// GetTime is Time with errors mapped to the zero time.
func (h *Header) GetTime(name string) time.Time {
	v, _ := h.Time(name)
	return v
}

// Convenience accessors for commonly used keywords.
func (h *Header) ObjectName() string { return h.GetString("OBJECT") }
func (h *Header) Telescope() string  { return h.GetString("TELESCOP") }
func (h *Header) Instrument() string { return h.GetString("INSTRUME") }
func (h *Header) Filter() string     { return h.GetString("FILTER") }
func (h *Header) DateObs() time.Time { return h.GetTime("DATE-OBS") }
func (h *Header) ImageType() string  { return h.GetString("IMAGETYP") }

// FocalLength is the optics focal length in millimetres.
func (h *Header) FocalLength() (float64, bool) {
	v, err := h.Float("FOCALLEN")
	return v, err == nil && v > 0
}

// PixelSize returns the physical pixel pitch in micrometres.
func (h *Header) PixelSize() (x, y float64, ok bool) {
	x, errX := h.Float("XPIXSZ")
	y, errY := h.Float("YPIXSZ")
	if errY != nil {
		y = x
	}
	return x, y, errX == nil && x > 0 && y > 0
}

// ExposureTime reads EXPTIME, falling back to EXPOSURE.
func (h *Header) ExposureTime() (float64, bool) {
	if v, err := h.Float("EXPTIME"); err == nil {
		return v, true
	}
	if v, err := h.Float("EXPOSURE"); err == nil {
		return v, true
	}
	return 0, false
}

// maxAxes is the largest NAXIS the FITS standard allows.
const maxAxes = 999

// Axes returns the NAXISn lengths declared by the header, or nil when NAXIS is
// outside 0..999.
func (h *Header) Axes() []int {
	n := h.GetInt("NAXIS")
	if n < 0 || n > maxAxes {
		return nil
	}
	axes := make([]int, 0, n)
	for i := int64(1); i <= n; i++ {
		axes = append(axes, int(h.GetInt("NAXIS"+strconv.FormatInt(i, 10))))
	}
	return axes
}
