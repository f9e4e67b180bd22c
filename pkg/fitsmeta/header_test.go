package fitsmeta

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHeader(t *testing.T) *Header {
	t.Helper()
	h, err := ParseHeader(`SIMPLE  = T
NAXIS   = 2
NAXIS1  = 640
NAXIS2  = 480
EXPOSURE= 30
OBJECT  = 'M42'
TELESCOP= 'RC8'
DATE-OBS= '2024-01-15T22:30:00'
COMMENT first
COMMENT second
OBJECT  = 'duplicate'
END`)
	require.NoError(t, err)
	return h
}

func TestHeaderLookupFirstMatch(t *testing.T) {
	h := sampleHeader(t)
	assert.Equal(t, 11, h.Len())
	assert.Equal(t, "M42", h.ObjectName())

	kv, ok := h.Lookup("COMMENT")
	require.True(t, ok)
	text, err := kv.Text()
	require.NoError(t, err)
	assert.Equal(t, "first", text)

	_, ok = h.Lookup("object")
	assert.False(t, ok, "lookup is case-sensitive")
}

func TestHeaderAllIsRestartable(t *testing.T) {
	h := sampleHeader(t)
	count := func() int {
		n := 0
		for range h.All() {
			n++
		}
		return n
	}
	assert.Equal(t, h.Len(), count())
	assert.Equal(t, h.Len(), count())

	for i := range h.All() {
		if i == 2 {
			break
		}
	}
}

func TestHeaderEntriesIsACopy(t *testing.T) {
	h := sampleHeader(t)
	entries := h.Entries()
	entries[0] = IntValue("SIMPLE", 0)

	kv, _ := h.Lookup("SIMPLE")
	assert.Equal(t, KindBoolean, kv.Kind)
}

func TestHeaderStrictAccessors(t *testing.T) {
	h := sampleHeader(t)

	n, err := h.Int("NAXIS1")
	require.NoError(t, err)
	assert.Equal(t, int64(640), n)

	f, err := h.Float("NAXIS2")
	require.NoError(t, err)
	assert.Equal(t, 480.0, f)

	b, err := h.Bool("SIMPLE")
	require.NoError(t, err)
	assert.True(t, b)

	ts, err := h.Time("DATE-OBS")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 22, 30, 0, 0, time.UTC), ts)

	_, err = h.Str("FILTER")
	var mke *MissingKeywordError
	require.ErrorAs(t, err, &mke)
	assert.Equal(t, "FILTER", mke.Name)

	_, err = h.Int("OBJECT")
	var kme *KindMismatchError
	require.ErrorAs(t, err, &kme)
}

func TestHeaderLenientAccessors(t *testing.T) {
	h := sampleHeader(t)

	assert.Equal(t, "", h.Filter())
	assert.Equal(t, "RC8", h.Telescope())
	assert.Equal(t, int64(0), h.GetInt("OBJECT"))
	assert.Equal(t, 0.0, h.GetFloat("MISSING"))
	assert.False(t, h.GetBool("NAXIS"))
	assert.True(t, h.GetTime("OBJECT").IsZero())
	assert.Equal(t, time.Date(2024, 1, 15, 22, 30, 0, 0, time.UTC), h.DateObs())

	exp, ok := h.ExposureTime()
	require.True(t, ok)
	assert.Equal(t, 30.0, exp)

	assert.Equal(t, []int{640, 480}, h.Axes())
}

func TestHeaderAppendKeepsOrder(t *testing.T) {
	h := NewHeader()
	h.Append(IntValue("B", 1))
	h.Append(IntValue("A", 2))
	h.Append(IntValue("B", 3))

	var names []string
	for _, kv := range h.All() {
		names = append(names, kv.Name)
	}
	assert.Equal(t, []string{"B", "A", "B"}, names)
	assert.Equal(t, int64(1), h.GetInt("B"))
}

func TestHeaderOptics(t *testing.T) {
	h, err := ParseHeader("FOCALLEN= 1000\nXPIXSZ  = 3.76\nIMAGETYP= 'Light Frame'")
	require.NoError(t, err)

	f, ok := h.FocalLength()
	require.True(t, ok)
	assert.Equal(t, 1000.0, f)

	x, y, ok := h.PixelSize()
	require.True(t, ok)
	assert.Equal(t, 3.76, x)
	assert.Equal(t, 3.76, y)
	assert.Equal(t, "Light Frame", h.ImageType())

	ps := PlateScaleFromHeader(h, 100, 100, DefaultKeywords())
	assert.InDelta(t, 0.7756, ps.XScale, 1e-4)
	assert.InDelta(t, 0.7756, ps.YScale, 1e-4)
}

func TestHeaderAxesRejectsOutOfRangeNAXIS(t *testing.T) {
	for _, text := range []string{
		"NAXIS   = 999999999999999",
		"NAXIS   = 1000",
		"NAXIS   = -1",
	} {
		h, err := ParseHeader(text)
		require.NoError(t, err, text)
		assert.NotPanics(t, func() { h.Axes() }, text)
		assert.Nil(t, h.Axes(), text)
	}

	h, err := ParseHeader("NAXIS   = 0")
	require.NoError(t, err)
	assert.Empty(t, h.Axes())
}
