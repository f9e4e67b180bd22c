package fitsmeta

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/astrogo/fitsio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFITS(t *testing.T, axes []int, data []float32, cards ...fitsio.Card) []byte {
	t.Helper()
	return writeFITSAs(t, -32, axes, data, cards...)
}

func writeFITSAs(t *testing.T, bitpix int, axes []int, data any, cards ...fitsio.Card) []byte {
	t.Helper()
	var buf bytes.Buffer
	f, err := fitsio.Create(&buf)
	require.NoError(t, err)

	im := fitsio.NewImage(bitpix, axes)
	defer im.Close()
	require.NoError(t, im.Header().Append(cards...))
	require.NoError(t, im.Write(data))
	require.NoError(t, f.Write(im))
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func testCards() []fitsio.Card {
	return []fitsio.Card{
		{Name: "OBJECT", Value: "M31", Comment: "target"},
		{Name: "DATE-OBS", Value: "2023-10-05T21:14:03"},
		{Name: "EXPTIME", Value: 120.0},
		{Name: "FCRA", Value: "00 42 44.3"},
		{Name: "FCDEC", Value: "+41 16 09"},
		{Name: "XPS", Value: 1.5},
		{Name: "YPS", Value: 1.5},
	}
}

func TestLoadBytes(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, 6}
	frame, err := LoadBytes(writeFITS(t, []int{3, 2}, data, testCards()...), DefaultKeywords())
	require.NoError(t, err)

	assert.Equal(t, 3, frame.Width())
	assert.Equal(t, 2, frame.Height())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, frame.Matrix.Samples())

	lo, hi := frame.Matrix.MinMax()
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 6.0, hi)
	assert.Equal(t, 4.0, frame.Matrix.ValueAt(0, 0))

	assert.Equal(t, "M31", frame.ObjectName())
	assert.Equal(t, time.Date(2023, 10, 5, 21, 14, 3, 0, time.UTC), frame.DateObs())
	kv, ok := frame.Header.Lookup("OBJECT")
	require.True(t, ok)
	assert.Equal(t, "target", kv.Comment)

	exp, ok := frame.Header.ExposureTime()
	require.True(t, ok)
	assert.Equal(t, 120.0, exp)

	center, ok := frame.Scale.Center()
	require.True(t, ok)
	assert.Equal(t, RA{Hours: 0, Minutes: 42}, RA{Hours: center.RA.Hours, Minutes: center.RA.Minutes})
	assert.InDelta(t, 44.3, center.RA.Seconds, 1e-6)
	assert.Equal(t, 41, center.Dec.Degrees)
	assert.False(t, center.Dec.Negative)
	assert.Equal(t, 1.5, frame.Scale.XScale)
	assert.Contains(t, frame.String(), "M31")
}

func TestLoadBytesWithoutCenter(t *testing.T) {
	frame, err := LoadBytes(writeFITS(t, []int{2, 2}, []float32{0, 0, 0, 0}), DefaultKeywords())
	require.NoError(t, err)

	_, ok := frame.Scale.Center()
	assert.False(t, ok)
	_, ok = frame.Scale.PixelToSky(1, 1)
	assert.False(t, ok)
	assert.Contains(t, frame.String(), "unset")
}

func TestLoadBytesCustomKeywords(t *testing.T) {
	kw := DefaultKeywords()
	kw.FieldCenterRA = "RA"
	kw.FieldCenterDec = "DEC"
	frame, err := LoadBytes(writeFITS(t, []int{2, 2}, []float32{0, 1, 2, 3},
		fitsio.Card{Name: "RA", Value: 150.0},
		fitsio.Card{Name: "DEC", Value: -30.5},
	), kw)
	require.NoError(t, err)

	center, ok := frame.Scale.Center()
	require.True(t, ok)
	assert.InDelta(t, 150*3600, center.RA.ArcSeconds(), 1e-6)
	assert.InDelta(t, -30.5*3600, center.Dec.ArcSeconds(), 1e-6)
}

func TestLoadRejectsCube(t *testing.T) {
	_, err := LoadBytes(writeFITS(t, []int{2, 2, 2}, make([]float32, 8)), DefaultKeywords())
	var ude *UnsupportedDimensionalityError
	require.ErrorAs(t, err, &ude)
	assert.Equal(t, []int{2, 2, 2}, ude.Axes)
}

func TestLoadGarbage(t *testing.T) {
	_, err := LoadBytes([]byte("not a FITS file"), DefaultKeywords())
	assert.Error(t, err)
}

func TestLoadFileGzip(t *testing.T) {
	raw := writeFITS(t, []int{2, 1}, []float32{10, 20}, fitsio.Card{Name: "OBJECT", Value: "gz"})

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	dir := t.TempDir()
	gzPath := filepath.Join(dir, "frame.fits.gz")
	require.NoError(t, os.WriteFile(gzPath, buf.Bytes(), 0644))
	plainPath := filepath.Join(dir, "frame.fits")
	require.NoError(t, os.WriteFile(plainPath, raw, 0644))

	for _, path := range []string{gzPath, plainPath} {
		frame, err := LoadFile(path, DefaultKeywords())
		require.NoError(t, err, path)
		assert.Equal(t, "gz", frame.ObjectName())
		assert.Equal(t, []float64{10, 20}, frame.Matrix.Samples())

		h, err := LoadHeaderFile(path)
		require.NoError(t, err, path)
		assert.Equal(t, []int{2, 1}, h.Axes())
	}

	_, err = LoadFile(filepath.Join(dir, "missing.fits"), DefaultKeywords())
	assert.Error(t, err)
}

func TestApplyScaling(t *testing.T) {
	h := NewHeader()
	h.Append(RealValue("BZERO", 32768))
	samples := []float64{-32768, 0, 100}
	applyScaling(samples, h)
	assert.Equal(t, []float64{0, 32768, 32868}, samples)

	h = NewHeader()
	h.Append(IntValue("BSCALE", 2))
	h.Append(IntValue("BZERO", 1))
	samples = []float64{1, 2}
	applyScaling(samples, h)
	assert.Equal(t, []float64{3, 5}, samples)
}

func TestKeywordFromCard(t *testing.T) {
	tests := []struct {
		card fitsio.Card
		kind Kind
		val  string
	}{
		{fitsio.Card{Name: "SIMPLE", Value: true}, KindBoolean, "true"},
		{fitsio.Card{Name: "NAXIS", Value: 2}, KindInteger, "2"},
		{fitsio.Card{Name: "BITPIX", Value: int64(-32)}, KindInteger, "-32"},
		{fitsio.Card{Name: "XPS", Value: 1.25}, KindReal, "1.25"},
		{fitsio.Card{Name: "OBJECT", Value: "M 31  "}, KindString, "M 31"},
		{fitsio.Card{Name: "DATE", Value: "2020-02-29"}, KindDate, "2020-02-29T00:00:00Z"},
		{fitsio.Card{Name: "COMMENT", Comment: "a note"}, KindComment, "a note"},
		{fitsio.Card{Name: "HISTORY", Value: "done"}, KindComment, "done"},
		{fitsio.Card{Name: "EMPTY"}, KindNone, ""},
	}
	for _, tt := range tests {
		kv := keywordFromCard(&tt.card)
		assert.Equal(t, tt.kind, kv.Kind, tt.card.Name)
		assert.Equal(t, tt.val, kv.Value(), tt.card.Name)
	}
}

func TestLoadEveryBitpix(t *testing.T) {
	tests := []struct {
		bitpix int
		data   any
	}{
		{8, []uint8{1, 2}},
		{16, []int16{1, 2}},
		{32, []int32{1, 2}},
		{64, []int64{1, 2}},
		{-32, []float32{1, 2}},
		{-64, []float64{1, 2}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("bitpix=%d", tt.bitpix), func(t *testing.T) {
			frame, err := LoadBytes(writeFITSAs(t, tt.bitpix, []int{2, 1}, tt.data), DefaultKeywords())
			require.NoError(t, err)
			assert.Equal(t, []float64{1, 2}, frame.Matrix.Samples())
		})
	}
}

func TestHeaderFromFITSKeepsCardsAfterCommentary(t *testing.T) {
	fh := fitsio.NewHeader([]fitsio.Card{
		{Name: "COMMENT", Value: "first"},
		{Name: "HISTORY", Value: "calibrated"},
		{Name: "OBJECT", Value: "M51"},
		{Name: "XPS", Value: 1.5},
		{Name: "FCRA", Value: "13 29 52.7"},
	}, fitsio.IMAGE_HDU, -32, []int{1, 1})
	h := headerFromFITS(fh)

	assert.Equal(t, "M51", h.ObjectName())
	assert.Equal(t, 1.5, h.GetFloat("XPS"))
	assert.Equal(t, "13 29 52.7", h.GetString("FCRA"))

	kv, ok := h.Lookup("COMMENT")
	require.True(t, ok)
	text, err := kv.Text()
	require.NoError(t, err)
	assert.Equal(t, "first", text)

	kv, ok = h.Lookup("HISTORY")
	require.True(t, ok)
	text, err = kv.Text()
	require.NoError(t, err)
	assert.Equal(t, "calibrated", text)
}

func TestLoadKeepsPlateScaleBehindComments(t *testing.T) {
	cards := append([]fitsio.Card{
		{Name: "COMMENT", Value: "written by the capture software"},
		{Name: "HISTORY", Value: "dark subtracted"},
	}, testCards()...)
	frame, err := LoadBytes(writeFITS(t, []int{2, 2}, []float32{0, 1, 2, 3}, cards...), DefaultKeywords())
	require.NoError(t, err)

	assert.Equal(t, "M31", frame.ObjectName())
	assert.Equal(t, 1.5, frame.Scale.YScale)
	_, ok := frame.Scale.Center()
	assert.True(t, ok)
}
