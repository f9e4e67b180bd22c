package fitsmeta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/astrogo/fitsio"
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("fitsmeta")

// Keywords names the header keywords a Frame is parameterized from.
type Keywords struct {
	FieldCenterRA  string `yaml:"field_center_ra"`
	FieldCenterDec string `yaml:"field_center_dec"`
	XScale         string `yaml:"x_scale"`
	YScale         string `yaml:"y_scale"`
	Object         string `yaml:"object"`
	DateObs        string `yaml:"date_obs"`
}

// DefaultKeywords returns the keyword names written by the telescope pipeline.
func DefaultKeywords() Keywords {
	return Keywords{
		FieldCenterRA:  "FCRA",
		FieldCenterDec: "FCDEC",
		XScale:         "XPS",
		YScale:         "YPS",
		Object:         "OBJECT",
		DateObs:        "DATE-OBS",
	}
}

// Frame is one loaded image: its header, pixel plane and plate-scale transform.
// Matrix and Scale share the dimensions of the data unit they came from.
type Frame struct {
	Header   *Header
	Matrix   *ImageMatrix
	Scale    *PlateScale
	keywords Keywords
}

func (f *Frame) Width() int  { return f.Matrix.Width() }
func (f *Frame) Height() int { return f.Matrix.Height() }

func (f *Frame) ObjectName() string { return f.Header.GetString(f.keywords.Object) }
func (f *Frame) DateObs() time.Time { return f.Header.GetTime(f.keywords.DateObs) }

func (f *Frame) String() string {
	center := "unset"
	if c, ok := f.Scale.Center(); ok {
		center = c.String()
	}
	date := ""
	if t := f.DateObs(); !t.IsZero() {
		date = t.Format(time.RFC3339)
	}
	return fmt.Sprintf("%s %s X:%d * %g Y:%d * %g %s",
		f.ObjectName(), center, f.Scale.Width, f.Scale.XScale, f.Scale.Height, f.Scale.YScale, date)
}

// LoadFile reads a FITS file, decompressing it first when the name ends in .gz or .gzip.
func LoadFile(path string, kw Keywords) (*Frame, error) {
	var frame *Frame
	err := withFileReader(path, func(r io.Reader) error {
		var err error
		frame, err = Load(r, kw)
		return err
	})
	return frame, err
}

// LoadHeaderFile reads only the primary header of a FITS file.
func LoadHeaderFile(path string) (*Header, error) {
	var h *Header
	err := withFileReader(path, func(r io.Reader) error {
		var err error
		h, err = LoadHeader(r)
		return err
	})
	return h, err
}

// LoadBytes is Load over an in-memory FITS file.
func LoadBytes(data []byte, kw Keywords) (*Frame, error) {
	return Load(bytes.NewReader(data), kw)
}

func withFileReader(path string, fn func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening FITS file: %w", err)
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return fmt.Errorf("opening gzip stream: %w", err)
		}
		defer gz.Close()
		r = gz
	}
	return fn(r)
}

// LoadHeader decodes the primary HDU header without touching its data.
func LoadHeader(r io.Reader) (*Header, error) {
	f, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("decoding FITS: %w", err)
	}
	defer f.Close()
	return headerFromHDU(f.HDU(0)), nil
}

// Load decodes the primary HDU into a Frame. The HDU must be a 2-D image.
func Load(r io.Reader, kw Keywords) (*Frame, error) {
	f, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("decoding FITS: %w", err)
	}
	defer f.Close()

	hdu := f.HDU(0)
	header := headerFromHDU(hdu)
	if hdu.Type() != fitsio.IMAGE_HDU {
		return nil, &UnsupportedHDUError{Type: fmt.Sprintf("%v", hdu.Type())}
	}
	img, ok := hdu.(fitsio.Image)
	if !ok {
		return nil, &UnsupportedHDUError{Type: fmt.Sprintf("%T", hdu)}
	}

	axes := hdu.Header().Axes()
	if len(axes) != 2 {
		return nil, &UnsupportedDimensionalityError{Axes: axes}
	}
	n := 1
	for _, a := range axes {
		n *= a
	}
	samples, err := readSamples(img, hdu.Header().Bitpix(), n)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	applyScaling(samples, header)

	matrix, err := NewImageMatrix(axes, samples)
	if err != nil {
		return nil, err
	}
	matrix.ComputeMinMax()
	log.Debugf("loaded %dx%d image, %d keywords", matrix.Width(), matrix.Height(), header.Len())

	return &Frame{
		Header:   header,
		Matrix:   matrix,
		Scale:    PlateScaleFromHeader(header, matrix.Width(), matrix.Height(), kw),
		keywords: kw,
	}, nil
}

// readSamples reads n stored values in the element type BITPIX declares and
// widens them to float64.
func readSamples(img fitsio.Image, bitpix, n int) ([]float64, error) {
	if n <= 0 {
		return make([]float64, 0), nil
	}
	switch bitpix {
	case 8:
		return readAs[uint8](img, n)
	case 16:
		return readAs[int16](img, n)
	case 32:
		return readAs[int32](img, n)
	case 64:
		return readAs[int64](img, n)
	case -32:
		return readAs[float32](img, n)
	case -64:
		return readAs[float64](img, n)
	default:
		return nil, fmt.Errorf("unsupported BITPIX %d", bitpix)
	}
}

func readAs[T uint8 | int16 | int32 | int64 | float32 | float64](img fitsio.Image, n int) ([]float64, error) {
	raw := make([]T, n)
	if err := img.Read(&raw); err != nil {
		return nil, err
	}
	samples := make([]float64, len(raw))
	for i, v := range raw {
		samples[i] = float64(v)
	}
	return samples, nil
}

// applyScaling converts stored values to physical values with BSCALE and BZERO.
func applyScaling(samples []float64, h *Header) {
	bzero := h.GetFloat("BZERO")
	bscale, err := h.Float("BSCALE")
	if err != nil {
		bscale = 1
	}
	if bzero == 0 && bscale == 1 {
		return
	}
	for i, v := range samples {
		samples[i] = v*bscale + bzero
	}
}

// arcsecPerRadianMilli converts a pixel pitch in µm over a focal length in mm
// to arc-seconds per pixel.
const arcsecPerRadianMilli = 206.264806

// PlateScaleFromHeader builds the transform parameters from the header. When
// the scale keywords are absent the scale is derived from FOCALLEN and
// XPIXSZ/YPIXSZ. A missing or unparsable field center leaves the transform
// without a center.
func PlateScaleFromHeader(h *Header, width, height int, kw Keywords) *PlateScale {
	xs := h.GetFloat(kw.XScale)
	ys := h.GetFloat(kw.YScale)
	if xs == 0 || ys == 0 {
		focal, okF := h.FocalLength()
		px, py, okP := h.PixelSize()
		if okF && okP {
			xs = arcsecPerRadianMilli * px / focal
			ys = arcsecPerRadianMilli * py / focal
			log.Debugf("plate scale derived from optics: %.3f\"/px x %.3f\"/px", xs, ys)
		}
	}

	ra, raOK := h.Lookup(kw.FieldCenterRA)
	dec, decOK := h.Lookup(kw.FieldCenterDec)
	if !raOK || !decOK {
		return NewPlateScale(width, height, xs, ys, nil)
	}
	center, err := centerFromKeywords(ra, dec)
	if err != nil {
		log.Warnf("ignoring field center: %s", err)
		return NewPlateScale(width, height, xs, ys, nil)
	}
	return NewPlateScale(width, height, xs, ys, &center)
}

// centerFromKeywords accepts sexagesimal strings or numeric values in degrees.
func centerFromKeywords(ra, dec KeywordValue) (SkyPosition, error) {
	var pos SkyPosition
	if s, err := ra.Str(); err == nil {
		if pos.RA, err = ParseRA(s); err != nil {
			return pos, err
		}
	} else if deg, err := ra.Number(); err == nil {
		pos.RA = RAFromArcSeconds(deg * arcsecPerDegree)
	} else {
		return pos, err
	}
	if s, err := dec.Str(); err == nil {
		if pos.Dec, err = ParseDec(s); err != nil {
			return pos, err
		}
	} else if deg, err := dec.Number(); err == nil {
		pos.Dec = DecFromArcSeconds(deg * arcsecPerDegree)
	} else {
		return pos, err
	}
	return pos, nil
}

func headerFromHDU(hdu fitsio.HDU) *Header {
	return headerFromFITS(hdu.Header())
}

// headerFromFITS copies a decoded header. Keyed cards keep their order; fitsio
// holds COMMENT and HISTORY text apart from them, so those entries follow the
// keyed cards, one per line.
func headerFromFITS(fh *fitsio.Header) *Header {
	h := NewHeader()
	seen := make(map[string]bool)
	for _, name := range fh.Keys() {
		if seen[name] {
			continue
		}
		seen[name] = true
		c := fh.Get(name)
		if c == nil {
			continue
		}
		h.Append(keywordFromCard(c))
	}
	appendCommentary(h, "COMMENT", fh.Comment())
	appendCommentary(h, "HISTORY", fh.History())
	return h
}

func appendCommentary(h *Header, name, text string) {
	if text == "" {
		return
	}
	for line := range strings.SplitSeq(text, "\n") {
		h.Append(CommentValue(name, strings.TrimRight(line, " ")))
	}
}

// keywordFromCard converts a decoded fitsio card into a KeywordValue, applying
// the same date recognition as the text parser.
func keywordFromCard(c *fitsio.Card) KeywordValue {
	name := strings.TrimSpace(c.Name)
	switch name {
	case "", "COMMENT", "HISTORY":
		text := c.Comment
		if s, ok := c.Value.(string); ok && s != "" {
			text = s
		}
		return CommentValue(name, text)
	}

	var kv KeywordValue
	switch v := c.Value.(type) {
	case nil:
		kv = NoneValue(name)
	case bool:
		kv = BoolValue(name, v)
	case int:
		kv = IntValue(name, int64(v))
	case int8:
		kv = IntValue(name, int64(v))
	case int16:
		kv = IntValue(name, int64(v))
	case int32:
		kv = IntValue(name, int64(v))
	case int64:
		kv = IntValue(name, v)
	case uint8:
		kv = IntValue(name, int64(v))
	case uint16:
		kv = IntValue(name, int64(v))
	case uint32:
		kv = IntValue(name, int64(v))
	case float32:
		kv = RealValue(name, float64(v))
	case float64:
		kv = RealValue(name, v)
	case string:
		if t, ok := parseDate(strings.TrimSpace(v)); ok {
			kv = DateValue(name, t, quoteString(v))
		} else {
			kv = StringValue(name, strings.TrimRight(v, " "))
		}
	case time.Time:
		kv = DateValue(name, v.UTC(), "")
	default:
		log.Debugf("keyword %s has unsupported value type %T, keeping it as text", name, v)
		kv = StringValue(name, fmt.Sprint(v))
	}
	return kv.WithComment(c.Comment)
}
