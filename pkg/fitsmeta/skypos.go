package fitsmeta

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	arcsecPerDegree  = 3600.0
	fullCircleArcsec = 360 * arcsecPerDegree
)

// RA is a right ascension in hours, minutes and seconds of time.
type RA struct {
	Hours   int
	Minutes int
	Seconds float64
}

// Dec is a declination in degrees, minutes and seconds of arc. The sign is kept
// separately so that declinations between 0 and -1 degree are representable.
type Dec struct {
	Negative bool
	Degrees  int
	Minutes  int
	Seconds  float64
}

// SkyPosition is a point on the sky.
type SkyPosition struct {
	RA  RA
	Dec Dec
}

// ArcSeconds returns the right ascension as an angle in arc-seconds.
func (r RA) ArcSeconds() float64 {
	return (float64(r.Hours)*3600 + float64(r.Minutes)*60 + r.Seconds) * 15
}

// RAFromArcSeconds converts an angle to a right ascension, wrapping into [0h, 24h).
func RAFromArcSeconds(as float64) RA {
	as = math.Mod(as, fullCircleArcsec)
	if as < 0 {
		as += fullCircleArcsec
	}
	h, m, s := sexagesimal(as / 15)
	if h >= 24 {
		h -= 24
	}
	return RA{Hours: h, Minutes: m, Seconds: s}
}

// String formats hh:mm:ss.ss, rounding before the split so 59.996s carries
// into the minutes.
func (r RA) String() string {
	total := float64(r.Hours)*3600 + float64(r.Minutes)*60 + r.Seconds
	h, m, s := sexagesimal(math.Round(total*100) / 100)
	if h >= 24 {
		h -= 24
	}
	return fmt.Sprintf("%02d:%02d:%05.2f", h, m, s)
}

// ArcSeconds returns the signed declination in arc-seconds.
func (d Dec) ArcSeconds() float64 {
	as := float64(d.Degrees)*3600 + float64(d.Minutes)*60 + d.Seconds
	if d.Negative {
		return -as
	}
	return as
}

// DecFromArcSeconds converts a signed angle in arc-seconds to a declination.
func DecFromArcSeconds(as float64) Dec {
	neg := as < 0
	d, m, s := sexagesimal(math.Abs(as))
	return Dec{Negative: neg, Degrees: d, Minutes: m, Seconds: s}
}

// String formats ±dd:mm:ss.s with the same rounding rule as RA.String.
func (d Dec) String() string {
	total := math.Round(math.Abs(d.ArcSeconds())*10) / 10
	sign := '+'
	if d.Negative && total != 0 {
		sign = '-'
	}
	deg, m, s := sexagesimal(total)
	return fmt.Sprintf("%c%02d:%02d:%04.1f", sign, deg, m, s)
}

func (p SkyPosition) String() string {
	return p.RA.String() + " " + p.Dec.String()
}

// sexagesimal splits a non-negative quantity of seconds into units, minutes and
// seconds, carrying when rounding pushes seconds to 60.
func sexagesimal(total float64) (int, int, float64) {
	units := math.Floor(total / 3600)
	rest := total - units*3600
	minutes := math.Floor(rest / 60)
	seconds := rest - minutes*60
	if seconds >= 60-1e-9 {
		seconds = 0
		minutes++
	}
	if minutes >= 60 {
		minutes -= 60
		units++
	}
	return int(units), int(minutes), seconds
}

// ParseRA parses "hh mm ss.s" or "hh:mm:ss.s".
func ParseRA(s string) (RA, error) {
	neg, parts, err := splitSexagesimal(s)
	if err != nil {
		return RA{}, fmt.Errorf("parse RA %q: %w", s, err)
	}
	if neg {
		return RA{}, fmt.Errorf("parse RA %q: negative right ascension", s)
	}
	if parts[0] >= 24 || parts[1] >= 60 || parts[2] >= 60 {
		return RA{}, fmt.Errorf("parse RA %q: field out of range", s)
	}
	h, m, sec := sexagesimal(parts[0]*3600 + parts[1]*60 + parts[2])
	return RA{Hours: h, Minutes: m, Seconds: sec}, nil
}

// ParseDec parses "+dd mm ss.s" or "-dd:mm:ss.s".
func ParseDec(s string) (Dec, error) {
	neg, parts, err := splitSexagesimal(s)
	if err != nil {
		return Dec{}, fmt.Errorf("parse Dec %q: %w", s, err)
	}
	if parts[1] >= 60 || parts[2] >= 60 {
		return Dec{}, fmt.Errorf("parse Dec %q: field out of range", s)
	}
	total := parts[0]*3600 + parts[1]*60 + parts[2]
	if total > 90*arcsecPerDegree {
		return Dec{}, fmt.Errorf("parse Dec %q: beyond the pole", s)
	}
	d, m, sec := sexagesimal(total)
	return Dec{Negative: neg && total != 0, Degrees: d, Minutes: m, Seconds: sec}, nil
}

// ParseSkyPosition parses a right ascension and declination pair.
func ParseSkyPosition(ra, dec string) (SkyPosition, error) {
	r, err := ParseRA(ra)
	if err != nil {
		return SkyPosition{}, err
	}
	d, err := ParseDec(dec)
	if err != nil {
		return SkyPosition{}, err
	}
	return SkyPosition{RA: r, Dec: d}, nil
}

func splitSexagesimal(s string) (bool, [3]float64, error) {
	var parts [3]float64
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimLeft(s, "+-")
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ':' })
	if len(fields) == 0 || len(fields) > 3 {
		return false, parts, fmt.Errorf("want 1 to 3 fields, got %d", len(fields))
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return false, parts, err
		}
		if v < 0 {
			return false, parts, fmt.Errorf("negative field %q", f)
		}
		if i < len(fields)-1 && v != math.Trunc(v) {
			return false, parts, fmt.Errorf("fractional leading field %q", f)
		}
		parts[i] = v
	}
	return neg, parts, nil
}
