package fitsmeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRA(t *testing.T) {
	tests := []struct {
		in      string
		h, m    int
		s       float64
		wantErr bool
	}{
		{in: "12 34 56.7", h: 12, m: 34, s: 56.7},
		{in: "12:34:56.7", h: 12, m: 34, s: 56.7},
		{in: "  05 30  ", h: 5, m: 30},
		{in: "12.5", h: 12, m: 30},
		{in: "23:59:59.99", h: 23, m: 59, s: 59.99},
		{in: "24 00 00", wantErr: true},
		{in: "12 60 00", wantErr: true},
		{in: "-01 00 00", wantErr: true},
		{in: "12.5 30", wantErr: true},
		{in: "1 2 3 4", wantErr: true},
		{in: "", wantErr: true},
		{in: "ab cd", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ra, err := ParseRA(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.h, ra.Hours)
			assert.Equal(t, tt.m, ra.Minutes)
			assert.InDelta(t, tt.s, ra.Seconds, 1e-6)
		})
	}
}

func TestParseDec(t *testing.T) {
	d, err := ParseDec("-00 30 00")
	require.NoError(t, err)
	assert.True(t, d.Negative)
	assert.Equal(t, 0, d.Degrees)
	assert.Equal(t, 30, d.Minutes)
	assert.Equal(t, -1800.0, d.ArcSeconds())

	d, err = ParseDec("+41:16:09")
	require.NoError(t, err)
	assert.Equal(t, Dec{Degrees: 41, Minutes: 16, Seconds: 9}, d)

	d, err = ParseDec("-0")
	require.NoError(t, err)
	assert.False(t, d.Negative)

	d, err = ParseDec("90")
	require.NoError(t, err)
	assert.Equal(t, 90, d.Degrees)

	for _, bad := range []string{"91", "90 00 01", "10 61", "x"} {
		_, err := ParseDec(bad)
		assert.Error(t, err, bad)
	}
}

func TestSkyPositionStrings(t *testing.T) {
	pos := SkyPosition{
		RA:  RA{Hours: 1, Minutes: 2, Seconds: 3.456},
		Dec: Dec{Negative: true, Degrees: 5, Minutes: 6, Seconds: 7.3},
	}
	assert.Equal(t, "01:02:03.46", pos.RA.String())
	assert.Equal(t, "-05:06:07.3", pos.Dec.String())
	assert.Equal(t, "01:02:03.46 -05:06:07.3", pos.String())
}

func TestRAFromArcSecondsWraps(t *testing.T) {
	ra := RAFromArcSeconds(-15)
	assert.Equal(t, 23, ra.Hours)
	assert.Equal(t, 59, ra.Minutes)
	assert.InDelta(t, 59, ra.Seconds, 1e-6)

	ra = RAFromArcSeconds(fullCircleArcsec + 15*3600)
	assert.Equal(t, 1, ra.Hours)
	assert.Equal(t, 0, ra.Minutes)
}

func TestSexagesimalCarry(t *testing.T) {
	u, m, s := sexagesimal(3599.99999999999)
	assert.Equal(t, 1, u)
	assert.Equal(t, 0, m)
	assert.Zero(t, s)
}

func TestArcSecondsRoundTrip(t *testing.T) {
	for _, as := range []float64{0, 1, 45296.7 * 15, 1295999} {
		assert.InDelta(t, as, RAFromArcSeconds(as).ArcSeconds(), 1e-6)
	}
	for _, as := range []float64{-324000, -1800, 0, 148569, 324000} {
		assert.InDelta(t, as, DecFromArcSeconds(as).ArcSeconds(), 1e-6)
	}
}

func TestStringCarriesRoundedSeconds(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{RA{Hours: 0, Minutes: 0, Seconds: 59.996}.String(), "00:01:00.00"},
		{RA{Hours: 1, Minutes: 59, Seconds: 59.999}.String(), "02:00:00.00"},
		{RA{Hours: 23, Minutes: 59, Seconds: 59.999}.String(), "00:00:00.00"},
		{Dec{Degrees: 0, Minutes: 0, Seconds: 59.96}.String(), "+00:01:00.0"},
		{Dec{Negative: true, Degrees: 10, Minutes: 59, Seconds: 59.97}.String(), "-11:00:00.0"},
		{Dec{Negative: true, Seconds: 0.01}.String(), "+00:00:00.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.got)
	}
}
