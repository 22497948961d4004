package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/punch/internal/geofence"
)

// Wednesday
var now = time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Time
	}{
		{"", time.Time{}},
		{"2026-10-12", day(2026, 10, 12)},
		{"12/10/2026", day(2026, 10, 12)},
		{"1/2/2026", day(2026, 2, 1)},
		{"today", day(2026, 10, 14)},
		{" Yesterday ", day(2026, 10, 13)},
		{"3 days", day(2026, 10, 11)},
		{"1 day ago", day(2026, 10, 13)},
		{"2 weeks", day(2026, 9, 30)},
		{"0 days", day(2026, 10, 14)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in, now, time.UTC)
		require.NoError(t, err, tt.in)
		assert.True(t, tt.want.Equal(got), "%q: want %s got %s", tt.in, tt.want, got)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"31/02/2026", "12/13/2026", "1/1/1999", "2026-13-01", "soon", "3 months", "400 days"} {
		_, err := ParseDate(in, now, time.UTC)
		assert.Error(t, err, in)
	}
}

func TestParseDate_Location(t *testing.T) {
	t.Parallel()
	tokyo := time.FixedZone("JST", 9*3600)

	// 15:30 UTC is already the next day in Tokyo
	got, err := ParseDate("today", now, tokyo)
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 10, 15, 0, 0, 0, 0, tokyo).Equal(got))
}

func TestParseWindow(t *testing.T) {
	t.Parallel()

	from, to, err := ParseWindow("", "", now, time.UTC)
	require.NoError(t, err)
	assert.True(t, day(2026, 10, 11).Equal(from), "defaults to Sunday")
	assert.True(t, day(2026, 10, 14).Equal(to))

	from, to, err = ParseWindow("2026-10-01", "2026-10-05", now, time.UTC)
	require.NoError(t, err)
	assert.True(t, day(2026, 10, 1).Equal(from))
	assert.True(t, day(2026, 10, 5).Equal(to))

	_, _, err = ParseWindow("2026-10-05", "2026-10-01", now, time.UTC)
	assert.Error(t, err)
	_, _, err = ParseWindow("bad", "", now, time.UTC)
	assert.ErrorContains(t, err, "start")
}

func TestParseLocation(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"51.505,-0.09", "51.505, -0.09", " 51.505 -0.09 "} {
		p, err := ParseLocation(in)
		require.NoError(t, err, in)
		assert.Equal(t, geofence.Point{Lat: 51.505, Lon: -0.09}, p)
	}

	_, err := ParseLocation("91,0")
	assert.ErrorIs(t, err, geofence.ErrInvalidCoordinate)
	for _, in := range []string{"", "51.5", "north,west", "51.5;0.1"} {
		_, err := ParseLocation(in)
		assert.Error(t, err, in)
	}
}

func TestFormatMinutes(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "0m", FormatMinutes(0))
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "1h 00m", FormatMinutes(60))
	assert.Equal(t, "7h 05m", FormatMinutes(425))
}
