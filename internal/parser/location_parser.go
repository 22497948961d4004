package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/balkashynov/punch/internal/geofence"
)

var coordRegex = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\s*[,\s]\s*(-?\d+(?:\.\d+)?)$`)

// ParseLocation parses "lat,lon" or "lat lon" in decimal degrees
// Accepts formats like:
// - "51.505,-0.09"
// - "51.505, -0.09"
// - "51.505 -0.09"
func ParseLocation(input string) (geofence.Point, error) {
	input = strings.TrimSpace(input)
	matches := coordRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return geofence.Point{}, fmt.Errorf("invalid location %q. Use: latitude,longitude (e.g. 51.505,-0.09)", input)
	}

	lat, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return geofence.Point{}, fmt.Errorf("invalid latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(matches[2], 64)
	if err != nil {
		return geofence.Point{}, fmt.Errorf("invalid longitude: %w", err)
	}

	p := geofence.Point{Lat: lat, Lon: lon}
	if err := p.Validate(); err != nil {
		return geofence.Point{}, err
	}
	return p, nil
}
