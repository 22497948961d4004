// Package geofence decides whether a point lies inside a circular perimeter
// around a reference location.
package geofence

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances
const EarthRadiusKm = 6371.0

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidRadius     = errors.New("invalid perimeter radius")
)

// Point is a WGS84 latitude/longitude pair in degrees
type Point struct {
	Lat float64
	Lon float64
}

// Validate rejects NaN, infinite and out-of-range coordinates
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v", ErrInvalidCoordinate, p.Lat)
	}
	if math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: longitude %v", ErrInvalidCoordinate, p.Lon)
	}
	return nil
}

// Distance returns the haversine great-circle distance between a and b in km
func Distance(a, b Point) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}
	if a == b {
		return 0, nil
	}

	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	// Rounding can push h slightly above 1 for antipodal points
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h))), nil
}

// WithinPerimeter reports whether point is at most radiusKm from ref.
// A point exactly on the boundary is inside.
func WithinPerimeter(point, ref Point, radiusKm float64) (bool, error) {
	if math.IsNaN(radiusKm) || radiusKm < 0 {
		return false, fmt.Errorf("%w: %v", ErrInvalidRadius, radiusKm)
	}
	d, err := Distance(point, ref)
	if err != nil {
		return false, err
	}
	return d <= radiusKm, nil
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
