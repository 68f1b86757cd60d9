// Package geo provides the great-circle distance math shared by the
// recommendation scorer and the occupancy predictor.
package geo

import (
	"errors"
	"math"
)

// ErrInvalidCoordinate is returned for NaN, infinite or out-of-range
// latitude/longitude values.
var ErrInvalidCoordinate = errors.New("geo: invalid coordinate")

const earthRadiusM = 6371000.0

// Distance returns the haversine distance in meters between two
// points given in degrees.
func Distance(lat1, lng1, lat2, lng2 float64) (float64, error) {
	if err := Validate(lat1, lng1); err != nil {
		return 0, err
	}
	if err := Validate(lat2, lng2); err != nil {
		return 0, err
	}

	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusM * math.Atan2(math.Sqrt(a), math.Sqrt(1-a)), nil
}

// Validate checks a latitude/longitude pair in degrees.
func Validate(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return ErrInvalidCoordinate
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
