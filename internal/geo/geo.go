package geo

import (
	"errors"
	"math"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// ErrInvalidSpeed is returned when an ETA is requested for a stationary or
// invalid vehicle. Such a vehicle cannot be scored for dispatch.
var ErrInvalidSpeed = errors.New("speed must be greater than 0")

// DistanceKm returns the great-circle distance in kilometres between two
// points given in decimal degrees.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (math.Pi / 180) * (lat2 - lat1)
	dLng := (math.Pi / 180) * (lng2 - lng1)

	rLat1 := (math.Pi / 180) * lat1
	rLat2 := (math.Pi / 180) * lat2

	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Pow(math.Sin(dLng/2), 2)*math.Cos(rLat1)*math.Cos(rLat2)

	return earthRadiusKm * 2 * math.Asin(math.Sqrt(a))
}

// ETAMinutes converts a distance and a speed in km/h into travel minutes.
func ETAMinutes(distanceKm, speedKmPerHour float64) (float64, error) {
	if speedKmPerHour <= 0 {
		return 0, ErrInvalidSpeed
	}
	return (distanceKm / speedKmPerHour) * 60, nil
}
