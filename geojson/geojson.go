// Package geojson has small geometry helpers for lat/lng coordinates.
package geojson

import (
	"math"
)

// EarthRadiusM is the approximate radius of the earth in meters
const EarthRadiusM float64 = 6378137.0

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether p is a coordinate on the globe.
func (p Point) Valid() bool {
	return !math.IsNaN(p.Lat) && !math.IsNaN(p.Lng) &&
		p.Lat >= -90 && p.Lat <= 90 &&
		p.Lng >= -180 && p.Lng <= 180
}

// Distance is the distance in meters between p and q along the earth's surface.
func (p Point) Distance(q Point) float64 {
	return Haversine(p.Lng, p.Lat, q.Lng, q.Lat)
}

// Haversine computes the distance in meters across the world's surface between two lat/lng coordinates.
func Haversine(lonFrom float64, latFrom float64, lonTo float64, latTo float64) (distanceM float64) {
	var deltaLat = (latTo - latFrom) * (math.Pi / 180)
	var deltaLon = (lonTo - lonFrom) * (math.Pi / 180)

	var a = math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(latFrom*(math.Pi/180))*math.Cos(latTo*(math.Pi/180))*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	var c = 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	distanceM = EarthRadiusM * c

	return
}
