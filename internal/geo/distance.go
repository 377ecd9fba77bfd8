// Package geo provides great-circle distances and the asset-to-base
// distance matrix the optimizer consumes.
package geo

import "math"

// Coord is a WGS84 latitude/longitude pair in decimal degrees.
type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// HaversineKm returns the great-circle distance between two coordinates in
// kilometers.
func HaversineKm(a, b Coord) float64 {
	const R = 6371.0
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return R * c
}

// Matrix builds the assets x bases distance matrix in kilometers.
func Matrix(assets, bases []Coord) [][]float64 {
	dist := make([][]float64, len(assets))
	for i, a := range assets {
		dist[i] = make([]float64, len(bases))
		for j, b := range bases {
			dist[i][j] = HaversineKm(a, b)
		}
	}
	return dist
}
